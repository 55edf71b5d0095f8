package menu

// Identifiers shared with the UI layer. Changing one requires a matching
// change on the UI side.
const (
	IDNewFile          = "new_file"
	IDOpenFile         = "open_file"
	IDOpenFolder       = "open_folder"
	IDSave             = "save"
	IDSaveAs           = "save_as"
	IDCloseTab         = "close_tab"
	IDFind             = "find"
	IDTogglePreview    = "toggle_preview"
	IDToggleLinter     = "toggle_linter"
	IDToggleSidebar    = "toggle_sidebar"
	IDToggleFullscreen = "toggle_fullscreen"
	IDShortcuts        = "shortcuts"
	IDCheatsheet       = "cheatsheet"
	IDAbout            = "about"
)

// Catalog returns the application menu: File, Edit, View, Help, in that order.
// Each call returns a fresh tree.
func Catalog() []*Submenu {
	// ── Datei ──
	file := Group("Datei",
		Action(IDNewFile, "Neue Datei", "CmdOrCtrl+N"),
		Action(IDOpenFile, "Öffnen...", "CmdOrCtrl+O"),
		Action(IDOpenFolder, "Ordner öffnen...", "CmdOrCtrl+Shift+O"),
		Separator{},
		Action(IDSave, "Speichern", "CmdOrCtrl+S"),
		Action(IDSaveAs, "Speichern unter...", "CmdOrCtrl+Shift+S"),
		Separator{},
		Action(IDCloseTab, "Tab schließen", "CmdOrCtrl+W"),
		Separator{},
		PredefinedItem(RoleQuit, "Beenden"),
	)

	// ── Bearbeiten ──
	edit := Group("Bearbeiten",
		PredefinedItem(RoleUndo, "Rückgängig"),
		PredefinedItem(RoleRedo, "Wiederherstellen"),
		Separator{},
		PredefinedItem(RoleCut, "Ausschneiden"),
		PredefinedItem(RoleCopy, "Kopieren"),
		PredefinedItem(RolePaste, "Einfügen"),
		PredefinedItem(RoleSelectAll, "Alles auswählen"),
		Separator{},
		Action(IDFind, "Suchen", "CmdOrCtrl+F"),
	)

	// ── Ansicht ──
	view := Group("Ansicht",
		Action(IDTogglePreview, "Vorschau ein/aus", "CmdOrCtrl+P"),
		Action(IDToggleLinter, "Linter ein/aus", "CmdOrCtrl+L"),
		Separator{},
		Action(IDToggleSidebar, "Sidebar ein/aus", "CmdOrCtrl+B"),
		Separator{},
		Action(IDToggleFullscreen, "Vollbild", "F11"),
	)

	// ── Hilfe ──
	help := Group("Hilfe",
		Action(IDShortcuts, "Tastenkürzel", "CmdOrCtrl+/"),
		Action(IDCheatsheet, "Markdown Cheatsheet", ""),
		Separator{},
		Action(IDAbout, "Über Mark", ""),
	)

	return []*Submenu{file, edit, view, help}
}
