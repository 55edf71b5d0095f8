package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/justyntemme/mark/internal/debug"
	"github.com/justyntemme/mark/internal/menu"
	"github.com/justyntemme/mark/internal/workspace"
)

// Picker opens native file and folder dialogs. Implementations block and
// return an empty path when the user cancels.
type Picker interface {
	OpenFile(startDir string) (string, error)
	SaveFile(startDir string) (string, error)
	OpenFolder(startDir string) (string, error)
}

// Hooks connect the frontend to the host. Nil hooks are skipped.
type Hooks struct {
	Changed       func()                  // State changed, redraw
	SaveSetting   func(key, value string) // Persist a view toggle
	OpenWorkspace func(root string)       // Scan and watch a folder
	Opened        func(paths []string)    // Record opened documents
	Resolve       func(path string) string
}

// Page is a help page shown over the editor area.
type Page int

const (
	PageNone Page = iota
	PageShortcuts
	PageCheatsheet
	PageAbout
)

// Tab is an open document.
type Tab struct {
	Path     string // Empty for untitled documents
	Title    string
	Untitled bool
}

// View holds the View menu toggles.
type View struct {
	Preview    bool
	Linter     bool
	Sidebar    bool
	Fullscreen bool
}

// Snapshot is an immutable view of frontend state for rendering
type Snapshot struct {
	Tabs      []Tab
	Active    int // -1 when no tab is open
	View      View
	FindOpen  bool
	Page      Page
	Workspace workspace.Snapshot
	Recents   []string
	Status    string
}

// Settings keys shared with the store. They reuse the menu identifiers.
var viewSettings = []string{menu.IDTogglePreview, menu.IDToggleLinter, menu.IDToggleSidebar}

// Frontend is the UI layer: it receives startup paths and menu identifiers
// and maps them to behavior. All methods are safe for concurrent use.
type Frontend struct {
	mu        sync.RWMutex
	tabs      []Tab
	active    int
	view      View
	findOpen  bool
	page      Page
	workspace workspace.Snapshot
	wantRoot  string // Last folder requested; older scans are dropped
	recents   []string
	status    string
	untitled  int
	cwd       string

	picker   Picker
	hooks    Hooks
	handlers map[string]func()

	// async runs blocking work (dialogs) off the caller's goroutine
	async func(func())
}

// NewFrontend creates the UI layer with the initial view toggles.
func NewFrontend(view View, cwd string, picker Picker, hooks Hooks) *Frontend {
	f := &Frontend{
		active: -1,
		view:   view,
		cwd:    cwd,
		picker: picker,
		hooks:  hooks,
		async:  func(fn func()) { go fn() },
	}
	f.handlers = map[string]func(){
		menu.IDNewFile:          f.newFile,
		menu.IDOpenFile:         f.openFile,
		menu.IDOpenFolder:       f.openFolder,
		menu.IDSave:             f.save,
		menu.IDSaveAs:           f.saveAs,
		menu.IDCloseTab:         f.closeTab,
		menu.IDFind:             f.toggleFind,
		menu.IDTogglePreview:    func() { f.toggle(menu.IDTogglePreview, &f.view.Preview) },
		menu.IDToggleLinter:     func() { f.toggle(menu.IDToggleLinter, &f.view.Linter) },
		menu.IDToggleSidebar:    func() { f.toggle(menu.IDToggleSidebar, &f.view.Sidebar) },
		menu.IDToggleFullscreen: f.toggleFullscreen,
		menu.IDShortcuts:        func() { f.showPage(PageShortcuts) },
		menu.IDCheatsheet:       func() { f.showPage(PageCheatsheet) },
		menu.IDAbout:            func() { f.showPage(PageAbout) },
	}
	return f
}

// Handles reports whether the frontend maps id to a behavior.
func (f *Frontend) Handles(id string) bool {
	_, ok := f.handlers[id]
	return ok
}

// HandleAction runs the behavior for a menu identifier. Unknown identifiers
// are ignored.
func (f *Frontend) HandleAction(id string) {
	h, ok := f.handlers[id]
	if !ok {
		debug.Log(debug.UI, "no behavior for menu action %q", id)
		return
	}
	debug.Log(debug.UI, "menu action %q", id)
	h()
	f.changed()
}

// ReceiveArgs opens the startup paths: the first directory becomes the
// workspace, everything else a tab. Paths that do not exist yet open as new
// documents. Further directories are reported on the status line.
func (f *Frontend) ReceiveArgs(paths []string) {
	var files, ignored []string
	var root string
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if root == "" {
				root = p
			} else {
				ignored = append(ignored, p)
			}
			continue
		}
		files = append(files, p)
	}

	f.mu.Lock()
	for _, p := range files {
		f.openTabLocked(p)
	}
	if len(ignored) > 0 {
		debug.Log(debug.UI, "startup folders ignored: %v", ignored)
		f.status = fmt.Sprintf("Nur ein Ordner kann geöffnet werden, ignoriert: %s", strings.Join(ignored, ", "))
	}
	f.mu.Unlock()

	if root != "" {
		f.openWorkspace(root)
	}
	if len(files) > 0 && f.hooks.Opened != nil {
		f.hooks.Opened(files)
	}
	f.changed()
}

// ApplySettings restores persisted view toggles.
func (f *Frontend) ApplySettings(settings map[string]string) {
	f.mu.Lock()
	for _, key := range viewSettings {
		raw, ok := settings[key]
		if !ok {
			continue
		}
		on, err := strconv.ParseBool(raw)
		if err != nil {
			continue
		}
		switch key {
		case menu.IDTogglePreview:
			f.view.Preview = on
		case menu.IDToggleLinter:
			f.view.Linter = on
		case menu.IDToggleSidebar:
			f.view.Sidebar = on
		}
	}
	f.mu.Unlock()
	f.changed()
}

// SetRecents replaces the recently opened documents list.
func (f *Frontend) SetRecents(paths []string) {
	f.mu.Lock()
	f.recents = append([]string(nil), paths...)
	f.mu.Unlock()
	f.changed()
}

// SetWorkspace replaces the sidebar contents. Scans of a folder other than
// the most recently requested one are rejected; it reports whether snap was
// taken.
func (f *Frontend) SetWorkspace(snap workspace.Snapshot) bool {
	f.mu.Lock()
	if f.wantRoot != "" && snap.Root != f.wantRoot {
		f.mu.Unlock()
		debug.Log(debug.UI, "stale workspace scan %s, want %s", snap.Root, f.wantRoot)
		return false
	}
	f.workspace = snap
	f.view.Sidebar = true
	f.mu.Unlock()
	f.changed()
	return true
}

// SetFullscreen records a window mode change made outside the menu.
func (f *Frontend) SetFullscreen(on bool) {
	f.mu.Lock()
	changed := f.view.Fullscreen != on
	f.view.Fullscreen = on
	f.mu.Unlock()
	if changed {
		f.changed()
	}
}

// SetStatus replaces the status line.
func (f *Frontend) SetStatus(format string, args ...any) {
	f.mu.Lock()
	f.status = fmt.Sprintf(format, args...)
	f.mu.Unlock()
	f.changed()
}

// Select activates the tab at index i.
func (f *Frontend) Select(i int) {
	f.mu.Lock()
	if i >= 0 && i < len(f.tabs) {
		f.active = i
	}
	f.mu.Unlock()
	f.changed()
}

// Open opens path in a new tab, or focuses it when already open.
func (f *Frontend) Open(path string) {
	f.mu.Lock()
	f.openTabLocked(path)
	f.mu.Unlock()
	if f.hooks.Opened != nil {
		f.hooks.Opened([]string{path})
	}
	f.changed()
}

// ClosePage dismisses the help page.
func (f *Frontend) ClosePage() {
	f.mu.Lock()
	f.page = PageNone
	f.mu.Unlock()
	f.changed()
}

// Snapshot returns a copy of the current state
func (f *Frontend) Snapshot() Snapshot {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return Snapshot{
		Tabs:      append([]Tab(nil), f.tabs...),
		Active:    f.active,
		View:      f.view,
		FindOpen:  f.findOpen,
		Page:      f.page,
		Workspace: f.workspace,
		Recents:   append([]string(nil), f.recents...),
		Status:    f.status,
	}
}

func (f *Frontend) changed() {
	if f.hooks.Changed != nil {
		f.hooks.Changed()
	}
}

// openTabLocked focuses an existing tab for path or appends a new one.
func (f *Frontend) openTabLocked(path string) {
	for i, t := range f.tabs {
		if !t.Untitled && t.Path == path {
			f.active = i
			return
		}
	}
	f.tabs = append(f.tabs, Tab{Path: path, Title: filepath.Base(path)})
	f.active = len(f.tabs) - 1
}

func (f *Frontend) newFile() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.untitled++
	title := "Unbenannt"
	if f.untitled > 1 {
		title = fmt.Sprintf("Unbenannt %d", f.untitled)
	}
	f.tabs = append(f.tabs, Tab{Title: title, Untitled: true})
	f.active = len(f.tabs) - 1
}

func (f *Frontend) closeTab() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.active < 0 || f.active >= len(f.tabs) {
		return
	}
	f.tabs = append(f.tabs[:f.active], f.tabs[f.active+1:]...)
	if f.active >= len(f.tabs) {
		f.active = len(f.tabs) - 1
	}
}

func (f *Frontend) save() {
	f.mu.RLock()
	untitled := f.active >= 0 && f.tabs[f.active].Untitled
	f.mu.RUnlock()
	if untitled {
		f.saveAs()
		return
	}
	f.mu.Lock()
	f.status = "Speichern ist nicht verfügbar"
	f.mu.Unlock()
}

func (f *Frontend) toggleFind() {
	f.mu.Lock()
	f.findOpen = !f.findOpen
	f.mu.Unlock()
}

func (f *Frontend) toggle(key string, flag *bool) {
	f.mu.Lock()
	*flag = !*flag
	value := strconv.FormatBool(*flag)
	f.mu.Unlock()
	if f.hooks.SaveSetting != nil {
		f.hooks.SaveSetting(key, value)
	}
}

func (f *Frontend) toggleFullscreen() {
	f.mu.Lock()
	f.view.Fullscreen = !f.view.Fullscreen
	f.mu.Unlock()
}

func (f *Frontend) showPage(p Page) {
	f.mu.Lock()
	if f.page == p {
		f.page = PageNone
	} else {
		f.page = p
	}
	f.mu.Unlock()
}

func (f *Frontend) startDir() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.active >= 0 && !f.tabs[f.active].Untitled {
		return filepath.Dir(f.tabs[f.active].Path)
	}
	if f.workspace.Root != "" {
		return f.workspace.Root
	}
	return f.cwd
}

// pick runs a dialog asynchronously and hands the resolved choice to done.
// A cancelled dialog yields an empty path and does nothing.
func (f *Frontend) pick(choose func(p Picker, startDir string) (string, error), done func(path string)) {
	if f.picker == nil {
		f.SetStatus("Keine Dialoge verfügbar")
		return
	}
	start := f.startDir()
	f.async(func() {
		path, err := choose(f.picker, start)
		if err != nil {
			f.SetStatus("Dialog fehlgeschlagen: %v", err)
			return
		}
		if path == "" {
			return
		}
		if f.hooks.Resolve != nil {
			path = f.hooks.Resolve(path)
		}
		done(path)
		f.changed()
	})
}

func (f *Frontend) openFile() {
	f.pick(Picker.OpenFile, f.Open)
}

func (f *Frontend) openFolder() {
	f.pick(Picker.OpenFolder, f.openWorkspace)
}

// openWorkspace records root as the wanted workspace and asks the host to scan it.
func (f *Frontend) openWorkspace(root string) {
	f.mu.Lock()
	f.wantRoot = root
	f.mu.Unlock()
	if f.hooks.OpenWorkspace != nil {
		f.hooks.OpenWorkspace(root)
	}
}

func (f *Frontend) saveAs() {
	f.pick(Picker.SaveFile, func(path string) {
		f.mu.Lock()
		if f.active >= 0 {
			f.tabs[f.active] = Tab{Path: path, Title: filepath.Base(path)}
		} else {
			f.openTabLocked(path)
		}
		f.mu.Unlock()
		if f.hooks.Opened != nil {
			f.hooks.Opened([]string{path})
		}
	})
}
