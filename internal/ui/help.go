package ui

import (
	"embed"
	"fmt"
	"strings"

	"github.com/justyntemme/mark/internal/menu"
)

//go:embed help/*.md
var helpFiles embed.FS

func helpFile(name string) string {
	data, err := helpFiles.ReadFile("help/" + name)
	if err != nil {
		return fmt.Sprintf("# %s\n\nNicht verfügbar: %v\n", name, err)
	}
	return string(data)
}

// ShortcutsMarkdown lists every menu entry with its chord, one table per group.
func ShortcutsMarkdown(m *menu.Menu) string {
	var sb strings.Builder
	sb.WriteString("# Tastenkürzel\n")
	for _, g := range m.Groups {
		fmt.Fprintf(&sb, "\n## %s\n\n| Befehl | Tastenkürzel |\n|---|---|\n", g.Label)
		writeShortcutRows(&sb, g.Children)
	}
	return sb.String()
}

func writeShortcutRows(sb *strings.Builder, nodes []menu.Node) {
	for _, n := range nodes {
		switch n := n.(type) {
		case *menu.Item:
			fmt.Fprintf(sb, "| %s | %s |\n", strings.TrimSuffix(n.Label, "..."), chordText(n.Accelerator))
		case *menu.Predefined:
			fmt.Fprintf(sb, "| %s | %s |\n", n.Label, chordText(n.Role.Accelerator()))
		case *menu.Submenu:
			writeShortcutRows(sb, n.Children)
		}
	}
}

func chordText(a menu.Accelerator) string {
	if a.IsEmpty() {
		return "-"
	}
	return a.String()
}

// HelpPage returns the blocks shown for a help page.
func HelpPage(p Page, m *menu.Menu) []Block {
	switch p {
	case PageShortcuts:
		return ParseMarkdown(ShortcutsMarkdown(m))
	case PageCheatsheet:
		return ParseMarkdown(helpFile("cheatsheet.md"))
	case PageAbout:
		return ParseMarkdown(helpFile("about.md"))
	}
	return nil
}
