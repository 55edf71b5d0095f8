package ui

import (
	"reflect"
	"strings"
	"testing"

	"github.com/justyntemme/mark/internal/menu"
)

func TestParseMarkdown_BlockKinds(t *testing.T) {
	src := strings.Join([]string{
		"# Title",
		"",
		"Some *soft* text with `code`.",
		"",
		"- one",
		"- two",
		"  1. nested",
		"",
		"> quoted",
		"",
		"```",
		"x := 1",
		"```",
		"",
		"---",
	}, "\n")

	blocks := ParseMarkdown(src)
	var kinds []BlockKind
	for _, b := range blocks {
		kinds = append(kinds, b.Kind)
	}
	want := []BlockKind{BlockHeading, BlockParagraph, BlockList, BlockList, BlockList, BlockQuote, BlockCode, BlockRule}
	if !reflect.DeepEqual(kinds, want) {
		t.Fatalf("kinds = %v, want %v", kinds, want)
	}

	if blocks[0].Level != 1 || blocks[0].Text() != "Title" {
		t.Errorf("heading = %+v", blocks[0])
	}
	if got := blocks[1].Text(); got != "Some soft text with code." {
		t.Errorf("paragraph text = %q", got)
	}
	if got := blocks[2].Text(); got != "• one" {
		t.Errorf("list item = %q", got)
	}
	if blocks[4].Level != 1 || blocks[4].Text() != "1. nested" {
		t.Errorf("nested item = %+v", blocks[4])
	}
	if got := blocks[6].Text(); got != "x := 1" {
		t.Errorf("code = %q", got)
	}
}

func TestParseMarkdown_Spans(t *testing.T) {
	blocks := ParseMarkdown("**bold** _it_ [link](https://example.com)")
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}
	var bold, italic, link bool
	for _, s := range blocks[0].Spans {
		bold = bold || (s.Bold && s.Text == "bold")
		italic = italic || (s.Italic && s.Text == "it")
		link = link || (s.Link == "https://example.com" && s.Text == "link")
	}
	if !bold || !italic || !link {
		t.Errorf("missing styles bold=%v italic=%v link=%v in %+v", bold, italic, link, blocks[0].Spans)
	}
}

func TestParseMarkdown_OrderedNumbering(t *testing.T) {
	blocks := ParseMarkdown("3. c\n4. d\n")
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}
	if blocks[0].Text() != "3. c" || blocks[1].Text() != "4. d" {
		t.Errorf("got %q, %q", blocks[0].Text(), blocks[1].Text())
	}
}

func TestShortcutsMarkdown(t *testing.T) {
	m, err := menu.Default()
	if err != nil {
		t.Fatalf("menu.Default: %v", err)
	}
	blocks := ParseMarkdown(ShortcutsMarkdown(m))

	var tables [][][]string
	for _, b := range blocks {
		if b.Kind == BlockTable {
			tables = append(tables, b.Cells)
		}
	}
	if len(tables) != len(m.Groups) {
		t.Fatalf("expected one table per group (%d), got %d", len(m.Groups), len(tables))
	}

	rows := make(map[string]string)
	for _, table := range tables {
		if !reflect.DeepEqual(table[0], []string{"Befehl", "Tastenkürzel"}) {
			t.Errorf("unexpected header %v", table[0])
		}
		for _, row := range table[1:] {
			rows[row[0]] = row[1]
		}
	}

	save, _ := m.Lookup(menu.IDSave)
	if got := rows["Speichern"]; got != save.Accelerator.String() {
		t.Errorf("Speichern = %q, want %q", got, save.Accelerator.String())
	}
	if got := rows["Öffnen"]; got == "" || got == "-" {
		t.Errorf("Öffnen has no chord: %q", got)
	}
	if got := rows["Über Mark"]; got != "-" {
		t.Errorf("entries without a chord show a dash, got %q", got)
	}
	if got := rows["Beenden"]; got != menu.RoleQuit.Accelerator().String() {
		t.Errorf("Beenden = %q", got)
	}
}

func TestHelpPage(t *testing.T) {
	m, err := menu.Default()
	if err != nil {
		t.Fatalf("menu.Default: %v", err)
	}
	for _, p := range []Page{PageShortcuts, PageCheatsheet, PageAbout} {
		blocks := HelpPage(p, m)
		if len(blocks) == 0 || blocks[0].Kind != BlockHeading {
			t.Errorf("page %d: expected a leading heading, got %+v", p, blocks)
		}
	}
	if HelpPage(PageNone, m) != nil {
		t.Error("PageNone should have no blocks")
	}
}
