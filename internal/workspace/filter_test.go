package workspace

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func docs(rels ...string) []Document {
	out := make([]Document, len(rels))
	for i, rel := range rels {
		out[i] = Document{Name: filepath.Base(rel), Path: "/ws/" + rel, Rel: rel}
	}
	return out
}

func rels(ds []Document) []string {
	var out []string
	for _, d := range ds {
		out = append(out, d.Rel)
	}
	return out
}

func TestParseFilter_Terms(t *testing.T) {
	tests := []struct {
		input string
		want  []term
	}{
		{"", nil},
		{"   ", nil},
		{"Todo", []term{{termName, "todo"}}},
		{"ext:md", []term{{termExt, ".md"}}},
		{"ext:.MD", []term{{termExt, ".md"}}},
		{"path:notes/*", []term{{termPath, "notes/*"}}},
		{`contents:"hello world"`, []term{{termContents, "hello world"}}},
		{"name:draft ext:md", []term{{termName, "draft"}, {termExt, ".md"}}},
		{"unknown:x", []term{{termName, "unknown:x"}}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseFilter(tt.input).terms
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseFilter(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFilter_Apply(t *testing.T) {
	all := docs("README.md", "notes/todo.md", "notes/ideas.markdown", "archive/old-todo.txt")

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"README.md", "notes/todo.md", "notes/ideas.markdown", "archive/old-todo.txt"}},
		{"todo", []string{"notes/todo.md", "archive/old-todo.txt"}},
		{"todo ext:md", []string{"notes/todo.md"}},
		{"path:notes/*", []string{"notes/todo.md", "notes/ideas.markdown"}},
		{"*.markdown", []string{"notes/ideas.markdown"}},
		{"read*md", []string{"README.md"}},
		{"nothing", nil},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := rels(ParseFilter(tt.query).Apply(all))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("query %q = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestFilter_Contents(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "a.md")
	b := filepath.Join(root, "b.md")
	if err := os.WriteFile(a, []byte("# Groceries\nBuy Milk\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(b, []byte("# Work\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	all := []Document{
		{Name: "a.md", Path: a, Rel: "a.md"},
		{Name: "b.md", Path: b, Rel: "b.md"},
		{Name: "gone.md", Path: filepath.Join(root, "gone.md"), Rel: "gone.md"},
	}

	f := ParseFilter("contents:milk")
	if !f.ReadsContents() {
		t.Error("contents filter should read documents")
	}
	if got := rels(f.Apply(all)); !reflect.DeepEqual(got, []string{"a.md"}) {
		t.Errorf("got %v, want [a.md]", got)
	}
	if ParseFilter("milk").ReadsContents() {
		t.Error("name filter should not read documents")
	}
}

func TestMatchGlob(t *testing.T) {
	tests := []struct {
		name, pattern string
		want          bool
	}{
		{"notes.md", "note", true},
		{"notes.md", "*.md", true},
		{"notes.md", "n*s.md", true},
		{"notes.md", "*.txt", false},
		{"ab", "a*b*b", false},
		{"abab", "a*b*b", true},
		{"x", "*", true},
	}
	for _, tt := range tests {
		if got := matchGlob(tt.name, tt.pattern); got != tt.want {
			t.Errorf("matchGlob(%q, %q) = %v, want %v", tt.name, tt.pattern, got, tt.want)
		}
	}
}
