package workspace

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func writeDocs(t *testing.T, files map[string]string) []Document {
	t.Helper()
	root := t.TempDir()
	var out []Document
	for _, name := range []string{"a.md", "b.md"} {
		path := filepath.Join(root, name)
		if err := os.WriteFile(path, []byte(files[name]), 0o644); err != nil {
			t.Fatal(err)
		}
		out = append(out, Document{Name: name, Path: path, Rel: name})
	}
	return out
}

func TestFinder_ContentsDoNotBlock(t *testing.T) {
	all := writeDocs(t, map[string]string{"a.md": "milk", "b.md": "bread"})

	release := make(chan struct{})
	published := make(chan struct{}, 1)
	f := NewFinder(func() { published <- struct{}{} })
	f.read = func(path string) ([]byte, error) {
		<-release
		return os.ReadFile(path)
	}

	returned := make(chan []Document, 1)
	go func() { returned <- f.Result("contents:milk", all) }()

	select {
	case got := <-returned:
		if got != nil {
			t.Errorf("expected no result before the search finishes, got %v", rels(got))
		}
	case <-time.After(time.Second):
		t.Fatal("Result waited for a document read")
	}
	if !f.Running() {
		t.Error("expected a search in flight")
	}

	close(release)
	select {
	case <-published:
	case <-time.After(5 * time.Second):
		t.Fatal("search result was never published")
	}
	if got := rels(f.Result("contents:milk", all)); !reflect.DeepEqual(got, []string{"a.md"}) {
		t.Errorf("got %v, want [a.md]", got)
	}
	if f.Running() {
		t.Error("search still marked running")
	}
}

func TestFinder_DropsSupersededResults(t *testing.T) {
	all := writeDocs(t, map[string]string{"a.md": "milk", "b.md": "bread"})

	var queued []func()
	changes := 0
	f := NewFinder(func() { changes++ })
	f.async = func(fn func()) { queued = append(queued, fn) }

	f.Result("contents:milk", all)
	f.Result("contents:bread", all)
	if len(queued) != 2 {
		t.Fatalf("expected 2 background searches, got %d", len(queued))
	}

	// The newer search finishes first; the older one must not overwrite it
	queued[1]()
	queued[0]()

	if got := rels(f.Result("contents:bread", all)); !reflect.DeepEqual(got, []string{"b.md"}) {
		t.Errorf("got %v, want [b.md]", got)
	}
	if changes != 1 {
		t.Errorf("expected 1 redraw, got %d", changes)
	}
}

func TestFinder_NameQueriesAreInline(t *testing.T) {
	all := docs("notes/todo.md", "README.md")
	f := NewFinder(nil)
	f.async = func(func()) { t.Fatal("name query ran in the background") }

	if got := rels(f.Result("todo", all)); !reflect.DeepEqual(got, []string{"notes/todo.md"}) {
		t.Errorf("got %v", got)
	}
	if got := f.Result("", all); len(got) != 2 {
		t.Errorf("empty query should return every document, got %d", len(got))
	}
}
