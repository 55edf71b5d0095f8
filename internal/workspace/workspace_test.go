package workspace

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTree(t *testing.T, root string, files []string) {
	t.Helper()
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte("# doc\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestScan(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, []string{
		"README.md",
		"notes/b.markdown",
		"notes/a.MD",
		"notes/deep/deeper/c.md",
		"image.png",
		".hidden/secret.md",
		".dotfile.md",
	})

	snap, err := Scan(root, Options{Extensions: []string{".md", ".markdown"}})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	want := []string{"README.md", "notes/a.MD", "notes/b.markdown", "notes/deep/deeper/c.md"}
	if len(snap.Documents) != len(want) {
		t.Fatalf("expected %v, got %+v", want, snap.Documents)
	}
	for i, d := range snap.Documents {
		if d.Rel != want[i] {
			t.Errorf("index %d: expected %q, got %q", i, want[i], d.Rel)
		}
		if !filepath.IsAbs(d.Path) {
			t.Errorf("expected absolute path, got %q", d.Path)
		}
	}
	if snap.Dirs[0] != root {
		t.Errorf("expected root first in Dirs, got %q", snap.Dirs[0])
	}
	for _, d := range snap.Dirs {
		if filepath.Base(d) == ".hidden" {
			t.Error("hidden directory should not be visited")
		}
	}
}

func TestScan_MaxDepth(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, []string{"top.md", "one/mid.md", "one/two/low.md"})

	snap, err := Scan(root, Options{Extensions: []string{".md"}, MaxDepth: 2})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	for _, d := range snap.Documents {
		if d.Name == "low.md" {
			t.Errorf("document beyond max depth returned: %s", d.Rel)
		}
	}
	if len(snap.Documents) != 2 {
		t.Errorf("expected 2 documents, got %d", len(snap.Documents))
	}
}

func TestScan_NotADirectory(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "x.md")
	writeTree(t, root, []string{"x.md"})

	if _, err := Scan(file, Options{}); err == nil {
		t.Error("expected error scanning a file")
	}
	if _, err := Scan(filepath.Join(root, "missing"), Options{}); err == nil {
		t.Error("expected error scanning a missing path")
	}
}

func TestWatcher_TrackAndNotify(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, []string{"a.md", "sub/b.md"})

	snap, err := Scan(root, Options{Extensions: []string{".md"}})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	w, err := NewWatcher(20)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	w.Track(snap)
	if !w.Watching(root) || !w.Watching(filepath.Join(root, "sub")) {
		t.Fatal("expected root and sub to be watched")
	}

	writeTree(t, root, []string{"sub/new.md"})

	select {
	case got := <-w.Notify():
		if got != root {
			t.Errorf("expected notification for %q, got %q", root, got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change notification")
	}

	w.Track(Snapshot{Root: root, Dirs: []string{root}})
	if w.Watching(filepath.Join(root, "sub")) {
		t.Error("sub should no longer be watched")
	}
}

func TestWatcher_CloseEndsNotify(t *testing.T) {
	w, err := NewWatcher(20)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}

	done := make(chan struct{})
	go func() {
		for range w.Notify() {
		}
		close(done)
	}()

	if err := w.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Notify stayed open after Close")
	}
}
