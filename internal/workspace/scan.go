// Package workspace discovers the documents of an opened folder and watches
// it for changes.
package workspace

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/charlievieth/fastwalk"
	"github.com/justyntemme/mark/internal/debug"
)

// Document is a file shown in the sidebar.
type Document struct {
	Name string // Base name
	Path string // Absolute path
	Rel  string // Path relative to the workspace root, slash separated
}

// Snapshot is the result of scanning a workspace root.
type Snapshot struct {
	Root      string
	Documents []Document // Sorted by Rel
	Dirs      []string   // Every directory visited, root included
}

// Options controls a scan.
type Options struct {
	Extensions []string // Lower-case, with leading dot; empty = every file
	MaxDepth   int      // 0 = unlimited
}

// Scan walks root and returns the matching documents. Hidden files and
// directories are skipped; unreadable entries are ignored.
func Scan(root string, opts Options) (Snapshot, error) {
	info, err := os.Stat(root)
	if err != nil {
		return Snapshot{}, err
	}
	if !info.IsDir() {
		return Snapshot{}, &fs.PathError{Op: "scan", Path: root, Err: fs.ErrInvalid}
	}

	exts := make(map[string]bool, len(opts.Extensions))
	for _, e := range opts.Extensions {
		exts[strings.ToLower(e)] = true
	}

	var (
		mu   sync.Mutex
		docs []Document
		dirs = []string{root}
	)

	conf := &fastwalk.Config{Follow: false}
	err = fastwalk.Walk(conf, root, func(fullPath string, d fs.DirEntry, err error) error {
		if err != nil {
			debug.Log(debug.WORKSPACE, "scan: walk error at %q: %v", fullPath, err)
			return nil
		}
		if fullPath == root {
			return nil
		}

		rel, relErr := filepath.Rel(root, fullPath)
		if relErr != nil {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return fastwalk.SkipDir
			}
			return nil
		}

		depth := strings.Count(rel, string(filepath.Separator)) + 1
		if d.IsDir() {
			if opts.MaxDepth > 0 && depth >= opts.MaxDepth {
				return fastwalk.SkipDir
			}
			mu.Lock()
			dirs = append(dirs, fullPath)
			mu.Unlock()
			return nil
		}

		if len(exts) > 0 && !exts[strings.ToLower(filepath.Ext(d.Name()))] {
			return nil
		}

		mu.Lock()
		docs = append(docs, Document{
			Name: d.Name(),
			Path: fullPath,
			Rel:  filepath.ToSlash(rel),
		})
		mu.Unlock()
		return nil
	})
	if err != nil {
		return Snapshot{}, err
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].Rel < docs[j].Rel })
	sort.Strings(dirs[1:])

	debug.Log(debug.WORKSPACE, "scan %s: %d documents in %d directories", root, len(docs), len(dirs))
	return Snapshot{Root: root, Documents: docs, Dirs: dirs}, nil
}
