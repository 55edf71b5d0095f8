package workspace

import (
	"os"
	"sync"

	"github.com/justyntemme/mark/internal/debug"
)

// Finder runs find bar queries for a frame loop. Name, path and extension
// terms are answered inline; queries that read document contents run in the
// background, and Result returns the last finished result until the new one
// is published. Only the newest query's result is ever kept.
type Finder struct {
	mu      sync.Mutex
	gen     uint64
	query   string
	docs    []Document
	out     []Document
	running bool

	changed func()
	async   func(func())
	read    func(path string) ([]byte, error)
}

// NewFinder creates a finder. changed is called after a background search
// publishes its result.
func NewFinder(changed func()) *Finder {
	return &Finder{
		changed: changed,
		async:   func(fn func()) { go fn() },
		read:    os.ReadFile,
	}
}

// Result returns the documents matching query. It never reads documents on
// the calling goroutine.
func (f *Finder) Result(query string, docs []Document) []Document {
	f.mu.Lock()
	if query == f.query && sameDocs(docs, f.docs) {
		out := f.out
		f.mu.Unlock()
		return out
	}

	filter := ParseFilter(query)
	filter.read = f.read
	if !sameDocs(docs, f.docs) {
		f.out = nil
	}
	f.query, f.docs = query, docs
	f.gen++

	if !filter.ReadsContents() {
		f.out = filter.Apply(docs)
		f.running = false
		out := f.out
		f.mu.Unlock()
		return out
	}

	gen := f.gen
	f.running = true
	out := f.out
	f.mu.Unlock()

	f.async(func() {
		found := filter.Apply(docs)
		f.mu.Lock()
		if gen != f.gen {
			f.mu.Unlock()
			debug.Log(debug.WORKSPACE, "find %q: superseded", query)
			return
		}
		f.out = found
		f.running = false
		f.mu.Unlock()
		debug.Log(debug.WORKSPACE, "find %q: %d of %d documents", query, len(found), len(docs))
		if f.changed != nil {
			f.changed()
		}
	})
	return out
}

// Running reports whether a contents search is still in flight.
func (f *Finder) Running() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running
}

// sameDocs compares document lists by identity; a rescan always yields a new slice.
func sameDocs(a, b []Document) bool {
	if len(a) != len(b) {
		return false
	}
	return len(a) == 0 || &a[0] == &b[0]
}
