package bridge

import (
	"sync"

	"github.com/justyntemme/mark/internal/debug"
)

// Handoff holds the resolved startup paths until the UI layer is ready for
// them. The paths are delivered at most once and never when empty.
type Handoff struct {
	once  sync.Once
	mu    sync.Mutex
	paths []string
}

// NewHandoff captures a copy of paths.
func NewHandoff(paths []string) *Handoff {
	cp := make([]string, len(paths))
	copy(cp, paths)
	return &Handoff{paths: cp}
}

// Pending reports whether a delivery is still outstanding.
func (h *Handoff) Pending() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.paths) > 0
}

// Deliver passes the paths to receive on the first call. Later calls and
// empty handoffs do nothing. It reports whether receive was invoked.
func (h *Handoff) Deliver(receive func(paths []string)) bool {
	delivered := false
	h.once.Do(func() {
		h.mu.Lock()
		paths := h.paths
		h.paths = nil
		h.mu.Unlock()

		if len(paths) == 0 {
			debug.Log(debug.APP, "no startup paths to deliver")
			return
		}
		debug.Log(debug.APP, "delivering %d startup path(s)", len(paths))
		receive(paths)
		delivered = true
	})
	return delivered
}
