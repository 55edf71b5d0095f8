package bridge

import "testing"

func TestHandoff_DeliversOnce(t *testing.T) {
	paths := []string{"/a.md", "/b.md"}
	h := NewHandoff(paths)
	paths[0] = "/mutated.md"

	if !h.Pending() {
		t.Fatal("expected pending delivery")
	}

	var calls int
	var got []string
	receive := func(p []string) {
		calls++
		got = p
	}

	if !h.Deliver(receive) {
		t.Fatal("first Deliver did not deliver")
	}
	if h.Deliver(receive) {
		t.Error("second Deliver delivered again")
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
	if len(got) != 2 || got[0] != "/a.md" || got[1] != "/b.md" {
		t.Errorf("unexpected paths %v", got)
	}
	if h.Pending() {
		t.Error("expected nothing pending after delivery")
	}
}

func TestHandoff_EmptyNeverDelivers(t *testing.T) {
	for _, paths := range [][]string{nil, {}} {
		h := NewHandoff(paths)
		if h.Pending() {
			t.Error("empty handoff reports pending")
		}
		called := false
		if h.Deliver(func([]string) { called = true }) || called {
			t.Errorf("empty handoff %v invoked the receiver", paths)
		}
	}
}
