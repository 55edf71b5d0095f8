package bridge

import (
	"errors"
	"testing"

	"github.com/justyntemme/mark/internal/menu"
)

func mustMenu(t *testing.T) *menu.Menu {
	t.Helper()
	m, err := menu.Default()
	if err != nil {
		t.Fatalf("menu.Default: %v", err)
	}
	return m
}

func TestActivate_ItemForwardsIdentifier(t *testing.T) {
	m := mustMenu(t)
	b := New(4)
	events, err := b.Subscribe()
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	save, _ := m.Lookup(menu.IDSave)
	find, _ := m.Lookup(menu.IDFind)
	if !b.Activate(save) {
		t.Fatal("Activate(save) was not queued")
	}
	if !b.Activate(find) {
		t.Fatal("Activate(find) was not queued")
	}

	if ev := <-events; ev.ID != "save" {
		t.Errorf("expected first event %q, got %q", "save", ev.ID)
	}
	if ev := <-events; ev.ID != "find" {
		t.Errorf("expected second event %q, got %q", "find", ev.ID)
	}
	select {
	case ev := <-events:
		t.Errorf("unexpected extra event %q", ev.ID)
	default:
	}
}

func TestActivate_PlatformNodesProduceNoEvent(t *testing.T) {
	m := mustMenu(t)
	b := New(4)
	events, err := b.Subscribe()
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	for _, g := range m.Groups {
		for _, n := range g.Children {
			if _, ok := n.(*menu.Item); ok {
				continue
			}
			if b.Activate(n) {
				t.Errorf("Activate(%T) queued an event", n)
			}
		}
	}
	if b.Activate(m.Groups[0]) {
		t.Error("Activate(submenu) queued an event")
	}

	select {
	case ev := <-events:
		t.Errorf("unexpected event %q", ev.ID)
	default:
	}
}

func TestActivate_DisabledItem(t *testing.T) {
	b := New(1)
	if _, err := b.Subscribe(); err != nil {
		t.Fatal(err)
	}
	it := menu.Action("x", "X", "")
	it.Enabled = false
	if b.Activate(it) {
		t.Error("disabled item was forwarded")
	}
}

func TestSubscribe_OnlyOnce(t *testing.T) {
	b := New(1)
	if _, err := b.Subscribe(); err != nil {
		t.Fatalf("first Subscribe: %v", err)
	}
	if _, err := b.Subscribe(); !errors.Is(err, ErrAlreadySubscribed) {
		t.Errorf("expected ErrAlreadySubscribed, got %v", err)
	}
}

func TestForward_Failures(t *testing.T) {
	t.Run("no subscriber", func(t *testing.T) {
		b := New(1)
		if err := b.Forward("save"); !errors.Is(err, ErrNoSubscriber) {
			t.Errorf("expected ErrNoSubscriber, got %v", err)
		}
	})

	t.Run("queue full", func(t *testing.T) {
		b := New(1)
		if _, err := b.Subscribe(); err != nil {
			t.Fatal(err)
		}
		if err := b.Forward("save"); err != nil {
			t.Fatalf("first Forward: %v", err)
		}
		if err := b.Forward("save_as"); !errors.Is(err, ErrQueueFull) {
			t.Errorf("expected ErrQueueFull, got %v", err)
		}
		forwarded, dropped := b.Stats()
		if forwarded != 1 || dropped != 1 {
			t.Errorf("expected 1 forwarded / 1 dropped, got %d / %d", forwarded, dropped)
		}
	})

	t.Run("closed", func(t *testing.T) {
		b := New(1)
		events, err := b.Subscribe()
		if err != nil {
			t.Fatal(err)
		}
		b.Close()
		b.Close()
		if err := b.Forward("save"); !errors.Is(err, ErrClosed) {
			t.Errorf("expected ErrClosed, got %v", err)
		}
		if _, ok := <-events; ok {
			t.Error("expected closed stream")
		}
		if _, err := b.Subscribe(); !errors.Is(err, ErrClosed) {
			t.Errorf("expected ErrClosed from Subscribe, got %v", err)
		}
	})
}

func TestActivate_SwallowsFailures(t *testing.T) {
	m := mustMenu(t)
	save, _ := m.Lookup(menu.IDSave)

	b := New(1)
	// No subscriber yet: dropped, no panic
	if b.Activate(save) {
		t.Error("expected drop without subscriber")
	}
	b.Close()
	if b.Activate(save) {
		t.Error("expected drop after close")
	}
	if _, dropped := b.Stats(); dropped != 2 {
		t.Errorf("expected 2 dropped, got %d", dropped)
	}
}

func TestNew_DefaultCapacity(t *testing.T) {
	b := New(0)
	if cap(b.events) != DefaultCapacity {
		t.Errorf("expected capacity %d, got %d", DefaultCapacity, cap(b.events))
	}
}
