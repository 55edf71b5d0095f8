// Package menu defines the application menu tree and validates it.
//
// The tree is declarative and read-only once built. Only Item leaves carry an
// identifier; the identifier is the sole key the UI layer uses to map a
// selection to behavior, so it must be unique across the whole tree.
package menu

import (
	"errors"
	"fmt"

	"gioui.org/io/key"
)

// Node is one entry in the menu tree: *Item, *Submenu, Separator or *Predefined.
type Node interface {
	isNode()
}

// Item is an application action. Activating it emits its ID.
type Item struct {
	ID          string
	Label       string
	Enabled     bool
	Chord       string // Accelerator source, e.g. "CmdOrCtrl+S"
	Accelerator Accelerator
}

// Submenu is a labeled, ordered group of nodes.
type Submenu struct {
	Label    string
	Children []Node
}

// Separator is a visual divider.
type Separator struct{}

// Predefined is a platform-owned entry (undo, copy, quit...). It never emits
// an identifier.
type Predefined struct {
	Role  Role
	Label string
}

func (*Item) isNode()       {}
func (*Submenu) isNode()    {}
func (Separator) isNode()   {}
func (*Predefined) isNode() {}

// Role identifies the platform behavior of a Predefined entry.
type Role int

const (
	RoleUndo Role = iota
	RoleRedo
	RoleCut
	RoleCopy
	RolePaste
	RoleSelectAll
	RoleQuit
)

var roleNames = map[Role]string{
	RoleUndo:      "undo",
	RoleRedo:      "redo",
	RoleCut:       "cut",
	RoleCopy:      "copy",
	RolePaste:     "paste",
	RoleSelectAll: "select_all",
	RoleQuit:      "quit",
}

// roleChords are the chords the platform binds to each role. They share the
// accelerator namespace with Items.
var roleChords = map[Role]string{
	RoleUndo:      "CmdOrCtrl+Z",
	RoleRedo:      "CmdOrCtrl+Shift+Z",
	RoleCut:       "CmdOrCtrl+X",
	RoleCopy:      "CmdOrCtrl+C",
	RolePaste:     "CmdOrCtrl+V",
	RoleSelectAll: "CmdOrCtrl+A",
	RoleQuit:      "CmdOrCtrl+Q",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

// Accelerator returns the platform chord bound to the role.
func (r Role) Accelerator() Accelerator {
	return MustParseAccelerator(roleChords[r])
}

// Action declares an enabled Item. chord may be empty.
func Action(id, label, chord string) *Item {
	return &Item{ID: id, Label: label, Enabled: true, Chord: chord}
}

// PredefinedItem declares a platform-owned entry with a display label override.
func PredefinedItem(role Role, label string) *Predefined {
	return &Predefined{Role: role, Label: label}
}

// Group declares a Submenu.
func Group(label string, children ...Node) *Submenu {
	return &Submenu{Label: label, Children: children}
}

var (
	ErrDuplicateID          = errors.New("duplicate menu identifier")
	ErrDuplicateAccelerator = errors.New("duplicate accelerator")
	ErrInvalidNode          = errors.New("invalid menu node")
)

// Menu is a validated menu tree.
type Menu struct {
	Groups []*Submenu

	items []*Item
	byID  map[string]*Item
}

// Build parses accelerators and validates the tree. Any error means the menu
// must not be installed.
func Build(groups ...*Submenu) (*Menu, error) {
	m := &Menu{
		Groups: groups,
		byID:   make(map[string]*Item),
	}
	chords := make(map[Accelerator]string)

	claim := func(a Accelerator, owner string) error {
		if a.IsEmpty() {
			return nil
		}
		if prev, ok := chords[a]; ok {
			return fmt.Errorf("%w: %s used by %q and %q", ErrDuplicateAccelerator, a, prev, owner)
		}
		chords[a] = owner
		return nil
	}

	var walk func(nodes []Node, path string) error
	walk = func(nodes []Node, path string) error {
		for _, n := range nodes {
			switch n := n.(type) {
			case *Item:
				if n.ID == "" || n.Label == "" {
					return fmt.Errorf("%w: item under %q needs an id and a label", ErrInvalidNode, path)
				}
				if _, ok := m.byID[n.ID]; ok {
					return fmt.Errorf("%w: %q", ErrDuplicateID, n.ID)
				}
				acc, err := ParseAccelerator(n.Chord)
				if err != nil {
					return fmt.Errorf("item %q: %w", n.ID, err)
				}
				n.Accelerator = acc
				if err := claim(acc, n.ID); err != nil {
					return err
				}
				m.byID[n.ID] = n
				m.items = append(m.items, n)
			case *Submenu:
				if n.Label == "" {
					return fmt.Errorf("%w: submenu under %q needs a label", ErrInvalidNode, path)
				}
				if err := walk(n.Children, path+"/"+n.Label); err != nil {
					return err
				}
			case *Predefined:
				if _, ok := roleNames[n.Role]; !ok {
					return fmt.Errorf("%w: unknown role %v under %q", ErrInvalidNode, n.Role, path)
				}
				if err := claim(n.Role.Accelerator(), n.Role.String()); err != nil {
					return err
				}
			case Separator:
			default:
				return fmt.Errorf("%w: %T under %q", ErrInvalidNode, n, path)
			}
		}
		return nil
	}

	for _, g := range groups {
		if g == nil || g.Label == "" {
			return nil, fmt.Errorf("%w: top-level group needs a label", ErrInvalidNode)
		}
		if err := walk(g.Children, g.Label); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Default builds the application catalog.
func Default() (*Menu, error) {
	return Build(Catalog()...)
}

// Lookup returns the Item with the given identifier.
func (m *Menu) Lookup(id string) (*Item, bool) {
	it, ok := m.byID[id]
	return it, ok
}

// Items returns every Item in tree order.
func (m *Menu) Items() []*Item {
	out := make([]*Item, len(m.items))
	copy(out, m.items)
	return out
}

// Match returns the enabled Item whose accelerator matches the key event.
func (m *Menu) Match(e key.Event) (*Item, bool) {
	for _, it := range m.items {
		if it.Enabled && it.Accelerator.Matches(e) {
			return it, true
		}
	}
	return nil, false
}
