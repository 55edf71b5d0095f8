package ui

import (
	"image"
	"image/color"

	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"

	"github.com/justyntemme/mark/internal/debug"
	"github.com/justyntemme/mark/internal/menu"
)

// barEntry is one row of a dropdown. Submenu children are flattened with
// their nesting depth.
type barEntry struct {
	node  menu.Node
	depth int
	btn   widget.Clickable
}

type barGroup struct {
	label   string
	btn     widget.Clickable
	entries []*barEntry
	x       int // Left edge of the title, for the dropdown
}

// menuBar draws the menu tree inside the window and reports activations.
type menuBar struct {
	groups   []*barGroup
	open     int // Index of the open group, -1 when closed
	height   int
	backdrop widget.Clickable
	filters  []event.Filter
}

func newMenuBar(m *menu.Menu) *menuBar {
	b := &menuBar{open: -1}
	for _, g := range m.Groups {
		bg := &barGroup{label: g.Label}
		flattenEntries(&bg.entries, g.Children, 0)
		b.groups = append(b.groups, bg)
	}

	// Edit roles keep their chords for the focused text widget; quit and
	// every action item are intercepted here.
	for _, it := range m.Items() {
		if !it.Accelerator.IsEmpty() {
			b.filters = append(b.filters, it.Accelerator.Filter(nil))
		}
	}
	b.filters = append(b.filters, menu.RoleQuit.Accelerator().Filter(nil))
	return b
}

func flattenEntries(out *[]*barEntry, nodes []menu.Node, depth int) {
	for _, n := range nodes {
		*out = append(*out, &barEntry{node: n, depth: depth})
		if sub, ok := n.(*menu.Submenu); ok {
			flattenEntries(out, sub.Children, depth+1)
		}
	}
}

// accelerators drains key events for the registered chords and maps them to
// menu nodes.
func (b *menuBar) accelerators(gtx layout.Context, m *menu.Menu) []menu.Node {
	var out []menu.Node
	quit := menu.RoleQuit.Accelerator()
	for {
		e, ok := gtx.Event(b.filters...)
		if !ok {
			break
		}
		k, ok := e.(key.Event)
		if !ok || k.State != key.Press {
			continue
		}
		if it, ok := m.Match(k); ok {
			debug.Log(debug.MENU, "accelerator %s -> %s", it.Accelerator, it.ID)
			b.open = -1
			out = append(out, it)
			continue
		}
		if quit.Matches(k) {
			out = append(out, &menu.Predefined{Role: menu.RoleQuit})
		}
	}
	return out
}

// Layout draws the bar and schedules the open dropdown on top of everything.
// Selected nodes are appended to activated.
func (b *menuBar) Layout(gtx layout.Context, th *material.Theme, activated *[]menu.Node) layout.Dimensions {
	for i, g := range b.groups {
		if g.btn.Clicked(gtx) {
			if b.open == i {
				b.open = -1
			} else {
				b.open = i
			}
		}
	}

	children := make([]layout.FlexChild, 0, len(b.groups))
	x := 0
	for i, g := range b.groups {
		children = append(children, layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			g.x = x
			dims := material.Clickable(gtx, &g.btn, func(gtx layout.Context) layout.Dimensions {
				title := func(gtx layout.Context) layout.Dimensions {
					return layout.Inset{Top: unit.Dp(6), Bottom: unit.Dp(6), Left: unit.Dp(10), Right: unit.Dp(10)}.Layout(gtx, material.Body2(th, g.label).Layout)
				}
				if b.open != i {
					return title(gtx)
				}
				return layout.Background{}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
					paint.FillShape(gtx.Ops, colSelected, clip.Rect{Max: gtx.Constraints.Min}.Op())
					return layout.Dimensions{Size: gtx.Constraints.Min}
				}, title)
			})
			x += dims.Size.X
			return dims
		}))
	}

	dims := layout.Stack{}.Layout(gtx,
		layout.Expanded(func(gtx layout.Context) layout.Dimensions {
			paint.FillShape(gtx.Ops, colSidebar, clip.Rect{Max: gtx.Constraints.Min}.Op())
			return layout.Dimensions{Size: gtx.Constraints.Min}
		}),
		layout.Stacked(func(gtx layout.Context) layout.Dimensions {
			gtx.Constraints.Min.X = gtx.Constraints.Max.X
			return layout.Flex{Axis: layout.Horizontal}.Layout(gtx, children...)
		}),
	)
	b.height = dims.Size.Y

	if b.open >= 0 && b.open < len(b.groups) {
		macro := op.Record(gtx.Ops)
		b.layoutDropdown(gtx, th, b.groups[b.open], activated)
		op.Defer(gtx.Ops, macro.Stop())
	}
	return dims
}

func (b *menuBar) layoutDropdown(gtx layout.Context, th *material.Theme, g *barGroup, activated *[]menu.Node) {
	// Backdrop dismisses the dropdown on any outside click.
	if b.backdrop.Clicked(gtx) {
		b.open = -1
		gtx.Execute(op.InvalidateCmd{})
		return
	}
	b.backdrop.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Dimensions{Size: gtx.Constraints.Max}
	})

	defer op.Offset(image.Pt(g.x, b.height)).Push(gtx.Ops).Pop()
	gtx.Constraints.Min = image.Point{}

	rows := make([]layout.FlexChild, 0, len(g.entries))
	for _, e := range g.entries {
		rows = append(rows, layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return b.layoutEntry(gtx, th, e, activated)
		}))
	}

	width := gtx.Dp(240)
	widget.Border{Color: colLightGray, Width: unit.Dp(1)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		gtx.Constraints.Min.X, gtx.Constraints.Max.X = width, width
		return layout.Stack{}.Layout(gtx,
			layout.Expanded(func(gtx layout.Context) layout.Dimensions {
				paint.FillShape(gtx.Ops, colWhite, clip.Rect{Max: gtx.Constraints.Min}.Op())
				return layout.Dimensions{Size: gtx.Constraints.Min}
			}),
			layout.Stacked(func(gtx layout.Context) layout.Dimensions {
				return layout.Flex{Axis: layout.Vertical}.Layout(gtx, rows...)
			}),
		)
	})
}

func (b *menuBar) layoutEntry(gtx layout.Context, th *material.Theme, e *barEntry, activated *[]menu.Node) layout.Dimensions {
	var label, chord string
	enabled := true
	switch n := e.node.(type) {
	case menu.Separator:
		return layout.Inset{Top: unit.Dp(4), Bottom: unit.Dp(4)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
			h := gtx.Dp(1)
			paint.FillShape(gtx.Ops, colLightGray, clip.Rect{Max: image.Pt(gtx.Constraints.Max.X, h)}.Op())
			return layout.Dimensions{Size: image.Pt(gtx.Constraints.Max.X, h)}
		})
	case *menu.Submenu:
		label, enabled = n.Label, false
	case *menu.Item:
		label, chord, enabled = n.Label, n.Accelerator.String(), n.Enabled
	case *menu.Predefined:
		label, chord = n.Label, n.Role.Accelerator().String()
	}

	if enabled && e.btn.Clicked(gtx) {
		b.open = -1
		*activated = append(*activated, e.node)
		gtx.Execute(op.InvalidateCmd{})
	}

	row := func(gtx layout.Context) layout.Dimensions {
		indent := unit.Dp(12 + 12*e.depth)
		return layout.Inset{Top: unit.Dp(6), Bottom: unit.Dp(6), Left: indent, Right: unit.Dp(12)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
			textColor := colBlack
			if !enabled {
				textColor = colDisabled
			}
			return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
				layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
					return labelWithColor(th, label, textColor).Layout(gtx)
				}),
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					return labelWithColor(th, chord, colGray).Layout(gtx)
				}),
			)
		})
	}
	if !enabled {
		return row(gtx)
	}
	return material.Clickable(gtx, &e.btn, row)
}

func labelWithColor(th *material.Theme, s string, c color.NRGBA) material.LabelStyle {
	lbl := material.Body2(th, s)
	lbl.Color = c
	return lbl
}
