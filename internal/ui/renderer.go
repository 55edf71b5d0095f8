package ui

import (
	"fmt"
	"image"

	"gioui.org/font"
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
	"github.com/justyntemme/mark/internal/workspace"
)

type UIAction int

const (
	ActionNone UIAction = iota
	ActionMenu          // Node was selected in the menu bar or by accelerator
	ActionSelectTab
	ActionOpen
	ActionClosePage
)

type UIEvent struct {
	Action UIAction
	Node   menu.Node
	Index  int
	Path   string
}

// sideEntry is one row of the sidebar: a section header or a document.
type sideEntry struct {
	label  string
	path   string
	header bool
}

// Renderer lays out the editor window. It owns widget state only; document
// state comes from the frontend snapshot each frame.
type Renderer struct {
	Theme *material.Theme

	menu *menu.Menu
	bar  *menuBar

	tabBtns []widget.Clickable

	sideList layout.List
	sideBtns []widget.Clickable

	findEditor  widget.Editor
	findFocused bool
	finder      *workspace.Finder

	page       Page
	pageBlocks []Block
	pageList   layout.List
	pageClose  widget.Clickable
	pageBg     widget.Clickable

	keyTag  struct{}
	focused bool
}

// NewRenderer creates the window renderer. invalidate requests a redraw
// when background work, such as a contents search, finishes.
func NewRenderer(m *menu.Menu, invalidate func()) *Renderer {
	r := &Renderer{
		Theme:  material.NewTheme(),
		menu:   m,
		bar:    newMenuBar(m),
		finder: workspace.NewFinder(invalidate),
	}
	r.sideList.Axis = layout.Vertical
	r.pageList.Axis = layout.Vertical
	r.findEditor.SingleLine = true
	r.findEditor.Submit = true
	return r
}

// Layout draws one frame and returns the user's actions in order.
func (r *Renderer) Layout(gtx layout.Context, snap Snapshot) []UIEvent {
	defer clip.Rect{Max: gtx.Constraints.Max}.Push(gtx.Ops).Pop()

	event.Op(gtx.Ops, &r.keyTag)
	if !r.focused {
		gtx.Execute(key.FocusCmd{Tag: &r.keyTag})
		r.focused = true
	}

	var events []UIEvent
	for _, n := range r.bar.accelerators(gtx, r.menu) {
		events = append(events, UIEvent{Action: ActionMenu, Node: n})
	}
	for {
		e, ok := gtx.Event(key.Filter{Name: key.NameEscape})
		if !ok {
			break
		}
		if k, ok := e.(key.Event); ok && k.State == key.Press && snap.Page != PageNone {
			events = append(events, UIEvent{Action: ActionClosePage})
		}
	}

	if snap.Page != r.page {
		r.page = snap.Page
		r.pageBlocks = HelpPage(snap.Page, r.menu)
		r.pageList.Position = layout.Position{}
		debug.Log(debug.UI, "help page %d: %d blocks", snap.Page, len(r.pageBlocks))
	}

	paint.Fill(gtx.Ops, colWhite)

	var activated []menu.Node
	layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return r.bar.Layout(gtx, r.Theme, &activated)
		}),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return r.layoutTabs(gtx, snap, &events)
		}),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			if !snap.FindOpen {
				r.findFocused = false
				return layout.Dimensions{}
			}
			return r.layoutFind(gtx)
		}),
		layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
			return layout.Stack{}.Layout(gtx,
				layout.Expanded(func(gtx layout.Context) layout.Dimensions {
					return r.layoutMain(gtx, snap, &events)
				}),
				layout.Stacked(func(gtx layout.Context) layout.Dimensions {
					if snap.Page == PageNone {
						return layout.Dimensions{}
					}
					return r.layoutPage(gtx, &events)
				}),
			)
		}),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return r.layoutStatus(gtx, snap)
		}),
	)

	for _, n := range activated {
		events = append(events, UIEvent{Action: ActionMenu, Node: n})
	}
	return events
}

func (r *Renderer) layoutTabs(gtx layout.Context, snap Snapshot, events *[]UIEvent) layout.Dimensions {
	if len(snap.Tabs) == 0 {
		return layout.Dimensions{}
	}
	for len(r.tabBtns) < len(snap.Tabs) {
		r.tabBtns = append(r.tabBtns, widget.Clickable{})
	}

	children := make([]layout.FlexChild, 0, len(snap.Tabs))
	for i, t := range snap.Tabs {
		btn := &r.tabBtns[i]
		if btn.Clicked(gtx) {
			*events = append(*events, UIEvent{Action: ActionSelectTab, Index: i})
		}
		active := i == snap.Active
		children = append(children, layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return material.Clickable(gtx, btn, func(gtx layout.Context) layout.Dimensions {
				return layout.Background{}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
					bg := colSidebar
					if active {
						bg = colSelected
					}
					paint.FillShape(gtx.Ops, bg, clip.Rect{Max: gtx.Constraints.Min}.Op())
					return layout.Dimensions{Size: gtx.Constraints.Min}
				}, func(gtx layout.Context) layout.Dimensions {
					return layout.Inset{Top: unit.Dp(6), Bottom: unit.Dp(6), Left: unit.Dp(12), Right: unit.Dp(12)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
						lbl := material.Body2(r.Theme, t.Title)
						if active {
							lbl.Font.Weight = font.Bold
						}
						return lbl.Layout(gtx)
					})
				})
			})
		}))
	}
	return layout.Flex{Axis: layout.Horizontal}.Layout(gtx, children...)
}

func (r *Renderer) layoutFind(gtx layout.Context) layout.Dimensions {
	if !r.findFocused {
		gtx.Execute(key.FocusCmd{Tag: &r.findEditor})
		r.findFocused = true
	}
	for {
		if _, ok := r.findEditor.Update(gtx); !ok {
			break
		}
	}
	return layout.UniformInset(unit.Dp(6)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return widget.Border{Color: colLightGray, Width: unit.Dp(1), CornerRadius: unit.Dp(4)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
			return layout.UniformInset(unit.Dp(6)).Layout(gtx, material.Editor(r.Theme, &r.findEditor, "Suchen...").Layout)
		})
	})
}

func (r *Renderer) layoutMain(gtx layout.Context, snap Snapshot, events *[]UIEvent) layout.Dimensions {
	return layout.Flex{Axis: layout.Horizontal}.Layout(gtx,
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			if !snap.View.Sidebar {
				return layout.Dimensions{}
			}
			return r.layoutSidebar(gtx, snap, events)
		}),
		layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
			return r.layoutDocument(gtx, snap)
		}),
	)
}

// filtered applies the find bar query to the workspace documents.
func (r *Renderer) filtered(snap Snapshot) []workspace.Document {
	if !snap.FindOpen {
		return snap.Workspace.Documents
	}
	return r.finder.Result(r.findEditor.Text(), snap.Workspace.Documents)
}

func (r *Renderer) sideEntries(snap Snapshot) []sideEntry {
	var entries []sideEntry
	if snap.Workspace.Root != "" {
		docs := r.filtered(snap)
		label := snap.Workspace.Root
		if snap.FindOpen && r.finder.Running() {
			label += " (Suche läuft...)"
		}
		entries = append(entries, sideEntry{label: label, header: true})
		for _, d := range docs {
			entries = append(entries, sideEntry{label: d.Rel, path: d.Path})
		}
	}
	if len(snap.Recents) > 0 {
		entries = append(entries, sideEntry{label: "Zuletzt geöffnet", header: true})
		for _, p := range snap.Recents {
			entries = append(entries, sideEntry{label: p, path: p})
		}
	}
	return entries
}

func (r *Renderer) layoutSidebar(gtx layout.Context, snap Snapshot, events *[]UIEvent) layout.Dimensions {
	entries := r.sideEntries(snap)
	for len(r.sideBtns) < len(entries) {
		r.sideBtns = append(r.sideBtns, widget.Clickable{})
	}
	for i, e := range entries {
		if !e.header && r.sideBtns[i].Clicked(gtx) {
			*events = append(*events, UIEvent{Action: ActionOpen, Path: e.path})
		}
	}

	width := gtx.Dp(220)
	gtx.Constraints.Min.X, gtx.Constraints.Max.X = width, width
	paint.FillShape(gtx.Ops, colSidebar, clip.Rect{Max: image.Pt(width, gtx.Constraints.Max.Y)}.Op())

	return r.sideList.Layout(gtx, len(entries), func(gtx layout.Context, i int) layout.Dimensions {
		e := entries[i]
		if e.header {
			return layout.Inset{Top: unit.Dp(8), Bottom: unit.Dp(4), Left: unit.Dp(8), Right: unit.Dp(8)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
				lbl := material.Caption(r.Theme, e.label)
				lbl.Font.Weight = font.Bold
				lbl.Color = colGray
				lbl.MaxLines = 1
				return lbl.Layout(gtx)
			})
		}
		return material.Clickable(gtx, &r.sideBtns[i], func(gtx layout.Context) layout.Dimensions {
			return layout.Inset{Top: unit.Dp(4), Bottom: unit.Dp(4), Left: unit.Dp(16), Right: unit.Dp(8)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
				lbl := material.Body2(r.Theme, e.label)
				lbl.MaxLines = 1
				return lbl.Layout(gtx)
			})
		})
	})
}

func (r *Renderer) layoutDocument(gtx layout.Context, snap Snapshot) layout.Dimensions {
	return layout.UniformInset(unit.Dp(16)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		if snap.Active < 0 || snap.Active >= len(snap.Tabs) {
			lbl := material.Body1(r.Theme, "Kein Dokument geöffnet")
			lbl.Color = colGray
			return lbl.Layout(gtx)
		}
		t := snap.Tabs[snap.Active]
		path := t.Path
		if t.Untitled {
			path = "Neues Dokument"
		}
		return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
			layout.Rigid(material.H6(r.Theme, t.Title).Layout),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				lbl := material.Body2(r.Theme, path)
				lbl.Color = colGray
				return lbl.Layout(gtx)
			}),
			layout.Rigid(layout.Spacer{Height: unit.Dp(8)}.Layout),
			layout.Rigid(material.Caption(r.Theme, fmt.Sprintf("Vorschau: %s  Linter: %s", onOff(snap.View.Preview), onOff(snap.View.Linter))).Layout),
		)
	})
}

func onOff(b bool) string {
	if b {
		return "an"
	}
	return "aus"
}

func (r *Renderer) layoutPage(gtx layout.Context, events *[]UIEvent) layout.Dimensions {
	if r.pageClose.Clicked(gtx) || r.pageBg.Clicked(gtx) {
		*events = append(*events, UIEvent{Action: ActionClosePage})
	}

	size := gtx.Constraints.Max
	r.pageBg.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		paint.FillShape(gtx.Ops, colBackdrop, clip.Rect{Max: size}.Op())
		return layout.Dimensions{Size: size}
	})

	width := min(gtx.Dp(640), size.X-gtx.Dp(32))
	height := size.Y - gtx.Dp(48)
	if width <= 0 || height <= 0 {
		return layout.Dimensions{Size: size}
	}
	defer op.Offset(image.Pt((size.X-width)/2, gtx.Dp(24))).Push(gtx.Ops).Pop()
	gtx.Constraints = layout.Exact(image.Pt(width, height))

	layout.Stack{}.Layout(gtx,
		layout.Expanded(func(gtx layout.Context) layout.Dimensions {
			radius := gtx.Dp(8)
			rr := clip.RRect{Rect: image.Rectangle{Max: gtx.Constraints.Min}, NE: radius, NW: radius, SE: radius, SW: radius}
			paint.FillShape(gtx.Ops, colWhite, rr.Op(gtx.Ops))
			return layout.Dimensions{Size: gtx.Constraints.Min}
		}),
		layout.Stacked(func(gtx layout.Context) layout.Dimensions {
			return layout.UniformInset(unit.Dp(16)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
				return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
					layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
						return r.pageList.Layout(gtx, len(r.pageBlocks), func(gtx layout.Context, i int) layout.Dimensions {
							return r.LayoutBlock(gtx, r.pageBlocks[i])
						})
					}),
					layout.Rigid(func(gtx layout.Context) layout.Dimensions {
						return layout.E.Layout(gtx, material.Button(r.Theme, &r.pageClose, "Schließen").Layout)
					}),
				)
			})
		}),
	)
	return layout.Dimensions{Size: size}
}

func (r *Renderer) layoutStatus(gtx layout.Context, snap Snapshot) layout.Dimensions {
	if snap.Status == "" {
		return layout.Dimensions{}
	}
	return layout.Background{}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		paint.FillShape(gtx.Ops, colSidebar, clip.Rect{Max: gtx.Constraints.Min}.Op())
		return layout.Dimensions{Size: gtx.Constraints.Min}
	}, func(gtx layout.Context) layout.Dimensions {
		gtx.Constraints.Min.X = gtx.Constraints.Max.X
		return layout.Inset{Top: unit.Dp(4), Bottom: unit.Dp(4), Left: unit.Dp(8), Right: unit.Dp(8)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
			lbl := material.Caption(r.Theme, snap.Status)
			lbl.Color = colGray
			return lbl.Layout(gtx)
		})
	})
}
