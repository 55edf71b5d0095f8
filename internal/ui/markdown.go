package ui

import (
	"image"
	"image/color"
	"strconv"
	"strings"

	"gioui.org/font"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget/material"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	goldtext "github.com/yuin/goldmark/text"
)

// BlockKind is the layout kind of a help block.
type BlockKind int

const (
	BlockParagraph BlockKind = iota
	BlockHeading
	BlockCode
	BlockList
	BlockQuote
	BlockRule
	BlockTable
)

// Span is a styled run of text inside a block.
type Span struct {
	Text    string
	Bold    bool
	Italic  bool
	Code    bool
	Link    string
	NewLine bool
}

// Block is one renderable unit of a help page.
type Block struct {
	Kind  BlockKind
	Level int // Heading level, or list nesting depth
	Spans []Span
	Cells [][]string // Table rows, header first
}

// Text concatenates the block's spans.
func (b Block) Text() string {
	var sb strings.Builder
	for _, s := range b.Spans {
		if s.NewLine {
			sb.WriteByte('\n')
			continue
		}
		sb.WriteString(s.Text)
	}
	return sb.String()
}

var helpMarkdown = goldmark.New(goldmark.WithExtensions(extension.Table))

// ParseMarkdown converts markdown to help blocks.
func ParseMarkdown(content string) []Block {
	source := []byte(content)
	doc := helpMarkdown.Parser().Parse(goldtext.NewReader(source))

	var blocks []Block
	ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := node.(type) {
		case *ast.Heading:
			blocks = append(blocks, Block{Kind: BlockHeading, Level: n.Level, Spans: inlineSpans(n, source, false, false)})
			return ast.WalkSkipChildren, nil

		case *ast.Paragraph:
			blocks = append(blocks, Block{Kind: BlockParagraph, Spans: inlineSpans(n, source, false, false)})
			return ast.WalkSkipChildren, nil

		case *ast.FencedCodeBlock, *ast.CodeBlock:
			var code strings.Builder
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				code.Write(seg.Value(source))
			}
			blocks = append(blocks, Block{Kind: BlockCode, Spans: []Span{{Text: strings.TrimRight(code.String(), "\n"), Code: true}}})
			return ast.WalkSkipChildren, nil

		case *ast.List:
			blocks = append(blocks, listBlocks(n, source, 0)...)
			return ast.WalkSkipChildren, nil

		case *ast.Blockquote:
			b := Block{Kind: BlockQuote}
			for child := n.FirstChild(); child != nil; child = child.NextSibling() {
				b.Spans = append(b.Spans, inlineSpans(child, source, false, false)...)
			}
			blocks = append(blocks, b)
			return ast.WalkSkipChildren, nil

		case *ast.ThematicBreak:
			blocks = append(blocks, Block{Kind: BlockRule})
			return ast.WalkSkipChildren, nil

		case *east.Table:
			blocks = append(blocks, tableBlock(n, source))
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return blocks
}

// listBlocks flattens a list into one block per item, numbering ordered lists.
func listBlocks(list *ast.List, source []byte, depth int) []Block {
	var blocks []Block
	num := list.Start
	if num == 0 {
		num = 1
	}
	for child := list.FirstChild(); child != nil; child = child.NextSibling() {
		item, ok := child.(*ast.ListItem)
		if !ok {
			continue
		}
		marker := "• "
		if list.IsOrdered() {
			marker = strconv.Itoa(num) + ". "
			num++
		}
		b := Block{Kind: BlockList, Level: depth, Spans: []Span{{Text: marker}}}
		var nested []Block
		for c := item.FirstChild(); c != nil; c = c.NextSibling() {
			if sub, ok := c.(*ast.List); ok {
				nested = append(nested, listBlocks(sub, source, depth+1)...)
				continue
			}
			b.Spans = append(b.Spans, inlineSpans(c, source, false, false)...)
		}
		blocks = append(blocks, b)
		blocks = append(blocks, nested...)
	}
	return blocks
}

// tableBlock collects cell text row by row; the header row comes first.
func tableBlock(table *east.Table, source []byte) Block {
	b := Block{Kind: BlockTable}
	for row := table.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, Block{Spans: inlineSpans(cell, source, false, false)}.Text())
		}
		b.Cells = append(b.Cells, cells)
	}
	return b
}

func inlineSpans(node ast.Node, source []byte, bold, italic bool) []Span {
	var spans []Span
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch n := child.(type) {
		case *ast.Text:
			if t := string(n.Segment.Value(source)); t != "" {
				spans = append(spans, Span{Text: t, Bold: bold, Italic: italic})
			}
			if n.HardLineBreak() {
				spans = append(spans, Span{NewLine: true})
			} else if n.SoftLineBreak() {
				spans = append(spans, Span{Text: " ", Bold: bold, Italic: italic})
			}

		case *ast.String:
			spans = append(spans, Span{Text: string(n.Value), Bold: bold, Italic: italic})

		case *ast.Emphasis:
			spans = append(spans, inlineSpans(n, source, bold || n.Level >= 2, italic || n.Level == 1)...)

		case *ast.CodeSpan:
			var code strings.Builder
			for c := n.FirstChild(); c != nil; c = c.NextSibling() {
				if t, ok := c.(*ast.Text); ok {
					code.Write(t.Segment.Value(source))
				}
			}
			spans = append(spans, Span{Text: code.String(), Code: true})

		case *ast.Link:
			link := inlineSpans(n, source, bold, italic)
			for i := range link {
				link[i].Link = string(n.Destination)
			}
			spans = append(spans, link...)

		case *ast.AutoLink:
			url := string(n.URL(source))
			spans = append(spans, Span{Text: url, Link: url})

		default:
			spans = append(spans, inlineSpans(child, source, bold, italic)...)
		}
	}
	return spans
}

// LayoutBlock renders a single help block.
func (r *Renderer) LayoutBlock(gtx layout.Context, b Block) layout.Dimensions {
	switch b.Kind {
	case BlockHeading:
		sizes := []unit.Sp{22, 18, 16, 15, 14, 13}
		size := sizes[0]
		if b.Level >= 1 && b.Level <= len(sizes) {
			size = sizes[b.Level-1]
		}
		return layout.Inset{Top: unit.Dp(10), Bottom: unit.Dp(4)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
			return r.layoutSpans(gtx, b.Spans, size, font.Bold)
		})
	case BlockCode:
		return layout.Inset{Top: unit.Dp(6), Bottom: unit.Dp(6)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
			return r.layoutPanel(gtx, colCodeBlockBg, func(gtx layout.Context) layout.Dimensions {
				lbl := material.Body2(r.Theme, b.Text())
				lbl.Font.Typeface = "monospace"
				lbl.TextSize = unit.Sp(12)
				return lbl.Layout(gtx)
			})
		})
	case BlockQuote:
		return layout.Inset{Top: unit.Dp(4), Bottom: unit.Dp(4)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
			return r.layoutPanel(gtx, colBlockquoteBg, func(gtx layout.Context) layout.Dimensions {
				return r.layoutSpans(gtx, b.Spans, unit.Sp(14), font.Normal)
			})
		})
	case BlockRule:
		return layout.Inset{Top: unit.Dp(8), Bottom: unit.Dp(8)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
			h := gtx.Dp(1)
			paint.FillShape(gtx.Ops, colLightGray, clip.Rect{Max: image.Pt(gtx.Constraints.Max.X, h)}.Op())
			return layout.Dimensions{Size: image.Pt(gtx.Constraints.Max.X, h)}
		})
	case BlockList:
		indent := unit.Dp(16 + 16*b.Level)
		return layout.Inset{Top: unit.Dp(2), Bottom: unit.Dp(2), Left: indent}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
			return r.layoutSpans(gtx, b.Spans, unit.Sp(14), font.Normal)
		})
	case BlockTable:
		return r.layoutTable(gtx, b.Cells)
	default:
		return layout.Inset{Top: unit.Dp(4), Bottom: unit.Dp(4)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
			return r.layoutSpans(gtx, b.Spans, unit.Sp(14), font.Normal)
		})
	}
}

func (r *Renderer) layoutPanel(gtx layout.Context, bg color.NRGBA, w layout.Widget) layout.Dimensions {
	radius := gtx.Dp(4)
	return layout.Stack{}.Layout(gtx,
		layout.Expanded(func(gtx layout.Context) layout.Dimensions {
			rr := clip.RRect{Rect: image.Rect(0, 0, gtx.Constraints.Min.X, gtx.Constraints.Min.Y), NE: radius, NW: radius, SE: radius, SW: radius}
			paint.FillShape(gtx.Ops, bg, rr.Op(gtx.Ops))
			return layout.Dimensions{Size: gtx.Constraints.Min}
		}),
		layout.Stacked(func(gtx layout.Context) layout.Dimensions {
			return layout.UniformInset(unit.Dp(10)).Layout(gtx, w)
		}),
	)
}

func (r *Renderer) layoutTable(gtx layout.Context, rows [][]string) layout.Dimensions {
	children := make([]layout.FlexChild, 0, len(rows))
	for i, row := range rows {
		header := i == 0
		children = append(children, layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			cells := make([]layout.FlexChild, 0, len(row))
			for _, cell := range row {
				cells = append(cells, layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
					lbl := material.Body2(r.Theme, cell)
					if header {
						lbl.Font.Weight = font.Bold
					}
					return layout.UniformInset(unit.Dp(4)).Layout(gtx, lbl.Layout)
				}))
			}
			return layout.Flex{Axis: layout.Horizontal}.Layout(gtx, cells...)
		}))
	}
	return layout.Inset{Top: unit.Dp(4), Bottom: unit.Dp(4)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Vertical}.Layout(gtx, children...)
	})
}

// layoutSpans renders spans as one wrapped label styled by the dominant span.
func (r *Renderer) layoutSpans(gtx layout.Context, spans []Span, size unit.Sp, weight font.Weight) layout.Dimensions {
	var content strings.Builder
	var code, link, bold, italic bool
	for _, s := range spans {
		if s.NewLine {
			content.WriteByte('\n')
			continue
		}
		content.WriteString(s.Text)
		code = code || s.Code
		link = link || s.Link != ""
		bold = bold || s.Bold
		italic = italic || s.Italic
	}

	lbl := material.Body1(r.Theme, content.String())
	lbl.TextSize = size
	lbl.Font.Weight = weight
	if bold {
		lbl.Font.Weight = font.Bold
	}
	if italic {
		lbl.Font.Style = font.Italic
	}
	if code {
		lbl.Font.Typeface = "monospace"
	}
	if link {
		lbl.Color = colAccent
	}
	return lbl.Layout(gtx)
}
