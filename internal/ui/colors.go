package ui

import "image/color"

var (
	colWhite     = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	colBlack     = color.NRGBA{R: 0, G: 0, B: 0, A: 255}
	colGray      = color.NRGBA{R: 100, G: 100, B: 100, A: 255}
	colLightGray = color.NRGBA{R: 200, G: 200, B: 200, A: 255}
	colSelected  = color.NRGBA{R: 200, G: 220, B: 255, A: 255}
	colSidebar   = color.NRGBA{R: 245, G: 245, B: 245, A: 255}
	colDisabled  = color.NRGBA{R: 150, G: 150, B: 150, A: 255}
	colAccent    = color.NRGBA{R: 66, G: 133, B: 244, A: 255}
	// Help pages
	colBackdrop     = color.NRGBA{R: 0, G: 0, B: 0, A: 120}       // Modal backdrop
	colCodeBlockBg  = color.NRGBA{R: 245, G: 245, B: 245, A: 255} // Code block background
	colBlockquoteBg = color.NRGBA{R: 248, G: 248, B: 248, A: 255} // Blockquote background
)
