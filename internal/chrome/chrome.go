// Package chrome is the browser-window widget drawn above every tab's
// content (SPEC_FULL.md C.1): a tab strip, a back button and an address
// bar. Grounded in original_source/browser.py's Chrome class, redrawn
// here as a producer of the same paint.Node command tree the tab's
// document layer produces, rather than a teacher-style widget tree
// (the whole chrome repaints every frame; it never needs incremental
// layout, so it has no protected fields of its own).
package chrome

import (
	"github.com/emberweb/ember/internal/geom"
	"github.com/emberweb/ember/internal/paint"
)

const (
	barHeight   = 60.0
	tabWidth    = 80.0
	fontPx      = 14.0
	padding     = 5.0
)

// TabInfo is the minimal description of a tab the chrome needs to draw
// its strip entry.
type TabInfo struct {
	Title  string
	Active bool
}

// State is everything the chrome paints each frame.
type State struct {
	Tabs        []TabInfo
	AddressText string
	Focused     bool // address bar has keyboard focus (user is editing it)
	CanGoBack   bool
}

// Height is the fixed vertical extent the chrome occupies at the top of
// the window; tab content is offset below it.
func Height() float64 { return barHeight }

// Paint renders the chrome as a flat list of paint commands (no
// compositing effects: the chrome is always redrawn in full and never
// participates in the document's layer partition).
func Paint(width float64, s State) []paint.Node {
	var cmds []paint.Node
	cmds = append(cmds, paint.NewDrawRect(geom.RectFromLTWH(0, 0, width, barHeight), paint.White))
	cmds = append(cmds, paint.NewDrawLine(geom.RectFromLTWH(0, barHeight, width, 1), paint.Black, 1))

	for i, t := range s.Tabs {
		x := float64(i) * tabWidth
		cmds = append(cmds, paint.NewDrawLine(geom.RectFromLTWH(x, 0, 1, barHeight/2), paint.Black, 1))
		cmds = append(cmds, paint.NewDrawLine(geom.RectFromLTWH(x+tabWidth, 0, 1, barHeight/2), paint.Black, 1))
		cmds = append(cmds, paint.NewDrawText(
			geom.RectFromLTWH(x+padding, padding, tabWidth-2*padding, fontPx),
			paint.TextRun{Content: t.Title, FontPx: fontPx, Color: paint.Black},
		))
		if t.Active {
			cmds = append(cmds, paint.NewDrawLine(geom.RectFromLTWH(x, 0, 1, barHeight/2), paint.Black, 1))
			cmds = append(cmds, paint.NewDrawLine(geom.RectFromLTWH(x+tabWidth, 0, 1, barHeight/2), paint.Black, 1))
			cmds = append(cmds, paint.NewDrawLine(geom.RectFromLTWH(x, barHeight/2, tabWidth, 1), paint.Black, 1))
		}
	}

	newTabX := float64(len(s.Tabs)) * tabWidth
	cmds = append(cmds, newTabRect(newTabX)...)

	backY := barHeight / 2
	backColor := paint.Color{R: 180, G: 180, B: 180, A: 255}
	if s.CanGoBack {
		backColor = paint.Black
	}
	cmds = append(cmds, paint.NewDrawRect(geom.RectFromLTWH(padding, backY+padding, 30, barHeight/2-2*padding), paint.White))
	cmds = append(cmds, paint.NewDrawLine(geom.RectFromLTWH(padding, backY+padding, 30, barHeight/2-2*padding), backColor, 1))

	addrX := 30 + 2*padding
	addrRect := geom.RectFromLTWH(addrX, backY+padding, width-addrX-padding, barHeight/2-2*padding)
	cmds = append(cmds, paint.NewDrawRect(addrRect, paint.White))
	cmds = append(cmds, paint.NewDrawLine(addrRect, paint.Black, 1))
	cmds = append(cmds, paint.NewDrawText(
		geom.RectFromLTWH(addrRect.Left+padding, addrRect.Top+padding, addrRect.Width()-2*padding, fontPx),
		paint.TextRun{Content: s.AddressText, FontPx: fontPx, Color: paint.Black},
	))
	if s.Focused {
		caretX := addrRect.Left + padding + float64(len(s.AddressText))*7
		cmds = append(cmds, paint.NewDrawLine(geom.RectFromLTWH(caretX, addrRect.Top+2, 1, fontPx), paint.Black, 1))
	}
	return cmds
}

func newTabRect(x float64) []paint.Node {
	r := geom.RectFromLTWH(x+padding, padding, 20, 20)
	return []paint.Node{
		paint.NewDrawRect(r, paint.White),
		paint.NewDrawLine(r, paint.Black, 1),
		paint.NewDrawText(r, paint.TextRun{Content: "+", FontPx: fontPx, Color: paint.Black}),
	}
}

// Action is what a click inside the chrome band maps to. Hit computes it
// as pure geometry, mirroring browser.py's handle_click dispatch by
// y-coordinate band then x-coordinate within the tab strip.
type Action int

const (
	ActionNone Action = iota
	ActionNewTab
	ActionSwitchTab
	ActionBack
	ActionFocusAddress
)

// Hit reports which widget a click at (x, y) landed on, and for
// ActionSwitchTab the tab index.
func Hit(s State, x, y float64) (Action, int) {
	if y > barHeight {
		return ActionNone, -1
	}
	if y < barHeight/2 {
		newTabX := float64(len(s.Tabs)) * tabWidth
		if x >= newTabX {
			return ActionNewTab, -1
		}
		idx := int(x / tabWidth)
		if idx >= 0 && idx < len(s.Tabs) {
			return ActionSwitchTab, idx
		}
		return ActionNone, -1
	}
	if x >= padding && x <= padding+30 {
		return ActionBack, -1
	}
	return ActionFocusAddress, -1
}
