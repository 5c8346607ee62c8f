// Package paint defines the display-primitive value types (spec §3, §4.4):
// paint commands and visual effects forming a tree with a rect and a
// needs_compositing flag, plus the Canvas interface that consumes them
// (spec §6's "GPU canvas library" external collaborator).
package paint

import (
	"image"

	"github.com/emberweb/ember/internal/geom"
)

// Color is a straight-alpha RGBA color in [0,255] channels.
type Color struct{ R, G, B, A uint8 }

var (
	White = Color{255, 255, 255, 255}
	Black = Color{0, 0, 0, 255}
)

// BlendMode names the compositing operator a Blend effect applies.
type BlendMode int

const (
	BlendModeNormal BlendMode = iota
	BlendModeMultiply
	BlendModeDestinationIn
)

// Node is the common interface implemented by every paint command and
// every visual effect: each has a bounding rect and a parent, which
// NewBlend and NewTransform assign to every child they wrap (spec §3).
type Node interface {
	Rect() geom.Rect
	parentSlot() *Node
}

type base struct {
	parent Node
	rect   geom.Rect
}

func (b *base) Rect() geom.Rect   { return b.rect }
func (b *base) parentSlot() *Node { return &b.parent }

// SetParent assigns a node's parent; NewBlend and NewTransform call it
// for every child they wrap.
func SetParent(n, parent Node) { *n.parentSlot() = parent }

// Parent returns the node's assigned parent, or nil at the root.
func Parent(n Node) Node { return *n.parentSlot() }

// --- Paint commands -------------------------------------------------

type DrawRect struct {
	base
	Color Color
}

func NewDrawRect(rect geom.Rect, color Color) *DrawRect {
	return &DrawRect{base: base{rect: rect}, Color: color}
}

type DrawRRect struct {
	base
	Radius float64
	Color  Color
}

func NewDrawRRect(rrect geom.RRect, color Color) *DrawRRect {
	return &DrawRRect{base: base{rect: rrect.Rect}, Radius: rrect.Radius.X, Color: color}
}

type DrawLine struct {
	base
	Color Color
	Width float64
}

func NewDrawLine(rect geom.Rect, color Color, width float64) *DrawLine {
	return &DrawLine{base: base{rect: rect}, Color: color, Width: width}
}

// TextRun is the minimal shaped-text payload DrawText carries: a single
// run of same-styled glyphs at a baseline position (no shaping/bidi, per
// spec Non-goals).
type TextRun struct {
	Content string
	FontPx  float64
	Weight  string
	Style   string
	Color   Color
}

type DrawText struct {
	base
	Run TextRun
}

func NewDrawText(rect geom.Rect, run TextRun) *DrawText {
	return &DrawText{base: base{rect: rect}, Run: run}
}

type DrawImage struct {
	base
	Image image.Image
}

func NewDrawImage(rect geom.Rect, img image.Image) *DrawImage {
	return &DrawImage{base: base{rect: rect}, Image: img}
}

// --- Visual effects ---------------------------------------------------

// Effect is a visual effect node: it wraps child commands/effects and has
// a needs_compositing flag that is the OR of its children's (spec §3).
type Effect interface {
	Node
	Children() []Node
	NeedsCompositing() bool
}

type effectBase struct {
	base
	children          []Node
	needsCompositing  bool
}

func (e *effectBase) Children() []Node        { return e.children }
func (e *effectBase) NeedsCompositing() bool  { return e.needsCompositing }

// Blend applies an opacity and/or blend mode to its children. It requires
// compositing (its own GPU layer) when opacity<1 or a non-normal blend
// mode is set (spec §4.4).
type Blend struct {
	effectBase
	Opacity float64
	Mode    BlendMode
	// NodeID identifies the document node this effect was produced for, so
	// the compositor and commit protocol can look it up again
	// (node.blend_op in spec §3).
	NodeID int
}

// NewBlend builds a Blend effect, computing its rect as the union of its
// children's rects and its needs_compositing flag from the opacity/mode
// plus its children's own flags.
func NewBlend(opacity float64, mode BlendMode, nodeID int, children []Node) *Blend {
	b := &Blend{Opacity: opacity, Mode: mode, NodeID: nodeID}
	b.children = children
	b.rect = unionRects(children)
	needs := opacity < 1 || mode != BlendModeNormal
	for _, c := range children {
		if eff, ok := c.(Effect); ok && eff.NeedsCompositing() {
			needs = true
		}
	}
	b.needsCompositing = needs
	for _, c := range children {
		SetParent(c, b)
	}
	return b
}

// Transform applies a 2D translation to its children (spec §4.4 only
// models CSS `transform: translate(...)`, not the full matrix stack).
type Transform struct {
	effectBase
	Dx, Dy float64
	NodeID int
}

func NewTransform(dx, dy float64, nodeID int, children []Node) *Transform {
	t := &Transform{Dx: dx, Dy: dy, NodeID: nodeID}
	t.children = children
	t.rect = unionRects(children).Translate(dx, dy)
	for _, c := range children {
		if eff, ok := c.(Effect); ok && eff.NeedsCompositing() {
			t.needsCompositing = true
		}
	}
	for _, c := range children {
		SetParent(c, t)
	}
	return t
}

func unionRects(nodes []Node) geom.Rect {
	var r geom.Rect
	for _, n := range nodes {
		r = r.Union(n.Rect())
	}
	return r
}

// LocalToAbsolute maps rect through the effect chain from n up to the
// root: each ancestor Transform translates, each ancestor Blend with
// BlendModeDestinationIn clips to its own rect (spec §4.5).
func LocalToAbsolute(n Node, rect geom.Rect) geom.Rect {
	cur := Parent(n)
	for cur != nil {
		switch e := cur.(type) {
		case *Transform:
			rect = rect.Translate(e.Dx, e.Dy)
		case *Blend:
			if e.Mode == BlendModeDestinationIn {
				rect = rect.Intersect(e.Rect())
			}
		}
		cur = Parent(cur)
	}
	return rect
}

// CompositedBounds un-maps an absolute rect back through the same chain
// n sits under, then outsets by 1px to cover stroke antialiasing (spec
// §4.5).
func CompositedBounds(n Node, absolute geom.Rect) geom.Rect {
	chain := []Node{}
	for cur := Parent(n); cur != nil; cur = Parent(cur) {
		chain = append(chain, cur)
	}
	rect := absolute
	for i := len(chain) - 1; i >= 0; i-- {
		if t, ok := chain[i].(*Transform); ok {
			rect = rect.Translate(-t.Dx, -t.Dy)
		}
	}
	return rect.Outset(1)
}
