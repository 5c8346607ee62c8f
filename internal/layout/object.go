package layout

import (
	"image"

	"github.com/emberweb/ember/internal/geom"
)

// Kind is the tagged-sum discriminant for layout objects (spec §9: a
// tagged sum beats deep inheritance for this closed set of variants).
type Kind int

const (
	KindDocument Kind = iota
	KindBlock
	KindLine
	KindText
	KindInput
	KindImage
	KindIframe
)

// NodeRef is the stable, arena-backed identity of the document node that
// produced a layout object (spec §9: arena indices avoid owning cycles
// between the DOM tree and the layout tree).
type NodeRef int

// Object is one node of the layout tree. Every attribute that layout()
// reads or writes lives behind a Field so dirtying is tracked per
// attribute rather than per object.
type Object struct {
	Kind     Kind
	NodeID   NodeRef
	Parent   *Object
	Previous *Object

	X, Y, Width, Height *Field[float64]
	Zoom                *Field[float64]
	Font                *Field[FontSpec]
	Ascent, Descent     *Field[float64]
	Children            *Field[[]*Object]

	hasDirtyDescendants bool

	// Variant-specific state.
	Text  *TextData
	Input *InputData
	Image *ImageData
	Frame *IframeData
}

// FontSpec names the (weight, style, size) triple layout resolves fonts
// with (spec §4.3).
type FontSpec struct {
	Weight string
	Style  string
	SizePx float64
}

// TextData holds the immutable source text of a Text layout object.
type TextData struct {
	Content string
}

// InputData holds the source tag ("input" or "button") for an Input leaf.
type InputData struct {
	Tag string
}

// ImageData holds declared width/height attributes (0 = unset), the
// decoded image's natural size for aspect-ratio fallback, and the
// decoded pixels themselves once a fetch completes. Decoded is nil both
// while the fetch is outstanding and when it failed (Broken); paint.go
// treats either case as "no picture yet" and emits the placeholder rect.
type ImageData struct {
	AttrWidth, AttrHeight  float64
	NaturalWidth, NaturalH float64
	Broken                 bool
	Decoded                image.Image
}

// IframeData links an iframe layout leaf to the nested document it hosts.
type IframeData struct {
	Inner *Object // root Document layout object of the nested frame, or nil
}

// NewObject allocates a layout object of the given kind with all
// protected fields initialized (dirty, so the first layout() pass always
// computes them).
func NewObject(kind Kind, nodeID NodeRef, parent, previous *Object) *Object {
	o := &Object{Kind: kind, NodeID: nodeID, Parent: parent, Previous: previous}
	o.X = NewField(o, "x", 0.0)
	o.Y = NewField(o, "y", 0.0)
	o.Width = NewField(o, "width", 0.0)
	o.Height = NewField(o, "height", 0.0)
	o.Zoom = NewField(o, "zoom", 1.0)
	o.Font = NewField(o, "font", FontSpec{})
	o.Ascent = NewField(o, "ascent", 0.0)
	o.Descent = NewField(o, "descent", 0.0)
	o.Children = NewField(o, "children", nil)
	o.X.Mark()
	o.Y.Mark()
	o.Width.Mark()
	o.Height.Mark()
	o.Zoom.Mark()
	o.Font.Mark()
	o.Ascent.Mark()
	o.Descent.Mark()
	o.Children.Mark()
	return o
}

// markDescendantDirty raises has_dirty_descendants on this object and
// walks the Parent chain doing the same, stopping as soon as an ancestor
// is already flagged (spec §4.1).
func (o *Object) markDescendantDirty() {
	for n := o; n != nil; n = n.Parent {
		if n.hasDirtyDescendants {
			return
		}
		n.hasDirtyDescendants = true
	}
}

// clearDirtyDescendants resets the flag after a layout pass has visited
// (and thereby cleaned) every dirty field reachable from this object.
func (o *Object) clearDirtyDescendants() { o.hasDirtyDescendants = false }

func floatEq(a, b float64) bool { return a == b }

func anyDirty(fields ...interface{ Dirty() bool }) bool {
	for _, f := range fields {
		if f.Dirty() {
			return true
		}
	}
	return false
}

// LayoutNeeded reports whether this object's own fields are dirty or any
// descendant has a dirty field — i.e. whether layout() has work to do at
// all (spec §4.3: "layout() is a no-op when !layout_needed()").
func (o *Object) LayoutNeeded() bool {
	return anyDirty(o.X, o.Y, o.Width, o.Height, o.Zoom, o.Font, o.Ascent, o.Descent, o.Children) ||
		o.hasDirtyDescendants
}

// Rect returns the object's current box once layout has settled.
func (o *Object) Rect() geom.Rect {
	return geom.RectFromLTWH(o.X.Get(), o.Y.Get(), o.Width.Get(), o.Height.Get())
}
