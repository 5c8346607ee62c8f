// This file implements the layout pass (spec §4.3): building and laying
// out the Document/Block/Line/Text/Input/Image/Iframe tree from a parsed
// document. Grounded in _examples/original_source/layout.py's
// DocumentLayout/BlockLayout/LineLayout/*Layout classes, reworked onto
// the protected-field contract from field.go/object.go and the teacher's
// dirty-propagation idiom (pkg/layout/render.go's MarkNeedsLayout).
package layout

import (
	"github.com/emberweb/ember/internal/dom"
	"github.com/emberweb/ember/internal/fonttext"
)

const (
	hstep        = 13.0
	vstep        = 18.0
	inputWidthPx = 200.0
	iframeWidthPx = 300.0
	iframeHeightPx = 150.0
)

// Source abstracts the document tree a Builder lays out, keeping this
// package decoupled from dom's concrete Node type where only the shape
// matters.
type Source = dom.Tree

// Builder lays out one document tree against a Source.
type Builder struct {
	Tree *Source
}

// LayoutDocument is the root entry point: builds (or reuses) the
// Document layout object for rootNode, sets zoom/width from the
// viewport, and recomputes iff LayoutNeeded (spec §4.3: "Document sets
// zoom and width from inputs and lays out a single block child").
func (b *Builder) LayoutDocument(existing *Object, rootNode dom.ID, width, zoom float64) *Object {
	doc := existing
	if doc == nil {
		doc = NewObject(KindDocument, NodeRef(rootNode), nil, nil)
	}
	doc.Width.Set(width, floatEq)
	doc.Zoom.Set(zoom, floatEq)

	if !doc.LayoutNeeded() {
		return doc
	}

	doc.X.Set(0, floatEq)
	doc.Y.Set(0, floatEq)

	var child *Object
	if kids := doc.Children.Get0(); len(kids) == 1 {
		child = kids[0]
	}
	child = b.layoutBlock(child, doc, nil, rootNode, doc.Width.Get(), doc.Zoom.Get())
	doc.Children.SetAlways([]*Object{child})

	height := child.Y.Get() + child.Height.Get()
	doc.Height.Set(height, floatEq)
	doc.clearDirtyDescendants()
	return doc
}

// Get0 is a convenience accessor that tolerates a dirty children field by
// returning the stale value instead of panicking — used only internally
// by the builder while it is in the middle of recomputing that very
// field (never exposed to ordinary callers, who must use Get/Read).
func (f *Field[T]) Get0() T { return f.value }

// layoutBlock lays out a single block-level element: decides block vs.
// inline mode, then builds either block children or a run of Line
// children (spec §4.3).
func (b *Builder) layoutBlock(existing *Object, parent, previous *Object, nodeID dom.ID, width, zoom float64) *Object {
	obj := existing
	if obj == nil {
		obj = NewObject(KindBlock, NodeRef(nodeID), parent, previous)
	} else {
		obj.Parent, obj.Previous = parent, previous
	}
	obj.Width.Set(width, floatEq)
	obj.Zoom.Set(zoom, floatEq)
	obj.X.Set(parentX(parent), floatEq)
	obj.Y.Set(b.yFromPrevious(previous), floatEq)

	if !obj.LayoutNeeded() {
		return obj
	}

	n := b.Tree.Node(dom.ID(nodeID))
	if blockMode(b.Tree, n) {
		var children []*Object
		var prev *Object
		for _, cid := range n.Children {
			c := b.Tree.Node(cid)
			if c.Kind != dom.KindElement {
				continue
			}
			child := b.layoutBlock(nil, obj, prev, cid, obj.Width.Get(), obj.Zoom.Get())
			children = append(children, child)
			prev = child
		}
		obj.Children.SetAlways(children)
	} else {
		lines := b.layoutInline(obj, nodeID, obj.Width.Get(), obj.Zoom.Get())
		obj.Children.SetAlways(lines)
	}

	height := 0.0
	for _, c := range obj.Children.Get0() {
		height += c.Height.Get()
	}
	obj.Height.Set(height, floatEq)
	obj.clearDirtyDescendants()
	return obj
}

func parentX(parent *Object) float64 {
	if parent == nil {
		return 0
	}
	return parent.X.Get()
}

func (b *Builder) yFromPrevious(previous *Object) float64 {
	if previous == nil {
		return 0
	}
	return previous.Y.Get() + previous.Height.Get()
}

// blockMode implements spec §4.3's mode decision: block if any non-text
// child has a block-level tag, else inline.
func blockMode(tree *Source, n *dom.Node) bool {
	for _, cid := range n.Children {
		c := tree.Node(cid)
		if c.Kind == dom.KindElement && dom.IsBlockLevel(c.Tag) {
			return true
		}
	}
	return false
}

// inlineLeaf is one word/input/image/iframe placed on a line, before
// baseline alignment runs.
type inlineLeaf struct {
	kind Kind
	node dom.ID
	text string
}

// layoutInline builds Line children wrapping Text/Input/Image/Iframe
// leaves, with a running cursor_x that wraps when it would overflow
// width (spec §4.3).
func (b *Builder) layoutInline(parent *Object, nodeID dom.ID, width, zoom float64) []*Object {
	leaves := b.collectInlineLeaves(nodeID)
	fontKey := fonttext.Key{Weight: "normal", Style: "normal", SizePx: 16 * 0.75 * zoom}

	var lineGroups [][]inlineLeaf
	var group []inlineLeaf
	cursorX := 0.0
	for _, leaf := range leaves {
		w := leafWidth(leaf, fontKey)
		if cursorX+w > width && len(group) > 0 {
			lineGroups = append(lineGroups, group)
			group = nil
			cursorX = 0
		}
		group = append(group, leaf)
		cursorX += w + hstep
	}
	if len(group) > 0 || len(lineGroups) == 0 {
		lineGroups = append(lineGroups, group)
	}

	var lines []*Object
	var previous *Object
	for _, g := range lineGroups {
		line := b.buildLine(parent, previous, g, width, zoom, fontKey)
		lines = append(lines, line)
		previous = line
	}
	return lines
}

func leafWidth(leaf inlineLeaf, fontKey fonttext.Key) float64 {
	switch leaf.kind {
	case KindText:
		return fonttext.MeasureWidth(fontKey, leaf.text)
	case KindInput:
		return inputWidthPx
	case KindImage, KindIframe:
		return iframeWidthPx
	}
	return 0
}

// collectInlineLeaves walks nodeID's element/text descendants that are
// inline content: words (one leaf per whitespace-separated word) and
// input/img/iframe leaves (spec §4.3: "including input, img, iframe
// leaves").
func (b *Builder) collectInlineLeaves(nodeID dom.ID) []inlineLeaf {
	var out []inlineLeaf
	n := b.Tree.Node(dom.ID(nodeID))
	for _, cid := range n.Children {
		c := b.Tree.Node(cid)
		switch c.Kind {
		case dom.KindText:
			for _, w := range splitWords(c.Text) {
				out = append(out, inlineLeaf{kind: KindText, node: cid, text: w})
			}
		case dom.KindElement:
			switch c.Tag {
			case "input", "button":
				out = append(out, inlineLeaf{kind: KindInput, node: cid})
			case "img":
				out = append(out, inlineLeaf{kind: KindImage, node: cid})
			case "iframe":
				out = append(out, inlineLeaf{kind: KindIframe, node: cid})
			default:
				out = append(out, b.collectInlineLeaves(cid)...)
			}
		}
	}
	return out
}

func splitWords(s string) []string {
	var words []string
	start := -1
	for i := 0; i <= len(s); i++ {
		if i < len(s) && s[i] != ' ' && s[i] != '\n' && s[i] != '\t' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			words = append(words, s[start:i])
			start = -1
		}
	}
	return words
}

// buildLine lays out one Line object: its leaf children get provisional
// widths/heights, then baseline alignment positions each child's y
// (spec §4.3's ascent/descent formula).
func (b *Builder) buildLine(parent, previous *Object, leaves []inlineLeaf, width, zoom float64, fontKey fonttext.Key) *Object {
	line := NewObject(KindLine, parent.NodeID, parent, previous)
	line.Width.Set(width, floatEq)
	line.X.Set(parentX(parent), floatEq)
	line.Y.Set(b.yFromPrevious(previous), floatEq)

	metrics := fonttext.For(fontKey)
	var children []*Object
	ascent, descent := 0.0, 0.0
	if len(leaves) == 0 {
		line.Height.Set(0, floatEq)
		line.Ascent.Set(0, floatEq)
		line.Descent.Set(0, floatEq)
		line.Children.SetAlways(nil)
		return line
	}
	cursorX := 0.0
	for _, leaf := range leaves {
		child := NewObject(leaf.kind, leaf.node, line, nil)
		child.Zoom.Set(zoom, floatEq)
		w := leafWidth(leaf, fontKey)
		child.Width.Set(w, floatEq)
		child.X.Set(line.X.Get()+cursorX, floatEq)
		child.Font.Set(FontSpec{Weight: fontKey.Weight, Style: fontKey.Style, SizePx: fontKey.SizePx},
			func(a, b FontSpec) bool { return a == b })
		child.Children.SetAlways(nil)
		switch leaf.kind {
		case KindText:
			child.Text = &TextData{Content: leaf.text}
			child.Height.Set(metrics.Linespace, floatEq)
			child.Ascent.Set(-metrics.Ascent, floatEq)
			child.Descent.Set(metrics.Descent, floatEq)
		case KindInput:
			child.Input = &InputData{Tag: "input"}
			child.Height.Set(metrics.Linespace, floatEq)
			child.Ascent.Set(-metrics.Linespace, floatEq)
			child.Descent.Set(0, floatEq)
		case KindImage, KindIframe:
			h := iframeHeightPx * zoom
			child.Height.Set(h, floatEq)
			child.Ascent.Set(-h, floatEq)
			child.Descent.Set(0, floatEq)
			if leaf.kind == KindIframe {
				child.Frame = &IframeData{}
			} else {
				child.Image = &ImageData{}
			}
		}
		if -child.Ascent.Get() > ascent {
			ascent = -child.Ascent.Get()
		}
		if child.Descent.Get() > descent {
			descent = child.Descent.Get()
		}
		children = append(children, child)
		cursorX += w + hstep
	}
	// Baseline alignment (spec §4.3): child.y = line.y + ascent +
	// (child.ascent/1.25 if text else child.ascent). child.Ascent is
	// stored as -ascent (spec sign convention: "ascent = max(-child.ascent)").
	for _, child := range children {
		childAscent := child.Ascent.Get()
		if child.Kind == KindText {
			childAscent /= 1.25
		}
		child.Y.Set(line.Y.Get()+ascent+childAscent, floatEq)
	}
	line.Ascent.Set(ascent, floatEq)
	line.Descent.Set(descent, floatEq)
	line.Height.Set(ascent+descent, floatEq)
	line.Children.SetAlways(children)
	return line
}
