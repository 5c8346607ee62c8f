// Package compositor partitions a finished paint tree into GPU-backed
// composited layers (spec §4.5) and rebuilds the draw list consumed by
// raster (spec §4.6).
package compositor

import (
	"image"

	"github.com/emberweb/ember/internal/geom"
	"github.com/emberweb/ember/internal/paint"
)

// Layer holds an ordered list of paint commands that all share the same
// parent effect, plus the bounds raster needs. Surface is allocated
// lazily by the raster stage (spec §3: "surface allocated on first
// raster") and is nil until then.
type Layer struct {
	Items            []paint.Node
	Surface          image.Image
	AbsoluteBounds   geom.Rect
	CompositedBounds geom.Rect
}

// Parent returns the shared parent of this layer's items (the layer
// invariant: "all layer items share items[0].parent").
func (l *Layer) Parent() paint.Node {
	if len(l.Items) == 0 {
		return nil
	}
	return paint.Parent(l.Items[0])
}

// Rect implements paint.LayerPainter: the layer's absolute bounds.
func (l *Layer) Rect() geom.Rect { return l.AbsoluteBounds }

// Paint implements paint.LayerPainter by drawing the layer's *cached*
// Surface as an image at its absolute bounds rather than re-executing
// Items, which is exactly the point of compositing (bounded re-raster).
// It draws nothing until the raster stage has set Surface.
func (l *Layer) Paint(canvas paint.Canvas) {
	if l.Surface != nil {
		canvas.DrawImage(paint.NewDrawImage(l.AbsoluteBounds, l.Surface))
	}
}

func (l *Layer) add(n paint.Node) {
	l.Items = append(l.Items, n)
	l.AbsoluteBounds = l.AbsoluteBounds.Union(paint.LocalToAbsolute(n, n.Rect()))
	l.CompositedBounds = paint.CompositedBounds(n, l.AbsoluteBounds)
}

// flatten collects, in document order, every paint command (non-effect
// node) under n — the candidates fed into the per-command
// layer-assignment loop (spec §4.5). Effect nodes are never collected
// themselves, whether or not they need compositing: flatten descends into
// their children, so each candidate's parent is the innermost effect
// wrapping it.
func flatten(n paint.Node, out *[]paint.Node) {
	switch v := n.(type) {
	case paint.Effect:
		if v.NeedsCompositing() {
			// This effect gets its own layer boundary; recurse into its
			// children so *they* become the candidate commands, but this
			// effect node itself is not added (its compositing is realized
			// by the layers its children end up in).
			for _, c := range v.Children() {
				flatten(c, out)
			}
			return
		}
		for _, c := range v.Children() {
			flatten(c, out)
		}
	default:
		*out = append(*out, n)
	}
}

// Composite runs the layer-partition algorithm (spec §4.5) over root's
// flattened paint commands, in document order.
func Composite(root paint.Node) []*Layer {
	var commands []paint.Node
	flatten(root, &commands)

	var layers []*Layer
	for _, cmd := range commands {
		placed := false
		for i := len(layers) - 1; i >= 0; i-- {
			layer := layers[i]
			if layer.Parent() == paint.Parent(cmd) {
				layer.add(cmd)
				placed = true
				break
			}
			if layer.AbsoluteBounds.Intersects(paint.LocalToAbsolute(cmd, cmd.Rect())) {
				// Per spec §9's resolved open question: always create and
				// append a new layer here rather than mutating the
				// existing one, so scenario 3's containment invariant
				// (every layer's items share a parent) can't be broken by
				// accidentally folding an unrelated command into layer i.
				break
			}
		}
		if !placed {
			l := &Layer{}
			l.add(cmd)
			layers = append(layers, l)
		}
	}
	return layers
}

// RebuildDrawList wraps each layer in a DrawCompositedLayer and re-parents
// it under clones of the layer's effect ancestors, merging siblings that
// share an ancestor (spec §4.5). compositedUpdates, when non-nil, maps a
// node ID to a replacement Blend effect for an opacity-only change since
// the last composite — substituted during cloning so running opacity
// animations avoid a full recomposite.
func RebuildDrawList(layers []*Layer, compositedUpdates map[int]*paint.Blend) []paint.Node {
	// Group layers by their immediate effect ancestor chain identity. Since
	// effect ancestors were built fresh this frame, chains that are
	// pointer-equal are genuinely the same ancestor; chains rooted at nil
	// are top-level layers.
	type bucket struct {
		ancestor paint.Node
		wrapped  []paint.Node
	}
	var buckets []*bucket
	for _, l := range layers {
		dl := paint.NewDrawCompositedLayer(l)
		parent := l.Parent()
		var found *bucket
		for _, b := range buckets {
			if b.ancestor == parent {
				found = b
				break
			}
		}
		if found == nil {
			found = &bucket{ancestor: parent}
			buckets = append(buckets, found)
		}
		found.wrapped = append(found.wrapped, dl)
	}

	var out []paint.Node
	for _, b := range buckets {
		out = append(out, cloneChain(b.ancestor, b.wrapped, compositedUpdates)...)
	}
	return out
}

// cloneChain re-wraps children under a clone of ancestor (and its own
// ancestors, recursively), substituting a composited-update replacement
// Blend when one is registered for the ancestor's node.
func cloneChain(ancestor paint.Node, children []paint.Node, updates map[int]*paint.Blend) []paint.Node {
	if ancestor == nil {
		return children
	}
	switch v := ancestor.(type) {
	case *paint.Blend:
		effect := v
		if updates != nil {
			if replacement, ok := updates[v.NodeID]; ok {
				effect = replacement
			}
		}
		clone := paint.NewBlend(effect.Opacity, effect.Mode, effect.NodeID, children)
		return cloneChain(paint.Parent(v), []paint.Node{clone}, updates)
	case *paint.Transform:
		clone := paint.NewTransform(v.Dx, v.Dy, v.NodeID, children)
		return cloneChain(paint.Parent(v), []paint.Node{clone}, updates)
	default:
		return children
	}
}
