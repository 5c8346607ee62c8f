package compositor

import (
	"testing"

	"github.com/emberweb/ember/internal/geom"
	"github.com/emberweb/ember/internal/paint"
)

func TestCompositeEveryCommandLandsInExactlyOneLayer(t *testing.T) {
	a := paint.NewDrawRect(geom.RectFromLTWH(0, 0, 10, 10), paint.Black)
	b := paint.NewDrawRect(geom.RectFromLTWH(0, 10, 10, 10), paint.Black)
	blended := paint.NewBlend(0.5, paint.BlendModeNormal, 1, []paint.Node{
		paint.NewDrawRect(geom.RectFromLTWH(100, 100, 10, 10), paint.Black),
	})
	root := paint.NewTransform(0, 0, -1, []paint.Node{a, b, blended})

	layers := Composite(root)

	count := map[paint.Node]int{}
	for _, l := range layers {
		for _, item := range l.Items {
			count[item]++
		}
	}
	if len(count) != 3 {
		t.Fatalf("expected 3 distinct commands assigned, got %d", len(count))
	}
	for n, c := range count {
		if c != 1 {
			t.Fatalf("command %v assigned to %d layers, want exactly 1", n, c)
		}
	}
}

func TestCompositeLayerItemsShareAParent(t *testing.T) {
	a := paint.NewDrawRect(geom.RectFromLTWH(0, 0, 10, 10), paint.Black)
	b := paint.NewDrawRect(geom.RectFromLTWH(0, 10, 10, 10), paint.Black)
	root := paint.NewTransform(0, 0, -1, []paint.Node{a, b})

	layers := Composite(root)
	for _, l := range layers {
		if len(l.Items) == 0 {
			continue
		}
		want := paint.Parent(l.Items[0])
		for _, item := range l.Items[1:] {
			if paint.Parent(item) != want {
				t.Fatal("every item in a layer must share the same parent")
			}
		}
	}
}

func TestCompositeIntersectionAlwaysAppendsNewLayer(t *testing.T) {
	// Two overlapping commands with different parents (the blended rect's
	// parent is the Blend, the plain rect's is the root Transform): per the
	// resolved open question, a bounds intersection with an earlier,
	// different-parent layer must append a new layer rather than merge
	// into it.
	overlapping := paint.NewDrawRect(geom.RectFromLTWH(5, 5, 10, 10), paint.Black)
	blended := paint.NewBlend(0.5, paint.BlendModeNormal, 1, []paint.Node{
		paint.NewDrawRect(geom.RectFromLTWH(0, 0, 10, 10), paint.Black),
	})
	root := paint.NewTransform(0, 0, -1, []paint.Node{blended, overlapping})

	layers := Composite(root)
	if len(layers) != 2 {
		t.Fatalf("expected two layers for non-mergeable overlapping commands, got %d", len(layers))
	}
}

func TestRebuildDrawListSubstitutesCompositedUpdate(t *testing.T) {
	inner := paint.NewDrawRect(geom.RectFromLTWH(0, 0, 10, 10), paint.Black)
	blend := paint.NewBlend(1.0, paint.BlendModeNormal, 7, []paint.Node{inner})
	root := paint.NewTransform(0, 0, -1, []paint.Node{blend})

	layers := Composite(root)
	replacement := paint.NewBlend(0.2, paint.BlendModeNormal, 7, nil)
	out := RebuildDrawList(layers, map[int]*paint.Blend{7: replacement})

	found := false
	var walk func(n paint.Node)
	walk = func(n paint.Node) {
		if b, ok := n.(*paint.Blend); ok && b.NodeID == 7 {
			if b.Opacity != 0.2 {
				t.Fatalf("expected substituted opacity 0.2, got %v", b.Opacity)
			}
			found = true
		}
		if e, ok := n.(paint.Effect); ok {
			for _, c := range e.Children() {
				walk(c)
			}
		}
	}
	for _, n := range out {
		walk(n)
	}
	if !found {
		t.Fatal("expected the composited-update replacement Blend to appear in the rebuilt draw list")
	}
}
