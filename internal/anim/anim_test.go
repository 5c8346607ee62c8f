package anim

import (
	"testing"

	"github.com/emberweb/ember/internal/dom"
)

func TestAdvanceTerminatesAfterExactlyNumFrames(t *testing.T) {
	a := &dom.Animation{OldValue: 0, NewValue: 1, NumFrames: 4, ChangePerFrame: 0.25}

	for i := 0; i < 3; i++ {
		_, done := Advance(a)
		if done {
			t.Fatalf("frame %d: animation finished early", i+1)
		}
	}
	val, done := Advance(a)
	if !done {
		t.Fatal("animation should be done on its NumFrames-th Advance")
	}
	if val != a.NewValue {
		t.Fatalf("final value = %v, want NewValue %v", val, a.NewValue)
	}
}

func TestAdvanceInterpolatesLinearly(t *testing.T) {
	a := &dom.Animation{OldValue: 0, NewValue: 1, NumFrames: 4, ChangePerFrame: 0.25}
	val, done := Advance(a)
	if done {
		t.Fatal("first frame of a 4-frame animation must not be done")
	}
	if val != 0.25 {
		t.Fatalf("value after 1 frame = %v, want 0.25", val)
	}
}

func TestAdvanceAllRemovesFinishedAnimationsAndCollectsUpdates(t *testing.T) {
	tree := dom.NewTree()
	root := tree.NewElement("div", nil, dom.NoID)
	tree.Root = root
	n := tree.Node(root)
	n.Animations["opacity"] = &dom.Animation{OldValue: 1, NewValue: 0, NumFrames: 1, ChangePerFrame: -1}

	updated := AdvanceAll(tree, root)
	if len(updated) != 1 || updated[0] != root {
		t.Fatalf("expected root in updated set, got %v", updated)
	}
	if _, ok := n.Animations["opacity"]; ok {
		t.Fatal("a finished animation must be removed from the node")
	}
	if n.Style["opacity"] != "0" {
		t.Fatalf("style opacity = %q, want %q", n.Style["opacity"], "0")
	}
}

func TestAdvanceAllSkipsNodesWithoutAnimations(t *testing.T) {
	tree := dom.NewTree()
	root := tree.NewElement("div", nil, dom.NoID)
	tree.Root = root
	tree.NewElement("span", nil, root)

	updated := AdvanceAll(tree, root)
	if len(updated) != 0 {
		t.Fatalf("expected no updates for a tree with no animations, got %v", updated)
	}
}
