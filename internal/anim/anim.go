// Package anim advances the numeric animations the style engine installs
// (spec §3, §4.7). Grounded in the teacher's ticker registry
// (pkg/animation/ticker.go) but simplified to this spec's linear-only
// NumericAnimation model — no Tween/Curves/0..1 progress, since opacity
// transitions here are the single animatable property and always
// interpolate linearly.
package anim

import (
	"strconv"

	"github.com/emberweb/ember/internal/dom"
)

// Advance steps a itself by one frame and returns the new value and
// whether the animation is now exhausted. Per spec §3: "animate() returns
// null once frame_count >= num_frames".
func Advance(a *dom.Animation) (value float64, done bool) {
	a.FrameCount++
	if a.FrameCount >= a.NumFrames {
		return a.NewValue, true
	}
	return a.OldValue + a.ChangePerFrame*float64(a.FrameCount), false
}

// AdvanceAll steps every installed animation on every element in the
// document once, applying results into the node's style map and
// returning the set of node IDs that produced a new composited-update
// candidate this frame (spec §4.7 step 3).
func AdvanceAll(tree *dom.Tree, root dom.ID) (updated []dom.ID) {
	tree.Walk(root, func(n *dom.Node) {
		if n.Kind != dom.KindElement || len(n.Animations) == 0 {
			return
		}
		for prop, a := range n.Animations {
			val, done := Advance(a)
			n.Style[prop] = formatOpacity(val)
			updated = append(updated, n.ID)
			if done {
				delete(n.Animations, prop)
			}
		}
	})
	return updated
}

func formatOpacity(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
