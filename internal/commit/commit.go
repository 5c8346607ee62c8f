// Package commit defines the value object a tab thread hands to the
// browser thread under lock each animation frame (spec §3, §4.7-4.8).
package commit

import "github.com/emberweb/ember/internal/paint"

// Data is the CommitData value object. Scroll is a pointer so "unset"
// (tab didn't locally change scroll) is distinguishable from 0. Display
// is likewise nil when the tab produced no new display list this frame.
// CompositedUpdates is nil to mean "full composite required"; a non-nil
// (possibly empty) map means only those nodes' blend effects changed.
type Data struct {
	URL               string
	Scroll            *float64
	Height            float64
	Display           []paint.Node
	CompositedUpdates map[int]*paint.Blend
}
