package anim

import "sync"

// RAFRegistry records, for one tab, whether requestAnimationFrame has
// been called since the last check (a single pending flag, not a list of
// callbacks), mirroring the teacher's ticker registry (pkg/animation/ticker.go) but
// scoped per-tab rather than process-global, since each tab thread owns
// its own script interpreter (spec §5).
type RAFRegistry struct {
	mu      sync.Mutex
	pending bool
}

// Request marks that an animation frame has been requested; it is the
// tab-side half of requestAnimationFrame (spec §6) — the actual
// scheduling of the frame happens on the browser thread via
// set_needs_animation_frame.
func (r *RAFRegistry) Request() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending = true
}

// TakePending reports and clears whether a frame was requested since the
// last TakePending call.
func (r *RAFRegistry) TakePending() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.pending
	r.pending = false
	return p
}
