package layout

import (
	"fmt"

	"github.com/emberweb/ember/internal/browsererr"
)

// Field is a protected field: a memoizing cell with a dirty bit and a set
// of dependents that get dirtied, transitively, whenever the value
// actually changes. It is the unit of incrementality for the whole layout
// graph (spec §4.1).
type Field[T any] struct {
	name    string
	owner   *Object
	value   T
	dirty   bool
	invalid map[*fieldInvalidator]struct{}

	selfInvalidator *Invalidator
}

// fieldInvalidator is the type-erased handle used to dirty a Field[T] for
// any T without the invalidator needing to know T.
type fieldInvalidator struct {
	owner *Object
	mark  func()
}

// NewField constructs a protected field owned by obj, initialized to v and
// already clean (as if just set).
func NewField[T any](owner *Object, name string, v T) *Field[T] {
	return &Field[T]{name: name, owner: owner, value: v, invalid: map[*fieldInvalidator]struct{}{}}
}

// Get returns the value. Reading a dirty field is a fatal protected-field
// contract violation (spec §4.1, §7).
func (f *Field[T]) Get() T {
	if f.dirty {
		browsererr.ProtectedFieldViolation("Field.Get", fmt.Errorf("read of dirty field %q", f.name))
	}
	return f.value
}

// Read is the subscribing read: it registers notify as a dependent of f
// (so a future Set on f dirties notify), then returns the value exactly
// like Get. If notify has frozen its dependency set and f isn't already a
// declared dependency, this is also a fatal violation (prevents silently
// omitted dependency declarations).
func (f *Field[T]) Read(notify *Invalidator) T {
	if notify != nil {
		if notify.frozen {
			if _, ok := notify.declaredDeps[f.invalidatorKey()]; !ok {
				browsererr.ProtectedFieldViolation("Field.Read", fmt.Errorf("undeclared read of field %q", f.name))
			}
		} else {
			notify.declaredDeps[f.invalidatorKey()] = struct{}{}
		}
		f.invalid[notify.handle] = struct{}{}
	}
	return f.Get()
}

// invalidatorKey returns a stable identity for this field usable as a map
// key in an Invalidator's declared-dependency set.
func (f *Field[T]) invalidatorKey() any { return f }

// Set clears dirty; if the stored value differs from v (per eq), every
// registered dependent is dirtied transitively and ancestors'
// has_dirty_descendants flags are raised.
func (f *Field[T]) Set(v T, eq func(a, b T) bool) {
	changed := !eq(f.value, v)
	f.value = v
	f.dirty = false
	if changed {
		f.notify()
	}
}

// SetAlways is Set without an equality check, for types that are cheap to
// always treat as changed (e.g. slices).
func (f *Field[T]) SetAlways(v T) {
	f.value = v
	f.dirty = false
	f.notify()
}

func (f *Field[T]) notify() {
	for inv := range f.invalid {
		inv.mark()
	}
}

// Mark dirties the field directly. Idempotent.
func (f *Field[T]) Mark() {
	if f.dirty {
		return
	}
	f.dirty = true
	if f.owner != nil {
		f.owner.markDescendantDirty()
	}
	f.notifyDependentsDirty()
}

// notifyDependentsDirty dirties every dependent field when this field is
// marked directly (not merely changed via Set) — a dirtied input always
// dirties its dependents too.
func (f *Field[T]) notifyDependentsDirty() {
	for inv := range f.invalid {
		inv.mark()
	}
}

// Dirty reports whether the field currently needs recomputation.
func (f *Field[T]) Dirty() bool { return f.dirty }

// Invalidator returns the type-erased handle other fields use to register
// f as their dependent and to mark f dirty without knowing T. The handle
// is cached on the field so repeated calls register the same dependent.
func (f *Field[T]) Invalidator() *Invalidator {
	if f.selfInvalidator == nil {
		h := &fieldInvalidator{owner: f.owner, mark: f.Mark}
		f.selfInvalidator = &Invalidator{handle: h, owner: f.owner, declaredDeps: map[any]struct{}{}}
	}
	return f.selfInvalidator
}

// Copy sets f to the current value of src, subscribing f to src so future
// changes to src re-dirty f. Sugar for f.Set(src.Read(f.Invalidator()), eq).
func (f *Field[T]) Copy(src *Field[T], eq func(a, b T) bool) {
	f.Set(src.Read(f.Invalidator()), eq)
}

// Invalidator is the handle one field gives another so it can be
// registered as a dependent without either side needing to know the
// other's value type.
type Invalidator struct {
	handle *fieldInvalidator
	owner  *Object

	frozen       bool
	declaredDeps map[any]struct{}
}

// NewInvalidator allocates a fresh, unfrozen dependency set for owner. Call
// Freeze once every Read a layout method intends to perform has happened
// at least once, to catch future omitted reads.
func NewInvalidator(owner *Object) *Invalidator {
	return &Invalidator{owner: owner, declaredDeps: map[any]struct{}{}}
}

func (inv *Invalidator) Freeze() { inv.frozen = true }
