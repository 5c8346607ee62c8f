package layout

import (
	"testing"

	"github.com/emberweb/ember/internal/browsererr"
)

func eqInt(a, b int) bool { return a == b }

func TestFieldGetPanicsWhenDirty(t *testing.T) {
	f := NewField[int](nil, "width", 10)
	f.Mark()

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected Get on a dirty field to panic")
		}
		err, ok := r.(*browsererr.Error)
		if !ok {
			t.Fatalf("expected *browsererr.Error, got %T", r)
		}
		if err.Kind != browsererr.KindProtectedField {
			t.Fatalf("expected KindProtectedField, got %v", err.Kind)
		}
	}()
	f.Get()
}

func TestFieldSetSameValueDoesNotDirtyDependents(t *testing.T) {
	a := NewField[int](nil, "a", 5)
	b := NewField[int](nil, "b", 0)

	inv := b.Invalidator()
	_ = a.Read(inv)

	a.Set(5, eqInt)
	if b.Dirty() {
		t.Fatal("setting a field to its existing value must not dirty dependents")
	}
}

func TestFieldSetChangedValueDirtiesDependents(t *testing.T) {
	a := NewField[int](nil, "a", 5)
	b := NewField[int](nil, "b", 0)

	inv := b.Invalidator()
	_ = a.Read(inv)

	a.Set(6, eqInt)
	if !b.Dirty() {
		t.Fatal("changing a field's value must dirty its dependents")
	}
}

func TestFieldMarkDirtiesTransitively(t *testing.T) {
	a := NewField[int](nil, "a", 1)
	b := NewField[int](nil, "b", 2)
	c := NewField[int](nil, "c", 3)

	bInv := b.Invalidator()
	_ = a.Read(bInv)
	cInv := c.Invalidator()
	_ = b.Read(cInv)

	a.Mark()
	if !b.Dirty() {
		t.Fatal("marking a dirties its direct dependent")
	}
	if !c.Dirty() {
		t.Fatal("marking a field must transitively dirty dependents of dependents")
	}
}

func TestFieldReadUndeclaredAfterFreezePanics(t *testing.T) {
	owner := &Object{}
	a := NewField[int](owner, "a", 1)
	b := NewField[int](owner, "b", 2)

	inv := NewInvalidator(owner)
	_ = a.Read(inv)
	inv.Freeze()

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected a read not declared before Freeze to panic")
		}
	}()
	_ = b.Read(inv)
}

func TestFieldCopySubscribesToSource(t *testing.T) {
	src := NewField[int](nil, "src", 1)
	dst := NewField[int](nil, "dst", 0)

	dst.Copy(src, eqInt)
	if dst.Get() != 1 {
		t.Fatalf("Copy should take src's current value, got %d", dst.Get())
	}

	src.Set(2, eqInt)
	if !dst.Dirty() {
		t.Fatal("Copy must subscribe dst to future changes on src")
	}
}
