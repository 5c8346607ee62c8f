package geom

import "testing"

func TestRectFromLTWH(t *testing.T) {
	r := RectFromLTWH(10, 20, 30, 40)
	if r.Width() != 30 || r.Height() != 40 {
		t.Fatalf("unexpected dimensions: %+v", r)
	}
	if r.Right != 40 || r.Bottom != 60 {
		t.Fatalf("unexpected edges: %+v", r)
	}
}

func TestIntersectsTouchingEdgesDontCount(t *testing.T) {
	a := RectFromLTWH(0, 0, 10, 10)
	b := RectFromLTWH(10, 0, 10, 10)
	if a.Intersects(b) {
		t.Fatal("rects that only touch at an edge must not count as intersecting")
	}
}

func TestIntersectsOverlapping(t *testing.T) {
	a := RectFromLTWH(0, 0, 10, 10)
	b := RectFromLTWH(5, 5, 10, 10)
	if !a.Intersects(b) {
		t.Fatal("overlapping rects should intersect")
	}
}

func TestUnionWithEmptyReturnsOther(t *testing.T) {
	empty := Rect{}
	b := RectFromLTWH(1, 1, 2, 2)
	if empty.Union(b) != b {
		t.Fatal("union with an empty rect should return the other rect unchanged")
	}
}

func TestUnionCoversBoth(t *testing.T) {
	a := RectFromLTWH(0, 0, 10, 10)
	b := RectFromLTWH(5, 5, 10, 10)
	u := a.Union(b)
	if u.Left != 0 || u.Top != 0 || u.Right != 15 || u.Bottom != 15 {
		t.Fatalf("unexpected union bounds: %+v", u)
	}
}

func TestIntersectNonOverlappingIsZero(t *testing.T) {
	a := RectFromLTWH(0, 0, 10, 10)
	b := RectFromLTWH(20, 20, 10, 10)
	got := a.Intersect(b)
	if got != (Rect{}) {
		t.Fatalf("non-overlapping intersect should be the zero Rect, got %+v", got)
	}
}
