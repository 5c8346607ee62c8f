package browser

import (
	"testing"

	"github.com/emberweb/ember/internal/commit"
	"github.com/emberweb/ember/internal/paint"
)

func TestCommitIgnoresStaleTabIndex(t *testing.T) {
	b := &Browser{active: 0, url: "http://a"}
	b.Commit(1, commit.Data{URL: "http://b"})
	if b.url != "http://a" {
		t.Fatalf("a commit from a non-active tab must be ignored, got url %q", b.url)
	}
}

func TestCommitWithNilCompositedUpdatesRequestsFullComposite(t *testing.T) {
	b := &Browser{active: 0}
	b.Commit(0, commit.Data{URL: "http://a", Height: 100})
	if !b.needsComposite || !b.needsRaster || !b.needsDraw {
		t.Fatalf("a commit with nil CompositedUpdates must request a full composite/raster/draw, got composite=%v raster=%v draw=%v",
			b.needsComposite, b.needsRaster, b.needsDraw)
	}
	if b.url != "http://a" || b.docHeight != 100 {
		t.Fatalf("commit did not apply URL/Height: url=%q height=%v", b.url, b.docHeight)
	}
}

func TestCommitWithCompositedUpdatesOnlyNeedsDraw(t *testing.T) {
	b := &Browser{active: 0}
	updates := map[int]*paint.Blend{3: paint.NewBlend(0.5, paint.BlendModeNormal, 3, nil)}
	b.Commit(0, commit.Data{URL: "http://a", CompositedUpdates: updates})
	if b.needsComposite || b.needsRaster {
		t.Fatalf("a partial opacity-only commit must not request a full composite/raster, got composite=%v raster=%v",
			b.needsComposite, b.needsRaster)
	}
	if !b.needsDraw {
		t.Fatal("a partial commit must still request a redraw")
	}
	if len(b.compositedUpdates) != 1 {
		t.Fatalf("expected compositedUpdates to carry the update map, got %v", b.compositedUpdates)
	}
}

func TestCommitNilScrollLeavesScrollUnchanged(t *testing.T) {
	b := &Browser{active: 0, scroll: 42}
	b.Commit(0, commit.Data{URL: "http://a"})
	if b.scroll != 42 {
		t.Fatalf("a commit with a nil Scroll pointer must not change scroll, got %v", b.scroll)
	}
}

func TestCommitSetsScrollWhenProvided(t *testing.T) {
	b := &Browser{active: 0, scroll: 42}
	s := 7.0
	b.Commit(0, commit.Data{URL: "http://a", Scroll: &s})
	if b.scroll != 7 {
		t.Fatalf("scroll = %v, want 7", b.scroll)
	}
}
