// Package fonttext provides CPU-only font metrics for the layout pass.
// Layout must run entirely on the tab thread (spec §5); GPU work is
// confined to the browser thread, so text measurement cannot depend on
// the raster backend. Grounded in the teacher's golang.org/x/image/font
// usage for glyph-face lookups, reimplemented here as a pure-metrics
// cache rather than a rasterizing face, since we only ever need widths
// and linespace during layout.
package fonttext

import (
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// Key identifies a cached font by the same triple layout resolves fonts
// with (spec §4.3).
type Key struct {
	Weight string
	Style  string
	SizePx float64
}

// Metrics are the measurements layout needs: ascent/descent (positive,
// px) and linespace (ascent+descent; no extra leading is added).
type Metrics struct {
	Ascent    float64
	Descent   float64
	Linespace float64
}

var (
	mu    sync.Mutex
	cache = map[Key]Metrics{}
	face  = basicfont.Face7x13 // the only bundled face; real builds would
	// register weight/style-specific faces via RegisterFace.
)

// RegisterFace lets a caller (e.g. a later build with real font files)
// supply a specific face for a weight/style; unused registrations fall
// back to the bundled basicfont face.
var facesByStyle = map[string]font.Face{}

func RegisterFace(weight, style string, f font.Face) {
	mu.Lock()
	defer mu.Unlock()
	facesByStyle[weight+"/"+style] = f
	cache = map[Key]Metrics{}
}

// For returns cached metrics for key, computing them on first use. The
// basicfont bitmap face is a fixed 7x13 grid; SizePx scales its nominal
// 13px line height proportionally, which is the right idiom for a toy
// layout engine that doesn't shape real outline fonts.
func For(key Key) Metrics {
	mu.Lock()
	defer mu.Unlock()
	if m, ok := cache[key]; ok {
		return m
	}
	f := facesByStyle[key.Weight+"/"+key.Style]
	if f == nil {
		f = face
	}
	metrics := f.Metrics()
	scale := key.SizePx / 13.0
	if scale <= 0 {
		scale = 1
	}
	m := Metrics{
		Ascent:  float64(metrics.Ascent.Round()) * scale,
		Descent: float64(metrics.Descent.Round()) * scale,
	}
	m.Linespace = m.Ascent + m.Descent
	cache[key] = m
	return m
}

// MeasureWidth returns the advance width of s at the given font, summing
// glyph advances from the face (spec Non-goals: no shaping, so this is a
// simple per-rune advance sum, not a real shaper).
func MeasureWidth(key Key, s string) float64 {
	f := facesByStyle[key.Weight+"/"+key.Style]
	if f == nil {
		f = face
	}
	scale := key.SizePx / 13.0
	if scale <= 0 {
		scale = 1
	}
	total := 0
	for _, r := range s {
		adv, ok := f.GlyphAdvance(r)
		if !ok {
			continue
		}
		total += adv.Round()
	}
	return float64(total) * scale
}
