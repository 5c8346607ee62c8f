package paint

import "github.com/emberweb/ember/internal/geom"

// Canvas is the GPU canvas library external collaborator (spec §6): it
// consumes paint primitives and provides the save/restore/layer stack a
// backend needs to execute an effect chain.
type Canvas interface {
	Save()
	Restore()
	SaveLayerAlpha(bounds geom.Rect, alpha float64, mode BlendMode)
	Translate(dx, dy float64)
	ClipRect(rect geom.Rect)

	DrawRect(rect geom.Rect, color Color)
	DrawRRect(rrect geom.RRect, color Color)
	DrawLine(rect geom.Rect, color Color, width float64)
	DrawText(rect geom.Rect, run TextRun)
	DrawImage(cmd *DrawImage)

	Present()
}

// Execute replays a paint-tree node (command or effect) onto canvas,
// honoring the save/restore discipline every Blend/Transform effect
// requires.
func Execute(n Node, canvas Canvas) {
	switch v := n.(type) {
	case *DrawRect:
		canvas.DrawRect(v.Rect(), v.Color)
	case *DrawRRect:
		canvas.DrawRRect(geom.RRect{Rect: v.Rect(), Radius: geom.Radius{X: v.Radius, Y: v.Radius}}, v.Color)
	case *DrawLine:
		canvas.DrawLine(v.Rect(), v.Color, v.Width)
	case *DrawText:
		canvas.DrawText(v.Rect(), v.Run)
	case *DrawImage:
		canvas.DrawImage(v)
	case *Blend:
		canvas.Save()
		if v.Opacity < 1 || v.Mode != BlendModeNormal {
			canvas.SaveLayerAlpha(v.Rect(), v.Opacity, v.Mode)
		}
		for _, c := range v.Children() {
			Execute(c, canvas)
		}
		canvas.Restore()
	case *Transform:
		canvas.Save()
		canvas.Translate(v.Dx, v.Dy)
		for _, c := range v.Children() {
			Execute(c, canvas)
		}
		canvas.Restore()
	case *DrawCompositedLayer:
		v.Paint(canvas)
	}
}

// LayerPainter is implemented by compositor.Layer; kept as an interface
// here (rather than importing the compositor package) so paint has no
// dependency on compositor, avoiding an import cycle — the compositor
// depends on paint, not the reverse.
type LayerPainter interface {
	Rect() geom.Rect
	Paint(canvas Canvas)
}

// DrawCompositedLayer is a draw-list leaf wrapping a composited layer's
// cached raster; re-parented under clones of the layer's effect ancestors
// when the draw list is rebuilt (spec §4.5).
type DrawCompositedLayer struct {
	base
	Layer LayerPainter
}

func NewDrawCompositedLayer(layer LayerPainter) *DrawCompositedLayer {
	return &DrawCompositedLayer{base: base{rect: layer.Rect()}, Layer: layer}
}

func (d *DrawCompositedLayer) Paint(canvas Canvas) { d.Layer.Paint(canvas) }
