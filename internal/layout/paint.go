package layout

import (
	"strconv"
	"strings"

	"github.com/emberweb/ember/internal/dom"
	"github.com/emberweb/ember/internal/geom"
	"github.com/emberweb/ember/internal/paint"
)

// PaintTree emits obj's own primitives, recurses into children (or, for a
// loaded iframe, into its inner frame's document layout), then wraps the
// result with paint effects (spec §4.4).
func PaintTree(tree *dom.Tree, obj *Object) []paint.Node {
	var out []paint.Node
	switch obj.Kind {
	case KindText:
		n := tree.Node(dom.ID(obj.NodeID))
		color := styleColor(n, "color", paint.Black)
		out = append(out, paint.NewDrawText(obj.Rect(), paint.TextRun{
			Content: obj.Text.Content,
			FontPx:  obj.Font.Get().SizePx,
			Weight:  obj.Font.Get().Weight,
			Style:   obj.Font.Get().Style,
			Color:   color,
		}))
	case KindInput:
		out = append(out, paint.NewDrawRect(obj.Rect(), paint.Color{R: 238, G: 238, B: 238, A: 255}))
	case KindImage:
		if obj.Image != nil && !obj.Image.Broken && obj.Image.Decoded != nil {
			out = append(out, paint.NewDrawImage(obj.Rect(), obj.Image.Decoded))
		} else {
			out = append(out, paint.NewDrawRect(obj.Rect(), paint.Color{R: 200, G: 200, B: 200, A: 255}))
		}
	case KindIframe:
		if obj.Frame != nil && obj.Frame.Inner != nil {
			out = append(out, PaintTree(tree, obj.Frame.Inner)...)
		} else {
			out = append(out, paint.NewDrawRect(obj.Rect(), paint.Color{R: 220, G: 220, B: 220, A: 255}))
		}
	default: // Document, Block, Line
		for _, c := range childrenOf(obj) {
			out = append(out, PaintTree(tree, c)...)
		}
	}
	return paintEffects(tree, obj, out)
}

func childrenOf(obj *Object) []*Object {
	return obj.Children.Get()
}

// paintEffects wraps cmds per spec §4.4: optional overflow:clip Blend,
// then the node's own opacity/blend-mode Blend (recorded as the node's
// blend_op back-reference), then a translation Transform.
func paintEffects(tree *dom.Tree, obj *Object, cmds []paint.Node) []paint.Node {
	if obj.Kind != KindBlock && obj.Kind != KindDocument {
		return cmds
	}
	n := tree.Node(dom.ID(obj.NodeID))
	if n == nil || n.Kind != dom.KindElement {
		return cmds
	}

	if n.Style["overflow"] == "clip" {
		rrect := geom.RRect{Rect: obj.Rect()}
		clip := paint.NewBlend(1, paint.BlendModeDestinationIn, int(obj.NodeID),
			append(cmds, paint.NewDrawRRect(rrect, paint.White)))
		cmds = []paint.Node{clip}
	}

	opacity := styleOpacity(n)
	mode := paint.BlendModeNormal
	blend := paint.NewBlend(opacity, mode, int(obj.NodeID), cmds)
	n.BlendOp = blend

	dx, dy := styleTranslation(n)
	transform := paint.NewTransform(dx, dy, int(obj.NodeID), []paint.Node{blend})
	return []paint.Node{transform}
}

func styleOpacity(n *dom.Node) float64 {
	v, ok := n.Style["opacity"]
	if !ok {
		return 1
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 1
	}
	return f
}

func styleTranslation(n *dom.Node) (dx, dy float64) {
	v := n.Style["transform"]
	if !strings.HasPrefix(v, "translate(") {
		return 0, 0
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(v, "translate("), ")")
	parts := strings.Split(inner, ",")
	if len(parts) != 2 {
		return 0, 0
	}
	dx, _ = strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(parts[0], "px")), 64)
	dy, _ = strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(parts[1], "px")), 64)
	return dx, dy
}

func styleColor(n *dom.Node, prop string, def paint.Color) paint.Color {
	v, ok := n.Style[prop]
	if !ok {
		return def
	}
	switch v {
	case "black":
		return paint.Black
	case "white":
		return paint.White
	case "red":
		return paint.Color{R: 255, A: 255}
	case "gray", "grey":
		return paint.Color{R: 128, G: 128, B: 128, A: 255}
	default:
		return def
	}
}
