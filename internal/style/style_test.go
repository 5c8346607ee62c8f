package style

import (
	"testing"

	"github.com/emberweb/ember/internal/css"
	"github.com/emberweb/ember/internal/dom"
)

func TestRunAppliesCascadeInPriorityOrder(t *testing.T) {
	tree := dom.NewTree()
	div := tree.NewElement("div", nil, dom.NoID)
	tree.Root = div
	p := tree.NewElement("p", nil, div)

	rules := []css.Rule{
		{Selector: css.TagSelector{Tag: "p"}, Declarations: []css.Declaration{{Property: "color", Value: "blue"}}},
		{Selector: css.DescendantSelector{Left: css.TagSelector{Tag: "div"}, Right: css.TagSelector{Tag: "p"}},
			Declarations: []css.Declaration{{Property: "color", Value: "green"}}},
	}
	Run(tree, div, rules, false, 0.033)

	got := tree.Node(p).Style["color"]
	if got != "green" {
		t.Fatalf("more specific descendant rule should win regardless of source order, got %q", got)
	}
}

func TestRunInheritsFromParent(t *testing.T) {
	tree := dom.NewTree()
	div := tree.NewElement("div", nil, dom.NoID)
	tree.Root = div
	p := tree.NewElement("p", nil, div)

	rules := []css.Rule{
		{Selector: css.TagSelector{Tag: "div"}, Declarations: []css.Declaration{{Property: "color", Value: "red"}}},
	}
	Run(tree, div, rules, false, 0.033)

	if tree.Node(p).Style["color"] != "red" {
		t.Fatalf("p should inherit color from div, got %q", tree.Node(p).Style["color"])
	}
}

func TestRunIsIdempotentWhenRulesUnchanged(t *testing.T) {
	tree := dom.NewTree()
	div := tree.NewElement("div", nil, dom.NoID)
	tree.Root = div
	rules := []css.Rule{{Selector: css.TagSelector{Tag: "div"}, Declarations: []css.Declaration{{Property: "color", Value: "red"}}}}

	Run(tree, div, rules, false, 0.033)
	first := map[string]string{}
	for k, v := range tree.Node(div).Style {
		first[k] = v
	}
	Run(tree, div, rules, false, 0.033)
	second := tree.Node(div).Style

	if len(first) != len(second) {
		t.Fatalf("re-running style with unchanged rules changed the property count: %d vs %d", len(first), len(second))
	}
	for k, v := range first {
		if second[k] != v {
			t.Fatalf("property %q changed from %q to %q on an idempotent re-run", k, v, second[k])
		}
	}
}

func TestRunInlineStyleWinsOverRules(t *testing.T) {
	tree := dom.NewTree()
	div := tree.NewElement("div", map[string]string{"style": "color:purple"}, dom.NoID)
	tree.Root = div
	rules := []css.Rule{{Selector: css.TagSelector{Tag: "div"}, Declarations: []css.Declaration{{Property: "color", Value: "red"}}}}
	Run(tree, div, rules, false, 0.033)

	if tree.Node(div).Style["color"] != "purple" {
		t.Fatalf("inline style must win over stylesheet rules, got %q", tree.Node(div).Style["color"])
	}
}

func TestRunPercentFontSizeResolvesAgainstParent(t *testing.T) {
	tree := dom.NewTree()
	div := tree.NewElement("div", map[string]string{"style": "font-size:20px"}, dom.NoID)
	tree.Root = div
	span := tree.NewElement("span", map[string]string{"style": "font-size:150%"}, div)
	Run(tree, div, nil, false, 0.033)

	if tree.Node(span).Style["font-size"] != "30px" {
		t.Fatalf("150%% of 20px should resolve to 30px, got %q", tree.Node(span).Style["font-size"])
	}
}

func TestRunInstallsOpacityTransitionOnChange(t *testing.T) {
	tree := dom.NewTree()
	div := tree.NewElement("div", map[string]string{"style": "opacity:1;transition:opacity 1s"}, dom.NoID)
	tree.Root = div
	Run(tree, div, nil, false, 0.1)

	div2 := tree.NewElement("div", map[string]string{"style": "opacity:0;transition:opacity 1s"}, dom.NoID)
	n := tree.Node(div2)
	n.Style = map[string]string{"opacity": "1", "transition": "opacity 1s"}
	Run(tree, div2, nil, false, 0.1)

	anim, ok := tree.Node(div2).Animations["opacity"]
	if !ok {
		t.Fatal("expected an opacity NumericAnimation to be installed when opacity changes under a transition")
	}
	if anim.NumFrames != 10 {
		t.Fatalf("1s at 0.1s/frame should be 10 frames, got %d", anim.NumFrames)
	}
}

func TestRunDarkModeMediaGate(t *testing.T) {
	tree := dom.NewTree()
	div := tree.NewElement("div", nil, dom.NoID)
	tree.Root = div
	rules := []css.Rule{
		{Selector: css.TagSelector{Tag: "div"}, Media: "dark", Declarations: []css.Declaration{{Property: "color", Value: "white"}}},
		{Selector: css.TagSelector{Tag: "div"}, Media: "light", Declarations: []css.Declaration{{Property: "color", Value: "black"}}},
	}
	Run(tree, div, rules, true, 0.033)
	if tree.Node(div).Style["color"] != "white" {
		t.Fatalf("dark mode should apply the dark media rule, got %q", tree.Node(div).Style["color"])
	}

	Run(tree, div, rules, false, 0.033)
	if tree.Node(div).Style["color"] != "black" {
		t.Fatalf("light mode should apply the light media rule, got %q", tree.Node(div).Style["color"])
	}
}
