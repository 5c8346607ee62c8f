// Package style implements the cascade (spec §4.2): per-node style maps
// computed from a rule list plus inline style plus inherited defaults,
// with transition diffing that installs NumericAnimations.
package style

import (
	"sort"
	"strconv"
	"strings"

	"github.com/emberweb/ember/internal/css"
	"github.com/emberweb/ember/internal/dom"
)

// InheritedProperties are seeded on every element from its parent (or
// these defaults at the root), matching constants.py's INHERITED_PROPERTIES.
var InheritedProperties = map[string]string{
	"font-size":   "16px",
	"font-weight": "normal",
	"font-style":  "normal",
	"color":       "black",
}

// nodeAdapter adapts *dom.Node to css.MatchNode without css depending on
// dom.
type nodeAdapter struct {
	tree *dom.Tree
	id   dom.ID
}

func (a nodeAdapter) TagName() string { return a.tree.Node(a.id).Tag }
func (a nodeAdapter) Focused() bool   { return a.tree.Node(a.id).IsFocused }
func (a nodeAdapter) ParentNode() (css.MatchNode, bool) {
	n := a.tree.Node(a.id)
	if n.Parent == dom.NoID {
		return nil, false
	}
	return nodeAdapter{tree: a.tree, id: n.Parent}, true
}

// Run walks tree from root top-down, computing every element's style map
// from rules + inline style + inheritance, installing NumericAnimations
// for any transitioning property whose value changed (spec §4.2).
// darkMode gates @media prefers-color-scheme rules; refreshRateSec
// converts a transition's duration into a frame count.
func Run(tree *dom.Tree, root dom.ID, rules []css.Rule, darkMode bool, refreshRateSec float64) {
	sorted := make([]css.Rule, len(rules))
	copy(sorted, rules)
	sort.SliceStable(sorted, func(i, j int) bool {
		return css.CascadePriority(sorted[i]) < css.CascadePriority(sorted[j])
	})

	var walk func(id dom.ID, parentStyle map[string]string)
	walk = func(id dom.ID, parentStyle map[string]string) {
		n := tree.Node(id)
		if n == nil || n.Kind != dom.KindElement {
			return
		}
		prior := n.Style
		next := map[string]string{}
		for k, v := range InheritedProperties {
			if parentStyle != nil {
				if pv, ok := parentStyle[k]; ok {
					v = pv
				}
			}
			next[k] = v
		}

		adapter := nodeAdapter{tree: tree, id: id}
		for _, r := range sorted {
			if r.Media == "dark" && !darkMode {
				continue
			}
			if r.Media == "light" && darkMode {
				continue
			}
			if !r.Selector.Matches(adapter) {
				continue
			}
			for _, d := range r.Declarations {
				next[d.Property] = d.Value
			}
		}
		if inline := n.Attrs["style"]; inline != "" {
			for _, d := range css.NewParser(inline).ParseDeclarations() {
				next[d.Property] = d.Value
			}
		}

		if pct, ok := next["font-size"]; ok && strings.HasSuffix(pct, "%") {
			parentPx := 16.0
			if parentStyle != nil {
				parentPx = parsePx(parentStyle["font-size"])
			}
			frac, _ := strconv.ParseFloat(strings.TrimSuffix(pct, "%"), 64)
			next["font-size"] = formatPx(parentPx * frac / 100)
		}

		diffTransitions(n, prior, next, refreshRateSec)
		n.Style = next

		for _, c := range n.Children {
			walk(c, next)
		}
	}
	walk(root, nil)
}

// diffTransitions installs a NumericAnimation for opacity when the
// node's `transition` declaration names it and the value actually
// changed (spec §3, §4.2; only opacity is animatable in this spec).
func diffTransitions(n *dom.Node, prior, next map[string]string, refreshRateSec float64) {
	transition := next["transition"]
	if !strings.Contains(transition, "opacity") {
		return
	}
	durationSec := parseTransitionDuration(transition)
	if durationSec <= 0 {
		return
	}
	oldV, oldOK := prior["opacity"]
	newV, newOK := next["opacity"]
	if !oldOK || !newOK {
		return
	}
	oldF := parseFloat(oldV, 1)
	newF := parseFloat(newV, 1)
	if oldF == newF {
		return
	}
	numFrames := int(durationSec/refreshRateSec + 0.5)
	if numFrames < 1 {
		numFrames = 1
	}
	if n.Animations == nil {
		n.Animations = map[string]*dom.Animation{}
	}
	n.Animations["opacity"] = &dom.Animation{
		OldValue:       oldF,
		NewValue:       newF,
		NumFrames:      numFrames,
		FrameCount:     0,
		ChangePerFrame: (newF - oldF) / float64(numFrames),
	}
}

// parseTransitionDuration extracts the seconds value from a declaration
// like "opacity 0.33s".
func parseTransitionDuration(s string) float64 {
	fields := strings.Fields(s)
	for _, f := range fields {
		if strings.HasSuffix(f, "s") {
			v, err := strconv.ParseFloat(strings.TrimSuffix(f, "s"), 64)
			if err == nil {
				return v
			}
		}
	}
	return 0
}

func parsePx(s string) float64 {
	s = strings.TrimSuffix(s, "px")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 16
	}
	return v
}

func formatPx(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) + "px" }

func parseFloat(s string, def float64) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return v
}
