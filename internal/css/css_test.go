package css

import "testing"

type fakeNode struct {
	tag     string
	focused bool
	parent  *fakeNode
}

func (n *fakeNode) TagName() string { return n.tag }
func (n *fakeNode) Focused() bool   { return n.focused }
func (n *fakeNode) ParentNode() (MatchNode, bool) {
	if n.parent == nil {
		return nil, false
	}
	return n.parent, true
}

func TestTagSelectorMatches(t *testing.T) {
	sel := TagSelector{Tag: "P"}
	if !sel.Matches(&fakeNode{tag: "p"}) {
		t.Fatal("tag selectors must case-fold")
	}
	if sel.Matches(&fakeNode{tag: "div"}) {
		t.Fatal("tag selector matched the wrong tag")
	}
}

func TestDescendantSelectorWalksAncestors(t *testing.T) {
	div := &fakeNode{tag: "div"}
	p := &fakeNode{tag: "p", parent: div}
	sel := DescendantSelector{Left: TagSelector{Tag: "div"}, Right: TagSelector{Tag: "p"}}
	if !sel.Matches(p) {
		t.Fatal("expected div p to match a p inside a div")
	}

	span := &fakeNode{tag: "span", parent: &fakeNode{tag: "section"}}
	if sel.Matches(span) {
		t.Fatal("expected div p not to match a span inside a section")
	}
}

func TestPseudoclassFocusSelector(t *testing.T) {
	sel := PseudoclassSelector{Base: TagSelector{Tag: "input"}, Class: "focus"}
	if sel.Matches(&fakeNode{tag: "input", focused: false}) {
		t.Fatal(":focus must not match an unfocused node")
	}
	if !sel.Matches(&fakeNode{tag: "input", focused: true}) {
		t.Fatal(":focus must match a focused node")
	}
}

func TestCascadePriorityOrdersDescendantAboveTag(t *testing.T) {
	tagRule := Rule{Selector: TagSelector{Tag: "p"}}
	descRule := Rule{Selector: DescendantSelector{Left: TagSelector{Tag: "div"}, Right: TagSelector{Tag: "p"}}}
	if CascadePriority(descRule) <= CascadePriority(tagRule) {
		t.Fatal("a more specific descendant selector must outrank a bare tag selector")
	}
}

func TestParseDeclarations(t *testing.T) {
	decls := NewParser("color:red; font-weight : bold ;").ParseDeclarations()
	if len(decls) != 2 {
		t.Fatalf("expected 2 declarations, got %d", len(decls))
	}
	if decls[0].Property != "color" || decls[0].Value != "red" {
		t.Fatalf("unexpected first declaration: %+v", decls[0])
	}
	if decls[1].Property != "font-weight" || decls[1].Value != "bold" {
		t.Fatalf("unexpected second declaration: %+v", decls[1])
	}
}

func TestParseStylesheetRules(t *testing.T) {
	rules := NewParser("p{color:blue} div p{font-weight:bold}").Parse()
	if len(rules) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(rules))
	}
	if _, ok := rules[0].Selector.(TagSelector); !ok {
		t.Fatalf("expected first rule's selector to be a TagSelector, got %T", rules[0].Selector)
	}
	if _, ok := rules[1].Selector.(DescendantSelector); !ok {
		t.Fatalf("expected second rule's selector to be a DescendantSelector, got %T", rules[1].Selector)
	}
}
