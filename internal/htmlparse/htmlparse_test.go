package htmlparse

import (
	"testing"

	"github.com/emberweb/ember/internal/dom"
)

func TestParseImplicitHTMLWrapper(t *testing.T) {
	tree, root := Parse("<div>hi</div>")
	if tree.Node(root).Tag != "html" {
		t.Fatalf("root tag = %q, want implicit html wrapper", tree.Node(root).Tag)
	}
}

func TestParseVoidElementHasNoChildren(t *testing.T) {
	tree, root := Parse("<div><img src=a.png><p>after</p></div>")
	var img *dom.Node
	tree.Walk(root, func(n *dom.Node) {
		if n.Tag == "img" {
			img = n
		}
	})
	if img == nil {
		t.Fatal("expected to find the img element")
	}
	if len(img.Children) != 0 {
		t.Fatalf("void element img has %d children, want 0", len(img.Children))
	}
	var p *dom.Node
	tree.Walk(root, func(n *dom.Node) {
		if n.Tag == "p" {
			p = n
		}
	})
	if p == nil {
		t.Fatal("img being treated as non-void swallowed the following <p>")
	}
}

func TestParseAttributes(t *testing.T) {
	tree, root := Parse(`<a href="https://example.com" class='x y'>link</a>`)
	var a *dom.Node
	tree.Walk(root, func(n *dom.Node) {
		if n.Tag == "a" {
			a = n
		}
	})
	if a == nil {
		t.Fatal("expected to find the a element")
	}
	if a.Attrs["href"] != "https://example.com" {
		t.Fatalf("href = %q", a.Attrs["href"])
	}
	if a.Attrs["class"] != "x y" {
		t.Fatalf("class = %q", a.Attrs["class"])
	}
}

func TestParseRawTextScriptNotTokenized(t *testing.T) {
	tree, root := Parse(`<script>if (1 < 2) { x(); }</script>`)
	var script *dom.Node
	tree.Walk(root, func(n *dom.Node) {
		if n.Tag == "script" {
			script = n
		}
	})
	if script == nil {
		t.Fatal("expected to find the script element")
	}
	if len(script.Children) != 1 {
		t.Fatalf("script has %d children, want 1 text node", len(script.Children))
	}
	text := tree.Node(script.Children[0])
	if text.Text != "if (1 < 2) { x(); }" {
		t.Fatalf("script text content = %q", text.Text)
	}
}

func TestParseMismatchedTagsRecoverAtEOF(t *testing.T) {
	tree, root := Parse("<div><p>unterminated")
	var p *dom.Node
	tree.Walk(root, func(n *dom.Node) {
		if n.Tag == "p" {
			p = n
		}
	})
	if p == nil {
		t.Fatal("expected the p element to still be parsed despite no closing tags")
	}
}

func TestIsHeadElement(t *testing.T) {
	if !IsHeadElement("title") {
		t.Fatal("title should be a head element")
	}
	if IsHeadElement("div") {
		t.Fatal("div should not be a head element")
	}
}
