// Package dom implements the document node tree (spec §3). Nodes live in
// an arena with stable indices so the node↔layout-object back-references
// (spec §9) never form an owning cycle.
package dom

// ID is a stable arena index for a Node.
type ID int

const NoID ID = -1

// Kind discriminates element vs. text nodes.
type Kind int

const (
	KindElement Kind = iota
	KindText
)

// Animation is a single property's numeric transition state (spec §3).
// Defined here (not in internal/anim) to avoid a dom → anim → dom cycle;
// internal/anim advances these values in place through each Node's
// Animations map.
type Animation struct {
	OldValue, NewValue float64
	NumFrames          int
	FrameCount         int
	ChangePerFrame     float64
}

// Node is a document node: either an element (tag + attributes + ordered
// children) or a text node (content). Parent is an arena ID, -1 at the
// root.
type Node struct {
	ID     ID
	Kind   Kind
	Parent ID

	// Element fields.
	Tag        string
	Attrs      map[string]string
	Children   []ID
	Style      map[string]string
	Animations map[string]*Animation
	IsFocused  bool

	// Text fields.
	Text string

	// Back-references (spec §3/§9): set by the layout pass, read by
	// hit-testing and the script bridge. LayoutObject is nil until the
	// node has been laid out at least once. Kept untyped (*layout.Object)
	// to avoid a dom→layout→dom import cycle (layout already imports dom
	// for Source/Builder); callers type-assert.
	LayoutObject any // *layout.Object
	BlendOp      any // *paint.Blend; kept untyped to avoid a dom→paint import
}

// Tree is the arena holding every Node in one document.
type Tree struct {
	nodes []*Node
	Root  ID
}

func NewTree() *Tree { return &Tree{Root: NoID} }

func (t *Tree) Node(id ID) *Node {
	if id < 0 || int(id) >= len(t.nodes) {
		return nil
	}
	return t.nodes[id]
}

// NewElement allocates a new element node under parent (NoID for the
// root) and returns its ID.
func (t *Tree) NewElement(tag string, attrs map[string]string, parent ID) ID {
	if attrs == nil {
		attrs = map[string]string{}
	}
	n := &Node{
		ID:         ID(len(t.nodes)),
		Kind:       KindElement,
		Parent:     parent,
		Tag:        tag,
		Attrs:      attrs,
		Style:      map[string]string{},
		Animations: map[string]*Animation{},
	}
	t.nodes = append(t.nodes, n)
	if parent != NoID {
		p := t.Node(parent)
		p.Children = append(p.Children, n.ID)
	}
	return n.ID
}

// NewText allocates a new text node under parent.
func (t *Tree) NewText(content string, parent ID) ID {
	n := &Node{ID: ID(len(t.nodes)), Kind: KindText, Parent: parent, Text: content}
	t.nodes = append(t.nodes, n)
	if parent != NoID {
		p := t.Node(parent)
		p.Children = append(p.Children, n.ID)
	}
	return n.ID
}

// ReplaceChildren drops n's existing children (they stay in the arena,
// unreachable from n, for the life of the Tree; nothing frees them) and
// reparents newChildren under n. Used by innerHTML_set (spec §6).
func (t *Tree) ReplaceChildren(id ID, newChildren []ID) {
	n := t.Node(id)
	n.Children = newChildren
	for _, c := range newChildren {
		t.Node(c).Parent = id
	}
}

// Walk visits id and every descendant, pre-order.
func (t *Tree) Walk(id ID, visit func(*Node)) {
	n := t.Node(id)
	if n == nil {
		return
	}
	visit(n)
	for _, c := range n.Children {
		t.Walk(c, visit)
	}
}

// Flatten returns every node in id's subtree, pre-order.
func (t *Tree) Flatten(id ID) []*Node {
	var out []*Node
	t.Walk(id, func(n *Node) { out = append(out, n) })
	return out
}

// IsBlockLevel reports whether tag is one of the block-display elements
// this engine's minimal built-in stylesheet treats as block (spec §4.3's
// block-vs-inline mode decision).
func IsBlockLevel(tag string) bool {
	switch tag {
	case "html", "body", "div", "p", "ul", "ol", "li", "h1", "h2", "h3",
		"h4", "h5", "h6", "header", "footer", "nav", "section", "article",
		"form":
		return true
	default:
		return false
	}
}
