// Package tab implements the per-tab owner of the document tree, style
// rules, script bridge, layout root and commit production (spec §2's
// "Tab" row, §4.7's run_animation_frame pipeline). Grounded in
// _examples/original_source/browser_ui.py's Tab class, reworked onto the
// protected-field layout graph and the commit/compositor split spec.md
// adds on top of that toy implementation.
package tab

import (
	"net/url"
	"strings"

	"github.com/emberweb/ember/internal/anim"
	"github.com/emberweb/ember/internal/browsererr"
	"github.com/emberweb/ember/internal/browserlog"
	"github.com/emberweb/ember/internal/commit"
	"github.com/emberweb/ember/internal/css"
	"github.com/emberweb/ember/internal/dom"
	"github.com/emberweb/ember/internal/htmlparse"
	"github.com/emberweb/ember/internal/jsbridge"
	"github.com/emberweb/ember/internal/layout"
	"github.com/emberweb/ember/internal/paint"
	"github.com/emberweb/ember/internal/style"
	"github.com/emberweb/ember/internal/urlfetch"
)

const vstep = 18.0

// DefaultStyleSheet seeds every document's rule list (spec §4.2), grounded
// in browser_ui.py's DEFAULT_STYLE_SHEET (loaded from a bundled
// browser.css in the original; inlined here since this module ships no
// asset pipeline).
var DefaultStyleSheet = []css.Rule{
	{Selector: css.TagSelector{Tag: "a"}, Declarations: []css.Declaration{{Property: "color", Value: "red"}}},
	{Selector: css.TagSelector{Tag: "h1"}, Declarations: []css.Declaration{{Property: "font-weight", Value: "bold"}}},
}

// Tab owns exactly what spec §5 says is thread-confined to a tab thread:
// the document tree, style rules, layout graph and script interpreter.
type Tab struct {
	Client *urlfetch.Client

	Tree *dom.Tree
	Root dom.ID
	URL  urlfetch.URL

	History []urlfetch.URL

	Rules          []css.Rule
	DarkMode       bool
	Zoom           float64
	RefreshRateSec float64
	ScrollStepPx   float64

	Width, Height float64 // content viewport, excluding chrome
	Scroll        float64
	scrollChanged bool

	Focus dom.ID

	allowedOrigins []string // nil = unrestricted (no CSP header)

	Document *layout.Object
	builder  layout.Builder

	Script jsbridge.Interpreter
	raf    *anim.RAFRegistry

	needsStyle, needsLayout, needsPaint bool

	handleToID map[jsbridge.Handle]dom.ID
	idToHandle map[dom.ID]jsbridge.Handle
	nextHandle jsbridge.Handle
}

// New allocates a tab sized to (width, height) content pixels.
func New(client *urlfetch.Client, refreshRateSec, scrollStepPx, width, height float64) *Tab {
	return &Tab{
		Client:         client,
		Zoom:           1.0,
		RefreshRateSec: refreshRateSec,
		ScrollStepPx:   scrollStepPx,
		Width:          width,
		Height:         height,
		Focus:          dom.NoID,
		Script:         &jsbridge.Fake{},
		raf:            &anim.RAFRegistry{},
		handleToID:     map[jsbridge.Handle]dom.ID{},
		idToHandle:     map[dom.ID]jsbridge.Handle{},
	}
}

// Load fetches u (POSTing payload if non-nil), parses the response into a
// fresh document tree, collects CSP/link/script resources and renders
// (spec C.2-C.4, grounded in browser_ui.py's Tab.load).
func (t *Tab) Load(u urlfetch.URL, payload []byte) error {
	var referrer *urlfetch.URL
	if t.URL.String() != "" {
		referrer = &t.URL
	}
	resp, err := t.Client.Request(u, referrer, payload)
	if err != nil {
		browserlog.Warnf("load %s: %v", u.String(), err)
		return err
	}

	t.Scroll = 0
	t.URL = u
	t.History = append(t.History, u)
	t.Focus = dom.NoID
	t.handleToID = map[jsbridge.Handle]dom.ID{}
	t.idToHandle = map[dom.ID]jsbridge.Handle{}

	t.allowedOrigins = nil
	if csp, ok := resp.Headers["content-security-policy"]; ok {
		fields := strings.Fields(csp)
		if len(fields) > 0 && fields[0] == "default-src" {
			t.allowedOrigins = []string{}
			for _, origin := range fields[1:] {
				t.allowedOrigins = append(t.allowedOrigins, urlfetch.Parse(origin).Origin())
			}
		}
	}

	t.Tree, t.Root = htmlparse.Parse(string(resp.Body))
	t.builder = layout.Builder{Tree: t.Tree}
	t.Document = nil

	for _, n := range t.Tree.Flatten(t.Root) {
		if n.Kind != dom.KindElement || n.Tag != "script" {
			continue
		}
		src, ok := n.Attrs["src"]
		if !ok {
			continue
		}
		scriptURL := u.Resolve(src)
		if !t.allowedRequest(scriptURL) {
			browserlog.Infof("blocked script %s due to CSP", src)
			continue
		}
		scriptResp, err := t.Client.Request(scriptURL, &u, nil)
		if err != nil {
			continue
		}
		if err := t.Script.Run(string(scriptResp.Body), 0); err != nil {
			browserlog.Warnf("script error in %s: %v", src, err)
		}
	}

	t.Rules = append([]css.Rule{}, DefaultStyleSheet...)
	for _, n := range t.Tree.Flatten(t.Root) {
		if n.Kind != dom.KindElement || n.Tag != "link" {
			continue
		}
		if n.Attrs["rel"] != "stylesheet" {
			continue
		}
		href, ok := n.Attrs["href"]
		if !ok {
			continue
		}
		styleURL := u.Resolve(href)
		if !t.allowedRequest(styleURL) {
			browserlog.Infof("blocked stylesheet %s due to CSP", href)
			continue
		}
		styleResp, err := t.Client.Request(styleURL, &u, nil)
		if err != nil {
			continue
		}
		t.Rules = append(t.Rules, css.NewParser(string(styleResp.Body)).Parse()...)
	}

	t.needsStyle, t.needsLayout, t.needsPaint = true, true, true
	t.render()
	return nil
}

func (t *Tab) allowedRequest(u urlfetch.URL) bool {
	if t.allowedOrigins == nil {
		return true
	}
	for _, o := range t.allowedOrigins {
		if o == u.Origin() {
			return true
		}
	}
	return false
}

// GoBack pops the two most recent history entries and reloads the older
// one, mirroring browser_ui.py's Tab.go_back exactly (Load re-appends the
// target URL, so after a successful GoBack the history is one entry
// shorter and ends with the reloaded page).
func (t *Tab) GoBack() {
	if len(t.History) <= 1 {
		return
	}
	t.History = t.History[:len(t.History)-1]
	back := t.History[len(t.History)-1]
	t.History = t.History[:len(t.History)-1]
	t.Load(back, nil)
}

func (t *Tab) CanGoBack() bool { return len(t.History) > 1 }

// render runs style→layout→paint guarded by needs_* flags (spec §4.7 step
// 5).
func (t *Tab) render() []paint.Node {
	if t.needsStyle {
		style.Run(t.Tree, t.Root, t.Rules, t.DarkMode, t.RefreshRateSec)
		t.needsStyle = false
		t.needsLayout = true
	}
	if t.needsLayout {
		t.Document = t.builder.LayoutDocument(t.Document, t.Root, t.Width, t.Zoom)
		t.attachBackReferences(t.Document)
		t.needsLayout = false
		t.needsPaint = true
	}
	var display []paint.Node
	if t.needsPaint {
		display = layout.PaintTree(t.Tree, t.Document)
		t.needsPaint = false
	}
	return display
}

// attachBackReferences sets dom.Node.LayoutObject for every node the
// layout pass just (re)built (spec §9's arena back-reference).
func (t *Tab) attachBackReferences(obj *layout.Object) {
	if obj == nil {
		return
	}
	n := t.Tree.Node(dom.ID(obj.NodeID))
	if n != nil {
		n.LayoutObject = obj
	}
	for _, c := range obj.Children.Get() {
		t.attachBackReferences(c)
	}
}

func (t *Tab) docHeight() float64 {
	if t.Document == nil {
		return 0
	}
	return t.Document.Height.Get()
}

func (t *Tab) maxScroll() float64 {
	m := t.docHeight() + 2*vstep - t.Height
	if m < 0 {
		return 0
	}
	return m
}

func (t *Tab) ScrollDown() {
	t.Scroll = clampf(t.Scroll+t.ScrollStepPx, 0, t.maxScroll())
	t.scrollChanged = true
	t.raf.Request()
}

func (t *Tab) ScrollUp() {
	t.Scroll = clampf(t.Scroll-t.ScrollStepPx, 0, t.maxScroll())
	t.scrollChanged = true
	t.raf.Request()
}

func (t *Tab) ScrollWithMouse(deltaY float64) {
	if deltaY > 0 {
		t.ScrollDown()
	} else {
		t.ScrollUp()
	}
}

func clampf(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Click hit-tests (x,y) against the layout tree (content-space y, already
// offset by scroll by the caller), then dispatches per element tag
// (spec: link navigation, input focus, button→form submit; grounded in
// browser_ui.py's Tab.click).
func (t *Tab) Click(x, y float64) {
	if t.Focus != dom.NoID {
		if n := t.Tree.Node(t.Focus); n != nil {
			n.IsFocused = false
		}
	}
	t.Focus = dom.NoID

	var hits []*layout.Object
	if t.Document != nil {
		t.collectHits(t.Document, x, y, &hits)
	}
	if len(hits) == 0 {
		t.raf.Request()
		return
	}
	id := dom.ID(hits[len(hits)-1].NodeID)
	for id != dom.NoID {
		n := t.Tree.Node(id)
		if n == nil {
			break
		}
		switch {
		case n.Kind == dom.KindText:
			// fall through to parent
		case n.Tag == "a":
			if href, ok := n.Attrs["href"]; ok {
				t.Load(t.URL.Resolve(href), nil)
				return
			}
		case n.Tag == "input":
			n.Attrs["value"] = ""
			n.IsFocused = true
			t.Focus = id
			t.needsStyle = true
			t.raf.Request()
			return
		case n.Tag == "button":
			if formID, ok := t.ownerForm(id); ok {
				t.SubmitForm(formID)
				return
			}
		}
		id = n.Parent
	}
	t.raf.Request()
}

func (t *Tab) collectHits(obj *layout.Object, x, y float64, out *[]*layout.Object) {
	r := obj.Rect()
	if x >= r.Left && x < r.Right && y >= r.Top && y < r.Bottom {
		*out = append(*out, obj)
	}
	for _, c := range obj.Children.Get() {
		t.collectHits(c, x, y, out)
	}
}

func (t *Tab) ownerForm(id dom.ID) (dom.ID, bool) {
	for id != dom.NoID {
		n := t.Tree.Node(id)
		if n == nil {
			return dom.NoID, false
		}
		if n.Tag == "form" {
			if _, ok := n.Attrs["action"]; ok {
				return id, true
			}
		}
		id = n.Parent
	}
	return dom.NoID, false
}

// SubmitForm collects name=value pairs from formID's named input
// descendants and POSTs them to the form's action (spec C.3).
func (t *Tab) SubmitForm(formID dom.ID) {
	form := t.Tree.Node(formID)
	var pairs [][2]string
	for _, n := range t.Tree.Flatten(formID) {
		if n.Kind != dom.KindElement || n.Tag != "input" {
			continue
		}
		name, ok := n.Attrs["name"]
		if !ok {
			continue
		}
		pairs = append(pairs, [2]string{name, n.Attrs["value"]})
	}
	body := urlfetch.EncodeForm(pairs)
	t.Load(t.URL.Resolve(form.Attrs["action"]), body)
}

// Keypress appends char to the focused input's value (spec: keydown on
// focused element).
func (t *Tab) Keypress(char rune) {
	if t.Focus == dom.NoID {
		return
	}
	n := t.Tree.Node(t.Focus)
	if n == nil {
		return
	}
	n.Attrs["value"] += string(char)
	t.needsStyle = true
	t.raf.Request()
}

// Backspace removes the last rune from the focused input's value.
func (t *Tab) Backspace() {
	if t.Focus == dom.NoID {
		return
	}
	n := t.Tree.Node(t.Focus)
	if n == nil || n.Attrs["value"] == "" {
		return
	}
	v := []rune(n.Attrs["value"])
	n.Attrs["value"] = string(v[:len(v)-1])
	t.needsStyle = true
	t.raf.Request()
}

// SetZoom applies a multiplicative zoom step (Ctrl-=/Ctrl--) or resets it
// to 1.0 (Ctrl-0), per spec C.5. Load leaves Zoom unchanged, so the zoom
// level carries over to later loads in the same tab.
func (t *Tab) SetZoom(factor float64, reset bool) {
	if reset {
		t.Zoom = 1.0
	} else {
		t.Zoom *= factor
	}
	t.needsLayout = true
	t.raf.Request()
}

func (t *Tab) ToggleDarkMode() {
	t.DarkMode = !t.DarkMode
	t.needsStyle = true
	t.raf.Request()
}

func (t *Tab) HandleResize(width, height float64) {
	t.Width, t.Height = width, height
	t.needsLayout = true
	t.raf.Request()
}

// RequestAnimationFrame marks that a frame is needed; the actual
// scheduling decision belongs to the browser's timer (spec §4.9).
func (t *Tab) RequestAnimationFrame() { t.raf.Request() }

// NeedsAnimationFrame reports and clears whether a frame was requested.
func (t *Tab) NeedsAnimationFrame() bool { return t.raf.TakePending() }

// RunAnimationFrame implements spec §4.7's tab-side pipeline exactly.
func (t *Tab) RunAnimationFrame(scrollFromBrowser *float64) commit.Data {
	if !t.scrollChanged && scrollFromBrowser != nil {
		t.Scroll = *scrollFromBrowser
	}

	// Step 2: rAF callbacks via the script bridge (best-effort; a runtime
	// error in a callback must not abort the frame, spec §7).
	if err := t.Script.DispatchRAF(0); err != nil {
		browserlog.Warnf("raf callback error: %v", err)
	}

	// Step 3: advance animations.
	updated := anim.AdvanceAll(t.Tree, t.Root)
	if len(updated) > 0 {
		t.needsPaint = true
	}

	// Step 4: capture needs_composite before render clears the flags.
	needsComposite := t.needsStyle || t.needsLayout

	display := t.render()

	beforeClamp := t.Scroll
	t.Scroll = clampf(t.Scroll, 0, t.maxScroll())
	scrollMoved := t.Scroll != beforeClamp || t.scrollChanged

	data := commit.Data{
		URL:    t.URL.String(),
		Height: ceilf(t.docHeight() + 2*vstep),
	}
	if scrollMoved {
		s := t.Scroll
		data.Scroll = &s
	}
	if display != nil {
		data.Display = display
	}
	if !needsComposite {
		data.CompositedUpdates = t.collectBlendOps(updated)
	}

	t.scrollChanged = false
	return data
}

func ceilf(v float64) float64 {
	i := int64(v)
	if float64(i) < v {
		i++
	}
	return float64(i)
}

// collectBlendOps builds the composited_updates map (spec §4.8) from the
// set of node IDs whose animation produced a new style value this frame:
// node.blend_op, recorded by layout.PaintTree's paintEffects.
func (t *Tab) collectBlendOps(updated []dom.ID) map[int]*paint.Blend {
	if len(updated) == 0 {
		return map[int]*paint.Blend{}
	}
	out := map[int]*paint.Blend{}
	for _, id := range updated {
		n := t.Tree.Node(id)
		if n == nil {
			continue
		}
		if blend, ok := n.BlendOp.(*paint.Blend); ok {
			out[int(id)] = blend
		}
	}
	return out
}

// --- jsbridge.Host implementation (spec §6) -------------------------

func (t *Tab) handleFor(id dom.ID) jsbridge.Handle {
	if h, ok := t.idToHandle[id]; ok {
		return h
	}
	t.nextHandle++
	h := t.nextHandle
	t.idToHandle[id] = h
	t.handleToID[h] = id
	return h
}

func (t *Tab) Log(args ...any) { browserlog.Infof("console: %v", args) }

func (t *Tab) QuerySelectorAll(selector string, windowID int) ([]jsbridge.Handle, error) {
	sel := css.ParseSelector(selector)
	var out []jsbridge.Handle
	for _, n := range t.Tree.Flatten(t.Root) {
		if n.Kind != dom.KindElement {
			continue
		}
		if sel.Matches(nodeAdapter{tree: t.Tree, id: n.ID}) {
			out = append(out, t.handleFor(n.ID))
		}
	}
	return out, nil
}

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

func (t *Tab) GetAttribute(h jsbridge.Handle, attr string) string {
	id, ok := t.handleToID[h]
	if !ok {
		return ""
	}
	return t.Tree.Node(id).Attrs[attr]
}

func (t *Tab) SetAttribute(h jsbridge.Handle, attr, value string, windowID int) error {
	id, ok := t.handleToID[h]
	if !ok {
		return jsbridge.CrossOriginError("setAttribute")
	}
	t.Tree.Node(id).Attrs[attr] = value
	t.needsStyle = true
	t.raf.Request()
	return nil
}

func (t *Tab) InnerHTMLSet(h jsbridge.Handle, html string, windowID int) error {
	id, ok := t.handleToID[h]
	if !ok {
		return jsbridge.CrossOriginError("innerHTML_set")
	}
	subtree, root := htmlparse.Parse("<div>" + html + "</div>")
	children := subtree.Node(root).Children
	// Graft the parsed subtree's nodes into t.Tree by re-creating them
	// under id (a cheap, correct-by-construction approach that avoids
	// needing a cross-tree node transplant).
	var graft func(srcID dom.ID, parent dom.ID) dom.ID
	graft = func(srcID dom.ID, parent dom.ID) dom.ID {
		src := subtree.Node(srcID)
		var newID dom.ID
		if src.Kind == dom.KindText {
			newID = t.Tree.NewText(src.Text, parent)
		} else {
			newID = t.Tree.NewElement(src.Tag, copyAttrs(src.Attrs), parent)
			for _, c := range src.Children {
				graft(c, newID)
			}
		}
		return newID
	}
	var newChildren []dom.ID
	for _, c := range children {
		newChildren = append(newChildren, graft(c, id))
	}
	t.Tree.ReplaceChildren(id, newChildren)
	t.needsStyle = true
	t.needsLayout = true
	t.raf.Request()
	return nil
}

func copyAttrs(a map[string]string) map[string]string {
	out := make(map[string]string, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

func (t *Tab) StyleSet(h jsbridge.Handle, cssText string, windowID int) error {
	id, ok := t.handleToID[h]
	if !ok {
		return jsbridge.CrossOriginError("style_set")
	}
	t.Tree.Node(id).Attrs["style"] = cssText
	t.needsStyle = true
	t.raf.Request()
	return nil
}

func (t *Tab) XMLHttpRequestSend(method, rawurl string, body []byte, async bool, h jsbridge.Handle, windowID int) ([]byte, error) {
	target := t.URL.Resolve(rawurl)
	if !t.allowedRequest(target) {
		return nil, browsererr.New("XMLHttpRequest_send", browsererr.KindCSPBlock, nil)
	}
	if _, err := url.Parse(rawurl); err != nil {
		return nil, err
	}
	resp, err := t.Client.Request(target, &t.URL, body)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

func (t *Tab) SetTimeout(h jsbridge.Handle, ms int) {}

func (t *Tab) Parent(windowID int) (int, bool) { return 0, false }

func (t *Tab) PostMessage(targetWindowID int, data string, origin string) {}
