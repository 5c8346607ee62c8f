// Package jsbridge is the embedded script interpreter external
// collaborator (spec §1, §6): only the interface is implemented here, not
// an actual JS engine (none exists anywhere in the corpus this module was
// grounded on; see DESIGN.md). Grounded in
// _examples/original_source/js.py's JSContext exported-function set.
package jsbridge

import "github.com/emberweb/ember/internal/browsererr"

// Handle is an opaque reference a script holds to a DOM node, assigned
// the first time that node crosses the script boundary (js.py's
// node_to_handle/handle_to_node tables).
type Handle int

// Host is implemented by the tab: every function the interpreter can
// call back into the core with (spec §6).
type Host interface {
	Log(args ...any)
	QuerySelectorAll(selector string, windowID int) ([]Handle, error)
	GetAttribute(h Handle, attr string) string
	SetAttribute(h Handle, attr, value string, windowID int) error
	InnerHTMLSet(h Handle, html string, windowID int) error
	StyleSet(h Handle, css string, windowID int) error
	XMLHttpRequestSend(method, url string, body []byte, async bool, h Handle, windowID int) ([]byte, error)
	SetTimeout(h Handle, ms int)
	RequestAnimationFrame()
	Parent(windowID int) (int, bool)
	PostMessage(targetWindowID int, data string, origin string)
}

// Interpreter is the embedded script engine itself: it runs a source
// string in a window context and dispatches queued callbacks back into
// it. A real build would back this with an embedded JS engine (e.g. a
// goja interpreter); this module only defines the seam (spec §1 scopes
// the interpreter out as an external collaborator).
type Interpreter interface {
	Run(source string, windowID int) error
	DispatchEvent(eventType string, h Handle, windowID int) (preventDefault bool, err error)
	DispatchXHROnload(body []byte, h Handle, windowID int) error
	DispatchSetTimeout(h Handle, windowID int) error
	DispatchRAF(windowID int) error
	DispatchPostMessage(data string, windowID int) error
}

// Fake is a deterministic, no-op Interpreter: every call succeeds
// trivially and Run only records its source. tab.New installs it as every
// tab's Script, so the rest of the pipeline (render, commit, compositor)
// runs without a real script engine.
type Fake struct {
	Ran []string
}

func (f *Fake) Run(source string, windowID int) error {
	f.Ran = append(f.Ran, source)
	return nil
}
func (f *Fake) DispatchEvent(string, Handle, int) (bool, error)  { return false, nil }
func (f *Fake) DispatchXHROnload([]byte, Handle, int) error      { return nil }
func (f *Fake) DispatchSetTimeout(Handle, int) error             { return nil }
func (f *Fake) DispatchRAF(int) error                            { return nil }
func (f *Fake) DispatchPostMessage(string, int) error            { return nil }

// CrossOriginError is raised when a script touches a foreign-origin
// frame (spec §7).
func CrossOriginError(op string) error {
	return browsererr.New(op, browsererr.KindCrossOrigin, nil)
}
