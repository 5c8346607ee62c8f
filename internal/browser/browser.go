// Package browser owns the tabs, window surface, input dispatch,
// animation timer and the composite→raster→draw cycle (spec §2's
// "Browser" row, §4.8-4.9). Grounded in
// _examples/original_source/browser_ui.py's Browser/Chrome classes, but
// the browser/tab split here runs each tab on its own goroutine behind a
// taskqueue.Runner (spec §5), unlike the single-threaded tkinter original.
package browser

import (
	"image"
	"sync"
	"time"

	"github.com/emberweb/ember/internal/browserlog"
	"github.com/emberweb/ember/internal/chrome"
	"github.com/emberweb/ember/internal/commit"
	"github.com/emberweb/ember/internal/compositor"
	"github.com/emberweb/ember/internal/config"
	"github.com/emberweb/ember/internal/eventsource"
	"github.com/emberweb/ember/internal/geom"
	"github.com/emberweb/ember/internal/paint"
	"github.com/emberweb/ember/internal/rasterbackend"
	"github.com/emberweb/ember/internal/tab"
	"github.com/emberweb/ember/internal/taskqueue"
	"github.com/emberweb/ember/internal/trace"
	"github.com/emberweb/ember/internal/urlfetch"
)

// tabEntry pairs a tab with the dedicated goroutine/task queue spec §5
// requires ("one tab thread per tab").
type tabEntry struct {
	tab   *tab.Tab
	queue *taskqueue.Runner
	title string
}

// Browser is the single browser-thread owner of window-visible state.
// Every field below is read/written only while mu is held, except
// immutable configuration (cfg, client) and the raster canvas, which is
// only ever touched from the thread that calls CompositeRasterAndDraw
// (spec §5: "GPU work is exclusively on the browser thread").
type Browser struct {
	cfg    config.Config
	client *urlfetch.Client
	trace  *trace.Collector

	mu     sync.Mutex
	tabs   []*tabEntry
	active int

	url               string
	scroll            float64
	docHeight         float64
	displayList       []paint.Node
	compositedUpdates map[int]*paint.Blend

	needsComposite bool
	needsRaster    bool
	needsDraw      bool

	needsAnimationFrame bool
	animationTimer      *time.Timer

	addressBarText string
	addressFocused bool

	layers   []*compositor.Layer
	drawList []paint.Node
	canvas   *rasterbackend.Target
}

// New constructs a Browser with no tabs yet; call NewTab to open the
// first one.
func New(cfg config.Config, client *urlfetch.Client, tr *trace.Collector) *Browser {
	return &Browser{cfg: cfg, client: client, trace: tr, active: -1}
}

// Width/Height are the full window dimensions, including the chrome band.
func (b *Browser) Width() float64 { return float64(b.cfg.Viewport.Width) }
func (b *Browser) Height() float64 { return float64(b.cfg.Viewport.Height) }

func (b *Browser) contentHeight() float64 { return b.Height() - chrome.Height() }

// NewTab opens a tab, starts its task runner, and schedules the initial
// Load as the first task on that queue (spec §5: tasks are opaque
// closures posted to a tab's FIFO).
func (b *Browser) NewTab(raw string) {
	t := tab.New(b.client, b.cfg.RefreshRateSec, b.cfg.ScrollStepPx, b.Width(), b.contentHeight())
	t.DarkMode = b.cfg.DarkMode
	q := taskqueue.New()
	q.Start()

	b.mu.Lock()
	entry := &tabEntry{tab: t, queue: q, title: "new tab"}
	b.tabs = append(b.tabs, entry)
	idx := len(b.tabs) - 1
	b.active = idx
	b.mu.Unlock()

	q.Schedule(func() {
		u := urlfetch.Parse(raw)
		if err := t.Load(u, nil); err != nil {
			browserlog.Warnf("initial load of %s failed: %v", raw, err)
		}
		b.runAnimationFrameFor(idx, nil)
	})
}

func (b *Browser) activeEntry() *tabEntry {
	if b.active < 0 || b.active >= len(b.tabs) {
		return nil
	}
	return b.tabs[b.active]
}

// Commit implements spec §4.8's commit(tab, data) under the browser
// mutex.
func (b *Browser) Commit(idx int, data commit.Data) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if idx != b.active {
		return
	}
	b.url = data.URL
	if data.Scroll != nil {
		b.scroll = *data.Scroll
	}
	b.docHeight = data.Height
	if data.Display != nil {
		b.displayList = data.Display
	}

	if b.animationTimer != nil {
		b.animationTimer.Stop()
		b.animationTimer = nil
	}

	if data.CompositedUpdates == nil {
		b.needsComposite = true
		b.needsRaster = true
		b.needsDraw = true
	} else {
		b.compositedUpdates = data.CompositedUpdates
		b.needsDraw = true
	}
}

// CompositeRasterAndDraw runs the three staged passes spec §4.8 names, in
// order, clearing each flag as it runs.
func (b *Browser) CompositeRasterAndDraw() {
	b.mu.Lock()
	needsComposite := b.needsComposite
	needsRaster := b.needsRaster
	needsDraw := b.needsDraw
	display := b.displayList
	updates := b.compositedUpdates
	scroll := b.scroll
	entry := b.activeEntry()
	b.mu.Unlock()

	if !needsComposite && !needsRaster && !needsDraw {
		return
	}
	if b.trace != nil {
		b.trace.Begin("composite_raster_and_draw", 0)
		defer b.trace.End("composite_raster_and_draw", 0)
	}

	var layers []*compositor.Layer
	if needsComposite && len(display) > 0 {
		root := display[0]
		if len(display) > 1 {
			root = paint.NewTransform(0, 0, -1, display)
		}
		layers = compositor.Composite(root)
	} else {
		b.mu.Lock()
		layers = b.layers
		b.mu.Unlock()
	}

	if needsComposite || needsRaster {
		rasterbackend.RasterAll(layers)
	}

	drawList := compositor.RebuildDrawList(layers, updates)

	if needsDraw {
		b.draw(drawList, scroll, entry)
	}

	b.mu.Lock()
	b.layers = layers
	b.drawList = drawList
	b.needsComposite = false
	b.needsRaster = false
	b.needsDraw = false
	b.mu.Unlock()
}

// draw paints the chrome band then the content draw list onto the window
// canvas (spec §6: "blits [chrome] in draw()").
func (b *Browser) draw(drawList []paint.Node, scroll float64, entry *tabEntry) {
	if b.canvas == nil || b.canvas.Image().Bounds().Dx() != int(b.Width()) {
		b.canvas = rasterbackend.NewTarget(geom.RectFromLTWH(0, 0, b.Width(), b.Height()))
	}
	state := b.chromeState(entry)
	for _, cmd := range chrome.Paint(b.Width(), state) {
		paint.Execute(cmd, b.canvas)
	}
	b.canvas.Save()
	b.canvas.Translate(0, chrome.Height()-scroll)
	for _, n := range drawList {
		paint.Execute(n, b.canvas)
	}
	b.canvas.Restore()
	b.canvas.Present()
}

func (b *Browser) chromeState(entry *tabEntry) chrome.State {
	b.mu.Lock()
	defer b.mu.Unlock()
	var infos []chrome.TabInfo
	for i, e := range b.tabs {
		infos = append(infos, chrome.TabInfo{Title: e.title, Active: i == b.active})
	}
	addr := b.url
	if b.addressFocused {
		addr = b.addressBarText
	}
	return chrome.State{
		Tabs:        infos,
		AddressText: addr,
		Focused:     b.addressFocused,
		CanGoBack:   entry != nil && entry.tab.CanGoBack(),
	}
}

// scheduleAnimationFrame implements spec §4.9: a one-shot timer armed only
// when needed and not already pending.
func (b *Browser) scheduleAnimationFrame() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.needsAnimationFrame || b.animationTimer != nil {
		return
	}
	idx := b.active
	scroll := b.scroll
	b.animationTimer = time.AfterFunc(time.Duration(b.cfg.RefreshRateSec*1000)*time.Millisecond, func() {
		b.mu.Lock()
		b.needsAnimationFrame = false
		b.animationTimer = nil
		b.mu.Unlock()
		b.runAnimationFrameFor(idx, &scroll)
	})
}

func (b *Browser) runAnimationFrameFor(idx int, scroll *float64) {
	b.mu.Lock()
	var entry *tabEntry
	if idx >= 0 && idx < len(b.tabs) {
		entry = b.tabs[idx]
	}
	b.mu.Unlock()
	if entry == nil {
		return
	}
	entry.queue.Schedule(func() {
		data := entry.tab.RunAnimationFrame(scroll)
		b.Commit(idx, data)
		if entry.tab.NeedsAnimationFrame() {
			b.mu.Lock()
			b.needsAnimationFrame = true
			b.mu.Unlock()
			b.scheduleAnimationFrame()
		}
	})
}

// HandleEvent dispatches one input event (spec §6), routing to the chrome
// widget or the active tab depending on y-coordinate / focus.
func (b *Browser) HandleEvent(ev eventsource.Event) {
	switch e := ev.(type) {
	case eventsource.MouseDown:
		b.handleClick(e.X, e.Y)
	case eventsource.MouseWheel:
		b.mu.Lock()
		entry := b.activeEntry()
		b.mu.Unlock()
		if entry != nil {
			entry.queue.Schedule(func() { entry.tab.ScrollWithMouse(e.DY) })
			b.markNeedsFrame(entry)
		}
	case eventsource.KeyDown:
		b.handleKey(e.Key)
	case eventsource.TextInput:
		b.handleText(e.Char)
	case eventsource.Chord:
		b.handleChord(e.Key)
	}
}

func (b *Browser) handleClick(x, y float64) {
	if y < chrome.Height() {
		b.mu.Lock()
		state := b.chromeStateLocked()
		action, idx := chrome.Hit(state, x, y)
		b.mu.Unlock()
		switch action {
		case chrome.ActionNewTab:
			b.NewTab(b.cfg.HomePage)
		case chrome.ActionSwitchTab:
			b.mu.Lock()
			if idx >= 0 && idx < len(b.tabs) {
				b.active = idx
			}
			b.mu.Unlock()
		case chrome.ActionBack:
			b.mu.Lock()
			entry := b.activeEntry()
			b.mu.Unlock()
			if entry != nil {
				entry.queue.Schedule(func() { entry.tab.GoBack() })
				b.markNeedsFrame(entry)
			}
		case chrome.ActionFocusAddress:
			b.mu.Lock()
			b.addressFocused = true
			b.addressBarText = ""
			b.mu.Unlock()
		}
		return
	}
	b.mu.Lock()
	b.addressFocused = false
	entry := b.activeEntry()
	scroll := b.scroll
	b.mu.Unlock()
	if entry == nil {
		return
	}
	contentY := y - chrome.Height() + scroll
	entry.queue.Schedule(func() { entry.tab.Click(x, contentY) })
	b.markNeedsFrame(entry)
}

func (b *Browser) chromeStateLocked() chrome.State {
	var infos []chrome.TabInfo
	for i, e := range b.tabs {
		infos = append(infos, chrome.TabInfo{Title: e.title, Active: i == b.active})
	}
	return chrome.State{Tabs: infos, AddressText: b.addressBarText, Focused: b.addressFocused}
}

func (b *Browser) handleKey(key string) {
	b.mu.Lock()
	focused := b.addressFocused
	b.mu.Unlock()
	if focused && key == "Enter" {
		b.mu.Lock()
		raw := b.addressBarText
		b.addressFocused = false
		entry := b.activeEntry()
		b.mu.Unlock()
		if entry != nil {
			entry.queue.Schedule(func() {
				if err := entry.tab.Load(urlfetch.Parse(raw), nil); err != nil {
					browserlog.Warnf("loading %s: %v", raw, err)
				}
			})
			b.markNeedsFrame(entry)
		}
		return
	}
	if focused && key == "Backspace" {
		b.mu.Lock()
		if len(b.addressBarText) > 0 {
			b.addressBarText = b.addressBarText[:len(b.addressBarText)-1]
		}
		b.mu.Unlock()
		return
	}
	if key == "Backspace" {
		b.mu.Lock()
		entry := b.activeEntry()
		b.mu.Unlock()
		if entry != nil {
			entry.queue.Schedule(func() { entry.tab.Backspace() })
			b.markNeedsFrame(entry)
		}
	}
}

func (b *Browser) handleText(ch rune) {
	b.mu.Lock()
	if b.addressFocused {
		b.addressBarText += string(ch)
		b.mu.Unlock()
		return
	}
	entry := b.activeEntry()
	b.mu.Unlock()
	if entry != nil {
		entry.queue.Schedule(func() { entry.tab.Keypress(ch) })
		b.markNeedsFrame(entry)
	}
}

// handleChord handles the modifier chords t (new tab), l (focus the
// address bar), d (dark mode), = / - / 0 (zoom in, out, reset) and
// ArrowLeft (back); any other chord key is ignored.
func (b *Browser) handleChord(key string) {
	b.mu.Lock()
	entry := b.activeEntry()
	b.mu.Unlock()
	switch key {
	case "t":
		b.NewTab(b.cfg.HomePage)
	case "l":
		b.mu.Lock()
		b.addressFocused = true
		b.addressBarText = ""
		b.mu.Unlock()
	case "d":
		if entry != nil {
			entry.queue.Schedule(func() { entry.tab.ToggleDarkMode() })
			b.markNeedsFrame(entry)
		}
	case "=":
		if entry != nil {
			entry.queue.Schedule(func() { entry.tab.SetZoom(1.1, false) })
			b.markNeedsFrame(entry)
		}
	case "-":
		if entry != nil {
			entry.queue.Schedule(func() { entry.tab.SetZoom(1/1.1, false) })
			b.markNeedsFrame(entry)
		}
	case "0":
		if entry != nil {
			entry.queue.Schedule(func() { entry.tab.SetZoom(1, true) })
			b.markNeedsFrame(entry)
		}
	case "ArrowLeft":
		if entry != nil {
			entry.queue.Schedule(func() { entry.tab.GoBack() })
			b.markNeedsFrame(entry)
		}
	}
}

func (b *Browser) markNeedsFrame(entry *tabEntry) {
	b.mu.Lock()
	b.needsAnimationFrame = true
	b.mu.Unlock()
	b.scheduleAnimationFrame()
}

// Shutdown stops every tab's task runner and closes the trace file (spec
// §9: "explicit init and a shutdown() that closes sockets and the trace
// file").
func (b *Browser) Shutdown() {
	b.mu.Lock()
	tabs := append([]*tabEntry{}, b.tabs...)
	b.mu.Unlock()
	for _, e := range tabs {
		e.queue.Quit()
	}
	if b.trace != nil {
		if err := b.trace.Finish(); err != nil {
			browserlog.Warnf("writing trace file: %v", err)
		}
	}
}

// Snapshot returns the most recently drawn window surface, or nil if
// draw() has not run yet. Used by cmd/browser to write the frame a
// headless run produces to disk.
func (b *Browser) Snapshot() image.Image {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.canvas == nil {
		return nil
	}
	return b.canvas.Image()
}
