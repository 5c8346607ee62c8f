// Package trace writes a Chrome Trace Event format JSON file, the
// persisted state spec §6 describes ("a JSON trace file written by a
// timing collector — begin/end pairs with wall-clock ts and thread id").
// Grounded in _examples/original_source/task.py's MeasureTime, not the
// teacher's ring-buffer FrameSample shape (see DESIGN.md).
package trace

import (
	"encoding/json"
	"os"
	"sync"
	"time"
)

type event struct {
	Name string `json:"name"`
	Ph   string `json:"ph"`
	Ts   int64  `json:"ts"`
	Pid  int    `json:"pid"`
	Tid  int    `json:"tid"`
}

// Collector accumulates begin/end events and writes them to path on
// Finish.
type Collector struct {
	mu     sync.Mutex
	path   string
	events []event
	open   map[string]int64
}

func NewCollector(path string) *Collector {
	return &Collector{path: path, open: map[string]int64{}}
}

// Begin records the start of a named span on tid (the goroutine/thread
// identifier the caller assigns — e.g. 0 for the browser thread, a
// per-tab index for tab threads).
func (c *Collector) Begin(name string, tid int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now().UnixMicro()
	c.open[name] = now
	c.events = append(c.events, event{Name: name, Ph: "B", Ts: now, Tid: tid})
}

func (c *Collector) End(name string, tid int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now().UnixMicro()
	delete(c.open, name)
	c.events = append(c.events, event{Name: name, Ph: "E", Ts: now, Tid: tid})
}

// Finish writes the accumulated events to the trace file as
// {"traceEvents": [...]}.
func (c *Collector) Finish() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	f, err := os.Create(c.path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(map[string]any{"traceEvents": c.events})
}
