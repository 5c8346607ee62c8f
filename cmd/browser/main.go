// Command browser is the engine's entry point, grounded in
// original_source/main.py: parse an optional starting URL from argv,
// open it as the first tab, and run the event loop until Quit.
//
// original_source/main.py drives a tkinter.mainloop() wired to an SDL
// event pump; this repo has no platform windowing toolkit wired (see
// internal/eventsource's package doc), so the default Source reads
// line-oriented commands from stdin and the last drawn frame is
// written out as a PNG snapshot on quit, giving the same
// load → interact → render loop a headless harness can drive.
package main

import (
	"flag"
	"image/png"
	"os"

	"github.com/emberweb/ember/internal/browser"
	"github.com/emberweb/ember/internal/browserlog"
	"github.com/emberweb/ember/internal/config"
	"github.com/emberweb/ember/internal/eventsource"
	"github.com/emberweb/ember/internal/trace"
	"github.com/emberweb/ember/internal/urlfetch"
)

func main() {
	configPath := flag.String("config", "browser.yaml", "path to an optional config file")
	tracePath := flag.String("trace", "", "write a Chrome trace-event JSON log to this path")
	snapshotPath := flag.String("snapshot", "frame.png", "path the final frame is written to on quit")
	flag.Parse()

	startURL := "about:blank"
	if flag.NArg() > 0 {
		startURL = flag.Arg(0)
	}

	cfg, err := config.LoadOptional(*configPath)
	if err != nil {
		browserlog.Errorf("loading %s: %v", *configPath, err)
		os.Exit(1)
	}

	var tr *trace.Collector
	if *tracePath != "" {
		tr = trace.NewCollector(*tracePath)
	}

	client := urlfetch.NewClient()
	b := browser.New(cfg, client, tr)
	b.NewTab(startURL)
	b.CompositeRasterAndDraw()

	src := eventsource.NewStdinSource(os.Stdin)
	defer src.Close()

	for {
		ev, ok := src.Poll()
		if !ok {
			continue
		}
		if _, isQuit := ev.(eventsource.Quit); isQuit {
			break
		}
		b.HandleEvent(ev)
		b.CompositeRasterAndDraw()
	}

	if img := b.Snapshot(); img != nil {
		if f, err := os.Create(*snapshotPath); err != nil {
			browserlog.Warnf("creating %s: %v", *snapshotPath, err)
		} else {
			defer f.Close()
			if err := png.Encode(f, img); err != nil {
				browserlog.Warnf("encoding %s: %v", *snapshotPath, err)
			}
		}
	}

	b.Shutdown()
}
