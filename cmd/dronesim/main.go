// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Dronesim flies a quadcopter over a track.
//
// By default it draws on the terminal. Keys i, k, j and l
// move, y and h climb and descend, and the arrows turn.
// Key c switches between the free and the chase camera,
// which also decides whether keys drive the camera or the
// quadcopter. Esc quits.
//
// With -headless, it runs a fixed number of frames and
// prints the final state.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/gdamore/tcell/v2"

	"github.com/gviegas/physcene/config"
	"github.com/gviegas/physcene/internal/drone"
	"github.com/gviegas/physcene/render"
	"github.com/gviegas/physcene/render/termrender"
)

var (
	cfgPath  = flag.String("config", "", "load configuration from `file` (.yaml, .yml or .toml)")
	headless = flag.Bool("headless", false, "run without a terminal UI")
	frames   = flag.Int("frames", 0, "number of frames to run (0 uses the configuration)")
	strict   = flag.Bool("strict", false, "stop on dangling bodies")
	dump     = flag.Bool("dump", false, "dump the configuration and the final scene")
	logPath  = flag.String("log", "", "write log to `file` (default is stderr when headless)")
	verbose  = flag.Bool("v", false, "log informational messages")
	debug    = flag.Bool("vv", false, "log debug messages")
	quiet    = flag.Bool("q", false, "log errors only")
)

// levelFromFlags maps the verbosity flags to a level.
// The flags are checked in order, so -vv wins over -q.
func levelFromFlags(vv, v, q bool) slog.Level {
	switch {
	case vv:
		return slog.LevelDebug
	case v:
		return slog.LevelInfo
	case q:
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "dronesim:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		if cfg, err = config.Load(*cfgPath); err != nil {
			return err
		}
	}
	if *frames > 0 {
		cfg.Frames = *frames
	}
	if *strict {
		cfg.Strict = true
	}

	var out io.Writer = io.Discard
	switch {
	case *logPath != "":
		f, err := os.Create(*logPath)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	case *headless:
		out = os.Stderr
	}
	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: levelFromFlags(*debug, *verbose, *quiet),
	}))
	slog.SetDefault(logger)

	if *dump {
		spew.Fdump(os.Stdout, cfg)
	}
	logger.Info("starting", "headless", *headless, "frames", cfg.Frames, "strict", cfg.Strict)

	var sim *drone.Sim
	var err error
	if *headless {
		sim, err = runHeadless(cfg, logger)
	} else {
		sim, err = runTerminal(cfg, logger)
	}
	if sim != nil {
		fmt.Println(sim.Status())
		if *dump {
			spew.Fdump(os.Stdout, sim.Snapshot())
		}
	}
	return err
}

func runHeadless(cfg config.Config, logger *slog.Logger) (*drone.Sim, error) {
	rec := &render.Recorder{}
	sim, err := drone.New(drone.Options{Config: cfg, Renderer: rec, Logger: logger})
	if err != nil {
		return nil, err
	}
	n := cfg.Frames
	if n == 0 {
		n = 600
	}
	for i := range n {
		if err := sim.Step(cfg.FixedDelta); err != nil {
			return sim, err
		}
		if i%60 == 0 {
			logger.Debug("frame", "n", i, "draws", len(rec.Calls()), "status", sim.Status())
		}
	}
	return sim, nil
}

func runTerminal(cfg config.Config, logger *slog.Logger) (*drone.Sim, error) {
	scr, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := scr.Init(); err != nil {
		return nil, err
	}
	defer scr.Fini()

	rend := termrender.New(scr)
	keys := termrender.NewKeys()
	sim, err := drone.New(drone.Options{Config: cfg, Renderer: rend, Logger: logger, Input: keys})
	if err != nil {
		return nil, err
	}
	resize := func() error {
		w, h := scr.Size()
		// Cells are about twice as tall as wide.
		return sim.Resize(w, 2*h)
	}
	if err := resize(); err != nil {
		return sim, err
	}

	events := make(chan tcell.Event, 100)
	done := make(chan struct{})
	// Runs before scr.Fini.
	defer close(done)
	go termrender.Pump(scr, events, done)

	ticker := time.NewTicker(16 * time.Millisecond)
	defer ticker.Stop()
	last := time.Now()
	for n := 0; cfg.Frames == 0 || n < cfg.Frames; {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				switch {
				case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC:
					return sim, nil
				case ev.Key() == tcell.KeyRune && ev.Rune() == 'c':
					sim.ToggleCamera()
				default:
					keys.Handle(ev)
				}
			case *tcell.EventResize:
				scr.Sync()
				if err := resize(); err != nil {
					logger.Warn("resize failed", "err", err)
				}
			}

		case now := <-ticker.C:
			dt := float32(now.Sub(last).Seconds())
			last = now
			rend.SetStatus(sim.Status())
			if err := sim.Step(dt); err != nil {
				return sim, err
			}
			n++
		}
	}
	return sim, nil
}
