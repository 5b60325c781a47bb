// Package main is an interactive demo of the sigslot hub: terminal key
// events are emitted as signals and a set of prioritized slots renders
// what fired, in what order. A background ticker plays the role of an
// interrupt source, capturing into the lock-free queue that the main loop
// drains.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/dshills/sigslot"
	"github.com/dshills/sigslot/config"
	"github.com/dshills/sigslot/payload"
)

const (
	sigKeyRune = "demo.key.rune"
	sigKeyCtrl = "demo.key.ctrl"
	sigTick    = "demo.tick"
)

func main() {
	os.Exit(run())
}

func run() int {
	var configPath string
	var verbose bool
	flag.StringVar(&configPath, "config", "", "Path to hub configuration file")
	flag.BoolVar(&verbose, "v", false, "Log hub traces to stderr")
	flag.Parse()

	cfg := config.Default()
	cfg.CaptureCapacity = 16
	if configPath != "" {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	opts, err := cfg.Options()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if verbose {
		logger, lerr := zap.NewDevelopment()
		if lerr == nil {
			defer func() { _ = logger.Sync() }()
			opts = append(opts, sigslot.WithLogger(logger))
		}
	}

	hub := sigslot.NewHub(opts...)
	defer hub.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create screen: %v\n", err)
		return 1
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to init screen: %v\n", err)
		return 1
	}
	defer screen.Fini()

	d := &demo{hub: hub, screen: screen}
	if err := d.setup(); err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	// Fake interrupt source: captures into the lock-free queue from
	// another goroutine, never touching the hub lock.
	stop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		n := int64(0)
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				n++
				_ = hub.CaptureFromISR(sigTick, n)
			}
		}
	}()
	defer close(stop)

	d.loop()
	return 0
}

type demo struct {
	hub    *sigslot.Hub
	screen tcell.Screen
	lines  []string
}

func (d *demo) setup() error {
	signals := []struct {
		name string
		desc string
	}{
		{sigKeyRune, "printable key pressed"},
		{sigKeyCtrl, "control key pressed"},
		{sigTick, "timer tick captured from the fake ISR"},
	}
	for _, s := range signals {
		if err := d.hub.Register(s.name, sigslot.WithDescription(s.desc)); err != nil {
			return err
		}
	}

	for _, s := range signals {
		name := s.name
		for _, p := range []sigslot.Priority{
			sigslot.PriorityCritical,
			sigslot.PriorityNormal,
			sigslot.PriorityLow,
		} {
			prio := p
			_, err := d.hub.Connect(name, sigslot.SlotFunc(func(pd *payload.Data) {
				d.record(name, prio, pd)
			}), sigslot.WithPriority(prio))
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *demo) record(signal string, prio sigslot.Priority, pd *payload.Data) {
	var value string
	switch pd.Kind() {
	case payload.KindInt:
		value = fmt.Sprintf("%d", pd.IntOr(0))
	case payload.KindString:
		value = pd.StringOr("")
	default:
		value = pd.Kind().String()
	}
	d.lines = append(d.lines, fmt.Sprintf("%-14s %-8s %s", signal, prio, value))
	if len(d.lines) > 100 {
		d.lines = d.lines[len(d.lines)-100:]
	}
}

func (d *demo) loop() {
	events := make(chan tcell.Event, 8)
	go func() {
		for {
			ev := d.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	drain := time.NewTicker(100 * time.Millisecond)
	defer drain.Stop()

	for {
		d.draw()
		select {
		case <-drain.C:
			// Replay ISR captures as ordinary emissions.
			_, _ = d.hub.DrainCaptured()
		case ev, ok := <-events:
			if !ok {
				return
			}
			switch tev := ev.(type) {
			case *tcell.EventKey:
				if tev.Key() == tcell.KeyEscape || tev.Key() == tcell.KeyCtrlC {
					return
				}
				if tev.Key() == tcell.KeyRune {
					_ = d.hub.EmitString(sigKeyRune, string(tev.Rune()))
				} else {
					_ = d.hub.EmitString(sigKeyCtrl, tcell.KeyNames[tev.Key()])
				}
			case *tcell.EventResize:
				d.screen.Sync()
			}
		}
	}
}

func (d *demo) draw() {
	d.screen.Clear()
	_, height := d.screen.Size()

	header := tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	d.puts(0, 0, "sigslot demo - press keys to emit, ESC to quit", header)

	row := 2
	for _, info := range d.hub.Signals() {
		line := fmt.Sprintf("%-14s slots=%d  %s", info.Name, info.SlotCount, info.Description)
		d.puts(0, row, line, tcell.StyleDefault.Foreground(tcell.ColorYellow))
		row++
	}
	row++

	start := 0
	visible := height - row - 1
	if visible > 0 && len(d.lines) > visible {
		start = len(d.lines) - visible
	}
	for _, line := range d.lines[start:] {
		d.puts(0, row, line, tcell.StyleDefault)
		row++
	}
	d.screen.Show()
}

func (d *demo) puts(x, y int, s string, style tcell.Style) {
	for i, r := range s {
		d.screen.SetContent(x+i, y, r, nil, style)
	}
}
