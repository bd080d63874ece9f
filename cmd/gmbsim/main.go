// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The gmbsim command runs the GMB binary reflex game in a terminal.
//
// The number keys 1 to 4 toggle the four buttons, the arrow keys or
// +/- turn the difficulty knob and esc quits. The game status can
// be served over HTTP, including a websocket stream of changes at
// /ws.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/kortschak/gmb/game"
)

func main() {
	addr := flag.String("http", "", "address to serve game status on (e.g. localhost:8080)")
	logPath := flag.String("log", "", "file to write log to")
	var level slog.Level
	flag.TextVar(&level, "level", slog.LevelInfo, "log level")
	speed := flag.Float64("speed", 1, "speed-up factor for game timing")
	mute := flag.Bool("mute", false, "disable sound")
	flag.Parse()

	os.Exit(run(*addr, *logPath, level, *speed, *mute))
}

func run(addr, logPath string, level slog.Level, speed float64, mute bool) int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var w io.Writer = io.Discard
	if logPath != "" {
		f, err := os.Create(logPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log: %v\n", err)
			return 2
		}
		defer f.Close()
		w = f
	}
	log := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	}))

	cfg, err := scaled(game.DefaultConfig(), speed)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create screen: %v\n", err)
		return 1
	}
	err = screen.Init()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise screen: %v\n", err)
		return 1
	}
	defer screen.Fini()

	p := newPanel(screen)
	buzz := newBuzzer(ctx, log, mute)

	var srv *statusServer
	notify := func(s game.Status) {
		p.setStatus(s)
		buzz.status(s)
		if srv != nil {
			srv.publish(s)
		}
	}
	m := game.NewMachine(game.Hardware{
		Clock:      game.SystemClock(),
		Input:      p,
		Output:     p,
		Knob:       p,
		Entropy:    noise{},
		Display:    p,
		Random:     game.NewRandomSource(),
		Interrupts: p,
		Suspender:  p,
	}, cfg, log, game.WithNotify(notify))

	if addr != "" {
		srv = newStatusServer(m.Status, log)
		hs := &http.Server{Addr: addr, Handler: srv.routes()}
		go func() {
			log.LogAttrs(ctx, slog.LevelInfo, "listening", slog.String("addr", "http://"+addr))
			err := hs.ListenAndServe()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.LogAttrs(ctx, slog.LevelError, "status server", slog.Any("err", err))
			}
		}()
		defer func() {
			srv.close()
			hs.Close()
		}()
	}

	go func() {
		err := m.Run(ctx)
		log.LogAttrs(ctx, slog.LevelInfo, "game stopped", slog.Any("err", err))
	}()

	for p.handleEvent(screen.PollEvent()) {
	}
	cancel()
	p.close()
	return 0
}

// scaled returns cfg with all durations divided by speed.
func scaled(cfg game.Config, speed float64) (game.Config, error) {
	if speed <= 0 {
		return cfg, fmt.Errorf("invalid speed: %v", speed)
	}
	for _, d := range []*time.Duration{
		&cfg.InitDelay, &cfg.SettingsWindow, &cfg.RoundSetupDelay,
		&cfg.ResolveDelay, &cfg.GameOverDelay, &cfg.FailFlash,
		&cfg.MaxTimeLimit, &cfg.MinTimeLimit, &cfg.TimeDelta,
		&cfg.FadeCadence,
	} {
		*d = time.Duration(float64(*d) / speed)
	}
	return cfg, nil
}

// noise is the simulator's entropy source.
type noise struct{}

func (noise) ReadAnalog() int { return int(time.Now().UnixNano() & 0x3ff) }
