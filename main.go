// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The gmb command is the firmware for a Pico W binary reflex game.
//
// A value between 0 and 15 is shown on a 16x2 LCD and the player
// must press the four buttons matching its binary representation
// before the round time runs out. The difficulty knob sets how fast
// the round time shrinks after each win. The game sleeps when no
// game is started during difficulty selection and is woken by any
// button.
//
// Game status is served over HTTP on the WiFi network by default, or
// over BLE when built with the bluetooth tag.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"machine"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/soypat/cyw43439"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Let serial port stabilise.
	time.Sleep(time.Second)

	c := console{
		dev: cyw43439.NewPicoWDevice(),
	}
	c.level.Set(slog.LevelInfo)
	c.log = slog.New(slog.NewTextHandler(
		io.MultiWriter(machine.Serial, &c.sw),
		&slog.HandlerOptions{
			Level: &c.level,
		},
	))
	c.log.LogAttrs(ctx, slog.LevelInfo, "initialise pico W device")

	defer func() {
		cancel()
		r := recover()
		switch r := r.(type) {
		case nil:
		case ledSequencer:
			c.log.LogAttrs(ctx, slog.LevelError, "flatline", slog.Any("err", r))
			for {
				machine.Watchdog.Update()
				err := flash(c.dev, r.ledSequence())
				if err != nil {
					c.log.LogAttrs(ctx, slog.LevelError, "flatline flash", slog.Any("err", err))
				}
			}
		default:
			c.log.LogAttrs(ctx, slog.LevelError, "flatline", slog.Any("err", r))
			for {
				machine.Watchdog.Update()
				err := flash(c.dev, uncaughtPanic)
				if err != nil {
					c.log.LogAttrs(ctx, slog.LevelError, "flatline flash", slog.Any("err", err))
				}
			}
		}
	}()

	err := c.init(ctx)
	if err != nil {
		panic(err)
	}

	c.log.LogAttrs(ctx, slog.LevelInfo, "start heartbeat")
	c.beat.Store(&normalOperation)
	go c.heartbeat(ctx)

	c.log.LogAttrs(ctx, slog.LevelInfo, "start server")
	go func() {
		err := c.server(ctx)
		if err != nil {
			c.log.LogAttrs(ctx, slog.LevelError, "server", slog.Any("err", err))
			c.beat.Store(&serverFailed)
		}
	}()

	err = c.play(ctx)
	if err != nil && err != context.Canceled {
		panic(err)
	}
}

// heartbeat flashes the current beat sequence on the on-board LED
// and feeds the watchdog until ctx is done.
func (c *console) heartbeat(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		machine.Watchdog.Update()
		err := flash(c.dev, *c.beat.Load())
		if err != nil {
			c.log.LogAttrs(ctx, slog.LevelError, "heartbeat", slog.Any("err", err))
		}
	}
}

type switchedWriter struct {
	cw atomic.Pointer[io.Writer]
}

func (w *switchedWriter) Write(p []byte) (int, error) {
	cw := w.cw.Load()
	if cw == nil {
		return len(p), nil
	}
	n, err := (*cw).Write(p)
	if w, ok := (*cw).(http.Flusher); ok {
		w.Flush()
	}
	return n, err
}

func (w *switchedWriter) use(val io.Writer) {
	w.cw.Store(&val)
}

func (w *switchedWriter) close() {
	w.cw.Store(nil)
}

type bytesAttr []byte

func (b bytesAttr) LogValue() slog.Value {
	return slog.StringValue(fmt.Sprintf("%x", []byte(b)))
}
