// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"log/slog"
	"machine"
	"sync/atomic"
	"time"

	"github.com/soypat/cyw43439"
	"tinygo.org/x/drivers/hd44780i2c"

	"github.com/kortschak/gmb/game"
)

// console is the game console: the radio, the game hardware and the
// round state machine driving it.
type console struct {
	dev *cyw43439.Device

	buttons buttons
	leds    leds
	lcd     lcd
	edges   *edges

	game *game.Machine

	beat atomic.Pointer[ledSequence]

	log   *slog.Logger
	sw    switchedWriter
	level slog.LevelVar
}

func (c *console) init(ctx context.Context) error {
	c.log.LogAttrs(ctx, slog.LevelInfo, "configure pico W device")
	start := time.Now()
	err := c.dev.Init(radioConfig())
	if err != nil {
		return newLedError(codeRadio, err)
	}
	c.log.LogAttrs(ctx, slog.LevelInfo, "cyw43439 initialised", slog.Duration("duration", time.Since(start)))

	c.log.LogAttrs(ctx, slog.LevelInfo, "configure pins")
	c.buttons = pins.buttons
	for _, p := range c.buttons {
		p.Configure(machine.PinConfig{Mode: machine.PinInputPulldown})
	}
	c.leds.lines = pins.leds
	for _, p := range c.leds.lines {
		p.Configure(machine.PinConfig{Mode: machine.PinOutput})
		p.Low()
	}
	c.edges = newEdges(&c.buttons)

	c.log.LogAttrs(ctx, slog.LevelInfo, "configure red led pwm")
	c.leds.pwm = machine.PWM7
	err = c.leds.pwm.Configure(machine.PWMConfig{Period: redPeriod})
	if err != nil {
		return newLedError(codePWM, err)
	}
	c.leds.ch, err = c.leds.pwm.Channel(pins.red)
	if err != nil {
		return newLedError(codePWM, err)
	}
	c.leds.WritePWM(0)

	c.log.LogAttrs(ctx, slog.LevelInfo, "configure adc")
	machine.InitADC()
	knob := analog{adc: machine.ADC{Pin: pins.knob}}
	noise := analog{adc: machine.ADC{Pin: pins.noise}}
	for _, a := range []analog{knob, noise} {
		err = a.adc.Configure(machine.ADCConfig{})
		if err != nil {
			return newLedError(codeADC, err)
		}
	}

	c.log.LogAttrs(ctx, slog.LevelInfo, "configure lcd")
	err = machine.I2C0.Configure(machine.I2CConfig{
		SDA: pins.sda,
		SCL: pins.scl,
	})
	if err != nil {
		return newLedError(codeLCD, err)
	}
	c.lcd.dev = hd44780i2c.New(machine.I2C0, lcdAddr)
	err = c.lcd.dev.Configure(hd44780i2c.Config{
		Width:  16,
		Height: 2,
	})
	if err != nil {
		return newLedError(codeLCD, err)
	}
	c.lcd.Backlight(true)

	c.log.LogAttrs(ctx, slog.LevelInfo, "set up watchdog")
	machine.Watchdog.Configure(machine.WatchdogConfig{
		TimeoutMillis: 10000,
	})
	err = machine.Watchdog.Start()
	if err != nil {
		return newLedError(codeWatchdog, err)
	}

	c.game = game.NewMachine(game.Hardware{
		Clock:      game.SystemClock(),
		Input:      &c.buttons,
		Output:     &c.leds,
		Knob:       knob,
		Entropy:    noise,
		Display:    &c.lcd,
		Random:     game.NewRandomSource(),
		Interrupts: c.edges,
		Suspender:  c.edges,
	}, game.DefaultConfig(), c.log, game.WithNotify(func(s game.Status) {
		c.log.LogAttrs(ctx, slog.LevelDebug, "status", slog.Any("status", s))
	}))

	return nil
}

// play runs the game until ctx is done.
func (c *console) play(ctx context.Context) error {
	c.log.LogAttrs(ctx, slog.LevelInfo, "start game")
	defer c.log.LogAttrs(ctx, slog.LevelInfo, "exit game")
	return c.game.Run(ctx)
}
