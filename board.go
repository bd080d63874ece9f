// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"machine"

	"tinygo.org/x/drivers/hd44780i2c"

	"github.com/kortschak/gmb/game"
)

const (
	// lcdAddr is the address of the PCF8574 LCD backpack.
	lcdAddr = 0x27
	// redPeriod is the red LED PWM period in nanoseconds.
	redPeriod = 1e9 / 1000
)

// pins is the board wiring.
var pins = struct {
	buttons [game.Lines]machine.Pin
	leds    [game.Lines]machine.Pin
	red     machine.Pin
	knob    machine.Pin
	noise   machine.Pin
	sda     machine.Pin
	scl     machine.Pin
}{
	// P9, P10, P11, P12
	buttons: [game.Lines]machine.Pin{machine.GP6, machine.GP7, machine.GP8, machine.GP9},
	// P14, P15, P16, P17
	leds: [game.Lines]machine.Pin{machine.GP10, machine.GP11, machine.GP12, machine.GP13},

	red:  machine.GP15, // P20, PWM7B
	knob: machine.ADC0, // P31
	// noise must be left unconnected.
	noise: machine.ADC1, // P32
	sda:   machine.GP16, // P21, I2C0
	scl:   machine.GP17, // P22, I2C0
}

// pwmGroup is the subset of the rp2040 PWM slice API used for the
// red LED.
type pwmGroup interface {
	Configure(machine.PWMConfig) error
	Channel(machine.Pin) (uint8, error)
	Set(channel uint8, value uint32)
	Top() uint32
}

// buttons is the game.InputPort for the push buttons.
type buttons [game.Lines]machine.Pin

func (b *buttons) ReadLine(i int) bool { return b[i].Get() }

// leds is the game.OutputPort for the pattern LEDs and the PWM
// driven red LED.
type leds struct {
	lines [game.Lines]machine.Pin
	pwm   pwmGroup
	ch    uint8
}

func (l *leds) WriteLine(i int, on bool) { l.lines[i].Set(on) }

func (l *leds) WritePWM(level uint8) {
	l.pwm.Set(l.ch, l.pwm.Top()*uint32(level)/255)
}

// analog is a game.AnalogInput reducing the 16-bit ADC reading to
// 10 bits.
type analog struct {
	adc machine.ADC
}

func (a analog) ReadAnalog() int { return int(a.adc.Get() >> 6) }

// lcd is the game.Display on a 16x2 HD44780 behind an I2C backpack.
type lcd struct {
	dev hd44780i2c.Device
}

func (d *lcd) Clear() { d.dev.ClearDisplay() }

func (d *lcd) WriteText(row int, text string) {
	d.dev.SetCursor(0, uint8(row))
	d.dev.Print([]byte(text))
}

func (d *lcd) Backlight(on bool) { d.dev.BacklightOn(on) }

// edges is the game.InterruptSubstrate and game.Suspender for the
// buttons. The handler runs in interrupt context, so after calling
// the armed function it only signals the suspended goroutine without
// blocking.
type edges struct {
	pins *buttons
	wake chan struct{}
}

func newEdges(b *buttons) *edges {
	return &edges{pins: b, wake: make(chan struct{}, 1)}
}

func (e *edges) Arm(lines []int, fn func()) error {
	isr := func(machine.Pin) {
		fn()
		select {
		case e.wake <- struct{}{}:
		default:
		}
	}
	var errs []error
	for _, i := range lines {
		errs = append(errs, e.pins[i].SetInterrupt(machine.PinRising, isr))
	}
	err := errors.Join(errs...)
	if err != nil {
		e.Disarm(lines)
	}
	return err
}

func (e *edges) Disarm(lines []int) {
	for _, i := range lines {
		e.pins[i].SetInterrupt(machine.PinRising, nil)
	}
}

// Suspend parks the game goroutine until a button edge arrives. This
// is not a low-power state: the heartbeat and status server goroutines
// keep running while the game is parked.
func (e *edges) Suspend() {
	<-e.wake
}
