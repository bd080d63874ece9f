// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package game

import (
	"errors"
	"time"
)

// fakeClock is a manually advanced clock. Delay advances time.
type fakeClock struct {
	now int64
}

func (c *fakeClock) Millis() int64         { return c.now }
func (c *fakeClock) Delay(d time.Duration) { c.now += d.Milliseconds() }

func (c *fakeClock) advance(d time.Duration) {
	c.now += d.Milliseconds()
}

type fakeInput struct {
	lines Snapshot
}

func (in *fakeInput) ReadLine(i int) bool { return in.lines[i] }

type fakeOutput struct {
	lines  [Lines]bool
	pwm    uint8
	pwmLog []uint8
}

func (o *fakeOutput) WriteLine(i int, on bool) { o.lines[i] = on }
func (o *fakeOutput) WritePWM(level uint8) {
	o.pwm = level
	o.pwmLog = append(o.pwmLog, level)
}

type fakeAnalog struct {
	value int
}

func (a *fakeAnalog) ReadAnalog() int { return a.value }

type fakeDisplay struct {
	rows      [2]string
	backlight bool
	history   []string
}

func (d *fakeDisplay) Clear() { d.rows = [2]string{} }
func (d *fakeDisplay) WriteText(row int, text string) {
	d.rows[row] = text
	d.history = append(d.history, text)
}
func (d *fakeDisplay) Backlight(on bool) { d.backlight = on }

// fakeRandom returns a fixed sequence of values, repeating the last.
type fakeRandom struct {
	seed   int64
	seeded int
	values []int
}

func (r *fakeRandom) Seed(seed int64) {
	r.seed = seed
	r.seeded++
}

func (r *fakeRandom) Uniform(max int) int {
	if len(r.values) == 0 {
		return 0
	}
	v := r.values[0]
	if len(r.values) > 1 {
		r.values = r.values[1:]
	}
	return v
}

// fakeIRQ records arming and keeps the handler for the test to fire.
type fakeIRQ struct {
	armed  []int
	fn     func()
	armErr error
	disarm int
}

func (q *fakeIRQ) Arm(lines []int, fn func()) error {
	if q.armErr != nil {
		return q.armErr
	}
	q.armed = lines
	q.fn = fn
	return nil
}

func (q *fakeIRQ) Disarm(lines []int) {
	q.armed = nil
	q.fn = nil
	q.disarm++
}

// fakeSuspender calls onSuspend for each suspension, allowing a
// test to fire the armed handler.
type fakeSuspender struct {
	calls     int
	onSuspend func(call int)
}

func (s *fakeSuspender) Suspend() {
	s.calls++
	if s.onSuspend != nil {
		s.onSuspend(s.calls)
	}
}

type testRig struct {
	clock   *fakeClock
	input   *fakeInput
	output  *fakeOutput
	knob    *fakeAnalog
	display *fakeDisplay
	random  *fakeRandom
	irq     *fakeIRQ
	sus     *fakeSuspender
}

func newTestRig(targets ...int) *testRig {
	return &testRig{
		clock:   &fakeClock{now: 1000},
		input:   &fakeInput{},
		output:  &fakeOutput{},
		knob:    &fakeAnalog{},
		display: &fakeDisplay{backlight: true},
		random:  &fakeRandom{values: targets},
		irq:     &fakeIRQ{},
		sus:     &fakeSuspender{},
	}
}

func (r *testRig) hardware() Hardware {
	return Hardware{
		Clock:      r.clock,
		Input:      r.input,
		Output:     r.output,
		Knob:       r.knob,
		Entropy:    &fakeAnalog{value: 517},
		Display:    r.display,
		Random:     r.random,
		Interrupts: r.irq,
		Suspender:  r.sus,
	}
}

var errNoIRQ = errors.New("no interrupt available")
