// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package game

import (
	"math/rand"
	"time"
)

// Lines is the number of button input lines and matching LED outputs.
const Lines = 4

// Clock is a monotonic millisecond clock.
type Clock interface {
	// Millis returns the number of milliseconds since an arbitrary
	// fixed epoch.
	Millis() int64
	// Delay blocks for d. It is only used for fixed-duration
	// display pauses.
	Delay(d time.Duration)
}

// InputPort is the set of button lines.
type InputPort interface {
	ReadLine(i int) bool
}

// OutputPort is the set of LED lines and the PWM driven red LED.
type OutputPort interface {
	WriteLine(i int, on bool)
	WritePWM(level uint8)
}

// AnalogInput is a 10-bit analog sample source.
type AnalogInput interface {
	// ReadAnalog returns a sample in [0, 1023].
	ReadAnalog() int
}

// Display is a two-row text display.
type Display interface {
	Clear()
	WriteText(row int, text string)
	Backlight(on bool)
}

// RandomSource is a seedable uniform integer source.
type RandomSource interface {
	Seed(seed int64)
	// Uniform returns a uniformly distributed value in [0, max].
	Uniform(max int) int
}

// InterruptSubstrate arms and disarms edge triggers on input lines.
type InterruptSubstrate interface {
	// Arm installs fn as the rising edge handler for each of
	// the lines. fn may be called from interrupt context.
	Arm(lines []int, fn func()) error
	Disarm(lines []int)
}

// Suspender suspends the processor until an interrupt occurs.
// Suspend may return spuriously.
type Suspender interface {
	Suspend()
}

// Hardware is the set of collaborators used by a Machine.
type Hardware struct {
	Clock      Clock
	Input      InputPort
	Output     OutputPort
	Knob       AnalogInput
	Entropy    AnalogInput
	Display    Display
	Random     RandomSource
	Interrupts InterruptSubstrate
	Suspender  Suspender
}

// SystemClock returns a Clock backed by the time package.
func SystemClock() Clock {
	return systemClock{epoch: time.Now()}
}

type systemClock struct {
	epoch time.Time
}

func (c systemClock) Millis() int64         { return time.Since(c.epoch).Milliseconds() }
func (c systemClock) Delay(d time.Duration) { time.Sleep(d) }

// NewRandomSource returns a RandomSource backed by math/rand.
func NewRandomSource() RandomSource {
	return &mathRand{rnd: rand.New(rand.NewSource(1))}
}

type mathRand struct {
	rnd *rand.Rand
}

func (r *mathRand) Seed(seed int64)     { r.rnd.Seed(seed) }
func (r *mathRand) Uniform(max int) int { return r.rnd.Intn(max + 1) }
