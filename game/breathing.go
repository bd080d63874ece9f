// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package game

import "time"

// BreathingLight is a triangular wave brightness animation on a PWM
// output.
type BreathingLight struct {
	out     OutputPort
	cadence int64
	mag     int

	level int
	step  int
	last  int64
}

// NewBreathingLight returns a BreathingLight writing to out every
// cadence, moving by step each tick.
func NewBreathingLight(out OutputPort, cadence time.Duration, step int) BreathingLight {
	b := BreathingLight{out: out, cadence: cadence.Milliseconds(), mag: step}
	b.Reset()
	return b
}

// Reset returns the light to zero brightness and a rising slope.
func (b *BreathingLight) Reset() {
	b.level = 0
	b.step = b.mag
	b.last = 0
}

// Update ticks the light if the cadence has passed since the last
// tick at time now in milliseconds.
func (b *BreathingLight) Update(now int64) {
	if now-b.last < b.cadence {
		return
	}
	b.last = now
	b.Tick()
}

// Tick writes the current level and advances it, reversing
// direction at either bound.
func (b *BreathingLight) Tick() {
	b.out.WritePWM(clampByte(b.level))
	b.level += b.step
	if b.level <= 0 || b.level >= 255 {
		b.step = -b.step
	}
}

// Level returns the next level to be written.
func (b *BreathingLight) Level() int {
	return b.level
}

func clampByte(v int) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	default:
		return uint8(v)
	}
}
