// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package game

import "time"

// TimeWindow is a polled deadline relative to a Clock.
type TimeWindow struct {
	clock    Clock
	start    int64
	duration time.Duration
	elapsed  bool
}

// NewTimeWindow returns an unarmed window on clock.
func NewTimeWindow(clock Clock) TimeWindow {
	return TimeWindow{clock: clock}
}

// Start arms the window for d from the current clock reading.
func (w *TimeWindow) Start(d time.Duration) {
	w.start = w.clock.Millis()
	w.duration = d
	w.elapsed = false
}

// Poll latches the window as elapsed if the deadline has passed and
// reports whether it has elapsed. Once elapsed, the window remains
// elapsed until it is restarted.
func (w *TimeWindow) Poll() bool {
	if !w.elapsed && w.clock.Millis()-w.start >= w.duration.Milliseconds() {
		w.elapsed = true
	}
	return w.elapsed
}

// Elapsed reports whether a previous Poll found the deadline passed.
func (w *TimeWindow) Elapsed() bool {
	return w.elapsed
}

// Duration returns the armed duration.
func (w *TimeWindow) Duration() time.Duration {
	return w.duration
}
