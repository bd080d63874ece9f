// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package game

import (
	"testing"
	"time"
)

func TestTimeWindow(t *testing.T) {
	clock := &fakeClock{now: 500}
	w := NewTimeWindow(clock)
	w.Start(100 * time.Millisecond)

	for i := 0; i < 100; i++ {
		if w.Poll() {
			t.Fatalf("window elapsed early at %dms", i)
		}
		clock.advance(time.Millisecond)
	}
	if !w.Poll() {
		t.Fatal("window not elapsed at deadline")
	}
	clock.advance(time.Hour)
	for i := 0; i < 3; i++ {
		if !w.Poll() || !w.Elapsed() {
			t.Fatal("window did not remain elapsed")
		}
	}

	w.Start(10 * time.Millisecond)
	if w.Elapsed() {
		t.Error("restarted window still elapsed")
	}
}

func TestTimeWindowLatePoll(t *testing.T) {
	clock := &fakeClock{}
	w := NewTimeWindow(clock)
	w.Start(time.Second)
	if w.Elapsed() {
		t.Fatal("window elapsed before poll")
	}
	clock.advance(5 * time.Second)
	if w.Elapsed() {
		t.Error("window elapsed without poll")
	}
	if !w.Poll() {
		t.Error("late poll did not report elapsed")
	}
}
