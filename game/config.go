// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package game

import "time"

// Config holds the game timing parameters.
type Config struct {
	// InitDelay is the display time of each welcome screen.
	InitDelay time.Duration
	// SettingsWindow is how long the difficulty may be chosen
	// before the device sleeps.
	SettingsWindow time.Duration
	// RoundSetupDelay is the display time of the target before
	// the round clock starts.
	RoundSetupDelay time.Duration
	// ResolveDelay is the display time of the win message.
	ResolveDelay time.Duration
	// GameOverDelay is the display time of the final score.
	GameOverDelay time.Duration
	// FailFlash is how long the red LED is lit on game over.
	FailFlash time.Duration

	// MaxTimeLimit is the initial round time budget.
	MaxTimeLimit time.Duration
	// MinTimeLimit is the floor of the round time budget.
	MinTimeLimit time.Duration
	// TimeDelta is the per-tier budget reduction after a win.
	TimeDelta time.Duration

	// FadeCadence and FadeStep define the breathing light wave.
	FadeCadence time.Duration
	FadeStep    int

	// TickPeriod is the pause between Run ticks.
	TickPeriod time.Duration
}

// DefaultConfig returns the standard game timing.
func DefaultConfig() Config {
	return Config{
		InitDelay:       2 * time.Second,
		SettingsWindow:  10 * time.Second,
		RoundSetupDelay: time.Second,
		ResolveDelay:    2 * time.Second,
		GameOverDelay:   10 * time.Second,
		FailFlash:       time.Second,

		MaxTimeLimit: 15 * time.Second,
		MinTimeLimit: 3 * time.Second,
		TimeDelta:    time.Second,

		FadeCadence: 30 * time.Millisecond,
		FadeStep:    5,

		TickPeriod: time.Millisecond,
	}
}

// ShrinkTimeLimit returns the time budget following a win at
// difficulty d.
func ShrinkTimeLimit(limit, delta, floor time.Duration, d Difficulty) time.Duration {
	limit -= delta * time.Duration(d.Ordinal())
	if limit < floor {
		return floor
	}
	return limit
}
