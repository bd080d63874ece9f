// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/kortschak/gmb/game"
)

const sampleRate = beep.SampleRate(44100)

// buzzer plays short tones for round outcomes.
type buzzer struct {
	log *slog.Logger
	on  bool
}

// newBuzzer returns a buzzer. If the speaker cannot be initialised
// the buzzer is silent.
func newBuzzer(ctx context.Context, log *slog.Logger, mute bool) *buzzer {
	b := &buzzer{log: log}
	if mute {
		return b
	}
	err := speaker.Init(sampleRate, sampleRate.N(time.Second/10))
	if err != nil {
		log.LogAttrs(ctx, slog.LevelWarn, "audio unavailable", slog.Any("err", err))
		return b
	}
	b.on = true
	return b
}

// status plays the tone for the state in s, if it has one.
func (b *buzzer) status(s game.Status) {
	switch s.State {
	case game.ResolveRound:
		b.tone(880, 60*time.Millisecond)
	case game.GameOver:
		b.tone(196, 400*time.Millisecond)
	}
}

func (b *buzzer) tone(freq int, d time.Duration) {
	if !b.on {
		return
	}
	sine, err := generators.SineTone(sampleRate, float64(freq))
	if err != nil {
		b.log.LogAttrs(context.Background(), slog.LevelError, "tone", slog.Int("freq", freq), slog.Any("err", err))
		return
	}
	speaker.Play(beep.Take(sampleRate.N(d), sine))
}
