// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package game implements the round state machine of a binary
// pattern reflex game.
//
// A target value in [0, 15] is shown and the player must set the
// four input lines to its binary representation before the round
// time window expires. Each win shrinks the window according to the
// selected difficulty. All hardware is reached through the narrow
// interfaces in this package so the machine runs unchanged on a
// microcontroller, in a simulator or under test.
package game

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
)

// confirmLine is the input line that starts a game from Settings.
const confirmLine = 0

// Machine is the round state machine. All methods other than Status
// must be called from a single goroutine.
type Machine struct {
	cfg Config
	hw  Hardware
	log *slog.Logger

	state    State
	session  Session
	labelled bool // difficulty label shown in this Settings phase
	input    int

	window   TimeWindow
	fade     BreathingLight
	patterns PatternEngine
	power    *PowerState

	status atomic.Pointer[Status]
	notify func(Status)
}

// Option is a Machine option.
type Option func(*Machine)

// WithNotify sets a function to be called from the tick path each
// time the published status changes.
func WithNotify(fn func(Status)) Option {
	return func(m *Machine) { m.notify = fn }
}

var nolog = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
	Level: slog.Level(127),
}))

// NewMachine returns a Machine in the Initialize state. The random
// source is seeded from a single sample of hw.Entropy.
func NewMachine(hw Hardware, cfg Config, log *slog.Logger, opts ...Option) *Machine {
	if log == nil {
		log = nolog
	}
	m := &Machine{
		cfg:      cfg,
		hw:       hw,
		log:      log,
		state:    Initialize,
		window:   NewTimeWindow(hw.Clock),
		fade:     NewBreathingLight(hw.Output, cfg.FadeCadence, cfg.FadeStep),
		patterns: NewPatternEngine(hw.Random, int64(hw.Entropy.ReadAnalog())),
		power:    NewPowerState(hw.Interrupts, hw.Suspender, hw.Display, hw.Output),
	}
	for _, o := range opts {
		o(m)
	}
	m.publish()
	return m
}

// Power returns the machine's power state controller.
func (m *Machine) Power() *PowerState {
	return m.power
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// Session returns the current game session.
func (m *Machine) Session() Session {
	return m.session
}

// Status returns the most recently published status. It is safe to
// call concurrently with Step.
func (m *Machine) Status() Status {
	return *m.status.Load()
}

// Run steps the machine until ctx is done, returning the context's
// error.
func (m *Machine) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		m.Step(ctx)
		if m.cfg.TickPeriod > 0 {
			m.hw.Clock.Delay(m.cfg.TickPeriod)
		}
	}
}

// Step advances the machine by one tick.
func (m *Machine) Step(ctx context.Context) {
	switch m.state {
	case Initialize:
		m.initialize(ctx)
	case Settings:
		m.settings(ctx)
	case RoundSetup:
		m.roundSetup(ctx)
	case Processing:
		m.processing(ctx)
	case ResolveRound:
		m.resolveRound(ctx)
	case GameOver:
		m.gameOver(ctx)
	}
	m.publish()
}

func (m *Machine) initialize(ctx context.Context) {
	m.session = Session{
		Difficulty: VeryEasy,
		TimeLimit:  m.cfg.MaxTimeLimit,
	}
	m.input = 0
	m.labelled = false
	m.fade.Reset()

	welcomeScreen(m.hw.Display)
	m.hw.Clock.Delay(m.cfg.InitDelay)
	promptScreen(m.hw.Display)
	m.hw.Clock.Delay(m.cfg.InitDelay)

	m.window.Start(m.cfg.SettingsWindow)
	m.transition(ctx, Settings)
}

func (m *Machine) settings(ctx context.Context) {
	d := SelectDifficulty(m.hw.Knob.ReadAnalog())
	if d != m.session.Difficulty || !m.labelled {
		if d != m.session.Difficulty {
			m.log.LogAttrs(ctx, slog.LevelDebug, "difficulty", slog.Any("from", m.session.Difficulty), slog.Any("to", d))
		}
		m.session.Difficulty = d
		m.session.TimeLimit = m.cfg.MaxTimeLimit
		m.labelled = true
		difficultyScreen(m.hw.Display, d)
	}
	m.fade.Update(m.hw.Clock.Millis())

	if m.hw.Input.ReadLine(confirmLine) {
		m.hw.Output.WritePWM(0)
		m.transition(ctx, RoundSetup)
		return
	}
	if !m.window.Poll() {
		return
	}

	m.log.LogAttrs(ctx, slog.LevelInfo, "enter sleep", slog.Duration("idle", m.window.Duration()))
	err := m.power.EnterSleep()
	if err != nil {
		m.log.LogAttrs(ctx, slog.LevelError, "sleep", slog.Any("err", err))
	} else if m.power.TakeWake() {
		m.log.LogAttrs(ctx, slog.LevelInfo, "wake")
	}
	m.transition(ctx, Initialize)
}

func (m *Machine) roundSetup(ctx context.Context) {
	m.session.Target = m.patterns.NextTarget()
	roundScreen(m.hw.Display, m.session.TimeLimit, m.session.Target)
	m.hw.Clock.Delay(m.cfg.RoundSetupDelay)
	m.window.Start(m.session.TimeLimit)
	m.log.LogAttrs(ctx, slog.LevelInfo, "round", slog.Int("target", m.session.Target), slog.Duration("limit", m.session.TimeLimit))
	m.transition(ctx, Processing)
}

func (m *Machine) processing(ctx context.Context) {
	s := Sample(m.hw.Input)
	for i, on := range s {
		m.hw.Output.WriteLine(i, on)
	}
	m.input = s.Encode()
	if Matches(m.input, m.session.Target) {
		m.transition(ctx, ResolveRound)
		return
	}
	if m.window.Poll() {
		m.transition(ctx, GameOver)
	}
}

func (m *Machine) resolveRound(ctx context.Context) {
	m.session.Score++
	m.session.TimeLimit = ShrinkTimeLimit(m.session.TimeLimit, m.cfg.TimeDelta, m.cfg.MinTimeLimit, m.session.Difficulty)
	m.log.LogAttrs(ctx, slog.LevelInfo, "win", slog.Int("score", m.session.Score), slog.Duration("limit", m.session.TimeLimit))
	winScreen(m.hw.Display, m.session.Score)
	m.hw.Clock.Delay(m.cfg.ResolveDelay)
	m.ledsOff()
	m.transition(ctx, RoundSetup)
}

func (m *Machine) gameOver(ctx context.Context) {
	m.log.LogAttrs(ctx, slog.LevelInfo, "game over", slog.Int("score", m.session.Score))
	m.hw.Output.WritePWM(255)
	m.hw.Clock.Delay(m.cfg.FailFlash)
	m.hw.Output.WritePWM(0)
	m.ledsOff()
	gameOverScreen(m.hw.Display, m.session.Score)
	m.hw.Clock.Delay(m.cfg.GameOverDelay)
	m.transition(ctx, Initialize)
}

func (m *Machine) ledsOff() {
	for i := 0; i < Lines; i++ {
		m.hw.Output.WriteLine(i, false)
	}
}

func (m *Machine) transition(ctx context.Context, to State) {
	m.log.LogAttrs(ctx, slog.LevelInfo, "transition", slog.Any("from", m.state), slog.Any("to", to))
	m.state = to
}

// publish stores the current status and notifies any listener if it
// differs from the last published status.
func (m *Machine) publish() {
	s := Status{
		State:      m.state,
		Difficulty: m.session.Difficulty,
		Score:      m.session.Score,
		TimeLimit:  m.session.TimeLimit,
		Target:     m.session.Target,
		Input:      m.input,
	}
	last := m.status.Load()
	if last != nil && *last == s {
		return
	}
	m.status.Store(&s)
	if last != nil && m.notify != nil {
		m.notify(s)
	}
}
