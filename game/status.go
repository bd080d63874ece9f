// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package game

import (
	"fmt"
	"strconv"
	"time"
)

// State is a round state machine state.
type State uint8

const (
	Initialize State = iota
	Settings
	RoundSetup
	Processing
	ResolveRound
	GameOver
)

func (s State) String() string {
	switch s {
	case Initialize:
		return "initialize"
	case Settings:
		return "settings"
	case RoundSetup:
		return "round_setup"
	case Processing:
		return "processing"
	case ResolveRound:
		return "resolve_round"
	case GameOver:
		return "game_over"
	default:
		return "State(" + strconv.Itoa(int(s)) + ")"
	}
}

// Session is the state of a single game.
type Session struct {
	Difficulty Difficulty
	Score      int
	TimeLimit  time.Duration
	Target     int
}

// Status is a published snapshot of a Machine.
type Status struct {
	State      State
	Difficulty Difficulty
	Score      int
	TimeLimit  time.Duration
	Target     int
	Input      int // Last input sampled in Processing.
}

func (s Status) String() string {
	return fmt.Sprintf("state=%s difficulty=%q score=%d limit=%s target=%d input=%d",
		s.State, s.Difficulty, s.Score, s.TimeLimit, s.Target, s.Input)
}
