// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"math/bits"
	"time"

	"github.com/soypat/cyw43439"
)

// Flash codes for initialisation failures. Each is shown on the
// on-board LED as base-4 digits, most significant first.
const (
	codeRadio    = 1
	codePWM      = 2
	codeADC      = 3
	codeLCD      = 4
	codeWatchdog = 5
	codeServer   = 6
)

// ledError is an error with an associated LED flash sequence.
type ledError struct {
	error
	seq ledSequence
}

// newLedError returns a ledError flashing code n. Codes should be
// program-unique; this is not checked.
func newLedError(n byte, err error) ledError {
	return ledError{error: err, seq: errorSequence(n)}
}

func (e ledError) Unwrap() error { return e.error }

func (e ledError) ledSequence() ledSequence { return e.seq }

type ledSequencer interface {
	ledSequence() ledSequence
}

var (
	// normalOperation is the standard operation heartbeat.
	normalOperation = ledSequence{
		{on: true, duration: 10 * time.Millisecond},
		{on: false, duration: 990 * time.Millisecond},
	}
	// serverFailed is the heartbeat when the status server has
	// stopped but the game is still playable.
	serverFailed = errorSequence(codeServer)
	// uncaughtPanic is the panic termination heartbeat.
	uncaughtPanic = ledSequence{
		{on: true, duration: 990 * time.Millisecond},
		{on: false, duration: 10 * time.Millisecond},
	}
)

// errorSequence returns an ledSequence flashing n as up to four
// base-4 digits, each digit d shown as d+1 flashes, with a short gap
// between digits and a long gap at the end.
func errorSequence(n byte) ledSequence {
	const (
		on       = 300 * time.Millisecond
		off      = 250 * time.Millisecond
		digitGap = 500 * time.Millisecond
		endGap   = 2 * time.Second
	)
	if n == 0 {
		return ledSequence{{on: true, duration: on}, {on: false, duration: endGap}}
	}
	skip := bits.LeadingZeros8(n) / 2
	n <<= skip * 2
	seq := make(ledSequence, 0, 32)
	for range 4 - skip {
		d := n >> 6
		for range d + 1 {
			seq = append(seq,
				ledState{on: true, duration: on},
				ledState{on: false, duration: off},
			)
		}
		seq[len(seq)-1].duration = digitGap
		n <<= 2
	}
	seq[len(seq)-1].duration = endGap
	return seq
}

// flash flashes the LED sequence in seq on the target device.
func flash(dev *cyw43439.Device, seq ledSequence) error {
	for _, state := range seq {
		err := dev.GPIOSet(0, state.on)
		if err != nil {
			return err
		}
		time.Sleep(state.duration)
	}
	return nil
}

// ledSequence is a sequence of LED states.
type ledSequence []ledState

// ledState represents an LED state over a duration.
type ledState struct {
	on       bool
	duration time.Duration
}
