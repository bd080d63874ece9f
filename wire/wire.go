// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package wire implements the fixed-size status packet exposed by the
// game's remote status surfaces.
//
// A packet is eight bytes:
//
//	0: start byte 0xa5
//	1: state
//	2: difficulty
//	3: target pattern
//	4: score, high byte
//	5: score, low byte
//	6: round time limit in whole seconds
//	7: checksum, the byte sum of bytes 0-6
//
// The score saturates at 65535 and the time limit at 255s.
package wire

import (
	"errors"
	"fmt"
	"time"

	"github.com/kortschak/gmb/game"
)

const (
	// Start is the packet start byte.
	Start = 0xa5
	// Len is the packet length.
	Len = 8
)

var (
	ErrInvalidLength    = errors.New("invalid packet length")
	ErrBadStart         = errors.New("invalid start byte")
	ErrChecksumMismatch = errors.New("checksum mismatch")
	ErrOutOfRange       = errors.New("field out of range")
)

// Encode returns the packet for s. The input field of s is not
// encoded.
func Encode(s game.Status) []byte {
	return Append(make([]byte, 0, Len), s)
}

// Append appends the packet for s to dst.
func Append(dst []byte, s game.Status) []byte {
	score := s.Score
	if score < 0 {
		score = 0
	} else if score > 0xffff {
		score = 0xffff
	}
	limit := s.TimeLimit / time.Second
	if limit < 0 {
		limit = 0
	} else if limit > 0xff {
		limit = 0xff
	}
	pkt := [Len]byte{
		Start,
		byte(s.State),
		byte(s.Difficulty),
		byte(s.Target),
		byte(score >> 8),
		byte(score),
		byte(limit),
	}
	pkt[Len-1] = checksum(pkt[:Len-1])
	return append(dst, pkt[:]...)
}

// Decode returns the status encoded in p.
func Decode(p []byte) (game.Status, error) {
	if len(p) != Len {
		return game.Status{}, ErrInvalidLength
	}
	if p[0] != Start {
		return game.Status{}, ErrBadStart
	}
	var errs []error
	if checksum(p[:Len-1]) != p[Len-1] {
		errs = append(errs, ErrChecksumMismatch)
	}
	s := game.Status{
		State:      game.State(p[1]),
		Difficulty: game.Difficulty(p[2]),
		Target:     int(p[3]),
		Score:      int(p[4])<<8 | int(p[5]),
		TimeLimit:  time.Duration(p[6]) * time.Second,
	}
	if s.State > game.GameOver {
		errs = append(errs, fmt.Errorf("%w: state %d", ErrOutOfRange, p[1]))
	}
	if s.Difficulty > game.Hard {
		errs = append(errs, fmt.Errorf("%w: difficulty %d", ErrOutOfRange, p[2]))
	}
	if s.Target > game.MaxPattern {
		errs = append(errs, fmt.Errorf("%w: target %d", ErrOutOfRange, p[3]))
	}
	return s, errors.Join(errs...)
}

func checksum(p []byte) byte {
	var sum byte
	for _, b := range p {
		sum += b
	}
	return sum
}
