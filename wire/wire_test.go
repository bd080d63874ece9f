// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/kortschak/gmb/game"
)

var encodeTests = []struct {
	name string
	s    game.Status
	want []byte
	dec  game.Status
}{
	{
		name: "processing",
		s: game.Status{
			State:      game.Processing,
			Difficulty: game.Normal,
			Score:      3,
			TimeLimit:  9 * time.Second,
			Target:     5,
			Input:      4,
		},
		want: []byte{0xa5, 3, 2, 5, 0, 3, 9, 0xa5 + 3 + 2 + 5 + 3 + 9},
		dec: game.Status{
			State:      game.Processing,
			Difficulty: game.Normal,
			Score:      3,
			TimeLimit:  9 * time.Second,
			Target:     5,
		},
	},
	{
		name: "saturated",
		s: game.Status{
			State:      game.GameOver,
			Difficulty: game.Hard,
			Score:      70000,
			TimeLimit:  time.Hour,
			Target:     15,
		},
		want: []byte{0xa5, 5, 3, 15, 0xff, 0xff, 0xff, 0xb9},
		dec: game.Status{
			State:      game.GameOver,
			Difficulty: game.Hard,
			Score:      0xffff,
			TimeLimit:  255 * time.Second,
			Target:     15,
		},
	},
	{
		name: "sub_second_limit",
		s:    game.Status{TimeLimit: 1500 * time.Millisecond},
		want: []byte{0xa5, 0, 0, 0, 0, 0, 1, 0xa6},
		dec:  game.Status{TimeLimit: time.Second},
	},
}

func TestEncode(t *testing.T) {
	for _, test := range encodeTests {
		t.Run(test.name, func(t *testing.T) {
			got := Encode(test.s)
			if !bytes.Equal(got, test.want) {
				t.Errorf("unexpected packet: got:%x want:%x", got, test.want)
			}
			dec, err := Decode(got)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if dec != test.dec {
				t.Errorf("unexpected decoded status: got:%+v want:%+v", dec, test.dec)
			}
		})
	}
}

func TestAppend(t *testing.T) {
	prefix := []byte("pkt:")
	got := Append(prefix, game.Status{Score: 1})
	if !bytes.HasPrefix(got, []byte("pkt:")) || len(got) != len(prefix)+Len {
		t.Errorf("unexpected append result: %x", got)
	}
}

var decodeErrorTests = []struct {
	name string
	p    []byte
	want []error
}{
	{
		name: "short",
		p:    []byte{0xa5, 0, 0},
		want: []error{ErrInvalidLength},
	},
	{
		name: "start",
		p:    []byte{0x5a, 0, 0, 0, 0, 0, 0, 0x5a},
		want: []error{ErrBadStart},
	},
	{
		name: "checksum",
		p:    []byte{0xa5, 1, 1, 1, 0, 0, 1, 0},
		want: []error{ErrChecksumMismatch},
	},
	{
		name: "range_and_checksum",
		p:    []byte{0xa5, 9, 0, 16, 0, 0, 0, 0},
		want: []error{ErrChecksumMismatch, ErrOutOfRange},
	},
	{
		name: "range",
		p:    []byte{0xa5, 0, 4, 0, 0, 0, 0, 0xa9},
		want: []error{ErrOutOfRange},
	},
}

func TestDecodeErrors(t *testing.T) {
	for _, test := range decodeErrorTests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Decode(test.p)
			if err == nil {
				t.Fatal("expected error")
			}
			for _, want := range test.want {
				if !errors.Is(err, want) {
					t.Errorf("unexpected error: got:%v want:%v", err, want)
				}
			}
		})
	}
}

func TestCorruptionDetected(t *testing.T) {
	pkt := Encode(game.Status{State: game.Settings, Difficulty: game.Easy, TimeLimit: 15 * time.Second})
	for i := 1; i < Len; i++ {
		bad := bytes.Clone(pkt)
		bad[i] ^= 0x10
		_, err := Decode(bad)
		if !errors.Is(err, ErrChecksumMismatch) {
			t.Errorf("corruption of byte %d not detected: %v", i, err)
		}
	}
}
