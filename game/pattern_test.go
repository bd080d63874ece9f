// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package game

import "testing"

func TestEncode(t *testing.T) {
	seen := make(map[int]bool)
	for v := 0; v <= MaxPattern; v++ {
		s := Snapshot{v&1 != 0, v&2 != 0, v&4 != 0, v&8 != 0}
		got := s.Encode()
		if got != v {
			t.Errorf("unexpected encoding of %v: got:%d want:%d", s, got, v)
		}
		if seen[got] {
			t.Errorf("duplicate encoding %d for %v", got, s)
		}
		seen[got] = true
		for target := 0; target <= MaxPattern; target++ {
			if Matches(got, target) != (got == target) {
				t.Errorf("unexpected match result for %d against %d", got, target)
			}
		}
	}
}

func TestEncodeLineFive(t *testing.T) {
	in := &fakeInput{lines: Snapshot{true, false, true, false}}
	got := Sample(in).Encode()
	if got != 5 {
		t.Errorf("unexpected encoding: got:%d want:5", got)
	}
	if !Matches(got, 5) {
		t.Error("expected match with 5")
	}
}

func TestPatternEngine(t *testing.T) {
	src := NewRandomSource()
	p := NewPatternEngine(src, 42)
	counts := make([]int, MaxPattern+1)
	for i := 0; i < 16000; i++ {
		v := p.NextTarget()
		if v < 0 || MaxPattern < v {
			t.Fatalf("target out of range: %d", v)
		}
		counts[v]++
	}
	for v, n := range counts {
		if n == 0 {
			t.Errorf("target %d never drawn", v)
		}
	}

	// Same seed, same sequence.
	a := NewPatternEngine(NewRandomSource(), 7)
	b := NewPatternEngine(NewRandomSource(), 7)
	for i := 0; i < 32; i++ {
		if x, y := a.NextTarget(), b.NextTarget(); x != y {
			t.Fatalf("sequence diverged at %d: %d != %d", i, x, y)
		}
	}
}

func TestPatternEngineSeeds(t *testing.T) {
	src := &fakeRandom{values: []int{9}}
	p := NewPatternEngine(src, 517)
	if src.seeded != 1 || src.seed != 517 {
		t.Errorf("unexpected seeding: seeded %d times with %d", src.seeded, src.seed)
	}
	if got := p.NextTarget(); got != 9 {
		t.Errorf("unexpected target: got:%d want:9", got)
	}
}
