// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package game

// MaxPattern is the largest target pattern.
const MaxPattern = 1<<Lines - 1

// Snapshot is the sampled state of the input lines.
type Snapshot [Lines]bool

// Sample reads all lines from in.
func Sample(in InputPort) Snapshot {
	var s Snapshot
	for i := range s {
		s[i] = in.ReadLine(i)
	}
	return s
}

// Encode returns the bit-weighted value of s where line i
// contributes 1<<i.
func (s Snapshot) Encode() int {
	var v int
	for i, on := range s {
		if on {
			v |= 1 << i
		}
	}
	return v
}

// Matches reports whether the encoded input equals target.
func Matches(encoded, target int) bool {
	return encoded == target
}

// PatternEngine draws target patterns.
type PatternEngine struct {
	src RandomSource
}

// NewPatternEngine returns a PatternEngine drawing from src after
// seeding it with entropy.
func NewPatternEngine(src RandomSource, entropy int64) PatternEngine {
	src.Seed(entropy)
	return PatternEngine{src: src}
}

// NextTarget returns a pattern in [0, MaxPattern].
func (p PatternEngine) NextTarget() int {
	return p.src.Uniform(MaxPattern)
}
