// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package game

import "strconv"

// Difficulty is a game pace tier.
type Difficulty uint8

const (
	VeryEasy Difficulty = iota
	Easy
	Normal
	Hard
)

// Ordinal returns the position of d in the tier order. It is the
// multiplier applied to the time budget reduction after each win.
func (d Difficulty) Ordinal() int {
	return int(d)
}

func (d Difficulty) String() string {
	switch d {
	case VeryEasy:
		return "Very easy"
	case Easy:
		return "Easy"
	case Normal:
		return "Normal"
	case Hard:
		return "Hard"
	default:
		return "Difficulty(" + strconv.Itoa(int(d)) + ")"
	}
}

// SelectDifficulty returns the difficulty tier for the 10-bit analog
// sample v.
func SelectDifficulty(v int) Difficulty {
	switch {
	case v <= 255:
		return VeryEasy
	case v <= 511:
		return Easy
	case v <= 767:
		return Normal
	default:
		return Hard
	}
}
