// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package game

import (
	"strconv"
	"time"
)

// show clears the display and writes up to two rows.
func show(d Display, rows ...string) {
	d.Clear()
	for i, r := range rows {
		d.WriteText(i, r)
	}
}

func welcomeScreen(d Display) { show(d, "Welcome to GMB!") }

func promptScreen(d Display) { show(d, "Choose the", "difficulty") }

func difficultyScreen(d Display, diff Difficulty) {
	show(d, "Diff: "+diff.String(), "Tap B1 to start")
}

func roundScreen(d Display, limit time.Duration, target int) {
	show(d,
		"Go! Time: "+strconv.FormatInt(int64(limit/time.Second), 10)+"s",
		"Value: ["+strconv.Itoa(target)+"]",
	)
}

func winScreen(d Display, score int) { show(d, "You won!", "Score: "+strconv.Itoa(score)) }

func gameOverScreen(d Display, score int) {
	show(d, "Game Over!", "Final Score: "+strconv.Itoa(score))
}
