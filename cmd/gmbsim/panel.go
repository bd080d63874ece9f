// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/kortschak/gmb/game"
)

const (
	lcdWidth = 16
	knobStep = 64
	knobMax  = 1023
)

// panel is a terminal rendering of the game console. It implements
// all of the game hardware other than the clock and random source.
// Buttons are latching: each key press toggles its line. Latched
// lines are released when a round is set up or the game restarts so
// that a held button never counts as a new press.
type panel struct {
	screen tcell.Screen

	mu        sync.Mutex
	lines     [game.Lines]bool
	leds      [game.Lines]bool
	red       uint8
	knob      int
	rows      [2]string
	backlight bool
	status    game.Status
	armed     func()

	wake chan struct{}
	done chan struct{}
}

func newPanel(screen tcell.Screen) *panel {
	return &panel{
		screen:    screen,
		backlight: true,
		wake:      make(chan struct{}, 1),
		done:      make(chan struct{}),
	}
}

func (p *panel) ReadLine(i int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lines[i]
}

func (p *panel) WriteLine(i int, on bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.leds[i] == on {
		return
	}
	p.leds[i] = on
	p.draw()
}

func (p *panel) WritePWM(level uint8) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.red = level
	p.draw()
}

func (p *panel) ReadAnalog() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.knob
}

func (p *panel) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rows = [2]string{}
	p.draw()
}

func (p *panel) WriteText(row int, text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if r := []rune(text); len(r) > lcdWidth {
		text = string(r[:lcdWidth])
	}
	p.rows[row] = text
	p.draw()
}

func (p *panel) Backlight(on bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.backlight = on
	p.draw()
}

func (p *panel) Arm(lines []int, fn func()) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.armed = fn
	return nil
}

func (p *panel) Disarm(lines []int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.armed = nil
}

// Suspend blocks until a button edge or until the panel is closed.
func (p *panel) Suspend() {
	select {
	case <-p.wake:
	case <-p.done:
	}
}

// setStatus records the game status for the status line and releases
// latched buttons when a round is set up or the game restarts.
func (p *panel) setStatus(s game.Status) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if s.State != p.status.State {
		switch s.State {
		case game.RoundSetup, game.Initialize:
			p.lines = [game.Lines]bool{}
		}
	}
	p.status = s
	p.draw()
}

// close releases any suspended game.
func (p *panel) close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.armed != nil {
		p.armed()
	}
	close(p.done)
}

// handleEvent applies ev to the panel and reports whether the
// simulator should keep running.
func (p *panel) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return p.handleKey(ev)
	case *tcell.EventResize:
		p.mu.Lock()
		p.screen.Sync()
		p.draw()
		p.mu.Unlock()
	}
	return true
}

func (p *panel) handleKey(ev *tcell.EventKey) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyUp, tcell.KeyRight:
		p.turn(knobStep)
	case tcell.KeyDown, tcell.KeyLeft:
		p.turn(-knobStep)
	case tcell.KeyRune:
		switch r := ev.Rune(); {
		case '1' <= r && r <= '4':
			p.toggle(int(r - '1'))
		case r == '+' || r == '=':
			p.turn(knobStep)
		case r == '-':
			p.turn(-knobStep)
		case r == 'c':
			p.lines = [game.Lines]bool{}
		case r == 'q':
			return false
		}
	}
	p.draw()
	return true
}

// toggle flips line i, firing any armed handler on a rising edge.
func (p *panel) toggle(i int) {
	p.lines[i] = !p.lines[i]
	if !p.lines[i] || p.armed == nil {
		return
	}
	p.armed()
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

func (p *panel) turn(delta int) {
	p.knob = min(max(p.knob+delta, 0), knobMax)
}

var (
	styleFrame = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleLit   = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorLightGreen)
	styleDark  = tcell.StyleDefault.Foreground(tcell.ColorDarkGreen).Background(tcell.ColorBlack)
	styleText  = tcell.StyleDefault
	styleHelp  = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
)

// draw renders the panel. It must be called with p.mu held.
func (p *panel) draw() {
	s := p.screen
	s.Clear()

	p.text(1, 0, "GMB console simulator", styleText.Bold(true))

	lcd := styleDark
	if p.backlight {
		lcd = styleLit
	}
	p.text(1, 2, "+"+strings.Repeat("-", lcdWidth)+"+", styleFrame)
	for i, r := range p.rows {
		p.text(1, 3+i, "|", styleFrame)
		p.text(2, 3+i, fmt.Sprintf("%-*s", lcdWidth, r), lcd)
		p.text(2+lcdWidth, 3+i, "|", styleFrame)
	}
	p.text(1, 5, "+"+strings.Repeat("-", lcdWidth)+"+", styleFrame)

	p.text(1, 7, "LEDs:", styleText)
	for i, on := range p.leds {
		style, r := styleText.Foreground(tcell.ColorDarkGray), '○'
		if on {
			style, r = styleText.Foreground(tcell.ColorGreen), '●'
		}
		s.SetContent(10+2*i, 7, r, nil, style)
	}
	p.text(1, 8, "Red:", styleText)
	s.SetContent(10, 8, '●', nil, styleText.Foreground(tcell.NewRGBColor(int32(p.red), 0, 0)))
	p.text(12, 8, fmt.Sprintf("%3d", p.red), styleHelp)

	p.text(1, 9, "Buttons:", styleText)
	for i, on := range p.lines {
		style := styleText
		if on {
			style = style.Reverse(true)
		}
		s.SetContent(10+2*i, 9, rune('1'+i), nil, style)
	}

	const knobCells = 16
	n := p.knob * knobCells / (knobMax + 1)
	bar := strings.Repeat("#", n) + strings.Repeat(".", knobCells-n)
	p.text(1, 10, "Knob:", styleText)
	p.text(10, 10, fmt.Sprintf("[%s] %4d %s", bar, p.knob, game.SelectDifficulty(p.knob)), styleText)

	p.text(1, 12, p.status.String(), styleHelp)
	p.text(1, 13, "1-4 toggle buttons, +/- knob, c clear buttons, esc quit", styleHelp)

	s.Show()
}

func (p *panel) text(x, y int, str string, style tcell.Style) {
	for _, r := range str {
		p.screen.SetContent(x, y, r, nil, style)
		x++
	}
}
