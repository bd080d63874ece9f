// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package game

import (
	"fmt"
	"sync/atomic"
)

// wakeLines is the set of lines that may wake a sleeping device.
var wakeLines = []int{0, 1, 2, 3}

// PowerState controls entry to and recovery from sleep.
type PowerState struct {
	irq  InterruptSubstrate
	sus  Suspender
	disp Display
	out  OutputPort

	// wake is the only state written by the wake handler.
	wake atomic.Bool
}

// NewPowerState returns a PowerState using the provided collaborators.
func NewPowerState(irq InterruptSubstrate, sus Suspender, disp Display, out OutputPort) *PowerState {
	return &PowerState{irq: irq, sus: sus, disp: disp, out: out}
}

// EnterSleep darkens the outputs, arms the wake trigger on all input
// lines and suspends until OnWake has been called. There is no
// timeout. If the trigger cannot be armed, EnterSleep restores the
// outputs and returns the error without suspending.
func (p *PowerState) EnterSleep() error {
	p.out.WritePWM(0)
	for i := 0; i < Lines; i++ {
		p.out.WriteLine(i, false)
	}
	p.disp.Backlight(false)
	err := p.irq.Arm(wakeLines, p.OnWake)
	if err != nil {
		p.disp.Backlight(true)
		return fmt.Errorf("arm wake trigger: %w", err)
	}
	for !p.wake.Load() {
		p.sus.Suspend()
	}
	p.irq.Disarm(wakeLines)
	p.disp.Backlight(true)
	return nil
}

// OnWake is the wake trigger handler. It only records the wake request.
func (p *PowerState) OnWake() {
	p.wake.Store(true)
}

// TakeWake reports and clears a pending wake request.
func (p *PowerState) TakeWake() bool {
	return p.wake.Swap(false)
}
