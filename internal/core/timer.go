package core

import "time"

// maxCatchUp bounds the frames Advance steps after a stall.
const maxCatchUp = 4

// FixedStep turns wall-clock time into a cyclic animation frame that moves
// at a steady rate regardless of the display refresh rate.
type FixedStep struct {
	step  time.Duration
	acc   time.Duration
	last  time.Time
	cycle int
	frame int
	now   func() time.Time
}

// NewFixedStep advances tps frames per second through frames 0..cycle-1. A
// cycle below one leaves the frame counter unbounded.
func NewFixedStep(tps, cycle int) *FixedStep {
	f := &FixedStep{cycle: cycle, now: time.Now}
	f.SetTPS(tps)
	return f
}

// SetTPS changes the frame rate. Non-positive rates fall back to 60.
func (f *FixedStep) SetTPS(tps int) {
	if tps <= 0 {
		tps = 60
	}
	f.step = time.Second / time.Duration(tps)
}

// Frame returns the current frame.
func (f *FixedStep) Frame() int { return f.frame }

// Advance adds the time elapsed since the previous call and steps the frame
// once per whole step, at most maxCatchUp times. The first call only starts
// the clock. It returns the number of frames stepped.
func (f *FixedStep) Advance() int {
	now := f.now()
	if f.last.IsZero() {
		f.last = now
		return 0
	}
	f.acc += now.Sub(f.last)
	f.last = now
	n := 0
	for f.acc >= f.step && n < maxCatchUp {
		f.acc -= f.step
		f.frame++
		if f.cycle > 0 && f.frame >= f.cycle {
			f.frame = 0
		}
		n++
	}
	if n == maxCatchUp {
		f.acc = 0
	}
	return n
}

// Hold restarts the clock without stepping, so time spent paused is not
// replayed on the next Advance.
func (f *FixedStep) Hold() {
	f.last = time.Time{}
	f.acc = 0
}
