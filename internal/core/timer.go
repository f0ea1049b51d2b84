package core

import "time"

// FixedStep gates simulation updates to a steady ticks-per-second rate. A tick
// is due once the interval has elapsed since the last executed tick; frames in
// between are skipped rather than accumulated.
type FixedStep struct {
	step time.Duration
	last time.Time
	now  func() time.Time
}

// NewFixedStep constructs a FixedStep controller targeting the given TPS.
func NewFixedStep(tps int) *FixedStep {
	fs := &FixedStep{now: time.Now}
	fs.SetTPS(tps)
	return fs
}

// SetTPS changes the tick rate. It is safe to call from the main loop.
func (f *FixedStep) SetTPS(tps int) {
	if tps <= 0 {
		tps = 60
	}
	f.step = time.Second / time.Duration(tps)
}

// TPS reports the configured tick rate.
func (f *FixedStep) TPS() int {
	if f.step <= 0 {
		return 0
	}
	return int(time.Second / f.step)
}

// SetClock replaces the time source, mainly for tests.
func (f *FixedStep) SetClock(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	f.now = now
}

// ShouldStep reports whether the simulation should advance by one tick and,
// if so, records the current time as the last executed tick.
func (f *FixedStep) ShouldStep() bool {
	now := f.now()
	if !f.last.IsZero() && now.Sub(f.last) < f.step {
		return false
	}
	f.last = now
	return true
}

// Mark records an executed tick that bypassed the gate.
func (f *FixedStep) Mark() { f.last = f.now() }
