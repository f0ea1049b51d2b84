package sim

import "time"

// Stats are per-tick telemetry counters. They are read-only for callers and
// refreshed at the end of every executed tick.
type Stats struct {
	Ticks uint64

	Particles int
	Active    int
	Burning   int

	PrePassVisits  int
	MovementVisits int
	FireVisits     int
	DrawVisits     int
	ChunkVisits    int

	FrameTime time.Duration
	FPS       float64
}

// PixelVisits sums the per-phase cell visits.
func (st Stats) PixelVisits() int {
	return st.PrePassVisits + st.MovementVisits + st.FireVisits + st.DrawVisits
}

func (st *Stats) resetCounters() {
	st.Active, st.Burning = 0, 0
	st.PrePassVisits, st.MovementVisits, st.FireVisits, st.DrawVisits = 0, 0, 0, 0
	st.ChunkVisits = 0
}

// Stats returns the counters recorded by the last executed tick.
func (s *Simulation) Stats() Stats { return s.stats }
