package sim

import (
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"tinderbox/internal/particle"
)

// chunk is one vertical band of columns [x0, x1).
type chunk struct {
	index  int
	x0, x1 int

	// pending collects wake requests raised during a tick; dirty is the
	// snapshot consumed by the next pre-pass.
	pending atomic.Bool
	dirty   bool

	work    []particle.ID
	expired []particle.ID

	moveVisits int
	fireVisits int
	burning    int
}

func (s *Simulation) buildChunks() {
	n := s.cfg.ChunkCount
	s.chunkStep = s.cfg.Resolution / n
	s.chunks = make([]*chunk, n)
	for i := range s.chunks {
		c := &chunk{
			index: i,
			x0:    i * s.chunkStep,
			x1:    (i + 1) * s.chunkStep,
		}
		if i == n-1 {
			c.x1 = s.cfg.Resolution
		}
		c.pending.Store(true)
		s.chunks[i] = c
	}

	s.sched = serialScheduler{}
	if !s.cfg.Parallel {
		return
	}
	reach := s.table.MaxHorizontalVelocity() + 1
	if n < 2 || s.chunkStep < 2*reach {
		s.log.Warn("bands too narrow for parallel ticking, falling back to serial",
			zap.Int("chunk_step", s.chunkStep),
			zap.Int("required", 2*reach),
			zap.Int("chunks", n),
		)
		return
	}
	s.parallel = true
	s.sched = groupScheduler{limit: s.cfg.Workers}
}

// Parallel reports whether bands are ticked concurrently.
func (s *Simulation) Parallel() bool { return s.parallel }

func (s *Simulation) bandOf(x int) int {
	if x < 0 {
		return 0
	}
	return min(x/s.chunkStep, len(s.chunks)-1)
}

func (s *Simulation) markBandDirty(b int) {
	for i := b - 1; i <= b+1; i++ {
		if i >= 0 && i < len(s.chunks) {
			s.chunks[i].pending.Store(true)
		}
	}
}

// markColumnDirty wakes the band holding column x, plus the adjacent band
// when x sits on the band's edge.
func (s *Simulation) markColumnDirty(x int) {
	b := s.bandOf(x)
	c := s.chunks[b]
	c.pending.Store(true)
	if x == c.x0 && b > 0 {
		s.chunks[b-1].pending.Store(true)
	}
	if x == c.x1-1 && b < len(s.chunks)-1 {
		s.chunks[b+1].pending.Store(true)
	}
}

func (s *Simulation) markAllDirty() {
	for _, c := range s.chunks {
		c.pending.Store(true)
	}
}

// scheduler runs one parity phase of band ticks.
type scheduler interface {
	run(chunks []*chunk, fn func(*chunk))
}

type serialScheduler struct{}

func (serialScheduler) run(chunks []*chunk, fn func(*chunk)) {
	for _, c := range chunks {
		fn(c)
	}
}

// groupScheduler ticks bands concurrently. Bands of equal parity are at least
// two reaches apart, so their writes never overlap.
type groupScheduler struct {
	limit int
}

func (g groupScheduler) run(chunks []*chunk, fn func(*chunk)) {
	var eg errgroup.Group
	eg.SetLimit(g.limit)
	for _, c := range chunks {
		eg.Go(func() error {
			fn(c)
			return nil
		})
	}
	_ = eg.Wait()
}
