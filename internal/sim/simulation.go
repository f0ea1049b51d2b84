// Package sim owns the simulation grid: the positional index, the particle
// registry, the heat map and the chunked tick pipeline that advances them.
//
// A Simulation is not safe for concurrent use. Callers drive commands and
// ticks from a single goroutine; the pipeline manages its own workers.
package sim

import (
	"image/color"
	"slices"
	"time"

	"go.uber.org/zap"

	"tinderbox/internal/core"
	"tinderbox/internal/material"
	"tinderbox/internal/particle"
)

// Simulation is the explicit simulation context. Construct it with New.
type Simulation struct {
	cfg   Config
	log   *zap.Logger
	table *material.Table

	index *core.Grid[particle.ID]
	heat  *core.Grid[int]

	particles map[particle.ID]particle.Particle
	// order lists live ids ascending; ids are monotonic so appends keep it
	// sorted and iteration deterministic.
	order  []particle.ID
	nextID particle.ID

	chunks    []*chunk
	chunkStep int
	parallel  bool
	sched     scheduler

	clock     *core.FixedStep
	forceFull bool
	lastTick  time.Time

	drawRNG *core.RNG
	stats   Stats
	debug   DebugToggles
}

// DebugToggles are the runtime debug switches read by renderers.
type DebugToggles struct {
	ShowPerformanceStats bool
	ShowChunkBoundaries  bool
	ShowHeat             bool
}

// New builds an empty simulation. A nil logger disables logging.
func New(cfg Config, log *zap.Logger) *Simulation {
	cfg = cfg.normalized()
	if log == nil {
		log = zap.NewNop()
	}
	s := &Simulation{
		cfg:       cfg,
		log:       log,
		table:     cfg.Materials,
		index:     core.NewGrid[particle.ID](cfg.Resolution, cfg.Resolution),
		heat:      core.NewGrid[int](cfg.Resolution, cfg.Resolution),
		particles: make(map[particle.ID]particle.Particle),
		clock:     core.NewFixedStep(cfg.TickRate),
		drawRNG:   core.NewRNG(cfg.Seed),
	}
	s.buildChunks()
	s.log.Info("simulation created",
		zap.Int("resolution", cfg.Resolution),
		zap.Int("chunks", len(s.chunks)),
		zap.Int("chunk_step", s.chunkStep),
		zap.Bool("parallel", s.parallel),
		zap.Int("tick_rate", cfg.TickRate),
	)
	return s
}

// Config returns the effective configuration.
func (s *Simulation) Config() Config { return s.cfg }

// Size returns the grid dimensions.
func (s *Simulation) Size() core.Size {
	return core.Size{W: s.cfg.Resolution, H: s.cfg.Resolution}
}

// Materials returns the property table particles are spawned from.
func (s *Simulation) Materials() *material.Table { return s.table }

// Debug returns the current debug toggles.
func (s *Simulation) Debug() DebugToggles { return s.debug }

// SetDebug replaces the debug toggles.
func (s *Simulation) SetDebug(d DebugToggles) { s.debug = d }

// SetClock replaces the wall clock used by the tick gate.
func (s *Simulation) SetClock(now func() time.Time) { s.clock.SetClock(now) }

// ParticleCount is the number of registry entries, expired ones included
// until cleanup.
func (s *Simulation) ParticleCount() int { return len(s.particles) }

// Particle looks up a registry entry by id.
func (s *Simulation) Particle(id particle.ID) (particle.Particle, bool) {
	p, ok := s.particles[id]
	return p, ok
}

// ParticleAt returns the occupant of (x, y).
func (s *Simulation) ParticleAt(x, y int) (particle.Particle, bool) {
	id := s.index.At(x, y)
	if id == particle.NoID {
		return nil, false
	}
	return s.Particle(id)
}

// Each visits live particles in id order.
func (s *Simulation) Each(fn func(p particle.Particle)) {
	for _, id := range s.order {
		if p, ok := s.particles[id]; ok {
			fn(p)
		}
	}
}

// HeatAt returns the heat delivered to (x, y) during the last tick.
func (s *Simulation) HeatAt(x, y int) int { return s.heat.At(x, y) }

// IndexAt returns the raw id stored in the positional index.
func (s *Simulation) IndexAt(x, y int) particle.ID { return s.index.At(x, y) }

// ChunkBounds returns the half-open column range of every band.
func (s *Simulation) ChunkBounds() [][2]int {
	out := make([][2]int, len(s.chunks))
	for i, c := range s.chunks {
		out[i] = [2]int{c.x0, c.x1}
	}
	return out
}

// ResetSimulation marks every live particle expired. They are removed by the
// next tick, which runs regardless of the tick gate.
func (s *Simulation) ResetSimulation() {
	for _, id := range s.order {
		if p, ok := s.particles[id]; ok {
			p.ForceExpire()
		}
	}
	s.forceFull = true
	s.drawRNG.Reset()
	s.log.Debug("simulation reset requested", zap.Int("particles", len(s.order)))
}

func (s *Simulation) colorOf(p particle.Particle, rng *core.RNG) color.NRGBA {
	if p.Burning() {
		return material.FireColors[rng.IntN(len(material.FireColors))]
	}
	return p.Color()
}

func (s *Simulation) compact() {
	s.order = slices.DeleteFunc(s.order, func(id particle.ID) bool {
		_, ok := s.particles[id]
		return !ok
	})
}
