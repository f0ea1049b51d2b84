package sim

import (
	"image"
	"image/draw"
	"time"

	"go.uber.org/zap"

	"tinderbox/internal/material"
	"tinderbox/internal/particle"
)

// Tick advances the simulation by one step when the tick gate allows it and
// draws the grid into surface. It reports whether surface was redrawn. A
// nil surface skips drawing.
func (s *Simulation) Tick(surface draw.Image) bool {
	switch {
	case s.forceFull:
		s.clock.Mark()
	case !s.clock.ShouldStep():
		return false
	}
	s.step(surface)
	return true
}

// Step advances one tick regardless of the gate.
func (s *Simulation) Step(surface draw.Image) {
	s.clock.Mark()
	s.step(surface)
}

func (s *Simulation) step(surface draw.Image) {
	start := time.Now()
	s.forceFull = false
	s.stats.resetCounters()

	pre := s.prePass()

	for phase := 0; phase < 2; phase++ {
		var band []*chunk
		for i := phase; i < len(s.chunks); i += 2 {
			if len(s.chunks[i].work) > 0 {
				band = append(band, s.chunks[i])
			}
		}
		s.stats.ChunkVisits += len(band)
		s.sched.run(band, s.tickChunk)
	}

	s.postPass()
	removed := s.cleanup(pre)

	if surface != nil {
		s.draw(surface)
	}
	s.stats.Ticks++
	s.stats.Particles = len(s.particles)
	s.stats.FrameTime = time.Since(start)
	if !s.lastTick.IsZero() {
		if dt := start.Sub(s.lastTick); dt > 0 {
			s.stats.FPS = float64(time.Second) / float64(dt)
		}
	}
	s.lastTick = start

	if removed > 0 {
		s.log.Debug("tick cleanup", zap.Uint64("tick", s.stats.Ticks), zap.Int("removed", removed))
	}
}

// prePass wakes particles in dirty bands, sorts awake ones into their band's
// working set and returns ids that were already expired.
func (s *Simulation) prePass() []particle.ID {
	for _, c := range s.chunks {
		c.dirty = c.pending.Swap(false)
		c.work = c.work[:0]
		c.expired = c.expired[:0]
		c.moveVisits, c.fireVisits, c.burning = 0, 0, 0
	}
	s.heat.Clear()

	var expired []particle.ID
	for _, id := range s.order {
		p, ok := s.particles[id]
		if !ok {
			continue
		}
		s.stats.PrePassVisits++
		p.SetUpdated(false)
		if p.Expired() {
			expired = append(expired, id)
			continue
		}
		x, _ := p.Position()
		c := s.chunks[s.bandOf(x)]
		if c.dirty {
			p.ForceWake()
		}
		if !p.Resting() || p.HeatsSurroundings() {
			c.work = append(c.work, id)
		}
	}
	return expired
}

func (s *Simulation) tickChunk(c *chunk) {
	for _, id := range c.work {
		p := s.particles[id]
		if p.Expired() {
			c.expired = append(c.expired, id)
			continue
		}
		if !p.UpdatedThisTick() && !p.Resting() {
			c.moveVisits++
			p.HandleMovement(s)
		}
		p.SetUpdated(true)

		c.fireVisits++
		p.HandleFireProperties(s)
		if p.Burning() || p.HeatsSurroundings() {
			s.spreadHeat(p)
		}
		if p.Burning() {
			c.burning++
		}
		if p.Expired() {
			c.expired = append(c.expired, id)
		}
	}
}

// postPass folds per-band counters into the stats and clears the updated
// flag for the next tick.
func (s *Simulation) postPass() {
	active := 0
	for _, c := range s.chunks {
		s.stats.MovementVisits += c.moveVisits
		s.stats.FireVisits += c.fireVisits
		s.stats.Burning += c.burning
		for _, id := range c.work {
			p := s.particles[id]
			p.SetUpdated(false)
			if !p.Expired() && !p.Resting() {
				active++
			}
		}
	}
	s.stats.Active = active
}

// cleanup removes expired particles and spawns their death particles at the
// freed cells. It returns the number removed.
func (s *Simulation) cleanup(pre []particle.ID) int {
	removed := 0
	remove := func(id particle.ID) {
		p, ok := s.particles[id]
		if !ok {
			return
		}
		x, y := p.Position()
		death := p.DeathType()
		if s.index.At(x, y) == id {
			s.index.Set(x, y, particle.NoID)
		}
		delete(s.particles, id)
		removed++
		s.markBandDirty(s.bandOf(x))
		if death != material.None {
			s.SpawnParticle(x, y, death)
		}
	}
	for _, id := range pre {
		remove(id)
	}
	for _, c := range s.chunks {
		for _, id := range c.expired {
			remove(id)
		}
	}
	if removed > 0 {
		s.compact()
	}
	return removed
}

func (s *Simulation) draw(surface draw.Image) {
	b := surface.Bounds()
	draw.Draw(surface, b, image.Transparent, image.Point{}, draw.Src)
	for _, id := range s.order {
		p, ok := s.particles[id]
		if !ok {
			continue
		}
		s.stats.DrawVisits++
		x, y := p.Position()
		col := s.colorOf(p, s.drawRNG)
		if s.isEdge(x, y) {
			col.A = s.cfg.EdgeAlpha
		}
		surface.Set(b.Min.X+x, b.Min.Y+y, col)
	}
}

// isEdge reports whether (x, y) borders an empty in-grid cell.
func (s *Simulation) isEdge(x, y int) bool {
	for _, d := range orthogonal {
		nx, ny := x+d[0], y+d[1]
		if s.index.InBounds(nx, ny) && s.index.At(nx, ny) == particle.NoID {
			return true
		}
	}
	return false
}
