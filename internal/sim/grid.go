package sim

import (
	"math"

	"tinderbox/internal/material"
	"tinderbox/internal/particle"
)

var _ particle.World = (*Simulation)(nil)

var orthogonal = [4][2]int{{0, -1}, {-1, 0}, {1, 0}, {0, 1}}

// displacement[mover][target] reports whether mover may swap with target.
var displacement = func() (t [material.CategoryCount][material.CategoryCount]bool) {
	t[material.CategoryPowder][material.CategoryLiquid] = true
	return t
}()

// IsPointWithinSimulation reports whether (x, y) is a grid cell.
func (s *Simulation) IsPointWithinSimulation(x, y int) bool {
	return s.index.InBounds(x, y)
}

// IsSpaceOccupied reports whether (x, y) holds a particle. Cells outside the
// grid are reported as occupied.
func (s *Simulation) IsSpaceOccupied(x, y int) bool {
	if !s.index.InBounds(x, y) {
		return true
	}
	return s.index.At(x, y) != particle.NoID
}

// IsParticleDisplacementAllowed reports whether mover may trade places with
// target.
func (s *Simulation) IsParticleDisplacementAllowed(mover, target particle.ID) bool {
	m, ok := s.particles[mover]
	if !ok {
		return false
	}
	t, ok := s.particles[target]
	if !ok {
		return false
	}
	return displacement[m.Category()][t.Category()]
}

// RequestParticleMove relocates id to (x, y) in the positional index. The
// mover records its own new position; a displaced particle is moved to the
// mover's old cell here.
func (s *Simulation) RequestParticleMove(id particle.ID, x, y int) bool {
	if !s.index.InBounds(x, y) {
		return false
	}
	p, ok := s.particles[id]
	if !ok || p.Expired() {
		return false
	}
	ox, oy := p.Position()
	if ox == x && oy == y {
		return false
	}
	target := s.index.At(x, y)
	switch {
	case target == particle.NoID:
		s.index.Set(ox, oy, particle.NoID)
	case s.IsParticleDisplacementAllowed(id, target):
		s.index.Set(ox, oy, target)
		s.particles[target].SetPosition(ox, oy)
	default:
		return false
	}
	s.index.Set(x, y, id)
	s.markColumnDirty(ox)
	return true
}

// LineTest walks a DDA line from the start cell toward the end cell and
// returns the furthest cell the requester could occupy. ok is false when the
// requester cannot leave the start cell at all.
func (s *Simulation) LineTest(id particle.ID, startX, startY, endX, endY int) (int, int, bool) {
	dx, dy := endX-startX, endY-startY
	steps := max(abs(dx), abs(dy))
	if steps == 0 {
		return startX, startY, false
	}
	incX := float64(dx) / float64(steps)
	incY := float64(dy) / float64(steps)
	fx, fy := float64(startX), float64(startY)
	lastX, lastY := startX, startY
	for range steps {
		fx += incX
		fy += incY
		cx, cy := int(math.Round(fx)), int(math.Round(fy))
		if !s.index.InBounds(cx, cy) {
			break
		}
		occ := s.index.At(cx, cy)
		if occ != particle.NoID && occ != id && !s.IsParticleDisplacementAllowed(id, occ) {
			break
		}
		lastX, lastY = cx, cy
	}
	return lastX, lastY, lastX != startX || lastY != startY
}

// SpawnParticle places a new particle of type t at (x, y). It reports false
// when the cell is outside the grid or occupied, or t has no properties.
func (s *Simulation) SpawnParticle(x, y int, t material.Type) bool {
	if s.IsSpaceOccupied(x, y) {
		return false
	}
	props, ok := s.table.Lookup(t)
	if !ok {
		return false
	}
	s.nextID++
	p := particle.New(s.nextID, x, y, t, props)
	if p == nil {
		return false
	}
	s.particles[p.ID()] = p
	s.order = append(s.order, p.ID())
	s.index.Set(x, y, p.ID())
	s.markBandDirty(s.bandOf(x))
	return true
}

// DestroyParticle marks the occupant of (x, y) expired. It is removed, with
// no death particle, during the next tick's cleanup.
func (s *Simulation) DestroyParticle(x, y int) {
	if p, ok := s.ParticleAt(x, y); ok {
		p.ForceExpire()
	}
}

// IgniteParticle sets the occupant of (x, y) burning if it can burn.
func (s *Simulation) IgniteParticle(x, y int) {
	p, ok := s.ParticleAt(x, y)
	if !ok {
		return
	}
	p.Ignite()
	p.ForceWake()
	s.markBandDirty(s.bandOf(x))
}

// ExtinguishParticle puts out the occupant of (x, y). It reports whether a
// fire was put out.
func (s *Simulation) ExtinguishParticle(x, y int) bool {
	p, ok := s.ParticleAt(x, y)
	if !ok || !p.Burning() {
		return false
	}
	p.Extinguish()
	return true
}

// ExtinguishNeighboringParticles puts out every burning orthogonal neighbour
// of (x, y) and reports whether any was put out.
func (s *Simulation) ExtinguishNeighboringParticles(x, y int) bool {
	put := false
	for _, d := range orthogonal {
		if s.ExtinguishParticle(x+d[0], y+d[1]) {
			put = true
		}
	}
	return put
}

// HeatParticle raises (or with a negative delta lowers) the occupant's
// temperature and wakes it.
func (s *Simulation) HeatParticle(x, y, delta int) bool {
	p, ok := s.ParticleAt(x, y)
	if !ok {
		return false
	}
	p.IncreaseTemperature(delta)
	p.ForceWake()
	s.markBandDirty(s.bandOf(x))
	return true
}

// SetParticleTemperature overwrites the occupant's temperature.
func (s *Simulation) SetParticleTemperature(x, y, temperature int) bool {
	p, ok := s.ParticleAt(x, y)
	if !ok {
		return false
	}
	p.SetTemperature(temperature)
	p.ForceWake()
	s.markBandDirty(s.bandOf(x))
	return true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
