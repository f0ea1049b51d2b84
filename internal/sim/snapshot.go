package sim

import (
	"go.uber.org/zap"

	"tinderbox/internal/material"
	"tinderbox/internal/particle"
)

// Record is the serializable form of one particle.
type Record struct {
	Material    material.Type
	X, Y        int
	Temperature int
}

// CreateSnapshot lists live particles in id order. Expired particles awaiting
// cleanup are left out.
func (s *Simulation) CreateSnapshot() []Record {
	out := make([]Record, 0, len(s.order))
	s.Each(func(p particle.Particle) {
		if p.Expired() {
			return
		}
		x, y := p.Position()
		out = append(out, Record{Material: p.Material(), X: x, Y: y, Temperature: p.Temperature()})
	})
	return out
}

// ApplySnapshot discards all current state and respawns particles from
// records. Records that cannot be placed are skipped. It returns the number
// of particles restored; the next Tick runs regardless of the tick gate.
func (s *Simulation) ApplySnapshot(records []Record) int {
	s.index.Clear()
	s.heat.Clear()
	clear(s.particles)
	s.order = s.order[:0]
	for _, c := range s.chunks {
		c.work = c.work[:0]
		c.expired = c.expired[:0]
	}

	restored := 0
	for _, r := range records {
		if !s.SpawnParticle(r.X, r.Y, r.Material) {
			continue
		}
		if p, ok := s.ParticleAt(r.X, r.Y); ok {
			p.SetTemperature(r.Temperature)
		}
		restored++
	}
	s.markAllDirty()
	s.forceFull = true
	if skipped := len(records) - restored; skipped > 0 {
		s.log.Warn("snapshot records skipped", zap.Int("skipped", skipped), zap.Int("restored", restored))
	}
	s.log.Info("snapshot applied", zap.Int("particles", restored))
	return restored
}
