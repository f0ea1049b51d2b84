package sim

import "tinderbox/internal/particle"

// spreadHeat gives each orthogonal neighbour of a hot particle a share of its
// temperature. Heat accumulates without limit, so neighbours of a steady
// source keep warming until they ignite or melt. Warmed neighbours are woken
// so they re-evaluate ignition next tick.
func (s *Simulation) spreadHeat(src particle.Particle) {
	temp := src.Temperature()
	amount := int(float64(temp) * s.cfg.HeatSpread)
	if amount <= 0 {
		return
	}
	x, y := src.Position()
	for _, d := range orthogonal {
		nx, ny := x+d[0], y+d[1]
		n, ok := s.ParticleAt(nx, ny)
		if !ok || n.Expired() {
			continue
		}
		before := n.Temperature()
		n.IncreaseTemperature(amount)
		if delta := n.Temperature() - before; delta > 0 {
			n.ForceWake()
			s.heat.Set(nx, ny, s.heat.At(nx, ny)+delta)
		}
	}
}
