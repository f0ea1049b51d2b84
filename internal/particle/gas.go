package particle

import "tinderbox/internal/material"

// Gas rises one cell at a time, drifting sideways when blocked, and expires
// when its lifetime runs out whatever its surroundings.
type Gas struct {
	base
	lifetime int
}

// HandleMovement never counts failures: gas stays awake so its lifetime
// keeps running down even when boxed in.
func (g *Gas) HandleMovement(w World) {
	x, y := g.x, g.y
	for _, c := range [3][2]int{{x, y - 1}, {x - 1, y}, {x + 1, y}} {
		if w.RequestParticleMove(g.id, c[0], c[1]) {
			g.moveTo(c[0], c[1])
			return
		}
	}
}

func (g *Gas) HandleFireProperties(World) {
	g.lifetime--
	if g.lifetime <= 0 {
		g.expire(material.None)
	}
}

// Lifetime reports the ticks left before the gas dissipates.
func (g *Gas) Lifetime() int { return g.lifetime }
