package particle

// Powder falls straight down, then slides diagonally. A diagonal slide is
// blocked when the cell beside the particle on that side is occupied.
type Powder struct {
	base
}

func (p *Powder) HandleMovement(w World) {
	x, y := p.x, p.y
	if p.tryLine(w, x, y+max(p.props.VelocityY, 1)) {
		p.failedMoves = 0
		return
	}
	for _, dx := range [2]int{-1, 1} {
		if w.IsSpaceOccupied(x+dx, y) {
			continue
		}
		if w.RequestParticleMove(p.id, x+dx, y+1) {
			p.moveTo(x+dx, y+1)
			return
		}
	}
	p.failMove()
}

func (p *Powder) HandleFireProperties(World) { p.burn() }

func (p *Powder) Ignite() { p.ignite() }
