package particle

// Liquid falls, then spreads left and right. Only falling counts as progress:
// sideways flow keeps accumulating failed moves so a pool levels out and
// rests instead of sloshing forever.
type Liquid struct {
	base
	coolTicks int
}

func (l *Liquid) HandleMovement(w World) {
	x, y := l.x, l.y
	if l.tryLine(w, x, y+max(l.props.VelocityY, 1)) {
		l.failedMoves = 0
		return
	}
	vx := max(l.props.VelocityX, 1)
	if !l.tryLine(w, x-vx, y) {
		l.tryLine(w, x+vx, y)
	}
	l.failMove()
}

func (l *Liquid) HandleFireProperties(w World) {
	p := l.props
	if p.ExtinguishNeighbors && w.ExtinguishNeighboringParticles(l.x, l.y) {
		l.expire(p.EvaporatedType)
		return
	}
	if p.EvaporationPoint > 0 && p.EvaporatedType.Valid() && l.temperature >= p.EvaporationPoint {
		l.expire(p.EvaporatedType)
		return
	}
	if p.CoolingRate > 0 {
		l.coolTicks++
		if l.coolTicks >= p.CoolingRate {
			l.coolTicks = 0
			l.SetTemperature(l.temperature - 1)
		}
	}
	if p.FrozenType.Valid() && p.FreezingPoint >= 0 && l.temperature < p.FreezingPoint {
		l.expire(p.FrozenType)
	}
}
