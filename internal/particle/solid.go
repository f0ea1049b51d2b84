package particle

// Solid never moves. It burns when hot enough and melts into its molten form
// when heated past its melting point without burning.
type Solid struct {
	base
}

func (s *Solid) HandleMovement(World) {
	s.resting = true
}

func (s *Solid) HandleFireProperties(World) {
	if s.fire != Burning && s.props.CanMelt() && s.temperature > s.props.MeltingPoint {
		s.expire(s.props.MeltedType)
		return
	}
	s.burn()
}

func (s *Solid) Ignite() { s.ignite() }
