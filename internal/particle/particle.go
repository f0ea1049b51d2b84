// Package particle implements the simulation unit: one variant per material
// category, each with its own movement and fire/heat behaviour. Variants talk
// to the grid only through the World interface.
package particle

import (
	"image/color"

	"tinderbox/internal/material"
)

// ID identifies a particle for the lifetime of a simulation. NoID marks an
// empty cell and is never assigned.
type ID uint32

// NoID is the empty-cell sentinel.
const NoID ID = 0

// FireState is a particle's combustion status.
type FireState uint8

const (
	Unignited FireState = iota
	Burning
)

func (f FireState) String() string {
	if f == Burning {
		return "burning"
	}
	return "unignited"
}

// World is the part of the simulation grid a particle may query or mutate
// while it updates.
type World interface {
	RequestParticleMove(id ID, x, y int) bool
	LineTest(id ID, startX, startY, endX, endY int) (int, int, bool)
	IsSpaceOccupied(x, y int) bool
	ExtinguishNeighboringParticles(x, y int) bool
}

// Particle is implemented by exactly four variants: *Solid, *Powder,
// *Liquid and *Gas.
type Particle interface {
	ID() ID
	Material() material.Type
	Category() material.Category
	Position() (x, y int)
	SetPosition(x, y int)
	Color() color.NRGBA

	Temperature() int
	SetTemperature(t int)
	IncreaseTemperature(step int)
	FireState() FireState
	Burning() bool
	HeatsSurroundings() bool

	Resting() bool
	UpdatedThisTick() bool
	SetUpdated(v bool)
	Expired() bool

	// HandleMovement attempts one movement step. HandleFireProperties applies
	// one fire/heat step. Both run at most once per tick, in that order.
	HandleMovement(w World)
	HandleFireProperties(w World)

	Ignite()
	Extinguish()
	ForceWake()
	ForceExpire()

	IgnitionTemperature() int
	Fuel() int
	DeathType() material.Type

	sealed()
}

// New constructs the variant matching t's category. It returns nil for
// types outside every category.
func New(id ID, x, y int, t material.Type, props material.Properties) Particle {
	b := base{
		id:          id,
		kind:        t,
		props:       props,
		x:           x,
		y:           y,
		temperature: max(props.SpawnTemperature, 0),
		fuel:        props.Fuel,
	}
	switch t.Category() {
	case material.CategorySolid:
		b.resting = true
		return &Solid{base: b}
	case material.CategoryPowder:
		return &Powder{base: b}
	case material.CategoryLiquid:
		return &Liquid{base: b}
	case material.CategoryGas:
		return &Gas{base: b, lifetime: props.Lifetime}
	default:
		return nil
	}
}

// base carries the state shared by every variant.
type base struct {
	id    ID
	kind  material.Type
	props material.Properties

	x, y        int
	temperature int
	fuel        int
	fire        FireState

	resting     bool
	updated     bool
	expired     bool
	failedMoves int
	deathType   material.Type
}

func (b *base) sealed() {}

func (b *base) ID() ID                      { return b.id }
func (b *base) Material() material.Type     { return b.kind }
func (b *base) Category() material.Category { return b.kind.Category() }
func (b *base) Position() (int, int)        { return b.x, b.y }
func (b *base) Color() color.NRGBA          { return b.props.Color }
func (b *base) Temperature() int            { return b.temperature }
func (b *base) FireState() FireState        { return b.fire }
func (b *base) Burning() bool               { return b.fire == Burning }
func (b *base) HeatsSurroundings() bool     { return b.props.HeatsSurroundings }
func (b *base) UpdatedThisTick() bool       { return b.updated }
func (b *base) SetUpdated(v bool)           { b.updated = v }
func (b *base) Expired() bool               { return b.expired }
func (b *base) DeathType() material.Type    { return b.deathType }

// SetPosition records a new cell. The grid calls it for particles displaced
// by another particle's move; movers update themselves.
func (b *base) SetPosition(x, y int) { b.x, b.y = x, y }

// Resting reports whether movement is suspended. A burning particle is never
// considered resting.
func (b *base) Resting() bool { return b.resting && b.fire != Burning }

// SetTemperature clamps negative values to zero.
func (b *base) SetTemperature(t int) { b.temperature = max(t, 0) }

func (b *base) IncreaseTemperature(step int) { b.SetTemperature(b.temperature + step) }

// Extinguish puts out the fire and halves the temperature.
func (b *base) Extinguish() {
	b.fire = Unignited
	b.temperature /= 2
}

func (b *base) ForceWake() { b.resting = false }

// ForceExpire marks the particle for removal without a death particle.
func (b *base) ForceExpire() {
	b.expired = true
	b.deathType = material.None
}

func (b *base) Ignite() {}

func (b *base) IgnitionTemperature() int { return b.props.IgnitionTemperature }

func (b *base) Fuel() int {
	if !b.props.CanBurn() {
		return material.NotApplicable
	}
	return b.fuel
}

func (b *base) expire(death material.Type) {
	b.expired = true
	b.deathType = death
}

func (b *base) moveTo(x, y int) {
	b.x, b.y = x, y
	b.failedMoves = 0
}

func (b *base) failMove() {
	b.failedMoves++
	if b.props.RestAfter > 0 && b.failedMoves >= b.props.RestAfter {
		b.resting = true
	}
}

// ignite is shared by the variants that can burn.
func (b *base) ignite() {
	if !b.props.CanBurn() || b.fire == Burning {
		return
	}
	b.fire = Burning
	b.temperature = b.props.BurnTemperature
}

// burn ignites once hot enough and consumes fuel while burning.
func (b *base) burn() {
	if !b.props.CanBurn() {
		return
	}
	if b.fire != Burning && b.temperature >= b.props.IgnitionTemperature {
		b.ignite()
	}
	if b.fire != Burning {
		return
	}
	b.temperature = b.props.BurnTemperature
	b.fuel -= b.props.FuelConsumption
	if b.fuel <= 0 {
		b.expire(b.props.DeathType)
	}
}

// tryLine moves along a line test toward (ex, ey), taking the furthest
// reachable cell.
func (b *base) tryLine(w World, ex, ey int) bool {
	tx, ty, ok := w.LineTest(b.id, b.x, b.y, ex, ey)
	if !ok || !w.RequestParticleMove(b.id, tx, ty) {
		return false
	}
	b.x, b.y = tx, ty
	return true
}
