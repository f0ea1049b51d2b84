package material

import "image/color"

// NotApplicable marks a threshold a material never reaches, e.g. the
// ignition temperature of something that cannot burn.
const NotApplicable = -1

// DefaultBurnTemperature is the temperature a burning particle is held at.
const DefaultBurnTemperature = 100

// Properties is the per-material tuning record. Fields that do not apply to
// a category are left at their zero value or NotApplicable.
type Properties struct {
	Color            color.NRGBA
	SpawnTemperature int

	// Combustion.
	IgnitionTemperature int
	BurnTemperature     int
	Fuel                int
	FuelConsumption     int
	DeathType           Type

	// Movement. RestAfter is the number of consecutive failed moves after
	// which the particle stops trying.
	VelocityX int
	VelocityY int
	RestAfter int

	// Solids.
	MeltingPoint int
	MeltedType   Type

	// Liquids.
	ExtinguishNeighbors bool
	HeatsSurroundings   bool
	EvaporationPoint    int
	EvaporatedType      Type
	FreezingPoint       int
	FrozenType          Type
	CoolingRate         int

	// Gases.
	Lifetime int
}

// CanBurn reports whether the material has an ignition temperature.
func (p Properties) CanBurn() bool { return p.IgnitionTemperature != NotApplicable }

// CanMelt reports whether the material melts below its ignition point.
func (p Properties) CanMelt() bool {
	if p.MeltingPoint == NotApplicable || p.MeltedType == None {
		return false
	}
	return !p.CanBurn() || p.MeltingPoint < p.IgnitionTemperature
}
