package material

import "image/color"

// Table maps every material to its properties. A Table is built once and
// treated as read-only afterwards.
type Table struct {
	props [Count]Properties
}

// Lookup returns the properties registered for t.
func (tb *Table) Lookup(t Type) (Properties, bool) {
	if tb == nil || !t.Valid() {
		return Properties{}, false
	}
	return tb.props[t], true
}

// MaxHorizontalVelocity returns the largest horizontal step any material can
// take in one tick. Powders and gases always move at least one column.
func (tb *Table) MaxHorizontalVelocity() int {
	best := 1
	if tb == nil {
		return best
	}
	for t := Wood; t < Count; t++ {
		if v := tb.props[t].VelocityX; v > best {
			best = v
		}
	}
	return best
}

// Clone returns an independent copy of the table.
func (tb *Table) Clone() *Table {
	c := *tb
	return &c
}

var (
	colorWood   = color.NRGBA{R: 82, G: 56, B: 33, A: 255}
	colorMetal  = color.NRGBA{R: 81, G: 86, B: 89, A: 255}
	colorRock   = color.NRGBA{R: 128, G: 134, B: 128, A: 255}
	colorSand   = color.NRGBA{R: 240, G: 237, B: 161, A: 255}
	colorCoal   = color.NRGBA{R: 43, G: 41, B: 40, A: 255}
	colorLeaves = color.NRGBA{R: 37, G: 59, B: 35, A: 255}
	colorWater  = color.NRGBA{R: 54, G: 122, B: 156, A: 255}
	colorLava   = color.NRGBA{R: 227, G: 157, B: 7, A: 255}
	colorSteam  = color.NRGBA{R: 210, G: 211, B: 212, A: 255}
	colorSmoke  = color.NRGBA{R: 62, G: 65, B: 66, A: 255}
)

// Fire colours alternate to make burning particles flicker.
var FireColors = [2]color.NRGBA{
	{R: 227, G: 102, B: 7, A: 255},
	{R: 227, G: 157, B: 7, A: 255},
}

// DefaultTable returns the stock material tuning.
func DefaultTable() *Table {
	tb := &Table{}
	tb.props[Wood] = Properties{
		Color:               colorWood,
		IgnitionTemperature: 100,
		BurnTemperature:     DefaultBurnTemperature,
		Fuel:                50,
		FuelConsumption:     1,
		DeathType:           Smoke,
		MeltingPoint:        NotApplicable,
	}
	tb.props[Metal] = Properties{
		Color:               colorMetal,
		IgnitionTemperature: 1000,
		BurnTemperature:     DefaultBurnTemperature,
		Fuel:                700,
		FuelConsumption:     1,
		DeathType:           Smoke,
		MeltingPoint:        NotApplicable,
	}
	tb.props[Rock] = Properties{
		Color:               colorRock,
		IgnitionTemperature: 3000,
		BurnTemperature:     DefaultBurnTemperature,
		Fuel:                400,
		FuelConsumption:     1,
		DeathType:           Lava,
		MeltingPoint:        1100,
		MeltedType:          Lava,
	}
	tb.props[Sand] = Properties{
		Color:               colorSand,
		IgnitionTemperature: NotApplicable,
		Fuel:                NotApplicable,
		VelocityX:           1,
		VelocityY:           2,
		RestAfter:           100,
	}
	tb.props[Coal] = Properties{
		Color:               colorCoal,
		IgnitionTemperature: 300,
		BurnTemperature:     DefaultBurnTemperature,
		Fuel:                1000,
		FuelConsumption:     1,
		DeathType:           Smoke,
		VelocityX:           1,
		VelocityY:           2,
		RestAfter:           100,
	}
	tb.props[Leaves] = Properties{
		Color:               colorLeaves,
		IgnitionTemperature: 40,
		BurnTemperature:     DefaultBurnTemperature,
		Fuel:                10,
		FuelConsumption:     1,
		DeathType:           Smoke,
		VelocityX:           1,
		VelocityY:           1,
		RestAfter:           100,
	}
	tb.props[Water] = Properties{
		Color:               colorWater,
		IgnitionTemperature: NotApplicable,
		Fuel:                NotApplicable,
		VelocityX:           2,
		VelocityY:           4,
		RestAfter:           10,
		ExtinguishNeighbors: true,
		EvaporationPoint:    100,
		EvaporatedType:      Steam,
		FreezingPoint:       NotApplicable,
	}
	tb.props[Lava] = Properties{
		Color:               colorLava,
		SpawnTemperature:    1000,
		IgnitionTemperature: NotApplicable,
		Fuel:                NotApplicable,
		VelocityX:           1,
		VelocityY:           2,
		RestAfter:           10,
		HeatsSurroundings:   true,
		EvaporationPoint:    NotApplicable,
		FreezingPoint:       600,
		FrozenType:          Rock,
		CoolingRate:         2,
	}
	tb.props[Steam] = Properties{
		Color:               colorSteam,
		IgnitionTemperature: NotApplicable,
		Fuel:                NotApplicable,
		Lifetime:            100,
	}
	tb.props[Smoke] = Properties{
		Color:               colorSmoke,
		IgnitionTemperature: NotApplicable,
		Fuel:                NotApplicable,
		Lifetime:            100,
	}
	return tb
}
