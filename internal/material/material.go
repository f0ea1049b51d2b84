// Package material holds the material catalog: type codes grouped into
// contiguous category ranges and the immutable tuning data looked up when a
// particle is spawned.
package material

import "strings"

// Type identifies a material. Codes are grouped into contiguous ranges per
// category so that category checks are single range comparisons.
type Type uint8

// Category is the behaviour family a material belongs to.
type Category uint8

const (
	CategoryNone Category = iota
	CategorySolid
	CategoryPowder
	CategoryLiquid
	CategoryGas
	categoryCount
)

// CategoryCount is the number of categories including CategoryNone.
const CategoryCount = int(categoryCount)

const (
	None Type = iota

	Wood
	Metal
	Rock

	Sand
	Coal
	Leaves

	Water
	Lava

	Steam
	Smoke

	Count
)

const (
	firstSolid  = Wood
	lastSolid   = Rock
	firstPowder = Sand
	lastPowder  = Leaves
	firstLiquid = Water
	lastLiquid  = Lava
	firstGas    = Steam
	lastGas     = Smoke
)

var names = [Count]string{
	None:   "none",
	Wood:   "wood",
	Metal:  "metal",
	Rock:   "rock",
	Sand:   "sand",
	Coal:   "coal",
	Leaves: "leaves",
	Water:  "water",
	Lava:   "lava",
	Steam:  "steam",
	Smoke:  "smoke",
}

// IsSolid reports whether t falls in the solid range.
func (t Type) IsSolid() bool { return t >= firstSolid && t <= lastSolid }

// IsPowder reports whether t falls in the powder range.
func (t Type) IsPowder() bool { return t >= firstPowder && t <= lastPowder }

// IsLiquid reports whether t falls in the liquid range.
func (t Type) IsLiquid() bool { return t >= firstLiquid && t <= lastLiquid }

// IsGas reports whether t falls in the gas range.
func (t Type) IsGas() bool { return t >= firstGas && t <= lastGas }

// Valid reports whether t is a spawnable material.
func (t Type) Valid() bool { return t > None && t < Count }

// Category returns the behaviour family for t.
func (t Type) Category() Category {
	switch {
	case t.IsSolid():
		return CategorySolid
	case t.IsPowder():
		return CategoryPowder
	case t.IsLiquid():
		return CategoryLiquid
	case t.IsGas():
		return CategoryGas
	default:
		return CategoryNone
	}
}

func (t Type) String() string {
	if t >= Count {
		return "unknown"
	}
	return names[t]
}

// Parse resolves a material name (case-insensitive).
func Parse(name string) (Type, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for t := Wood; t < Count; t++ {
		if names[t] == name {
			return t, true
		}
	}
	return None, false
}

// All returns every spawnable material in code order.
func All() []Type {
	out := make([]Type, 0, int(Count)-1)
	for t := Wood; t < Count; t++ {
		out = append(out, t)
	}
	return out
}

func (c Category) String() string {
	switch c {
	case CategorySolid:
		return "solid"
	case CategoryPowder:
		return "powder"
	case CategoryLiquid:
		return "liquid"
	case CategoryGas:
		return "gas"
	default:
		return "none"
	}
}
