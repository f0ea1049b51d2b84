package material

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Override replaces selected tuning values of one material. Nil fields keep
// the value already in the table.
type Override struct {
	Name                string `yaml:"name"`
	Color               []int  `yaml:"color"` // r, g, b[, a]
	SpawnTemperature    *int   `yaml:"spawn_temperature"`
	IgnitionTemperature *int   `yaml:"ignition_temperature"`
	BurnTemperature     *int   `yaml:"burn_temperature"`
	Fuel                *int   `yaml:"fuel"`
	FuelConsumption     *int   `yaml:"fuel_consumption"`
	DeathType           string `yaml:"death_type"`
	VelocityX           *int   `yaml:"velocity_x"`
	VelocityY           *int   `yaml:"velocity_y"`
	RestAfter           *int   `yaml:"rest_after"`
	MeltingPoint        *int   `yaml:"melting_point"`
	MeltedType          string `yaml:"melted_type"`
	ExtinguishNeighbors *bool  `yaml:"extinguish_neighbors"`
	HeatsSurroundings   *bool  `yaml:"heats_surroundings"`
	EvaporationPoint    *int   `yaml:"evaporation_point"`
	EvaporatedType      string `yaml:"evaporated_type"`
	FreezingPoint       *int   `yaml:"freezing_point"`
	FrozenType          string `yaml:"frozen_type"`
	CoolingRate         *int   `yaml:"cooling_rate"`
	Lifetime            *int   `yaml:"lifetime"`
}

type overrideFile struct {
	Materials []Override `yaml:"materials"`
}

// LoadTable reads a YAML override file and applies it on top of base.
// An empty path returns a copy of base.
func LoadTable(path string, base *Table) (*Table, error) {
	if base == nil {
		base = DefaultTable()
	}
	if path == "" {
		return base.Clone(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read materials %s: %w", path, err)
	}
	tb, err := ParseOverrides(data, base)
	if err != nil {
		return nil, fmt.Errorf("parse materials %s: %w", path, err)
	}
	return tb, nil
}

// ParseOverrides decodes YAML overrides and applies them to a copy of base.
func ParseOverrides(data []byte, base *Table) (*Table, error) {
	var f overrideFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	tb := base.Clone()
	for i := range f.Materials {
		if err := tb.apply(&f.Materials[i]); err != nil {
			return nil, err
		}
	}
	return tb, nil
}

func (tb *Table) apply(o *Override) error {
	t, ok := Parse(o.Name)
	if !ok {
		return fmt.Errorf("unknown material %q", o.Name)
	}
	p := &tb.props[t]

	if len(o.Color) > 0 {
		if len(o.Color) < 3 || len(o.Color) > 4 {
			return fmt.Errorf("%s: color needs 3 or 4 components", o.Name)
		}
		c := [4]uint8{0, 0, 0, 255}
		for i, v := range o.Color {
			if v < 0 || v > 255 {
				return fmt.Errorf("%s: color component %d out of range", o.Name, v)
			}
			c[i] = uint8(v)
		}
		p.Color.R, p.Color.G, p.Color.B, p.Color.A = c[0], c[1], c[2], c[3]
	}

	setInt(&p.SpawnTemperature, o.SpawnTemperature)
	setInt(&p.IgnitionTemperature, o.IgnitionTemperature)
	setInt(&p.BurnTemperature, o.BurnTemperature)
	setInt(&p.Fuel, o.Fuel)
	setInt(&p.FuelConsumption, o.FuelConsumption)
	setInt(&p.VelocityX, o.VelocityX)
	setInt(&p.VelocityY, o.VelocityY)
	setInt(&p.RestAfter, o.RestAfter)
	setInt(&p.MeltingPoint, o.MeltingPoint)
	setInt(&p.EvaporationPoint, o.EvaporationPoint)
	setInt(&p.FreezingPoint, o.FreezingPoint)
	setInt(&p.CoolingRate, o.CoolingRate)
	setInt(&p.Lifetime, o.Lifetime)
	if o.ExtinguishNeighbors != nil {
		p.ExtinguishNeighbors = *o.ExtinguishNeighbors
	}
	if o.HeatsSurroundings != nil {
		p.HeatsSurroundings = *o.HeatsSurroundings
	}

	for _, ref := range []struct {
		name string
		dst  *Type
	}{
		{o.DeathType, &p.DeathType},
		{o.MeltedType, &p.MeltedType},
		{o.EvaporatedType, &p.EvaporatedType},
		{o.FrozenType, &p.FrozenType},
	} {
		if ref.name == "" {
			continue
		}
		if ref.name == "none" {
			*ref.dst = None
			continue
		}
		rt, ok := Parse(ref.name)
		if !ok {
			return fmt.Errorf("%s: unknown material %q", o.Name, ref.name)
		}
		*ref.dst = rt
	}

	if p.VelocityX < 0 || p.VelocityY < 0 {
		return fmt.Errorf("%s: velocities must not be negative", o.Name)
	}
	if p.CanBurn() && p.MeltingPoint != NotApplicable && p.MeltingPoint >= p.IgnitionTemperature {
		return fmt.Errorf("%s: melting point must be below ignition temperature", o.Name)
	}
	return nil
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}
