package sim

import (
	"fmt"
	"strconv"

	"tinderbox/internal/material"
)

// Config controls grid dimensions, scheduling and tuning.
type Config struct {
	// Resolution is the side length of the square grid.
	Resolution int
	// ChunkCount is the number of vertical bands the grid is split into.
	ChunkCount int
	TickRate   int

	// Parallel ticks bands of the same parity concurrently, bounded by
	// Workers. Zero workers means one per band.
	Parallel bool
	Workers  int

	Seed int64

	// HeatSpread is the fraction of a hot particle's temperature given to
	// each orthogonal neighbour per tick.
	HeatSpread float64
	// EdgeAlpha is the opacity used for cells bordering an empty cell.
	EdgeAlpha uint8

	// Materials defaults to material.DefaultTable when nil.
	Materials *material.Table
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Resolution: 256,
		ChunkCount: 8,
		TickRate:   60,
		Seed:       1337,
		HeatSpread: 0.05,
		EdgeAlpha:  200,
	}
}

// Apply sets a single field from its flag-style key.
func (c *Config) Apply(key, value string) error {
	switch key {
	case "resolution":
		v, err := strconv.Atoi(value)
		if err != nil || v <= 0 {
			return fmt.Errorf("resolution %q: must be a positive integer", value)
		}
		c.Resolution = v
	case "chunk_count":
		v, err := strconv.Atoi(value)
		if err != nil || v <= 0 {
			return fmt.Errorf("chunk_count %q: must be a positive integer", value)
		}
		c.ChunkCount = v
	case "tick_rate":
		v, err := strconv.Atoi(value)
		if err != nil || v <= 0 {
			return fmt.Errorf("tick_rate %q: must be a positive integer", value)
		}
		c.TickRate = v
	case "parallel":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("parallel %q: %w", value, err)
		}
		c.Parallel = v
	case "workers":
		v, err := strconv.Atoi(value)
		if err != nil || v < 0 {
			return fmt.Errorf("workers %q: must be a non-negative integer", value)
		}
		c.Workers = v
	case "seed":
		v, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("seed %q: %w", value, err)
		}
		c.Seed = v
	case "heat_spread":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil || v < 0 || v > 1 {
			return fmt.Errorf("heat_spread %q: must be within [0,1]", value)
		}
		c.HeatSpread = v
	case "edge_alpha":
		v, err := strconv.ParseUint(value, 10, 8)
		if err != nil {
			return fmt.Errorf("edge_alpha %q: %w", value, err)
		}
		c.EdgeAlpha = uint8(v)
	default:
		return fmt.Errorf("unknown simulation setting %q", key)
	}
	return nil
}

func (c Config) normalized() Config {
	d := DefaultConfig()
	if c.Resolution <= 0 {
		c.Resolution = d.Resolution
	}
	if c.ChunkCount <= 0 {
		c.ChunkCount = 1
	}
	if c.ChunkCount > c.Resolution {
		c.ChunkCount = c.Resolution
	}
	if c.TickRate <= 0 {
		c.TickRate = d.TickRate
	}
	if c.Workers <= 0 {
		c.Workers = c.ChunkCount
	}
	if c.HeatSpread < 0 {
		c.HeatSpread = 0
	}
	if c.Materials == nil {
		c.Materials = material.DefaultTable()
	}
	return c
}
