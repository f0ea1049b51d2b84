package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"

	"tinderbox/internal/material"
	"tinderbox/internal/sim"
)

// DefaultPath is read when neither a flag nor TINDERBOX_CONFIG names a file.
const DefaultPath = "config/tinderbox.toml"

// EnvPath names the environment variable that overrides DefaultPath.
const EnvPath = "TINDERBOX_CONFIG"

type Config struct {
	Simulation SimulationConfig `toml:"simulation"`
	Materials  MaterialsConfig  `toml:"materials"`
	Window     WindowConfig     `toml:"window"`
	Terminal   TerminalConfig   `toml:"terminal"`
	Debug      DebugConfig      `toml:"debug"`
	Report     ReportConfig     `toml:"report"`
	Logging    LoggingConfig    `toml:"logging"`
}

type SimulationConfig struct {
	Resolution int     `toml:"resolution"`
	ChunkCount int     `toml:"chunk_count"`
	TickRate   int     `toml:"tick_rate"`
	Parallel   bool    `toml:"parallel"`
	Workers    int     `toml:"workers"` // 0 = one per chunk
	Seed       int64   `toml:"seed"`
	HeatSpread float64 `toml:"heat_spread"`
	EdgeAlpha  uint8   `toml:"edge_alpha"`
}

type MaterialsConfig struct {
	Path string `toml:"path"` // YAML overrides, empty for stock tuning
}

type WindowConfig struct {
	Scale int    `toml:"scale"`
	Title string `toml:"title"`
}

type TerminalConfig struct {
	FrameRate int `toml:"frame_rate"`
}

type DebugConfig struct {
	ShowPerformanceStats bool `toml:"show_performance_stats"`
	ShowChunkBoundaries  bool `toml:"show_chunk_boundaries"`
	ShowHeat             bool `toml:"show_heat"`
}

type ReportConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	SampleEvery int    `toml:"sample_every"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Simulation: SimulationConfig{
			Resolution: 256,
			ChunkCount: 8,
			TickRate:   60,
			Seed:       1337,
			HeatSpread: 0.05,
			EdgeAlpha:  200,
		},
		Window:   WindowConfig{Scale: 3, Title: "Tinderbox"},
		Terminal: TerminalConfig{FrameRate: 30},
		Report:   ReportConfig{Path: "reports/perf.csv", SampleEvery: 30},
		Logging:  LoggingConfig{Level: "info", Format: "console"},
	}
}

// Load reads the TOML file at path over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Resolve picks the config file: the explicit path if set, then
// TINDERBOX_CONFIG, then DefaultPath. A missing DefaultPath yields the
// defaults; a missing explicitly named file is an error.
func Resolve(explicit string) (*Config, string, error) {
	path := explicit
	if path == "" {
		path = os.Getenv(EnvPath)
	}
	if path != "" {
		cfg, err := Load(path)
		return cfg, path, err
	}
	cfg, err := Load(DefaultPath)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), "", nil
	}
	return cfg, DefaultPath, err
}

func (c *Config) validate() error {
	s := c.Simulation
	switch {
	case s.Resolution <= 0:
		return fmt.Errorf("simulation.resolution must be positive, got %d", s.Resolution)
	case s.ChunkCount <= 0 || s.ChunkCount > s.Resolution:
		return fmt.Errorf("simulation.chunk_count must be within [1,%d], got %d", s.Resolution, s.ChunkCount)
	case s.TickRate <= 0:
		return fmt.Errorf("simulation.tick_rate must be positive, got %d", s.TickRate)
	case s.Workers < 0:
		return fmt.Errorf("simulation.workers must not be negative, got %d", s.Workers)
	case s.HeatSpread < 0 || s.HeatSpread > 1:
		return fmt.Errorf("simulation.heat_spread must be within [0,1], got %v", s.HeatSpread)
	case c.Window.Scale <= 0:
		return fmt.Errorf("window.scale must be positive, got %d", c.Window.Scale)
	case c.Report.SampleEvery < 0:
		return fmt.Errorf("report.sample_every must not be negative, got %d", c.Report.SampleEvery)
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}

// SimConfig builds the simulation configuration, loading material overrides
// if a path is configured.
func (c *Config) SimConfig() (sim.Config, error) {
	table, err := material.LoadTable(c.Materials.Path, material.DefaultTable())
	if err != nil {
		return sim.Config{}, err
	}
	s := c.Simulation
	return sim.Config{
		Resolution: s.Resolution,
		ChunkCount: s.ChunkCount,
		TickRate:   s.TickRate,
		Parallel:   s.Parallel,
		Workers:    s.Workers,
		Seed:       s.Seed,
		HeatSpread: s.HeatSpread,
		EdgeAlpha:  s.EdgeAlpha,
		Materials:  table,
	}, nil
}

// DebugToggles converts the [debug] section.
func (c *Config) DebugToggles() sim.DebugToggles {
	return sim.DebugToggles{
		ShowPerformanceStats: c.Debug.ShowPerformanceStats,
		ShowChunkBoundaries:  c.Debug.ShowChunkBoundaries,
		ShowHeat:             c.Debug.ShowHeat,
	}
}
