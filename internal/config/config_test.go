package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tinderbox/internal/material"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tinderbox.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[simulation]
resolution = 128
parallel = true

[debug]
show_heat = true

[logging]
format = "json"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Simulation.Resolution != 128 || !cfg.Simulation.Parallel {
		t.Fatalf("simulation section not applied: %+v", cfg.Simulation)
	}
	if cfg.Simulation.ChunkCount != 8 || cfg.Simulation.TickRate != 60 {
		t.Fatal("unset keys should keep their defaults")
	}
	if !cfg.DebugToggles().ShowHeat {
		t.Fatal("debug toggles not applied")
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("format = %q", cfg.Logging.Format)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"chunks":  "[simulation]\nchunk_count = 0\n",
		"spread":  "[simulation]\nheat_spread = 1.5\n",
		"scale":   "[window]\nscale = 0\n",
		"format":  "[logging]\nformat = \"xml\"\n",
		"syntax":  "[simulation\n",
		"too big": "[simulation]\nresolution = 4\nchunk_count = 8\n",
	}
	for name, body := range cases {
		if _, err := Load(writeConfig(t, body)); err == nil {
			t.Fatalf("%s: Load should fail", name)
		}
	}
}

func TestResolvePrecedence(t *testing.T) {
	explicit := writeConfig(t, "[simulation]\nresolution = 64\n")
	env := writeConfig(t, "[simulation]\nresolution = 32\n")
	t.Setenv(EnvPath, env)

	cfg, path, err := Resolve(explicit)
	if err != nil || path != explicit || cfg.Simulation.Resolution != 64 {
		t.Fatalf("explicit path: %v %s %d", err, path, cfg.Simulation.Resolution)
	}
	cfg, path, err = Resolve("")
	if err != nil || path != env || cfg.Simulation.Resolution != 32 {
		t.Fatalf("env path: %v %s", err, path)
	}

	t.Setenv(EnvPath, "")
	t.Chdir(t.TempDir())
	cfg, path, err = Resolve("")
	if err != nil || path != "" || cfg.Simulation.Resolution != 256 {
		t.Fatalf("missing default file should yield defaults: %v %q", err, path)
	}
	if _, _, err := Resolve(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("a missing explicit file must be an error")
	}
}

func TestSimConfigLoadsMaterials(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "materials.yaml")
	if err := os.WriteFile(yamlPath, []byte("materials:\n  - name: water\n    rest_after: 25\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := Default()
	cfg.Materials.Path = yamlPath
	sc, err := cfg.SimConfig()
	if err != nil {
		t.Fatalf("SimConfig: %v", err)
	}
	water, _ := sc.Materials.Lookup(material.Water)
	if water.RestAfter != 25 {
		t.Fatalf("water rest_after = %d, want 25", water.RestAfter)
	}
	if sc.Resolution != 256 || sc.EdgeAlpha != 200 {
		t.Fatalf("simulation values not carried over: %+v", sc)
	}

	cfg.Materials.Path = filepath.Join(dir, "missing.yaml")
	if _, err := cfg.SimConfig(); err == nil || !strings.Contains(err.Error(), "missing.yaml") {
		t.Fatalf("err = %v, want missing file error", err)
	}
}

func TestRepositoryConfigLoads(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", DefaultPath))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *cfg != *Default() {
		t.Fatalf("shipped config drifted from defaults: %+v", cfg)
	}
	if _, err := material.LoadTable(filepath.Join("..", "..", "config", "materials.yaml"), nil); err != nil {
		t.Fatalf("shipped material overrides: %v", err)
	}
}
