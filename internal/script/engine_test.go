package script

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	lua "github.com/yuin/gopher-lua"

	"tinderbox/internal/material"
	"tinderbox/internal/sim"
)

func newTestSim() *sim.Simulation {
	cfg := sim.DefaultConfig()
	cfg.Resolution = 64
	cfg.ChunkCount = 4
	return sim.New(cfg, nil)
}

func TestSpawnAndFill(t *testing.T) {
	s := newTestSim()
	e := NewEngine(s, nil)
	defer e.Close()

	err := e.Run("test", `
		assert(spawn(1, 1, "sand") == true)
		assert(spawn(1, 1, "sand") == false)
		assert(spawn(-1, 1, "sand") == false)
		local n = fill(10, 10, 12, 11, "Water")
		assert(n == 6, "fill placed " .. n)
		local w, h = size()
		assert(w == 64 and h == 64)
	`)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if s.ParticleCount() != 7 {
		t.Fatalf("particles = %d, want 7", s.ParticleCount())
	}
	p, ok := s.ParticleAt(11, 11)
	if !ok || p.Material() != material.Water {
		t.Fatal("fill should place water")
	}
}

func TestIgniteHeatDestroy(t *testing.T) {
	s := newTestSim()
	e := NewEngine(s, nil)
	defer e.Close()

	err := e.Run("test", `
		spawn(5, 5, "wood")
		spawn(6, 6, "coal")
		spawn(7, 7, "sand")
		ignite(5, 5)
		assert(heat(6, 6, 40))
		assert(not heat(30, 30, 40))
		destroy(7, 7)
	`)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if p, _ := s.ParticleAt(5, 5); !p.Burning() {
		t.Fatal("ignite should light the wood")
	}
	if p, _ := s.ParticleAt(6, 6); p.Temperature() != 40 {
		t.Fatalf("coal temperature = %d, want 40", p.Temperature())
	}
	if p, _ := s.ParticleAt(7, 7); !p.Expired() {
		t.Fatal("destroy should expire the sand")
	}
}

func TestUnknownMaterialFails(t *testing.T) {
	e := NewEngine(newTestSim(), nil)
	defer e.Close()
	err := e.Run("bad", `spawn(1, 1, "plasma")`)
	if err == nil || !strings.Contains(err.Error(), "plasma") {
		t.Fatalf("err = %v, want unknown material", err)
	}
	if err := e.Run("syntax", `spawn(`); err == nil {
		t.Fatal("syntax errors must be reported")
	}
}

func TestSandboxHasNoOS(t *testing.T) {
	e := NewEngine(newTestSim(), nil)
	defer e.Close()
	if err := e.Run("escape", `os.exit(1)`); err == nil {
		t.Fatal("os library must not be available")
	}
	for _, src := range []string{
		`dofile("/etc/hostname")`,
		`loadfile("/etc/hostname")`,
		`load("return 1")`,
		`loadstring("return 1")`,
		`require("os")`,
		`io.open("/etc/hostname")`,
	} {
		if err := e.Run("escape", src); err == nil {
			t.Errorf("%s should fail inside the sandbox", src)
		}
	}
	for _, name := range unsafeGlobals {
		if v := e.vm.GetGlobal(name); v != lua.LNil {
			t.Errorf("global %s = %v, want nil", name, v)
		}
	}
}

func TestBuiltinScenes(t *testing.T) {
	names := Scenes()
	for _, want := range []string{"campfire", "hourglass", "rainfall", "volcano"} {
		if _, ok := Scene(want); !ok {
			t.Fatalf("scene %q not registered (have %v)", want, names)
		}
	}
	for _, name := range names {
		s := newTestSim()
		e := NewEngine(s, nil)
		if err := e.RunScene(name); err != nil {
			t.Fatalf("scene %s: %v", name, err)
		}
		e.Close()
		if s.ParticleCount() == 0 {
			t.Fatalf("scene %s placed nothing", name)
		}
		for range 30 {
			s.Step(nil)
		}
	}
	e := NewEngine(newTestSim(), nil)
	defer e.Close()
	if err := e.RunScene("nope"); err == nil {
		t.Fatal("unknown scene should fail")
	}
}

func TestRunFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.lua")
	if err := os.WriteFile(path, []byte(`fill(0, 0, 3, 0, "rock")`), 0o644); err != nil {
		t.Fatal(err)
	}
	s := newTestSim()
	e := NewEngine(s, nil)
	defer e.Close()
	if err := e.RunFile(path); err != nil {
		t.Fatalf("RunFile: %v", err)
	}
	if s.ParticleCount() != 4 {
		t.Fatalf("particles = %d, want 4", s.ParticleCount())
	}
}
