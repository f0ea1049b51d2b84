package sim

import (
	"image"
	"slices"
	"testing"
	"time"

	"tinderbox/internal/material"
	"tinderbox/internal/particle"
)

func newTestSim(t *testing.T, resolution, chunks int) *Simulation {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Resolution = resolution
	cfg.ChunkCount = chunks
	return New(cfg, nil)
}

func mustSpawn(t *testing.T, s *Simulation, x, y int, kind material.Type) particle.Particle {
	t.Helper()
	if !s.SpawnParticle(x, y, kind) {
		t.Fatalf("SpawnParticle(%d,%d,%v) failed", x, y, kind)
	}
	p, ok := s.ParticleAt(x, y)
	if !ok {
		t.Fatalf("no particle at (%d,%d) after spawn", x, y)
	}
	return p
}

func steps(s *Simulation, n int) {
	for range n {
		s.Step(nil)
	}
}

// checkIndex verifies the index and the registry describe each other exactly.
func checkIndex(t *testing.T, s *Simulation) {
	t.Helper()
	seen := make(map[particle.ID]bool)
	size := s.Size()
	for y := 0; y < size.H; y++ {
		for x := 0; x < size.W; x++ {
			id := s.IndexAt(x, y)
			if id == particle.NoID {
				continue
			}
			if seen[id] {
				t.Fatalf("id %d occupies more than one cell", id)
			}
			seen[id] = true
			p, ok := s.Particle(id)
			if !ok {
				t.Fatalf("cell (%d,%d) holds unknown id %d", x, y, id)
			}
			if px, py := p.Position(); px != x || py != y {
				t.Fatalf("id %d stored at (%d,%d) but indexed at (%d,%d)", id, px, py, x, y)
			}
		}
	}
	if len(seen) != s.ParticleCount() {
		t.Fatalf("index holds %d ids, registry %d", len(seen), s.ParticleCount())
	}
}

func floor(t *testing.T, s *Simulation, y int) {
	t.Helper()
	for x := 0; x < s.Size().W; x++ {
		mustSpawn(t, s, x, y, material.Rock)
	}
}

func TestPowderSettlesOnFloor(t *testing.T) {
	s := newTestSim(t, 20, 4)
	floor(t, s, 19)
	sand := mustSpawn(t, s, 10, 0, material.Sand)

	steps(s, 300)
	if x, y := sand.Position(); x != 10 || y != 18 {
		t.Fatalf("sand settled at (%d,%d), want (10,18)", x, y)
	}
	if !sand.Resting() {
		t.Fatal("settled sand should be resting")
	}
	steps(s, 50)
	if !sand.Resting() {
		t.Fatal("undisturbed sand must stay resting")
	}
	checkIndex(t, s)
}

func TestPowderDisplacesLiquid(t *testing.T) {
	s := newTestSim(t, 16, 4)
	water := mustSpawn(t, s, 5, 5, material.Water)
	sand := mustSpawn(t, s, 5, 4, material.Sand)

	if !s.RequestParticleMove(sand.ID(), 5, 5) {
		t.Fatal("powder must be allowed to displace liquid")
	}
	if s.IndexAt(5, 5) != sand.ID() || s.IndexAt(5, 4) != water.ID() {
		t.Fatal("index entries not swapped")
	}
	if x, y := water.Position(); x != 5 || y != 4 {
		t.Fatalf("displaced water at (%d,%d), want (5,4)", x, y)
	}
	if s.RequestParticleMove(water.ID(), 5, 5) {
		t.Fatal("liquid must not displace powder")
	}
}

func TestPowderSinksThroughLiquidDuringTick(t *testing.T) {
	s := newTestSim(t, 16, 4)
	mustSpawn(t, s, 4, 5, material.Rock)
	mustSpawn(t, s, 6, 5, material.Rock)
	mustSpawn(t, s, 5, 6, material.Rock)
	water := mustSpawn(t, s, 5, 5, material.Water)
	sand := mustSpawn(t, s, 5, 4, material.Sand)

	s.Step(nil)
	if x, y := sand.Position(); x != 5 || y != 5 {
		t.Fatalf("sand at (%d,%d), want (5,5)", x, y)
	}
	if x, y := water.Position(); x != 5 || y != 4 {
		t.Fatalf("water at (%d,%d), want (5,4)", x, y)
	}
	checkIndex(t, s)
}

func TestDisplacementTable(t *testing.T) {
	s := newTestSim(t, 8, 1)
	ids := map[material.Type]particle.ID{}
	for i, kind := range []material.Type{material.Wood, material.Sand, material.Water, material.Steam} {
		ids[kind] = mustSpawn(t, s, i, 0, kind).ID()
	}
	for mover, mid := range ids {
		for target, tid := range ids {
			want := mover == material.Sand && target == material.Water
			if got := s.IsParticleDisplacementAllowed(mid, tid); got != want {
				t.Fatalf("displace %v by %v = %v, want %v", target, mover, got, want)
			}
		}
	}
}

func TestWoodBurnsIntoSmoke(t *testing.T) {
	s := newTestSim(t, 16, 4)
	mustSpawn(t, s, 5, 5, material.Wood)
	if !s.SetParticleTemperature(5, 5, 150) {
		t.Fatal("SetParticleTemperature failed")
	}

	steps(s, 49)
	p, ok := s.ParticleAt(5, 5)
	if !ok || p.Material() != material.Wood || !p.Burning() {
		t.Fatal("wood should still be burning after 49 ticks")
	}
	if p.Fuel() != 1 {
		t.Fatalf("fuel = %d, want 1", p.Fuel())
	}
	s.Step(nil)
	p, ok = s.ParticleAt(5, 5)
	if !ok || p.Material() != material.Smoke {
		t.Fatal("burnt wood should leave smoke at its cell")
	}
	checkIndex(t, s)
}

func TestSpawnOutOfBounds(t *testing.T) {
	s := newTestSim(t, 16, 4)
	mustSpawn(t, s, 3, 3, material.Wood)
	for _, c := range [][2]int{{-1, 5}, {5, -1}, {16, 5}, {5, 16}} {
		if s.SpawnParticle(c[0], c[1], material.Wood) {
			t.Fatalf("SpawnParticle(%d,%d) succeeded outside the grid", c[0], c[1])
		}
	}
	if s.SpawnParticle(3, 3, material.Sand) {
		t.Fatal("SpawnParticle must reject occupied cells")
	}
	if s.SpawnParticle(4, 4, material.None) {
		t.Fatal("SpawnParticle must reject the none material")
	}
	if s.ParticleCount() != 1 {
		t.Fatalf("particle count = %d, want 1", s.ParticleCount())
	}
	checkIndex(t, s)
}

func TestMoveOutOfBoundsRejected(t *testing.T) {
	s := newTestSim(t, 16, 4)
	p := mustSpawn(t, s, 0, 0, material.Sand)
	for _, c := range [][2]int{{-1, 0}, {0, -1}, {16, 0}, {0, 16}, {16, 16}} {
		if s.RequestParticleMove(p.ID(), c[0], c[1]) {
			t.Fatalf("move to (%d,%d) accepted", c[0], c[1])
		}
	}
	if s.IndexAt(0, 0) != p.ID() {
		t.Fatal("rejected moves must not touch the index")
	}
	if s.RequestParticleMove(particle.ID(999), 1, 1) {
		t.Fatal("stale ids must be rejected")
	}
}

func TestLineTestStopsAtObstacles(t *testing.T) {
	s := newTestSim(t, 16, 1)
	p := mustSpawn(t, s, 2, 2, material.Water)
	mustSpawn(t, s, 2, 6, material.Rock)

	x, y, ok := s.LineTest(p.ID(), 2, 2, 2, 10)
	if !ok || x != 2 || y != 5 {
		t.Fatalf("LineTest = (%d,%d,%v), want (2,5,true)", x, y, ok)
	}
	x, y, ok = s.LineTest(p.ID(), 2, 2, -4, 2)
	if !ok || x != 0 || y != 2 {
		t.Fatalf("LineTest to the edge = (%d,%d,%v), want (0,2,true)", x, y, ok)
	}
	mustSpawn(t, s, 3, 2, material.Wood)
	if _, _, ok := s.LineTest(p.ID(), 2, 2, 4, 2); ok {
		t.Fatal("LineTest through an adjacent solid must fail")
	}
	if _, _, ok := s.LineTest(p.ID(), 2, 2, 2, 2); ok {
		t.Fatal("zero-length LineTest must fail")
	}
}

func TestUpdatedFlagClearedBetweenTicks(t *testing.T) {
	s := newTestSim(t, 16, 4)
	floor(t, s, 15)
	for x := 2; x < 8; x++ {
		mustSpawn(t, s, x, 2, material.Sand)
		mustSpawn(t, s, x, 4, material.Water)
	}
	for range 20 {
		s.Step(nil)
		s.Each(func(p particle.Particle) {
			if p.UpdatedThisTick() {
				t.Fatalf("particle %d still flagged updated after tick", p.ID())
			}
		})
		checkIndex(t, s)
	}
}

func TestIgniteIsIdempotent(t *testing.T) {
	s := newTestSim(t, 16, 4)
	p := mustSpawn(t, s, 4, 4, material.Coal)
	s.IgniteParticle(4, 4)
	temp, fuel := p.Temperature(), p.Fuel()
	s.IgniteParticle(4, 4)
	if p.Temperature() != temp || p.Fuel() != fuel || !p.Burning() {
		t.Fatal("second IgniteParticle changed particle state")
	}

	sand := mustSpawn(t, s, 6, 6, material.Sand)
	s.IgniteParticle(6, 6)
	if sand.Burning() {
		t.Fatal("sand must not ignite")
	}
	s.IgniteParticle(10, 10)
}

func TestExtinguishParticle(t *testing.T) {
	s := newTestSim(t, 16, 4)
	p := mustSpawn(t, s, 4, 4, material.Wood)
	if s.ExtinguishParticle(4, 4) {
		t.Fatal("extinguishing an unlit particle reports false")
	}
	s.IgniteParticle(4, 4)
	if !s.ExtinguishParticle(4, 4) || p.Burning() {
		t.Fatal("burning wood should be put out")
	}
	if p.Temperature() != material.DefaultBurnTemperature/2 {
		t.Fatalf("temperature = %d, want half the burn temperature", p.Temperature())
	}
}

func TestWaterPutsOutFireAndBoils(t *testing.T) {
	s := newTestSim(t, 16, 4)
	mustSpawn(t, s, 4, 15, material.Rock)
	mustSpawn(t, s, 6, 15, material.Rock)
	mustSpawn(t, s, 5, 15, material.Water)
	wood := mustSpawn(t, s, 5, 14, material.Wood)
	s.IgniteParticle(5, 14)

	s.Step(nil)
	if wood.Burning() {
		t.Fatal("water should extinguish the wood above it")
	}
	p, ok := s.ParticleAt(5, 15)
	if !ok || p.Material() != material.Steam {
		t.Fatal("water that extinguished a fire should turn into steam")
	}
	checkIndex(t, s)
}

func TestLavaIgnitesWood(t *testing.T) {
	s := newTestSim(t, 16, 4)
	mustSpawn(t, s, 4, 15, material.Rock)
	mustSpawn(t, s, 6, 15, material.Rock)
	mustSpawn(t, s, 5, 15, material.Lava)
	wood := mustSpawn(t, s, 5, 14, material.Wood)

	s.Step(nil)
	if s.HeatAt(5, 14) <= 0 {
		t.Fatal("lava should deliver heat to the wood above")
	}
	steps(s, 4)
	if !wood.Burning() {
		t.Fatalf("wood at %d should be burning next to lava", wood.Temperature())
	}
	rock, _ := s.ParticleAt(4, 15)
	if rock.Temperature() <= 0 {
		t.Fatal("rock beside lava should warm up")
	}
}

func TestFireIgnitesHighIgnitionFuel(t *testing.T) {
	s := newTestSim(t, 16, 4)
	for y := 3; y <= 7; y++ {
		for x := 3; x <= 7; x++ {
			if x == 5 && y == 5 {
				continue
			}
			mustSpawn(t, s, x, y, material.Wood)
			s.IgniteParticle(x, y)
		}
	}
	coal := mustSpawn(t, s, 5, 5, material.Coal)
	props, _ := s.Materials().Lookup(material.Coal)
	if props.IgnitionTemperature <= material.DefaultBurnTemperature {
		t.Fatal("coal should need more heat than a flame's own temperature")
	}

	for i := 0; i < 45 && !coal.Burning(); i++ {
		s.Step(nil)
		checkIndex(t, s)
	}
	if !coal.Burning() {
		t.Fatalf("coal at %d should ignite inside a burning wood ring", coal.Temperature())
	}
}

func TestFreedCellWakesRestingNeighbours(t *testing.T) {
	s := newTestSim(t, 16, 4)
	floor(t, s, 15)
	mustSpawn(t, s, 4, 14, material.Rock)
	mustSpawn(t, s, 6, 14, material.Rock)
	mustSpawn(t, s, 5, 14, material.Wood)
	sand := mustSpawn(t, s, 5, 13, material.Sand)

	steps(s, 150)
	if !sand.Resting() {
		t.Fatal("sand should be resting on the wood")
	}
	s.DestroyParticle(5, 14)
	steps(s, 3)
	if x, y := sand.Position(); x != 5 || y != 14 {
		t.Fatalf("sand at (%d,%d), want (5,14) after the wood was removed", x, y)
	}
	checkIndex(t, s)
}

func TestResetSimulationClearsEverything(t *testing.T) {
	s := newTestSim(t, 16, 4)
	floor(t, s, 15)
	mustSpawn(t, s, 3, 3, material.Wood)
	s.IgniteParticle(3, 3)
	mustSpawn(t, s, 8, 8, material.Water)

	s.ResetSimulation()
	if !s.Tick(nil) {
		t.Fatal("the tick after a reset must run")
	}
	if s.ParticleCount() != 0 {
		t.Fatalf("particle count = %d after reset, want 0", s.ParticleCount())
	}
	checkIndex(t, s)
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := newTestSim(t, 32, 4)
	floor(t, s, 31)
	for x := 4; x < 12; x++ {
		mustSpawn(t, s, x, 10, material.Sand)
		mustSpawn(t, s, x+12, 5, material.Water)
	}
	mustSpawn(t, s, 2, 2, material.Lava)
	steps(s, 5)

	snap := s.CreateSnapshot()
	before := s.ParticleCount()
	if got := s.ApplySnapshot(snap); got != len(snap) {
		t.Fatalf("restored %d of %d records", got, len(snap))
	}
	after := s.CreateSnapshot()
	key := func(r Record) [3]int { return [3]int{int(r.Material), r.X, r.Y} }
	want := make([][3]int, 0, len(snap))
	for _, r := range snap {
		want = append(want, key(r))
	}
	got := make([][3]int, 0, len(after))
	for _, r := range after {
		got = append(got, key(r))
	}
	if !slices.Equal(want, got) {
		t.Fatal("snapshot round trip changed particle set")
	}
	if s.ParticleCount() != before {
		t.Fatalf("particle count %d, want %d", s.ParticleCount(), before)
	}
	last := snap[len(snap)-1]
	lava, ok := s.ParticleAt(last.X, last.Y)
	if !ok || last.Material != material.Lava || lava.Temperature() != last.Temperature {
		t.Fatal("snapshot temperature not restored")
	}
	checkIndex(t, s)
}

func TestApplySnapshotSkipsBadRecords(t *testing.T) {
	s := newTestSim(t, 8, 1)
	mustSpawn(t, s, 1, 1, material.Wood)
	n := s.ApplySnapshot([]Record{
		{Material: material.Sand, X: 0, Y: 0},
		{Material: material.Sand, X: 0, Y: 0},
		{Material: material.Water, X: 99, Y: 0},
		{Material: material.Count, X: 2, Y: 2},
	})
	if n != 1 || s.ParticleCount() != 1 {
		t.Fatalf("restored %d, count %d; want 1", n, s.ParticleCount())
	}
	if _, ok := s.ParticleAt(1, 1); ok {
		t.Fatal("ApplySnapshot must replace existing state")
	}
}

func buildScene(t *testing.T, s *Simulation) {
	t.Helper()
	floor(t, s, 63)
	for x := 0; x < 64; x += 3 {
		mustSpawn(t, s, x, 40, material.Wood)
	}
	for x := 5; x < 60; x++ {
		mustSpawn(t, s, x, 5, material.Sand)
		mustSpawn(t, s, x, 10, material.Water)
		if x%4 == 0 {
			mustSpawn(t, s, x, 20, material.Lava)
			mustSpawn(t, s, x, 25, material.Leaves)
		}
	}
	s.IgniteParticle(9, 40)
}

func TestParallelMatchesSerial(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Resolution = 64
	cfg.ChunkCount = 4
	serial := New(cfg, nil)
	cfg.Parallel = true
	cfg.Workers = 4
	parallel := New(cfg, nil)
	if !parallel.Parallel() {
		t.Fatal("16-column bands should allow parallel ticking")
	}

	buildScene(t, serial)
	buildScene(t, parallel)
	for i := range 200 {
		serial.Step(nil)
		parallel.Step(nil)
		if !slices.Equal(serial.CreateSnapshot(), parallel.CreateSnapshot()) {
			t.Fatalf("serial and parallel diverged at tick %d", i)
		}
	}
	checkIndex(t, parallel)
}

func TestParallelFallsBackForNarrowBands(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Resolution = 16
	cfg.ChunkCount = 8
	cfg.Parallel = true
	if New(cfg, nil).Parallel() {
		t.Fatal("2-column bands are too narrow for parallel ticking")
	}
}

func TestTickGate(t *testing.T) {
	s := newTestSim(t, 16, 4)
	now := time.Unix(100, 0)
	s.SetClock(func() time.Time { return now })

	if !s.Tick(nil) {
		t.Fatal("first tick should run")
	}
	if s.Tick(nil) {
		t.Fatal("tick inside the interval should be skipped")
	}
	now = now.Add(time.Second / 60)
	if !s.Tick(nil) {
		t.Fatal("tick after the interval should run")
	}
	if s.Stats().Ticks != 2 {
		t.Fatalf("ticks = %d, want 2", s.Stats().Ticks)
	}
	s.ApplySnapshot(nil)
	if !s.Tick(nil) {
		t.Fatal("tick after a snapshot load should bypass the gate")
	}
	if s.Tick(nil) {
		t.Fatal("forced tick should restart the interval")
	}
	s.ResetSimulation()
	if !s.Tick(nil) || s.Tick(nil) {
		t.Fatal("reset should force exactly one tick")
	}
}

func TestDrawUsesEdgeAlpha(t *testing.T) {
	s := newTestSim(t, 8, 1)
	for y := 2; y <= 4; y++ {
		for x := 2; x <= 4; x++ {
			mustSpawn(t, s, x, y, material.Rock)
		}
	}
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	s.Step(img)

	rock, _ := s.Materials().Lookup(material.Rock)
	if got := img.NRGBAAt(3, 3); got != rock.Color {
		t.Fatalf("interior pixel = %v, want %v", got, rock.Color)
	}
	edge := img.NRGBAAt(2, 2)
	if edge.A != 200 || edge.R != rock.Color.R {
		t.Fatalf("edge pixel = %v, want rock colour at alpha 200", edge)
	}
	if img.NRGBAAt(0, 0).A != 0 {
		t.Fatal("empty cells should be transparent")
	}
}

func TestStatsCounters(t *testing.T) {
	s := newTestSim(t, 16, 4)
	floor(t, s, 15)
	mustSpawn(t, s, 3, 0, material.Sand)
	mustSpawn(t, s, 9, 9, material.Wood)
	s.IgniteParticle(9, 9)
	s.Step(nil)

	st := s.Stats()
	if st.Particles != 18 {
		t.Fatalf("particles = %d, want 18", st.Particles)
	}
	if st.Burning != 1 {
		t.Fatalf("burning = %d, want 1", st.Burning)
	}
	if st.ChunkVisits == 0 || st.PixelVisits() == 0 {
		t.Fatal("visit counters should be populated")
	}
	if st.Active < 2 {
		t.Fatalf("active = %d, want at least the falling sand and the fire", st.Active)
	}
}

func TestSetIntParameter(t *testing.T) {
	s := newTestSim(t, 16, 4)
	if !s.SetIntParameter("tick_rate", 1000) {
		t.Fatal("tick_rate should be adjustable")
	}
	if p, _ := s.Parameters().Lookup("tick_rate"); p.Value != "240" {
		t.Fatalf("tick_rate = %s, want clamped 240", p.Value)
	}
	if !s.SetIntParameter("heat_spread_pct", 10) || s.Config().HeatSpread != 0.1 {
		t.Fatal("heat_spread_pct should update the heat spread")
	}
	if s.SetIntParameter("bogus", 1) {
		t.Fatal("unknown keys must be rejected")
	}
}

func TestConfigApply(t *testing.T) {
	cfg := DefaultConfig()
	for k, v := range map[string]string{
		"resolution":  "64",
		"chunk_count": "4",
		"parallel":    "true",
		"heat_spread": "0.1",
		"edge_alpha":  "128",
	} {
		if err := cfg.Apply(k, v); err != nil {
			t.Fatalf("Apply(%s=%s): %v", k, v, err)
		}
	}
	if cfg.Resolution != 64 || cfg.ChunkCount != 4 || !cfg.Parallel || cfg.EdgeAlpha != 128 {
		t.Fatalf("unexpected config %+v", cfg)
	}
	for k, v := range map[string]string{
		"resolution":  "-1",
		"heat_spread": "2",
		"edge_alpha":  "300",
		"nope":        "1",
	} {
		if err := cfg.Apply(k, v); err == nil {
			t.Fatalf("Apply(%s=%s) should fail", k, v)
		}
	}
}
