package sim

import (
	"math"

	"tinderbox/internal/core"
)

// Parameters exposes configuration and telemetry for HUDs and reports.
func (s *Simulation) Parameters() core.ParameterSnapshot {
	st := s.stats
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "Simulation",
			Params: []core.Parameter{
				core.IntParam("resolution", "Resolution", s.cfg.Resolution),
				core.IntParam("chunk_count", "Chunks", len(s.chunks)),
				core.IntParam("tick_rate", "Tick rate", s.clock.TPS()),
				core.BoolParam("parallel", "Parallel", s.parallel),
				core.FloatParam("heat_spread", "Heat spread", s.cfg.HeatSpread),
				core.IntParam("heat_spread_pct", "Heat spread %", int(math.Round(s.cfg.HeatSpread*100))),
			},
		},
		{
			Name: "Telemetry",
			Params: []core.Parameter{
				core.IntParam("particles", "Particles", st.Particles),
				core.IntParam("active", "Active", st.Active),
				core.IntParam("burning", "Burning", st.Burning),
				core.IntParam("pixel_visits", "Pixel visits", st.PixelVisits()),
				core.IntParam("chunk_visits", "Chunk visits", st.ChunkVisits),
				core.FloatParam("frame_ms", "Frame time (ms)", float64(st.FrameTime.Microseconds())/1000),
				core.FloatParam("fps", "FPS", math.Round(st.FPS*10)/10),
			},
		},
	}}
}

// ParameterControls lists the integer parameters adjustable at runtime.
func (s *Simulation) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "tick_rate", Label: "Tick rate", Step: 5, Min: 1, Max: 240, HasMin: true, HasMax: true},
		{Key: "heat_spread_pct", Label: "Heat spread %", Step: 1, Min: 0, Max: 100, HasMin: true, HasMax: true},
	}
}

// SetIntParameter updates a runtime-adjustable parameter.
func (s *Simulation) SetIntParameter(key string, value int) bool {
	for _, ctrl := range s.ParameterControls() {
		if ctrl.Key != key {
			continue
		}
		value = ctrl.Clamp(value)
		switch key {
		case "tick_rate":
			s.cfg.TickRate = value
			s.clock.SetTPS(value)
		case "heat_spread_pct":
			s.cfg.HeatSpread = float64(value) / 100
		}
		return true
	}
	return false
}
