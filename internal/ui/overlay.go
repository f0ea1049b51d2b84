//go:build ebiten

package ui

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"tinderbox/internal/sim"
)

// Overlay toggles the debug layers and draws the performance panel on top of
// the simulation view. Keys: 1 perf stats, 2 chunk boundaries, 3 heat map.
type Overlay struct {
	sim   *sim.Simulation
	scale int
}

// NewOverlay constructs a new overlay instance.
func NewOverlay(s *sim.Simulation, scale int) *Overlay {
	return &Overlay{sim: s, scale: scale}
}

// Update applies toggle keys to the simulation's debug switches.
func (o *Overlay) Update() {
	d := o.sim.Debug()
	changed := false
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		d.ShowPerformanceStats = !d.ShowPerformanceStats
		changed = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		d.ShowChunkBoundaries = !d.ShowChunkBoundaries
		changed = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit3) {
		d.ShowHeat = !d.ShowHeat
		changed = true
	}
	if changed {
		o.sim.SetDebug(d)
	}
}

// Draw renders the overlay onto the provided screen.
func (o *Overlay) Draw(screen *ebiten.Image, paused bool) {
	face := basicfont.Face7x13
	if paused {
		text.Draw(screen, "PAUSED", face, 8, 16, color.White)
	}
	if !o.sim.Debug().ShowPerformanceStats {
		return
	}
	lines := PerfLines(o.sim.Stats())
	w := float32(0)
	for _, l := range lines {
		w = max(w, float32(text.BoundString(face, l).Dx()))
	}
	x, y := float32(8), float32(24)
	vector.DrawFilledRect(screen, x-4, y-2, w+8, float32(len(lines)*15+6), color.RGBA{A: 170}, false)
	for i, l := range lines {
		text.Draw(screen, l, face, int(x), int(y)+13+i*15, color.RGBA{R: 230, G: 230, B: 120, A: 255})
	}
}

// PerfLines formats the telemetry panel.
func PerfLines(st sim.Stats) []string {
	return []string{
		fmt.Sprintf("FPS %.1f  frame %.2fms", st.FPS, float64(st.FrameTime.Microseconds())/1000),
		fmt.Sprintf("particles %d  active %d  burning %d", st.Particles, st.Active, st.Burning),
		fmt.Sprintf("visits %d  chunks %d", st.PixelVisits(), st.ChunkVisits),
	}
}
