//go:build ebiten

package app

import (
	"errors"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"tinderbox/internal/perf"
	"tinderbox/internal/render"
	"tinderbox/internal/sim"
	"tinderbox/internal/snapshot"
	"tinderbox/internal/ui"
)

// Options configures the GUI frontend.
type Options struct {
	Scale        int
	HUDWidth     int
	SnapshotPath string
	Reporter     *perf.Reporter
	Log          *zap.Logger
}

// Game adapts a simulation to the ebiten.Game interface.
type Game struct {
	sim     *sim.Simulation
	opts    Options
	log     *zap.Logger
	hud     *ui.HUD
	overlay *ui.Overlay

	surface *image.NRGBA
	buf     []byte
	img     *ebiten.Image
	redraw  bool

	scale    int
	paused   bool
	tickOnce bool
	brush    int
}

// New constructs a Game for the provided simulation.
func New(s *sim.Simulation, opts Options) *Game {
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	size := s.Size()
	g := &Game{
		sim:     s,
		opts:    opts,
		log:     opts.Log,
		surface: render.NewSurface(size.W, size.H),
		buf:     make([]byte, 4*size.W*size.H),
		img:     ebiten.NewImage(size.W, size.H),
		scale:   opts.Scale,
		brush:   2,
		redraw:  true,
	}
	g.hud = ui.NewHUD(s, opts.HUDWidth)
	g.overlay = ui.NewOverlay(s, opts.Scale)
	return g
}

// Update handles per-frame input and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.sim.ResetSimulation()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBracketLeft) && g.brush > 0 {
		g.brush--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBracketRight) && g.brush < 16 {
		g.brush++
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		g.saveSnapshot()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF9) {
		g.loadSnapshot()
	}

	g.overlay.Update()
	g.hud.Update(g.viewWidth())
	g.handlePointer()

	switch {
	case g.tickOnce:
		g.sim.Step(g.surface)
		g.tickOnce = false
		g.afterTick()
	case !g.paused:
		if g.sim.Tick(g.surface) {
			g.afterTick()
		}
	}
	return nil
}

func (g *Game) afterTick() {
	g.redraw = true
	if g.opts.Reporter == nil {
		return
	}
	if _, err := g.opts.Reporter.Observe(g.sim.Stats()); err != nil {
		g.log.Warn("perf report disabled", zap.Error(err))
		g.opts.Reporter = nil
	}
}

func (g *Game) handlePointer() {
	mx, my := ebiten.CursorPosition()
	if mx >= g.viewWidth() {
		return
	}
	cx, cy := mx/g.scale, my/g.scale
	switch {
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		g.paint(cx, cy, func(x, y int) { g.sim.SpawnParticle(x, y, g.hud.Selected()) })
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight):
		g.paint(cx, cy, g.sim.DestroyParticle)
	case ebiten.IsKeyPressed(ebiten.KeyF):
		g.paint(cx, cy, g.sim.IgniteParticle)
	case ebiten.IsKeyPressed(ebiten.KeyX):
		g.paint(cx, cy, func(x, y int) { g.sim.ExtinguishParticle(x, y) })
	case ebiten.IsKeyPressed(ebiten.KeyT):
		g.paint(cx, cy, func(x, y int) { g.sim.HeatParticle(x, y, 25) })
	}
}

// paint applies fn to every cell of a square brush centred on (cx, cy).
func (g *Game) paint(cx, cy int, fn func(x, y int)) {
	for y := cy - g.brush; y <= cy+g.brush; y++ {
		for x := cx - g.brush; x <= cx+g.brush; x++ {
			if g.sim.IsPointWithinSimulation(x, y) {
				fn(x, y)
			}
		}
	}
}

func (g *Game) saveSnapshot() {
	if g.opts.SnapshotPath == "" {
		return
	}
	if err := snapshot.Save(g.opts.SnapshotPath, g.sim.CreateSnapshot()); err != nil {
		g.log.Error("save snapshot", zap.Error(err))
		return
	}
	g.log.Info("snapshot saved", zap.String("path", g.opts.SnapshotPath))
}

func (g *Game) loadSnapshot() {
	if g.opts.SnapshotPath == "" {
		return
	}
	n, err := snapshot.Restore(g.sim, g.opts.SnapshotPath)
	if err != nil {
		level := zap.ErrorLevel
		if errors.Is(err, snapshot.ErrCorrupt) {
			level = zap.WarnLevel
		}
		g.log.Log(level, "load snapshot", zap.Error(err))
		return
	}
	g.log.Info("snapshot loaded", zap.String("path", g.opts.SnapshotPath), zap.Int("particles", n))
}

// Draw renders the current simulation state.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.redraw {
		size := g.sim.Size()
		render.Composite(g.buf, g.surface, render.Background)
		debug := g.sim.Debug()
		if debug.ShowHeat {
			render.OverlayHeat(g.buf, size.W, size.H, g.sim.HeatAt)
		}
		if debug.ShowChunkBoundaries {
			render.OverlayChunkBoundaries(g.buf, size.W, size.H, g.sim.ChunkBounds())
		}
		g.img.WritePixels(g.buf)
		g.redraw = false
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(g.scale), float64(g.scale))
	screen.DrawImage(g.img, op)

	g.overlay.Draw(screen, g.paused)
	g.hud.Draw(screen, g.viewWidth(), g.scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.sim.Size()
	return g.viewWidth() + g.opts.HUDWidth, s.H * g.scale
}

func (g *Game) viewWidth() int { return g.sim.Size().W * g.scale }
