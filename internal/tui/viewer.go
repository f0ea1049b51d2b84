// Package tui renders the simulation in a terminal. Each terminal cell shows
// two grid rows with an upper half block: the foreground colour is the upper
// cell and the background colour the lower one.
package tui

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"tinderbox/internal/material"
	"tinderbox/internal/render"
	"tinderbox/internal/sim"
)

const halfBlock = '▀'

// Options configures a Viewer.
type Options struct {
	FrameRate int
	Log       *zap.Logger
}

// Viewer drives a simulation from terminal input and draws it to a screen.
type Viewer struct {
	screen  tcell.Screen
	sim     *sim.Simulation
	surface *image.NRGBA
	log     *zap.Logger
	frame   time.Duration

	cursorX, cursorY int
	selected         material.Type
	paused           bool
	stepOnce         bool
}

// NewViewer binds an initialised screen to s.
func NewViewer(screen tcell.Screen, s *sim.Simulation, opts Options) *Viewer {
	if opts.FrameRate <= 0 {
		opts.FrameRate = 30
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	size := s.Size()
	return &Viewer{
		screen:   screen,
		sim:      s,
		surface:  render.NewSurface(size.W, size.H),
		log:      opts.Log,
		frame:    time.Second / time.Duration(opts.FrameRate),
		cursorX:  size.W / 2,
		cursorY:  size.H / 4,
		selected: material.Sand,
	}
}

// Run processes input and frames until ctx is cancelled or the user quits.
func (v *Viewer) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 64)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(v.frame)
	defer ticker.Stop()
	v.log.Info("terminal viewer started", zap.Duration("frame", v.frame))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok || !v.HandleEvent(ev) {
				return nil
			}
		case <-ticker.C:
			v.Advance()
			v.Draw()
		}
	}
}

// Advance runs the simulation for one frame, honouring pause and single
// stepping.
func (v *Viewer) Advance() bool {
	switch {
	case v.stepOnce:
		v.stepOnce = false
		v.sim.Step(v.surface)
		return true
	case v.paused:
		return false
	default:
		return v.sim.Tick(v.surface)
	}
}

// HandleEvent applies one input event. It returns false when the viewer
// should exit.
func (v *Viewer) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return v.handleKey(ev)
	case *tcell.EventMouse:
		if ev.Buttons()&tcell.Button1 != 0 {
			x, y := ev.Position()
			v.cursorX, v.cursorY = x, y*2+1
			v.sim.SpawnParticle(v.cursorX, v.cursorY, v.selected)
		}
	case *tcell.EventResize:
		v.screen.Sync()
	}
	return true
}

func (v *Viewer) handleKey(ev *tcell.EventKey) bool {
	size := v.sim.Size()
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyUp:
		v.cursorY = max(v.cursorY-1, 0)
	case tcell.KeyDown:
		v.cursorY = min(v.cursorY+1, size.H-1)
	case tcell.KeyLeft:
		v.cursorX = max(v.cursorX-1, 0)
	case tcell.KeyRight:
		v.cursorX = min(v.cursorX+1, size.W-1)
	case tcell.KeyTab:
		v.selected++
		if !v.selected.Valid() {
			v.selected = material.Wood
		}
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return false
		case ' ':
			v.paused = !v.paused
		case 'n':
			v.stepOnce = true
		case 's':
			v.sim.SpawnParticle(v.cursorX, v.cursorY, v.selected)
		case 'd':
			v.sim.DestroyParticle(v.cursorX, v.cursorY)
		case 'f':
			v.sim.IgniteParticle(v.cursorX, v.cursorY)
		case 'x':
			v.sim.ExtinguishParticle(v.cursorX, v.cursorY)
		case 'h':
			v.sim.HeatParticle(v.cursorX, v.cursorY, 25)
		case 'r':
			v.sim.ResetSimulation()
		}
	}
	return true
}

// Draw paints the surface and status line and shows the screen.
func (v *Viewer) Draw() {
	cols, rows := v.screen.Size()
	size := v.sim.Size()
	viewRows := min((size.H+1)/2, rows-1)
	viewCols := min(size.W, cols)
	for row := 0; row < viewRows; row++ {
		for x := 0; x < viewCols; x++ {
			top := render.At(v.surface, x, row*2, render.Background)
			bottom := render.Background
			if row*2+1 < size.H {
				bottom = render.At(v.surface, x, row*2+1, render.Background)
			}
			style := tcell.StyleDefault.Foreground(toColor(top)).Background(toColor(bottom))
			if x == v.cursorX && row == v.cursorY/2 {
				style = style.Reverse(true)
			}
			v.screen.SetContent(x, row, halfBlock, nil, style)
		}
	}
	v.drawStatus(rows-1, cols)
	v.screen.Show()
}

func (v *Viewer) drawStatus(row, cols int) {
	if row < 0 {
		return
	}
	st := v.sim.Stats()
	state := "running"
	if v.paused {
		state = "paused"
	}
	line := fmt.Sprintf(" %s | %s | particles %d active %d burning %d | %.0f fps | (%d,%d)",
		v.selected, state, st.Particles, st.Active, st.Burning, st.FPS, v.cursorX, v.cursorY)
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorDarkSlateGray)
	x := 0
	for _, r := range line {
		if x >= cols {
			break
		}
		v.screen.SetContent(x, row, r, nil, style)
		x++
	}
	for ; x < cols; x++ {
		v.screen.SetContent(x, row, ' ', nil, style)
	}
}

func toColor(c interface{ RGBA() (r, g, b, a uint32) }) tcell.Color {
	r, g, b, _ := c.RGBA()
	return tcell.NewRGBColor(int32(r>>8), int32(g>>8), int32(b>>8))
}
