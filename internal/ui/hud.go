//go:build ebiten

package ui

import (
	"image"
	"image/color"
	"strconv"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"tinderbox/internal/core"
	"tinderbox/internal/material"
	"tinderbox/internal/sim"
)

// HUD renders the material toolbar and parameter controls to the right of
// the simulation view.
type HUD struct {
	sim        *sim.Simulation
	width      int
	panel      *ebiten.Image
	lastHeight int
	snapshot   core.ParameterSnapshot

	materials []materialButton
	selected  material.Type

	controls     []hudControlState
	panelOffsetX int
}

type materialButton struct {
	kind material.Type
	rect image.Rectangle
	fill color.NRGBA
}

// NewHUD constructs a HUD for the provided simulation and panel width.
func NewHUD(s *sim.Simulation, width int) *HUD {
	if width < 0 {
		width = 0
	}
	h := &HUD{sim: s, width: width, selected: material.Sand}
	for _, kind := range material.All() {
		props, _ := s.Materials().Lookup(kind)
		h.materials = append(h.materials, materialButton{kind: kind, fill: props.Color})
	}
	for _, ctrl := range s.ParameterControls() {
		h.controls = append(h.controls, hudControlState{control: ctrl, value: "--"})
	}
	h.layout()
	return h
}

// Selected returns the material placed by the left mouse button.
func (h *HUD) Selected() material.Type {
	if h == nil {
		return material.Sand
	}
	return h.selected
}

// Update refreshes cached parameters and handles clicks on the panel.
func (h *HUD) Update(panelOffsetX int) {
	if h == nil {
		return
	}
	h.panelOffsetX = panelOffsetX
	h.snapshot = h.sim.Parameters()
	h.refreshControlValues()
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) && len(h.materials) > 0 {
		h.selected = h.materials[(h.selectedIndex()+1)%len(h.materials)].kind
	}
	h.handleInput()
}

// Draw paints the HUD panel anchored to the right edge of the simulation view.
func (h *HUD) Draw(screen *ebiten.Image, offsetX int, scale int) {
	if h == nil || h.width <= 0 {
		return
	}
	if scale <= 0 {
		scale = 1
	}
	height := h.sim.Size().H * scale
	if height <= 0 {
		return
	}
	if h.panel == nil || h.panel.Bounds().Dx() != h.width || h.lastHeight != height {
		h.panel = ebiten.NewImage(h.width, height)
		h.lastHeight = height
	}
	h.panel.Fill(color.RGBA{R: 16, G: 16, B: 20, A: 255})
	h.drawMaterials()
	h.drawControls()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

func (h *HUD) selectedIndex() int {
	for i, b := range h.materials {
		if b.kind == h.selected {
			return i
		}
	}
	return 0
}

func (h *HUD) refreshControlValues() {
	for i := range h.controls {
		state := &h.controls[i]
		param, ok := h.snapshot.Lookup(state.control.Key)
		if !ok {
			state.hasValue = false
			state.value = "--"
			continue
		}
		switch param.Type {
		case core.ParamTypeInt:
			parsed, err := strconv.Atoi(param.Value)
			if err != nil {
				state.hasValue = false
				state.value = "--"
				continue
			}
			state.intValue = parsed
			state.value = param.Value
			state.hasValue = true
		default:
			state.hasValue = false
			state.value = "--"
		}
	}
}

func (h *HUD) handleInput() {
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	if mx < h.panelOffsetX {
		return
	}
	px := mx - h.panelOffsetX
	for _, b := range h.materials {
		if pointInRect(px, my, b.rect) {
			h.selected = b.kind
			return
		}
	}
	for i := range h.controls {
		state := &h.controls[i]
		if !state.hasValue {
			continue
		}
		if pointInRect(px, my, state.minusRect) {
			h.applyAdjustment(state, -1)
			return
		}
		if pointInRect(px, my, state.plusRect) {
			h.applyAdjustment(state, 1)
			return
		}
	}
}

func (h *HUD) applyAdjustment(state *hudControlState, direction int) {
	target := state.control.Clamp(state.intValue + direction*max(state.control.Step, 1))
	if target == state.intValue {
		return
	}
	if h.sim.SetIntParameter(state.control.Key, target) {
		state.intValue = target
	}
}

func (h *HUD) canAdjust(state *hudControlState, direction int) bool {
	target := state.control.Clamp(state.intValue + direction*max(state.control.Step, 1))
	return target != state.intValue
}

func (h *HUD) drawMaterials() {
	face := basicfont.Face7x13
	text.Draw(h.panel, "Materials", face, panelPadding, panelPadding+headerBaseline, color.RGBA{R: 200, G: 200, B: 210, A: 255})
	for _, b := range h.materials {
		r := b.rect
		vector.DrawFilledRect(h.panel, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), b.fill, false)
		if b.kind == h.selected {
			vector.StrokeRect(h.panel, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), 2, color.White, false)
		}
		label := strings.ToUpper(b.kind.String()[:1]) + b.kind.String()[1:]
		text.Draw(h.panel, label, face, r.Max.X+buttonGap, r.Min.Y+labelBaseline-6, color.RGBA{R: 220, G: 220, B: 230, A: 255})
	}
}

func (h *HUD) drawControls() {
	face := basicfont.Face7x13
	for i := range h.controls {
		state := &h.controls[i]
		labelY := state.top + labelBaseline
		text.Draw(h.panel, state.control.Label, face, panelPadding, labelY, color.RGBA{R: 220, G: 220, B: 230, A: 255})
		valueColor := color.RGBA{R: 220, G: 220, B: 230, A: 255}
		if !state.hasValue {
			valueColor = color.RGBA{R: 160, G: 160, B: 170, A: 255}
		}
		bounds := text.BoundString(face, state.value)
		valueX := state.minusRect.Min.X - buttonGap - bounds.Dx()
		text.Draw(h.panel, state.value, face, valueX, labelY, valueColor)

		h.drawButton(state.minusRect, "-", state.hasValue && h.canAdjust(state, -1))
		h.drawButton(state.plusRect, "+", state.hasValue && h.canAdjust(state, 1))
	}
}

func (h *HUD) drawButton(rect image.Rectangle, label string, enabled bool) {
	bg := color.RGBA{R: 54, G: 56, B: 64, A: 255}
	fg := color.RGBA{R: 230, G: 230, B: 240, A: 255}
	if !enabled {
		bg = color.RGBA{R: 32, G: 34, B: 40, A: 255}
		fg = color.RGBA{R: 120, G: 120, B: 130, A: 255}
	}
	vector.DrawFilledRect(h.panel, float32(rect.Min.X), float32(rect.Min.Y), float32(rect.Dx()), float32(rect.Dy()), bg, false)

	face := basicfont.Face7x13
	bounds := text.BoundString(face, label)
	x := rect.Min.X + (rect.Dx()-bounds.Dx())/2
	y := rect.Min.Y + (rect.Dy()-bounds.Dy())/2 + bounds.Dy()
	text.Draw(h.panel, label, face, x, y, fg)
}

func (h *HUD) layout() {
	if h.width <= 0 {
		return
	}
	top := panelPadding + headerBaseline + 10
	for i := range h.materials {
		h.materials[i].rect = image.Rect(panelPadding, top, panelPadding+swatchSize, top+swatchSize)
		top += swatchSize + 6
	}
	top += 10
	for i := range h.controls {
		buttonY := top + (lineHeight-buttonSize)/2
		plusRect := image.Rect(h.width-panelPadding-buttonSize, buttonY, h.width-panelPadding, buttonY+buttonSize)
		minusRect := image.Rect(plusRect.Min.X-buttonGap-buttonSize, buttonY, plusRect.Min.X-buttonGap, buttonY+buttonSize)
		h.controls[i].top = top
		h.controls[i].minusRect = minusRect
		h.controls[i].plusRect = plusRect
		top += lineHeight
	}
}

func pointInRect(x, y int, rect image.Rectangle) bool {
	return x >= rect.Min.X && x < rect.Max.X && y >= rect.Min.Y && y < rect.Max.Y
}

type hudControlState struct {
	control core.ParameterControl
	value   string

	intValue int
	hasValue bool

	top       int
	minusRect image.Rectangle
	plusRect  image.Rectangle
}

const (
	panelPadding   = 12
	lineHeight     = 36
	buttonSize     = 24
	buttonGap      = 6
	swatchSize     = 18
	headerBaseline = 18
	labelBaseline  = 24
)
