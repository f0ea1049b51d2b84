//go:build !ebiten

package ui

import (
	"tinderbox/internal/material"
	"tinderbox/internal/sim"
)

// HUD is a no-op placeholder for headless builds.
type HUD struct{}

// NewHUD returns nil in the headless build.
func NewHUD(*sim.Simulation, int) *HUD { return nil }

// Selected always reports sand in the headless build.
func (h *HUD) Selected() material.Type { return material.Sand }

// Update is a no-op in the headless build.
func (h *HUD) Update(int) {}

// Draw is a no-op in the headless build.
func (h *HUD) Draw(any, int, int) {}
