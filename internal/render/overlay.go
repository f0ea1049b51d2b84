package render

import "image/color"

var (
	boundaryColor = color.NRGBA{R: 255, G: 0, B: 255, A: 160}
	heatCold      = color.NRGBA{R: 255, G: 200, B: 0, A: 0}
	heatHot       = color.NRGBA{R: 255, G: 40, B: 0, A: 220}
)

// HeatScale is the per-tick heat at which the heat overlay saturates.
const HeatScale = 150

// HeatColor maps heat delivered to a cell onto a translucent yellow to red
// ramp. Zero heat is fully transparent.
func HeatColor(heat int) color.NRGBA {
	if heat <= 0 {
		return color.NRGBA{}
	}
	return Blend(heatCold, heatHot, min(float64(heat)/HeatScale, 1))
}

// OverlayHeat blends heat colours over an RGBA buffer in place.
func OverlayHeat(buf []byte, w, h int, heatAt func(x, y int) int) {
	if len(buf) < 4*w*h {
		return
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			hc := HeatColor(heatAt(x, y))
			if hc.A == 0 {
				continue
			}
			blendInto(buf[(y*w+x)*4:], hc)
		}
	}
}

// OverlayChunkBoundaries tints the first column of every band after the
// first, given band column ranges.
func OverlayChunkBoundaries(buf []byte, w, h int, bands [][2]int) {
	if len(buf) < 4*w*h {
		return
	}
	for _, band := range bands {
		x := band[0]
		if x <= 0 || x >= w {
			continue
		}
		for y := 0; y < h; y++ {
			blendInto(buf[(y*w+x)*4:], boundaryColor)
		}
	}
}

func blendInto(px []byte, c color.NRGBA) {
	base := color.NRGBA{R: px[0], G: px[1], B: px[2], A: px[3]}
	out := Blend(base, color.NRGBA{R: c.R, G: c.G, B: c.B, A: px[3]}, float64(c.A)/255)
	px[0], px[1], px[2] = out.R, out.G, out.B
}
