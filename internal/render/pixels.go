// Package render turns simulation surfaces and debug layers into RGBA byte
// buffers ready for upload to a window or terminal.
package render

import (
	"image"
	"image/color"
)

// Background is the colour behind empty cells.
var Background = color.NRGBA{R: 18, G: 18, B: 24, A: 255}

// NewSurface allocates a transparent surface of w*h cells.
func NewSurface(w, h int) *image.NRGBA {
	return image.NewNRGBA(image.Rect(0, 0, w, h))
}

// Composite blends every surface pixel over bg and writes opaque RGBA bytes
// into buf, which must hold 4*w*h bytes.
func Composite(buf []byte, surface *image.NRGBA, bg color.NRGBA) {
	b := surface.Bounds()
	w, h := b.Dx(), b.Dy()
	if len(buf) < 4*w*h {
		return
	}
	for y := 0; y < h; y++ {
		row := surface.Pix[y*surface.Stride:]
		for x := 0; x < w; x++ {
			src := color.NRGBA{R: row[x*4], G: row[x*4+1], B: row[x*4+2], A: row[x*4+3]}
			col := Blend(bg, src, float64(src.A)/255)
			base := (y*w + x) * 4
			buf[base+0] = col.R
			buf[base+1] = col.G
			buf[base+2] = col.B
			buf[base+3] = 255
		}
	}
}

// At returns the composited colour of one cell.
func At(surface *image.NRGBA, x, y int, bg color.NRGBA) color.NRGBA {
	src := surface.NRGBAAt(x, y)
	col := Blend(bg, src, float64(src.A)/255)
	col.A = 255
	return col
}

// Blend mixes overlay into base by weight in [0,1].
func Blend(base, overlay color.NRGBA, weight float64) color.NRGBA {
	if weight <= 0 {
		return base
	}
	if weight >= 1 {
		return overlay
	}
	inv := 1 - weight
	return color.NRGBA{
		R: uint8(float64(base.R)*inv + float64(overlay.R)*weight + 0.5),
		G: uint8(float64(base.G)*inv + float64(overlay.G)*weight + 0.5),
		B: uint8(float64(base.B)*inv + float64(overlay.B)*weight + 0.5),
		A: uint8(float64(base.A)*inv + float64(overlay.A)*weight + 0.5),
	}
}
