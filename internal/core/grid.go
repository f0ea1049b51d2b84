package core

// Grid stores a dense 2D grid of cell values in row-major order. Unlike the
// toroidal automata grids, coordinates outside the grid are never wrapped:
// callers check InBounds and treat the outside as a normal condition.
type Grid[T comparable] struct {
	W, H int
	data []T
}

// NewGrid allocates a grid with the given dimensions.
func NewGrid[T comparable](w, h int) *Grid[T] {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &Grid[T]{W: w, H: h, data: make([]T, w*h)}
}

// Cells exposes the backing slice so callers can read/write values directly.
func (g *Grid[T]) Cells() []T { return g.data }

// Index returns the linear slice index for coordinates (x, y).
func (g *Grid[T]) Index(x, y int) int { return y*g.W + x }

// InBounds reports whether (x, y) lies inside the grid.
func (g *Grid[T]) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.W && y < g.H
}

// At returns the value at (x, y), or the zero value outside the grid.
func (g *Grid[T]) At(x, y int) T {
	if !g.InBounds(x, y) {
		var zero T
		return zero
	}
	return g.data[y*g.W+x]
}

// Set stores v at (x, y). Out-of-range writes are dropped.
func (g *Grid[T]) Set(x, y int, v T) {
	if !g.InBounds(x, y) {
		return
	}
	g.data[y*g.W+x] = v
}

// Count returns how many cells differ from the zero value.
func (g *Grid[T]) Count() int {
	var zero T
	n := 0
	for _, v := range g.data {
		if v != zero {
			n++
		}
	}
	return n
}

// Clear fills the grid with zero values.
func (g *Grid[T]) Clear() {
	clear(g.data)
}
