package core

// Size describes the dimensions of a simulation grid.
type Size struct {
	W int
	H int
}

// Contains reports whether (x, y) lies inside the size.
func (s Size) Contains(x, y int) bool {
	return x >= 0 && y >= 0 && x < s.W && y < s.H
}
