package common

import "math"

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ToXY converts a row-major grid index to cell coordinates.
func ToXY(index, width int) (int, int) {
	if width <= 0 {
		return 0, 0
	}
	return index % width, index / width
}

// FromXY floors a pixel position to its cell and linearizes it row-major.
func FromXY(x, y float64, tileW, tileH, width int) int {
	if tileW <= 0 || tileH <= 0 {
		return -1
	}
	cx := int(math.Floor(x / float64(tileW)))
	cy := int(math.Floor(y / float64(tileH)))
	return cy*width + cx
}
