package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-3, 0, 10))
	assert.Equal(t, 10.0, Clamp(12, 0, 10))
	assert.Equal(t, 4.5, Clamp(4.5, 0, 10))
}

func TestGridIndex(t *testing.T) {
	x, y := ToXY(7, 3)
	assert.Equal(t, 1, x)
	assert.Equal(t, 2, y)
	assert.Equal(t, 7, FromXY(32+5, 64+31, 32, 32, 3))
	assert.Equal(t, -1, FromXY(0, 0, 0, 32, 3))
}
