// Package camera implements the lazy follow camera.
package camera

import (
	"math"

	"github.com/milk9111/thief/render"
)

// Target is what the camera follows.
type Target interface {
	Position() (float64, float64)
}

type Camera struct {
	// Shake is the amplitude, in pixels, of the shake applied while a
	// countdown is running.
	Shake    float64
	Laziness float64
	Friction float64

	ScreenW, ScreenH int

	// X, Y is the draw translation.
	X, Y  float64
	lastX float64
	lastY float64

	target Target
}

func New(screenW, screenH int, shake, laziness, friction float64) *Camera {
	return &Camera{
		Shake:    shake,
		Laziness: laziness,
		Friction: friction,
		ScreenW:  screenW,
		ScreenH:  screenH,
	}
}

func (c *Camera) SetTarget(t Target) {
	c.target = t
}

// Update eases toward the target. A non-zero shake time (the countdown's
// remaining milliseconds) offsets the follow point.
func (c *Camera) Update(shakeTime float64) {
	fx, fy := c.lastX, c.lastY
	if c.target != nil {
		fx, fy = c.target.Position()
	}
	if shakeTime != 0 {
		fx += math.Sin(shakeTime) * c.Shake
		fy += math.Cos(shakeTime) * c.Shake
	}

	if c.Friction != 0 {
		c.lastX = (c.lastX*c.Laziness + fx) / c.Friction
		c.lastY = (c.lastY*c.Laziness + fy) / c.Friction
	}

	c.X = float64(c.ScreenW)/2 - c.lastX
	c.Y = float64(c.ScreenH)/2 - c.lastY
}

// Apply returns s translated into world space.
func (c *Camera) Apply(s render.Surface) render.Surface {
	return render.Translate(s, math.Floor(c.X), math.Floor(c.Y))
}

// ScreenToWorld converts a screen position to world coordinates.
func (c *Camera) ScreenToWorld(x, y float64) (float64, float64) {
	return x - c.X, y - c.Y
}
