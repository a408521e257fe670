package entity

import (
	"math"

	"github.com/milk9111/thief/render"
)

// Sprite draws a whole image centered on its position. Sprites start hidden.
type Sprite struct {
	Image         render.Image
	X, Y          float64
	Width, Height float64
	Visible       bool
}

func NewSprite(img render.Image, x, y float64) *Sprite {
	b := img.Bounds()
	return &Sprite{Image: img, X: x, Y: y, Width: float64(b.Dx()), Height: float64(b.Dy())}
}

func (s *Sprite) Draw(dst render.Surface) {
	if !s.Visible || s.Image == nil {
		return
	}
	dst.DrawImage(s.Image, s.Image.Bounds(),
		math.Floor(s.X-s.Width/2), math.Floor(s.Y-s.Height/2),
		math.Floor(s.Width), math.Floor(s.Height))
}

// Anchor is anything a FollowSprite can be attached to.
type Anchor interface {
	Position() (float64, float64)
}

// FollowSprite is a Sprite that tracks an anchor at a fixed offset.
type FollowSprite struct {
	Sprite
	Anchor           Anchor
	OffsetX, OffsetY float64
}

func NewFollowSprite(img render.Image, anchor Anchor, offsetX, offsetY float64) *FollowSprite {
	fs := &FollowSprite{Anchor: anchor, OffsetX: offsetX, OffsetY: offsetY}
	if img != nil {
		fs.Sprite = *NewSprite(img, 0, 0)
	}
	return fs
}

func (fs *FollowSprite) Draw(dst render.Surface) {
	if fs.Anchor != nil {
		x, y := fs.Anchor.Position()
		fs.X = x + fs.OffsetX
		fs.Y = y + fs.OffsetY
	}
	fs.Sprite.Draw(dst)
}

// Position implements Anchor.
func (e *Entity) Position() (float64, float64) {
	return e.X, e.Y
}
