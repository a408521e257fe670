// Package render abstracts the drawing surface so the simulation can draw
// without depending on a particular graphics backend.
package render

import (
	"image"
	"image/color"
)

// Image is anything that can be blitted from.
type Image interface {
	Bounds() image.Rectangle
}

// Surface is a canvas-like drawing target.
type Surface interface {
	Image

	// DrawImage blits the src rectangle of img scaled into the destination
	// rectangle (dx, dy, dw, dh).
	DrawImage(img Image, src image.Rectangle, dx, dy, dw, dh float64)
	FillRect(x, y, w, h float64, clr color.Color)
	DrawText(s string, x, y int, clr color.Color)
	Clear()
}

// Renderer creates offscreen surfaces.
type Renderer interface {
	NewSurface(width, height int) Surface
}

// ImageLoader fetches an image by path. It may block; callers run it off the
// frame thread.
type ImageLoader interface {
	LoadImage(path string) (Image, error)
}

type translated struct {
	Surface
	dx, dy float64
}

// Translate returns a view of s whose drawing operations are offset by
// (dx, dy). Text is not translated.
func Translate(s Surface, dx, dy float64) Surface {
	if t, ok := s.(*translated); ok {
		return &translated{Surface: t.Surface, dx: t.dx + dx, dy: t.dy + dy}
	}
	return &translated{Surface: s, dx: dx, dy: dy}
}

func (t *translated) DrawImage(img Image, src image.Rectangle, dx, dy, dw, dh float64) {
	t.Surface.DrawImage(img, src, dx+t.dx, dy+t.dy, dw, dh)
}

func (t *translated) FillRect(x, y, w, h float64, clr color.Color) {
	t.Surface.FillRect(x+t.dx, y+t.dy, w, h, clr)
}
