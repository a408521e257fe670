// Package ebitenrender backs render.Surface with ebiten images.
package ebitenrender

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/milk9111/thief/render"
)

var face ebtext.Face = ebtext.NewGoXFace(basicfont.Face7x13)

// Surface draws onto an *ebiten.Image.
type Surface struct {
	Image *ebiten.Image
}

func Wrap(img *ebiten.Image) *Surface {
	return &Surface{Image: img}
}

func (s *Surface) Bounds() image.Rectangle {
	return s.Image.Bounds()
}

func (s *Surface) DrawImage(img render.Image, src image.Rectangle, dx, dy, dw, dh float64) {
	eimg := unwrap(img)
	if eimg == nil || src.Empty() {
		return
	}
	sub := eimg.SubImage(src).(*ebiten.Image)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(dw/float64(src.Dx()), dh/float64(src.Dy()))
	op.GeoM.Translate(dx, dy)
	s.Image.DrawImage(sub, op)
}

func (s *Surface) FillRect(x, y, w, h float64, clr color.Color) {
	vector.FillRect(s.Image, float32(x), float32(y), float32(w), float32(h), clr, false)
}

// DrawText draws s with its baseline at y.
func (s *Surface) DrawText(str string, x, y int, clr color.Color) {
	op := &ebtext.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y)-face.Metrics().HAscent)
	op.ColorScale.ScaleWithColor(clr)
	ebtext.Draw(s.Image, str, face, op)
}

func (s *Surface) Clear() {
	s.Image.Clear()
}

// Renderer hands out offscreen ebiten surfaces.
type Renderer struct{}

func (Renderer) NewSurface(w, h int) render.Surface {
	return Wrap(ebiten.NewImage(w, h))
}

// Convert uploads a decoded image. It fits assets.Loader.Convert.
func Convert(img image.Image) render.Image {
	return Wrap(ebiten.NewImageFromImage(img))
}

func unwrap(img render.Image) *ebiten.Image {
	switch v := img.(type) {
	case *Surface:
		return v.Image
	case *ebiten.Image:
		return v
	}
	return nil
}
