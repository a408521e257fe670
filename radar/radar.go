// Package radar draws the minimap overlay.
package radar

import (
	"image/color"

	"golang.org/x/image/colornames"

	"github.com/milk9111/thief/common"
	"github.com/milk9111/thief/entity"
	"github.com/milk9111/thief/render"
	"github.com/milk9111/thief/tilemap"
)

type Palette struct {
	Walkable color.Color
	Wall     color.Color
	Exit     color.Color
	Player   color.Color
	Guard    color.Color
	Alerted  color.Color
	Goal     color.Color
}

func DefaultPalette() Palette {
	return Palette{
		Walkable: colornames.Lightgreen,
		Wall:     colornames.Lightgray,
		Exit:     color.RGBA{R: 0x00, G: 0x55, B: 0x00, A: 0xff},
		Player:   colornames.Darkgreen,
		Guard:    colornames.Orange,
		Alerted:  colornames.Red,
		Goal:     colornames.Brown,
	}
}

type Radar struct {
	Cell    int
	Dot     int
	Palette Palette

	layer *tilemap.Layer
	bg    render.Surface

	player *entity.Player
	guards []*entity.Guard
	goal   *entity.Goal
}

// New builds a radar over the background layer. Non-positive sizes fall back
// to 4px cells and 2px dots.
func New(layer *tilemap.Layer, cell, dot int, palette Palette) *Radar {
	if cell <= 0 {
		cell = 4
	}
	if dot <= 0 {
		dot = 2
	}
	return &Radar{Cell: cell, Dot: dot, Palette: palette, layer: layer}
}

// Size is the radar extent in screen pixels.
func (r *Radar) Size() (int, int) {
	return r.layer.Map.Width * r.Cell, r.layer.Map.Height * r.Cell
}

func (r *Radar) SetEntities(p *entity.Player, guards []*entity.Guard, goal *entity.Goal) {
	r.player = p
	r.guards = guards
	r.goal = goal
}

// Draw renders the radar with its top-left corner at (x, y).
func (r *Radar) Draw(s render.Surface, rd render.Renderer, x, y float64) {
	w, h := r.Size()
	if r.bg == nil && rd != nil {
		r.bg = rd.NewSurface(w, h)
		r.prerender(r.bg)
	}

	dst := render.Translate(s, x, y)
	if r.bg != nil {
		dst.DrawImage(r.bg, r.bg.Bounds(), 0, 0, float64(w), float64(h))
	} else {
		r.prerender(dst)
	}

	if r.player != nil {
		r.dot(dst, &r.player.Entity, r.Palette.Player)
	}
	for _, g := range r.guards {
		clr := r.Palette.Guard
		if g.Alerted {
			clr = r.Palette.Alerted
		}
		r.dot(dst, &g.Entity, clr)
	}
	if r.goal != nil && !r.goal.Open {
		r.dot(dst, &r.goal.Entity, r.Palette.Goal)
	}
}

func (r *Radar) prerender(s render.Surface) {
	m := r.layer.Map
	cell := float64(r.Cell)
	for i, gid := range r.layer.Data {
		if m.FindTileset(gid) == nil {
			continue
		}
		props := r.layer.GetPropertiesByIndex(i)
		clr := r.Palette.Wall
		switch {
		case props.IsExit():
			clr = r.Palette.Exit
		case props.IsWalkable():
			clr = r.Palette.Walkable
		}
		cx, cy := m.ToXY(i)
		s.FillRect(float64(cx)*cell, float64(cy)*cell, cell, cell, clr)
	}
}

// dot marks e on the radar. Dots stay inside the radar even for entities
// at or past the map edge.
func (r *Radar) dot(s render.Surface, e *entity.Entity, clr color.Color) {
	m := r.layer.Map
	w, h := r.Size()
	cell, dot := float64(r.Cell), float64(r.Dot)
	x := common.Clamp(e.X/float64(m.TileWidth)*cell-dot/2, 0, float64(w)-dot)
	y := common.Clamp(e.Y/float64(m.TileHeight)*cell-dot/2, 0, float64(h)-dot)
	s.FillRect(x, y, dot, dot, clr)
}
