package tilemap

import (
	"image"

	"github.com/milk9111/thief/render"
)

type LayerType int

const (
	TileLayer LayerType = iota
	ObjectLayer
)

// Drawable is a runtime occupant of an object layer slot.
type Drawable interface {
	Draw(s render.Surface)
}

type Layer struct {
	Name       string
	Type       LayerType
	Visible    bool
	Data       []uint32
	Objects    []*Object
	Properties map[string]string
	Map        *TileMap

	drawables []Drawable
	props     map[int]*Properties
	lookups   int

	cache render.Surface
	dirty bool
}

func newLayer(m *TileMap, spec LayerSpec) *Layer {
	l := &Layer{
		Name:       spec.Name,
		Visible:    spec.Visible == nil || *spec.Visible,
		Data:       make([]uint32, len(spec.Data)),
		Properties: map[string]string{},
		Map:        m,
		props:      map[int]*Properties{},
		dirty:      true,
	}
	for i, gid := range spec.Data {
		l.Data[i] = gid & gidMask
	}
	for k, v := range spec.Properties {
		l.Properties[k] = v
	}
	if spec.Type == layerTypeObject {
		l.Type = ObjectLayer
		for i, o := range spec.Objects {
			obj := newObject(o)
			obj.Index = i
			obj.Layer = l
			l.Objects = append(l.Objects, obj)
			l.drawables = append(l.drawables, obj)
		}
	}
	return l
}

// GetProperties returns the metadata of the tile under a pixel position.
func (l *Layer) GetProperties(x, y float64) *Properties {
	return l.GetPropertiesByIndex(l.Map.FromXY(x, y))
}

// GetPropertiesByIndex returns the metadata of the tile at a grid index, or
// nil for an empty cell or an index outside the layer. Results are cached
// per index.
func (l *Layer) GetPropertiesByIndex(index int) *Properties {
	if index < 0 || index >= len(l.Data) {
		return nil
	}
	if p, ok := l.props[index]; ok {
		return p
	}
	l.lookups++

	var p *Properties
	if gid := l.Data[index]; gid != 0 {
		if ts := l.Map.FindTileset(gid); ts != nil {
			p = ts.Properties(gid)
		}
	}
	l.props[index] = p
	return p
}

// FindObject returns the first object of the given type.
func (l *Layer) FindObject(typ string) *Object {
	for _, o := range l.Objects {
		if o.Type == typ {
			return o
		}
	}
	return nil
}

// FindObjects returns every object of the given type in layer order.
func (l *Layer) FindObjects(typ string) []*Object {
	var out []*Object
	for _, o := range l.Objects {
		if o.Type == typ {
			out = append(out, o)
		}
	}
	return out
}

// Replace swaps the occupant of an object slot, typically with the entity
// built from that object.
func (l *Layer) Replace(index int, d Drawable) {
	if index < 0 || index >= len(l.drawables) {
		return
	}
	l.drawables[index] = d
}

func (l *Layer) Drawables() []Drawable {
	return l.drawables
}

// Invalidate forces the cached tile image to be redrawn.
func (l *Layer) Invalidate() {
	l.dirty = true
}

// Draw renders the layer. Tile layers are rendered once into an offscreen
// surface when r is non-nil and blitted from there afterwards.
func (l *Layer) Draw(s render.Surface, r render.Renderer) {
	if !l.Visible {
		return
	}
	if l.Type == ObjectLayer {
		for _, d := range l.drawables {
			if d != nil {
				d.Draw(s)
			}
		}
		return
	}

	if r == nil {
		l.drawTiles(s)
		return
	}
	w, h := l.Map.PixelSize()
	if l.cache == nil {
		l.cache = r.NewSurface(w, h)
		l.dirty = true
	}
	if l.dirty {
		l.cache.Clear()
		l.drawTiles(l.cache)
		l.dirty = false
	}
	s.DrawImage(l.cache, rect(0, 0, w, h), 0, 0, float64(w), float64(h))
}

func (l *Layer) drawTiles(s render.Surface) {
	m := l.Map
	for i, gid := range l.Data {
		if gid == 0 {
			continue
		}
		ts := m.FindTileset(gid)
		if ts == nil {
			continue
		}
		cx, cy := m.ToXY(i)
		m.DrawTile(s, gid, float64(cx*m.TileWidth), float64(cy*m.TileHeight), float64(ts.TileWidth), float64(ts.TileHeight))
	}
}

func rect(x, y, w, h int) image.Rectangle {
	return image.Rect(x, y, x+w, y+h)
}
