// Package tilemap holds the grid-based level model: tilesets, tile layers,
// object layers and per-tile properties.
package tilemap

import (
	"fmt"
	"path"
	"sort"

	"github.com/milk9111/thief/common"
	"github.com/milk9111/thief/event"
	"github.com/milk9111/thief/loader"
	"github.com/milk9111/thief/render"
)

// EventMapLoaded is emitted on TileMap.Events once every tileset image has
// been fetched.
const EventMapLoaded event.Kind = "maploaded"

type TileMap struct {
	Width      int
	Height     int
	TileWidth  int
	TileHeight int

	// Tilesets are kept sorted by FirstGID.
	Tilesets   []*Tileset
	Layers     []*Layer
	Properties map[string]string

	Events *event.Bus
}

type Tileset struct {
	FirstGID    uint32
	Name        string
	ImagePath   string
	ImageWidth  int
	ImageHeight int
	TileWidth   int
	TileHeight  int
	Image       render.Image

	props map[uint32]*Properties
}

// Build wraps a document into a map without fetching any images.
func Build(doc *Document) (*TileMap, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	m := &TileMap{
		Width:      doc.Width,
		Height:     doc.Height,
		TileWidth:  doc.TileWidth,
		TileHeight: doc.TileHeight,
		Properties: map[string]string{},
	}
	m.Events = event.NewBus(m)
	for k, v := range doc.Properties {
		m.Properties[k] = v
	}

	for _, spec := range doc.Tilesets {
		m.Tilesets = append(m.Tilesets, newTileset(spec))
	}
	sort.SliceStable(m.Tilesets, func(i, j int) bool {
		return m.Tilesets[i].FirstGID < m.Tilesets[j].FirstGID
	})

	for _, spec := range doc.Layers {
		m.Layers = append(m.Layers, newLayer(m, spec))
	}
	return m, nil
}

// Load builds the map and fetches every tileset image on q. done runs on the
// queue's pump once all images are ready, after EventMapLoaded.
func Load(q *loader.Queue, doc *Document, images render.ImageLoader, baseDir string, done func(*TileMap, error)) {
	m, err := Build(doc)
	if err != nil {
		q.Post(func() { done(nil, err) })
		return
	}

	loader.All(q, len(m.Tilesets), func(i int) error {
		ts := m.Tilesets[i]
		if ts.ImagePath == "" {
			return nil
		}
		img, err := images.LoadImage(path.Join(baseDir, ts.ImagePath))
		if err != nil {
			return fmt.Errorf("tilemap: tileset %q: %w", ts.Name, err)
		}
		ts.Image = img
		return nil
	}, func(err error) {
		if err != nil {
			done(nil, err)
			return
		}
		m.Events.Emit(EventMapLoaded, nil)
		done(m, nil)
	})
}

func newTileset(spec TilesetSpec) *Tileset {
	ts := &Tileset{
		FirstGID:    spec.FirstGID,
		Name:        spec.Name,
		ImagePath:   spec.Image,
		ImageWidth:  spec.ImageWidth,
		ImageHeight: spec.ImageHeight,
		TileWidth:   spec.TileWidth,
		TileHeight:  spec.TileHeight,
		props:       map[uint32]*Properties{},
	}
	for id, raw := range spec.TileProperties {
		var local uint32
		if _, err := fmt.Sscan(id, &local); err != nil {
			continue
		}
		ts.props[local] = parseProperties(raw)
	}
	for _, t := range spec.Tiles {
		if t.Properties != nil {
			ts.props[t.ID] = parseProperties(t.Properties)
		}
	}
	return ts
}

// Columns is the number of tiles per row of the tileset image.
func (ts *Tileset) Columns() int {
	if ts.TileWidth <= 0 {
		return 0
	}
	return ts.ImageWidth / ts.TileWidth
}

// Source is the rectangle of gid within the tileset image.
func (ts *Tileset) Source(gid uint32) (x, y, w, h int) {
	cols := ts.Columns()
	if cols == 0 {
		return 0, 0, ts.TileWidth, ts.TileHeight
	}
	cx, cy := common.ToXY(int(gid-ts.FirstGID), cols)
	return cx * ts.TileWidth, cy * ts.TileHeight, ts.TileWidth, ts.TileHeight
}

// Properties returns the metadata of gid, or nil.
func (ts *Tileset) Properties(gid uint32) *Properties {
	if gid < ts.FirstGID {
		return nil
	}
	return ts.props[gid-ts.FirstGID]
}

// FindTileset returns the tileset with the largest FirstGID not exceeding gid.
func (m *TileMap) FindTileset(gid uint32) *Tileset {
	gid &= gidMask
	if gid == 0 {
		return nil
	}
	var found *Tileset
	for _, ts := range m.Tilesets {
		if ts.FirstGID > gid {
			break
		}
		found = ts
	}
	return found
}

// ToXY converts a grid index to cell coordinates.
func (m *TileMap) ToXY(index int) (int, int) {
	return common.ToXY(index, m.Width)
}

// FromXY converts a pixel position to a grid index, or -1 outside the grid.
func (m *TileMap) FromXY(x, y float64) int {
	if x < 0 || y < 0 {
		return -1
	}
	w, h := m.PixelSize()
	if x >= float64(w) || y >= float64(h) {
		return -1
	}
	return common.FromXY(x, y, m.TileWidth, m.TileHeight, m.Width)
}

// PixelSize is the map extent in pixels.
func (m *TileMap) PixelSize() (int, int) {
	return m.Width * m.TileWidth, m.Height * m.TileHeight
}

func (m *TileMap) FindLayer(name string) *Layer {
	for _, l := range m.Layers {
		if l.Name == name {
			return l
		}
	}
	return nil
}

func (m *TileMap) Property(key string) (string, bool) {
	v, ok := m.Properties[key]
	return v, ok
}

// Draw renders every layer in order.
func (m *TileMap) Draw(s render.Surface, r render.Renderer) {
	for _, l := range m.Layers {
		l.Draw(s, r)
	}
}

// DrawTile blits gid into the destination rectangle. Unknown gids and
// tilesets without an image draw nothing.
func (m *TileMap) DrawTile(s render.Surface, gid uint32, dx, dy, dw, dh float64) {
	ts := m.FindTileset(gid)
	if ts == nil || ts.Image == nil {
		return
	}
	sx, sy, sw, sh := ts.Source(gid & gidMask)
	s.DrawImage(ts.Image, rect(sx, sy, sw, sh), dx, dy, dw, dh)
}
