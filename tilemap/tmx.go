package tilemap

import (
	"fmt"
	"reflect"

	"github.com/lafriks/go-tiled"
)

// Property keys copied out of TMX documents. go-tiled exposes properties by
// name only, so the keys the game understands are listed here.
var (
	tmxMapKeys    = []string{"backgroundlayer", "ailayer", "entitieslayer", "showradar", "nextmap", "nextmaptimeout"}
	tmxTileKeys   = []string{PropWalkable, PropExit, PropAIOrder}
	tmxObjectKeys = []string{"speed", PropAIOrder, "aifollowdist", "aifollowspeed", "aichase", "opengid"}
)

type propertyGetter interface {
	GetString(name string) string
}

// LoadTMX reads a Tiled XML map and converts it to the JSON document model.
// Tile layers come first, then object groups, each in file order.
func LoadTMX(path string) (*Document, error) {
	m, err := tiled.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tilemap: load tmx %q: %w", path, err)
	}

	doc := &Document{
		Width:      m.Width,
		Height:     m.Height,
		TileWidth:  m.TileWidth,
		TileHeight: m.TileHeight,
		Properties: tmxProperties(m.Properties, tmxMapKeys),
	}

	for _, ts := range m.Tilesets {
		spec := TilesetSpec{
			FirstGID:   ts.FirstGID,
			Name:       ts.Name,
			TileWidth:  ts.TileWidth,
			TileHeight: ts.TileHeight,
		}
		if ts.Image != nil {
			spec.Image = ts.Image.Source
			spec.ImageWidth = ts.Image.Width
			spec.ImageHeight = ts.Image.Height
		}
		for _, t := range ts.Tiles {
			if props := tmxProperties(t.Properties, tmxTileKeys); len(props) > 0 {
				spec.Tiles = append(spec.Tiles, TileSpec{ID: t.ID, Properties: props})
			}
		}
		doc.Tilesets = append(doc.Tilesets, spec)
	}

	for _, l := range m.Layers {
		spec := LayerSpec{Name: l.Name, Type: layerTypeTile, Data: make([]uint32, len(l.Tiles))}
		for i, t := range l.Tiles {
			if t == nil || t.Nil || t.Tileset == nil {
				continue
			}
			spec.Data[i] = t.Tileset.FirstGID + t.ID
		}
		doc.Layers = append(doc.Layers, spec)
	}

	for _, g := range m.ObjectGroups {
		spec := LayerSpec{Name: g.Name, Type: layerTypeObject}
		for _, o := range g.Objects {
			spec.Objects = append(spec.Objects, &ObjectSpec{
				ID:         int(o.ID),
				Name:       o.Name,
				Type:       o.Type,
				X:          o.X,
				Y:          o.Y,
				Width:      o.Width,
				Height:     o.Height,
				GID:        o.GID,
				Properties: tmxProperties(o.Properties, tmxObjectKeys),
			})
		}
		doc.Layers = append(doc.Layers, spec)
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

func tmxProperties(p propertyGetter, keys []string) StringMap {
	if p == nil {
		return nil
	}
	if rv := reflect.ValueOf(p); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return nil
	}
	var out StringMap
	for _, k := range keys {
		v := p.GetString(k)
		if v == "" {
			continue
		}
		if out == nil {
			out = StringMap{}
		}
		out[k] = v
	}
	return out
}
