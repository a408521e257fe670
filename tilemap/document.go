package tilemap

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// Tiled stores flip flags in the top bits of a gid.
const gidMask = 0x1FFFFFFF

var (
	ErrInvalidDimensions = errors.New("tilemap: invalid map dimensions")
	ErrLayerDataSize     = errors.New("tilemap: layer data does not match map size")
	ErrUnknownLayerType  = errors.New("tilemap: unknown layer type")
)

const (
	layerTypeTile   = "tilelayer"
	layerTypeObject = "objectgroup"
)

// Document is a map as authored in Tiled's JSON format.
type Document struct {
	Width      int           `json:"width"`
	Height     int           `json:"height"`
	TileWidth  int           `json:"tilewidth"`
	TileHeight int           `json:"tileheight"`
	Tilesets   []TilesetSpec `json:"tilesets"`
	Layers     []LayerSpec   `json:"layers"`
	Properties StringMap     `json:"properties,omitempty"`
}

type TilesetSpec struct {
	FirstGID       uint32               `json:"firstgid"`
	Name           string               `json:"name,omitempty"`
	Image          string               `json:"image"`
	ImageWidth     int                  `json:"imagewidth"`
	ImageHeight    int                  `json:"imageheight"`
	TileWidth      int                  `json:"tilewidth"`
	TileHeight     int                  `json:"tileheight"`
	TileProperties map[string]StringMap `json:"tileproperties,omitempty"`
	// Tiles is the newer per-tile form: [{"id": 3, "properties": [...]}].
	Tiles []TileSpec `json:"tiles,omitempty"`
}

type TileSpec struct {
	ID         uint32    `json:"id"`
	Properties StringMap `json:"properties,omitempty"`
}

type LayerSpec struct {
	Name       string        `json:"name"`
	Type       string        `json:"type"`
	Visible    *bool         `json:"visible,omitempty"`
	Data       []uint32      `json:"data,omitempty"`
	Objects    []*ObjectSpec `json:"objects,omitempty"`
	Properties StringMap     `json:"properties,omitempty"`
}

// ParseDocument decodes a Tiled JSON map.
func ParseDocument(b []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("tilemap: unmarshal map: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate checks the structural invariants Build relies on.
func (d *Document) Validate() error {
	if d.Width <= 0 || d.Height <= 0 || d.TileWidth <= 0 || d.TileHeight <= 0 {
		return fmt.Errorf("%w: %dx%d cells of %dx%d", ErrInvalidDimensions, d.Width, d.Height, d.TileWidth, d.TileHeight)
	}
	for _, l := range d.Layers {
		switch l.Type {
		case layerTypeTile:
			if len(l.Data) != d.Width*d.Height {
				return fmt.Errorf("%w: layer %q has %d tiles, want %d", ErrLayerDataSize, l.Name, len(l.Data), d.Width*d.Height)
			}
		case layerTypeObject:
		default:
			return fmt.Errorf("%w: layer %q type %q", ErrUnknownLayerType, l.Name, l.Type)
		}
	}
	return nil
}

// StringMap is a property bag. Tiled wrote properties as a plain object in
// older formats and as [{name, type, value}] in newer ones; both decode here
// and every value is kept as a string.
type StringMap map[string]string

func (m *StringMap) UnmarshalJSON(b []byte) error {
	var obj map[string]any
	if err := json.Unmarshal(b, &obj); err == nil {
		out := make(StringMap, len(obj))
		for k, v := range obj {
			out[k] = stringify(v)
		}
		*m = out
		return nil
	}

	var list []struct {
		Name  string `json:"name"`
		Type  string `json:"type"`
		Value any    `json:"value"`
	}
	if err := json.Unmarshal(b, &list); err != nil {
		return fmt.Errorf("tilemap: properties: %w", err)
	}
	out := make(StringMap, len(list))
	for _, p := range list {
		out[p.Name] = stringify(p.Value)
	}
	*m = out
	return nil
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}
