package tilemap

import "github.com/milk9111/thief/render"

// Object is one placed object of an object layer. Tile objects are anchored
// at their bottom-left corner, as Tiled stores them.
type Object struct {
	ID         int
	Name       string
	Type       string
	X, Y       float64
	Width      float64
	Height     float64
	GID        uint32
	Visible    bool
	Properties map[string]string

	// Index is the slot of the object within Layer.
	Index int
	Layer *Layer
}

type ObjectSpec struct {
	ID         int       `json:"id"`
	Name       string    `json:"name"`
	Type       string    `json:"type"`
	Class      string    `json:"class,omitempty"`
	X          float64   `json:"x"`
	Y          float64   `json:"y"`
	Width      float64   `json:"width"`
	Height     float64   `json:"height"`
	GID        uint32    `json:"gid,omitempty"`
	Visible    *bool     `json:"visible,omitempty"`
	Properties StringMap `json:"properties,omitempty"`
}

func newObject(spec *ObjectSpec) *Object {
	o := &Object{
		ID:         spec.ID,
		Name:       spec.Name,
		Type:       spec.Type,
		X:          spec.X,
		Y:          spec.Y,
		Width:      spec.Width,
		Height:     spec.Height,
		GID:        spec.GID & gidMask,
		Visible:    spec.Visible == nil || *spec.Visible,
		Properties: map[string]string{},
	}
	// Tiled 1.9 briefly renamed "type" to "class".
	if o.Type == "" {
		o.Type = spec.Class
	}
	for k, v := range spec.Properties {
		o.Properties[k] = v
	}
	return o
}

// Center is the middle of the object's tile footprint.
func (o *Object) Center() (float64, float64) {
	return o.X + o.Width/2, o.Y - o.Height/2
}

func (o *Object) Draw(s render.Surface) {
	if !o.Visible || o.GID == 0 || o.Layer == nil {
		return
	}
	o.Layer.Map.DrawTile(s, o.GID, o.X, o.Y-o.Height, o.Width, o.Height)
}
