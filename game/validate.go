package game

import "github.com/milk9111/thief/tilemap"

// Default layer names, overridable through map properties.
const (
	LayerBackground = "background"
	LayerAI         = "ai"
	LayerEntities   = "entities"
)

const (
	EntityPlayer = "player"
	EntityGoal   = "treasure"
	EntityGuard  = "guard"
)

// Layout is the functional structure of a playable map.
type Layout struct {
	Background *tilemap.Layer
	AI         *tilemap.Layer
	Entities   *tilemap.Layer
	Guards     int
}

// LayerNames returns the background, AI and entities layer names of m.
func LayerNames(m *tilemap.TileMap) (bg, ai, ents string) {
	pick := func(key, def string) string {
		if v, ok := m.Property(key); ok && v != "" {
			return v
		}
		return def
	}
	return pick("backgroundlayer", LayerBackground),
		pick("ailayer", LayerAI),
		pick("entitieslayer", LayerEntities)
}

// Validate checks that m has the layers and entities a level needs.
func Validate(level string, m *tilemap.TileMap) (*Layout, error) {
	bgName, aiName, entName := LayerNames(m)
	l := &Layout{
		Background: m.FindLayer(bgName),
		AI:         m.FindLayer(aiName),
		Entities:   m.FindLayer(entName),
	}

	for _, need := range []struct {
		name  string
		layer *tilemap.Layer
	}{{bgName, l.Background}, {aiName, l.AI}, {entName, l.Entities}} {
		if need.layer == nil {
			return nil, &ValidationError{Level: level, Layer: need.name, Err: ErrMissingLayer}
		}
	}

	for _, typ := range []string{EntityPlayer, EntityGoal} {
		if l.Entities.FindObject(typ) == nil {
			return nil, &ValidationError{Level: level, Entity: typ, Err: ErrMissingEntity}
		}
	}
	l.Guards = len(l.Entities.FindObjects(EntityGuard))
	return l, nil
}
