package entity

import (
	"github.com/milk9111/thief/event"
	"github.com/milk9111/thief/tilemap"
)

// Player is the thief. Goals counts opened goals since the last reset.
type Player struct {
	Entity
	Goals int
}

func NewPlayer(obj *tilemap.Object, m *tilemap.TileMap, defs Defs) *Player {
	p := &Player{}
	p.init(obj, m, defs)
	p.Events = event.NewBus(p)
	p.Reset()
	return p
}

func (p *Player) Reset() {
	p.Goals = 0
	p.Entity.Reset()
}
