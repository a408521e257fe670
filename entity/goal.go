package entity

import (
	"github.com/milk9111/thief/event"
	"github.com/milk9111/thief/tilemap"
)

// Goal is the treasure. It opens at most once per reset.
type Goal struct {
	Entity
	Open      bool
	ClosedGID uint32
	OpenGID   uint32
}

func NewGoal(obj *tilemap.Object, m *tilemap.TileMap, defs Defs) *Goal {
	g := &Goal{}
	g.init(obj, m, defs)
	g.ClosedGID = obj.GID
	g.OpenGID = uint32(tilemap.Int(obj.Properties, "opengid", 0))
	g.Events = event.NewBus(g)
	g.Reset()
	return g
}

func (g *Goal) Reset() {
	g.Open = false
	g.Visible = true
	g.GID = g.ClosedGID
	g.Entity.Reset()
}

// OpenFor opens the goal and credits p. Later calls do nothing.
func (g *Goal) OpenFor(p *Player) {
	if g.Open {
		return
	}
	g.Visible = false
	g.GID = g.OpenGID
	p.Goals++
	g.Open = true
	g.Events.Emit(EventOpen, p)
}
