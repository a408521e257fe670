// Package entity implements the actors of a level: the player, the goal and
// the guards.
package entity

import (
	"math"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/thief/event"
	"github.com/milk9111/thief/render"
	"github.com/milk9111/thief/tilemap"
)

const (
	// EventStep carries the sound id of the step cue.
	EventStep    event.Kind = "step"
	EventAlerted event.Kind = "alerted"
	EventHit     event.Kind = "hit"
	EventOpen    event.Kind = "open"
)

const (
	PoseIdle    = "idle"
	PoseWalking = "walking"
)

// DefaultStepDistance is the travel, in pixels, between two footsteps.
const DefaultStepDistance = 10

type Anim struct {
	Pose  string
	Frame int
}

// Entity is a moving actor positioned by its center.
type Entity struct {
	Type       string
	X, Y       float64
	Width      float64
	Height     float64
	Speed      float64
	GID        uint32
	Visible    bool
	Properties map[string]string

	// Target is nil while idle.
	Target *cp.Vector
	Anim   Anim
	Events *event.Bus
	Map    *tilemap.TileMap

	// StepDistance overrides DefaultStepDistance when positive.
	StepDistance float64

	def      *Def
	start    startState
	lastStep cp.Vector
	wallHit  bool
}

type startState struct {
	X, Y  float64
	Speed float64
}

// New builds an entity from an object-layer entry.
func New(obj *tilemap.Object, m *tilemap.TileMap, defs Defs) *Entity {
	e := &Entity{}
	e.init(obj, m, defs)
	e.Events = event.NewBus(e)
	e.Reset()
	return e
}

func (e *Entity) init(obj *tilemap.Object, m *tilemap.TileMap, defs Defs) {
	cx, cy := obj.Center()
	e.Type = obj.Type
	e.Width = obj.Width
	e.Height = obj.Height
	e.GID = obj.GID
	e.Visible = obj.Visible
	e.Properties = make(map[string]string, len(obj.Properties))
	for k, v := range obj.Properties {
		e.Properties[k] = v
	}
	e.Map = m
	e.def = defs.lookup(obj.Type)
	e.start = startState{X: cx, Y: cy}
	e.lastStep = cp.Vector{X: cx, Y: cy}
}

// Reset restores the starting position, speed and animation.
func (e *Entity) Reset() {
	e.X = e.start.X
	e.Y = e.start.Y
	e.Target = nil
	e.wallHit = false
	e.start.Speed = tilemap.Float(e.Properties, "speed", 0)
	e.Speed = e.start.Speed
	e.Anim = Anim{Pose: PoseIdle}
}

// StartSpeed is the speed the entity was authored with.
func (e *Entity) StartSpeed() float64 {
	return e.start.Speed
}

// Sound returns the sound id bound to a cue, or "".
func (e *Entity) Sound(cue string) string {
	return e.def.Sounds[cue]
}

// Update advances the entity toward its target.
func (e *Entity) Update(dt float64, bg *tilemap.Layer) {
	if e.Target == nil {
		return
	}

	tx, ty := e.Target.X, e.Target.Y
	angle := math.Atan2(ty-e.Y, tx-e.X)
	nx := e.X + e.Speed*math.Cos(angle)*dt
	ny := e.Y + e.Speed*math.Sin(angle)*dt

	e.wallHit = !e.MoveTo(nx, ny, bg)

	// Close enough on both axes counts as arrived.
	sdt := e.Speed * dt
	if e.X > tx-sdt && e.X < tx+sdt && e.Y > ty-sdt && e.Y < ty+sdt {
		e.Target = nil
	}

	step := e.StepDistance
	if step <= 0 {
		step = DefaultStepDistance
	}
	pos := cp.Vector{X: e.X, Y: e.Y}
	if pos.DistanceSq(e.lastStep) > step*step {
		e.lastStep = pos
		e.Anim.Frame++
		if cue := e.Sound("step"); cue != "" {
			e.Events.Emit(EventStep, cue)
		}
	}
}

// MoveTo moves each axis independently onto walkable tiles and reports
// whether the combined destination is walkable.
func (e *Entity) MoveTo(x, y float64, bg *tilemap.Layer) bool {
	if bg.GetProperties(e.X, y).IsWalkable() {
		e.Y = y
	}
	if bg.GetProperties(x, e.Y).IsWalkable() {
		e.X = x
	}
	e.Anim.Pose = PoseWalking
	return bg.GetProperties(x, y).IsWalkable()
}

// MoveRelative targets an offset from the current position scaled by the
// authored speed property.
func (e *Entity) MoveRelative(dx, dy float64) {
	if dx == 0 && dy == 0 {
		return
	}
	speed := tilemap.Float(e.Properties, "speed", 0)
	if speed == 0 {
		speed = 1
	}
	e.SetTarget(e.X+dx*speed, e.Y+dy*speed)
}

func (e *Entity) SetTarget(x, y float64) {
	e.Target = &cp.Vector{X: x, Y: y}
}

// Bounds is the entity's box around its center.
func (e *Entity) Bounds() cp.BB {
	w2, h2 := e.Width/2, e.Height/2
	return cp.BB{L: e.X - w2, B: e.Y - h2, R: e.X + w2, T: e.Y + h2}
}

// Collide reports whether the boxes of e and other overlap on both axes,
// edges included.
func (e *Entity) Collide(other *Entity) bool {
	return e.Bounds().Intersects(other.Bounds())
}

// HasHitWall reports and clears the wall flag of the last update.
func (e *Entity) HasHitWall() bool {
	hit := e.wallHit
	e.wallHit = false
	return hit
}

func (e *Entity) Draw(s render.Surface) {
	if !e.Visible || e.Map == nil {
		return
	}
	ts := e.Map.FindTileset(e.GID)
	if ts == nil {
		return
	}

	offset := 0
	if frames := e.def.Poses[e.Anim.Pose]; len(frames) > 0 {
		offset = frames[e.Anim.Frame%len(frames)]
	}
	gid := uint32(int(e.GID) + offset)
	e.Map.DrawTile(s, gid,
		math.Floor(e.X-e.Width/2), math.Floor(e.Y-e.Height/2),
		math.Floor(e.Width), math.Floor(e.Height))
}
