package entity

import (
	"log/slog"
	"math"
	"math/rand/v2"
	"time"

	"github.com/milk9111/thief/common"
	"github.com/milk9111/thief/event"
	"github.com/milk9111/thief/render"
	"github.com/milk9111/thief/tilemap"
)

const (
	DefaultFollowDist  = 3
	DefaultPauseMillis = 1000
)

// GuardOptions carries the collaborators a guard needs beyond its object.
type GuardOptions struct {
	Player     *Player
	AlertImage render.Image
	Clock      common.Clock
	Rand       *rand.Rand
	Logger     *slog.Logger
	// Pause is how long the pause order holds. Zero means DefaultPauseMillis.
	Pause time.Duration
	// AlertWidth and AlertHeight size the alert sprite. Zero keeps the
	// image's own size.
	AlertWidth, AlertHeight float64
}

// Guard patrols according to its current order and chases the player once
// close enough.
type Guard struct {
	Entity
	Player      *Player
	AIOrder     string
	PrevOrder   string
	FollowDist  int
	FollowSpeed float64
	// Chase makes an alerted guard path around walls instead of heading
	// straight for the player.
	Chase       bool
	Alerted     bool
	AlertSprite *FollowSprite

	orders map[string]orderFunc
	rng    *rand.Rand
	clock  common.Clock
	logger *slog.Logger
	pause  pauseState
	walk   *tilemap.Layer
}

type pauseState struct {
	duration time.Duration
	active   bool
	since    time.Time
	// tile is the grid index of the pause tile last obeyed, or -1.
	tile int
}

func NewGuard(obj *tilemap.Object, m *tilemap.TileMap, defs Defs, opts GuardOptions) *Guard {
	g := &Guard{
		Player: opts.Player,
		clock:  opts.Clock,
		rng:    opts.Rand,
		logger: opts.Logger,
	}
	g.init(obj, m, defs)
	g.Events = event.NewBus(g)

	g.AlertSprite = NewFollowSprite(opts.AlertImage, g, 0, 0)
	if opts.AlertWidth > 0 {
		g.AlertSprite.Width = opts.AlertWidth
	}
	if opts.AlertHeight > 0 {
		g.AlertSprite.Height = opts.AlertHeight
	}
	g.AlertSprite.OffsetY = -g.AlertSprite.Height

	if g.clock == nil {
		g.clock = common.SystemClock
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	g.pause.duration = opts.Pause
	if g.pause.duration <= 0 {
		g.pause.duration = DefaultPauseMillis * time.Millisecond
	}

	g.FollowDist = tilemap.Int(g.Properties, "aifollowdist", DefaultFollowDist)
	g.FollowSpeed = tilemap.Float(g.Properties, "aifollowspeed", 0)
	g.Chase = g.Properties["aichase"] == "true"
	if _, ok := g.Properties["aifollowspeed"]; !ok && g.Player != nil {
		g.FollowSpeed = math.Floor(3 * g.Player.StartSpeed() / 4)
	}

	g.orders = builtinOrders()
	for name, script := range g.def.Orders {
		inst := script.Instance()
		g.orders[name] = func(g *Guard, dt float64) {
			if err := inst.run(g, dt); err != nil {
				g.logger.Warn("guard order failed", "order", name, "err", err)
			}
		}
	}

	g.Reset()
	return g
}

// Reset restores the guard and its authored order.
func (g *Guard) Reset() {
	g.Alerted = false
	g.AlertSprite.Visible = false
	g.AIOrder = g.Properties[tilemap.PropAIOrder]
	if g.AIOrder == "" {
		g.AIOrder = OrderStop
	}
	g.PrevOrder = ""
	g.pause = pauseState{duration: g.pause.duration, tile: -1}
	g.Entity.Reset()
}

// Update resolves the order for this frame from player proximity and the AI
// layer, runs it, then moves the guard and checks for a hit.
func (g *Guard) Update(dt float64, bg, ai *tilemap.Layer) {
	tw, th := float64(g.Map.TileWidth), float64(g.Map.TileHeight)
	distX := int(math.Round(math.Abs(g.X-g.Player.X) / tw))
	distY := int(math.Round(math.Abs(g.Y-g.Player.Y) / th))
	dist := distX + distY

	order := g.AIOrder
	if g.FollowDist > 0 && dist <= g.FollowDist {
		order = OrderFollow
		if g.Chase {
			order = OrderChase
		}
		if !g.Alerted {
			g.setAlerted(true)
		}
		g.Speed = g.FollowSpeed
	} else {
		if g.Alerted {
			g.Speed = g.start.Speed
			g.setAlerted(false)
		}
		if next := g.authoredOrder(ai); next != "" {
			g.Speed = g.start.Speed
			if next != g.AIOrder {
				g.logger.Debug("guard order", "from", g.AIOrder, "to", next)
				g.PrevOrder = g.AIOrder
				g.AIOrder = next
				order = next
			}
		}
	}

	if order != OrderPause {
		g.pause.active = false
	}
	g.walk = bg
	if fn, ok := g.orders[order]; ok {
		fn(g, dt)
	}

	if g.Collide(&g.Player.Entity) {
		g.Events.Emit(EventHit, g.Player)
	}

	g.Entity.Update(dt, bg)
}

// authoredOrder reads the AI layer under the guard. A pause tile that was
// already obeyed is ignored until the guard steps off it.
func (g *Guard) authoredOrder(ai *tilemap.Layer) string {
	if ai == nil {
		return ""
	}
	index := g.Map.FromXY(g.X, g.Y)
	if index != g.pause.tile {
		g.pause.tile = -1
	}
	props := ai.GetPropertiesByIndex(index)
	if props == nil || props.AIOrder == "" {
		return ""
	}
	if props.AIOrder == OrderPause && index == g.pause.tile {
		return ""
	}
	return props.AIOrder
}

func (g *Guard) setAlerted(alerted bool) {
	g.Alerted = alerted
	g.AlertSprite.Visible = alerted
	g.Events.Emit(EventAlerted, alerted)
}

func (g *Guard) Draw(s render.Surface) {
	g.Entity.Draw(s)
	g.AlertSprite.Draw(s)
}
