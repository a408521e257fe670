package entity

// Built-in guard orders.
const (
	OrderRand   = "rand"
	OrderFollow = "follow"
	OrderChase  = "chase"
	OrderLeft   = "left"
	OrderRight  = "right"
	OrderUp     = "up"
	OrderDown   = "down"
	OrderPause  = "pause"
	OrderStop   = "stop"
)

type orderFunc func(g *Guard, dt float64)

func builtinOrders() map[string]orderFunc {
	return map[string]orderFunc{
		OrderRand:   orderRand,
		OrderFollow: orderFollow,
		OrderChase:  orderChase,
		OrderLeft:   func(g *Guard, dt float64) { g.MoveRelative(-dt, 0) },
		OrderRight:  func(g *Guard, dt float64) { g.MoveRelative(dt, 0) },
		OrderUp:     func(g *Guard, dt float64) { g.MoveRelative(0, -dt) },
		OrderDown:   func(g *Guard, dt float64) { g.MoveRelative(0, dt) },
		OrderPause:  orderPause,
		OrderStop:   func(*Guard, float64) {},
	}
}

// orderRand wanders up to 199 pixels along one axis, picking a new heading
// on arrival or after hitting a wall.
func orderRand(g *Guard, _ float64) {
	if g.Target != nil && !g.HasHitWall() {
		return
	}
	dir := g.rng.IntN(4)
	amt := float64(g.rng.IntN(200))
	switch dir {
	case 0:
		g.SetTarget(g.X+amt, g.Y)
	case 1:
		g.SetTarget(g.X-amt, g.Y)
	case 2:
		g.SetTarget(g.X, g.Y+amt)
	case 3:
		g.SetTarget(g.X, g.Y-amt)
	}
}

func orderFollow(g *Guard, _ float64) {
	g.SetTarget(g.Player.X, g.Player.Y)
}

// orderChase heads for the next tile on a walkable path to the player and
// falls back to a straight line when no path is found.
func orderChase(g *Guard, _ float64) {
	if g.walk == nil {
		orderFollow(g, 0)
		return
	}
	path := g.walk.FindPath(g.Map.FromXY(g.X, g.Y), g.Map.FromXY(g.Player.X, g.Player.Y), 0)
	if len(path) < 2 {
		orderFollow(g, 0)
		return
	}
	cx, cy := g.Map.ToXY(path[1])
	tw, th := float64(g.Map.TileWidth), float64(g.Map.TileHeight)
	g.SetTarget(float64(cx)*tw+tw/2, float64(cy)*th+th/2)
}

// orderPause holds the guard still, then resumes the order it had before
// the pause.
func orderPause(g *Guard, _ float64) {
	now := g.clock()
	if !g.pause.active {
		g.pause.active = true
		g.pause.since = now
		g.pause.tile = g.Map.FromXY(g.X, g.Y)
	}
	g.Target = nil

	if now.Sub(g.pause.since) > g.pause.duration {
		g.pause.active = false
		resume := g.PrevOrder
		if resume == "" || resume == OrderPause {
			resume = OrderStop
		}
		g.logger.Debug("guard resumes", "order", resume)
		g.PrevOrder = OrderPause
		g.AIOrder = resume
	}
}
