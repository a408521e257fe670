package entity

import (
	"image"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/thief/common"
	"github.com/milk9111/thief/event"
	"github.com/milk9111/thief/prefabs"
	"github.com/milk9111/thief/render"
	"github.com/milk9111/thief/tilemap"
)

// Tile gids of the test tileset.
const (
	floor uint32 = 1
	wall  uint32 = 2
	pause uint32 = 3
	left  uint32 = 4
)

type world struct {
	m    *tilemap.TileMap
	bg   *tilemap.Layer
	ai   *tilemap.Layer
	ents *tilemap.Layer
}

// newWorld builds a 10x5 map of 32px floor tiles. Cells listed in walls are
// walls; ai assigns AI tiles by index.
func newWorld(t *testing.T, walls []int, ai map[int]uint32, objects ...*tilemap.ObjectSpec) *world {
	t.Helper()
	const w, h = 10, 5
	bg := make([]uint32, w*h)
	for i := range bg {
		bg[i] = floor
	}
	for _, i := range walls {
		bg[i] = wall
	}
	aiData := make([]uint32, w*h)
	for i, gid := range ai {
		aiData[i] = gid
	}

	doc := &tilemap.Document{
		Width: w, Height: h, TileWidth: 32, TileHeight: 32,
		Tilesets: []tilemap.TilesetSpec{{
			FirstGID: 1, Name: "terrain", Image: "terrain.png",
			ImageWidth: 128, ImageHeight: 64, TileWidth: 32, TileHeight: 32,
			TileProperties: map[string]tilemap.StringMap{
				"0": {"walkable": "true"},
				"1": {"walkable": "false"},
				"2": {"aiorder": "pause"},
				"3": {"aiorder": "left"},
			},
		}},
		Layers: []tilemap.LayerSpec{
			{Name: "background", Type: "tilelayer", Data: bg},
			{Name: "ai", Type: "tilelayer", Data: aiData},
			{Name: "entities", Type: "objectgroup", Objects: objects},
		},
	}
	m, err := tilemap.Build(doc)
	require.NoError(t, err)
	return &world{m: m, bg: m.FindLayer("background"), ai: m.FindLayer("ai"), ents: m.FindLayer("entities")}
}

// object places a 32x32 tile object whose center is the center of cell
// (cx, cy).
func object(typ string, cx, cy int, props map[string]string) *tilemap.ObjectSpec {
	return &tilemap.ObjectSpec{
		Type: typ, X: float64(cx * 32), Y: float64(cy*32 + 32),
		Width: 32, Height: 32, GID: floor, Properties: props,
	}
}

func (w *world) obj(t *testing.T, typ string, n int) *tilemap.Object {
	t.Helper()
	objs := w.ents.FindObjects(typ)
	require.Greater(t, len(objs), n)
	return objs[n]
}

func count(b *event.Bus, kind event.Kind) *[]any {
	var got []any
	b.On(kind, func(e event.Event) { got = append(got, e.Data) })
	return &got
}

func TestCollide(t *testing.T) {
	a := &Entity{X: 0, Y: 0, Width: 10, Height: 10}
	far := &Entity{X: 20, Y: 0, Width: 10, Height: 10}
	near := &Entity{X: 5, Y: 0, Width: 10, Height: 10}
	touching := &Entity{X: 10, Y: 0, Width: 10, Height: 10}

	assert.False(t, a.Collide(far))
	assert.True(t, a.Collide(near))
	assert.True(t, a.Collide(touching), "shared edges count")
}

func TestCollideWithoutCornerOverlap(t *testing.T) {
	tall := &Entity{X: 0, Y: 0, Width: 10, Height: 40}
	wide := &Entity{X: 0, Y: 0, Width: 40, Height: 10}
	assert.True(t, tall.Collide(wide), "crossed boxes overlap")
	assert.True(t, wide.Collide(tall), "crossed boxes overlap")

	big := &Entity{X: 0, Y: 0, Width: 64, Height: 64}
	small := &Entity{X: 0, Y: 0, Width: 16, Height: 16}
	assert.True(t, big.Collide(small), "container hits contained")
	assert.True(t, small.Collide(big), "contained hits container")
}

func TestUpdateArrivesAndCountsSteps(t *testing.T) {
	w := newWorld(t, nil, nil, object("player", 1, 1, map[string]string{"speed": "4"}))
	defs := Defs{"player": {Sounds: map[string]string{"step": "step"}}}
	p := NewPlayer(w.obj(t, "player", 0), w.m, defs)
	steps := count(p.Events, EventStep)

	require.Equal(t, 48.0, p.X)
	require.Equal(t, 48.0, p.Y)
	require.Equal(t, 4.0, p.Speed)

	p.SetTarget(148, 48)
	for i := 0; i < 40 && p.Target != nil; i++ {
		p.Update(1, w.bg)
	}
	assert.Nil(t, p.Target)
	assert.Equal(t, 148.0, p.X)
	assert.Len(t, *steps, 8)
	assert.Equal(t, 8, p.Anim.Frame)
	assert.Equal(t, PoseWalking, p.Anim.Pose)
	assert.Equal(t, "step", (*steps)[0])
}

func TestMoveToSlidesAlongWalls(t *testing.T) {
	// Row 0 is wall above the player.
	walls := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	w := newWorld(t, walls, nil, object("player", 2, 1, nil))
	p := NewPlayer(w.obj(t, "player", 0), w.m, nil)

	ok := p.MoveTo(p.X+5, p.Y-20, w.bg)
	assert.False(t, ok)
	assert.Equal(t, 85.0, p.X, "x slides")
	assert.Equal(t, 48.0, p.Y, "y blocked")

	p.SetTarget(p.X, p.Y-50)
	p.Speed = 4
	p.Update(5, w.bg)
	assert.True(t, p.HasHitWall())
	assert.False(t, p.HasHitWall(), "flag is consumed")
}

func TestMoveRelativeUsesSpeedProperty(t *testing.T) {
	w := newWorld(t, nil, nil,
		object("player", 1, 1, map[string]string{"speed": "3"}),
		object("player", 3, 1, nil))

	fast := NewPlayer(w.obj(t, "player", 0), w.m, nil)
	fast.MoveRelative(2, -1)
	require.NotNil(t, fast.Target)
	assert.Equal(t, 54.0, fast.Target.X)
	assert.Equal(t, 45.0, fast.Target.Y)

	slow := NewPlayer(w.obj(t, "player", 1), w.m, nil)
	slow.MoveRelative(0, 0)
	assert.Nil(t, slow.Target)
	slow.MoveRelative(1, 0)
	assert.Equal(t, 113.0, slow.Target.X)
}

func TestResetRestoresStart(t *testing.T) {
	w := newWorld(t, nil, nil, object("player", 1, 1, map[string]string{"speed": "2"}))
	p := NewPlayer(w.obj(t, "player", 0), w.m, nil)
	p.SetTarget(100, 48)
	p.Update(1, w.bg)
	p.Goals = 3
	p.Speed = 9

	p.Reset()
	assert.Equal(t, 48.0, p.X)
	assert.Nil(t, p.Target)
	assert.Equal(t, 2.0, p.Speed)
	assert.Equal(t, 0, p.Goals)
	assert.Equal(t, Anim{Pose: PoseIdle}, p.Anim)
}

func TestGoalOpensOnce(t *testing.T) {
	w := newWorld(t, nil, nil,
		object("player", 1, 1, nil),
		object("treasure", 3, 1, map[string]string{"opengid": "4"}))
	p := NewPlayer(w.obj(t, "player", 0), w.m, nil)
	g := NewGoal(w.obj(t, "treasure", 0), w.m, nil)
	opened := count(g.Events, EventOpen)

	g.OpenFor(p)
	g.OpenFor(p)
	assert.Equal(t, 1, p.Goals)
	assert.Len(t, *opened, 1)
	assert.True(t, g.Open)
	assert.False(t, g.Visible)
	assert.Equal(t, uint32(4), g.GID)

	g.Reset()
	assert.False(t, g.Open)
	assert.True(t, g.Visible)
	assert.Equal(t, floor, g.GID)
}

func newGuardWorld(t *testing.T, ai map[int]uint32, guardProps map[string]string) (*world, *Player, *Guard) {
	t.Helper()
	w := newWorld(t, nil, ai,
		object("player", 1, 1, map[string]string{"speed": "4"}),
		object("guard", 5, 1, guardProps))
	p := NewPlayer(w.obj(t, "player", 0), w.m, nil)
	g := NewGuard(w.obj(t, "guard", 0), w.m, nil, GuardOptions{
		Player: p,
		Clock:  common.NewManualClock(time.Unix(0, 0)).Now,
		Rand:   rand.New(rand.NewPCG(1, 2)),
	})
	return w, p, g
}

func TestGuardDefaults(t *testing.T) {
	_, _, g := newGuardWorld(t, nil, nil)
	assert.Equal(t, DefaultFollowDist, g.FollowDist)
	assert.Equal(t, 3.0, g.FollowSpeed)
	assert.Equal(t, OrderStop, g.AIOrder)

	_, _, custom := newGuardWorld(t, nil, map[string]string{"aifollowdist": "5", "aifollowspeed": "7", "aiorder": "rand"})
	assert.Equal(t, 5, custom.FollowDist)
	assert.Equal(t, 7.0, custom.FollowSpeed)
	assert.Equal(t, OrderRand, custom.AIOrder)
}

func TestGuardAlertEdges(t *testing.T) {
	w, p, g := newGuardWorld(t, nil, map[string]string{"speed": "0", "aifollowspeed": "0"})
	alerts := count(g.Events, EventAlerted)

	g.X = p.X + 4*32
	g.Update(1, w.bg, w.ai)
	assert.False(t, g.Alerted)
	assert.Empty(t, *alerts)

	g.X = p.X + 2*32
	g.Update(1, w.bg, w.ai)
	g.Update(1, w.bg, w.ai)
	assert.True(t, g.Alerted)
	assert.True(t, g.AlertSprite.Visible)
	assert.Equal(t, []any{true}, *alerts)
	require.NotNil(t, g.Target, "follow targets the player")
	assert.Equal(t, p.X, g.Target.X)

	g.X = p.X + 4*32
	g.Update(1, w.bg, w.ai)
	g.Update(1, w.bg, w.ai)
	assert.False(t, g.Alerted)
	assert.False(t, g.AlertSprite.Visible)
	assert.Equal(t, []any{true, false}, *alerts)
}

func TestGuardsDoNotShareListeners(t *testing.T) {
	w := newWorld(t, nil, nil,
		object("player", 1, 1, nil),
		object("guard", 3, 1, map[string]string{"speed": "0"}),
		object("guard", 9, 4, map[string]string{"speed": "0"}))
	p := NewPlayer(w.obj(t, "player", 0), w.m, nil)
	near := NewGuard(w.obj(t, "guard", 0), w.m, nil, GuardOptions{Player: p})
	far := NewGuard(w.obj(t, "guard", 1), w.m, nil, GuardOptions{Player: p})
	require.NotSame(t, near.Events, far.Events)

	nearAlerts := count(near.Events, EventAlerted)
	farAlerts := count(far.Events, EventAlerted)

	near.Update(1, w.bg, w.ai)
	far.Update(1, w.bg, w.ai)
	assert.Len(t, *nearAlerts, 1)
	assert.Empty(t, *farAlerts)
	assert.Same(t, near, near.Events.Source())
}

func TestGuardHitsPlayer(t *testing.T) {
	w, p, g := newGuardWorld(t, nil, map[string]string{"speed": "0"})
	hits := count(g.Events, EventHit)

	g.Update(1, w.bg, w.ai)
	assert.Empty(t, *hits)

	g.X, g.Y = p.X+10, p.Y
	g.Update(1, w.bg, w.ai)
	require.Len(t, *hits, 1)
	assert.Same(t, p, (*hits)[0])
}

func TestGuardTakesAuthoredOrder(t *testing.T) {
	// Guard stands on cell (5,1) = index 15.
	w, _, g := newGuardWorld(t, map[int]uint32{15: left}, map[string]string{"speed": "2", "aiorder": "rand"})
	g.Update(1, w.bg, w.ai)
	assert.Equal(t, OrderLeft, g.AIOrder)
	assert.Equal(t, OrderRand, g.PrevOrder)
	assert.Less(t, g.X, 176.0)
}

func TestPauseResumesPreviousOrder(t *testing.T) {
	w := newWorld(t, nil, map[int]uint32{15: pause},
		object("player", 1, 4, nil),
		object("guard", 5, 1, map[string]string{"speed": "0", "aiorder": "right", "aifollowdist": "0"}))
	p := NewPlayer(w.obj(t, "player", 0), w.m, nil)
	clock := common.NewManualClock(time.Unix(100, 0))
	g := NewGuard(w.obj(t, "guard", 0), w.m, nil, GuardOptions{Player: p, Clock: clock.Now, Pause: time.Second})

	g.Update(1, w.bg, w.ai)
	assert.Equal(t, OrderPause, g.AIOrder)
	assert.Equal(t, OrderRight, g.PrevOrder)
	assert.Nil(t, g.Target)

	clock.Advance(500 * time.Millisecond)
	g.Update(1, w.bg, w.ai)
	assert.Equal(t, OrderPause, g.AIOrder)

	clock.Advance(600 * time.Millisecond)
	g.Update(1, w.bg, w.ai)
	assert.Equal(t, OrderRight, g.AIOrder, "resumes its own previous order")

	// Still on the pause tile: it is not obeyed again.
	g.Update(1, w.bg, w.ai)
	assert.Equal(t, OrderRight, g.AIOrder)
	require.NotNil(t, g.Target)

	// Leaving and coming back pauses again.
	g.X += 32
	g.Update(1, w.bg, w.ai)
	g.X -= 32
	g.Update(1, w.bg, w.ai)
	assert.Equal(t, OrderPause, g.AIOrder)
	assert.Equal(t, OrderRight, g.PrevOrder)
}

func TestRandOrderStaysOnOneAxis(t *testing.T) {
	w, _, g := newGuardWorld(t, nil, map[string]string{"speed": "0", "aiorder": "rand", "aifollowdist": "0"})
	for i := 0; i < 20; i++ {
		g.Target = nil
		g.Update(1, w.bg, w.ai)
		require.NotNil(t, g.Target)
		dx, dy := g.Target.X-g.X, g.Target.Y-g.Y
		assert.True(t, dx == 0 || dy == 0)
		assert.LessOrEqual(t, dx*dx+dy*dy, 199.0*199.0)
	}
}

func TestScriptedOrder(t *testing.T) {
	specs, err := prefabs.LoadEntityDefs("entities.yaml")
	require.NoError(t, err)
	defs, err := CompileDefs(specs, prefabs.LoadScript)
	require.NoError(t, err)
	require.Contains(t, defs["guard"].Orders, "sweep")

	w := newWorld(t, nil, nil,
		object("player", 1, 4, nil),
		object("guard", 5, 1, map[string]string{"speed": "0", "aiorder": "sweep", "aifollowdist": "0"}),
		object("guard", 5, 2, map[string]string{"speed": "0", "aiorder": "sweep", "aifollowdist": "0"}))
	p := NewPlayer(w.obj(t, "player", 0), w.m, defs)
	a := NewGuard(w.obj(t, "guard", 0), w.m, defs, GuardOptions{Player: p})
	b := NewGuard(w.obj(t, "guard", 1), w.m, defs, GuardOptions{Player: p})

	a.Update(1, w.bg, w.ai)
	require.NotNil(t, a.Target)
	assert.Equal(t, a.X-96, a.Target.X)
	assert.Equal(t, a.Y, a.Target.Y)

	b.X += 10
	b.Update(1, w.bg, w.ai)
	require.NotNil(t, b.Target)
	assert.Equal(t, 176.0-96, b.Target.X, "each guard keeps its own globals")
	assert.Equal(t, 80.0, b.Target.Y)
}

func TestCompileScriptError(t *testing.T) {
	_, err := CompileScript("broken", []byte("target_x = ("))
	assert.ErrorIs(t, err, ErrUnknownOrder)
}

func TestDrawUsesPoseFrame(t *testing.T) {
	w := newWorld(t, nil, nil, object("player", 1, 1, nil))
	w.m.Tilesets[0].Image = render.StaticImage{W: 128, H: 64}
	defs := Defs{"player": {Poses: map[string][]int{PoseWalking: {0, 1}}}}
	p := NewPlayer(w.obj(t, "player", 0), w.m, defs)
	p.Anim = Anim{Pose: PoseWalking, Frame: 3}

	rec := render.NewRecorder(320, 160)
	p.Draw(rec)
	require.Len(t, rec.Ops, 1)
	op := rec.Ops[0]
	assert.Equal(t, image.Rect(32, 0, 64, 32), op.Src)
	assert.Equal(t, 32.0, op.X)
	assert.Equal(t, 32.0, op.Y)

	p.Visible = false
	p.Draw(rec)
	assert.Len(t, rec.Ops, 1)
}

func TestAlertSpriteFollowsGuard(t *testing.T) {
	w := newWorld(t, nil, nil, object("player", 1, 1, nil), object("guard", 3, 1, nil))
	p := NewPlayer(w.obj(t, "player", 0), w.m, nil)
	g := NewGuard(w.obj(t, "guard", 0), w.m, nil, GuardOptions{
		Player:     p,
		AlertImage: render.StaticImage{W: 16, H: 16},
	})
	g.AlertSprite.Visible = true

	rec := render.NewRecorder(320, 160)
	g.AlertSprite.Draw(rec)
	require.Len(t, rec.Ops, 1)
	assert.Equal(t, g.X-8, rec.Ops[0].X)
	assert.Equal(t, g.Y-16-8, rec.Ops[0].Y)
}

func TestAlertSpriteUsesConfiguredSize(t *testing.T) {
	w := newWorld(t, nil, nil, object("player", 1, 1, nil), object("guard", 3, 1, nil))
	p := NewPlayer(w.obj(t, "player", 0), w.m, nil)
	g := NewGuard(w.obj(t, "guard", 0), w.m, nil, GuardOptions{
		Player:      p,
		AlertImage:  render.StaticImage{W: 16, H: 16},
		AlertWidth:  24,
		AlertHeight: 32,
	})
	g.AlertSprite.Visible = true

	rec := render.NewRecorder(320, 160)
	g.AlertSprite.Draw(rec)
	require.Len(t, rec.Ops, 1)
	op := rec.Ops[0]
	assert.Equal(t, 24.0, op.W)
	assert.Equal(t, 32.0, op.H)
	assert.Equal(t, g.X-12, op.X)
	assert.Equal(t, g.Y-32-16, op.Y, "sits one sprite height above the guard")
}

func TestChasingGuardPathsAroundWalls(t *testing.T) {
	w := newWorld(t, []int{13}, nil,
		object("player", 4, 1, nil),
		object("guard", 2, 1, map[string]string{"aichase": "true"}),
	)
	p := NewPlayer(w.obj(t, "player", 0), w.m, nil)
	g := NewGuard(w.obj(t, "guard", 0), w.m, nil, GuardOptions{Player: p})
	require.True(t, g.Chase)

	g.Update(1, w.bg, w.ai)

	require.True(t, g.Alerted)
	require.NotNil(t, g.Target)
	assert.Equal(t, 80.0, g.Target.X)
	assert.NotEqual(t, 48.0, g.Target.Y, "the wall blocks the straight line")
}
