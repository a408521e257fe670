// Package game ties the map, the entities and the countdown together into a
// playable level and drives it frame by frame.
package game

import (
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/milk9111/thief/assets"
	"github.com/milk9111/thief/camera"
	"github.com/milk9111/thief/common"
	"github.com/milk9111/thief/countdown"
	"github.com/milk9111/thief/entity"
	"github.com/milk9111/thief/event"
	"github.com/milk9111/thief/input"
	"github.com/milk9111/thief/levels"
	"github.com/milk9111/thief/loader"
	"github.com/milk9111/thief/prefabs"
	"github.com/milk9111/thief/radar"
	"github.com/milk9111/thief/render"
	"github.com/milk9111/thief/tilemap"
)

const (
	// EventLevelChanged carries the level name.
	EventLevelChanged event.Kind = "levelchanged"
	// EventLoadError carries a LoadError.
	EventLoadError      event.Kind = "loaderror"
	EventEntitiesLoaded event.Kind = "entitiesloaded"
	// EventGoal carries the *entity.Goal that was opened.
	EventGoal    event.Kind = "goal"
	EventQuit    event.Kind = "quit"
	EventRestart event.Kind = "restart"
)

// CustomLevelName names levels played from a document rather than by name.
const CustomLevelName = "custom_level"

// CuePlayer plays sound cues by name.
type CuePlayer interface {
	Play(name string)
}

type Options struct {
	Spec prefabs.GameSpec

	// Fetch loads a level document by name.
	Fetch func(name string) (*tilemap.Document, error)
	// Entities loads the entity definitions.
	Entities func() (entity.Defs, error)
	Images   render.ImageLoader
	Renderer render.Renderer
	Audio    CuePlayer
	// Input returns the input of the current frame; nil means no input.
	Input  func() *input.State
	Queue  *loader.Queue
	Clock  common.Clock
	Rand   *rand.Rand
	Logger *slog.Logger
}

// DefaultEntities loads the entity prefab file and compiles its scripts.
func DefaultEntities(file string) func() (entity.Defs, error) {
	return func() (entity.Defs, error) {
		specs, err := prefabs.LoadEntityDefs(file)
		if err != nil {
			return nil, err
		}
		return entity.CompileDefs(specs, prefabs.LoadScript)
	}
}

// ThiefGame owns the current level. Only one level is live at a time.
type ThiefGame struct {
	Events *event.Bus

	opts   Options
	base   *slog.Logger
	logger *slog.Logger
	gen    loader.Generation
	cam    *camera.Camera
	alert  render.Image

	level   string
	session string
	state   *levelState

	running       bool
	quitRequested bool
	lastUpdate    time.Time
}

type levelState struct {
	m        *tilemap.TileMap
	layout   *Layout
	player   *entity.Player
	goal     *entity.Goal
	guards   []*entity.Guard
	timer    *countdown.Countdown
	radar    *radar.Radar
	start    time.Time
	nextWait time.Duration

	exitLogged bool
	advancing  bool
}

func New(opts Options) *ThiefGame {
	if opts.Spec.Camera.Friction == 0 {
		opts.Spec = prefabs.DefaultGameSpec()
	}
	if opts.Fetch == nil {
		opts.Fetch = levels.Fetch
	}
	if opts.Entities == nil {
		opts.Entities = DefaultEntities(opts.Spec.EntitiesFile)
	}
	if opts.Images == nil {
		opts.Images = assets.Loader{}
	}
	if opts.Queue == nil {
		opts.Queue = loader.NewQueue()
	}
	if opts.Clock == nil {
		opts.Clock = common.SystemClock
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	g := &ThiefGame{
		opts:   opts,
		base:   opts.Logger,
		logger: opts.Logger,
	}
	g.Events = event.NewBus(g)
	spec := opts.Spec
	g.cam = camera.New(spec.Screen.Width, spec.Screen.Height, spec.Camera.Shake, spec.Camera.Laziness, spec.Camera.Friction)
	return g
}

func (g *ThiefGame) Level() string          { return g.level }
func (g *ThiefGame) Session() string        { return g.session }
func (g *ThiefGame) Running() bool          { return g.running }
func (g *ThiefGame) Camera() *camera.Camera { return g.cam }
func (g *ThiefGame) Queue() *loader.Queue   { return g.opts.Queue }

// Map returns the current map, or nil before the first level loaded.
func (g *ThiefGame) Map() *tilemap.TileMap {
	if g.state == nil {
		return nil
	}
	return g.state.m
}

func (g *ThiefGame) Player() *entity.Player {
	if g.state == nil {
		return nil
	}
	return g.state.player
}

func (g *ThiefGame) Goal() *entity.Goal {
	if g.state == nil {
		return nil
	}
	return g.state.goal
}

func (g *ThiefGame) Guards() []*entity.Guard {
	if g.state == nil {
		return nil
	}
	return g.state.guards
}

func (g *ThiefGame) Countdown() *countdown.Countdown {
	if g.state == nil {
		return nil
	}
	return g.state.timer
}

// PlayLevel suspends the current level and loads name in the background.
func (g *ThiefGame) PlayLevel(name string) {
	g.play(name, nil)
}

// PlayMap plays an already decoded map as CustomLevelName.
func (g *ThiefGame) PlayMap(doc *tilemap.Document) {
	g.play(CustomLevelName, doc)
}

func (g *ThiefGame) play(name string, doc *tilemap.Document) {
	tag := g.gen.Next()
	g.running = false
	if g.state != nil {
		g.state.advancing = true
	}
	session := uuid.NewString()
	logger := g.base.With("level", name, "session", session)

	if doc != nil {
		g.opts.Queue.Post(g.gen.Guard(tag, func() {
			g.loadMap(tag, name, session, doc, logger)
		}))
		return
	}

	var (
		fetched *tilemap.Document
		err     error
	)
	g.opts.Queue.Go(func() {
		fetched, err = g.opts.Fetch(name)
	}, g.gen.Guard(tag, func() {
		if err != nil {
			g.fail(name, err, logger)
			return
		}
		g.loadMap(tag, name, session, fetched, logger)
	}))
}

func (g *ThiefGame) loadMap(tag uint64, name, session string, doc *tilemap.Document, logger *slog.Logger) {
	baseDir := levels.Dir
	if g.opts.Spec.MapsDir != "" {
		baseDir = g.opts.Spec.MapsDir
	}
	tilemap.Load(g.opts.Queue, doc, g.opts.Images, baseDir, func(m *tilemap.TileMap, err error) {
		if !g.gen.Current(tag) {
			return
		}
		if err != nil {
			g.fail(name, err, logger)
			return
		}

		layout, err := Validate(name, m)
		if err != nil {
			g.fail(name, err, logger)
			return
		}
		if layout.Guards == 0 {
			logger.Warn("no guard entities on map")
		}

		g.level = name
		g.logger = logger
		g.session = session
		g.newGame(tag, m, layout)
		logger.Info("level changed")
		g.Events.Emit(EventLevelChanged, name)
	})
}

func (g *ThiefGame) fail(name string, err error, logger *slog.Logger) {
	logger.Error("level has errors, can't play it", "err", err)
	g.Events.Emit(EventLoadError, LoadError{Level: name, Err: err})
}

func (g *ThiefGame) newGame(tag uint64, m *tilemap.TileMap, layout *Layout) {
	spec := g.opts.Spec
	now := g.opts.Clock()

	st := &levelState{
		m:      m,
		layout: layout,
		timer:  countdown.New(time.Duration(spec.EscapeSeconds*float64(time.Second)), g.opts.Clock),
		start:  now,
	}
	if v, _ := m.Property("showradar"); v != "false" {
		st.radar = radar.New(layout.Background, spec.Radar.Cell, spec.Radar.Dot, g.palette())
	}
	st.nextWait = time.Duration(tilemap.Int(m.Properties, "nextmaptimeout", 0)) * time.Second

	st.timer.Events.On(countdown.EventTick, func(event.Event) {
		g.playCue("blip")
	})
	st.timer.Events.On(countdown.EventTimeUp, func(event.Event) {
		if st.timer.Failed {
			g.restartLevel()
			g.playCue("timeup")
		}
	})

	g.state = st
	g.lastUpdate = now

	var (
		defs  entity.Defs
		alert render.Image
	)
	haveAlert, logger := g.alert != nil, g.logger
	loader.Parallel(g.opts.Queue, func(err error) {
		if !g.gen.Current(tag) {
			return
		}
		if err != nil {
			g.logger.Error("entity definitions failed to load", "err", err)
			g.Events.Emit(EventLoadError, LoadError{Level: g.level, Err: err})
			return
		}
		if alert != nil {
			g.alert = alert
		}
		g.loadEntities(st, defs)
	}, func() error {
		var err error
		defs, err = g.opts.Entities()
		return err
	}, func() error {
		if haveAlert {
			return nil
		}
		img, err := g.opts.Images.LoadImage(assets.AlertImage)
		if err != nil {
			logger.Warn("alert image unavailable", "err", err)
			return nil
		}
		alert = img
		return nil
	})
}

func (g *ThiefGame) loadEntities(st *levelState, defs entity.Defs) {
	ents := st.layout.Entities
	playerObj := ents.FindObject(EntityPlayer)
	goalObj := ents.FindObject(EntityGoal)

	spec := g.opts.Spec
	player := entity.NewPlayer(playerObj, st.m, defs)
	player.StepDistance = spec.StepDistance
	goal := entity.NewGoal(goalObj, st.m, defs)

	goal.Events.On(entity.EventOpen, func(event.Event) {
		st.timer.Start()
		g.playCue("alerted")
		g.Events.Emit(EventGoal, goal)
	})

	var guards []*entity.Guard
	for _, obj := range ents.FindObjects(EntityGuard) {
		guard := entity.NewGuard(obj, st.m, defs, entity.GuardOptions{
			Player:     player,
			AlertImage: g.alert,
			Clock:      g.opts.Clock,
			Rand:       g.opts.Rand,
			Logger:     g.logger,
			Pause:      time.Duration(spec.PauseMillis) * time.Millisecond,

			AlertWidth:  float64(spec.Alert.Width),
			AlertHeight: float64(spec.Alert.Height),
		})
		guard.StepDistance = spec.StepDistance
		guard.Events.On(entity.EventAlerted, func(e event.Event) {
			if alerted, _ := e.Data.(bool); alerted {
				g.playCue("alerted")
			}
		})
		guard.Events.On(entity.EventHit, func(event.Event) {
			g.playCue("hit")
			g.restartLevel()
		})
		ents.Replace(obj.Index, guard)
		guards = append(guards, guard)
	}
	ents.Replace(playerObj.Index, player)
	ents.Replace(goalObj.Index, goal)

	player.Events.On(entity.EventStep, func(e event.Event) {
		if cue, _ := e.Data.(string); cue != "" {
			g.playCue(cue)
		}
	})

	g.cam.SetTarget(player)
	if st.radar != nil {
		st.radar.SetEntities(player, guards, goal)
	}

	st.player = player
	st.goal = goal
	st.guards = guards

	g.Events.Emit(EventEntitiesLoaded, nil)
	g.lastUpdate = g.opts.Clock()
	g.running = true
	g.quitRequested = false
}

// Quit stops the loop at the next tick, which emits EventQuit.
func (g *ThiefGame) Quit() {
	g.quitRequested = true
}

// Restart resets the current level and resumes it.
func (g *ThiefGame) Restart() {
	st := g.state
	if st == nil || st.player == nil {
		return
	}
	g.restartLevel()
	st.advancing = false
	g.lastUpdate = g.opts.Clock()
	g.running = true
}

// Resume restarts frame timing after the caller stopped ticking, so the
// pause is not replayed as one long frame.
func (g *ThiefGame) Resume() {
	g.lastUpdate = g.opts.Clock()
}

// Tick pumps finished loads and, while a level runs, advances it by the
// time elapsed since the previous frame.
func (g *ThiefGame) Tick() {
	g.opts.Queue.Pump()

	if g.quitRequested {
		g.quitRequested = false
		g.running = false
		g.Events.Emit(EventQuit, nil)
		return
	}
	if !g.running {
		return
	}

	now := g.opts.Clock()
	dt := float64(now.Sub(g.lastUpdate).Milliseconds()) / 60
	g.lastUpdate = now
	g.Step(dt)
}

// Step runs one frame of logic with an explicit time delta.
func (g *ThiefGame) Step(dt float64) {
	st := g.state
	if st == nil || st.player == nil {
		return
	}
	if g.opts.Input != nil {
		input.Apply(g.opts.Input(), dt, st.player)
	}
	g.processLogic(st, dt)
}

func (g *ThiefGame) processLogic(st *levelState, dt float64) {
	g.cam.Update(float64(st.timer.Remaining.Milliseconds()))

	st.player.Update(dt, st.layout.Background)
	for _, guard := range st.guards {
		guard.Update(dt, st.layout.Background, st.layout.AI)
	}

	if st.player.Collide(&st.goal.Entity) {
		st.goal.OpenFor(st.player)
	}

	st.timer.Update()

	if st.layout.Background.GetProperties(st.player.X, st.player.Y).IsExit() && st.player.Goals > 0 {
		g.playNext(st)
	}
	if st.nextWait > 0 && g.opts.Clock().Sub(st.start) > st.nextWait {
		g.playNext(st)
	}
}

func (g *ThiefGame) playNext(st *levelState) {
	if st.advancing {
		return
	}
	next, _ := st.m.Property("nextmap")
	if next == "" {
		if !st.exitLogged {
			st.exitLogged = true
			g.logger.Error("cannot advance level", "err", ErrNoNextLevel)
		}
		return
	}
	g.PlayLevel(next)
}

func (g *ThiefGame) restartLevel() {
	st := g.state
	if st == nil || st.player == nil {
		return
	}
	st.player.Reset()
	st.goal.Reset()
	for _, guard := range st.guards {
		guard.Reset()
	}
	st.timer.Reset()
	g.Events.Emit(EventRestart, nil)
}

// Draw renders the level through the camera, then the countdown and the
// radar in screen space.
func (g *ThiefGame) Draw(s render.Surface) {
	st := g.state
	if st == nil {
		return
	}
	s.Clear()
	st.m.Draw(g.cam.Apply(s), g.opts.Renderer)
	st.timer.Draw(s)
	if st.radar != nil && st.player != nil {
		w, _ := st.radar.Size()
		st.radar.Draw(s, g.opts.Renderer, float64(s.Bounds().Dx()-w), 0)
	}
}

func (g *ThiefGame) playCue(cue string) {
	if g.opts.Audio != nil {
		g.opts.Audio.Play(cue)
	}
}

func (g *ThiefGame) palette() radar.Palette {
	def := radar.DefaultPalette()
	r := g.opts.Spec.Radar
	return radar.Palette{
		Walkable: r.Walkable.Or(def.Walkable),
		Wall:     r.Wall.Or(def.Wall),
		Exit:     r.Exit.Or(def.Exit),
		Player:   r.Player.Or(def.Player),
		Guard:    r.Guard.Or(def.Guard),
		Alerted:  r.Alerted.Or(def.Alerted),
		Goal:     r.Goal.Or(def.Goal),
	}
}
