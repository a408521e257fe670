package main

import (
	"fmt"
	"log/slog"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"golang.design/x/clipboard"

	"github.com/milk9111/thief/assets"
	thiefaudio "github.com/milk9111/thief/audio"
	"github.com/milk9111/thief/audio/ebitenaudio"
	"github.com/milk9111/thief/event"
	"github.com/milk9111/thief/game"
	"github.com/milk9111/thief/prefabs"
	"github.com/milk9111/thief/render/ebitenrender"
	"github.com/milk9111/thief/tilemap"
)

// Config holds the command line choices.
type Config struct {
	Level  string
	Watch  bool
	Debug  bool
	Logger *slog.Logger
}

// Game adapts game.ThiefGame to ebiten.
type Game struct {
	thief   *game.ThiefGame
	spec    prefabs.GameSpec
	input   *Input
	pauseUI *ebitenui.UI
	watcher *prefabs.Watcher
	logger  *slog.Logger

	paused    bool
	quit      bool
	debug     bool
	clipboard bool
}

func NewGame(spec prefabs.GameSpec, cfg Config) (*Game, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	cues := thiefaudio.NewCues(logger)
	audioCtx := audio.NewContext(ebitenaudio.SampleRate)
	if err := ebitenaudio.Load(audioCtx, cues, assets.Cues, assets.LoadAudio); err != nil {
		logger.Warn("some sounds failed to load", "err", err)
	}

	g := &Game{
		spec:   spec,
		logger: logger,
		debug:  cfg.Debug,
	}
	g.input = NewInput()
	g.thief = game.New(game.Options{
		Spec:     spec,
		Images:   assets.Loader{Convert: ebitenrender.Convert},
		Renderer: ebitenrender.Renderer{},
		Audio:    cues,
		Input:    g.input.State,
		Logger:   logger,
	})
	g.input.Camera = g.thief.Camera()
	g.pauseUI = NewPauseUI(g)

	g.thief.Events.On(game.EventQuit, func(event.Event) {
		g.quit = true
	})

	if err := clipboard.Init(); err != nil {
		logger.Warn("clipboard unavailable, map paste disabled", "err", err)
	} else {
		g.clipboard = true
	}

	if cfg.Watch {
		w, err := prefabs.NewWatcher(spec.MapsDir, prefabs.Dir)
		if err != nil {
			logger.Warn("file watching disabled", "err", err)
		} else {
			g.watcher = w
		}
	}

	level := cfg.Level
	if level == "" {
		level = spec.FirstLevel
	}
	if level == "" {
		return nil, fmt.Errorf("no level to start on")
	}
	g.thief.PlayLevel(level)
	return g, nil
}

func (g *Game) Update() error {
	if g.quit {
		return ebiten.Termination
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.setPaused(!g.paused)
	}
	if g.paused {
		g.pauseUI.Update()
		return nil
	}

	if g.clipboard && ctrlPressed() && inpututil.IsKeyJustPressed(ebiten.KeyV) {
		g.pasteMap()
	}
	g.pollWatcher()

	g.input.Poll()
	g.thief.Tick()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.thief.Draw(ebitenrender.Wrap(screen))

	if g.paused {
		g.pauseUI.Draw(screen)
	}
	if g.debug {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("FPS: %.2f  %s", ebiten.ActualFPS(), g.thief.Level()), 0, g.spec.Screen.Height-16)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.spec.Screen.Width, g.spec.Screen.Height
}

func (g *Game) Close() error {
	if g.watcher == nil {
		return nil
	}
	return g.watcher.Close()
}

func (g *Game) setPaused(paused bool) {
	if g.paused == paused {
		return
	}
	g.paused = paused
	if !paused {
		g.thief.Resume()
	}
}

// pasteMap plays a Tiled JSON map copied to the clipboard.
func (g *Game) pasteMap() {
	data := clipboard.Read(clipboard.FmtText)
	if len(data) == 0 {
		return
	}
	doc, err := tilemap.ParseDocument(data)
	if err != nil {
		g.logger.Warn("clipboard does not hold a map", "err", err)
		return
	}
	g.thief.PlayMap(doc)
}

// pollWatcher replays the current level after its files changed on disk.
func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case name, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			level := g.thief.Level()
			if level == "" || level == game.CustomLevelName {
				continue
			}
			g.logger.Info("reloading level", "level", level, "changed", name)
			g.thief.PlayLevel(level)
		case err := <-g.watcher.Errors:
			if err != nil {
				g.logger.Warn("file watch error", "err", err)
			}
		default:
			return
		}
	}
}

func ctrlPressed() bool {
	return ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)
}
