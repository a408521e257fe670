package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/thief/levels"
	"github.com/milk9111/thief/prefabs"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug logging and the FPS overlay")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	levelName := flag.String("level", "", "level to start on (defaults to first_level from the game config)")
	mapsDir := flag.String("maps", "", "directory searched for levels before the bundled ones")
	configPath := flag.String("config", "", "game config YAML (defaults to the bundled game.yaml)")
	watch := flag.Bool("watch", false, "reload the current level when maps, prefabs or scripts change")
	flag.Parse()

	logLevel := slog.LevelInfo
	if *debug {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	spec, err := prefabs.LoadGameSpec(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *mapsDir != "" {
		spec.MapsDir = *mapsDir
	}
	levels.Dir = spec.MapsDir

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	scale := spec.Screen.Scale
	if scale <= 0 {
		scale = 1
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(int(float64(spec.Screen.Width)*scale), int(float64(spec.Screen.Height)*scale))
	ebiten.SetWindowTitle("thief")

	game, err := NewGame(spec, Config{
		Level:  *levelName,
		Watch:  *watch,
		Debug:  *debug,
		Logger: logger,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
