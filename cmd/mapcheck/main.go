// Command mapcheck validates level maps without opening a window. It exits
// with status 1 when any level cannot be played.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/milk9111/thief/assets"
	"github.com/milk9111/thief/event"
	"github.com/milk9111/thief/game"
	"github.com/milk9111/thief/levels"
	"github.com/milk9111/thief/prefabs"
	"github.com/milk9111/thief/render"
	"github.com/milk9111/thief/tilemap"
)

func main() {
	mapsDir := flag.String("maps", "", "directory searched for levels before the bundled ones")
	frames := flag.Int("frames", 0, "also play each level headless for this many frames")
	timeout := flag.Duration("timeout", 10*time.Second, "per-level load timeout when -frames is set")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if *mapsDir != "" {
		levels.Dir = *mapsDir
	}

	names := flag.Args()
	if len(names) == 0 {
		all, err := levels.Names()
		if err != nil {
			logger.Error("listing levels", "err", err)
			os.Exit(1)
		}
		names = all
	}

	known := map[string]bool{}
	if all, err := levels.Names(); err == nil {
		for _, n := range all {
			known[n] = true
		}
	}

	results := make([]error, len(names))
	var g errgroup.Group
	g.SetLimit(4)
	for i, name := range names {
		g.Go(func() error {
			results[i] = check(name, known)
			return nil
		})
	}
	_ = g.Wait()

	failed := false
	for i, name := range names {
		err := results[i]
		if err == nil && *frames > 0 {
			err = simulate(name, *frames, *timeout, logger)
		}
		if err != nil {
			failed = true
			fmt.Printf("FAIL %s: %v\n", name, err)
			continue
		}
		fmt.Printf("ok   %s\n", name)
	}
	if failed {
		os.Exit(1)
	}
}

// check loads a level the way the game does and verifies its references.
func check(name string, known map[string]bool) error {
	doc, err := levels.Fetch(name)
	if err != nil {
		return err
	}
	m, err := tilemap.Build(doc)
	if err != nil {
		return err
	}
	if _, err := game.Validate(name, m); err != nil {
		return err
	}

	var errs []error
	if next, ok := m.Property("nextmap"); ok && next != "" && !known[next] {
		errs = append(errs, fmt.Errorf("nextmap %q not found", next))
	}
	images := assets.Loader{}
	for _, ts := range m.Tilesets {
		if ts.ImagePath == "" {
			continue
		}
		if _, err := images.LoadImage(path.Join(levels.Dir, ts.ImagePath)); err != nil {
			errs = append(errs, fmt.Errorf("tileset %q: %w", ts.Name, err))
		}
	}
	return errors.Join(errs...)
}

// simulate plays name for a number of idle frames against recording surfaces.
func simulate(name string, frames int, timeout time.Duration, logger *slog.Logger) error {
	spec, err := prefabs.LoadGameSpec("")
	if err != nil {
		return err
	}
	spec.MapsDir = levels.Dir

	g := game.New(game.Options{
		Spec:     spec,
		Renderer: &render.RecordingRenderer{},
		Logger:   logger.With("tool", "mapcheck"),
	})
	var loadErr error
	g.Events.On(game.EventLoadError, func(e event.Event) {
		if le, ok := e.Data.(game.LoadError); ok {
			loadErr = le
		}
	})

	g.PlayLevel(name)
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := g.Queue().Drain(ctx); err != nil {
		return err
	}
	if loadErr != nil {
		return loadErr
	}
	if !g.Running() {
		return fmt.Errorf("level did not start")
	}

	screen := render.NewRecorder(spec.Screen.Width, spec.Screen.Height)
	for i := 0; i < frames && g.Level() == name; i++ {
		g.Step(1)
		screen.Reset()
		g.Draw(screen)
	}
	return nil
}
