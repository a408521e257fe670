package entity

import (
	"errors"
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

var ErrUnknownOrder = errors.New("entity: unknown order")

var scriptInputs = []string{"x", "y", "dt", "speed", "start_x", "start_y", "player_x", "player_y"}

var scriptOutputs = []string{"target_x", "target_y", "move_x", "move_y"}

// Script is a compiled tengo guard order. Each guard runs its own clone.
type Script struct {
	Name     string
	compiled *tengo.Compiled
}

func CompileScript(name string, src []byte) (*Script, error) {
	script := tengo.NewScript(src)
	for _, v := range scriptInputs {
		_ = script.Add(v, 0.0)
	}
	_ = script.Add("has_target", false)
	_ = script.Add("wall_hit", false)
	for _, v := range scriptOutputs {
		_ = script.Add(v, nil)
	}
	script.SetImports(stdlib.GetModuleMap("math", "rand"))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrUnknownOrder, name, err)
	}
	return &Script{Name: name, compiled: compiled}, nil
}

// Instance returns a clone with its own globals.
func (s *Script) Instance() *Script {
	return &Script{Name: s.Name, compiled: s.compiled.Clone()}
}

// run executes the order once for g.
func (s *Script) run(g *Guard, dt float64) error {
	c := s.compiled
	inputs := map[string]any{
		"x":          g.X,
		"y":          g.Y,
		"dt":         dt,
		"speed":      g.Speed,
		"start_x":    g.start.X,
		"start_y":    g.start.Y,
		"player_x":   g.Player.X,
		"player_y":   g.Player.Y,
		"has_target": g.Target != nil,
		"wall_hit":   g.HasHitWall(),
	}
	for k, v := range inputs {
		if err := c.Set(k, v); err != nil {
			return err
		}
	}
	for _, k := range scriptOutputs {
		if err := c.Set(k, nil); err != nil {
			return err
		}
	}
	if err := c.Run(); err != nil {
		return fmt.Errorf("entity: order %q: %w", s.Name, err)
	}

	tx, ty := c.Get("target_x"), c.Get("target_y")
	if !tx.IsUndefined() || !ty.IsUndefined() {
		x, y := g.X, g.Y
		if !tx.IsUndefined() {
			x = tx.Float()
		}
		if !ty.IsUndefined() {
			y = ty.Float()
		}
		g.SetTarget(x, y)
		return nil
	}

	mx, my := c.Get("move_x"), c.Get("move_y")
	if !mx.IsUndefined() || !my.IsUndefined() {
		g.MoveRelative(mx.Float(), my.Float())
	}
	return nil
}
