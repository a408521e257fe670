package entity

import (
	"fmt"

	"github.com/milk9111/thief/prefabs"
)

// Def is the compiled definition shared by every entity of one type.
type Def struct {
	Poses  map[string][]int
	Sounds map[string]string
	Orders map[string]*Script
}

// Defs is keyed by entity type.
type Defs map[string]*Def

// CompileDefs turns prefab specs into definitions, compiling every order
// script once.
func CompileDefs(specs prefabs.EntityDefs, load func(name string) ([]byte, error)) (Defs, error) {
	defs := make(Defs, len(specs))
	for typ, spec := range specs {
		def := &Def{
			Poses:  map[string][]int{},
			Sounds: map[string]string{},
			Orders: map[string]*Script{},
		}
		for name, pose := range spec.Poses {
			def.Poses[name] = pose.Frames
		}
		for cue, sound := range spec.Sounds {
			def.Sounds[cue] = sound
		}
		for name, path := range spec.Orders {
			src, err := load(path)
			if err != nil {
				return nil, fmt.Errorf("entity: %s order %q: %w", typ, name, err)
			}
			script, err := CompileScript(name, src)
			if err != nil {
				return nil, fmt.Errorf("entity: %s order %q: %w", typ, name, err)
			}
			def.Orders[name] = script
		}
		defs[typ] = def
	}
	return defs, nil
}

func (d Defs) lookup(typ string) *Def {
	if def, ok := d[typ]; ok && def != nil {
		return def
	}
	return &Def{}
}
