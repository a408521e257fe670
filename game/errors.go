package game

import (
	"errors"
	"fmt"
)

var (
	ErrMissingLayer  = errors.New("game: missing layer")
	ErrMissingEntity = errors.New("game: missing entity")
	ErrNoNextLevel   = errors.New("game: no next map property")
)

// ValidationError reports a level that cannot be played. It unwraps to
// ErrMissingLayer or ErrMissingEntity.
type ValidationError struct {
	Level  string
	Layer  string
	Entity string
	Err    error
}

func (e *ValidationError) Error() string {
	switch {
	case e.Layer != "":
		return fmt.Sprintf("level %q: no %q layer", e.Level, e.Layer)
	case e.Entity != "":
		return fmt.Sprintf("level %q: no %q entity", e.Level, e.Entity)
	}
	return fmt.Sprintf("level %q: %v", e.Level, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// LoadError is the payload of EventLoadError.
type LoadError struct {
	Level string
	Err   error
}

func (e LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Level, e.Err)
}

func (e LoadError) Unwrap() error {
	return e.Err
}
