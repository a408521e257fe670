// Package input maps abstract player actions onto the player entity.
package input

// Action is one directional action.
type Action int

const (
	Up Action = iota
	Down
	Left
	Right
	numActions
)

// State is the input of one frame.
type State struct {
	actions [numActions]bool

	// Pointer is a target in world space, nil when the pointer is not in use.
	Pointer *Point
}

type Point struct {
	X, Y float64
}

func (s *State) Set(a Action, down bool) {
	if a >= 0 && a < numActions {
		s.actions[a] = down
	}
}

func (s *State) Pressed(a Action) bool {
	return a >= 0 && a < numActions && s.actions[a]
}

// Axis returns the directional intent. Left wins over right and up over
// down.
func (s *State) Axis() (float64, float64) {
	var dx, dy float64
	switch {
	case s.actions[Left]:
		dx = -1
	case s.actions[Right]:
		dx = 1
	}
	switch {
	case s.actions[Up]:
		dy = -1
	case s.actions[Down]:
		dy = 1
	}
	return dx, dy
}

// Mover is the part of the player the input drives.
type Mover interface {
	SetTarget(x, y float64)
	MoveRelative(dx, dy float64)
}

// Apply drives m for one frame: a pointer target wins over the directional
// actions.
func Apply(s *State, dt float64, m Mover) {
	if s == nil || m == nil {
		return
	}
	if s.Pointer != nil {
		m.SetTarget(s.Pointer.X, s.Pointer.Y)
		return
	}
	dx, dy := s.Axis()
	m.MoveRelative(dx*dt, dy*dt)
}
