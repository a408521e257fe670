package main

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/thief/camera"
	"github.com/milk9111/thief/input"
)

// Input polls the keyboard and mouse into an input.State once per frame.
type Input struct {
	Camera *camera.Camera

	state input.State
}

func NewInput() *Input {
	return &Input{}
}

// Poll reads WASD, ZQSD and the arrow keys. Holding the left mouse button
// steers toward the cursor.
func (i *Input) Poll() {
	i.state.Set(input.Up, anyPressed(ebiten.KeyW, ebiten.KeyZ, ebiten.KeyArrowUp))
	i.state.Set(input.Down, anyPressed(ebiten.KeyS, ebiten.KeyArrowDown))
	i.state.Set(input.Left, anyPressed(ebiten.KeyA, ebiten.KeyQ, ebiten.KeyArrowLeft))
	i.state.Set(input.Right, anyPressed(ebiten.KeyD, ebiten.KeyArrowRight))

	i.state.Pointer = nil
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) && i.Camera != nil {
		mx, my := ebiten.CursorPosition()
		wx, wy := i.Camera.ScreenToWorld(float64(mx), float64(my))
		i.state.Pointer = &input.Point{X: wx, Y: wy}
	}
}

func (i *Input) State() *input.State {
	return &i.state
}

func anyPressed(keys ...ebiten.Key) bool {
	for _, k := range keys {
		if ebiten.IsKeyPressed(k) {
			return true
		}
	}
	return false
}
