package game

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"racer/internal/vehicle"
)

type Input struct {
	prevKeys map[glfw.Key]bool
}

func NewInput() *Input {
	return &Input{prevKeys: make(map[glfw.Key]bool)}
}

func (in *Input) JustPressed(window *glfw.Window, key glfw.Key) bool {
	down := window.GetKey(key) == glfw.Press
	jp := down && !in.prevKeys[key]
	in.prevKeys[key] = down
	return jp
}

// Keys polls the menu keys. Every key is polled each frame so the edge
// state stays current.
func (in *Input) Keys(window *glfw.Window) Keys {
	space := in.JustPressed(window, glfw.KeySpace)
	enter := in.JustPressed(window, glfw.KeyEnter)
	return Keys{
		Start:     space || enter,
		Pause:     in.JustPressed(window, glfw.KeyEscape),
		Restart:   in.JustPressed(window, glfw.KeyR),
		Quit:      in.JustPressed(window, glfw.KeyQ),
		Autopilot: in.JustPressed(window, glfw.KeyP),
	}
}

func down(window *glfw.Window, keys ...glfw.Key) bool {
	for _, k := range keys {
		if window.GetKey(k) == glfw.Press {
			return true
		}
	}
	return false
}

// Drive reads the held driving keys: arrows or WASD, space to brake.
func Drive(window *glfw.Window) vehicle.Controls {
	return vehicle.Controls{
		Forward:  down(window, glfw.KeyUp, glfw.KeyW),
		Backward: down(window, glfw.KeyDown, glfw.KeyS),
		Left:     down(window, glfw.KeyLeft, glfw.KeyA),
		Right:    down(window, glfw.KeyRight, glfw.KeyD),
		Brake:    down(window, glfw.KeySpace),
	}
}
