package game

import (
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/errors"
)

func initWindow(width, height int) (*glfw.Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, errors.Wrap(err, "glfw init")
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.Decorated, glfw.True)
	glfw.WindowHint(glfw.Samples, 4)

	if width <= 0 || height <= 0 {
		width, height = WindowWidth, WindowHeight
	}
	window, err := glfw.CreateWindow(width, height, WindowTitle, nil, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create window")
	}
	window.MakeContextCurrent()
	glfw.SwapInterval(1)

	return window, nil
}
