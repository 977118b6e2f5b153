package game

import (
	"math"
	"runtime"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"racer/internal/config"
	"racer/internal/geom"
	"racer/internal/logging"
	"racer/internal/race"
	"racer/internal/track"
	"racer/internal/vehicle"
)

// RunDesktop opens the window and runs the race until the window closes or
// Q is pressed. Start-up failures panic.
func RunDesktop(s config.Settings, t *track.Track, log zerolog.Logger) {
	runtime.LockOSThread()
	log = logging.Component(log, "frontend")

	window, err := initWindow(s.Window.Width, s.Window.Height)
	if err != nil {
		panic(err)
	}
	defer glfw.Terminate()
	defer window.Destroy()

	if err := gl.Init(); err != nil {
		panic(errors.Wrap(err, "gl init"))
	}

	audio := false
	if s.Audio {
		if err := InitAudio(); err != nil {
			log.Warn().Err(err).Msg("audio init failed, continuing without sound")
		} else {
			audio = true
		}
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	sr, sg, sb := Palette.Sky.F32()
	gl.ClearColor(sr, sg, sb, 1.0)

	trees := track.PlaceScenery(t, s.Seed, TreeCount, TreeSpread, TreeClearance)
	mountains := track.Mountains(t, s.Seed, MountainCount, MountainDistance)
	log.Debug().Int("trees", len(trees)).Int("mountains", len(mountains)).Msg("scenery placed")

	vp := s.VehicleParams()
	rend, err := NewRenderer(t, vp, trees, mountains)
	if err != nil {
		panic(errors.Wrap(err, "renderer"))
	}
	defer rend.Destroy()

	clock := race.NewWallClock()
	start := vehicle.Pose{Pos: t.StartPosition(), Heading: t.StartHeading()}
	car := vehicle.New(vp, start, clock.Now(), geom.NewRand(s.Seed))
	bus := race.NewEventBus()
	driver := race.NewDriver(s.RaceConfig(), t, car, clock, bus, logging.Component(log, "race"))
	if audio {
		AttachAudio(bus)
	}

	session := NewSession(driver, log)
	cam := NewCamera()
	cam.Snap(car.Pose())
	input := NewInput()

	var hudBuf []float32
	title := ""
	engineOn := false

	last := glfw.GetTime()
	for !window.ShouldClose() {
		now := glfw.GetTime()
		dt := now - last
		last = now
		if dt > 0.1 {
			dt = 0.1
		}

		glfw.PollEvents()
		if session.HandleKeys(input.Keys(window)) {
			cam.Snap(car.Pose())
		}
		if session.Quit {
			window.SetShouldClose(true)
			continue
		}

		in := session.Controls(Drive(window), dt)
		driver.Tick(in)
		running := driver.State() == race.StateRunning
		if running {
			cam.Follow(car.Pose())
		}

		if audio {
			if running && !engineOn {
				StartEngine()
				engineOn = true
			}
			SetEngine(math.Abs(car.Speed)/vp.MaxSpeed, in.Forward || in.Backward, !running)
		}

		if tt := session.Title(); tt != title {
			title = tt
			window.SetTitle(title)
		}

		fbW, fbH := window.GetFramebufferSize()
		if fbW <= 0 || fbH <= 0 {
			continue
		}

		rend.BeginFrame(&cam, fbW, fbH)
		rend.DrawWorld()
		rend.DrawCar(car)

		hudBuf = BuildHUD(hudBuf, driver.HUD(), fbW, fbH)
		if res, done := driver.Result(); done {
			hudBuf = BuildResult(hudBuf, res, fbW, fbH)
		}
		rend.DrawHUD(hudBuf, fbW, fbH)

		window.SwapBuffers()
	}
	log.Info().Msg("window closed")
}
