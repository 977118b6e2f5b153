package game

import (
	"fmt"

	"github.com/rs/zerolog"

	"racer/internal/autopilot"
	"racer/internal/race"
	"racer/internal/results"
	"racer/internal/vehicle"
)

// Keys are the edge-triggered menu keys for one frame.
type Keys struct {
	Start     bool // SPACE or ENTER
	Pause     bool // ESC
	Restart   bool // R
	Quit      bool // Q
	Autopilot bool // P
}

// Session routes frontend input into the race driver.
type Session struct {
	Driver    *race.Driver
	Pilot     *autopilot.Pilot
	Autopilot bool
	Quit      bool

	log zerolog.Logger
}

func NewSession(d *race.Driver, log zerolog.Logger) *Session {
	return &Session{Driver: d, Pilot: autopilot.New(), log: log}
}

// HandleKeys applies menu keys. It reports whether the car was put back on
// the grid so the caller can snap its camera.
func (s *Session) HandleKeys(k Keys) (reset bool) {
	if k.Quit {
		s.Quit = true
		return false
	}
	if k.Autopilot {
		s.Autopilot = !s.Autopilot
		s.Pilot = autopilot.New()
		s.log.Info().Bool("enabled", s.Autopilot).Msg("autopilot toggled")
	}
	switch s.Driver.State() {
	case race.StateReady:
		if k.Start {
			return s.Driver.Start()
		}
	case race.StateRunning:
		if k.Pause {
			s.Driver.Pause()
		}
	case race.StatePaused:
		if k.Restart {
			return s.Driver.Restart()
		}
		if k.Pause || k.Start {
			s.Driver.Resume()
		}
	case race.StateFinished:
		if k.Restart || k.Start {
			return s.Driver.Restart()
		}
	}
	return false
}

// Controls picks the autopilot or the keyboard for this frame.
func (s *Session) Controls(manual vehicle.Controls, dt float64) vehicle.Controls {
	if s.Autopilot && s.Driver.State() == race.StateRunning {
		return s.Pilot.Controls(s.Driver.Car(), s.Driver.Track(), dt)
	}
	return manual
}

// Title is the window title for the current state.
func (s *Session) Title() string {
	t := WindowTitle
	if s.Autopilot {
		t += " [autopilot]"
	}
	switch s.Driver.State() {
	case race.StateLoading:
		return t + " | loading..."
	case race.StateReady:
		return t + " | press SPACE to start"
	case race.StatePaused:
		return t + " | paused: ESC resume, R restart, Q quit"
	case race.StateFinished:
		res, _ := s.Driver.Result()
		return fmt.Sprintf("%s | finished in %s, best lap %s: R to race again",
			t, results.FormatTime(res.Total), results.FormatOptional(res.Best, res.HasBest))
	}
	h := s.Driver.HUD()
	return fmt.Sprintf("%s | lap %d/%d", t, h.Lap, h.TotalLaps)
}
