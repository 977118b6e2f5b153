package race

type State int

const (
	StateLoading  State = iota // artificial asset-load gate
	StateReady                 // start screen
	StateRunning               // ticking
	StatePaused                // ticking suspended
	StateFinished              // all laps done
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateFinished:
		return "finished"
	}
	return "unknown"
}
