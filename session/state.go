package session

type State int

const (
	Idle State = iota
	Loading
	Playing
	Paused
	Ended
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Ended:
		return "ended"
	default:
		return "unknown"
	}
}

// Playing reports the value StateChanged carries for s.
func (s State) Playing() bool {
	return s == Playing
}
