package player

// State is the playback state of one guild session.
type State int

const (
	// StateIdle means nothing is playing. The session may still hold a
	// voice connection.
	StateIdle State = iota

	// StatePlaying means audio is actively being sent.
	StatePlaying

	// StatePaused means a track is loaded and holding its position.
	StatePaused

	// StateDucked means the track is suspended while an interjection
	// (announcement audio) plays over the connection.
	StateDucked
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateDucked:
		return "ducked"
	default:
		return "unknown"
	}
}
