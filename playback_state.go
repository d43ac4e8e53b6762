package lottieview

// PlaybackState is the tri-state of the playback controller.
type PlaybackState int

const (
	// Stopped means playback is at the start position and not advancing
	Stopped PlaybackState = iota
	// Playing means positions advance on every tick
	Playing
	// Paused means the position is frozen until the next Play
	Paused
)

func (s PlaybackState) String() string {
	switch s {
	case Stopped:
		return "Stopped"
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	default:
		return "Unknown"
	}
}
