package game

// Mode is the engine's top-level state. Transitions live in
// Engine.stepMode; every (mode, event) pair is total: events with no
// listed transition are no-ops, never errors.
type Mode uint8

const (
	ModeIdle         Mode = iota // waiting for a controller
	ModeCountdown                // pre-run animation
	ModeRunning                  // simulation live
	ModePaused                   // frozen, bit-identical resume
	ModeGameOver                 // fail animation, fatal obstacle shown
	ModeScoreDisplay             // score rendered on the strip
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeCountdown:
		return "countdown"
	case ModeRunning:
		return "running"
	case ModePaused:
		return "paused"
	case ModeGameOver:
		return "gameover"
	case ModeScoreDisplay:
		return "score"
	}
	return "unknown"
}
