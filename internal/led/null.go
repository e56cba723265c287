// Package led provides strip drivers for the game engine. The ws281x
// driver talks to real hardware on a Raspberry Pi; the Null driver
// records frames for headless runs and tests.
package led

import (
	"errors"
	"sync"

	"github.com/rickvanderwolk/led-game/internal/game"
)

// ErrInit is returned when the hardware strip cannot be initialised.
var ErrInit = errors.New("led: strip init failed")

// Null is a driver that discards frames, keeping only the most recent
// one for inspection.
type Null struct {
	mu   sync.Mutex
	last game.Frame
}

// NewNull creates a Null driver.
func NewNull() *Null { return &Null{} }

// Render stores a copy of the frame.
func (n *Null) Render(f game.Frame) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.last) != len(f) {
		n.last = make(game.Frame, len(f))
	}
	copy(n.last, f)
	return nil
}

// Last returns a copy of the most recently rendered frame, or nil.
func (n *Null) Last() game.Frame {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.last == nil {
		return nil
	}
	out := make(game.Frame, len(n.last))
	copy(out, n.last)
	return out
}

// Close is a no-op.
func (n *Null) Close() error { return nil }
