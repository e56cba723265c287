//go:build !linux || !cgo

package led

import (
	"fmt"

	"github.com/rickvanderwolk/led-game/internal/config"
)

// OpenWS281x always fails off-Pi; run cmd/sim or use the Null driver
// on development machines.
func OpenWS281x(config.LED) (*Null, error) {
	return nil, fmt.Errorf("%w: ws281x requires linux with cgo", ErrInit)
}
