//go:build !linux

package input

import "errors"

// GPIOButtons is only available on linux.
type GPIOButtons struct{}

// OpenGPIOButtons always fails off-linux.
func OpenGPIOButtons(string, map[int]int) (*GPIOButtons, error) {
	return nil, errors.New("gpio buttons require linux")
}

func (g *GPIOButtons) Events() <-chan Event { return nil }

func (g *GPIOButtons) Close() error { return nil }
