//go:build linux

package input

import (
	"fmt"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

// gpioDebounce filters mechanical arcade-button chatter in the kernel.
const gpioDebounce = 5 * time.Millisecond

// GPIOButtons reads wired arcade buttons through the character-device GPIO
// API. Buttons are wired active-low with the internal pull-up, so a
// falling edge is a press. The whole set presents as one controller
// (index 0); hotplug does not apply to soldered buttons, so a single
// Connect is emitted at open.
type GPIOButtons struct {
	events chan Event
	lines  []*gpiocdev.Line
}

// OpenGPIOButtons requests every line in offsets (line offset → button id)
// on the given chip. On any failure all already-requested lines are
// released.
func OpenGPIOButtons(chip string, offsets map[int]int) (*GPIOButtons, error) {
	g := &GPIOButtons{events: make(chan Event, 64)}
	for offset, button := range offsets {
		btn := button
		line, err := gpiocdev.RequestLine(chip, offset,
			gpiocdev.AsInput,
			gpiocdev.WithPullUp,
			gpiocdev.WithBothEdges,
			gpiocdev.WithDebounce(gpioDebounce),
			gpiocdev.WithEventHandler(func(evt gpiocdev.LineEvent) {
				kind := Up
				if evt.Type == gpiocdev.LineEventFallingEdge {
					kind = Down
				}
				offer(g.events, Event{Controller: 0, Button: btn, Kind: kind, When: time.Now()})
			}))
		if err != nil {
			g.Close()
			return nil, fmt.Errorf("gpio line %d on %s: %w", offset, chip, err)
		}
		g.lines = append(g.lines, line)
	}
	offer(g.events, Event{Controller: 0, Kind: Connect, When: time.Now()})
	return g, nil
}

func (g *GPIOButtons) Events() <-chan Event { return g.events }

// Close releases every requested line.
func (g *GPIOButtons) Close() error {
	var first error
	for _, l := range g.lines {
		if err := l.Close(); err != nil && first == nil {
			first = err
		}
	}
	g.lines = nil
	close(g.events)
	return first
}
