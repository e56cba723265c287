// Package input provides controller event sources for the engine. Sources
// run their own polling goroutine and publish already-debounced events on a
// bounded channel; the engine drains the channel once per tick.
package input

import "time"

// Kind discriminates controller events.
type Kind uint8

const (
	Down Kind = iota
	Up
	Connect    // controller appeared (or was present at startup)
	Disconnect // controller vanished
)

func (k Kind) String() string {
	switch k {
	case Down:
		return "down"
	case Up:
		return "up"
	case Connect:
		return "connect"
	case Disconnect:
		return "disconnect"
	}
	return "unknown"
}

// Event is one raw controller event. Controller indices are stable while a
// controller stays connected; the engine derives player numbering from the
// set of connected indices.
type Event struct {
	Controller int
	Button     int // meaningless for Connect/Disconnect
	Kind       Kind
	When       time.Time
}

// Source is a stream of controller events. Close stops the polling
// goroutine and closes the Events channel.
type Source interface {
	Events() <-chan Event
	Close() error
}

// offer performs the bounded non-blocking send all sources share: when the
// channel is full the event is dropped rather than blocking the poller.
func offer(ch chan Event, ev Event) {
	select {
	case ch <- ev:
	default:
	}
}
