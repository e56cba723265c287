package game

import (
	"sync"
	"testing"

	"github.com/rickvanderwolk/led-game/internal/config"
	"github.com/rickvanderwolk/led-game/internal/input"
)

func newTestMapper() *Mapper {
	return NewMapper(config.Default(), NewSimLog(false))
}

func connectControllers(m *Mapper, n int) {
	for i := 0; i < n; i++ {
		m.Offer(input.Event{Controller: i, Kind: input.Connect})
	}
	m.Drain(1, "idle")
}

// The seat shares must partition the full palette: disjoint between
// seats and together covering all four colours, for every table size.
func TestMapper_SeatPartition(t *testing.T) {
	for n := 1; n <= 4; n++ {
		m := newTestMapper()
		connectControllers(m, n)

		seats := m.Seats()
		if len(seats) != n {
			t.Fatalf("%d controllers -> %d seats", n, len(seats))
		}
		var union ColorSet
		for i, s := range seats {
			if s.Colors.Count() == 0 {
				t.Errorf("n=%d seat %d owns no colours", n, i)
			}
			for _, c := range s.Colors.Colors() {
				if union.Has(c) {
					t.Errorf("n=%d colour %s owned by two seats", n, c)
				}
			}
			union |= s.Colors
		}
		if union != AllColors {
			t.Errorf("n=%d union %s does not cover the palette", n, union)
		}
	}
}

func TestMapper_SoloSeatOwnsEverything(t *testing.T) {
	m := newTestMapper()
	connectControllers(m, 1)
	if got := m.Seats()[0].Colors; got != AllColors {
		t.Errorf("solo seat owns %s, want all colours", got)
	}
}

func TestMapper_ColorHoldAndDodged(t *testing.T) {
	cfg := config.Default()
	m := NewMapper(cfg, NewSimLog(false))
	connectControllers(m, 1)

	m.Offer(input.Event{Controller: 0, Button: cfg.Game.Buttons["yellow"], Kind: input.Down})
	m.Drain(2, "running")
	if !m.Dodged(Yellow) {
		t.Fatal("yellow not held after press")
	}
	if m.Dodged(Red) {
		t.Fatal("red reported held")
	}

	m.Offer(input.Event{Controller: 0, Button: cfg.Game.Buttons["yellow"], Kind: input.Up})
	m.Drain(3, "running")
	if m.Dodged(Yellow) {
		t.Fatal("yellow still held after release")
	}
}

// A second seat must not be able to dodge colours it does not own.
func TestMapper_DodgeRequiresOwningSeat(t *testing.T) {
	cfg := config.Default()
	m := NewMapper(cfg, NewSimLog(false))
	connectControllers(m, 2) // P1 owns yellow+green, P2 red+blue

	m.Offer(input.Event{Controller: 0, Button: cfg.Game.Buttons["red"], Kind: input.Down})
	m.Drain(2, "running")
	if m.Dodged(Red) {
		t.Error("P1 pressing red counted, but red belongs to P2")
	}

	m.Offer(input.Event{Controller: 1, Button: cfg.Game.Buttons["red"], Kind: input.Down})
	m.Drain(3, "running")
	if !m.Dodged(Red) {
		t.Error("P2 pressing red not counted")
	}
}

func TestMapper_StartTapVsLongPress(t *testing.T) {
	cfg := config.Default()
	start := cfg.Game.Buttons["start"]

	t.Run("tap", func(t *testing.T) {
		m := NewMapper(cfg, NewSimLog(false))
		connectControllers(m, 1)

		m.Offer(input.Event{Controller: 0, Button: start, Kind: input.Down})
		fr := m.Drain(10, "running")
		if fr.StartTapped {
			t.Fatal("tap resolved on press, must resolve on release")
		}
		m.Offer(input.Event{Controller: 0, Button: start, Kind: input.Up})
		fr = m.Drain(15, "running")
		if !fr.StartTapped {
			t.Fatal("short press+release did not register as tap")
		}
		if fr.Restart {
			t.Fatal("tap registered as restart")
		}
	})

	t.Run("long press", func(t *testing.T) {
		m := NewMapper(cfg, NewSimLog(false))
		connectControllers(m, 1)

		m.Offer(input.Event{Controller: 0, Button: start, Kind: input.Down})
		m.Drain(10, "running")

		restartTick := -1
		for tick := 11; tick < 60; tick++ {
			if fr := m.Drain(tick, "running"); fr.Restart {
				restartTick = tick
				break
			}
		}
		longPress := int(longPressSeconds * float64(cfg.Game.TickRate))
		if restartTick != 10+longPress {
			t.Fatalf("restart fired at tick %d, want %d", restartTick, 10+longPress)
		}

		// Restart must fire once per hold, and release must not tap.
		for tick := restartTick + 1; tick < restartTick+20; tick++ {
			if fr := m.Drain(tick, "running"); fr.Restart {
				t.Fatalf("restart re-fired at tick %d", tick)
			}
		}
		m.Offer(input.Event{Controller: 0, Button: start, Kind: input.Up})
		if fr := m.Drain(restartTick+20, "running"); fr.StartTapped {
			t.Fatal("release after long press registered as tap")
		}
	})

	t.Run("double press", func(t *testing.T) {
		m := NewMapper(cfg, NewSimLog(false))
		connectControllers(m, 1)

		m.Offer(input.Event{Controller: 0, Button: start, Kind: input.Down})
		m.Drain(10, "running")
		m.Offer(input.Event{Controller: 0, Button: start, Kind: input.Up})
		m.Drain(12, "running")
		m.Offer(input.Event{Controller: 0, Button: start, Kind: input.Down})
		fr := m.Drain(16, "running")
		if !fr.Restart {
			t.Fatal("two presses 6 ticks apart did not register as double press")
		}
	})
}

func TestMapper_ReassignOnHotplug(t *testing.T) {
	cfg := config.Default()
	m := NewMapper(cfg, NewSimLog(false))
	connectControllers(m, 2)

	// Hold a colour, then unplug the other pad; held state must clear on
	// reassignment so nobody dodges with a stale press.
	m.Offer(input.Event{Controller: 0, Button: cfg.Game.Buttons["yellow"], Kind: input.Down})
	m.Drain(2, "running")
	m.Offer(input.Event{Controller: 1, Kind: input.Disconnect})
	fr := m.Drain(3, "running")
	if !fr.Topology {
		t.Fatal("disconnect did not flag a topology change")
	}
	seats := m.Seats()
	if len(seats) != 1 {
		t.Fatalf("seats after unplug = %d, want 1", len(seats))
	}
	if seats[0].Colors != AllColors {
		t.Errorf("surviving seat owns %s, want all colours", seats[0].Colors)
	}
	if m.AnyHeld() {
		t.Error("held state survived reassignment")
	}
}

func TestMapper_DuplicateConnectIgnored(t *testing.T) {
	m := newTestMapper()
	connectControllers(m, 1)
	m.Offer(input.Event{Controller: 0, Kind: input.Connect})
	fr := m.Drain(5, "idle")
	if fr.Topology {
		t.Error("re-connect of a known controller flagged topology")
	}
	if len(m.Seats()) != 1 {
		t.Errorf("seats = %d, want 1", len(m.Seats()))
	}
}

func TestMapper_QueueEvictsOldestWhenFull(t *testing.T) {
	cfg := config.Default()
	m := NewMapper(cfg, NewSimLog(false))
	connectControllers(m, 1)

	for i := 0; i < inputQueueCap+50; i++ {
		m.Offer(input.Event{Controller: 0, Button: cfg.Game.Buttons["yellow"], Kind: input.Down})
	}
	// The newest event must survive the flood.
	m.Offer(input.Event{Controller: 0, Button: cfg.Game.Buttons["blue"], Kind: input.Down})
	m.Drain(2, "running")

	if m.Dropped() == 0 {
		t.Error("flood reported no dropped events")
	}
	if !m.Dodged(Blue) {
		t.Error("newest event was evicted instead of an old one")
	}
}

// Joystick and GPIO sources each push from their own goroutine, so the
// eviction counter must hold up under concurrent Offer calls. Run with
// -race.
func TestMapper_ConcurrentOfferOnFullQueue(t *testing.T) {
	cfg := config.Default()
	m := newTestMapper()

	// Pre-fill so every Offer below takes the eviction path.
	for i := 0; i < inputQueueCap; i++ {
		m.Offer(input.Event{Controller: 0, Button: cfg.Game.Buttons["yellow"], Kind: input.Down})
	}

	const sources, perSource = 4, 500
	var wg sync.WaitGroup
	for s := 0; s < sources; s++ {
		wg.Add(1)
		go func(ctrl int) {
			defer wg.Done()
			for i := 0; i < perSource; i++ {
				m.Offer(input.Event{Controller: ctrl, Button: cfg.Game.Buttons["red"], Kind: input.Down})
				m.Dropped()
			}
		}(s)
	}
	wg.Wait()

	// Every offered event was enqueued and the queue is bounded, so at
	// least that many evictions must have been counted.
	if got := m.Dropped(); got < sources*perSource {
		t.Errorf("dropped = %d, want >= %d", got, sources*perSource)
	}
}
