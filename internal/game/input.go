package game

import (
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/rickvanderwolk/led-game/internal/config"
	"github.com/rickvanderwolk/led-game/internal/input"
)

// inputQueueCap bounds the raw event queue. When sources outrun the tick
// loop the oldest events are dropped first, so the most recent press and
// release levels always survive, which is all level-sensitive judgment
// needs.
const inputQueueCap = 256

// longPressSeconds is how long START must be held to restart.
const longPressSeconds = 0.8

// doublePressSeconds is the widest gap between two START presses that
// still counts as a double press.
const doublePressSeconds = 0.4

// Seat binds one connected controller to a player slot and its share of
// the colour palette.
type Seat struct {
	Player     int // 1-based, in controller-index order
	Controller int
	Colors     ColorSet // share of the full palette per the seat table
	held       ColorSet // colour buttons currently held down
}

func (s Seat) label() string { return fmt.Sprintf("P%d", s.Player) }

// Held reports the colour buttons this seat currently holds.
func (s Seat) Held() ColorSet { return s.held }

// seatShares[n] is the colour distribution for n connected controllers.
// The shares partition the full palette; while fewer colours are unlocked
// the partition restricted to the unlocked set still covers it exactly.
var seatShares = [5][]ColorSet{
	1: {AllColors},
	2: {1<<Yellow | 1<<Green, 1<<Red | 1<<Blue},
	3: {1 << Yellow, 1 << Red, 1<<Green | 1<<Blue},
	4: {1 << Yellow, 1 << Red, 1 << Green, 1 << Blue},
}

// InputFrame is what one tick of drained input tells the mode machine.
type InputFrame struct {
	StartPressed bool // a START down edge occurred this tick
	StartTapped  bool // START released before the long-press threshold
	Restart      bool // long-press threshold crossed, or double press
	Topology     bool // the connected-controller set changed
}

// Mapper turns raw controller events into per-seat colour levels and
// START gestures. It owns the bounded event queue; sources push with
// Offer and the engine drains once per tick, so every event queued before
// a tick boundary is visible to that tick's judge.
type Mapper struct {
	queue       chan input.Event
	buttons     map[int]Color // button id -> colour
	startButton int
	seats       []Seat
	controllers []int
	log         *SimLog

	// dropped is atomic: Offer runs on every source goroutine while the
	// tick thread reads Dropped.
	dropped atomic.Int64

	// START gesture tracking.
	startDownAt      map[int]int // controller -> tick of press
	longFired        map[int]bool
	lastStartTick    int
	longPressTicks   int
	doublePressTicks int
}

// NewMapper builds a mapper from the configured button layout.
func NewMapper(cfg *config.Config, log *SimLog) *Mapper {
	buttons := make(map[int]Color, NumColors)
	for i, name := range config.ColorNames {
		buttons[cfg.Game.Buttons[name]] = Color(i)
	}
	return &Mapper{
		queue:            make(chan input.Event, inputQueueCap),
		buttons:          buttons,
		startButton:      cfg.Game.Buttons["start"],
		log:              log,
		startDownAt:      map[int]int{},
		longFired:        map[int]bool{},
		lastStartTick:    -1 << 30,
		longPressTicks:   int(longPressSeconds * float64(cfg.Game.TickRate)),
		doublePressTicks: int(doublePressSeconds * float64(cfg.Game.TickRate)),
	}
}

// Offer queues a raw event without blocking. When the queue is full the
// oldest event is evicted and counted.
func (m *Mapper) Offer(ev input.Event) {
	for {
		select {
		case m.queue <- ev:
			return
		default:
		}
		select {
		case <-m.queue:
			m.dropped.Add(1)
		default:
		}
	}
}

// Dropped returns how many events were evicted from a full queue.
func (m *Mapper) Dropped() int { return int(m.dropped.Load()) }

// Seats returns the current seat assignments.
func (m *Mapper) Seats() []Seat { return m.seats }

// Drain consumes every queued event and returns the tick's input summary.
// mode is only used to tag log entries.
func (m *Mapper) Drain(tick int, mode string) InputFrame {
	var fr InputFrame
	for {
		select {
		case ev := <-m.queue:
			m.apply(ev, tick, mode, &fr)
		default:
			m.tickStart(tick, mode, &fr)
			return fr
		}
	}
}

func (m *Mapper) apply(ev input.Event, tick int, mode string, fr *InputFrame) {
	switch ev.Kind {
	case input.Connect:
		if m.connect(ev.Controller) {
			fr.Topology = true
			m.reassign(tick, mode)
		}
	case input.Disconnect:
		if m.disconnect(ev.Controller) {
			fr.Topology = true
			delete(m.startDownAt, ev.Controller)
			delete(m.longFired, ev.Controller)
			m.reassign(tick, mode)
		}
	case input.Down:
		if ev.Button == m.startButton {
			fr.StartPressed = true
			if tick-m.lastStartTick <= m.doublePressTicks {
				fr.Restart = true
				m.log.Add(tick, mode, "--", "input", "start_double", "", 0)
			}
			m.lastStartTick = tick
			m.startDownAt[ev.Controller] = tick
			m.longFired[ev.Controller] = false
			return
		}
		if c, ok := m.buttons[ev.Button]; ok {
			if seat := m.seatFor(ev.Controller); seat != nil {
				seat.held.Add(c)
				m.log.AddVerbose(tick, mode, seat.label(), "input", "press", c.String(), 0)
			}
		}
	case input.Up:
		if ev.Button == m.startButton {
			if at, ok := m.startDownAt[ev.Controller]; ok {
				if tick-at < m.longPressTicks {
					fr.StartTapped = true
				}
				delete(m.startDownAt, ev.Controller)
			}
			return
		}
		if c, ok := m.buttons[ev.Button]; ok {
			if seat := m.seatFor(ev.Controller); seat != nil {
				seat.held.Remove(c)
				m.log.AddVerbose(tick, mode, seat.label(), "input", "release", c.String(), 0)
			}
		}
	}
}

// tickStart fires the long-press restart once per hold, even when no new
// events arrived this tick.
func (m *Mapper) tickStart(tick int, mode string, fr *InputFrame) {
	for ctrl, at := range m.startDownAt {
		if !m.longFired[ctrl] && tick-at >= m.longPressTicks {
			m.longFired[ctrl] = true
			fr.Restart = true
			m.log.Add(tick, mode, "--", "input", "start_long", "", 0)
		}
	}
}

func (m *Mapper) connect(ctrl int) bool {
	for _, c := range m.controllers {
		if c == ctrl {
			return false
		}
	}
	m.controllers = append(m.controllers, ctrl)
	sort.Ints(m.controllers)
	return true
}

func (m *Mapper) disconnect(ctrl int) bool {
	for i, c := range m.controllers {
		if c == ctrl {
			m.controllers = append(m.controllers[:i], m.controllers[i+1:]...)
			return true
		}
	}
	return false
}

// reassign rebuilds the seat table from the connected controllers.
// Player numbering follows controller-index order; held state is cleared
// because the colour→seat mapping just changed under the buttons.
func (m *Mapper) reassign(tick int, mode string) {
	n := len(m.controllers)
	if n > len(seatShares)-1 {
		n = len(seatShares) - 1
	}
	m.seats = m.seats[:0]
	for i := 0; i < n; i++ {
		m.seats = append(m.seats, Seat{
			Player:     i + 1,
			Controller: m.controllers[i],
			Colors:     seatShares[n][i],
		})
	}
	for _, s := range m.seats {
		m.log.Add(tick, mode, s.label(), "seats", "assign",
			fmt.Sprintf("controller %d → %s", s.Controller, s.Colors), 0)
	}
	if n == 0 {
		m.log.Add(tick, mode, "--", "seats", "assign", "no controllers", 0)
	}
}

func (m *Mapper) seatFor(ctrl int) *Seat {
	for i := range m.seats {
		if m.seats[i].Controller == ctrl {
			return &m.seats[i]
		}
	}
	return nil
}

// Dodged reports whether the seat owning colour c currently holds it.
func (m *Mapper) Dodged(c Color) bool {
	for i := range m.seats {
		if m.seats[i].Colors.Has(c) && m.seats[i].held.Has(c) {
			return true
		}
	}
	return false
}

// AnyHeld reports whether any colour button is held anywhere; the player
// marker goes dark while "jumping".
func (m *Mapper) AnyHeld() bool {
	for i := range m.seats {
		if m.seats[i].held != 0 {
			return true
		}
	}
	return false
}
