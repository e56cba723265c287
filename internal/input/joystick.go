package input

import (
	"sync"
	"time"

	"github.com/0xcafed00d/joystick"
)

// maxJoysticks is the number of /dev/input/js* slots scanned. The seat
// table tops out at four players.
const maxJoysticks = 4

// rescanEvery is how often closed slots are probed for newly plugged pads.
const rescanEvery = 2 * time.Second

// Joysticks polls the Linux joystick API and emits button edges. Button
// state is diffed against the previous poll, so a press and release within
// one poll interval shorter than the interval is the only event that can
// be lost; at the rates involved (~30 Hz polls, human thumbs) that is the
// debouncing the engine expects.
type Joysticks struct {
	events chan Event
	poll   time.Duration

	mu    sync.Mutex
	pads  [maxJoysticks]joystick.Joystick
	state [maxJoysticks]uint32 // last button bitmask per pad

	done chan struct{}
	wg   sync.WaitGroup
}

// OpenJoysticks starts a poller at the given interval and emits a Connect
// event for every pad present at startup.
func OpenJoysticks(poll time.Duration) *Joysticks {
	j := &Joysticks{
		events: make(chan Event, 64),
		poll:   poll,
		done:   make(chan struct{}),
	}
	for i := 0; i < maxJoysticks; i++ {
		j.open(i)
	}
	j.wg.Add(1)
	go j.run()
	return j
}

func (j *Joysticks) Events() <-chan Event { return j.events }

// Close stops polling, releases all pads and closes the event channel.
func (j *Joysticks) Close() error {
	close(j.done)
	j.wg.Wait()
	j.mu.Lock()
	defer j.mu.Unlock()
	for i, p := range j.pads {
		if p != nil {
			p.Close()
			j.pads[i] = nil
		}
	}
	close(j.events)
	return nil
}

// open probes one slot; on success it records the pad and queues Connect.
func (j *Joysticks) open(i int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.pads[i] != nil {
		return
	}
	p, err := joystick.Open(i)
	if err != nil {
		return
	}
	j.pads[i] = p
	j.state[i] = 0
	offer(j.events, Event{Controller: i, Kind: Connect, When: time.Now()})
}

func (j *Joysticks) run() {
	defer j.wg.Done()
	tick := time.NewTicker(j.poll)
	defer tick.Stop()
	rescan := time.NewTicker(rescanEvery)
	defer rescan.Stop()
	for {
		select {
		case <-j.done:
			return
		case <-rescan.C:
			for i := 0; i < maxJoysticks; i++ {
				j.open(i)
			}
		case <-tick.C:
			j.pollOnce()
		}
	}
}

// pollOnce reads every open pad and emits edges for changed buttons. A
// read error means the pad was unplugged.
func (j *Joysticks) pollOnce() {
	now := time.Now()
	j.mu.Lock()
	defer j.mu.Unlock()
	for i, p := range j.pads {
		if p == nil {
			continue
		}
		st, err := p.Read()
		if err != nil {
			p.Close()
			j.pads[i] = nil
			// Release anything still held so the engine's level state
			// cannot stick on after an unplug.
			for b := 0; b < 32; b++ {
				if j.state[i]&(1<<b) != 0 {
					offer(j.events, Event{Controller: i, Button: b, Kind: Up, When: now})
				}
			}
			j.state[i] = 0
			offer(j.events, Event{Controller: i, Kind: Disconnect, When: now})
			continue
		}
		changed := st.Buttons ^ j.state[i]
		for b := 0; b < 32; b++ {
			bit := uint32(1) << b
			if changed&bit == 0 {
				continue
			}
			kind := Up
			if st.Buttons&bit != 0 {
				kind = Down
			}
			offer(j.events, Event{Controller: i, Button: b, Kind: kind, When: now})
		}
		j.state[i] = st.Buttons
	}
}
