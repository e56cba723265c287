package game

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/rickvanderwolk/led-game/internal/config"
	"github.com/rickvanderwolk/led-game/internal/input"
)

const (
	countdownSeconds = 2.0 // Countdown length
	gameOverSeconds  = 1.2 // fail animation length, fatal frame included
	failBlinks       = 3
	scoreHoldSeconds = 3.0 // ScoreDisplay ignores START this long
)

// StripDriver is the outbound boundary to the LED hardware (or a
// simulator). The engine hands it one full frame per tick; physical
// signal timing is the driver's concern.
type StripDriver interface {
	Render(Frame) error
}

// Engine owns all mutable game state and advances it one tick at a time
// from a single goroutine. Input sources feed Offer concurrently; the
// bounded queue inside the mapper is the only hand-off point.
type Engine struct {
	cfg       *config.Config
	mapper    *Mapper
	sched     *scheduler
	obstacles *ObstacleSet
	log       *SimLog
	reporter  *Reporter
	rng       *rand.Rand

	mode     Mode
	modeTick int // tick at which the current mode was entered
	tick     int
	session  Session
	diff     Difficulty
	best     int // highest score this process lifetime
	misses   int

	// Engine-lifetime tallies for the reporter (sessions reset, these
	// do not).
	totalDodges [NumColors]int
	totalScore  int

	frame  Frame
	center float64
	radius float64

	countdownTicks  int
	gameOverTicks   int
	fatalFrameTicks int
	scoreHoldTicks  int
	reportEvery     int
}

// New builds an engine from a validated configuration. It rejects
// configurations whose top speed could step an obstacle across the player
// zone between two judgments.
func New(cfg *config.Config) (*Engine, error) {
	maxVel := 1.0 / (minStep * float64(cfg.Game.TickRate))
	if diameter := float64(2 * cfg.Game.ZoneRadius); maxVel > diameter {
		return nil, fmt.Errorf("top speed %.2f LEDs/tick exceeds player zone diameter %.0f: obstacles could tunnel (raise tick_rate or zone_radius)",
			maxVel, diameter)
	}

	log := NewSimLog(false)
	rate := cfg.Game.TickRate
	e := &Engine{
		cfg:             cfg,
		mapper:          NewMapper(cfg, log),
		obstacles:       NewObstacleSet(),
		log:             log,
		reporter:        NewReporter(0),
		rng:             rand.New(rand.NewSource(time.Now().UnixNano())), // #nosec G404 -- gameplay only
		center:          float64(cfg.LED.Count / 2),
		radius:          float64(cfg.Game.ZoneRadius),
		frame:           NewFrame(cfg.LED.Count),
		countdownTicks:  int(countdownSeconds * float64(rate)),
		gameOverTicks:   int(gameOverSeconds * float64(rate)),
		fatalFrameTicks: rate / 10,
		scoreHoldTicks:  int(scoreHoldSeconds * float64(rate)),
		reportEvery:     rate,
	}
	if e.fatalFrameTicks < 1 {
		e.fatalFrameTicks = 1
	}
	e.sched = newScheduler(e.rng)
	e.diff = Curve(cfg, 0, 1)
	return e, nil
}

// Offer queues a raw controller event for the next tick.
func (e *Engine) Offer(ev input.Event) { e.mapper.Offer(ev) }

// Mode returns the current mode.
func (e *Engine) Mode() Mode { return e.mode }

// Session returns a copy of the current run's score state.
func (e *Engine) Session() Session { return e.session }

// Best returns the highest score seen since process start.
func (e *Engine) Best() int { return e.best }

// CurrentTick returns the tick counter.
func (e *Engine) CurrentTick() int { return e.tick }

// Difficulty returns the curve output the scheduler is spawning with.
func (e *Engine) Difficulty() Difficulty { return e.diff }

// Obstacles returns the active obstacles, fatal one included after a miss.
func (e *Engine) Obstacles() []Obstacle { return e.obstacles.Items() }

// Seats returns the current controller-to-colour assignments.
func (e *Engine) Seats() []Seat { return e.mapper.Seats() }

// Log exposes the structured event log.
func (e *Engine) Log() *SimLog { return e.log }

// Reporter exposes the analytics collector.
func (e *Engine) Reporter() *Reporter { return e.reporter }

// Tick advances the engine by one frame.
func (e *Engine) Tick() {
	e.tick++

	// 1. INPUT: drain everything queued before this tick boundary so the
	// judge never sees stale button state.
	fr := e.mapper.Drain(e.tick, e.mode.String())

	// 2. MODE: START gestures, topology changes and mode timers.
	e.stepMode(fr)

	// 3. SIMULATION: only Running moves the world.
	if e.mode == ModeRunning {
		e.stepSim()
	}

	// 4. ANALYTICS: collect a snapshot every ~1s.
	if e.tick%e.reportEvery == 0 {
		e.reporter.Collect(e.tick, e.mode, &e.session, e.obstacles.Len(),
			len(e.mapper.Seats()), e.totalScore, e.misses, e.totalDodges)
	}
}

// stepMode applies the transition table. Every (mode, event) pair is
// covered: anything not handled below is deliberately a no-op.
//
// START gestures resolve on release (tap) or on the hold threshold
// (restart), so holding START for a restart is never misread as a
// pause/resume tap on the way down.
func (e *Engine) stepMode(fr InputFrame) {
	switch e.mode {
	case ModeIdle:
		if len(e.mapper.Seats()) > 0 {
			e.restart()
		}
	case ModeCountdown:
		if e.ticksInMode() >= e.countdownTicks {
			e.setMode(ModeRunning)
		}
	case ModeRunning:
		if fr.Topology && e.cfg.Game.TopologyChange == "restart" {
			// Forfeit: a topology change mid-run ends the run.
			e.log.Add(e.tick, e.mode.String(), "--", "seats", "forfeit", "controller change mid-run", 0)
			e.gameOver()
			return
		}
		if fr.StartTapped {
			e.setMode(ModePaused)
		}
	case ModePaused:
		if fr.Topology && e.cfg.Game.TopologyChange == "restart" {
			// Paused is still mid-run; the forfeit rule applies here too.
			e.log.Add(e.tick, e.mode.String(), "--", "seats", "forfeit", "controller change mid-run", 0)
			e.gameOver()
			return
		}
		switch {
		case fr.Restart:
			e.restart()
		case fr.StartTapped:
			// Resume: nothing was advanced while paused, so obstacle
			// positions and the spawn timer come back bit-identical.
			e.setMode(ModeRunning)
		}
	case ModeGameOver:
		switch {
		case fr.Restart:
			e.restart()
		case e.ticksInMode() >= e.gameOverTicks:
			e.setMode(ModeScoreDisplay)
		}
	case ModeScoreDisplay:
		// The score stays up for the hold period; any START gesture after
		// that begins a new game.
		if (fr.StartPressed || fr.Restart) && e.ticksInMode() >= e.scoreHoldTicks {
			e.restart()
		}
	}
}

// stepSim runs one tick of the live simulation: difficulty refresh,
// obstacle advance + spawn, then judgment against the drained input.
func (e *Engine) stepSim() {
	e.session.ElapsedTicks++

	e.diff = Curve(e.cfg, e.session.Score, len(e.mapper.Seats()))
	if e.diff.Tier != e.session.Tier {
		e.session.Tier = e.diff.Tier
		e.log.Add(e.tick, e.mode.String(), "--", "curve", "tier",
			fmt.Sprintf("tier %d, %.3fs/LED, unlocked %s", e.diff.Tier, e.diff.Step, e.diff.Unlocked),
			float64(e.diff.Tier))
	}

	e.sched.advance(e.obstacles, e.diff, e.cfg.LED.Count, e.cfg.Game.SpawnSide, e.tick, e.log)

	v := judge(e.obstacles, e.center, e.radius, e.mapper.Dodged)
	for _, o := range v.Cleared {
		e.session.recordDodge(o, e.tick)
		e.totalDodges[o.Color]++
		e.totalScore++
		e.log.Add(e.tick, e.mode.String(), seatLabelFor(e.mapper.Seats(), o.Color), "judge", "dodge",
			fmt.Sprintf("%s at %d", o.Color, o.Cell()), float64(e.session.Score))
	}
	if v.Fatal != nil {
		e.session.Missed = true
		e.session.MissColor = v.Fatal.Color
		e.log.Add(e.tick, e.mode.String(), seatLabelFor(e.mapper.Seats(), v.Fatal.Color), "judge", "miss",
			fmt.Sprintf("%s at %d", v.Fatal.Color, v.Fatal.Cell()), 0)
		e.gameOver()
	}
}

func (e *Engine) gameOver() {
	e.misses++
	if e.session.Score > e.best {
		e.best = e.session.Score
	}
	e.setMode(ModeGameOver)
}

// restart clears the run and begins a fresh Countdown. The best score and
// the event log survive; the active obstacle set does not.
func (e *Engine) restart() {
	if e.session.Score > e.best {
		e.best = e.session.Score
	}
	e.session.reset()
	e.obstacles.Clear()
	e.sched.reset()
	e.diff = Curve(e.cfg, 0, len(e.mapper.Seats()))
	e.setMode(ModeCountdown)
}

func (e *Engine) setMode(m Mode) {
	if m == e.mode {
		return
	}
	e.log.Add(e.tick, e.mode.String(), "--", "mode", "change",
		fmt.Sprintf("%s → %s", e.mode, m), 0)
	e.mode = m
	e.modeTick = e.tick
}

func (e *Engine) ticksInMode() int { return e.tick - e.modeTick }

// seatLabelFor names the seat owning a colour, for log entries.
func seatLabelFor(seats []Seat, c Color) string {
	for _, s := range seats {
		if s.Colors.Has(c) {
			return s.label()
		}
	}
	return "--"
}

// Frame renders the current state into the engine's reused frame buffer.
func (e *Engine) Frame() Frame {
	in := e.ticksInMode()
	switch e.mode {
	case ModeIdle:
		e.frame.fill(rgbOff)
	case ModeCountdown:
		renderCountdown(e.frame, in, e.countdownTicks)
	case ModeRunning, ModePaused:
		renderField(e.frame, e.obstacles.Items(), int(e.center), e.cfg.Game.ZoneRadius,
			toRGB(e.cfg.Game.PlayerColor), e.mapper.AnyHeld(), e.cfg.Game.FadeLength)
	case ModeGameOver:
		if in < e.fatalFrameTicks {
			// The fatal obstacle stays lit for visual feedback before
			// the fail animation takes over.
			renderField(e.frame, e.obstacles.Items(), int(e.center), e.cfg.Game.ZoneRadius,
				toRGB(e.cfg.Game.PlayerColor), false, e.cfg.Game.FadeLength)
		} else {
			renderBlink(e.frame, toRGB(e.cfg.Game.FailColor),
				in-e.fatalFrameTicks, e.gameOverTicks-e.fatalFrameTicks, failBlinks)
		}
	case ModeScoreDisplay:
		if e.cfg.Game.ScoreDisplay == "bar" {
			renderScoreBar(e.frame, e.session.Score)
		} else {
			renderScoreDigits(e.frame, e.session.Score)
		}
	}
	return e.frame
}

func toRGB(v config.ColorValue) RGB { return RGB{R: v.R, G: v.G, B: v.B} }

// Run drives the fixed-rate tick loop until ctx is cancelled. Whatever
// the exit route, the strip is left dark.
func (e *Engine) Run(ctx context.Context, drv StripDriver) error {
	interval := time.Second / time.Duration(e.cfg.Game.TickRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	defer func() {
		e.frame.fill(rgbOff)
		_ = drv.Render(e.frame)
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			e.Tick()
			if err := drv.Render(e.Frame()); err != nil {
				return fmt.Errorf("render: %w", err)
			}
		}
	}
}
