package game

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/rickvanderwolk/led-game/internal/config"
	"github.com/rickvanderwolk/led-game/internal/input"
)

// TestGame is a headless harness used by tests and cmd/headless-report.
// It mirrors Engine.Run without a driver or wall clock and supports
// deterministic seeding and scripted input.
type TestGame struct {
	E   *Engine
	Cfg *config.Config
}

// gameOptionKind controls the pass in which an option is applied.
type gameOptionKind int

const (
	optConfig gameOptionKind = iota // mutate config, applied before New
	optEngine                       // mutate engine, applied after New
)

// GameOption is a builder function applied to a TestGame during
// construction.
type GameOption struct {
	kind  gameOptionKind
	cfgFn func(*config.Config)
	engFn func(*Engine)
}

// WithLEDCount sets the strip length.
func WithLEDCount(n int) GameOption {
	return GameOption{kind: optConfig, cfgFn: func(c *config.Config) { c.LED.Count = n }}
}

// WithTickRate sets the simulation rate in Hz.
func WithTickRate(hz int) GameOption {
	return GameOption{kind: optConfig, cfgFn: func(c *config.Config) { c.Game.TickRate = hz }}
}

// WithZoneRadius sets the player zone half-width.
func WithZoneRadius(r int) GameOption {
	return GameOption{kind: optConfig, cfgFn: func(c *config.Config) { c.Game.ZoneRadius = r }}
}

// WithSpawnSide sets where obstacles enter ("left", "right", "both").
func WithSpawnSide(side string) GameOption {
	return GameOption{kind: optConfig, cfgFn: func(c *config.Config) { c.Game.SpawnSide = side }}
}

// WithInitialSpeed sets the starting pace in seconds per LED.
func WithInitialSpeed(s float64) GameOption {
	return GameOption{kind: optConfig, cfgFn: func(c *config.Config) { c.Game.InitialSpeed = s }}
}

// WithTopologyPolicy sets the mid-run hotplug policy ("remap","restart").
func WithTopologyPolicy(p string) GameOption {
	return GameOption{kind: optConfig, cfgFn: func(c *config.Config) { c.Game.TopologyChange = p }}
}

// WithScoreDisplay selects "digits" or "bar".
func WithScoreDisplay(d string) GameOption {
	return GameOption{kind: optConfig, cfgFn: func(c *config.Config) { c.Game.ScoreDisplay = d }}
}

// WithSeed makes the run deterministic.
func WithSeed(seed int64) GameOption {
	return GameOption{kind: optEngine, engFn: func(e *Engine) {
		r := rand.New(rand.NewSource(seed)) // #nosec G404 -- test harness
		e.rng = r
		e.sched.rng = r
	}}
}

// WithVerbose enables per-tick verbose logging.
func WithVerbose(v bool) GameOption {
	return GameOption{kind: optEngine, engFn: func(e *Engine) { e.log.verbose = v }}
}

// NewTestGame constructs a harness in two ordered passes: configuration
// options first, engine options after construction. The configuration
// starts from Default, so a bare NewTestGame() is a 60-LED, 30 Hz game
// with no controllers connected.
func NewTestGame(opts ...GameOption) *TestGame {
	cfg := config.Default()
	for _, o := range opts {
		if o.kind == optConfig {
			o.cfgFn(cfg)
		}
	}
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("test harness config: %v", err))
	}
	e, err := New(cfg)
	if err != nil {
		panic(fmt.Sprintf("test harness engine: %v", err))
	}
	for _, o := range opts {
		if o.kind == optEngine {
			o.engFn(e)
		}
	}
	return &TestGame{E: e, Cfg: cfg}
}

// RunTicks advances the engine n ticks.
func (tg *TestGame) RunTicks(n int) {
	for i := 0; i < n; i++ {
		tg.E.Tick()
	}
}

// RunUntil advances up to maxTicks, stopping early when predicate holds.
// Returns the tick at which it held, or -1.
func (tg *TestGame) RunUntil(predicate func(*Engine) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		tg.E.Tick()
		if predicate(tg.E) {
			return tg.E.tick
		}
	}
	return -1
}

// Connect plugs in a controller; the event lands on the next tick.
func (tg *TestGame) Connect(controller int) {
	tg.E.Offer(input.Event{Controller: controller, Kind: input.Connect, When: time.Now()})
}

// Disconnect unplugs a controller.
func (tg *TestGame) Disconnect(controller int) {
	tg.E.Offer(input.Event{Controller: controller, Kind: input.Disconnect, When: time.Now()})
}

// Press holds a colour button down on the given controller.
func (tg *TestGame) Press(controller int, c Color) {
	tg.E.Offer(input.Event{Controller: controller, Button: tg.buttonFor(c), Kind: input.Down, When: time.Now()})
}

// Release lets the colour button up.
func (tg *TestGame) Release(controller int, c Color) {
	tg.E.Offer(input.Event{Controller: controller, Button: tg.buttonFor(c), Kind: input.Up, When: time.Now()})
}

// PressStart pushes START down.
func (tg *TestGame) PressStart(controller int) {
	tg.E.Offer(input.Event{Controller: controller, Button: tg.Cfg.Game.Buttons["start"], Kind: input.Down, When: time.Now()})
}

// ReleaseStart lets START up.
func (tg *TestGame) ReleaseStart(controller int) {
	tg.E.Offer(input.Event{Controller: controller, Button: tg.Cfg.Game.Buttons["start"], Kind: input.Up, When: time.Now()})
}

// TapStart performs a press-and-release over a couple of ticks.
func (tg *TestGame) TapStart(controller int) {
	tg.PressStart(controller)
	tg.RunTicks(1)
	tg.ReleaseStart(controller)
	tg.RunTicks(1)
}

func (tg *TestGame) buttonFor(c Color) int {
	return tg.Cfg.Game.Buttons[config.ColorNames[c]]
}

// StartRunning connects n controllers and runs through the countdown so
// the engine lands in Running.
func (tg *TestGame) StartRunning(controllers int) {
	for i := 0; i < controllers; i++ {
		tg.Connect(i)
	}
	if at := tg.RunUntil(func(e *Engine) bool { return e.Mode() == ModeRunning }, tg.E.countdownTicks+4); at < 0 {
		panic("test harness: engine never reached Running")
	}
}

// ClearObstacles empties the live obstacle set, so a scenario can start
// from a clean strip after the countdown.
func (tg *TestGame) ClearObstacles() { tg.E.obstacles.Clear() }

// InjectObstacle places an obstacle directly into the live set, for
// scenario tests that need exact positions rather than curve-driven
// spawns. It also pushes the spawn timer out so the scheduler does not
// interfere with the scripted obstacle.
func (tg *TestGame) InjectObstacle(c Color, pos, vel float64) uint32 {
	tg.E.sched.timer = 1 << 30
	return tg.E.obstacles.Spawn(c, pos, vel, tg.E.tick)
}

// GameSnapshot captures the state the pause round-trip property compares.
type GameSnapshot struct {
	Tick       int
	Mode       Mode
	Score      int
	SpawnTimer int
	Obstacles  []Obstacle
}

// Snapshot copies the comparison-relevant engine state.
func (tg *TestGame) Snapshot() GameSnapshot {
	items := tg.E.obstacles.Items()
	return GameSnapshot{
		Tick:       tg.E.tick,
		Mode:       tg.E.mode,
		Score:      tg.E.session.Score,
		SpawnTimer: tg.E.sched.timer,
		Obstacles:  append([]Obstacle(nil), items...),
	}
}
