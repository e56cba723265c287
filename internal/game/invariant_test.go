package game

import (
	"testing"

	"github.com/rickvanderwolk/led-game/internal/config"
)

// The judge must see every obstacle at least once inside the zone: even
// at the curve's top speed, one tick of travel never steps across the
// zone diameter. Checked here with the fastest possible obstacle at
// several fractional phases.
func TestInvariant_NoTunnelingAtTopSpeed(t *testing.T) {
	cfg := config.Default()
	maxVel := 1.0 / (minStep * float64(cfg.Game.TickRate))

	for _, offset := range []float64{0, 0.25, 0.5, 0.75} {
		tg := NewTestGame(WithSeed(42))
		tg.StartRunning(1)
		tg.ClearObstacles()
		tg.InjectObstacle(Yellow, 40+offset, -maxVel)

		if tg.RunUntil(func(e *Engine) bool { return e.Mode() == ModeGameOver }, 60) < 0 {
			t.Fatalf("offset %.2f: obstacle at top speed tunneled through the zone", offset)
		}
		obstacles := tg.E.Obstacles()
		if len(obstacles) != 1 {
			t.Fatalf("offset %.2f: %d obstacles after the miss, want the fatal one", offset, len(obstacles))
		}
		center := float64(cfg.LED.Count / 2)
		dist := obstacles[0].Pos - center
		if dist < 0 {
			dist = -dist
		}
		if dist > float64(cfg.Game.ZoneRadius) {
			t.Errorf("offset %.2f: fatal obstacle judged at %.2f, outside the zone", offset, obstacles[0].Pos)
		}
	}
}

// New must reject a configuration whose top speed could cross the zone
// between judgments, since Validate alone cannot know the curve floor.
func TestInvariant_NewRejectsTunnelingConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Game.TickRate = 5 // 4 LEDs/tick at the floor vs a 2 LED zone
	if _, err := New(cfg); err == nil {
		t.Fatal("New accepted a config where obstacles can tunnel")
	}
}

// Frames must always span the whole strip, in every mode.
func TestInvariant_FrameSpansStripInEveryMode(t *testing.T) {
	tg := NewTestGame(WithSeed(42))
	tg.Connect(0)

	seen := map[Mode]bool{}
	for i := 0; i < 400; i++ {
		tg.RunTicks(1)
		seen[tg.E.Mode()] = true
		if got := len(tg.E.Frame()); got != tg.Cfg.LED.Count {
			t.Fatalf("tick %d (%s): frame length %d, want %d", i, tg.E.Mode(), got, tg.Cfg.LED.Count)
		}
	}
	for _, m := range []Mode{ModeCountdown, ModeRunning, ModeGameOver, ModeScoreDisplay} {
		if !seen[m] {
			t.Errorf("400 idle-player ticks never reached %s", m)
		}
	}
}

// Score is monotonic within a session and the log records every mode
// transition of the standard lifecycle.
func TestInvariant_LifecycleIsLogged(t *testing.T) {
	tg := NewTestGame(WithSeed(42))
	tg.Connect(0)
	tg.RunUntil(func(e *Engine) bool { return e.Mode() == ModeScoreDisplay }, 2000)

	sl := tg.E.Log()
	for _, want := range []string{"idle → countdown", "countdown → running", "running → gameover", "gameover → score"} {
		if sl.FirstTick("mode", "change", want) < 0 {
			t.Errorf("lifecycle transition %q not logged", want)
		}
	}
}
