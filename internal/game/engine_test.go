package game

import (
	"context"
	"strings"
	"testing"
)

type captureDriver struct {
	frames []Frame
}

func (d *captureDriver) Render(f Frame) error {
	cp := make(Frame, len(f))
	copy(cp, f)
	d.frames = append(d.frames, cp)
	return nil
}

// Whatever way Run exits, the last thing on the strip must be darkness.
func TestRun_BlanksStripOnExit(t *testing.T) {
	tg := NewTestGame(WithSeed(42))
	drv := &captureDriver{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := tg.E.Run(ctx, drv); err != nil {
		t.Fatalf("Run = %v", err)
	}

	if len(drv.frames) == 0 {
		t.Fatal("no frame rendered on exit")
	}
	last := drv.frames[len(drv.frames)-1]
	if len(last) != tg.Cfg.LED.Count {
		t.Fatalf("final frame length %d", len(last))
	}
	for i, px := range last {
		if px != rgbOff {
			t.Fatalf("pixel %d still lit after exit: %+v", i, px)
		}
	}
}

func TestFrame_GameOverShowsFatalThenBlinks(t *testing.T) {
	tg := NewTestGame(WithSeed(42))
	tg.StartRunning(1)
	tg.ClearObstacles()
	tg.InjectObstacle(Red, 34, -0.1)
	if tg.RunUntil(func(e *Engine) bool { return e.Mode() == ModeGameOver }, 120) < 0 {
		t.Fatal("setup miss failed")
	}

	// First the fatal obstacle stays visible at its resting pixel.
	f := tg.E.Frame()
	cell := tg.E.Obstacles()[0].Cell()
	if f[cell] != Red.RGB() {
		t.Errorf("fatal pixel = %+v, want red", f[cell])
	}

	// Then the whole strip blinks in the fail colour.
	tg.RunTicks(tg.E.fatalFrameTicks + 1)
	f = tg.E.Frame()
	fail := toRGB(tg.Cfg.Game.FailColor)
	if f[0] != fail || f[len(f)-1] != fail {
		t.Errorf("blink frame = %+v / %+v, want fail colour", f[0], f[len(f)-1])
	}
}

func TestFrame_ScoreDisplayVariants(t *testing.T) {
	for _, variant := range []string{"digits", "bar"} {
		tg := NewTestGame(WithSeed(42), WithScoreDisplay(variant))
		tg.StartRunning(1)
		tg.ClearObstacles()

		// Score two, then lose.
		for i := 0; i < 2; i++ {
			tg.InjectObstacle(Red, 34, -0.1)
			tg.Press(0, Red)
			want := i + 1
			if tg.RunUntil(func(e *Engine) bool { return e.Session().Score == want }, 120) < 0 {
				t.Fatalf("%s: setup dodge %d failed", variant, want)
			}
			tg.Release(0, Red)
			tg.RunTicks(1)
		}
		tg.InjectObstacle(Blue, 34, -0.1)
		if tg.RunUntil(func(e *Engine) bool { return e.Mode() == ModeScoreDisplay }, 300) < 0 {
			t.Fatalf("%s: never reached the score display", variant)
		}

		f := tg.E.Frame()
		lit := 0
		for _, px := range f {
			if px != rgbOff {
				lit++
			}
		}
		switch variant {
		case "digits":
			if lit != 2 {
				t.Errorf("digits: %d pixels lit for score 2, want 2", lit)
			}
		case "bar":
			if lit != 2 {
				t.Errorf("bar: %d pixels lit for score 2, want 2", lit)
			}
		}
	}
}

func TestDebugReport_CarriesCoreState(t *testing.T) {
	tg := NewTestGame(WithSeed(42))
	tg.StartRunning(1)
	tg.RunTicks(20)

	rep := tg.E.DebugReport()
	for _, want := range []string{"mode=running", "P1", "tier"} {
		if !strings.Contains(rep, want) {
			t.Errorf("debug report missing %q:\n%s", want, rep)
		}
	}
}
