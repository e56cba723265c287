// Command sim runs the game against an on-screen strip instead of real
// LEDs. Keys 1-4 are the colour buttons, Enter is START; gamepads plug
// in as additional players. C copies a debug report to the clipboard.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"time"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/rickvanderwolk/led-game/internal/config"
	"github.com/rickvanderwolk/led-game/internal/game"
	"github.com/rickvanderwolk/led-game/internal/input"
)

const (
	windowW = 1280
	windowH = 360

	ledRadius  = 9
	ledSpacing = 21
	ledsPerRow = 60

	padControllerBase = 1 // keyboard is controller 0
)

type keyBinding struct {
	key    ebiten.Key
	button string
}

type sim struct {
	eng *game.Engine
	cfg *config.Config

	keys   []keyBinding
	copied time.Time
}

func newSim(cfg *config.Config, eng *game.Engine) *sim {
	return &sim{
		eng: eng,
		cfg: cfg,
		keys: []keyBinding{
			{ebiten.Key1, "yellow"},
			{ebiten.Key2, "red"},
			{ebiten.Key3, "green"},
			{ebiten.Key4, "blue"},
			{ebiten.KeyEnter, "start"},
		},
	}
}

func (s *sim) Update() error {
	now := time.Now()

	for _, kb := range s.keys {
		btn := s.cfg.Game.Buttons[kb.button]
		if inpututil.IsKeyJustPressed(kb.key) {
			s.eng.Offer(input.Event{Controller: 0, Button: btn, Kind: input.Down, When: now})
		}
		if inpututil.IsKeyJustReleased(kb.key) {
			s.eng.Offer(input.Event{Controller: 0, Button: btn, Kind: input.Up, When: now})
		}
	}

	for _, id := range inpututil.AppendJustConnectedGamepadIDs(nil) {
		s.eng.Offer(input.Event{Controller: padControllerBase + int(id), Kind: input.Connect, When: now})
	}
	var pads []ebiten.GamepadID
	pads = ebiten.AppendGamepadIDs(pads)
	for _, id := range pads {
		if inpututil.IsGamepadJustDisconnected(id) {
			s.eng.Offer(input.Event{Controller: padControllerBase + int(id), Kind: input.Disconnect, When: now})
			continue
		}
		max := ebiten.GamepadButtonCount(id)
		for b := 0; b < max; b++ {
			gb := ebiten.GamepadButton(b)
			if inpututil.IsGamepadButtonJustPressed(id, gb) {
				s.eng.Offer(input.Event{Controller: padControllerBase + int(id), Button: b, Kind: input.Down, When: now})
			}
			if inpututil.IsGamepadButtonJustReleased(id, gb) {
				s.eng.Offer(input.Event{Controller: padControllerBase + int(id), Button: b, Kind: input.Up, When: now})
			}
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		if err := clipboard.WriteAll(s.eng.DebugReport()); err != nil {
			log.Printf("clipboard: %v", err)
		} else {
			s.copied = now
		}
	}

	s.eng.Tick()
	return nil
}

func (s *sim) Draw(screen *ebiten.Image) {
	frame := s.eng.Frame()
	for i, px := range frame {
		row := i / ledsPerRow
		col := i % ledsPerRow
		x := float32(20 + col*ledSpacing)
		y := float32(40 + row*2*ledSpacing)
		c := color.RGBA{R: px.R, G: px.G, B: px.B, A: 0xff}
		if px.R == 0 && px.G == 0 && px.B == 0 {
			c = color.RGBA{R: 0x18, G: 0x18, B: 0x18, A: 0xff}
		}
		vector.DrawFilledCircle(screen, x, y, ledRadius, c, true)
	}

	sess := s.eng.Session()
	diff := s.eng.Difficulty()
	hud := fmt.Sprintf("mode=%s  score=%d  best=%d  tier=%d  %.3fs/LED  unlocked=%s  seats=%d",
		s.eng.Mode(), sess.Score, s.eng.Best(), diff.Tier, diff.Step, diff.Unlocked, len(s.eng.Seats()))
	ebitenutil.DebugPrintAt(screen, hud, 20, windowH-60)
	ebitenutil.DebugPrintAt(screen, "1-4 colour buttons | Enter START (tap pause, hold restart) | C copy debug report", 20, windowH-40)
	if !s.copied.IsZero() && time.Since(s.copied) < 2*time.Second {
		ebitenutil.DebugPrintAt(screen, "debug report copied", 20, windowH-20)
	}
}

func (s *sim) Layout(_, _ int) (int, int) { return windowW, windowH }

func main() {
	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "path to config file (default built-in)")
	flag.Parse()

	cfg := config.Default()
	if cfgPath != "" {
		loaded, err := config.Load(cfgPath)
		if err != nil {
			log.Fatalf("config: %v", err)
		}
		cfg = loaded
	}

	eng, err := game.New(cfg)
	if err != nil {
		log.Fatalf("engine: %v", err)
	}
	// The keyboard player is always present.
	eng.Offer(input.Event{Controller: 0, Kind: input.Connect, When: time.Now()})

	ebiten.SetTPS(cfg.Game.TickRate)
	ebiten.SetWindowSize(windowW, windowH)
	ebiten.SetWindowTitle("led-game sim")
	if err := ebiten.RunGame(newSim(cfg, eng)); err != nil {
		log.Fatal(err)
	}
}
