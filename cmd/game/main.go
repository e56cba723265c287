package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rickvanderwolk/led-game/internal/config"
	"github.com/rickvanderwolk/led-game/internal/game"
	"github.com/rickvanderwolk/led-game/internal/input"
	"github.com/rickvanderwolk/led-game/internal/led"
)

// gpioChip is the Pi's main GPIO controller.
const gpioChip = "gpiochip0"

func main() {
	// os.Exit skips defers, so all the work happens in run and main
	// exits only after the strip and sources are released.
	os.Exit(run())
}

func run() int {
	var cfgPath string
	flag.StringVar(&cfgPath, "config", "config.json", "path to config file")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Printf("config: %v", err)
		return 2
	}

	eng, err := game.New(cfg)
	if err != nil {
		log.Printf("engine: %v", err)
		return 2
	}

	strip, err := led.OpenWS281x(cfg.LED)
	if err != nil {
		log.Printf("strip: %v", err)
		return 1
	}
	defer strip.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sources := []input.Source{input.OpenJoysticks(33 * time.Millisecond)}
	if len(cfg.Game.GPIOButtons) > 0 {
		// Config maps button names to line offsets; the driver wants
		// line offset to button id.
		offsets := make(map[int]int, len(cfg.Game.GPIOButtons))
		for name, offset := range cfg.Game.GPIOButtons {
			offsets[offset] = cfg.Game.Buttons[name]
		}
		gpio, err := input.OpenGPIOButtons(gpioChip, offsets)
		if err != nil {
			log.Printf("gpio: %v (continuing with joysticks only)", err)
		} else {
			sources = append(sources, gpio)
		}
	}
	for _, src := range sources {
		defer src.Close()
		go pump(ctx, src, eng)
	}

	log.Printf("led-game: %d LEDs on pin %d, %d Hz", cfg.LED.Count, cfg.LED.Pin, cfg.Game.TickRate)
	if err := eng.Run(ctx, strip); err != nil {
		log.Printf("run: %v", err)
		return 1
	}
	return 0
}

func pump(ctx context.Context, src input.Source, eng *game.Engine) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-src.Events():
			if !ok {
				return
			}
			eng.Offer(ev)
		}
	}
}
