//go:build linux && cgo

package led

import (
	"fmt"

	ws2811 "github.com/rpi-ws281x/rpi-ws281x-go"

	"github.com/rickvanderwolk/led-game/internal/config"
	"github.com/rickvanderwolk/led-game/internal/game"
)

// WS281x drives an addressable strip through the PWM/PCM peripheral on
// a Raspberry Pi. Render must be called from a single goroutine.
type WS281x struct {
	dev   *ws2811.WS2811
	count int
}

// OpenWS281x initialises the strip described by cfg. The wrapped error
// is ErrInit so callers can distinguish hardware failure from config
// problems.
func OpenWS281x(cfg config.LED) (*WS281x, error) {
	opt := ws2811.DefaultOptions
	opt.Channels[0].GpioPin = cfg.Pin
	opt.Channels[0].LedCount = cfg.Count
	opt.Channels[0].Brightness = cfg.Brightness

	dev, err := ws2811.MakeWS2811(&opt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInit, err)
	}
	if err := dev.Init(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInit, err)
	}
	return &WS281x{dev: dev, count: cfg.Count}, nil
}

// Render pushes a frame to the strip. Frames shorter than the strip
// leave the tail untouched; longer frames are truncated.
func (w *WS281x) Render(f game.Frame) error {
	leds := w.dev.Leds(0)
	n := len(f)
	if n > w.count {
		n = w.count
	}
	for i := 0; i < n; i++ {
		leds[i] = uint32(f[i].R)<<16 | uint32(f[i].G)<<8 | uint32(f[i].B)
	}
	return w.dev.Render()
}

// Close blanks the strip and releases the peripheral.
func (w *WS281x) Close() error {
	leds := w.dev.Leds(0)
	for i := range leds {
		leds[i] = 0
	}
	if err := w.dev.Render(); err != nil {
		w.dev.Fini()
		return err
	}
	w.dev.Fini()
	return nil
}
