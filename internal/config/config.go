// Package config loads and validates the resolved game configuration.
// The file shape matches the original config.json: a top-level "led"
// object for the strip hardware and a "game" object for gameplay tuning.
// A .env file (or the process environment) may override a small set of
// values via LEDGAME_* variables; see applyEnv.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// ErrInvalid wraps every validation failure so callers can detect a bad
// configuration with errors.Is.
var ErrInvalid = errors.New("invalid configuration")

// validPins are the GPIO pins with PWM/PCM routing usable for a WS281x
// data line on a Raspberry Pi.
var validPins = map[int]bool{12: true, 13: true, 18: true, 21: true}

// ColorNames lists the obstacle colours in unlock order. Button mappings
// and GPIO mappings are keyed by these names.
var ColorNames = []string{"yellow", "red", "green", "blue"}

// ColorValue is an RGB triple as it appears in the config file.
type ColorValue struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// LED configures the strip hardware.
type LED struct {
	Count      int `json:"count"`
	Pin        int `json:"pin"`
	Brightness int `json:"brightness"` // 1..255, never clamped silently
}

// Game configures gameplay tuning. Fields absent from the file are
// filled from Default; an explicit zero is kept and must pass Validate.
type Game struct {
	TickRate int `json:"tick_rate"` // simulation ticks per second

	// Buttons maps colour names plus "start" to controller button ids.
	Buttons map[string]int `json:"buttons"`

	// GPIOButtons optionally maps colour names plus "start" to GPIO line
	// offsets for wired arcade buttons. Empty means no GPIO input.
	GPIOButtons map[string]int `json:"gpio_buttons,omitempty"`

	PlayerColor ColorValue `json:"player_color"`
	FailColor   ColorValue `json:"fail_color"`

	// InitialSpeed is the starting obstacle pace in seconds per LED.
	InitialSpeed float64 `json:"initial_speed"`

	// DifficultyThresholds are the score ceilings of the first tiers;
	// past the last one a new tier unlocks every OpenTierStep points.
	DifficultyThresholds []int `json:"difficulty_thresholds"`
	OpenTierStep         int   `json:"open_tier_step"`

	// ColorUnlocks are the scores at which the 2nd, 3rd and 4th colour
	// join the obstacle palette.
	ColorUnlocks []int `json:"color_unlocks"`

	ZoneRadius int `json:"zone_radius"` // player zone half-width in LEDs
	FadeLength int `json:"fade_length"` // obstacle trail length, cosmetic

	SpawnSide      string `json:"spawn_side"`      // "left", "right" or "both"
	ScoreDisplay   string `json:"score_display"`   // "digits" or "bar"
	TopologyChange string `json:"topology_change"` // "remap" or "restart"
}

// Config is the resolved configuration handed to the engine. The engine
// treats it as immutable for the process lifetime.
type Config struct {
	LED  LED  `json:"led"`
	Game Game `json:"game"`
}

// Default returns the configuration used when fields are absent from the
// file. Button ids follow an SNES-layout USB pad: A=0 B=1 X=2 Y=3.
func Default() *Config {
	return &Config{
		LED: LED{
			Count:      60,
			Pin:        18,
			Brightness: 50,
		},
		Game: Game{
			TickRate: 30,
			Buttons: map[string]int{
				"yellow": 3, // Y
				"red":    1, // B
				"green":  0, // A
				"blue":   2, // X
				"start":  9,
			},
			PlayerColor:          ColorValue{R: 255, G: 255, B: 255},
			FailColor:            ColorValue{R: 255, G: 0, B: 0},
			InitialSpeed:         0.25,
			DifficultyThresholds: []int{2, 5, 9, 14, 20},
			OpenTierStep:         8,
			ColorUnlocks:         []int{6, 12, 18},
			ZoneRadius:           1,
			FadeLength:           0,
			SpawnSide:            "right",
			ScoreDisplay:         "digits",
			TopologyChange:       "remap",
		},
	}
}

// Load reads path, fills absent fields from Default, applies LEDGAME_*
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var file fileConfig
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrInvalid, path, err)
	}
	cfg := Default()
	file.merge(cfg)

	// A .env next to the working directory is optional.
	_ = godotenv.Load()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// fileConfig mirrors Config with pointer fields so an absent value can be
// told apart from an explicit zero. Absent fields fall back to Default;
// present values, zero included, reach Validate untouched. Maps and
// slices replace wholesale when present.
type fileConfig struct {
	LED struct {
		Count      *int `json:"count"`
		Pin        *int `json:"pin"`
		Brightness *int `json:"brightness"`
	} `json:"led"`
	Game struct {
		TickRate             *int           `json:"tick_rate"`
		Buttons              map[string]int `json:"buttons"`
		GPIOButtons          map[string]int `json:"gpio_buttons"`
		PlayerColor          *ColorValue    `json:"player_color"`
		FailColor            *ColorValue    `json:"fail_color"`
		InitialSpeed         *float64       `json:"initial_speed"`
		DifficultyThresholds []int          `json:"difficulty_thresholds"`
		OpenTierStep         *int           `json:"open_tier_step"`
		ColorUnlocks         []int          `json:"color_unlocks"`
		ZoneRadius           *int           `json:"zone_radius"`
		FadeLength           *int           `json:"fade_length"`
		SpawnSide            *string        `json:"spawn_side"`
		ScoreDisplay         *string        `json:"score_display"`
		TopologyChange       *string        `json:"topology_change"`
	} `json:"game"`
}

func override[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// merge copies every present file field onto the defaults in c.
func (f *fileConfig) merge(c *Config) {
	override(&c.LED.Count, f.LED.Count)
	override(&c.LED.Pin, f.LED.Pin)
	override(&c.LED.Brightness, f.LED.Brightness)
	g := &c.Game
	override(&g.TickRate, f.Game.TickRate)
	if f.Game.Buttons != nil {
		g.Buttons = f.Game.Buttons
	}
	if f.Game.GPIOButtons != nil {
		g.GPIOButtons = f.Game.GPIOButtons
	}
	override(&g.PlayerColor, f.Game.PlayerColor)
	override(&g.FailColor, f.Game.FailColor)
	override(&g.InitialSpeed, f.Game.InitialSpeed)
	if f.Game.DifficultyThresholds != nil {
		g.DifficultyThresholds = f.Game.DifficultyThresholds
	}
	override(&g.OpenTierStep, f.Game.OpenTierStep)
	if f.Game.ColorUnlocks != nil {
		g.ColorUnlocks = f.Game.ColorUnlocks
	}
	override(&g.ZoneRadius, f.Game.ZoneRadius)
	override(&g.FadeLength, f.Game.FadeLength)
	override(&g.SpawnSide, f.Game.SpawnSide)
	override(&g.ScoreDisplay, f.Game.ScoreDisplay)
	override(&g.TopologyChange, f.Game.TopologyChange)
}

// applyEnv overrides individual values from LEDGAME_* variables.
func (c *Config) applyEnv() error {
	if err := envInt("LEDGAME_LED_COUNT", &c.LED.Count); err != nil {
		return err
	}
	if err := envInt("LEDGAME_LED_PIN", &c.LED.Pin); err != nil {
		return err
	}
	if err := envInt("LEDGAME_LED_BRIGHTNESS", &c.LED.Brightness); err != nil {
		return err
	}
	if err := envInt("LEDGAME_TICK_RATE", &c.Game.TickRate); err != nil {
		return err
	}
	if v := os.Getenv("LEDGAME_SPAWN_SIDE"); v != "" {
		c.Game.SpawnSide = v
	}
	if v := os.Getenv("LEDGAME_SCORE_DISPLAY"); v != "" {
		c.Game.ScoreDisplay = v
	}
	if v := os.Getenv("LEDGAME_TOPOLOGY_CHANGE"); v != "" {
		c.Game.TopologyChange = v
	}
	return nil
}

func envInt(name string, dst *int) error {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%w: %s=%q is not an integer", ErrInvalid, name, v)
	}
	*dst = n
	return nil
}

// Validate rejects unsafe or nonsensical values. Safety-relevant values
// (brightness, pin, LED count) are never clamped; cosmetic ones (zone
// radius, fade length) are clamped with a logged warning.
func (c *Config) Validate() error {
	if c.LED.Count < 10 || c.LED.Count > 1024 {
		return fmt.Errorf("%w: led.count %d out of range 10..1024", ErrInvalid, c.LED.Count)
	}
	if !validPins[c.LED.Pin] {
		return fmt.Errorf("%w: led.pin %d not usable (use 12, 13, 18 or 21)", ErrInvalid, c.LED.Pin)
	}
	if c.LED.Brightness < 1 || c.LED.Brightness > 255 {
		return fmt.Errorf("%w: led.brightness %d out of range 1..255", ErrInvalid, c.LED.Brightness)
	}
	g := &c.Game
	if g.TickRate < 10 || g.TickRate > 60 {
		return fmt.Errorf("%w: game.tick_rate %d out of range 10..60", ErrInvalid, g.TickRate)
	}
	if g.InitialSpeed < 0.05 || g.InitialSpeed > 2.0 {
		return fmt.Errorf("%w: game.initial_speed %.3f out of range 0.05..2.0", ErrInvalid, g.InitialSpeed)
	}
	if err := validButtons(g.Buttons, "game.buttons"); err != nil {
		return err
	}
	if len(g.GPIOButtons) > 0 {
		if err := validButtons(g.GPIOButtons, "game.gpio_buttons"); err != nil {
			return err
		}
	}
	if !ascending(g.DifficultyThresholds) || len(g.DifficultyThresholds) == 0 {
		return fmt.Errorf("%w: game.difficulty_thresholds must be non-empty and strictly ascending", ErrInvalid)
	}
	if g.OpenTierStep < 1 {
		return fmt.Errorf("%w: game.open_tier_step %d must be >= 1", ErrInvalid, g.OpenTierStep)
	}
	if len(g.ColorUnlocks) != len(ColorNames)-1 || !ascending(g.ColorUnlocks) {
		return fmt.Errorf("%w: game.color_unlocks needs %d strictly ascending scores", ErrInvalid, len(ColorNames)-1)
	}
	switch g.SpawnSide {
	case "left", "right", "both":
	default:
		return fmt.Errorf("%w: game.spawn_side %q (use left, right or both)", ErrInvalid, g.SpawnSide)
	}
	switch g.ScoreDisplay {
	case "digits", "bar":
	default:
		return fmt.Errorf("%w: game.score_display %q (use digits or bar)", ErrInvalid, g.ScoreDisplay)
	}
	switch g.TopologyChange {
	case "remap", "restart":
	default:
		return fmt.Errorf("%w: game.topology_change %q (use remap or restart)", ErrInvalid, g.TopologyChange)
	}

	// Cosmetic clamps.
	if g.ZoneRadius < 1 {
		log.Printf("config: clamping game.zone_radius %d to 1", g.ZoneRadius)
		g.ZoneRadius = 1
	}
	if max := c.LED.Count / 4; g.ZoneRadius > max {
		log.Printf("config: clamping game.zone_radius %d to %d", g.ZoneRadius, max)
		g.ZoneRadius = max
	}
	if g.FadeLength < 0 {
		log.Printf("config: clamping game.fade_length %d to 0", g.FadeLength)
		g.FadeLength = 0
	}
	if g.FadeLength > 8 {
		log.Printf("config: clamping game.fade_length %d to 8", g.FadeLength)
		g.FadeLength = 8
	}
	return nil
}

// validButtons checks that every colour plus "start" is mapped and that no
// two names share an id.
func validButtons(m map[string]int, field string) error {
	seen := map[int]string{}
	for _, name := range append(append([]string{}, ColorNames...), "start") {
		id, ok := m[name]
		if !ok {
			return fmt.Errorf("%w: %s missing %q", ErrInvalid, field, name)
		}
		if id < 0 {
			return fmt.Errorf("%w: %s[%q] = %d is negative", ErrInvalid, field, name, id)
		}
		if prev, dup := seen[id]; dup {
			return fmt.Errorf("%w: %s: %q and %q share id %d", ErrInvalid, field, prev, name, id)
		}
		seen[id] = name
	}
	return nil
}

func ascending(xs []int) bool {
	for i := 1; i < len(xs); i++ {
		if xs[i] <= xs[i-1] {
			return false
		}
	}
	return true
}
