package game

import (
	"github.com/rickvanderwolk/led-game/internal/config"
)

// stepPerTier is how many seconds-per-LED each tier shaves off the pace.
const stepPerTier = 0.015

// minStep is the pace floor in seconds per LED.
const minStep = 0.05

// minSpawnGap is the smallest spacing between spawns, in LEDs.
const minSpawnGap = 3

// Difficulty is the curve output at a given score. Velocity grows and
// SpawnIntervalTicks shrinks monotonically with score; Unlocked only ever
// gains colours.
type Difficulty struct {
	Tier               int
	Step               float64 // seconds per LED at this tier
	Velocity           float64 // LEDs per tick
	SpawnIntervalTicks int
	Unlocked           ColorSet
}

// Curve is a pure function of score. seats floors the unlocked-colour
// count so every connected player owns at least one colour from the first
// Running tick; obstacles are always drawn from the unlocked set only.
func Curve(cfg *config.Config, score, seats int) Difficulty {
	g := &cfg.Game
	tier := tierFor(g.DifficultyThresholds, g.OpenTierStep, score)

	step := g.InitialSpeed - float64(tier)*stepPerTier
	if step < minStep {
		step = minStep
	}
	velocity := 1.0 / (step * float64(g.TickRate))

	// The opening gap is half the strip, so two obstacles fit from the
	// start; later tiers pack tighter.
	div := tier
	if div < 2 {
		div = 2
	}
	gap := cfg.LED.Count / div
	if gap < minSpawnGap {
		gap = minSpawnGap
	}
	interval := int(float64(gap) / velocity)
	if interval < 1 {
		interval = 1
	}

	unlocked := 1
	for _, at := range g.ColorUnlocks {
		if score >= at {
			unlocked++
		}
	}
	if unlocked < seats {
		unlocked = seats
	}

	return Difficulty{
		Tier:               tier,
		Step:               step,
		Velocity:           velocity,
		SpawnIntervalTicks: interval,
		Unlocked:           FirstN(unlocked),
	}
}

// tierFor maps a score onto a tier: thresholds hold the score ceiling of
// tiers 1..len, then one extra tier per openStep points.
func tierFor(thresholds []int, openStep, score int) int {
	for i, limit := range thresholds {
		if score <= limit {
			return i + 1
		}
	}
	last := thresholds[len(thresholds)-1]
	return len(thresholds) + (score-last)/openStep
}
