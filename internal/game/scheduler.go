package game

import "math/rand"

// scheduler owns the spawn timer. The interval is re-read from the curve
// at every spawn so speed-ups apply to subsequent spawns immediately,
// while in-flight obstacles keep the velocity they were born with.
type scheduler struct {
	timer    int // ticks until the next spawn attempt
	nextLeft bool
	rng      *rand.Rand
}

func newScheduler(rng *rand.Rand) *scheduler {
	// First spawn fires on the first Running tick.
	return &scheduler{timer: 1, rng: rng}
}

func (sc *scheduler) reset() {
	sc.timer = 1
	sc.nextLeft = false
}

// advance moves all obstacles one tick and spawns when the timer elapses.
// count is the strip length, side the configured spawn side. A spawn is
// held back one tick while its cell is still occupied, which keeps two
// obstacles from ever sharing a pixel at birth.
func (sc *scheduler) advance(obs *ObstacleSet, diff Difficulty, count int, side string, tick int, log *SimLog) {
	obs.Advance()

	sc.timer--
	if sc.timer > 0 {
		return
	}

	pos, vel := sc.spawnPoint(count, side, diff.Velocity)
	if obs.CellOccupied(int(pos)) {
		sc.timer = 1 // retry next tick
		return
	}

	colors := diff.Unlocked.Colors()
	c := colors[sc.rng.Intn(len(colors))]
	id := obs.Spawn(c, pos, vel, tick)
	sc.timer = diff.SpawnIntervalTicks

	log.Add(tick, "running", "--", "spawn", "obstacle",
		c.String(), float64(id))
}

// spawnPoint picks the entry pixel and signed velocity for the next
// obstacle. "both" alternates ends.
func (sc *scheduler) spawnPoint(count int, side string, speed float64) (pos, vel float64) {
	left := side == "left"
	if side == "both" {
		left = sc.nextLeft
		sc.nextLeft = !sc.nextLeft
	}
	if left {
		return 0, speed
	}
	return float64(count - 1), -speed
}
