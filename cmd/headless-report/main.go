package main

import (
	"flag"
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"github.com/rickvanderwolk/led-game/internal/game"
)

type runStats struct {
	runIndex int
	seed     int64

	firstSpawnTick  int
	firstDodgeTick  int
	firstMissTick   int
	firstTierUpTick int

	spawns     int
	dodges     int
	misses     int
	tierUps    int
	sessions   int
	bestScore  int
	maxTier    int
	fumbles    int
	windowSumm *game.WindowReport
}

func main() {
	var runs int
	var ticks int
	var players int
	var ledCount int
	var tickRate int
	var skill float64
	var seedBase int64
	var seedStep int64

	flag.IntVar(&runs, "runs", 5, "number of headless game runs")
	flag.IntVar(&ticks, "ticks", 3600, "ticks per run")
	flag.IntVar(&players, "players", 1, "connected controllers (1-4)")
	flag.IntVar(&ledCount, "leds", 60, "strip length")
	flag.IntVar(&tickRate, "tick-rate", 30, "simulation rate in Hz")
	flag.Float64Var(&skill, "skill", 0.85, "per-obstacle chance the bot reacts in time")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		return
	}
	if players < 1 || players > 4 {
		fmt.Println("error: -players must be 1-4")
		return
	}
	if skill < 0 || skill > 1 {
		fmt.Println("error: -skill must be in [0,1]")
		return
	}

	fmt.Printf("=== Headless Dodge Report ===\n")
	fmt.Printf("runs=%d ticks=%d players=%d leds=%d tick_rate=%d skill=%.2f seed_base=%d seed_step=%d\n\n",
		runs, ticks, players, ledCount, tickRate, skill, seedBase, seedStep)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		stats := runBotGame(i+1, seed, ticks, players, ledCount, tickRate, skill)
		all = append(all, stats)
		printRun(stats)
	}

	printAggregate(all)
}

// runBotGame plays one seeded game with a scripted bot. The bot watches
// obstacles approaching the zone and, per obstacle, rolls once against
// the skill flag; on success it holds the owning seat's button while the
// obstacle is near the zone, on failure it ignores that obstacle.
func runBotGame(runIndex int, seed int64, ticks, players, ledCount, tickRate int, skill float64) runStats {
	tg := game.NewTestGame(
		game.WithLEDCount(ledCount),
		game.WithTickRate(tickRate),
		game.WithSeed(seed),
	)
	tg.StartRunning(players)

	botRng := rand.New(rand.NewSource(seed ^ 0x5eed)) // #nosec G404 -- scripted bot
	decided := map[uint32]bool{}                      // obstacle id -> will react
	fumbles := 0
	bestScore := 0
	maxTier := 0
	sessions := 1

	zoneCenter := float64(ledCount-1) / 2
	reach := float64(tg.Cfg.Game.ZoneRadius) + 2 // start holding slightly early

	held := map[int]game.ColorSet{} // controller -> held colours
	startHeld := false

	for t := 0; t < ticks; t++ {
		e := tg.E
		switch e.Mode() {
		case game.ModeRunning:
			wanted := map[int]game.ColorSet{}
			for _, o := range e.Obstacles() {
				react, ok := decided[o.ID]
				if !ok {
					react = botRng.Float64() < skill
					decided[o.ID] = react
					if !react {
						fumbles++
					}
				}
				if !react {
					continue
				}
				dist := o.Pos - zoneCenter
				if dist < 0 {
					dist = -dist
				}
				if dist > reach {
					continue
				}
				if ctrl, ok := seatControllerFor(e.Seats(), o.Color); ok {
					ws := wanted[ctrl]
					ws.Add(o.Color)
					wanted[ctrl] = ws
				}
			}
			for ctrl, hs := range held {
				for _, c := range hs.Colors() {
					if !wanted[ctrl].Has(c) {
						tg.Release(ctrl, c)
						hs.Remove(c)
					}
				}
				held[ctrl] = hs
			}
			for ctrl, ws := range wanted {
				hs := held[ctrl]
				for _, c := range ws.Colors() {
					if !hs.Has(c) {
						tg.Press(ctrl, c)
						hs.Add(c)
					}
				}
				held[ctrl] = hs
			}
		case game.ModeGameOver, game.ModeScoreDisplay:
			// Drop everything and ask for another session.
			for ctrl, hs := range held {
				for _, c := range hs.Colors() {
					tg.Release(ctrl, c)
				}
				delete(held, ctrl)
			}
			if e.Mode() == game.ModeScoreDisplay {
				// Tap START every tick; the engine restarts once the score
				// hold period has elapsed.
				if startHeld {
					tg.ReleaseStart(0)
				} else {
					tg.PressStart(0)
				}
				startHeld = !startHeld
			}
		case game.ModeCountdown:
			if startHeld {
				tg.ReleaseStart(0)
				startHeld = false
			}
		}

		tg.RunTicks(1)

		if s := tg.E.Session().Score; s > bestScore {
			bestScore = s
		}
		if tr := tg.E.Session().Tier; tr > maxTier {
			maxTier = tr
		}
	}

	sl := tg.E.Log()
	sessions += sl.CountCategory("judge", "miss") // each miss ends a session

	return runStats{
		runIndex:        runIndex,
		seed:            seed,
		firstSpawnTick:  sl.FirstTick("spawn", "obstacle", ""),
		firstDodgeTick:  sl.FirstTick("judge", "dodge", ""),
		firstMissTick:   sl.FirstTick("judge", "miss", ""),
		firstTierUpTick: sl.FirstTick("curve", "tier", ""),
		spawns:          sl.CountCategory("spawn", "obstacle"),
		dodges:          sl.CountCategory("judge", "dodge"),
		misses:          sl.CountCategory("judge", "miss"),
		tierUps:         sl.CountCategory("curve", "tier"),
		sessions:        sessions,
		bestScore:       bestScore,
		maxTier:         maxTier,
		fumbles:         fumbles,
		windowSumm:      tg.E.Reporter().WindowSummary(),
	}
}

func seatControllerFor(seats []game.Seat, c game.Color) (int, bool) {
	for _, s := range seats {
		if s.Colors.Has(c) {
			return s.Controller, true
		}
	}
	return 0, false
}

func printRun(rs runStats) {
	fmt.Printf("--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Printf("phase_markers: first_spawn=%d first_dodge=%d first_miss=%d first_tier_up=%d\n",
		rs.firstSpawnTick, rs.firstDodgeTick, rs.firstMissTick, rs.firstTierUpTick)
	fmt.Printf("event_totals: spawns=%d dodges=%d misses=%d tier_ups=%d bot_fumbles=%d\n",
		rs.spawns, rs.dodges, rs.misses, rs.tierUps, rs.fumbles)
	fmt.Printf("outcome: sessions=%d best_score=%d max_tier=%d\n",
		rs.sessions, rs.bestScore, rs.maxTier)
	if rs.windowSumm != nil {
		fmt.Print(rs.windowSumm.Format())
	}
	fmt.Println()
}

func printAggregate(all []runStats) {
	totalSpawns := 0
	totalDodges := 0
	totalMisses := 0
	totalFumbles := 0
	bestOverall := 0
	maxTierOverall := 0
	spawnTicks := make([]int, 0, len(all))
	missTicks := make([]int, 0, len(all))
	tierTicks := make([]int, 0, len(all))
	scores := make([]int, 0, len(all))

	for _, rs := range all {
		totalSpawns += rs.spawns
		totalDodges += rs.dodges
		totalMisses += rs.misses
		totalFumbles += rs.fumbles
		if rs.bestScore > bestOverall {
			bestOverall = rs.bestScore
		}
		if rs.maxTier > maxTierOverall {
			maxTierOverall = rs.maxTier
		}
		if rs.firstSpawnTick >= 0 {
			spawnTicks = append(spawnTicks, rs.firstSpawnTick)
		}
		if rs.firstMissTick >= 0 {
			missTicks = append(missTicks, rs.firstMissTick)
		}
		if rs.firstTierUpTick >= 0 {
			tierTicks = append(tierTicks, rs.firstTierUpTick)
		}
		scores = append(scores, rs.bestScore)
	}

	fmt.Println("=== Aggregate Report ===")
	fmt.Printf("runs=%d\n", len(all))
	fmt.Printf("avg_events_per_run: spawns=%.1f dodges=%.1f misses=%.1f fumbles=%.1f\n",
		avg(totalSpawns, len(all)), avg(totalDodges, len(all)), avg(totalMisses, len(all)), avg(totalFumbles, len(all)))
	fmt.Printf("phase_marker_avg_ticks: first_spawn=%s first_miss=%s first_tier_up=%s\n",
		avgTickString(spawnTicks), avgTickString(missTicks), avgTickString(tierTicks))
	if totalSpawns > 0 {
		fmt.Printf("dodge_rate=%.1f%%\n", float64(totalDodges)/float64(totalSpawns)*100)
	}
	fmt.Printf("best_score_overall=%d max_tier_overall=%d\n", bestOverall, maxTierOverall)
	fmt.Printf("best_score_per_run: %s\n", joinScores(scores))
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

func joinScores(scores []int) string {
	sort.Ints(scores)
	parts := make([]string, len(scores))
	for i, s := range scores {
		parts[i] = fmt.Sprintf("%d", s)
	}
	return strings.Join(parts, ",")
}
