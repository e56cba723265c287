package game

// Session is the per-run score state. It is mutated only while Running,
// read-only from GameOver, consumed by the score display and reset when
// the next Countdown begins.
type Session struct {
	Score         int
	ElapsedTicks  int
	Tier          int
	DodgesByColor [NumColors]int
	MissColor     Color // colour of the fatal obstacle, valid after a miss
	Missed        bool

	// reactionSum accumulates spawn→clear tick spans for the reporter.
	reactionSum   int
	reactionCount int
}

func (s *Session) reset() {
	*s = Session{}
}

// recordDodge tallies one cleared obstacle.
func (s *Session) recordDodge(o Obstacle, tick int) {
	s.Score++
	s.DodgesByColor[o.Color]++
	s.reactionSum += tick - o.SpawnTick
	s.reactionCount++
}

// AvgReactionTicks is the mean spawn-to-clear span, 0 when nothing was
// cleared yet.
func (s *Session) AvgReactionTicks() float64 {
	if s.reactionCount == 0 {
		return 0
	}
	return float64(s.reactionSum) / float64(s.reactionCount)
}
