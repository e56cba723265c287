package game

import (
	"fmt"
	"strings"
)

// reportWindowTicks is the default sliding window for recent-behaviour
// summaries (~20s at 30 TPS).
const reportWindowTicks = 600

// Report is a snapshot of the engine at one collection point.
type Report struct {
	Tick        int
	Mode        Mode
	Score       int
	Tier        int
	Active      int // obstacles in flight
	Seats       int
	AvgReaction float64 // spawn-to-clear ticks, current session

	// Engine-lifetime tallies, so windows can difference across
	// session resets.
	TotalScore  int
	TotalMisses int
	TotalDodges [NumColors]int
}

// Reporter collects periodic snapshots and summarises sliding windows of
// them. The engine calls Collect about once a second.
type Reporter struct {
	history     []Report
	windowTicks int
}

// NewReporter creates a reporter; windowTicks <= 0 selects the default.
func NewReporter(windowTicks int) *Reporter {
	if windowTicks <= 0 {
		windowTicks = reportWindowTicks
	}
	return &Reporter{windowTicks: windowTicks}
}

// Collect records one snapshot.
func (r *Reporter) Collect(tick int, mode Mode, sess *Session, active, seats, totalScore, totalMisses int, totalDodges [NumColors]int) {
	r.history = append(r.history, Report{
		Tick:        tick,
		Mode:        mode,
		Score:       sess.Score,
		Tier:        sess.Tier,
		Active:      active,
		Seats:       seats,
		AvgReaction: sess.AvgReactionTicks(),
		TotalScore:  totalScore,
		TotalMisses: totalMisses,
		TotalDodges: totalDodges,
	})

	// Prune history beyond 2x window to prevent unbounded growth.
	maxKeep := r.windowTicks / 30 * 2
	if maxKeep < 100 {
		maxKeep = 100
	}
	if len(r.history) > maxKeep {
		r.history = r.history[len(r.history)-maxKeep:]
	}
}

// Latest returns the most recent snapshot, or nil if none collected yet.
func (r *Reporter) Latest() *Report {
	if len(r.history) == 0 {
		return nil
	}
	return &r.history[len(r.history)-1]
}

// FormatLatest renders the most recent snapshot as one log-friendly line.
func (r *Reporter) FormatLatest() string {
	rep := r.Latest()
	if rep == nil {
		return "(no reports collected)"
	}
	return fmt.Sprintf("report @T=%d mode=%s score=%d tier=%d active=%d seats=%d avg_reaction=%.1f",
		rep.Tick, rep.Mode, rep.Score, rep.Tier, rep.Active, rep.Seats, rep.AvgReaction)
}

// WindowReport aggregates the snapshots inside the recent time window.
type WindowReport struct {
	FromTick    int
	ToTick      int
	SampleCount int

	AvgActive   float64
	AvgTier     float64
	MaxTier     int
	ScoreDelta  int // points earned inside the window
	MissDelta   int // runs lost inside the window
	DodgesDelta [NumColors]int
}

// WindowSummary returns an aggregate over the recent window, or nil when
// nothing has been collected.
func (r *Reporter) WindowSummary() *WindowReport {
	if len(r.history) == 0 {
		return nil
	}
	latest := r.history[len(r.history)-1]
	cutoff := latest.Tick - r.windowTicks
	first := len(r.history) - 1
	for first > 0 && r.history[first-1].Tick >= cutoff {
		first--
	}
	window := r.history[first:]

	wr := &WindowReport{
		FromTick:    window[0].Tick,
		ToTick:      latest.Tick,
		SampleCount: len(window),
		ScoreDelta:  latest.TotalScore - window[0].TotalScore,
		MissDelta:   latest.TotalMisses - window[0].TotalMisses,
	}
	for _, rep := range window {
		wr.AvgActive += float64(rep.Active)
		wr.AvgTier += float64(rep.Tier)
		if rep.Tier > wr.MaxTier {
			wr.MaxTier = rep.Tier
		}
	}
	n := float64(len(window))
	wr.AvgActive /= n
	wr.AvgTier /= n
	for c := Color(0); c < NumColors; c++ {
		wr.DodgesDelta[c] = latest.TotalDodges[c] - window[0].TotalDodges[c]
	}
	return wr
}

// Format renders a window summary block.
func (wr *WindowReport) Format() string {
	var b strings.Builder
	fmt.Fprintf(&b, "window T=%d..%d samples=%d\n", wr.FromTick, wr.ToTick, wr.SampleCount)
	fmt.Fprintf(&b, "  score_delta=%d misses=%d avg_active=%.1f avg_tier=%.1f max_tier=%d\n",
		wr.ScoreDelta, wr.MissDelta, wr.AvgActive, wr.AvgTier, wr.MaxTier)
	parts := make([]string, 0, NumColors)
	for c := Color(0); c < NumColors; c++ {
		if wr.DodgesDelta[c] > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", c, wr.DodgesDelta[c]))
		}
	}
	if len(parts) > 0 {
		fmt.Fprintf(&b, "  dodges: %s\n", strings.Join(parts, " "))
	}
	return b.String()
}
