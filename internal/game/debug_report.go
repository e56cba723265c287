package game

import (
	"fmt"
	"strings"
)

// debugReportTail is how many recent log entries the report includes.
const debugReportTail = 25

// DebugReport formats a paste-friendly snapshot of the whole engine:
// mode, session, seat table, in-flight obstacles and the tail of the
// event log. The simulator binds this to a clipboard key.
func (e *Engine) DebugReport() string {
	var b strings.Builder
	fmt.Fprintf(&b, "--- led-game debug report ---\n")
	fmt.Fprintf(&b, "tick=%d mode=%s (for %d ticks) best=%d dropped_events=%d\n",
		e.tick, e.mode, e.ticksInMode(), e.best, e.mapper.Dropped())
	fmt.Fprintf(&b, "session: score=%d tier=%d elapsed=%d avg_reaction=%.1f\n",
		e.session.Score, e.session.Tier, e.session.ElapsedTicks, e.session.AvgReactionTicks())
	fmt.Fprintf(&b, "curve: tier=%d vel=%.3f spawn_every=%d unlocked=%s\n",
		e.diff.Tier, e.diff.Velocity, e.diff.SpawnIntervalTicks, e.diff.Unlocked)

	seats := e.mapper.Seats()
	if len(seats) == 0 {
		b.WriteString("seats: none\n")
	}
	for _, s := range seats {
		fmt.Fprintf(&b, "seat %s: controller=%d colors=%s held=%s\n",
			s.label(), s.Controller, s.Colors, s.held)
	}

	fmt.Fprintf(&b, "obstacles (%d):\n", e.obstacles.Len())
	for _, o := range e.obstacles.Items() {
		fmt.Fprintf(&b, "  #%d %s pos=%.2f vel=%+.3f spawned=T%d\n",
			o.ID, o.Color, o.Pos, o.Vel, o.SpawnTick)
	}

	entries := e.log.Entries()
	from := len(entries) - debugReportTail
	if from < 0 {
		from = 0
	}
	fmt.Fprintf(&b, "log tail (%d of %d):\n", len(entries)-from, len(entries))
	for _, le := range entries[from:] {
		b.WriteString("  ")
		b.WriteString(le.String())
		b.WriteByte('\n')
	}
	return b.String()
}
