package game

import (
	"fmt"
	"strings"
)

// SimLogEntry is one recorded engine event.
type SimLogEntry struct {
	Tick     int
	Mode     string  // mode the engine was in when the event fired
	Seat     string  // "P1".."P4", or "--" for global events
	Category string  // mode, input, seats, spawn, judge, score, curve
	Key      string  // specific event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[T=0042] P1   running  judge   dodge   red at 30
func (e SimLogEntry) String() string {
	return fmt.Sprintf("[T=%04d] %-4s %-9s %-7s %-16s %s",
		e.Tick, e.Seat, e.Mode, e.Category, e.Key, e.Value)
}

// SimLog collects structured events from the engine. It is unbounded and
// machine-readable: tests and the reporter filter entries instead of
// scraping console output.
type SimLog struct {
	entries []SimLogEntry
	verbose bool
}

// NewSimLog creates a SimLog. If verbose is true, per-tick position and
// timer entries are also recorded (useful for detailed debugging).
func NewSimLog(verbose bool) *SimLog {
	return &SimLog{verbose: verbose}
}

// Add records a new entry.
func (sl *SimLog) Add(tick int, mode, seat, category, key, value string, numVal float64) {
	sl.entries = append(sl.entries, SimLogEntry{
		Tick:     tick,
		Mode:     mode,
		Seat:     seat,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
}

// AddVerbose records an entry only when verbose mode is on.
func (sl *SimLog) AddVerbose(tick int, mode, seat, category, key, value string, numVal float64) {
	if !sl.verbose {
		return
	}
	sl.Add(tick, mode, seat, category, key, value, numVal)
}

// Entries returns all recorded entries.
func (sl *SimLog) Entries() []SimLogEntry {
	return sl.entries
}

// Filter returns entries matching the given category and/or key.
// Pass empty string to match any value for that field.
func (sl *SimLog) Filter(category, key string) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// CountCategory returns how many entries match category/key.
func (sl *SimLog) CountCategory(category, key string) int {
	return len(sl.Filter(category, key))
}

// FirstTick returns the tick of the first entry matching category/key
// whose value contains the given substring ("" matches any), or -1.
func (sl *SimLog) FirstTick(category, key, contains string) int {
	for _, e := range sl.entries {
		if e.Category != category || e.Key != key {
			continue
		}
		if contains == "" || strings.Contains(e.Value, contains) {
			return e.Tick
		}
	}
	return -1
}

// Summary formats a closing block for a run: final mode, score, tier and
// per-colour dodge tallies.
func (sl *SimLog) Summary(tick int, mode Mode, sess *Session) string {
	var b strings.Builder
	fmt.Fprintf(&b, "--- summary @ T=%d ---\n", tick)
	fmt.Fprintf(&b, "mode=%s score=%d tier=%d elapsed=%d avg_reaction=%.1f\n",
		mode, sess.Score, sess.Tier, sess.ElapsedTicks, sess.AvgReactionTicks())
	for c := Color(0); c < NumColors; c++ {
		if sess.DodgesByColor[c] > 0 {
			fmt.Fprintf(&b, "dodges[%s]=%d\n", c, sess.DodgesByColor[c])
		}
	}
	if sess.Missed {
		fmt.Fprintf(&b, "missed=%s\n", sess.MissColor)
	}
	fmt.Fprintf(&b, "events=%d\n", len(sl.entries))
	return b.String()
}
