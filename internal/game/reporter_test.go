package game

import "testing"

func TestReporter_WindowDifferencesLifetimeTallies(t *testing.T) {
	r := NewReporter(600)

	sess := &Session{}
	var dodges [NumColors]int

	// Outside the window: 5 points scored long ago.
	r.Collect(100, ModeRunning, sess, 1, 1, 5, 1, dodges)

	// Inside the window: 3 more points and a miss.
	dodges[Red] = 3
	r.Collect(900, ModeRunning, sess, 2, 1, 7, 1, dodges)
	r.Collect(1200, ModeRunning, sess, 0, 1, 8, 2, dodges)

	wr := r.WindowSummary()
	if wr == nil {
		t.Fatal("no window summary")
	}
	if wr.FromTick != 900 || wr.ToTick != 1200 {
		t.Errorf("window %d..%d, want 900..1200", wr.FromTick, wr.ToTick)
	}
	if wr.ScoreDelta != 1 {
		t.Errorf("score delta = %d, want 1", wr.ScoreDelta)
	}
	if wr.MissDelta != 1 {
		t.Errorf("miss delta = %d, want 1", wr.MissDelta)
	}
	if wr.AvgActive != 1 {
		t.Errorf("avg active = %.1f, want 1.0", wr.AvgActive)
	}
}

func TestReporter_EmptyIsNil(t *testing.T) {
	r := NewReporter(0)
	if r.WindowSummary() != nil {
		t.Error("summary from an empty reporter")
	}
	if r.Latest() != nil {
		t.Error("latest from an empty reporter")
	}
}

func TestReporter_HistoryIsBounded(t *testing.T) {
	r := NewReporter(600)
	sess := &Session{}
	var dodges [NumColors]int
	for tick := 0; tick < 10_000; tick += 10 {
		r.Collect(tick, ModeRunning, sess, 0, 1, 0, 0, dodges)
	}
	if got := len(r.history); got > 200 {
		t.Errorf("history grew to %d entries", got)
	}
}
