package game

import "testing"

func TestSimLog_FilterAndFirstTick(t *testing.T) {
	sl := NewSimLog(false)
	sl.Add(1, "running", "P1", "judge", "dodge", "red at 30", 1)
	sl.Add(2, "running", "P1", "judge", "dodge", "blue at 29", 2)
	sl.Add(3, "running", "--", "judge", "miss", "green at 31", 0)
	sl.Add(4, "running", "--", "curve", "tier", "tier 2", 2)

	if got := sl.CountCategory("judge", "dodge"); got != 2 {
		t.Errorf("dodge count = %d, want 2", got)
	}
	if got := sl.CountCategory("judge", ""); got != 3 {
		t.Errorf("judge count = %d, want 3", got)
	}
	if got := sl.FirstTick("judge", "dodge", "blue"); got != 2 {
		t.Errorf("first blue dodge at %d, want 2", got)
	}
	if got := sl.FirstTick("judge", "miss", "yellow"); got != -1 {
		t.Errorf("nonexistent entry found at %d", got)
	}
}

func TestSimLog_VerboseGate(t *testing.T) {
	quiet := NewSimLog(false)
	quiet.AddVerbose(1, "running", "P1", "input", "press", "red", 0)
	if len(quiet.Entries()) != 0 {
		t.Error("verbose entry recorded with verbose off")
	}

	loud := NewSimLog(true)
	loud.AddVerbose(1, "running", "P1", "input", "press", "red", 0)
	if len(loud.Entries()) != 1 {
		t.Error("verbose entry dropped with verbose on")
	}
}
