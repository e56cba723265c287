package game

import "testing"

func heldSet(colors ...Color) func(Color) bool {
	var s ColorSet
	for _, c := range colors {
		s.Add(c)
	}
	return s.Has
}

func TestJudge_HeldClearsObstacleInZone(t *testing.T) {
	obs := NewObstacleSet()
	obs.Spawn(Red, 30, 0.1, 0)

	v := judge(obs, 30, 1, heldSet(Red))
	if len(v.Cleared) != 1 || v.Cleared[0].Color != Red {
		t.Fatalf("cleared = %v, want one red", v.Cleared)
	}
	if v.Fatal != nil {
		t.Fatalf("unexpected fatal %v", v.Fatal)
	}
	if obs.Len() != 0 {
		t.Errorf("cleared obstacle still in set")
	}
}

func TestJudge_UnheldObstacleInZoneIsFatal(t *testing.T) {
	obs := NewObstacleSet()
	obs.Spawn(Blue, 29.4, 0.1, 0)

	v := judge(obs, 30, 1, heldSet())
	if v.Fatal == nil || v.Fatal.Color != Blue {
		t.Fatalf("fatal = %v, want blue", v.Fatal)
	}
	// The fatal obstacle stays in the set so the fail frame can show it.
	if obs.Len() != 1 {
		t.Errorf("fatal obstacle was removed")
	}
}

func TestJudge_WrongColorHeldIsFatal(t *testing.T) {
	obs := NewObstacleSet()
	obs.Spawn(Green, 30, 0.1, 0)

	v := judge(obs, 30, 1, heldSet(Red, Blue))
	if v.Fatal == nil || v.Fatal.Color != Green {
		t.Fatalf("fatal = %v, want green", v.Fatal)
	}
}

func TestJudge_ObstacleOutsideZoneIgnored(t *testing.T) {
	obs := NewObstacleSet()
	obs.Spawn(Yellow, 10, 0.1, 0)

	v := judge(obs, 30, 1, heldSet())
	if v.Fatal != nil || len(v.Cleared) != 0 {
		t.Fatalf("obstacle at 10 judged against zone at 30±1: %+v", v)
	}
	if obs.Len() != 1 {
		t.Errorf("untouched obstacle removed")
	}
}

func TestJudge_MultipleSimultaneousClears(t *testing.T) {
	obs := NewObstacleSet()
	obs.Spawn(Red, 29.5, 0.1, 0)
	obs.Spawn(Yellow, 30.5, -0.1, 0)

	v := judge(obs, 30, 1, heldSet(Red, Yellow))
	if len(v.Cleared) != 2 {
		t.Fatalf("cleared %d obstacles, want 2", len(v.Cleared))
	}
	if obs.Len() != 0 {
		t.Errorf("set not emptied after double clear")
	}
}
