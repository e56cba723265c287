package led

import (
	"testing"

	"github.com/rickvanderwolk/led-game/internal/game"
)

func TestNull_RecordsLastFrame(t *testing.T) {
	n := NewNull()
	if n.Last() != nil {
		t.Fatal("fresh driver reports a frame")
	}

	f := game.NewFrame(4)
	f[2] = game.RGB{R: 255}
	if err := n.Render(f); err != nil {
		t.Fatalf("Render = %v", err)
	}

	got := n.Last()
	if len(got) != 4 || got[2] != (game.RGB{R: 255}) {
		t.Fatalf("Last = %+v", got)
	}

	// Mutating the caller's frame afterwards must not leak into the copy.
	f[2] = game.RGB{}
	if n.Last()[2] != (game.RGB{R: 255}) {
		t.Error("Last aliases the rendered frame")
	}
}
