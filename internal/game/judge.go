package game

import "math"

// Verdict is the outcome of one tick of dodge judgment.
type Verdict struct {
	Cleared []Obstacle // dodged and removed this tick
	Fatal   *Obstacle  // the missed obstacle, nil when nobody missed
}

// judge tests every active obstacle against the player zone. Arrivals
// whose colour is held by the owning seat are cleared; the first arrival
// without a matching held button is fatal. held is level-sensitive, so a
// single held button clears any number of simultaneous same-colour
// arrivals, and obstacles short of the zone are left untouched.
//
// Fatal obstacles are NOT removed: the game-over frame keeps them lit.
func judge(obs *ObstacleSet, center, radius float64, held func(Color) bool) Verdict {
	var v Verdict
	var clearIDs []uint32
	for _, o := range obs.Items() {
		if math.Abs(o.Pos-center) > radius {
			continue
		}
		if held(o.Color) {
			v.Cleared = append(v.Cleared, o)
			clearIDs = append(clearIDs, o.ID)
			continue
		}
		fatal := o
		v.Fatal = &fatal
		break
	}
	for _, id := range clearIDs {
		obs.Remove(id)
	}
	return v
}
