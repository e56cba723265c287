package game

import (
	"math"

	"github.com/kamstrup/intmap"
)

// Obstacle is one travelling light on the strip. Velocity is in LEDs per
// tick, sign giving the direction, and is frozen at spawn so a tier change
// never accelerates an obstacle the player is already reacting to.
type Obstacle struct {
	ID        uint32
	Color     Color
	Pos       float64
	Vel       float64
	SpawnTick int
}

// Cell returns the discrete pixel index the obstacle occupies.
func (o Obstacle) Cell() int { return int(math.Round(o.Pos)) }

// ObstacleSet stores active obstacles in a dense slice with an id→slot
// index for O(1) removal (removal swaps the last element in).
type ObstacleSet struct {
	items  []Obstacle
	slots  *intmap.Map[uint32, int]
	nextID uint32
}

func NewObstacleSet() *ObstacleSet {
	return &ObstacleSet{slots: intmap.New[uint32, int](16)}
}

// Spawn appends a new obstacle and returns its id.
func (s *ObstacleSet) Spawn(c Color, pos, vel float64, tick int) uint32 {
	s.nextID++
	id := s.nextID
	s.slots.Put(id, len(s.items))
	s.items = append(s.items, Obstacle{ID: id, Color: c, Pos: pos, Vel: vel, SpawnTick: tick})
	return id
}

// Remove deletes the obstacle by id. Reports whether it existed.
func (s *ObstacleSet) Remove(id uint32) bool {
	slot, ok := s.slots.Get(id)
	if !ok {
		return false
	}
	last := len(s.items) - 1
	if slot != last {
		s.items[slot] = s.items[last]
		s.slots.Put(s.items[slot].ID, slot)
	}
	s.items = s.items[:last]
	s.slots.Del(id)
	return true
}

// Get returns a pointer into the set, valid until the next mutation.
func (s *ObstacleSet) Get(id uint32) (*Obstacle, bool) {
	slot, ok := s.slots.Get(id)
	if !ok {
		return nil, false
	}
	return &s.items[slot], true
}

func (s *ObstacleSet) Len() int { return len(s.items) }

// Items exposes the backing slice for iteration. Callers must not grow it.
func (s *ObstacleSet) Items() []Obstacle { return s.items }

// Advance moves every obstacle by its own velocity.
func (s *ObstacleSet) Advance() {
	for i := range s.items {
		s.items[i].Pos += s.items[i].Vel
	}
}

// CellOccupied reports whether any obstacle rounds to the given pixel.
func (s *ObstacleSet) CellOccupied(cell int) bool {
	for i := range s.items {
		if s.items[i].Cell() == cell {
			return true
		}
	}
	return false
}

// Clear drops all obstacles but keeps ids monotonic across restarts.
func (s *ObstacleSet) Clear() {
	s.items = s.items[:0]
	s.slots.Clear()
}
