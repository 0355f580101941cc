package tagging

import (
	"maps"

	"github.com/Emily9121/WifeyMOOC/internal/question"
)

// PositionStore holds placed tag coordinates per variant key and tag id.
// It is auxiliary UI state: it survives navigation, alternative switches
// and restarts, and is never part of the graded answers.
type PositionStore struct {
	positions map[string]map[string]question.Point
}

// NewPositionStore creates an empty store.
func NewPositionStore() *PositionStore {
	return &PositionStore{positions: make(map[string]map[string]question.Point)}
}

// Get returns the stored position of tagID under variantKey.
func (s *PositionStore) Get(variantKey, tagID string) (question.Point, bool) {
	p, ok := s.positions[variantKey][tagID]
	return p, ok
}

// Set records a placement. Called on every drag.
func (s *PositionStore) Set(variantKey, tagID string, p question.Point) {
	v, ok := s.positions[variantKey]
	if !ok {
		v = make(map[string]question.Point)
		s.positions[variantKey] = v
	}
	v[tagID] = p
}

// InitialPlacement returns the starting position of every tag: the stored
// one when present, otherwise the default cascade.
func (s *PositionStore) InitialPlacement(variantKey string, tags []question.Tag) map[string]question.Point {
	out := make(map[string]question.Point, len(tags))
	for i, t := range tags {
		if p, ok := s.Get(variantKey, t.ID); ok {
			out[t.ID] = p
			continue
		}
		out[t.ID] = DefaultPosition(i)
	}
	return out
}

// Len returns the number of variant keys with stored placements.
func (s *PositionStore) Len() int {
	return len(s.positions)
}

// Export returns the store in its snapshot form: {variantKey: {tagId: [x, y]}}.
func (s *PositionStore) Export() map[string]map[string][2]float64 {
	out := make(map[string]map[string][2]float64, len(s.positions))
	for k, tags := range s.positions {
		m := make(map[string][2]float64, len(tags))
		for id, p := range tags {
			m[id] = [2]float64{p.X, p.Y}
		}
		out[k] = m
	}
	return out
}

// Import builds a store from its snapshot form.
func Import(data map[string]map[string][2]float64) *PositionStore {
	s := NewPositionStore()
	for k, tags := range data {
		for id, xy := range tags {
			s.Set(k, id, question.Point{X: xy[0], Y: xy[1]})
		}
	}
	return s
}

// Clone returns a deep copy.
func (s *PositionStore) Clone() *PositionStore {
	c := NewPositionStore()
	for k, tags := range s.positions {
		c.positions[k] = maps.Clone(tags)
	}
	return c
}
