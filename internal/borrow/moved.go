package borrow

import (
	"ember/internal/mir"
	"ember/internal/source"
)

// movedPlace is one place recorded as moved-out, and where.
type movedPlace struct {
	Place mir.Place
	Span  source.Span
}

// MoveSet tracks every place moved-out at the current program point,
// mirroring LoanSet's shape. Lookups use placesOverlap rather than an
// exact match: moving a struct local moves every field through it, so a
// later read of either the whole place or any sub-place of an already-
// moved place must be flagged (§4.G), the same way rv-borrow-check's
// `is_moved` scans its moved set with `places_overlap` instead of hashing
// on exact place identity.
type MoveSet struct {
	moved []movedPlace
}

// NewMoveSet creates an empty MoveSet.
func NewMoveSet() MoveSet { return MoveSet{} }

// FindOverlapping returns a moved place overlapping place, if any is active.
func (s *MoveSet) FindOverlapping(place mir.Place) (source.Span, bool) {
	for _, m := range s.moved {
		if placesOverlap(m.Place, place) {
			return m.Span, true
		}
	}
	return source.Span{}, false
}

// Add records place as moved-out at span.
func (s *MoveSet) Add(place mir.Place, span source.Span) {
	s.moved = append(s.moved, movedPlace{Place: place, Span: span})
}

// Remove clears place's exact moved record, the way a fresh write gives
// that exact place a new value again (it does not clear overlapping
// sub- or super-places, matching rv-borrow-check's `self.moved.remove`).
func (s *MoveSet) Remove(place mir.Place) {
	kept := s.moved[:0]
	key := placeKey(place)
	for _, m := range s.moved {
		if placeKey(m.Place) != key {
			kept = append(kept, m)
		}
	}
	s.moved = kept
}
