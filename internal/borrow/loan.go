// Package borrow implements borrow checking (§3.7): a single forward pass
// over one mir.Function's control-flow graph that tracks active loans
// (borrows) and moved places, flagging the conflicts Rust-style ownership
// rules forbid. This is a deliberately simplified single-pass checker,
// not a full Polonius-style dataflow analysis with fixpoint iteration
// over the CFG's join points — SPEC_FULL.md scopes that as future work
// (§9), the same way region-cycle detection is scoped for
// internal/lifetime.
package borrow

import (
	"ember/internal/lifetime"
	"ember/internal/mir"
	"ember/internal/source"
)

// BorrowKind determines what access a loan permits and what it forbids
// on the place it borrows.
type BorrowKind uint8

const (
	// Shared is `&place`: any number of shared borrows may coexist; the
	// place can still be read but not written or moved.
	Shared BorrowKind = iota
	// Mutable is `&mut place`: only one may exist at a time, and the
	// place cannot be borrowed again, written or moved while it's active.
	// Copy reads of the place are not checked against loans.
	Mutable
	// Move takes ownership; the original place becomes unusable.
	Move
)

// Loan is an active borrow: a place, the access it grants, the region
// (lifetime scope) it lasts for, and where it was taken.
type Loan struct {
	Place  mir.Place
	Kind   BorrowKind
	Region lifetime.RegionId
	Span   source.Span
}

// NewLoan builds a Loan.
func NewLoan(place mir.Place, kind BorrowKind, region lifetime.RegionId, span source.Span) Loan {
	return Loan{Place: place, Kind: kind, Region: region, Span: span}
}

// LoanSet tracks every loan active at the current program point.
type LoanSet struct {
	loans []Loan
}

// NewLoanSet creates an empty LoanSet.
func NewLoanSet() LoanSet { return LoanSet{} }

// CheckLoan reports the first existing loan that conflicts with a
// hypothetical new one, or ok=false if new would be compatible with
// every active loan. Two shared borrows never conflict; every other
// combination over an overlapping place does.
func (s *LoanSet) CheckLoan(loan Loan) (conflict Loan, ok bool) {
	for _, existing := range s.loans {
		if !placesOverlap(existing.Place, loan.Place) {
			continue
		}
		if existing.Kind == Shared && loan.Kind == Shared {
			continue
		}
		return existing, true
	}
	return Loan{}, false
}

// Add records loan as active.
func (s *LoanSet) Add(loan Loan) { s.loans = append(s.loans, loan) }

// EndRegion removes every loan belonging to region, the way a lifetime
// scope ending invalidates the borrows it held.
func (s *LoanSet) EndRegion(region lifetime.RegionId) {
	kept := s.loans[:0]
	for _, l := range s.loans {
		if l.Region != region {
			kept = append(kept, l)
		}
	}
	s.loans = kept
}

// FindOverlapping returns a loan overlapping place, if any is active.
func (s *LoanSet) FindOverlapping(place mir.Place) (Loan, bool) {
	for _, l := range s.loans {
		if placesOverlap(l.Place, place) {
			return l, true
		}
	}
	return Loan{}, false
}

// Loans returns every currently active loan.
func (s *LoanSet) Loans() []Loan { return s.loans }

// Len returns the number of active loans.
func (s *LoanSet) Len() int { return len(s.loans) }

// IsEmpty reports whether no loans are active.
func (s *LoanSet) IsEmpty() bool { return len(s.loans) == 0 }

// placesOverlap reports whether two places might name overlapping
// memory: different locals never overlap; same local with one
// projection a prefix of the other does (`x` and `x.field` overlap,
// `x.a` and `x.b` do not). An Index projection is treated
// conservatively — two different index locals might still alias at
// runtime, so this reports overlap rather than risk missing a real
// conflict.
func placesOverlap(a, b mir.Place) bool {
	if a.Local != b.Local {
		return false
	}
	n := len(a.Projection)
	if len(b.Projection) < n {
		n = len(b.Projection)
	}
	for i := 0; i < n; i++ {
		pa, pb := a.Projection[i], b.Projection[i]
		if pa.Kind != pb.Kind {
			return false
		}
		switch pa.Kind {
		case mir.ElemField:
			if pa.Field != pb.Field {
				return false
			}
		case mir.ElemIndex:
			if pa.Index != pb.Index {
				return true
			}
		case mir.ElemDeref:
			// Derefs match by kind alone; keep checking the rest of
			// the projection.
		}
	}
	return true
}
