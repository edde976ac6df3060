package borrow

import (
	"testing"

	"ember/internal/diag"
	"ember/internal/mir"
	"ember/internal/source"
)

func countErrors(t *testing.T, fn *mir.Function, wantCode diag.Code) int {
	t.Helper()
	bag := diag.NewBag(16)
	Check(fn, diag.BagReporter{Bag: bag})
	n := 0
	for _, d := range bag.Items() {
		if d.Code == wantCode {
			n++
		}
	}
	return n
}

// TestCheckCleanMoveThenUseReports checks that moving x then reading x
// again is flagged as a use-after-move.
func TestCheckCleanMoveThenUseReports(t *testing.T) {
	x := mir.LocalPlace(1)
	y := mir.LocalPlace(2)
	fn := &mir.Function{
		Locals: []mir.Local{{ID: 1}, {ID: 2}, {ID: 3}},
		Blocks: []mir.BasicBlock{{
			ID: 1,
			Statements: []mir.Statement{
				{Kind: mir.StmtAssign, Place: y, Value: mir.RValue{Kind: mir.RValueUse, Use: mir.Move(x)}},
				{Kind: mir.StmtAssign, Place: mir.LocalPlace(3), Value: mir.RValue{Kind: mir.RValueUse, Use: mir.Move(x)}},
			},
			Terminator: mir.Terminator{Kind: mir.TermReturn},
		}},
	}
	if got := countErrors(t, fn, diag.BorrowUseAfterMove); got != 1 {
		t.Fatalf("expected exactly one use-after-move error, got %d", got)
	}
}

// TestCheckCopyAfterMoveAlsoReports checks that copying (not just moving)
// an already-moved place is still flagged.
func TestCheckCopyAfterMoveAlsoReports(t *testing.T) {
	x := mir.LocalPlace(1)
	fn := &mir.Function{
		Locals: []mir.Local{{ID: 1}, {ID: 2}, {ID: 3}},
		Blocks: []mir.BasicBlock{{
			ID: 1,
			Statements: []mir.Statement{
				{Kind: mir.StmtAssign, Place: mir.LocalPlace(2), Value: mir.RValue{Kind: mir.RValueUse, Use: mir.Move(x)}},
				{Kind: mir.StmtAssign, Place: mir.LocalPlace(3), Value: mir.RValue{Kind: mir.RValueUse, Use: mir.Copy(x)}},
			},
			Terminator: mir.Terminator{Kind: mir.TermReturn},
		}},
	}
	if got := countErrors(t, fn, diag.BorrowUseAfterMove); got != 1 {
		t.Fatalf("expected a use-after-move error for the copy too, got %d", got)
	}
}

// TestCheckConflictingMutableBorrows checks that taking two mutable
// references to the same place back to back conflicts.
func TestCheckConflictingMutableBorrows(t *testing.T) {
	x := mir.LocalPlace(1)
	fn := &mir.Function{
		Locals: []mir.Local{{ID: 1}, {ID: 2}, {ID: 3}},
		Blocks: []mir.BasicBlock{{
			ID: 1,
			Statements: []mir.Statement{
				{Kind: mir.StmtAssign, Place: mir.LocalPlace(2), Value: mir.RValue{Kind: mir.RValueRef, Ref: mir.RefRValue{Mutable: true, Place: x}}},
				{Kind: mir.StmtAssign, Place: mir.LocalPlace(3), Value: mir.RValue{Kind: mir.RValueRef, Ref: mir.RefRValue{Mutable: true, Place: x}}},
			},
			Terminator: mir.Terminator{Kind: mir.TermReturn},
		}},
	}
	if got := countErrors(t, fn, diag.BorrowConflictingBorrow); got != 1 {
		t.Fatalf("expected one conflicting-borrow error, got %d", got)
	}
}

// TestCheckSharedBorrowsDoNotConflict checks that two shared borrows of
// the same place coexist fine.
func TestCheckSharedBorrowsDoNotConflict(t *testing.T) {
	x := mir.LocalPlace(1)
	fn := &mir.Function{
		Locals: []mir.Local{{ID: 1}, {ID: 2}, {ID: 3}},
		Blocks: []mir.BasicBlock{{
			ID: 1,
			Statements: []mir.Statement{
				{Kind: mir.StmtAssign, Place: mir.LocalPlace(2), Value: mir.RValue{Kind: mir.RValueRef, Ref: mir.RefRValue{Mutable: false, Place: x}}},
				{Kind: mir.StmtAssign, Place: mir.LocalPlace(3), Value: mir.RValue{Kind: mir.RValueRef, Ref: mir.RefRValue{Mutable: false, Place: x}}},
			},
			Terminator: mir.Terminator{Kind: mir.TermReturn},
		}},
	}
	if got := countErrors(t, fn, diag.BorrowConflictingBorrow); got != 0 {
		t.Fatalf("expected no conflicting-borrow errors for two shared borrows, got %d", got)
	}
}

// TestCheckWriteWhileBorrowed checks that writing to a place while a
// reference to it is active is flagged.
func TestCheckWriteWhileBorrowed(t *testing.T) {
	x := mir.LocalPlace(1)
	fn := &mir.Function{
		Locals: []mir.Local{{ID: 1}, {ID: 2}},
		Blocks: []mir.BasicBlock{{
			ID: 1,
			Statements: []mir.Statement{
				{Kind: mir.StmtAssign, Place: mir.LocalPlace(2), Value: mir.RValue{Kind: mir.RValueRef, Ref: mir.RefRValue{Mutable: true, Place: x}}},
				{Kind: mir.StmtAssign, Place: x, Value: mir.RValue{Kind: mir.RValueUse, Use: mir.ConstOperand(mir.Constant{})}},
			},
			Terminator: mir.Terminator{Kind: mir.TermReturn},
		}},
	}
	if got := countErrors(t, fn, diag.BorrowWriteWhileBorrowed); got != 1 {
		t.Fatalf("expected one write-while-borrowed error, got %d", got)
	}
}

// TestCheckMoveWhileBorrowed checks that moving a place out while it is
// still borrowed is flagged, distinctly from a plain write.
func TestCheckMoveWhileBorrowed(t *testing.T) {
	x := mir.LocalPlace(1)
	fn := &mir.Function{
		Locals: []mir.Local{{ID: 1}, {ID: 2}, {ID: 3}},
		Blocks: []mir.BasicBlock{{
			ID: 1,
			Statements: []mir.Statement{
				{Kind: mir.StmtAssign, Place: mir.LocalPlace(2), Value: mir.RValue{Kind: mir.RValueRef, Ref: mir.RefRValue{Mutable: false, Place: x}}},
				{Kind: mir.StmtAssign, Place: mir.LocalPlace(3), Value: mir.RValue{Kind: mir.RValueUse, Use: mir.Move(x)}},
			},
			Terminator: mir.Terminator{Kind: mir.TermReturn},
		}},
	}
	if got := countErrors(t, fn, diag.BorrowMoveWhileBorrowed); got != 1 {
		t.Fatalf("expected one move-while-borrowed error, got %d", got)
	}
}

// TestCheckBorrowAfterMove checks that taking a reference to an
// already-moved place is flagged.
func TestCheckBorrowAfterMove(t *testing.T) {
	x := mir.LocalPlace(1)
	fn := &mir.Function{
		Locals: []mir.Local{{ID: 1}, {ID: 2}, {ID: 3}},
		Blocks: []mir.BasicBlock{{
			ID: 1,
			Statements: []mir.Statement{
				{Kind: mir.StmtAssign, Place: mir.LocalPlace(2), Value: mir.RValue{Kind: mir.RValueUse, Use: mir.Move(x)}},
				{Kind: mir.StmtAssign, Place: mir.LocalPlace(3), Value: mir.RValue{Kind: mir.RValueRef, Ref: mir.RefRValue{Place: x}}},
			},
			Terminator: mir.Terminator{Kind: mir.TermReturn},
		}},
	}
	if got := countErrors(t, fn, diag.BorrowAfterMove); got != 1 {
		t.Fatalf("expected one borrow-after-move error, got %d", got)
	}
}

// TestCheckDistinctLocalsNeverConflict checks that unrelated places never
// trip any conflict.
func TestCheckDistinctLocalsNeverConflict(t *testing.T) {
	x := mir.LocalPlace(1)
	y := mir.LocalPlace(2)
	fn := &mir.Function{
		Locals: []mir.Local{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}},
		Blocks: []mir.BasicBlock{{
			ID: 1,
			Statements: []mir.Statement{
				{Kind: mir.StmtAssign, Place: mir.LocalPlace(3), Value: mir.RValue{Kind: mir.RValueRef, Ref: mir.RefRValue{Mutable: true, Place: x}}},
				{Kind: mir.StmtAssign, Place: y, Value: mir.RValue{Kind: mir.RValueUse, Use: mir.ConstOperand(mir.Constant{})}},
				{Kind: mir.StmtAssign, Place: mir.LocalPlace(4), Value: mir.RValue{Kind: mir.RValueUse, Use: mir.Move(y)}},
			},
			Terminator: mir.Terminator{Kind: mir.TermReturn},
		}},
	}
	bag := diag.NewBag(16)
	Check(fn, diag.BagReporter{Bag: bag})
	if bag.Len() != 0 {
		t.Fatalf("expected no errors touching unrelated locals, got %d: %+v", bag.Len(), bag.Items())
	}
}

// TestCheckMoveWholeThenUseFieldReports checks that moving a whole struct
// local and then reading one of its fields is flagged as a use-after-move,
// even though the field is a different mir.Place than the moved one.
func TestCheckMoveWholeThenUseFieldReports(t *testing.T) {
	x := mir.LocalPlace(1)
	xField := mir.Place{Local: 1, Projection: []mir.PlaceElem{{Kind: mir.ElemField, Field: 7}}}
	fn := &mir.Function{
		Locals: []mir.Local{{ID: 1}, {ID: 2}, {ID: 3}},
		Blocks: []mir.BasicBlock{{
			ID: 1,
			Statements: []mir.Statement{
				{Kind: mir.StmtAssign, Place: mir.LocalPlace(2), Value: mir.RValue{Kind: mir.RValueUse, Use: mir.Move(x)}},
				{Kind: mir.StmtAssign, Place: mir.LocalPlace(3), Value: mir.RValue{Kind: mir.RValueUse, Use: mir.Copy(xField)}},
			},
			Terminator: mir.Terminator{Kind: mir.TermReturn},
		}},
	}
	if got := countErrors(t, fn, diag.BorrowUseAfterMove); got != 1 {
		t.Fatalf("expected reading a field of an already-moved local to report use-after-move, got %d", got)
	}
}

// TestCheckMoveFieldThenUseWholeReports checks the symmetric case: moving
// one field and then using the whole place is also flagged.
func TestCheckMoveFieldThenUseWholeReports(t *testing.T) {
	x := mir.LocalPlace(1)
	xField := mir.Place{Local: 1, Projection: []mir.PlaceElem{{Kind: mir.ElemField, Field: 7}}}
	fn := &mir.Function{
		Locals: []mir.Local{{ID: 1}, {ID: 2}, {ID: 3}},
		Blocks: []mir.BasicBlock{{
			ID: 1,
			Statements: []mir.Statement{
				{Kind: mir.StmtAssign, Place: mir.LocalPlace(2), Value: mir.RValue{Kind: mir.RValueUse, Use: mir.Move(xField)}},
				{Kind: mir.StmtAssign, Place: mir.LocalPlace(3), Value: mir.RValue{Kind: mir.RValueUse, Use: mir.Copy(x)}},
			},
			Terminator: mir.Terminator{Kind: mir.TermReturn},
		}},
	}
	if got := countErrors(t, fn, diag.BorrowUseAfterMove); got != 1 {
		t.Fatalf("expected reading the whole local after moving one of its fields to report use-after-move, got %d", got)
	}
}

// TestCheckMoveThenUseDistinctFieldsDoesNotReport checks that moving one
// field and reading a different field of the same local is still fine:
// distinct fields never overlap.
func TestCheckMoveThenUseDistinctFieldsDoesNotReport(t *testing.T) {
	xFieldA := mir.Place{Local: 1, Projection: []mir.PlaceElem{{Kind: mir.ElemField, Field: 7}}}
	xFieldB := mir.Place{Local: 1, Projection: []mir.PlaceElem{{Kind: mir.ElemField, Field: 8}}}
	fn := &mir.Function{
		Locals: []mir.Local{{ID: 1}, {ID: 2}, {ID: 3}},
		Blocks: []mir.BasicBlock{{
			ID: 1,
			Statements: []mir.Statement{
				{Kind: mir.StmtAssign, Place: mir.LocalPlace(2), Value: mir.RValue{Kind: mir.RValueUse, Use: mir.Move(xFieldA)}},
				{Kind: mir.StmtAssign, Place: mir.LocalPlace(3), Value: mir.RValue{Kind: mir.RValueUse, Use: mir.Copy(xFieldB)}},
			},
			Terminator: mir.Terminator{Kind: mir.TermReturn},
		}},
	}
	if got := countErrors(t, fn, diag.BorrowUseAfterMove); got != 0 {
		t.Fatalf("expected distinct fields of the same local not to conflict, got %d", got)
	}
}

func TestPlacesOverlapFieldVsWholeLocal(t *testing.T) {
	x := mir.LocalPlace(1)
	xField := mir.Place{Local: 1, Projection: []mir.PlaceElem{{Kind: mir.ElemField, Field: 7}}}
	if !placesOverlap(x, xField) {
		t.Fatalf("expected a whole local and one of its fields to overlap")
	}
}

func TestPlacesOverlapDistinctFields(t *testing.T) {
	a := mir.Place{Local: 1, Projection: []mir.PlaceElem{{Kind: mir.ElemField, Field: 7}}}
	b := mir.Place{Local: 1, Projection: []mir.PlaceElem{{Kind: mir.ElemField, Field: 8}}}
	if placesOverlap(a, b) {
		t.Fatalf("expected two distinct fields of the same local not to overlap")
	}
}

func TestLoanSetEndRegionRemovesOnlyThatRegion(t *testing.T) {
	set := NewLoanSet()
	set.Add(NewLoan(mir.LocalPlace(1), Shared, 1, source.Span{}))
	set.Add(NewLoan(mir.LocalPlace(2), Shared, 2, source.Span{}))
	set.EndRegion(1)
	if set.Len() != 1 {
		t.Fatalf("expected exactly one loan to survive EndRegion, got %d", set.Len())
	}
	if _, ok := set.FindOverlapping(mir.LocalPlace(2)); !ok {
		t.Fatalf("expected the region-2 loan to still be active")
	}
}
