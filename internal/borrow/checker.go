package borrow

import (
	"ember/internal/diag"
	"ember/internal/lifetime"
	"ember/internal/mir"
	"ember/internal/source"
)

// Checker walks one mir.Function in source block order, tracking which
// places are borrowed and which are moved, and reports every access that
// conflicts with an active loan or reads through a stale move. It makes a
// single forward pass per block with no fixpoint iteration across the
// CFG's join points: a place borrowed on one incoming edge of a join
// isn't merged with the same place borrowed differently on another. A
// full implementation would need a proper dataflow analysis to handle
// merge points precisely; that is out of scope here (§9).
type Checker struct {
	function *mir.Function
	loans    LoanSet
	moved    MoveSet
	reporter diag.Reporter
}

// Check runs the borrow checker over fn, reporting conflicts to r. It
// never stops at the first error: every statement and terminator in
// every block is still checked, the way the rest of the pipeline
// accumulates diagnostics instead of aborting.
func Check(fn *mir.Function, r diag.Reporter) {
	c := &Checker{
		function: fn,
		loans:    NewLoanSet(),
		moved:    NewMoveSet(),
		reporter: r,
	}
	for i := range fn.Blocks {
		c.checkBlock(&fn.Blocks[i])
	}
}

func (c *Checker) checkBlock(blk *mir.BasicBlock) {
	for _, stmt := range blk.Statements {
		c.checkStatement(stmt)
	}
	c.checkTerminator(blk.Terminator)
}

func (c *Checker) checkStatement(stmt mir.Statement) {
	switch stmt.Kind {
	case mir.StmtAssign:
		c.checkWriteAccess(stmt.Place, stmt.Span)
		c.checkRValue(stmt.Value, stmt.Span)
	case mir.StmtStorageDead:
		// The local's storage ends here, so every loan taken against a
		// place rooted at that local ends with it.
		kept := c.loans.loans[:0]
		for _, l := range c.loans.loans {
			if l.Place.Local != stmt.Local {
				kept = append(kept, l)
			}
		}
		c.loans.loans = kept
	case mir.StmtStorageLive, mir.StmtNop:
		// no-op
	}
}

func (c *Checker) checkRValue(v mir.RValue, span source.Span) {
	switch v.Kind {
	case mir.RValueUse:
		c.checkOperand(v.Use, span)
	case mir.RValueBinaryOp:
		c.checkOperand(v.BinaryOp.Left, span)
		c.checkOperand(v.BinaryOp.Right, span)
	case mir.RValueUnaryOp:
		c.checkOperand(v.UnaryOp.Operand, span)
	case mir.RValueRef:
		kind := Shared
		if v.Ref.Mutable {
			kind = Mutable
		}
		c.checkBorrowAfterMove(v.Ref.Place, span)
		loan := NewLoan(v.Ref.Place, kind, lifetime.NoRegionID, span)
		if existing, ok := c.loans.CheckLoan(loan); ok {
			diag.ReportError(c.reporter, diag.BorrowConflictingBorrow, span,
				"borrow conflicts with an existing active borrow").
				WithNote(existing.Span, "existing borrow is here").Emit()
		}
		c.loans.Add(loan)
	case mir.RValueAggregate:
		for _, op := range v.Aggr.Operands {
			c.checkOperand(op, span)
		}
	}
}

func (c *Checker) checkOperand(op mir.Operand, span source.Span) {
	switch op.Kind {
	case mir.OperandMove:
		if moveSpan, ok := c.moved.FindOverlapping(op.Place); ok {
			diag.ReportError(c.reporter, diag.BorrowUseAfterMove, span,
				"use of a place after it was moved").
				WithNote(moveSpan, "moved here").Emit()
			return
		}
		if loan, ok := c.loans.FindOverlapping(op.Place); ok {
			diag.ReportError(c.reporter, diag.BorrowMoveWhileBorrowed, span,
				"cannot move a place while it is borrowed").
				WithNote(loan.Span, "borrow is here").Emit()
			return
		}
		c.moved.Add(op.Place, span)
	case mir.OperandCopy:
		if moveSpan, ok := c.moved.FindOverlapping(op.Place); ok {
			diag.ReportError(c.reporter, diag.BorrowUseAfterMove, span,
				"use of a place after it was moved").
				WithNote(moveSpan, "moved here").Emit()
		}
	case mir.OperandConstant, mir.OperandFunc:
		// always fine
	}
}

// checkBorrowAfterMove guards taking a new reference to a place whose
// value has already been moved out.
func (c *Checker) checkBorrowAfterMove(place mir.Place, span source.Span) {
	if moveSpan, ok := c.moved.FindOverlapping(place); ok {
		diag.ReportError(c.reporter, diag.BorrowAfterMove, span,
			"cannot borrow a place after it was moved").
			WithNote(moveSpan, "moved here").Emit()
	}
}

// checkWriteAccess guards writing to place while a loan on it is active,
// and clears place's own moved state: a successful write gives that
// exact place a fresh value again (it does not revive an overlapping
// sub- or super-place's moved record).
func (c *Checker) checkWriteAccess(place mir.Place, span source.Span) {
	if loan, ok := c.loans.FindOverlapping(place); ok {
		diag.ReportError(c.reporter, diag.BorrowWriteWhileBorrowed, span,
			"cannot write to a place while it is borrowed").
			WithNote(loan.Span, "borrow is here").Emit()
	}
	c.moved.Remove(place)
}

func (c *Checker) checkTerminator(term mir.Terminator) {
	switch term.Kind {
	case mir.TermCall:
		for _, arg := range term.Args {
			c.checkOperand(arg, term.Span)
		}
	case mir.TermReturn:
		if term.HasValue {
			c.checkOperand(term.Value, term.Span)
		}
	case mir.TermSwitchInt:
		c.checkOperand(term.Discriminant, term.Span)
	case mir.TermGoto, mir.TermUnreachable:
		// no-op
	}
}

// placeKey renders a place into a comparable map key; mir.Place carries
// a Projection slice, so it can't be a map key directly.
func placeKey(p mir.Place) string {
	buf := make([]byte, 0, 4+len(p.Projection)*6)
	buf = appendUint32(buf, uint32(p.Local))
	for _, elem := range p.Projection {
		buf = append(buf, byte(elem.Kind))
		buf = appendUint32(buf, uint32(elem.Field))
		buf = appendUint32(buf, uint32(elem.Index))
	}
	return string(buf)
}

func appendUint32(buf []byte, v uint32) []byte {
	return append(buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}
