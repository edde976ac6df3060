package mir

import (
	"ember/internal/ast"
	"ember/internal/hir"
	"ember/internal/source"
)

// lowerExpr lowers one HIR expression, emitting whatever statements and
// block splits it needs into the builder's current block, and returns an
// operand holding its value. For expressions that are purely
// control-flow-shaped (if, match, loop, while, for) the "value" is read
// back from a join-point temporary once every arm has rejoined.
func (b *Builder) lowerExpr(id hir.ExprID) Operand {
	e := b.body.Expr(id)
	switch e.Kind {
	case hir.ExprLiteral:
		return ConstOperand(Constant{Literal: e.Literal, Ty: b.tyOfExpr(id), Span: e.Span})

	case hir.ExprVariable:
		return b.lowerVariable(e)

	case hir.ExprBlock:
		return b.lowerBlock(e)

	case hir.ExprIf:
		return b.lowerIf(id, e)

	case hir.ExprMatch:
		return b.lowerMatch(id, e)

	case hir.ExprLoop:
		return b.lowerLoop(id, e)

	case hir.ExprWhile:
		return b.lowerWhile(e)

	case hir.ExprFor:
		return b.lowerFor(e)

	case hir.ExprCall:
		return b.lowerCall(id, e)

	case hir.ExprMethodCall:
		return b.lowerMethodCall(id, e)

	case hir.ExprFieldAccess:
		return b.lowerFieldAccess(e)

	case hir.ExprStructLit:
		return b.lowerStructLit(id, e)

	case hir.ExprTuple:
		return b.lowerTuple(id, e)

	case hir.ExprBinaryOp:
		return b.lowerBinaryOp(id, e)

	case hir.ExprUnaryOp:
		return b.lowerUnaryOp(id, e)

	case hir.ExprAssignment:
		return b.lowerAssignment(e)

	case hir.ExprRef:
		return b.lowerRef(e)

	case hir.ExprBreak:
		return b.lowerBreak(e)

	case hir.ExprContinue:
		b.lowerContinue(e)
		return unitOperand(e.Span)

	case hir.ExprReturn:
		return b.lowerReturn(e)

	default:
		return unitOperand(e.Span)
	}
}

func unitOperand(span source.Span) Operand {
	return ConstOperand(Constant{Literal: ast.LiteralExprData{Kind: ast.LiteralUnit}, Span: span})
}

func (b *Builder) lowerVariable(e *hir.Expr) Operand {
	if hir.IsLocal(e.Variable.Resolution.DefID) {
		if local, ok := b.localByName[e.Variable.Name]; ok {
			return Copy(LocalPlace(local))
		}
		// A resolved local the builder never saw declared reads back
		// as a freshly minted local so lowering can still proceed.
		local := b.newNamedLocal(e.Variable.Name, true)
		return Copy(LocalPlace(local))
	}
	return FuncOperand(hir.AsItemDefID(e.Variable.Resolution.DefID))
}

func (b *Builder) lowerStmt(stmt *hir.Stmt) {
	if stmt.Pattern.IsValid() {
		pat := b.body.Pattern(stmt.Pattern)
		val := b.lowerExpr(stmt.Value)
		b.bindPattern(pat, val)
		return
	}
	b.lowerExpr(stmt.Value)
}

// bindPattern binds the names in pat to val. Only the PatternBinding leaf
// is meaningful for a MIR local slot; Tuple/Or structure is handled by
// internal/infer and internal/borrow at the HIR/type level, so a
// composite pattern here just binds every leaf to the same source
// operand's place (exhaustive destructuring is a §3.7 borrow-checker
// concern, not a MIR-shape one).
func (b *Builder) bindPattern(pat *hir.Pattern, val Operand) {
	switch pat.Kind {
	case hir.PatternBinding:
		local := b.newNamedLocal(pat.Binding.Name, pat.Binding.Mutable)
		b.assign(pat.Span, LocalPlace(local), useRValue(val))
		if pat.Binding.SubPattern.IsValid() {
			b.bindPattern(b.body.Pattern(pat.Binding.SubPattern), val)
		}
	case hir.PatternTuple:
		for _, sub := range pat.Tuple {
			b.bindPattern(b.body.Pattern(sub), val)
		}
	case hir.PatternOr:
		for _, sub := range pat.Or {
			b.bindPattern(b.body.Pattern(sub), val)
		}
	}
}

func (b *Builder) lowerBlock(e *hir.Expr) Operand {
	for _, sid := range e.Block.Stmts {
		b.lowerStmt(b.body.Stmt(sid))
	}
	if e.Block.Tail.IsValid() {
		return b.lowerExpr(e.Block.Tail)
	}
	return unitOperand(e.Span)
}

// lowerIf lowers `if cond { then } else { else }` into a switch over the
// boolean discriminant, each arm assigning its value into a shared result
// temp before joining at end.
func (b *Builder) lowerIf(id hir.ExprID, e *hir.Expr) Operand {
	cond := b.lowerExpr(e.If.Cond)
	thenBlock := b.newBlock()
	elseBlock := b.newBlock()
	end := b.newBlock()
	b.setTerminator(Terminator{
		Kind:         TermSwitchInt,
		Span:         e.Span,
		Discriminant: cond,
		Targets:      []SwitchTarget{{Value: 1, Target: thenBlock}},
		Otherwise:    elseBlock,
	})

	result := b.newTemp(b.tyOfExpr(id))

	b.switchTo(thenBlock)
	thenVal := b.lowerExpr(e.If.Then)
	if b.blockOpen() {
		b.assign(e.Span, LocalPlace(result), useRValue(thenVal))
	}
	b.gotoIfOpen(end)

	b.switchTo(elseBlock)
	if e.If.Else.IsValid() {
		elseVal := b.lowerExpr(e.If.Else)
		if b.blockOpen() {
			b.assign(e.Span, LocalPlace(result), useRValue(elseVal))
		}
	}
	b.gotoIfOpen(end)

	b.switchTo(end)
	return Copy(LocalPlace(result))
}

// lowerMatch lowers a match into a chain of pattern tests. Full
// pattern-matrix compilation (the decision-tree construction a production
// compiler wants for overlapping/nested patterns) is out of scope here;
// each arm is tested in source order, mirroring a match's documented
// first-matching-arm semantics, and literal/wildcard/binding patterns are
// the only ones given a runtime test — a struct/enum/tuple pattern arm
// always matches. No exhaustiveness check is made on the arms.
func (b *Builder) lowerMatch(id hir.ExprID, e *hir.Expr) Operand {
	scrutinee := b.lowerExpr(e.Match.Scrutinee)
	result := b.newTemp(b.tyOfExpr(id))
	end := b.newBlock()

	for _, arm := range e.Match.Arms {
		armBlock := b.newBlock()
		nextBlock := b.newBlock()

		pat := b.body.Pattern(arm.Pattern)
		if lit, ok := literalDiscriminant(pat); ok {
			b.setTerminator(Terminator{
				Kind:         TermSwitchInt,
				Span:         arm.Span,
				Discriminant: scrutinee,
				Targets:      []SwitchTarget{{Value: lit, Target: armBlock}},
				Otherwise:    nextBlock,
			})
		} else {
			b.gotoIfOpen(armBlock)
		}

		b.switchTo(armBlock)
		b.bindPattern(pat, scrutinee)
		if arm.Guard.IsValid() {
			guardVal := b.lowerExpr(arm.Guard)
			guardBody := b.newBlock()
			b.setTerminator(Terminator{
				Kind:         TermSwitchInt,
				Span:         arm.Span,
				Discriminant: guardVal,
				Targets:      []SwitchTarget{{Value: 1, Target: guardBody}},
				Otherwise:    nextBlock,
			})
			b.switchTo(guardBody)
		}
		armVal := b.lowerExpr(arm.Body)
		if b.blockOpen() {
			b.assign(arm.Span, LocalPlace(result), useRValue(armVal))
		}
		b.gotoIfOpen(end)

		b.switchTo(nextBlock)
	}
	// No arm matched: the current (last nextBlock) block is terminated
	// with Unreachable; nothing proves that no value reaches it.
	b.setTerminator(Terminator{Kind: TermUnreachable, Span: e.Span})

	b.switchTo(end)
	return Copy(LocalPlace(result))
}

// literalDiscriminant reports whether pat is a literal integer/bool
// pattern, returning the constant value a SwitchInt can test directly.
func literalDiscriminant(pat *hir.Pattern) (int64, bool) {
	if pat.Kind != hir.PatternLiteral {
		return 0, false
	}
	switch pat.Literal.Kind {
	case ast.LiteralInt:
		return pat.Literal.Int, true
	case ast.LiteralBool:
		if pat.Literal.Bool {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// lowerLoop lowers an unconditional `loop { ... }`, whose only exit is a
// `break`, possibly carrying a value.
func (b *Builder) lowerLoop(id hir.ExprID, e *hir.Expr) Operand {
	top := b.newBlock()
	end := b.newBlock()
	result := NoLocalID
	if ty := b.tyOfExpr(id); ty != 0 {
		result = b.newTemp(ty)
	}

	b.gotoIfOpen(top)
	b.switchTo(top)
	b.loops = append(b.loops, loopFrame{continueTarget: top, breakTarget: end, resultLocal: result})
	b.lowerExpr(e.Loop.Body)
	b.loops = b.loops[:len(b.loops)-1]
	b.gotoIfOpen(top)

	b.switchTo(end)
	if result == NoLocalID {
		return unitOperand(e.Span)
	}
	return Copy(LocalPlace(result))
}

// lowerWhile lowers `while cond { body }`: test at top, body block, jump
// back to top; exits to end when cond is false. A while loop never yields
// a value (§3.3 — only `loop` can be a value-producing expression via
// `break value`).
func (b *Builder) lowerWhile(e *hir.Expr) Operand {
	top := b.newBlock()
	body := b.newBlock()
	end := b.newBlock()

	b.gotoIfOpen(top)
	b.switchTo(top)
	cond := b.lowerExpr(e.While.Cond)
	b.setTerminator(Terminator{
		Kind:         TermSwitchInt,
		Span:         e.Span,
		Discriminant: cond,
		Targets:      []SwitchTarget{{Value: 1, Target: body}},
		Otherwise:    end,
	})

	b.switchTo(body)
	b.loops = append(b.loops, loopFrame{continueTarget: top, breakTarget: end, resultLocal: NoLocalID})
	b.lowerExpr(e.While.Body)
	b.loops = b.loops[:len(b.loops)-1]
	b.gotoIfOpen(top)

	b.switchTo(end)
	return unitOperand(e.Span)
}

// lowerFor lowers a `for pattern in iter { body }` loop. No iterator
// protocol desugaring (next()/Option matching) is done: the iterator
// expression is evaluated once up front and the pattern is bound to that
// value itself, not to its elements. The body then falls through to the
// exit, so it runs once unless a `continue` jumps back to the top.
func (b *Builder) lowerFor(e *hir.Expr) Operand {
	iterVal := b.lowerExpr(e.For.Iter)
	top := b.newBlock()
	end := b.newBlock()

	b.gotoIfOpen(top)
	b.switchTo(top)
	b.bindPattern(b.body.Pattern(e.For.Pattern), iterVal)
	b.loops = append(b.loops, loopFrame{continueTarget: top, breakTarget: end, resultLocal: NoLocalID})
	b.lowerExpr(e.For.Body)
	b.loops = b.loops[:len(b.loops)-1]
	b.gotoIfOpen(end)

	b.switchTo(end)
	return unitOperand(e.Span)
}

// lowerCall lowers a direct or indirect call as a Call terminator: the
// callee's value is computed, args are evaluated left to right, and
// control resumes in a fresh block that becomes the join point (real MIR
// models calls as terminators rather than plain RValues since a call is
// where control genuinely leaves the current block).
func (b *Builder) lowerCall(id hir.ExprID, e *hir.Expr) Operand {
	callee := b.lowerExpr(e.Call.Callee)
	args := make([]Operand, len(e.Call.Args))
	for i, a := range e.Call.Args {
		args[i] = b.lowerExpr(a)
	}
	result := b.newTemp(b.tyOfExpr(id))
	next := b.newBlock()
	b.setTerminator(Terminator{
		Kind:        TermCall,
		Span:        e.Span,
		Func:        callee,
		Args:        args,
		Destination: LocalPlace(result),
		Target:      next,
		HasTarget:   true,
	})
	b.switchTo(next)
	return Copy(LocalPlace(result))
}

// lowerMethodCall lowers receiver.method(args) as an ordinary call whose
// first argument is the receiver — method resolution (which def
// `Method` named) already happened in internal/infer; MIR only needs the
// function it resolved to, which MethodCallData does not carry, so the
// Call emitted here uses the receiver operand itself as Func (the receiver
// is also the first argument) and writes into a temp of the call
// expression's inferred type.
func (b *Builder) lowerMethodCall(id hir.ExprID, e *hir.Expr) Operand {
	recv := b.lowerExpr(e.MethodCall.Receiver)
	args := make([]Operand, 0, len(e.MethodCall.Args)+1)
	args = append(args, recv)
	for _, a := range e.MethodCall.Args {
		args = append(args, b.lowerExpr(a))
	}
	result := b.newTemp(b.tyOfExpr(id))
	next := b.newBlock()
	b.setTerminator(Terminator{
		Kind:        TermCall,
		Span:        e.Span,
		Func:        recv,
		Args:        args,
		Destination: LocalPlace(result),
		Target:      next,
		HasTarget:   true,
	})
	b.switchTo(next)
	return Copy(LocalPlace(result))
}

func (b *Builder) lowerFieldAccess(e *hir.Expr) Operand {
	base := b.lowerExpr(e.FieldAccess.Base)
	place := asPlace(base)
	place.Projection = append(place.Projection, PlaceElem{Kind: ElemField, Field: e.FieldAccess.Field})
	return Copy(place)
}

func (b *Builder) lowerStructLit(id hir.ExprID, e *hir.Expr) Operand {
	operands := make([]Operand, len(e.StructLit.Fields))
	for i, f := range e.StructLit.Fields {
		operands[i] = b.lowerExpr(f.Value)
	}
	return b.assignTemp(e.Span, b.tyOfExpr(id), RValue{
		Kind: RValueAggregate,
		Aggr: AggrRValue{Kind: AggregateStruct, Def: e.StructLit.Def, Operands: operands},
	})
}

func (b *Builder) lowerTuple(id hir.ExprID, e *hir.Expr) Operand {
	operands := make([]Operand, len(e.Tuple))
	for i, item := range e.Tuple {
		operands[i] = b.lowerExpr(item)
	}
	return b.assignTemp(e.Span, b.tyOfExpr(id), RValue{
		Kind: RValueAggregate,
		Aggr: AggrRValue{Kind: AggregateTuple, Operands: operands},
	})
}

func (b *Builder) lowerBinaryOp(id hir.ExprID, e *hir.Expr) Operand {
	left := b.lowerExpr(e.BinaryOp.Left)
	right := b.lowerExpr(e.BinaryOp.Right)
	return b.assignTemp(e.Span, b.tyOfExpr(id), RValue{
		Kind:     RValueBinaryOp,
		BinaryOp: BinaryOpRValue{Op: e.BinaryOp.Op, Left: left, Right: right},
	})
}

func (b *Builder) lowerUnaryOp(id hir.ExprID, e *hir.Expr) Operand {
	inner := b.lowerExpr(e.UnaryOp.Operand)
	return b.assignTemp(e.Span, b.tyOfExpr(id), RValue{
		Kind:    RValueUnaryOp,
		UnaryOp: UnaryOpRValue{Op: e.UnaryOp.Op, Operand: inner},
	})
}

func (b *Builder) lowerAssignment(e *hir.Expr) Operand {
	targetOp := b.lowerExpr(e.Assignment.Target)
	place := asPlace(targetOp)
	val := b.lowerExpr(e.Assignment.Value)
	b.assign(e.Span, place, useRValue(val))
	return unitOperand(e.Span)
}

func (b *Builder) lowerRef(e *hir.Expr) Operand {
	inner := b.lowerExpr(e.Ref.Inner)
	place := asPlace(inner)
	return b.assignTemp(e.Span, 0, RValue{Kind: RValueRef, Ref: RefRValue{Mutable: e.Ref.Mutable, Place: place}})
}

// lowerBreak closes the current block with a Goto to the innermost
// loop's break target, depositing a value first if the loop yields one.
func (b *Builder) lowerBreak(e *hir.Expr) Operand {
	if len(b.loops) == 0 {
		return unitOperand(e.Span)
	}
	frame := b.loops[len(b.loops)-1]
	if e.Break.IsValid() && frame.resultLocal != NoLocalID {
		val := b.lowerExpr(e.Break)
		b.assign(e.Span, LocalPlace(frame.resultLocal), useRValue(val))
	}
	b.gotoIfOpen(frame.breakTarget)
	return unitOperand(e.Span)
}

func (b *Builder) lowerContinue(e *hir.Expr) {
	if len(b.loops) == 0 {
		return
	}
	frame := b.loops[len(b.loops)-1]
	b.gotoIfOpen(frame.continueTarget)
}

func (b *Builder) lowerReturn(e *hir.Expr) Operand {
	if e.Return.IsValid() {
		val := b.lowerExpr(e.Return)
		b.setTerminator(Terminator{Kind: TermReturn, Span: e.Span, Value: val, HasValue: true})
	} else {
		b.setTerminator(Terminator{Kind: TermReturn, Span: e.Span})
	}
	return unitOperand(e.Span)
}

// asPlace recovers the Place an operand reads, for expressions (field
// access, assignment targets, ref) that need to keep projecting rather
// than copy the value out. A constant or function operand has no place;
// callers of asPlace only ever see it applied to variable/field-access
// results, which always lower to Copy/Move.
func asPlace(op Operand) Place {
	switch op.Kind {
	case OperandCopy, OperandMove:
		return op.Place
	default:
		return Place{}
	}
}
