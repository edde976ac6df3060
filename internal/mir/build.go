package mir

import (
	"ember/internal/diag"
	"ember/internal/hir"
	"ember/internal/source"
	"ember/internal/types"
)

// Builder lowers one hir.Body into a Function: a control-flow graph of
// basic blocks, threading statements and jumps the way the HIR's
// expression tree implies. It mirrors the "context with a current block"
// shape a CFG-flattening lowering needs (create a block, switch to it,
// push statements, set its terminator) rather than a tree-walk that
// returns a value directly, since one expression can now span several
// blocks (an if, a loop).
//
// Locals are keyed by name rather than by hir.LocalID: hir.LocalID is
// minted from a module-wide counter with no accessor back to "the locals
// of this one function", so Builder reuses the same name-keyed
// convention internal/types' Context.VarType already establishes for
// per-body local bookkeeping.
type Builder struct {
	defID    hir.DefID
	body     *hir.Body
	ctx      *types.Context
	reporter diag.Reporter

	blocks  []BasicBlock
	locals  []Local
	current BlockID

	localByName map[source.Symbol]LocalID

	loops []loopFrame
}

// loopFrame records the blocks a break/continue inside a loop body jumps
// to, plus where a `break value` should deposit its value.
type loopFrame struct {
	continueTarget BlockID
	breakTarget    BlockID
	resultLocal    LocalID // NoLocalID if the loop never yields a value
}

// BuildFunction lowers fn's body into MIR. ctx may be nil; when present,
// it supplies per-expression types (internal/infer's output) for naming
// temporaries' types, which would otherwise default to NoTyID.
func BuildFunction(defID hir.DefID, fn *hir.FunctionDef, body *hir.Body, ctx *types.Context, r diag.Reporter) *Function {
	b := &Builder{
		defID:       defID,
		body:        body,
		ctx:         ctx,
		reporter:    r,
		localByName: make(map[source.Symbol]LocalID),
	}

	entry := b.newBlock()
	b.current = entry

	for _, p := range fn.Params {
		b.newNamedLocal(p.Name, p.Mutable)
	}
	paramCount := uint32(len(fn.Params))

	if body == nil || !body.Root.IsValid() {
		b.setTerminator(Terminator{Kind: TermReturn})
		return b.finish(entry, paramCount)
	}

	result := b.lowerExpr(body.Root)
	if b.blockOpen() {
		b.setTerminator(Terminator{Kind: TermReturn, Value: result, HasValue: true})
	}
	return b.finish(entry, paramCount)
}

// finish packages the blocks and locals built so far into a Function. A
// block left with its placeholder Unreachable terminator is not an
// error: it is reachable only via paths the HIR proves never execute
// (e.g. the closed side of a branch that diverged).
func (b *Builder) finish(entry BlockID, paramCount uint32) *Function {
	return &Function{
		ID:         b.defID,
		Blocks:     b.blocks,
		Locals:     b.locals,
		Entry:      entry,
		ParamCount: paramCount,
	}
}

// newBlock allocates a fresh, initially Unreachable block and returns its id.
func (b *Builder) newBlock() BlockID {
	id := BlockID(len(b.blocks) + 1)
	b.blocks = append(b.blocks, BasicBlock{ID: id, Terminator: Terminator{Kind: TermUnreachable}})
	return id
}

// switchTo makes block the target of subsequent push/setTerminator calls.
func (b *Builder) switchTo(block BlockID) { b.current = block }

func (b *Builder) block() *BasicBlock { return &b.blocks[b.current-1] }

// blockOpen reports whether the current block still has its placeholder
// Unreachable terminator, i.e. nothing has closed it yet.
func (b *Builder) blockOpen() bool { return b.block().Terminator.Kind == TermUnreachable }

func (b *Builder) push(s Statement) { blk := b.block(); blk.Statements = append(blk.Statements, s) }

func (b *Builder) setTerminator(t Terminator) { b.block().Terminator = t }

// gotoIfOpen closes the current block with a Goto to target, but only if
// nothing already closed it — a branch that itself ended in a Return or
// another Goto (e.g. the then-arm of a nested if) must keep its own
// terminator rather than being overwritten.
func (b *Builder) gotoIfOpen(target BlockID) {
	if b.blockOpen() {
		b.setTerminator(Terminator{Kind: TermGoto, Target: target})
	}
}

func (b *Builder) newLocal(name source.Symbol, ty types.TyID, mutable bool) LocalID {
	id := LocalID(len(b.locals) + 1)
	b.locals = append(b.locals, Local{ID: id, Name: name, Ty: ty, Mutable: mutable})
	return id
}

func (b *Builder) newNamedLocal(name source.Symbol, mutable bool) LocalID {
	ty := b.tyOfVar(name)
	id := b.newLocal(name, ty, mutable)
	b.localByName[name] = id
	return id
}

// newTemp allocates an unnamed local to hold an intermediate value, e.g.
// the join result of an if/match/loop expression.
func (b *Builder) newTemp(ty types.TyID) LocalID {
	return b.newLocal(source.NoSymbol, ty, true)
}

func (b *Builder) tyOfVar(name source.Symbol) types.TyID {
	if b.ctx == nil {
		return types.NoTyID
	}
	ty, _ := b.ctx.VarType(name)
	return ty
}

func (b *Builder) tyOfExpr(id hir.ExprID) types.TyID {
	if b.ctx == nil {
		return types.NoTyID
	}
	ty, _ := b.ctx.ExprType(id)
	return ty
}

// assign pushes a StmtAssign writing value into place.
func (b *Builder) assign(span source.Span, place Place, value RValue) {
	b.push(Statement{Kind: StmtAssign, Span: span, Place: place, Value: value})
}

func useRValue(op Operand) RValue { return RValue{Kind: RValueUse, Use: op} }

// assignTemp allocates a fresh temp of ty, brackets its lifetime with a
// StorageLive, assigns value into it, and returns an operand reading it
// back by move (its only reader is whoever asked for this temp's value,
// so moving it is always safe).
func (b *Builder) assignTemp(span source.Span, ty types.TyID, value RValue) Operand {
	t := b.newTemp(ty)
	b.push(Statement{Kind: StmtStorageLive, Span: span, Local: t})
	b.assign(span, LocalPlace(t), value)
	return Move(LocalPlace(t))
}
