package lir

import (
	"ember/internal/hir"
	"ember/internal/mir"
	"ember/internal/source"
	"ember/internal/types"
)

// LowerFunction lowers a fully monomorphized mir.Function (one produced by
// internal/mono.Monomorphizer.Instantiate, or any non-generic function
// that never needed instantiation) into its LIR counterpart: same blocks
// and control flow, concrete types throughout, and every field access
// resolved from a symbol name down to a numeric offset into its struct's
// concrete layout.
func LowerFunction(ctx *types.Context, interner *source.Interner, fn *mir.Function) *Function {
	out := &Function{
		ID:         fn.ID,
		Entry:      BlockID(fn.Entry),
		ParamCount: fn.ParamCount,
		Locals:     make([]Local, len(fn.Locals)),
		Blocks:     make([]BasicBlock, len(fn.Blocks)),
	}
	for i, l := range fn.Locals {
		out.Locals[i] = lowerLocal(ctx, l)
	}
	for i, blk := range fn.Blocks {
		out.Blocks[i] = lowerBlock(ctx, interner, fn, blk)
	}
	return out
}

func lowerLocal(ctx *types.Context, l mir.Local) Local {
	return Local{
		ID:      LocalID(l.ID),
		Name:    l.Name,
		Ty:      lowerType(ctx, l.Ty),
		Mutable: l.Mutable,
	}
}

// lowerType converts a concrete types.TyID into a closed lir.Type. Calling
// this on a Ty that still contains a Var, Param, or generic Named variant
// is a caller error: monomorphization should have eliminated all three
// before LIR lowering ever runs. Var and Param fall back to Unit and a
// Named lowers to an opaque struct rather than panicking, since a malformed-input diagnostic (not a crash)
// is how the rest of this pipeline reports a stage invariant being
// violated upstream.
func lowerType(ctx *types.Context, id types.TyID) Type {
	if !id.IsValid() {
		return Type{Kind: TypeUnit}
	}
	t := ctx.Arena.Get(id)
	switch t.Kind {
	case types.KindInt:
		return Type{Kind: TypeInt}
	case types.KindFloat:
		return Type{Kind: TypeFloat}
	case types.KindBool:
		return Type{Kind: TypeBool}
	case types.KindString:
		return Type{Kind: TypeString}
	case types.KindUnit, types.KindNever, types.KindError:
		return Type{Kind: TypeUnit}
	case types.KindStruct:
		fields := make([]Type, len(t.Struct.Fields))
		for i, f := range t.Struct.Fields {
			fields[i] = lowerType(ctx, f.Type)
		}
		return Type{Kind: TypeStruct, StructFields: fields}
	case types.KindEnum:
		variants := make([]Variant, len(t.Enum.Variants))
		for i, v := range t.Enum.Variants {
			fields := make([]Type, len(v.Fields))
			for j, f := range v.Fields {
				fields[j] = lowerType(ctx, f.Type)
			}
			variants[i] = Variant{Name: v.Name, Fields: fields}
		}
		return Type{Kind: TypeEnum, EnumVariants: variants}
	case types.KindArray:
		elem := lowerType(ctx, t.Array.Element)
		return Type{Kind: TypeArray, ArrayElement: &elem, ArraySize: t.Array.Size}
	case types.KindSlice:
		elem := lowerType(ctx, t.Slice)
		return Type{Kind: TypeSlice, SliceElement: &elem}
	case types.KindTuple:
		elements := make([]Type, len(t.Tuple.Elements))
		for i, e := range t.Tuple.Elements {
			elements[i] = lowerType(ctx, e)
		}
		return Type{Kind: TypeTuple, TupleElements: elements}
	case types.KindRef:
		inner := lowerType(ctx, t.Ref.Inner)
		return Type{Kind: TypeRef, RefMutable: t.Ref.Mutable, RefInner: &inner}
	case types.KindFunction:
		params := make([]Type, len(t.Function.Params))
		for i, p := range t.Function.Params {
			params[i] = lowerType(ctx, p)
		}
		ret := lowerType(ctx, t.Function.Ret)
		return Type{Kind: TypeFunction, FuncParams: params, FuncRet: &ret}
	case types.KindNamed:
		// A Named type surviving to LIR lowering means monomorphization
		// didn't resolve it to its concrete KindStruct/KindEnum; treat it
		// as an opaque struct with no fields rather than lose the name.
		return Type{Kind: TypeStruct, StructName: t.Named.Name}
	default:
		return Type{Kind: TypeUnit}
	}
}

func lowerBlock(ctx *types.Context, interner *source.Interner, fn *mir.Function, blk mir.BasicBlock) BasicBlock {
	stmts := make([]Statement, 0, len(blk.Statements))
	for _, s := range blk.Statements {
		if lowered, ok := lowerStatement(ctx, interner, fn, s); ok {
			stmts = append(stmts, lowered)
		}
	}
	return BasicBlock{
		ID:         BlockID(blk.ID),
		Statements: stmts,
		Terminator: lowerTerminator(ctx, interner, fn, blk.Terminator),
	}
}

// lowerStatement drops StorageLive/StorageDead/Nop: LIR doesn't track
// storage liveness, matching internal/mir→internal/lir's own grounding
// source, which collapses those into Nop. Collapsing them to nothing at
// all (rather than keeping a Nop placeholder) is the one simplification
// from the grounding source this port doesn't reproduce literally, since
// nothing downstream needs a block's statement count preserved.
func lowerStatement(ctx *types.Context, interner *source.Interner, fn *mir.Function, s mir.Statement) (Statement, bool) {
	if s.Kind != mir.StmtAssign {
		return Statement{}, false
	}
	return Statement{
		Kind:  StmtAssign,
		Span:  s.Span,
		Place: lowerPlace(ctx, interner, fn, s.Place),
		Value: lowerRValue(ctx, interner, fn, s.Value),
	}, true
}

func lowerTerminator(ctx *types.Context, interner *source.Interner, fn *mir.Function, t mir.Terminator) Terminator {
	switch t.Kind {
	case mir.TermReturn:
		out := Terminator{Kind: TermReturn, Span: t.Span, HasValue: t.HasValue}
		if t.HasValue {
			out.Value = lowerOperand(ctx, interner, fn, t.Value)
		}
		return out
	case mir.TermGoto:
		return Terminator{Kind: TermGoto, Span: t.Span, Target: BlockID(t.Target)}
	case mir.TermSwitchInt:
		targets := make([]SwitchTarget, len(t.Targets))
		for i, tg := range t.Targets {
			targets[i] = SwitchTarget{Value: tg.Value, Target: BlockID(tg.Target)}
		}
		return Terminator{
			Kind:         TermSwitchInt,
			Span:         t.Span,
			Discriminant: lowerOperand(ctx, interner, fn, t.Discriminant),
			Targets:      targets,
			Otherwise:    BlockID(t.Otherwise),
		}
	case mir.TermCall:
		args := make([]Operand, len(t.Args))
		for i, a := range t.Args {
			args[i] = lowerOperand(ctx, interner, fn, a)
		}
		var target BlockID
		if t.HasTarget {
			target = BlockID(t.Target)
		}
		return Terminator{
			Kind:        TermCall,
			Span:        t.Span,
			Func:        callee(t.Func),
			Args:        args,
			Destination: lowerPlace(ctx, interner, fn, t.Destination),
			Target:      target,
			HasTarget:   t.HasTarget,
		}
	default: // TermUnreachable
		return Terminator{Kind: TermUnreachable, Span: t.Span}
	}
}

// callee extracts a Call terminator's concrete target. A direct function
// reference (OperandFunc) resolves straightforwardly; a callee computed
// through a place (e.g. a method call whose receiver internal/mir
// evaluates conservatively rather than resolving a concrete method, per
// its own documented simplification) has no concrete hir.DefID to report
// here and lowers to NoDefID.
func callee(op mir.Operand) hir.DefID {
	if op.Kind == mir.OperandFunc {
		return op.Func
	}
	return hir.NoDefID
}

func lowerRValue(ctx *types.Context, interner *source.Interner, fn *mir.Function, v mir.RValue) RValue {
	switch v.Kind {
	case mir.RValueUse:
		return RValue{Kind: RValueUse, Use: lowerOperand(ctx, interner, fn, v.Use)}
	case mir.RValueBinaryOp:
		return RValue{
			Kind:          RValueBinaryOp,
			BinaryOpOp:    v.BinaryOp.Op,
			BinaryOpLeft:  lowerOperand(ctx, interner, fn, v.BinaryOp.Left),
			BinaryOpRight: lowerOperand(ctx, interner, fn, v.BinaryOp.Right),
		}
	case mir.RValueUnaryOp:
		return RValue{
			Kind:           RValueUnaryOp,
			UnaryOpOp:      v.UnaryOp.Op,
			UnaryOpOperand: lowerOperand(ctx, interner, fn, v.UnaryOp.Operand),
		}
	case mir.RValueRef:
		return RValue{
			Kind:       RValueRef,
			RefMutable: v.Ref.Mutable,
			RefPlace:   lowerPlace(ctx, interner, fn, v.Ref.Place),
		}
	case mir.RValueAggregate:
		ops := make([]Operand, len(v.Aggr.Operands))
		for i, op := range v.Aggr.Operands {
			ops[i] = lowerOperand(ctx, interner, fn, op)
		}
		kind := AggregateTuple
		if v.Aggr.Kind == mir.AggregateStruct {
			kind = AggregateStruct
		}
		return RValue{Kind: RValueAggregate, AggrKind: kind, AggrOperands: ops}
	default:
		return RValue{}
	}
}

func lowerOperand(ctx *types.Context, interner *source.Interner, fn *mir.Function, op mir.Operand) Operand {
	switch op.Kind {
	case mir.OperandCopy:
		return Copy(lowerPlace(ctx, interner, fn, op.Place))
	case mir.OperandMove:
		return Move(lowerPlace(ctx, interner, fn, op.Place))
	case mir.OperandConstant:
		return ConstOperand(Constant{
			Literal: op.Constant.Literal,
			Ty:      lowerType(ctx, op.Constant.Ty),
			Span:    op.Constant.Span,
		})
	case mir.OperandFunc:
		// A bare function reference surviving to LIR means it was never
		// resolved to a direct call site; represent it as a constant unit
		// value rather than drop it silently, so a malformed-input
		// diagnostic upstream has something concrete to point at.
		return ConstOperand(Constant{Ty: Type{Kind: TypeUnit}})
	default:
		return Operand{}
	}
}

// lowerPlace resolves every Field projection step down to a numeric
// offset by walking fn's locals' concrete types alongside the
// projection, the deferred resolution internal/mir's own doc comments
// push to this package.
func lowerPlace(ctx *types.Context, interner *source.Interner, fn *mir.Function, place mir.Place) Place {
	out := Place{Local: LocalID(place.Local), Projection: make([]PlaceElem, len(place.Projection))}

	current := types.NoTyID
	if l := fn.LocalAt(place.Local); l != nil {
		current = l.Ty
	}

	for i, elem := range place.Projection {
		switch elem.Kind {
		case mir.ElemDeref:
			out.Projection[i] = PlaceElem{Kind: ElemDeref}
			current = derefTarget(ctx, current)
		case mir.ElemIndex:
			out.Projection[i] = PlaceElem{Kind: ElemIndex, Index: LocalID(elem.Index)}
			current = elementTarget(ctx, current)
		case mir.ElemField:
			idx, fieldTy := fieldOffset(ctx, interner, current, elem.Field)
			out.Projection[i] = PlaceElem{Kind: ElemField, FieldIndex: idx}
			current = fieldTy
		}
	}
	return out
}

func derefTarget(ctx *types.Context, ty types.TyID) types.TyID {
	if !ty.IsValid() {
		return ty
	}
	t := ctx.Arena.Get(ty)
	if t.Kind == types.KindRef {
		return t.Ref.Inner
	}
	return ty
}

func elementTarget(ctx *types.Context, ty types.TyID) types.TyID {
	if !ty.IsValid() {
		return ty
	}
	t := ctx.Arena.Get(ty)
	switch t.Kind {
	case types.KindArray:
		return t.Array.Element
	case types.KindSlice:
		return t.Slice
	default:
		return ty
	}
}

func fieldOffset(ctx *types.Context, interner *source.Interner, structTy types.TyID, field source.Symbol) (uint32, types.TyID) {
	if !structTy.IsValid() {
		return 0, types.NoTyID
	}
	t := ctx.Arena.Get(structTy)
	if t.Kind != types.KindStruct {
		return 0, types.NoTyID
	}
	name := interner.MustLookup(field)
	for i, f := range t.Struct.Fields {
		if f.Name == name {
			return uint32(i), f.Type
		}
	}
	return 0, types.NoTyID
}
