package consteval

import (
	"fmt"
	"math"

	"ember/internal/ast"
	"ember/internal/diag"
	"ember/internal/hir"
	"ember/internal/source"
)

// Evaluator reduces a const-eligible HIR expression to a ConstValue,
// reporting diagnostics through the Const taxonomy (§7: NonConstExpr,
// DivisionByZero, OverflowError, UnsupportedOperation) on failure rather
// than panicking — matching the accumulate-don't-throw posture every other
// analysis pass in this module takes.
//
// No evaluator.rs survives in the grounding source for this crate (its
// lib.rs declares `mod evaluator;` but the file itself isn't in the pack);
// this is built from the crate's ConstValue/ConstError shapes plus the
// general "walk a small const-subset of the expression language" technique
// every pass in this module already uses for its own HIR walk.
type Evaluator struct {
	module   *hir.Module
	interner *source.Interner
	reporter diag.Reporter

	cache      map[hir.DefID]ConstValue
	evaluating map[hir.DefID]bool
}

// NewEvaluator constructs an Evaluator over module, resolving string
// literals and field names through interner and reporting failures to r.
func NewEvaluator(module *hir.Module, interner *source.Interner, r diag.Reporter) *Evaluator {
	return &Evaluator{
		module:     module,
		interner:   interner,
		reporter:   r,
		cache:      make(map[hir.DefID]ConstValue),
		evaluating: make(map[hir.DefID]bool),
	}
}

// Eval reduces the expression id within body to a ConstValue. ok is false
// if the expression isn't const-evaluable or a const-evaluation error
// occurred; in either case a diagnostic has already been reported.
func (e *Evaluator) Eval(body *hir.Body, id hir.ExprID) (ConstValue, bool) {
	expr := body.Expr(id)
	switch expr.Kind {
	case hir.ExprLiteral:
		return e.evalLiteral(expr)
	case hir.ExprBlock:
		return e.evalBlock(body, expr)
	case hir.ExprIf:
		return e.evalIf(body, expr)
	case hir.ExprVariable:
		return e.evalVariable(expr)
	case hir.ExprFieldAccess:
		return e.evalFieldAccess(body, expr)
	case hir.ExprStructLit:
		return e.evalStructLit(body, expr)
	case hir.ExprTuple:
		return e.evalTuple(body, expr)
	case hir.ExprBinaryOp:
		return e.evalBinaryOp(body, expr)
	case hir.ExprUnaryOp:
		return e.evalUnaryOp(body, expr)
	case hir.ExprMatch, hir.ExprLoop, hir.ExprWhile, hir.ExprFor,
		hir.ExprCall, hir.ExprMethodCall, hir.ExprAssignment, hir.ExprRef:
		e.unsupported(expr.Span, "control flow, call, assignment or reference")
		return ConstValue{}, false
	default:
		e.nonConst(expr.Span)
		return ConstValue{}, false
	}
}

// EvalConst evaluates a DefConst's body, memoizing the result so a const
// referenced from several other const expressions is only evaluated once.
// A const that (directly or transitively) references itself reports
// NonConstExpr rather than recursing forever.
func (e *Evaluator) EvalConst(defID hir.DefID) (ConstValue, bool) {
	if v, ok := e.cache[defID]; ok {
		return v, true
	}
	def := e.module.Def(defID)
	if def.Kind != hir.DefConst && def.Kind != hir.DefStatic {
		e.nonConst(def.Span)
		return ConstValue{}, false
	}
	if def.Kind == hir.DefStatic && def.Static.Mutable {
		e.nonConst(def.Span)
		return ConstValue{}, false
	}
	if e.evaluating[defID] {
		e.nonConst(def.Span)
		return ConstValue{}, false
	}

	bodyID := def.Const.Body
	if def.Kind == hir.DefStatic {
		bodyID = def.Static.Body
	}
	body := e.module.BodyOf(bodyID)
	if body == nil {
		e.nonConst(def.Span)
		return ConstValue{}, false
	}

	e.evaluating[defID] = true
	v, ok := e.Eval(body, body.Root)
	delete(e.evaluating, defID)
	if !ok {
		return ConstValue{}, false
	}
	e.cache[defID] = v
	return v, true
}

func (e *Evaluator) evalLiteral(expr *hir.Expr) (ConstValue, bool) {
	lit := expr.Literal
	switch lit.Kind {
	case ast.LiteralInt:
		return IntValue(lit.Int), true
	case ast.LiteralFloat:
		return FloatValue(lit.Float), true
	case ast.LiteralBool:
		return BoolValue(lit.Bool), true
	case ast.LiteralString:
		return StringValue(e.interner.MustLookup(lit.Str)), true
	case ast.LiteralUnit:
		return UnitValue, true
	default:
		e.nonConst(expr.Span)
		return ConstValue{}, false
	}
}

// evalBlock supports only the shape a const body actually needs: a
// sequence of bindings is not const-evaluable (a const expression has no
// mutable environment to bind into), so a block with any statements is
// rejected as UnsupportedOperation; a block with only a trailing value
// evaluates straight through to it.
func (e *Evaluator) evalBlock(body *hir.Body, expr *hir.Expr) (ConstValue, bool) {
	if len(expr.Block.Stmts) > 0 {
		e.unsupported(expr.Span, "let-bindings in a const expression")
		return ConstValue{}, false
	}
	if !expr.Block.Tail.IsValid() {
		return UnitValue, true
	}
	return e.Eval(body, expr.Block.Tail)
}

func (e *Evaluator) evalIf(body *hir.Body, expr *hir.Expr) (ConstValue, bool) {
	cond, ok := e.Eval(body, expr.If.Cond)
	if !ok {
		return ConstValue{}, false
	}
	b, ok := cond.AsBool()
	if !ok {
		e.unsupported(expr.Span, fmt.Sprintf("if condition of type %s", cond.typeName()))
		return ConstValue{}, false
	}
	if b {
		return e.Eval(body, expr.If.Then)
	}
	if !expr.If.Else.IsValid() {
		return UnitValue, true
	}
	return e.Eval(body, expr.If.Else)
}

// evalVariable resolves a name reference used inside a const expression. A
// reference to a function parameter or let-binding is never const (there's
// no enclosing call to bind it); a reference to another const (or a
// non-mutable static) recurses into EvalConst.
func (e *Evaluator) evalVariable(expr *hir.Expr) (ConstValue, bool) {
	resolution := expr.Variable.Resolution.DefID
	if hir.IsLocal(resolution) {
		e.nonConst(expr.Span)
		return ConstValue{}, false
	}
	return e.EvalConst(hir.AsItemDefID(resolution))
}

func (e *Evaluator) evalFieldAccess(body *hir.Body, expr *hir.Expr) (ConstValue, bool) {
	base, ok := e.Eval(body, expr.FieldAccess.Base)
	if !ok {
		return ConstValue{}, false
	}
	if base.Kind != ValueStruct {
		e.unsupported(expr.Span, fmt.Sprintf("field access on %s", base.typeName()))
		return ConstValue{}, false
	}
	for _, f := range base.Fields {
		if f.Name == expr.FieldAccess.Field {
			return f.Value, true
		}
	}
	e.nonConst(expr.Span)
	return ConstValue{}, false
}

func (e *Evaluator) evalStructLit(body *hir.Body, expr *hir.Expr) (ConstValue, bool) {
	fields := make([]StructField, 0, len(expr.StructLit.Fields))
	for _, init := range expr.StructLit.Fields {
		v, ok := e.Eval(body, init.Value)
		if !ok {
			return ConstValue{}, false
		}
		fields = append(fields, StructField{Name: init.Name, Value: v})
	}
	return ConstValue{Kind: ValueStruct, Fields: fields}, true
}

func (e *Evaluator) evalTuple(body *hir.Body, expr *hir.Expr) (ConstValue, bool) {
	elems := make([]ConstValue, 0, len(expr.Tuple))
	for _, id := range expr.Tuple {
		v, ok := e.Eval(body, id)
		if !ok {
			return ConstValue{}, false
		}
		elems = append(elems, v)
	}
	return ConstValue{Kind: ValueTuple, Tuple: elems}, true
}

func (e *Evaluator) evalUnaryOp(body *hir.Body, expr *hir.Expr) (ConstValue, bool) {
	operand, ok := e.Eval(body, expr.UnaryOp.Operand)
	if !ok {
		return ConstValue{}, false
	}
	switch expr.UnaryOp.Op {
	case ast.UnaryNeg:
		if i, ok := operand.AsInt(); ok {
			if i == math.MinInt64 {
				e.overflow(expr.Span)
				return ConstValue{}, false
			}
			return IntValue(-i), true
		}
		if f, ok := operand.AsFloat(); ok {
			return FloatValue(-f), true
		}
	case ast.UnaryNot:
		if b, ok := operand.AsBool(); ok {
			return BoolValue(!b), true
		}
	case ast.UnaryDeref:
		e.unsupported(expr.Span, "dereference in const context")
		return ConstValue{}, false
	}
	e.unsupported(expr.Span, fmt.Sprintf("unary operator on %s", operand.typeName()))
	return ConstValue{}, false
}

func (e *Evaluator) evalBinaryOp(body *hir.Body, expr *hir.Expr) (ConstValue, bool) {
	left, ok := e.Eval(body, expr.BinaryOp.Left)
	if !ok {
		return ConstValue{}, false
	}
	right, ok := e.Eval(body, expr.BinaryOp.Right)
	if !ok {
		return ConstValue{}, false
	}

	li, lIsInt := left.AsInt()
	ri, rIsInt := right.AsInt()
	if lIsInt && rIsInt {
		return e.evalIntBinaryOp(expr, li, ri)
	}

	lf, lIsFloat := left.AsFloat()
	rf, rIsFloat := right.AsFloat()
	if lIsFloat && rIsFloat {
		return e.evalFloatBinaryOp(expr, lf, rf)
	}

	lb, lIsBool := left.AsBool()
	rb, rIsBool := right.AsBool()
	if lIsBool && rIsBool {
		return e.evalBoolBinaryOp(expr, lb, rb)
	}

	e.unsupported(expr.Span, fmt.Sprintf("%s %s", left.typeName(), right.typeName()))
	return ConstValue{}, false
}

func (e *Evaluator) evalIntBinaryOp(expr *hir.Expr, l, r int64) (ConstValue, bool) {
	switch expr.BinaryOp.Op {
	case ast.BinAdd:
		sum, overflowed := addInt64(l, r)
		if overflowed {
			e.overflow(expr.Span)
			return ConstValue{}, false
		}
		return IntValue(sum), true
	case ast.BinSub:
		diff, overflowed := subInt64(l, r)
		if overflowed {
			e.overflow(expr.Span)
			return ConstValue{}, false
		}
		return IntValue(diff), true
	case ast.BinMul:
		prod, overflowed := mulInt64(l, r)
		if overflowed {
			e.overflow(expr.Span)
			return ConstValue{}, false
		}
		return IntValue(prod), true
	case ast.BinDiv:
		if r == 0 {
			e.divisionByZero(expr.Span)
			return ConstValue{}, false
		}
		if l == math.MinInt64 && r == -1 {
			e.overflow(expr.Span)
			return ConstValue{}, false
		}
		return IntValue(l / r), true
	case ast.BinMod:
		if r == 0 {
			e.divisionByZero(expr.Span)
			return ConstValue{}, false
		}
		return IntValue(l % r), true
	case ast.BinEq:
		return BoolValue(l == r), true
	case ast.BinNotEq:
		return BoolValue(l != r), true
	case ast.BinLess:
		return BoolValue(l < r), true
	case ast.BinLessEq:
		return BoolValue(l <= r), true
	case ast.BinGreater:
		return BoolValue(l > r), true
	case ast.BinGreaterEq:
		return BoolValue(l >= r), true
	case ast.BinBitAnd:
		return IntValue(l & r), true
	case ast.BinBitOr:
		return IntValue(l | r), true
	case ast.BinBitXor:
		return IntValue(l ^ r), true
	case ast.BinShiftLeft:
		return IntValue(l << uint64(r)), true
	case ast.BinShiftRight:
		return IntValue(l >> uint64(r)), true
	default:
		e.unsupported(expr.Span, "int int")
		return ConstValue{}, false
	}
}

func (e *Evaluator) evalFloatBinaryOp(expr *hir.Expr, l, r float64) (ConstValue, bool) {
	switch expr.BinaryOp.Op {
	case ast.BinAdd:
		return FloatValue(l + r), true
	case ast.BinSub:
		return FloatValue(l - r), true
	case ast.BinMul:
		return FloatValue(l * r), true
	case ast.BinDiv:
		if r == 0 {
			e.divisionByZero(expr.Span)
			return ConstValue{}, false
		}
		return FloatValue(l / r), true
	case ast.BinEq:
		return BoolValue(l == r), true
	case ast.BinNotEq:
		return BoolValue(l != r), true
	case ast.BinLess:
		return BoolValue(l < r), true
	case ast.BinLessEq:
		return BoolValue(l <= r), true
	case ast.BinGreater:
		return BoolValue(l > r), true
	case ast.BinGreaterEq:
		return BoolValue(l >= r), true
	default:
		e.unsupported(expr.Span, "float float")
		return ConstValue{}, false
	}
}

func (e *Evaluator) evalBoolBinaryOp(expr *hir.Expr, l, r bool) (ConstValue, bool) {
	switch expr.BinaryOp.Op {
	case ast.BinLogicalAnd:
		return BoolValue(l && r), true
	case ast.BinLogicalOr:
		return BoolValue(l || r), true
	case ast.BinEq:
		return BoolValue(l == r), true
	case ast.BinNotEq:
		return BoolValue(l != r), true
	default:
		e.unsupported(expr.Span, "bool bool")
		return ConstValue{}, false
	}
}

func (e *Evaluator) nonConst(span source.Span) {
	diag.ReportError(e.reporter, diag.ConstNonConstExpr, span,
		"expression is not a constant expression").Emit()
}

func (e *Evaluator) divisionByZero(span source.Span) {
	diag.ReportError(e.reporter, diag.ConstDivisionByZero, span,
		"division by zero in const evaluation").Emit()
}

func (e *Evaluator) overflow(span source.Span) {
	diag.ReportError(e.reporter, diag.ConstOverflow, span,
		"integer overflow in const evaluation").Emit()
}

// unsupported reports an UnsupportedOperation. The grounding source's error
// taxonomy also has TypeMismatch/InvalidBinaryOp/InvalidUnaryOp variants
// beyond the four spec.md §7 already names; those collapse into this one
// code here rather than inventing diag codes past what the spec's own
// taxonomy enumerates — operation is folded into the message instead.
func (e *Evaluator) unsupported(span source.Span, operation string) {
	diag.ReportError(e.reporter, diag.ConstUnsupportedOp, span,
		fmt.Sprintf("unsupported operation in const context: %s", operation)).Emit()
}

func addInt64(a, b int64) (sum int64, overflowed bool) {
	sum = a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, true
	}
	return sum, false
}

func subInt64(a, b int64) (diff int64, overflowed bool) {
	diff = a - b
	if (b < 0 && diff < a) || (b > 0 && diff > a) {
		return 0, true
	}
	return diff, false
}

func mulInt64(a, b int64) (prod int64, overflowed bool) {
	if a == 0 || b == 0 {
		return 0, false
	}
	if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, true
	}
	prod = a * b
	if prod/b != a {
		return 0, true
	}
	return prod, false
}
