package infer

import (
	"ember/internal/ast"
	"ember/internal/hir"
	"ember/internal/types"
)

// Checker walks one function body, assigning every expression a type and
// collecting the constraints the Solver must satisfy (§4.D/§4.E). Checking
// and constraint generation are interleaved the way a classic bidirectional
// HM checker does it: literals/known calls synthesize a concrete type
// immediately, everything that depends on later information gets a fresh
// variable plus an Equality constraint tying it down once that information
// is known.
type Checker struct {
	ctx         *types.Context
	body        *hir.Body
	constraints []Constraint
}

// NewChecker creates a Checker for one body, sharing ctx so
// expression/def types accumulate across every body in the translation
// unit.
func NewChecker(ctx *types.Context, body *hir.Body) *Checker {
	return &Checker{ctx: ctx, body: body}
}

// Constraints returns every constraint collected so far.
func (c *Checker) Constraints() []Constraint { return c.constraints }

func (c *Checker) emit(con Constraint) { c.constraints = append(c.constraints, con) }

// CheckExpr assigns a type to id and everything it contains, returning that
// type. Calling it twice on the same id is safe — the second call reuses
// the recorded result instead of re-walking.
func (c *Checker) CheckExpr(id hir.ExprID) types.TyID {
	if ty, ok := c.ctx.ExprType(id); ok {
		return ty
	}
	e := c.body.Expr(id)
	ty := c.checkExprKind(e)
	c.ctx.SetExprType(id, ty)
	return ty
}

func (c *Checker) src(e *hir.Expr) Source { return Source{Span: e.Span} }

func (c *Checker) checkExprKind(e *hir.Expr) types.TyID {
	a := c.ctx.Arena
	switch e.Kind {
	case hir.ExprLiteral:
		return c.checkLiteral(e.Literal)
	case hir.ExprVariable:
		return c.checkVariable(e)
	case hir.ExprBlock:
		return c.checkBlock(e.Block)
	case hir.ExprIf:
		return c.checkIf(e)
	case hir.ExprMatch:
		return c.checkMatch(e)
	case hir.ExprLoop:
		c.CheckExpr(e.Loop.Body)
		return a.Never
	case hir.ExprWhile:
		c.emit(Equality(c.CheckExpr(e.While.Cond), a.Bool, c.src(e)))
		c.CheckExpr(e.While.Body)
		return a.Unit
	case hir.ExprFor:
		c.CheckExpr(e.For.Iter)
		c.CheckExpr(e.For.Body)
		return a.Unit
	case hir.ExprCall:
		return c.checkCall(e)
	case hir.ExprMethodCall:
		c.CheckExpr(e.MethodCall.Receiver)
		for _, arg := range e.MethodCall.Args {
			c.CheckExpr(arg)
		}
		return c.ctx.FreshTyVar()
	case hir.ExprFieldAccess:
		c.CheckExpr(e.FieldAccess.Base)
		return c.ctx.FreshTyVar()
	case hir.ExprStructLit:
		return c.checkStructLit(e)
	case hir.ExprTuple:
		elems := make([]types.TyID, len(e.Tuple))
		for i, el := range e.Tuple {
			elems[i] = c.CheckExpr(el)
		}
		return a.Alloc(types.Ty{Kind: types.KindTuple, Tuple: types.TupleData{Elements: elems}})
	case hir.ExprBinaryOp:
		return c.checkBinaryOp(e)
	case hir.ExprUnaryOp:
		return c.CheckExpr(e.UnaryOp.Operand)
	case hir.ExprAssignment:
		lhs := c.CheckExpr(e.Assignment.Target)
		rhs := c.CheckExpr(e.Assignment.Value)
		c.emit(Equality(lhs, rhs, c.src(e)))
		return a.Unit
	case hir.ExprRef:
		inner := c.CheckExpr(e.Ref.Inner)
		return a.Alloc(types.Ty{Kind: types.KindRef, Ref: types.RefData{Mutable: e.Ref.Mutable, Inner: inner}})
	case hir.ExprBreak:
		if e.Break.IsValid() {
			c.CheckExpr(e.Break)
		}
		return a.Never
	case hir.ExprContinue:
		return a.Never
	case hir.ExprReturn:
		if e.Return.IsValid() {
			c.CheckExpr(e.Return)
		}
		return a.Never
	default:
		return a.Error
	}
}

func (c *Checker) checkLiteral(lit ast.LiteralExprData) types.TyID {
	a := c.ctx.Arena
	switch lit.Kind {
	case ast.LiteralInt:
		return a.Int
	case ast.LiteralFloat:
		return a.Float
	case ast.LiteralBool:
		return a.Bool
	case ast.LiteralString:
		return a.String
	default:
		return a.Unit
	}
}

func (c *Checker) checkVariable(e *hir.Expr) types.TyID {
	if ty, ok := c.ctx.VarType(e.Variable.Name); ok {
		return ty
	}
	if !hir.IsLocal(e.Variable.Resolution.DefID) {
		def := hir.AsItemDefID(e.Variable.Resolution.DefID)
		if ty, ok := c.ctx.DefType(def); ok {
			return ty
		}
	}
	return c.ctx.Arena.Error
}

func (c *Checker) checkBlock(b hir.BlockData) types.TyID {
	for _, sid := range b.Stmts {
		c.checkStmt(sid)
	}
	if !b.Tail.IsValid() {
		return c.ctx.Arena.Unit
	}
	return c.CheckExpr(b.Tail)
}

func (c *Checker) checkStmt(id hir.StmtID) {
	s := c.body.Stmt(id)
	ty := c.CheckExpr(s.Value)
	if s.Pattern.IsValid() {
		c.bindPattern(s.Pattern, ty)
	}
}

// bindPattern records the type of every Binding leaf under pat so later
// ExprVariable lookups in the same body resolve to a concrete type.
func (c *Checker) bindPattern(id hir.PatternID, ty types.TyID) {
	p := c.body.Pattern(id)
	switch p.Kind {
	case hir.PatternBinding:
		c.ctx.SetVarType(p.Binding.Name, ty)
		if p.Binding.SubPattern.IsValid() {
			c.bindPattern(p.Binding.SubPattern, ty)
		}
	case hir.PatternTuple:
		for _, sub := range p.Tuple {
			c.bindPattern(sub, c.ctx.FreshTyVar())
		}
	case hir.PatternOr:
		for _, alt := range p.Or {
			c.bindPattern(alt, ty)
		}
	}
}

func (c *Checker) checkIf(e *hir.Expr) types.TyID {
	a := c.ctx.Arena
	c.emit(Equality(c.CheckExpr(e.If.Cond), a.Bool, c.src(e)))
	thenTy := c.CheckExpr(e.If.Then)
	if !e.If.Else.IsValid() {
		return a.Unit
	}
	elseTy := c.CheckExpr(e.If.Else)
	c.emit(Equality(thenTy, elseTy, c.src(e)))
	return thenTy
}

func (c *Checker) checkMatch(e *hir.Expr) types.TyID {
	scrutinee := c.CheckExpr(e.Match.Scrutinee)
	result := c.ctx.FreshTyVar()
	for _, arm := range e.Match.Arms {
		c.bindPattern(arm.Pattern, scrutinee)
		if arm.Guard.IsValid() {
			c.emit(Equality(c.CheckExpr(arm.Guard), c.ctx.Arena.Bool, c.src(e)))
		}
		c.emit(Equality(c.CheckExpr(arm.Body), result, c.src(e)))
	}
	return result
}

func (c *Checker) checkCall(e *hir.Expr) types.TyID {
	calleeTy := c.CheckExpr(e.Call.Callee)
	argTys := make([]types.TyID, len(e.Call.Args))
	for i, a := range e.Call.Args {
		argTys[i] = c.CheckExpr(a)
	}
	result := c.ctx.FreshTyVar()
	fnTy := c.ctx.Arena.Alloc(types.Ty{Kind: types.KindFunction, Function: types.FunctionData{Params: argTys, Ret: result}})
	c.emit(Equality(calleeTy, fnTy, c.src(e)))
	return result
}

func (c *Checker) checkBinaryOp(e *hir.Expr) types.TyID {
	a := c.ctx.Arena
	lhs := c.CheckExpr(e.BinaryOp.Left)
	rhs := c.CheckExpr(e.BinaryOp.Right)
	c.emit(Equality(lhs, rhs, c.src(e)))
	switch e.BinaryOp.Op {
	case ast.BinEq, ast.BinNotEq, ast.BinLess, ast.BinLessEq, ast.BinGreater, ast.BinGreaterEq,
		ast.BinLogicalAnd, ast.BinLogicalOr:
		return a.Bool
	default:
		return lhs
	}
}

func (c *Checker) checkStructLit(e *hir.Expr) types.TyID {
	for _, f := range e.StructLit.Fields {
		c.CheckExpr(f.Value)
	}
	if e.StructLit.Def == hir.NoDefID {
		return c.ctx.Arena.Error
	}
	if ty, ok := c.ctx.DefType(e.StructLit.Def); ok {
		return ty
	}
	return c.ctx.Arena.Alloc(types.Ty{Kind: types.KindStruct, Struct: types.StructData{Def: types.DefID(e.StructLit.Def)}})
}
