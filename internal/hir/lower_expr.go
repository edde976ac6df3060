package hir

import (
	"ember/internal/ast"
	"ember/internal/source"
	"ember/internal/symbols"
)

// lowerExpr recursively lowers one ast expression into scope's Body,
// resolving every name reference against scope as it goes (§4.C).
func (b *Builder) lowerExpr(scope symbols.ScopeID, body *Body, id ast.ExprID) ExprID {
	if !id.IsValid() {
		return NoExprID
	}
	src := b.file.Expr(id)
	out := Expr{Kind: ExprKind(src.Kind), Span: src.Span}

	switch src.Kind {
	case ast.ExprLiteral:
		out.Literal = src.Literal
	case ast.ExprVariable:
		out.Variable = b.lowerVariable(scope, src.Variable, src.Span)
	case ast.ExprBlock:
		out.Block = b.lowerBlock(scope, body, src.Block)
	case ast.ExprIf:
		out.If = IfData{
			Cond: b.lowerExpr(scope, body, src.If.Cond),
			Then: b.lowerExpr(scope, body, src.If.Then),
			Else: b.lowerExpr(scope, body, src.If.Else),
		}
	case ast.ExprMatch:
		out.Match = b.lowerMatch(scope, body, src.Match)
	case ast.ExprLoop:
		out.Loop = LoopData{Body: b.lowerExpr(scope, body, src.Loop.Body)}
	case ast.ExprWhile:
		out.While = WhileData{
			Cond: b.lowerExpr(scope, body, src.While.Cond),
			Body: b.lowerExpr(scope, body, src.While.Body),
		}
	case ast.ExprFor:
		out.For = b.lowerFor(scope, body, src.For)
	case ast.ExprCall:
		args := make([]ExprID, len(src.Call.Args))
		for i, a := range src.Call.Args {
			args[i] = b.lowerExpr(scope, body, a)
		}
		out.Call = CallData{Callee: b.lowerExpr(scope, body, src.Call.Callee), Args: args}
	case ast.ExprMethodCall:
		args := make([]ExprID, len(src.MethodCall.Args))
		for i, a := range src.MethodCall.Args {
			args[i] = b.lowerExpr(scope, body, a)
		}
		out.MethodCall = MethodCallData{
			Receiver: b.lowerExpr(scope, body, src.MethodCall.Receiver),
			Method:   src.MethodCall.Method,
			Args:     args,
		}
	case ast.ExprFieldAccess:
		out.FieldAccess = FieldAccessData{Base: b.lowerExpr(scope, body, src.FieldAccess.Base), Field: src.FieldAccess.Field}
	case ast.ExprStructLit:
		out.StructLit = b.lowerStructLit(scope, body, src.StructLit, src.Span)
	case ast.ExprTuple:
		elems := make([]ExprID, len(src.Tuple))
		for i, e := range src.Tuple {
			elems[i] = b.lowerExpr(scope, body, e)
		}
		out.Tuple = elems
	case ast.ExprBinaryOp:
		out.BinaryOp = BinaryOpData{
			Op:    src.BinaryOp.Op,
			Left:  b.lowerExpr(scope, body, src.BinaryOp.Left),
			Right: b.lowerExpr(scope, body, src.BinaryOp.Right),
		}
	case ast.ExprUnaryOp:
		out.UnaryOp = UnaryOpData{Op: src.UnaryOp.Op, Operand: b.lowerExpr(scope, body, src.UnaryOp.Operand)}
	case ast.ExprAssignment:
		out.Assignment = AssignmentData{
			Target: b.lowerExpr(scope, body, src.Assignment.Target),
			Value:  b.lowerExpr(scope, body, src.Assignment.Value),
		}
	case ast.ExprRef:
		out.Ref = RefData{Mutable: src.Ref.Mutable, Inner: b.lowerExpr(scope, body, src.Ref.Inner)}
	case ast.ExprBreak:
		out.Break = b.lowerExpr(scope, body, src.Break)
	case ast.ExprContinue:
		// no payload
	case ast.ExprReturn:
		out.Return = b.lowerExpr(scope, body, src.Return)
	}

	return body.AllocExpr(out)
}

func (b *Builder) lowerVariable(scope symbols.ScopeID, name source.Symbol, span source.Span) VariableData {
	res, _ := b.resolveName(scope, name, span)
	return VariableData{Name: name, Resolution: res, UseScope: scope}
}
