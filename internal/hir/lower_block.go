package hir

import (
	"ember/internal/ast"
	"ember/internal/source"
	"ember/internal/symbols"
)

// lowerBlock enters a new child scope (§4.C: entering a block creates a
// child scope), then lowers every statement and the trailing tail
// expression against it.
func (b *Builder) lowerBlock(scope symbols.ScopeID, body *Body, src ast.BlockExprData) BlockData {
	blockScope := b.mod.Scopes.CreateChild(scope, symbols.ScopeBlock, source.Span{})
	stmts := make([]StmtID, len(src.Stmts))
	for i, sid := range src.Stmts {
		stmts[i] = b.lowerStmt(blockScope, body, sid)
	}
	return BlockData{Stmts: stmts, Tail: b.lowerExpr(blockScope, body, src.Tail)}
}

func (b *Builder) lowerStmt(scope symbols.ScopeID, body *Body, sid ast.StmtID) StmtID {
	s := b.file.Stmt(sid)
	if s.Pattern.IsValid() {
		val := b.lowerExpr(scope, body, s.Init)
		pat := b.lowerPattern(scope, body, s.Pattern)
		return body.AllocStmt(Stmt{Span: s.Span, Pattern: pat, Value: val})
	}
	return body.AllocStmt(Stmt{Span: s.Span, Pattern: NoPatternID, Value: b.lowerExpr(scope, body, s.IsExpr)})
}

func (b *Builder) lowerMatch(scope symbols.ScopeID, body *Body, src ast.MatchExprData) MatchData {
	scrutinee := b.lowerExpr(scope, body, src.Scrutinee)
	arms := make([]MatchArm, len(src.Arms))
	for i, arm := range src.Arms {
		armScope := b.mod.Scopes.CreateChild(scope, symbols.ScopeMatchArm, arm.Span)
		pat := b.lowerPattern(armScope, body, arm.Pattern)
		arms[i] = MatchArm{
			Span:     arm.Span,
			Pattern:  pat,
			ArmScope: armScope,
			Guard:    b.lowerExpr(armScope, body, arm.Guard),
			Body:     b.lowerExpr(armScope, body, arm.Body),
		}
	}
	return MatchData{Scrutinee: scrutinee, Arms: arms}
}

func (b *Builder) lowerFor(scope symbols.ScopeID, body *Body, src ast.ForExprData) ForData {
	iter := b.lowerExpr(scope, body, src.Iter)
	loopScope := b.mod.Scopes.CreateChild(scope, symbols.ScopeBlock, source.Span{})
	pat := b.lowerPattern(loopScope, body, src.Pattern)
	return ForData{Pattern: pat, Iter: iter, Body: b.lowerExpr(loopScope, body, src.Body)}
}

func (b *Builder) lowerStructLit(scope symbols.ScopeID, body *Body, src ast.StructLitExprData, span source.Span) StructLitData {
	def := b.resolveTypeDef(scope, src.TypeName, span)
	fields := make([]StructFieldInit, len(src.Fields))
	for i, f := range src.Fields {
		fields[i] = StructFieldInit{Name: f.Name, Value: b.lowerExpr(scope, body, f.Value)}
	}
	return StructLitData{Def: def, Fields: fields}
}
