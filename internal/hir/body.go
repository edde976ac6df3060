package hir

import "ember/internal/ast"

// Body is a function/const/static's expression body (§3.3): it owns two
// parallel arenas, exprs and patterns, plus the id of the root expression.
type Body struct {
	Exprs    *ast.Arena[Expr]
	Patterns *ast.Arena[Pattern]
	Stmts    *ast.Arena[Stmt]
	Root     ExprID
}

// NewBody creates an empty body ready for HIR construction to populate.
func NewBody() *Body {
	return &Body{
		Exprs:    ast.NewArena[Expr](16),
		Patterns: ast.NewArena[Pattern](8),
		Stmts:    ast.NewArena[Stmt](16),
	}
}

// AllocExpr appends e and returns its id.
func (b *Body) AllocExpr(e Expr) ExprID { return ExprID(b.Exprs.Allocate(e)) }

// Expr returns the expression at id.
func (b *Body) Expr(id ExprID) *Expr { return b.Exprs.Get(uint32(id)) }

// AllocPattern appends p and returns its id.
func (b *Body) AllocPattern(p Pattern) PatternID { return PatternID(b.Patterns.Allocate(p)) }

// Pattern returns the pattern at id.
func (b *Body) Pattern(id PatternID) *Pattern { return b.Patterns.Get(uint32(id)) }

// AllocStmt appends s and returns its id.
func (b *Body) AllocStmt(s Stmt) StmtID { return StmtID(b.Stmts.Allocate(s)) }

// Stmt returns the statement at id.
func (b *Body) Stmt(id StmtID) *Stmt { return b.Stmts.Get(uint32(id)) }
