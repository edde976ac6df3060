package ast

import "ember/internal/source"

// File is the external parser's output for one source file: flat arenas of
// every node kind plus the list of top-level items. HIR construction
// (internal/hir) walks Items and indexes into these arenas; nothing else
// mutates a File after the parser collaborator produces it.
type File struct {
	ID source.FileID

	Items    *Arena[Item]
	Exprs    *Arena[Expr]
	Stmts    *Arena[Stmt]
	Patterns *Arena[Pattern]
	Types    *Arena[TypeExpr]

	// TopLevel lists the items declared directly in the file, in source
	// order. Nested items (trait methods, impl methods) are reached through
	// their owning Item's Methods/Items field, not through TopLevel.
	TopLevel []ItemID
}

// NewFile returns an empty File ready for a parser collaborator to populate.
func NewFile(id source.FileID) *File {
	return &File{
		ID:       id,
		Items:    NewArena[Item](16),
		Exprs:    NewArena[Expr](64),
		Stmts:    NewArena[Stmt](32),
		Patterns: NewArena[Pattern](16),
		Types:    NewArena[TypeExpr](32),
	}
}

// Item returns the item at id, or nil if id is NoItemID.
func (f *File) Item(id ItemID) *Item { return f.Items.Get(uint32(id)) }

// Expr returns the expression at id, or nil if id is NoExprID.
func (f *File) Expr(id ExprID) *Expr { return f.Exprs.Get(uint32(id)) }

// Stmt returns the statement at id, or nil if id is NoStmtID.
func (f *File) Stmt(id StmtID) *Stmt { return f.Stmts.Get(uint32(id)) }

// Pattern returns the pattern at id, or nil if id is NoPatternID.
func (f *File) Pattern(id PatternID) *Pattern { return f.Patterns.Get(uint32(id)) }

// TypeExpr returns the type annotation at id, or nil if id is NoTypeExprID.
func (f *File) TypeExpr(id TypeExprID) *TypeExpr { return f.Types.Get(uint32(id)) }
