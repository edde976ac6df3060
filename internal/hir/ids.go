// Package hir builds the High-level Intermediate Representation (§3.3):
// the arena-owned, name-resolved tree that name resolution (§4.C) produces
// from an ast.File and that inference (internal/infer), lifetime analysis
// (internal/lifetime) and MIR lowering (internal/mir) all consume.
//
// A single Module exclusively owns every arena for its translation unit;
// cross-references are arena indices, never pointers, so cyclic structures
// (recursive types, mutually recursive functions) need no special casing.
package hir

// DefID identifies a module-level definition: a function, struct, enum,
// trait, impl block, type alias, const, or static (§3.3 Definitions).
type DefID uint32

// NoDefID marks the absence of a definition reference.
const NoDefID DefID = 0

// IsValid reports whether id refers to an allocated definition.
func (id DefID) IsValid() bool { return id != NoDefID }

// BodyID identifies one function/const/static's expression body.
type BodyID uint32

// NoBodyID marks the absence of a body (e.g. a trait method with no
// default implementation).
const NoBodyID BodyID = 0

// IsValid reports whether id refers to an allocated body.
func (id BodyID) IsValid() bool { return id != NoBodyID }

// ExprID identifies an expression within one Body's expression arena.
// ExprIDs are only comparable within the same Body.
type ExprID uint32

// NoExprID marks the absence of an expression.
const NoExprID ExprID = 0

// IsValid reports whether id refers to an allocated expression.
func (id ExprID) IsValid() bool { return id != NoExprID }

// PatternID identifies a pattern within one Body's pattern arena.
type PatternID uint32

// NoPatternID marks the absence of a pattern.
const NoPatternID PatternID = 0

// IsValid reports whether id refers to an allocated pattern.
func (id PatternID) IsValid() bool { return id != NoPatternID }

// StmtID identifies a statement within one Body's statement arena.
type StmtID uint32

// NoStmtID marks the absence of a statement.
const NoStmtID StmtID = 0

// LocalID identifies a parameter or let-binding local to one body. Locals
// and module-level Definitions are resolved through the same scope tree, so
// both need to fit in a symbols.DefID; localDefBit distinguishes the two
// namespaces (see encodeItemDef/encodeLocalDef in lower.go).
type LocalID uint32

// NoLocalID marks the absence of a local.
const NoLocalID LocalID = 0

