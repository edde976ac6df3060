// Package symbols implements the scope tree and name resolver (§3.2, §4.C):
// a parent-linked tree of lexical scopes, each mapping an interned name to
// a Resolution. The walk that builds the tree and resolves every name
// reference against it is internal/hir's Builder.
package symbols

// ScopeID identifies a scope in a Table's arena. The zero value, NoScopeID,
// means "no scope".
type ScopeID uint32

// NoScopeID marks the absence of a scope reference.
const NoScopeID ScopeID = 0

// IsValid reports whether the scope ID refers to an allocated scope.
func (id ScopeID) IsValid() bool { return id != NoScopeID }

// DefID opaquely identifies the definition a Resolution points at. The
// resolver never interprets it; callers (internal/hir) encode whatever
// index makes sense for the definition kind (function, local, struct, …).
type DefID uint64

// NoDefID marks the absence of a definition.
const NoDefID DefID = 0
