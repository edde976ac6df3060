package hir

import (
	"ember/internal/ast"
	"ember/internal/source"
	"ember/internal/symbols"
)

// Module is the HIR context for one translation unit: it exclusively owns
// the definition arena, the scope tree, and every function/const/static
// body (§3.3 Ownership). All cross-references — Definition.Scope,
// FunctionDef.Body, Expr payloads — are indices into these arenas, never
// pointers, so cyclic references (mutually recursive functions, recursive
// types) need no special handling.
type Module struct {
	File source.FileID

	defs   *ast.Arena[Definition]
	Scopes *symbols.Table
	Bodies map[BodyID]*Body

	// Version stamps this HIR context so a driver holding a stale handle
	// (after an incremental invalidation) can detect it without reaching
	// into arena internals.
	Version source.TUVersion

	nextBody BodyID
}

// NewModule creates an empty Module with a freshly minted root Module scope.
func NewModule(file source.FileID, fileSpan source.Span) *Module {
	scopes := symbols.NewTable(8)
	scopes.CreateRoot(symbols.ScopeModule, fileSpan)
	return &Module{
		File:    file,
		defs:    ast.NewArena[Definition](16),
		Scopes:  scopes,
		Bodies:  make(map[BodyID]*Body),
		Version: source.NewTUVersion(),
	}
}

// RootScope returns the module's root scope.
func (m *Module) RootScope() symbols.ScopeID { return m.Scopes.Root() }

// AllocDef appends d and returns its id.
func (m *Module) AllocDef(d Definition) DefID { return DefID(m.defs.Allocate(d)) }

// Def returns the definition at id.
func (m *Module) Def(id DefID) *Definition { return m.defs.Get(uint32(id)) }

// Defs returns every allocated definition, in allocation order.
func (m *Module) Defs() []Definition { return m.defs.Slice() }

// NewBodyFor allocates a fresh, empty Body and returns its id. The caller
// (the HIR builder) populates it and attaches the id to the owning
// Definition's Function/Const/Static payload.
func (m *Module) NewBodyFor() BodyID {
	m.nextBody++
	id := m.nextBody
	m.Bodies[id] = NewBody()
	return id
}

// BodyOf returns the body with the given id, or nil if id is NoBodyID or
// unknown.
func (m *Module) BodyOf(id BodyID) *Body {
	if !id.IsValid() {
		return nil
	}
	return m.Bodies[id]
}
