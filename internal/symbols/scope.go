package symbols

import (
	"fmt"

	"fortio.org/safecast"

	"ember/internal/source"
)

// ScopeKind enumerates the lexical contexts a scope can represent (§3.2).
type ScopeKind uint8

const (
	ScopeModule ScopeKind = iota
	ScopeFunction
	ScopeBlock
	ScopeMatchArm
	ScopeClosure
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeModule:
		return "module"
	case ScopeFunction:
		return "function"
	case ScopeBlock:
		return "block"
	case ScopeMatchArm:
		return "match_arm"
	case ScopeClosure:
		return "closure"
	default:
		return "unknown"
	}
}

// Visibility controls whether a Resolution is reachable from outside its
// defining scope.
type Visibility uint8

const (
	Public Visibility = iota
	Private
)

// Resolution is what a successful name lookup yields (§3.2).
type Resolution struct {
	DefID      DefID
	Visibility Visibility
	DefSite    source.Span
	Mutable    bool
}

// Scope is one node of the lexical scope tree. A name may be bound at most
// once per scope; nested scopes may shadow an outer binding freely.
type Scope struct {
	Parent      ScopeID
	Kind        ScopeKind
	Span        source.Span
	definitions map[source.Symbol]Resolution
}

// DuplicateDefinitionError reports a second binding for a name already
// defined in the same scope.
type DuplicateDefinitionError struct {
	Name     source.Symbol
	Scope    ScopeID
	Previous source.Span
}

func (e *DuplicateDefinitionError) Error() string {
	return fmt.Sprintf("duplicate definition in scope %d", e.Scope)
}

// Table owns the scope arena for one translation unit. Cross-references
// between scopes are ScopeID indices, never pointers.
type Table struct {
	scopes []Scope
	root   ScopeID
}

// NewTable creates an empty Table with optional capacity hint.
func NewTable(capHint uint) *Table {
	return &Table{scopes: make([]Scope, 0, capHint)}
}

func (t *Table) alloc(s Scope) ScopeID {
	t.scopes = append(t.scopes, s)
	n, err := safecast.Conv[uint32](len(t.scopes))
	if err != nil {
		panic(fmt.Errorf("symbols: scope arena overflow: %w", err))
	}
	return ScopeID(n)
}

func (t *Table) get(id ScopeID) *Scope {
	if !id.IsValid() {
		return nil
	}
	return &t.scopes[id-1]
}

// CreateRoot allocates the single scope with no parent — exactly once per
// body or module (§4.B).
func (t *Table) CreateRoot(kind ScopeKind, span source.Span) ScopeID {
	id := t.alloc(Scope{Parent: NoScopeID, Kind: kind, Span: span, definitions: make(map[source.Symbol]Resolution)})
	t.root = id
	return id
}

// CreateChild allocates a new scope nested under parent.
func (t *Table) CreateChild(parent ScopeID, kind ScopeKind, span source.Span) ScopeID {
	return t.alloc(Scope{Parent: parent, Kind: kind, Span: span, definitions: make(map[source.Symbol]Resolution)})
}

// Root returns the most recently created root scope, or NoScopeID if none
// has been created yet.
func (t *Table) Root() ScopeID { return t.root }

// Kind reports the scope's kind.
func (t *Table) Kind(id ScopeID) ScopeKind { return t.get(id).Kind }

// Parent reports the scope's parent, or NoScopeID for a root scope.
func (t *Table) Parent(id ScopeID) ScopeID { return t.get(id).Parent }

// Define binds name to resolution in scope. It fails if name is already
// bound in that exact scope; shadowing in a nested scope is always allowed.
func (t *Table) Define(scope ScopeID, name source.Symbol, resolution Resolution) error {
	s := t.get(scope)
	if prev, ok := s.definitions[name]; ok {
		return &DuplicateDefinitionError{Name: name, Scope: scope, Previous: prev.DefSite}
	}
	s.definitions[name] = resolution
	return nil
}

// ErrUndefined is returned by Resolve when no scope on the parent chain
// binds the requested name.
var ErrUndefined = fmt.Errorf("undefined name")

// Resolve walks the parent chain starting at scope, returning the nearest
// binding for name. The nearest (innermost) binding always wins.
func (t *Table) Resolve(scope ScopeID, name source.Symbol) (Resolution, ScopeID, error) {
	for cur := scope; cur.IsValid(); cur = t.get(cur).Parent {
		if r, ok := t.get(cur).definitions[name]; ok {
			return r, cur, nil
		}
	}
	return Resolution{}, NoScopeID, ErrUndefined
}

// IsVisible reports whether a Resolution with the given visibility, defined
// in defScope, may be used from useScope. Public is always visible; Private
// requires defScope be useScope or one of its ancestors.
func (t *Table) IsVisible(visibility Visibility, useScope, defScope ScopeID) bool {
	if visibility == Public {
		return true
	}
	for cur := useScope; cur.IsValid(); cur = t.get(cur).Parent {
		if cur == defScope {
			return true
		}
	}
	return useScope == defScope
}

// ScopeInfo is a read-only snapshot of one scope, for introspection tooling
// (a `diag` command dumping the resolved scope tree for one file).
type ScopeInfo struct {
	ID     ScopeID
	Parent ScopeID
	Kind   ScopeKind
	Span   source.Span
	Names  map[source.Symbol]Resolution
}

// Dump returns every scope in allocation order. The returned Names maps are
// the table's own, not copies — callers must treat them as read-only.
func (t *Table) Dump() []ScopeInfo {
	out := make([]ScopeInfo, len(t.scopes))
	for i := range t.scopes {
		out[i] = ScopeInfo{
			ID:     ScopeID(i + 1), //nolint:gosec
			Parent: t.scopes[i].Parent,
			Kind:   t.scopes[i].Kind,
			Span:   t.scopes[i].Span,
			Names:  t.scopes[i].definitions,
		}
	}
	return out
}

// VisibleNames returns every name bound anywhere on scope's parent chain,
// for use by the undefined-name suggestion policy.
func (t *Table) VisibleNames(scope ScopeID) []source.Symbol {
	seen := make(map[source.Symbol]struct{})
	var names []source.Symbol
	for cur := scope; cur.IsValid(); cur = t.get(cur).Parent {
		for name := range t.get(cur).definitions {
			if _, ok := seen[name]; !ok {
				seen[name] = struct{}{}
				names = append(names, name)
			}
		}
	}
	return names
}
