package diagfmt

import (
	"io"

	"ember/internal/diag"
	"ember/internal/hir"
	"ember/internal/source"
)

// ScopeJSON is one lexical scope, rendered for JSON output.
type ScopeJSON struct {
	ID     uint32      `json:"id"`
	Kind   string      `json:"kind"`
	Parent uint32      `json:"parent,omitempty"`
	Span   source.Span `json:"span"`
}

// DefJSON is one HIR definition bound somewhere in the scope tree, rendered
// for JSON output.
type DefJSON struct {
	ID    uint64      `json:"id"`
	Name  string      `json:"name"`
	Kind  string      `json:"kind"`
	Scope uint32      `json:"scope"`
	Span  source.Span `json:"span"`
}

// SemanticsOutput is the scope/definition dump attached to a `diag`
// introspection run, for inspecting what a file resolved to without
// re-running the whole pipeline by hand.
type SemanticsOutput struct {
	Scopes []ScopeJSON `json:"scopes"`
	Defs   []DefJSON   `json:"defs"`
}

func defKindString(k hir.DefKind) string {
	switch k {
	case hir.DefFunction:
		return "function"
	case hir.DefStructDef:
		return "struct"
	case hir.DefEnumDef:
		return "enum"
	case hir.DefTraitDef:
		return "trait"
	case hir.DefImplBlock:
		return "impl"
	case hir.DefTypeAlias:
		return "type_alias"
	case hir.DefConst:
		return "const"
	case hir.DefStatic:
		return "static"
	default:
		return "unknown"
	}
}

// BuildSemanticsOutput walks module's scope tree and definition arena and
// renders a flat, JSON-friendly snapshot of both. interner resolves
// definition names back to source text.
func BuildSemanticsOutput(module *hir.Module, interner *source.Interner) *SemanticsOutput {
	if module == nil {
		return nil
	}

	scopeDump := module.Scopes.Dump()
	out := &SemanticsOutput{
		Scopes: make([]ScopeJSON, 0, len(scopeDump)),
		Defs:   make([]DefJSON, 0),
	}

	for _, s := range scopeDump {
		out.Scopes = append(out.Scopes, ScopeJSON{
			ID:     uint32(s.ID),
			Kind:   s.Kind.String(),
			Parent: uint32(s.Parent),
			Span:   s.Span,
		})
	}

	for i, def := range module.Defs() {
		name, _ := interner.Lookup(def.Name)
		out.Defs = append(out.Defs, DefJSON{
			ID:    uint64(i + 1), //nolint:gosec
			Name:  name,
			Kind:  defKindString(def.Kind),
			Scope: uint32(def.Scope),
			Span:  def.Span,
		})
	}

	return out
}

// JSONWithSemantics is JSON's counterpart for the `diag` introspection
// command: it behaves exactly like JSON, but additionally attaches module's
// resolved scope/definition snapshot when opts.IncludeSemantics is set.
func JSONWithSemantics(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts, module *hir.Module, interner *source.Interner) error {
	output := BuildDiagnosticsOutput(bag, fs, opts)
	if opts.IncludeSemantics {
		output.Semantics = BuildSemanticsOutput(module, interner)
	}
	return encodeDiagnosticsOutput(w, output)
}
