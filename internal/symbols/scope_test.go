package symbols

import (
	"errors"
	"testing"

	"ember/internal/source"
)

func TestResolveWalksParentChain(t *testing.T) {
	tbl := NewTable(4)
	interner := source.NewInterner()
	x := interner.Intern("x")

	root := tbl.CreateRoot(ScopeModule, source.Span{})
	if err := tbl.Define(root, x, Resolution{DefID: 1}); err != nil {
		t.Fatalf("define in root: %v", err)
	}

	child := tbl.CreateChild(root, ScopeFunction, source.Span{})
	res, scope, err := tbl.Resolve(child, x)
	if err != nil {
		t.Fatalf("resolve from child: %v", err)
	}
	if res.DefID != 1 || scope != root {
		t.Fatalf("expected root binding, got %+v at scope %d", res, scope)
	}
}

func TestDumpListsScopesInAllocationOrder(t *testing.T) {
	tbl := NewTable(4)
	interner := source.NewInterner()
	x := interner.Intern("x")

	root := tbl.CreateRoot(ScopeModule, source.Span{})
	if err := tbl.Define(root, x, Resolution{DefID: 1}); err != nil {
		t.Fatalf("define in root: %v", err)
	}
	child := tbl.CreateChild(root, ScopeFunction, source.Span{})

	dump := tbl.Dump()
	if len(dump) != 2 {
		t.Fatalf("expected 2 scopes, got %d", len(dump))
	}
	if dump[0].ID != root || dump[0].Kind != ScopeModule {
		t.Fatalf("expected root scope first, got %+v", dump[0])
	}
	if dump[1].ID != child || dump[1].Parent != root || dump[1].Kind != ScopeFunction {
		t.Fatalf("expected child scope second, got %+v", dump[1])
	}
	if _, ok := dump[0].Names[x]; !ok {
		t.Fatalf("expected root scope's Names to include x, got %+v", dump[0].Names)
	}
}

func TestResolveNearestBindingWins(t *testing.T) {
	tbl := NewTable(4)
	interner := source.NewInterner()
	x := interner.Intern("x")

	root := tbl.CreateRoot(ScopeModule, source.Span{})
	_ = tbl.Define(root, x, Resolution{DefID: 1})

	child := tbl.CreateChild(root, ScopeBlock, source.Span{})
	_ = tbl.Define(child, x, Resolution{DefID: 2})

	res, scope, err := tbl.Resolve(child, x)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.DefID != 2 || scope != child {
		t.Fatalf("expected shadowed binding DefID=2 at child scope, got %+v at %d", res, scope)
	}
}

func TestResolveUndefinedName(t *testing.T) {
	tbl := NewTable(4)
	interner := source.NewInterner()
	missing := interner.Intern("missing")

	root := tbl.CreateRoot(ScopeModule, source.Span{})
	_, _, err := tbl.Resolve(root, missing)
	if !errors.Is(err, ErrUndefined) {
		t.Fatalf("expected ErrUndefined, got %v", err)
	}
}

func TestDefineRejectsDuplicateInSameScope(t *testing.T) {
	tbl := NewTable(4)
	interner := source.NewInterner()
	x := interner.Intern("x")

	root := tbl.CreateRoot(ScopeModule, source.Span{})
	if err := tbl.Define(root, x, Resolution{DefID: 1}); err != nil {
		t.Fatalf("first define: %v", err)
	}
	err := tbl.Define(root, x, Resolution{DefID: 2})
	var dupErr *DuplicateDefinitionError
	if !errors.As(err, &dupErr) {
		t.Fatalf("expected DuplicateDefinitionError, got %v", err)
	}
}

func TestDefineAllowsShadowingInNestedScope(t *testing.T) {
	tbl := NewTable(4)
	interner := source.NewInterner()
	x := interner.Intern("x")

	root := tbl.CreateRoot(ScopeModule, source.Span{})
	_ = tbl.Define(root, x, Resolution{DefID: 1})

	child := tbl.CreateChild(root, ScopeBlock, source.Span{})
	if err := tbl.Define(child, x, Resolution{DefID: 2}); err != nil {
		t.Fatalf("shadowing define should succeed: %v", err)
	}
}

func TestIsVisiblePublicAlwaysTrue(t *testing.T) {
	tbl := NewTable(4)
	root := tbl.CreateRoot(ScopeModule, source.Span{})
	other := tbl.CreateRoot(ScopeModule, source.Span{})
	if !tbl.IsVisible(Public, other, root) {
		t.Fatalf("public resolution must be visible from any scope")
	}
}

func TestIsVisiblePrivateRequiresAncestor(t *testing.T) {
	tbl := NewTable(4)
	root := tbl.CreateRoot(ScopeModule, source.Span{})
	child := tbl.CreateChild(root, ScopeBlock, source.Span{})
	sibling := tbl.CreateChild(root, ScopeBlock, source.Span{})

	if !tbl.IsVisible(Private, child, root) {
		t.Fatalf("private item defined in an ancestor scope must be visible")
	}
	if tbl.IsVisible(Private, sibling, child) {
		t.Fatalf("private item must not be visible from an unrelated scope")
	}
}
