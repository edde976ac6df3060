package infer

import (
	"testing"

	"ember/internal/ast"
	"ember/internal/diag"
	"ember/internal/hir"
	"ember/internal/source"
	"ember/internal/types"
)

// traitImplFile builds: struct Counter {} trait Greet { fn hi(); } impl
// Greet for Counter {} — enough to exercise CheckBound/CheckSupertraits/
// CheckAssociatedTypes without a real parser.
func traitImplFile(interner *source.Interner) *ast.File {
	f := ast.NewFile(1)
	counterName := interner.Intern("Counter")
	greetName := interner.Intern("Greet")
	hiName := interner.Intern("hi")

	structItem := f.Items.Allocate(ast.Item{Kind: ast.ItemStructDef, Name: counterName})

	hiItem := f.Items.Allocate(ast.Item{Kind: ast.ItemFunction, Name: hiName, Function: ast.FunctionItem{Body: ast.NoExprID}})
	traitItem := f.Items.Allocate(ast.Item{
		Kind: ast.ItemTraitDef,
		Name: greetName,
		TraitDef: ast.TraitDefItem{
			Methods: []ast.ItemID{ast.ItemID(hiItem)},
		},
	})

	selfType := f.Types.Allocate(ast.TypeExpr{Kind: ast.TypeExprNamed, Named: ast.NamedTypeExprData{Name: counterName}})
	implItem := f.Items.Allocate(ast.Item{
		Kind: ast.ItemImplBlock,
		ImplBlock: ast.ImplBlockItem{
			SelfType: ast.TypeExprID(selfType),
			TraitRef: greetName,
		},
	})

	f.TopLevel = []ast.ItemID{ast.ItemID(structItem), ast.ItemID(traitItem), ast.ItemID(implItem)}
	return f
}

func TestHIRBoundCheckerFindsDirectImpl(t *testing.T) {
	interner := source.NewInterner()
	bag := diag.NewBag(64)
	mod := hir.NewBuilder(traitImplFile(interner), interner, source.Span{}, diag.BagReporter{Bag: bag}).Build()
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}

	counterDef, _ := defByName(t, mod, interner, "Counter")
	greetDef, _ := defByName(t, mod, interner, "Greet")

	checker := NewHIRBoundChecker(mod)
	if !checker.CheckBound(types.DefID(counterDef), types.DefID(greetDef)) {
		t.Fatalf("expected Counter to satisfy Greet via its impl block")
	}

	missingBag := diag.NewBag(64)
	if !checker.CheckSupertraits(diag.BagReporter{Bag: missingBag}) {
		t.Fatalf("expected no supertrait errors (Greet has none)")
	}
	if !checker.CheckAssociatedTypes(interner, diag.BagReporter{Bag: missingBag}) {
		t.Fatalf("expected no associated-type errors (Greet declares none)")
	}
}

func TestHIRBoundCheckerRejectsUnrelatedTrait(t *testing.T) {
	interner := source.NewInterner()
	bag := diag.NewBag(64)
	mod := hir.NewBuilder(traitImplFile(interner), interner, source.Span{}, diag.BagReporter{Bag: bag}).Build()
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}

	counterDef, _ := defByName(t, mod, interner, "Counter")
	checker := NewHIRBoundChecker(mod)
	if checker.CheckBound(types.DefID(counterDef), types.DefID(999999)) {
		t.Fatalf("expected Counter not to satisfy an unrelated trait id")
	}
}
