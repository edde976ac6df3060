package infer

import (
	"testing"

	"ember/internal/diag"
	"ember/internal/hir"
	"ember/internal/source"
	"ember/internal/types"
)

// buildAddMain lowers the same two-function file hir's own tests use
// (fn add(a, b) { a + b }; fn main() { let x = add(1, 2); x }) and returns
// the resulting module plus the interner it was built with.
func buildAddMain(t *testing.T) (*hir.Module, *source.Interner) {
	t.Helper()
	interner := source.NewInterner()
	bag := diag.NewBag(64)
	mod := hir.NewBuilder(hirTestFile(interner), interner, source.Span{}, diag.BagReporter{Bag: bag}).Build()
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics building fixture: %+v", bag.Items())
	}
	return mod, interner
}

func defByName(t *testing.T, mod *hir.Module, interner *source.Interner, name string) (hir.DefID, *hir.Definition) {
	t.Helper()
	for i, d := range mod.Defs() {
		if text, _ := interner.Lookup(d.Name); text == name {
			id := hir.DefID(i + 1)
			dd := d
			return id, &dd
		}
	}
	t.Fatalf("definition %q not found", name)
	return hir.NoDefID, nil
}

// seedSignature registers a function's type (every param plus its return
// as fresh variables) so a caller's checkCall constraint has something
// concrete to unify against, mirroring the §5 signature pre-pass.
func seedSignature(ctx *types.Context, def hir.DefID, paramCount int) {
	params := make([]types.TyID, paramCount)
	for i := range params {
		params[i] = ctx.FreshTyVar()
	}
	ret := ctx.FreshTyVar()
	fnTy := ctx.Arena.Alloc(types.Ty{Kind: types.KindFunction, Function: types.FunctionData{Params: params, Ret: ret}})
	ctx.SetDefType(def, fnTy)
}

func TestCheckerInfersArithmeticAndCallResult(t *testing.T) {
	mod, interner := buildAddMain(t)
	addDef, add := defByName(t, mod, interner, "add")
	_, main := defByName(t, mod, interner, "main")

	ctx := types.NewContext()
	seedSignature(ctx, addDef, len(add.Function.Params))

	addBody := mod.BodyOf(add.Function.Body)
	addChecker := NewChecker(ctx, addBody)
	addChecker.CheckExpr(addBody.Root)

	mainBody := mod.BodyOf(main.Function.Body)
	mainChecker := NewChecker(ctx, mainBody)
	mainChecker.CheckExpr(mainBody.Root)

	var constraints []Constraint
	constraints = append(constraints, addChecker.Constraints()...)
	constraints = append(constraints, mainChecker.Constraints()...)

	solver := NewSolver(ctx, constraints, nil, diag.BagReporter{Bag: diag.NewBag(64)})
	if !solver.Solve() {
		t.Fatalf("expected constraints to solve")
	}

	// add's result and main's tail expression should both resolve to Int,
	// since add(1, 2) forces its parameters (and therefore its body's
	// binary-op result) to Int.
	rootTy := ctx.ApplySubst(mustExprType(t, ctx, mainBody.Root))
	if ctx.Arena.Get(rootTy).Kind != types.KindInt {
		t.Fatalf("expected main's body to resolve to Int, got %s", ctx.Arena.Get(rootTy).Kind)
	}
}

func TestCheckerReportsMismatchOnIncompatibleIfBranches(t *testing.T) {
	interner := source.NewInterner()
	bag := diag.NewBag(64)
	mod := hir.NewBuilder(ifMismatchFile(interner), interner, source.Span{}, diag.BagReporter{Bag: bag}).Build()
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics building fixture: %+v", bag.Items())
	}
	_, fn := defByName(t, mod, interner, "bad")

	ctx := types.NewContext()
	body := mod.BodyOf(fn.Function.Body)
	checker := NewChecker(ctx, body)
	checker.CheckExpr(body.Root)

	solveBag := diag.NewBag(64)
	solver := NewSolver(ctx, checker.Constraints(), nil, diag.BagReporter{Bag: solveBag})
	if solver.Solve() {
		t.Fatalf("expected solve to fail on mismatched if branches")
	}
	found := false
	for _, d := range solveBag.Items() {
		if d.Code == diag.TypeMismatch {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected diag.TypeMismatch, got %+v", solveBag.Items())
	}
}

func TestSolveReportsConflictingInstantiation(t *testing.T) {
	ctx := types.NewContext()
	fn := hir.DefID(1)

	constraints := []Constraint{
		GenericInstantiation(fn, 0, ctx.Arena.Int, Source{}),
		GenericInstantiation(fn, 0, ctx.Arena.Bool, Source{}),
	}

	bag := diag.NewBag(64)
	solver := NewSolver(ctx, constraints, nil, diag.BagReporter{Bag: bag})
	if solver.Solve() {
		t.Fatalf("expected solve to fail on conflicting instantiations")
	}

	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.TypeConflictingInstantiation {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected diag.TypeConflictingInstantiation, got %+v", bag.Items())
	}
}

func TestSolveAllowsRepeatedIdenticalInstantiation(t *testing.T) {
	ctx := types.NewContext()
	fn := hir.DefID(1)

	constraints := []Constraint{
		GenericInstantiation(fn, 0, ctx.Arena.Int, Source{}),
		GenericInstantiation(fn, 0, ctx.Arena.Int, Source{}),
	}

	bag := diag.NewBag(64)
	solver := NewSolver(ctx, constraints, nil, diag.BagReporter{Bag: bag})
	if !solver.Solve() {
		t.Fatalf("expected solve to succeed when the same generic parameter is instantiated twice to the same type")
	}
}

func mustExprType(t *testing.T, ctx *types.Context, id hir.ExprID) types.TyID {
	t.Helper()
	ty, ok := ctx.ExprType(id)
	if !ok {
		t.Fatalf("expression %d has no recorded type", id)
	}
	return ty
}
