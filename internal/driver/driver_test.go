package driver

import (
	"context"
	"testing"

	"ember/internal/ast"
	"ember/internal/source"
)

// buildAddMainFile assembles a tiny two-function file:
//
//	fn add(a, b) { a + b }
//	fn main() { let x = add(1, 2); x }
//
// Mirrors internal/hir's own fixture (internal/hir/lower_test.go) since the
// pipeline's first stage is exactly hir.NewBuilder.Build.
func buildAddMainFile(interner *source.Interner) *ast.File {
	f := ast.NewFile(1)

	a := interner.Intern("a")
	bArg := interner.Intern("b")
	addName := interner.Intern("add")
	mainName := interner.Intern("main")
	x := interner.Intern("x")

	varA := f.Exprs.Allocate(ast.Expr{Kind: ast.ExprVariable, Variable: a})
	varB := f.Exprs.Allocate(ast.Expr{Kind: ast.ExprVariable, Variable: bArg})
	sum := f.Exprs.Allocate(ast.Expr{Kind: ast.ExprBinaryOp, BinaryOp: ast.BinaryOpExprData{
		Op: ast.BinAdd, Left: ast.ExprID(varA), Right: ast.ExprID(varB),
	}})
	addBody := f.Exprs.Allocate(ast.Expr{Kind: ast.ExprBlock, Block: ast.BlockExprData{Tail: ast.ExprID(sum)}})

	addItem := f.Items.Allocate(ast.Item{
		Kind: ast.ItemFunction,
		Name: addName,
		Function: ast.FunctionItem{
			Params: []ast.Param{{Name: a}, {Name: bArg}},
			Body:   ast.ExprID(addBody),
		},
	})

	one := f.Exprs.Allocate(ast.Expr{Kind: ast.ExprLiteral, Literal: ast.LiteralExprData{Kind: ast.LiteralInt, Int: 1}})
	two := f.Exprs.Allocate(ast.Expr{Kind: ast.ExprLiteral, Literal: ast.LiteralExprData{Kind: ast.LiteralInt, Int: 2}})
	callee := f.Exprs.Allocate(ast.Expr{Kind: ast.ExprVariable, Variable: addName})
	call := f.Exprs.Allocate(ast.Expr{Kind: ast.ExprCall, Call: ast.CallExprData{
		Callee: ast.ExprID(callee), Args: []ast.ExprID{ast.ExprID(one), ast.ExprID(two)},
	}})
	xPattern := f.Patterns.Allocate(ast.Pattern{Kind: ast.PatternBinding, Binding: ast.BindingPatternData{Name: x}})
	letStmt := f.Stmts.Allocate(ast.Stmt{Pattern: ast.PatternID(xPattern), Init: ast.ExprID(call)})
	useX := f.Exprs.Allocate(ast.Expr{Kind: ast.ExprVariable, Variable: x})
	mainBody := f.Exprs.Allocate(ast.Expr{Kind: ast.ExprBlock, Block: ast.BlockExprData{
		Stmts: []ast.StmtID{ast.StmtID(letStmt)},
		Tail:  ast.ExprID(useX),
	}})

	mainItem := f.Items.Allocate(ast.Item{
		Kind:     ast.ItemFunction,
		Name:     mainName,
		Function: ast.FunctionItem{Body: ast.ExprID(mainBody)},
	})

	f.TopLevel = []ast.ItemID{ast.ItemID(addItem), ast.ItemID(mainItem)}
	return f
}

func TestPipelineRunFileBuildsMIRForEachFunction(t *testing.T) {
	interner := source.NewInterner()
	file := buildAddMainFile(interner)

	pipeline := NewPipeline(interner)
	result := pipeline.RunFile(context.Background(), FileInput{Path: "add.em", File: 1, AST: file})

	if result.Diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %+v", result.Diags.Items())
	}
	if len(result.Funcs) != 2 {
		t.Fatalf("expected MIR for both add and main, got %d", len(result.Funcs))
	}
	for _, fn := range result.Funcs {
		if fn.MIR == nil {
			t.Fatalf("function %v has no MIR", fn.DefID)
		}
	}
}

func TestDiagnoseMergesDiagnosticsAcrossFiles(t *testing.T) {
	interner := source.NewInterner()
	fileA := buildAddMainFile(interner)

	res, err := Diagnose(context.Background(), []FileInput{
		{Path: "one.em", File: 1, AST: fileA},
	}, nil, Options{Interner: interner, EnableTimings: true})
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	if len(res.Files) != 1 {
		t.Fatalf("expected one file result, got %d", len(res.Files))
	}
	if res.Bag.Len() == 0 {
		t.Fatal("expected at least the timings diagnostic to be present")
	}
}
