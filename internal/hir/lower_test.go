package hir

import (
	"testing"

	"ember/internal/ast"
	"ember/internal/diag"
	"ember/internal/source"
)

// buildFile assembles a tiny two-function file:
//
//	fn add(a, b) { a + b }
//	fn main() { let x = add(1, 2); x }
func buildFile(interner *source.Interner) *ast.File {
	f := ast.NewFile(1)

	a := interner.Intern("a")
	bArg := interner.Intern("b")
	addName := interner.Intern("add")
	mainName := interner.Intern("main")
	x := interner.Intern("x")

	// add's body: a + b
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

	// main's body: let x = add(1, 2); x
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

func TestBuildResolvesCallToLaterDeclaredFunction(t *testing.T) {
	interner := source.NewInterner()
	f := buildFile(interner)
	bag := diag.NewBag(64)
	mod := NewBuilder(f, interner, source.Span{}, diag.BagReporter{Bag: bag}).Build()

	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}

	var mainDef *Definition
	for _, d := range mod.Defs() {
		if name, _ := interner.Lookup(d.Name); name == "main" {
			dd := d
			mainDef = &dd
		}
	}
	if mainDef == nil {
		t.Fatalf("main definition not found")
	}
	body := mod.BodyOf(mainDef.Function.Body)
	if body == nil {
		t.Fatalf("main has no body")
	}
	root := body.Expr(body.Root)
	if root.Kind != ExprBlock {
		t.Fatalf("expected block root, got %v", root.Kind)
	}
}

func TestBuildReportsUndefinedName(t *testing.T) {
	interner := source.NewInterner()
	f := ast.NewFile(1)
	missing := interner.Intern("missing")
	ref := f.Exprs.Allocate(ast.Expr{Kind: ast.ExprVariable, Variable: missing})
	body := f.Exprs.Allocate(ast.Expr{Kind: ast.ExprBlock, Block: ast.BlockExprData{Tail: ast.ExprID(ref)}})
	fnName := interner.Intern("broken")
	item := f.Items.Allocate(ast.Item{Kind: ast.ItemFunction, Name: fnName, Function: ast.FunctionItem{Body: ast.ExprID(body)}})
	f.TopLevel = []ast.ItemID{ast.ItemID(item)}

	bag := diag.NewBag(64)
	NewBuilder(f, interner, source.Span{}, diag.BagReporter{Bag: bag}).Build()

	if !bag.HasErrors() {
		t.Fatalf("expected an undefined-name diagnostic")
	}
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.ResUndefined {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected diag.ResUndefined among %+v", bag.Items())
	}
}

func TestBuildRejectsDuplicateTopLevelDefinition(t *testing.T) {
	interner := source.NewInterner()
	f := ast.NewFile(1)
	name := interner.Intern("dup")
	body1 := f.Exprs.Allocate(ast.Expr{Kind: ast.ExprBlock})
	body2 := f.Exprs.Allocate(ast.Expr{Kind: ast.ExprBlock})
	item1 := f.Items.Allocate(ast.Item{Kind: ast.ItemFunction, Name: name, Function: ast.FunctionItem{Body: ast.ExprID(body1)}})
	item2 := f.Items.Allocate(ast.Item{Kind: ast.ItemFunction, Name: name, Function: ast.FunctionItem{Body: ast.ExprID(body2)}})
	f.TopLevel = []ast.ItemID{ast.ItemID(item1), ast.ItemID(item2)}

	bag := diag.NewBag(64)
	NewBuilder(f, interner, source.Span{}, diag.BagReporter{Bag: bag}).Build()

	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.ResDuplicateDef {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected diag.ResDuplicateDef, got %+v", bag.Items())
	}
}
