package infer

import (
	"ember/internal/ast"
	"ember/internal/source"
)

// hirTestFile builds the same tiny two-function file hir's own lowering
// tests use: fn add(a, b) { a + b }; fn main() { let x = add(1, 2); x }.
func hirTestFile(interner *source.Interner) *ast.File {
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

// ifMismatchFile builds: fn bad() { if true { 1 } else { "s" } } — an if
// whose branches disagree, which the Solver should reject.
func ifMismatchFile(interner *source.Interner) *ast.File {
	f := ast.NewFile(1)
	fnName := interner.Intern("bad")

	cond := f.Exprs.Allocate(ast.Expr{Kind: ast.ExprLiteral, Literal: ast.LiteralExprData{Kind: ast.LiteralBool, Bool: true}})
	thenVal := f.Exprs.Allocate(ast.Expr{Kind: ast.ExprLiteral, Literal: ast.LiteralExprData{Kind: ast.LiteralInt, Int: 1}})
	thenBlock := f.Exprs.Allocate(ast.Expr{Kind: ast.ExprBlock, Block: ast.BlockExprData{Tail: ast.ExprID(thenVal)}})
	str := interner.Intern("s")
	elseVal := f.Exprs.Allocate(ast.Expr{Kind: ast.ExprLiteral, Literal: ast.LiteralExprData{Kind: ast.LiteralString, Str: str}})
	elseBlock := f.Exprs.Allocate(ast.Expr{Kind: ast.ExprBlock, Block: ast.BlockExprData{Tail: ast.ExprID(elseVal)}})
	ifExpr := f.Exprs.Allocate(ast.Expr{Kind: ast.ExprIf, If: ast.IfExprData{
		Cond: ast.ExprID(cond), Then: ast.ExprID(thenBlock), Else: ast.ExprID(elseBlock),
	}})
	body := f.Exprs.Allocate(ast.Expr{Kind: ast.ExprBlock, Block: ast.BlockExprData{Tail: ast.ExprID(ifExpr)}})

	item := f.Items.Allocate(ast.Item{Kind: ast.ItemFunction, Name: fnName, Function: ast.FunctionItem{Body: ast.ExprID(body)}})
	f.TopLevel = []ast.ItemID{ast.ItemID(item)}
	return f
}
