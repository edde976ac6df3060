package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"ember/internal/ast"
	"ember/internal/diag"
	"ember/internal/hir"
	"ember/internal/source"
)

// buildGreetFile assembles a one-function file: fn greet() { 1 }
func buildGreetFile(interner *source.Interner) *ast.File {
	f := ast.NewFile(1)
	name := interner.Intern("greet")

	lit := f.Exprs.Allocate(ast.Expr{Kind: ast.ExprLiteral, Literal: ast.LiteralExprData{Kind: ast.LiteralInt, Int: 1}})
	body := f.Exprs.Allocate(ast.Expr{Kind: ast.ExprBlock, Block: ast.BlockExprData{Tail: ast.ExprID(lit)}})

	item := f.Items.Allocate(ast.Item{
		Kind:     ast.ItemFunction,
		Name:     name,
		Function: ast.FunctionItem{Body: ast.ExprID(body)},
	})
	f.TopLevel = []ast.ItemID{ast.ItemID(item)}
	return f
}

func TestBuildSemanticsOutputListsScopesAndDefs(t *testing.T) {
	interner := source.NewInterner()
	file := buildGreetFile(interner)

	bag := diag.NewBag(16)
	module := hir.NewBuilder(file, interner, source.Span{}, diag.BagReporter{Bag: bag}).Build()

	out := BuildSemanticsOutput(module, interner)
	if out == nil {
		t.Fatal("expected non-nil output")
	}
	if len(out.Scopes) == 0 {
		t.Fatal("expected at least the module root scope")
	}
	if len(out.Defs) != 1 || out.Defs[0].Name != "greet" {
		t.Fatalf("expected one def named greet, got %+v", out.Defs)
	}
	if out.Defs[0].Kind != "function" {
		t.Fatalf("expected function kind, got %q", out.Defs[0].Kind)
	}
}

func TestJSONWithSemanticsAttachesSemanticsWhenRequested(t *testing.T) {
	interner := source.NewInterner()
	file := buildGreetFile(interner)

	bag := diag.NewBag(16)
	module := hir.NewBuilder(file, interner, source.Span{}, diag.BagReporter{Bag: bag}).Build()

	fs := source.NewFileSet()
	fs.AddVirtual("greet.em", []byte("fn greet() { 1 }\n"))

	var buf bytes.Buffer
	err := JSONWithSemantics(&buf, bag, fs, JSONOpts{IncludeSemantics: true}, module, interner)
	if err != nil {
		t.Fatalf("JSONWithSemantics: %v", err)
	}

	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Semantics == nil || len(out.Semantics.Defs) != 1 {
		t.Fatalf("expected semantics to be attached, got %+v", out.Semantics)
	}
}
