package lir

import (
	"testing"

	"ember/internal/mir"
	"ember/internal/source"
	"ember/internal/types"
)

func TestLowerTypeScalars(t *testing.T) {
	ctx := types.NewContext()
	if got := lowerType(ctx, ctx.Arena.Int); got.Kind != TypeInt {
		t.Fatalf("expected Int to lower to TypeInt, got %v", got.Kind)
	}
	if got := lowerType(ctx, ctx.Arena.String); got.Kind != TypeString {
		t.Fatalf("expected String to lower to TypeString, got %v", got.Kind)
	}
}

func TestLowerTypeStructRecursesIntoFields(t *testing.T) {
	ctx := types.NewContext()
	structTy := ctx.Arena.Alloc(types.Ty{Kind: types.KindStruct, Struct: types.StructData{
		Fields: []types.StructField{{Name: "x", Type: ctx.Arena.Int}, {Name: "y", Type: ctx.Arena.Bool}},
	}})
	got := lowerType(ctx, structTy)
	if got.Kind != TypeStruct || len(got.StructFields) != 2 {
		t.Fatalf("expected a 2-field struct, got %+v", got)
	}
	if got.StructFields[0].Kind != TypeInt || got.StructFields[1].Kind != TypeBool {
		t.Fatalf("expected fields in declared order with their own concrete types, got %+v", got.StructFields)
	}
}

func TestLowerFunctionPreservesControlFlow(t *testing.T) {
	ctx := types.NewContext()
	interner := source.NewInterner()
	fn := &mir.Function{
		ID:         1,
		ParamCount: 1,
		Entry:      1,
		Locals:     []mir.Local{{ID: 1, Ty: ctx.Arena.Int}},
		Blocks: []mir.BasicBlock{
			{
				ID: 1,
				Statements: []mir.Statement{
					{Kind: mir.StmtStorageLive, Local: 1},
				},
				Terminator: mir.Terminator{Kind: mir.TermGoto, Target: 2},
			},
			{
				ID:         2,
				Terminator: mir.Terminator{Kind: mir.TermReturn, HasValue: true, Value: mir.Move(mir.LocalPlace(1))},
			},
		},
	}

	out := LowerFunction(ctx, interner, fn)
	if len(out.Blocks) != 2 {
		t.Fatalf("expected both blocks to survive lowering, got %d", len(out.Blocks))
	}
	if len(out.Blocks[0].Statements) != 0 {
		t.Fatalf("expected StorageLive to be dropped (LIR doesn't track storage liveness), got %+v", out.Blocks[0].Statements)
	}
	if out.Blocks[0].Terminator.Kind != TermGoto || out.Blocks[0].Terminator.Target != 2 {
		t.Fatalf("expected the Goto terminator to survive lowering unchanged, got %+v", out.Blocks[0].Terminator)
	}
	last := out.Blocks[1].Terminator
	if last.Kind != TermReturn || !last.HasValue {
		t.Fatalf("expected a value-carrying Return, got %+v", last)
	}
}

func TestLowerPlaceResolvesFieldNameToIndex(t *testing.T) {
	ctx := types.NewContext()
	interner := source.NewInterner()
	yField := interner.Intern("y")

	structTy := ctx.Arena.Alloc(types.Ty{Kind: types.KindStruct, Struct: types.StructData{
		Fields: []types.StructField{{Name: "x", Type: ctx.Arena.Int}, {Name: "y", Type: ctx.Arena.Bool}},
	}})
	fn := &mir.Function{Locals: []mir.Local{{ID: 1, Ty: structTy}}}

	place := mir.Place{Local: 1, Projection: []mir.PlaceElem{{Kind: mir.ElemField, Field: yField}}}
	got := lowerPlace(ctx, interner, fn, place)

	if len(got.Projection) != 1 || got.Projection[0].Kind != ElemField || got.Projection[0].FieldIndex != 1 {
		t.Fatalf("expected field 'y' to resolve to offset 1, got %+v", got.Projection)
	}
}

func TestLowerPlaceWalksDerefThenField(t *testing.T) {
	ctx := types.NewContext()
	interner := source.NewInterner()
	xField := interner.Intern("x")

	structTy := ctx.Arena.Alloc(types.Ty{Kind: types.KindStruct, Struct: types.StructData{
		Fields: []types.StructField{{Name: "x", Type: ctx.Arena.Int}},
	}})
	refTy := ctx.Arena.Alloc(types.Ty{Kind: types.KindRef, Ref: types.RefData{Inner: structTy}})
	fn := &mir.Function{Locals: []mir.Local{{ID: 1, Ty: refTy}}}

	place := mir.Place{Local: 1, Projection: []mir.PlaceElem{
		{Kind: mir.ElemDeref},
		{Kind: mir.ElemField, Field: xField},
	}}
	got := lowerPlace(ctx, interner, fn, place)

	if len(got.Projection) != 2 || got.Projection[1].FieldIndex != 0 {
		t.Fatalf("expected a deref then field-0 projection, got %+v", got.Projection)
	}
}
