package mono

import (
	"testing"

	"ember/internal/types"
)

func TestSubstituteTypeReplacesParam(t *testing.T) {
	arena := types.NewTyArena()
	param := arena.Alloc(types.Ty{Kind: types.KindParam, Param: types.ParamData{Index: 0, Name: "T"}})
	subst := Substitution{0: arena.Int}

	got := SubstituteType(arena, param, subst)
	if got != arena.Int {
		t.Fatalf("expected Param(0) to substitute to Int, got %v", arena.Get(got).Kind)
	}
}

func TestSubstituteTypeLeavesUnboundParamAlone(t *testing.T) {
	arena := types.NewTyArena()
	param := arena.Alloc(types.Ty{Kind: types.KindParam, Param: types.ParamData{Index: 1, Name: "U"}})
	subst := Substitution{0: arena.Int}

	if got := SubstituteType(arena, param, subst); got != param {
		t.Fatalf("expected an unbound param index to be left unchanged")
	}
}

func TestSubstituteTypeRecursesIntoStructFields(t *testing.T) {
	arena := types.NewTyArena()
	param := arena.Alloc(types.Ty{Kind: types.KindParam, Param: types.ParamData{Index: 0, Name: "T"}})
	box := arena.Alloc(types.Ty{Kind: types.KindStruct, Struct: types.StructData{
		Def:    types.DefID(1),
		Fields: []types.StructField{{Name: "value", Type: param}},
	}})
	subst := Substitution{0: arena.Bool}

	got := SubstituteType(arena, box, subst)
	if got == box {
		t.Fatalf("expected substitution to allocate a fresh struct type, got the same id back")
	}
	gotTy := arena.Get(got)
	if gotTy.Kind != types.KindStruct || gotTy.Struct.Fields[0].Type != arena.Bool {
		t.Fatalf("expected the substituted struct's field to be Bool, got %+v", gotTy)
	}
}

func TestSubstituteTypeNoOpWhenNothingChanges(t *testing.T) {
	arena := types.NewTyArena()
	tuple := arena.Alloc(types.Ty{Kind: types.KindTuple, Tuple: types.TupleData{Elements: []types.TyID{arena.Int, arena.Bool}}})
	subst := Substitution{0: arena.String}

	if got := SubstituteType(arena, tuple, subst); got != tuple {
		t.Fatalf("expected a type with no Param inside to be returned unchanged, got a new id")
	}
}

func TestSubstituteTypeRecursesThroughRefAndArray(t *testing.T) {
	arena := types.NewTyArena()
	param := arena.Alloc(types.Ty{Kind: types.KindParam, Param: types.ParamData{Index: 0, Name: "T"}})
	ref := arena.Alloc(types.Ty{Kind: types.KindRef, Ref: types.RefData{Mutable: true, Inner: param}})
	arr := arena.Alloc(types.Ty{Kind: types.KindArray, Array: types.ArrayData{Element: ref, Size: 4}})
	subst := Substitution{0: arena.Int}

	got := arena.Get(SubstituteType(arena, arr, subst))
	if got.Kind != types.KindArray || got.Array.Size != 4 {
		t.Fatalf("expected the array's size to survive substitution untouched, got %+v", got)
	}
	inner := arena.Get(got.Array.Element)
	if inner.Kind != types.KindRef || inner.Ref.Inner != arena.Int {
		t.Fatalf("expected the ref's inner type to become Int, got %+v", inner)
	}
}
