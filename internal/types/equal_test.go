package types

import "testing"

func TestEqualScalarsBySingleton(t *testing.T) {
	a := NewTyArena()
	if !Equal(a, a.Int, a.Int) {
		t.Fatalf("Int should equal itself")
	}
	if Equal(a, a.Int, a.Bool) {
		t.Fatalf("Int should not equal Bool")
	}
}

func TestEqualErrorUnifiesWithAnything(t *testing.T) {
	a := NewTyArena()
	if !Equal(a, a.Error, a.Int) {
		t.Fatalf("Error must unify with any type")
	}
	if !Equal(a, a.Bool, a.Error) {
		t.Fatalf("Error must unify with any type regardless of argument order")
	}
}

func TestEqualStructIsNominal(t *testing.T) {
	a := NewTyArena()
	fieldsA := []StructField{{Name: "x", Type: a.Int}}
	fieldsB := []StructField{{Name: "x", Type: a.Int}}
	s1 := a.Alloc(Ty{Kind: KindStruct, Struct: StructData{Def: DefID(1), Fields: fieldsA}})
	s2 := a.Alloc(Ty{Kind: KindStruct, Struct: StructData{Def: DefID(1), Fields: fieldsB}})
	s3 := a.Alloc(Ty{Kind: KindStruct, Struct: StructData{Def: DefID(2), Fields: fieldsA}})

	if !Equal(a, s1, s2) {
		t.Fatalf("structurally identical structs with the same def id must be equal")
	}
	if Equal(a, s1, s3) {
		t.Fatalf("structs with different def ids must not be equal even with identical fields")
	}
}

func TestEqualNamedRequiresMatchingArgs(t *testing.T) {
	a := NewTyArena()
	n1 := a.Alloc(Ty{Kind: KindNamed, Named: NamedData{Name: "Box", Def: DefID(5), Args: []TyID{a.Int}}})
	n2 := a.Alloc(Ty{Kind: KindNamed, Named: NamedData{Name: "Box", Def: DefID(5), Args: []TyID{a.Int}}})
	n3 := a.Alloc(Ty{Kind: KindNamed, Named: NamedData{Name: "Box", Def: DefID(5), Args: []TyID{a.Bool}}})

	if !Equal(a, n1, n2) {
		t.Fatalf("Box<Int> should equal Box<Int>")
	}
	if Equal(a, n1, n3) {
		t.Fatalf("Box<Int> should not equal Box<Bool>")
	}
}

func TestIsBottomAndErrorSentinel(t *testing.T) {
	a := NewTyArena()
	if !IsBottom(a, a.Never) {
		t.Fatalf("Never must report as bottom")
	}
	if IsBottom(a, a.Int) {
		t.Fatalf("Int must not report as bottom")
	}
	if !IsErrorSentinel(a, a.Error) {
		t.Fatalf("Error singleton must report as the error sentinel")
	}
}
