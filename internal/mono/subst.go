// Package mono implements the monomorphization boundary (§3.8): given the
// constraint solver's generic-instantiation witnesses (internal/infer), it
// substitutes each generic function's type parameters with their concrete
// arguments and produces one mir.Function per distinct instantiation,
// caching by (function, argument) so the same instantiation is never
// built twice. internal/lir then lowers each concrete instance into the
// closed, code-generator-ready representation.
package mono

import (
	"ember/internal/types"
)

// Substitution maps a generic parameter's positional index to the
// concrete type it was instantiated with.
type Substitution map[uint32]types.TyID

// SubstituteType resolves every KindParam reachable from ty against subst,
// allocating fresh composite Tys in arena wherever a child type actually
// changes. A Param with no entry in subst is left as-is — callers only
// ever substitute with a witness table built from a real call, so an
// unresolved Param means that argument position genuinely wasn't generic
// at this call site.
func SubstituteType(arena *types.TyArena, ty types.TyID, subst Substitution) types.TyID {
	if !ty.IsValid() {
		return ty
	}
	t := arena.Get(ty)
	switch t.Kind {
	case types.KindParam:
		if concrete, ok := subst[t.Param.Index]; ok {
			return concrete
		}
		return ty

	case types.KindFunction:
		params := substituteAll(arena, t.Function.Params, subst)
		ret := SubstituteType(arena, t.Function.Ret, subst)
		if !changed(t.Function.Params, params) && ret == t.Function.Ret {
			return ty
		}
		return arena.Alloc(types.Ty{Kind: types.KindFunction, Function: types.FunctionData{Params: params, Ret: ret}})

	case types.KindTuple:
		elements := substituteAll(arena, t.Tuple.Elements, subst)
		if !changed(t.Tuple.Elements, elements) {
			return ty
		}
		return arena.Alloc(types.Ty{Kind: types.KindTuple, Tuple: types.TupleData{Elements: elements}})

	case types.KindStruct:
		fields, didChange := substituteFields(arena, t.Struct.Fields, subst)
		if !didChange {
			return ty
		}
		return arena.Alloc(types.Ty{Kind: types.KindStruct, Struct: types.StructData{Def: t.Struct.Def, Fields: fields}})

	case types.KindEnum:
		didChange := false
		variants := make([]types.EnumVariant, len(t.Enum.Variants))
		for i, v := range t.Enum.Variants {
			fields, fieldsChanged := substituteFields(arena, v.Fields, subst)
			variants[i] = types.EnumVariant{Name: v.Name, Fields: fields}
			didChange = didChange || fieldsChanged
		}
		if !didChange {
			return ty
		}
		return arena.Alloc(types.Ty{Kind: types.KindEnum, Enum: types.EnumData{Def: t.Enum.Def, Variants: variants}})

	case types.KindRef:
		inner := SubstituteType(arena, t.Ref.Inner, subst)
		if inner == t.Ref.Inner {
			return ty
		}
		return arena.Alloc(types.Ty{Kind: types.KindRef, Ref: types.RefData{Mutable: t.Ref.Mutable, Inner: inner}})

	case types.KindArray:
		element := SubstituteType(arena, t.Array.Element, subst)
		if element == t.Array.Element {
			return ty
		}
		return arena.Alloc(types.Ty{Kind: types.KindArray, Array: types.ArrayData{Element: element, Size: t.Array.Size}})

	case types.KindSlice:
		element := SubstituteType(arena, t.Slice, subst)
		if element == t.Slice {
			return ty
		}
		return arena.Alloc(types.Ty{Kind: types.KindSlice, Slice: element})

	case types.KindNamed:
		args := substituteAll(arena, t.Named.Args, subst)
		if !changed(t.Named.Args, args) {
			return ty
		}
		return arena.Alloc(types.Ty{Kind: types.KindNamed, Named: types.NamedData{Name: t.Named.Name, Def: t.Named.Def, Args: args}})

	default:
		// Scalars (Int, Float, Bool, String, Unit, Never, Error) and Var
		// carry no child types to substitute.
		return ty
	}
}

func substituteAll(arena *types.TyArena, ids []types.TyID, subst Substitution) []types.TyID {
	if len(ids) == 0 {
		return ids
	}
	out := make([]types.TyID, len(ids))
	for i, id := range ids {
		out[i] = SubstituteType(arena, id, subst)
	}
	return out
}

func substituteFields(arena *types.TyArena, fields []types.StructField, subst Substitution) ([]types.StructField, bool) {
	didChange := false
	out := make([]types.StructField, len(fields))
	for i, f := range fields {
		newTy := SubstituteType(arena, f.Type, subst)
		out[i] = types.StructField{Name: f.Name, Type: newTy}
		if newTy != f.Type {
			didChange = true
		}
	}
	return out, didChange
}

func changed(before, after []types.TyID) bool {
	if len(before) != len(after) {
		return true
	}
	for i := range before {
		if before[i] != after[i] {
			return true
		}
	}
	return false
}
