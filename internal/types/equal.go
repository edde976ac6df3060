package types

// Equal reports structural-or-nominal equality between two types already
// resolved in the same arena (§3.4). It does not unify variables; the
// solver (internal/infer) is the only caller allowed to bind a Var.
//
// Error unifies with anything: a caller asking "is this assignable" should
// treat an Error comparison as success, since the sentinel only exists to
// let error recovery continue past an already-reported mistake.
func Equal(a *TyArena, x, y TyID) bool {
	if x == y {
		return true
	}
	tx, ty := a.Get(x), a.Get(y)
	if tx.Kind == KindError || ty.Kind == KindError {
		return true
	}
	if tx.Kind != ty.Kind {
		return false
	}
	switch tx.Kind {
	case KindInt, KindFloat, KindBool, KindString, KindUnit, KindNever:
		return true
	case KindFunction:
		if len(tx.Function.Params) != len(ty.Function.Params) {
			return false
		}
		for i := range tx.Function.Params {
			if !Equal(a, tx.Function.Params[i], ty.Function.Params[i]) {
				return false
			}
		}
		return Equal(a, tx.Function.Ret, ty.Function.Ret)
	case KindTuple:
		if len(tx.Tuple.Elements) != len(ty.Tuple.Elements) {
			return false
		}
		for i := range tx.Tuple.Elements {
			if !Equal(a, tx.Tuple.Elements[i], ty.Tuple.Elements[i]) {
				return false
			}
		}
		return true
	case KindStruct:
		// Nominal: definition identity decides equality, not field shape.
		return tx.Struct.Def == ty.Struct.Def
	case KindEnum:
		return tx.Enum.Def == ty.Enum.Def
	case KindRef:
		return tx.Ref.Mutable == ty.Ref.Mutable && Equal(a, tx.Ref.Inner, ty.Ref.Inner)
	case KindArray:
		return tx.Array.Size == ty.Array.Size && Equal(a, tx.Array.Element, ty.Array.Element)
	case KindSlice:
		return Equal(a, tx.Slice, ty.Slice)
	case KindVar:
		return tx.Var == ty.Var
	case KindParam:
		return tx.Param.Index == ty.Param.Index
	case KindNamed:
		if tx.Named.Def != ty.Named.Def {
			return false
		}
		if len(tx.Named.Args) != len(ty.Named.Args) {
			return false
		}
		for i := range tx.Named.Args {
			if !Equal(a, tx.Named.Args[i], ty.Named.Args[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// IsBottom reports whether id names the Never type, the unique bottom that
// is assignable to anything (§3.4).
func IsBottom(a *TyArena, id TyID) bool {
	return a.Get(id).Kind == KindNever
}

// IsErrorSentinel reports whether id is the arena's Error singleton.
func IsErrorSentinel(a *TyArena, id TyID) bool {
	return a.Get(id).Kind == KindError
}
