package infer

import (
	"fmt"

	"ember/internal/types"
)

// UnificationErrorKind tags why two types failed to unify.
type UnificationErrorKind uint8

const (
	UnificationMismatch UnificationErrorKind = iota
	UnificationOccursCheck
)

// UnificationError reports a failed unify call.
type UnificationError struct {
	Kind     UnificationErrorKind
	Expected types.TyID
	Found    types.TyID
	Var      types.VarID
}

func (e *UnificationError) Error() string {
	switch e.Kind {
	case UnificationOccursCheck:
		return fmt.Sprintf("occurs check failed: var %d occurs in its own solution", e.Var)
	default:
		return fmt.Sprintf("type mismatch: cannot unify %d with %d", e.Expected, e.Found)
	}
}

// Unifier resolves Equality constraints against a Context's arena and
// substitution map (§4.E; unify rules grounded 1:1 on the structural match
// in the original solver).
type Unifier struct {
	ctx *types.Context
}

// NewUnifier creates a Unifier bound to ctx.
func NewUnifier(ctx *types.Context) *Unifier { return &Unifier{ctx: ctx} }

// Unify attempts to make left and right the same type, recording any
// variable bindings it needs in ctx.Bind. The occurs check prevents
// constructing an infinite type through a self-referential substitution.
func (u *Unifier) Unify(left, right types.TyID) error {
	left = u.ctx.ApplySubst(left)
	right = u.ctx.ApplySubst(right)
	if left == right {
		return nil
	}

	arena := u.ctx.Arena
	lt, rt := arena.Get(left), arena.Get(right)

	switch {
	case lt.Kind == types.KindVar:
		return u.unifyVar(lt.Var, right)
	case rt.Kind == types.KindVar:
		return u.unifyVar(rt.Var, left)
	case lt.Kind == types.KindError || rt.Kind == types.KindError:
		return nil
	case lt.Kind != rt.Kind:
		return mismatch(left, right)
	}

	switch lt.Kind {
	case types.KindInt, types.KindFloat, types.KindBool, types.KindString, types.KindUnit, types.KindNever:
		return nil
	case types.KindFunction:
		if len(lt.Function.Params) != len(rt.Function.Params) {
			return mismatch(left, right)
		}
		for i := range lt.Function.Params {
			if err := u.Unify(lt.Function.Params[i], rt.Function.Params[i]); err != nil {
				return err
			}
		}
		return u.Unify(lt.Function.Ret, rt.Function.Ret)
	case types.KindTuple:
		if len(lt.Tuple.Elements) != len(rt.Tuple.Elements) {
			return mismatch(left, right)
		}
		for i := range lt.Tuple.Elements {
			if err := u.Unify(lt.Tuple.Elements[i], rt.Tuple.Elements[i]); err != nil {
				return err
			}
		}
		return nil
	case types.KindRef:
		if lt.Ref.Mutable != rt.Ref.Mutable {
			return mismatch(left, right)
		}
		return u.Unify(lt.Ref.Inner, rt.Ref.Inner)
	case types.KindArray:
		if lt.Array.Size != rt.Array.Size {
			return mismatch(left, right)
		}
		return u.Unify(lt.Array.Element, rt.Array.Element)
	case types.KindSlice:
		return u.Unify(lt.Slice, rt.Slice)
	case types.KindNamed:
		if lt.Named.Def != rt.Named.Def || len(lt.Named.Args) != len(rt.Named.Args) {
			return mismatch(left, right)
		}
		for i := range lt.Named.Args {
			if err := u.Unify(lt.Named.Args[i], rt.Named.Args[i]); err != nil {
				return err
			}
		}
		return nil
	case types.KindStruct:
		if lt.Struct.Def != rt.Struct.Def {
			return mismatch(left, right)
		}
		return nil
	case types.KindEnum:
		if lt.Enum.Def != rt.Enum.Def {
			return mismatch(left, right)
		}
		return nil
	case types.KindParam:
		if lt.Param.Index != rt.Param.Index {
			return mismatch(left, right)
		}
		return nil
	default:
		return mismatch(left, right)
	}
}

func mismatch(expected, found types.TyID) error {
	return &UnificationError{Kind: UnificationMismatch, Expected: expected, Found: found}
}

func (u *Unifier) unifyVar(v types.VarID, ty types.TyID) error {
	if u.occursIn(v, ty) {
		return &UnificationError{Kind: UnificationOccursCheck, Var: v, Found: ty}
	}
	u.ctx.Bind(v, ty)
	return nil
}

// occursIn reports whether v appears anywhere inside ty after applying the
// current substitution, preventing a binding that would build an infinite
// type (`T = (T, Int)`).
func (u *Unifier) occursIn(v types.VarID, ty types.TyID) bool {
	ty = u.ctx.ApplySubst(ty)
	t := u.ctx.Arena.Get(ty)
	switch t.Kind {
	case types.KindVar:
		return t.Var == v
	case types.KindFunction:
		for _, p := range t.Function.Params {
			if u.occursIn(v, p) {
				return true
			}
		}
		return u.occursIn(v, t.Function.Ret)
	case types.KindTuple:
		for _, e := range t.Tuple.Elements {
			if u.occursIn(v, e) {
				return true
			}
		}
		return false
	case types.KindRef:
		return u.occursIn(v, t.Ref.Inner)
	case types.KindArray:
		return u.occursIn(v, t.Array.Element)
	case types.KindSlice:
		return u.occursIn(v, t.Slice)
	case types.KindNamed:
		for _, a := range t.Named.Args {
			if u.occursIn(v, a) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
