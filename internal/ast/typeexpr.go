package ast

import "ember/internal/source"

// TypeExprKind tags a type annotation as written in source, the surface
// form the type checker (internal/types, internal/infer) resolves into a
// Ty. Distinct from internal/types.Ty: a TypeExpr is unresolved syntax, a Ty
// is a resolved, arena-owned semantic value.
type TypeExprKind uint8

const (
	TypeExprNamed TypeExprKind = iota
	TypeExprRef
	TypeExprTuple
	TypeExprArray
	TypeExprSlice
	TypeExprFn
	TypeExprInfer
)

func (k TypeExprKind) Tag() string {
	switch k {
	case TypeExprNamed:
		return "named_type"
	case TypeExprRef:
		return "reference_type"
	case TypeExprTuple:
		return "tuple_type"
	case TypeExprArray:
		return "array_type"
	case TypeExprSlice:
		return "slice_type"
	case TypeExprFn:
		return "fn_type"
	case TypeExprInfer:
		return "infer_type"
	default:
		return "unknown_type"
	}
}

// TypeExpr is a node of a type annotation written in source.
type TypeExpr struct {
	Kind TypeExprKind
	Span source.Span

	Named NamedTypeExprData
	Ref   RefTypeExprData
	Tuple []TypeExprID
	Array ArrayTypeExprData
	Slice TypeExprID
	Fn    FnTypeExprData
}

type NamedTypeExprData struct {
	Name source.Symbol
	Args []TypeExprID
}

type RefTypeExprData struct {
	Mutable bool
	Inner   TypeExprID
}

type ArrayTypeExprData struct {
	Element TypeExprID
	Size    ExprID // a const expression; NoExprID for an inferred size
}

type FnTypeExprData struct {
	Params []TypeExprID
	Ret    TypeExprID
}
