package types

import "fmt"

// Kind enumerates every variant of Ty (§3.4): primitives, composites, and
// the inference artifacts (Var, Param, Named) that only appear before
// monomorphization.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindInt
	KindFloat
	KindBool
	KindString
	KindUnit
	KindNever
	KindError
	KindFunction
	KindTuple
	KindStruct
	KindEnum
	KindRef
	KindArray
	KindSlice
	KindVar
	KindParam
	KindNamed
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindUnit:
		return "unit"
	case KindNever:
		return "never"
	case KindError:
		return "error"
	case KindFunction:
		return "function"
	case KindTuple:
		return "tuple"
	case KindStruct:
		return "struct"
	case KindEnum:
		return "enum"
	case KindRef:
		return "ref"
	case KindArray:
		return "array"
	case KindSlice:
		return "slice"
	case KindVar:
		return "var"
	case KindParam:
		return "param"
	case KindNamed:
		return "named"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// FunctionData is the payload of a KindFunction Ty.
type FunctionData struct {
	Params []TyID
	Ret    TyID
}

// TupleData is the payload of a KindTuple Ty.
type TupleData struct {
	Elements []TyID
}

// StructField names one field of a struct type for field-access typing.
type StructField struct {
	Name string
	Type TyID
}

// StructData is the payload of a KindStruct Ty. Two struct Tys are equal
// only if Def matches (§3.4 nominal equality); Fields still carries the
// field list so the type checker doesn't need a side table.
type StructData struct {
	Def    DefID
	Fields []StructField
}

// EnumVariant names one variant of an enum type.
type EnumVariant struct {
	Name   string
	Fields []StructField
}

// EnumData is the payload of a KindEnum Ty, nominal by Def like StructData.
type EnumData struct {
	Def      DefID
	Variants []EnumVariant
}

// RefData is the payload of a KindRef Ty: `&T` or `&mut T`.
type RefData struct {
	Mutable bool
	Inner   TyID
}

// ArrayData is the payload of a KindArray Ty: a fixed-length `[T; N]`.
type ArrayData struct {
	Element TyID
	Size    uint64
}

// ParamData is the payload of a KindParam Ty: an as-yet-uninstantiated
// generic parameter of the enclosing function or type, identified
// positionally plus by name for diagnostics.
type ParamData struct {
	Index uint32
	Name  string
}

// NamedData is the payload of a KindNamed Ty: a nominal type applied to
// generic arguments before the definition it refers to has been resolved
// to a concrete KindStruct/KindEnum (e.g. while checking a generic
// function body against its own type parameters).
type NamedData struct {
	Name string
	Def  DefID
	Args []TyID
}

// Ty is one resolved type value (§3.4). Exactly one payload field is
// meaningful, selected by Kind; scalar kinds (Int, Float, Bool, String,
// Unit, Never, Error) need no payload at all.
type Ty struct {
	Kind Kind

	Function FunctionData
	Tuple    TupleData
	Struct   StructData
	Enum     EnumData
	Ref      RefData
	Array    ArrayData
	Slice    TyID
	Var      VarID
	Param    ParamData
	Named    NamedData
}
