package hir

import (
	"ember/internal/ast"
	"ember/internal/source"
	"ember/internal/symbols"
)

// DefKind enumerates the eight definition forms HIR construction produces
// (§3.3 Definitions).
type DefKind uint8

const (
	DefFunction DefKind = iota
	DefStructDef
	DefEnumDef
	DefTraitDef
	DefImplBlock
	DefTypeAlias
	DefConst
	DefStatic
)

type GenericParam struct {
	Name   source.Symbol
	Bounds []source.Symbol
}

type Param struct {
	Name    source.Symbol
	Type    ast.TypeExprID
	Mutable bool
}

type FunctionDef struct {
	Generics []GenericParam
	Params   []Param
	Ret      ast.TypeExprID
	Body     BodyID // NoBodyID for a trait method signature with no default
}

type FieldDef struct {
	Name source.Symbol
	Type ast.TypeExprID
}

type StructDefDef struct {
	Generics []GenericParam
	Fields   []FieldDef
}

type VariantDef struct {
	Name   source.Symbol
	Fields []FieldDef
}

type EnumDefDef struct {
	Generics []GenericParam
	Variants []VariantDef
}

type TraitDefDef struct {
	Generics        []GenericParam
	Supertraits     []source.Symbol
	// SupertraitDefs holds the same supertraits resolved to their trait
	// DefID, in the same order, for bound checking (§4.E phase 3 /
	// supplemented supertrait check). NoDefID where resolution failed.
	SupertraitDefs  []DefID
	AssociatedTypes []source.Symbol
	Methods         []DefID
}

type AssociatedTypeImpl struct {
	Name source.Symbol
	Type ast.TypeExprID
}

type ImplBlockDef struct {
	Generics []GenericParam
	SelfType ast.TypeExprID
	TraitRef source.Symbol // NoSymbol for an inherent impl
	// SelfTypeDef and TraitRefDef are SelfType/TraitRef resolved to
	// DefIDs, consumed by internal/infer's bound checker. TraitRefDef is
	// NoDefID for an inherent impl or on resolution failure.
	SelfTypeDef         DefID
	TraitRefDef         DefID
	Items               []DefID
	AssociatedTypeImpls []AssociatedTypeImpl
}

type TypeAliasDef struct {
	Generics []GenericParam
	Aliased  ast.TypeExprID
}

type ConstDef struct {
	Type ast.TypeExprID
	Body BodyID
}

type StaticDef struct {
	Type    ast.TypeExprID
	Body    BodyID
	Mutable bool
}

// Definition is one module-level (or trait/impl-nested) declaration.
// Exactly one payload field is meaningful, selected by Kind.
type Definition struct {
	Kind  DefKind
	Name  source.Symbol
	Span  source.Span
	Scope symbols.ScopeID

	Function  FunctionDef
	StructDef StructDefDef
	EnumDef   EnumDefDef
	TraitDef  TraitDefDef
	ImplBlock ImplBlockDef
	TypeAlias TypeAliasDef
	Const     ConstDef
	Static    StaticDef
}
