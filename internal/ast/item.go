package ast

import "ember/internal/source"

// ItemKind tags a top-level (or trait/impl-nested) declaration. The string
// form matches the source-kinded tag the external parser would attach, e.g.
// "function_item", "struct_item".
type ItemKind uint8

const (
	ItemFunction ItemKind = iota
	ItemStructDef
	ItemEnumDef
	ItemTraitDef
	ItemImplBlock
	ItemTypeAlias
	ItemConst
	ItemStatic
)

func (k ItemKind) Tag() string {
	switch k {
	case ItemFunction:
		return "function_item"
	case ItemStructDef:
		return "struct_item"
	case ItemEnumDef:
		return "enum_item"
	case ItemTraitDef:
		return "trait_item"
	case ItemImplBlock:
		return "impl_item"
	case ItemTypeAlias:
		return "type_alias_item"
	case ItemConst:
		return "const_item"
	case ItemStatic:
		return "static_item"
	default:
		return "unknown_item"
	}
}

// Item is a node in the surface tree for one of the eight declaration forms
// HIR construction understands (§3.3 Definitions). Exactly one of the
// payload fields is meaningful, selected by Kind.
type Item struct {
	Kind ItemKind
	Span source.Span
	Name source.Symbol

	Function  FunctionItem
	StructDef StructDefItem
	EnumDef   EnumDefItem
	TraitDef  TraitDefItem
	ImplBlock ImplBlockItem
	TypeAlias TypeAliasItem
	Const     ConstItem
	Static    StaticItem
}

// GenericParam is a single `<T: Bound1 + Bound2>` slot.
type GenericParam struct {
	Name   source.Symbol
	Span   source.Span
	Bounds []source.Symbol
}

// Param is one function parameter.
type Param struct {
	Name    source.Symbol
	Span    source.Span
	Type    TypeExprID
	Mutable bool
}

// FunctionItem is a `fn name<generics>(params) -> ret { body }` declaration.
type FunctionItem struct {
	Generics []GenericParam
	Params   []Param
	Ret      TypeExprID // NoTypeExprID means unit
	Body     ExprID     // NoExprID for a trait method signature with no body
}

// FieldDecl is one field of a struct definition.
type FieldDecl struct {
	Name source.Symbol
	Span source.Span
	Type TypeExprID
}

type StructDefItem struct {
	Generics []GenericParam
	Fields   []FieldDecl
}

// VariantDecl is one enum variant, optionally carrying tuple-style payload
// fields (an empty Fields slice is a unit variant).
type VariantDecl struct {
	Name   source.Symbol
	Span   source.Span
	Fields []FieldDecl
}

type EnumDefItem struct {
	Generics []GenericParam
	Variants []VariantDecl
}

// AssociatedTypeDecl is a `type Name;` slot inside a trait.
type AssociatedTypeDecl struct {
	Name source.Symbol
	Span source.Span
}

type TraitDefItem struct {
	Generics        []GenericParam
	Supertraits     []source.Symbol
	AssociatedTypes []AssociatedTypeDecl
	Methods         []ItemID // each an ItemFunction
}

// AssociatedTypeImpl binds an associated type to a concrete type annotation
// within one impl block.
type AssociatedTypeImpl struct {
	Name source.Symbol
	Type TypeExprID
}

type ImplBlockItem struct {
	Generics            []GenericParam
	SelfType            TypeExprID
	TraitRef            source.Symbol // NoSymbol for an inherent impl
	Items               []ItemID      // each an ItemFunction
	AssociatedTypeImpls []AssociatedTypeImpl
}

type TypeAliasItem struct {
	Generics []GenericParam
	Aliased  TypeExprID
}

type ConstItem struct {
	Type  TypeExprID
	Value ExprID
}

type StaticItem struct {
	Type    TypeExprID
	Value   ExprID
	Mutable bool
}
