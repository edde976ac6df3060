package hir

import (
	"ember/internal/ast"
	"ember/internal/diag"
	"ember/internal/source"
	"ember/internal/symbols"
)

// localDefBit separates the module-level DefID namespace from the
// per-body LocalID namespace within a single symbols.DefID: item
// definitions stay below the bit, locals always have it set.
const localDefBit = symbols.DefID(1) << 40

func encodeItemDef(id DefID) symbols.DefID  { return symbols.DefID(id) }
func encodeLocalDef(id LocalID) symbols.DefID { return symbols.DefID(id) | localDefBit }

// IsLocal reports whether a resolved DefID names a body-local (parameter or
// let-binding) rather than a module-level definition.
func IsLocal(d symbols.DefID) bool { return d&localDefBit != 0 }

// AsLocalID decodes a local DefID produced by encodeLocalDef.
func AsLocalID(d symbols.DefID) LocalID { return LocalID(d &^ localDefBit) }

// AsItemDefID decodes a module-level DefID.
func AsItemDefID(d symbols.DefID) DefID { return DefID(d) }

// Builder constructs a Module from one ast.File, performing HIR
// construction (§4.B) and name resolution (§4.C) in the same top-down walk:
// entering a block/function/match-arm creates a child scope, and
// every name reference is resolved against the scope visible at that point.
type Builder struct {
	mod      *Module
	file     *ast.File
	interner *source.Interner
	reporter diag.Reporter

	itemDefs map[ast.ItemID]DefID
	nextLoc  LocalID
}

// NewBuilder creates a Builder over file, reporting diagnostics to r.
func NewBuilder(file *ast.File, interner *source.Interner, fileSpan source.Span, r diag.Reporter) *Builder {
	return &Builder{
		mod:      NewModule(file.ID, fileSpan),
		file:     file,
		interner: interner,
		reporter: r,
		itemDefs: make(map[ast.ItemID]DefID),
	}
}

// Build runs both passes and returns the finished Module. First pass:
// declare every top-level name so forward references resolve regardless of
// source order (§5 "signatures are computed first"). Second pass: lower
// each definition's body.
func (b *Builder) Build() *Module {
	root := b.mod.RootScope()
	for _, itemID := range b.file.TopLevel {
		b.declareItem(root, itemID)
	}
	for _, itemID := range b.file.TopLevel {
		b.lowerItemBody(root, itemID)
	}
	return b.mod
}

func (b *Builder) declareItem(scope symbols.ScopeID, itemID ast.ItemID) DefID {
	item := b.file.Item(itemID)
	kind := itemKindToDefKind(item.Kind)
	defID := b.mod.AllocDef(Definition{Kind: kind, Name: item.Name, Span: item.Span, Scope: scope})
	b.itemDefs[itemID] = defID

	if err := b.mod.Scopes.Define(scope, item.Name, symbols.Resolution{
		DefID:      encodeItemDef(defID),
		Visibility: symbols.Public,
		DefSite:    item.Span,
	}); err != nil {
		diag.ReportError(b.reporter, diag.ResDuplicateDef, item.Span, "duplicate top-level definition").Emit()
	}
	return defID
}

func itemKindToDefKind(k ast.ItemKind) DefKind {
	switch k {
	case ast.ItemFunction:
		return DefFunction
	case ast.ItemStructDef:
		return DefStructDef
	case ast.ItemEnumDef:
		return DefEnumDef
	case ast.ItemTraitDef:
		return DefTraitDef
	case ast.ItemImplBlock:
		return DefImplBlock
	case ast.ItemTypeAlias:
		return DefTypeAlias
	case ast.ItemConst:
		return DefConst
	default:
		return DefStatic
	}
}

func convertGenerics(gs []ast.GenericParam) []GenericParam {
	out := make([]GenericParam, len(gs))
	for i, g := range gs {
		out[i] = GenericParam{Name: g.Name, Bounds: g.Bounds}
	}
	return out
}

func convertFields(fs []ast.FieldDecl) []FieldDef {
	out := make([]FieldDef, len(fs))
	for i, f := range fs {
		out[i] = FieldDef{Name: f.Name, Type: f.Type}
	}
	return out
}

func (b *Builder) lowerItemBody(scope symbols.ScopeID, itemID ast.ItemID) {
	item := b.file.Item(itemID)
	defID := b.itemDefs[itemID]
	def := b.mod.Def(defID)

	switch item.Kind {
	case ast.ItemFunction:
		def.Function = b.lowerFunction(scope, item.Function)
	case ast.ItemStructDef:
		def.StructDef = StructDefDef{Generics: convertGenerics(item.StructDef.Generics), Fields: convertFields(item.StructDef.Fields)}
	case ast.ItemEnumDef:
		variants := make([]VariantDef, len(item.EnumDef.Variants))
		for i, v := range item.EnumDef.Variants {
			variants[i] = VariantDef{Name: v.Name, Fields: convertFields(v.Fields)}
		}
		def.EnumDef = EnumDefDef{Generics: convertGenerics(item.EnumDef.Generics), Variants: variants}
	case ast.ItemTraitDef:
		assoc := make([]source.Symbol, len(item.TraitDef.AssociatedTypes))
		for i, a := range item.TraitDef.AssociatedTypes {
			assoc[i] = a.Name
		}
		supertraitDefs := make([]DefID, len(item.TraitDef.Supertraits))
		for i, s := range item.TraitDef.Supertraits {
			supertraitDefs[i] = b.resolveTypeDef(scope, s, item.Span)
		}
		methods := make([]DefID, 0, len(item.TraitDef.Methods))
		for _, m := range item.TraitDef.Methods {
			methods = append(methods, b.declareItem(scope, m))
		}
		for _, m := range item.TraitDef.Methods {
			b.lowerItemBody(scope, m)
		}
		def.TraitDef = TraitDefDef{
			Generics:        convertGenerics(item.TraitDef.Generics),
			Supertraits:     item.TraitDef.Supertraits,
			SupertraitDefs:  supertraitDefs,
			AssociatedTypes: assoc,
			Methods:         methods,
		}
	case ast.ItemImplBlock:
		items := make([]DefID, 0, len(item.ImplBlock.Items))
		for _, m := range item.ImplBlock.Items {
			items = append(items, b.declareItem(scope, m))
		}
		for _, m := range item.ImplBlock.Items {
			b.lowerItemBody(scope, m)
		}
		assocImpls := make([]AssociatedTypeImpl, len(item.ImplBlock.AssociatedTypeImpls))
		for i, a := range item.ImplBlock.AssociatedTypeImpls {
			assocImpls[i] = AssociatedTypeImpl{Name: a.Name, Type: a.Type}
		}
		selfTypeDef := NoDefID
		if te := b.file.TypeExpr(item.ImplBlock.SelfType); te != nil && te.Kind == ast.TypeExprNamed {
			selfTypeDef = b.resolveTypeDef(scope, te.Named.Name, item.Span)
		}
		traitRefDef := NoDefID
		if item.ImplBlock.TraitRef != source.NoSymbol {
			traitRefDef = b.resolveTypeDef(scope, item.ImplBlock.TraitRef, item.Span)
		}
		def.ImplBlock = ImplBlockDef{
			Generics:            convertGenerics(item.ImplBlock.Generics),
			SelfType:            item.ImplBlock.SelfType,
			TraitRef:            item.ImplBlock.TraitRef,
			SelfTypeDef:         selfTypeDef,
			TraitRefDef:         traitRefDef,
			Items:               items,
			AssociatedTypeImpls: assocImpls,
		}
	case ast.ItemTypeAlias:
		def.TypeAlias = TypeAliasDef{Generics: convertGenerics(item.TypeAlias.Generics), Aliased: item.TypeAlias.Aliased}
	case ast.ItemConst:
		bodyID := b.mod.NewBodyFor()
		body := b.mod.BodyOf(bodyID)
		body.Root = b.lowerExpr(scope, body, item.Const.Value)
		def.Const = ConstDef{Type: item.Const.Type, Body: bodyID}
	case ast.ItemStatic:
		bodyID := b.mod.NewBodyFor()
		body := b.mod.BodyOf(bodyID)
		body.Root = b.lowerExpr(scope, body, item.Static.Value)
		def.Static = StaticDef{Type: item.Static.Type, Body: bodyID, Mutable: item.Static.Mutable}
	}
}

func (b *Builder) lowerFunction(scope symbols.ScopeID, fn ast.FunctionItem) FunctionDef {
	params := make([]Param, len(fn.Params))
	if fn.Body == ast.NoExprID {
		for i, p := range fn.Params {
			params[i] = Param{Name: p.Name, Type: p.Type, Mutable: p.Mutable}
		}
		return FunctionDef{Generics: convertGenerics(fn.Generics), Params: params, Ret: fn.Ret, Body: NoBodyID}
	}

	fnScope := b.mod.Scopes.CreateChild(scope, symbols.ScopeFunction, source.Span{})
	bodyID := b.mod.NewBodyFor()
	body := b.mod.BodyOf(bodyID)

	for i, p := range fn.Params {
		params[i] = Param{Name: p.Name, Type: p.Type, Mutable: p.Mutable}
		b.defineLocal(fnScope, p.Name, p.Span, p.Mutable)
	}

	body.Root = b.lowerExpr(fnScope, body, fn.Body)
	return FunctionDef{Generics: convertGenerics(fn.Generics), Params: params, Ret: fn.Ret, Body: bodyID}
}

// defineLocal binds name to a fresh LocalID in scope, reporting a
// duplicate-definition diagnostic on shadowing conflicts within that exact
// scope (shadowing across nested scopes remains legal).
func (b *Builder) defineLocal(scope symbols.ScopeID, name source.Symbol, span source.Span, mutable bool) LocalID {
	b.nextLoc++
	local := b.nextLoc
	if err := b.mod.Scopes.Define(scope, name, symbols.Resolution{
		DefID:      encodeLocalDef(local),
		Visibility: symbols.Private,
		DefSite:    span,
		Mutable:    mutable,
	}); err != nil {
		diag.ReportError(b.reporter, diag.ResDuplicateDef, span, "duplicate binding in this scope").Emit()
	}
	return local
}

// resolveName looks up name from useScope, reporting an undefined-name
// diagnostic with Levenshtein suggestions (§4.B Suggestion policy) on miss.
func (b *Builder) resolveName(useScope symbols.ScopeID, name source.Symbol, span source.Span) (symbols.Resolution, bool) {
	res, defScope, err := b.mod.Scopes.Resolve(useScope, name)
	if err != nil {
		text, _ := b.interner.Lookup(name)
		suggestions := symbols.Suggest(b.mod.Scopes, b.interner, useScope, text)
		diag.ReportError(b.reporter, diag.ResUndefined, span, "undefined name '"+text+"'").
			WithSuggestions(suggestions).Emit()
		return symbols.Resolution{}, false
	}
	if !b.mod.Scopes.IsVisible(res.Visibility, useScope, defScope) {
		text, _ := b.interner.Lookup(name)
		diag.ReportError(b.reporter, diag.ResPrivateItem, span, "'"+text+"' is private here").Emit()
		return symbols.Resolution{}, false
	}
	return res, true
}
