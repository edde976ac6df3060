package hir

import (
	"ember/internal/ast"
	"ember/internal/source"
	"ember/internal/symbols"
)

func (b *Builder) lowerPattern(scope symbols.ScopeID, body *Body, id ast.PatternID) PatternID {
	if !id.IsValid() {
		return NoPatternID
	}
	src := b.file.Pattern(id)
	out := Pattern{Kind: PatternKind(src.Kind), Span: src.Span}

	switch src.Kind {
	case ast.PatternWildcard:
		// no payload
	case ast.PatternBinding:
		sub := b.lowerPattern(scope, body, src.Binding.SubPattern)
		b.defineLocal(scope, src.Binding.Name, src.Span, src.Binding.Mutable)
		out.Binding = BindingData{Name: src.Binding.Name, Mutable: src.Binding.Mutable, SubPattern: sub}
	case ast.PatternLiteral:
		out.Literal = src.Literal
	case ast.PatternRange:
		out.Range = RangeData{
			Start:     b.lowerExpr(scope, body, src.Range.Start),
			End:       b.lowerExpr(scope, body, src.Range.End),
			Inclusive: src.Range.Inclusive,
		}
	case ast.PatternTuple:
		elems := make([]PatternID, len(src.Tuple))
		for i, p := range src.Tuple {
			elems[i] = b.lowerPattern(scope, body, p)
		}
		out.Tuple = elems
	case ast.PatternStruct:
		out.Struct = b.lowerStructPattern(scope, body, src.Struct, src.Span)
	case ast.PatternEnum:
		out.Enum = b.lowerEnumPattern(scope, body, src.Enum, src.Span)
	case ast.PatternOr:
		alts := make([]PatternID, len(src.Or))
		for i, p := range src.Or {
			alts[i] = b.lowerPattern(scope, body, p)
		}
		out.Or = alts
	}

	return body.AllocPattern(out)
}

func (b *Builder) lowerStructPattern(scope symbols.ScopeID, body *Body, src ast.StructPatternData, span source.Span) StructPatternData {
	def := b.resolveTypeDef(scope, src.TypeName, span)
	fields := make([]StructFieldPattern, len(src.Fields))
	for i, f := range src.Fields {
		fields[i] = StructFieldPattern{Name: f.Name, Pattern: b.lowerPattern(scope, body, f.Pattern)}
	}
	return StructPatternData{Def: def, Fields: fields, HasRest: src.HasRest}
}

func (b *Builder) lowerEnumPattern(scope symbols.ScopeID, body *Body, src ast.EnumPatternData, span source.Span) EnumPatternData {
	def := b.resolveTypeDef(scope, src.TypeName, span)
	fields := make([]PatternID, len(src.Fields))
	for i, f := range src.Fields {
		fields[i] = b.lowerPattern(scope, body, f)
	}
	return EnumPatternData{Def: def, Variant: src.VariantName, Fields: fields}
}

// resolveTypeDef resolves a type-position name reference (struct/enum name
// in a pattern or literal) to its module-level DefID. A local can never be
// the target, so the local/item distinction only matters for the
// diagnostic path.
func (b *Builder) resolveTypeDef(scope symbols.ScopeID, name source.Symbol, span source.Span) DefID {
	res, ok := b.resolveName(scope, name, span)
	if !ok || IsLocal(res.DefID) {
		return NoDefID
	}
	return AsItemDefID(res.DefID)
}
