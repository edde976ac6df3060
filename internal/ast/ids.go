// Package ast models the surface tree handed over by the external parser
// collaborator: nodes with source-kinded tags and byte spans (§6). HIR
// construction (internal/hir) is the only consumer of the node arenas;
// later passes import this package only for the literal-kind and operator
// enums that HIR nodes reuse.
package ast

type (
	// ItemID identifies a top-level or trait/impl-nested item.
	ItemID uint32
	// ExprID identifies an expression node.
	ExprID uint32
	// PatternID identifies a pattern node.
	PatternID uint32
	// TypeExprID identifies a type annotation written in source.
	TypeExprID uint32
	// StmtID identifies a block statement.
	StmtID uint32
	// ParamID identifies a function parameter.
	ParamID uint32
	// FieldID identifies a struct field or struct-literal field.
	FieldID uint32
	// VariantID identifies an enum variant declaration.
	VariantID uint32
	// GenericParamID identifies a generic type parameter.
	GenericParamID uint32
	// MatchArmID identifies a single arm of a match expression.
	MatchArmID uint32
)

const (
	NoItemID        ItemID         = 0
	NoExprID        ExprID         = 0
	NoPatternID     PatternID      = 0
	NoTypeExprID    TypeExprID     = 0
	NoStmtID        StmtID         = 0
	NoParamID       ParamID        = 0
	NoFieldID       FieldID        = 0
	NoVariantID     VariantID      = 0
	NoGenericParam  GenericParamID = 0
	NoMatchArmID    MatchArmID     = 0
)

func (id ItemID) IsValid() bool        { return id != NoItemID }
func (id ExprID) IsValid() bool        { return id != NoExprID }
func (id PatternID) IsValid() bool     { return id != NoPatternID }
func (id TypeExprID) IsValid() bool    { return id != NoTypeExprID }
func (id StmtID) IsValid() bool        { return id != NoStmtID }
func (id ParamID) IsValid() bool       { return id != NoParamID }
func (id FieldID) IsValid() bool       { return id != NoFieldID }
func (id VariantID) IsValid() bool     { return id != NoVariantID }
func (id GenericParamID) IsValid() bool { return id != NoGenericParam }
func (id MatchArmID) IsValid() bool    { return id != NoMatchArmID }
