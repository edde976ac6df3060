// Package infer implements the constraint-based type solver (§4.D/§4.E): an
// Equality/TraitBound/GenericInstantiation constraint set produced while
// walking a HIR body, resolved by a Hindley-Milner-style Unifier plus a
// three-phase ConstraintSolver.
package infer

import (
	"ember/internal/hir"
	"ember/internal/source"
	"ember/internal/types"
)

// ConstraintKind tags a Constraint's payload.
type ConstraintKind uint8

const (
	ConstraintEquality ConstraintKind = iota
	ConstraintTraitBound
	ConstraintGenericInstantiation
)

// Source records where a constraint came from, for diagnostics.
type Source struct {
	Expr hir.ExprID
	Span source.Span
}

// Constraint is one fact the solver must satisfy. Exactly one payload
// field is meaningful, selected by Kind.
type Constraint struct {
	Kind   ConstraintKind
	Source Source

	Equality            EqualityConstraint
	TraitBound           TraitBoundConstraint
	GenericInstantiation GenericInstantiationConstraint
}

// EqualityConstraint demands Left and Right unify to the same type.
type EqualityConstraint struct {
	Left  types.TyID
	Right types.TyID
}

// TraitBoundConstraint demands Ty (after substitution) implement Trait.
type TraitBoundConstraint struct {
	Ty    types.TyID
	Trait types.DefID
}

// GenericInstantiationConstraint records that calling Function with
// ParamIndex bound to Ty requires that instantiation to be remembered for
// monomorphization.
type GenericInstantiationConstraint struct {
	Function   hir.DefID
	ParamIndex uint32
	Ty         types.TyID
}

// Equality constructs an equality constraint.
func Equality(left, right types.TyID, src Source) Constraint {
	return Constraint{Kind: ConstraintEquality, Source: src, Equality: EqualityConstraint{Left: left, Right: right}}
}

// TraitBound constructs a trait-bound constraint.
func TraitBound(ty types.TyID, trait types.DefID, src Source) Constraint {
	return Constraint{Kind: ConstraintTraitBound, Source: src, TraitBound: TraitBoundConstraint{Ty: ty, Trait: trait}}
}

// GenericInstantiation constructs a generic-instantiation constraint.
func GenericInstantiation(fn hir.DefID, paramIndex uint32, ty types.TyID, src Source) Constraint {
	return Constraint{
		Kind:   ConstraintGenericInstantiation,
		Source: src,
		GenericInstantiation: GenericInstantiationConstraint{Function: fn, ParamIndex: paramIndex, Ty: ty},
	}
}
