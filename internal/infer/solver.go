package infer

import (
	"ember/internal/diag"
	"ember/internal/hir"
	"ember/internal/types"
)

// BoundChecker answers whether a definition's type implements a trait,
// including supertraits and associated-type requirements (§4.E). Supplying
// none to NewSolver skips phase 3 entirely — useful for analyses that only
// need equality solved (e.g. a quick re-check during error recovery).
type BoundChecker interface {
	CheckBound(def types.DefID, trait types.DefID) bool
}

// Solver runs the three-phase algorithm over one constraint set (the
// driver pools every function body of a file into one) (§4.D/§4.E): equality first, then generic instantiation
// bookkeeping, then trait-bound verification once every variable has its
// final substitution.
type Solver struct {
	ctx          *types.Context
	constraints  []Constraint
	boundChecker BoundChecker
	reporter     diag.Reporter

	instantiations map[instantiationKey]types.TyID
}

type instantiationKey struct {
	fn    hir.DefID
	param uint32
}

// NewSolver creates a Solver over ctx with the given constraint set.
// boundChecker may be nil to skip trait-bound checking.
func NewSolver(ctx *types.Context, constraints []Constraint, boundChecker BoundChecker, r diag.Reporter) *Solver {
	return &Solver{
		ctx:            ctx,
		constraints:    constraints,
		boundChecker:   boundChecker,
		reporter:       r,
		instantiations: make(map[instantiationKey]types.TyID),
	}
}

// Solve runs all three phases, reporting diagnostics for every failure
// encountered (accumulate, don't throw: a mismatch in one constraint never
// stops later constraints from being checked). It returns true if every
// constraint held.
func (s *Solver) Solve() bool {
	ok := s.processEquality()
	ok = s.instantiateGenerics() && ok
	ok = s.checkTraitBounds() && ok
	return ok
}

func (s *Solver) processEquality() bool {
	ok := true
	unifier := NewUnifier(s.ctx)
	for _, c := range s.constraints {
		if c.Kind != ConstraintEquality {
			continue
		}
		if err := unifier.Unify(c.Equality.Left, c.Equality.Right); err != nil {
			ok = false
			s.reportUnifyError(c, err)
		}
	}
	return ok
}

func (s *Solver) reportUnifyError(c Constraint, err error) {
	span := c.Source.Span
	if ue, is := err.(*UnificationError); is {
		switch ue.Kind {
		case UnificationOccursCheck:
			diag.ReportError(s.reporter, diag.TypeOccursCheck, span, "type contains itself: cannot construct an infinite type").Emit()
		default:
			diag.ReportError(s.reporter, diag.TypeMismatch, span, "type mismatch").Emit()
		}
		return
	}
	diag.ReportError(s.reporter, diag.TypeMismatch, span, err.Error()).Emit()
}

// instantiateGenerics records this function's one concrete witness per
// (function, param_index) key (§4.E phase 2). A second, different witness
// for a key already recorded is a conflicting-instantiation error, not a
// silent overwrite: the same generic parameter can't be instantiated to two
// different concrete types within one solve.
func (s *Solver) instantiateGenerics() bool {
	ok := true
	for _, c := range s.constraints {
		if c.Kind != ConstraintGenericInstantiation {
			continue
		}
		concrete := s.ctx.ApplySubst(c.GenericInstantiation.Ty)
		key := instantiationKey{fn: c.GenericInstantiation.Function, param: c.GenericInstantiation.ParamIndex}
		if existing, seen := s.instantiations[key]; seen && existing != concrete {
			ok = false
			diag.ReportError(s.reporter, diag.TypeConflictingInstantiation, c.Source.Span,
				"conflicting instantiation for this generic parameter").Emit()
			continue
		}
		s.instantiations[key] = concrete
	}
	return ok
}

func (s *Solver) checkTraitBounds() bool {
	if s.boundChecker == nil {
		return true
	}
	ok := true
	for _, c := range s.constraints {
		if c.Kind != ConstraintTraitBound {
			continue
		}
		concrete := s.ctx.ApplySubst(c.TraitBound.Ty)
		def, isNominal := s.extractDef(concrete)
		if !isNominal {
			continue
		}
		if !s.boundChecker.CheckBound(def, c.TraitBound.Trait) {
			ok = false
			diag.ReportError(s.reporter, diag.TypeUnsatisfiedBound, c.Source.Span, "type does not satisfy required trait bound").Emit()
		}
	}
	return ok
}

func (s *Solver) extractDef(id types.TyID) (types.DefID, bool) {
	t := s.ctx.Arena.Get(id)
	switch t.Kind {
	case types.KindStruct:
		return t.Struct.Def, true
	case types.KindEnum:
		return t.Enum.Def, true
	case types.KindNamed:
		return t.Named.Def, true
	default:
		return types.NoDefID, false
	}
}

// Instantiations returns the (function, param index) → concrete type table
// collected during phase 2, for the monomorphization boundary to consume.
func (s *Solver) Instantiations() map[instantiationKey]types.TyID { return s.instantiations }

// Instantiation is one generic-instantiation witness: calling Function
// bound ParamIndex's type parameter to the concrete type Ty.
type Instantiation struct {
	Function   hir.DefID
	ParamIndex uint32
	Ty         types.TyID
}

// AllInstantiations flattens the witness table into a plain slice, since
// instantiationKey's fields are unexported and so unreachable from outside
// this package — internal/driver needs this to group witnesses by function
// when building a generic function's instantiation arguments.
func (s *Solver) AllInstantiations() []Instantiation {
	out := make([]Instantiation, 0, len(s.instantiations))
	for k, ty := range s.instantiations {
		out = append(out, Instantiation{Function: k.fn, ParamIndex: k.param, Ty: ty})
	}
	return out
}

// FunctionInstantiation looks up the concrete type bound to one generic
// parameter of fn during this solve.
func (s *Solver) FunctionInstantiation(fn hir.DefID, paramIndex uint32) (types.TyID, bool) {
	ty, ok := s.instantiations[instantiationKey{fn: fn, param: paramIndex}]
	return ty, ok
}
