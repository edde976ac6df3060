package lifetime

import (
	"ember/internal/diag"
	"ember/internal/hir"
)

// Inference walks one HIR body to build a Context of lifetime variables
// and constraints (§3.5; grounded on rv-lifetime's LifetimeInference).
// Ember's HIR already distinguishes ExprRef from other expressions (the
// original implementation's comment "simplified - no Ref in HIR yet" no
// longer applies), so reference expressions get a real outlives
// constraint tying the referent's lifetime to the reference's own,
// instead of only a placeholder fresh variable.
type Inference struct {
	ctx           *Context
	body          *hir.Body
	exprLifetimes map[hir.ExprID]Id
	reporter      diag.Reporter
}

// InferFunction runs constraint generation and solving over body,
// returning the finished Inference (its Context plus the per-expression
// lifetime assignments). Diagnostics for any detected violation (an
// unsatisfiable constraint, a local reference escaping through return)
// are reported to r.
func InferFunction(body *hir.Body, r diag.Reporter) *Inference {
	inf := &Inference{
		ctx:           NewContext(),
		body:          body,
		exprLifetimes: make(map[hir.ExprID]Id),
		reporter:      r,
	}
	inf.generateConstraints()
	Solve(inf.ctx, r)
	return inf
}

// Context returns the lifetime context built during inference.
func (inf *Inference) Context() *Context { return inf.ctx }

func (inf *Inference) generateConstraints() {
	n := inf.body.Exprs.Len()
	for i := uint32(1); i <= n; i++ {
		id := hir.ExprID(i)
		inf.constrainExpr(id, inf.body.Expr(id))
	}
}

func (inf *Inference) constrainExpr(id hir.ExprID, e *hir.Expr) {
	switch e.Kind {
	case hir.ExprRef:
		innerID := inf.exprLifetime(e.Ref.Inner)
		refLifetime := inf.ctx.Fresh()
		inf.exprLifetimes[id] = mustID(refLifetime)
		inf.ctx.AddConstraint(Outlives(Inferred(innerID), refLifetime, e.Span))
	case hir.ExprBlock:
		if e.Block.Tail.IsValid() {
			inf.exprLifetimes[id] = inf.exprLifetime(e.Block.Tail)
		} else {
			inf.exprLifetimes[id] = mustID(inf.ctx.Fresh())
		}
	case hir.ExprReturn:
		if e.Return.IsValid() {
			inf.checkReturnedReference(e)
		}
		inf.exprLifetimes[id] = mustID(inf.ctx.Fresh())
	default:
		inf.exprLifetimes[id] = mustID(inf.ctx.Fresh())
	}
}

// checkReturnedReference reports returning a reference to a body-local
// binding: the referent is deallocated on return, so the reference would
// dangle (§3.5 supplemented diagnostic, grounded on
// LifetimeError::ReturnLocalReference).
func (inf *Inference) checkReturnedReference(e *hir.Expr) {
	ret := inf.body.Expr(e.Return)
	if ret.Kind != hir.ExprRef {
		return
	}
	referent := inf.body.Expr(ret.Ref.Inner)
	if referent.Kind != hir.ExprVariable {
		return
	}
	if !hir.IsLocal(referent.Variable.Resolution.DefID) {
		return
	}
	diag.ReportError(inf.reporter, diag.LifetimeReturnLocalReference, e.Span,
		"cannot return a reference to a local variable").Emit()
}

// exprLifetime returns id's lifetime variable, minting one lazily if the
// arena-order walk has not reached it yet (defensive: every expression is
// visited by generateConstraints, but a malformed arena should still
// degrade gracefully rather than panic).
func (inf *Inference) exprLifetime(id hir.ExprID) Id {
	if lid, ok := inf.exprLifetimes[id]; ok {
		return lid
	}
	l := inf.ctx.Fresh()
	lid := mustID(l)
	inf.exprLifetimes[id] = lid
	return lid
}

// ExprLifetime returns the lifetime id inferred for an expression, if
// any was recorded.
func (inf *Inference) ExprLifetime(id hir.ExprID) (Id, bool) {
	lid, ok := inf.exprLifetimes[id]
	return lid, ok
}

func mustID(l Lifetime) Id { return l.ID }
