package lifetime

import (
	"ember/internal/diag"
)

// Solve checks every constraint collected in ctx, reporting a diagnostic
// for each one that fails (accumulate, don't throw). It returns true if
// every constraint held.
//
// This intentionally only catches trivially unsatisfiable constraints, as
// the original implementation this is grounded on does: a full solver
// would build an outlives graph, detect cycles, and compute a transitive
// closure before declaring victory. That remains an Open Question (§9) —
// this is not silently strengthened here.
func Solve(ctx *Context, r diag.Reporter) bool {
	ok := true
	for _, c := range ctx.Constraints() {
		switch c.Kind {
		case ConstraintOutlives:
			if c.Sub.Equal(c.Sup) && !c.Sub.IsStatic() {
				ok = false
				diag.ReportError(r, diag.LifetimeUnsatisfiable, c.Span,
					"lifetime cannot be required to outlive itself").Emit()
			}
		case ConstraintEquality:
			unifyEquality(ctx, c)
		}
	}
	return ok
}

// unifyEquality records a substitution in both directions when two
// distinct inference variables are declared equal, mirroring the
// original solver's "equality constraints are always satisfiable by
// unification" handling.
func unifyEquality(ctx *Context, c Constraint) {
	leftID, leftOK := varID(c.Sub)
	rightID, rightOK := varID(c.Sup)
	if !leftOK || !rightOK || leftID == rightID {
		return
	}
	ctx.Record(leftID, c.Sup)
	ctx.Record(rightID, c.Sub)
}

// varID returns l's Id if it is Named or Inferred (the only kinds a
// substitution can target).
func varID(l Lifetime) (Id, bool) {
	switch l.Kind {
	case KindNamed, KindInferred:
		return l.ID, true
	default:
		return NoID, false
	}
}
