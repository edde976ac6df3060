package types

import (
	"ember/internal/hir"
	"ember/internal/source"
)

// Context bundles a TyArena with the bookkeeping the constraint solver and
// its callers need for one translation unit: fresh-variable minting,
// per-expression/definition type results, and the Var→Ty substitution map
// unification writes into.
type Context struct {
	Arena *TyArena

	nextVar VarID
	subst   map[VarID]TyID

	exprTypes map[hir.ExprID]TyID
	defTypes  map[hir.DefID]TyID
	varTypes  map[source.Symbol]TyID
}

// NewContext creates an empty Context over a fresh TyArena.
func NewContext() *Context {
	return &Context{
		Arena:     NewTyArena(),
		subst:     make(map[VarID]TyID),
		exprTypes: make(map[hir.ExprID]TyID),
		defTypes:  make(map[hir.DefID]TyID),
		varTypes:  make(map[source.Symbol]TyID),
	}
}

// FreshVar mints a new, still-unbound inference variable id.
func (c *Context) FreshVar() VarID {
	id := c.nextVar
	c.nextVar++
	return id
}

// FreshTyVar allocates a fresh KindVar Ty and returns its id.
func (c *Context) FreshTyVar() TyID {
	return c.Arena.Alloc(Ty{Kind: KindVar, Var: c.FreshVar()})
}

// Bind records that the constraint solver resolved v to ty.
func (c *Context) Bind(v VarID, ty TyID) {
	c.subst[v] = ty
}

// ApplySubst follows the substitution chain for a type, returning the most
// resolved TyID reachable from id. Non-Var types return unchanged; an
// unbound Var returns unchanged too (it stays a Var until the solver binds
// it, if ever).
func (c *Context) ApplySubst(id TyID) TyID {
	t := c.Arena.Get(id)
	if t.Kind != KindVar {
		return id
	}
	if bound, ok := c.subst[t.Var]; ok {
		return c.ApplySubst(bound)
	}
	return id
}

// SetExprType records the resolved type of a HIR expression.
func (c *Context) SetExprType(expr hir.ExprID, ty TyID) { c.exprTypes[expr] = ty }

// ExprType returns the resolved type of a HIR expression, if recorded.
func (c *Context) ExprType(expr hir.ExprID) (TyID, bool) {
	ty, ok := c.exprTypes[expr]
	return ty, ok
}

// SetDefType records the resolved type of a definition (a function's
// signature type, a const's value type, …).
func (c *Context) SetDefType(def hir.DefID, ty TyID) { c.defTypes[def] = ty }

// DefType returns the resolved type of a definition, if recorded.
func (c *Context) DefType(def hir.DefID) (TyID, bool) {
	ty, ok := c.defTypes[def]
	return ty, ok
}

// SetVarType records the type of a local variable or parameter by name,
// for lookup while type-checking the rest of the body that binds it.
func (c *Context) SetVarType(name source.Symbol, ty TyID) { c.varTypes[name] = ty }

// VarType returns the recorded type for a bound local, if any.
func (c *Context) VarType(name source.Symbol) (TyID, bool) {
	ty, ok := c.varTypes[name]
	return ty, ok
}
