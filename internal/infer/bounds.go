package infer

import (
	"ember/internal/diag"
	"ember/internal/hir"
	"ember/internal/source"
	"ember/internal/types"
)

// HIRBoundChecker implements Solver's BoundChecker by indexing a Module's
// trait definitions and impl blocks, grounded on
// original_source/crates/analysis/rv-ty/src/bounds.rs's BoundChecker: impl
// blocks are grouped by the TypeDefId they implement for, and checking a
// bound is a lookup into that group for a matching trait reference.
type HIRBoundChecker struct {
	mod   *hir.Module
	impls map[types.DefID][]hir.Definition // self-type def -> its impl blocks
}

// NewHIRBoundChecker scans mod's definitions once, grouping every
// ImplBlock by the DefID of the type it implements for.
func NewHIRBoundChecker(mod *hir.Module) *HIRBoundChecker {
	c := &HIRBoundChecker{mod: mod, impls: make(map[types.DefID][]hir.Definition)}
	for _, def := range mod.Defs() {
		if def.Kind != hir.DefImplBlock || !def.ImplBlock.SelfTypeDef.IsValid() {
			continue
		}
		key := types.DefID(def.ImplBlock.SelfTypeDef)
		c.impls[key] = append(c.impls[key], def)
	}
	return c
}

// CheckBound reports whether def has an impl block implementing trait
// (§4.E phase 3).
func (c *HIRBoundChecker) CheckBound(def types.DefID, trait types.DefID) bool {
	for _, impl := range c.impls[def] {
		if impl.ImplBlock.TraitRefDef.IsValid() && types.DefID(impl.ImplBlock.TraitRefDef) == trait {
			return true
		}
	}
	return false
}

// CheckSupertraits verifies that every impl block implementing a trait
// also has an impl of each of that trait's supertraits for the same
// self-type (grounded on bounds.rs's check_supertrait_constraints),
// reporting diag.TypeMissingSupertrait for each gap.
func (c *HIRBoundChecker) CheckSupertraits(r diag.Reporter) bool {
	ok := true
	for _, def := range c.mod.Defs() {
		if def.Kind != hir.DefImplBlock || !def.ImplBlock.TraitRefDef.IsValid() || !def.ImplBlock.SelfTypeDef.IsValid() {
			continue
		}
		traitDef := c.mod.Def(def.ImplBlock.TraitRefDef)
		if traitDef == nil || traitDef.Kind != hir.DefTraitDef {
			continue
		}
		selfDef := types.DefID(def.ImplBlock.SelfTypeDef)
		for _, super := range traitDef.TraitDef.SupertraitDefs {
			if !super.IsValid() {
				continue
			}
			if !c.CheckBound(selfDef, types.DefID(super)) {
				ok = false
				diag.ReportError(r, diag.TypeMissingSupertrait, def.Span, "impl satisfies trait but not its supertrait").Emit()
			}
		}
	}
	return ok
}

// CheckAssociatedTypes verifies every impl block implementing a trait
// defines all of that trait's associated types (grounded on bounds.rs's
// check_associated_types), reporting diag.TypeMissingAssocType for each
// gap.
func (c *HIRBoundChecker) CheckAssociatedTypes(interner *source.Interner, r diag.Reporter) bool {
	ok := true
	for _, def := range c.mod.Defs() {
		if def.Kind != hir.DefImplBlock || !def.ImplBlock.TraitRefDef.IsValid() {
			continue
		}
		traitDef := c.mod.Def(def.ImplBlock.TraitRefDef)
		if traitDef == nil || traitDef.Kind != hir.DefTraitDef {
			continue
		}
		implemented := make(map[source.Symbol]bool, len(def.ImplBlock.AssociatedTypeImpls))
		for _, a := range def.ImplBlock.AssociatedTypeImpls {
			implemented[a.Name] = true
		}
		for _, assoc := range traitDef.TraitDef.AssociatedTypes {
			if implemented[assoc] {
				continue
			}
			ok = false
			name, _ := interner.Lookup(assoc)
			diag.ReportError(r, diag.TypeMissingAssocType, def.Span, "impl is missing associated type '"+name+"'").Emit()
		}
	}
	return ok
}
