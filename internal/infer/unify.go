package infer

import (
	"fmt"

	"github.com/gitrdm/traitsolve/internal/ir"
	"github.com/gitrdm/traitsolve/internal/zip"
)

// Unifier grows an InferenceTable by walking two terms with zip.ZipTypes and
// resolving every leaf pair it is handed (SPEC_FULL.md §4.5: "unification ...
// delegates type/lifetime leaves to the zipper's callback"). Lifetime
// equalities are never solved outright; they are recorded as a pair of
// mutual outlives obligations for the caller to surface (§6).
type Unifier struct {
	Table       *InferenceTable
	Constraints []ir.LifetimeOutlivesConstraint
}

func NewUnifier(t *InferenceTable) *Unifier {
	return &Unifier{Table: t}
}

// UnifyTypes attempts to make a and b denote the same type, binding
// variables in u.Table as needed. A non-nil error means the goal these
// types came from is refuted by this unification, not an internal failure.
func (u *Unifier) UnifyTypes(a, b ir.Type, depth int) error {
	return zip.ZipTypes(u, a, b, depth)
}

func (u *Unifier) UnifyLifetimes(a, b ir.Lifetime, depth int) error {
	return zip.ZipLifetimes(u, a, b, depth)
}

func (u *Unifier) UnifySubstitutions(a, b ir.Substitution, depth int) error {
	for i := range a {
		if err := zip.ZipGenericArgs(u, a[i], b[i], depth); err != nil {
			return err
		}
	}
	return nil
}

func (u *Unifier) MatchTypes(a, b ir.Type, depth int) error {
	a = u.Table.probeTypeLocked0(a)
	b = u.Table.probeTypeLocked0(b)

	if bvA, ok := a.(ir.BoundVarTy); ok {
		if bvB, ok2 := b.(ir.BoundVarTy); ok2 && bvA == bvB {
			return nil
		}
		return fmt.Errorf("infer: cannot unify bound variable %s with %s", a, b)
	}
	if _, ok := b.(ir.BoundVarTy); ok {
		return fmt.Errorf("infer: cannot unify %s with bound variable %s", a, b)
	}

	ivA, aIsVar := a.(ir.InferenceVarTy)
	ivB, bIsVar := b.(ir.InferenceVarTy)
	switch {
	case aIsVar && bIsVar:
		return u.Table.unifyTypeVars(ivA.Var, ivB.Var)
	case aIsVar:
		return u.Table.bindType(ivA.Var, b)
	case bIsVar:
		return u.Table.bindType(ivB.Var, a)
	}

	if phA, ok := a.(ir.PlaceholderTy); ok {
		if phB, ok2 := b.(ir.PlaceholderTy); ok2 && phA == phB {
			return nil
		}
		return fmt.Errorf("infer: placeholder %s cannot unify with %s", a, b)
	}
	if _, ok := b.(ir.PlaceholderTy); ok {
		return fmt.Errorf("infer: %s cannot unify with placeholder %s", a, b)
	}

	// Both sides are now fully probed, non-variable, non-placeholder,
	// non-bound-var: re-zip in case probing turned a former variable into a
	// compound type that can structurally match after all.
	return zip.ZipTypes(u, a, b, depth)
}

func (u *Unifier) MatchLifetimes(a, b ir.Lifetime, depth int) error {
	a = u.Table.probeLifetimeLocked0(a)
	b = u.Table.probeLifetimeLocked0(b)

	if bvA, ok := a.(ir.BoundVarLt); ok {
		if bvB, ok2 := b.(ir.BoundVarLt); ok2 && bvA == bvB {
			return nil
		}
		return fmt.Errorf("infer: cannot unify bound lifetime %s with %s", a, b)
	}
	if _, ok := b.(ir.BoundVarLt); ok {
		return fmt.Errorf("infer: cannot unify %s with bound lifetime %s", a, b)
	}

	ivA, aIsVar := a.(ir.InferenceVarLt)
	ivB, bIsVar := b.(ir.InferenceVarLt)
	switch {
	case aIsVar && bIsVar:
		return u.Table.unifyLifetimeVars(ivA.Var, ivB.Var)
	case aIsVar:
		return u.Table.bindLifetime(ivA.Var, b)
	case bIsVar:
		return u.Table.bindLifetime(ivB.Var, a)
	}

	if ir.LifetimesEqual(a, b) {
		return nil
	}
	// Neither is a variable and they are not structurally identical: record
	// the equality as two outlives obligations rather than failing, per
	// SPEC_FULL.md §6 ("region constraints are collected, never solved").
	u.Constraints = append(u.Constraints,
		ir.LifetimeOutlivesConstraint{Long: a, Short: b},
		ir.LifetimeOutlivesConstraint{Long: b, Short: a},
	)
	return nil
}

// probeTypeLocked0 / probeLifetimeLocked0 are unexported wrappers used only
// from within this package's own Unifier, kept separate from the locked
// public Probe* methods so MatchTypes/MatchLifetimes (already running
// outside the table's lock, since zip.ZipTypes has no lock of its own) read
// consistent snapshots without re-entering the mutex per recursive call.
func (t *InferenceTable) probeTypeLocked0(ty ir.Type) ir.Type     { return t.ProbeType(ty) }
func (t *InferenceTable) probeLifetimeLocked0(l ir.Lifetime) ir.Lifetime { return t.ProbeLifetime(l) }
