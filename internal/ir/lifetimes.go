package ir

import "fmt"

// Lifetime is the second leaf kind of the data model (SPEC_FULL.md §3): no
// application form, just bound-variable, inference-variable, or
// placeholder.
type Lifetime interface {
	isLifetime()
	String() string
}

// BoundVarLt is a DeBruijn-indexed reference to a lifetime binder slot.
type BoundVarLt struct {
	DebruijnIndex int
	Index         int
}

func (BoundVarLt) isLifetime() {}
func (l BoundVarLt) String() string { return fmt.Sprintf("'^%d.%d", l.DebruijnIndex, l.Index) }

// InferenceVarLt names a lifetime inference variable tracked by an
// InferenceTable.
type InferenceVarLt struct {
	Var InferenceVar
}

func (InferenceVarLt) isLifetime() {}
func (l InferenceVarLt) String() string { return "'" + l.Var.String() }

// PlaceholderLt is a skolemized universal lifetime.
type PlaceholderLt struct {
	Universe int
	Idx      int
}

func (PlaceholderLt) isLifetime() {}
func (l PlaceholderLt) String() string { return fmt.Sprintf("'!%d_%d", l.Universe, l.Idx) }

// LifetimesEqual is structural equality, mirroring TypesEqual.
func LifetimesEqual(a, b Lifetime) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case BoundVarLt:
		y, ok := b.(BoundVarLt)
		return ok && x == y
	case InferenceVarLt:
		y, ok := b.(InferenceVarLt)
		return ok && x.Var == y.Var
	case PlaceholderLt:
		y, ok := b.(PlaceholderLt)
		return ok && x == y
	default:
		return false
	}
}

// LifetimeOutlivesConstraint is the region-checker surface mentioned in
// SPEC_FULL.md §6: a constraint the solver produces but never discharges.
type LifetimeOutlivesConstraint struct {
	Long  Lifetime // the lifetime that must outlive
	Short Lifetime // the lifetime that must be outlived
}

func (c LifetimeOutlivesConstraint) String() string {
	return fmt.Sprintf("%s: %s", c.Long.String(), c.Short.String())
}
