package fold

import "github.com/gitrdm/traitsolve/internal/ir"

// Shifter renames bound variables by Delta wherever they refer outside the
// binders the traversal has crossed so far -- the DeBruijn-index adjustment
// SPEC_FULL.md §4.7 describes as the reason every traversal "carries a
// binder depth so they can shift DeBruijn indices correctly when crossing a
// Binders". A positive Delta widens the value for placement under more
// binders; a negative Delta narrows it when a binder is removed.
type Shifter struct {
	Delta int
}

func (s Shifter) FoldType(t ir.Type, depth int) ir.Type {
	if bv, ok := t.(ir.BoundVarTy); ok && bv.DebruijnIndex >= depth {
		return ir.BoundVarTy{DebruijnIndex: bv.DebruijnIndex + s.Delta, Index: bv.Index}
	}
	return t
}

func (s Shifter) FoldLifetime(l ir.Lifetime, depth int) ir.Lifetime {
	if bv, ok := l.(ir.BoundVarLt); ok && bv.DebruijnIndex >= depth {
		return ir.BoundVarLt{DebruijnIndex: bv.DebruijnIndex + s.Delta, Index: bv.Index}
	}
	return l
}

func ShiftType(t ir.Type, delta int) ir.Type           { return FoldType(Shifter{Delta: delta}, t, 0) }
func ShiftLifetime(l ir.Lifetime, delta int) ir.Lifetime { return FoldLifetime(Shifter{Delta: delta}, l, 0) }
func ShiftGoal(g ir.Goal, delta int) ir.Goal           { return FoldGoal(Shifter{Delta: delta}, g, 0) }
func ShiftGenericArg(g ir.GenericArg, delta int) ir.GenericArg {
	return FoldGenericArg(Shifter{Delta: delta}, g, 0)
}
func ShiftSubstitution(s ir.Substitution, delta int) ir.Substitution {
	return FoldSubstitution(Shifter{Delta: delta}, s, 0)
}
