package infer

import (
	"github.com/gitrdm/traitsolve/internal/fold"
	"github.com/gitrdm/traitsolve/internal/ir"
)

// Canonicalizer replaces every free inference variable reachable from a
// value with a fresh bound-variable slot, numbered in order of first
// appearance (SPEC_FULL.md §4.6, §3's Canonical<T>). It first follows each
// variable's current binding so canonicalizing always reflects the table's
// latest knowledge.
type Canonicalizer struct {
	table  *InferenceTable
	varMap map[ir.InferenceVar]int
	kinds  []ir.CanonicalVarKind
}

func newCanonicalizer(t *InferenceTable) *Canonicalizer {
	return &Canonicalizer{table: t, varMap: map[ir.InferenceVar]int{}}
}

func (c *Canonicalizer) indexFor(v ir.InferenceVar) int {
	if idx, ok := c.varMap[v]; ok {
		return idx
	}
	idx := len(c.kinds)
	c.varMap[v] = idx
	c.kinds = append(c.kinds, ir.CanonicalVarKind{Kind: v.Kind, Universe: c.table.Universe(v)})
	return idx
}

func (c *Canonicalizer) FoldType(t ir.Type, depth int) ir.Type {
	iv, ok := t.(ir.InferenceVarTy)
	if !ok {
		return t
	}
	probed := c.table.ProbeType(iv)
	rv, stillVar := probed.(ir.InferenceVarTy)
	if !stillVar {
		return fold.FoldType(c, probed, 0)
	}
	return ir.BoundVarTy{DebruijnIndex: depth, Index: c.indexFor(rv.Var)}
}

func (c *Canonicalizer) FoldLifetime(l ir.Lifetime, depth int) ir.Lifetime {
	iv, ok := l.(ir.InferenceVarLt)
	if !ok {
		return l
	}
	probed := c.table.ProbeLifetime(iv)
	rv, stillVar := probed.(ir.InferenceVarLt)
	if !stillVar {
		return fold.FoldLifetime(c, probed, 0)
	}
	return ir.BoundVarLt{DebruijnIndex: depth, Index: c.indexFor(rv.Var)}
}

func CanonicalizeType(t *InferenceTable, ty ir.Type) ir.Canonical[ir.Type] {
	c := newCanonicalizer(t)
	folded := fold.FoldType(c, ty, 0)
	return ir.Canonical[ir.Type]{Binders: c.kinds, Value: folded}
}

func CanonicalizeGoal(t *InferenceTable, g ir.Goal) ir.Canonical[ir.Goal] {
	c := newCanonicalizer(t)
	folded := fold.FoldGoal(c, g, 0)
	return ir.Canonical[ir.Goal]{Binders: c.kinds, Value: folded}
}

func CanonicalizeSubstitution(t *InferenceTable, s ir.Substitution) ir.Canonical[ir.Substitution] {
	c := newCanonicalizer(t)
	folded := fold.FoldSubstitution(c, s, 0)
	return ir.Canonical[ir.Substitution]{Binders: c.kinds, Value: folded}
}

func CanonicalizeConstrainedSubst(t *InferenceTable, cs ir.ConstrainedSubst) ir.Canonical[ir.ConstrainedSubst] {
	c := newCanonicalizer(t)
	subst := fold.FoldSubstitution(c, cs.Subst, 0)
	constraints := make([]ir.LifetimeOutlivesConstraint, len(cs.Constraints))
	for i, cc := range cs.Constraints {
		constraints[i] = ir.LifetimeOutlivesConstraint{
			Long:  fold.FoldLifetime(c, cc.Long, 0),
			Short: fold.FoldLifetime(c, cc.Short, 0),
		}
	}
	return ir.Canonical[ir.ConstrainedSubst]{
		Binders: c.kinds,
		Value:   ir.ConstrainedSubst{Subst: subst, Constraints: constraints, DelayedLiterals: cs.DelayedLiterals},
	}
}

// InstantiateExistentially opens a Canonical[T]'s binders with fresh
// inference variables of t, one per slot, in the given universe -- the
// inverse of canonicalization, used whenever a stored answer or a fresh
// subgoal must be brought back into a live InferenceTable (§4.6
// "instantiate-binders-existentially").
func InstantiateExistentially[T any](t *InferenceTable, universe int, c ir.Canonical[T], foldFn func(fold.Folder, T, int) T) (T, ir.Substitution) {
	args := make(ir.Substitution, len(c.Binders))
	for i, k := range c.Binders {
		switch k.Kind {
		case ir.KindLifetime:
			args[i] = ir.LifetimeArg(ir.InferenceVarLt{Var: t.NewLifetimeVariable(universe)})
		default:
			args[i] = ir.TypeArg(ir.InferenceVarTy{Var: t.NewVariable(universe)})
		}
	}
	opener := fold.Substitutor{Args: args}
	// Substitutor expects depth 0 to correspond to the binder immediately
	// enclosing the value, which is exactly the Canonical<T> wrapper here.
	return foldFn(opener, c.Value, 0), args
}
