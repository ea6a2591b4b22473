package infer

import "github.com/gitrdm/traitsolve/internal/ir"

// Invert rewrites a goal into the one whose proof stands for disproving the
// original, flipping quantifiers along the way (SPEC_FULL.md §4.2: a
// negative subgoal `not { G }` is discharged by trying to refute G, which
// for a G built from nested quantifiers means proving the
// exists-becomes-forall, forall-becomes-exists dual). Only quantifiers and
// double negation are inverted losslessly; anything else is wrapped in Not
// and handed to the forest's negative-subgoal machinery as an opaque
// refutation target.
func Invert(g ir.Goal) ir.Goal {
	switch n := g.(type) {
	case ir.Not:
		return n.Subgoal
	case ir.Quantified:
		flipped := ir.ForAll
		if n.Kind == ir.ForAll {
			flipped = ir.Exists
		}
		return ir.Quantified{Kind: flipped, Kinds: n.Kinds, Subgoal: Invert(n.Subgoal)}
	default:
		return ir.Not{Subgoal: g}
	}
}

// Flounders reports whether attempting to prove Not{g} must flounder: g
// mentions a free inference variable, so no finite refutation search could
// ever be complete (there are infinitely many types that variable might
// stand for). The aggregator downgrades any answer depending on a
// floundered subgoal to Ambig(Unknown) (§4.10, §7).
func Flounders(g ir.Goal) bool {
	return HasFreeVariables(g)
}
