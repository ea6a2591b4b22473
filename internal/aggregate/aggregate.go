// Package aggregate implements the answer aggregator of SPEC_FULL.md §4.10:
// it turns a forest.Table's collected answers into one of Refuted, Unique,
// or one of the three grades of ambiguity the rest of this module reports
// through pkg/chalk's Solution type.
package aggregate

import (
	"github.com/gitrdm/traitsolve/internal/forest"
	"github.com/gitrdm/traitsolve/internal/ir"
)

type Outcome int

const (
	Refuted Outcome = iota
	Unique
	AmbigDefinite
	AmbigSuggested
	AmbigUnknown
)

func (o Outcome) String() string {
	switch o {
	case Refuted:
		return "refuted"
	case Unique:
		return "unique"
	case AmbigDefinite:
		return "ambiguous(definite)"
	case AmbigSuggested:
		return "ambiguous(suggested)"
	default:
		return "ambiguous(unknown)"
	}
}

// Result is the aggregator's verdict: an Outcome plus, for every outcome
// but Refuted and AmbigUnknown, a guidance substitution the caller can
// present to a user or feed back into further elaboration.
type Result struct {
	Outcome Outcome
	Answer  ir.Canonical[ir.ConstrainedSubst]
}

// Aggregate implements the decision tree of SPEC_FULL.md §4.10: no answers
// is Refuted; floundering anywhere in the search downgrades straight to
// AmbigUnknown regardless of what else was found (a floundered subgoal
// means the search wasn't exhaustive, so even a single answer found so far
// can't be trusted as the only one); one answer (and no truncation) is
// Unique; multiple answers that all agree are still Unique; otherwise the
// answers are generalized into shared guidance where possible
// (AmbigDefinite) or the first answer is offered as a hint
// (AmbigSuggested).
func Aggregate(table *forest.Table) Result {
	if table.Floundered {
		return Result{Outcome: AmbigUnknown}
	}
	if len(table.Answers) == 0 {
		return Result{Outcome: Refuted}
	}
	if len(table.Answers) == 1 && !table.Truncated {
		return Result{Outcome: Unique, Answer: table.Answers[0]}
	}

	allEqual := true
	for _, a := range table.Answers[1:] {
		if !constrainedSubstEqual(table.Answers[0].Value, a.Value) {
			allEqual = false
			break
		}
	}
	if allEqual && !table.Truncated {
		return Result{Outcome: Unique, Answer: table.Answers[0]}
	}

	if guidance, ok := generalize(table.Answers); ok {
		return Result{Outcome: AmbigDefinite, Answer: guidance}
	}
	return Result{Outcome: AmbigSuggested, Answer: table.Answers[0]}
}

func constrainedSubstEqual(a, b ir.ConstrainedSubst) bool {
	return ir.SubstitutionsEqual(a.Subst, b.Subst) && len(a.Constraints) == len(b.Constraints)
}

// generalize anti-unifies every answer's substitution position by position:
// a slot every answer agrees on is kept concrete, a slot any two answers
// disagree on is generalized by generalizer.arg, which recurses into a
// disagreeing AppTy's own arguments rather than bottoming the whole slot out
// to a fresh variable immediately -- SPEC_FULL.md §8 scenario 5's `Foo<Bar>`
// vs `Foo<Baz>` generalizing to `Foo<?0>`, not the coarser `?0`.
//
// It fails (ok=false) in two cases. Answers of differing substitution arity
// cannot arise from a real Solve -- every answer in a table comes from
// instantiating the same canonical goal -- but the check is kept as a
// defensive guard. Answers that agree on every slot leave nothing to
// generalize; Aggregate hands such answers here when the table is Truncated,
// so a truncated table whose answers all agree yields AmbigSuggested.
func generalize(answers []ir.Canonical[ir.ConstrainedSubst]) (ir.Canonical[ir.ConstrainedSubst], bool) {
	if len(answers) == 0 {
		return ir.Canonical[ir.ConstrainedSubst]{}, false
	}
	n := len(answers[0].Value.Subst)
	for _, a := range answers {
		if len(a.Value.Subst) != n {
			return ir.Canonical[ir.ConstrainedSubst]{}, false
		}
	}

	g := &generalizer{}
	result := make(ir.Substitution, n)
	for i := 0; i < n; i++ {
		first := answers[0].Value.Subst[i]
		agree := true
		for _, a := range answers[1:] {
			if !ir.GenericArgsEqual(first, a.Value.Subst[i]) {
				agree = false
				break
			}
		}
		if agree {
			result[i] = first
			continue
		}
		slot := make([]ir.GenericArg, len(answers))
		for j, a := range answers {
			slot[j] = a.Value.Subst[i]
		}
		result[i] = g.arg(slot)
	}
	if len(g.kinds) == 0 {
		return ir.Canonical[ir.ConstrainedSubst]{}, false
	}
	return ir.Canonical[ir.ConstrainedSubst]{
		Binders: g.kinds,
		Value:   ir.ConstrainedSubst{Subst: result},
	}, true
}

// generalizer accumulates the fresh existential binders minted while
// anti-unifying a set of disagreeing slots, so nested recursion into a
// shared AppTy shape can keep numbering them 0..k-1 across the whole answer.
type generalizer struct {
	kinds []ir.CanonicalVarKind
}

func (g *generalizer) fresh(kind ir.Kind) ir.GenericArg {
	idx := len(g.kinds)
	g.kinds = append(g.kinds, ir.CanonicalVarKind{Kind: kind, Universe: ir.RootUniverse})
	if kind == ir.KindLifetime {
		return ir.LifetimeArg(ir.BoundVarLt{DebruijnIndex: 0, Index: idx})
	}
	return ir.TypeArg(ir.BoundVarTy{DebruijnIndex: 0, Index: idx})
}

// arg anti-unifies one substitution slot across every answer: if every value
// is an AppTy of the same Adt and arity, it recurses argument by argument so
// only the parts that actually disagree become fresh variables; anything
// else (differing Adts, a non-AppTy type, a lifetime or const slot) collapses
// the whole value to one fresh variable, since there is no shared shape left
// to preserve.
func (g *generalizer) arg(values []ir.GenericArg) ir.GenericArg {
	kind := values[0].Kind
	if kind != ir.KindType {
		return g.fresh(kind)
	}
	first, ok := values[0].Type.(ir.AppTy)
	if !ok {
		return g.fresh(ir.KindType)
	}
	for _, v := range values[1:] {
		other, ok := v.Type.(ir.AppTy)
		if !ok || other.Name != first.Name || len(other.Args) != len(first.Args) {
			return g.fresh(ir.KindType)
		}
	}
	args := make(ir.Substitution, len(first.Args))
	for i := range first.Args {
		slot := make([]ir.GenericArg, len(values))
		agree := true
		for j, v := range values {
			slot[j] = v.Type.(ir.AppTy).Args[i]
			if j > 0 && !ir.GenericArgsEqual(slot[j], slot[0]) {
				agree = false
			}
		}
		if agree {
			args[i] = slot[0]
			continue
		}
		args[i] = g.arg(slot)
	}
	return ir.TypeArg(ir.AppTy{Name: first.Name, Args: args})
}
