// Package clauses implements the program-clause matcher of SPEC_FULL.md §3
// and §4.8: given a domain goal and a candidate program clause, decide
// whether the clause's consequence can be unified with the goal and, if so,
// produce the clause's conditions with the matching substitution applied.
package clauses

import (
	"github.com/gitrdm/traitsolve/internal/fold"
	"github.com/gitrdm/traitsolve/internal/infer"
	"github.com/gitrdm/traitsolve/internal/ir"
	"github.com/gitrdm/traitsolve/internal/zip"
)

// Match is the outcome of successfully unifying a clause's consequence with
// a goal: the clause's conditions, now expressed in terms of the caller's
// inference variables, any lifetime constraints the unification produced,
// and the clause's priority for the recursive solver's candidate-combining
// step.
type Match struct {
	Conditions  []ir.Goal
	Constraints []ir.LifetimeOutlivesConstraint
	Priority    ir.Priority
}

// TryMatch attempts to unify goal against clause's consequence, instantiating
// clause's own binders existentially in universe first. It returns ok=false
// (with no error) when the clause's consequence cannot possibly apply --
// the fast-reject path -- and a non-nil error only for genuine unification
// failure after the fast-reject passed but the structures didn't actually
// agree (e.g. differing generic arguments).
func TryMatch(table *infer.InferenceTable, universe int, goal ir.DomainGoal, clause ir.ProgramClause) (Match, bool, error) {
	if !zip.CouldMatchDomainGoal(goal, clause.Value.Consequence) {
		return Match{}, false, nil
	}

	opened, args := infer.InstantiateExistentially(table, universe, ir.Canonical[ir.ProgramClauseImplication]{
		Binders: canonicalKinds(clause.Kinds),
		Value:   clause.Value,
	}, func(f fold.Folder, v ir.ProgramClauseImplication, depth int) ir.ProgramClauseImplication {
		return ir.ProgramClauseImplication{
			Consequence: fold.FoldDomainGoal(f, v.Consequence, depth),
			Conditions:  foldGoals(f, v.Conditions, depth),
			Priority:    v.Priority,
		}
	})
	_ = args

	u := infer.NewUnifier(table)
	if err := unifyDomainGoals(u, goal, opened.Consequence, 0); err != nil {
		return Match{}, true, err
	}

	return Match{
		Conditions:  opened.Conditions,
		Constraints: u.Constraints,
		Priority:    opened.Priority,
	}, true, nil
}

func foldGoals(f fold.Folder, gs []ir.Goal, depth int) []ir.Goal {
	out := make([]ir.Goal, len(gs))
	for i, g := range gs {
		out[i] = fold.FoldGoal(f, g, depth)
	}
	return out
}

// canonicalKinds treats a Binders[T]'s plain VariableKind slots as root-
// universe canonical slots; program clauses are always read out of the
// program in the root universe before any placeholder instantiation.
func canonicalKinds(kinds []ir.VariableKind) []ir.CanonicalVarKind {
	out := make([]ir.CanonicalVarKind, len(kinds))
	for i, k := range kinds {
		out[i] = ir.CanonicalVarKind{Kind: k.Kind, Universe: ir.RootUniverse}
	}
	return out
}

func unifyDomainGoals(u *infer.Unifier, a, b ir.DomainGoal, depth int) error {
	switch x := a.(type) {
	case ir.Holds:
		y := b.(ir.Holds)
		return unifyWhereClauses(u, x.WhereClause, y.WhereClause, depth)
	case ir.WellFormedTy:
		y := b.(ir.WellFormedTy)
		return u.UnifyTypes(x.Ty, y.Ty, depth)
	case ir.WellFormedTraitRef:
		y := b.(ir.WellFormedTraitRef)
		return u.UnifySubstitutions(x.TraitRef.Args, y.TraitRef.Args, depth)
	case ir.FromEnv:
		y := b.(ir.FromEnv)
		return unifyWhereClauses(u, x.WhereClause, y.WhereClause, depth)
	case ir.Normalize:
		y := b.(ir.Normalize)
		if err := u.UnifyTypes(x.Alias, y.Alias, depth); err != nil {
			return err
		}
		return u.UnifyTypes(x.Ty, y.Ty, depth)
	case ir.IsLocal:
		y := b.(ir.IsLocal)
		return u.UnifyTypes(x.Ty, y.Ty, depth)
	case ir.IsUpstream:
		y := b.(ir.IsUpstream)
		return u.UnifyTypes(x.Ty, y.Ty, depth)
	case ir.LocalImplAllowed:
		y := b.(ir.LocalImplAllowed)
		return u.UnifySubstitutions(x.TraitRef.Args, y.TraitRef.Args, depth)
	default:
		return nil
	}
}

func unifyWhereClauses(u *infer.Unifier, a, b ir.WhereClause, depth int) error {
	switch x := a.(type) {
	case ir.Implemented:
		y := b.(ir.Implemented)
		return u.UnifySubstitutions(x.TraitRef.Args, y.TraitRef.Args, depth)
	case ir.AliasEqWC:
		y := b.(ir.AliasEqWC)
		if err := u.UnifyTypes(x.Alias, y.Alias, depth); err != nil {
			return err
		}
		return u.UnifyTypes(x.Ty, y.Ty, depth)
	case ir.LifetimeOutlivesWC:
		y := b.(ir.LifetimeOutlivesWC)
		if err := u.UnifyLifetimes(x.A, y.A, depth); err != nil {
			return err
		}
		return u.UnifyLifetimes(x.B, y.B, depth)
	case ir.TypeOutlivesWC:
		y := b.(ir.TypeOutlivesWC)
		if err := u.UnifyTypes(x.Ty, y.Ty, depth); err != nil {
			return err
		}
		return u.UnifyLifetimes(x.Lifetime, y.Lifetime, depth)
	default:
		return nil
	}
}

// MatchAll runs TryMatch against every clause in env plus extra, skipping
// fast-rejects and returning only clauses that actually matched.
func MatchAll(table *infer.InferenceTable, universe int, goal ir.DomainGoal, env ir.Environment, extra []ir.ProgramClause) ([]Match, error) {
	var matches []Match
	all := make([]ir.ProgramClause, 0, len(env.Clauses)+len(extra))
	all = append(all, env.Clauses...)
	all = append(all, extra...)
	for _, c := range all {
		m, ok, err := TryMatch(table, universe, goal, c)
		if err != nil {
			continue // refuted candidate, not a hard error: try the next clause
		}
		if ok {
			matches = append(matches, m)
		}
	}
	return matches, nil
}
