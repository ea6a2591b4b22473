package forest

import (
	"github.com/gitrdm/traitsolve/internal/clauses"
	"github.com/gitrdm/traitsolve/internal/fold"
	"github.com/gitrdm/traitsolve/internal/infer"
	"github.com/gitrdm/traitsolve/internal/ir"
)

// yielder is invoked once per successful proof of a goal, with the table's
// bindings reflecting that particular proof and delayed holding the key of
// every coinductive cycle the proof relied on to close (SPEC_FULL.md §3's
// "delayed literals" on an answer). Returning false stops the search for
// further proofs of that goal (but not of goals above it in the conjunction
// -- the caller is responsible for propagating a false all the way up if it
// wants the whole search to stop, exactly as a Go channel consumer closes a
// range early).
type yielder func(delayed []string) bool

// appendDelayed extends d with key without mutating d's backing array, the
// same copy-on-extend discipline activeSet uses so sibling search branches
// never see a delayed literal recorded on another branch.
func appendDelayed(d []string, key string) []string {
	out := make([]string, len(d), len(d)+1)
	copy(out, d)
	return append(out, key)
}

func canonicalKindsRoot(kinds []ir.VariableKind) []ir.CanonicalVarKind {
	out := make([]ir.CanonicalVarKind, len(kinds))
	for i, k := range kinds {
		out[i] = ir.CanonicalVarKind{Kind: k.Kind, Universe: ir.RootUniverse}
	}
	return out
}

// proveGoal is the case analysis of SPEC_FULL.md §4.8 over the Goal sum
// type: domain goals bottom out in clause search, quantifiers open or
// skolemize a binder, Implication extends the environment, And sequences a
// conjunction via continuation passing, and Not hands off to negation.
func (f *search) proveGoal(table *infer.InferenceTable, env ir.Environment, g ir.Goal, active activeSet, delayed []string, depth int, yield yielder) bool {
	if depth > f.cfg.OverflowDepth {
		f.overflowed = true
		return true
	}
	switch n := g.(type) {
	case ir.DomainGoalNode:
		return f.proveDomainGoal(table, env, n.Goal, active, delayed, depth, yield)

	case ir.EqGoal:
		snap := table.Snapshot()
		u := infer.NewUnifier(table)
		var err error
		if n.A.Kind == ir.KindLifetime {
			err = u.UnifyLifetimes(n.A.Lifetime, n.B.Lifetime, 0)
		} else {
			err = u.UnifyTypes(n.A.Type, n.B.Type, 0)
		}
		if err != nil {
			table.Rollback(snap)
			return true
		}
		cont := yield(delayed)
		table.Rollback(snap)
		return cont

	case ir.Quantified:
		if n.Kind == ir.Exists {
			snap := table.Snapshot()
			opened, _ := infer.InstantiateExistentially(table, ir.RootUniverse,
				ir.Canonical[ir.Goal]{Binders: canonicalKindsRoot(n.Kinds), Value: n.Subgoal}, fold.FoldGoal)
			cont := f.proveGoal(table, env, opened, active, delayed, depth+1, yield)
			table.Rollback(snap)
			return cont
		}
		universe := table.NewUniverse()
		args := make(ir.Substitution, len(n.Kinds))
		for i, k := range n.Kinds {
			if k.Kind == ir.KindLifetime {
				args[i] = ir.LifetimeArg(ir.PlaceholderLt{Universe: universe, Idx: i})
			} else {
				args[i] = ir.TypeArg(ir.PlaceholderTy{Universe: universe, Idx: i})
			}
		}
		opened := fold.FoldGoal(fold.Substitutor{Args: args}, n.Subgoal, 0)
		return f.proveGoal(table, env, opened, active, delayed, depth+1, yield)

	case ir.Implication:
		return f.proveGoal(table, env.Extend(n.Conditions), n.Consequence, active, delayed, depth+1, yield)

	case ir.And:
		return f.proveAnd(table, env, n.Goals, active, delayed, depth, yield)

	case ir.Not:
		return f.proveNot(table, env, n.Subgoal, active, delayed, depth, yield)

	case ir.CannotProve:
		f.floundered = true
		return true

	default:
		return true
	}
}

func (f *search) proveAnd(table *infer.InferenceTable, env ir.Environment, goals []ir.Goal, active activeSet, delayed []string, depth int, yield yielder) bool {
	if len(goals) == 0 {
		return yield(delayed)
	}
	return f.proveGoal(table, env, goals[0], active, delayed, depth, func(d []string) bool {
		return f.proveAnd(table, env, goals[1:], active, d, depth+1, yield)
	})
}

// proveNot discharges a negative subgoal by inverting it into a refutation
// search: prove g, and if that search yields even one answer then not{g}
// fails; if g's search can never be known to be exhaustive (a free
// variable escapes into it), the whole thing flounders instead of silently
// guessing either way (SPEC_FULL.md §4.2, §7).
func (f *search) proveNot(table *infer.InferenceTable, env ir.Environment, g ir.Goal, active activeSet, delayed []string, depth int, yield yielder) bool {
	if infer.HasFreeVariables(table.ResolveGoal(g)) {
		f.floundered = true
		return true
	}
	snap := table.Snapshot()
	proved := false
	f.proveGoal(table, env, g, active, nil, depth+1, func([]string) bool {
		proved = true
		return false // one answer is enough to refute Not{g}
	})
	table.Rollback(snap)
	if proved {
		return true
	}
	return yield(delayed)
}

// proveDomainGoal collects every clause that could apply -- from the
// ambient environment, the program's custom clauses, and whatever the
// program's impl/assoc-ty database lowers into clauses for this particular
// domain goal shape -- and tries each one in turn, backtracking via
// Snapshot/Rollback between attempts (SPEC_FULL.md §4.8's candidate loop).
func (f *search) proveDomainGoal(table *infer.InferenceTable, env ir.Environment, dg ir.DomainGoal, active activeSet, delayed []string, depth int, yield yielder) bool {
	if holds, ok := dg.(ir.Holds); ok {
		key := keyForWhereClause(table, holds.WhereClause)
		coinductive := isCoinductiveWhereClause(f.program, holds.WhereClause)
		if i, found := active.indexOf(key); found {
			if coinductive && active.allCoinductiveFrom(i) {
				f.cfg.Sink.Cycle(key, "coinductive")
				return yield(appendDelayed(delayed, key))
			}
			f.cfg.Sink.Cycle(key, "inductive")
			return true
		}
		f.cfg.Sink.Push(key, holds.WhereClause.String())
		defer f.cfg.Sink.Pop(key)
		active = active.with(key, coinductive)
	}

	if isTrivialDomainGoal(dg) {
		if !yield(delayed) {
			return false
		}
	}

	candidates := make([]ir.ProgramClause, 0, len(env.Clauses))
	candidates = append(candidates, env.Clauses...)
	candidates = append(candidates, f.program.CustomClauses()...)
	candidates = append(candidates, clausesFor(f.program, dg)...)

	// Clause variables are instantiated in a universe above every universe
	// allocated so far, so they can be bound to any placeholder in scope.
	clauseUniverse := table.NewUniverse()
	for _, c := range candidates {
		snap := table.Snapshot()
		m, ok, err := clauses.TryMatch(table, clauseUniverse, dg, c)
		if err != nil || !ok {
			table.Rollback(snap)
			continue
		}
		cont := f.proveAnd(table, env, m.Conditions, active, delayed, depth+1, yield)
		table.Rollback(snap)
		if !cont {
			return false
		}
	}
	return true
}

// isTrivialDomainGoal reports the handful of domain goals this engine treats
// as always holding absent an explicit clause that says otherwise --
// coherence/orphan checking is explicitly out of scope (spec.md §1
// Non-goals), so IsLocal/IsUpstream/Compatible/LocalImplAllowed/FromEnv/
// WellFormed* never block a proof on their own.
func isTrivialDomainGoal(dg ir.DomainGoal) bool {
	switch dg.(type) {
	case ir.WellFormedTy, ir.WellFormedTraitRef, ir.FromEnv, ir.IsLocal, ir.IsUpstream, ir.Compatible, ir.LocalImplAllowed:
		return true
	default:
		return false
	}
}
