package chalk

import (
	"github.com/gitrdm/traitsolve/internal/aggregate"
	"github.com/gitrdm/traitsolve/internal/config"
	"github.com/gitrdm/traitsolve/internal/forest"
	"github.com/gitrdm/traitsolve/internal/ir"
)

// Solution is what a successful-or-ambiguous solve produces. A refuted goal
// is reported as (nil, nil) from Solve -- SPEC_FULL.md §7's "a goal proved
// false is not an error" -- so callers must check for a nil Solution before
// touching it.
type Solution struct {
	Outcome      aggregate.Outcome
	Substitution ir.Canonical[ir.ConstrainedSubst]
}

func (s *Solution) IsUnique() bool { return s != nil && s.Outcome == aggregate.Unique }
func (s *Solution) IsAmbiguous() bool {
	return s != nil && (s.Outcome == aggregate.AmbigDefinite || s.Outcome == aggregate.AmbigSuggested || s.Outcome == aggregate.AmbigUnknown)
}

// Solve proves goal against p, returning the engine's single best answer.
// A refuted goal yields (nil, nil); a hard internal error (as opposed to an
// ordinary failed or ambiguous proof) yields (nil, err).
func Solve(cfg *config.Config, p Program, goal ir.UCanonicalGoal) (*Solution, error) {
	return SolveLimited(cfg, p, goal, nil)
}

// SolveLimited is Solve with an externally driven cutoff: shouldContinue is
// polled after each answer found and a false return stops the search early,
// the hook SPEC_FULL.md §6 names for a caller enforcing its own wall-clock
// or answer-count budget.
func SolveLimited(cfg *config.Config, p Program, goal ir.UCanonicalGoal, shouldContinue func() bool) (*Solution, error) {
	if cfg == nil {
		cfg = config.New()
	}
	f := forest.NewForest(p, cfg)
	table, err := f.Solve(goal, shouldContinue)
	if err != nil {
		return nil, err
	}
	result := aggregate.Aggregate(table)
	if result.Outcome == aggregate.Refuted {
		return nil, nil
	}
	return &Solution{Outcome: result.Outcome, Substitution: result.Answer}, nil
}

// SolveMultiple visits every distinct answer the solver can find for goal,
// in the order found, stopping early if visit returns false. Unlike Solve
// it does not aggregate: each call to visit sees one concrete answer rather
// than the combined Unique/Ambiguous verdict.
func SolveMultiple(cfg *config.Config, p Program, goal ir.UCanonicalGoal, visit func(ir.Canonical[ir.ConstrainedSubst]) bool) error {
	if cfg == nil {
		cfg = config.New()
	}
	f := forest.NewForest(p, cfg)
	table, err := f.Solve(goal, nil)
	if err != nil {
		return err
	}
	for _, answer := range table.Answers {
		if !visit(answer) {
			break
		}
	}
	return nil
}
