// Package forest implements the tabled SLG-style solver of SPEC_FULL.md
// §4.1-§4.3: Forest.Solve proves a U-canonical goal against a Program,
// exploring every program clause that could apply, detecting cycles
// through the goals currently on the search path, and collecting distinct
// answers into a Table.
package forest

import (
	"github.com/gitrdm/traitsolve/internal/config"
	"github.com/gitrdm/traitsolve/internal/fold"
	"github.com/gitrdm/traitsolve/internal/infer"
	"github.com/gitrdm/traitsolve/internal/ir"
)

// maxAnswersPerTable bounds how many distinct answers a single Solve call
// will collect before stopping, even if more exist. An ambiguous goal with
// unboundedly many satisfying impls (pathological, but constructible) would
// otherwise never terminate; the aggregator only needs to know "more than
// one", so capping collection costs nothing real answers depend on.
const maxAnswersPerTable = 64

// Forest owns one Program and Config and answers Solve calls against them.
// It holds no per-query mutable state itself -- each Solve call builds its
// own InferenceTable and search state -- so one Forest can safely serve
// concurrent Solve calls, though SPEC_FULL.md §5 still recommends one
// Forest per top-level solve for isolation of diagnostics and universes.
type Forest struct {
	program ir.Program
	cfg     *config.Config
}

func NewForest(program ir.Program, cfg *config.Config) *Forest {
	if cfg == nil {
		cfg = config.New()
	}
	return &Forest{program: program, cfg: cfg}
}

// search is the mutable state of a single Solve call: the flags proveGoal
// sets when it gives up on a branch for a reason the aggregator needs to
// know about (overflow, floundering), isolated per call so a Forest can be
// reused or shared across goroutines.
type search struct {
	program    ir.Program
	cfg        *config.Config
	overflowed bool
	floundered bool
}

// Solve proves goal, returning every distinct answer found (up to
// maxAnswersPerTable), stopping early once shouldContinue returns false or
// once a trivial answer has been found.
// shouldContinue may be nil, meaning "always continue".
func (f *Forest) Solve(goal ir.UCanonicalGoal, shouldContinue func() bool) (*Table, error) {
	if shouldContinue == nil {
		shouldContinue = func() bool { return true }
	}
	table := infer.NewInferenceTable()
	opened, args := infer.InstantiateExistentially(table, ir.RootUniverse, goal.Canonical, fold.FoldGoal)

	s := &search{program: f.program, cfg: f.cfg}
	result := &Table{Goal: goal, seen: map[string]bool{}}

	s.proveGoal(table, ir.Environment{}, opened, activeSet{}, nil, 0, func(delayed []string) bool {
		cs := ir.ConstrainedSubst{Subst: table.ResolveSubstitution(args), DelayedLiterals: delayed}
		truncatedSubst := make(ir.Substitution, len(cs.Subst))
		truncated := false
		for i, a := range cs.Subst {
			if a.Kind != ir.KindType {
				truncatedSubst[i] = a
				continue
			}
			tt, wasTrunc := infer.TruncateType(table, ir.RootUniverse, f.cfg.MaxSize, a.Type)
			if wasTrunc {
				truncated = true
			}
			truncatedSubst[i] = ir.TypeArg(tt)
		}
		cs.Subst = truncatedSubst

		canon := infer.CanonicalizeConstrainedSubst(table, cs)
		key := canon.Value.String()
		if !result.seen[key] {
			result.seen[key] = true
			result.Answers = append(result.Answers, canon)
			if truncated {
				result.Truncated = true
				f.cfg.Sink.QuantumExceeded(goalKey(goal), f.cfg.MaxSize)
			}
			f.cfg.Sink.Answer(goalKey(goal), canon.Value.String())
			// Trivial-answer cut: an untruncated answer with no delayed
			// literals, no lifetime constraints and an identity substitution
			// cannot be improved on, so the search stops after it.
			trivial := !truncated && len(delayed) == 0 && len(canon.Value.Constraints) == 0
			for i, a := range canon.Value.Subst {
				bt, isTy := a.Type.(ir.BoundVarTy)
				bl, isLt := a.Lifetime.(ir.BoundVarLt)
				if !(isTy && bt.DebruijnIndex == 0 && bt.Index == i) && !(isLt && bl.DebruijnIndex == 0 && bl.Index == i) {
					trivial = false
				}
			}
			if trivial {
				return false
			}
		}
		return len(result.Answers) < maxAnswersPerTable && shouldContinue()
	})

	result.Complete = true
	result.Floundered = s.floundered
	if s.overflowed {
		result.Truncated = true
	}
	return result, nil
}

func goalKey(g ir.UCanonicalGoal) string {
	return g.Canonical.Value.String()
}
