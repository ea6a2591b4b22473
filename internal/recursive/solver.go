// Package recursive implements the alternative fixed-point solver
// SPEC_FULL.md §4.8-§4.9 describes alongside the tabled forest: a cache of
// previously aggregated answers (so that re-proving a goal already seen
// this session is a lookup, not a re-search) plus a Fulfill sub-engine that
// discharges a batch of independent obligations concurrently, each on its
// own Forest/InferenceTable pair as SPEC_FULL.md §5 requires.
package recursive

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"github.com/gitrdm/traitsolve/internal/aggregate"
	"github.com/gitrdm/traitsolve/internal/config"
	"github.com/gitrdm/traitsolve/internal/forest"
	"github.com/gitrdm/traitsolve/internal/ir"
)

// DefaultCacheSize bounds the solved-goal cache; a session proving the same
// well-formedness obligation for every field of every struct in a large
// program will re-hit this cache far more often than it misses.
const DefaultCacheSize = 4096

// Solver wraps a Forest with memoization of final (aggregated) answers,
// keyed on the goal's canonical string form.
type Solver struct {
	program ir.Program
	cfg     *config.Config
	cache   *lru.Cache[string, aggregate.Result]
}

func NewSolver(program ir.Program, cfg *config.Config) (*Solver, error) {
	return NewSolverWithCacheSize(program, cfg, DefaultCacheSize)
}

func NewSolverWithCacheSize(program ir.Program, cfg *config.Config, cacheSize int) (*Solver, error) {
	cache, err := lru.New[string, aggregate.Result](cacheSize)
	if err != nil {
		return nil, err
	}
	return &Solver{program: program, cfg: cfg, cache: cache}, nil
}

// Solve proves goal, consulting and then populating the solved-goal cache.
// Each cache miss runs a fresh Forest.Solve against its own InferenceTable;
// nothing here is shared mutable state beyond the cache itself, which the
// underlying LRU implementation already guards with its own lock.
func (s *Solver) Solve(goal ir.UCanonicalGoal) (aggregate.Result, error) {
	key := goal.Canonical.Value.String()
	if cached, ok := s.cache.Get(key); ok {
		return cached, nil
	}
	f := forest.NewForest(s.program, s.cfg)
	table, err := f.Solve(goal, nil)
	if err != nil {
		return aggregate.Result{}, err
	}
	result := aggregate.Aggregate(table)
	s.cache.Add(key, result)
	return result, nil
}

// Fulfill discharges every goal in goals concurrently, the obligation-queue
// role SPEC_FULL.md §4.9 assigns to the recursive solver's inner engine: a
// clause with several independent where-clause conditions can prove them in
// parallel rather than one at a time. It returns the first hard error
// (cache/solve failure, not Refuted/Ambiguous, which are ordinary results)
// once every goroutine has finished; solves already started are not
// cancelled, since Solve does not take a context.
func (s *Solver) Fulfill(ctx context.Context, goals []ir.UCanonicalGoal) ([]aggregate.Result, error) {
	results := make([]aggregate.Result, len(goals))
	g, _ := errgroup.WithContext(ctx)
	for i, goal := range goals {
		i, goal := i, goal
		g.Go(func() error {
			r, err := s.Solve(goal)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
