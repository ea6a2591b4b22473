// Command traitsolve-bench solves the queries of a small built-in program
// (a single goal at present) on an errgroup fan-out, to exercise the module's
// concurrency story (SPEC_FULL.md §5: independent Forest/InferenceTable
// instances per top-level solve, fanned out with golang.org/x/sync/errgroup)
// and to print what each query resolved to.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"github.com/gitrdm/traitsolve/internal/config"
	"github.com/gitrdm/traitsolve/internal/diagnostics"
	"github.com/gitrdm/traitsolve/internal/ir"
	"github.com/gitrdm/traitsolve/pkg/chalk"
)

func main() {
	verbose := flag.Bool("v", false, "trace solver internals at hclog.Trace level")
	flag.Parse()

	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "traitsolve-bench",
		Level: hclog.Info,
	})
	level := hclog.Info
	if *verbose {
		level = hclog.Trace
	}
	sink := diagnostics.NewHCLogSink(hclog.New(&hclog.LoggerOptions{Name: "solve", Level: level}))
	cfg := config.New(config.WithSink(sink))

	program, goals := buildSampleProgram()

	sessionID := uuid.New()
	logger.Info("starting solve session", "session", sessionID.String(), "queries", len(goals))

	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	results := make([]*chalk.Solution, len(goals))
	errs := make([]error, len(goals))
	g, _ := errgroup.WithContext(ctx)
	for i, goal := range goals {
		i, goal := i, goal
		g.Go(func() error {
			sol, err := chalk.Solve(cfg, program, goal)
			results[i] = sol
			errs[i] = err
			return nil
		})
	}
	_ = g.Wait()

	for i, goal := range goals {
		switch {
		case errs[i] != nil:
			logger.Error("query failed", "index", i, "goal", goal.Canonical.Value.String(), "err", errs[i])
		case results[i] == nil:
			fmt.Printf("#%d %s -> refuted\n", i, goal.Canonical.Value.String())
		default:
			fmt.Printf("#%d %s -> %s %s\n", i, goal.Canonical.Value.String(), results[i].Outcome, results[i].Substitution.Value.String())
		}
	}

	logger.Info("solve session complete", "session", sessionID.String(), "elapsed", time.Since(start))

	if err := chalk.ValidateProgram(program); err != nil {
		fmt.Fprintln(os.Stderr, "program validation:", err)
		os.Exit(1)
	}
}

// buildSampleProgram constructs a tiny program: an Option<T> ADT, a Send
// auto trait, and impls making Option<T> Send whenever T is, so the bench
// has at least one recursive, coinductive-flavored query to resolve.
func buildSampleProgram() (chalk.Program, []ir.UCanonicalGoal) {
	const (
		optionAdt ir.AdtID = iota + 1
	)
	const (
		sendTrait ir.TraitID = iota + 1
	)
	const (
		optionSendImpl ir.ImplID = iota + 1
	)

	b := chalk.NewProgramBuilder()
	b.AddAdt(ir.AdtDatum{
		ID: optionAdt,
		Binders: ir.NewBinders([]ir.VariableKind{{Kind: ir.KindType}}, ir.AdtBoundData{
			Fields: []ir.Type{ir.BoundVarTy{DebruijnIndex: 0, Index: 0}},
		}),
	}, "Option")
	b.AddTrait(ir.TraitDatum{
		ID: sendTrait,
		Binders: ir.NewBinders([]ir.VariableKind{{Kind: ir.KindType}}, ir.TraitBoundData{}),
		Flags:   ir.TraitFlags{Auto: true, Coinductive: true},
	}, "Send")
	// impl<T> Send for Option<T> where T: Send
	b.AddImpl(ir.ImplDatum{
		ID: optionSendImpl,
		Binders: ir.NewBinders([]ir.VariableKind{{Kind: ir.KindType}}, ir.ImplBoundData{
			TraitRef: ir.TraitRef{
				TraitID: sendTrait,
				Args: ir.Substitution{ir.TypeArg(ir.AppTy{
					Name: optionAdt,
					Args: ir.Substitution{ir.TypeArg(ir.BoundVarTy{DebruijnIndex: 0, Index: 0})},
				})},
			},
			WhereClauses: []ir.WhereClause{
				ir.Implemented{TraitRef: ir.TraitRef{
					TraitID: sendTrait,
					Args:    ir.Substitution{ir.TypeArg(ir.BoundVarTy{DebruijnIndex: 0, Index: 0})},
				}},
			},
		}),
	})
	program := b.Build()

	mkGoal := func(ty ir.Type) ir.UCanonicalGoal {
		goal := ir.DomainGoalNode{Goal: ir.Holds{WhereClause: ir.Implemented{
			TraitRef: ir.TraitRef{TraitID: sendTrait, Args: ir.Substitution{ir.TypeArg(ty)}},
		}}}
		return ir.UCanonicalGoal{Canonical: ir.Canonical[ir.Goal]{Value: goal}}
	}

	return program, []ir.UCanonicalGoal{
		mkGoal(ir.AppTy{Name: optionAdt, Args: ir.Substitution{ir.TypeArg(ir.AppTy{Name: optionAdt})}}),
	}
}
