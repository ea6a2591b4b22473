package clauses_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gitrdm/traitsolve/internal/clauses"
	"github.com/gitrdm/traitsolve/internal/infer"
	"github.com/gitrdm/traitsolve/internal/ir"
)

func implClause(conditions []ir.Goal) ir.ProgramClause {
	return ir.ProgramClause{
		Kinds: []ir.VariableKind{{Kind: ir.KindType}},
		Value: ir.ProgramClauseImplication{
			Consequence: ir.Holds{WhereClause: ir.Implemented{TraitRef: ir.TraitRef{
				TraitID: 1,
				Args:    ir.Substitution{ir.TypeArg(ir.BoundVarTy{Index: 0})},
			}}},
			Conditions: conditions,
			Priority:   ir.PriorityLow,
		},
	}
}

func TestTryMatchSucceedsAndInstantiatesConditions(t *testing.T) {
	table := infer.NewInferenceTable()
	clause := implClause(nil)
	goal := ir.Holds{WhereClause: ir.Implemented{TraitRef: ir.TraitRef{
		TraitID: 1,
		Args:    ir.Substitution{ir.TypeArg(ir.AppTy{Name: 5})},
	}}}

	m, ok, err := clauses.TryMatch(table, ir.RootUniverse, goal, clause)
	require.NoError(t, err)
	require.True(t, ok)
	require.Empty(t, m.Conditions)
	require.Equal(t, ir.PriorityLow, m.Priority)
}

func TestTryMatchFastRejectsOnTraitIDMismatch(t *testing.T) {
	table := infer.NewInferenceTable()
	clause := implClause(nil)
	goal := ir.Holds{WhereClause: ir.Implemented{TraitRef: ir.TraitRef{
		TraitID: 2,
		Args:    ir.Substitution{ir.TypeArg(ir.AppTy{Name: 5})},
	}}}

	_, ok, err := clauses.TryMatch(table, ir.RootUniverse, goal, clause)
	require.NoError(t, err)
	require.False(t, ok, "a trait-id mismatch must fast-reject, not fail unification")
}

func TestTryMatchFastRejectsOnDomainGoalVariantMismatch(t *testing.T) {
	table := infer.NewInferenceTable()
	clause := implClause(nil)
	goal := ir.WellFormedTy{Ty: ir.AppTy{Name: 5}}

	_, ok, err := clauses.TryMatch(table, ir.RootUniverse, goal, clause)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestTryMatchFailsUnificationOnInconsistentSharedVariable(t *testing.T) {
	table := infer.NewInferenceTable()
	// the clause's single binder slot is used for both trait-ref args, so
	// the two goal args must unify with the very same instantiated variable.
	clause := ir.ProgramClause{
		Kinds: []ir.VariableKind{{Kind: ir.KindType}},
		Value: ir.ProgramClauseImplication{
			Consequence: ir.Holds{WhereClause: ir.Implemented{TraitRef: ir.TraitRef{
				TraitID: 1,
				Args: ir.Substitution{
					ir.TypeArg(ir.BoundVarTy{Index: 0}),
					ir.TypeArg(ir.BoundVarTy{Index: 0}),
				},
			}}},
			Priority: ir.PriorityLow,
		},
	}
	goal := ir.Holds{WhereClause: ir.Implemented{TraitRef: ir.TraitRef{
		TraitID: 1,
		Args: ir.Substitution{
			ir.TypeArg(ir.AppTy{Name: 1}),
			ir.TypeArg(ir.AppTy{Name: 2}),
		},
	}}}

	_, ok, err := clauses.TryMatch(table, ir.RootUniverse, goal, clause)
	require.True(t, ok, "fast-reject must still pass since arity and trait id agree")
	require.Error(t, err)
}

func TestTryMatchPropagatesConditionsWithInstantiatedVariable(t *testing.T) {
	table := infer.NewInferenceTable()
	condition := ir.DomainGoalNode{Goal: ir.WellFormedTy{Ty: ir.BoundVarTy{Index: 0}}}
	clause := implClause([]ir.Goal{condition})
	goal := ir.Holds{WhereClause: ir.Implemented{TraitRef: ir.TraitRef{
		TraitID: 1,
		Args:    ir.Substitution{ir.TypeArg(ir.AppTy{Name: 9})},
	}}}

	m, ok, err := clauses.TryMatch(table, ir.RootUniverse, goal, clause)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, m.Conditions, 1)
	wf := m.Conditions[0].(ir.DomainGoalNode).Goal.(ir.WellFormedTy)
	resolved := table.ResolveType(wf.Ty)
	require.Equal(t, ir.AppTy{Name: 9}, resolved, "the condition's variable must be the same one the consequence bound")
}

func TestMatchAllCollectsOnlyMatchingClauses(t *testing.T) {
	table := infer.NewInferenceTable()
	matching := implClause(nil)
	nonMatching := ir.ProgramClause{
		Kinds: []ir.VariableKind{{Kind: ir.KindType}},
		Value: ir.ProgramClauseImplication{
			Consequence: ir.Holds{WhereClause: ir.Implemented{TraitRef: ir.TraitRef{
				TraitID: 99,
				Args:    ir.Substitution{ir.TypeArg(ir.BoundVarTy{Index: 0})},
			}}},
			Priority: ir.PriorityLow,
		},
	}
	goal := ir.Holds{WhereClause: ir.Implemented{TraitRef: ir.TraitRef{
		TraitID: 1,
		Args:    ir.Substitution{ir.TypeArg(ir.AppTy{Name: 5})},
	}}}

	env := ir.Environment{Clauses: []ir.ProgramClause{matching, nonMatching}}
	matches, err := clauses.MatchAll(table, ir.RootUniverse, goal, env, nil)
	require.NoError(t, err)
	require.Len(t, matches, 1)
}
