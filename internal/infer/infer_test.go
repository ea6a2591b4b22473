package infer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gitrdm/traitsolve/internal/fold"
	"github.com/gitrdm/traitsolve/internal/infer"
	"github.com/gitrdm/traitsolve/internal/ir"
)

func newVarTy(t *infer.InferenceTable, universe int) ir.Type {
	return ir.InferenceVarTy{Var: t.NewVariable(universe)}
}

func TestUnifyTwoVariablesUnions(t *testing.T) {
	table := infer.NewInferenceTable()
	a := newVarTy(table, ir.RootUniverse)
	b := newVarTy(table, ir.RootUniverse)
	u := infer.NewUnifier(table)
	require.NoError(t, u.UnifyTypes(a, b, 0))

	// binding one and resolving the other must now agree.
	concrete := ir.AppTy{Name: 1}
	require.NoError(t, u.UnifyTypes(a, concrete, 0))
	require.Equal(t, concrete, table.ResolveType(b))
}

func TestUnifySoundnessStructuralEquality(t *testing.T) {
	table := infer.NewInferenceTable()
	v := newVarTy(table, ir.RootUniverse)
	target := ir.AppTy{Name: 5, Args: ir.Substitution{ir.TypeArg(ir.AppTy{Name: 6})}}
	u := infer.NewUnifier(table)
	require.NoError(t, u.UnifyTypes(v, target, 0))
	require.True(t, ir.TypesEqual(target, table.ResolveType(v)))
}

func TestUnifyOccursCheckFails(t *testing.T) {
	table := infer.NewInferenceTable()
	vr := table.NewVariable(ir.RootUniverse)
	v := ir.InferenceVarTy{Var: vr}
	selfRef := ir.AppTy{Name: 1, Args: ir.Substitution{ir.TypeArg(v)}}
	u := infer.NewUnifier(table)
	err := u.UnifyTypes(v, selfRef, 0)
	require.Error(t, err)
}

func TestUnifyUniverseViolationFails(t *testing.T) {
	table := infer.NewInferenceTable()
	rootVar := ir.InferenceVarTy{Var: table.NewVariable(ir.RootUniverse)}
	outerUniverse := table.NewUniverse()
	placeholder := ir.PlaceholderTy{Universe: outerUniverse, Idx: 0}

	u := infer.NewUnifier(table)
	err := u.UnifyTypes(rootVar, placeholder, 0)
	require.Error(t, err, "a root-universe variable must not bind to a placeholder from a higher universe it cannot see")
}

func TestUnifyUniverseRespectSucceedsWhenVariableSeesPlaceholder(t *testing.T) {
	table := infer.NewInferenceTable()
	outerUniverse := table.NewUniverse()
	v := ir.InferenceVarTy{Var: table.NewVariable(outerUniverse)}
	placeholder := ir.PlaceholderTy{Universe: outerUniverse, Idx: 0}

	u := infer.NewUnifier(table)
	require.NoError(t, u.UnifyTypes(v, placeholder, 0))
}

func TestUnifyBoundVariablesMustMatchExactly(t *testing.T) {
	table := infer.NewInferenceTable()
	u := infer.NewUnifier(table)
	a := ir.BoundVarTy{DebruijnIndex: 0, Index: 0}
	b := ir.BoundVarTy{DebruijnIndex: 0, Index: 1}
	require.Error(t, u.UnifyTypes(a, b, 0))
	require.NoError(t, u.UnifyTypes(a, a, 0))
}

func TestUnifyLifetimesRecordsOutlivesConstraintsInsteadOfFailing(t *testing.T) {
	table := infer.NewInferenceTable()
	u := infer.NewUnifier(table)
	a := ir.PlaceholderLt{Universe: 1, Idx: 0}
	b := ir.PlaceholderLt{Universe: 1, Idx: 1}
	err := u.UnifyLifetimes(a, b, 0)
	require.NoError(t, err, "non-identical ground lifetimes are never a hard unification failure")
	require.Len(t, u.Constraints, 2)
}

func TestCanonicalRoundTrip(t *testing.T) {
	table := infer.NewInferenceTable()
	v1 := newVarTy(table, ir.RootUniverse)
	v2 := newVarTy(table, ir.RootUniverse)
	original := ir.AppTy{Name: 1, Args: ir.Substitution{ir.TypeArg(v1), ir.TypeArg(v2)}}

	canon := infer.CanonicalizeType(table, original)
	require.Len(t, canon.Binders, 2)

	fresh := infer.NewInferenceTable()
	opened, _ := infer.InstantiateExistentially(fresh, ir.RootUniverse, canon, func(f fold.Folder, v ir.Type, d int) ir.Type {
		return fold.FoldType(f, v, d)
	})
	// Opening into a fresh table replaces bound vars 0,1 with two fresh
	// inference variables of that fresh table -- re-canonicalizing it there
	// must reproduce the same shape (same binder count, AppTy wrapper).
	reCanon := infer.CanonicalizeType(fresh, opened)
	require.Equal(t, canon.Value.(ir.AppTy).Name, reCanon.Value.(ir.AppTy).Name)
	require.Len(t, reCanon.Binders, 2)
}

func TestCanonicalizeNumbersVarsInFirstAppearanceOrder(t *testing.T) {
	table := infer.NewInferenceTable()
	v1 := newVarTy(table, ir.RootUniverse)
	v2 := newVarTy(table, ir.RootUniverse)
	// v2 appears first in this value.
	val := ir.AppTy{Name: 1, Args: ir.Substitution{ir.TypeArg(v2), ir.TypeArg(v1), ir.TypeArg(v2)}}
	canon := infer.CanonicalizeType(table, val)
	args := canon.Value.(ir.AppTy).Args
	first := args[0].Type.(ir.BoundVarTy)
	second := args[1].Type.(ir.BoundVarTy)
	third := args[2].Type.(ir.BoundVarTy)
	require.Equal(t, 0, first.Index)
	require.Equal(t, 1, second.Index)
	require.Equal(t, 0, third.Index, "repeated variable reuses its slot")
}

func TestUCanonicalizeCompressesUniverses(t *testing.T) {
	table := infer.NewInferenceTable()
	u1 := table.NewUniverse()
	u2 := table.NewUniverse()
	val := ir.AppTy{Name: 1, Args: ir.Substitution{
		ir.TypeArg(ir.PlaceholderTy{Universe: u2, Idx: 0}),
		ir.TypeArg(ir.PlaceholderTy{Universe: u1, Idx: 1}),
	}}
	canon := ir.Canonical[ir.Type]{Value: val}
	ucanon, m := infer.UCanonicalize(canon, func(f fold.Folder, v ir.Type, d int) ir.Type {
		return fold.FoldType(f, v, d)
	})
	require.Greater(t, ucanon.Universes, 1)
	// universes compress to a dense 0..k-1 range in increasing original order.
	require.Equal(t, 0, m.MapToCompressed(ir.RootUniverse))
	require.Less(t, m.MapToCompressed(u1), m.MapToCompressed(u2))
}

func TestTruncateIdempotent(t *testing.T) {
	table := infer.NewInferenceTable()
	deep := ir.AppTy{Name: 1, Args: ir.Substitution{ir.TypeArg(ir.AppTy{Name: 2, Args: ir.Substitution{ir.TypeArg(ir.AppTy{Name: 3})}})}}

	once, truncatedOnce := infer.TruncateType(table, ir.RootUniverse, 2, deep)
	require.True(t, truncatedOnce)
	twice, truncatedTwice := infer.TruncateType(table, ir.RootUniverse, 2, once)
	require.True(t, truncatedTwice)
	// both passes hit the same budget at the same structural point, so the
	// outer shape (not the freshly-minted variable identities) is stable.
	require.IsType(t, ir.AppTy{}, once)
	require.IsType(t, ir.AppTy{}, twice)
}

func TestTruncateUnderBudgetLeavesTypeAlone(t *testing.T) {
	table := infer.NewInferenceTable()
	shallow := ir.AppTy{Name: 1}
	out, truncated := infer.TruncateType(table, ir.RootUniverse, 30, shallow)
	require.False(t, truncated)
	require.Equal(t, shallow, out)
}

func TestInvertFlipsQuantifiers(t *testing.T) {
	inner := ir.DomainGoalNode{Goal: ir.WellFormedTy{Ty: ir.AppTy{Name: 1}}}
	g := ir.Quantified{Kind: ir.ForAll, Kinds: []ir.VariableKind{{Kind: ir.KindType}}, Subgoal: inner}
	inverted := infer.Invert(g).(ir.Quantified)
	require.Equal(t, ir.Exists, inverted.Kind)
}

func TestInvertUnwrapsNot(t *testing.T) {
	g := ir.DomainGoalNode{Goal: ir.WellFormedTy{Ty: ir.AppTy{Name: 1}}}
	not := ir.Not{Subgoal: g}
	require.Equal(t, g, infer.Invert(not))
}

func TestFloundersOnFreeInferenceVariable(t *testing.T) {
	table := infer.NewInferenceTable()
	v := newVarTy(table, ir.RootUniverse)
	g := ir.DomainGoalNode{Goal: ir.WellFormedTy{Ty: v}}
	require.True(t, infer.Flounders(g))
}

func TestFloundersFalseOnGroundGoal(t *testing.T) {
	g := ir.DomainGoalNode{Goal: ir.WellFormedTy{Ty: ir.AppTy{Name: 1}}}
	require.False(t, infer.Flounders(g))
}

func TestSnapshotRollbackUndoesBindings(t *testing.T) {
	table := infer.NewInferenceTable()
	v := table.NewVariable(ir.RootUniverse)
	snap := table.Snapshot()

	u := infer.NewUnifier(table)
	require.NoError(t, u.UnifyTypes(ir.InferenceVarTy{Var: v}, ir.AppTy{Name: 1}, 0))
	require.Equal(t, ir.AppTy{Name: 1}, table.ResolveType(ir.InferenceVarTy{Var: v}))

	table.Rollback(snap)
	require.Equal(t, ir.InferenceVarTy{Var: v}, table.ResolveType(ir.InferenceVarTy{Var: v}), "rollback must undo the binding made after the snapshot")
}
