package fold_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gitrdm/traitsolve/internal/fold"
	"github.com/gitrdm/traitsolve/internal/ir"
)

func TestShiftTypeOnlyAffectsFreeBoundVars(t *testing.T) {
	// ^0.0 is free at depth 0 and must shift; ^1.0 under one binder we cross
	// (depth 1 after entering FnTy's lifetime-free param list isn't exercised
	// here, so simulate directly via FoldType with a nonzero starting depth).
	free := ir.BoundVarTy{DebruijnIndex: 0, Index: 0}
	shifted := fold.ShiftType(free, 2)
	require.Equal(t, ir.BoundVarTy{DebruijnIndex: 2, Index: 0}, shifted)

	bound := ir.AppTy{Name: 1, Args: ir.Substitution{ir.TypeArg(ir.BoundVarTy{DebruijnIndex: 0, Index: 0})}}
	result := fold.FoldType(fold.Shifter{Delta: 3}, bound, 1) // depth=1: index 0 < depth, stays put
	require.Equal(t, ir.BoundVarTy{DebruijnIndex: 0, Index: 0}, result.(ir.AppTy).Args[0].Type)
}

func TestShiftGoalCrossesQuantifiedBinders(t *testing.T) {
	// A Quantified goal referencing its own bound var (depth 0 relative to
	// itself) must not be shifted, since it's bound by the binder the fold
	// crosses; a var referencing further out should be.
	inner := ir.DomainGoalNode{Goal: ir.WellFormedTy{Ty: ir.BoundVarTy{DebruijnIndex: 0, Index: 0}}}
	q := ir.Quantified{Kind: ir.Exists, Kinds: []ir.VariableKind{{Kind: ir.KindType}}, Subgoal: inner}
	shifted := fold.ShiftGoal(q, 5).(ir.Quantified)
	got := shifted.Subgoal.(ir.DomainGoalNode).Goal.(ir.WellFormedTy).Ty.(ir.BoundVarTy)
	require.Equal(t, 0, got.DebruijnIndex, "bound var referring to the binder just entered must not shift")
}

func TestSubstituteTypeReplacesBoundVar(t *testing.T) {
	body := ir.BoundVarTy{DebruijnIndex: 0, Index: 0}
	args := ir.Substitution{ir.TypeArg(ir.AppTy{Name: 42})}
	result := fold.SubstituteType(body, args)
	require.Equal(t, ir.AppTy{Name: 42}, result)
}

func TestSubstituteTypeRenumbersOuterReferences(t *testing.T) {
	// A var referring one level further out than the binder being removed
	// must have its index decremented.
	body := ir.BoundVarTy{DebruijnIndex: 1, Index: 3}
	args := ir.Substitution{ir.TypeArg(ir.AppTy{Name: 1})}
	result := fold.SubstituteType(body, args)
	require.Equal(t, ir.BoundVarTy{DebruijnIndex: 0, Index: 3}, result)
}

func TestSubstituteGoalOpensQuantifiedBinder(t *testing.T) {
	inner := ir.DomainGoalNode{Goal: ir.WellFormedTy{Ty: ir.BoundVarTy{DebruijnIndex: 0, Index: 0}}}
	args := ir.Substitution{ir.TypeArg(ir.AppTy{Name: 99})}
	result := fold.SubstituteGoal(inner, args)
	got := result.(ir.DomainGoalNode).Goal.(ir.WellFormedTy).Ty
	require.Equal(t, ir.AppTy{Name: 99}, got)
}

func TestSubstituteSubstitutedArgumentIsShiftedToCallSite(t *testing.T) {
	// Substituting inside a nested binder (depth 1) must shift the
	// replacement argument up by the depth at which it's inserted.
	body := ir.AppTy{Name: 7, Args: ir.Substitution{ir.TypeArg(ir.BoundVarTy{DebruijnIndex: 1, Index: 0})}}
	q := ir.Quantified{Kind: ir.Exists, Kinds: []ir.VariableKind{{Kind: ir.KindType}}, Subgoal: ir.DomainGoalNode{Goal: ir.WellFormedTy{Ty: body}}}
	args := ir.Substitution{ir.TypeArg(ir.BoundVarTy{DebruijnIndex: 0, Index: 9})}
	result := fold.SubstituteGoal(q, args)
	innerTy := result.(ir.Quantified).Subgoal.(ir.DomainGoalNode).Goal.(ir.WellFormedTy).Ty.(ir.AppTy)
	shiftedArg := innerTy.Args[0].Type.(ir.BoundVarTy)
	require.Equal(t, 1, shiftedArg.DebruijnIndex, "replacement must be shifted by the depth it's inserted at")
}
