package forest_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gitrdm/traitsolve/internal/config"
	"github.com/gitrdm/traitsolve/internal/forest"
	"github.com/gitrdm/traitsolve/internal/ir"
)

// testProgram is a minimal, hand-built ir.Program for exercising the forest
// in isolation from pkg/chalk's builder.
type testProgram struct {
	traits        map[ir.TraitID]ir.TraitDatum
	impls         map[ir.ImplID]ir.ImplDatum
	implsByTrait  map[ir.TraitID][]ir.ImplID
	customClauses []ir.ProgramClause
	interner      *ir.Interner
}

func newTestProgram() *testProgram {
	return &testProgram{
		traits:       map[ir.TraitID]ir.TraitDatum{},
		impls:        map[ir.ImplID]ir.ImplDatum{},
		implsByTrait: map[ir.TraitID][]ir.ImplID{},
		interner:     ir.NewInterner(),
	}
}

func (p *testProgram) addTrait(d ir.TraitDatum)                { p.traits[d.ID] = d }
func (p *testProgram) addImpl(d ir.ImplDatum) {
	p.impls[d.ID] = d
	traitID := d.Binders.Value.TraitRef.TraitID
	p.implsByTrait[traitID] = append(p.implsByTrait[traitID], d.ID)
}

func (p *testProgram) Adt(ir.AdtID) (ir.AdtDatum, bool)     { return ir.AdtDatum{}, false }
func (p *testProgram) Trait(id ir.TraitID) (ir.TraitDatum, bool) {
	d, ok := p.traits[id]
	return d, ok
}
func (p *testProgram) Impl(id ir.ImplID) (ir.ImplDatum, bool) {
	d, ok := p.impls[id]
	return d, ok
}
func (p *testProgram) ImplsForTrait(id ir.TraitID) []ir.ImplID { return p.implsByTrait[id] }
func (p *testProgram) AssocTyValue(ir.AssocTyValueID) (ir.AssocTyValueDatum, bool) {
	return ir.AssocTyValueDatum{}, false
}
func (p *testProgram) AssocTyValuesForAssocTy(ir.AssocTyID) []ir.AssocTyValueID { return nil }
func (p *testProgram) OpaqueTy(ir.OpaqueTyID) (ir.OpaqueTyDatum, bool)          { return ir.OpaqueTyDatum{}, false }
func (p *testProgram) CustomClauses() []ir.ProgramClause                       { return p.customClauses }
func (p *testProgram) Interner() *ir.Interner                                  { return p.interner }

func groundGoal(dg ir.DomainGoal) ir.UCanonicalGoal {
	return ir.UCanonicalGoal{Canonical: ir.Canonical[ir.Goal]{Value: ir.DomainGoalNode{Goal: dg}}}
}

func existentialGoal(dg ir.DomainGoal) ir.UCanonicalGoal {
	return ir.UCanonicalGoal{Canonical: ir.Canonical[ir.Goal]{
		Binders: []ir.CanonicalVarKind{{Kind: ir.KindType, Universe: ir.RootUniverse}},
		Value:   ir.DomainGoalNode{Goal: dg},
	}}
}

func TestSolveUnconditionalImplProducesOneAnswer(t *testing.T) {
	p := newTestProgram()
	p.addTrait(ir.TraitDatum{ID: 1})
	p.addImpl(ir.ImplDatum{
		ID: 1,
		Binders: ir.NewBinders(nil, ir.ImplBoundData{
			TraitRef: ir.TraitRef{TraitID: 1, Args: ir.Substitution{ir.TypeArg(ir.AppTy{Name: 1})}},
		}),
		Polarity: ir.Positive,
	})

	goal := groundGoal(ir.Holds{WhereClause: ir.Implemented{TraitRef: ir.TraitRef{
		TraitID: 1,
		Args:    ir.Substitution{ir.TypeArg(ir.AppTy{Name: 1})},
	}}})

	f := forest.NewForest(p, config.New())
	table, err := f.Solve(goal, nil)
	require.NoError(t, err)
	require.True(t, table.Complete)
	require.False(t, table.Floundered)
	require.Len(t, table.Answers, 1)
}

func TestSolveNoMatchingImplRefutes(t *testing.T) {
	p := newTestProgram()
	p.addTrait(ir.TraitDatum{ID: 1})
	p.addImpl(ir.ImplDatum{
		ID: 1,
		Binders: ir.NewBinders(nil, ir.ImplBoundData{
			TraitRef: ir.TraitRef{TraitID: 1, Args: ir.Substitution{ir.TypeArg(ir.AppTy{Name: 1})}},
		}),
		Polarity: ir.Positive,
	})

	goal := groundGoal(ir.Holds{WhereClause: ir.Implemented{TraitRef: ir.TraitRef{
		TraitID: 1,
		Args:    ir.Substitution{ir.TypeArg(ir.AppTy{Name: 2})},
	}}})

	f := forest.NewForest(p, config.New())
	table, err := f.Solve(goal, nil)
	require.NoError(t, err)
	require.Empty(t, table.Answers)
}

// reflexiveProgram builds a single trait with one blanket impl "T: Trait :-
// T: Trait", the minimal program whose own search path revisits the exact
// subgoal it started from -- the same self-referential shape an auto-trait
// blanket impl produces in the original system (SPEC_FULL.md §4.2).
func reflexiveProgram(coinductive bool) *testProgram {
	p := newTestProgram()
	p.addTrait(ir.TraitDatum{ID: 1, Flags: ir.TraitFlags{Coinductive: coinductive}})
	p.addImpl(ir.ImplDatum{
		ID: 1,
		Binders: ir.NewBinders([]ir.VariableKind{{Kind: ir.KindType}}, ir.ImplBoundData{
			TraitRef:     ir.TraitRef{TraitID: 1, Args: ir.Substitution{ir.TypeArg(ir.BoundVarTy{Index: 0})}},
			WhereClauses: []ir.WhereClause{ir.Implemented{TraitRef: ir.TraitRef{TraitID: 1, Args: ir.Substitution{ir.TypeArg(ir.BoundVarTy{Index: 0})}}}},
		}),
		Polarity: ir.Positive,
	})
	return p
}

func TestSolveCoinductiveCycleSucceeds(t *testing.T) {
	p := reflexiveProgram(true)
	goal := existentialGoal(ir.Holds{WhereClause: ir.Implemented{TraitRef: ir.TraitRef{
		TraitID: 1,
		Args:    ir.Substitution{ir.TypeArg(ir.BoundVarTy{Index: 0})},
	}}})

	f := forest.NewForest(p, config.New())
	table, err := f.Solve(goal, nil)
	require.NoError(t, err)
	require.False(t, table.Floundered)
	require.Len(t, table.Answers, 1, "a cycle through a coinductive trait is a successful proof")
}

func TestSolveInductiveCycleFindsNoAnswer(t *testing.T) {
	p := reflexiveProgram(false)
	goal := existentialGoal(ir.Holds{WhereClause: ir.Implemented{TraitRef: ir.TraitRef{
		TraitID: 1,
		Args:    ir.Substitution{ir.TypeArg(ir.BoundVarTy{Index: 0})},
	}}})

	f := forest.NewForest(p, config.New())
	table, err := f.Solve(goal, nil)
	require.NoError(t, err)
	require.Empty(t, table.Answers, "a cycle through an inductive trait must not be treated as a proof")
}

// TestSolveMixedCycleRejects builds the Send/Foo cycle where one edge is
// coinductive and the other is not: #[auto] trait Send; trait Foo; impl<T>
// Send for T where T: Foo; impl<T> Foo for T where T: Send. exists<T> { T:
// Send } must have no answer, even though re-entering Send alone looks
// coinductive -- the Foo edge in between is not, so the cycle as a whole
// isn't a valid coinductive proof.
func TestSolveMixedCycleRejects(t *testing.T) {
	const send, foo ir.TraitID = 1, 2
	p := newTestProgram()
	p.addTrait(ir.TraitDatum{ID: send, Flags: ir.TraitFlags{Auto: true, Coinductive: true}})
	p.addTrait(ir.TraitDatum{ID: foo})
	p.addImpl(ir.ImplDatum{
		ID: 1,
		Binders: ir.NewBinders([]ir.VariableKind{{Kind: ir.KindType}}, ir.ImplBoundData{
			TraitRef:     ir.TraitRef{TraitID: send, Args: ir.Substitution{ir.TypeArg(ir.BoundVarTy{Index: 0})}},
			WhereClauses: []ir.WhereClause{ir.Implemented{TraitRef: ir.TraitRef{TraitID: foo, Args: ir.Substitution{ir.TypeArg(ir.BoundVarTy{Index: 0})}}}},
		}),
		Polarity: ir.Positive,
	})
	p.addImpl(ir.ImplDatum{
		ID: 2,
		Binders: ir.NewBinders([]ir.VariableKind{{Kind: ir.KindType}}, ir.ImplBoundData{
			TraitRef:     ir.TraitRef{TraitID: foo, Args: ir.Substitution{ir.TypeArg(ir.BoundVarTy{Index: 0})}},
			WhereClauses: []ir.WhereClause{ir.Implemented{TraitRef: ir.TraitRef{TraitID: send, Args: ir.Substitution{ir.TypeArg(ir.BoundVarTy{Index: 0})}}}},
		}),
		Polarity: ir.Positive,
	})

	goal := existentialGoal(ir.Holds{WhereClause: ir.Implemented{TraitRef: ir.TraitRef{
		TraitID: send,
		Args:    ir.Substitution{ir.TypeArg(ir.BoundVarTy{Index: 0})},
	}}})

	f := forest.NewForest(p, config.New())
	table, err := f.Solve(goal, nil)
	require.NoError(t, err)
	require.Empty(t, table.Answers, "a cycle that crosses a non-coinductive edge must not be treated as a proof")
}

// TestSolveCoinductiveCycleThroughRecursiveField builds the List/Ptr shape:
// #[auto] trait Send; impl<T> Send for Ptr<T> where T: Send; impl<T> Send
// for List<T> where T: Send, Ptr<List<T>>: Send. Proving List<T>: Send under
// the assumption T: Send must succeed -- the recursive ADT field only
// reaches List<T>: Send again by way of Ptr, and every edge on that cycle is
// through the coinductive Send trait.
func TestSolveCoinductiveCycleThroughRecursiveField(t *testing.T) {
	const send ir.TraitID = 1
	const ptr, list ir.AdtID = 10, 11
	p := newTestProgram()
	p.addTrait(ir.TraitDatum{ID: send, Flags: ir.TraitFlags{Auto: true, Coinductive: true}})
	p.addImpl(ir.ImplDatum{
		ID: 1,
		Binders: ir.NewBinders([]ir.VariableKind{{Kind: ir.KindType}}, ir.ImplBoundData{
			TraitRef: ir.TraitRef{TraitID: send, Args: ir.Substitution{ir.TypeArg(ir.AppTy{Name: ptr, Args: ir.Substitution{ir.TypeArg(ir.BoundVarTy{Index: 0})}})}},
			WhereClauses: []ir.WhereClause{
				ir.Implemented{TraitRef: ir.TraitRef{TraitID: send, Args: ir.Substitution{ir.TypeArg(ir.BoundVarTy{Index: 0})}}},
			},
		}),
		Polarity: ir.Positive,
	})
	p.addImpl(ir.ImplDatum{
		ID: 2,
		Binders: ir.NewBinders([]ir.VariableKind{{Kind: ir.KindType}}, ir.ImplBoundData{
			TraitRef: ir.TraitRef{TraitID: send, Args: ir.Substitution{ir.TypeArg(ir.AppTy{Name: list, Args: ir.Substitution{ir.TypeArg(ir.BoundVarTy{Index: 0})}})}},
			WhereClauses: []ir.WhereClause{
				ir.Implemented{TraitRef: ir.TraitRef{TraitID: send, Args: ir.Substitution{ir.TypeArg(ir.BoundVarTy{Index: 0})}}},
				ir.Implemented{TraitRef: ir.TraitRef{TraitID: send, Args: ir.Substitution{ir.TypeArg(ir.AppTy{
					Name: ptr,
					Args: ir.Substitution{ir.TypeArg(ir.AppTy{Name: list, Args: ir.Substitution{ir.TypeArg(ir.BoundVarTy{Index: 0})}})},
				})}}},
			},
		}),
		Polarity: ir.Positive,
	})

	// forall<T> { if (WellFormed(T), T: Send) { List<T>: Send } }
	goal := ir.UCanonicalGoal{Canonical: ir.Canonical[ir.Goal]{Value: ir.Quantified{
		Kind:  ir.ForAll,
		Kinds: []ir.VariableKind{{Kind: ir.KindType}},
		Subgoal: ir.Implication{
			Conditions: []ir.ProgramClause{
				ir.NewBinders(nil, ir.ProgramClauseImplication{Consequence: ir.WellFormedTy{Ty: ir.BoundVarTy{Index: 0}}}),
				ir.NewBinders(nil, ir.ProgramClauseImplication{Consequence: ir.Holds{WhereClause: ir.Implemented{TraitRef: ir.TraitRef{
					TraitID: send,
					Args:    ir.Substitution{ir.TypeArg(ir.BoundVarTy{Index: 0})},
				}}}}),
			},
			Consequence: ir.DomainGoalNode{Goal: ir.Holds{WhereClause: ir.Implemented{TraitRef: ir.TraitRef{
				TraitID: send,
				Args:    ir.Substitution{ir.TypeArg(ir.AppTy{Name: list, Args: ir.Substitution{ir.TypeArg(ir.BoundVarTy{Index: 0})}})},
			}}}},
		},
	}}}

	f := forest.NewForest(p, config.New())
	table, err := f.Solve(goal, nil)
	require.NoError(t, err)
	require.False(t, table.Floundered)
	require.NotEmpty(t, table.Answers, "the Ptr indirection should let the coinductive cycle close")
}

func TestSolveOverflowDepthTruncates(t *testing.T) {
	p := newTestProgram()
	// a trait with no base-case impl and a custom clause that always
	// recurses into a fresh variable never reaches a fixed point; with a
	// tiny overflow depth the forest must give up rather than loop forever.
	p.customClauses = []ir.ProgramClause{{
		Kinds: []ir.VariableKind{{Kind: ir.KindType}},
		Value: ir.ProgramClauseImplication{
			Consequence: ir.Holds{WhereClause: ir.Implemented{TraitRef: ir.TraitRef{TraitID: 1, Args: ir.Substitution{ir.TypeArg(ir.BoundVarTy{Index: 0})}}}},
			Conditions: []ir.Goal{
				ir.Quantified{Kind: ir.Exists, Kinds: []ir.VariableKind{{Kind: ir.KindType}}, Subgoal: ir.DomainGoalNode{Goal: ir.Holds{WhereClause: ir.Implemented{TraitRef: ir.TraitRef{TraitID: 1, Args: ir.Substitution{ir.TypeArg(ir.BoundVarTy{Index: 0})}}}}}},
			},
		},
	}}

	goal := existentialGoal(ir.Holds{WhereClause: ir.Implemented{TraitRef: ir.TraitRef{
		TraitID: 1,
		Args:    ir.Substitution{ir.TypeArg(ir.BoundVarTy{Index: 0})},
	}}})

	f := forest.NewForest(p, config.New(config.WithOverflowDepth(5)))
	table, err := f.Solve(goal, nil)
	require.NoError(t, err)
	require.True(t, table.Truncated)
}
