package ir

import "fmt"

// ProgramClauseImplication is a Horn-style clause body: prove Consequence
// given that every goal in Conditions holds, tagged with a Priority used by
// the recursive solver's candidate-combination step (§4.8).
type ProgramClauseImplication struct {
	Consequence DomainGoal
	Conditions  []Goal
	Priority    Priority
}

func (p ProgramClauseImplication) String() string {
	return fmt.Sprintf("%s :- %v (priority=%d)", p.Consequence.String(), p.Conditions, p.Priority)
}

// ProgramClause is "forall binders. consequence <- conditions", exactly the
// clause shape of SPEC_FULL.md §3.
type ProgramClause = Binders[ProgramClauseImplication]

// Environment is the ordered multiset of program clauses assumed true in
// the goal's current scope (SPEC_FULL.md §3), accumulated as the solver
// descends through Implication goals (§4.8 step 1: "extending the
// environment").
type Environment struct {
	Clauses []ProgramClause
}

// Extend returns a new Environment with extra clauses appended; it never
// mutates e, matching the immutable-value discipline of the rest of the IR.
func (e Environment) Extend(extra []ProgramClause) Environment {
	out := make([]ProgramClause, 0, len(e.Clauses)+len(extra))
	out = append(out, e.Clauses...)
	out = append(out, extra...)
	return Environment{Clauses: out}
}

// ConstrainedSubst is the public answer shape: a substitution plus the
// lifetime-outlives constraints that unification accumulated while
// producing it (SPEC_FULL.md §6), plus the delayed literals it depended on.
// A non-empty DelayedLiterals means this answer closed one or more
// coinductive cycles rather than bottoming out in a base case -- it is a
// "conditional" answer in the tabling sense (SPEC_FULL.md §3, §4.2.2): sound
// within this table, but not cross-checked against whatever those cycle
// keys eventually resolve to in a sibling search, the scope this engine's
// single-call search stops short of (see DESIGN.md).
type ConstrainedSubst struct {
	Subst           Substitution
	Constraints     []LifetimeOutlivesConstraint
	DelayedLiterals []string
}

func (c ConstrainedSubst) String() string {
	return fmt.Sprintf("%s where %v delayed %v", c.Subst.String(), c.Constraints, c.DelayedLiterals)
}
