package ir

import (
	"fmt"
	"strings"
)

// TraitRef names a trait applied to a self type plus any further generic
// arguments: Args[0] is always the self type, by convention (mirroring
// chalk's own TraitRef layout, carried over from original_source).
type TraitRef struct {
	TraitID TraitID
	Args    Substitution
}

func (t TraitRef) String() string { return fmt.Sprintf("Trait#%d%s", int(t.TraitID), t.Args.String()) }

func (t TraitRef) SelfType() Type {
	if len(t.Args) == 0 {
		return nil
	}
	return t.Args[0].Type
}

func TraitRefsEqual(a, b TraitRef) bool {
	return a.TraitID == b.TraitID && SubstitutionsEqual(a.Args, b.Args)
}

// WhereClause is the smallest unit of "assumed true": an implemented-trait
// obligation, an associated-type equality, or a lifetime/type outlives
// relation.
type WhereClause interface {
	isWhereClause()
	String() string
}

type Implemented struct{ TraitRef TraitRef }

func (Implemented) isWhereClause()    {}
func (w Implemented) String() string { return w.TraitRef.String() }

type AliasEqWC struct {
	Alias AliasTy
	Ty    Type
}

func (AliasEqWC) isWhereClause() {}
func (w AliasEqWC) String() string {
	return fmt.Sprintf("%s = %s", w.Alias.String(), w.Ty.String())
}

type LifetimeOutlivesWC struct{ A, B Lifetime }

func (LifetimeOutlivesWC) isWhereClause() {}
func (w LifetimeOutlivesWC) String() string {
	return fmt.Sprintf("%s: %s", w.A.String(), w.B.String())
}

type TypeOutlivesWC struct {
	Ty       Type
	Lifetime Lifetime
}

func (TypeOutlivesWC) isWhereClause() {}
func (w TypeOutlivesWC) String() string {
	return fmt.Sprintf("%s: %s", w.Ty.String(), w.Lifetime.String())
}

func WhereClausesEqual(a, b WhereClause) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case Implemented:
		y, ok := b.(Implemented)
		return ok && TraitRefsEqual(x.TraitRef, y.TraitRef)
	case AliasEqWC:
		y, ok := b.(AliasEqWC)
		return ok && aliasTyEqual(x.Alias, y.Alias) && TypesEqual(x.Ty, y.Ty)
	case LifetimeOutlivesWC:
		y, ok := b.(LifetimeOutlivesWC)
		return ok && LifetimesEqual(x.A, y.A) && LifetimesEqual(x.B, y.B)
	case TypeOutlivesWC:
		y, ok := b.(TypeOutlivesWC)
		return ok && TypesEqual(x.Ty, y.Ty) && LifetimesEqual(x.Lifetime, y.Lifetime)
	default:
		return false
	}
}

func aliasTyEqual(a, b AliasTy) bool { return TypesEqual(a, b) }

// DomainGoal is the set of base predicates the solver can be asked to prove
// directly (SPEC_FULL.md §3).
type DomainGoal interface {
	isDomainGoal()
	String() string
}

type Holds struct{ WhereClause WhereClause }

func (Holds) isDomainGoal()    {}
func (g Holds) String() string { return g.WhereClause.String() }

type WellFormedTy struct{ Ty Type }

func (WellFormedTy) isDomainGoal()    {}
func (g WellFormedTy) String() string { return fmt.Sprintf("WellFormed(%s)", g.Ty.String()) }

type WellFormedTraitRef struct{ TraitRef TraitRef }

func (WellFormedTraitRef) isDomainGoal() {}
func (g WellFormedTraitRef) String() string {
	return fmt.Sprintf("WellFormed(%s)", g.TraitRef.String())
}

type FromEnv struct{ WhereClause WhereClause }

func (FromEnv) isDomainGoal()    {}
func (g FromEnv) String() string { return fmt.Sprintf("FromEnv(%s)", g.WhereClause.String()) }

type Normalize struct {
	Alias AliasTy
	Ty    Type
}

func (Normalize) isDomainGoal() {}
func (g Normalize) String() string {
	return fmt.Sprintf("Normalize(%s -> %s)", g.Alias.String(), g.Ty.String())
}

type IsLocal struct{ Ty Type }

func (IsLocal) isDomainGoal()    {}
func (g IsLocal) String() string { return fmt.Sprintf("IsLocal(%s)", g.Ty.String()) }

type IsUpstream struct{ Ty Type }

func (IsUpstream) isDomainGoal()    {}
func (g IsUpstream) String() string { return fmt.Sprintf("IsUpstream(%s)", g.Ty.String()) }

type Compatible struct{}

func (Compatible) isDomainGoal()    {}
func (g Compatible) String() string { return "Compatible" }

type LocalImplAllowed struct{ TraitRef TraitRef }

func (LocalImplAllowed) isDomainGoal() {}
func (g LocalImplAllowed) String() string {
	return fmt.Sprintf("LocalImplAllowed(%s)", g.TraitRef.String())
}

func DomainGoalsEqual(a, b DomainGoal) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case Holds:
		y, ok := b.(Holds)
		return ok && WhereClausesEqual(x.WhereClause, y.WhereClause)
	case WellFormedTy:
		y, ok := b.(WellFormedTy)
		return ok && TypesEqual(x.Ty, y.Ty)
	case WellFormedTraitRef:
		y, ok := b.(WellFormedTraitRef)
		return ok && TraitRefsEqual(x.TraitRef, y.TraitRef)
	case FromEnv:
		y, ok := b.(FromEnv)
		return ok && WhereClausesEqual(x.WhereClause, y.WhereClause)
	case Normalize:
		y, ok := b.(Normalize)
		return ok && aliasTyEqual(x.Alias, y.Alias) && TypesEqual(x.Ty, y.Ty)
	case IsLocal:
		y, ok := b.(IsLocal)
		return ok && TypesEqual(x.Ty, y.Ty)
	case IsUpstream:
		y, ok := b.(IsUpstream)
		return ok && TypesEqual(x.Ty, y.Ty)
	case Compatible:
		_, ok := b.(Compatible)
		return ok
	case LocalImplAllowed:
		y, ok := b.(LocalImplAllowed)
		return ok && TraitRefsEqual(x.TraitRef, y.TraitRef)
	default:
		return false
	}
}

// Goal is the recursive formula sum of SPEC_FULL.md §3: domain goals,
// equalities, quantifiers, implication, conjunction, negation, and the
// cannot-prove sentinel that propagates ambiguity.
type Goal interface {
	isGoal()
	String() string
}

type DomainGoalNode struct{ Goal DomainGoal }

func (DomainGoalNode) isGoal()      {}
func (g DomainGoalNode) String() string { return g.Goal.String() }

type EqGoal struct{ A, B GenericArg }

func (EqGoal) isGoal()      {}
func (g EqGoal) String() string { return fmt.Sprintf("%s = %s", g.A.String(), g.B.String()) }

type Quantified struct {
	Kind    QuantifierKind
	Kinds   []VariableKind
	Subgoal Goal
}

func (Quantified) isGoal() {}
func (g Quantified) String() string {
	return fmt.Sprintf("%s<%d> { %s }", g.Kind.String(), len(g.Kinds), g.Subgoal.String())
}

type Implication struct {
	Conditions  []ProgramClause
	Consequence Goal
}

func (Implication) isGoal() {}
func (g Implication) String() string {
	return fmt.Sprintf("if (%d clauses) { %s }", len(g.Conditions), g.Consequence.String())
}

type And struct{ Goals []Goal }

func (And) isGoal() {}
func (g And) String() string {
	parts := make([]string, len(g.Goals))
	for i, sub := range g.Goals {
		parts[i] = sub.String()
	}
	return "(" + strings.Join(parts, " && ") + ")"
}

type Not struct{ Subgoal Goal }

func (Not) isGoal()      {}
func (g Not) String() string { return "!" + g.Subgoal.String() }

// CannotProve is the floundering sentinel (SPEC_FULL.md §7): it is neither
// true nor false, and any answer that depends on it is downgraded to
// Ambig(Unknown) by the aggregator.
type CannotProve struct{}

func (CannotProve) isGoal()      {}
func (CannotProve) String() string { return "cannot-prove" }
