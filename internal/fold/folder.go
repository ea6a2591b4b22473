// Package fold implements the generic structural traversal machinery of
// SPEC_FULL.md §4.7 and §9: a Folder is a capability interface with a fixed
// method set (visit-type, visit-lifetime) that concrete passes (Shifter,
// Substitutor, free-variable collectors) implement; generic Fold* functions
// walk any IR value, rebuilding it while delegating leaf decisions to the
// Folder. Every traversal carries a binder-depth counter so it can adjust
// DeBruijn indices correctly when it crosses a Binders[T].
package fold

import "github.com/gitrdm/traitsolve/internal/ir"

// Folder is the capability interface of §9, with a fixed method set of two
// leaf visits (FoldType, FoldLifetime). Binders have no method of their own:
// the generic Fold* functions cross them and pass the resulting depth to
// each visit. Concrete traversals implement the interface; generic code
// consumes it. depth is the number of binders the generic Fold* functions
// have descended through since the traversal started; implementations that
// care about absolute DeBruijn indices combine it with a node's own
// DebruijnIndex.
type Folder interface {
	FoldType(t ir.Type, depth int) ir.Type
	FoldLifetime(l ir.Lifetime, depth int) ir.Lifetime
}

// FoldType rebuilds t, calling f at every bound-variable, inference-variable
// and placeholder leaf, and recursing structurally through compound nodes.
func FoldType(f Folder, t ir.Type, depth int) ir.Type {
	switch n := t.(type) {
	case ir.AppTy:
		return ir.AppTy{Name: n.Name, Args: FoldSubstitution(f, n.Args, depth)}
	case ir.PlaceholderTy, ir.BoundVarTy, ir.InferenceVarTy:
		return f.FoldType(n, depth)
	case ir.DynTy:
		return ir.DynTy{Bounds: foldWhereClauseBinders(f, n.Bounds, depth)}
	case ir.AliasTy:
		if n.Projection != nil {
			p := *n.Projection
			p.Args = FoldSubstitution(f, p.Args, depth)
			return ir.AliasTy{Projection: &p}
		}
		if n.Opaque != nil {
			o := *n.Opaque
			o.Args = FoldSubstitution(f, o.Args, depth)
			return ir.AliasTy{Opaque: &o}
		}
		return n
	case ir.FnTy:
		innerDepth := depth + n.LifetimeBinders
		params := make([]ir.Type, len(n.Params))
		for i, p := range n.Params {
			params[i] = FoldType(f, p, innerDepth)
		}
		var ret ir.Type
		if n.Return != nil {
			ret = FoldType(f, n.Return, innerDepth)
		}
		return ir.FnTy{LifetimeBinders: n.LifetimeBinders, Params: params, Return: ret}
	default:
		return t
	}
}

func FoldLifetime(f Folder, l ir.Lifetime, depth int) ir.Lifetime {
	switch l.(type) {
	case ir.BoundVarLt, ir.InferenceVarLt, ir.PlaceholderLt:
		return f.FoldLifetime(l, depth)
	default:
		return l
	}
}

func FoldGenericArg(f Folder, g ir.GenericArg, depth int) ir.GenericArg {
	switch g.Kind {
	case ir.KindType:
		return ir.TypeArg(FoldType(f, g.Type, depth))
	case ir.KindLifetime:
		return ir.LifetimeArg(FoldLifetime(f, g.Lifetime, depth))
	default:
		return g
	}
}

func FoldSubstitution(f Folder, s ir.Substitution, depth int) ir.Substitution {
	if s == nil {
		return nil
	}
	out := make(ir.Substitution, len(s))
	for i, g := range s {
		out[i] = FoldGenericArg(f, g, depth)
	}
	return out
}

func FoldWhereClause(f Folder, w ir.WhereClause, depth int) ir.WhereClause {
	switch n := w.(type) {
	case ir.Implemented:
		return ir.Implemented{TraitRef: foldTraitRef(f, n.TraitRef, depth)}
	case ir.AliasEqWC:
		return ir.AliasEqWC{Alias: FoldType(f, n.Alias, depth).(ir.AliasTy), Ty: FoldType(f, n.Ty, depth)}
	case ir.LifetimeOutlivesWC:
		return ir.LifetimeOutlivesWC{A: FoldLifetime(f, n.A, depth), B: FoldLifetime(f, n.B, depth)}
	case ir.TypeOutlivesWC:
		return ir.TypeOutlivesWC{Ty: FoldType(f, n.Ty, depth), Lifetime: FoldLifetime(f, n.Lifetime, depth)}
	default:
		return w
	}
}

func foldTraitRef(f Folder, t ir.TraitRef, depth int) ir.TraitRef {
	return ir.TraitRef{TraitID: t.TraitID, Args: FoldSubstitution(f, t.Args, depth)}
}

func FoldDomainGoal(f Folder, g ir.DomainGoal, depth int) ir.DomainGoal {
	switch n := g.(type) {
	case ir.Holds:
		return ir.Holds{WhereClause: FoldWhereClause(f, n.WhereClause, depth)}
	case ir.WellFormedTy:
		return ir.WellFormedTy{Ty: FoldType(f, n.Ty, depth)}
	case ir.WellFormedTraitRef:
		return ir.WellFormedTraitRef{TraitRef: foldTraitRef(f, n.TraitRef, depth)}
	case ir.FromEnv:
		return ir.FromEnv{WhereClause: FoldWhereClause(f, n.WhereClause, depth)}
	case ir.Normalize:
		return ir.Normalize{Alias: FoldType(f, n.Alias, depth).(ir.AliasTy), Ty: FoldType(f, n.Ty, depth)}
	case ir.IsLocal:
		return ir.IsLocal{Ty: FoldType(f, n.Ty, depth)}
	case ir.IsUpstream:
		return ir.IsUpstream{Ty: FoldType(f, n.Ty, depth)}
	case ir.LocalImplAllowed:
		return ir.LocalImplAllowed{TraitRef: foldTraitRef(f, n.TraitRef, depth)}
	default:
		return g
	}
}

func FoldGoal(f Folder, g ir.Goal, depth int) ir.Goal {
	switch n := g.(type) {
	case ir.DomainGoalNode:
		return ir.DomainGoalNode{Goal: FoldDomainGoal(f, n.Goal, depth)}
	case ir.EqGoal:
		return ir.EqGoal{A: FoldGenericArg(f, n.A, depth), B: FoldGenericArg(f, n.B, depth)}
	case ir.Quantified:
		return ir.Quantified{Kind: n.Kind, Kinds: n.Kinds, Subgoal: FoldGoal(f, n.Subgoal, depth+len(n.Kinds))}
	case ir.Implication:
		conds := make([]ir.ProgramClause, len(n.Conditions))
		for i, c := range n.Conditions {
			conds[i] = FoldProgramClause(f, c, depth)
		}
		return ir.Implication{Conditions: conds, Consequence: FoldGoal(f, n.Consequence, depth)}
	case ir.And:
		goals := make([]ir.Goal, len(n.Goals))
		for i, sub := range n.Goals {
			goals[i] = FoldGoal(f, sub, depth)
		}
		return ir.And{Goals: goals}
	case ir.Not:
		return ir.Not{Subgoal: FoldGoal(f, n.Subgoal, depth)}
	default:
		return g
	}
}

func FoldProgramClause(f Folder, c ir.ProgramClause, depth int) ir.ProgramClause {
	innerDepth := depth + len(c.Kinds)
	conds := make([]ir.Goal, len(c.Value.Conditions))
	for i, g := range c.Value.Conditions {
		conds[i] = FoldGoal(f, g, innerDepth)
	}
	return ir.Binders[ir.ProgramClauseImplication]{
		Kinds: c.Kinds,
		Value: ir.ProgramClauseImplication{
			Consequence: FoldDomainGoal(f, c.Value.Consequence, innerDepth),
			Conditions:  conds,
			Priority:    c.Value.Priority,
		},
	}
}

func foldWhereClauseBinders(f Folder, b ir.Binders[[]ir.WhereClause], depth int) ir.Binders[[]ir.WhereClause] {
	innerDepth := depth + len(b.Kinds)
	out := make([]ir.WhereClause, len(b.Value))
	for i, w := range b.Value {
		out[i] = FoldWhereClause(f, w, innerDepth)
	}
	return ir.Binders[[]ir.WhereClause]{Kinds: b.Kinds, Value: out}
}
