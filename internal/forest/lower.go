package forest

import "github.com/gitrdm/traitsolve/internal/ir"

// clausesFor discovers every program clause whose consequence could apply
// to goal, consulting the program's impls (SPEC_FULL.md §4.8 step "collect
// clauses: impls, environment, and built-ins"). Environment and custom
// clauses are folded in by the caller; this only covers what the impl
// database itself contributes.
func clausesFor(p ir.Program, goal ir.DomainGoal) []ir.ProgramClause {
	switch g := goal.(type) {
	case ir.Holds:
		if impl, ok := g.WhereClause.(ir.Implemented); ok {
			return implClauses(p, impl.TraitRef.TraitID)
		}
		return nil
	case ir.Normalize:
		return normalizeClauses(p, g)
	default:
		return nil
	}
}

func implClauses(p ir.Program, traitID ir.TraitID) []ir.ProgramClause {
	var out []ir.ProgramClause
	for _, implID := range p.ImplsForTrait(traitID) {
		impl, ok := p.Impl(implID)
		if !ok || impl.Polarity != ir.Positive {
			continue
		}
		conditions := make([]ir.Goal, len(impl.Binders.Value.WhereClauses))
		for i, wc := range impl.Binders.Value.WhereClauses {
			conditions[i] = ir.DomainGoalNode{Goal: ir.Holds{WhereClause: wc}}
		}
		out = append(out, ir.ProgramClause{
			Kinds: impl.Binders.Kinds,
			Value: ir.ProgramClauseImplication{
				Consequence: ir.Holds{WhereClause: ir.Implemented{TraitRef: impl.Binders.Value.TraitRef}},
				Conditions:  conditions,
				Priority:    ir.PriorityLow,
			},
		})
	}
	return out
}

func normalizeClauses(p ir.Program, g ir.Normalize) []ir.ProgramClause {
	if g.Alias.Projection == nil {
		return nil
	}
	var out []ir.ProgramClause
	for _, valueID := range p.AssocTyValuesForAssocTy(g.Alias.Projection.AssocTyID) {
		val, ok := p.AssocTyValue(valueID)
		if !ok {
			continue
		}
		impl, ok := p.Impl(val.ImplID)
		if !ok || impl.Polarity != ir.Positive {
			continue
		}
		conditions := make([]ir.Goal, len(impl.Binders.Value.WhereClauses))
		for i, wc := range impl.Binders.Value.WhereClauses {
			conditions[i] = ir.DomainGoalNode{Goal: ir.Holds{WhereClause: wc}}
		}
		out = append(out, ir.ProgramClause{
			Kinds: val.Binders.Kinds,
			Value: ir.ProgramClauseImplication{
				Consequence: ir.Normalize{
					Alias: ir.AliasTy{Projection: &ir.ProjectionTy{
						AssocTyID: g.Alias.Projection.AssocTyID,
						Args:      impl.Binders.Value.TraitRef.Args,
					}},
					Ty: val.Binders.Value,
				},
				Conditions: conditions,
				Priority:   ir.PriorityLow,
			},
		})
	}
	return out
}
