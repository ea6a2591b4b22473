package fold

import "github.com/gitrdm/traitsolve/internal/ir"

// Substitutor implements capture-avoiding substitution: it replaces a bound
// variable that refers to the binder immediately being removed with the
// corresponding generic argument (shifted to account for binders crossed
// since the substitution site), and renumbers bound variables referring
// further out now that one enclosing binder is gone.
type Substitutor struct {
	Args ir.Substitution
}

func (s Substitutor) FoldType(t ir.Type, depth int) ir.Type {
	bv, ok := t.(ir.BoundVarTy)
	if !ok {
		return t
	}
	switch {
	case bv.DebruijnIndex == depth:
		arg := s.Args[bv.Index]
		return ShiftType(arg.Type, depth)
	case bv.DebruijnIndex > depth:
		return ir.BoundVarTy{DebruijnIndex: bv.DebruijnIndex - 1, Index: bv.Index}
	default:
		return bv
	}
}

func (s Substitutor) FoldLifetime(l ir.Lifetime, depth int) ir.Lifetime {
	bv, ok := l.(ir.BoundVarLt)
	if !ok {
		return l
	}
	switch {
	case bv.DebruijnIndex == depth:
		arg := s.Args[bv.Index]
		return ShiftLifetime(arg.Lifetime, depth)
	case bv.DebruijnIndex > depth:
		return ir.BoundVarLt{DebruijnIndex: bv.DebruijnIndex - 1, Index: bv.Index}
	default:
		return bv
	}
}

// SubstituteType opens one binder level of a type body, replacing
// references to it with args.
func SubstituteType(body ir.Type, args ir.Substitution) ir.Type {
	return FoldType(Substitutor{Args: args}, body, 0)
}

func SubstituteGoal(body ir.Goal, args ir.Substitution) ir.Goal {
	return FoldGoal(Substitutor{Args: args}, body, 0)
}

func SubstituteDomainGoal(body ir.DomainGoal, args ir.Substitution) ir.DomainGoal {
	return FoldDomainGoal(Substitutor{Args: args}, body, 0)
}

func SubstituteWhereClause(body ir.WhereClause, args ir.Substitution) ir.WhereClause {
	return FoldWhereClause(Substitutor{Args: args}, body, 0)
}

func SubstituteProgramClauseImplication(body ir.ProgramClauseImplication, args ir.Substitution) ir.ProgramClauseImplication {
	wrapped := ir.Binders[ir.ProgramClauseImplication]{Kinds: nil, Value: body}
	folded := FoldProgramClause(Substitutor{Args: args}, wrapped, 0)
	return folded.Value
}

func SubstituteGenericArg(body ir.GenericArg, args ir.Substitution) ir.GenericArg {
	return FoldGenericArg(Substitutor{Args: args}, body, 0)
}

func SubstituteSubstitution(body ir.Substitution, args ir.Substitution) ir.Substitution {
	return FoldSubstitution(Substitutor{Args: args}, body, 0)
}

func SubstituteWhereClauseSlice(body []ir.WhereClause, args ir.Substitution) []ir.WhereClause {
	out := make([]ir.WhereClause, len(body))
	for i, w := range body {
		out[i] = SubstituteWhereClause(w, args)
	}
	return out
}
