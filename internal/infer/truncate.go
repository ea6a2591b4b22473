package infer

import "github.com/gitrdm/traitsolve/internal/ir"

// Truncator bounds the size of a type as it is built up during unification
// or clause instantiation, the defence SPEC_FULL.md §4.4 names against
// infinite types (Vec<Vec<Vec<...>>> arising from an unbounded recursive
// impl): once the node budget is spent, every remaining subtree is replaced
// by a fresh inference variable and Truncated is set so the caller does not
// report the eventual answer as Unique (internal/aggregate turns a truncated
// table into AmbigDefinite or AmbigSuggested).
type Truncator struct {
	table     *InferenceTable
	universe  int
	remaining int
	Truncated bool
}

func NewTruncator(table *InferenceTable, universe, maxSize int) *Truncator {
	return &Truncator{table: table, universe: universe, remaining: maxSize}
}

func (t *Truncator) TruncateType(ty ir.Type) ir.Type {
	if t.remaining <= 0 {
		t.Truncated = true
		return ir.InferenceVarTy{Var: t.table.NewVariable(t.universe)}
	}
	t.remaining--
	switch n := ty.(type) {
	case ir.AppTy:
		return ir.AppTy{Name: n.Name, Args: t.truncateSubstitution(n.Args)}
	case ir.FnTy:
		params := make([]ir.Type, len(n.Params))
		for i, p := range n.Params {
			params[i] = t.TruncateType(p)
		}
		var ret ir.Type
		if n.Return != nil {
			ret = t.TruncateType(n.Return)
		}
		return ir.FnTy{LifetimeBinders: n.LifetimeBinders, Params: params, Return: ret}
	case ir.AliasTy:
		if n.Projection != nil {
			p := *n.Projection
			p.Args = t.truncateSubstitution(p.Args)
			return ir.AliasTy{Projection: &p}
		}
		if n.Opaque != nil {
			o := *n.Opaque
			o.Args = t.truncateSubstitution(o.Args)
			return ir.AliasTy{Opaque: &o}
		}
		return n
	default:
		// Placeholder, bound variable, inference variable, dyn: leaves for
		// truncation purposes. dyn's where-clauses are not expanded further
		// since no example in this engine nests dyn deeply enough to matter.
		return ty
	}
}

func (t *Truncator) truncateSubstitution(s ir.Substitution) ir.Substitution {
	if s == nil {
		return nil
	}
	out := make(ir.Substitution, len(s))
	for i, a := range s {
		if a.Kind == ir.KindType {
			out[i] = ir.TypeArg(t.TruncateType(a.Type))
		} else {
			out[i] = a
		}
	}
	return out
}

// TruncateType is a convenience entry point for the common case of
// truncating a single type against a fresh budget.
func TruncateType(table *InferenceTable, universe, maxSize int, ty ir.Type) (ir.Type, bool) {
	tr := NewTruncator(table, universe, maxSize)
	out := tr.TruncateType(ty)
	return out, tr.Truncated
}
