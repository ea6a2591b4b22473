package ir

import (
	"fmt"
	"strings"
)

// Type is the polymorphic sum described in SPEC_FULL.md §3: apply,
// placeholder, dyn, alias, function, bound-variable, inference-variable.
//
// Type nodes are plain immutable Go values rather than interned handles
// (see DESIGN.md for why the "single canonical interner" note in spec.md §9
// is satisfied by identifier interning in Interner, not by handle-interning
// every node): equality is always structural, computed by TypesEqual, and
// traversal is always external, via the Folder capability interface in
// internal/fold.
type Type interface {
	isType()
	String() string
}

// AppTy applies a nominal type (an ADT, by id) to a sequence of generic
// arguments: e.g. Vec<Foo> is AppTy{Name: vecID, Args: [Foo]}.
type AppTy struct {
	Name AdtID
	Args Substitution
}

func (AppTy) isType() {}
func (t AppTy) String() string {
	if len(t.Args) == 0 {
		return fmt.Sprintf("Adt#%d", int(t.Name))
	}
	return fmt.Sprintf("Adt#%d%s", int(t.Name), t.Args.String())
}

// PlaceholderTy is a skolemized universal variable: "some specific but
// unknown" type living in a given universe.
type PlaceholderTy struct {
	Universe int
	Idx      int
}

func (PlaceholderTy) isType() {}
func (t PlaceholderTy) String() string { return fmt.Sprintf("!%d_%d", t.Universe, t.Idx) }

// DynTy is a dynamic trait object: a type existentially bound by a set of
// trait bounds, e.g. "dyn Foo + 'a".
type DynTy struct {
	Bounds Binders[[]WhereClause]
}

func (DynTy) isType() {}
func (t DynTy) String() string { return fmt.Sprintf("dyn(%s)", t.Bounds.String()) }

// AliasTy is a projection of an associated type, or a reference to an
// opaque ("impl Trait") type.
type AliasTy struct {
	Projection *ProjectionTy // mutually exclusive with Opaque
	Opaque     *OpaqueTyRef
}

func (AliasTy) isType() {}
func (t AliasTy) String() string {
	if t.Projection != nil {
		return t.Projection.String()
	}
	if t.Opaque != nil {
		return t.Opaque.String()
	}
	return "<alias:empty>"
}

// ProjectionTy names an associated-type projection: <Self as Trait>::Assoc.
type ProjectionTy struct {
	AssocTyID AssocTyID
	Args      Substitution // Args[0] is the Self type, by convention
}

func (p ProjectionTy) String() string { return fmt.Sprintf("Proj#%d%s", int(p.AssocTyID), p.Args.String()) }

// OpaqueTyRef names an opaque ("impl Trait") type by id plus the generic
// arguments closing over its defining scope.
type OpaqueTyRef struct {
	OpaqueTyID OpaqueTyID
	Args       Substitution
}

func (o OpaqueTyRef) String() string { return fmt.Sprintf("Opaque#%d%s", int(o.OpaqueTyID), o.Args.String()) }

// FnTy is a (possibly higher-ranked) function pointer type, quantified over
// a number of late-bound lifetime parameters.
type FnTy struct {
	LifetimeBinders int
	Params          []Type
	Return          Type
}

func (FnTy) isType() {}
func (t FnTy) String() string {
	parts := make([]string, len(t.Params))
	for i, p := range t.Params {
		parts[i] = p.String()
	}
	prefix := ""
	if t.LifetimeBinders > 0 {
		prefix = fmt.Sprintf("for<%d> ", t.LifetimeBinders)
	}
	ret := "()"
	if t.Return != nil {
		ret = t.Return.String()
	}
	return fmt.Sprintf("%sfn(%s) -> %s", prefix, strings.Join(parts, ", "), ret)
}

// BoundVarTy is a DeBruijn-indexed reference to a binder slot: DebruijnIndex
// counts enclosing binders crossed (0 = innermost), Index selects the slot
// within that binder. Invariant (SPEC_FULL.md §3): DebruijnIndex must be
// less than the number of binders enclosing the value in which this node
// appears.
type BoundVarTy struct {
	DebruijnIndex int
	Index         int
}

func (BoundVarTy) isType() {}
func (t BoundVarTy) String() string { return fmt.Sprintf("^%d.%d", t.DebruijnIndex, t.Index) }

// InferenceVarTy names an inference variable tracked by an InferenceTable
// (internal/infer).
type InferenceVarTy struct {
	Var InferenceVar
}

func (InferenceVarTy) isType() {}
func (t InferenceVarTy) String() string { return t.Var.String() }

// InferenceVar identifies one slot of a particular kind in an inference
// table's union-find. Two InferenceVars are the same variable iff both
// fields are equal; the kind is redundant with context but carried along so
// a InferenceVar is self-describing wherever it escapes its table (e.g. in
// trace output).
type InferenceVar struct {
	Kind  Kind
	Index int
}

func (v InferenceVar) String() string { return fmt.Sprintf("?%d", v.Index) }

// TypesEqual reports whether two types are structurally identical (not
// unifiable -- identical). Used by the trivial-answer cut (§4.3) and by
// answer deduplication (§3 invariant: "Answers stored in a table are
// pairwise distinct").
func TypesEqual(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case AppTy:
		y, ok := b.(AppTy)
		return ok && x.Name == y.Name && SubstitutionsEqual(x.Args, y.Args)
	case PlaceholderTy:
		y, ok := b.(PlaceholderTy)
		return ok && x == y
	case DynTy:
		y, ok := b.(DynTy)
		return ok && bindersWhereClausesEqual(x.Bounds, y.Bounds)
	case AliasTy:
		y, ok := b.(AliasTy)
		if !ok {
			return false
		}
		if (x.Projection == nil) != (y.Projection == nil) || (x.Opaque == nil) != (y.Opaque == nil) {
			return false
		}
		if x.Projection != nil {
			return x.Projection.AssocTyID == y.Projection.AssocTyID && SubstitutionsEqual(x.Projection.Args, y.Projection.Args)
		}
		if x.Opaque != nil {
			return x.Opaque.OpaqueTyID == y.Opaque.OpaqueTyID && SubstitutionsEqual(x.Opaque.Args, y.Opaque.Args)
		}
		return true
	case FnTy:
		y, ok := b.(FnTy)
		if !ok || x.LifetimeBinders != y.LifetimeBinders || len(x.Params) != len(y.Params) {
			return false
		}
		for i := range x.Params {
			if !TypesEqual(x.Params[i], y.Params[i]) {
				return false
			}
		}
		return TypesEqual(x.Return, y.Return)
	case BoundVarTy:
		y, ok := b.(BoundVarTy)
		return ok && x == y
	case InferenceVarTy:
		y, ok := b.(InferenceVarTy)
		return ok && x.Var == y.Var
	default:
		return false
	}
}

func bindersWhereClausesEqual(a, b Binders[[]WhereClause]) bool {
	if len(a.Kinds) != len(b.Kinds) || len(a.Value) != len(b.Value) {
		return false
	}
	for i := range a.Kinds {
		if a.Kinds[i] != b.Kinds[i] {
			return false
		}
	}
	for i := range a.Value {
		if !WhereClausesEqual(a.Value[i], b.Value[i]) {
			return false
		}
	}
	return true
}
