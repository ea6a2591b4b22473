// Package zip implements the structural zipper of SPEC_FULL.md §4.7: it
// walks two terms in parallel, requiring the outer shape to match and
// delegating type/lifetime leaf pairs to a caller-supplied Callback. The
// unifier (internal/infer) and the program-clause matcher's could-match
// fast-reject (internal/clauses) are both instances of this same walk.
package zip

import (
	"errors"
	"fmt"

	"github.com/gitrdm/traitsolve/internal/ir"
)

// ErrShapeMismatch is returned whenever the two terms being zipped cannot
// possibly denote the same value: different nominal names, different
// arities, or one a compound the other a leaf of a different sort.
var ErrShapeMismatch = errors.New("zip: shape mismatch")

// Callback receives every pair of corresponding leaves the zipper finds.
// depth counts the binders crossed so far, exactly as in internal/fold.
type Callback interface {
	MatchTypes(a, b ir.Type, depth int) error
	MatchLifetimes(a, b ir.Lifetime, depth int) error
}

// isLeaf reports whether a Type is a node the zipper always hands to the
// callback rather than recursing into: bound variables, inference
// variables, and placeholders have no substructure to zip.
func isLeaf(t ir.Type) bool {
	switch t.(type) {
	case ir.BoundVarTy, ir.InferenceVarTy, ir.PlaceholderTy:
		return true
	default:
		return false
	}
}

// ZipTypes pairs up a and b structurally. Two compound nodes of the same
// shape recurse into their children; anything else (a leaf on either side,
// or compounds of different nominal identity) is handed to cb, which
// decides whether e.g. a placeholder matches an inference variable.
func ZipTypes(cb Callback, a, b ir.Type, depth int) error {
	if isLeaf(a) || isLeaf(b) {
		return cb.MatchTypes(a, b, depth)
	}
	switch x := a.(type) {
	case ir.AppTy:
		y, ok := b.(ir.AppTy)
		if !ok || x.Name != y.Name || len(x.Args) != len(y.Args) {
			return fmt.Errorf("%w: Adt#%d vs %T", ErrShapeMismatch, x.Name, b)
		}
		return zipSubstitutions(cb, x.Args, y.Args, depth)
	case ir.DynTy:
		y, ok := b.(ir.DynTy)
		if !ok || len(x.Bounds.Kinds) != len(y.Bounds.Kinds) || len(x.Bounds.Value) != len(y.Bounds.Value) {
			return fmt.Errorf("%w: dyn bound shape", ErrShapeMismatch)
		}
		innerDepth := depth + len(x.Bounds.Kinds)
		for i := range x.Bounds.Value {
			if err := zipWhereClauses(cb, x.Bounds.Value[i], y.Bounds.Value[i], innerDepth); err != nil {
				return err
			}
		}
		return nil
	case ir.AliasTy:
		y, ok := b.(ir.AliasTy)
		if !ok {
			return fmt.Errorf("%w: alias vs %T", ErrShapeMismatch, b)
		}
		if x.Projection != nil {
			if y.Projection == nil || x.Projection.AssocTyID != y.Projection.AssocTyID || len(x.Projection.Args) != len(y.Projection.Args) {
				return fmt.Errorf("%w: projection shape", ErrShapeMismatch)
			}
			return zipSubstitutions(cb, x.Projection.Args, y.Projection.Args, depth)
		}
		if x.Opaque != nil {
			if y.Opaque == nil || x.Opaque.OpaqueTyID != y.Opaque.OpaqueTyID || len(x.Opaque.Args) != len(y.Opaque.Args) {
				return fmt.Errorf("%w: opaque shape", ErrShapeMismatch)
			}
			return zipSubstitutions(cb, x.Opaque.Args, y.Opaque.Args, depth)
		}
		return fmt.Errorf("%w: empty alias", ErrShapeMismatch)
	case ir.FnTy:
		y, ok := b.(ir.FnTy)
		if !ok || x.LifetimeBinders != y.LifetimeBinders || len(x.Params) != len(y.Params) {
			return fmt.Errorf("%w: fn shape", ErrShapeMismatch)
		}
		innerDepth := depth + x.LifetimeBinders
		for i := range x.Params {
			if err := ZipTypes(cb, x.Params[i], y.Params[i], innerDepth); err != nil {
				return err
			}
		}
		return ZipTypes(cb, x.Return, y.Return, innerDepth)
	default:
		return fmt.Errorf("%w: unhandled type %T", ErrShapeMismatch, a)
	}
}

func ZipLifetimes(cb Callback, a, b ir.Lifetime, depth int) error {
	return cb.MatchLifetimes(a, b, depth)
}

func ZipGenericArgs(cb Callback, a, b ir.GenericArg, depth int) error {
	if a.Kind != b.Kind {
		return fmt.Errorf("%w: kind %s vs %s", ErrShapeMismatch, a.Kind, b.Kind)
	}
	switch a.Kind {
	case ir.KindType:
		return ZipTypes(cb, a.Type, b.Type, depth)
	case ir.KindLifetime:
		return ZipLifetimes(cb, a.Lifetime, b.Lifetime, depth)
	case ir.KindConst:
		if a.Const == nil || b.Const == nil || !a.Const.Equal(*b.Const) {
			return fmt.Errorf("%w: const mismatch", ErrShapeMismatch)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown kind", ErrShapeMismatch)
	}
}

func zipSubstitutions(cb Callback, a, b ir.Substitution, depth int) error {
	if len(a) != len(b) {
		return fmt.Errorf("%w: substitution arity %d vs %d", ErrShapeMismatch, len(a), len(b))
	}
	for i := range a {
		if err := ZipGenericArgs(cb, a[i], b[i], depth); err != nil {
			return err
		}
	}
	return nil
}

func zipWhereClauses(cb Callback, a, b ir.WhereClause, depth int) error {
	switch x := a.(type) {
	case ir.Implemented:
		y, ok := b.(ir.Implemented)
		if !ok || x.TraitRef.TraitID != y.TraitRef.TraitID {
			return fmt.Errorf("%w: where-clause shape", ErrShapeMismatch)
		}
		return zipSubstitutions(cb, x.TraitRef.Args, y.TraitRef.Args, depth)
	case ir.AliasEqWC:
		y, ok := b.(ir.AliasEqWC)
		if !ok {
			return fmt.Errorf("%w: where-clause shape", ErrShapeMismatch)
		}
		if err := ZipTypes(cb, x.Alias, y.Alias, depth); err != nil {
			return err
		}
		return ZipTypes(cb, x.Ty, y.Ty, depth)
	case ir.LifetimeOutlivesWC:
		y, ok := b.(ir.LifetimeOutlivesWC)
		if !ok {
			return fmt.Errorf("%w: where-clause shape", ErrShapeMismatch)
		}
		if err := ZipLifetimes(cb, x.A, y.A, depth); err != nil {
			return err
		}
		return ZipLifetimes(cb, x.B, y.B, depth)
	case ir.TypeOutlivesWC:
		y, ok := b.(ir.TypeOutlivesWC)
		if !ok {
			return fmt.Errorf("%w: where-clause shape", ErrShapeMismatch)
		}
		if err := ZipTypes(cb, x.Ty, y.Ty, depth); err != nil {
			return err
		}
		return ZipLifetimes(cb, x.Lifetime, y.Lifetime, depth)
	default:
		return fmt.Errorf("%w: unhandled where-clause %T", ErrShapeMismatch, a)
	}
}

// couldMatchCallback drives the fast-reject test of SPEC_FULL.md §3
// ("Program-clause matcher"): CouldMatchTypes is ZipTypes with this
// Callback, which accepts any leaf pairing
// (placeholders, inference variables and bound variables can always unify
// with anything at this stage) and only fails on a genuine shape mismatch.
type couldMatchCallback struct{}

func (couldMatchCallback) MatchTypes(a, b ir.Type, depth int) error     { return nil }
func (couldMatchCallback) MatchLifetimes(a, b ir.Lifetime, depth int) error { return nil }

// CouldMatchTypes reports whether a and b have compatible top-level shape,
// i.e. unification is not immediately doomed by a name/arity mismatch.
func CouldMatchTypes(a, b ir.Type) bool {
	return ZipTypes(couldMatchCallback{}, a, b, 0) == nil
}

// CouldMatchDomainGoal fast-rejects a clause whose consequence names a
// different trait/ADT/projection than the goal, without running full
// unification (SPEC_FULL.md §3: "Quickly reject clauses whose consequence
// cannot unify with a goal (names must agree)").
func CouldMatchDomainGoal(goal, consequence ir.DomainGoal) bool {
	switch g := goal.(type) {
	case ir.Holds:
		c, ok := consequence.(ir.Holds)
		if !ok {
			return false
		}
		return couldMatchWhereClause(g.WhereClause, c.WhereClause)
	case ir.WellFormedTy:
		c, ok := consequence.(ir.WellFormedTy)
		return ok && CouldMatchTypes(g.Ty, c.Ty)
	case ir.WellFormedTraitRef:
		c, ok := consequence.(ir.WellFormedTraitRef)
		return ok && g.TraitRef.TraitID == c.TraitRef.TraitID
	case ir.FromEnv:
		c, ok := consequence.(ir.FromEnv)
		return ok && couldMatchWhereClause(g.WhereClause, c.WhereClause)
	case ir.Normalize:
		c, ok := consequence.(ir.Normalize)
		return ok && CouldMatchTypes(g.Alias, c.Alias)
	case ir.IsLocal:
		c, ok := consequence.(ir.IsLocal)
		return ok && CouldMatchTypes(g.Ty, c.Ty)
	case ir.IsUpstream:
		c, ok := consequence.(ir.IsUpstream)
		return ok && CouldMatchTypes(g.Ty, c.Ty)
	case ir.Compatible:
		_, ok := consequence.(ir.Compatible)
		return ok
	case ir.LocalImplAllowed:
		c, ok := consequence.(ir.LocalImplAllowed)
		return ok && g.TraitRef.TraitID == c.TraitRef.TraitID
	default:
		return false
	}
}

func couldMatchWhereClause(a, b ir.WhereClause) bool {
	switch x := a.(type) {
	case ir.Implemented:
		y, ok := b.(ir.Implemented)
		return ok && x.TraitRef.TraitID == y.TraitRef.TraitID
	case ir.AliasEqWC:
		y, ok := b.(ir.AliasEqWC)
		return ok && CouldMatchTypes(x.Alias, y.Alias)
	case ir.LifetimeOutlivesWC:
		_, ok := b.(ir.LifetimeOutlivesWC)
		return ok
	case ir.TypeOutlivesWC:
		_, ok := b.(ir.TypeOutlivesWC)
		return ok
	default:
		return false
	}
}
