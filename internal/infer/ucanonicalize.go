package infer

import (
	"sort"

	"github.com/gitrdm/traitsolve/internal/fold"
	"github.com/gitrdm/traitsolve/internal/ir"
)

// universeCanonicalizer rewrites every PlaceholderTy/PlaceholderLt universe
// through a fixed UniverseMap. It never touches inference variables; by the
// time universe-canonicalization runs, Canonicalize has already replaced
// them with bound-variable slots.
type universeCanonicalizer struct {
	m *ir.UniverseMap
}

func (u universeCanonicalizer) FoldType(t ir.Type, depth int) ir.Type {
	ph, ok := t.(ir.PlaceholderTy)
	if !ok {
		return t
	}
	return ir.PlaceholderTy{Universe: u.m.MapToCompressed(ph.Universe), Idx: ph.Idx}
}

func (u universeCanonicalizer) FoldLifetime(l ir.Lifetime, depth int) ir.Lifetime {
	ph, ok := l.(ir.PlaceholderLt)
	if !ok {
		return l
	}
	return ir.PlaceholderLt{Universe: u.m.MapToCompressed(ph.Universe), Idx: ph.Idx}
}

type placeholderCollector struct{ universes map[int]bool }

func (p placeholderCollector) FoldType(t ir.Type, depth int) ir.Type {
	if ph, ok := t.(ir.PlaceholderTy); ok {
		p.universes[ph.Universe] = true
	}
	return t
}

func (p placeholderCollector) FoldLifetime(l ir.Lifetime, depth int) ir.Lifetime {
	if ph, ok := l.(ir.PlaceholderLt); ok {
		p.universes[ph.Universe] = true
	}
	return l
}

// UCanonicalize renumbers every universe reachable from c (both the
// variable-kind universes recorded in its binders and any placeholder
// universe mentioned in its value) to a dense range 0..k-1 in increasing
// order of original universe, so that two U-canonical goals differing only
// by which universes chalk happened to allocate compare equal
// (SPEC_FULL.md §3, §4.6). foldFn must be the fold.Fold* function matching
// T, exactly as InstantiateExistentially requires.
func UCanonicalize[T any](c ir.Canonical[T], foldFn func(fold.Folder, T, int) T) (ir.UCanonical[T], *ir.UniverseMap) {
	seen := map[int]bool{ir.RootUniverse: true}
	for _, k := range c.Binders {
		seen[k.Universe] = true
	}
	pc := placeholderCollector{universes: seen}
	foldFn(pc, c.Value, 0)

	ordered := make([]int, 0, len(seen))
	for u := range seen {
		ordered = append(ordered, u)
	}
	sort.Ints(ordered)

	m := ir.NewUniverseMap()
	for i, u := range ordered {
		m.Add(u, i)
	}

	newBinders := make([]ir.CanonicalVarKind, len(c.Binders))
	for i, k := range c.Binders {
		newBinders[i] = ir.CanonicalVarKind{Kind: k.Kind, Universe: m.MapToCompressed(k.Universe)}
	}
	newValue := foldFn(universeCanonicalizer{m: m}, c.Value, 0)

	return ir.UCanonical[T]{
		Canonical: ir.Canonical[T]{Binders: newBinders, Value: newValue},
		Universes: len(ordered),
	}, m
}
