// Package infer implements the mutable inference state of SPEC_FULL.md
// §4.4-§4.6: a union-find style InferenceTable over type and lifetime
// variables, the Unifier that grows it, and the Canonicalizer,
// UniverseCanonicalizer, Truncator and Inverter that translate between the
// mutable world (inference variables, live universes) and the immutable
// canonical world the forest stores answers in.
//
// A bound variable's "value" may itself name another unbound variable --
// that is how two variables get unioned, mirroring the redirect chains of a
// classic union-find forest (the role ena::UnificationTable plays in the
// original chalk implementation, named in original_source) without pulling
// in an external union-find dependency for what is, here, a few dozen lines.
package infer

import (
	"fmt"
	"sync"

	"github.com/gitrdm/traitsolve/internal/fold"
	"github.com/gitrdm/traitsolve/internal/ir"
)

type typeVarData struct {
	universe int
	value    ir.Type // nil: unbound
}

type ltVarData struct {
	universe int
	value    ir.Lifetime // nil: unbound
}

// InferenceTable is the solver's scratchpad for one proof attempt: every
// existential variable introduced while pursuing a strand lives here until
// the strand's answer is canonicalized back out (§4.4, §4.6). It is not
// shared across Forest instances; SPEC_FULL.md §5 requires one per
// concurrent top-level solve.
type InferenceTable struct {
	mu        sync.Mutex
	typeVars  []typeVarData
	ltVars    []ltVarData
	nextUniv  int
}

func NewInferenceTable() *InferenceTable {
	return &InferenceTable{nextUniv: ir.RootUniverse}
}

// NewUniverse allocates a universe strictly greater than every universe
// handed out so far by this table, for skolemizing a freshly-encountered
// forall binder (SPEC_FULL.md §4.6 "instantiate-binders-universally").
func (t *InferenceTable) NewUniverse() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nextUniv++
	return t.nextUniv
}

// NewVariable introduces a fresh type inference variable scoped to universe.
func (t *InferenceTable) NewVariable(universe int) ir.InferenceVar {
	t.mu.Lock()
	defer t.mu.Unlock()
	idx := len(t.typeVars)
	t.typeVars = append(t.typeVars, typeVarData{universe: universe})
	return ir.InferenceVar{Kind: ir.KindType, Index: idx}
}

// NewLifetimeVariable introduces a fresh lifetime inference variable.
func (t *InferenceTable) NewLifetimeVariable(universe int) ir.InferenceVar {
	t.mu.Lock()
	defer t.mu.Unlock()
	idx := len(t.ltVars)
	t.ltVars = append(t.ltVars, ltVarData{universe: universe})
	return ir.InferenceVar{Kind: ir.KindLifetime, Index: idx}
}

// Universe reports a variable's current universe: the one it was allocated
// in, unless binding has since lowered it (see lowerUniverseLocked).
func (t *InferenceTable) Universe(v ir.InferenceVar) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.universeLocked(v)
}

func (t *InferenceTable) universeLocked(v ir.InferenceVar) int {
	switch v.Kind {
	case ir.KindLifetime:
		return t.ltVars[v.Index].universe
	default:
		return t.typeVars[v.Index].universe
	}
}

func (t *InferenceTable) lowerUniverseLocked(v ir.InferenceVar, universe int) {
	switch v.Kind {
	case ir.KindLifetime:
		if universe < t.ltVars[v.Index].universe {
			t.ltVars[v.Index].universe = universe
		}
	default:
		if universe < t.typeVars[v.Index].universe {
			t.typeVars[v.Index].universe = universe
		}
	}
}

// ProbeType follows v's redirect chain one hop at a time until it reaches
// either an unbound variable or a non-variable value. It does not recurse
// into the value's substructure; use ResolveType for that.
func (t *InferenceTable) ProbeType(ty ir.Type) ir.Type {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.probeTypeLocked(ty)
}

func (t *InferenceTable) probeTypeLocked(ty ir.Type) ir.Type {
	for {
		iv, ok := ty.(ir.InferenceVarTy)
		if !ok {
			return ty
		}
		data := t.typeVars[iv.Var.Index]
		if data.value == nil {
			return ty
		}
		ty = data.value
	}
}

func (t *InferenceTable) ProbeLifetime(l ir.Lifetime) ir.Lifetime {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.probeLifetimeLocked(l)
}

func (t *InferenceTable) probeLifetimeLocked(l ir.Lifetime) ir.Lifetime {
	for {
		iv, ok := l.(ir.InferenceVarLt)
		if !ok {
			return l
		}
		data := t.ltVars[iv.Var.Index]
		if data.value == nil {
			return l
		}
		l = data.value
	}
}

// unifyTypeVars unions two unbound type variables, redirecting the one with
// the higher allocation universe at the other so the union keeps the
// tighter universe, matching the "unify must not widen a variable's
// universe" rule SPEC_FULL.md §4.5 inherits from the original unifier.
func (t *InferenceTable) unifyTypeVars(a, b ir.InferenceVar) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if a == b {
		return nil
	}
	if t.typeVars[a.Index].universe <= t.typeVars[b.Index].universe {
		t.typeVars[b.Index].value = ir.InferenceVarTy{Var: a}
	} else {
		t.typeVars[a.Index].value = ir.InferenceVarTy{Var: b}
	}
	return nil
}

func (t *InferenceTable) unifyLifetimeVars(a, b ir.InferenceVar) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if a == b {
		return nil
	}
	if t.ltVars[a.Index].universe <= t.ltVars[b.Index].universe {
		t.ltVars[b.Index].value = ir.InferenceVarLt{Var: a}
	} else {
		t.ltVars[a.Index].value = ir.InferenceVarLt{Var: b}
	}
	return nil
}

// bindType binds v to value, after checking for an occurrence of v inside
// value (which would create an infinite type) and lowering the universe of
// every variable free in value that currently sits in a universe v cannot
// see (the universe-respecting half of SPEC_FULL.md §4.5's "may only unify
// with placeholders and variables it can see").
func (t *InferenceTable) bindType(v ir.InferenceVar, value ir.Type) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	vars, maxPlaceholder := freeVarsAndMaxPlaceholder(value)
	for _, fv := range vars {
		if fv == v {
			return fmt.Errorf("infer: occurs check failed binding %s", v)
		}
	}
	universe := t.universeLocked(v)
	if maxPlaceholder > universe {
		return fmt.Errorf("infer: universe violation binding %s (universe %d) to a value naming a placeholder of universe %d", v, universe, maxPlaceholder)
	}
	for _, fv := range vars {
		t.lowerUniverseLocked(fv, universe)
	}
	t.typeVars[v.Index].value = value
	return nil
}

func (t *InferenceTable) bindLifetime(v ir.InferenceVar, value ir.Lifetime) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if iv, ok := value.(ir.InferenceVarLt); ok && iv.Var == v {
		return nil
	}
	t.ltVars[v.Index].value = value
	return nil
}

// Snapshot captures enough of the table's state to undo every binding made
// since it was taken. Rollback also truncates away every variable allocated
// after the snapshot, which is safe because nothing outside this package ever
// keeps an InferenceVar referring past the truncation point alive across a
// Rollback (SPEC_FULL.md §4.8's clause-trial loop always takes a fresh
// Snapshot immediately before instantiating a candidate clause's binders).
type Snapshot struct {
	typeVars []typeVarData
	ltVars   []ltVarData
}

func (t *InferenceTable) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	tv := make([]typeVarData, len(t.typeVars))
	copy(tv, t.typeVars)
	lv := make([]ltVarData, len(t.ltVars))
	copy(lv, t.ltVars)
	return Snapshot{typeVars: tv, ltVars: lv}
}

func (t *InferenceTable) Rollback(s Snapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.typeVars = t.typeVars[:len(s.typeVars)]
	copy(t.typeVars, s.typeVars)
	t.ltVars = t.ltVars[:len(s.ltVars)]
	copy(t.ltVars, s.ltVars)
}

// ResolveType deep-normalizes ty, replacing every bound inference variable with
// its (recursively resolved) value. Unbound variables are left as is.
func (t *InferenceTable) ResolveType(ty ir.Type) ir.Type {
	return fold.FoldType(resolver{t}, ty, 0)
}

func (t *InferenceTable) ResolveGoal(g ir.Goal) ir.Goal {
	return fold.FoldGoal(resolver{t}, g, 0)
}

func (t *InferenceTable) ResolveSubstitution(s ir.Substitution) ir.Substitution {
	return fold.FoldSubstitution(resolver{t}, s, 0)
}

type resolver struct{ table *InferenceTable }

func (r resolver) FoldType(t ir.Type, depth int) ir.Type {
	iv, ok := t.(ir.InferenceVarTy)
	if !ok {
		return t
	}
	probed := r.table.ProbeType(iv)
	if _, stillVar := probed.(ir.InferenceVarTy); stillVar {
		return probed
	}
	return fold.FoldType(r, probed, 0)
}

func (r resolver) FoldLifetime(l ir.Lifetime, depth int) ir.Lifetime {
	iv, ok := l.(ir.InferenceVarLt)
	if !ok {
		return l
	}
	probed := r.table.ProbeLifetime(iv)
	if _, stillVar := probed.(ir.InferenceVarLt); stillVar {
		return probed
	}
	return fold.FoldLifetime(r, probed, 0)
}

// freeVarsAndMaxPlaceholder walks ty (unlocked -- callers hold t.mu)
// collecting every inference variable mentioned and the highest placeholder
// universe mentioned.
func freeVarsAndMaxPlaceholder(ty ir.Type) ([]ir.InferenceVar, int) {
	var c collector
	fold.FoldType(&c, ty, 0)
	return c.vars, c.maxUniverse
}

type collector struct {
	vars        []ir.InferenceVar
	maxUniverse int
}

func (c *collector) FoldType(t ir.Type, depth int) ir.Type {
	switch n := t.(type) {
	case ir.InferenceVarTy:
		c.vars = append(c.vars, n.Var)
	case ir.PlaceholderTy:
		if n.Universe > c.maxUniverse {
			c.maxUniverse = n.Universe
		}
	}
	return t
}

func (c *collector) FoldLifetime(l ir.Lifetime, depth int) ir.Lifetime {
	switch n := l.(type) {
	case ir.InferenceVarLt:
		c.vars = append(c.vars, n.Var)
	case ir.PlaceholderLt:
		if n.Universe > c.maxUniverse {
			c.maxUniverse = n.Universe
		}
	}
	return l
}

// HasFreeVariables reports whether g mentions any inference variable. It is
// the floundering test of SPEC_FULL.md §4.2: a negative subgoal with a free
// existential variable cannot be finitely refuted and must flounder.
func HasFreeVariables(g ir.Goal) bool {
	var c collector
	fold.FoldGoal(&c, g, 0)
	return len(c.vars) > 0
}
