package ir

import "fmt"

// Binders is an ordered list of kinded slots plus a body, generic over the
// body's Go type. All substitution and shifting operations preserve
// structural equivalence under alpha-renaming of the bound slots
// (SPEC_FULL.md §3).
type Binders[T any] struct {
	Kinds []VariableKind
	Value T
}

// NewBinders wraps a value under the given kinds with no further ceremony;
// it exists so call sites read as "bind these kinds over this value"
// instead of a bare struct literal, matching the teacher's
// NewFDVariable-style plain-constructor convention.
func NewBinders[T any](kinds []VariableKind, value T) Binders[T] {
	return Binders[T]{Kinds: kinds, Value: value}
}

func (b Binders[T]) Len() int { return len(b.Kinds) }

func (b Binders[T]) String() string {
	return fmt.Sprintf("for<%d>(%v)", len(b.Kinds), b.Value)
}

// CanonicalVarKind is a canonical binder slot: a kind plus the universe the
// corresponding free variable lived in before canonicalization.
type CanonicalVarKind struct {
	Kind     Kind
	Universe int
}

// Canonical pairs a value with the kinded, universe-tagged binder list
// closing over exactly its free inference variables, numbered 0..n-1 in
// order of first appearance (SPEC_FULL.md §3, §4.6). Two canonical values
// are equal iff alpha-equivalent.
type Canonical[T any] struct {
	Binders []CanonicalVarKind
	Value   T
}

func (c Canonical[T]) Len() int { return len(c.Binders) }

// UCanonical additionally renumbers universe indices to 0..k-1, so that two
// U-canonical goals are identical iff they are the same modulo
// alpha-renaming of inference variables *and* universe compression
// (SPEC_FULL.md §3).
type UCanonical[T any] struct {
	Canonical Canonical[T]
	Universes int // count of distinct (compressed) universes referenced
}

// UniverseMap records how a UCanonicalizer renumbered universes, so external
// callers (or nested solves) can translate answers back into their own
// universe space (SPEC_FULL.md §6).
type UniverseMap struct {
	// ToCompressed maps an original universe index to its compressed index.
	ToCompressed map[int]int
	// ToOriginal is the inverse of ToCompressed.
	ToOriginal map[int]int
}

func NewUniverseMap() *UniverseMap {
	return &UniverseMap{ToCompressed: map[int]int{}, ToOriginal: map[int]int{}}
}

func (m *UniverseMap) Add(original, compressed int) {
	m.ToCompressed[original] = compressed
	m.ToOriginal[compressed] = original
}

func (m *UniverseMap) MapToCompressed(universe int) int {
	if v, ok := m.ToCompressed[universe]; ok {
		return v
	}
	return universe
}

func (m *UniverseMap) MapToOriginal(universe int) int {
	if v, ok := m.ToOriginal[universe]; ok {
		return v
	}
	return universe
}
