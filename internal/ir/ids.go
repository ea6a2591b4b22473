package ir

// Opaque identifiers for program entities. The core never interprets these
// beyond using them as map keys and program lookups (see §6 of
// SPEC_FULL.md: "an immutable collection indexed by opaque ids"); naming,
// source spans, and doc comments are the lowering collaborator's concern.
type (
	AdtID          int
	TraitID        int
	ImplID         int
	AssocTyID      int
	AssocTyValueID int
	OpaqueTyID     int
)

// ImplPolarity distinguishes a normal ("Foo: Bar") impl from a negative one
// ("Foo: !Bar") used to record that an impl provably does not exist.
type ImplPolarity int

const (
	Positive ImplPolarity = iota
	Negative
)

// ImplType distinguishes impls written in the crate under analysis from
// ones coming from an upstream dependency. Only the orphan/coherence
// checkers (out of scope, §1) care about this directly; the solver does not
// read it (internal/forest treats IsLocal/IsUpstream goals as always holding).
type ImplType int

const (
	LocalImpl ImplType = iota
	ExternalImpl
)
