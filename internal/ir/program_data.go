package ir

// AdtFlags are the struct-level flags SPEC_FULL.md §6 calls out:
// upstream/fundamental/phantom-data.
type AdtFlags struct {
	Upstream    bool
	Fundamental bool
	PhantomData bool
}

// AdtBoundData is the generics-closed body of an ADT definition.
type AdtBoundData struct {
	Fields       []Type
	WhereClauses []WhereClause
}

type AdtDatum struct {
	ID      AdtID
	Binders Binders[AdtBoundData]
	Flags   AdtFlags
}

// TraitFlags are the trait-level flags SPEC_FULL.md §6 calls out:
// auto/marker/upstream/fundamental/non-enumerable/coinductive, plus the
// well-known-trait tag.
type TraitFlags struct {
	Auto          bool
	Marker        bool
	Upstream      bool
	Fundamental   bool
	NonEnumerable bool
	Coinductive   bool
	WellKnown     WellKnownTrait
}

type TraitBoundData struct {
	WhereClauses []WhereClause
	// AssocTyIDs enumerates the trait's own associated-type declarations, in
	// declaration order, so impls can be checked for completeness by the
	// (out of scope) well-formedness checker.
	AssocTyIDs []AssocTyID
}

type TraitDatum struct {
	ID      TraitID
	Binders Binders[TraitBoundData]
	Flags   TraitFlags
}

// ImplBoundData is the generics-closed body of an impl: the trait it
// implements plus any where-clauses gating it.
type ImplBoundData struct {
	TraitRef     TraitRef
	WhereClauses []WhereClause
}

type ImplDatum struct {
	ID               ImplID
	Binders          Binders[ImplBoundData]
	Polarity         ImplPolarity
	ImplType         ImplType
	AssocTyValueIDs  []AssocTyValueID
}

// AssocTyValueDatum is the value an impl gives to one of its trait's
// associated types, itself closed over the impl's own generics.
type AssocTyValueDatum struct {
	ID        AssocTyValueID
	ImplID    ImplID
	AssocTyID AssocTyID
	Binders   Binders[Type]
}

// OpaqueTyDatum is an "impl Trait"-style opaque type: a set of bounds the
// hidden type is known to satisfy, plus the hidden type itself (visible only
// to the defining scope; external goals only ever see the AliasTy form).
type OpaqueTyDatum struct {
	ID       OpaqueTyID
	Bounds   Binders[[]WhereClause]
	HiddenTy Type
}
