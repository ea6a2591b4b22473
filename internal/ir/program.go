package ir

// Program is the read-only view of a lowered program the solver queries
// while building clauses (SPEC_FULL.md §6). Point lookups mirror chalk's
// RustIrDatabase; the two enumeration methods (ImplsForTrait,
// AssocTyValuesForAssocTy) are this module's addition, needed because the
// clause lowerer must discover *which* impls apply to a trait or supply an
// associated type's value rather than being told by the caller -- the same
// gap chalk's database fills with its own impls_for_trait index.
type Program interface {
	Adt(id AdtID) (AdtDatum, bool)
	Trait(id TraitID) (TraitDatum, bool)
	Impl(id ImplID) (ImplDatum, bool)
	ImplsForTrait(id TraitID) []ImplID
	AssocTyValue(id AssocTyValueID) (AssocTyValueDatum, bool)
	AssocTyValuesForAssocTy(id AssocTyID) []AssocTyValueID
	OpaqueTy(id OpaqueTyID) (OpaqueTyDatum, bool)
	CustomClauses() []ProgramClause
	Interner() *Interner
}

// UCanonicalGoal is the form every top-level query takes: a goal closed
// over its free variables and universe-compressed, the unit of work a
// Forest table is keyed on (SPEC_FULL.md §3, §4.1).
type UCanonicalGoal = UCanonical[Goal]
