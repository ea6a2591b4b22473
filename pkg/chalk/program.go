// Package chalk is the public facade of the trait-resolution engine
// (SPEC_FULL.md §6): a Program builder, the Solve/SolveLimited/SolveMultiple
// entry points, and the Solution type their callers consume. Everything
// underneath (internal/ir, internal/forest, internal/recursive, ...) is
// deliberately unexported -- this package is the only one meant to be
// imported from outside the module, mirroring how the teacher repo keeps
// its solving machinery under internal/ and surfaces one small package API.
package chalk

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/gitrdm/traitsolve/internal/ir"
)

// Program is the read-only, queryable form of a lowered set of type/trait/
// impl declarations. It is the interface the solver depends on; the
// unexported *program built by NewProgramBuilder is this module's own
// implementation of it,
// but a caller with its own lowering pipeline may supply any type
// satisfying Program instead.
type Program = ir.Program

// program is the concrete, immutable Program every ProgramBuilder.Build
// call produces.
type program struct {
	adts                    map[ir.AdtID]ir.AdtDatum
	traits                  map[ir.TraitID]ir.TraitDatum
	impls                   map[ir.ImplID]ir.ImplDatum
	implsByTrait            map[ir.TraitID][]ir.ImplID
	assocTyValues           map[ir.AssocTyValueID]ir.AssocTyValueDatum
	assocTyValuesByAssocTy  map[ir.AssocTyID][]ir.AssocTyValueID
	opaqueTys               map[ir.OpaqueTyID]ir.OpaqueTyDatum
	customClauses           []ir.ProgramClause
	interner                *ir.Interner
}

func (p *program) Adt(id ir.AdtID) (ir.AdtDatum, bool) { d, ok := p.adts[id]; return d, ok }
func (p *program) Trait(id ir.TraitID) (ir.TraitDatum, bool) { d, ok := p.traits[id]; return d, ok }
func (p *program) Impl(id ir.ImplID) (ir.ImplDatum, bool) { d, ok := p.impls[id]; return d, ok }
func (p *program) ImplsForTrait(id ir.TraitID) []ir.ImplID { return p.implsByTrait[id] }
func (p *program) AssocTyValue(id ir.AssocTyValueID) (ir.AssocTyValueDatum, bool) {
	d, ok := p.assocTyValues[id]
	return d, ok
}
func (p *program) AssocTyValuesForAssocTy(id ir.AssocTyID) []ir.AssocTyValueID {
	return p.assocTyValuesByAssocTy[id]
}
func (p *program) OpaqueTy(id ir.OpaqueTyID) (ir.OpaqueTyDatum, bool) { d, ok := p.opaqueTys[id]; return d, ok }
func (p *program) CustomClauses() []ir.ProgramClause                 { return p.customClauses }
func (p *program) Interner() *ir.Interner                            { return p.interner }

// ProgramBuilder accumulates declarations and produces an immutable Program
// snapshot on Build, the same copy-on-write discipline the teacher's own
// fact-database builder uses: a Program handed out by one Build call is
// never mutated by further calls on the builder that produced it.
type ProgramBuilder struct {
	p *program
}

func NewProgramBuilder() *ProgramBuilder {
	return &ProgramBuilder{p: &program{
		adts:                   map[ir.AdtID]ir.AdtDatum{},
		traits:                 map[ir.TraitID]ir.TraitDatum{},
		impls:                  map[ir.ImplID]ir.ImplDatum{},
		implsByTrait:           map[ir.TraitID][]ir.ImplID{},
		assocTyValues:          map[ir.AssocTyValueID]ir.AssocTyValueDatum{},
		assocTyValuesByAssocTy: map[ir.AssocTyID][]ir.AssocTyValueID{},
		opaqueTys:              map[ir.OpaqueTyID]ir.OpaqueTyDatum{},
		interner:               ir.NewInterner(),
	}}
}

func (b *ProgramBuilder) AddAdt(d ir.AdtDatum, name string) *ProgramBuilder {
	b.p.adts[d.ID] = d
	if name != "" {
		b.p.interner.NameAdt(d.ID, name)
	}
	return b
}

func (b *ProgramBuilder) AddTrait(d ir.TraitDatum, name string) *ProgramBuilder {
	b.p.traits[d.ID] = d
	if name != "" {
		b.p.interner.NameTrait(d.ID, name)
	}
	return b
}

func (b *ProgramBuilder) AddImpl(d ir.ImplDatum) *ProgramBuilder {
	b.p.impls[d.ID] = d
	traitID := d.Binders.Value.TraitRef.TraitID
	b.p.implsByTrait[traitID] = append(b.p.implsByTrait[traitID], d.ID)
	return b
}

func (b *ProgramBuilder) AddAssocTyValue(d ir.AssocTyValueDatum) *ProgramBuilder {
	b.p.assocTyValues[d.ID] = d
	b.p.assocTyValuesByAssocTy[d.AssocTyID] = append(b.p.assocTyValuesByAssocTy[d.AssocTyID], d.ID)
	return b
}

func (b *ProgramBuilder) AddOpaqueTy(d ir.OpaqueTyDatum) *ProgramBuilder {
	b.p.opaqueTys[d.ID] = d
	return b
}

func (b *ProgramBuilder) AddCustomClause(c ir.ProgramClause) *ProgramBuilder {
	b.p.customClauses = append(b.p.customClauses, c)
	return b
}

// Build returns an immutable snapshot of everything added so far. Further
// Add* calls on b do not affect a Program already returned by Build, except
// that the snapshot shares b's Interner, so names given later show up in it.
func (b *ProgramBuilder) Build() Program {
	snapshot := &program{
		adts:                   cloneMap(b.p.adts),
		traits:                 cloneMap(b.p.traits),
		impls:                  cloneMap(b.p.impls),
		implsByTrait:           cloneSliceMap(b.p.implsByTrait),
		assocTyValues:          cloneMap(b.p.assocTyValues),
		assocTyValuesByAssocTy: cloneSliceMap(b.p.assocTyValuesByAssocTy),
		opaqueTys:              cloneMap(b.p.opaqueTys),
		customClauses:          append([]ir.ProgramClause(nil), b.p.customClauses...),
		interner:               b.p.interner,
	}
	return snapshot
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneSliceMap[K comparable, V any](m map[K][]V) map[K][]V {
	out := make(map[K][]V, len(m))
	for k, v := range m {
		out[k] = append([]V(nil), v...)
	}
	return out
}

// Validate checks the internal consistency invariants SPEC_FULL.md §7 asks
// of a well-formed program -- every impl names a trait that exists, every
// associated-type value names an impl and an associated type that both
// exist and agree -- collecting every violation found rather than stopping
// at the first, via github.com/hashicorp/go-multierror the way the rest of
// this module's ambient error handling does.
func (p *program) Validate() error {
	var result *multierror.Error
	for id, impl := range p.impls {
		traitID := impl.Binders.Value.TraitRef.TraitID
		if _, ok := p.traits[traitID]; !ok {
			result = multierror.Append(result, fmt.Errorf("impl #%d: trait #%d is not declared", int(id), int(traitID)))
		}
	}
	for id, val := range p.assocTyValues {
		impl, ok := p.impls[val.ImplID]
		if !ok {
			result = multierror.Append(result, fmt.Errorf("assoc-ty-value #%d: impl #%d is not declared", int(id), int(val.ImplID)))
			continue
		}
		trait, ok := p.traits[impl.Binders.Value.TraitRef.TraitID]
		if !ok {
			continue // already reported above
		}
		found := false
		for _, want := range trait.Binders.Value.AssocTyIDs {
			if want == val.AssocTyID {
				found = true
				break
			}
		}
		if !found {
			result = multierror.Append(result, fmt.Errorf("assoc-ty-value #%d: trait #%d has no associated type #%d", int(id), int(trait.ID), int(val.AssocTyID)))
		}
	}
	return result.ErrorOrNil()
}

// ValidateProgram runs Validate against p if p was built by this package's
// ProgramBuilder, and reports no errors otherwise -- a Program implemented
// entirely outside this package is responsible for its own well-formedness.
func ValidateProgram(p Program) error {
	if v, ok := p.(interface{ Validate() error }); ok {
		return v.Validate()
	}
	return nil
}
