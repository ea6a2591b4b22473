package ir

import "sync"

// Interner is the identity allocator described in SPEC_FULL.md §3: it hands
// out fresh universe indices and carries a best-effort name table for
// diagnostics. Unlike the original chalk design this interner does not
// hash-cons Type/Lifetime/Goal nodes themselves -- those remain plain
// structurally-compared Go values (see DESIGN.md for the rationale). The
// solver does not take its universes from here: the forest allocates the
// universes it opens through infer.InferenceTable.NewUniverse.
//
// Interner is safe for concurrent use. A Program built by pkg/chalk owns
// one, shared by every solve over that Program.
type Interner struct {
	mu            sync.Mutex
	nextUniverse  int
	adtNames      map[AdtID]string
	traitNames    map[TraitID]string
}

// RootUniverse is universe 0, the universe every solve starts in.
const RootUniverse = 0

func NewInterner() *Interner {
	return &Interner{
		nextUniverse: RootUniverse + 1,
		adtNames:     map[AdtID]string{},
		traitNames:   map[TraitID]string{},
	}
}

// FreshUniverse allocates a new universe strictly greater than every
// universe allocated so far, as required when instantiating a forall binder
// universally (§4.6 instantiate-binders-universally).
func (in *Interner) FreshUniverse() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	u := in.nextUniverse
	in.nextUniverse++
	return u
}

func (in *Interner) NameAdt(id AdtID, name string) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.adtNames[id] = name
}

func (in *Interner) NameTrait(id TraitID, name string) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.traitNames[id] = name
}

func (in *Interner) AdtName(id AdtID) string {
	in.mu.Lock()
	defer in.mu.Unlock()
	if n, ok := in.adtNames[id]; ok {
		return n
	}
	return ""
}

func (in *Interner) TraitName(id TraitID) string {
	in.mu.Lock()
	defer in.mu.Unlock()
	if n, ok := in.traitNames[id]; ok {
		return n
	}
	return ""
}
