package forest

import (
	"github.com/gitrdm/traitsolve/internal/infer"
	"github.com/gitrdm/traitsolve/internal/ir"
)

// activeEntry is one subgoal key currently on the search path, tagged with
// whether the edge that entered it went through a coinductive where-clause.
type activeEntry struct {
	key         string
	coinductive bool
}

// activeSet is a copy-on-extend path of subgoal keys currently being proved
// on the current search branch, the cycle detector SPEC_FULL.md §4.1/§4.2
// describes in terms of a table's depth-first number: revisiting a key
// still on the path is exactly the DFN-based self-reference chalk's forest
// detects. Unlike a plain set, the path order is kept so a repeated key can
// be checked against every edge added since it first became active -- a
// cycle is coinductive only if every one of those edges was, not just the
// edge that closes the loop (SPEC_FULL.md §4.1 step 3, §8 property 8).
type activeSet []activeEntry

func (a activeSet) with(key string, coinductive bool) activeSet {
	out := make(activeSet, len(a), len(a)+1)
	copy(out, a)
	return append(out, activeEntry{key: key, coinductive: coinductive})
}

// indexOf reports the position of key on the path, if it is active.
func (a activeSet) indexOf(key string) (int, bool) {
	for i, e := range a {
		if e.key == key {
			return i, true
		}
	}
	return -1, false
}

// allCoinductiveFrom reports whether every entry from i to the end of the
// path -- the whole cycle that closes back on entry i -- went through a
// coinductive where-clause. A single inductive edge anywhere in that span
// means the cycle as a whole is not coinductive, even if the repeated key
// itself names a coinductive trait (the mixed-semantics case of SPEC_FULL.md
// §8 scenario 4: an auto trait defined in terms of a plain one that loops
// back through the auto trait again).
func (a activeSet) allCoinductiveFrom(i int) bool {
	for _, e := range a[i:] {
		if !e.coinductive {
			return false
		}
	}
	return true
}

// keyForWhereClause renders a where-clause's currently-resolved form as a
// stable string, used both as a table key and as the cycle-detection key:
// two occurrences of "T: Send" with the same resolved T are the same
// subgoal even if reached through different clauses.
func keyForWhereClause(table *infer.InferenceTable, wc ir.WhereClause) string {
	switch w := wc.(type) {
	case ir.Implemented:
		return ir.TraitRef{TraitID: w.TraitRef.TraitID, Args: table.ResolveSubstitution(w.TraitRef.Args)}.String()
	case ir.AliasEqWC:
		return table.ResolveType(w.Alias).String() + "=" + table.ResolveType(w.Ty).String()
	default:
		return wc.String()
	}
}

// isCoinductiveWhereClause reports whether wc names a coinductive trait
// (auto traits like Send/Sync, by convention in this engine -- see
// TraitFlags.Coinductive): a cycle through a coinductive goal is treated as
// a successful proof rather than a failure, the behavior SPEC_FULL.md §1
// calls out as the reason auto-trait recursion on recursive types
// terminates instead of looping forever.
func isCoinductiveWhereClause(p ir.Program, wc ir.WhereClause) bool {
	impl, ok := wc.(ir.Implemented)
	if !ok {
		return false
	}
	trait, ok := p.Trait(impl.TraitRef.TraitID)
	return ok && trait.Flags.Coinductive
}
