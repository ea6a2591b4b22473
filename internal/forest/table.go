package forest

import "github.com/gitrdm/traitsolve/internal/ir"

// Table is the memoized record of every answer found for one U-canonical
// goal (SPEC_FULL.md §3, §4.1). The forest never reopens a Complete table:
// Solve always runs a fresh search and returns a fresh Table, since this
// engine tables within a single top-level Solve call rather than sharing
// tables across independent queries (see DESIGN.md for why persistent
// cross-query tabling was not carried over from the distilled design).
type Table struct {
	Goal       ir.UCanonicalGoal
	Answers    []ir.Canonical[ir.ConstrainedSubst]
	Complete   bool
	Truncated  bool
	Floundered bool
	seen       map[string]bool
}
