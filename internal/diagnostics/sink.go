// Package diagnostics implements the tracing sink of SPEC_FULL.md §4.11: a
// small interface the forest and recursive solver call into at the handful
// of points worth observing from outside (pushing/popping a strand,
// detecting a cycle, producing an answer, hitting the size quantum), backed
// by github.com/hashicorp/go-hclog the way the rest of this module's
// ambient stack leans on the hashicorp libraries for cross-cutting concerns.
package diagnostics

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
)

// Sink receives solver trace events. Implementations must be safe for
// concurrent use; the forest calls into it from whichever goroutine is
// currently pursuing a strand.
type Sink interface {
	Push(tableID, subgoal string)
	Pop(tableID string)
	Cycle(tableID string, kind string)
	Answer(tableID, answer string)
	QuantumExceeded(tableID string, size int)
}

// discardSink implements Sink as a no-op, the zero-cost default every
// Config falls back to when the caller supplies none.
type discardSink struct{}

func (discardSink) Push(string, string)         {}
func (discardSink) Pop(string)                  {}
func (discardSink) Cycle(string, string)         {}
func (discardSink) Answer(string, string)        {}
func (discardSink) QuantumExceeded(string, int) {}

// Discard is the default Sink: every event is dropped.
var Discard Sink = discardSink{}

// HCLogSink adapts an hclog.Logger into a Sink, logging QuantumExceeded at
// Warn level and every other event at Trace level, with structured fields -- the same leveled, field-based logging
// convention every ambient log call in this module follows.
type HCLogSink struct {
	Logger hclog.Logger
}

// NewHCLogSink wraps logger, or builds a default logger named "traitsolve"
// if logger is nil.
func NewHCLogSink(logger hclog.Logger) *HCLogSink {
	if logger == nil {
		logger = hclog.New(&hclog.LoggerOptions{Name: "traitsolve", Level: hclog.Trace})
	}
	return &HCLogSink{Logger: logger}
}

func (s *HCLogSink) Push(tableID, subgoal string) {
	s.Logger.Trace("push strand", "table", tableID, "subgoal", subgoal)
}

func (s *HCLogSink) Pop(tableID string) {
	s.Logger.Trace("pop strand", "table", tableID)
}

func (s *HCLogSink) Cycle(tableID string, kind string) {
	s.Logger.Trace("cycle detected", "table", tableID, "kind", kind)
}

func (s *HCLogSink) Answer(tableID, answer string) {
	s.Logger.Trace("answer produced", "table", tableID, "answer", answer)
}

func (s *HCLogSink) QuantumExceeded(tableID string, size int) {
	s.Logger.Warn("term size quantum exceeded", "table", tableID, "size", size)
}

// Describe is an Fprintf-style helper for a caller that already has a
// formatted message to route through a Sink's Answer slot. Nothing in this
// module calls it.
func Describe(format string, args ...any) string {
	return fmt.Sprintf(format, args...)
}
