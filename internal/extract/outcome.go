package extract

import (
	"github.com/niksavis/burndown-chart-sub004/internal/record"
)

// FailureReason classifies why a (record, mapping) pair produced no usable
// value. Failures are data, never panics, and stay local to their pair.
type FailureReason string

const (
	// FailFilteredOut means the mapping does not apply to this record.
	// Expected and common, not an error.
	FailFilteredOut FailureReason = "filtered_out"
	// FailNoSourceResolved means a required variable had no source produce
	// a value. Surfaced, never defaulted.
	FailNoSourceResolved FailureReason = "no_source_resolved"
	// FailTypeMismatch means a source resolved but its value could not be
	// coerced to the declared type: a configuration defect, reported
	// distinctly from "no data".
	FailTypeMismatch FailureReason = "type_mismatch"
	// FailCyclicDependency means a calculated source's dependency chain
	// loops back on itself.
	FailCyclicDependency FailureReason = "cyclic_dependency"
	// FailMalformedChangelog means changelog entries were out of order or
	// incomplete for a changelog-based source.
	FailMalformedChangelog FailureReason = "malformed_changelog"
)

// Outcome is the immutable result of evaluating one mapping against one
// record. An optional variable with no data has a present=false Value, a
// zero ResolvedBy and a nil Failure; callers must distinguish that from
// NoSourceResolved.
type Outcome struct {
	Variable   string         `json:"variable"`
	RecordID   string         `json:"record_id"`
	Value      record.Value   `json:"value"`
	ResolvedBy int            `json:"resolved_by,omitempty"`
	Failure    *FailureReason `json:"failure,omitempty"`
}

// Resolved reports whether a source produced a type-correct value.
func (o Outcome) Resolved() bool {
	return o.Failure == nil && o.Value.Present()
}

func failure(reason FailureReason) *FailureReason {
	return &reason
}

// Summary aggregates outcome counts for one batch.
type Summary struct {
	Resolved           int                   `json:"resolved"`
	FilteredOut        int                   `json:"filtered_out"`
	UnresolvedRequired int                   `json:"unresolved_required"`
	UnresolvedOptional int                   `json:"unresolved_optional"`
	Failures           map[FailureReason]int `json:"failures,omitempty"`
}

// BatchResult owns one Outcome per (record, mapping) pair of a run, in
// input order regardless of worker scheduling.
type BatchResult struct {
	Outcomes []Outcome `json:"outcomes"`
	Summary  Summary   `json:"summary"`

	index map[string]map[string]int
}

// Get returns the outcome for a (record, variable) pair.
func (b *BatchResult) Get(recordID, variable string) (Outcome, bool) {
	vars, ok := b.index[recordID]
	if !ok {
		return Outcome{}, false
	}
	i, ok := vars[variable]
	if !ok {
		return Outcome{}, false
	}
	return b.Outcomes[i], true
}

func newBatchResult(outcomes []Outcome, requiredByVariable map[string]bool) *BatchResult {
	b := &BatchResult{
		Outcomes: outcomes,
		Summary:  Summary{Failures: make(map[FailureReason]int)},
		index:    make(map[string]map[string]int),
	}
	for i, o := range outcomes {
		vars, ok := b.index[o.RecordID]
		if !ok {
			vars = make(map[string]int)
			b.index[o.RecordID] = vars
		}
		if _, dup := vars[o.Variable]; !dup {
			vars[o.Variable] = i
		}

		switch {
		case o.Resolved():
			b.Summary.Resolved++
		case o.Failure != nil && *o.Failure == FailFilteredOut:
			b.Summary.FilteredOut++
			b.Summary.Failures[FailFilteredOut]++
		default:
			if o.Failure != nil {
				b.Summary.Failures[*o.Failure]++
			}
			if requiredByVariable[o.Variable] {
				b.Summary.UnresolvedRequired++
			} else {
				b.Summary.UnresolvedOptional++
			}
		}
	}
	return b
}
