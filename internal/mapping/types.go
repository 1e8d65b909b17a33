package mapping

// ValueType is the declared type of an extracted variable.
type ValueType string

const (
	TypeText         ValueType = "text"
	TypeNumber       ValueType = "number"
	TypeBoolean      ValueType = "boolean"
	TypeTimestamp    ValueType = "timestamp"
	TypeDuration     ValueType = "duration"
	TypeCategory     ValueType = "category"
	TypeCategoryList ValueType = "category_list"
)

// ValueTypes lists every valid ValueType, in declaration order.
var ValueTypes = []ValueType{
	TypeText, TypeNumber, TypeBoolean, TypeTimestamp,
	TypeDuration, TypeCategory, TypeCategoryList,
}

// Occurrence selects which matching changelog entry a ChangelogTimestamp
// source picks. Scan direction is explicit configuration, never inferred.
type Occurrence string

const (
	OccurrenceFirst Occurrence = "first"
	OccurrenceLast  Occurrence = "last"
)

// CalcOp is one of the fixed composition operators of a Calculated source.
type CalcOp string

const (
	OpDifference     CalcOp = "difference"
	OpSumOfDurations CalcOp = "sum_of_durations_in_status_set"
)

// Version attributes a FixVersion source can read.
const (
	AttrName        = "name"
	AttrDescription = "description"
	AttrReleased    = "released"
	AttrReleaseDate = "releaseDate"
	AttrStartDate   = "startDate"
)

// SourceSpec is the closed union of extraction strategies. Adding a kind is
// a compile-time change (a new variant plus arms in the exhaustive type
// switches), not a plugin hook.
type SourceSpec interface {
	// Kind returns the wire discriminator for this variant.
	Kind() string

	sourceSpec()
}

// FieldValue looks up a named field directly. Its output kind depends on
// the field's stored value.
type FieldValue struct {
	Field string
}

// FieldValueMatch compares a named field against an expected value (exact,
// or regular expression when Regex is set) and yields a boolean. An absent
// field is a non-match, so boolean flags resolve for records lacking the
// field.
type FieldValueMatch struct {
	Field string
	Match string
	Regex bool
}

// ChangelogEvent yields a boolean: did any changelog entry on Field ever
// transition to To?
type ChangelogEvent struct {
	Field string
	To    string
}

// ChangelogTimestamp yields the timestamp of the first (or last, per
// Occurrence) changelog entry on Field transitioning to To, optionally also
// constrained by From. No matching entry yields no value, not an error.
type ChangelogTimestamp struct {
	Field      string
	To         string
	From       string
	Occurrence Occurrence
}

// FixVersion reads Attribute from one element of the record's version list.
// The element is selected by NamePattern (first regex match) when set,
// otherwise by Position; negative positions count from the end, -1 being
// the latest entry.
type FixVersion struct {
	Attribute   string
	Position    int
	NamePattern string
}

// Calculated composes already-resolved sibling variables.
//
// OpDifference subtracts VariableB from VariableA; the siblings must share
// a type (number, duration, or timestamp, the latter yielding a duration).
//
// OpSumOfDurations walks the changelog of Field (default "status") and sums
// the time spent in States, closing the open tail at the sibling named by
// AsOfVariable or, when unset, at the engine's reference time.
type Calculated struct {
	Op           CalcOp
	VariableA    string
	VariableB    string
	Field        string
	States       []string
	AsOfVariable string
}

func (s *FieldValue) Kind() string         { return "field_value" }
func (s *FieldValueMatch) Kind() string    { return "field_value_match" }
func (s *ChangelogEvent) Kind() string     { return "changelog_event" }
func (s *ChangelogTimestamp) Kind() string { return "changelog_timestamp" }
func (s *FixVersion) Kind() string         { return "fix_version" }
func (s *Calculated) Kind() string         { return "calculated" }

func (s *FieldValue) sourceSpec()         {}
func (s *FieldValueMatch) sourceSpec()    {}
func (s *ChangelogEvent) sourceSpec()     {}
func (s *ChangelogTimestamp) sourceSpec() {}
func (s *FixVersion) sourceSpec()         {}
func (s *Calculated) sourceSpec()         {}

// SourceRule pairs an extraction strategy with its priority. Lower priority
// is tried first.
type SourceRule struct {
	Priority int
	Spec     SourceSpec
}

// Filter restricts which records a mapping applies to. Pure data: an empty
// filter matches everything; every present constraint must match.
type Filter struct {
	Projects         []string
	IssueTypes       []string
	EnvironmentField string
	EnvironmentValue string
}

// Empty reports whether the filter constrains nothing.
func (f *Filter) Empty() bool {
	if f == nil {
		return true
	}
	return len(f.Projects) == 0 && len(f.IssueTypes) == 0 && f.EnvironmentField == ""
}

// VariableMapping declares how one variable is derived: its type, whether a
// value is required, an ordered list of source rules, and an optional
// applicability filter.
type VariableMapping struct {
	Name     string
	Type     ValueType
	Required bool
	Sources  []SourceRule
	Filter   *Filter
}
