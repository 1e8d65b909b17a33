package record

import (
	"fmt"
	"time"
)

// Well-known field keys consulted by mapping filters. Mappers that build
// records from tracker exports are expected to populate them.
const (
	FieldProject   = "project"
	FieldIssueType = "issuetype"
	FieldStatus    = "status"
)

// ChangeEvent is a single field-value transition in a record's history.
type ChangeEvent struct {
	At    time.Time `json:"at"`
	Field string    `json:"field"`
	From  string    `json:"from,omitempty"`
	To    string    `json:"to,omitempty"`
}

// Version is one entry of a record's release/version list, shaped like a
// tracker fixVersion object. Optional dates are pointers.
type Version struct {
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Released    bool       `json:"released"`
	ReleaseDate *time.Time `json:"releaseDate,omitempty"`
	StartDate   *time.Time `json:"startDate,omitempty"`
}

// Record is the in-memory representation of one tracked issue: a flat field
// mapping plus an ordered change history. Pure data; read-only to the
// extraction engine.
type Record struct {
	ID        string           `json:"id"`
	Fields    map[string]Value `json:"fields,omitempty"`
	Changelog []ChangeEvent    `json:"changelog,omitempty"`
	Versions  []Version        `json:"versions,omitempty"`
}

// Field returns the named field, or Absent when the record lacks it.
func (r Record) Field(name string) Value {
	if v, ok := r.Fields[name]; ok {
		return v
	}
	return Absent()
}

// ValidateChangelog verifies the invariant changelog-reading extractors rely
// on: entries are chronologically ascending and each carries a timestamp and
// a field name.
func ValidateChangelog(events []ChangeEvent) error {
	var prev time.Time
	for i, e := range events {
		if e.At.IsZero() {
			return fmt.Errorf("changelog entry %d has no timestamp", i)
		}
		if e.Field == "" {
			return fmt.Errorf("changelog entry %d has no field name", i)
		}
		if i > 0 && e.At.Before(prev) {
			return fmt.Errorf("changelog entry %d at %s precedes entry %d at %s",
				i, e.At.Format(time.RFC3339), i-1, prev.Format(time.RFC3339))
		}
		prev = e.At
	}
	return nil
}
