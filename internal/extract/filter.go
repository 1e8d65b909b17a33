package extract

import (
	"github.com/niksavis/burndown-chart-sub004/internal/mapping"
	"github.com/niksavis/burndown-chart-sub004/internal/record"
)

// MatchesFilter reports whether a record qualifies for a mapping. Pure and
// total: an absent field simply fails that specific constraint, it never
// errors. An empty (or nil) filter matches everything.
func MatchesFilter(rec record.Record, f *mapping.Filter) bool {
	if f.Empty() {
		return true
	}
	if len(f.Projects) > 0 && !fieldMatchesAny(rec.Field(record.FieldProject), f.Projects) {
		return false
	}
	if len(f.IssueTypes) > 0 && !fieldMatchesAny(rec.Field(record.FieldIssueType), f.IssueTypes) {
		return false
	}
	if f.EnvironmentField != "" {
		if !fieldMatchesAny(rec.Field(f.EnvironmentField), []string{f.EnvironmentValue}) {
			return false
		}
	}
	return true
}

// fieldMatchesAny compares a field value against a set of accepted strings.
// Text matches by equality; a list matches when any element equals. Other
// kinds (and absent fields) fail the constraint.
func fieldMatchesAny(v record.Value, accepted []string) bool {
	if text, ok := v.AsText(); ok {
		for _, want := range accepted {
			if text == want {
				return true
			}
		}
		return false
	}
	if list, ok := v.AsTextList(); ok {
		for _, item := range list {
			for _, want := range accepted {
				if item == want {
					return true
				}
			}
		}
	}
	return false
}
