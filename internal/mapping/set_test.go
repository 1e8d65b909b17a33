package mapping

import (
	"strings"
	"testing"
)

func timestampVar(name string) VariableMapping {
	return VariableMapping{
		Name: name,
		Type: TypeTimestamp,
		Sources: []SourceRule{
			{Priority: 1, Spec: &FieldValue{Field: name + "_field"}},
		},
	}
}

func TestNewSetRejectsBrokenConfigurations(t *testing.T) {
	tests := []struct {
		name     string
		mappings []VariableMapping
		wantErr  string
	}{
		{
			"EmptySources",
			[]VariableMapping{{Name: "a", Type: TypeText}},
			"no sources",
		},
		{
			"DuplicatePriority",
			[]VariableMapping{{Name: "a", Type: TypeText, Sources: []SourceRule{
				{Priority: 1, Spec: &FieldValue{Field: "x"}},
				{Priority: 1, Spec: &FieldValue{Field: "y"}},
			}}},
			"strictly increase",
		},
		{
			"DecreasingPriority",
			[]VariableMapping{{Name: "a", Type: TypeText, Sources: []SourceRule{
				{Priority: 2, Spec: &FieldValue{Field: "x"}},
				{Priority: 1, Spec: &FieldValue{Field: "y"}},
			}}},
			"strictly increase",
		},
		{
			"PriorityBelowOne",
			[]VariableMapping{{Name: "a", Type: TypeText, Sources: []SourceRule{
				{Priority: 0, Spec: &FieldValue{Field: "x"}},
			}}},
			"must be >= 1",
		},
		{
			"UnknownType",
			[]VariableMapping{{Name: "a", Type: "datetime", Sources: []SourceRule{
				{Priority: 1, Spec: &FieldValue{Field: "x"}},
			}}},
			"unknown variable_type",
		},
		{
			"DuplicateName",
			[]VariableMapping{timestampVar("a"), timestampVar("a")},
			"duplicate variable",
		},
		{
			"BadRegex",
			[]VariableMapping{{Name: "a", Type: TypeBoolean, Sources: []SourceRule{
				{Priority: 1, Spec: &FieldValueMatch{Field: "x", Match: "[", Regex: true}},
			}}},
			"invalid match pattern",
		},
		{
			"BooleanSourceIntoTimestamp",
			[]VariableMapping{{Name: "a", Type: TypeTimestamp, Sources: []SourceRule{
				{Priority: 1, Spec: &ChangelogEvent{Field: "status", To: "Done"}},
			}}},
			"never coerces",
		},
		{
			"UnknownSibling",
			[]VariableMapping{
				timestampVar("start"),
				{Name: "lead", Type: TypeDuration, Sources: []SourceRule{
					{Priority: 1, Spec: &Calculated{Op: OpDifference, VariableA: "end", VariableB: "start"}},
				}},
			},
			`unknown sibling variable "end"`,
		},
		{
			"MixedDifferenceTypes",
			[]VariableMapping{
				timestampVar("start"),
				{Name: "count", Type: TypeNumber, Sources: []SourceRule{
					{Priority: 1, Spec: &FieldValue{Field: "count"}},
				}},
				{Name: "lead", Type: TypeDuration, Sources: []SourceRule{
					{Priority: 1, Spec: &Calculated{Op: OpDifference, VariableA: "start", VariableB: "count"}},
				}},
			},
			"must share a type",
		},
		{
			"TimestampDifferenceMustBeDuration",
			[]VariableMapping{
				timestampVar("start"),
				timestampVar("end"),
				{Name: "lead", Type: TypeNumber, Sources: []SourceRule{
					{Priority: 1, Spec: &Calculated{Op: OpDifference, VariableA: "end", VariableB: "start"}},
				}},
			},
			"yields duration",
		},
		{
			"AsOfMustBeTimestamp",
			[]VariableMapping{
				{Name: "count", Type: TypeNumber, Sources: []SourceRule{
					{Priority: 1, Spec: &FieldValue{Field: "count"}},
				}},
				{Name: "wip_time", Type: TypeDuration, Sources: []SourceRule{
					{Priority: 1, Spec: &Calculated{Op: OpSumOfDurations, States: []string{"In Progress"}, AsOfVariable: "count"}},
				}},
			},
			"must be a timestamp",
		},
		{
			"EmptyStates",
			[]VariableMapping{
				{Name: "wip_time", Type: TypeDuration, Sources: []SourceRule{
					{Priority: 1, Spec: &Calculated{Op: OpSumOfDurations}},
				}},
			},
			"states set is empty",
		},
		{
			"UnknownFixVersionAttribute",
			[]VariableMapping{
				{Name: "rel", Type: TypeText, Sources: []SourceRule{
					{Priority: 1, Spec: &FixVersion{Attribute: "archived"}},
				}},
			},
			"unknown attribute",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSet(tt.mappings)
			if err == nil {
				t.Fatalf("Expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %q", tt.wantErr, err.Error())
			}
		})
	}
}

func TestNewSetAcceptsValidConfiguration(t *testing.T) {
	set, err := NewSet([]VariableMapping{
		timestampVar("start"),
		timestampVar("end"),
		{Name: "lead", Type: TypeDuration, Sources: []SourceRule{
			{Priority: 1, Spec: &Calculated{Op: OpDifference, VariableA: "end", VariableB: "start"}},
		}},
	})
	if err != nil {
		t.Fatalf("NewSet failed: %v", err)
	}
	if set.Len() != 3 {
		t.Errorf("Expected 3 mappings, got %d", set.Len())
	}
	if _, ok := set.Get("lead"); !ok {
		t.Error("Expected to find variable lead")
	}
}

// The built-in catalog must always pass its own validation.
func TestCatalogIsValid(t *testing.T) {
	set := Catalog()
	if set.Len() == 0 {
		t.Fatal("Expected a non-empty catalog")
	}
	for _, name := range []string{
		"deployment_timestamp", "is_deployment", "work_start_timestamp",
		"resolution_timestamp", "lead_time", "time_in_progress", "release_name",
	} {
		if _, ok := set.Get(name); !ok {
			t.Errorf("Expected catalog variable %q", name)
		}
	}
}
