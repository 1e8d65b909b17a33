package mapping

// Catalog returns the default variable set the dashboard ships: the
// variables its stock metrics (deployment frequency, lead time, flow
// efficiency) need, with the fallback chains that cover the common places
// organizations store them. Used when no mappings file is configured.
func Catalog() *Set {
	set, err := NewSet([]VariableMapping{
		{
			Name:     "deployment_timestamp",
			Type:     TypeTimestamp,
			Required: true,
			Sources: []SourceRule{
				{Priority: 1, Spec: &FieldValue{Field: "custom_deploy_date"}},
				{Priority: 2, Spec: &ChangelogTimestamp{Field: "status", To: "Deployed", Occurrence: OccurrenceFirst}},
				{Priority: 3, Spec: &FixVersion{Attribute: AttrReleaseDate, Position: -1}},
			},
		},
		{
			Name: "is_deployment",
			Type: TypeBoolean,
			Sources: []SourceRule{
				{Priority: 1, Spec: &FieldValueMatch{Field: "issuetype", Match: "(?i)deploy", Regex: true}},
				{Priority: 2, Spec: &ChangelogEvent{Field: "status", To: "Deployed"}},
			},
		},
		{
			Name: "work_start_timestamp",
			Type: TypeTimestamp,
			Sources: []SourceRule{
				{Priority: 1, Spec: &ChangelogTimestamp{Field: "status", To: "In Progress", Occurrence: OccurrenceFirst}},
			},
		},
		{
			Name:     "resolution_timestamp",
			Type:     TypeTimestamp,
			Required: true,
			Sources: []SourceRule{
				{Priority: 1, Spec: &FieldValue{Field: "resolutiondate"}},
				{Priority: 2, Spec: &ChangelogTimestamp{Field: "status", To: "Done", Occurrence: OccurrenceLast}},
			},
		},
		{
			Name: "lead_time",
			Type: TypeDuration,
			Sources: []SourceRule{
				{Priority: 1, Spec: &Calculated{
					Op:        OpDifference,
					VariableA: "resolution_timestamp",
					VariableB: "work_start_timestamp",
				}},
			},
		},
		{
			Name: "time_in_progress",
			Type: TypeDuration,
			Sources: []SourceRule{
				{Priority: 1, Spec: &Calculated{
					Op:     OpSumOfDurations,
					Field:  "status",
					States: []string{"In Progress"},
				}},
			},
		},
		{
			Name: "release_name",
			Type: TypeCategory,
			Sources: []SourceRule{
				{Priority: 1, Spec: &FixVersion{Attribute: AttrName, Position: -1}},
			},
		},
	})
	if err != nil {
		// The catalog is compiled-in data; a validation failure is a
		// programming error, not a runtime condition.
		panic(err)
	}
	return set
}
