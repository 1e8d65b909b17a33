package mapping

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Wire shape of a mappings file. This mirrors the configuration format the
// original dashboard persists, so existing mapping files keep loading.
type fileDTO struct {
	Variables map[string]mappingDTO `json:"variables"`
}

type mappingDTO struct {
	VariableType string      `json:"variable_type"`
	Required     bool        `json:"required,omitempty"`
	Sources      []sourceDTO `json:"sources"`
	Filters      *filterDTO  `json:"filters,omitempty"`
}

type sourceDTO struct {
	Type         string   `json:"type"`
	Priority     int      `json:"priority"`
	Field        string   `json:"field,omitempty"`
	Match        string   `json:"match,omitempty"`
	Regex        bool     `json:"regex,omitempty"`
	To           string   `json:"to,omitempty"`
	From         string   `json:"from,omitempty"`
	Occurrence   string   `json:"occurrence,omitempty"`
	Attribute    string   `json:"attribute,omitempty"`
	Position     int      `json:"position,omitempty"`
	NamePattern  string   `json:"name_pattern,omitempty"`
	Op           string   `json:"op,omitempty"`
	VariableA    string   `json:"variable_a,omitempty"`
	VariableB    string   `json:"variable_b,omitempty"`
	States       []string `json:"states,omitempty"`
	AsOfVariable string   `json:"as_of_variable,omitempty"`
}

type filterDTO struct {
	Projects         []string `json:"projects,omitempty"`
	IssueTypes       []string `json:"issue_types,omitempty"`
	EnvironmentField string   `json:"environment_field,omitempty"`
	EnvironmentValue string   `json:"environment_value,omitempty"`
}

// Load reads and decodes a mappings file. Any failure is fatal to the run:
// it indicates a broken configuration, not a data-quality issue.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mappings file: %w", err)
	}
	set, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("mappings file %s: %w", path, err)
	}
	return set, nil
}

// Decode validates raw JSON against the mappings schema, decodes it and
// returns a fully validated Set. Variables are ordered by name; sources are
// ordered by priority.
func Decode(data []byte) (*Set, error) {
	if err := validateSchema(data); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	var file fileDTO
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to decode mappings: %w", err)
	}

	names := make([]string, 0, len(file.Variables))
	for name := range file.Variables {
		names = append(names, name)
	}
	sort.Strings(names)

	mappings := make([]VariableMapping, 0, len(names))
	for _, name := range names {
		m, err := decodeMapping(name, file.Variables[name])
		if err != nil {
			return nil, fmt.Errorf("variable %q: %w", name, err)
		}
		mappings = append(mappings, m)
	}

	return NewSet(mappings)
}

func decodeMapping(name string, dto mappingDTO) (VariableMapping, error) {
	m := VariableMapping{
		Name:     name,
		Type:     ValueType(dto.VariableType),
		Required: dto.Required,
	}

	sources := make([]sourceDTO, len(dto.Sources))
	copy(sources, dto.Sources)
	sort.SliceStable(sources, func(i, j int) bool {
		return sources[i].Priority < sources[j].Priority
	})

	for _, src := range sources {
		spec, err := decodeSpec(src)
		if err != nil {
			return m, fmt.Errorf("source priority %d: %w", src.Priority, err)
		}
		m.Sources = append(m.Sources, SourceRule{Priority: src.Priority, Spec: spec})
	}

	if dto.Filters != nil {
		m.Filter = &Filter{
			Projects:         dto.Filters.Projects,
			IssueTypes:       dto.Filters.IssueTypes,
			EnvironmentField: dto.Filters.EnvironmentField,
			EnvironmentValue: dto.Filters.EnvironmentValue,
		}
	}

	return m, nil
}

func decodeSpec(src sourceDTO) (SourceSpec, error) {
	switch src.Type {
	case "field_value":
		return &FieldValue{Field: src.Field}, nil
	case "field_value_match":
		return &FieldValueMatch{Field: src.Field, Match: src.Match, Regex: src.Regex}, nil
	case "changelog_event":
		return &ChangelogEvent{Field: src.Field, To: src.To}, nil
	case "changelog_timestamp":
		occ := Occurrence(src.Occurrence)
		if occ == "" {
			occ = OccurrenceFirst
		}
		return &ChangelogTimestamp{Field: src.Field, To: src.To, From: src.From, Occurrence: occ}, nil
	case "fix_version":
		return &FixVersion{Attribute: src.Attribute, Position: src.Position, NamePattern: src.NamePattern}, nil
	case "calculated":
		return &Calculated{
			Op:           CalcOp(src.Op),
			VariableA:    src.VariableA,
			VariableB:    src.VariableB,
			Field:        src.Field,
			States:       src.States,
			AsOfVariable: src.AsOfVariable,
		}, nil
	default:
		return nil, fmt.Errorf("unknown source type %q", src.Type)
	}
}

// Encode serializes a Set back to the wire format. Decode(Encode(set))
// round-trips.
func Encode(set *Set) ([]byte, error) {
	file := fileDTO{Variables: make(map[string]mappingDTO, set.Len())}
	for _, m := range set.Mappings() {
		dto := mappingDTO{
			VariableType: string(m.Type),
			Required:     m.Required,
		}
		for _, rule := range m.Sources {
			dto.Sources = append(dto.Sources, encodeSpec(rule))
		}
		if m.Filter != nil && !m.Filter.Empty() {
			dto.Filters = &filterDTO{
				Projects:         m.Filter.Projects,
				IssueTypes:       m.Filter.IssueTypes,
				EnvironmentField: m.Filter.EnvironmentField,
				EnvironmentValue: m.Filter.EnvironmentValue,
			}
		}
		file.Variables[m.Name] = dto
	}
	return json.MarshalIndent(file, "", "  ")
}

func encodeSpec(rule SourceRule) sourceDTO {
	dto := sourceDTO{Type: rule.Spec.Kind(), Priority: rule.Priority}
	switch sp := rule.Spec.(type) {
	case *FieldValue:
		dto.Field = sp.Field
	case *FieldValueMatch:
		dto.Field = sp.Field
		dto.Match = sp.Match
		dto.Regex = sp.Regex
	case *ChangelogEvent:
		dto.Field = sp.Field
		dto.To = sp.To
	case *ChangelogTimestamp:
		dto.Field = sp.Field
		dto.To = sp.To
		dto.From = sp.From
		dto.Occurrence = string(sp.Occurrence)
	case *FixVersion:
		dto.Attribute = sp.Attribute
		dto.Position = sp.Position
		dto.NamePattern = sp.NamePattern
	case *Calculated:
		dto.Op = string(sp.Op)
		dto.VariableA = sp.VariableA
		dto.VariableB = sp.VariableB
		dto.Field = sp.Field
		dto.States = sp.States
		dto.AsOfVariable = sp.AsOfVariable
	}
	return dto
}
