package mapping

import (
	"fmt"
	"regexp"
)

// Set is a validated collection of variable mappings. Construction via
// NewSet performs every load-time check once; a Set that exists is safe to
// hand to the extraction engine.
type Set struct {
	mappings []VariableMapping
	byName   map[string]*VariableMapping
}

// NewSet validates the mappings and builds the by-name index. Validation
// failures are fatal to the caller: they indicate a broken configuration,
// not a data-quality issue in a single record.
func NewSet(mappings []VariableMapping) (*Set, error) {
	s := &Set{
		mappings: mappings,
		byName:   make(map[string]*VariableMapping, len(mappings)),
	}
	for i := range s.mappings {
		m := &s.mappings[i]
		if m.Name == "" {
			return nil, fmt.Errorf("mapping %d has no name", i)
		}
		if _, dup := s.byName[m.Name]; dup {
			return nil, fmt.Errorf("duplicate variable %q", m.Name)
		}
		s.byName[m.Name] = m
	}
	for i := range s.mappings {
		if err := s.validateMapping(&s.mappings[i]); err != nil {
			return nil, fmt.Errorf("variable %q: %w", s.mappings[i].Name, err)
		}
	}
	return s, nil
}

// Get returns the mapping for a variable name.
func (s *Set) Get(name string) (*VariableMapping, bool) {
	m, ok := s.byName[name]
	return m, ok
}

// Mappings returns the mappings in declaration order.
func (s *Set) Mappings() []VariableMapping { return s.mappings }

// Names returns the variable names in declaration order.
func (s *Set) Names() []string {
	names := make([]string, len(s.mappings))
	for i, m := range s.mappings {
		names[i] = m.Name
	}
	return names
}

// Len returns the number of mappings.
func (s *Set) Len() int { return len(s.mappings) }

func validType(t ValueType) bool {
	for _, vt := range ValueTypes {
		if t == vt {
			return true
		}
	}
	return false
}

func (s *Set) validateMapping(m *VariableMapping) error {
	if !validType(m.Type) {
		return fmt.Errorf("unknown variable_type %q", m.Type)
	}
	if len(m.Sources) == 0 {
		return fmt.Errorf("no sources configured")
	}

	prev := 0
	for _, rule := range m.Sources {
		if rule.Priority < 1 {
			return fmt.Errorf("priority %d must be >= 1", rule.Priority)
		}
		if rule.Priority <= prev {
			return fmt.Errorf("priority %d does not strictly increase after %d", rule.Priority, prev)
		}
		prev = rule.Priority

		if rule.Spec == nil {
			return fmt.Errorf("priority %d has no source spec", rule.Priority)
		}
		if err := s.validateSpec(m, rule.Spec); err != nil {
			return fmt.Errorf("priority %d (%s): %w", rule.Priority, rule.Spec.Kind(), err)
		}
	}
	return nil
}

func (s *Set) validateSpec(m *VariableMapping, spec SourceSpec) error {
	switch sp := spec.(type) {
	case *FieldValue:
		if sp.Field == "" {
			return fmt.Errorf("field is required")
		}
	case *FieldValueMatch:
		if sp.Field == "" {
			return fmt.Errorf("field is required")
		}
		if sp.Regex {
			if _, err := regexp.Compile(sp.Match); err != nil {
				return fmt.Errorf("invalid match pattern: %w", err)
			}
		}
		return checkOutput(m.Type, TypeBoolean)
	case *ChangelogEvent:
		if sp.Field == "" || sp.To == "" {
			return fmt.Errorf("field and to are required")
		}
		return checkOutput(m.Type, TypeBoolean)
	case *ChangelogTimestamp:
		if sp.Field == "" || sp.To == "" {
			return fmt.Errorf("field and to are required")
		}
		if sp.Occurrence != OccurrenceFirst && sp.Occurrence != OccurrenceLast {
			return fmt.Errorf("occurrence must be %q or %q", OccurrenceFirst, OccurrenceLast)
		}
		return checkOutput(m.Type, TypeTimestamp)
	case *FixVersion:
		if sp.NamePattern != "" {
			if _, err := regexp.Compile(sp.NamePattern); err != nil {
				return fmt.Errorf("invalid name pattern: %w", err)
			}
		}
		switch sp.Attribute {
		case AttrName, AttrDescription:
			return checkOutput(m.Type, TypeText)
		case AttrReleased:
			return checkOutput(m.Type, TypeBoolean)
		case AttrReleaseDate, AttrStartDate:
			return checkOutput(m.Type, TypeTimestamp)
		default:
			return fmt.Errorf("unknown attribute %q", sp.Attribute)
		}
	case *Calculated:
		return s.validateCalculated(m, sp)
	default:
		return fmt.Errorf("unsupported source spec %T", spec)
	}
	return nil
}

func (s *Set) validateCalculated(m *VariableMapping, sp *Calculated) error {
	switch sp.Op {
	case OpDifference:
		a, ok := s.byName[sp.VariableA]
		if !ok {
			return fmt.Errorf("unknown sibling variable %q", sp.VariableA)
		}
		b, ok := s.byName[sp.VariableB]
		if !ok {
			return fmt.Errorf("unknown sibling variable %q", sp.VariableB)
		}
		if a.Type != b.Type {
			return fmt.Errorf("siblings %q (%s) and %q (%s) must share a type",
				a.Name, a.Type, b.Name, b.Type)
		}
		var result ValueType
		switch a.Type {
		case TypeNumber:
			result = TypeNumber
		case TypeDuration:
			result = TypeDuration
		case TypeTimestamp:
			result = TypeDuration
		default:
			return fmt.Errorf("difference over %s siblings is not defined", a.Type)
		}
		if m.Type != result {
			return fmt.Errorf("difference of %s siblings yields %s, not %s", a.Type, result, m.Type)
		}
	case OpSumOfDurations:
		if len(sp.States) == 0 {
			return fmt.Errorf("states set is empty")
		}
		if m.Type != TypeDuration && m.Type != TypeNumber {
			return fmt.Errorf("duration sum yields duration, not %s", m.Type)
		}
		if sp.AsOfVariable != "" {
			asOf, ok := s.byName[sp.AsOfVariable]
			if !ok {
				return fmt.Errorf("unknown as_of variable %q", sp.AsOfVariable)
			}
			if asOf.Type != TypeTimestamp {
				return fmt.Errorf("as_of variable %q must be a timestamp, not %s", asOf.Name, asOf.Type)
			}
		}
	default:
		return fmt.Errorf("unknown op %q", sp.Op)
	}
	return nil
}

// checkOutput verifies that a source's statically known output type can be
// coerced to the mapping's declared type. Text targets accept everything
// printable; dynamic sources (field lookups) are checked at extraction time.
func checkOutput(target, produced ValueType) error {
	ok := false
	switch produced {
	case TypeBoolean:
		ok = target == TypeBoolean || target == TypeText
	case TypeTimestamp:
		ok = target == TypeTimestamp || target == TypeText
	case TypeText:
		// Text parses toward any target at extraction time.
		ok = true
	}
	if !ok {
		return fmt.Errorf("produces %s, which never coerces to %s", produced, target)
	}
	return nil
}
