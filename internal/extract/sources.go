package extract

import (
	"regexp"

	"github.com/niksavis/burndown-chart-sub004/internal/mapping"
	"github.com/niksavis/burndown-chart-sub004/internal/record"
)

// evalSource dispatches over the closed set of source kinds. Each arm is a
// pure function of the record (plus, for calculated sources, already
// resolved siblings): a present value, silence (Absent), or a failure.
func (ev *evaluation) evalSource(spec mapping.SourceSpec) (record.Value, *FailureReason) {
	switch sp := spec.(type) {
	case *mapping.FieldValue:
		return ev.rec.Field(sp.Field), nil
	case *mapping.FieldValueMatch:
		return ev.evalFieldValueMatch(sp)
	case *mapping.ChangelogEvent:
		return ev.evalChangelogEvent(sp)
	case *mapping.ChangelogTimestamp:
		return ev.evalChangelogTimestamp(sp)
	case *mapping.FixVersion:
		return ev.evalFixVersion(sp)
	case *mapping.Calculated:
		return ev.evalCalculated(sp)
	default:
		return record.Absent(), nil
	}
}

// evalFieldValueMatch is total: an absent field is a non-match, so boolean
// flags resolve to false for records lacking the field.
func (ev *evaluation) evalFieldValueMatch(sp *mapping.FieldValueMatch) (record.Value, *FailureReason) {
	v := ev.rec.Field(sp.Field)

	var candidates []string
	if text, ok := v.AsText(); ok {
		candidates = []string{text}
	} else if list, ok := v.AsTextList(); ok {
		candidates = list
	}

	if sp.Regex {
		re, err := regexp.Compile(sp.Match)
		if err != nil {
			// Set validation compiles every pattern; stay silent if one
			// slips through.
			return record.Absent(), nil
		}
		for _, c := range candidates {
			if re.MatchString(c) {
				return record.Bool(true), nil
			}
		}
		return record.Bool(false), nil
	}

	for _, c := range candidates {
		if c == sp.Match {
			return record.Bool(true), nil
		}
	}
	return record.Bool(false), nil
}

// evalChangelogEvent is total: "did this transition ever occur" is false,
// not unknown, for an empty changelog.
func (ev *evaluation) evalChangelogEvent(sp *mapping.ChangelogEvent) (record.Value, *FailureReason) {
	if err := record.ValidateChangelog(ev.rec.Changelog); err != nil {
		return record.Absent(), failure(FailMalformedChangelog)
	}
	for _, e := range ev.rec.Changelog {
		if e.Field == sp.Field && e.To == sp.To {
			return record.Bool(true), nil
		}
	}
	return record.Bool(false), nil
}

func (ev *evaluation) evalChangelogTimestamp(sp *mapping.ChangelogTimestamp) (record.Value, *FailureReason) {
	if err := record.ValidateChangelog(ev.rec.Changelog); err != nil {
		return record.Absent(), failure(FailMalformedChangelog)
	}

	var match *record.ChangeEvent
	for i := range ev.rec.Changelog {
		e := &ev.rec.Changelog[i]
		if e.Field != sp.Field || e.To != sp.To {
			continue
		}
		if sp.From != "" && e.From != sp.From {
			continue
		}
		match = e
		if sp.Occurrence == mapping.OccurrenceFirst {
			break
		}
	}

	if match == nil {
		// No matching transition is silence, not an error; the mapping's
		// required flag decides whether that is fatal.
		return record.Absent(), nil
	}
	return record.Timestamp(match.At), nil
}

func (ev *evaluation) evalFixVersion(sp *mapping.FixVersion) (record.Value, *FailureReason) {
	versions := ev.rec.Versions
	if len(versions) == 0 {
		return record.Absent(), nil
	}

	var selected *record.Version
	if sp.NamePattern != "" {
		re, err := regexp.Compile(sp.NamePattern)
		if err != nil {
			return record.Absent(), nil
		}
		for i := range versions {
			if re.MatchString(versions[i].Name) {
				selected = &versions[i]
				break
			}
		}
	} else {
		idx := sp.Position
		if idx < 0 {
			idx += len(versions)
		}
		if idx >= 0 && idx < len(versions) {
			selected = &versions[idx]
		}
	}

	if selected == nil {
		return record.Absent(), nil
	}

	switch sp.Attribute {
	case mapping.AttrName:
		return record.Text(selected.Name), nil
	case mapping.AttrDescription:
		if selected.Description == "" {
			return record.Absent(), nil
		}
		return record.Text(selected.Description), nil
	case mapping.AttrReleased:
		return record.Bool(selected.Released), nil
	case mapping.AttrReleaseDate:
		if selected.ReleaseDate == nil {
			return record.Absent(), nil
		}
		return record.Timestamp(*selected.ReleaseDate), nil
	case mapping.AttrStartDate:
		if selected.StartDate == nil {
			return record.Absent(), nil
		}
		return record.Timestamp(*selected.StartDate), nil
	default:
		return record.Absent(), nil
	}
}

func (ev *evaluation) evalCalculated(sp *mapping.Calculated) (record.Value, *FailureReason) {
	switch sp.Op {
	case mapping.OpDifference:
		return ev.evalDifference(sp)
	case mapping.OpSumOfDurations:
		return ev.evalSumOfDurations(sp)
	default:
		return record.Absent(), nil
	}
}

// evalDifference subtracts sibling B from sibling A. An unresolved sibling
// makes the source silent; it never substitutes zero.
func (ev *evaluation) evalDifference(sp *mapping.Calculated) (record.Value, *FailureReason) {
	a, fail := ev.sibling(sp.VariableA)
	if fail != nil {
		return record.Absent(), fail
	}
	b, fail := ev.sibling(sp.VariableB)
	if fail != nil {
		return record.Absent(), fail
	}
	if !a.Resolved() || !b.Resolved() {
		return record.Absent(), nil
	}

	if ta, ok := a.Value.AsTimestamp(); ok {
		tb, ok := b.Value.AsTimestamp()
		if !ok {
			return record.Absent(), nil
		}
		return record.Number(ta.Sub(tb).Seconds()), nil
	}

	na, okA := a.Value.AsNumber()
	nb, okB := b.Value.AsNumber()
	if !okA || !okB {
		return record.Absent(), nil
	}
	return record.Number(na - nb), nil
}

// evalSumOfDurations totals the time the target field spent within the
// configured state set, closing the open tail at the as_of anchor. With no
// transitions on the field the residency is unknowable and the source stays
// silent; with transitions present but none in the set the answer is a real
// zero.
func (ev *evaluation) evalSumOfDurations(sp *mapping.Calculated) (record.Value, *FailureReason) {
	if err := record.ValidateChangelog(ev.rec.Changelog); err != nil {
		return record.Absent(), failure(FailMalformedChangelog)
	}

	asOf := ev.eng.refTime
	if sp.AsOfVariable != "" {
		anchor, fail := ev.sibling(sp.AsOfVariable)
		if fail != nil {
			return record.Absent(), fail
		}
		if !anchor.Resolved() {
			return record.Absent(), nil
		}
		t, ok := anchor.Value.AsTimestamp()
		if !ok {
			return record.Absent(), nil
		}
		asOf = t
	}

	field := sp.Field
	if field == "" {
		field = record.FieldStatus
	}

	segments := FieldSegments(ev.rec.Changelog, field, asOf)
	if len(segments) == 0 {
		return record.Absent(), nil
	}
	return record.Number(sumSegmentDurations(segments, sp.States)), nil
}
