package extract

import (
	"time"

	"github.com/niksavis/burndown-chart-sub004/internal/record"
)

// Segment is a contiguous period during which a field held one value.
type Segment struct {
	State string
	Start time.Time
	End   time.Time
}

// Duration returns the segment length in seconds.
func (s Segment) Duration() float64 {
	return s.End.Sub(s.Start).Seconds()
}

// FieldSegments derives the (state, start, end) intervals for one field
// from a chronologically ordered changelog: each transition's timestamp is
// paired with the next transition on the same field, and the open tail is
// closed at asOf. Transitions after asOf have not happened yet from the
// asOf viewpoint and are ignored. O(changelog length).
//
// Callers are expected to have checked the changelog via
// record.ValidateChangelog first.
func FieldSegments(events []record.ChangeEvent, field string, asOf time.Time) []Segment {
	var transitions []record.ChangeEvent
	for _, e := range events {
		if e.Field != field {
			continue
		}
		if e.At.After(asOf) {
			break
		}
		transitions = append(transitions, e)
	}

	segments := make([]Segment, 0, len(transitions))
	for i, tr := range transitions {
		end := asOf
		if i+1 < len(transitions) {
			end = transitions[i+1].At
		}
		segments = append(segments, Segment{State: tr.To, Start: tr.At, End: end})
	}
	return segments
}

// sumSegmentDurations totals the seconds spent in states belonging to the
// target set.
func sumSegmentDurations(segments []Segment, states []string) float64 {
	inSet := make(map[string]bool, len(states))
	for _, s := range states {
		inSet[s] = true
	}
	var total float64
	for _, seg := range segments {
		if inSet[seg.State] {
			total += seg.Duration()
		}
	}
	return total
}
