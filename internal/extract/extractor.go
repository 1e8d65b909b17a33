package extract

import (
	"github.com/niksavis/burndown-chart-sub004/internal/mapping"
	"github.com/niksavis/burndown-chart-sub004/internal/record"
)

// evaluation carries the per-record state of one extraction pass: the
// memoized outcomes and the "currently resolving" set that makes calculated
// dependency cycles detectable before recursion instead of overflowing the
// stack.
type evaluation struct {
	eng       *Engine
	rec       record.Record
	resolving map[string]bool
	done      map[string]Outcome
}

func newEvaluation(eng *Engine, rec record.Record) *evaluation {
	return &evaluation{
		eng:       eng,
		rec:       rec,
		resolving: make(map[string]bool),
		done:      make(map[string]Outcome),
	}
}

func (ev *evaluation) extract(m *mapping.VariableMapping) Outcome {
	if out, ok := ev.done[m.Name]; ok {
		return out
	}
	ev.resolving[m.Name] = true
	out := ev.compute(m)
	delete(ev.resolving, m.Name)
	ev.done[m.Name] = out
	return out
}

// compute walks the mapping's sources in ascending priority order. The
// first source producing a present value wins; later sources are consulted
// only on silence, never when a present value turns out invalid. A wrong
// value at priority k is a configuration bug to surface, not to skip.
func (ev *evaluation) compute(m *mapping.VariableMapping) Outcome {
	out := Outcome{Variable: m.Name, RecordID: ev.rec.ID, Value: record.Absent()}

	if !MatchesFilter(ev.rec, m.Filter) {
		out.Failure = failure(FailFilteredOut)
		return out
	}

	for _, rule := range m.Sources {
		if ev.eng.evalHook != nil {
			ev.eng.evalHook(m.Name, rule.Priority)
		}
		v, fail := ev.evalSource(rule.Spec)
		if fail != nil {
			out.Failure = fail
			return out
		}
		if !v.Present() {
			continue
		}
		coerced, ok := Coerce(v, m.Type)
		if !ok {
			out.Failure = failure(FailTypeMismatch)
			return out
		}
		out.Value = coerced
		out.ResolvedBy = rule.Priority
		return out
	}

	if m.Required {
		out.Failure = failure(FailNoSourceResolved)
	}
	return out
}

// sibling resolves another variable of the same set against the current
// record. A sibling already in the resolving set closes a dependency cycle;
// that is reported before any recursion happens.
func (ev *evaluation) sibling(name string) (Outcome, *FailureReason) {
	if ev.resolving[name] {
		return Outcome{}, failure(FailCyclicDependency)
	}
	m, ok := ev.eng.set.Get(name)
	if !ok {
		// Unreachable after Set validation; treat as silence.
		return Outcome{Variable: name, RecordID: ev.rec.ID, Value: record.Absent()}, nil
	}
	out := ev.extract(m)
	if out.Failure != nil && *out.Failure == FailCyclicDependency {
		// Every variable on a cycle reports the cycle, not just the one
		// the walk happened to enter first.
		return out, failure(FailCyclicDependency)
	}
	return out, nil
}
