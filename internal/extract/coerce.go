package extract

import (
	"strconv"
	"time"

	"github.com/niksavis/burndown-chart-sub004/internal/mapping"
	"github.com/niksavis/burndown-chart-sub004/internal/record"
)

// Layouts tried when a text value is coerced toward a timestamp. The first
// is the strict Jira changelog layout.
var timestampLayouts = []string{
	"2006-01-02T15:04:05.000-0700",
	time.RFC3339,
	"2006-01-02",
}

// Coerce converts a present value toward the mapping's declared type.
// Returns the converted value and false on any mismatch; it never guesses.
// Duration targets yield Number values denominated in seconds.
func Coerce(v record.Value, target mapping.ValueType) (record.Value, bool) {
	switch target {
	case mapping.TypeText:
		switch v.Kind() {
		case record.KindText, record.KindNumber, record.KindBool, record.KindTimestamp:
			return record.Text(v.String()), true
		}
	case mapping.TypeNumber:
		if n, ok := v.AsNumber(); ok {
			return record.Number(n), true
		}
		if text, ok := v.AsText(); ok {
			if n, err := strconv.ParseFloat(text, 64); err == nil {
				return record.Number(n), true
			}
		}
	case mapping.TypeBoolean:
		if b, ok := v.AsBool(); ok {
			return record.Bool(b), true
		}
		if text, ok := v.AsText(); ok {
			if b, err := strconv.ParseBool(text); err == nil {
				return record.Bool(b), true
			}
		}
	case mapping.TypeTimestamp:
		if t, ok := v.AsTimestamp(); ok {
			return record.Timestamp(t), true
		}
		if text, ok := v.AsText(); ok {
			for _, layout := range timestampLayouts {
				if t, err := time.Parse(layout, text); err == nil {
					return record.Timestamp(t), true
				}
			}
		}
	case mapping.TypeDuration:
		if n, ok := v.AsNumber(); ok {
			return record.Number(n), true
		}
		if text, ok := v.AsText(); ok {
			if n, err := strconv.ParseFloat(text, 64); err == nil {
				return record.Number(n), true
			}
			if d, err := time.ParseDuration(text); err == nil {
				return record.Number(d.Seconds()), true
			}
		}
	case mapping.TypeCategory:
		if text, ok := v.AsText(); ok {
			return record.Text(text), true
		}
	case mapping.TypeCategoryList:
		if text, ok := v.AsText(); ok {
			return record.TextList([]string{text}), true
		}
		if list, ok := v.AsTextList(); ok {
			return record.TextList(list), true
		}
	}
	return record.Absent(), false
}
