package record

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Kind discriminates the closed set of value shapes a record field can hold.
type Kind int

const (
	KindAbsent Kind = iota
	KindText
	KindNumber
	KindBool
	KindTimestamp
	KindTextList
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindTimestamp:
		return "timestamp"
	case KindTextList:
		return "text_list"
	default:
		return "absent"
	}
}

// Value is a closed tagged union over the shapes an issue-tracker field
// can carry. Values are immutable; construct them via Text, Number, Bool,
// Timestamp, TextList or Absent and read them via the AsXxx accessors.
type Value struct {
	kind    Kind
	text    string
	number  float64
	boolean bool
	ts      time.Time
	list    []string
}

// Absent returns the zero value (no data).
func Absent() Value { return Value{} }

// Text wraps a string.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Number wraps a float64. Durations are carried as numbers denominated in seconds.
func Number(f float64) Value { return Value{kind: KindNumber, number: f} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, boolean: b} }

// Timestamp wraps a point in time.
func Timestamp(t time.Time) Value { return Value{kind: KindTimestamp, ts: t} }

// TextList wraps a list of strings. The slice is copied.
func TextList(items []string) Value {
	cp := make([]string, len(items))
	copy(cp, items)
	return Value{kind: KindTextList, list: cp}
}

// Kind returns the discriminator.
func (v Value) Kind() Kind { return v.kind }

// Present reports whether the value carries data.
func (v Value) Present() bool { return v.kind != KindAbsent }

func (v Value) AsText() (string, bool) {
	return v.text, v.kind == KindText
}

func (v Value) AsNumber() (float64, bool) {
	return v.number, v.kind == KindNumber
}

func (v Value) AsBool() (bool, bool) {
	return v.boolean, v.kind == KindBool
}

func (v Value) AsTimestamp() (time.Time, bool) {
	return v.ts, v.kind == KindTimestamp
}

func (v Value) AsTextList() ([]string, bool) {
	if v.kind != KindTextList {
		return nil, false
	}
	cp := make([]string, len(v.list))
	copy(cp, v.list)
	return cp, true
}

// Equal reports deep equality, including the kind.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindText:
		return v.text == o.text
	case KindNumber:
		return v.number == o.number
	case KindBool:
		return v.boolean == o.boolean
	case KindTimestamp:
		return v.ts.Equal(o.ts)
	case KindTextList:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if v.list[i] != o.list[i] {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// String renders the value for logs and chart labels.
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		return strconv.FormatFloat(v.number, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.boolean)
	case KindTimestamp:
		return v.ts.Format(time.RFC3339)
	case KindTextList:
		return fmt.Sprintf("%v", v.list)
	default:
		return ""
	}
}

// timestampJSON keeps timestamps distinguishable from plain strings on the
// wire. Plain strings always decode as Text; date-looking strings are only
// promoted by the coercion layer at extraction time.
type timestampJSON struct {
	Time string `json:"$time"`
}

// MarshalJSON encodes the union: text as a string, number as a number,
// bool as a bool, list as an array, timestamp as {"$time": ...}, absent as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindText:
		return json.Marshal(v.text)
	case KindNumber:
		return json.Marshal(v.number)
	case KindBool:
		return json.Marshal(v.boolean)
	case KindTimestamp:
		return json.Marshal(timestampJSON{Time: v.ts.Format(time.RFC3339Nano)})
	case KindTextList:
		return json.Marshal(v.list)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON reverses MarshalJSON.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch typed := raw.(type) {
	case nil:
		*v = Absent()
	case string:
		*v = Text(typed)
	case float64:
		*v = Number(typed)
	case bool:
		*v = Bool(typed)
	case []any:
		items := make([]string, 0, len(typed))
		for _, item := range typed {
			s, ok := item.(string)
			if !ok {
				return fmt.Errorf("value list element is not a string: %v", item)
			}
			items = append(items, s)
		}
		*v = TextList(items)
	case map[string]any:
		rawTime, ok := typed["$time"].(string)
		if !ok {
			return fmt.Errorf("value object is not a timestamp: %v", typed)
		}
		t, err := time.Parse(time.RFC3339Nano, rawTime)
		if err != nil {
			return fmt.Errorf("invalid timestamp %q: %w", rawTime, err)
		}
		*v = Timestamp(t)
	default:
		return fmt.Errorf("unsupported value shape: %T", raw)
	}
	return nil
}
