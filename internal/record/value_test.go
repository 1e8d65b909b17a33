package record

import (
	"encoding/json"
	"testing"
	"time"
)

func TestValueAccessorsMatchKind(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	v := Timestamp(ts)
	if got, ok := v.AsTimestamp(); !ok || !got.Equal(ts) {
		t.Errorf("Expected timestamp %v, got %v (ok=%v)", ts, got, ok)
	}
	if _, ok := v.AsText(); ok {
		t.Error("Expected AsText to fail for a timestamp value")
	}

	if Absent().Present() {
		t.Error("Expected Absent to not be present")
	}
	if !Text("").Present() {
		t.Error("Expected empty text to still be present")
	}
}

func TestValueJSONRoundTrip(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

	tests := []struct {
		name  string
		value Value
	}{
		{"Text", Text("Done")},
		{"Number", Number(42.5)},
		{"Bool", Bool(true)},
		{"Timestamp", Timestamp(ts)},
		{"TextList", TextList([]string{"WEB", "DEVOPS"})},
		{"Absent", Absent()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.value)
			if err != nil {
				t.Fatalf("Marshal failed: %v", err)
			}
			var back Value
			if err := json.Unmarshal(data, &back); err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}
			if !back.Equal(tt.value) {
				t.Errorf("Expected %v after round trip, got %v", tt.value, back)
			}
		})
	}
}

// Plain strings must stay text on the wire: date-looking strings are only
// promoted by the coercion layer at extraction time.
func TestValueUnmarshalKeepsDateStringsAsText(t *testing.T) {
	var v Value
	if err := json.Unmarshal([]byte(`"2024-03-01T12:00:00Z"`), &v); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if v.Kind() != KindText {
		t.Errorf("Expected text kind, got %v", v.Kind())
	}
}

func TestValueUnmarshalRejectsUnknownObject(t *testing.T) {
	var v Value
	if err := json.Unmarshal([]byte(`{"nested": 1}`), &v); err == nil {
		t.Error("Expected error for non-timestamp object, got nil")
	}
}
