package record

import (
	"testing"
	"time"
)

func TestValidateChangelog(t *testing.T) {
	t0 := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	t1 := t0.Add(2 * time.Hour)

	tests := []struct {
		name    string
		events  []ChangeEvent
		wantErr bool
	}{
		{"Empty", nil, false},
		{"Sorted", []ChangeEvent{
			{At: t0, Field: "status", From: "Open", To: "In Progress"},
			{At: t1, Field: "status", From: "In Progress", To: "Done"},
		}, false},
		{"EqualTimestamps", []ChangeEvent{
			{At: t0, Field: "status", To: "In Progress"},
			{At: t0, Field: "assignee", To: "someone"},
		}, false},
		{"OutOfOrder", []ChangeEvent{
			{At: t1, Field: "status", To: "Done"},
			{At: t0, Field: "status", To: "In Progress"},
		}, true},
		{"MissingTimestamp", []ChangeEvent{
			{Field: "status", To: "Done"},
		}, true},
		{"MissingField", []ChangeEvent{
			{At: t0, To: "Done"},
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateChangelog(tt.events)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateChangelog() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFieldReturnsAbsentForMissing(t *testing.T) {
	rec := Record{ID: "WEB-1", Fields: map[string]Value{"status": Text("Done")}}

	if got := rec.Field("status"); !got.Equal(Text("Done")) {
		t.Errorf("Expected Done, got %v", got)
	}
	if got := rec.Field("nope"); got.Present() {
		t.Errorf("Expected absent value for missing field, got %v", got)
	}
}
