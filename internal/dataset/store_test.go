package dataset

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/niksavis/burndown-chart-sub004/internal/extract"
	"github.com/niksavis/burndown-chart-sub004/internal/record"
)

func TestSaveLoadRecordsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.jsonl")
	t0 := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	records := []record.Record{
		{
			ID: "DEVOPS-1",
			Fields: map[string]record.Value{
				"status":      record.Text("Done"),
				"storypoints": record.Number(3),
			},
			Changelog: []record.ChangeEvent{
				{At: t0, Field: "status", From: "Open", To: "Done"},
			},
		},
		{ID: "DEVOPS-2"},
	}

	if err := SaveRecords(path, records); err != nil {
		t.Fatalf("SaveRecords failed: %v", err)
	}

	loaded, err := LoadRecords(path)
	if err != nil {
		t.Fatalf("LoadRecords failed: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(loaded))
	}
	if loaded[0].ID != "DEVOPS-1" {
		t.Errorf("Expected DEVOPS-1, got %s", loaded[0].ID)
	}
	if got := loaded[0].Field("status"); !got.Equal(record.Text("Done")) {
		t.Errorf("Expected status Done, got %v", got)
	}
	if len(loaded[0].Changelog) != 1 || !loaded[0].Changelog[0].At.Equal(t0) {
		t.Errorf("Expected changelog to survive the round trip, got %+v", loaded[0].Changelog)
	}
}

func TestLoadRecordsSkipsInvalidLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.jsonl")
	content := `{"id": "A-1"}
this line is not JSON
{"id": "A-2"}
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadRecords(path)
	if err != nil {
		t.Fatalf("LoadRecords failed: %v", err)
	}
	if len(loaded) != 2 {
		t.Errorf("Expected 2 records after skipping the bad line, got %d", len(loaded))
	}
}

func TestLoadRecordsMissingFile(t *testing.T) {
	if _, err := LoadRecords(filepath.Join(t.TempDir(), "nope.jsonl")); err == nil {
		t.Error("Expected error for missing file, got nil")
	}
}

func TestSaveOutcomes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "outcomes.jsonl")
	outcomes := []extract.Outcome{
		{Variable: "lead_time", RecordID: "A-1", Value: record.Number(5400), ResolvedBy: 1},
	}
	if err := SaveOutcomes(path, outcomes); err != nil {
		t.Fatalf("SaveOutcomes failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 {
		t.Error("Expected outcomes file to have content")
	}
}
