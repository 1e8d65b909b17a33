package jira

import (
	"testing"
	"time"

	"github.com/niksavis/burndown-chart-sub004/internal/record"
)

const sampleExport = `{
  "total": 1,
  "issues": [
    {
      "key": "DEVOPS-42",
      "fields": {
        "Summary": "Ship the release",
        "issuetype": {"name": "Deployment", "subtask": false},
        "status": {"id": "3", "name": "Deployed"},
        "project": {"key": "DEVOPS", "name": "DevOps Team"},
        "storypoints": 5,
        "flagged": true,
        "labels": ["infra", "release"],
        "resolutiondate": "2024-03-05T16:00:00.000+0000",
        "fixVersions": [
          {"name": "1.2.0", "released": true, "releaseDate": "2024-03-05"}
        ],
        "unmappable": null
      },
      "changelog": {
        "histories": [
          {
            "created": "2024-03-05T14:00:00.000+0000",
            "items": [
              {"field": "status", "fromString": "In Progress", "toString": "Deployed", "from": "2", "to": "3"}
            ]
          },
          {
            "created": "2024-03-01T09:00:00.000+0000",
            "items": [
              {"field": "status", "fromString": "Open", "toString": "In Progress", "from": "1", "to": "2"},
              {"field": "assignee", "fromString": "", "toString": "dana"}
            ]
          }
        ]
      }
    }
  ]
}`

func TestDecodeSearchMapsIssue(t *testing.T) {
	records, err := DecodeSearch([]byte(sampleExport))
	if err != nil {
		t.Fatalf("DecodeSearch failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	rec := records[0]

	if rec.ID != "DEVOPS-42" {
		t.Errorf("Expected ID DEVOPS-42, got %s", rec.ID)
	}

	// Field keys are lower-cased; object fields reduce to names, projects to keys
	tests := []struct {
		field string
		want  record.Value
	}{
		{"summary", record.Text("Ship the release")},
		{"issuetype", record.Text("Deployment")},
		{"status", record.Text("Deployed")},
		{"project", record.Text("DEVOPS")},
		{"storypoints", record.Number(5)},
		{"flagged", record.Bool(true)},
		{"labels", record.TextList([]string{"infra", "release"})},
		{"resolutiondate", record.Text("2024-03-05T16:00:00.000+0000")},
	}
	for _, tt := range tests {
		if got := rec.Field(tt.field); !got.Equal(tt.want) {
			t.Errorf("Field %s: expected %v, got %v", tt.field, tt.want, got)
		}
	}

	if rec.Field("unmappable").Present() {
		t.Error("Expected null field to be dropped")
	}

	// Changelog is flattened and chronologically sorted despite export order
	if len(rec.Changelog) != 3 {
		t.Fatalf("Expected 3 change events, got %d", len(rec.Changelog))
	}
	if err := record.ValidateChangelog(rec.Changelog); err != nil {
		t.Errorf("Expected sorted changelog, got %v", err)
	}
	first := rec.Changelog[0]
	if first.Field != "status" || first.To != "In Progress" {
		t.Errorf("Expected first event status->In Progress, got %+v", first)
	}

	// fixVersions become the version list
	if len(rec.Versions) != 1 {
		t.Fatalf("Expected 1 version, got %d", len(rec.Versions))
	}
	v := rec.Versions[0]
	if v.Name != "1.2.0" || !v.Released {
		t.Errorf("Expected released 1.2.0, got %+v", v)
	}
	wantDate := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	if v.ReleaseDate == nil || !v.ReleaseDate.Equal(wantDate) {
		t.Errorf("Expected release date %v, got %v", wantDate, v.ReleaseDate)
	}
}

func TestMapIssueDerivesProjectFromKey(t *testing.T) {
	rec := MapIssue(IssueDTO{Key: "WEB-7", Fields: map[string]any{"status": "Open"}})
	if got := rec.Field(record.FieldProject); !got.Equal(record.Text("WEB")) {
		t.Errorf("Expected project WEB derived from key, got %v", got)
	}
}

func TestMapIssueSkipsUnparseableHistory(t *testing.T) {
	rec := MapIssue(IssueDTO{
		Key:    "WEB-8",
		Fields: map[string]any{},
		Changelog: &ChangelogDTO{Histories: []HistoryDTO{
			{Created: "not a date", Items: []ItemDTO{{Field: "status", ToString: "Done"}}},
			{Created: "2024-03-01T09:00:00.000+0000", Items: []ItemDTO{{Field: "status", ToString: "Open"}}},
		}},
	})
	if len(rec.Changelog) != 1 {
		t.Errorf("Expected 1 change event after skipping bad history, got %d", len(rec.Changelog))
	}
}
