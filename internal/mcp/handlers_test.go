package mcp

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/niksavis/burndown-chart-sub004/internal/config"
	"github.com/niksavis/burndown-chart-sub004/internal/dataset"
	"github.com/niksavis/burndown-chart-sub004/internal/extract"
	"github.com/niksavis/burndown-chart-sub004/internal/mapping"
	"github.com/niksavis/burndown-chart-sub004/internal/record"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	engine := extract.New(mapping.Catalog(), extract.Options{
		Workers:       1,
		ReferenceTime: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
	})
	return NewServer(&config.AppConfig{}, engine, "test")
}

func writeRecords(t *testing.T, records []record.Record) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "records.jsonl")
	if err := dataset.SaveRecords(path, records); err != nil {
		t.Fatalf("SaveRecords failed: %v", err)
	}
	return path
}

func resultText(t *testing.T, res *sdk.CallToolResult) string {
	t.Helper()
	if res == nil || len(res.Content) == 0 {
		t.Fatal("Expected tool result content")
	}
	text, ok := res.Content[0].(*sdk.TextContent)
	if !ok {
		t.Fatalf("Expected text content, got %T", res.Content[0])
	}
	return text.Text
}

func TestHandleListVariables(t *testing.T) {
	s := testServer(t)
	res, _, err := s.handleListVariables(context.Background(), nil, listVariablesInput{})
	if err != nil {
		t.Fatalf("handleListVariables failed: %v", err)
	}
	text := resultText(t, res)
	for _, name := range []string{"deployment_timestamp", "lead_time", "time_in_progress"} {
		if !strings.Contains(text, name) {
			t.Errorf("Expected listing to contain %s, got %s", name, text)
		}
	}
}

func TestHandleValidateMappings(t *testing.T) {
	s := testServer(t)

	good := filepath.Join(t.TempDir(), "good.json")
	if err := os.WriteFile(good, []byte(`{"variables": {"v": {"variable_type": "text", "sources": [
		{"type": "field_value", "priority": 1, "field": "summary"}]}}}`), 0644); err != nil {
		t.Fatal(err)
	}
	res, _, err := s.handleValidateMappings(context.Background(), nil, validateMappingsInput{MappingsPath: good})
	if err != nil {
		t.Fatalf("Expected valid mappings, got %v", err)
	}
	if !strings.Contains(resultText(t, res), `"valid": true`) {
		t.Errorf("Expected valid:true, got %s", resultText(t, res))
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte(`{"variables": {"v": {"variable_type": "text", "sources": []}}}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := s.handleValidateMappings(context.Background(), nil, validateMappingsInput{MappingsPath: bad}); err == nil {
		t.Error("Expected error for invalid mappings, got nil")
	}
}

func TestHandleExtractVariables(t *testing.T) {
	s := testServer(t)
	deployedAt := time.Date(2024, 3, 5, 14, 0, 0, 0, time.UTC)

	path := writeRecords(t, []record.Record{
		{
			ID: "DEVOPS-1",
			Fields: map[string]record.Value{
				record.FieldProject: record.Text("DEVOPS"),
				"resolutiondate":    record.Text("2024-03-05T16:00:00.000+0000"),
			},
			Changelog: []record.ChangeEvent{
				{At: deployedAt.Add(-4 * time.Hour), Field: "status", From: "Open", To: "In Progress"},
				{At: deployedAt, Field: "status", From: "In Progress", To: "Deployed"},
			},
		},
	})

	res, _, err := s.handleExtractVariables(context.Background(), nil, extractVariablesInput{RecordsPath: path})
	if err != nil {
		t.Fatalf("handleExtractVariables failed: %v", err)
	}
	text := resultText(t, res)
	if !strings.Contains(text, `"records": 1`) {
		t.Errorf("Expected record count, got %s", text)
	}
	if !strings.Contains(text, `"summary"`) {
		t.Errorf("Expected summary block, got %s", text)
	}
}

func TestHandleRecordVariablesAndJourney(t *testing.T) {
	s := testServer(t)
	t0 := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	path := writeRecords(t, []record.Record{{
		ID:     "DEVOPS-7",
		Fields: map[string]record.Value{record.FieldProject: record.Text("DEVOPS")},
		Changelog: []record.ChangeEvent{
			{At: t0, Field: "status", From: "Open", To: "In Progress"},
		},
	}})

	res, _, err := s.handleRecordVariables(context.Background(), nil, recordVariablesInput{RecordsPath: path, RecordID: "DEVOPS-7"})
	if err != nil {
		t.Fatalf("handleRecordVariables failed: %v", err)
	}
	if !strings.Contains(resultText(t, res), "work_start_timestamp") {
		t.Errorf("Expected outcomes for catalog variables, got %s", resultText(t, res))
	}

	res, _, err = s.handleRecordJourney(context.Background(), nil, recordJourneyInput{RecordsPath: path, RecordID: "DEVOPS-7"})
	if err != nil {
		t.Fatalf("handleRecordJourney failed: %v", err)
	}
	if !strings.Contains(resultText(t, res), "gantt") {
		t.Errorf("Expected a gantt chart, got %s", resultText(t, res))
	}

	if _, _, err := s.handleRecordJourney(context.Background(), nil, recordJourneyInput{RecordsPath: path, RecordID: "NOPE-1"}); err == nil {
		t.Error("Expected error for unknown record, got nil")
	}
}
