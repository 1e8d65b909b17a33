package mcp

import (
	"context"
	"fmt"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	"github.com/niksavis/burndown-chart-sub004/internal/dataset"
	"github.com/niksavis/burndown-chart-sub004/internal/extract"
	"github.com/niksavis/burndown-chart-sub004/internal/mapping"
	"github.com/niksavis/burndown-chart-sub004/internal/record"
	"github.com/niksavis/burndown-chart-sub004/internal/visuals"
)

const defaultFailureLimit = 25

type listVariablesInput struct{}

type variableView struct {
	Name     string       `json:"name"`
	Type     string       `json:"type"`
	Required bool         `json:"required"`
	Sources  []sourceView `json:"sources"`
	Filters  *filterView  `json:"filters,omitempty"`
}

type sourceView struct {
	Priority int    `json:"priority"`
	Type     string `json:"type"`
}

type filterView struct {
	Projects         []string `json:"projects,omitempty"`
	IssueTypes       []string `json:"issue_types,omitempty"`
	EnvironmentField string   `json:"environment_field,omitempty"`
	EnvironmentValue string   `json:"environment_value,omitempty"`
}

func (s *Server) handleListVariables(ctx context.Context, req *sdk.CallToolRequest, input listVariablesInput) (*sdk.CallToolResult, any, error) {
	set := s.engine.Set()
	views := make([]variableView, 0, set.Len())
	for _, m := range set.Mappings() {
		view := variableView{
			Name:     m.Name,
			Type:     string(m.Type),
			Required: m.Required,
		}
		for _, rule := range m.Sources {
			view.Sources = append(view.Sources, sourceView{
				Priority: rule.Priority,
				Type:     rule.Spec.Kind(),
			})
		}
		if m.Filter != nil && !m.Filter.Empty() {
			view.Filters = &filterView{
				Projects:         m.Filter.Projects,
				IssueTypes:       m.Filter.IssueTypes,
				EnvironmentField: m.Filter.EnvironmentField,
				EnvironmentValue: m.Filter.EnvironmentValue,
			}
		}
		views = append(views, view)
	}
	return textResult(map[string]any{"variables": views}), nil, nil
}

type validateMappingsInput struct {
	MappingsPath string `json:"mappings_path"`
}

func (s *Server) handleValidateMappings(ctx context.Context, req *sdk.CallToolRequest, input validateMappingsInput) (*sdk.CallToolResult, any, error) {
	set, err := mapping.Load(input.MappingsPath)
	if err != nil {
		return nil, nil, err
	}
	return textResult(map[string]any{
		"valid":     true,
		"variables": set.Names(),
	}), nil, nil
}

type extractVariablesInput struct {
	RecordsPath  string `json:"records_path"`
	MappingsPath string `json:"mappings_path,omitempty"`
	MaxFailures  int    `json:"max_failures,omitempty"`
}

type failureView struct {
	RecordID string `json:"record_id"`
	Variable string `json:"variable"`
	Reason   string `json:"reason"`
}

func (s *Server) handleExtractVariables(ctx context.Context, req *sdk.CallToolRequest, input extractVariablesInput) (*sdk.CallToolResult, any, error) {
	engine, err := s.engineFor(input.MappingsPath)
	if err != nil {
		return nil, nil, err
	}

	records, err := dataset.LoadRecords(input.RecordsPath)
	if err != nil {
		return nil, nil, err
	}

	result, err := engine.Run(ctx, records)
	if err != nil {
		return nil, nil, err
	}

	limit := input.MaxFailures
	if limit <= 0 {
		limit = defaultFailureLimit
	}
	var failures []failureView
	for _, o := range result.Outcomes {
		if o.Failure == nil || *o.Failure == extract.FailFilteredOut {
			continue
		}
		if len(failures) >= limit {
			break
		}
		failures = append(failures, failureView{
			RecordID: o.RecordID,
			Variable: o.Variable,
			Reason:   string(*o.Failure),
		})
	}

	log.Info().
		Int("records", len(records)).
		Int("resolved", result.Summary.Resolved).
		Int("unresolvedRequired", result.Summary.UnresolvedRequired).
		Msg("Batch extraction via MCP completed")

	response := map[string]any{
		"records":  len(records),
		"summary":  result.Summary,
		"failures": failures,
	}

	res := textResult(response)
	if s.cfg.EnableMermaidCharts {
		if chart := visuals.GenerateSummaryChart(result.Summary); chart != "" {
			res.Content = append(res.Content, &sdk.TextContent{Text: chart})
		}
	}
	return res, nil, nil
}

type recordVariablesInput struct {
	RecordsPath  string `json:"records_path"`
	RecordID     string `json:"record_id"`
	MappingsPath string `json:"mappings_path,omitempty"`
}

func (s *Server) handleRecordVariables(ctx context.Context, req *sdk.CallToolRequest, input recordVariablesInput) (*sdk.CallToolResult, any, error) {
	engine, err := s.engineFor(input.MappingsPath)
	if err != nil {
		return nil, nil, err
	}

	rec, err := s.findRecord(input.RecordsPath, input.RecordID)
	if err != nil {
		return nil, nil, err
	}

	outcomes := engine.ExtractRecord(rec)
	return textResult(map[string]any{
		"record_id": rec.ID,
		"outcomes":  outcomes,
	}), nil, nil
}

type recordJourneyInput struct {
	RecordsPath string `json:"records_path"`
	RecordID    string `json:"record_id"`
	Field       string `json:"field,omitempty"`
}

func (s *Server) handleRecordJourney(ctx context.Context, req *sdk.CallToolRequest, input recordJourneyInput) (*sdk.CallToolResult, any, error) {
	rec, err := s.findRecord(input.RecordsPath, input.RecordID)
	if err != nil {
		return nil, nil, err
	}

	field := input.Field
	if field == "" {
		field = record.FieldStatus
	}

	chart := visuals.GenerateJourneyGantt(rec, field, s.engine.ReferenceTime())
	if chart == "" {
		return rawTextResult(fmt.Sprintf("Record %s has no %q transitions before the reference time.", rec.ID, field)), nil, nil
	}
	return rawTextResult(chart), nil, nil
}

func (s *Server) findRecord(path, id string) (record.Record, error) {
	records, err := dataset.LoadRecords(path)
	if err != nil {
		return record.Record{}, err
	}
	for _, rec := range records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return record.Record{}, fmt.Errorf("record %q not found in %s", id, path)
}
