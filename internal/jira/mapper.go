package jira

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/niksavis/burndown-chart-sub004/internal/record"
)

// MapSearch converts an issue search export into engine records.
func MapSearch(resp SearchResponse) []record.Record {
	records := make([]record.Record, 0, len(resp.Issues))
	for _, item := range resp.Issues {
		records = append(records, MapIssue(item))
	}
	return records
}

// DecodeSearch parses a raw export document and maps it to records.
func DecodeSearch(data []byte) ([]record.Record, error) {
	var resp SearchResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode issue export: %w", err)
	}
	return MapSearch(resp), nil
}

// MapIssue transforms one exported issue into a Record: scalar fields are
// flattened to typed values under lower-cased canonical keys, the changelog
// becomes chronologically sorted change events, and fixVersions become the
// record's version list.
func MapIssue(item IssueDTO) record.Record {
	rec := record.Record{
		ID:     item.Key,
		Fields: make(map[string]record.Value),
	}

	for name, raw := range item.Fields {
		key := strings.ToLower(name)
		if key == "fixversions" {
			rec.Versions = mapVersions(raw)
			continue
		}
		if v, ok := flattenField(key, raw); ok {
			rec.Fields[key] = v
		}
	}

	// The project key is derivable from the issue key when the export
	// lacks a project field.
	if _, ok := rec.Fields[record.FieldProject]; !ok {
		if i := strings.IndexByte(item.Key, '-'); i > 0 {
			rec.Fields[record.FieldProject] = record.Text(item.Key[:i])
		}
	}

	if item.Changelog != nil {
		rec.Changelog = mapChangelog(item.Key, item.Changelog)
	}

	return rec
}

// flattenField reduces one exported field to a Value. Strings stay text;
// date-looking strings are only promoted by the coercion layer at
// extraction time. Jira object fields (status, issuetype, options) reduce
// to their display name; arrays reduce to a text list. Shapes with no
// scalar reduction are skipped.
func flattenField(key string, raw any) (record.Value, bool) {
	switch typed := raw.(type) {
	case string:
		return record.Text(typed), true
	case float64:
		return record.Number(typed), true
	case bool:
		return record.Bool(typed), true
	case map[string]any:
		// Project objects carry the canonical identifier in "key".
		if key == record.FieldProject {
			if s, ok := typed["key"].(string); ok && s != "" {
				return record.Text(s), true
			}
		}
		for _, attr := range []string{"name", "value", "key"} {
			if s, ok := typed[attr].(string); ok && s != "" {
				return record.Text(s), true
			}
		}
	case []any:
		var items []string
		for _, el := range typed {
			if s, ok := el.(string); ok {
				items = append(items, s)
				continue
			}
			if m, ok := el.(map[string]any); ok {
				for _, attr := range []string{"name", "value", "key"} {
					if s, ok := m[attr].(string); ok && s != "" {
						items = append(items, s)
						break
					}
				}
			}
		}
		if len(items) > 0 {
			return record.TextList(items), true
		}
	}
	return record.Absent(), false
}

func mapVersions(raw any) []record.Version {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil
	}
	var dtos []VersionDTO
	if err := json.Unmarshal(data, &dtos); err != nil {
		return nil
	}

	versions := make([]record.Version, 0, len(dtos))
	for _, dto := range dtos {
		v := record.Version{
			Name:        dto.Name,
			Description: dto.Description,
			Released:    dto.Released,
		}
		if dto.ReleaseDate != "" {
			if t, err := ParseDate(dto.ReleaseDate); err == nil {
				v.ReleaseDate = &t
			}
		}
		if dto.StartDate != "" {
			if t, err := ParseDate(dto.StartDate); err == nil {
				v.StartDate = &t
			}
		}
		versions = append(versions, v)
	}
	return versions
}

func mapChangelog(key string, changelog *ChangelogDTO) []record.ChangeEvent {
	var events []record.ChangeEvent
	for _, h := range changelog.Histories {
		hDate, err := ParseTime(h.Created)
		if err != nil {
			log.Warn().Str("issue", key).Str("created", h.Created).Msg("Skipping changelog entry with unparseable timestamp")
			continue
		}
		for _, itm := range h.Items {
			if itm.Field == "" {
				continue
			}
			events = append(events, record.ChangeEvent{
				At:    hDate,
				Field: strings.ToLower(itm.Field),
				From:  itm.FromString,
				To:    itm.ToString,
			})
		}
	}

	slices.SortStableFunc(events, func(a, b record.ChangeEvent) int {
		return a.At.Compare(b.At)
	})

	return events
}
