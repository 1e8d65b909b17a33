package mapping

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"
)

// Structural schema for the mappings file. Semantic rules (priority
// ordering, sibling references, regex compilation) live in Set validation;
// the schema rejects files that are the wrong shape before decoding starts.
var mappingsSchema = &jsonschema.Schema{
	Type:     "object",
	Required: []string{"variables"},
	Properties: map[string]*jsonschema.Schema{
		"variables": {
			Type:                 "object",
			AdditionalProperties: variableSchema,
		},
	},
}

var variableSchema = &jsonschema.Schema{
	Type:     "object",
	Required: []string{"variable_type", "sources"},
	Properties: map[string]*jsonschema.Schema{
		"variable_type": {
			Type: "string",
			Enum: []any{"text", "number", "boolean", "timestamp", "duration", "category", "category_list"},
		},
		"required": {Type: "boolean"},
		"sources": {
			Type:  "array",
			Items: sourceSchema,
		},
		"filters": {
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"projects":          {Type: "array", Items: &jsonschema.Schema{Type: "string"}},
				"issue_types":       {Type: "array", Items: &jsonschema.Schema{Type: "string"}},
				"environment_field": {Type: "string"},
				"environment_value": {Type: "string"},
			},
		},
	},
}

var sourceSchema = &jsonschema.Schema{
	Type:     "object",
	Required: []string{"type", "priority"},
	Properties: map[string]*jsonschema.Schema{
		"type": {
			Type: "string",
			Enum: []any{"field_value", "field_value_match", "changelog_event", "changelog_timestamp", "fix_version", "calculated"},
		},
		"priority":       {Type: "integer"},
		"field":          {Type: "string"},
		"match":          {Type: "string"},
		"regex":          {Type: "boolean"},
		"to":             {Type: "string"},
		"from":           {Type: "string"},
		"occurrence":     {Type: "string", Enum: []any{"first", "last"}},
		"attribute":      {Type: "string", Enum: []any{"name", "description", "released", "releaseDate", "startDate"}},
		"position":       {Type: "integer"},
		"name_pattern":   {Type: "string"},
		"op":             {Type: "string", Enum: []any{"difference", "sum_of_durations_in_status_set"}},
		"variable_a":     {Type: "string"},
		"variable_b":     {Type: "string"},
		"states":         {Type: "array", Items: &jsonschema.Schema{Type: "string"}},
		"as_of_variable": {Type: "string"},
	},
}

var (
	resolveOnce    sync.Once
	resolvedSchema *jsonschema.Resolved
	resolveErr     error
)

func validateSchema(data []byte) error {
	resolveOnce.Do(func() {
		resolvedSchema, resolveErr = mappingsSchema.Resolve(nil)
	})
	if resolveErr != nil {
		return fmt.Errorf("failed to resolve mappings schema: %w", resolveErr)
	}

	var instance any
	if err := json.Unmarshal(data, &instance); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return resolvedSchema.Validate(instance)
}
