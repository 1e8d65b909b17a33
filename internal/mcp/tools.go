package mcp

import (
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools(srv *sdk.Server) {
	sdk.AddTool(srv, &sdk.Tool{
		Name: "list_variables",
		Description: "List the configured variable mappings: each variable's type, whether it is required, " +
			"its prioritized source rules and its applicability filters. " +
			"Guidance: call this first to learn which variables 'extract_variables' will produce.",
	}, s.handleListVariables)

	sdk.AddTool(srv, &sdk.Tool{
		Name: "validate_mappings",
		Description: "Validate a mappings file (JSON) without running an extraction. " +
			"Checks the schema, priority ordering, sibling variable references and regex patterns. " +
			"A file that fails validation can never start a run, so fix every reported problem before calling 'extract_variables'.",
	}, s.handleValidateMappings)

	sdk.AddTool(srv, &sdk.Tool{
		Name: "extract_variables",
		Description: "Run the extraction engine over a JSONL records file and report the batch summary: " +
			"resolved / filtered-out / unresolved counts plus per-reason failure totals and the failing (record, variable) pairs. " +
			"A 'filtered_out' outcome means the mapping does not apply to that record and is NOT an error. " +
			"DO NOT substitute default values for unresolved required variables; report them to the user instead.",
	}, s.handleExtractVariables)

	sdk.AddTool(srv, &sdk.Tool{
		Name: "get_record_variables",
		Description: "Extract every configured variable for a single record and return the full outcomes, " +
			"including which source priority resolved each value. " +
			"Use this to debug why a specific record resolves (or fails to resolve) a variable.",
	}, s.handleRecordVariables)

	sdk.AddTool(srv, &sdk.Tool{
		Name: "get_record_journey",
		Description: "Render a Mermaid gantt chart of the states one record's field (default: status) moved through, " +
			"derived from its changelog. Useful to sanity-check changelog-based sources and duration sums.",
	}, s.handleRecordJourney)
}
