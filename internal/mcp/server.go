// Package mcp exposes the extraction engine as an MCP stdio tool server.
package mcp

import (
	"context"
	"encoding/json"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	"github.com/niksavis/burndown-chart-sub004/internal/config"
	"github.com/niksavis/burndown-chart-sub004/internal/extract"
	"github.com/niksavis/burndown-chart-sub004/internal/mapping"
)

// Server holds the state for the MCP server.
type Server struct {
	cfg     *config.AppConfig
	engine  *extract.Engine
	version string
}

// NewServer creates a new MCP server around a ready engine.
func NewServer(cfg *config.AppConfig, engine *extract.Engine, version string) *Server {
	return &Server{cfg: cfg, engine: engine, version: version}
}

// Start runs the stdio loop until the client disconnects or the context is
// cancelled.
func (s *Server) Start(ctx context.Context) error {
	impl := &sdk.Implementation{Name: "varmap", Version: s.version}
	srv := sdk.NewServer(impl, nil)
	s.registerTools(srv)

	log.Info().Int("tools", 5).Msg("MCP Server starting Stdio loop")
	return srv.Run(ctx, &sdk.StdioTransport{})
}

// engineFor returns the server's engine, or a fresh one when the call names
// its own mappings file.
func (s *Server) engineFor(mappingsPath string) (*extract.Engine, error) {
	if mappingsPath == "" {
		return s.engine, nil
	}
	set, err := mapping.Load(mappingsPath)
	if err != nil {
		return nil, err
	}
	return extract.New(set, extract.Options{
		Workers:       s.cfg.Workers,
		ReferenceTime: s.cfg.ReferenceDate,
	}), nil
}

func textResult(data any) *sdk.CallToolResult {
	out, _ := json.MarshalIndent(data, "", "  ")
	return &sdk.CallToolResult{
		Content: []sdk.Content{&sdk.TextContent{Text: string(out)}},
	}
}

func rawTextResult(text string) *sdk.CallToolResult {
	return &sdk.CallToolResult{
		Content: []sdk.Content{&sdk.TextContent{Text: text}},
	}
}
