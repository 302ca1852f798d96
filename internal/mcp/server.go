// Package mcp implements the Model Context Protocol server for docmeta.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/ajitpratap0/docmeta/internal/meta"
	"github.com/ajitpratap0/docmeta/internal/query"
)

// defaultFindLimit is the default number of sections returned by find_sections.
const defaultFindLimit = 20

// Server wraps an MCPServer with a read-only index query service.
type Server struct {
	mcp    *mcpserver.MCPServer
	query  *query.Service
	logger *slog.Logger
}

// NewServer creates a new MCP server. If q is nil, every tool call returns
// an error response instead of panicking.
func NewServer(q *query.Service, version string, logger *slog.Logger) *Server {
	s := &Server{
		query:  q,
		logger: logger,
	}

	mcpSrv := mcpserver.NewMCPServer(
		"docmeta",
		version,
		mcpserver.WithToolCapabilities(true),
	)

	mcpSrv.AddTool(buildGetSectionTool(), s.handleGetSection)
	mcpSrv.AddTool(buildSectionSourceTool(), s.handleSectionSource)
	mcpSrv.AddTool(buildListChaptersTool(), s.handleListChapters)
	mcpSrv.AddTool(buildFindSectionsTool(), s.handleFindSections)
	mcpSrv.AddTool(buildStatsTool(), s.handleStats)

	s.mcp = mcpSrv
	return s
}

// MCPServer returns the underlying mcp-go MCPServer for use with ServeStdio.
func (s *Server) MCPServer() *mcpserver.MCPServer {
	return s.mcp
}

// HandleGetSection is the exported handler for the "get_section" tool.
// It is exposed for direct testing without the mcp-go transport layer.
func (s *Server) HandleGetSection(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleGetSection(ctx, req)
}

// HandleSectionSource is the exported handler for the "section_source" tool.
func (s *Server) HandleSectionSource(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleSectionSource(ctx, req)
}

// HandleListChapters is the exported handler for the "list_chapters" tool.
func (s *Server) HandleListChapters(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleListChapters(ctx, req)
}

// HandleFindSections is the exported handler for the "find_sections" tool.
func (s *Server) HandleFindSections(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleFindSections(ctx, req)
}

// HandleStats is the exported handler for the "index_stats" tool.
func (s *Server) HandleStats(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleStats(ctx, req)
}

// --- helpers ---

// toolResultJSON marshals v to JSON and returns it as a tool text result.
func toolResultJSON(v any) (*mcpgo.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("mcp: marshaling result: %w", err)
	}
	return mcpgo.NewToolResultText(string(b)), nil
}

// lookupError turns a query error into a tool error result.
func lookupError(id string, err error) *mcpgo.CallToolResult {
	if errors.Is(err, meta.ErrSectionNotFound) {
		return mcpgo.NewToolResultErrorf("section %q not found", id)
	}
	return mcpgo.NewToolResultErrorf("reading section %q failed: %s", id, err.Error())
}

// --- tool definitions ---

func buildGetSectionTool() mcpgo.Tool {
	return mcpgo.NewTool("get_section",
		mcpgo.WithDescription("Get a documentation section's metadata by id: title, level, chapter, span, data, parent and child ids."),
		mcpgo.WithString("id",
			mcpgo.Required(),
			mcpgo.Description("The section id"),
		),
	)
}

func buildSectionSourceTool() mcpgo.Tool {
	return mcpgo.NewTool("section_source",
		mcpgo.WithDescription("Get the markdown text a section spans, including its subsections."),
		mcpgo.WithString("id",
			mcpgo.Required(),
			mcpgo.Description("The section id"),
		),
		mcpgo.WithBoolean("keep_meta",
			mcpgo.Description("Keep inline <meta> tags in the returned text (default: false)"),
		),
	)
}

func buildListChaptersTool() mcpgo.Tool {
	return mcpgo.NewTool("list_chapters",
		mcpgo.WithDescription("List the indexed chapters in order with their root section ids."),
	)
}

func buildFindSectionsTool() mcpgo.Tool {
	return mcpgo.NewTool("find_sections",
		mcpgo.WithDescription("Find sections by title substring, metadata key or chapter."),
		mcpgo.WithString("title",
			mcpgo.Description("Case-insensitive substring of the section title"),
		),
		mcpgo.WithString("key",
			mcpgo.Description("Only sections whose metadata has this key"),
		),
		mcpgo.WithString("chapter",
			mcpgo.Description("Only sections of this chapter"),
		),
		mcpgo.WithNumber("limit",
			mcpgo.Description("Maximum number of results (default: 20)"),
		),
	)
}

func buildStatsTool() mcpgo.Tool {
	return mcpgo.NewTool("index_stats",
		mcpgo.WithDescription("Get index statistics: chapter and section counts, sections per level, metadata key usage."),
	)
}

// --- tool handlers ---

func (s *Server) handleGetSection(_ context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	if s.query == nil {
		return mcpgo.NewToolResultError("index is unavailable"), nil
	}
	id := req.GetString("id", "")
	if strings.TrimSpace(id) == "" {
		return mcpgo.NewToolResultError("id is required and must not be empty"), nil
	}

	v, err := s.query.Section(id)
	if err != nil {
		return lookupError(id, err), nil
	}
	return toolResultJSON(v)
}

func (s *Server) handleSectionSource(_ context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	if s.query == nil {
		return mcpgo.NewToolResultError("index is unavailable"), nil
	}
	id := req.GetString("id", "")
	if strings.TrimSpace(id) == "" {
		return mcpgo.NewToolResultError("id is required and must not be empty"), nil
	}

	src, err := s.query.Source(id, req.GetBool("keep_meta", false))
	if err != nil {
		s.logger.Warn("mcp: section_source failed", "id", id, "error", err)
		return lookupError(id, err), nil
	}
	return mcpgo.NewToolResultText(src), nil
}

func (s *Server) handleListChapters(_ context.Context, _ mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	if s.query == nil {
		return mcpgo.NewToolResultError("index is unavailable"), nil
	}
	return toolResultJSON(map[string]any{"chapters": s.query.Chapters()})
}

func (s *Server) handleFindSections(_ context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	if s.query == nil {
		return mcpgo.NewToolResultError("index is unavailable"), nil
	}
	limit := req.GetInt("limit", defaultFindLimit)
	if limit <= 0 {
		limit = defaultFindLimit
	}

	sections := s.query.Find(query.FindOptions{
		Title:   req.GetString("title", ""),
		Key:     req.GetString("key", ""),
		Chapter: req.GetString("chapter", ""),
		Limit:   limit,
	})
	return toolResultJSON(map[string]any{
		"sections": sections,
		"count":    len(sections),
	})
}

func (s *Server) handleStats(_ context.Context, _ mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	if s.query == nil {
		return mcpgo.NewToolResultError("index is unavailable"), nil
	}
	return toolResultJSON(s.query.Stats())
}
