package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	docmcp "github.com/ajitpratap0/docmeta/internal/mcp"
	"github.com/ajitpratap0/docmeta/internal/query"
)

func mcpCmd() *cobra.Command {
	var metaPath string

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start the MCP (Model Context Protocol) server over stdio",
		Long: `Starts an MCP JSON-RPC 2.0 server that reads from stdin and writes to stdout.
All diagnostic logs go to stderr so that stdout remains exclusively MCP protocol traffic.

Tools exposed:
  get_section     section metadata by id
  section_source  markdown text of a section
  list_chapters   indexed chapters with their root ids
  find_sections   search by title, metadata key or chapter
  index_stats     index statistics

If the index cannot be loaded the server still starts; tool calls return
MCP error responses.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := newLogger()

			var q *query.Service
			m, err := loadIndex(metaPath)
			if err != nil {
				logger.Error("mcp: failed to load index; tool calls will fail", "error", err)
			} else {
				q = newQuery(m)
			}

			srv := docmcp.NewServer(q, version, logger)

			errLogger := log.New(os.Stderr, "mcp: ", log.LstdFlags)

			logger.Info("mcp: docmeta MCP server starting", "transport", "stdio")

			return mcpserver.ServeStdio(
				srv.MCPServer(),
				mcpserver.WithErrorLogger(errLogger),
			)
		},
	}

	addMetaFlag(cmd, &metaPath)
	return cmd
}
