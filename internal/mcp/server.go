package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/partkade/partsearch/internal/catalog"
	"github.com/partkade/partsearch/internal/searcher"
)

const (
	// ServerName is the MCP server name
	ServerName = "partsearch"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp     *server.MCPServer
	engine  *searcher.Engine
	storage catalog.Storage
	holder  *catalog.Holder
	log     zerolog.Logger
}

// NewServer creates an MCP server over an already wired engine. Storage is
// used for diagnostics only; all searching goes through the engine's
// snapshot.
func NewServer(engine *searcher.Engine, storage catalog.Storage, holder *catalog.Holder, log zerolog.Logger) *Server {
	s := &Server{
		mcp:     server.NewMCPServer(ServerName, ServerVersion),
		engine:  engine,
		storage: storage,
		holder:  holder,
		log:     log.With().Str("component", "mcp").Logger(),
	}
	s.registerTools()
	return s
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(searchPartsTool(), s.handleSearchParts)
	s.mcp.AddTool(searchPartsBulkTool(), s.handleSearchPartsBulk)
	s.mcp.AddTool(catalogStatusTool(), s.handleCatalogStatus)
	s.mcp.AddTool(refreshCatalogTool(), s.handleRefreshCatalog)
}
