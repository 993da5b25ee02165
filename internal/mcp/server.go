package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fyrsmithlabs/ctoolsd/internal/ctool"
	"github.com/fyrsmithlabs/ctoolsd/internal/logging"
	"github.com/fyrsmithlabs/ctoolsd/internal/samples"
)

// Server is the MCP server wiring the toolchain service, sample corpus, and
// review prompt to a host over stdio.
type Server struct {
	mcp      *mcp.Server
	ctoolSvc ctool.Service
	samples  *samples.Collection
	metrics  *Metrics
	logger   *logging.Logger
}

// Config configures the MCP server.
type Config struct {
	// Name is the implementation name advertised to hosts (default: "c-tools").
	Name string

	// Version is the server version (default: "0.1.0").
	Version string

	// Logger for structured logging.
	Logger *logging.Logger
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Name:    "c-tools",
		Version: "0.1.0",
		Logger:  logging.NewNop(),
	}
}

// NewServer creates an MCP server around the toolchain service and sample
// collection.
func NewServer(cfg *Config, ctoolSvc ctool.Service, collection *samples.Collection) (*Server, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if ctoolSvc == nil {
		return nil, fmt.Errorf("ctool service is required")
	}
	if collection == nil {
		return nil, fmt.Errorf("sample collection is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    cfg.Name,
			Version: cfg.Version,
		},
		nil,
	)

	s := &Server{
		mcp:      mcpServer,
		ctoolSvc: ctoolSvc,
		samples:  collection,
		metrics:  NewMetrics(logger),
		logger:   logger,
	}

	s.registerTools()
	s.registerResources()
	s.registerPrompts()

	return s, nil
}

// Run starts the MCP server on the stdio transport and blocks until the
// context is canceled or the transport fails.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info(ctx, "starting MCP server on stdio transport")
	transport := &mcp.StdioTransport{}
	if err := s.mcp.Run(ctx, transport); err != nil {
		return fmt.Errorf("server run failed: %w", err)
	}
	return nil
}

// Close closes the server and the toolchain service.
func (s *Server) Close() error {
	s.logger.Info(context.Background(), "closing MCP server")
	if err := s.ctoolSvc.Close(); err != nil {
		return fmt.Errorf("ctool service close: %w", err)
	}
	return nil
}
