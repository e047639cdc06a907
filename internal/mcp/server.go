// Package mcp exposes Naranjo scoring, AI analysis and timeline layout as MCP tools.
// Tools are stateless: every call carries the full assessment it operates on.
package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/naranjo-adr-assessor/internal/domain"
	"github.com/naranjo-adr-assessor/internal/service"
	"github.com/naranjo-adr-assessor/internal/session"
)

// ServerName is reported to MCP clients during initialization.
const ServerName = "naranjo-adr-assessor"

// Server wraps the MCP SDK server and the services its tools call.
type Server struct {
	mcpServer *mcp.Server
	logger    *logrus.Logger
	assembler *service.ReportAssembler
	analyzer  session.Analyzer
	settings  domain.SettingsStore
	loc       *time.Location
	now       func() time.Time
}

// ServerOption is a functional option for Server.
type ServerOption func(*Server)

// WithClock replaces the clock used for the timeline's now marker.
func WithClock(now func() time.Time) ServerOption {
	return func(s *Server) {
		s.now = now
	}
}

// NewServer creates the MCP server and registers its tools.
func NewServer(logger *logrus.Logger, analyzer session.Analyzer, settings domain.SettingsStore, loc *time.Location, version string, opts ...ServerOption) *Server {
	if loc == nil {
		loc = time.Local
	}
	s := &Server{
		logger:    logger,
		assembler: service.NewReportAssembler(logger),
		analyzer:  analyzer,
		settings:  settings,
		loc:       loc,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mcpServer = mcp.NewServer(&mcp.Implementation{
		Name:    ServerName,
		Version: version,
	}, nil)
	s.registerTools()

	return s
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_questions",
		Description: "List the ten Naranjo questions with their score weights in the requested language (th, en, lo, my).",
	}, s.handleListQuestions)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "assess_naranjo",
		Description: "Score a Naranjo assessment. Answers map question IDs 1-10 to Yes, No or DontKnow. The score is provisional until all ten are answered.",
	}, s.handleAssess)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "analyze_adr",
		Description: "Run the configured AI provider over a complete Naranjo assessment and return an advisory analysis, recommendations and a risk factor.",
	}, s.handleAnalyze)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "layout_timeline",
		Description: "Lay out drug exposures and SOAP notes on a buffered time axis as percentage positions with gridlines.",
	}, s.handleLayoutTimeline)

	s.logger.WithField("tool_count", 4).Debug("Registered MCP tools")
}

// Connect attaches the server to a transport without blocking.
func (s *Server) Connect(ctx context.Context, t mcp.Transport) (*mcp.ServerSession, error) {
	return s.mcpServer.Connect(ctx, t, nil)
}

// Run serves over stdio until the client disconnects or ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.logger.WithField("server", ServerName).Info("Starting MCP server on stdio")
	if err := s.mcpServer.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}
