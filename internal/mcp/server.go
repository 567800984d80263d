package mcp

import (
	"context"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	"bottleneck-mcp/internal/config"
	"bottleneck-mcp/internal/metrics"
	"bottleneck-mcp/internal/policy"
	"bottleneck-mcp/internal/tasklog"
)

// PolicySource supplies the policy in force for a tool call. policy.Loader
// satisfies it and may swap the policy between calls.
type PolicySource interface {
	Current() policy.Policy
}

// StaticPolicy is a PolicySource that never changes.
type StaticPolicy policy.Policy

func (p StaticPolicy) Current() policy.Policy { return policy.Policy(p) }

type Options struct {
	Store   *tasklog.Store
	Policy  PolicySource
	Metrics *metrics.Recorder
	Config  *config.AppConfig
	Version string
	Now     func() time.Time
}

// Server exposes the analytics pipeline as MCP tools.
type Server struct {
	store   *tasklog.Store
	policy  PolicySource
	metrics *metrics.Recorder
	cfg     *config.AppConfig
	now     func() time.Time
	sdk     *sdkmcp.Server
}

// NewServer creates a new MCP server; zero-valued options get working defaults.
func NewServer(opts Options) *Server {
	s := &Server{
		store:   opts.Store,
		policy:  opts.Policy,
		metrics: opts.Metrics,
		cfg:     opts.Config,
		now:     opts.Now,
	}
	if s.store == nil {
		s.store = tasklog.NewStore()
	}
	if s.policy == nil {
		s.policy = StaticPolicy(policy.Default())
	}
	if s.metrics == nil {
		s.metrics = metrics.NewRecorder()
	}
	if s.cfg == nil {
		s.cfg = &config.AppConfig{}
	}
	if s.now == nil {
		s.now = time.Now
	}

	version := opts.Version
	if version == "" {
		version = "dev"
	}
	s.sdk = sdkmcp.NewServer(&sdkmcp.Implementation{Name: "bottleneck-mcp", Version: version}, nil)
	s.registerTools()
	return s
}

// Run serves MCP over stdio until the client disconnects or ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	log.Info().Msg("Serving MCP over stdio")
	return s.sdk.Run(ctx, &sdkmcp.StdioTransport{})
}

// SDK returns the underlying protocol server, for mounting on other transports.
func (s *Server) SDK() *sdkmcp.Server {
	return s.sdk
}

func (s *Server) Store() *tasklog.Store {
	return s.store
}

// Metrics returns the recorder tool calls are counted in.
func (s *Server) Metrics() *metrics.Recorder {
	return s.metrics
}
