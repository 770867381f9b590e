// Package mcpserver exposes assembly inspection and patch generation
// as MCP tools over stdio.
package mcpserver

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/ilprobe/ilprobe/internal/config"
	"github.com/ilprobe/ilprobe/internal/constants"
	"github.com/ilprobe/ilprobe/internal/harmony"
	"github.com/ilprobe/ilprobe/internal/workspace"
	"github.com/ilprobe/ilprobe/pkg/version"
)

// Server wires the MCP tool surface over a workspace and a patch
// generator.
type Server struct {
	mcp          *server.MCPServer
	workspace    *workspace.Workspace
	generator    *harmony.Generator
	cfg          config.ServerConfig
	defaultHooks []harmony.HookKind
	logger       zerolog.Logger
	startedAt    time.Time
	tools        []string
}

// NewServer creates the server and registers every enabled tool.
func NewServer(ws *workspace.Workspace, gen *harmony.Generator, cfg config.Config, logger zerolog.Logger) *Server {
	name := cfg.Server.Name
	if name == "" {
		name = "ilprobe"
	}

	defaultHooks := harmony.ParseHooks(cfg.Generator.DefaultHooks)
	if len(defaultHooks) == 0 {
		defaultHooks = harmony.ParseHooks(constants.DefaultHookKinds)
	}

	s := &Server{
		workspace:    ws,
		generator:    gen,
		cfg:          cfg.Server,
		defaultHooks: defaultHooks,
		logger:       logger.With().Str("component", "mcp").Logger(),
		startedAt:    time.Now(),
	}
	s.mcp = server.NewMCPServer(
		name,
		version.Version,
		server.WithToolCapabilities(false),
	)
	s.registerTools()

	s.logger.Info().
		Str("server", name).
		Int("tool_count", len(s.tools)).
		Bool("audit", s.cfg.Audit).
		Msg("MCP server initialized")

	return s
}

// registerTools registers all MCP tools with the server. Tools missing
// from EnabledTools are skipped inside registerToolWithSchema.
func (s *Server) registerTools() {
	s.registerLoadAssemblyTool()
	s.registerAssemblyInfoTool()
	s.registerListNamespacesTool()
	s.registerListTypesTool()
	s.registerListMembersTool()
	s.registerGetMemberTool()
	s.registerSearchMembersTool()
	s.registerGetSourceTool()
	s.registerCreatePatchTool()
}

// ToolNames returns the registered tool names in registration order.
func (s *Server) ToolNames() []string {
	return s.tools
}

// ServeStdio serves MCP over stdin/stdout and blocks until the client
// disconnects. Logging must already point at stderr; stdout belongs to
// the protocol.
func (s *Server) ServeStdio() error {
	s.logger.Info().
		Int("tool_count", len(s.tools)).
		Msg("Starting MCP server on stdio")
	return server.ServeStdio(s.mcp)
}

// isToolEnabled checks a tool against the configured allow list. An
// empty list enables everything; entries may carry a leading or
// trailing wildcard.
func (s *Server) isToolEnabled(toolName string) bool {
	if len(s.cfg.EnabledTools) == 0 {
		return true
	}
	for _, pattern := range s.cfg.EnabledTools {
		if matchesPattern(toolName, pattern) {
			return true
		}
	}
	return false
}

// matchesPattern does simple wildcard matching: a '*' at the end
// matches a prefix, at the start a suffix, anything else is exact.
func matchesPattern(name, pattern string) bool {
	if pattern == "" || pattern == "*" {
		return true
	}
	if strings.HasSuffix(pattern, "*") {
		return strings.HasPrefix(name, strings.TrimSuffix(pattern, "*"))
	}
	if strings.HasPrefix(pattern, "*") {
		return strings.HasSuffix(name, strings.TrimPrefix(pattern, "*"))
	}
	return name == pattern
}

// auditToolCall logs a tool invocation if auditing is enabled.
func (s *Server) auditToolCall(toolName string, args interface{}) {
	if !s.cfg.Audit {
		return
	}
	argsJSON, _ := json.Marshal(args)
	s.logger.Info().
		Str("tool", toolName).
		RawJSON("args", argsJSON).
		Msg("MCP tool called")
}
