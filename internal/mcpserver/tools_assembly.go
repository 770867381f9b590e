package mcpserver

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ilprobe/ilprobe/internal/assembly"
	"github.com/ilprobe/ilprobe/internal/envelope"
	"github.com/ilprobe/ilprobe/internal/workspace"
)

// sessionPayload is the success payload shared by ilprobe_load_assembly
// and ilprobe_assembly_info.
type sessionPayload struct {
	Assembly   assembly.Info `json:"assembly"`
	SessionID  string        `json:"session_id"`
	LoadedAt   time.Time     `json:"loaded_at"`
	Namespaces int           `json:"namespaces"`
	Types      int           `json:"types"`
	Members    int           `json:"members"`
	Symbols    int           `json:"symbols"`
}

func newSessionPayload(session *workspace.Session) sessionPayload {
	snap := session.Snapshot
	return sessionPayload{
		Assembly:   snap.Info,
		SessionID:  snap.SessionID,
		LoadedAt:   snap.LoadedAt,
		Namespaces: len(snap.Namespaces()),
		Types:      snap.TypeCount(),
		Members:    snap.MemberCount(),
		Symbols:    session.Index.Size(),
	}
}

// registerLoadAssemblyTool registers the ilprobe_load_assembly tool.
func (s *Server) registerLoadAssemblyTool() {
	s.registerToolWithSchema(
		"ilprobe_load_assembly",
		"Load a .NET assembly metadata dump from disk and make its symbols addressable. Replaces the previously loaded assembly and invalidates its symbol ids.",
		LoadAssemblyInput{},
		s.handleLoadAssembly,
	)
}

func (s *Server) handleLoadAssembly(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input LoadAssemblyInput
	if err := decodeInput(request, &input); err != nil {
		return mcp.NewToolResultError(envelope.Error(err)), nil
	}
	s.auditToolCall("ilprobe_load_assembly", input)

	if input.Path == "" {
		return mcp.NewToolResultError(envelope.Errorf("path is required")), nil
	}

	session, err := s.workspace.LoadFile(input.Path)
	if err != nil {
		return mcp.NewToolResultError(envelope.Error(err)), nil
	}
	return mcp.NewToolResultText(envelope.OK(newSessionPayload(session))), nil
}

// registerAssemblyInfoTool registers the ilprobe_assembly_info tool.
func (s *Server) registerAssemblyInfoTool() {
	s.registerToolWithSchema(
		"ilprobe_assembly_info",
		"Describe the currently loaded assembly: identity, load time, and symbol counts.",
		AssemblyInfoInput{},
		s.handleAssemblyInfo,
	)
}

func (s *Server) handleAssemblyInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.auditToolCall("ilprobe_assembly_info", AssemblyInfoInput{})

	session, err := s.workspace.Current()
	if err != nil {
		return mcp.NewToolResultError(envelope.Error(err)), nil
	}
	return mcp.NewToolResultText(envelope.OK(newSessionPayload(session))), nil
}
