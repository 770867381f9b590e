package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ilprobe/ilprobe/internal/decompiler"
	"github.com/ilprobe/ilprobe/internal/envelope"
)

// registerGetSourceTool registers the ilprobe_get_source tool.
func (s *Server) registerGetSourceTool() {
	s.registerToolWithSchema(
		"ilprobe_get_source",
		"Return the decompiled C# source for a symbol. Members and nested types resolve to the declaring type's source.",
		GetSourceInput{},
		s.handleGetSource,
	)
}

func (s *Server) handleGetSource(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input GetSourceInput
	if err := decodeInput(request, &input); err != nil {
		return mcp.NewToolResultError(envelope.Error(err)), nil
	}
	s.auditToolCall("ilprobe_get_source", input)

	if input.ID == "" {
		return mcp.NewToolResultError(envelope.Errorf("id is required")), nil
	}

	session, err := s.workspace.Current()
	if err != nil {
		return mcp.NewToolResultError(envelope.Error(err)), nil
	}

	sym, err := session.Index.Resolve(input.ID)
	if err != nil {
		return mcp.NewToolResultError(envelope.Error(err)), nil
	}

	result, err := decompiler.Decompile(session.Snapshot, sym)
	if err != nil {
		return mcp.NewToolResultError(envelope.Error(err)), nil
	}
	return mcp.NewToolResultText(envelope.OK(result)), nil
}
