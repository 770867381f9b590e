package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ilprobe/ilprobe/internal/envelope"
	"github.com/ilprobe/ilprobe/internal/harmony"
)

// registerCreatePatchTool registers the ilprobe_create_patch tool.
func (s *Server) registerCreatePatchTool() {
	s.registerToolWithSchema(
		"ilprobe_create_patch",
		"Generate a compilable Harmony patch skeleton for a method. Hook signatures follow the target: receiver, named or positional parameters, and a ref result for non-void methods.",
		CreatePatchInput{},
		s.handleCreatePatch,
	)
}

func (s *Server) handleCreatePatch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input CreatePatchInput
	if err := decodeInput(request, &input); err != nil {
		return mcp.NewToolResultError(envelope.Error(err)), nil
	}
	s.auditToolCall("ilprobe_create_patch", input)

	if input.ID == "" {
		return mcp.NewToolResultError(envelope.Errorf("id is required")), nil
	}

	sym, err := s.workspace.Resolve(input.ID)
	if err != nil {
		return mcp.NewToolResultError(envelope.Error(err)), nil
	}

	hooks := s.defaultHooks
	if len(input.Hooks) > 0 {
		hooks = harmony.ParseHooks(input.Hooks...)
	}

	precise := true
	if input.Precise != nil {
		precise = *input.Precise
	}

	result, err := s.generator.Generate(sym, hooks, precise)
	if err != nil {
		return mcp.NewToolResultError(envelope.Error(err)), nil
	}
	return mcp.NewToolResultText(envelope.OK(result)), nil
}
