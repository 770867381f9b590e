package mcpserver

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// generateInputSchema generates a JSON schema from a Go type.
func generateInputSchema(inputType interface{}) (map[string]any, error) {
	// Inline all schemas instead of using $ref/$defs so MCP clients see
	// a flat schema.
	reflector := jsonschema.Reflector{
		DoNotReference: true,
	}
	schema := reflector.Reflect(inputType)

	schemaBytes, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}

	var schemaMap map[string]any
	if err := json.Unmarshal(schemaBytes, &schemaMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema: %w", err)
	}

	// Remove JSON Schema draft fields MCP clients don't expect.
	delete(schemaMap, "$schema")
	delete(schemaMap, "$id")

	return schemaMap, nil
}

// registerToolWithSchema generates the input schema, creates the tool,
// and registers it, honoring the enabled-tools configuration.
func (s *Server) registerToolWithSchema(
	name string,
	description string,
	inputType interface{},
	handler server.ToolHandlerFunc,
) {
	if !s.isToolEnabled(name) {
		s.logger.Debug().Str("tool", name).Msg("Tool disabled by configuration")
		return
	}

	inputSchema, err := generateInputSchema(inputType)
	if err != nil {
		s.logger.Error().Err(err).Str("tool", name).Msg("Failed to generate input schema")
		return
	}

	schemaBytes, err := json.Marshal(inputSchema)
	if err != nil {
		s.logger.Error().Err(err).Str("tool", name).Msg("Failed to marshal schema")
		return
	}

	s.mcp.AddTool(mcp.NewToolWithRawSchema(name, description, schemaBytes), handler)
	s.tools = append(s.tools, name)
	s.logger.Debug().Str("tool", name).Msg("Tool registered")
}

// decodeInput re-marshals the request arguments into a typed input
// struct.
func decodeInput(request mcp.CallToolRequest, into interface{}) error {
	if request.Params.Arguments == nil {
		return nil
	}
	argBytes, err := json.Marshal(request.Params.Arguments)
	if err != nil {
		return fmt.Errorf("failed to marshal arguments: %w", err)
	}
	if err := json.Unmarshal(argBytes, into); err != nil {
		return fmt.Errorf("failed to parse arguments: %w", err)
	}
	return nil
}
