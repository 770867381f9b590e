package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ilprobe/ilprobe/internal/assembly"
	"github.com/ilprobe/ilprobe/internal/constants"
	"github.com/ilprobe/ilprobe/internal/envelope"
	"github.com/ilprobe/ilprobe/internal/resolver"
)

// listPayload is the success payload for namespace, type, and search
// listings.
type listPayload struct {
	Count   int                `json:"count"`
	Symbols []resolver.Summary `json:"symbols"`
}

// membersPayload is the success payload for ilprobe_list_members.
type membersPayload struct {
	TypeID  string             `json:"type_id"`
	Type    string             `json:"type"`
	Count   int                `json:"count"`
	Symbols []resolver.Summary `json:"symbols"`
}

func kindAllowed(kinds []assembly.Kind, kind assembly.Kind) bool {
	if len(kinds) == 0 {
		return true
	}
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// registerListNamespacesTool registers the ilprobe_list_namespaces tool.
func (s *Server) registerListNamespacesTool() {
	s.registerToolWithSchema(
		"ilprobe_list_namespaces",
		"List the namespaces of the loaded assembly, including implied ancestor namespaces.",
		ListNamespacesInput{},
		s.handleListNamespaces,
	)
}

func (s *Server) handleListNamespaces(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input ListNamespacesInput
	if err := decodeInput(request, &input); err != nil {
		return mcp.NewToolResultError(envelope.Error(err)), nil
	}
	s.auditToolCall("ilprobe_list_namespaces", input)

	session, err := s.workspace.Current()
	if err != nil {
		return mcp.NewToolResultError(envelope.Error(err)), nil
	}

	filter := ""
	if input.Filter != nil {
		filter = *input.Filter
	}
	matches := session.Index.Search(filter, []assembly.Kind{assembly.KindNamespace}, constants.MaxSearchLimit)
	return mcp.NewToolResultText(envelope.OK(listPayload{
		Count:   len(matches),
		Symbols: resolver.SummarizeAll(matches),
	})), nil
}

// registerListTypesTool registers the ilprobe_list_types tool.
func (s *Server) registerListTypesTool() {
	s.registerToolWithSchema(
		"ilprobe_list_types",
		"List the types of the loaded assembly, optionally restricted to one namespace or a name pattern. Nested types list alongside top-level ones.",
		ListTypesInput{},
		s.handleListTypes,
	)
}

func (s *Server) handleListTypes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input ListTypesInput
	if err := decodeInput(request, &input); err != nil {
		return mcp.NewToolResultError(envelope.Error(err)), nil
	}
	s.auditToolCall("ilprobe_list_types", input)

	session, err := s.workspace.Current()
	if err != nil {
		return mcp.NewToolResultError(envelope.Error(err)), nil
	}

	namespace := ""
	if input.Namespace != nil {
		namespace = *input.Namespace
	}
	filter := ""
	if input.Filter != nil {
		filter = *input.Filter
	}

	var matches []*assembly.Symbol
	for _, typ := range session.Snapshot.Types() {
		if namespace != "" && typ.Namespace != namespace {
			continue
		}
		if !resolver.Match(typ.FullName, filter) {
			continue
		}
		matches = append(matches, typ)
		if len(matches) >= constants.MaxSearchLimit {
			break
		}
	}
	return mcp.NewToolResultText(envelope.OK(listPayload{
		Count:   len(matches),
		Symbols: resolver.SummarizeAll(matches),
	})), nil
}

// registerListMembersTool registers the ilprobe_list_members tool.
func (s *Server) registerListMembersTool() {
	s.registerToolWithSchema(
		"ilprobe_list_members",
		"List the members of one type: methods, fields, properties, and events, optionally filtered by kind.",
		ListMembersInput{},
		s.handleListMembers,
	)
}

func (s *Server) handleListMembers(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input ListMembersInput
	if err := decodeInput(request, &input); err != nil {
		return mcp.NewToolResultError(envelope.Error(err)), nil
	}
	s.auditToolCall("ilprobe_list_members", input)

	if input.TypeID == "" {
		return mcp.NewToolResultError(envelope.Errorf("type_id is required")), nil
	}

	session, err := s.workspace.Current()
	if err != nil {
		return mcp.NewToolResultError(envelope.Error(err)), nil
	}

	sym, err := session.Index.ResolveKind(input.TypeID, assembly.KindType)
	if err != nil {
		return mcp.NewToolResultError(envelope.Error(err)), nil
	}

	var kinds []assembly.Kind
	for _, name := range input.Kinds {
		kind, ok := assembly.ParseKind(name)
		if !ok {
			return mcp.NewToolResultError(envelope.Errorf("unknown member kind %q", name)), nil
		}
		kinds = append(kinds, kind)
	}

	var matches []*assembly.Symbol
	for _, member := range sym.Members {
		if !kindAllowed(kinds, member.Kind) {
			continue
		}
		matches = append(matches, member)
	}
	return mcp.NewToolResultText(envelope.OK(membersPayload{
		TypeID:  input.TypeID,
		Type:    sym.FullName,
		Count:   len(matches),
		Symbols: resolver.SummarizeAll(matches),
	})), nil
}

// registerGetMemberTool registers the ilprobe_get_member tool.
func (s *Server) registerGetMemberTool() {
	s.registerToolWithSchema(
		"ilprobe_get_member",
		"Describe one symbol by id: kind, names, signature, and declaring type.",
		GetMemberInput{},
		s.handleGetMember,
	)
}

func (s *Server) handleGetMember(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input GetMemberInput
	if err := decodeInput(request, &input); err != nil {
		return mcp.NewToolResultError(envelope.Error(err)), nil
	}
	s.auditToolCall("ilprobe_get_member", input)

	if input.ID == "" {
		return mcp.NewToolResultError(envelope.Errorf("id is required")), nil
	}

	sym, err := s.workspace.Resolve(input.ID)
	if err != nil {
		return mcp.NewToolResultError(envelope.Error(err)), nil
	}
	return mcp.NewToolResultText(envelope.OK(resolver.Summarize(sym))), nil
}

// registerSearchMembersTool registers the ilprobe_search_members tool.
func (s *Server) registerSearchMembersTool() {
	s.registerToolWithSchema(
		"ilprobe_search_members",
		"Search all symbols by substring or wildcard pattern ('Acme.*', '*.ctor', '*widget*'), optionally restricted to one kind.",
		SearchMembersInput{},
		s.handleSearchMembers,
	)
}

func (s *Server) handleSearchMembers(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input SearchMembersInput
	if err := decodeInput(request, &input); err != nil {
		return mcp.NewToolResultError(envelope.Error(err)), nil
	}
	s.auditToolCall("ilprobe_search_members", input)

	session, err := s.workspace.Current()
	if err != nil {
		return mcp.NewToolResultError(envelope.Error(err)), nil
	}

	var kinds []assembly.Kind
	if input.Kind != nil {
		kind, ok := assembly.ParseKind(*input.Kind)
		if !ok {
			return mcp.NewToolResultError(envelope.Errorf("unknown symbol kind %q", *input.Kind)), nil
		}
		kinds = append(kinds, kind)
	}

	limit := s.cfg.SearchLimit
	if input.Limit != nil {
		limit = *input.Limit
	}

	matches := session.Index.Search(input.Query, kinds, limit)
	return mcp.NewToolResultText(envelope.OK(listPayload{
		Count:   len(matches),
		Symbols: resolver.SummarizeAll(matches),
	})), nil
}
