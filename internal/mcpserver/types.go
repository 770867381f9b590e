package mcpserver

// Input types for MCP tools.
// Optional fields use pointers to allow nil values.

// LoadAssemblyInput is the input for ilprobe_load_assembly.
type LoadAssemblyInput struct {
	Path string `json:"path" jsonschema:"description=Path to a metadata dump produced by the ilprobe exporter (required)"`
}

// AssemblyInfoInput is the input for ilprobe_assembly_info.
type AssemblyInfoInput struct{}

// ListNamespacesInput is the input for ilprobe_list_namespaces.
type ListNamespacesInput struct {
	Filter *string `json:"filter,omitempty" jsonschema:"description=Optional: Filter by name pattern (e.g. 'Acme.*' '*Internal' 'collections')"`
}

// ListTypesInput is the input for ilprobe_list_types.
type ListTypesInput struct {
	Namespace *string `json:"namespace,omitempty" jsonschema:"description=Optional: Only types declared directly in this namespace (exact match)"`
	Filter    *string `json:"filter,omitempty" jsonschema:"description=Optional: Filter by full-name pattern (e.g. '*Controller' 'Acme.*')"`
}

// ListMembersInput is the input for ilprobe_list_members.
type ListMembersInput struct {
	TypeID string   `json:"type_id" jsonschema:"description=Type id from ilprobe_list_types (e.g. 'T:Acme.Widget')"`
	Kinds  []string `json:"kinds,omitempty" jsonschema:"description=Optional: Restrict member kinds,enum=method,enum=field,enum=property,enum=event"`
}

// GetMemberInput is the input for ilprobe_get_member.
type GetMemberInput struct {
	ID string `json:"id" jsonschema:"description=Symbol id (e.g. 'M:Acme.Widget.Compute(System.String)')"`
}

// SearchMembersInput is the input for ilprobe_search_members.
type SearchMembersInput struct {
	Query string  `json:"query" jsonschema:"description=Substring or wildcard pattern matched against full names (e.g. 'compute' 'Acme.*' '*.ctor')"`
	Kind  *string `json:"kind,omitempty" jsonschema:"description=Optional: Restrict to one symbol kind,enum=namespace,enum=type,enum=method,enum=field,enum=property,enum=event"`
	Limit *int    `json:"limit,omitempty" jsonschema:"description=Maximum results,default=20"`
}

// GetSourceInput is the input for ilprobe_get_source.
type GetSourceInput struct {
	ID string `json:"id" jsonschema:"description=Symbol id; members and nested types return their declaring type's source"`
}

// CreatePatchInput is the input for ilprobe_create_patch.
type CreatePatchInput struct {
	ID      string   `json:"id" jsonschema:"description=Method id to patch (e.g. 'M:Acme.Widget.Compute(System.String)')"`
	Hooks   []string `json:"hooks,omitempty" jsonschema:"description=Hook kinds to emit; unknown names are ignored,enum=Prefix,enum=Postfix,enum=Transpiler,enum=Finalizer"`
	Precise *bool    `json:"precise,omitempty" jsonschema:"description=Bind the exact overload via TargetMethod() instead of name-only attribute targeting,default=true"`
}
