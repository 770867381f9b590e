package assembly

// Wire schema of a metadata dump. Dumps are produced by the ilprobe
// exporter sidecar, which walks an assembly with reflection and writes
// one JSON document per assembly. Type references inside a dump use the
// canonical form understood by ParseTypeRef.

type dumpFile struct {
	Format   int          `json:"format"`
	Assembly dumpAssembly `json:"assembly"`
	Types    []dumpType   `json:"types"`
}

type dumpAssembly struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
	Runtime string `json:"runtime,omitempty"`
	Path    string `json:"path,omitempty"`
}

type dumpType struct {
	FullName     string         `json:"full_name"`
	Category     string         `json:"category"`
	Visibility   string         `json:"visibility"`
	Static       bool           `json:"static,omitempty"`
	Abstract     bool           `json:"abstract,omitempty"`
	Base         string         `json:"base,omitempty"`
	GenericArity int            `json:"generic_arity,omitempty"`
	Source       string         `json:"source,omitempty"`
	Methods      []dumpMethod   `json:"methods,omitempty"`
	Fields       []dumpField    `json:"fields,omitempty"`
	Properties   []dumpProperty `json:"properties,omitempty"`
	Events       []dumpEvent    `json:"events,omitempty"`
}

type dumpMethod struct {
	Name         string      `json:"name"`
	Visibility   string      `json:"visibility"`
	Static       bool        `json:"static,omitempty"`
	Abstract     bool        `json:"abstract,omitempty"`
	Virtual      bool        `json:"virtual,omitempty"`
	GenericArity int         `json:"generic_arity,omitempty"`
	Returns      string      `json:"returns"`
	Params       []dumpParam `json:"params,omitempty"`
}

type dumpParam struct {
	// Name may be empty when the assembly carries no parameter names
	// (stripped or obfuscated builds).
	Name string `json:"name,omitempty"`
	Type string `json:"type"`
}

type dumpField struct {
	Name       string `json:"name"`
	Visibility string `json:"visibility"`
	Static     bool   `json:"static,omitempty"`
	Type       string `json:"type"`
}

type dumpProperty struct {
	Name       string `json:"name"`
	Visibility string `json:"visibility"`
	Static     bool   `json:"static,omitempty"`
	Type       string `json:"type"`
	Get        bool   `json:"get,omitempty"`
	Set        bool   `json:"set,omitempty"`
}

type dumpEvent struct {
	Name       string `json:"name"`
	Visibility string `json:"visibility"`
	Static     bool   `json:"static,omitempty"`
	Type       string `json:"type"`
}
