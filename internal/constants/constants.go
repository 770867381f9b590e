// Package constants defines shared configuration constants.
package constants

var (
	ConfigFile = "config.yaml"

	DefaultDir = ".ilprobe"

	// ConfigDirEnv overrides the config base directory when set.
	ConfigDirEnv = "ILPROBE_CONFIG"
)

// Metadata dumps - supported exporter format.
const (
	// DumpFormatVersion is the metadata dump format this build understands.
	DumpFormatVersion = 1
)

// Search - result paging defaults.
const (
	// DefaultSearchLimit is the default number of search hits returned.
	DefaultSearchLimit = 20

	// MaxSearchLimit caps a caller-supplied search limit.
	MaxSearchLimit = 200
)

// Generation - patch skeleton defaults.
const (
	// DefaultHookKinds is the hook selection used when a caller omits one.
	DefaultHookKinds = "Prefix,Postfix"

	// DefaultPatchNamespace is the namespace generated patch classes live in.
	DefaultPatchNamespace = "IlprobePatches"

	// DefaultHarmonyDomain seeds the Harmony instance id suggested in
	// generated file headers.
	DefaultHarmonyDomain = "com.ilprobe.patch"
)
