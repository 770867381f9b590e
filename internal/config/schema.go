// Package config provides configuration loading and management.
package config

import (
	"github.com/ilprobe/ilprobe/internal/constants"
)

// SchemaVersion is the configuration schema version.
const SchemaVersion = "1"

// Config represents the ~/.ilprobe/config.yaml config file.
// Every field can also be supplied through ILPROBE_* environment
// variables, which take precedence over file values.
type Config struct {
	Version   string          `yaml:"version"`
	Log       LogConfig       `yaml:"log"`
	Assembly  AssemblyConfig  `yaml:"assembly"`
	Server    ServerConfig    `yaml:"server"`
	Generator GeneratorConfig `yaml:"generator"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `yaml:"level" env:"ILPROBE_LOG_LEVEL"`
	Pretty bool   `yaml:"pretty" env:"ILPROBE_LOG_PRETTY"`
}

// AssemblyConfig contains assembly loading settings.
type AssemblyConfig struct {
	// DumpPath points at a metadata dump to load on startup. Optional;
	// clients normally load through the load tool instead.
	DumpPath string `yaml:"dump_path,omitempty" env:"ILPROBE_ASSEMBLY_DUMP"`
}

// ServerConfig contains MCP server settings.
type ServerConfig struct {
	Name string `yaml:"name" env:"ILPROBE_SERVER_NAME"`
	// EnabledTools filters which tools are registered. Empty means all.
	// Entries support * wildcards (e.g. "ilprobe_list_*").
	EnabledTools []string `yaml:"enabled_tools,omitempty" env:"ILPROBE_ENABLED_TOOLS"`
	SearchLimit  int      `yaml:"search_limit" env:"ILPROBE_SEARCH_LIMIT"`
	// Audit logs every tool invocation with its arguments.
	Audit bool `yaml:"audit" env:"ILPROBE_AUDIT"`
}

// GeneratorConfig contains patch skeleton generation settings.
type GeneratorConfig struct {
	PatchNamespace string `yaml:"patch_namespace" env:"ILPROBE_PATCH_NAMESPACE"`
	HarmonyDomain  string `yaml:"harmony_domain" env:"ILPROBE_HARMONY_DOMAIN"`
	DefaultHooks   string `yaml:"default_hooks" env:"ILPROBE_DEFAULT_HOOKS"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Version: SchemaVersion,
		Log: LogConfig{
			Level:  "info",
			Pretty: true,
		},
		Server: ServerConfig{
			Name:        "ilprobe",
			SearchLimit: constants.DefaultSearchLimit,
		},
		Generator: GeneratorConfig{
			PatchNamespace: constants.DefaultPatchNamespace,
			HarmonyDomain:  constants.DefaultHarmonyDomain,
			DefaultHooks:   constants.DefaultHookKinds,
		},
	}
}
