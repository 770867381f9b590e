package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ilprobe/ilprobe/internal/constants"
)

func TestNewLoader_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	os.Setenv(constants.ConfigDirEnv, dir)
	defer os.Unsetenv(constants.ConfigDirEnv)

	loader, err := NewLoader()
	if err != nil {
		t.Fatalf("NewLoader() failed: %v", err)
	}

	want := filepath.Join(dir, constants.DefaultDir, constants.ConfigFile)
	if loader.Path() != want {
		t.Errorf("Path() = %q, want %q", loader.Path(), want)
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	os.Setenv(constants.ConfigDirEnv, t.TempDir())
	defer os.Unsetenv(constants.ConfigDirEnv)

	loader, err := NewLoader()
	if err != nil {
		t.Fatalf("NewLoader() failed: %v", err)
	}

	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Name != "ilprobe" {
		t.Errorf("Server.Name = %q, want %q", cfg.Server.Name, "ilprobe")
	}
	if cfg.Server.SearchLimit != constants.DefaultSearchLimit {
		t.Errorf("Server.SearchLimit = %d, want %d", cfg.Server.SearchLimit, constants.DefaultSearchLimit)
	}
	if cfg.Generator.PatchNamespace != constants.DefaultPatchNamespace {
		t.Errorf("Generator.PatchNamespace = %q, want %q", cfg.Generator.PatchNamespace, constants.DefaultPatchNamespace)
	}
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	os.Setenv(constants.ConfigDirEnv, t.TempDir())
	defer os.Unsetenv(constants.ConfigDirEnv)

	loader, err := NewLoader()
	if err != nil {
		t.Fatalf("NewLoader() failed: %v", err)
	}

	cfg := Default()
	cfg.Log.Level = "debug"
	cfg.Assembly.DumpPath = "/data/game.ilprobe.json"
	cfg.Generator.PatchNamespace = "GamePatches"

	if err := loader.Save(cfg); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	loaded, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if loaded.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want %q", loaded.Log.Level, "debug")
	}
	if loaded.Assembly.DumpPath != "/data/game.ilprobe.json" {
		t.Errorf("Assembly.DumpPath = %q, want %q", loaded.Assembly.DumpPath, "/data/game.ilprobe.json")
	}
	if loaded.Generator.PatchNamespace != "GamePatches" {
		t.Errorf("Generator.PatchNamespace = %q, want %q", loaded.Generator.PatchNamespace, "GamePatches")
	}
}

func TestLoad_FileWithEnvOverride(t *testing.T) {
	os.Setenv(constants.ConfigDirEnv, t.TempDir())
	defer os.Unsetenv(constants.ConfigDirEnv)

	loader, err := NewLoader()
	if err != nil {
		t.Fatalf("NewLoader() failed: %v", err)
	}

	cfg := Default()
	cfg.Server.SearchLimit = 30
	if err := loader.Save(cfg); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	// Env var should win over the file value.
	os.Setenv("ILPROBE_SEARCH_LIMIT", "75")
	defer os.Unsetenv("ILPROBE_SEARCH_LIMIT")

	loaded, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if loaded.Server.SearchLimit != 75 {
		t.Errorf("Server.SearchLimit = %d, want 75 (env override)", loaded.Server.SearchLimit)
	}
}
