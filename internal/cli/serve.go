package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ilprobe/ilprobe/internal/config"
	"github.com/ilprobe/ilprobe/internal/harmony"
	"github.com/ilprobe/ilprobe/internal/logging"
	"github.com/ilprobe/ilprobe/internal/mcpserver"
	"github.com/ilprobe/ilprobe/internal/workspace"
)

func newServeCmd() *cobra.Command {
	var (
		assemblyPath string
		logLevel     string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve assembly inspection tools over MCP stdio",
		Long: `Start the MCP server on stdin/stdout.

Logs go to stderr; stdout carries the protocol stream. Clients load an
assembly through the ilprobe_load_assembly tool, or pass --assembly to
preload a dump before the first request.

Configuration comes from ~/.ilprobe/config.yaml plus ILPROBE_*
environment variables.

Examples:
  # Serve with no assembly; the client loads one later
  ilprobe serve

  # Preload a dump
  ilprobe serve --assembly Managed/Acme.Widgets.dump.json

  # Restrict the tool surface
  ILPROBE_ENABLED_TOOLS="ilprobe_load_assembly,ilprobe_list_*" ilprobe serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, err := config.NewLoader()
			if err != nil {
				return fmt.Errorf("failed to create config loader: %w", err)
			}
			cfg, err := loader.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if logLevel != "" {
				cfg.Log.Level = logLevel
			}

			logger := logging.New(logging.Config{
				Level:  cfg.Log.Level,
				Pretty: cfg.Log.Pretty,
			})

			ws := workspace.New(logger)
			if assemblyPath == "" {
				assemblyPath = cfg.Assembly.DumpPath
			}
			if assemblyPath != "" {
				if _, err := ws.LoadFile(assemblyPath); err != nil {
					return fmt.Errorf("failed to preload assembly: %w", err)
				}
			}

			gen := harmony.NewGenerator(harmony.Options{
				Namespace: cfg.Generator.PatchNamespace,
				Domain:    cfg.Generator.HarmonyDomain,
			}, logger)

			srv := mcpserver.NewServer(ws, gen, *cfg, logger)
			return srv.ServeStdio()
		},
	}

	cmd.Flags().StringVar(&assemblyPath, "assembly", "", "Metadata dump to preload before serving")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "Override the configured log level (trace, debug, info, warn, error)")

	return cmd
}
