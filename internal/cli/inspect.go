package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ilprobe/ilprobe/internal/config"
	"github.com/ilprobe/ilprobe/internal/errs"
	"github.com/ilprobe/ilprobe/internal/logging"
	"github.com/ilprobe/ilprobe/internal/workspace"
)

// newInspectCmd creates the inspect command and its subcommands. Each
// subcommand loads the dump, answers one question, and prints the same
// envelope JSON the MCP tools return.
func newInspectCmd() *cobra.Command {
	var assemblyPath string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Inspect a metadata dump without starting a server",
		Long: `One-shot queries against an assembly metadata dump.

Output is the same envelope JSON the MCP tools return, so results pipe
cleanly into jq or disk files.

Examples:
  ilprobe inspect info --assembly acme.json
  ilprobe inspect types --assembly acme.json --namespace Acme.Collections
  ilprobe inspect members --assembly acme.json T:Acme.Widget --kinds method
  ilprobe inspect source --assembly acme.json T:Acme.Widget --out Widget.cs
  ilprobe inspect patch --assembly acme.json "M:Acme.Widget.Compute(System.String)"`,
	}

	cmd.PersistentFlags().StringVar(&assemblyPath, "assembly", "", "Metadata dump to inspect (falls back to assembly.dump_path in config)")

	cmd.AddCommand(newInspectInfoCmd(&assemblyPath))
	cmd.AddCommand(newInspectNamespacesCmd(&assemblyPath))
	cmd.AddCommand(newInspectTypesCmd(&assemblyPath))
	cmd.AddCommand(newInspectMembersCmd(&assemblyPath))
	cmd.AddCommand(newInspectResolveCmd(&assemblyPath))
	cmd.AddCommand(newInspectSearchCmd(&assemblyPath))
	cmd.AddCommand(newInspectSourceCmd(&assemblyPath))
	cmd.AddCommand(newInspectPatchCmd(&assemblyPath))

	return cmd
}

// inspectContext bundles what every inspect subcommand needs: the
// loaded session plus config and a stderr logger.
type inspectContext struct {
	cfg     *config.Config
	logger  zerolog.Logger
	session *workspace.Session
}

// newInspectContext loads config and the metadata dump. Inspection
// output goes to stdout, so the logger stays at warn unless the config
// asks for less.
func newInspectContext(assemblyPath string) (*inspectContext, error) {
	loader, err := config.NewLoader()
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.New(logging.Config{
		Level:  "warn",
		Pretty: cfg.Log.Pretty,
	})

	if assemblyPath == "" {
		assemblyPath = cfg.Assembly.DumpPath
	}
	if assemblyPath == "" {
		return nil, fmt.Errorf("no assembly given: pass --assembly or set assembly.dump_path in config")
	}

	ws := workspace.New(logger)
	session, err := ws.LoadFile(assemblyPath)
	if err != nil {
		return nil, err
	}

	return &inspectContext{
		cfg:     cfg,
		logger:  logger,
		session: session,
	}, nil
}

// emit prints text to stdout, or writes it to outPath when set.
func emit(cmd *cobra.Command, logger zerolog.Logger, outPath, text string) error {
	if outPath == "" {
		cmd.Println(text)
		return nil
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer errs.DeferClose(logger, f, "failed to close output file")

	if _, err := f.WriteString(text + "\n"); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
