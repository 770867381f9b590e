// Package cli implements the ilprobe command line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/ilprobe/ilprobe/pkg/version"
)

var rootCmd = &cobra.Command{
	Use:   "ilprobe",
	Short: "Symbol-level inspection and Harmony patch scaffolding for .NET assemblies",
	Long: `ilprobe serves the contents of a .NET assembly metadata dump to MCP
clients and one-shot CLI invocations.

Every namespace, type, and member of a loaded assembly gets a stable
symbol id (T:Acme.Widget, M:Acme.Widget.Compute(System.String), ...).
Clients list and search symbols by those ids, fetch decompiled source,
and generate compilable Harmony patch skeletons shaped by the target's
signature.

The metadata dump is produced ahead of time by the ilprobe exporter
running next to the .NET toolchain; this binary never loads assemblies
itself.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Add subcommands
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newInspectCmd())
	rootCmd.AddCommand(newVersionCmd())
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("ilprobe version %s\n", version.Version)
			cmd.Printf("Git commit: %s\n", version.GitCommit)
			cmd.Printf("Build date: %s\n", version.BuildDate)
			cmd.Printf("Go version: %s\n", version.GoVersion)
		},
	}
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
