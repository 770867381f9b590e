package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ilprobe/ilprobe/internal/assembly"
	"github.com/ilprobe/ilprobe/internal/decompiler"
	"github.com/ilprobe/ilprobe/internal/envelope"
	"github.com/ilprobe/ilprobe/internal/harmony"
	"github.com/ilprobe/ilprobe/internal/resolver"
)

func newInspectResolveCmd(assemblyPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve ID",
		Short: "Describe one symbol by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ictx, err := newInspectContext(*assemblyPath)
			if err != nil {
				return err
			}
			sym, err := ictx.session.Index.Resolve(args[0])
			if err != nil {
				return err
			}
			cmd.Println(envelope.OK(resolver.Summarize(sym)))
			return nil
		},
	}
}

func newInspectSearchCmd(assemblyPath *string) *cobra.Command {
	var (
		kindName string
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "search QUERY",
		Short: "Search symbols by substring or wildcard pattern",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ictx, err := newInspectContext(*assemblyPath)
			if err != nil {
				return err
			}

			var kinds []assembly.Kind
			if kindName != "" {
				kind, ok := assembly.ParseKind(kindName)
				if !ok {
					return fmt.Errorf("unknown symbol kind %q", kindName)
				}
				kinds = append(kinds, kind)
			}

			if limit <= 0 {
				limit = ictx.cfg.Server.SearchLimit
			}
			matches := ictx.session.Index.Search(args[0], kinds, limit)
			cmd.Println(envelope.OK(symbolList{
				Count:   len(matches),
				Symbols: resolver.SummarizeAll(matches),
			}))
			return nil
		},
	}

	cmd.Flags().StringVar(&kindName, "kind", "", "Restrict to one symbol kind (namespace, type, method, field, property, event)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum results (default from config)")
	return cmd
}

func newInspectSourceCmd(assemblyPath *string) *cobra.Command {
	var (
		outPath    string
		sourceOnly bool
	)

	cmd := &cobra.Command{
		Use:   "source ID",
		Short: "Print the decompiled C# source for a symbol",
		Long: `Print the decompiled C# source captured for a symbol.

Members and nested types resolve to their declaring type's source.
With --source-only the bare C# text is emitted instead of the JSON
envelope, ready to land in a .cs file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ictx, err := newInspectContext(*assemblyPath)
			if err != nil {
				return err
			}
			sym, err := ictx.session.Index.Resolve(args[0])
			if err != nil {
				return err
			}
			result, err := decompiler.Decompile(ictx.session.Snapshot, sym)
			if err != nil {
				return err
			}

			if sourceOnly {
				return emit(cmd, ictx.logger, outPath, result.Source)
			}
			return emit(cmd, ictx.logger, outPath, envelope.OK(result))
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "", "Write the output to a file instead of stdout")
	cmd.Flags().BoolVar(&sourceOnly, "source-only", false, "Emit bare C# source instead of envelope JSON")
	return cmd
}

func newInspectPatchCmd(assemblyPath *string) *cobra.Command {
	var (
		hookNames  []string
		simple     bool
		outPath    string
		sourceOnly bool
	)

	cmd := &cobra.Command{
		Use:   "patch ID",
		Short: "Generate a Harmony patch skeleton for a method",
		Long: `Generate a compilable Harmony patch skeleton for a method id.

Hook signatures follow the target: instance targets receive the
receiver as __instance, non-void targets give Postfix a ref __result,
and unnamed parameters are injected by position (__0, __1).

By default the skeleton binds its exact overload in TargetMethod();
--simple switches to name-only attribute targeting.

Examples:
  ilprobe inspect patch --assembly acme.json "M:Acme.Widget.Compute(System.String)"
  ilprobe inspect patch --assembly acme.json M:Acme.Widget.Reset --hooks Prefix,Finalizer
  ilprobe inspect patch --assembly acme.json M:Acme.Widget.Reset --source-only --out Widget_Reset_Patch.cs`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ictx, err := newInspectContext(*assemblyPath)
			if err != nil {
				return err
			}
			sym, err := ictx.session.Index.Resolve(args[0])
			if err != nil {
				return err
			}

			hooks := harmony.ParseHooks(hookNames...)
			if len(hookNames) == 0 {
				hooks = harmony.ParseHooks(ictx.cfg.Generator.DefaultHooks)
			}

			gen := harmony.NewGenerator(harmony.Options{
				Namespace: ictx.cfg.Generator.PatchNamespace,
				Domain:    ictx.cfg.Generator.HarmonyDomain,
			}, ictx.logger)

			result, err := gen.Generate(sym, hooks, !simple)
			if err != nil {
				return err
			}

			if sourceOnly {
				return emit(cmd, ictx.logger, outPath, result.Source)
			}
			return emit(cmd, ictx.logger, outPath, envelope.OK(result))
		},
	}

	cmd.Flags().StringSliceVar(&hookNames, "hooks", nil, "Hook kinds to emit (Prefix, Postfix, Transpiler, Finalizer)")
	cmd.Flags().BoolVar(&simple, "simple", false, "Name-only attribute targeting instead of TargetMethod()")
	cmd.Flags().StringVar(&outPath, "out", "", "Write the output to a file instead of stdout")
	cmd.Flags().BoolVar(&sourceOnly, "source-only", false, "Emit bare C# source instead of envelope JSON")
	return cmd
}
