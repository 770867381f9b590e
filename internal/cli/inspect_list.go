package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ilprobe/ilprobe/internal/assembly"
	"github.com/ilprobe/ilprobe/internal/constants"
	"github.com/ilprobe/ilprobe/internal/envelope"
	"github.com/ilprobe/ilprobe/internal/resolver"
)

// assemblyReport mirrors the ilprobe_assembly_info tool payload.
type assemblyReport struct {
	Assembly   assembly.Info `json:"assembly"`
	SessionID  string        `json:"session_id"`
	LoadedAt   time.Time     `json:"loaded_at"`
	Namespaces int           `json:"namespaces"`
	Types      int           `json:"types"`
	Members    int           `json:"members"`
	Symbols    int           `json:"symbols"`
}

// symbolList mirrors the listing tool payloads.
type symbolList struct {
	Count   int                `json:"count"`
	Symbols []resolver.Summary `json:"symbols"`
}

// memberList mirrors the ilprobe_list_members tool payload.
type memberList struct {
	TypeID  string             `json:"type_id"`
	Type    string             `json:"type"`
	Count   int                `json:"count"`
	Symbols []resolver.Summary `json:"symbols"`
}

func newInspectInfoCmd(assemblyPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Describe the assembly and its symbol counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ictx, err := newInspectContext(*assemblyPath)
			if err != nil {
				return err
			}
			snap := ictx.session.Snapshot
			cmd.Println(envelope.OK(assemblyReport{
				Assembly:   snap.Info,
				SessionID:  snap.SessionID,
				LoadedAt:   snap.LoadedAt,
				Namespaces: len(snap.Namespaces()),
				Types:      snap.TypeCount(),
				Members:    snap.MemberCount(),
				Symbols:    ictx.session.Index.Size(),
			}))
			return nil
		},
	}
}

func newInspectNamespacesCmd(assemblyPath *string) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "namespaces",
		Short: "List namespaces, including implied ancestors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ictx, err := newInspectContext(*assemblyPath)
			if err != nil {
				return err
			}
			matches := ictx.session.Index.Search(filter, []assembly.Kind{assembly.KindNamespace}, constants.MaxSearchLimit)
			cmd.Println(envelope.OK(symbolList{
				Count:   len(matches),
				Symbols: resolver.SummarizeAll(matches),
			}))
			return nil
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "Name pattern ('Acme.*', '*collections')")
	return cmd
}

func newInspectTypesCmd(assemblyPath *string) *cobra.Command {
	var (
		namespace string
		filter    string
	)

	cmd := &cobra.Command{
		Use:   "types",
		Short: "List types, optionally restricted to one namespace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ictx, err := newInspectContext(*assemblyPath)
			if err != nil {
				return err
			}

			var matches []*assembly.Symbol
			for _, typ := range ictx.session.Snapshot.Types() {
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
			cmd.Println(envelope.OK(symbolList{
				Count:   len(matches),
				Symbols: resolver.SummarizeAll(matches),
			}))
			return nil
		},
	}

	cmd.Flags().StringVar(&namespace, "namespace", "", "Only types declared directly in this namespace (exact match)")
	cmd.Flags().StringVar(&filter, "filter", "", "Full-name pattern ('*Controller', 'Acme.*')")
	return cmd
}

func newInspectMembersCmd(assemblyPath *string) *cobra.Command {
	var kindNames []string

	cmd := &cobra.Command{
		Use:   "members TYPE_ID",
		Short: "List the members of one type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ictx, err := newInspectContext(*assemblyPath)
			if err != nil {
				return err
			}

			typ, err := ictx.session.Index.ResolveKind(args[0], assembly.KindType)
			if err != nil {
				return err
			}

			var kinds []assembly.Kind
			for _, name := range kindNames {
				kind, ok := assembly.ParseKind(name)
				if !ok {
					return fmt.Errorf("unknown member kind %q", name)
				}
				kinds = append(kinds, kind)
			}

			var matches []*assembly.Symbol
			for _, member := range typ.Members {
				if len(kinds) > 0 && !containsKind(kinds, member.Kind) {
					continue
				}
				matches = append(matches, member)
			}
			cmd.Println(envelope.OK(memberList{
				TypeID:  args[0],
				Type:    typ.FullName,
				Count:   len(matches),
				Symbols: resolver.SummarizeAll(matches),
			}))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&kindNames, "kinds", nil, "Member kinds to keep (method, field, property, event)")
	return cmd
}

func containsKind(kinds []assembly.Kind, kind assembly.Kind) bool {
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}
