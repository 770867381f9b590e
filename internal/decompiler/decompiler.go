// Package decompiler serves the decompiled C# source captured in an
// assembly dump. The exporter runs the actual decompiler; at runtime
// this package only maps symbols onto the captured text.
package decompiler

import (
	"fmt"
	"strings"

	"github.com/zeebo/xxh3"

	"github.com/ilprobe/ilprobe/internal/assembly"
	"github.com/ilprobe/ilprobe/internal/errs"
	"github.com/ilprobe/ilprobe/internal/resolver"
)

// Result carries the decompiled source of one type.
type Result struct {
	TypeID   string `json:"type_id"`
	TypeName string `json:"type"`
	Hash     string `json:"hash"`
	Lines    int    `json:"lines"`
	Source   string `json:"source"`
}

// Decompile returns the captured source for a symbol. Members map to
// their declaring type, and nested types fall back to the outermost
// type when they were not captured separately, since decompilers emit
// nested types inside their enclosing type. Namespaces have no source
// form.
func Decompile(snap *assembly.Snapshot, sym *assembly.Symbol) (*Result, error) {
	typ, err := sourceType(sym)
	if err != nil {
		return nil, err
	}

	src, ok := snap.Source(typ.FullName)
	if !ok && typ.Declaring != nil {
		outer := typ
		for outer.Declaring != nil {
			outer = outer.Declaring
		}
		if outerSrc, outerOK := snap.Source(outer.FullName); outerOK {
			typ, src, ok = outer, outerSrc, true
		}
	}
	if !ok {
		return nil, fmt.Errorf("no decompiled source captured for %s: %w", typ.FullName, errs.ErrNoSource)
	}

	return &Result{
		TypeID:   resolver.ID(typ),
		TypeName: typ.FullName,
		Hash:     Hash(src),
		Lines:    countLines(src),
		Source:   src,
	}, nil
}

func sourceType(sym *assembly.Symbol) (*assembly.Symbol, error) {
	switch sym.Kind {
	case assembly.KindNamespace:
		return nil, fmt.Errorf("namespaces have no source form: %w", errs.ErrWrongSymbolKind)
	case assembly.KindType:
		return sym, nil
	default:
		if sym.Declaring == nil {
			return nil, fmt.Errorf("member %s has no declaring type: %w", sym.FullName, errs.ErrNoSource)
		}
		return sym.Declaring, nil
	}
}

// Hash fingerprints source text. Ids in the hash stay stable across
// reloads of an unchanged assembly, so clients can detect drift without
// diffing whole files.
func Hash(source string) string {
	return fmt.Sprintf("xxh3:%016x", xxh3.HashString(source))
}

func countLines(source string) int {
	if source == "" {
		return 0
	}
	lines := strings.Count(source, "\n")
	if !strings.HasSuffix(source, "\n") {
		lines++
	}
	return lines
}
