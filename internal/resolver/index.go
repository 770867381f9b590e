package resolver

import (
	"fmt"
	"strings"

	"github.com/ilprobe/ilprobe/internal/assembly"
	"github.com/ilprobe/ilprobe/internal/constants"
	"github.com/ilprobe/ilprobe/internal/errs"
)

// Index is a precomputed id table over one snapshot. Building it walks
// every symbol once; after that Resolve is a single map lookup. An
// Index never changes, so like the snapshot it can be shared across
// goroutines without locking.
type Index struct {
	snap    *assembly.Snapshot
	byID    map[string]*assembly.Symbol
	ordered []*assembly.Symbol
}

// NewIndex builds the id table for a snapshot. Symbols keep a
// deterministic order: namespaces first, then each type followed by its
// members, both sorted by full name.
func NewIndex(snap *assembly.Snapshot) *Index {
	ix := &Index{
		snap: snap,
		byID: make(map[string]*assembly.Symbol),
	}
	for _, ns := range snap.Namespaces() {
		ix.add(ns)
	}
	for _, typ := range snap.Types() {
		ix.add(typ)
		for _, member := range typ.Members {
			ix.add(member)
		}
	}
	return ix
}

func (ix *Index) add(sym *assembly.Symbol) {
	ix.byID[ID(sym)] = sym
	ix.ordered = append(ix.ordered, sym)
}

// Snapshot returns the snapshot this index was built over.
func (ix *Index) Snapshot() *assembly.Snapshot {
	return ix.snap
}

// Size returns the number of addressable symbols.
func (ix *Index) Size() int {
	return len(ix.byID)
}

// Resolve maps an id back to its symbol. Unknown and malformed ids
// report the same condition: the id names nothing in this snapshot.
func (ix *Index) Resolve(id string) (*assembly.Symbol, error) {
	sym, ok := ix.byID[id]
	if !ok {
		return nil, fmt.Errorf("id %q: %w", id, errs.ErrSymbolNotFound)
	}
	return sym, nil
}

// ResolveKind resolves an id and checks the symbol is one of the
// expected kinds.
func (ix *Index) ResolveKind(id string, kinds ...assembly.Kind) (*assembly.Symbol, error) {
	sym, err := ix.Resolve(id)
	if err != nil {
		return nil, err
	}
	for _, kind := range kinds {
		if sym.Kind == kind {
			return sym, nil
		}
	}
	return nil, fmt.Errorf("id %q names a %s: %w", id, sym.Kind, errs.ErrWrongSymbolKind)
}

// Search scans symbols in index order and returns up to limit matches.
// Queries without wildcards match as case-insensitive substrings of the
// full name; a '*' at either end anchors the match ("Acme.*", "*.ctor",
// "*Compute*"). An empty kinds list matches every kind. A limit of zero
// or below falls back to the default, and limits above the maximum are
// capped.
func (ix *Index) Search(query string, kinds []assembly.Kind, limit int) []*assembly.Symbol {
	if limit <= 0 {
		limit = constants.DefaultSearchLimit
	}
	if limit > constants.MaxSearchLimit {
		limit = constants.MaxSearchLimit
	}

	var matches []*assembly.Symbol
	for _, sym := range ix.ordered {
		if len(kinds) > 0 && !kindIn(kinds, sym.Kind) {
			continue
		}
		if !Match(sym.FullName, query) {
			continue
		}
		matches = append(matches, sym)
		if len(matches) >= limit {
			break
		}
	}
	return matches
}

func kindIn(kinds []assembly.Kind, kind assembly.Kind) bool {
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Match implements the search patterns: plain queries match as
// substrings, a '*' at either end anchors the match. Matching is always
// case-insensitive.
func Match(name, query string) bool {
	if query == "" || query == "*" {
		return true
	}
	name = strings.ToLower(name)
	query = strings.ToLower(query)

	leading := strings.HasPrefix(query, "*")
	trailing := strings.HasSuffix(query, "*")
	switch {
	case leading && trailing:
		return strings.Contains(name, strings.Trim(query, "*"))
	case trailing:
		return strings.HasPrefix(name, strings.TrimSuffix(query, "*"))
	case leading:
		return strings.HasSuffix(name, strings.TrimPrefix(query, "*"))
	default:
		return strings.Contains(name, query)
	}
}
