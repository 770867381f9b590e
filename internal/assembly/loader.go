package assembly

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ilprobe/ilprobe/internal/constants"
)

// Load reads a metadata dump from disk and builds a Snapshot.
func Load(path string) (*Snapshot, error) {
	//nolint:gosec // G304: The dump path is operator-supplied by design.
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata dump: %w", err)
	}
	return Parse(data)
}

// Parse builds a Snapshot from raw dump bytes. The whole dump is
// validated up front: duplicate types, duplicate member signatures, and
// malformed type references are load errors, so every symbol that makes
// it into a Snapshot has a unique, well-formed address.
func Parse(data []byte) (*Snapshot, error) {
	var df dumpFile
	if err := json.Unmarshal(data, &df); err != nil {
		return nil, fmt.Errorf("failed to parse metadata dump: %w", err)
	}
	if df.Format != constants.DumpFormatVersion {
		return nil, fmt.Errorf("unsupported dump format %d (want %d)", df.Format, constants.DumpFormatVersion)
	}
	if df.Assembly.Name == "" {
		return nil, fmt.Errorf("dump is missing the assembly name")
	}

	snap := &Snapshot{
		SessionID: uuid.New().String(),
		LoadedAt:  time.Now(),
		Info: Info{
			Name:    df.Assembly.Name,
			Version: df.Assembly.Version,
			Runtime: df.Assembly.Runtime,
			Path:    df.Assembly.Path,
		},
		sources: make(map[string]string),
	}

	byFullName := make(map[string]*Symbol, len(df.Types))
	for _, dt := range df.Types {
		sym, err := buildType(dt)
		if err != nil {
			return nil, err
		}
		if _, dup := byFullName[sym.FullName]; dup {
			return nil, fmt.Errorf("duplicate type %s", sym.FullName)
		}
		byFullName[sym.FullName] = sym
		snap.types = append(snap.types, sym)
		snap.memberCount += len(sym.Members)
		if dt.Source != "" {
			snap.sources[sym.FullName] = dt.Source
		}
	}

	// Link nested types to their declaring types. A missing outer type
	// leaves Declaring nil, which downstream code tolerates.
	for _, sym := range snap.types {
		if i := strings.LastIndexByte(sym.FullName, '+'); i >= 0 {
			sym.Declaring = byFullName[sym.FullName[:i]]
		}
	}

	snap.namespaces = buildNamespaces(snap.types)

	sort.Slice(snap.types, func(i, j int) bool {
		return snap.types[i].FullName < snap.types[j].FullName
	})

	return snap, nil
}

func buildType(dt dumpType) (*Symbol, error) {
	if dt.FullName == "" {
		return nil, fmt.Errorf("dump contains a type with no full_name")
	}
	if strings.ContainsAny(dt.FullName, "{}[],@& ") {
		return nil, fmt.Errorf("malformed type name %q", dt.FullName)
	}

	ns, rest := SplitNamespace(dt.FullName)
	name := rest
	if i := strings.LastIndexByte(rest, '+'); i >= 0 {
		name = rest[i+1:]
	}

	category := dt.Category
	if category == "" {
		category = "class"
	}

	sym := &Symbol{
		Kind:         KindType,
		Name:         name,
		FullName:     dt.FullName,
		Namespace:    ns,
		Visibility:   dt.Visibility,
		Static:       dt.Static,
		Abstract:     dt.Abstract,
		Category:     category,
		GenericArity: dt.GenericArity,
	}

	if dt.Base != "" {
		base, err := ParseTypeRef(dt.Base)
		if err != nil {
			return nil, fmt.Errorf("type %s: base: %w", dt.FullName, err)
		}
		sym.Base = base
	}

	seenMethods := make(map[string]struct{}, len(dt.Methods))
	for _, dm := range dt.Methods {
		m, err := buildMethod(sym, dm)
		if err != nil {
			return nil, fmt.Errorf("type %s: %w", dt.FullName, err)
		}
		key := methodKey(m)
		if _, dup := seenMethods[key]; dup {
			return nil, fmt.Errorf("type %s: duplicate method %s", dt.FullName, key)
		}
		seenMethods[key] = struct{}{}
		sym.Members = append(sym.Members, m)
	}

	if err := appendNamedMembers(sym, dt); err != nil {
		return nil, fmt.Errorf("type %s: %w", dt.FullName, err)
	}

	return sym, nil
}

// appendNamedMembers builds field, property, and event symbols, which
// are addressed by bare name within their kind.
func appendNamedMembers(parent *Symbol, dt dumpType) error {
	seen := make(map[string]struct{})
	mark := func(kind Kind, name string) error {
		if name == "" {
			return fmt.Errorf("%s with no name", kind)
		}
		// Same dot escaping as method keys: ids address these by
		// escaped name.
		key := kind.Prefix() + ":" + strings.ReplaceAll(name, ".", "#")
		if _, dup := seen[key]; dup {
			return fmt.Errorf("duplicate %s %s", kind, name)
		}
		seen[key] = struct{}{}
		return nil
	}

	for _, f := range dt.Fields {
		if err := mark(KindField, f.Name); err != nil {
			return err
		}
		typ, err := ParseTypeRef(f.Type)
		if err != nil {
			return fmt.Errorf("field %s: %w", f.Name, err)
		}
		parent.Members = append(parent.Members, &Symbol{
			Kind:       KindField,
			Name:       f.Name,
			FullName:   parent.FullName + "." + f.Name,
			Namespace:  parent.Namespace,
			Declaring:  parent,
			Visibility: f.Visibility,
			Static:     f.Static,
			Type:       typ,
		})
	}

	for _, p := range dt.Properties {
		if err := mark(KindProperty, p.Name); err != nil {
			return err
		}
		typ, err := ParseTypeRef(p.Type)
		if err != nil {
			return fmt.Errorf("property %s: %w", p.Name, err)
		}
		parent.Members = append(parent.Members, &Symbol{
			Kind:       KindProperty,
			Name:       p.Name,
			FullName:   parent.FullName + "." + p.Name,
			Namespace:  parent.Namespace,
			Declaring:  parent,
			Visibility: p.Visibility,
			Static:     p.Static,
			Type:       typ,
			CanRead:    p.Get,
			CanWrite:   p.Set,
		})
	}

	for _, e := range dt.Events {
		if err := mark(KindEvent, e.Name); err != nil {
			return err
		}
		typ, err := ParseTypeRef(e.Type)
		if err != nil {
			return fmt.Errorf("event %s: %w", e.Name, err)
		}
		parent.Members = append(parent.Members, &Symbol{
			Kind:       KindEvent,
			Name:       e.Name,
			FullName:   parent.FullName + "." + e.Name,
			Namespace:  parent.Namespace,
			Declaring:  parent,
			Visibility: e.Visibility,
			Static:     e.Static,
			Type:       typ,
		})
	}

	return nil
}

func buildMethod(parent *Symbol, dm dumpMethod) (*Symbol, error) {
	if dm.Name == "" {
		return nil, fmt.Errorf("method with no name")
	}
	if dm.Returns == "" {
		return nil, fmt.Errorf("method %s: missing return type", dm.Name)
	}

	ret, err := ParseTypeRef(dm.Returns)
	if err != nil {
		return nil, fmt.Errorf("method %s: return: %w", dm.Name, err)
	}

	params := make([]Param, 0, len(dm.Params))
	for i, dp := range dm.Params {
		typ, err := ParseTypeRef(dp.Type)
		if err != nil {
			return nil, fmt.Errorf("method %s: parameter %d: %w", dm.Name, i, err)
		}
		params = append(params, Param{Name: dp.Name, Type: typ})
	}

	return &Symbol{
		Kind:         KindMethod,
		Name:         dm.Name,
		FullName:     parent.FullName + "." + dm.Name,
		Namespace:    parent.Namespace,
		Declaring:    parent,
		Visibility:   dm.Visibility,
		Static:       dm.Static,
		Abstract:     dm.Abstract,
		Virtual:      dm.Virtual,
		GenericArity: dm.GenericArity,
		Params:       params,
		Return:       ret,
	}, nil
}

// methodKey is the overload-disambiguating shape of a method: name,
// generic arity, and the canonical parameter type list. It mirrors what
// the symbol id embeds, so uniqueness here guarantees unique ids. Ids
// escape dots in member names to '#', so the key applies the same
// escaping: "Run.Fast" and "Run#Fast" would otherwise pass dedup here
// and still collide downstream.
func methodKey(m *Symbol) string {
	var b strings.Builder
	b.WriteString(strings.ReplaceAll(m.Name, ".", "#"))
	if m.GenericArity > 0 {
		fmt.Fprintf(&b, "``%d", m.GenericArity)
	}
	b.WriteByte('(')
	for i, p := range m.Params {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(p.Type.String())
	}
	b.WriteByte(')')
	return b.String()
}

// SplitNamespace splits a full type name into its namespace and the
// in-namespace remainder. Nested-type separators ('+') bind tighter
// than namespace dots: "Acme.Widget+Inner" lives in namespace "Acme".
func SplitNamespace(full string) (ns, rest string) {
	head := full
	if i := strings.IndexByte(full, '+'); i >= 0 {
		head = full[:i]
	}
	if j := strings.LastIndexByte(head, '.'); j >= 0 {
		return full[:j], full[j+1:]
	}
	return "", full
}

// buildNamespaces derives namespace symbols from the loaded types,
// including implied ancestors ("Acme.Collections" implies "Acme").
func buildNamespaces(types []*Symbol) []*Symbol {
	set := make(map[string]struct{})
	for _, t := range types {
		ns := t.Namespace
		for ns != "" {
			if _, ok := set[ns]; ok {
				break
			}
			set[ns] = struct{}{}
			if i := strings.LastIndexByte(ns, '.'); i >= 0 {
				ns = ns[:i]
			} else {
				ns = ""
			}
		}
	}

	out := make([]*Symbol, 0, len(set))
	for ns := range set {
		name := ns
		parent := ""
		if i := strings.LastIndexByte(ns, '.'); i >= 0 {
			name = ns[i+1:]
			parent = ns[:i]
		}
		out = append(out, &Symbol{
			Kind:      KindNamespace,
			Name:      name,
			FullName:  ns,
			Namespace: parent,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].FullName < out[j].FullName
	})
	return out
}
