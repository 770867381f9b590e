package assembly

import (
	"time"
)

// Info carries assembly-level metadata from the dump.
type Info struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
	Runtime string `json:"runtime,omitempty"`
	Path    string `json:"path,omitempty"`
}

// Snapshot is an immutable view of one loaded assembly: its symbol
// graph plus any decompiled source the exporter captured. A reload
// builds a whole new Snapshot; nothing here changes after construction,
// so readers never synchronize.
type Snapshot struct {
	// SessionID distinguishes this load from every other load,
	// including reloads of the same dump.
	SessionID string

	// LoadedAt records when the dump was parsed.
	LoadedAt time.Time

	Info Info

	types      []*Symbol
	namespaces []*Symbol
	sources    map[string]string

	memberCount int
}

// Types returns all type symbols sorted by full name. The returned
// slice is shared; callers must not mutate it.
func (s *Snapshot) Types() []*Symbol {
	return s.types
}

// Namespaces returns all namespace symbols (including implied ancestor
// namespaces) sorted by full name. The returned slice is shared;
// callers must not mutate it.
func (s *Snapshot) Namespaces() []*Symbol {
	return s.namespaces
}

// Source returns the decompiled source captured for a type, keyed by
// the type's full name.
func (s *Snapshot) Source(typeFullName string) (string, bool) {
	src, ok := s.sources[typeFullName]
	return src, ok
}

// TypeCount returns the number of types in the snapshot.
func (s *Snapshot) TypeCount() int {
	return len(s.types)
}

// MemberCount returns the total number of members across all types.
func (s *Snapshot) MemberCount() int {
	return s.memberCount
}
