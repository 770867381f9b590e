// Package workspace owns the currently loaded assembly. One assembly
// is active at a time; loading another replaces the whole session in a
// single swap.
package workspace

import (
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ilprobe/ilprobe/internal/assembly"
	"github.com/ilprobe/ilprobe/internal/errs"
	"github.com/ilprobe/ilprobe/internal/resolver"
)

// Session pairs a snapshot with the id index built over it. Both are
// immutable; sessions are replaced, never mutated, so a handler that
// grabbed a session keeps a consistent view even across a reload.
type Session struct {
	Snapshot *assembly.Snapshot
	Index    *resolver.Index
}

// Workspace is the single mutable slot shared by the tool handlers.
type Workspace struct {
	mu      sync.RWMutex
	session *Session
	logger  zerolog.Logger
}

// New creates an empty workspace.
func New(logger zerolog.Logger) *Workspace {
	return &Workspace{
		logger: logger.With().Str("component", "workspace").Logger(),
	}
}

// LoadFile reads a metadata dump from disk and activates it.
func (w *Workspace) LoadFile(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata dump: %w", err)
	}
	return w.LoadBytes(data)
}

// LoadBytes parses a metadata dump and activates it. The new session
// replaces any previous one; ids minted against the old session stop
// resolving because the new index never contains them.
func (w *Workspace) LoadBytes(data []byte) (*Session, error) {
	snap, err := assembly.Parse(data)
	if err != nil {
		return nil, err
	}
	session := &Session{Snapshot: snap, Index: resolver.NewIndex(snap)}

	w.mu.Lock()
	previous := w.session
	w.session = session
	w.mu.Unlock()

	event := w.logger.Info().
		Str("assembly", snap.Info.Name).
		Str("session_id", snap.SessionID).
		Int("types", snap.TypeCount()).
		Int("members", snap.MemberCount())
	if previous != nil {
		event = event.Str("replaced_session_id", previous.Snapshot.SessionID)
	}
	event.Msg("Assembly loaded")

	return session, nil
}

// Clear drops the active session, if any. Ids minted against it stop
// resolving through the workspace.
func (w *Workspace) Clear() {
	w.mu.Lock()
	previous := w.session
	w.session = nil
	w.mu.Unlock()

	if previous != nil {
		w.logger.Info().
			Str("assembly", previous.Snapshot.Info.Name).
			Str("session_id", previous.Snapshot.SessionID).
			Msg("Assembly unloaded")
	}
}

// Current returns the active session.
func (w *Workspace) Current() (*Session, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.session == nil {
		return nil, errs.ErrNoAssemblyLoaded
	}
	return w.session, nil
}

// IsLoaded reports whether an assembly is active.
func (w *Workspace) IsLoaded() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.session != nil
}

// Resolve resolves an id against the active session.
func (w *Workspace) Resolve(id string) (*assembly.Symbol, error) {
	session, err := w.Current()
	if err != nil {
		return nil, err
	}
	return session.Index.Resolve(id)
}
