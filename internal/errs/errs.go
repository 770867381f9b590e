// Package errs defines the failure taxonomy shared across ilprobe and
// small error-handling utilities.
package errs

import (
	"errors"
	"io"

	"github.com/rs/zerolog"
)

// Sentinel errors for the inspection and generation pipeline. Callers
// classify failures with errors.Is; tool handlers map them onto the
// error envelope.
var (
	// ErrNoAssemblyLoaded is returned when an operation requires a loaded
	// assembly and the workspace is empty.
	ErrNoAssemblyLoaded = errors.New("no assembly loaded")

	// ErrSymbolNotFound is returned when a symbol id does not resolve
	// against the current snapshot. Malformed ids report the same
	// condition: an id either names a live symbol or it does not.
	ErrSymbolNotFound = errors.New("symbol not found")

	// ErrWrongSymbolKind is returned when an operation requires a
	// specific symbol kind (method, type) and received another.
	ErrWrongSymbolKind = errors.New("wrong symbol kind")

	// ErrGenerationFailed is returned when skeleton rendering cannot
	// produce a usable document.
	ErrGenerationFailed = errors.New("skeleton generation failed")

	// ErrNoSource is returned when the snapshot carries no decompiled
	// source for the requested symbol.
	ErrNoSource = errors.New("no decompiled source available")
)

// DeferClose properly closes an io.Closer with logging.
// Use this in defer statements to avoid suppressing close errors.
func DeferClose(logger zerolog.Logger, closer io.Closer, msg string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logger.Warn().Err(err).Msg(msg)
	}
}
