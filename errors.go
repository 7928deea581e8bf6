package gofat16

import "errors"

// Sentinel errors surfaced by the core. Propagation policy (spec section 7):
// constructor errors are fatal to the Fs; all steady-state errors are
// values - false returns or short counts - never thrown out of band.
var (
	// ErrNotADirectory is returned by FirstEntryOf when the parent entry's
	// DIRECTORY attribute bit is not set.
	ErrNotADirectory = errors.New("fat16: not a directory")

	// ErrShortRead documents the short-read error kind from spec section 7.
	// The core itself never returns it directly - ReadFromCluster and
	// NextEntry surface short reads as a smaller count or a false return,
	// per spec's "errors are values" policy - but afero.File.Read/ReadAt
	// wrap it when a caller-facing io.Reader contract demands an error.
	ErrShortRead = errors.New("fat16: short read")

	// ErrEndOfDirectory documents normal iteration termination. NextEntry
	// signals it by returning false, never by returning this value; it
	// exists so callers have a name to refer to in documentation and logs.
	ErrEndOfDirectory = errors.New("fat16: end of directory")

	// ErrNotImplemented is returned by the write-side afero.Fs/afero.File
	// methods this read-only reader does not support.
	ErrNotImplemented = errors.New("fat16: not implemented, read-only filesystem")
)
