package probe

import (
	"errors"
	"fmt"
)

// Sentinel errors for the raw accessors.
var (
	// ErrNotSupported is returned by system calls that do not exist on
	// the current platform.
	ErrNotSupported = errors.New("not supported on this platform")

	// ErrStoreUnavailable indicates the property store itself could not be
	// reached (the backing command or runtime is missing).
	ErrStoreUnavailable = errors.New("property store unavailable")

	// ErrPropertyNotFound indicates the store is reachable but has no value
	// for the requested key.
	ErrPropertyNotFound = errors.New("property not found")
)

// Read stages reported by Error.Op.
const (
	OpOpen = "open"
	OpStat = "stat"
	OpRead = "read"
)

// Error records a failed raw file access and the stage it failed at.
type Error struct {
	// Op is the failing stage: OpOpen, OpStat or OpRead.
	Op string
	// Path is the logical path that was requested.
	Path string
	// Err is the underlying error.
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Placeholder returns the report text used in place of file content.
func (e *Error) Placeholder() string {
	switch e.Op {
	case OpStat:
		return "Unable to get file stat: " + e.Path
	case OpRead:
		return "Unable to read file content: " + e.Path
	default:
		return "Unable to read file: " + e.Path
	}
}
