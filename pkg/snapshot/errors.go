package snapshot

import "errors"

// Snapshot store errors.
var (
	// ErrLockFailed is returned when the advisory file lock can not be acquired.
	ErrLockFailed = errors.New("snapshot: failed to acquire file lock")

	// ErrReadFailed is returned when the snapshot file exists but can not be read.
	ErrReadFailed = errors.New("snapshot: failed to read file")

	// ErrWriteFailed is returned when the snapshot file can not be replaced.
	ErrWriteFailed = errors.New("snapshot: failed to write file")

	// ErrCorruptSnapshot is returned when the snapshot file does not deserialize.
	ErrCorruptSnapshot = errors.New("snapshot: corrupt file")
)
