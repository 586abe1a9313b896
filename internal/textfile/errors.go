package textfile

import (
	"errors"
	"fmt"
	"io/fs"
	"syscall"
)

// Sentinel errors form the operation error taxonomy. Callers classify failures
// with errors.Is; everything not tagged with one of these is a plain I/O failure.
var (
	// ErrNotFound indicates the target path does not exist and the operation
	// requires it to.
	ErrNotFound = errors.New("file not found")

	// ErrInvalidRange indicates a line range that can never be satisfied:
	// start < 1, start > end, or start beyond the last line of the file.
	ErrInvalidRange = errors.New("invalid line range")

	// ErrConflictingOptions indicates mutually exclusive options were given
	// together, or a required companion option is missing.
	ErrConflictingOptions = errors.New("conflicting options")

	// ErrMalformedPattern indicates an invalid regex, an empty search text, or
	// a pattern that produces zero-length matches.
	ErrMalformedPattern = errors.New("malformed pattern")

	// ErrBusy indicates the file is held under an incompatible lock. It is
	// surfaced immediately and never retried.
	ErrBusy = errors.New("file is busy")
)

func notFoundError(path string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, path)
}

func invalidRangeError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRange, fmt.Sprintf(format, args...))
}

func conflictingOptionsError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflictingOptions, fmt.Sprintf(format, args...))
}

func malformedPatternError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedPattern, fmt.Sprintf(format, args...))
}

// classifyOpenError maps an os.Open error onto the taxonomy. Missing paths
// become ErrNotFound; lock-style failures become ErrBusy; anything else passes
// through as a plain I/O failure.
func classifyOpenError(path string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return notFoundError(path)
	}
	if errors.Is(err, syscall.ETXTBSY) || errors.Is(err, syscall.EAGAIN) || errors.Is(err, syscall.EWOULDBLOCK) {
		return fmt.Errorf("%w: %s: %v", ErrBusy, path, err)
	}
	return err
}
