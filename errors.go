package video

import (
	"errors"
	"fmt"
)

// Sentinel errors for the video package.
var (
	// ErrConfiguration is returned when required setup is missing, such as the video prototype.
	ErrConfiguration = errors.New("video: no video prototype")

	// ErrNoFiles is returned when Import is called without any file.
	ErrNoFiles = errors.New("video: no file to import")

	// ErrMultiFileUnsupported is returned when more than one file is passed to Import.
	ErrMultiFileUnsupported = errors.New("video: multi-file import is not supported")

	// ErrUnknownType is returned when signature sniffing finds no known type.
	ErrUnknownType = errors.New("video: unable to detect file type")

	// ErrNotAVideo is returned when the detected type is not in the video category.
	ErrNotAVideo = errors.New("video: not a video")

	// ErrSource is returned when the file's byte stream fails.
	ErrSource = errors.New("video: source read failed")

	// ErrSink is returned when the blob store fails to accept or hash the stream.
	ErrSink = errors.New("video: blob sink failed")

	// ErrInvalidRecord is returned when a record does not validate against the video schema.
	ErrInvalidRecord = errors.New("video: record does not match schema")
)

// ImportError wraps an underlying error with a sentinel from this package.
type ImportError struct {
	// Sentinel is the high-level category error (e.g., ErrNotAVideo, ErrSink).
	Sentinel error
	// Op is the operation that failed (e.g., "Import", "Commit").
	Op string
	// Err is the underlying error.
	Err error
}

// Error returns the formatted error string.
func (e *ImportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Sentinel, e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Sentinel, e.Op)
}

// Unwrap returns the underlying error so errors.Is and errors.As work correctly.
func (e *ImportError) Unwrap() error {
	return e.Err
}

// Is reports whether target matches the sentinel.
func (e *ImportError) Is(target error) bool {
	return errors.Is(e.Sentinel, target)
}

func newError(sentinel error, op string, err error) *ImportError {
	return &ImportError{
		Sentinel: sentinel,
		Op:       op,
		Err:      err,
	}
}
