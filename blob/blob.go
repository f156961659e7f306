// Package blob provides content-addressed stores for byte streams. A stream
// is written through a Writer and becomes addressable by the SHA-256 of its
// content once committed.
package blob

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	// ErrNotFound is returned when no blob exists for an id.
	ErrNotFound = errors.New("blob: not found")

	// ErrInvalidID is returned when an id is not a sha256 blob reference.
	ErrInvalidID = errors.New("blob: invalid id")

	// ErrClosed is returned when a writer is used after Commit or Abort.
	ErrClosed = errors.New("blob: writer already closed")
)

// Writer receives one blob's bytes in order.
type Writer interface {
	io.Writer
	// Commit ends the stream and returns the blob id. It is called at most once.
	Commit(ctx context.Context) (string, error)
	// Abort discards everything written so far.
	Abort() error
}

// Store is implemented by every backend in this package.
type Store interface {
	Add(ctx context.Context) (Writer, error)
	Get(ctx context.Context, id string) (io.ReadCloser, error)
	Has(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
}

const idSuffix = ".sha256"

// FormatID renders a digest as a blob id: "&" + base64(digest) + ".sha256".
func FormatID(sum [sha256.Size]byte) string {
	return "&" + base64.StdEncoding.EncodeToString(sum[:]) + idSuffix
}

// ParseID returns the digest named by id.
func ParseID(id string) ([sha256.Size]byte, error) {
	var sum [sha256.Size]byte
	if !strings.HasPrefix(id, "&") || !strings.HasSuffix(id, idSuffix) {
		return sum, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	raw, err := base64.StdEncoding.DecodeString(id[1 : len(id)-len(idSuffix)])
	if err != nil {
		return sum, fmt.Errorf("%w: %q: %v", ErrInvalidID, id, err)
	}
	if len(raw) != sha256.Size {
		return sum, fmt.Errorf("%w: %q: digest is %d bytes", ErrInvalidID, id, len(raw))
	}
	copy(sum[:], raw)
	return sum, nil
}

// HexID returns the hex digest for id, used as a storage key.
func HexID(id string) (string, error) {
	sum, err := ParseID(id)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(sum[:]), nil
}

// Sum computes the blob id of data.
func Sum(data []byte) string {
	return FormatID(sha256.Sum256(data))
}
