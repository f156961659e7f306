// Package source provides video.FileHandle implementations for files held
// in memory, on a filesystem, behind a URL or in S3.
package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/SmooAI/video"
)

// Kind represents the origin of a file.
type Kind string

const (
	// KindBytes indicates the file is held in memory.
	KindBytes Kind = "Bytes"
	// KindFile indicates the file lives on a filesystem.
	KindFile Kind = "File"
	// KindURL indicates the file is fetched over HTTP.
	KindURL Kind = "Url"
	// KindS3 indicates the file is an S3 object.
	KindS3 Kind = "S3"
)

// String returns the string representation of a Kind.
func (k Kind) String() string { return string(k) }

// Hint provides metadata the source itself cannot tell. Zero-value fields
// are ignored.
type Hint struct {
	Name         string
	MimeType     string
	Size         int64
	LastModified time.Time
}

func firstHint(hints []Hint) Hint {
	if len(hints) > 0 {
		return hints[0]
	}
	return Hint{}
}

// Metadata describes a Handle.
type Metadata struct {
	Name         string
	MimeType     string
	Size         int64
	LastModified time.Time
	// URL is the HTTP URL or s3:// URI for remote handles.
	URL string
	// Path is the filesystem path for file handles.
	Path string
}

func (m *Metadata) apply(h Hint) {
	if h.Name != "" {
		m.Name = h.Name
	}
	if h.MimeType != "" {
		m.MimeType = h.MimeType
	}
	if h.Size > 0 {
		m.Size = h.Size
	}
	if !h.LastModified.IsZero() {
		m.LastModified = h.LastModified
	}
}

// guessType falls back to the filename when nothing declared a MIME type.
func (m *Metadata) guessType() {
	if m.MimeType == "" && m.Name != "" {
		m.MimeType = video.MimeTypeFromFilename(m.Name)
	}
}

// Handle is a streamable file. It satisfies video.FileHandle.
type Handle struct {
	kind Kind
	meta Metadata
	open func(ctx context.Context) (io.ReadCloser, error)
	// release frees anything held for a stream that was never opened.
	release func() error
}

var _ video.FileHandle = (*Handle)(nil)

// Kind returns where the handle streams from.
func (h *Handle) Kind() Kind { return h.kind }

// Metadata returns a copy of the handle's metadata.
func (h *Handle) Metadata() Metadata { return h.meta }

// Name returns the filename (may be empty).
func (h *Handle) Name() string { return h.meta.Name }

// Size returns the size in bytes, or 0 if unknown.
func (h *Handle) Size() int64 { return h.meta.Size }

// LastModified returns the last modification time (may be zero).
func (h *Handle) LastModified() time.Time { return h.meta.LastModified }

// Type returns the declared MIME type (may be empty).
func (h *Handle) Type() string { return h.meta.MimeType }

// Open starts a new stream over the file.
func (h *Handle) Open(ctx context.Context) (io.ReadCloser, error) {
	return h.open(ctx)
}

// Close releases resources the handle holds for a stream it has not
// handed out yet. Streams already returned by Open are closed by their reader.
func (h *Handle) Close() error {
	if h.release == nil {
		return nil
	}
	return h.release()
}

// String returns a human-readable representation of the handle.
func (h *Handle) String() string {
	return fmt.Sprintf("Handle{kind=%s, name=%q, mime=%q, size=%d}",
		h.kind, h.meta.Name, h.meta.MimeType, h.meta.Size)
}

// FromBytes returns a handle over data.
func FromBytes(name string, data []byte, hints ...Hint) *Handle {
	meta := Metadata{Name: name, Size: int64(len(data))}
	meta.apply(firstHint(hints))
	meta.guessType()
	return &Handle{
		kind: KindBytes,
		meta: meta,
		open: func(context.Context) (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}
