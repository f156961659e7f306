// Package video imports video files into a content-addressed blob store.
// A single import streams the file once: it reports progress, sniffs the
// media type from the leading bytes, forwards every byte to the blob store
// and returns a Record describing the stored video.
package video

import (
	"context"
	"io"
	"regexp"
	"strings"
	"time"
)

// TypeVideo is the record type of every imported video.
const TypeVideo = "video"

// Ref is an opaque reference to a prototype message in the document store.
type Ref string

// FileHandle is a caller-owned file that can be streamed.
type FileHandle interface {
	Name() string
	Size() int64
	LastModified() time.Time
	// Type is the declared MIME type. It may be empty or wrong.
	Type() string
	// Open returns a fresh stream over the file's contents. Every successful
	// Read on it is treated as one chunk.
	Open(ctx context.Context) (io.ReadCloser, error)
}

// FileProperties is a snapshot of a FileHandle taken when an import starts.
type FileProperties struct {
	// LastModified is in milliseconds since the Unix epoch.
	LastModified int64  `json:"lastModified"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	Type         string `json:"type"`
}

// Record is the content of an imported video.
type Record struct {
	Type      string         `json:"type"`
	Prototype Ref            `json:"prototype"`
	Name      string         `json:"name"`
	File      FileProperties `json:"file"`
	Blob      string         `json:"blob"`

	// Filled in from playback metadata, absent right after import.
	Width    *float64 `json:"width,omitempty"`
	Height   *float64 `json:"height,omitempty"`
	Duration *float64 `json:"duration,omitempty"`
}

// SetDimensions records the decoded frame size and duration in seconds.
func (r *Record) SetDimensions(width, height int, duration float64) {
	w, h := float64(width), float64(height)
	r.Width, r.Height, r.Duration = &w, &h, &duration
}

func snapshot(f FileHandle) FileProperties {
	var lm int64
	if t := f.LastModified(); !t.IsZero() {
		lm = t.UnixMilli()
	}
	return FileProperties{
		LastModified: lm,
		Name:         f.Name(),
		Size:         f.Size(),
		Type:         f.Type(),
	}
}

var extPattern = regexp.MustCompile(`\.\w{3,4}$`)

// Titleize derives a display name from a filename: a trailing extension of
// three or four word characters is removed and dashes become spaces.
//
//	Titleize("clip-01.mp4")  // "clip 01"
//	Titleize("My Video.mov") // "My Video"
func Titleize(filename string) string {
	return strings.ReplaceAll(extPattern.ReplaceAllString(filename, ""), "-", " ")
}
