package video

import (
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultMinimumBytes is the number of leading bytes MagicDetector needs
// before a detection attempt is considered conclusive.
const DefaultMinimumBytes = 1024

// Detector infers a MIME type from the leading bytes of a stream.
type Detector interface {
	// Detect returns the MIME type of head, or ok=false if no signature matched.
	Detect(head []byte) (mime string, ok bool)
	// MinimumBytes is how many leading bytes Detect wants to see.
	MinimumBytes() int
}

// MagicDetector is a Detector backed by magic-byte signatures.
// The zero value uses DefaultMinimumBytes.
type MagicDetector struct {
	// Min overrides DefaultMinimumBytes when positive.
	Min int
}

// Detect implements Detector.
func (d MagicDetector) Detect(head []byte) (string, bool) {
	m := DetectMimeTypeFromBytes(head)
	return m, m != ""
}

// MinimumBytes implements Detector.
func (d MagicDetector) MinimumBytes() int {
	if d.Min > 0 {
		return d.Min
	}
	return DefaultMinimumBytes
}

// DetectMimeTypeFromBytes uses magic-byte detection to determine the MIME type
// of the given data. Returns an empty string if detection fails.
func DetectMimeTypeFromBytes(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	mtype := mimetype.Detect(data)
	if mtype == nil {
		return ""
	}
	result := mtype.String()
	// mimetype falls back to "application/octet-stream" when nothing matched.
	if result == "application/octet-stream" {
		return ""
	}
	return result
}

// Category returns the top-level type of a MIME type ("video" for
// "video/mp4"), lower-cased and without parameters.
func Category(mimeType string) string {
	if idx := strings.Index(mimeType, ";"); idx >= 0 {
		mimeType = mimeType[:idx]
	}
	mimeType = strings.TrimSpace(mimeType)
	top, _, _ := strings.Cut(mimeType, "/")
	return strings.ToLower(top)
}

// IsVideo reports whether mimeType belongs to the video category.
func IsVideo(mimeType string) bool {
	return Category(mimeType) == "video"
}

// MimeTypeFromFilename looks up the MIME type from a filename's extension.
// Returns an empty string if no match is found.
func MimeTypeFromFilename(name string) string {
	ext := filepath.Ext(name)
	if ext == "" {
		return ""
	}
	return mime.TypeByExtension(ext)
}
