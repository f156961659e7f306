package video

import (
	"testing"
)

func TestDetectMimeTypeFromBytes(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		wantMime string
	}{
		{
			name:     "empty data returns empty",
			data:     nil,
			wantMime: "",
		},
		{
			name:     "MP4 ftyp box",
			data:     mp4Header,
			wantMime: "video/mp4",
		},
		{
			name: "PNG magic bytes",
			// PNG header: 89 50 4E 47 0D 0A 1A 0A
			data:     pngHeader,
			wantMime: "image/png",
		},
		{
			name:     "plain text detected as text/plain",
			data:     []byte("Hello, world!"),
			wantMime: "text/plain; charset=utf-8",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectMimeTypeFromBytes(tt.data)
			if got != tt.wantMime {
				t.Errorf("DetectMimeTypeFromBytes() = %q, want %q", got, tt.wantMime)
			}
		})
	}
}

func TestCategory(t *testing.T) {
	tests := []struct {
		mime string
		want string
	}{
		{"video/mp4", "video"},
		{"Video/WebM", "video"},
		{"image/png", "image"},
		{"text/plain; charset=utf-8", "text"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Category(tt.mime); got != tt.want {
			t.Errorf("Category(%q) = %q, want %q", tt.mime, got, tt.want)
		}
	}
	if !IsVideo("video/quicktime") || IsVideo("audio/mp4") {
		t.Error("IsVideo misclassified")
	}
}

func TestMagicDetectorMinimumBytes(t *testing.T) {
	if got := (MagicDetector{}).MinimumBytes(); got != DefaultMinimumBytes {
		t.Errorf("MinimumBytes() = %d, want %d", got, DefaultMinimumBytes)
	}
	if got := (MagicDetector{Min: 64}).MinimumBytes(); got != 64 {
		t.Errorf("MinimumBytes() = %d, want 64", got)
	}
	if _, ok := (MagicDetector{}).Detect([]byte{}); ok {
		t.Error("Detect on empty input must fail")
	}
}

func TestMimeTypeFromFilename(t *testing.T) {
	if got := MimeTypeFromFilename("noext"); got != "" {
		t.Errorf("MimeTypeFromFilename(noext) = %q, want empty", got)
	}
	if got := MimeTypeFromFilename("page.html"); got != "text/html; charset=utf-8" {
		t.Errorf("MimeTypeFromFilename(page.html) = %q", got)
	}
}
