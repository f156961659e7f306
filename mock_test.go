package video

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"

	"github.com/SmooAI/video/blob"
)

// --- Mock file handle ---

// mockFile serves its content in fixed-size chunks, one per Read.
type mockFile struct {
	name     string
	mime     string
	size     int64 // overrides len(data) when non-zero
	modified time.Time
	data     []byte
	chunk    int
	failAt   int // Read number (1-based) that returns readErr
	readErr  error
	openErr  error

	mu     sync.Mutex
	opens  int
	reads  int
	served int64
	closed bool
}

func newMockFile(name string, data []byte, chunk int) *mockFile {
	return &mockFile{
		name:     name,
		data:     data,
		chunk:    chunk,
		modified: time.UnixMilli(1700000000000),
	}
}

func (f *mockFile) Name() string            { return f.name }
func (f *mockFile) LastModified() time.Time { return f.modified }
func (f *mockFile) Type() string            { return f.mime }

func (f *mockFile) Size() int64 {
	if f.size != 0 {
		return f.size
	}
	return int64(len(f.data))
}

func (f *mockFile) Open(ctx context.Context) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opens++
	if f.openErr != nil {
		return nil, f.openErr
	}
	return &mockReader{file: f, rest: f.data}, nil
}

func (f *mockFile) stats() (opens, reads int, served int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.opens, f.reads, f.served
}

type mockReader struct {
	file *mockFile
	rest []byte
}

func (r *mockReader) Read(p []byte) (int, error) {
	f := r.file
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	if f.failAt > 0 && f.reads == f.failAt {
		return 0, f.readErr
	}
	if len(r.rest) == 0 {
		return 0, io.EOF
	}
	n := f.chunk
	if n > len(r.rest) {
		n = len(r.rest)
	}
	if n > len(p) {
		n = len(p)
	}
	copy(p, r.rest[:n])
	r.rest = r.rest[n:]
	f.served += int64(n)
	return n, nil
}

func (r *mockReader) Close() error {
	r.file.mu.Lock()
	defer r.file.mu.Unlock()
	r.file.closed = true
	return nil
}

// --- Mock blob store ---

// mockStore records what reaches the sink and returns a fixed hash.
type mockStore struct {
	hash      string
	addErr    error
	writeErr  error
	commitErr error

	mu      sync.Mutex
	written bytes.Buffer
	writes  int
	commits int
	aborts  int
}

func (s *mockStore) Add(ctx context.Context) (blob.Writer, error) {
	if s.addErr != nil {
		return nil, s.addErr
	}
	return &mockWriter{store: s}, nil
}

type mockWriter struct {
	store *mockStore
}

func (w *mockWriter) Write(p []byte) (int, error) {
	s := w.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return 0, s.writeErr
	}
	s.writes++
	return s.written.Write(p)
}

func (w *mockWriter) Commit(ctx context.Context) (string, error) {
	s := w.store
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commits++
	if s.commitErr != nil {
		return "", s.commitErr
	}
	return s.hash, nil
}

func (w *mockWriter) Abort() error {
	s := w.store
	s.mu.Lock()
	defer s.mu.Unlock()
	s.aborts++
	return nil
}

// --- Mock detector ---

type detectorFunc struct {
	min int
	fn  func([]byte) (string, bool)
}

func (d detectorFunc) Detect(head []byte) (string, bool) { return d.fn(head) }
func (d detectorFunc) MinimumBytes() int                 { return d.min }

// --- Progress recorder ---

type progressLog struct {
	mu     sync.Mutex
	values []float64
}

func (p *progressLog) Set(f float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.values = append(p.values, f)
}

// --- Fixtures ---

// mp4Header is an ISO base media "ftyp" box with the isom brand.
var mp4Header = []byte{
	0x00, 0x00, 0x00, 0x18, 'f', 't', 'y', 'p', 'i', 's', 'o', 'm',
	0x00, 0x00, 0x02, 0x00, 'i', 's', 'o', 'm', 'i', 's', 'o', '2',
}

var pngHeader = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52}

// withHeader returns size bytes starting with header and filled with a
// counting pattern, so reordering or duplication is visible.
func withHeader(header []byte, size int) []byte {
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i % 251)
	}
	copy(data, header)
	return data
}
