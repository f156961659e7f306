package video

import (
	"context"
	"errors"
	"io"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/SmooAI/video/blob"
)

// DefaultChunkSize is the read size used when ImportOptions.ChunkSize is unset.
const DefaultChunkSize = 64 * 1024

// BlobStore accepts a byte stream and yields its content hash on commit.
type BlobStore interface {
	Add(ctx context.Context) (blob.Writer, error)
}

// ImportOptions configures a single import.
type ImportOptions struct {
	// Prototype tags the resulting record. Required.
	Prototype Ref
	// Progress, if set, receives done/size after every chunk.
	Progress ProgressSink
	// ChunkSize is the maximum size of a single read. Defaults to DefaultChunkSize.
	ChunkSize int
}

// Importer streams video files into a BlobStore.
type Importer struct {
	store    BlobStore
	detector Detector
	logger   *log.Logger
}

// Option configures an Importer.
type Option func(*Importer)

// WithDetector replaces the magic-byte detector.
func WithDetector(d Detector) Option {
	return func(im *Importer) { im.detector = d }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option {
	return func(im *Importer) { im.logger = l }
}

// NewImporter returns an Importer writing to store.
func NewImporter(store BlobStore, opts ...Option) *Importer {
	im := &Importer{
		store:    store,
		detector: MagicDetector{},
	}
	for _, o := range opts {
		o(im)
	}
	if im.logger == nil {
		im.logger = log.New(io.Discard)
	}
	return im
}

// ImportAsync runs Import on its own goroutine and calls done exactly once
// with its result.
func (im *Importer) ImportAsync(ctx context.Context, files []FileHandle, opts ImportOptions, done func(*Record, error)) {
	go func() {
		done(im.Import(ctx, files, opts))
	}()
}

// Import streams the single file in files into the blob store and returns
// the resulting record. Nothing is read when the options are incomplete or
// more than one file is given. The stream is abandoned as soon as its
// leading bytes show it is not a video; the blob is then never committed.
func (im *Importer) Import(ctx context.Context, files []FileHandle, opts ImportOptions) (*Record, error) {
	if opts.Prototype == "" {
		return nil, newError(ErrConfiguration, "Import", nil)
	}
	switch {
	case len(files) == 0:
		return nil, newError(ErrNoFiles, "Import", nil)
	case len(files) > 1:
		im.logger.Debug("multi-file import is not supported", "files", len(files))
		return nil, newError(ErrMultiFileUnsupported, "Import", nil)
	}
	file := files[0]
	props := snapshot(file)
	logger := im.logger.With("import", uuid.NewString(), "file", props.Name)

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	src, err := file.Open(ctx)
	if err != nil {
		return nil, newError(ErrSource, "Open", err)
	}
	defer src.Close()

	w, err := im.store.Add(ctx)
	if err != nil {
		return nil, newError(ErrSink, "Add", err)
	}
	finished := false
	defer func() {
		if !finished {
			if err := w.Abort(); err != nil {
				logger.Warn("abort blob write", "err", err)
			}
		}
	}()

	p := &pipeline{
		props:    &props,
		sniff:    &sniffer{detector: im.detector},
		progress: opts.Progress,
		chunk:    opts.ChunkSize,
		logger:   logger,
	}
	if err := p.run(ctx, cancel, src, w); err != nil {
		logger.Debug("import aborted", "err", err, "done", p.done)
		return nil, err
	}

	finished = true
	hash, err := w.Commit(ctx)
	if err != nil {
		return nil, newError(ErrSink, "Commit", err)
	}
	logger.Debug("imported", "blob", hash, "type", props.Type, "size", p.done)

	return &Record{
		Type:      TypeVideo,
		Prototype: opts.Prototype,
		Name:      Titleize(props.Name),
		File:      props,
		Blob:      hash,
	}, nil
}

// pipeline is the per-import state: byte counter, sniffer and snapshot.
type pipeline struct {
	props    *FileProperties
	sniff    *sniffer
	progress ProgressSink
	chunk    int
	logger   *log.Logger
	done     int64
}

// run pulls chunks until EOF. A rejected chunk cancels ctx with the
// rejection as cause; the loop sees the cancellation before asking the
// source for more bytes.
func (p *pipeline) run(ctx context.Context, cancel context.CancelCauseFunc, src io.Reader, w io.Writer) error {
	size := p.chunk
	if size <= 0 {
		size = DefaultChunkSize
	}
	buf := make([]byte, size)
	for {
		if err := context.Cause(ctx); err != nil {
			return err
		}
		n, rerr := src.Read(buf)
		if n > 0 {
			if err := p.handle(buf[:n], w); err != nil {
				cancel(err)
				continue
			}
		}
		if errors.Is(rerr, io.EOF) {
			break
		}
		if rerr != nil {
			return newError(ErrSource, "Read", rerr)
		}
	}
	mime, err := p.sniff.finish()
	if err != nil {
		return err
	}
	if mime != "" {
		p.detected(mime)
	}
	return nil
}

func (p *pipeline) handle(chunk []byte, w io.Writer) error {
	p.done += int64(len(chunk))
	if p.progress != nil {
		p.progress.Set(fraction(p.done, p.props.Size))
	}
	mime, err := p.sniff.feed(chunk)
	if err != nil {
		return err
	}
	if mime != "" {
		p.detected(mime)
	}
	if _, err := w.Write(chunk); err != nil {
		return newError(ErrSink, "Write", err)
	}
	return nil
}

func (p *pipeline) detected(mime string) {
	p.logger.Debug("detected file type", "mime", mime)
	p.props.Type = mime
}

type sniffState int

const (
	sniffing sniffState = iota
	streaming
)

// sniffer accumulates the head of the stream until the detector has enough
// bytes, decides once, then drops the buffer.
type sniffer struct {
	detector Detector
	state    sniffState
	head     []byte
}

// feed returns the detected MIME type on the chunk that completes the head,
// and "" on every other chunk.
func (s *sniffer) feed(chunk []byte) (string, error) {
	if s.state != sniffing {
		return "", nil
	}
	s.head = append(s.head, chunk...)
	if len(s.head) < s.detector.MinimumBytes() {
		return "", nil
	}
	return s.decide()
}

// finish forces a decision on whatever was buffered if the stream ended
// before the head was complete.
func (s *sniffer) finish() (string, error) {
	if s.state != sniffing {
		return "", nil
	}
	return s.decide()
}

func (s *sniffer) decide() (string, error) {
	head := s.head
	s.head = nil
	s.state = streaming

	mime, ok := s.detector.Detect(head)
	if !ok {
		return "", newError(ErrUnknownType, "Detect", nil)
	}
	if !IsVideo(mime) {
		return "", newError(ErrNotAVideo, "Detect", &TypeError{Mime: mime})
	}
	return mime, nil
}

// TypeError carries the MIME type that caused a rejection.
type TypeError struct {
	Mime string
}

func (e *TypeError) Error() string { return "detected " + e.Mime }
