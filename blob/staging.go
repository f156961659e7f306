package blob

import (
	"crypto/sha256"
	"fmt"
	"hash"
	"io"
	"os"

	"github.com/spf13/afero"
)

// stagedFile is a temp file that hashes everything written to it.
type stagedFile struct {
	fs     afero.Fs
	file   afero.File
	hash   hash.Hash
	size   int64
	closed bool
}

func newStagedFile(fs afero.Fs, dir string) (*stagedFile, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create staging dir: %w", err)
	}
	f, err := afero.TempFile(fs, dir, "blob-*")
	if err != nil {
		return nil, fmt.Errorf("create staging file: %w", err)
	}
	return &stagedFile{fs: fs, file: f, hash: sha256.New()}, nil
}

func (s *stagedFile) Write(p []byte) (int, error) {
	if s.closed {
		return 0, ErrClosed
	}
	n, err := io.MultiWriter(s.file, s.hash).Write(p)
	s.size += int64(n)
	return n, err
}

// seal closes the temp file and returns its id.
func (s *stagedFile) seal() (string, error) {
	if s.closed {
		return "", ErrClosed
	}
	s.closed = true
	if err := s.file.Close(); err != nil {
		return "", fmt.Errorf("close staging file: %w", err)
	}
	var sum [sha256.Size]byte
	copy(sum[:], s.hash.Sum(nil))
	return FormatID(sum), nil
}

func (s *stagedFile) name() string { return s.file.Name() }

// discard closes and removes the temp file.
func (s *stagedFile) discard() error {
	if !s.closed {
		s.closed = true
		_ = s.file.Close()
	}
	if err := s.fs.Remove(s.file.Name()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove staging file: %w", err)
	}
	return nil
}
