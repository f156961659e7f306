package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// FSStore keeps blobs as files named by their hex digest under Root/sha256.
type FSStore struct {
	fs   afero.Fs
	root string
}

// NewFSStore returns a store rooted at root on fs.
func NewFSStore(fs afero.Fs, root string) *FSStore {
	return &FSStore{fs: fs, root: root}
}

func (s *FSStore) path(hexID string) string {
	return filepath.Join(s.root, "sha256", hexID[:2], hexID)
}

// Add implements Store.
func (s *FSStore) Add(ctx context.Context) (Writer, error) {
	staged, err := newStagedFile(s.fs, filepath.Join(s.root, "tmp"))
	if err != nil {
		return nil, err
	}
	return &fsWriter{store: s, staged: staged}, nil
}

// Get implements Store.
func (s *FSStore) Get(ctx context.Context, id string) (io.ReadCloser, error) {
	h, err := HexID(id)
	if err != nil {
		return nil, err
	}
	f, err := s.fs.Open(s.path(h))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("open blob: %w", err)
	}
	return f, nil
}

// Has implements Store.
func (s *FSStore) Has(ctx context.Context, id string) (bool, error) {
	h, err := HexID(id)
	if err != nil {
		return false, err
	}
	return afero.Exists(s.fs, s.path(h))
}

// Delete implements Store.
func (s *FSStore) Delete(ctx context.Context, id string) error {
	h, err := HexID(id)
	if err != nil {
		return err
	}
	if err := s.fs.Remove(s.path(h)); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("delete blob: %w", err)
	}
	return nil
}

type fsWriter struct {
	store  *FSStore
	staged *stagedFile
}

func (w *fsWriter) Write(p []byte) (int, error) { return w.staged.Write(p) }

func (w *fsWriter) Commit(ctx context.Context) (string, error) {
	id, err := w.staged.seal()
	if err != nil {
		_ = w.staged.discard()
		return "", err
	}
	h, _ := HexID(id)
	dest := w.store.path(h)

	// Same content already stored.
	ok, err := afero.Exists(w.store.fs, dest)
	if err != nil {
		return "", errors.Join(fmt.Errorf("stat blob: %w", err), w.staged.discard())
	}
	if ok {
		return id, w.staged.discard()
	}
	if err := w.store.fs.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		_ = w.staged.discard()
		return "", fmt.Errorf("create blob dir: %w", err)
	}
	if err := w.store.fs.Rename(w.staged.name(), dest); err != nil {
		_ = w.staged.discard()
		return "", fmt.Errorf("store blob: %w", err)
	}
	return id, nil
}

func (w *fsWriter) Abort() error { return w.staged.discard() }
