package source

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/afero"
)

// FromFile returns a handle over the file at filePath on fs. The file is
// stat'ed now and opened again on every Open.
func FromFile(fs afero.Fs, filePath string, hints ...Hint) (*Handle, error) {
	info, err := fs.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", filePath, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", filePath)
	}

	meta := Metadata{
		Name:         filepath.Base(filePath),
		Size:         info.Size(),
		LastModified: info.ModTime(),
		Path:         filePath,
	}
	meta.apply(firstHint(hints))
	meta.guessType()

	return &Handle{
		kind: KindFile,
		meta: meta,
		open: func(context.Context) (io.ReadCloser, error) {
			f, err := fs.Open(filePath)
			if err != nil {
				return nil, fmt.Errorf("open %s: %w", filePath, err)
			}
			return f, nil
		},
	}, nil
}
