package artifact

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Source opens named artifacts for reading.
type Source interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	String() string
}

// LocalSource reads artifacts from a directory.
type LocalSource struct {
	root string
}

func NewLocalSource(root string) *LocalSource {
	return &LocalSource{root: root}
}

// Path returns the filesystem path of an artifact.
func (s *LocalSource) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.root, name)
}

// Root returns the directory artifacts are read from.
func (s *LocalSource) Root() string {
	return s.root
}

func (s *LocalSource) Open(_ context.Context, name string) (io.ReadCloser, error) {
	f, err := os.Open(s.Path(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("artifact %s: %w", name, ErrNotFound)
		}
		return nil, err
	}
	return f, nil
}

func (s *LocalSource) String() string {
	return "file://" + s.root
}

// ReadArtifact reads and decompresses one artifact.
func ReadArtifact(ctx context.Context, src Source, name string) ([]byte, error) {
	rc, err := src.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	r, closeFn, err := decompressor(name, rc)
	if err != nil {
		return nil, fmt.Errorf("artifact %s: %w", name, err)
	}
	defer closeFn()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("artifact %s: read: %w", name, err)
	}
	return data, nil
}
