package generator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrArtifactNotFound reports a read of a path no build has written.
var ErrArtifactNotFound = errors.New("generator: artifact not found")

// Storage abstracts where build artifacts land. Paths are slash-separated
// and relative to the storage root.
type Storage interface {
	Write(ctx context.Context, path string, data []byte) error
	Read(ctx context.Context, path string) ([]byte, error)
	Remove(ctx context.Context, path string) error
}

// FilesystemStorage writes artifacts under a root directory. Writes go
// through a temp file plus rename so readers never observe a partial
// artifact.
type FilesystemStorage struct {
	root string
}

var _ Storage = (*FilesystemStorage)(nil)

// NewFilesystemStorage roots a storage at dir, creating it if needed.
func NewFilesystemStorage(dir string) (*FilesystemStorage, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("generator: storage dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("generator: create storage dir: %w", err)
	}
	return &FilesystemStorage{root: dir}, nil
}

func (s *FilesystemStorage) Write(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("generator: create artifact dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".artifact-*")
	if err != nil {
		return fmt.Errorf("generator: create temp artifact: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("generator: write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("generator: close artifact: %w", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("generator: finalize artifact: %w", err)
	}
	return nil
}

func (s *FilesystemStorage) Read(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	target, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(target)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrArtifactNotFound
		}
		return nil, fmt.Errorf("generator: read artifact: %w", err)
	}
	return data, nil
}

func (s *FilesystemStorage) Remove(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("generator: remove artifact: %w", err)
	}
	return nil
}

// resolve keeps artifact paths inside the root.
func (s *FilesystemStorage) resolve(path string) (string, error) {
	clean := filepath.Clean(strings.TrimSpace(path))
	if clean == "" || clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("generator: invalid artifact path %q", path)
	}
	return filepath.Join(s.root, clean), nil
}

// artifactWriter routes writes through storage while recording each
// artifact's checksum in the manifest.
type artifactWriter struct {
	storage  Storage
	manifest *buildManifest
}

func newArtifactWriter(storage Storage, manifest *buildManifest) *artifactWriter {
	return &artifactWriter{storage: storage, manifest: manifest}
}

func (w *artifactWriter) Write(ctx context.Context, path string, data []byte) error {
	if err := w.storage.Write(ctx, path, data); err != nil {
		return err
	}
	sum := sha256.Sum256(data)
	w.manifest.record(path, hex.EncodeToString(sum[:]), int64(len(data)))
	return nil
}
