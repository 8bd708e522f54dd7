package model

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-pkgz/fileutils"
)

//go:generate moq --out mocks/store.go --pkg mocks --skip-ensure --with-resets . Store

// ErrNoArtifact is returned by stores if there is no usable artifact
var ErrNoArtifact = errors.New("no artifact")

// Store persists trained artifacts
type Store interface {
	Load(ctx context.Context) (*Artifact, error) // load stored artifact, ErrNoArtifact if missing or invalid
	Save(ctx context.Context, a *Artifact) error // replace stored artifact
}

// FileStore keeps the artifact in a single file
type FileStore struct {
	Path string
}

// NewFileStore makes a file store for the given path
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Load reads and validates the artifact file
func (f *FileStore) Load(_ context.Context) (*Artifact, error) {
	if !fileutils.IsFile(f.Path) {
		return nil, fmt.Errorf("artifact file %s not found: %w", f.Path, ErrNoArtifact)
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("can't read artifact file %s, %v: %w", f.Path, err, ErrNoArtifact)
	}
	return Unmarshal(data)
}

// Save writes the artifact to a temp file in the same directory and renames it over the target,
// so readers never see a partially written file
func (f *FileStore) Save(_ context.Context, a *Artifact) error {
	data, err := a.Marshal()
	if err != nil {
		return err
	}

	dir := filepath.Dir(f.Path)
	if err = os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("can't make artifact directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("can't make temp artifact file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after successful rename

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("can't write artifact to %s: %w", tmpName, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("can't close %s: %w", tmpName, err)
	}
	if err = os.Rename(tmpName, f.Path); err != nil {
		return fmt.Errorf("can't move artifact to %s: %w", f.Path, err)
	}
	return nil
}
