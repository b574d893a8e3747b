package core

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

// Datastore is a typed store for one persisted value.
type Datastore[T any] interface {
	Fetch() (*T, error)
	Store(data *T) error
}

// FileDatastore keeps a single JSON document at a fixed path.
type FileDatastore[T any] struct {
	fs   afero.Fs
	path string
}

func NewFileDatastore[T any](fsys afero.Fs, path string) *FileDatastore[T] {
	return &FileDatastore[T]{fs: fsys, path: path}
}

func (d *FileDatastore[T]) Fetch() (*T, error) {
	jsonBytes, err := afero.ReadFile(d.fs, d.path)
	if err != nil {
		return nil, err
	}

	data := new(T)
	if err := json.Unmarshal(jsonBytes, data); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", d.path, err)
	}
	return data, nil
}

func (d *FileDatastore[T]) Store(data *T) error {
	jsonBytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", d.path, err)
	}

	if err := d.fs.MkdirAll(filepath.Dir(d.path), 0o755); err != nil {
		return err
	}
	return afero.WriteFile(d.fs, d.path, jsonBytes, 0o644)
}
