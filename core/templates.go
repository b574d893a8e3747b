package core

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// ErrTemplateNotFound reports that no launcher template exists for a
// target OS.
var ErrTemplateNotFound = errors.New("no launcher template for target OS")

// templateNames maps each supported target OS to its prebuilt launcher
// template filename.
var templateNames = map[string]string{
	"windows": "launcher-windows.exe",
	"macos":   "launcher-macos",
	"linux":   "launcher-linux",
}

// TemplateResolver locates the prebuilt launcher binary for a target OS.
type TemplateResolver interface {
	Resolve(targetOS string) (string, error)
}

// DirTemplateResolver resolves templates from a single directory. It is a
// pure lookup plus existence check, nothing is fetched or cached.
type DirTemplateResolver struct {
	fs  afero.Fs
	dir string
}

func NewDirTemplateResolver(dir string) *DirTemplateResolver {
	return NewDirTemplateResolverWithFs(afero.NewOsFs(), dir)
}

func NewDirTemplateResolverWithFs(fsys afero.Fs, dir string) *DirTemplateResolver {
	return &DirTemplateResolver{fs: fsys, dir: dir}
}

// Resolve returns the template path for targetOS. An unrecognized OS name
// and a missing template file both resolve to ErrTemplateNotFound.
func (r *DirTemplateResolver) Resolve(targetOS string) (string, error) {
	name, ok := templateNames[targetOS]
	if !ok {
		return "", fmt.Errorf("%w: unsupported target %q", ErrTemplateNotFound, targetOS)
	}

	path := filepath.Join(r.dir, name)
	exists, err := afero.Exists(r.fs, path)
	if err != nil {
		return "", fmt.Errorf("checking template %s: %w", path, err)
	}
	if !exists {
		return "", fmt.Errorf("%w: %s does not exist", ErrTemplateNotFound, path)
	}
	return path, nil
}

// DefaultTemplatesDir is the templates directory next to the running
// executable.
func DefaultTemplatesDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "templates"
	}
	return filepath.Join(filepath.Dir(exe), "templates")
}
