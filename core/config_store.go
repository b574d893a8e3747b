package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// ErrConfigNotFound reports that no configuration exists at the store's
// path yet.
var ErrConfigNotFound = errors.New("configuration file not found")

const configFileName = "config.json"

// DefaultConfigPath is the per-user configuration location.
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, APP_DIR, configFileName)
}

// ConfigStore persists one launcher configuration at a fixed path.
type ConfigStore struct {
	fs    afero.Fs
	path  string
	store *FileDatastore[map[string]any]
}

func NewConfigStore(path string) *ConfigStore {
	return NewConfigStoreWithFs(afero.NewOsFs(), path)
}

func NewConfigStoreWithFs(fsys afero.Fs, path string) *ConfigStore {
	return &ConfigStore{
		fs:    fsys,
		path:  path,
		store: NewFileDatastore[map[string]any](fsys, path),
	}
}

func (s *ConfigStore) Path() string {
	return s.path
}

// Load reads the stored configuration. A missing file is
// ErrConfigNotFound; a file that no longer parses is ErrMalformedConfig.
func (s *ConfigStore) Load() (*LauncherConfig, error) {
	data, err := s.store.Fetch()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, s.path)
		}
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
			return nil, fmt.Errorf("%w: %v", ErrMalformedConfig, err)
		}
		return nil, err
	}
	return ConfigFromMap(*data)
}

// LoadOrDefault returns the stored configuration, or a fresh default when
// none has been saved yet.
func (s *ConfigStore) LoadOrDefault() (*LauncherConfig, error) {
	cfg, err := s.Load()
	if errors.Is(err, ErrConfigNotFound) {
		return DefaultConfig(), nil
	}
	return cfg, err
}

// Save writes the configuration to the store path, stamping its updated
// timestamp. This is the only place the store writes into the
// configuration.
func (s *ConfigStore) Save(cfg *LauncherConfig) error {
	cfg.touch()
	data := cfg.ToMap()
	if err := s.store.Store(&data); err != nil {
		return fmt.Errorf("saving configuration: %w", err)
	}
	log.Debug().Str("path", s.path).Msg("configuration saved")
	return nil
}

// Import reads a configuration from an external file and saves it as the
// store's configuration.
func (s *ConfigStore) Import(path string) (*LauncherConfig, error) {
	raw, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return nil, fmt.Errorf("importing configuration: %w", err)
	}
	cfg, err := ConfigFromJSON(raw)
	if err != nil {
		return nil, err
	}
	if err := s.Save(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Export writes the configuration to an external path without touching
// the store.
func (s *ConfigStore) Export(cfg *LauncherConfig, path string) error {
	data, err := cfg.ToJSON()
	if err != nil {
		return err
	}
	if err := s.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := afero.WriteFile(s.fs, path, data, 0o644); err != nil {
		return fmt.Errorf("exporting configuration: %w", err)
	}
	return nil
}

// DefaultConfig is the configuration a new user starts from: one required
// sample mod and the game executable as the only validation file.
func DefaultConfig() *LauncherConfig {
	baseMod := NewModEntry("Base Mod", "mods/", "")
	baseMod.Description = "The core mod files"
	baseMod.IsRequired = true

	cfg := NewLauncherConfig()
	cfg.Name = "My Game Mod Launcher"
	cfg.Description = "Install awesome mods for your game!"
	cfg.GameExe = "game.exe"
	cfg.Mods = []*ModEntry{baseMod}
	cfg.ValidationFiles = []string{cfg.GameExe}
	return cfg
}
