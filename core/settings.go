package core

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

const settingsFileName = "settings.toml"

// Settings are the builder tool's own preferences, distinct from the
// launcher configuration being edited.
type Settings struct {
	DefaultOutputDir string `toml:"default_output_dir"`
	TemplatesDir     string `toml:"templates_dir"`
	DebugLogging     bool   `toml:"debug_logging"`
}

// BaseSettings returns the defaults used before the user saves anything.
func BaseSettings() Settings {
	return Settings{
		DefaultOutputDir: "",
		TemplatesDir:     "",
		DebugLogging:     false,
	}
}

func settingsPath() string {
	return filepath.Join(xdg.ConfigHome, APP_DIR, settingsFileName)
}

// CurrentSettingsWithFs reads the saved settings, falling back to the
// defaults when none exist or the file is unreadable.
func CurrentSettingsWithFs(fsys afero.Fs) Settings {
	data, err := afero.ReadFile(fsys, settingsPath())
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Warn().Err(err).Msg("could not read settings, using defaults")
		}
		return BaseSettings()
	}

	settings := BaseSettings()
	if err := toml.Unmarshal(data, &settings); err != nil {
		log.Warn().Err(err).Msg("settings file is invalid, using defaults")
		return BaseSettings()
	}
	return settings
}

func CurrentSettings() Settings {
	return CurrentSettingsWithFs(afero.NewOsFs())
}

// CommitSettingsWithFs writes settings to the per-user settings path.
func CommitSettingsWithFs(fsys afero.Fs, settings Settings) error {
	data, err := toml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}

	path := settingsPath()
	if err := fsys.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return afero.WriteFile(fsys, path, data, 0o644)
}

func CommitSettings(settings Settings) error {
	return CommitSettingsWithFs(afero.NewOsFs(), settings)
}
