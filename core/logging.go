package core

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

const logFileName = "launchforge.log"

// InitLoggingWithDefaultPath routes the global logger to a rolling logfile
// under the user cache directory.
func InitLoggingWithDefaultPath(extra ...io.Writer) error {
	return InitLoggingWithPath(filepath.Join(xdg.CacheHome, APP_DIR, logFileName), extra...)
}

// InitLoggingWithPath routes the global logger to a rolling logfile at the
// given path, plus any extra writers.
func InitLoggingWithPath(path string, extra ...io.Writer) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}

	writers := append([]io.Writer{&lumberjack.Logger{
		Filename:   path,
		MaxSize:    1,
		MaxBackups: 2,
	}}, extra...)

	log.Logger = log.Output(io.MultiWriter(writers...))
	return nil
}

// SetDebugLogging toggles debug level logging process wide.
func SetDebugLogging(enabled bool) {
	if enabled {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
