//go:build linux

package platform

import (
	"os"
	"os/exec"
	"path/filepath"
)

// SteamRoot returns the Steam install directory, or an empty string when
// Steam is not installed.
func SteamRoot() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	for _, candidate := range []string{
		filepath.Join(home, ".steam", "steam"),
		filepath.Join(home, ".local", "share", "Steam"),
	} {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// Reveal opens the system file browser at the given path.
func Reveal(path string) error {
	return exec.Command("xdg-open", path).Start()
}
