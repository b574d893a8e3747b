//go:build darwin

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

	root := filepath.Join(home, "Library", "Application Support", "Steam")
	if _, err := os.Stat(root); err == nil {
		return root
	}
	return ""
}

// Reveal opens the system file browser at the given path.
func Reveal(path string) error {
	return exec.Command("open", path).Start()
}
