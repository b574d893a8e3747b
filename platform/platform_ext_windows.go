//go:build windows

package platform

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/windows/registry"
)

// SteamRoot returns the Steam install directory recorded in the
// registry, or an empty string when Steam is not installed.
func SteamRoot() string {
	key, err := registry.OpenKey(registry.CURRENT_USER, `SOFTWARE\Valve\Steam`, registry.QUERY_VALUE)
	if err != nil {
		return ""
	}
	defer key.Close()

	steamPath, _, err := key.GetStringValue("SteamPath")
	if err != nil {
		return ""
	}
	return steamPath
}

// Reveal opens the system file browser at the given path.
func Reveal(path string) error {
	cmd := exec.Command("explorer", path)
	StripWindow(cmd)
	return cmd.Start()
}

func StripWindow(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{HideWindow: true}
}
