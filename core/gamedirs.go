package core

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"slices"

	"github.com/andygrunwald/vdf"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"github.com/vokoblin/launch-forge/platform"
)

// DefaultGameLocations returns the well known install location hints for
// a target OS. They are written into a launcher configuration verbatim;
// the produced launcher expands them on the player's machine.
func DefaultGameLocations(targetOS string) []string {
	switch targetOS {
	case "windows":
		return []string{
			"C:/Program Files (x86)/Steam/steamapps/common",
			"C:/Program Files/Steam/steamapps/common",
			"C:/Games",
			"D:/Games",
			"C:/Program Files (x86)/Epic Games",
			"C:/Program Files/Epic Games",
		}
	case "macos":
		return []string{
			"~/Library/Application Support/Steam/steamapps/common",
			"~/Games",
		}
	case "linux":
		return []string{
			"~/.steam/steam/steamapps/common",
			"~/Games",
		}
	}
	return nil
}

// CommonGameDirs returns the game install directories that actually exist
// on this machine.
func CommonGameDirs(fsys afero.Fs) []string {
	var candidates []string

	switch runtime.GOOS {
	case "windows":
		for _, drive := range []string{"C:", "D:", "E:", "F:"} {
			candidates = append(candidates,
				filepath.Join(drive, "Program Files", "Steam", "steamapps", "common"),
				filepath.Join(drive, "Program Files (x86)", "Steam", "steamapps", "common"),
				filepath.Join(drive, "SteamLibrary", "steamapps", "common"),
				filepath.Join(drive, "Program Files", "Epic Games"),
				filepath.Join(drive, "Program Files (x86)", "Epic Games"),
				filepath.Join(drive, "Games"),
				filepath.Join(drive, "Program Files", "Games"),
				filepath.Join(drive, "Program Files (x86)", "Games"),
			)
		}
	case "darwin":
		home, _ := os.UserHomeDir()
		candidates = []string{
			filepath.Join(home, "Library", "Application Support", "Steam", "steamapps", "common"),
			"/Applications",
			filepath.Join(home, "Games"),
		}
	default:
		home, _ := os.UserHomeDir()
		candidates = []string{
			filepath.Join(home, ".steam", "steam", "steamapps", "common"),
			filepath.Join(home, ".local", "share", "Steam", "steamapps", "common"),
			filepath.Join(home, "Games"),
		}
	}

	var dirs []string
	for _, dir := range candidates {
		if ok, _ := afero.DirExists(fsys, dir); ok {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

type libraryFolders struct {
	LibraryFolders map[string]libraryFolder `json:"libraryfolders"`
}

type libraryFolder struct {
	Path string `json:"path"`
}

// SteamLibraryDirs parses Steam's libraryfolders.vdf under steamRoot and
// returns the steamapps/common directory of every configured library that
// exists on disk.
func SteamLibraryDirs(fsys afero.Fs, steamRoot string) []string {
	if steamRoot == "" {
		return nil
	}

	manifestPath := filepath.Join(steamRoot, "steamapps", "libraryfolders.vdf")
	f, err := fsys.Open(manifestPath)
	if err != nil {
		log.Debug().Err(err).Str("path", manifestPath).Msg("no steam library manifest")
		return nil
	}
	defer f.Close()

	parser := vdf.NewParser(f)
	parsed, err := parser.Parse()
	if err != nil {
		log.Warn().Err(err).Str("path", manifestPath).Msg("could not parse steam library manifest")
		return nil
	}

	jsonStr, err := json.Marshal(parsed)
	if err != nil {
		return nil
	}

	folders := libraryFolders{}
	if err := json.Unmarshal(jsonStr, &folders); err != nil {
		return nil
	}

	var dirs []string
	for _, folder := range folders.LibraryFolders {
		if folder.Path == "" {
			continue
		}
		dir := filepath.Join(folder.Path, "steamapps", "common")
		if ok, _ := afero.DirExists(fsys, dir); ok {
			dirs = append(dirs, dir)
		}
	}

	slices.Sort(dirs)
	return dirs
}

// DiscoverGameDirs merges the host's common install directories with
// every Steam library found on this machine.
func DiscoverGameDirs(fsys afero.Fs) []string {
	dirs := CommonGameDirs(fsys)
	for _, dir := range SteamLibraryDirs(fsys, platform.SteamRoot()) {
		if !slices.Contains(dirs, dir) {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}
