package core

import (
	"fmt"
	"maps"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/spf13/afero"
)

// SupportedTargetOS lists the platforms a launcher can be produced for.
var SupportedTargetOS = []string{"windows", "macos", "linux"}

var (
	versionPattern     = regexp.MustCompile(`^\d+\.\d+\.\d+$`)
	urlPattern         = regexp.MustCompile(`^(https?|ftp)://[^\s/$.?#].[^\s]*$`)
	googleDrivePattern = regexp.MustCompile(`^https://drive\.google\.com/\S+$`)
	dropboxPattern     = regexp.MustCompile(`^https://www\.dropbox\.com/\S+$`)
	windowsPathChars   = regexp.MustCompile(`[<>:"/\\|?*]`)
)

// ValidationError is returned when a build is attempted on a configuration
// that fails validation. Fields maps field names to messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return ValidationErrorsText(e.Fields)
}

// Validate checks a configuration against every rule and returns a map of
// field name to error message. An empty map means the configuration is
// buildable. Rules are independent; one broken field never masks another.
func Validate(cfg *LauncherConfig) map[string]string {
	errs := map[string]string{}
	validateBasics(cfg, errs)
	validateMods(cfg, errs)
	validateFiles(cfg, errs)
	validateTargetOS(cfg, errs)
	return errs
}

// validateForBuild applies every rule except the target OS check, which
// the template resolver owns at build time.
func validateForBuild(cfg *LauncherConfig) map[string]string {
	errs := map[string]string{}
	validateBasics(cfg, errs)
	validateMods(cfg, errs)
	validateFiles(cfg, errs)
	return errs
}

func validateBasics(cfg *LauncherConfig, errs map[string]string) {
	if strings.TrimSpace(cfg.Name) == "" {
		errs["name"] = "Launcher name is required"
	}
	if strings.TrimSpace(cfg.GameExe) == "" {
		errs["game_exe"] = "Game executable path is required"
	}
	if cfg.Version != "" && !versionPattern.MatchString(cfg.Version) {
		errs["version"] = "Version must be in format X.Y.Z (e.g., 1.0.0)"
	}
}

func validateMods(cfg *LauncherConfig, errs map[string]string) {
	if len(cfg.Mods) == 0 {
		errs["mods"] = "At least one mod is required"
	}

	for i, mod := range cfg.Mods {
		prefix := fmt.Sprintf("mod_%d", i)

		if strings.TrimSpace(mod.Name) == "" {
			errs[prefix+"_name"] = fmt.Sprintf("Mod %d requires a name", i+1)
		}
		if strings.TrimSpace(mod.TargetPath) == "" {
			errs[prefix+"_target_path"] = fmt.Sprintf("Mod '%s' requires a target path", mod.Name)
		}
		if strings.TrimSpace(mod.DownloadURL) == "" {
			errs[prefix+"_download_url"] = fmt.Sprintf("Mod '%s' requires a download URL", mod.Name)
		} else if !validDownloadURL(mod.DownloadURL) {
			errs[prefix+"_download_url"] = fmt.Sprintf("Mod '%s' has an invalid download URL", mod.Name)
		}
	}
}

func validateFiles(cfg *LauncherConfig, errs map[string]string) {
	if len(cfg.ValidationFiles) == 0 {
		errs["validation_files"] = "At least one validation file is required"
	}
}

func validateTargetOS(cfg *LauncherConfig, errs map[string]string) {
	if !slices.Contains(SupportedTargetOS, cfg.TargetOS) {
		errs["target_os"] = "Target OS must be 'windows', 'macos', or 'linux'"
	}
}

func validDownloadURL(url string) bool {
	if urlPattern.MatchString(url) {
		return true
	}
	return googleDrivePattern.MatchString(url) || dropboxPattern.MatchString(url)
}

// ValidPathForOS reports whether an install path is legal on the target
// OS. Windows forbids the characters <>:"/\|?* anywhere in the path; the
// unix family only forbids NUL.
func ValidPathForOS(path, targetOS string) bool {
	if targetOS == "windows" {
		return !windowsPathChars.MatchString(path)
	}
	return !strings.ContainsRune(path, 0)
}

// ValidGameDirectory reports whether dir contains every validation file
// the configuration names.
func ValidGameDirectory(fsys afero.Fs, dir string, validationFiles []string) bool {
	for _, file := range validationFiles {
		exists, err := afero.Exists(fsys, filepath.Join(dir, file))
		if err != nil || !exists {
			return false
		}
	}
	return true
}

// ValidationErrorsText renders a validation error map as a bullet list
// for display.
func ValidationErrorsText(errs map[string]string) string {
	if len(errs) == 0 {
		return "No validation errors."
	}

	var b strings.Builder
	b.WriteString("The following validation errors were found:\n\n")
	for _, key := range slices.Sorted(maps.Keys(errs)) {
		fmt.Fprintf(&b, "• %s\n", errs[key])
	}
	return b.String()
}
