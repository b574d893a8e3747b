package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// ErrMalformedConfig reports configuration data whose shape cannot be
// mapped onto the model, as opposed to data that maps cleanly but fails
// validation.
var ErrMalformedConfig = errors.New("malformed configuration")

// clock drives every timestamp the model writes. Tests swap in a fake.
var clock clockwork.Clock = clockwork.NewRealClock()

const (
	DefaultConfigVersion = "1.0.0"
	DefaultTargetOS      = "windows"
)

// ModEntry is one mod the produced launcher will offer for install.
type ModEntry struct {
	ID          string
	Name        string
	TargetPath  string
	DownloadURL string
	Description string
	Version     string
	IsRequired  bool
}

// NewModEntry creates a mod entry with a generated id. Ids are opaque,
// never derived from the name, and never reassigned.
func NewModEntry(name, targetPath, downloadURL string) *ModEntry {
	return &ModEntry{
		ID:          uuid.NewString(),
		Name:        name,
		TargetPath:  targetPath,
		DownloadURL: downloadURL,
		Version:     DefaultConfigVersion,
	}
}

func (m *ModEntry) toMap() map[string]any {
	return map[string]any{
		"id":           m.ID,
		"name":         m.Name,
		"target_path":  m.TargetPath,
		"download_url": m.DownloadURL,
		"description":  m.Description,
		"version":      m.Version,
		"is_required":  m.IsRequired,
	}
}

// ModFromMap maps raw configuration data onto a mod entry. The name,
// target_path and download_url keys must be present. An absent id gets a
// generated one.
func ModFromMap(data map[string]any) (*ModEntry, error) {
	name, err := requireString(data, "name")
	if err != nil {
		return nil, err
	}
	targetPath, err := requireString(data, "target_path")
	if err != nil {
		return nil, err
	}
	downloadURL, err := requireString(data, "download_url")
	if err != nil {
		return nil, err
	}

	mod := &ModEntry{
		Name:        name,
		TargetPath:  targetPath,
		DownloadURL: downloadURL,
	}

	if mod.ID, err = optionalString(data, "id", uuid.NewString()); err != nil {
		return nil, err
	}
	if mod.Description, err = optionalString(data, "description", ""); err != nil {
		return nil, err
	}
	if mod.Version, err = optionalString(data, "version", DefaultConfigVersion); err != nil {
		return nil, err
	}
	if mod.IsRequired, err = optionalBool(data, "is_required", false); err != nil {
		return nil, err
	}

	return mod, nil
}

// LauncherConfig is the full description of a launcher to be produced:
// identity, target platform, the mods to install and the files used to
// recognize a valid game directory.
type LauncherConfig struct {
	Name             string
	Description      string
	GameExe          string
	Version          string
	Mods             []*ModEntry
	ValidationFiles  []string
	DefaultLocations []string
	TargetOS         string
	Created          string
	Updated          string
}

// NewLauncherConfig returns an empty configuration with defaults applied
// and both timestamps set to now.
func NewLauncherConfig() *LauncherConfig {
	now := clock.Now().Format(time.RFC3339)
	return &LauncherConfig{
		Version:  DefaultConfigVersion,
		TargetOS: DefaultTargetOS,
		Created:  now,
		Updated:  now,
	}
}

func (c *LauncherConfig) touch() {
	c.Updated = clock.Now().Format(time.RFC3339)
}

// ToMap renders the configuration in its embedded wire shape. The
// rendered updated timestamp is always "now" and the created_with
// provenance field is stamped on every render; the receiver is not
// modified. Only Save and the mutators write timestamps back into the
// configuration.
func (c *LauncherConfig) ToMap() map[string]any {
	mods := make([]any, 0, len(c.Mods))
	for _, mod := range c.Mods {
		mods = append(mods, mod.toMap())
	}

	return map[string]any{
		"name":              c.Name,
		"description":       c.Description,
		"game_exe":          c.GameExe,
		"version":           c.Version,
		"mods":              mods,
		"validation_files":  anyStrings(c.ValidationFiles),
		"default_locations": anyStrings(c.DefaultLocations),
		"target_os":         c.TargetOS,
		"created":           c.Created,
		"updated":           clock.Now().Format(time.RFC3339),
		"created_with":      CREATED_WITH,
	}
}

// ConfigFromMap maps raw configuration data onto a LauncherConfig. The
// name and game_exe keys must be present; everything else falls back to
// its default.
func ConfigFromMap(data map[string]any) (*LauncherConfig, error) {
	name, err := requireString(data, "name")
	if err != nil {
		return nil, err
	}
	gameExe, err := requireString(data, "game_exe")
	if err != nil {
		return nil, err
	}

	now := clock.Now().Format(time.RFC3339)
	cfg := &LauncherConfig{
		Name:    name,
		GameExe: gameExe,
	}

	if cfg.Description, err = optionalString(data, "description", ""); err != nil {
		return nil, err
	}
	if cfg.Version, err = optionalString(data, "version", DefaultConfigVersion); err != nil {
		return nil, err
	}
	if cfg.TargetOS, err = optionalString(data, "target_os", DefaultTargetOS); err != nil {
		return nil, err
	}
	if cfg.Created, err = optionalString(data, "created", now); err != nil {
		return nil, err
	}
	if cfg.Updated, err = optionalString(data, "updated", now); err != nil {
		return nil, err
	}
	if cfg.ValidationFiles, err = optionalStrings(data, "validation_files"); err != nil {
		return nil, err
	}
	if cfg.DefaultLocations, err = optionalStrings(data, "default_locations"); err != nil {
		return nil, err
	}

	rawMods, err := optionalList(data, "mods")
	if err != nil {
		return nil, err
	}
	for i, rawMod := range rawMods {
		modData, ok := rawMod.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: mod %d is not an object", ErrMalformedConfig, i)
		}
		mod, err := ModFromMap(modData)
		if err != nil {
			return nil, fmt.Errorf("mod %d: %w", i, err)
		}
		cfg.Mods = append(cfg.Mods, mod)
	}

	return cfg, nil
}

// ToJSON renders the configuration as the indented JSON document that
// gets embedded into launcher binaries.
func (c *LauncherConfig) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(c.ToMap(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding configuration: %w", err)
	}
	return data, nil
}

// ConfigFromJSON parses a JSON document into a LauncherConfig.
func ConfigFromJSON(raw []byte) (*LauncherConfig, error) {
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedConfig, err)
	}
	return ConfigFromMap(data)
}

// AddMod appends a mod to the configuration.
func (c *LauncherConfig) AddMod(mod *ModEntry) {
	c.Mods = append(c.Mods, mod)
	c.touch()
}

// RemoveMod removes the mod with the given id. Returns false when no mod
// carries that id.
func (c *LauncherConfig) RemoveMod(id string) bool {
	for i, mod := range c.Mods {
		if mod.ID == id {
			c.Mods = slices.Delete(c.Mods, i, i+1)
			c.touch()
			return true
		}
	}
	return false
}

func (c *LauncherConfig) AddValidationFile(path string) {
	if slices.Contains(c.ValidationFiles, path) {
		return
	}
	c.ValidationFiles = append(c.ValidationFiles, path)
	c.touch()
}

func (c *LauncherConfig) RemoveValidationFile(path string) bool {
	i := slices.Index(c.ValidationFiles, path)
	if i < 0 {
		return false
	}
	c.ValidationFiles = slices.Delete(c.ValidationFiles, i, i+1)
	c.touch()
	return true
}

func (c *LauncherConfig) AddDefaultLocation(path string) {
	if slices.Contains(c.DefaultLocations, path) {
		return
	}
	c.DefaultLocations = append(c.DefaultLocations, path)
	c.touch()
}

func (c *LauncherConfig) RemoveDefaultLocation(path string) bool {
	i := slices.Index(c.DefaultLocations, path)
	if i < 0 {
		return false
	}
	c.DefaultLocations = slices.Delete(c.DefaultLocations, i, i+1)
	c.touch()
	return true
}

func anyStrings(values []string) []any {
	out := make([]any, 0, len(values))
	for _, v := range values {
		out = append(out, v)
	}
	return out
}

func requireString(data map[string]any, key string) (string, error) {
	raw, ok := data[key]
	if !ok {
		return "", fmt.Errorf("%w: missing required field %q", ErrMalformedConfig, key)
	}
	value, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: field %q is not a string", ErrMalformedConfig, key)
	}
	return value, nil
}

func optionalString(data map[string]any, key, fallback string) (string, error) {
	raw, ok := data[key]
	if !ok {
		return fallback, nil
	}
	value, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: field %q is not a string", ErrMalformedConfig, key)
	}
	return value, nil
}

func optionalBool(data map[string]any, key string, fallback bool) (bool, error) {
	raw, ok := data[key]
	if !ok {
		return fallback, nil
	}
	value, ok := raw.(bool)
	if !ok {
		return false, fmt.Errorf("%w: field %q is not a boolean", ErrMalformedConfig, key)
	}
	return value, nil
}

func optionalStrings(data map[string]any, key string) ([]string, error) {
	items, err := optionalList(data, key)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		value, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("%w: field %q contains a non-string entry", ErrMalformedConfig, key)
		}
		out = append(out, value)
	}
	return out, nil
}

func optionalList(data map[string]any, key string) ([]any, error) {
	raw, ok := data[key]
	if !ok || raw == nil {
		return nil, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: field %q is not a list", ErrMalformedConfig, key)
	}
	return items, nil
}
