package core

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withFakeClock pins the model's clock to a fixed time and restores the
// real one when the test ends.
func withFakeClock(t *testing.T, at time.Time) *clockwork.FakeClock {
	t.Helper()
	fake := clockwork.NewFakeClockAt(at)
	prev := clock
	clock = fake
	t.Cleanup(func() { clock = prev })
	return fake
}

func TestNewLauncherConfig_Defaults(t *testing.T) {
	at := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	withFakeClock(t, at)

	cfg := NewLauncherConfig()

	assert.Equal(t, DefaultConfigVersion, cfg.Version)
	assert.Equal(t, DefaultTargetOS, cfg.TargetOS)
	assert.Equal(t, "2026-03-15T10:00:00Z", cfg.Created)
	assert.Equal(t, cfg.Created, cfg.Updated, "a fresh configuration starts with equal timestamps")
}

func TestToMap_RefreshesUpdatedAndStampsProvenance(t *testing.T) {
	at := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	fake := withFakeClock(t, at)

	cfg := NewLauncherConfig()
	fake.Advance(90 * time.Minute)

	data := cfg.ToMap()

	assert.Equal(t, "2026-03-15T10:00:00Z", data["created"], "created should never move")
	assert.Equal(t, "2026-03-15T11:30:00Z", data["updated"], "the rendered updated should be refreshed on every render")
	assert.Equal(t, CREATED_WITH, data["created_with"])
	assert.Equal(t, "2026-03-15T10:00:00Z", cfg.Updated, "rendering should not write back into the configuration")
}

func TestToMap_EmitsEmptyListsNotNull(t *testing.T) {
	cfg := NewLauncherConfig()

	data := cfg.ToMap()

	assert.Equal(t, []any{}, data["mods"])
	assert.Equal(t, []any{}, data["validation_files"])
	assert.Equal(t, []any{}, data["default_locations"])
}

func TestConfigFromMap_RequiredKeys(t *testing.T) {
	_, err := ConfigFromMap(map[string]any{"game_exe": "game.exe"})
	require.ErrorIs(t, err, ErrMalformedConfig, "a missing name key should not deserialize")

	_, err = ConfigFromMap(map[string]any{"name": "Launcher"})
	require.ErrorIs(t, err, ErrMalformedConfig, "a missing game_exe key should not deserialize")

	// Present but empty is a validation problem, not a shape problem.
	cfg, err := ConfigFromMap(map[string]any{"name": "", "game_exe": ""})
	require.NoError(t, err)
	assert.Empty(t, cfg.Name)
	assert.Empty(t, cfg.GameExe)
}

func TestConfigFromMap_AppliesDefaults(t *testing.T) {
	cfg, err := ConfigFromMap(map[string]any{
		"name":     "Skyrim Modpack",
		"game_exe": "SkyrimSE.exe",
	})
	require.NoError(t, err)

	assert.Equal(t, DefaultConfigVersion, cfg.Version)
	assert.Equal(t, DefaultTargetOS, cfg.TargetOS)
	assert.Empty(t, cfg.Description)
	assert.Empty(t, cfg.Mods)
	assert.Empty(t, cfg.ValidationFiles)
}

func TestConfigFromMap_RejectsWrongShapes(t *testing.T) {
	_, err := ConfigFromMap(map[string]any{"name": 42, "game_exe": "game.exe"})
	assert.ErrorIs(t, err, ErrMalformedConfig, "a non-string name should not deserialize")

	_, err = ConfigFromMap(map[string]any{"name": "x", "game_exe": "g", "mods": "nope"})
	assert.ErrorIs(t, err, ErrMalformedConfig, "a non-list mods value should not deserialize")

	_, err = ConfigFromMap(map[string]any{"name": "x", "game_exe": "g", "mods": []any{42}})
	assert.ErrorIs(t, err, ErrMalformedConfig, "a non-object mod entry should not deserialize")

	_, err = ConfigFromMap(map[string]any{"name": "x", "game_exe": "g", "validation_files": []any{7}})
	assert.ErrorIs(t, err, ErrMalformedConfig, "a non-string validation file should not deserialize")
}

func TestModFromMap(t *testing.T) {
	mod, err := ModFromMap(map[string]any{
		"name":         "Texture Pack",
		"target_path":  "Data/Textures",
		"download_url": "https://example.com/textures.zip",
	})
	require.NoError(t, err)

	assert.Equal(t, "Texture Pack", mod.Name)
	assert.Equal(t, DefaultConfigVersion, mod.Version)
	assert.False(t, mod.IsRequired)

	_, err = uuid.Parse(mod.ID)
	assert.NoError(t, err, "an absent id should be filled with a generated one")
}

func TestModFromMap_RequiredKeys(t *testing.T) {
	for _, missing := range []string{"name", "target_path", "download_url"} {
		data := map[string]any{
			"name":         "Texture Pack",
			"target_path":  "Data/Textures",
			"download_url": "https://example.com/textures.zip",
		}
		delete(data, missing)

		_, err := ModFromMap(data)
		assert.ErrorIs(t, err, ErrMalformedConfig, "dropping %s should not deserialize", missing)
	}
}

func TestModFromMap_KeepsPresentEmptyID(t *testing.T) {
	mod, err := ModFromMap(map[string]any{
		"id":           "",
		"name":         "Texture Pack",
		"target_path":  "Data/Textures",
		"download_url": "https://example.com/textures.zip",
	})
	require.NoError(t, err)
	assert.Empty(t, mod.ID, "a present id is taken verbatim, even when empty")
}

func TestConfigJSONRoundTrip(t *testing.T) {
	withFakeClock(t, time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC))

	cfg := NewLauncherConfig()
	cfg.Name = "Skyrim Modpack"
	cfg.Description = "Essential mods"
	cfg.GameExe = "SkyrimSE.exe"
	cfg.TargetOS = "linux"
	cfg.ValidationFiles = []string{"SkyrimSE.exe", "Data/Skyrim.esm"}
	cfg.DefaultLocations = []string{"~/.steam/steam/steamapps/common"}
	cfg.AddMod(NewModEntry("Texture Pack", "Data/Textures", "https://example.com/textures.zip"))

	raw, err := cfg.ToJSON()
	require.NoError(t, err)

	parsed, err := ConfigFromJSON(raw)
	require.NoError(t, err)

	assert.Equal(t, cfg.Name, parsed.Name)
	assert.Equal(t, cfg.Description, parsed.Description)
	assert.Equal(t, cfg.GameExe, parsed.GameExe)
	assert.Equal(t, cfg.TargetOS, parsed.TargetOS)
	assert.Equal(t, cfg.ValidationFiles, parsed.ValidationFiles)
	assert.Equal(t, cfg.DefaultLocations, parsed.DefaultLocations)
	assert.Equal(t, cfg.Created, parsed.Created)
	assert.Equal(t, cfg.Updated, parsed.Updated)

	require.Len(t, parsed.Mods, 1)
	assert.Equal(t, cfg.Mods[0].ID, parsed.Mods[0].ID, "mod ids should survive a round trip")
	assert.Equal(t, cfg.Mods[0].Name, parsed.Mods[0].Name)
	assert.Equal(t, cfg.Mods[0].DownloadURL, parsed.Mods[0].DownloadURL)
}

func TestConfigFromJSON_Malformed(t *testing.T) {
	_, err := ConfigFromJSON([]byte("{definitely not json"))
	assert.ErrorIs(t, err, ErrMalformedConfig)

	_, err = ConfigFromJSON([]byte(`"a string, not an object"`))
	assert.ErrorIs(t, err, ErrMalformedConfig)
}

func TestMutatorsTouchUpdated(t *testing.T) {
	at := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	fake := withFakeClock(t, at)

	cfg := NewLauncherConfig()
	created := cfg.Updated

	fake.Advance(time.Minute)
	mod := NewModEntry("Texture Pack", "Data/Textures", "https://example.com/textures.zip")
	cfg.AddMod(mod)
	assert.NotEqual(t, created, cfg.Updated, "adding a mod should refresh updated")

	assert.False(t, cfg.RemoveMod("no-such-id"))
	assert.True(t, cfg.RemoveMod(mod.ID))
	assert.Empty(t, cfg.Mods)

	cfg.AddValidationFile("game.exe")
	cfg.AddValidationFile("game.exe")
	assert.Len(t, cfg.ValidationFiles, 1, "adding the same validation file twice should not duplicate it")

	assert.False(t, cfg.RemoveValidationFile("other.dll"))
	assert.True(t, cfg.RemoveValidationFile("game.exe"))

	cfg.AddDefaultLocation("C:/Games")
	cfg.AddDefaultLocation("C:/Games")
	assert.Len(t, cfg.DefaultLocations, 1)
	assert.True(t, cfg.RemoveDefaultLocation("C:/Games"))
	assert.False(t, cfg.RemoveDefaultLocation("C:/Games"))
}
