package core_test

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vokoblin/launch-forge/core"
)

func TestDirTemplateResolver(t *testing.T) {
	fsys := afero.NewMemMapFs()
	for _, name := range []string{"launcher-windows.exe", "launcher-macos", "launcher-linux"} {
		require.NoError(t, afero.WriteFile(fsys, filepath.Join("/tpl", name), []byte("TPL"), 0o755))
	}

	resolver := core.NewDirTemplateResolverWithFs(fsys, "/tpl")

	cases := map[string]string{
		"windows": "launcher-windows.exe",
		"macos":   "launcher-macos",
		"linux":   "launcher-linux",
	}
	for targetOS, name := range cases {
		path, err := resolver.Resolve(targetOS)
		require.NoError(t, err, "resolving %s should not return an error", targetOS)
		assert.Equal(t, filepath.Join("/tpl", name), path)
	}
}

func TestDirTemplateResolver_MissingTemplate(t *testing.T) {
	resolver := core.NewDirTemplateResolverWithFs(afero.NewMemMapFs(), "/tpl")

	_, err := resolver.Resolve("linux")
	assert.ErrorIs(t, err, core.ErrTemplateNotFound)
}

func TestDirTemplateResolver_UnsupportedTargetOS(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/tpl/launcher-linux", []byte("TPL"), 0o755))

	resolver := core.NewDirTemplateResolverWithFs(fsys, "/tpl")

	_, err := resolver.Resolve("amiga")
	assert.ErrorIs(t, err, core.ErrTemplateNotFound, "an unknown OS resolves to the same error as a missing file")
}

func TestDefaultTemplatesDir(t *testing.T) {
	assert.Equal(t, "templates", filepath.Base(core.DefaultTemplatesDir()))
}
