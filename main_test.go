package main

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vokoblin/launch-forge/core"
)

func TestConsoleLogger_StopsOnFinished(t *testing.T) {
	logs := make(chan core.Message, 4)
	done := make(chan struct{})
	go consoleLogger(logs, done)

	logs <- core.Message{Message: "Preparing build...", Percent: 10}
	logs <- core.Message{Err: errors.New("boom")}
	logs <- core.Message{Finished: true}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("consoleLogger did not stop on the finished message")
	}
}

func TestResolveOutputPath(t *testing.T) {
	cfg := core.DefaultConfig()
	settings := core.Settings{DefaultOutputDir: filepath.Join("builds", "out")}

	abs := filepath.Join(t.TempDir(), "launcher.exe")
	assert.Equal(t, abs, resolveOutputPath(abs, cfg, settings),
		"absolute paths should be taken as given")

	assert.Equal(t, filepath.Join("builds", "out", "launcher.exe"),
		resolveOutputPath("launcher.exe", cfg, settings),
		"relative paths should land in the default output directory")

	assert.Equal(t, "launcher.exe", resolveOutputPath("launcher.exe", cfg, core.Settings{}),
		"with no default output directory the path stays as given")

	dir := t.TempDir()
	assert.Equal(t, filepath.Join(dir, "My_Game_Mod_Launcher.exe"),
		resolveOutputPath(dir, cfg, core.Settings{}),
		"a directory argument should get the derived launcher filename")
}

func TestPickTemplatesDir(t *testing.T) {
	settings := core.Settings{TemplatesDir: "/from/settings"}

	ops := &core.Options{TemplatesDir: []string{"/from/flag"}}
	assert.Equal(t, "/from/flag", pickTemplatesDir(ops, settings), "the flag should win over settings")

	assert.Equal(t, "/from/settings", pickTemplatesDir(&core.Options{}, settings))
	assert.Empty(t, pickTemplatesDir(&core.Options{}, core.Settings{}))
}
