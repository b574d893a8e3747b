package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"github.com/vokoblin/launch-forge/core"
	"github.com/vokoblin/launch-forge/platform"
)

func consoleLogger(input chan core.Message, done chan struct{}) {
	defer close(done)
	for {
		result := <-input
		if result.Finished {
			break
		}

		if result.Err != nil {
			fmt.Println(result.Err)
		} else if result.Percent > 0 {
			fmt.Printf("[%3d%%] %s\n", result.Percent, result.Message)
		} else {
			fmt.Println(result.Message)
		}
	}
}

func fatal(err error) {
	log.Error().Err(err).Msg("command failed")
	fmt.Println(err)
	os.Exit(1)
}

func pickTemplatesDir(ops *core.Options, settings core.Settings) string {
	if len(ops.TemplatesDir) > 0 {
		return ops.TemplatesDir[0]
	}
	return settings.TemplatesDir
}

// resolveOutputPath turns the --build argument into a concrete file path:
// relative paths land in the configured default output directory, and a
// directory argument gets a filename derived from the launcher name.
func resolveOutputPath(arg string, cfg *core.LauncherConfig, settings core.Settings) string {
	path := arg
	if !filepath.IsAbs(path) && settings.DefaultOutputDir != "" {
		path = filepath.Join(settings.DefaultOutputDir, path)
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, core.DefaultLauncherFilename(cfg))
	}
	return path
}

func printSummary(cfg *core.LauncherConfig) {
	fmt.Printf("%s (%s) -> %s\n", cfg.Name, cfg.Version, cfg.TargetOS)
	if cfg.Description != "" {
		fmt.Println(cfg.Description)
	}
	fmt.Println()

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"#", "Mod", "Version", "Target Path", "Required", "Download URL"})
	for i, mod := range cfg.Mods {
		t.AppendRow(table.Row{i + 1, mod.Name, mod.Version, mod.TargetPath, mod.IsRequired, mod.DownloadURL})
	}
	t.Render()

	fmt.Println()
	fmt.Println("Game executable:", cfg.GameExe)
	fmt.Println("Validation files:", strings.Join(cfg.ValidationFiles, ", "))
	if len(cfg.DefaultLocations) > 0 {
		fmt.Println("Default locations:")
		for _, location := range cfg.DefaultLocations {
			fmt.Println("  -", location)
		}
	}
}

func runBuild(ops *core.Options, cfg *core.LauncherConfig, settings core.Settings) {
	outputPath := resolveOutputPath(ops.Build[0], cfg, settings)

	builder := core.NewBuilder(cfg)
	if templatesDir := pickTemplatesDir(ops, settings); templatesDir != "" {
		builder.SetResolver(core.NewDirTemplateResolver(templatesDir))
	}

	channels := core.MakeDefaultChannelProvider()
	done := make(chan struct{})
	go consoleLogger(channels.Logs, done)
	builder.SetProgressFunc(core.ChannelProgress(channels))

	buildErr := builder.Build(outputPath)
	channels.Logs <- core.Message{Finished: true}
	<-done

	if buildErr != nil {
		log.Error().Err(buildErr).Msg("build failed")
		fmt.Println("Failed to build launcher")
		fmt.Println(buildErr)
		os.Exit(1)
	}

	fmt.Println("Launcher built successfully!")
	fmt.Println("Output:", outputPath)

	if len(ops.Reveal) > 0 && ops.Reveal[0] {
		if err := platform.Reveal(filepath.Dir(outputPath)); err != nil {
			log.Warn().Err(err).Msg("could not open the file browser")
		}
	}
}

func main() {
	ops := &core.Options{}
	parser := flags.NewParser(ops, flags.Default)
	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return
		}
		os.Exit(1)
	}

	if len(ops.Version) > 0 && ops.Version[0] {
		fmt.Println(core.CREATED_WITH)
		return
	}

	var err error
	if len(ops.LogLocation) > 0 {
		err = core.InitLoggingWithPath(ops.LogLocation[0])
	} else {
		err = core.InitLoggingWithDefaultPath()
	}
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	settings := core.CurrentSettings()
	core.SetDebugLogging(settings.DebugLogging || (len(ops.Verbose) > 0 && ops.Verbose[0]))

	configPath := core.DefaultConfigPath()
	if len(ops.ConfigPath) > 0 {
		configPath = ops.ConfigPath[0]
	}
	store := core.NewConfigStore(configPath)

	if len(ops.NewConfig) > 0 && ops.NewConfig[0] {
		cfg := core.DefaultConfig()
		cfg.DefaultLocations = core.DefaultGameLocations(cfg.TargetOS)
		if err := store.Save(cfg); err != nil {
			fatal(err)
		}
		fmt.Println("Configuration saved successfully")
		fmt.Println("Wrote", store.Path())
		return
	}

	if len(ops.ImportPath) > 0 {
		imported, err := store.Import(ops.ImportPath[0])
		if err != nil {
			fatal(err)
		}
		fmt.Println("Configuration loaded successfully")
		fmt.Printf("Imported '%s' from %s\n", imported.Name, ops.ImportPath[0])
		return
	}

	if len(ops.Extract) > 0 {
		payload, err := core.NewCodec().ExtractFile(ops.Extract[0])
		if err != nil {
			if errors.Is(err, core.ErrNoEmbeddedConfig) {
				fmt.Println("No embedded configuration found in", ops.Extract[0])
				os.Exit(1)
			}
			fatal(err)
		}
		fmt.Println(string(payload))
		return
	}

	cfg, err := store.LoadOrDefault()
	if err != nil {
		fatal(err)
	}

	switch {
	case len(ops.PrintConfig) > 0 && ops.PrintConfig[0]:
		data, err := cfg.ToJSON()
		if err != nil {
			fatal(err)
		}
		fmt.Println(string(data))

	case len(ops.Summary) > 0 && ops.Summary[0]:
		printSummary(cfg)

	case len(ops.Validate) > 0 && ops.Validate[0]:
		errs := core.Validate(cfg)
		fmt.Println(core.ValidationErrorsText(errs))
		if len(errs) > 0 {
			os.Exit(1)
		}

	case len(ops.ExportPath) > 0:
		if err := store.Export(cfg, ops.ExportPath[0]); err != nil {
			fatal(err)
		}
		fmt.Println("Exported configuration to", ops.ExportPath[0])

	case len(ops.CheckGameDir) > 0:
		dir := ops.CheckGameDir[0]
		if !core.ValidGameDirectory(afero.NewOsFs(), dir, cfg.ValidationFiles) {
			fmt.Println("Not a valid game directory:", dir)
			os.Exit(1)
		}
		fmt.Println("Valid game directory:", dir)

	case len(ops.AddCommonLocations) > 0 && ops.AddCommonLocations[0]:
		found := core.DiscoverGameDirs(afero.NewOsFs())
		if len(found) == 0 {
			fmt.Println("No common game directories found on this machine.")
			return
		}
		for _, dir := range found {
			cfg.AddDefaultLocation(dir)
			fmt.Println("Added", dir)
		}
		if err := store.Save(cfg); err != nil {
			fatal(err)
		}
		fmt.Println("Configuration saved successfully")

	case len(ops.Build) > 0:
		runBuild(ops, cfg, settings)

	default:
		parser.WriteHelp(os.Stdout)
	}
}
