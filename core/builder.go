package core

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// ErrVerificationMismatch reports that the post-write read back of a
// launcher did not reproduce the configuration that was embedded.
var ErrVerificationMismatch = errors.New("embedded configuration failed verification")

// Fixed progress percentages for the build stages, in execution order.
const (
	stagePreparing          = 10
	stageResolvingTemplate  = 30
	stageEmbeddingConfig    = 60
	stageVerifyingEmbedding = 80
	stageComplete           = 100
)

// ExecutableExtensions maps each target OS to the suffix its launcher
// binaries carry.
var ExecutableExtensions = map[string]string{
	"windows": ".exe",
	"macos":   ".app",
	"linux":   "",
}

// Builder drives a single launcher build: validate the configuration,
// resolve a template, embed the configuration, verify the result. A
// Builder may be reused across builds but must not run two builds
// concurrently.
type Builder struct {
	config   *LauncherConfig
	codec    *Codec
	resolver TemplateResolver
	progress ProgressFunc
}

// NewBuilder creates a builder for one configuration, resolving templates
// from the default directory.
func NewBuilder(cfg *LauncherConfig) *Builder {
	return &Builder{
		config:   cfg,
		codec:    NewCodec(),
		resolver: NewDirTemplateResolver(DefaultTemplatesDir()),
	}
}

// SetProgressFunc installs a progress sink. Progress is delivered
// synchronously, in stage order, with non-decreasing percentages.
func (b *Builder) SetProgressFunc(fn ProgressFunc) {
	b.progress = fn
}

// SetResolver replaces the template resolver.
func (b *Builder) SetResolver(r TemplateResolver) {
	b.resolver = r
}

// SetFs replaces the filesystem the build reads and writes through.
func (b *Builder) SetFs(fsys afero.Fs) {
	b.codec = NewCodecWithFs(fsys)
}

func (b *Builder) reportProgress(message string, percent int) {
	if b.progress != nil {
		b.progress(message, percent)
	}
	log.Info().Int("percent", percent).Msg(message)
}

// Build produces a launcher at outputPath. On failure the error says
// which stage broke, no later stage runs, and the builder stays usable
// for another attempt. The caller owns cleanup of a partially written
// output; the write itself goes through a rename so the final path never
// holds a half written file.
func (b *Builder) Build(outputPath string) error {
	b.reportProgress("Preparing build...", stagePreparing)

	if errs := validateForBuild(b.config); len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}

	configJSON, err := b.config.ToJSON()
	if err != nil {
		return err
	}

	b.reportProgress("Resolving launcher template...", stageResolvingTemplate)

	templatePath, err := b.resolver.Resolve(b.config.TargetOS)
	if err != nil {
		return err
	}

	b.reportProgress("Embedding configuration...", stageEmbeddingConfig)

	if err := b.codec.EmbedFile(templatePath, outputPath, configJSON); err != nil {
		return err
	}

	b.reportProgress("Verifying embedded configuration...", stageVerifyingEmbedding)

	if !b.codec.Verify(outputPath, configJSON) {
		return fmt.Errorf("%w: %s", ErrVerificationMismatch, outputPath)
	}

	if checksum, err := b.codec.Checksum(outputPath); err == nil {
		log.Info().Str("output", outputPath).Str("sha256", checksum).Msg("launcher written")
	}

	b.reportProgress("Build completed successfully", stageComplete)
	return nil
}

// SafeName reduces a launcher name to characters safe in a filename.
func SafeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

// DefaultLauncherFilename is the output filename used when a caller
// supplies only a directory: the launcher name reduced to safe characters
// plus the target's executable extension.
func DefaultLauncherFilename(cfg *LauncherConfig) string {
	return SafeName(cfg.Name) + ExecutableExtensions[cfg.TargetOS]
}
