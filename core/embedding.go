package core

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"reflect"
	"runtime"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// Markers delimiting the configuration payload inside a launcher binary.
// They are part of the file format; changing them orphans every launcher
// built by an earlier version.
const (
	StartMarker = "<<<LAUNCHFORGE_CONFIG_START>>>"
	EndMarker   = "<<<LAUNCHFORGE_CONFIG_END>>>"
)

var (
	// ErrNoEmbeddedConfig reports that a binary carries no readable
	// configuration payload. An unmodified template is expected to hit
	// this; it is not a corruption signal.
	ErrNoEmbeddedConfig = errors.New("no embedded configuration found")

	// ErrCorruptTemplate reports a template carrying a start marker with
	// no matching end marker. Such a template must be repaired out of
	// band, never written over.
	ErrCorruptTemplate = errors.New("template contains a start marker without an end marker")

	// ErrCorruptPayload reports marker-delimited bytes that do not decode
	// as UTF-8 JSON.
	ErrCorruptPayload = errors.New("embedded configuration payload is corrupt")
)

// Codec embeds configuration payloads into launcher binaries and reads
// them back.
type Codec struct {
	fs afero.Fs
}

func NewCodec() *Codec {
	return NewCodecWithFs(afero.NewOsFs())
}

func NewCodecWithFs(fsys afero.Fs) *Codec {
	return &Codec{fs: fsys}
}

// Embed returns template bytes carrying configJSON between the markers.
// An existing payload is spliced out and replaced; a template without one
// gets the payload appended. The template slice is never modified.
func (c *Codec) Embed(template []byte, configJSON []byte) ([]byte, error) {
	payload := make([]byte, 0, len(StartMarker)+len(configJSON)+len(EndMarker))
	payload = append(payload, StartMarker...)
	payload = append(payload, configJSON...)
	payload = append(payload, EndMarker...)

	start := bytes.Index(template, []byte(StartMarker))
	if start < 0 {
		out := make([]byte, 0, len(template)+len(payload))
		out = append(out, template...)
		out = append(out, payload...)
		return out, nil
	}

	rest := template[start+len(StartMarker):]
	end := bytes.Index(rest, []byte(EndMarker))
	if end < 0 {
		return nil, ErrCorruptTemplate
	}

	tail := rest[end+len(EndMarker):]
	out := make([]byte, 0, start+len(payload)+len(tail))
	out = append(out, template[:start]...)
	out = append(out, payload...)
	out = append(out, tail...)
	return out, nil
}

// Extract returns the configuration payload embedded in binary data.
// Missing markers read as ErrNoEmbeddedConfig; extraction is a best
// effort read path, so a dangling start marker also reads as not found
// rather than corrupt. A payload that is present but does not decode as
// UTF-8 JSON is ErrCorruptPayload.
func (c *Codec) Extract(data []byte) ([]byte, error) {
	start := bytes.Index(data, []byte(StartMarker))
	if start < 0 {
		return nil, ErrNoEmbeddedConfig
	}

	rest := data[start+len(StartMarker):]
	end := bytes.Index(rest, []byte(EndMarker))
	if end < 0 {
		return nil, ErrNoEmbeddedConfig
	}

	payload := rest[:end]
	if !utf8.Valid(payload) {
		return nil, fmt.Errorf("%w: payload is not valid UTF-8", ErrCorruptPayload)
	}
	if !json.Valid(payload) {
		return nil, fmt.Errorf("%w: payload is not valid JSON", ErrCorruptPayload)
	}
	return payload, nil
}

// EmbedFile reads the template, embeds configJSON and writes the result
// to outputPath through a temporary sibling file and a rename, so a half
// written launcher is never visible at the final path. On hosts that do
// not mark new files executable the output gets 0755. The template file
// is never touched.
func (c *Codec) EmbedFile(templatePath, outputPath string, configJSON []byte) error {
	template, err := afero.ReadFile(c.fs, templatePath)
	if err != nil {
		return fmt.Errorf("reading template: %w", err)
	}

	out, err := c.Embed(template, configJSON)
	if err != nil {
		return err
	}

	if err := c.fs.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	tmp, err := afero.TempFile(c.fs, filepath.Dir(outputPath), filepath.Base(outputPath)+".partial-")
	if err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	if _, err := tmp.Write(out); err != nil {
		tmp.Close()
		c.fs.Remove(tmp.Name())
		return fmt.Errorf("writing output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		c.fs.Remove(tmp.Name())
		return fmt.Errorf("writing output: %w", err)
	}
	if err := c.fs.Rename(tmp.Name(), outputPath); err != nil {
		c.fs.Remove(tmp.Name())
		return fmt.Errorf("writing output: %w", err)
	}

	if runtime.GOOS != "windows" {
		if err := c.fs.Chmod(outputPath, 0o755); err != nil {
			return fmt.Errorf("marking output executable: %w", err)
		}
	}

	log.Debug().
		Str("template", templatePath).
		Str("output", outputPath).
		Int("payload_bytes", len(configJSON)).
		Msg("embedded configuration")
	return nil
}

// ExtractFile reads a built launcher and returns its embedded payload.
func (c *Codec) ExtractFile(path string) ([]byte, error) {
	data, err := afero.ReadFile(c.fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading binary: %w", err)
	}
	return c.Extract(data)
}

// Verify re-reads a written launcher and checks that its payload decodes
// to the same structure as expectedJSON. Key order and whitespace do not
// matter; values, list order and key sets do. Any extraction failure
// verifies as false.
func (c *Codec) Verify(path string, expectedJSON []byte) bool {
	payload, err := c.ExtractFile(path)
	if err != nil {
		log.Debug().Err(err).Str("path", path).Msg("verification could not extract a payload")
		return false
	}

	var got, want any
	if err := json.Unmarshal(payload, &got); err != nil {
		return false
	}
	if err := json.Unmarshal(expectedJSON, &want); err != nil {
		return false
	}
	return reflect.DeepEqual(got, want)
}

// Checksum returns the SHA-256 hex digest of a file.
func (c *Codec) Checksum(path string) (string, error) {
	f, err := c.fs.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
