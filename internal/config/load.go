package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is a configuration file syntax.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// Environment variables applied by ApplyEnv.
const (
	EnvLogLevel        = "MARKSTYLE_LOG_LEVEL"
	EnvLogFile         = "MARKSTYLE_LOG_FILE"
	EnvSelectionPolicy = "MARKSTYLE_SELECTION_POLICY"
	EnvKeymapPath      = "MARKSTYLE_KEYMAP_PATH"
)

// FormatFor picks the syntax from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// DefaultPath returns the per-user config file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "markstyle", "config.toml"), nil
}

// Load reads path over the defaults. A missing file yields an error
// wrapping fs.ErrNotExist.
func Load(path string) (*Config, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := Default()
	if err := Decode(bytes.NewReader(data), format, cfg); err != nil {
		var perr *ParseError
		if errors.As(err, &perr) {
			perr.Path = path
		}
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads path when it exists and returns the defaults
// otherwise. An empty path means the defaults.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Decode reads one document of the given format into cfg. Unknown keys
// are rejected.
func Decode(r io.Reader, format Format, cfg *Config) error {
	switch format {
	case FormatTOML:
		dec := toml.NewDecoder(r).DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			return tomlParseError(err)
		}
		return nil
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return &ParseError{Message: err.Error(), Err: err}
		}
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

func tomlParseError(err error) error {
	perr := &ParseError{Message: err.Error(), Err: err}
	var derr *toml.DecodeError
	if errors.As(err, &derr) {
		perr.Line, perr.Column = derr.Position()
		perr.Message = derr.Error()
	}
	var serr *toml.StrictMissingError
	if errors.As(err, &serr) && len(serr.Errors) > 0 {
		perr.Line, perr.Column = serr.Errors[0].Position()
		perr.Message = "unknown key " + strings.Join(serr.Errors[0].Key(), ".")
	}
	return perr
}

// ApplyEnv overlays MARKSTYLE_* variables found through lookup.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		cfg.Logging.Level = v
	}
	if v, ok := lookup(EnvLogFile); ok && v != "" {
		cfg.Logging.File = v
	}
	if v, ok := lookup(EnvSelectionPolicy); ok && v != "" {
		cfg.Markdown.SelectionPolicy = v
	}
	if v, ok := lookup(EnvKeymapPath); ok && v != "" {
		cfg.Keymap.Paths = append(cfg.Keymap.Paths, filepath.SplitList(v)...)
	}
}
