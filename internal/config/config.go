package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dshills/markstyle/internal/markdown"
)

// Config is the complete markstyle configuration.
type Config struct {
	Markdown   MarkdownConfig   `toml:"markdown" yaml:"markdown"`
	Logging    LoggingConfig    `toml:"logging" yaml:"logging"`
	Keymap     KeymapConfig     `toml:"keymap" yaml:"keymap"`
	Dispatcher DispatcherConfig `toml:"dispatcher" yaml:"dispatcher"`
	Plugin     PluginConfig     `toml:"plugin" yaml:"plugin"`
}

// MarkdownConfig controls the toggle engine.
type MarkdownConfig struct {
	// SelectionPolicy is "primary-empty" or "always".
	SelectionPolicy string `toml:"selection_policy" yaml:"selection_policy"`

	// Patterns overrides delimiters per style name.
	Patterns map[string]PatternConfig `toml:"patterns" yaml:"patterns"`
}

// PatternConfig is a delimiter pair. An empty suffix mirrors the prefix.
type PatternConfig struct {
	Prefix string `toml:"prefix" yaml:"prefix"`
	Suffix string `toml:"suffix" yaml:"suffix"`
}

// LoggingConfig controls the log sink.
type LoggingConfig struct {
	Level      string `toml:"level" yaml:"level"`
	File       string `toml:"file" yaml:"file"`
	Format     string `toml:"format" yaml:"format"`
	MaxSizeMB  int    `toml:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days" yaml:"max_age_days"`
	Compress   bool   `toml:"compress" yaml:"compress"`
}

// KeymapConfig lists user keymap files.
type KeymapConfig struct {
	Paths []string `toml:"paths" yaml:"paths"`

	// Dirs are scanned for *.yaml and *.yml keymaps.
	Dirs            []string `toml:"dirs" yaml:"dirs"`
	DisableDefaults bool     `toml:"disable_defaults" yaml:"disable_defaults"`
}

// DispatcherConfig tunes action execution.
type DispatcherConfig struct {
	Timeout        string `toml:"timeout" yaml:"timeout"`
	MaxRepeatCount int    `toml:"max_repeat_count" yaml:"max_repeat_count"`
	Metrics        bool   `toml:"metrics" yaml:"metrics"`

	// SlowThreshold logs a warning for actions that run at least this
	// long. Empty or "0" disables it.
	SlowThreshold string `toml:"slow_threshold" yaml:"slow_threshold"`
}

// PluginConfig tunes Lua script execution.
type PluginConfig struct {
	Timeout string `toml:"timeout" yaml:"timeout"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Markdown: MarkdownConfig{
			SelectionPolicy: markdown.PolicyPrimaryEmpty.String(),
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 7,
			Compress:   true,
		},
		Dispatcher: DispatcherConfig{
			MaxRepeatCount: 100,
			SlowThreshold:  "250ms",
		},
		Plugin: PluginConfig{
			Timeout: "5s",
		},
	}
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	out := *c
	if c.Markdown.Patterns != nil {
		out.Markdown.Patterns = make(map[string]PatternConfig, len(c.Markdown.Patterns))
		for k, v := range c.Markdown.Patterns {
			out.Markdown.Patterns[k] = v
		}
	}
	out.Keymap.Paths = append([]string(nil), c.Keymap.Paths...)
	out.Keymap.Dirs = append([]string(nil), c.Keymap.Dirs...)
	return &out
}

// Validate reports every invalid field, joined.
func (c *Config) Validate() error {
	var errs []error

	if _, err := markdown.ParseSelectionPolicy(c.Markdown.SelectionPolicy); err != nil {
		errs = append(errs, fmt.Errorf("markdown.selection_policy: %w", err))
	}
	if _, err := c.MarkdownPatterns(); err != nil {
		errs = append(errs, fmt.Errorf("markdown.patterns: %w", err))
	}
	if _, err := ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "json", "text":
	default:
		errs = append(errs, fmt.Errorf("logging.format: unknown format %q", c.Logging.Format))
	}
	if c.Logging.MaxSizeMB < 0 || c.Logging.MaxBackups < 0 || c.Logging.MaxAgeDays < 0 {
		errs = append(errs, errors.New("logging: rotation limits must not be negative"))
	}
	if _, err := parseDuration(c.Dispatcher.Timeout); err != nil {
		errs = append(errs, fmt.Errorf("dispatcher.timeout: %w", err))
	}
	if _, err := parseDuration(c.Dispatcher.SlowThreshold); err != nil {
		errs = append(errs, fmt.Errorf("dispatcher.slow_threshold: %w", err))
	}
	if c.Dispatcher.MaxRepeatCount < 0 {
		errs = append(errs, fmt.Errorf("dispatcher.max_repeat_count: %d is negative", c.Dispatcher.MaxRepeatCount))
	}
	if _, err := parseDuration(c.Plugin.Timeout); err != nil {
		errs = append(errs, fmt.Errorf("plugin.timeout: %w", err))
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

// SelectionPolicy returns the configured policy, or the default when the
// name is invalid.
func (c *Config) SelectionPolicy() markdown.SelectionPolicy {
	p, _ := markdown.ParseSelectionPolicy(c.Markdown.SelectionPolicy)
	return p
}

// MarkdownPatterns returns the default delimiters overlaid with the
// configured ones.
func (c *Config) MarkdownPatterns() (markdown.Patterns, error) {
	ps := markdown.DefaultPatterns()
	for name, pc := range c.Markdown.Patterns {
		style, err := markdown.ParseStyle(name)
		if err != nil {
			return nil, err
		}
		var p markdown.Pattern
		if pc.Suffix == "" {
			p = markdown.NewPattern(pc.Prefix)
		} else {
			p = markdown.NewPairPattern(pc.Prefix, pc.Suffix)
		}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		ps[style] = p
	}
	return ps, nil
}

// LogLevel returns the configured level, or info when it is invalid.
func (c *Config) LogLevel() slog.Level {
	l, err := ParseLevel(c.Logging.Level)
	if err != nil {
		return slog.LevelInfo
	}
	return l
}

// DispatchTimeout returns the dispatcher timeout; zero means none.
func (c *Config) DispatchTimeout() time.Duration {
	d, _ := parseDuration(c.Dispatcher.Timeout)
	return d
}

// SlowActionThreshold returns the slow-action warning threshold; zero
// disables the warning.
func (c *Config) SlowActionThreshold() time.Duration {
	d, _ := parseDuration(c.Dispatcher.SlowThreshold)
	return d
}

// PluginTimeout returns the script timeout; zero means the host default.
func (c *Config) PluginTimeout() time.Duration {
	d, _ := parseDuration(c.Plugin.Timeout)
	return d
}

// ParseLevel resolves a log level name. An empty name is info.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
}

func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration %s is negative", s)
	}
	return d, nil
}
