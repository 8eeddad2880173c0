package markdown

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrInvalidPattern is returned for a pattern with an empty delimiter.
var ErrInvalidPattern = errors.New("invalid wrap pattern")

// ErrUnknownStyle is returned when a style name cannot be resolved.
var ErrUnknownStyle = errors.New("unknown style")

// Pattern is a delimiter pair wrapped around styled text.
type Pattern struct {
	Prefix string
	Suffix string
}

// NewPattern returns a pattern whose suffix equals its prefix.
func NewPattern(prefix string) Pattern {
	return Pattern{Prefix: prefix, Suffix: prefix}
}

// NewPairPattern returns a pattern with distinct prefix and suffix.
// An empty suffix defaults to the prefix.
func NewPairPattern(prefix, suffix string) Pattern {
	if suffix == "" {
		suffix = prefix
	}
	return Pattern{Prefix: prefix, Suffix: suffix}
}

// PrefixLen returns the prefix length in characters.
func (p Pattern) PrefixLen() int {
	return utf8.RuneCountInString(p.Prefix)
}

// SuffixLen returns the suffix length in characters.
func (p Pattern) SuffixLen() int {
	return utf8.RuneCountInString(p.Suffix)
}

// Width returns the combined length of both delimiters.
func (p Pattern) Width() int {
	return p.PrefixLen() + p.SuffixLen()
}

// Wrap returns text enclosed in the delimiters.
func (p Pattern) Wrap(text string) string {
	return p.Prefix + text + p.Suffix
}

// Encloses reports whether text starts with the prefix and ends with the
// suffix without the two overlapping.
func (p Pattern) Encloses(text string) bool {
	return utf8.RuneCountInString(text) >= p.Width() &&
		strings.HasPrefix(text, p.Prefix) &&
		strings.HasSuffix(text, p.Suffix)
}

// Unwrap strips the delimiters from text. The caller checks Encloses first.
func (p Pattern) Unwrap(text string) string {
	return text[len(p.Prefix) : len(text)-len(p.Suffix)]
}

// Validate checks that both delimiters are non-empty.
func (p Pattern) Validate() error {
	if p.Prefix == "" || p.Suffix == "" {
		return fmt.Errorf("%w: %q/%q", ErrInvalidPattern, p.Prefix, p.Suffix)
	}
	return nil
}

// String returns the pattern as prefix…suffix.
func (p Pattern) String() string {
	return p.Prefix + "…" + p.Suffix
}

// Style identifies an inline emphasis command.
type Style uint8

const (
	StyleBold Style = iota
	StyleItalic
	StyleCode
	StyleStrikethrough
)

var styleNames = map[Style]string{
	StyleBold:          "bold",
	StyleItalic:        "italic",
	StyleCode:          "code",
	StyleStrikethrough: "strikethrough",
}

// String returns the style name.
func (s Style) String() string {
	if name, ok := styleNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Style(%d)", s)
}

// IsStrikethrough reports whether list items get whole-item scope.
func (s Style) IsStrikethrough() bool {
	return s == StyleStrikethrough
}

// Styles returns every style in a stable order.
func Styles() []Style {
	return []Style{StyleBold, StyleItalic, StyleCode, StyleStrikethrough}
}

// ParseStyle resolves a style name. "codespan", "code-span", "strike" and
// "~~"-style marker aliases are accepted.
func ParseStyle(name string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "bold", "strong", "b":
		return StyleBold, nil
	case "italic", "emphasis", "em", "i":
		return StyleItalic, nil
	case "code", "codespan", "code-span", "code_span":
		return StyleCode, nil
	case "strikethrough", "strike", "s", "del":
		return StyleStrikethrough, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStyle, name)
}

// Patterns maps each style to its delimiter pair.
type Patterns map[Style]Pattern

// DefaultPatterns returns the standard Markdown delimiters.
func DefaultPatterns() Patterns {
	return Patterns{
		StyleBold:          NewPattern("**"),
		StyleItalic:        NewPattern("*"),
		StyleCode:          NewPattern("`"),
		StyleStrikethrough: NewPattern("~~"),
	}
}

// Lookup returns the pattern for s, falling back to the default.
func (ps Patterns) Lookup(s Style) (Pattern, error) {
	if p, ok := ps[s]; ok {
		return p, nil
	}
	if p, ok := DefaultPatterns()[s]; ok {
		return p, nil
	}
	return Pattern{}, fmt.Errorf("%w: %s", ErrUnknownStyle, s)
}

// Validate checks every pattern.
func (ps Patterns) Validate() error {
	for _, s := range Styles() {
		p, ok := ps[s]
		if !ok {
			continue
		}
		if err := p.Validate(); err != nil {
			return fmt.Errorf("%s: %w", s, err)
		}
	}
	return nil
}
