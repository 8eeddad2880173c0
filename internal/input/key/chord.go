package key

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Parse errors
var (
	ErrEmptySpec   = errors.New("empty key specification")
	ErrInvalidSpec = errors.New("invalid key specification")
)

// Chord is a single key press with modifiers.
// Key is either a single character or a lowercase key name like "enter".
type Chord struct {
	Mods Modifier
	Key  string
}

// String returns the canonical specification, like "ctrl+shift+]".
func (c Chord) String() string {
	if c.Mods.IsEmpty() {
		return c.Key
	}
	return c.Mods.String() + "+" + c.Key
}

// IsZero reports whether c is the zero chord.
func (c Chord) IsZero() bool {
	return c.Key == "" && c.Mods.IsEmpty()
}

// keyAliases maps accepted key names to their canonical names.
var keyAliases = map[string]string{
	"cr":        "enter",
	"return":    "enter",
	"enter":     "enter",
	"esc":       "esc",
	"escape":    "esc",
	"tab":       "tab",
	"bs":        "backspace",
	"backspace": "backspace",
	"del":       "delete",
	"delete":    "delete",
	"ins":       "insert",
	"insert":    "insert",
	"space":     "space",
	"up":        "up",
	"down":      "down",
	"left":      "left",
	"right":     "right",
	"home":      "home",
	"end":       "end",
	"pageup":    "pageup",
	"pgup":      "pageup",
	"pagedown":  "pagedown",
	"pgdn":      "pagedown",
	"lt":        "<",
	"gt":        ">",
	"bar":       "|",
	"plus":      "+",
	"minus":     "-",
	"bslash":    "\\",
	"backtick":  "`",
}

func init() {
	for i := 1; i <= 12; i++ {
		name := fmt.Sprintf("f%d", i)
		keyAliases[name] = name
	}
}

// Parse parses a single key specification into a Chord.
//
// Supported formats:
//   - Single character: "b", "B" (shift+b), "]", "`"
//   - Key names: "Enter", "Esc", "Tab", "Space", "F5"
//   - Modifier style: "Ctrl+B", "ctrl+shift+]", "alt+s", "ctrl++"
//   - Vim style: "<C-b>", "<C-S-]>", "<A-s>", "C-b", "<CR>"
func Parse(spec string) (Chord, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Chord{}, ErrEmptySpec
	}

	if strings.HasPrefix(spec, "<") && strings.HasSuffix(spec, ">") && len(spec) > 2 {
		return parseVimStyle(spec[1 : len(spec)-1])
	}
	if len(spec) > 1 && strings.Contains(spec[:len(spec)-1], "+") {
		return parseModifierStyle(spec)
	}
	if len(spec) > 2 && spec[1] == '-' && vimModifiers[strings.ToLower(spec[:1])] != ModNone {
		return parseVimStyle(spec)
	}
	return parseSingle(spec)
}

// MustParse parses a key specification and panics on error.
// Use only for known-valid specs in initialization code.
func MustParse(spec string) Chord {
	c, err := Parse(spec)
	if err != nil {
		panic("invalid key specification: " + spec + ": " + err.Error())
	}
	return c
}

// splitLast splits s at the last sep, treating a trailing doubled separator
// ("ctrl++") as the separator key itself.
func splitLast(s string, sep byte) (mods []string, keyPart string) {
	if len(s) >= 2 && s[len(s)-1] == sep && s[len(s)-2] == sep {
		head := strings.TrimSuffix(s[:len(s)-2], string(sep))
		if head == "" {
			return nil, string(sep)
		}
		return strings.Split(head, string(sep)), string(sep)
	}
	parts := strings.Split(s, string(sep))
	return parts[:len(parts)-1], parts[len(parts)-1]
}

// parseVimStyle parses notation like "C-s", "C-S-]", "CR"
func parseVimStyle(inner string) (Chord, error) {
	inner = strings.TrimSpace(inner)
	if inner == "" {
		return Chord{}, ErrInvalidSpec
	}
	modParts, keyPart := splitLast(inner, '-')

	var mods Modifier
	for _, p := range modParts {
		mod, ok := vimModifiers[strings.ToLower(strings.TrimSpace(p))]
		if !ok {
			return Chord{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, p)
		}
		mods = mods.With(mod)
	}
	return parseKey(keyPart, mods)
}

// parseModifierStyle parses "Ctrl+S" style notation
func parseModifierStyle(spec string) (Chord, error) {
	modParts, keyPart := splitLast(spec, '+')

	var mods Modifier
	for _, p := range modParts {
		mod := ModifierFromName(p)
		if mod == ModNone {
			return Chord{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, p)
		}
		mods = mods.With(mod)
	}
	return parseKey(keyPart, mods)
}

// parseSingle parses a single character or key name. A bare uppercase
// letter carries an implicit shift.
func parseSingle(spec string) (Chord, error) {
	if utf8.RuneCountInString(spec) == 1 {
		r, _ := utf8.DecodeRuneInString(spec)
		if unicode.IsUpper(r) {
			return Chord{Mods: ModShift, Key: string(unicode.ToLower(r))}, nil
		}
		return Chord{Key: spec}, nil
	}
	return parseKey(spec, ModNone)
}

// parseKey resolves a key part with already-known modifiers. Letters are
// lowercased so "Ctrl+B" and "ctrl+b" are the same chord.
func parseKey(keyPart string, mods Modifier) (Chord, error) {
	keyPart = strings.TrimSpace(keyPart)
	if keyPart == "" {
		return Chord{}, ErrInvalidSpec
	}
	if name, ok := keyAliases[strings.ToLower(keyPart)]; ok {
		return Chord{Mods: mods, Key: name}, nil
	}
	if utf8.RuneCountInString(keyPart) == 1 {
		r, _ := utf8.DecodeRuneInString(keyPart)
		return Chord{Mods: mods, Key: string(unicode.ToLower(r))}, nil
	}
	return Chord{}, fmt.Errorf("%w: unknown key %q", ErrInvalidSpec, keyPart)
}
