package keymap

import (
	"errors"
	"fmt"
	"maps"
	"strings"

	"github.com/dshills/markstyle/internal/input/key"
)

// Keymap holds key bindings for a context.
type Keymap struct {
	// Name is the keymap identifier.
	Name string `yaml:"name"`

	// FileType restricts this keymap to a specific file type.
	// Empty string means all file types.
	FileType string `yaml:"filetype,omitempty"`

	// Bindings are the key-to-action mappings.
	Bindings []Binding `yaml:"bindings"`

	// Priority determines precedence when multiple keymaps match.
	// Higher priority wins. Default is 0.
	Priority int `yaml:"priority,omitempty"`

	// Source indicates where this keymap was defined.
	// Examples: "default", "user", "plugin:tables"
	Source string `yaml:"source,omitempty"`
}

// NewKeymap creates a new keymap with the given name.
func NewKeymap(name string) *Keymap {
	return &Keymap{
		Name:     name,
		Bindings: make([]Binding, 0),
	}
}

// ForFileType sets the file type for this keymap.
func (k *Keymap) ForFileType(fileType string) *Keymap {
	k.FileType = fileType
	return k
}

// WithPriority sets the priority for this keymap.
func (k *Keymap) WithPriority(priority int) *Keymap {
	k.Priority = priority
	return k
}

// WithSource sets the source for this keymap.
func (k *Keymap) WithSource(source string) *Keymap {
	k.Source = source
	return k
}

// Add adds a binding to this keymap.
func (k *Keymap) Add(keys, action string) *Keymap {
	k.Bindings = append(k.Bindings, NewBinding(keys, action))
	return k
}

// AddBinding adds a fully configured binding to this keymap.
func (k *Keymap) AddBinding(binding Binding) *Keymap {
	k.Bindings = append(k.Bindings, binding)
	return k
}

// ErrInvalidBinding is wrapped by every Validate failure.
var ErrInvalidBinding = errors.New("invalid binding")

// Validate reports every binding that has no keys, unparsable keys, or an
// action outside a "namespace.action" name.
func (k *Keymap) Validate() error {
	var errs []error
	for i, b := range k.Bindings {
		switch {
		case b.Keys == "":
			errs = append(errs, fmt.Errorf("%w %d: empty keys", ErrInvalidBinding, i))
			continue
		case b.Action == "":
			errs = append(errs, fmt.Errorf("%w %d (%s): empty action", ErrInvalidBinding, i, b.Keys))
		case !strings.Contains(strings.Trim(b.Action, "."), "."):
			errs = append(errs, fmt.Errorf("%w %d (%s): action %q has no namespace", ErrInvalidBinding, i, b.Keys, b.Action))
		}
		if _, err := key.ParseSequence(b.Keys); err != nil {
			errs = append(errs, fmt.Errorf("%w %d (%s): %w", ErrInvalidBinding, i, b.Keys, err))
		}
	}
	return errors.Join(errs...)
}

// ParsedKeymap is a keymap with pre-parsed key sequences.
type ParsedKeymap struct {
	*Keymap
	ParsedBindings []ParsedBinding
}

// Parse parses all bindings in the keymap.
func (k *Keymap) Parse() (*ParsedKeymap, error) {
	parsed := &ParsedKeymap{
		Keymap:         k,
		ParsedBindings: make([]ParsedBinding, 0, len(k.Bindings)),
	}

	for _, b := range k.Bindings {
		if b.Action == "" {
			return nil, fmt.Errorf("parsing %q: empty action", b.Keys)
		}
		seq, err := key.ParseSequence(b.Keys)
		if err != nil {
			return nil, fmt.Errorf("parsing %q: %w", b.Keys, err)
		}
		parsed.ParsedBindings = append(parsed.ParsedBindings, ParsedBinding{
			Binding:  b,
			Sequence: seq,
		})
	}

	return parsed, nil
}

// Clone creates a deep copy of the keymap.
func (k *Keymap) Clone() *Keymap {
	clone := &Keymap{
		Name:     k.Name,
		FileType: k.FileType,
		Priority: k.Priority,
		Source:   k.Source,
		Bindings: make([]Binding, len(k.Bindings)),
	}
	copy(clone.Bindings, k.Bindings)
	for i, b := range k.Bindings {
		if b.Args != nil {
			clone.Bindings[i].Args = maps.Clone(b.Args)
		}
	}
	return clone
}
