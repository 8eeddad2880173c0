package keymap

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Loader loads keymaps from YAML files.
type Loader struct {
	// searchPaths are directories to search for keymap files.
	searchPaths []string
}

// NewLoader creates a new keymap loader.
func NewLoader() *Loader {
	return &Loader{
		searchPaths: make([]string, 0),
	}
}

// AddSearchPath adds a directory to search for keymap files.
func (l *Loader) AddSearchPath(path string) {
	l.searchPaths = append(l.searchPaths, path)
}

// LoadFile loads a keymap from a YAML file. A keymap without a name is
// named after the file.
func (l *Loader) LoadFile(path string) (*Keymap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening keymap file: %w", err)
	}
	defer f.Close()

	km, err := l.LoadReader(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if km.Name == "" {
		base := filepath.Base(path)
		km.Name = base[:len(base)-len(filepath.Ext(base))]
	}
	if km.Source == "" {
		km.Source = "user"
	}
	return km, nil
}

// LoadReader loads a keymap from a reader.
func (l *Loader) LoadReader(r io.Reader) (*Keymap, error) {
	var km Keymap
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&km); err != nil {
		return nil, fmt.Errorf("decoding keymap: %w", err)
	}
	if km.Bindings == nil {
		km.Bindings = make([]Binding, 0)
	}
	if err := km.Validate(); err != nil {
		return nil, fmt.Errorf("keymap %q: %w", km.Name, err)
	}
	return &km, nil
}

// LoadAll loads all *.yaml and *.yml keymaps from the search paths.
// Files that fail to load are returned as errors alongside the keymaps
// that did load.
func (l *Loader) LoadAll() ([]*Keymap, []error) {
	keymaps := make([]*Keymap, 0)
	var errs []error

	for _, dir := range l.searchPaths {
		for _, pattern := range []string{"*.yaml", "*.yml"} {
			matches, err := filepath.Glob(filepath.Join(dir, pattern))
			if err != nil {
				continue
			}
			for _, path := range matches {
				km, err := l.LoadFile(path)
				if err != nil {
					errs = append(errs, err)
					continue
				}
				keymaps = append(keymaps, km)
			}
		}
	}

	return keymaps, errs
}

// LoadAndRegister loads all keymaps and registers them. User keymaps get
// priority 1 unless they set one, so they override the defaults.
func (l *Loader) LoadAndRegister(registry *Registry) error {
	keymaps, errs := l.LoadAll()
	if len(errs) > 0 {
		return errs[0]
	}

	for _, km := range keymaps {
		if km.Priority == 0 {
			km.Priority = 1
		}
		if err := registry.Register(km); err != nil {
			return fmt.Errorf("registering keymap %q: %w", km.Name, err)
		}
	}

	return nil
}

// MarshalYAMLBytes converts a keymap to YAML.
func (k *Keymap) MarshalYAMLBytes() ([]byte, error) {
	return yaml.Marshal(k)
}

// SaveFile saves a keymap to a YAML file.
func (k *Keymap) SaveFile(path string) error {
	data, err := k.MarshalYAMLBytes()
	if err != nil {
		return fmt.Errorf("marshaling keymap: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing keymap file: %w", err)
	}

	return nil
}
