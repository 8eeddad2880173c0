package keymap

import (
	"github.com/dshills/markstyle/internal/input"
	"github.com/dshills/markstyle/internal/input/key"
)

// Binding represents a single key-to-action mapping.
type Binding struct {
	// Keys is the key sequence that triggers this binding.
	// Formats: "ctrl+b", "Ctrl+B", "<C-b>", "ctrl+k ctrl+b"
	Keys string `yaml:"keys"`

	// Action is the command to execute, e.g. "markdown.toggleBold".
	Action string `yaml:"action"`

	// Args are fixed arguments for the action.
	Args map[string]any `yaml:"args,omitempty"`

	// When is a condition expression that must be true for this binding.
	When string `yaml:"when,omitempty"`

	// Description provides documentation for the binding.
	Description string `yaml:"description,omitempty"`

	// Priority determines precedence when multiple bindings match.
	// Higher priority wins. Default is 0.
	Priority int `yaml:"priority,omitempty"`

	// Category groups bindings for display purposes.
	Category string `yaml:"category,omitempty"`
}

// NewBinding creates a new binding with the given keys and action.
func NewBinding(keys, action string) Binding {
	return Binding{
		Keys:   keys,
		Action: action,
	}
}

// WithArgs sets arguments for this binding.
func (b Binding) WithArgs(args map[string]any) Binding {
	b.Args = args
	return b
}

// WithWhen sets the condition for this binding.
func (b Binding) WithWhen(when string) Binding {
	b.When = when
	return b
}

// WithDescription sets the description for this binding.
func (b Binding) WithDescription(desc string) Binding {
	b.Description = desc
	return b
}

// WithPriority sets the priority for this binding.
func (b Binding) WithPriority(priority int) Binding {
	b.Priority = priority
	return b
}

// WithCategory sets the category for this binding.
func (b Binding) WithCategory(category string) Binding {
	b.Category = category
	return b
}

// ToAction builds the action this binding triggers.
func (b Binding) ToAction() input.Action {
	a := input.NewAction(b.Action, input.SourceKeyboard)
	for k, v := range b.Args {
		a = a.WithArg(k, v)
	}
	return a
}

// ParsedBinding is a binding with a pre-parsed key sequence.
type ParsedBinding struct {
	Binding
	Sequence *key.Sequence
}

// Match checks if this binding's key sequence matches the given sequence.
func (pb *ParsedBinding) Match(seq *key.Sequence) bool {
	if pb == nil || pb.Sequence == nil || seq == nil {
		return false
	}
	return pb.Sequence.Equals(seq)
}

// BindingMatch represents a matched binding with its keymap.
type BindingMatch struct {
	*ParsedBinding

	// Keymap is the keymap containing the binding.
	Keymap *Keymap

	// Score is used for sorting matches by priority.
	Score int

	// seq is the registration sequence number of the keymap.
	seq int
}

// Less returns true if this match should come before another.
func (bm BindingMatch) Less(other BindingMatch) bool {
	if bm.Score != other.Score {
		return bm.Score > other.Score
	}
	return bm.seq > other.seq
}

// calculateScore combines keymap and binding priority.
func (bm *BindingMatch) calculateScore() {
	if bm.Keymap == nil || bm.ParsedBinding == nil {
		bm.Score = 0
		return
	}
	bm.Score = bm.Keymap.Priority*100 + bm.ParsedBinding.Priority
	if bm.Keymap.FileType != "" {
		bm.Score += 25
	}
}

// BindingCategory represents a category of bindings for display.
type BindingCategory struct {
	Name     string
	Bindings []Binding
}

// GroupByCategory groups bindings by their category, keeping first-seen
// order.
func GroupByCategory(bindings []Binding) []BindingCategory {
	categoryMap := make(map[string][]Binding)
	order := make([]string, 0)

	for _, b := range bindings {
		cat := b.Category
		if cat == "" {
			cat = "Other"
		}
		if _, exists := categoryMap[cat]; !exists {
			order = append(order, cat)
		}
		categoryMap[cat] = append(categoryMap[cat], b)
	}

	result := make([]BindingCategory, 0, len(order))
	for _, name := range order {
		result = append(result, BindingCategory{
			Name:     name,
			Bindings: categoryMap[name],
		})
	}
	return result
}
