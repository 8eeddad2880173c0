package keymap

// Action names bound by the default keymap.
const (
	ActionToggleBold          = "markdown.toggleBold"
	ActionToggleItalic        = "markdown.toggleItalic"
	ActionToggleCodeSpan      = "markdown.toggleCodeSpan"
	ActionToggleStrikethrough = "markdown.toggleStrikethrough"
	ActionHeadingUp           = "markdown.headingUp"
	ActionHeadingDown         = "markdown.headingDown"
	ActionUndo                = "editor.undo"
	ActionRedo                = "editor.redo"
	ActionSave                = "file.save"
)

// LoadDefaults loads all default keymaps into the registry.
func LoadDefaults(r *Registry) error {
	keymaps := []*Keymap{
		DefaultMarkdownKeymap(),
		DefaultEditorKeymap(),
		DefaultFileKeymap(),
	}

	for _, km := range keymaps {
		if err := r.Register(km); err != nil {
			return err
		}
	}

	return nil
}

// DefaultMarkdownKeymap returns the style toggle and heading bindings.
func DefaultMarkdownKeymap() *Keymap {
	return &Keymap{
		Name:   "default-markdown",
		Source: "default",
		Bindings: []Binding{
			{Keys: "ctrl+b", Action: ActionToggleBold, When: "!readonly", Description: "Toggle bold", Category: "Style"},
			{Keys: "ctrl+i", Action: ActionToggleItalic, When: "!readonly", Description: "Toggle italic", Category: "Style"},
			{Keys: "ctrl+`", Action: ActionToggleCodeSpan, When: "!readonly", Description: "Toggle code span", Category: "Style"},
			{Keys: "alt+s", Action: ActionToggleStrikethrough, When: "!readonly", Description: "Toggle strikethrough", Category: "Style"},
			{Keys: "ctrl+shift+]", Action: ActionHeadingUp, When: "!readonly", Description: "Increase heading level", Category: "Heading"},
			{Keys: "ctrl+shift+[", Action: ActionHeadingDown, When: "!readonly", Description: "Decrease heading level", Category: "Heading"},
		},
	}
}

// DefaultEditorKeymap returns undo and redo bindings.
func DefaultEditorKeymap() *Keymap {
	return &Keymap{
		Name:   "default-editor",
		Source: "default",
		Bindings: []Binding{
			{Keys: "ctrl+z", Action: ActionUndo, Description: "Undo", Category: "Edit"},
			{Keys: "ctrl+shift+z", Action: ActionRedo, Description: "Redo", Category: "Edit"},
			{Keys: "ctrl+y", Action: ActionRedo, Description: "Redo", Category: "Edit"},
		},
	}
}

// DefaultFileKeymap returns the save binding.
func DefaultFileKeymap() *Keymap {
	return &Keymap{
		Name:   "default-file",
		Source: "default",
		Bindings: []Binding{
			{Keys: "ctrl+s", Action: ActionSave, Description: "Save the document", Category: "File"},
		},
	}
}
