// Package keymap maps key sequences to action names.
//
// # Key Concepts
//
// Keymap: A named collection of bindings, optionally restricted to a file
// type such as "markdown".
//
// Binding: Maps a key sequence to an action with an optional condition.
//
// Registry: Holds all keymaps and resolves a key sequence to the binding
// that should run.
//
// # Binding Precedence
//
// When multiple bindings match a key sequence, precedence is determined by:
//  1. Keymap priority times 100 plus binding priority (higher wins)
//  2. Specificity (file-type keymaps beat global ones)
//  3. Registration order (later wins)
//
// # Conditional Bindings
//
// A binding's When expression is checked against the lookup context:
//
//	Binding{
//	    Keys:   "ctrl+b",
//	    Action: "markdown.toggleBold",
//	    When:   "!readonly",
//	}
//
// The evaluator supports names, "!", "&&", "||" and "var == value".
//
// # Usage
//
//	registry := keymap.NewRegistry()
//	if err := keymap.LoadDefaults(registry); err != nil {
//	    return err
//	}
//	seq, _ := key.ParseSequence("ctrl+b")
//	if b := registry.Lookup(seq, nil); b != nil {
//	    // dispatch b.Action
//	}
//
// Keymaps can also be loaded from YAML files with Loader.
package keymap
