// Package input turns user input into actions for the dispatcher.
//
// An Action names a command in "namespace.name" form, for example
// "markdown.toggleBold", and carries the arguments and repeat count the
// command needs. Actions are produced by the keymap registry when a key
// sequence matches a binding, by Lua plugins and by the command line.
//
// # Key Sequences
//
// Key specifications are parsed by package key. Both "ctrl+shift+]" and
// "<C-S-]>" notations are accepted and normalize to the same chord, so
// user keymaps may use either form.
//
// # Keymaps
//
// Package keymap holds bindings from key sequences to action names. The
// default keymap binds the four inline styles and the heading cycle:
//
//	ctrl+b         markdown.toggleBold
//	ctrl+i         markdown.toggleItalic
//	ctrl+`         markdown.toggleCodeSpan
//	alt+s          markdown.toggleStrikethrough
//	ctrl+shift+]   markdown.headingUp
//	ctrl+shift+[   markdown.headingDown
package input
