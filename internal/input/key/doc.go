// Package key parses and normalizes key specifications.
//
// A Chord is one key press with its modifiers. A Sequence is one or more
// chords separated by spaces, such as "ctrl+k ctrl+b". Several notations
// are accepted:
//
//	ctrl+b  Ctrl+B  C-b  <C-b>      all parse to ctrl+b
//	ctrl+shift+]    <C-S-]>         parse to ctrl+shift+]
//	alt+s   <A-s>   option+s        parse to alt+s
//
// Chord.String returns the canonical lowercase "+" form, which is what
// keymaps index on.
package key
