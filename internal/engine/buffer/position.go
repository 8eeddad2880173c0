package buffer

import (
	"fmt"
	"sync/atomic"
)

// Position is a line and character coordinate in a document.
// Both Line and Character are 0-indexed; Character counts runes.
// Position is an immutable value type.
type Position struct {
	Line      int
	Character int
}

// Pos is shorthand for Position{Line: line, Character: character}.
func Pos(line, character int) Position {
	return Position{Line: line, Character: character}
}

// String returns a human-readable representation of the position.
func (p Position) String() string {
	return fmt.Sprintf("(%d:%d)", p.Line, p.Character)
}

// Compare returns -1 if p < other, 0 if p == other, 1 if p > other.
func (p Position) Compare(other Position) int {
	if p.Line < other.Line {
		return -1
	}
	if p.Line > other.Line {
		return 1
	}
	if p.Character < other.Character {
		return -1
	}
	if p.Character > other.Character {
		return 1
	}
	return 0
}

// Before returns true if p comes before other.
func (p Position) Before(other Position) bool {
	return p.Compare(other) < 0
}

// After returns true if p comes after other.
func (p Position) After(other Position) bool {
	return p.Compare(other) > 0
}

// Translate returns a position on the same line moved by delta characters.
// The character never goes below zero.
func (p Position) Translate(delta int) Position {
	c := p.Character + delta
	if c < 0 {
		c = 0
	}
	return Position{Line: p.Line, Character: c}
}

// WithCharacter returns a position on the same line at the given character.
func (p Position) WithCharacter(character int) Position {
	if character < 0 {
		character = 0
	}
	return Position{Line: p.Line, Character: character}
}

// IsValid returns true if both coordinates are non-negative.
func (p Position) IsValid() bool {
	return p.Line >= 0 && p.Character >= 0
}

// RevisionID uniquely identifies a buffer revision.
// Each applied batch creates a new revision.
type RevisionID uint64

var revisionCounter uint64

// NewRevisionID generates a new unique revision ID.
func NewRevisionID() RevisionID {
	return RevisionID(atomic.AddUint64(&revisionCounter, 1))
}
