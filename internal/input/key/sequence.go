package key

import "strings"

// Sequence is one or more chords pressed in order.
type Sequence struct {
	Chords []Chord
}

// NewSequence creates a sequence from the given chords.
func NewSequence(chords ...Chord) *Sequence {
	return &Sequence{Chords: chords}
}

// ParseSequence parses a whitespace separated list of key specifications.
func ParseSequence(spec string) (*Sequence, error) {
	fields := strings.Fields(spec)
	if len(fields) == 0 {
		return nil, ErrEmptySpec
	}
	seq := &Sequence{Chords: make([]Chord, 0, len(fields))}
	for _, f := range fields {
		c, err := Parse(f)
		if err != nil {
			return nil, err
		}
		seq.Chords = append(seq.Chords, c)
	}
	return seq, nil
}

// Normalize parses spec and returns its canonical form.
func Normalize(spec string) (string, error) {
	seq, err := ParseSequence(spec)
	if err != nil {
		return "", err
	}
	return seq.String(), nil
}

// Len returns the number of chords.
func (s *Sequence) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Chords)
}

// IsEmpty returns true if the sequence has no chords.
func (s *Sequence) IsEmpty() bool {
	return s.Len() == 0
}

// Add appends a chord.
func (s *Sequence) Add(c Chord) {
	s.Chords = append(s.Chords, c)
}

// Clear removes all chords.
func (s *Sequence) Clear() {
	s.Chords = s.Chords[:0]
}

// String returns the canonical form, chords joined by spaces.
func (s *Sequence) String() string {
	if s.IsEmpty() {
		return ""
	}
	parts := make([]string, len(s.Chords))
	for i, c := range s.Chords {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

// Equals reports whether both sequences hold the same chords.
func (s *Sequence) Equals(other *Sequence) bool {
	if s.Len() != other.Len() {
		return false
	}
	for i := range s.Chords {
		if s.Chords[i] != other.Chords[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether prefix is a proper or equal prefix of s.
func (s *Sequence) HasPrefix(prefix *Sequence) bool {
	if prefix.Len() > s.Len() {
		return false
	}
	for i := 0; i < prefix.Len(); i++ {
		if s.Chords[i] != prefix.Chords[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the sequence.
func (s *Sequence) Clone() *Sequence {
	if s == nil {
		return nil
	}
	chords := make([]Chord, len(s.Chords))
	copy(chords, s.Chords)
	return &Sequence{Chords: chords}
}
