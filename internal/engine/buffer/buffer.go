package buffer

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"unicode/utf8"
)

// Errors returned by buffer operations.
var (
	ErrPositionOutOfRange = errors.New("position out of range")
	ErrRangeInvalid       = errors.New("invalid range")
	ErrEditsOverlap       = errors.New("edits overlap")
)

// DefaultWordDelimiters are the markup characters that never belong to a word.
const DefaultWordDelimiters = "*_`~"

// Document is the read-only view of a document consumed by the toggle engine.
type Document interface {
	// LineCount returns the number of lines (at least 1).
	LineCount() int

	// LineText returns the text of a line without its terminator.
	// Out-of-range lines return "".
	LineText(line int) string

	// TextRange returns the text covered by r, joining lines with "\n".
	TextRange(r Range) string

	// WordRangeAt returns the word touching p, if any.
	WordRangeAt(p Position) (Range, bool)
}

// LineEnding specifies the line ending style.
type LineEnding uint8

const (
	LineEndingLF   LineEnding = iota // Unix: \n
	LineEndingCRLF                   // Windows: \r\n
	LineEndingCR                     // Old Mac: \r
)

// String returns the string representation of the line ending.
func (le LineEnding) String() string {
	switch le {
	case LineEndingCRLF:
		return "\\r\\n"
	case LineEndingCR:
		return "\\r"
	default:
		return "\\n"
	}
}

// Sequence returns the actual line ending characters.
func (le LineEnding) Sequence() string {
	switch le {
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingCR:
		return "\r"
	default:
		return "\n"
	}
}

// DetectLineEnding returns the most common line ending in the text.
// Returns LineEndingLF if no line endings are found.
func DetectLineEnding(text string) LineEnding {
	var lfCount, crlfCount, crCount int

	for i := 0; i < len(text); i++ {
		switch {
		case text[i] == '\r' && i+1 < len(text) && text[i+1] == '\n':
			crlfCount++
			i++
		case text[i] == '\r':
			crCount++
		case text[i] == '\n':
			lfCount++
		}
	}

	if crlfCount > 0 && crlfCount >= lfCount && crlfCount >= crCount {
		return LineEndingCRLF
	}
	if crCount > 0 && crCount >= lfCount && crCount >= crlfCount {
		return LineEndingCR
	}
	return LineEndingLF
}

// normalizeLineEndings converts all line endings to LF.
func normalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// Option is a functional option for configuring a Buffer.
type Option func(*Buffer)

// WithLineEnding sets the line ending used when rendering Text().
func WithLineEnding(le LineEnding) Option {
	return func(b *Buffer) {
		b.lineEnding = le
	}
}

// WithWordDelimiters sets the characters excluded from word ranges.
func WithWordDelimiters(delims string) Option {
	return func(b *Buffer) {
		b.delimiters = delims
	}
}

// Buffer is a line-oriented text buffer.
// All methods are thread-safe.
type Buffer struct {
	mu         sync.RWMutex
	lines      []string
	revisionID RevisionID
	lineEnding LineEnding
	delimiters string
}

// NewBuffer creates a new empty buffer.
func NewBuffer(opts ...Option) *Buffer {
	b := &Buffer{
		lines:      []string{""},
		revisionID: NewRevisionID(),
		lineEnding: LineEndingLF,
		delimiters: DefaultWordDelimiters,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewBufferFromString creates a buffer with initial content.
func NewBufferFromString(s string, opts ...Option) *Buffer {
	b := NewBuffer(opts...)
	b.lines = strings.Split(normalizeLineEndings(s), "\n")
	return b
}

// NewBufferFromReader creates a buffer from an io.Reader.
// The line ending is detected from the content unless an option sets one.
func NewBufferFromReader(r io.Reader, opts ...Option) (*Buffer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	text := string(data)
	opts = append([]Option{WithLineEnding(DetectLineEnding(text))}, opts...)
	return NewBufferFromString(text, opts...), nil
}

// Read Operations

// Text returns the full buffer content rendered with the buffer's line ending.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return strings.Join(b.lines, b.lineEnding.Sequence())
}

// Lines returns a copy of all lines.
func (b *Buffer) Lines() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	result := make([]string, len(b.lines))
	copy(result, b.lines)
	return result
}

// LineCount returns the number of lines.
func (b *Buffer) LineCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.lines)
}

// LineText returns the text of a specific line.
func (b *Buffer) LineText(line int) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return lineAt(b.lines, line)
}

// TextRange returns the text covered by r.
func (b *Buffer) TextRange(r Range) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return textRange(b.lines, r)
}

// WordRangeAt returns the word touching p.
func (b *Buffer) WordRangeAt(p Position) (Range, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return wordRangeAt(lineAt(b.lines, p.Line), p, b.delimiters)
}

// ClampPosition returns p clamped to the buffer contents.
func (b *Buffer) ClampPosition(p Position) Position {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return clampPosition(b.lines, p)
}

// RevisionID returns the current revision ID.
func (b *Buffer) RevisionID() RevisionID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revisionID
}

// LineEnding returns the buffer's line ending style.
func (b *Buffer) LineEnding() LineEnding {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lineEnding
}

// Snapshot returns a read-only snapshot of the current buffer state.
// Safe for concurrent access from other goroutines.
func (b *Buffer) Snapshot() *Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	lines := make([]string, len(b.lines))
	copy(lines, b.lines)
	return &Snapshot{
		lines:      lines,
		revisionID: b.revisionID,
		delimiters: b.delimiters,
	}
}

// Write Operations

// ApplyBatch applies every edit of the batch atomically.
// Either all edits are applied or, on error, the buffer is unchanged.
func (b *Buffer) ApplyBatch(batch *BatchEdit) error {
	if batch == nil || batch.IsEmpty() {
		return nil
	}
	if err := batch.Validate(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	sorted := batch.sortedAscending()
	for _, e := range sorted {
		if err := checkRange(b.lines, e.Range); err != nil {
			return err
		}
	}

	lines := make([]string, len(b.lines))
	copy(lines, b.lines)
	for i := len(sorted) - 1; i >= 0; i-- {
		lines = applyEdit(lines, sorted[i])
	}

	b.lines = lines
	b.revisionID = NewRevisionID()
	return nil
}

// Snapshot is an immutable view of a buffer at one revision.
type Snapshot struct {
	lines      []string
	revisionID RevisionID
	delimiters string
}

// LineCount returns the number of lines.
func (s *Snapshot) LineCount() int {
	return len(s.lines)
}

// LineText returns the text of a specific line.
func (s *Snapshot) LineText(line int) string {
	return lineAt(s.lines, line)
}

// TextRange returns the text covered by r.
func (s *Snapshot) TextRange(r Range) string {
	return textRange(s.lines, r)
}

// WordRangeAt returns the word touching p.
func (s *Snapshot) WordRangeAt(p Position) (Range, bool) {
	return wordRangeAt(lineAt(s.lines, p.Line), p, s.delimiters)
}

// Text returns the snapshot content joined with "\n".
func (s *Snapshot) Text() string {
	return strings.Join(s.lines, "\n")
}

// RevisionID returns the revision this snapshot was taken at.
func (s *Snapshot) RevisionID() RevisionID {
	return s.revisionID
}

// Helpers shared by Buffer and Snapshot.

func lineAt(lines []string, line int) string {
	if line < 0 || line >= len(lines) {
		return ""
	}
	return lines[line]
}

// sliceRunes returns runes [from, to) of s, clamping both bounds.
func sliceRunes(s string, from, to int) string {
	n := utf8.RuneCountInString(s)
	if from < 0 {
		from = 0
	}
	if to > n {
		to = n
	}
	if from >= to {
		return ""
	}
	start, end := len(s), len(s)
	i := 0
	for byteIdx := range s {
		if i == from {
			start = byteIdx
		}
		if i == to {
			end = byteIdx
			break
		}
		i++
	}
	return s[start:end]
}

func textRange(lines []string, r Range) string {
	if r.IsEmpty() || !r.IsValid() {
		return ""
	}
	if r.IsSingleLine() {
		return sliceRunes(lineAt(lines, r.Start.Line), r.Start.Character, r.End.Character)
	}
	var sb strings.Builder
	first := lineAt(lines, r.Start.Line)
	sb.WriteString(sliceRunes(first, r.Start.Character, utf8.RuneCountInString(first)))
	for line := r.Start.Line + 1; line < r.End.Line; line++ {
		sb.WriteByte('\n')
		sb.WriteString(lineAt(lines, line))
	}
	sb.WriteByte('\n')
	sb.WriteString(sliceRunes(lineAt(lines, r.End.Line), 0, r.End.Character))
	return sb.String()
}

func clampPosition(lines []string, p Position) Position {
	if p.Line < 0 {
		return Position{}
	}
	if p.Line >= len(lines) {
		last := len(lines) - 1
		return Position{Line: last, Character: utf8.RuneCountInString(lines[last])}
	}
	n := utf8.RuneCountInString(lines[p.Line])
	if p.Character < 0 {
		p.Character = 0
	}
	if p.Character > n {
		p.Character = n
	}
	return p
}

func checkPosition(lines []string, p Position) error {
	if p.Line < 0 || p.Line >= len(lines) || p.Character < 0 ||
		p.Character > utf8.RuneCountInString(lines[p.Line]) {
		return fmt.Errorf("%w: %s", ErrPositionOutOfRange, p)
	}
	return nil
}

func checkRange(lines []string, r Range) error {
	if err := checkPosition(lines, r.Start); err != nil {
		return err
	}
	return checkPosition(lines, r.End)
}

// applyEdit returns lines with a single validated edit applied.
func applyEdit(lines []string, e TextEdit) []string {
	first := lines[e.Range.Start.Line]
	last := lines[e.Range.End.Line]
	head := sliceRunes(first, 0, e.Range.Start.Character)
	tail := sliceRunes(last, e.Range.End.Character, utf8.RuneCountInString(last))

	replacement := strings.Split(head+normalizeLineEndings(e.NewText)+tail, "\n")

	result := make([]string, 0, len(lines)-(e.Range.End.Line-e.Range.Start.Line)+len(replacement)-1)
	result = append(result, lines[:e.Range.Start.Line]...)
	result = append(result, replacement...)
	result = append(result, lines[e.Range.End.Line+1:]...)
	return result
}
