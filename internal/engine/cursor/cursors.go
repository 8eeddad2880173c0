package cursor

// SelectionSet manages multiple carets/selections in creation order.
// The first selection is considered the primary selection.
type SelectionSet struct {
	selections []Selection
}

// NewSelectionSet creates a set with a single selection.
func NewSelectionSet(initial Selection) *SelectionSet {
	return &SelectionSet{
		selections: []Selection{initial},
	}
}

// NewSelectionSetFromSlice creates a set from a slice of selections.
// An empty slice yields a single caret at (0:0).
func NewSelectionSetFromSlice(selections []Selection) *SelectionSet {
	s := &SelectionSet{}
	s.SetAll(selections)
	return s
}

// Primary returns the primary (first) selection.
func (s *SelectionSet) Primary() Selection {
	if len(s.selections) == 0 {
		return Selection{}
	}
	return s.selections[0]
}

// All returns a copy of all selections in creation order.
func (s *SelectionSet) All() []Selection {
	result := make([]Selection, len(s.selections))
	copy(result, s.selections)
	return result
}

// Count returns the number of selections.
func (s *SelectionSet) Count() int {
	return len(s.selections)
}

// IsMulti returns true if there are multiple selections.
func (s *SelectionSet) IsMulti() bool {
	return len(s.selections) > 1
}

// Get returns the selection at the given index.
// Returns an empty selection if index is out of range.
func (s *SelectionSet) Get(index int) Selection {
	if index < 0 || index >= len(s.selections) {
		return Selection{}
	}
	return s.selections[index]
}

// Add appends a selection unless an identical one already exists.
func (s *SelectionSet) Add(sel Selection) {
	for _, existing := range s.selections {
		if existing.Equals(sel) {
			return
		}
	}
	s.selections = append(s.selections, sel)
}

// Set replaces all selections with a single selection.
func (s *SelectionSet) Set(sel Selection) {
	s.selections = []Selection{sel}
}

// SetAll replaces all selections, keeping their order.
func (s *SelectionSet) SetAll(sels []Selection) {
	if len(sels) == 0 {
		s.selections = []Selection{NewCursorSelection(Position{})}
		return
	}
	s.selections = make([]Selection, len(sels))
	copy(s.selections, sels)
}

// Clear removes all selections except the primary one.
func (s *SelectionSet) Clear() {
	if len(s.selections) > 1 {
		s.selections = s.selections[:1]
	}
}

// HasSelection returns true if any selection is non-empty.
func (s *SelectionSet) HasSelection() bool {
	for _, sel := range s.selections {
		if !sel.IsEmpty() {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the set.
func (s *SelectionSet) Clone() *SelectionSet {
	return NewSelectionSetFromSlice(s.selections)
}

// Equals returns true if both sets hold the same selections in the same order.
func (s *SelectionSet) Equals(other *SelectionSet) bool {
	if other == nil || s.Count() != other.Count() {
		return false
	}
	for i, sel := range s.selections {
		if !sel.Equals(other.selections[i]) {
			return false
		}
	}
	return true
}
