package buffer

// mappedEdit is an edit together with its location after the batch.
type mappedEdit struct {
	old       Range
	newStart  Position
	newEnd    Position
	lineDelta int // cumulative line delta after this edit
}

// PositionMapper carries positions from pre-edit coordinates to the
// coordinates of the document after a batch has been applied.
//
// Transformation rules:
//   - A position at or after an edit's end moves with the edit's delta
//   - A position at or before an edit's start is unchanged by that edit
//   - A position strictly inside a replaced range moves to the end of the
//     new text
type PositionMapper struct {
	edits []mappedEdit
}

// NewPositionMapper prepares a mapper for the given batch.
// The batch must be valid (see BatchEdit.Validate).
func NewPositionMapper(batch *BatchEdit) *PositionMapper {
	sorted := batch.sortedAscending()
	m := &PositionMapper{edits: make([]mappedEdit, 0, len(sorted))}
	for _, e := range sorted {
		start := m.Map(e.Range.Start)
		end := textExtent(start, e.NewText)
		prevDelta := 0
		if n := len(m.edits); n > 0 {
			prevDelta = m.edits[n-1].lineDelta
		}
		m.edits = append(m.edits, mappedEdit{
			old:       e.Range,
			newStart:  start,
			newEnd:    end,
			lineDelta: prevDelta + (end.Line - start.Line) - (e.Range.End.Line - e.Range.Start.Line),
		})
	}
	return m
}

// Map returns where p ends up after the batch.
func (m *PositionMapper) Map(p Position) Position {
	var last *mappedEdit
	for i := range m.edits {
		e := &m.edits[i]
		if !e.old.End.After(p) {
			last = e
			continue
		}
		if e.old.Start.Before(p) {
			return e.newEnd
		}
		break
	}
	if last == nil {
		return p
	}
	if p.Line == last.old.End.Line {
		return Position{
			Line:      last.newEnd.Line,
			Character: last.newEnd.Character + p.Character - last.old.End.Character,
		}
	}
	return Position{Line: p.Line + last.lineDelta, Character: p.Character}
}

// NewRanges returns, in ascending document order, the range each edit
// occupies after the batch has been applied.
func (m *PositionMapper) NewRanges() []Range {
	result := make([]Range, len(m.edits))
	for i, e := range m.edits {
		result[i] = Range{Start: e.newStart, End: e.newEnd}
	}
	return result
}

// OldRanges returns the pre-edit ranges in ascending document order.
func (m *PositionMapper) OldRanges() []Range {
	result := make([]Range, len(m.edits))
	for i, e := range m.edits {
		result[i] = e.old
	}
	return result
}
