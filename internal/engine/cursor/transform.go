package cursor

import "github.com/dshills/markstyle/internal/engine/buffer"

// TransformSelection carries a selection through an applied batch.
// Anchor and active are transformed independently; positions touching the
// end of an edit move with it.
func TransformSelection(sel Selection, m *buffer.PositionMapper) Selection {
	return Selection{
		Anchor: m.Map(sel.Anchor),
		Active: m.Map(sel.Active),
	}
}

// TransformSelections carries every selection through the batch, keeping
// their order.
func TransformSelections(sels []Selection, batch *buffer.BatchEdit) []Selection {
	m := buffer.NewPositionMapper(batch)
	result := make([]Selection, len(sels))
	for i, sel := range sels {
		result[i] = TransformSelection(sel, m)
	}
	return result
}
