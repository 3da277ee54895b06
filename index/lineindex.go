package index

// initialIndexCapacity is the initial capacity reservation for a fresh
// index, chosen to avoid early reallocations on typical files.
const initialIndexCapacity = 1024

// LineIndex is an appendable ordered sequence of LogLine with amortized
// O(1) push, O(1) pop-back, and O(1) random access.
type LineIndex struct {
	lines []LogLine
}

// NewLineIndex returns an empty index with capacity reserved up front.
func NewLineIndex() *LineIndex {
	return &LineIndex{lines: make([]LogLine, 0, initialIndexCapacity)}
}

// Len returns the number of entries currently indexed.
func (idx *LineIndex) Len() int { return len(idx.lines) }

// At returns the entry at position i.
func (idx *LineIndex) At(i int) LogLine { return idx.lines[i] }

// SetAt overwrites the entry at position i.
func (idx *LineIndex) SetAt(i int, l LogLine) { idx.lines[i] = l }

// Last returns the final entry and true, or the zero value and false if
// the index is empty.
func (idx *LineIndex) Last() (LogLine, bool) {
	if len(idx.lines) == 0 {
		return LogLine{}, false
	}
	return idx.lines[len(idx.lines)-1], true
}

// Push appends a new entry.
func (idx *LineIndex) Push(l LogLine) { idx.lines = append(idx.lines, l) }

// PopBack removes and returns the final entry.
func (idx *LineIndex) PopBack() LogLine {
	n := len(idx.lines) - 1
	l := idx.lines[n]
	idx.lines = idx.lines[:n]
	return l
}

// TruncateTail pops every trailing continuation entry (CONTINUED flag set)
// plus the anchor that precedes them, returning the anchor's offset and
// the number of entries removed. It is a no-op (rollbackCount 0) on an
// empty index.
func (idx *LineIndex) TruncateTail() (anchorOffset int64, rollbackCount int) {
	if len(idx.lines) == 0 {
		return 0, 0
	}
	last := idx.lines[len(idx.lines)-1]
	for last.IsContinued() {
		idx.lines = idx.lines[:len(idx.lines)-1]
		rollbackCount++
		if len(idx.lines) == 0 {
			// Degenerate: continuation without its anchor present.
			return 0, rollbackCount
		}
		last = idx.lines[len(idx.lines)-1]
	}
	// Pop the anchor itself.
	anchorOffset = last.Offset
	idx.lines = idx.lines[:len(idx.lines)-1]
	rollbackCount++
	return anchorOffset, rollbackCount
}

// All returns the live backing slice; callers must not retain it across a
// mutating call.
func (idx *LineIndex) All() []LogLine { return idx.lines }
