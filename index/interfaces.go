package index

// FileRange is a byte range [Offset, Offset+Length) in the logical
// (decompressed) stream.
type FileRange struct {
	Offset int64
	Length int64
}

// Empty reports whether the range carries no bytes, the EOF signal from
// LineBuffer.LoadNextLine.
func (r FileRange) Empty() bool { return r.Length == 0 }

// LineInfo describes one physical line as reported by a LineBuffer.
type LineInfo struct {
	Range    FileRange
	Partial  bool // true if the terminating newline has not yet been observed
	ValidUTF bool
}

// Bytes is the read-range payload handed to format recognizers and to the
// message-extraction path: a byte-slice-first API, avoiding string
// conversions on the hot path.
type Bytes interface {
	Data() []byte
	Len() int
	RTrim(pred func(byte) bool)
	Writable() []byte
}

// LineBuffer abstracts a byte-range reader over plain or compressed files.
// The core consumes it; it never constructs one directly except through
// OpenOptions.
type LineBuffer interface {
	SetFD(fd int)
	FD() int
	IsDataAvailable(fromOffset, fileSize int64) bool
	LoadNextLine(prevRange FileRange) (LineInfo, error)
	ReadRange(r FileRange) (Bytes, error)
	Available() FileRange
	ReadOffset(logicalOffset int64) int64
	FileTime() int64 // seconds, zero if unknown
	Clear()
}

// ScanResult is the outcome of a format recognizer's Scan call.
type ScanResult int

const (
	ScanNoMatch ScanResult = iota
	ScanMatch
	ScanIncomplete
)

// Format is the pluggable log-format recognizer the detection driver
// iterates over. A locked Format is "specialized" to exactly one LogFile.
type Format interface {
	MatchName(filename string) bool
	Clear()
	Specialized() Format
	Scan(lf *LogFile, idx *LineIndex, li LineInfo, data Bytes) ScanResult
	GetSubline(line LogLine, data Bytes, expandContinues bool) []byte
	Name() string
	TimeOrdered() bool
	SetBaseTime(seconds int64)
}

// LoglineObserver receives per-line notifications during RebuildIndex.
type LoglineObserver interface {
	LoglineRestart(lf *LogFile, rollbackCount int)
	LoglineNewLine(lf *LogFile, iter int, data Bytes)
	LoglineEOF(lf *LogFile)
}

// LogfileObserver receives coarse progress notifications.
type LogfileObserver interface {
	LogfileIndexing(lf *LogFile, bytesDone, bytesTotal int64)
}
