package index

// LevelFlag packs the severity level and continuation/ordering metadata
// for a LogLine into a single word rather than allocating a separate bool
// field per flag.
type LevelFlag uint16

// Severity occupies the low byte of LevelFlag; the high byte carries the
// boolean flags below. LevelUnknown is the zero value.
const (
	LevelUnknown LevelFlag = iota
	LevelTrace
	LevelDebug
	LevelInfo
	LevelWarning
	LevelError
	LevelFatal
	levelMask = 0x00FF
)

// Flag bits, stored above the severity byte.
const (
	// FlagContinued marks a line as belonging to the previous record.
	FlagContinued LevelFlag = 1 << (8 + iota)
	// FlagTimeSkew marks a timestamp that was forced to non-decreasing.
	FlagTimeSkew
	// FlagValidUTF marks a line whose bytes were valid UTF-8 on read.
	FlagValidUTF
)

// Level extracts the severity byte, discarding flag bits.
func (f LevelFlag) Level() LevelFlag { return f & levelMask }

// Has reports whether all bits of flag are set.
func (f LevelFlag) Has(flag LevelFlag) bool { return f&flag == flag }

// WithFlag ORs flag into f and returns the result.
func (f LevelFlag) WithFlag(flag LevelFlag) LevelFlag { return f | flag }

// String renders the severity byte as a short level name, ignoring flag bits.
func (f LevelFlag) String() string {
	switch f.Level() {
	case LevelTrace:
		return "TRACE"
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarning:
		return "WARNING"
	case LevelError:
		return "ERROR"
	case LevelFatal:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// LogLine is a single fixed-size index entry: either the anchor of a
// logical record or one of its continuation lines.
type LogLine struct {
	// Offset is the byte position in the logical (decompressed) stream
	// where the line begins.
	Offset int64

	// SubOffset is reserved for a future sub-line addressing scheme
	// (e.g. field offsets within a multi-line JSON record). Whether an
	// entry is a continuation of the previous one is carried by the
	// CONTINUED flag in LevelAndFlags, not by this field.
	SubOffset uint32

	// Time is the whole-second component of the line's timestamp.
	Time int64

	// Millis is the sub-second component, 0-999.
	Millis uint16

	// LevelAndFlags packs severity plus CONTINUED/TIME_SKEW/VALID_UTF.
	LevelAndFlags LevelFlag

	// ModuleID and OpID are small integer tags set by the recognizer
	// that matched this line (or inherited from the anchor, for
	// continuations).
	ModuleID uint16
	OpID     uint16
}

// NewLogLine constructs an anchor or continuation line record.
func NewLogLine(offset int64, t int64, millis uint16, level LevelFlag, module, opid uint16) LogLine {
	return LogLine{
		Offset:        offset,
		Time:          t,
		Millis:        millis,
		LevelAndFlags: level,
		ModuleID:      module,
		OpID:          opid,
	}
}

// Less orders two lines by (Time, Millis) ascending.
func (l LogLine) Less(other LogLine) bool {
	if l.Time != other.Time {
		return l.Time < other.Time
	}
	return l.Millis < other.Millis
}

// SetTime overwrites the whole-second timestamp component.
func (l *LogLine) SetTime(t int64) { l.Time = t }

// SetMillis overwrites the sub-second timestamp component.
func (l *LogLine) SetMillis(m uint16) { l.Millis = m }

// SetTimeSkew marks (or clears) the TIME_SKEW flag.
func (l *LogLine) SetTimeSkew(b bool) {
	if b {
		l.LevelAndFlags = l.LevelAndFlags.WithFlag(FlagTimeSkew)
	} else {
		l.LevelAndFlags &^= FlagTimeSkew
	}
}

// SetValidUTF marks (or clears) the VALID_UTF flag.
func (l *LogLine) SetValidUTF(b bool) {
	if b {
		l.LevelAndFlags = l.LevelAndFlags.WithFlag(FlagValidUTF)
	} else {
		l.LevelAndFlags &^= FlagValidUTF
	}
}

// GetLevelAndFlags returns the raw packed word.
func (l LogLine) GetLevelAndFlags() LevelFlag { return l.LevelAndFlags }

// Level extracts the severity of this line, discarding flag bits.
func (l LogLine) Level() LevelFlag { return l.LevelAndFlags.Level() }

// IsContinued reports whether this line belongs to the previous record.
func (l LogLine) IsContinued() bool { return l.LevelAndFlags.Has(FlagContinued) }

// IsTimeSkewed reports whether the timestamp was clamped for ordering.
func (l LogLine) IsTimeSkewed() bool { return l.LevelAndFlags.Has(FlagTimeSkew) }

// IsValidUTF reports whether the line's raw bytes were valid UTF-8.
func (l LogLine) IsValidUTF() bool { return l.LevelAndFlags.Has(FlagValidUTF) }
