package registry

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Alain-L/quellogidx/index"
)

// levelWordRegex finds the first PostgreSQL severity keyword in a line.
var levelWordRegex = regexp.MustCompile(`\b(TRACE|DEBUG[1-5]?|LOG|INFO|NOTICE|WARNING|WARN|ERROR|FATAL|PANIC|STATEMENT|DETAIL|HINT|CONTEXT):\s*`)

// StderrFormat recognizes PostgreSQL stderr and syslog-style log lines:
// "2006-01-02 15:04:05 MST LOG: message" or "Jan _2 15:04:05 host proc[pid]: LOG: message".
type StderrFormat struct {
	baseYear int
	specialized bool
}

// NewStderrFormat returns an unlocked StderrFormat recognizer.
func NewStderrFormat() *StderrFormat { return &StderrFormat{baseYear: time.Now().Year()} }

// MatchName is the catch-all: it accepts anything not already claimed by a
// stricter extension match (.json, .csv).
func (f *StderrFormat) MatchName(filename string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	return ext != "json" && ext != "csv"
}

// Clear resets per-file detection state.
func (f *StderrFormat) Clear() {}

// Specialized returns a clone locked to one file.
func (f *StderrFormat) Specialized() index.Format {
	return &StderrFormat{baseYear: f.baseYear, specialized: true}
}

// Name identifies this recognizer.
func (f *StderrFormat) Name() string { return "stderr" }

// TimeOrdered reports that PostgreSQL emits stderr/syslog lines in
// monotonic order.
func (f *StderrFormat) TimeOrdered() bool { return true }

// SetBaseTime supplies the year to assume for syslog's year-less
// timestamps, derived from the given epoch seconds.
func (f *StderrFormat) SetBaseTime(seconds int64) {
	if seconds > 0 {
		f.baseYear = time.Unix(seconds, 0).UTC().Year()
	}
}

// Scan attempts to parse data as a new anchor line. Lines that don't carry
// a recognizable timestamp (continuation lines) return SCAN_NO_MATCH so
// the driver appends them as continuations of the preceding anchor.
func (f *StderrFormat) Scan(lf *index.LogFile, idx *index.LineIndex, li index.LineInfo, data index.Bytes) index.ScanResult {
	raw := data.Data()
	if len(raw) > 0 && (raw[0] == ' ' || raw[0] == '\t') {
		return index.ScanNoMatch
	}

	t, millis, rest, ok := parseStderrTimestamp(raw, f.baseYear)
	if !ok {
		t, millis, rest, ok = parseSyslogTimestamp(raw, f.baseYear)
	}
	if !ok {
		return index.ScanNoMatch
	}

	level := index.LevelInfo
	if m := levelWordRegex.FindSubmatch(rest); m != nil {
		level = levelFromWord(string(m[1]))
	}

	line := index.NewLogLine(li.Range.Offset, t, millis, level, 0, 0)
	idx.Push(line)
	return index.ScanMatch
}

// GetSubline returns the displayable message: the raw line with the
// leading timestamp/severity header stripped when possible.
func (f *StderrFormat) GetSubline(line index.LogLine, data index.Bytes, expandContinues bool) []byte {
	raw := data.Data()
	if m := levelWordRegex.FindIndex(raw); m != nil {
		return raw[m[0]:]
	}
	return raw
}

// parseStderrTimestamp parses "YYYY-MM-DD HH:MM:SS[.mmm] TZ rest...".
func parseStderrTimestamp(b []byte, _ int) (seconds int64, millis uint16, rest []byte, ok bool) {
	n := len(b)
	if n < 20 || b[4] != '-' || b[7] != '-' || b[10] != ' ' || b[13] != ':' || b[16] != ':' {
		return 0, 0, nil, false
	}
	i := 19
	for i < n && b[i] != ' ' && b[i] != '\t' {
		i++
	}
	for i < n && (b[i] == ' ' || b[i] == '\t') {
		i++
	}
	tzStart := i
	for i < n && b[i] != ' ' && b[i] != '\t' {
		i++
	}
	if i <= tzStart {
		return 0, 0, nil, false
	}
	tzEnd := i
	t, err := time.Parse("2006-01-02 15:04:05 MST", string(b[:tzEnd]))
	if err != nil {
		// Try without seconds fraction stripped out already; bail.
		return 0, 0, nil, false
	}
	for i < n && (b[i] == ' ' || b[i] == '\t') {
		i++
	}
	return t.Unix(), uint16(t.Nanosecond() / 1e6), b[i:], true
}

// parseSyslogTimestamp parses "Mon _2 15:04:05 rest..." assuming baseYear.
func parseSyslogTimestamp(b []byte, baseYear int) (seconds int64, millis uint16, rest []byte, ok bool) {
	n := len(b)
	if n < 15 || b[3] != ' ' || b[6] != ' ' || b[9] != ':' || b[12] != ':' {
		return 0, 0, nil, false
	}
	stamp := string(b[:15])
	t, err := time.Parse("2006 Jan _2 15:04:05", strconv.Itoa(baseYear)+" "+stamp)
	if err != nil {
		return 0, 0, nil, false
	}
	i := 15
	for i < n && (b[i] == ' ' || b[i] == '\t') {
		i++
	}
	return t.Unix(), 0, b[i:], true
}
