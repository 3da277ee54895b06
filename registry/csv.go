package registry

import (
	"encoding/csv"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Alain-L/quellogidx/index"
)

// csvFieldTimestamp and csvFieldSeverity follow PostgreSQL's csvlog
// field layout.
const (
	csvFieldTimestamp = 0
	csvFieldSeverity  = 11
	csvMinFields      = 12
)

// CSVFormat recognizes PostgreSQL CSV-format logs: one record per line,
// first field a timestamp, twelfth field a severity keyword.
type CSVFormat struct {
	baseYear int
}

// NewCSVFormat returns an unlocked CSVFormat recognizer.
func NewCSVFormat() *CSVFormat { return &CSVFormat{baseYear: time.Now().Year()} }

// MatchName claims only ".csv" files, a strict extension-first check.
func (f *CSVFormat) MatchName(filename string) bool {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), ".")) == "csv"
}

func (f *CSVFormat) Clear() {}

func (f *CSVFormat) Specialized() index.Format { return &CSVFormat{baseYear: f.baseYear} }

func (f *CSVFormat) Name() string { return "csv" }

func (f *CSVFormat) TimeOrdered() bool { return true }

func (f *CSVFormat) SetBaseTime(seconds int64) {
	if seconds > 0 {
		f.baseYear = time.Unix(seconds, 0).UTC().Year()
	}
}

// Scan parses data as a single CSV record. A short record, or a first
// field that doesn't parse as a timestamp, returns SCAN_NO_MATCH so the
// line is treated as an (unusual, but possible) continuation.
func (f *CSVFormat) Scan(lf *index.LogFile, idx *index.LineIndex, li index.LineInfo, data index.Bytes) index.ScanResult {
	r := csv.NewReader(strings.NewReader(string(data.Data())))
	r.FieldsPerRecord = -1
	record, err := r.Read()
	if err != nil || len(record) < csvMinFields {
		return index.ScanNoMatch
	}

	t, millis, ok := parseCSVTimestamp(strings.TrimSpace(record[csvFieldTimestamp]))
	if !ok {
		return index.ScanNoMatch
	}

	level := levelFromWord(strings.ToUpper(strings.TrimSpace(record[csvFieldSeverity])))

	line := index.NewLogLine(li.Range.Offset, t, millis, level, 0, 0)
	idx.Push(line)
	return index.ScanMatch
}

// GetSubline returns the message field (index 13 when present), falling
// back to the raw line.
func (f *CSVFormat) GetSubline(line index.LogLine, data index.Bytes, expandContinues bool) []byte {
	r := csv.NewReader(strings.NewReader(string(data.Data())))
	r.FieldsPerRecord = -1
	record, err := r.Read()
	if err != nil || len(record) <= 13 {
		return data.Data()
	}
	return []byte(record[13])
}

func parseCSVTimestamp(field string) (seconds int64, millis uint16, ok bool) {
	layouts := []string{
		"2006-01-02 15:04:05.000 MST",
		"2006-01-02 15:04:05 MST",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, field); err == nil {
			return t.Unix(), uint16(t.Nanosecond() / 1e6), true
		}
	}
	// Fall back to plain "YYYY-MM-DD HH:MM:SS[.mmm]" without timezone.
	if len(field) >= 19 && field[4] == '-' && field[7] == '-' {
		base := field[:19]
		t, err := time.Parse("2006-01-02 15:04:05", base)
		if err != nil {
			return 0, 0, false
		}
		ms := uint16(0)
		if len(field) > 20 && field[19] == '.' {
			frac := field[20:]
			for len(frac) < 3 {
				frac += "0"
			}
			if v, err := strconv.Atoi(frac[:3]); err == nil {
				ms = uint16(v)
			}
		}
		return t.Unix(), ms, true
	}
	return 0, 0, false
}
