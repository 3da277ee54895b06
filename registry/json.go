package registry

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"time"

	"github.com/Alain-L/quellogidx/index"
)

// jsonTimestampKeys lists the field names JSONFormat checks, in priority
// order, covering the common structured-logging timestamp conventions.
var jsonTimestampKeys = []string{"timestamp", "time", "ts", "@timestamp"}

// JSONFormat recognizes newline-delimited JSON log records carrying a
// recognizable timestamp field.
type JSONFormat struct{}

// NewJSONFormat returns an unlocked JSONFormat recognizer.
func NewJSONFormat() *JSONFormat { return &JSONFormat{} }

// MatchName claims only ".json" files.
func (f *JSONFormat) MatchName(filename string) bool {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), ".")) == "json"
}

func (f *JSONFormat) Clear() {}

func (f *JSONFormat) Specialized() index.Format { return &JSONFormat{} }

func (f *JSONFormat) Name() string { return "json" }

// TimeOrdered is false: JSON log shippers commonly interleave or buffer
// entries out of strict order.
func (f *JSONFormat) TimeOrdered() bool { return false }

func (f *JSONFormat) SetBaseTime(seconds int64) {}

// Scan parses data as one JSON object and looks for a timestamp field.
func (f *JSONFormat) Scan(lf *index.LogFile, idx *index.LineIndex, li index.LineInfo, data index.Bytes) index.ScanResult {
	trimmed := strings.TrimSpace(string(data.Data()))
	if trimmed == "" {
		return index.ScanNoMatch
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(trimmed), &obj); err != nil {
		return index.ScanNoMatch
	}

	t, millis, ok := extractJSONTime(obj)
	if !ok {
		return index.ScanNoMatch
	}

	level := index.LevelInfo
	if lv, ok := obj["level"].(string); ok {
		level = levelFromWord(strings.ToUpper(lv))
	} else if sv, ok := obj["severity"].(string); ok {
		level = levelFromWord(strings.ToUpper(sv))
	}

	line := index.NewLogLine(li.Range.Offset, t, millis, level, 0, 0)
	idx.Push(line)
	return index.ScanMatch
}

// GetSubline returns the "message" field, falling back to the raw line.
func (f *JSONFormat) GetSubline(line index.LogLine, data index.Bytes, expandContinues bool) []byte {
	var obj map[string]any
	if err := json.Unmarshal(data.Data(), &obj); err != nil {
		return data.Data()
	}
	if msg, ok := obj["message"].(string); ok {
		return []byte(msg)
	}
	if msg, ok := obj["textPayload"].(string); ok {
		return []byte(msg)
	}
	return data.Data()
}

func extractJSONTime(obj map[string]any) (seconds int64, millis uint16, ok bool) {
	for _, key := range jsonTimestampKeys {
		v, present := obj[key]
		if !present {
			continue
		}
		switch val := v.(type) {
		case string:
			for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
				if t, err := time.Parse(layout, val); err == nil {
					return t.Unix(), uint16(t.Nanosecond() / 1e6), true
				}
			}
		case float64:
			return int64(val), uint16((val - float64(int64(val))) * 1000), true
		}
	}
	return 0, 0, false
}
