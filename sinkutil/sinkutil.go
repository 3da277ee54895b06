// Package sinkutil provides small, reusable observer implementations for
// the indexer's LoglineObserver/LogfileObserver interfaces: a collecting
// sink for tests and simple consumers, and a logging sink for diagnostics.
// Each is a plain struct implementing a narrow interface, one small file
// per concern.
package sinkutil

import (
	"log/slog"

	"github.com/Alain-L/quellogidx/index"
)

// Line is a captured observation: the line record plus the bytes the
// indexer had in hand when it appended it.
type Line struct {
	Iter int
	Line index.LogLine
	Text string
}

// CollectingSink records every notification it receives in order, for
// tests and for callers that want the whole index materialized as a slice
// rather than reacting incrementally.
type CollectingSink struct {
	Lines     []Line
	Restarts  []int
	EOFCount  int
	Indexing  []IndexingEvent
}

// IndexingEvent captures one LogfileIndexing progress notification.
type IndexingEvent struct {
	Done, Total int64
}

// NewCollectingSink returns an empty sink.
func NewCollectingSink() *CollectingSink { return &CollectingSink{} }

func (s *CollectingSink) LoglineRestart(lf *index.LogFile, rollbackCount int) {
	s.Restarts = append(s.Restarts, rollbackCount)
	if rollbackCount <= len(s.Lines) {
		s.Lines = s.Lines[:len(s.Lines)-rollbackCount]
	} else {
		s.Lines = nil
	}
}

func (s *CollectingSink) LoglineNewLine(lf *index.LogFile, iter int, data index.Bytes) {
	s.Lines = append(s.Lines, Line{Iter: iter, Line: lf.Index().At(iter), Text: string(data.Data())})
}

func (s *CollectingSink) LoglineEOF(lf *index.LogFile) { s.EOFCount++ }

func (s *CollectingSink) LogfileIndexing(lf *index.LogFile, bytesDone, bytesTotal int64) {
	s.Indexing = append(s.Indexing, IndexingEvent{Done: bytesDone, Total: bytesTotal})
}

// LoggingSink emits a structured log line for every restart and for EOF;
// new-line notifications are intentionally not logged (too high-volume
// for per-entry logging).
type LoggingSink struct {
	Logger *slog.Logger
}

// NewLoggingSink returns a sink that logs through logger, or slog.Default
// if logger is nil.
func NewLoggingSink(logger *slog.Logger) *LoggingSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingSink{Logger: logger}
}

func (s *LoggingSink) LoglineRestart(lf *index.LogFile, rollbackCount int) {
	s.Logger.Info("index restart", "path", lf.Path(), "rollback", rollbackCount)
}

func (s *LoggingSink) LoglineNewLine(lf *index.LogFile, iter int, data index.Bytes) {}

func (s *LoggingSink) LoglineEOF(lf *index.LogFile) {
	s.Logger.Debug("index reached eof", "path", lf.Path(), "size", lf.IndexSize())
}
