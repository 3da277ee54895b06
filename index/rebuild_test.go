package index_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/Alain-L/quellogidx/index"
	"github.com/Alain-L/quellogidx/linebuf"
	"github.com/Alain-L/quellogidx/registry"
	"github.com/Alain-L/quellogidx/sinkutil"
)

func openTestFile(t *testing.T, name, content string) (*index.LogFile, *sinkutil.CollectingSink) {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	lf, err := index.Open(index.OpenOptions{
		Path:         path,
		FD:           -1,
		DetectFormat: true,
		Registry:     registry.Default(),
		LineBuffer:   linebuf.NewFileBuffer(),
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { lf.Close() })

	sink := sinkutil.NewCollectingSink()
	lf.AddLoglineObserver(sink)
	lf.AddLogfileObserver(sink)
	return lf, sink
}

func drain(t *testing.T, lf *index.LogFile) index.RebuildResult {
	t.Helper()
	var last index.RebuildResult
	for {
		before := lf.IndexSize()
		r, err := lf.RebuildIndex()
		if err != nil {
			t.Fatalf("RebuildIndex: %v", err)
		}
		last = r
		if lf.IndexSize() == before {
			return last
		}
	}
}

func TestRebuildIndexEmptyFile(t *testing.T) {
	lf, sink := openTestFile(t, "empty.log", "")
	result := drain(t, lf)
	if result != index.NoNewLines {
		t.Fatalf("RebuildIndex on empty file = %v, want NoNewLines", result)
	}
	if lf.Index().Len() != 0 {
		t.Fatalf("Index().Len() = %d, want 0", lf.Index().Len())
	}
	if sink.EOFCount != 0 {
		t.Fatalf("EOFCount = %d, want 0: no data means RebuildIndex returns before the line loop", sink.EOFCount)
	}
}

func TestRebuildIndexSingleCompleteLine(t *testing.T) {
	content := "2024-01-02 15:04:05 UTC LOG: database system is ready\n"
	lf, sink := openTestFile(t, "single.log", content)

	result := drain(t, lf)

	if result != index.NewLines {
		t.Fatalf("RebuildIndex() = %v, want NewLines", result)
	}
	if lf.Index().Len() != 1 {
		t.Fatalf("Index().Len() = %d, want 1", lf.Index().Len())
	}
	if len(sink.Lines) != 1 {
		t.Fatalf("sink captured %d lines, want 1", len(sink.Lines))
	}
	if lf.Format() == nil || lf.Format().Name() != "stderr" {
		t.Fatalf("expected locked stderr format, got %v", lf.Format())
	}
}

func TestRebuildIndexContinuationLine(t *testing.T) {
	content := "2024-01-02 15:04:05 UTC ERROR: syntax error at or near \"SELECT\"\n" +
		"\tLINE 1: SELECT FROM;\n"
	lf, _ := openTestFile(t, "cont.log", content)

	drain(t, lf)

	if lf.Index().Len() != 2 {
		t.Fatalf("Index().Len() = %d, want 2", lf.Index().Len())
	}
	cont := lf.Index().At(1)
	if !cont.IsContinued() {
		t.Fatal("second line should carry FlagContinued")
	}
	anchor := lf.Index().At(0)
	if cont.Time != anchor.Time {
		t.Fatalf("continuation Time = %d, want anchor's %d", cont.Time, anchor.Time)
	}
}

func TestRebuildIndexPartialLastLineReindexedOnCompletion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.log")
	first := "2024-01-02 15:04:05 UTC LOG: first message\n"
	if err := os.WriteFile(path, []byte(first), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	lf, err := index.Open(index.OpenOptions{
		Path:         path,
		FD:           -1,
		DetectFormat: true,
		Registry:     registry.Default(),
		LineBuffer:   linebuf.NewFileBuffer(),
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer lf.Close()

	drain(t, lf)
	if lf.Index().Len() != 1 {
		t.Fatalf("Index().Len() after first pass = %d, want 1", lf.Index().Len())
	}
	if lf.PartialLine() {
		t.Fatal("PartialLine() should be false once the only line is newline-terminated")
	}

	// Append a partial (no trailing newline) second line. The driver
	// indexes it speculatively and flags it as partial.
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	if _, err := f.WriteString("2024-01-02 15:04:06 UTC LOG: partial"); err != nil {
		t.Fatalf("WriteString: %v", err)
	}
	f.Close()

	drain(t, lf)
	if lf.Index().Len() != 2 {
		t.Fatalf("Index().Len() with unterminated tail = %d, want 2 (speculative)", lf.Index().Len())
	}
	if !lf.PartialLine() {
		t.Fatal("expected PartialLine() true while tail has no newline")
	}

	// Completing the line must not duplicate it: the driver rolls back
	// the speculative anchor and re-verifies from its offset.
	f, err = os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	if _, err := f.WriteString(" message\n"); err != nil {
		t.Fatalf("WriteString: %v", err)
	}
	f.Close()

	drain(t, lf)
	if lf.Index().Len() != 2 {
		t.Fatalf("Index().Len() after completing tail = %d, want 2", lf.Index().Len())
	}
	if lf.PartialLine() {
		t.Fatal("expected PartialLine() false once the tail is newline-terminated")
	}
}

func TestRebuildIndexRotationResetsOnTruncate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rotate.log")
	content := "2024-01-02 15:04:05 UTC LOG: before rotation\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	lf, err := index.Open(index.OpenOptions{
		Path:         path,
		FD:           -1,
		DetectFormat: true,
		Registry:     registry.Default(),
		LineBuffer:   linebuf.NewFileBuffer(),
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	drain(t, lf)
	if lf.Index().Len() != 1 {
		t.Fatalf("Index().Len() = %d, want 1", lf.Index().Len())
	}

	// Truncate and rewrite with fewer bytes: simulates log rotation.
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile (truncate): %v", err)
	}

	result, err := lf.RebuildIndex()
	if err != nil {
		t.Fatalf("RebuildIndex after truncation: %v", err)
	}
	if result != index.NoNewLines {
		t.Fatalf("RebuildIndex result after truncation = %v, want NoNewLines", result)
	}
	if lf.Exists() {
		t.Fatal("Exists() should report false once the underlying file was overwritten")
	}
}

func TestRebuildIndexOutOfOrderLinesAreClampedAndMarkedSkewed(t *testing.T) {
	content := "2024-01-02 15:04:10 UTC LOG: first\n" +
		"2024-01-02 15:04:05 UTC LOG: second, earlier than first\n"
	lf, _ := openTestFile(t, "outoforder.log", content)

	drain(t, lf)

	if lf.Index().Len() != 2 {
		t.Fatalf("Index().Len() = %d, want 2", lf.Index().Len())
	}
	first := lf.Index().At(0)
	second := lf.Index().At(1)
	if second.Time != first.Time {
		t.Fatalf("second.Time = %d, want clamped to first.Time %d", second.Time, first.Time)
	}
	if !second.IsTimeSkewed() {
		t.Fatal("expected FlagTimeSkew on the clamped line")
	}
}

func TestRebuildIndexFormatLockInAfterUnrecognizedLines(t *testing.T) {
	var content string
	for i := 0; i < 3; i++ {
		content += fmt.Sprintf("garbage preamble line %d with no timestamp\n", i)
	}
	content += "2024-01-02 15:04:05 UTC LOG: now recognized\n"

	lf, _ := openTestFile(t, "lockin.log", content)
	drain(t, lf)

	if lf.Format() == nil {
		t.Fatal("expected a format to lock in once a recognizable line appears")
	}
	if lf.Index().Len() != 4 {
		t.Fatalf("Index().Len() = %d, want 4 (3 unmatched + 1 anchor)", lf.Index().Len())
	}
	anchor := lf.Index().At(3)
	for i := 0; i < 3; i++ {
		if lf.Index().At(i).Time != anchor.Time {
			t.Fatalf("pre-lock-in line %d Time = %d, want backdated to anchor Time %d", i, lf.Index().At(i).Time, anchor.Time)
		}
	}
}
