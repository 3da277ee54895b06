package index_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Alain-L/quellogidx/index"
	"github.com/Alain-L/quellogidx/linebuf"
	"github.com/Alain-L/quellogidx/registry"
)

func TestReadLineStripsHeaderViaFormat(t *testing.T) {
	content := "2024-01-02 15:04:05 UTC LOG: database system is ready\n" +
		"2024-01-02 15:04:06 UTC ERROR: connection refused\n"
	lf, _ := openTestFile(t, "read.log", content)
	drain(t, lf)

	if lf.Index().Len() != 2 {
		t.Fatalf("Index().Len() = %d, want 2", lf.Index().Len())
	}

	line, err := lf.ReadLine(1)
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if string(line) != "ERROR: connection refused" {
		t.Fatalf("ReadLine(1) = %q, want %q", line, "ERROR: connection refused")
	}
}

func TestReadFullMessageIncludesContinuations(t *testing.T) {
	content := "2024-01-02 15:04:05 UTC ERROR: syntax error at or near \"SELECT\"\n" +
		"\tLINE 1: SELECT FROM;\n"
	lf, _ := openTestFile(t, "full.log", content)
	drain(t, lf)

	if lf.Index().Len() != 2 {
		t.Fatalf("Index().Len() = %d, want 2 (anchor + continuation)", lf.Index().Len())
	}
	if !lf.Index().At(1).IsContinued() {
		t.Fatal("second entry should be marked continued")
	}

	var out []byte
	lf.ReadFullMessage(0, &out)
	if len(out) == 0 {
		t.Fatal("ReadFullMessage produced no output for the anchor")
	}
	if !strings.Contains(string(out), "syntax error") {
		t.Fatalf("ReadFullMessage output %q missing anchor text", out)
	}
	if !strings.Contains(string(out), "LINE 1: SELECT FROM") {
		t.Fatalf("ReadFullMessage output %q should include continuation line bytes", out)
	}
}

func TestReadFullMessageSkipsNonAnchor(t *testing.T) {
	content := "2024-01-02 15:04:05 UTC ERROR: syntax error\n" +
		"\tLINE 1: SELECT FROM;\n"
	lf, _ := openTestFile(t, "skip.log", content)
	drain(t, lf)

	out := []byte("sentinel")
	lf.ReadFullMessage(1, &out)
	if string(out) != "sentinel" {
		t.Fatalf("ReadFullMessage on a continuation line should leave out untouched, got %q", out)
	}
}

func TestDescriptorOpenHasNoPathAndExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fd.log")
	if err := os.WriteFile(path, []byte("2024-01-02 15:04:05 UTC LOG: hi\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()

	lf, err := index.Open(index.OpenOptions{
		FD:           int(f.Fd()),
		DetectFormat: true,
		Registry:     registry.Default(),
		LineBuffer:   linebuf.NewFileBuffer(),
	})
	if err != nil {
		t.Fatalf("Open by fd: %v", err)
	}
	defer lf.Close()

	if lf.Path() != "" {
		t.Fatalf("Path() = %q, want empty for descriptor-only LogFile", lf.Path())
	}
	if !lf.Exists() {
		t.Fatal("Exists() should be unconditionally true for descriptor-only LogFile")
	}
}
