package index_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Alain-L/quellogidx/index"
	"github.com/Alain-L/quellogidx/linebuf"
	"github.com/Alain-L/quellogidx/registry"
)

func TestFormatLocksInToJSONByExtension(t *testing.T) {
	content := `{"time": "2024-01-02T15:04:05Z", "level": "error", "message": "boom"}` + "\n"
	path := filepath.Join(t.TempDir(), "events.json")
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
	defer lf.Close()

	for {
		before := lf.IndexSize()
		if _, err := lf.RebuildIndex(); err != nil {
			t.Fatalf("RebuildIndex: %v", err)
		}
		if lf.IndexSize() == before {
			break
		}
	}

	if lf.Format() == nil || lf.Format().Name() != "json" {
		t.Fatalf("expected json format locked in by extension, got %v", lf.Format())
	}
}

func TestFormatLocksInToCSVByExtension(t *testing.T) {
	content := "2024-01-02 15:04:05.000 UTC,postgres,mydb,12345,,1,1,SELECT,2024-01-02 15:00:00 UTC,0/0,0,ERROR,,disk full\n"
	path := filepath.Join(t.TempDir(), "events.csv")
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
	defer lf.Close()

	for {
		before := lf.IndexSize()
		if _, err := lf.RebuildIndex(); err != nil {
			t.Fatalf("RebuildIndex: %v", err)
		}
		if lf.IndexSize() == before {
			break
		}
	}

	if lf.Format() == nil || lf.Format().Name() != "csv" {
		t.Fatalf("expected csv format locked in by extension, got %v", lf.Format())
	}
}

func TestContentIDChangesOnFormatLockIn(t *testing.T) {
	content := "garbage preamble\n2024-01-02 15:04:05 UTC LOG: recognized now\n"
	path := filepath.Join(t.TempDir(), "content.log")
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
	defer lf.Close()

	preLockID := lf.ContentID()

	for {
		before := lf.IndexSize()
		if _, err := lf.RebuildIndex(); err != nil {
			t.Fatalf("RebuildIndex: %v", err)
		}
		if lf.IndexSize() == before {
			break
		}
	}

	if lf.ContentID() == preLockID {
		t.Fatal("ContentID should change once format locks in from the matched anchor bytes")
	}
}

func TestAutoDetectCapOverrideDisablesDetectionEarly(t *testing.T) {
	content := "garbage one\n" +
		"garbage two\n" +
		"2024-01-02 15:04:05 UTC LOG: would have matched\n"
	path := filepath.Join(t.TempDir(), "capped.log")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	lf, err := index.Open(index.OpenOptions{
		Path:          path,
		FD:            -1,
		DetectFormat:  true,
		Registry:      registry.Default(),
		LineBuffer:    linebuf.NewFileBuffer(),
		AutoDetectCap: 2,
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer lf.Close()

	for {
		before := lf.IndexSize()
		if _, err := lf.RebuildIndex(); err != nil {
			t.Fatalf("RebuildIndex: %v", err)
		}
		if lf.IndexSize() == before {
			break
		}
	}

	if lf.Format() != nil {
		t.Fatalf("expected auto-detection to stay disabled after cap of 2, got locked format %v", lf.Format())
	}
	if lf.Index().Len() != 3 {
		t.Fatalf("Index().Len() = %d, want 3", lf.Index().Len())
	}
}
