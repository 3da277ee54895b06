package registry

import (
	"testing"

	"github.com/Alain-L/quellogidx/index"
)

func TestCSVFormatMatchesWellFormedRecord(t *testing.T) {
	f := NewCSVFormat()
	line := "2024-01-02 15:04:05.000 UTC,postgres,mydb,12345,,1,1,SELECT,2024-01-02 15:00:00 UTC,0/0,0,ERROR,,disk full"
	result, idx := scanLine(t, f, 0, line)
	if result != index.ScanMatch {
		t.Fatalf("Scan() = %v, want ScanMatch", result)
	}
	if idx.At(0).Level() != index.LevelError {
		t.Fatalf("Level() = %v, want LevelError", idx.At(0).Level())
	}
}

func TestCSVFormatRejectsShortRecord(t *testing.T) {
	f := NewCSVFormat()
	result, _ := scanLine(t, f, 0, "2024-01-02 15:04:05.000 UTC,postgres,mydb")
	if result != index.ScanNoMatch {
		t.Fatalf("Scan() on short record = %v, want ScanNoMatch", result)
	}
}

func TestCSVFormatMatchNameStrict(t *testing.T) {
	f := NewCSVFormat()
	if !f.MatchName("postgresql.csv") {
		t.Fatal("MatchName should accept .csv")
	}
	if f.MatchName("postgresql.log") {
		t.Fatal("MatchName should reject .log")
	}
}

func TestCSVFormatGetSublineReturnsMessageField(t *testing.T) {
	f := NewCSVFormat()
	line := index.NewLogLine(0, 0, 0, index.LevelError, 0, 0)
	data := &sliceBytesForTest{b: []byte(
		"2024-01-02 15:04:05.000 UTC,postgres,mydb,12345,,1,1,SELECT,2024-01-02 15:00:00 UTC,0/0,0,ERROR,,disk full",
	)}
	sub := f.GetSubline(line, data, false)
	if string(sub) != "disk full" {
		t.Fatalf("GetSubline() = %q, want %q", sub, "disk full")
	}
}
