package textdetect

import "testing"

func TestClassifyEmptyIsPlain(t *testing.T) {
	if got := Classify(""); got != Plain {
		t.Fatalf("Classify(\"\") = %s, want %s", got, Plain)
	}
}

func TestClassifyJSON(t *testing.T) {
	sample := `{"level": "info", "message": "ready"}` + "\n" + `{"level": "info", "message": "next"}`
	if got := Classify(sample); got != JSON {
		t.Fatalf("Classify(json sample) = %s, want %s", got, JSON)
	}
}

func TestClassifyXML(t *testing.T) {
	sample := "<?xml version=\"1.0\"?>\n<root><child/></root>\n"
	if got := Classify(sample); got != XML {
		t.Fatalf("Classify(xml sample) = %s, want %s", got, XML)
	}
}

func TestClassifyMarkdownHeading(t *testing.T) {
	sample := "# Title\n\nSome body text.\n"
	if got := Classify(sample); got != Markdown {
		t.Fatalf("Classify(markdown heading) = %s, want %s", got, Markdown)
	}
}

func TestClassifyMarkdownFence(t *testing.T) {
	sample := "intro\n```\ncode block\n```\n"
	if got := Classify(sample); got != Markdown {
		t.Fatalf("Classify(markdown fence) = %s, want %s", got, Markdown)
	}
}

func TestClassifyCSV(t *testing.T) {
	sample := "a,b,c,d\n1,2,3,4\n5,6,7,8\n"
	if got := Classify(sample); got != CSV {
		t.Fatalf("Classify(csv sample) = %s, want %s", got, CSV)
	}
}

func TestClassifyPlainText(t *testing.T) {
	sample := "just a regular sentence with no structure to speak of\n"
	if got := Classify(sample); got != Plain {
		t.Fatalf("Classify(plain sample) = %s, want %s", got, Plain)
	}
}

func TestClassifyBinaryNullByte(t *testing.T) {
	sample := "abc\x00def"
	if got := Classify(sample); got != Binary {
		t.Fatalf("Classify(sample with NUL) = %s, want %s", got, Binary)
	}
}

func TestClassifyBinaryHighNonPrintableRatio(t *testing.T) {
	sample := string([]byte{1, 2, 3, 4, 5, 6, 7, 8, 'a', 'b'})
	if got := Classify(sample); got != Binary {
		t.Fatalf("Classify(mostly control bytes) = %s, want %s", got, Binary)
	}
}
