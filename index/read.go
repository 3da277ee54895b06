package index

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ReadLine computes the line's byte range via lineLength(includeContinues
// = false), reads it, right-trims line endings, lets the active format
// compute the displayable subline, and scrubs invalid UTF-8 from the
// result if the line was marked invalid on read.
func (lf *LogFile) ReadLine(iter int) ([]byte, error) {
	ll := lf.idx.At(iter)
	length := lf.lineLength(iter, false)
	data, err := lf.buf.ReadRange(FileRange{Offset: ll.Offset, Length: length})
	if err != nil {
		return nil, wrapErr("read_line", lf.path, err).(*Error)
	}
	data.RTrim(isLineEnding)

	raw := data.Data()
	if lf.format != nil {
		raw = lf.format.GetSubline(ll, data, false)
	}
	if !ll.IsValidUTF() {
		raw = scrubUTF8(raw)
	}
	return raw, nil
}

// ReadFullMessage requires iter to be the anchor of a logical record
// (not itself a continuation). It computes the full record length via
// lineLength(includeContinues = true) and reads that range, spanning
// any continuation lines that follow, then if a format is active asks
// for the full subline with expandContinues = true. Read failures leave
// out unset (best effort).
func (lf *LogFile) ReadFullMessage(iter int, out *[]byte) {
	ll := lf.idx.At(iter)
	if ll.IsContinued() {
		return
	}
	length := lf.lineLength(iter, true)
	data, err := lf.buf.ReadRange(FileRange{Offset: ll.Offset, Length: length})
	if err != nil {
		return
	}
	data.RTrim(isLineEnding)

	if lf.format != nil {
		*out = lf.format.GetSubline(ll, data, true)
		return
	}
	*out = data.Data()
}

// lineLength finds the entry that bounds iter's range: immediately
// following it when includeContinues is false (ReadLine's single physical
// line), or the first entry that is not a continuation when
// includeContinues is true (ReadFullMessage's whole logical record). If
// the walk hits end-of-index, the length is index_size - ll.Offset, minus
// one byte if the file is not in a partial state. Otherwise it is
// next.Offset - ll.Offset - 1 (subtracting the line terminator). A
// single-slot cache serves the includeContinues=false case.
func (lf *LogFile) lineLength(iter int, includeContinues bool) int64 {
	ll := lf.idx.At(iter)

	if !includeContinues && lf.cacheValid && lf.cacheAnchorOffset == ll.Offset {
		return lf.cacheLength
	}

	n := lf.idx.Len()
	j := iter + 1
	if includeContinues {
		for j < n && lf.idx.At(j).IsContinued() {
			j++
		}
	}

	var length int64
	if j >= n {
		length = lf.indexSize - ll.Offset
		if !lf.partialLine {
			length--
		}
	} else {
		length = lf.idx.At(j).Offset - ll.Offset - 1
	}

	if !includeContinues {
		lf.cacheAnchorOffset = ll.Offset
		lf.cacheLength = length
		lf.cacheValid = true
	}
	return length
}

// scrubUTF8 returns b unchanged if it is valid UTF-8, otherwise a copy
// with invalid sequences replaced by the Unicode replacement character,
// using golang.org/x/text's UTF-8 validating transformer rather than a
// hand-rolled byte walk.
func scrubUTF8(b []byte) []byte {
	if utf8.Valid(b) {
		return b
	}
	out := make([]byte, 0, len(b))
	t := unicode.UTF8.NewDecoder()
	// Each input byte yields at most three output bytes (U+FFFD).
	dst := make([]byte, len(b)*3)
	nDst, _, err := transform.Transform(t, dst, b)
	if err != nil && nDst == 0 {
		return []byte(string([]rune(string(b))))
	}
	out = append(out, dst[:nDst]...)
	return out
}
