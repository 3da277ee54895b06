package linebuf

import (
	"bytes"
	"unicode/utf8"

	"github.com/Alain-L/quellogidx/index"
)

// memBuffer serves a LineBuffer over a fully-materialized byte slice. It
// backs CompressedBuffer and ArchiveBuffer: neither gzip/zstd streams nor
// 7z archive members support random-access reads, so both decompress
// their member fully before indexing rather than seeking within the
// compressed stream.
type memBuffer struct {
	data     []byte
	fileTime int64
}

func newMemBuffer(data []byte, fileTime int64) *memBuffer {
	return &memBuffer{data: data, fileTime: fileTime}
}

func (b *memBuffer) SetFD(fd int) {}
func (b *memBuffer) FD() int      { return -1 }

func (b *memBuffer) IsDataAvailable(fromOffset, fileSize int64) bool {
	return int64(len(b.data)) > fromOffset
}

func (b *memBuffer) LoadNextLine(prevRange index.FileRange) (index.LineInfo, error) {
	start := prevRange.Offset + prevRange.Length
	if start >= int64(len(b.data)) {
		return index.LineInfo{}, nil
	}
	rest := b.data[start:]
	if idx := bytes.IndexByte(rest, '\n'); idx != -1 {
		rng := index.FileRange{Offset: start, Length: int64(idx) + 1}
		return index.LineInfo{Range: rng, Partial: false, ValidUTF: utf8.Valid(rest[:idx])}, nil
	}
	rng := index.FileRange{Offset: start, Length: int64(len(rest))}
	return index.LineInfo{Range: rng, Partial: true, ValidUTF: true}, nil
}

func (b *memBuffer) ReadRange(r index.FileRange) (index.Bytes, error) {
	if r.Length <= 0 || r.Offset >= int64(len(b.data)) {
		return &sliceBytes{}, nil
	}
	end := r.Offset + r.Length
	if end > int64(len(b.data)) {
		end = int64(len(b.data))
	}
	out := make([]byte, end-r.Offset)
	copy(out, b.data[r.Offset:end])
	return &sliceBytes{data: out}, nil
}

func (b *memBuffer) Available() index.FileRange {
	return index.FileRange{Offset: 0, Length: int64(len(b.data))}
}

func (b *memBuffer) ReadOffset(logicalOffset int64) int64 { return logicalOffset }

func (b *memBuffer) FileTime() int64 { return b.fileTime }

func (b *memBuffer) Clear() {}
