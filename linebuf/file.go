package linebuf

import (
	"bytes"
	"io"
	"os"
	"unicode/utf8"

	"github.com/Alain-L/quellogidx/index"
)

// readChunk is the size of a single pread used to hunt for the next
// newline, chosen to avoid over-committing memory per probe.
const readChunk = 64 * 1024

// FileBuffer is the plain-file LineBuffer: random byte-range reads via
// ReadAt against the live file descriptor, so it tolerates the file
// growing between calls without needing to reopen or reseek.
type FileBuffer struct {
	fd   int
	file *os.File
}

// NewFileBuffer returns a FileBuffer not yet attached to any file. SetFD
// attaches it to an open descriptor before use (the core calls it during
// LogFile construction).
func NewFileBuffer() *FileBuffer { return &FileBuffer{} }

func (b *FileBuffer) SetFD(fd int) {
	b.fd = fd
	b.file = os.NewFile(uintptr(fd), "linebuf")
}

func (b *FileBuffer) FD() int { return b.fd }

func (b *FileBuffer) IsDataAvailable(fromOffset, fileSize int64) bool {
	return fileSize > fromOffset
}

// LoadNextLine scans forward from prevRange's end for the next newline.
// An empty Range in the result signals EOF (no more complete or partial
// data available at all).
func (b *FileBuffer) LoadNextLine(prevRange index.FileRange) (index.LineInfo, error) {
	start := prevRange.Offset + prevRange.Length

	size, err := b.currentSize()
	if err != nil {
		return index.LineInfo{}, err
	}
	if start >= size {
		return index.LineInfo{}, nil
	}

	chunk := make([]byte, readChunk)
	pos := start
	for {
		n, rerr := b.file.ReadAt(chunk, pos)
		if rerr != nil && rerr != io.EOF {
			return index.LineInfo{}, rerr
		}
		if idx := bytes.IndexByte(chunk[:n], '\n'); idx != -1 {
			lineEnd := pos + int64(idx) + 1
			rng := index.FileRange{Offset: start, Length: lineEnd - start}
			valid := utf8.Valid(chunk[:idx])
			return index.LineInfo{Range: rng, Partial: false, ValidUTF: valid}, nil
		}
		if int64(n) < int64(len(chunk)) || rerr == io.EOF {
			// No newline found before EOF: a partial trailing line.
			rng := index.FileRange{Offset: start, Length: pos + int64(n) - start}
			if rng.Length == 0 {
				return index.LineInfo{}, nil
			}
			return index.LineInfo{Range: rng, Partial: true, ValidUTF: true}, nil
		}
		pos += int64(n)
	}
}

func (b *FileBuffer) ReadRange(r index.FileRange) (index.Bytes, error) {
	if r.Length <= 0 {
		return &sliceBytes{}, nil
	}
	buf := make([]byte, r.Length)
	n, err := b.file.ReadAt(buf, r.Offset)
	if err != nil && err != io.EOF {
		return nil, err
	}
	return &sliceBytes{data: buf[:n]}, nil
}

func (b *FileBuffer) Available() index.FileRange {
	size, err := b.currentSize()
	if err != nil {
		return index.FileRange{}
	}
	return index.FileRange{Offset: 0, Length: size}
}

// ReadOffset maps a logical offset to a physical one; identity for
// uncompressed files.
func (b *FileBuffer) ReadOffset(logicalOffset int64) int64 { return logicalOffset }

// FileTime returns zero: plain files carry no embedded time hint.
func (b *FileBuffer) FileTime() int64 { return 0 }

func (b *FileBuffer) Clear() {}

func (b *FileBuffer) currentSize() (int64, error) {
	fi, err := b.file.Stat()
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}
