package linebuf

import (
	"io"
	"os"
	"runtime"

	"github.com/klauspost/compress/zstd"
	"github.com/klauspost/pgzip"

	"github.com/Alain-L/quellogidx/index"
)

// CompressedBuffer is a LineBuffer over a gzip- or zstd-compressed log
// file. It decompresses the whole stream up front into memory, then
// serves LoadNextLine/ReadRange from that buffer, same as memBuffer.
type CompressedBuffer struct {
	*memBuffer
}

// Codec identifies which decompressor to use.
type Codec int

const (
	Gzip Codec = iota
	Zstd
)

// OpenCompressed reads and decompresses path entirely, returning a ready
// CompressedBuffer. SetFD is accepted for interface symmetry with
// FileBuffer but ignored: decompression reads path through its own file
// handle.
func OpenCompressed(path string, codec Codec) (*CompressedBuffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.ReadCloser
	switch codec {
	case Gzip:
		r, err = newParallelGzipReader(f)
	case Zstd:
		r, err = newZstdDecoder(f)
	}
	if err != nil {
		return nil, err
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	fi, _ := f.Stat()
	var fileTime int64
	if fi != nil {
		fileTime = fi.ModTime().Unix()
	}

	return &CompressedBuffer{memBuffer: newMemBuffer(data, fileTime)}, nil
}

// newParallelGzipReader returns a pgzip reader configured for parallel
// decompression, capping worker count to avoid oversubscribing small
// machines.
func newParallelGzipReader(r io.Reader) (io.ReadCloser, error) {
	threads := runtime.GOMAXPROCS(0)
	if threads < 1 {
		threads = 1
	}
	if threads > 8 {
		threads = 8
	}
	const blockSize = 1 << 20
	return pgzip.NewReaderN(r, blockSize, threads)
}

type zstdReadCloser struct{ *zstd.Decoder }

func (z *zstdReadCloser) Close() error {
	z.Decoder.Close()
	return nil
}

func newZstdDecoder(r io.Reader) (io.ReadCloser, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	return &zstdReadCloser{Decoder: dec}, nil
}

var _ index.LineBuffer = (*CompressedBuffer)(nil)
