package linebuf

import (
	"io"

	"github.com/bodgit/sevenzip"
)

// ArchiveBuffer is a LineBuffer over the first regular-file member of a 7z
// archive, treating that member's decompressed bytes as the logical
// stream. Exercises the full sevenzip decoder chain (transitively
// lz4/brotli/xz/bzip2 codec support) for ".7z"-bundled log archives, one
// of the archived/compressed transports an indexer needs to accept
// transparently alongside plain and gzip/zstd files.
type ArchiveBuffer struct {
	*memBuffer
}

// OpenArchive opens the 7z archive at path and materializes the first
// regular-file member found.
func OpenArchive(path string) (*ArchiveBuffer, error) {
	rc, err := sevenzip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	for _, f := range rc.File {
		if f.FileInfo().IsDir() {
			continue
		}
		member, err := f.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(member)
		member.Close()
		if err != nil {
			return nil, err
		}
		return &ArchiveBuffer{memBuffer: newMemBuffer(data, f.FileInfo().ModTime().Unix())}, nil
	}
	return &ArchiveBuffer{memBuffer: newMemBuffer(nil, 0)}, nil
}
