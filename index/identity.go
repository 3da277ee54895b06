package index

import (
	"os"

	"golang.org/x/sys/unix"
)

// SetFormatBaseTime passes the line buffer's file-time hint (e.g. a
// timestamp encoded in a compressed archive header) to fmt so it can
// resolve relative timestamps. Falls back to the stat mtime when the line
// buffer reports no hint (zero).
func (lf *LogFile) SetFormatBaseTime(fmtt Format) {
	base := int64(0)
	if lf.buf != nil {
		base = lf.buf.FileTime()
	}
	if base == 0 {
		base = lf.stat.mtime / 1e9
	}
	fmtt.SetBaseTime(base)
}

// Exists reports whether the file this LogFile was constructed from is
// still the same file. It is false once RebuildIndex has detected an
// overwrite. Otherwise it is true for descriptor-only LogFiles, and for
// path-based ones true iff (device, inode) match the original snapshot
// and the current size is at least the snapshot size. A changed inode,
// changed device, or a shrunken file all report non-existence.
func (lf *LogFile) Exists() bool {
	if lf.overwritten {
		return false
	}
	if !lf.hasPath {
		return true
	}
	fi, err := os.Stat(lf.path)
	if err != nil {
		return false
	}
	st, ok := fi.Sys().(*unix.Stat_t)
	if !ok {
		return fi.Size() >= lf.stat.size
	}
	if uint64(st.Dev) != lf.stat.dev || st.Ino != lf.stat.ino {
		return false
	}
	return fi.Size() >= lf.stat.size
}
