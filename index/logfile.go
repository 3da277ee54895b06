package index

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// RebuildResult is the outcome reported by RebuildIndex.
type RebuildResult int

const (
	NoNewLines RebuildResult = iota
	NewLines
	NewOrder
	Invalid
)

func (r RebuildResult) String() string {
	switch r {
	case NoNewLines:
		return "NO_NEW_LINES"
	case NewLines:
		return "NEW_LINES"
	case NewOrder:
		return "NEW_ORDER"
	case Invalid:
		return "INVALID"
	default:
		return "UNKNOWN"
	}
}

// statSnapshot is the device/inode/size/mtime tuple used for rotation and
// existence detection.
type statSnapshot struct {
	dev   uint64
	ino   uint64
	size  int64
	mtime int64 // unix nanoseconds
}

func snapshotFromFileInfo(fi os.FileInfo) statSnapshot {
	st, ok := fi.Sys().(*unix.Stat_t)
	if !ok {
		return statSnapshot{size: fi.Size(), mtime: fi.ModTime().UnixNano()}
	}
	return statSnapshot{
		dev:   uint64(st.Dev),
		ino:   st.Ino,
		size:  fi.Size(),
		mtime: fi.ModTime().UnixNano(),
	}
}

// OpenOptions configures LogFile construction. If FD is non-negative, it is
// used directly (the LogFile has no associated path); otherwise Path is
// resolved, stat'd, and opened read-only with close-on-exec.
type OpenOptions struct {
	Path         string
	FD           int // -1 means "open Path"
	DetectFormat bool
	Registry     []Format
	LineBuffer   LineBuffer
	Logger       *slog.Logger

	// AutoDetectCap overrides the number of unrecognized lines accumulated
	// before auto-detection disables itself implicitly. Zero means "use
	// the built-in default of 1000".
	AutoDetectCap int
}

// LogFile owns one LineBuffer, at most one locked Format, the line index,
// and the scalars describing indexing progress.
type LogFile struct {
	path          string
	hasPath       bool
	fd            int
	file          *os.File
	buf           LineBuffer
	registry      []Format
	autoDetect    bool
	autoDetectCap int

	format Format // nil until locked

	idx *LineIndex

	indexSize           int64
	stat                statSnapshot
	contentID           uint64
	longestLine         int
	partialLine         bool
	outOfTimeOrderCount int
	sortNeeded          bool
	indexTime           int64

	unrecognizedLines int // count of SCAN_NO_MATCH lines seen pre lock-in

	cacheAnchorOffset int64
	cacheLength       int64
	cacheValid        bool

	textFormat  string
	overwritten bool

	pendingLineInfo LineInfo

	loglineObs []LoglineObserver
	logfileObs []LogfileObserver

	logger *slog.Logger
}

// Open constructs a LogFile: resolve, stat, require a regular file, open
// read-only close-on-exec, seed content_id, reserve index capacity.
func Open(opts OpenOptions) (*LogFile, error) {
	lf := &LogFile{
		idx:           NewLineIndex(),
		registry:      opts.Registry,
		autoDetect:    opts.DetectFormat,
		autoDetectCap: opts.AutoDetectCap,
		buf:           opts.LineBuffer,
		logger:        opts.Logger,
	}
	if lf.logger == nil {
		lf.logger = slog.Default()
	}
	if lf.autoDetectCap <= 0 {
		lf.autoDetectCap = autodetectLineCap
	}

	if opts.FD >= 0 {
		lf.fd = opts.FD
		lf.file = os.NewFile(uintptr(opts.FD), "fd")
		lf.hasPath = false
		fi, err := lf.file.Stat()
		if err != nil {
			return nil, wrapErr("stat", "", fmt.Errorf("%w: %v", ErrStat, err))
		}
		lf.stat = snapshotFromFileInfo(fi)
		lf.contentID = hashString(fmt.Sprintf("fd:%d", opts.FD))
	} else {
		abs, err := filepath.Abs(opts.Path)
		if err != nil {
			return nil, wrapErr("resolve", opts.Path, fmt.Errorf("%w: %v", ErrPathResolution, err))
		}
		fi, err := os.Stat(abs)
		if err != nil {
			return nil, wrapErr("stat", abs, fmt.Errorf("%w: %v", ErrStat, err))
		}
		if !fi.Mode().IsRegular() {
			return nil, wrapErr("open", abs, fmt.Errorf("%w", ErrNotRegularFile))
		}

		fd, err := unix.Open(abs, unix.O_RDONLY|unix.O_CLOEXEC, 0)
		if err != nil {
			return nil, wrapErr("open", abs, fmt.Errorf("%w: %v", ErrOpen, err))
		}
		lf.fd = fd
		lf.file = os.NewFile(uintptr(fd), abs)
		lf.path = abs
		lf.hasPath = true
		lf.stat = snapshotFromFileInfo(fi)
		lf.contentID = hashString(abs)
	}

	if lf.buf != nil {
		lf.buf.SetFD(lf.fd)
	}

	return lf, nil
}

// Close releases the underlying descriptor.
func (lf *LogFile) Close() error {
	if lf.file == nil {
		return nil
	}
	err := lf.file.Close()
	lf.file = nil
	return err
}

// AddLoglineObserver registers a sink for restart/new-line/eof
// notifications. Observers are borrowed: the caller guarantees their
// lifetime exceeds the last notification.
func (lf *LogFile) AddLoglineObserver(o LoglineObserver) { lf.loglineObs = append(lf.loglineObs, o) }

// AddLogfileObserver registers a sink for coarse indexing-progress
// notifications.
func (lf *LogFile) AddLogfileObserver(o LogfileObserver) { lf.logfileObs = append(lf.logfileObs, o) }

// Index exposes the current line index for read-only inspection.
func (lf *LogFile) Index() *LineIndex { return lf.idx }

// IndexSize returns the byte offset one past the last fully-indexed byte.
func (lf *LogFile) IndexSize() int64 { return lf.indexSize }

// Format returns the locked format, or nil if none has locked in yet.
func (lf *LogFile) Format() Format { return lf.format }

// ContentID returns the current content identity hash: the filename hash
// until a format locks, then the hash of the first matched line's bytes.
//
// The first matched line may recur across rotations, making content_id a
// stable per-format anchor identity rather than a true content
// fingerprint.
func (lf *LogFile) ContentID() uint64 { return lf.contentID }

// LongestLine returns the length in bytes of the longest line seen so far.
func (lf *LogFile) LongestLine() int { return lf.longestLine }

// PartialLine reports whether the last indexed line lacks a terminating
// newline as of the most recent rebuild.
func (lf *LogFile) PartialLine() bool { return lf.partialLine }

// OutOfTimeOrderCount returns the number of timestamp clamps applied since
// the count was last reset (it resets at the end of every RebuildIndex).
func (lf *LogFile) OutOfTimeOrderCount() int { return lf.outOfTimeOrderCount }

// TextFormat returns the heuristic plain/markdown/xml classification made
// on first line, or "" if not yet classified.
func (lf *LogFile) TextFormat() string { return lf.textFormat }

// Path returns the resolved path, or "" if the LogFile was opened by
// descriptor only.
func (lf *LogFile) Path() string { return lf.path }

func hashString(s string) uint64 {
	// FNV-1a: needs no extra dependency and is stable across runs,
	// unlike maphash.
	var h uint64 = 14695981039346656037
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= 1099511628211
	}
	return h
}

func hashBytes(b []byte) uint64 {
	var h uint64 = 14695981039346656037
	for i := 0; i < len(b); i++ {
		h ^= uint64(b[i])
		h *= 1099511628211
	}
	return h
}
