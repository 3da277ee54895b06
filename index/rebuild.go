package index

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"

	"github.com/Alain-L/quellogidx/textdetect"
)

// initialBulkReadThreshold is the logical-byte threshold above which a
// rebuild pass whose main loop started with exactly one indexed entry logs
// the process's peak RSS as reported by getrusage. No before/after delta
// is computed.
const initialBulkReadThreshold = 512 * 1024

// RebuildIndex is the incremental rebuild engine: it detects rotation,
// rolls back the unverified tail, re-reads from the line buffer, drives
// format detection, and notifies observers in index order.
//
// It returns as soon as a format locks in, even mid-file, so a single call
// does not necessarily consume all available bytes: callers invoke it
// repeatedly until IndexSize stops advancing.
func (lf *LogFile) RebuildIndex() (RebuildResult, error) {
	fi, err := lf.file.Stat()
	if err != nil {
		return NoNewLines, wrapErr("rebuild", lf.path, fmt.Errorf("%w: %v", ErrStat, err))
	}

	// Rotation check: truncation or in-place rewrite invalidates the index.
	if fi.Size() < lf.stat.size || (fi.Size() == lf.stat.size && fi.ModTime().UnixNano() != lf.stat.mtime) {
		lf.overwritten = true
		lf.logger.Info("logfile overwritten, closing", "path", lf.path)
		lf.Close()
		return NoNewLines, nil
	}

	if !lf.buf.IsDataAvailable(lf.indexSize, fi.Size()) {
		lf.indexTime = time.Now().Unix()
		return NoNewLines, nil
	}

	resumeOffset := lf.indexSize
	rollbackCount := 0
	if lf.idx.Len() > 0 {
		anchorOffset, n := lf.idx.TruncateTail()
		rollbackCount = n
		resumeOffset = anchorOffset
		lf.buf.Clear()

		verifyLen := lf.indexSize - anchorOffset
		if verifyLen > 0 {
			if _, err := lf.buf.ReadRange(FileRange{Offset: anchorOffset, Length: verifyLen}); err != nil {
				lf.overwritten = true
				lf.Close()
				return Invalid, nil
			}
		}
		lf.indexSize = anchorOffset

		if rollbackCount > 0 {
			lf.notifyRestart(rollbackCount)
		}
	}

	firstEverLine := lf.idx.Len() == 0 && lf.textFormat == ""
	if firstEverLine {
		if avail := lf.buf.Available(); avail.Length > 0 {
			sample, err := lf.buf.ReadRange(FileRange{Offset: avail.Offset, Length: min64(avail.Length, 32*1024)})
			if err == nil {
				lf.textFormat = textdetect.Classify(string(sample.Data()))
			}
		}
	}

	lenBeforeLoop := lf.idx.Len()
	var bytesConsumed int64
	prevRange := FileRange{Offset: 0, Length: resumeOffset}

	for {
		li, err := lf.buf.LoadNextLine(prevRange)
		if err != nil {
			lf.overwritten = true
			lf.Close()
			return Invalid, nil
		}
		if li.Range.Empty() {
			break
		}

		lf.indexSize = li.Range.Offset + li.Range.Length

		data, err := lf.buf.ReadRange(li.Range)
		if err != nil {
			lf.overwritten = true
			lf.Close()
			return Invalid, nil
		}
		data.RTrim(isLineEnding)
		if data.Len() > lf.longestLine {
			lf.longestLine = data.Len()
		}
		lf.partialLine = li.Partial
		lf.pendingLineInfo = li

		formatWasActive := lf.format != nil
		before := lf.idx.Len()
		lf.runFormatDetection(li, data)
		after := lf.idx.Len()

		start := before
		if after < before {
			start = 0
		}
		for iter := start; iter < after; iter++ {
			lf.notifyNewLine(iter, data)
		}

		lf.notifyIndexing(lf.indexSize, fi.Size())
		bytesConsumed += li.Range.Length
		prevRange = li.Range

		if !formatWasActive && lf.format != nil {
			break
		}
	}

	lf.notifyEOF()

	if lenBeforeLoop == 1 && bytesConsumed > initialBulkReadThreshold {
		lf.logRusageDelta()
	}

	lf.stat = snapshotFromFileInfo(fi)

	if lf.outOfTimeOrderCount > 0 {
		lf.logger.Info("out-of-order timestamps clamped", "path", lf.path, "count", lf.outOfTimeOrderCount)
		lf.outOfTimeOrderCount = 0
	}

	if lf.sortNeeded {
		lf.sortNeeded = false
		return NewOrder, nil
	}
	return NewLines, nil
}

func (lf *LogFile) notifyRestart(rollbackCount int) {
	for _, o := range lf.loglineObs {
		o.LoglineRestart(lf, rollbackCount)
	}
}

func (lf *LogFile) notifyNewLine(iter int, data Bytes) {
	for _, o := range lf.loglineObs {
		o.LoglineNewLine(lf, iter, data)
	}
}

func (lf *LogFile) notifyEOF() {
	for _, o := range lf.loglineObs {
		o.LoglineEOF(lf)
	}
}

func (lf *LogFile) notifyIndexing(done, total int64) {
	for _, o := range lf.logfileObs {
		o.LogfileIndexing(lf, done, total)
	}
}

func (lf *LogFile) logRusageDelta() {
	var ru unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err != nil {
		return
	}
	lf.logger.Debug("initial bulk index pass complete", "path", lf.path, "maxrss_kb", ru.Maxrss)
}

func isLineEnding(b byte) bool { return b == '\n' || b == '\r' }

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
