package index

// autodetectLineCap is the default number of unrecognized lines the driver
// will accumulate before auto-detection disables itself implicitly.
// OpenOptions.AutoDetectCap overrides it per LogFile.
const autodetectLineCap = 1000

// runFormatDetection is the format-detection driver. It either delegates
// to an already-locked format, or tries each registered recognizer in
// order until one matches, locking it in on first match.
func (lf *LogFile) runFormatDetection(li LineInfo, data Bytes) ScanResult {
	if lf.format != nil {
		return lf.scanAndReconcile(lf.format, li, data)
	}

	if !lf.autoDetect || lf.unrecognizedLines >= lf.autoDetectCap {
		return lf.appendUnmatched(li, data)
	}

	filename := lf.path
	for _, candidate := range lf.registry {
		if !candidate.MatchName(filename) {
			continue
		}
		candidate.Clear()
		lf.SetFormatBaseTime(candidate)

		preHeadTime, havePre := lf.headTime()
		preLastIdx := lf.idx.Len() - 1

		result := candidate.Scan(lf, lf.idx, li, data)
		switch result {
		case ScanMatch:
			lf.lockFormat(candidate, data, preHeadTime, havePre, preLastIdx)
			return lf.reconcileAfterScan(preLastIdx)
		case ScanIncomplete:
			return ScanIncomplete
		default:
			continue
		}
	}

	lf.unrecognizedLines++
	return lf.appendUnmatched(li, data)
}

// headTime returns the Time of the first index entry, if any.
func (lf *LogFile) headTime() (int64, bool) {
	if lf.idx.Len() == 0 {
		return 0, false
	}
	return lf.idx.At(0).Time, true
}

// lockFormat freezes candidate as the active format: takes its specialized
// clone, recomputes content_id from the matched bytes, and rewrites every
// previously indexed line's timestamp to the newly appended anchor's
// timestamp. Prior unrecognized lines were continuations of an absent
// header; dating them to the first parsed record is the best local
// approximation.
func (lf *LogFile) lockFormat(candidate Format, data Bytes, preHeadTime int64, havePre bool, preLastIdx int) {
	anchor, ok := lf.idx.Last()
	if !ok {
		lf.format = candidate.Specialized()
		return
	}
	lf.contentID = hashBytes(data.Data())
	for i := 0; i <= preLastIdx; i++ {
		l := lf.idx.At(i)
		l.Time = anchor.Time
		l.Millis = anchor.Millis
		lf.idx.SetAt(i, l)
	}
	lf.format = candidate.Specialized()

	if newHead, ok := lf.headTime(); ok && havePre && newHead != preHeadTime {
		lf.sortNeeded = true
	}
}

// scanAndReconcile delegates to an already-locked format's Scan and applies
// the post-scan reconciliation (VALID_UTF, time-regression handling).
func (lf *LogFile) scanAndReconcile(f Format, li LineInfo, data Bytes) ScanResult {
	preLastIdx := lf.idx.Len() - 1
	result := f.Scan(lf, lf.idx, li, data)
	switch result {
	case ScanMatch:
		return lf.reconcileAfterScan(preLastIdx)
	case ScanNoMatch:
		return lf.appendUnmatched(li, data)
	default:
		return ScanIncomplete
	}
}

// reconcileAfterScan implements SCAN_MATCH post-processing: mark
// VALID_UTF on the last appended line, and resolve any time regression
// against the previously-last line.
func (lf *LogFile) reconcileAfterScan(preLastIdx int) ScanResult {
	last, ok := lf.idx.Last()
	if !ok {
		return ScanMatch
	}
	lastIdxPos := lf.idx.Len() - 1
	lastLI := lf.pendingLineInfo
	last.SetValidUTF(lastLI.ValidUTF)
	lf.idx.SetAt(lastIdxPos, last)

	if preLastIdx < 0 {
		return ScanMatch
	}
	prevLast := lf.idx.At(preLastIdx)
	if !last.Less(prevLast) {
		return ScanMatch
	}

	// Time regression: the newly appended tail (preLastIdx+1..end)
	// compares earlier than the previous last line.
	timeOrdered := lf.format != nil && lf.format.TimeOrdered()
	if timeOrdered {
		for i := preLastIdx + 1; i < lf.idx.Len(); i++ {
			l := lf.idx.At(i)
			l.Time = prevLast.Time
			l.Millis = prevLast.Millis
			l.SetTimeSkew(true)
			lf.idx.SetAt(i, l)
		}
		lf.outOfTimeOrderCount++
	} else {
		lf.sortNeeded = true
	}
	return ScanMatch
}

// appendUnmatched implements SCAN_NO_MATCH: the driver itself appends a
// single continuation record inheriting the predecessor's time/millis/
// module/opid.
func (lf *LogFile) appendUnmatched(li LineInfo, data Bytes) ScanResult {
	var l LogLine
	l.Offset = li.Range.Offset

	if prev, ok := lf.idx.Last(); ok {
		l.Time = prev.Time
		l.Millis = prev.Millis
		l.ModuleID = prev.ModuleID
		l.OpID = prev.OpID
		if lf.format != nil {
			l.LevelAndFlags = FlagContinued | prev.LevelAndFlags.Level()
		} else {
			l.LevelAndFlags = LevelUnknown
		}
	} else {
		l.Time = lf.indexTime
		l.LevelAndFlags = LevelUnknown
	}
	l.SetValidUTF(li.ValidUTF)
	lf.idx.Push(l)
	return ScanNoMatch
}
