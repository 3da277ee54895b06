// Package cmd implements the command-line interface for quellogidx.
package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Alain-L/quellogidx/config"
	"github.com/Alain-L/quellogidx/display"
	"github.com/Alain-L/quellogidx/index"
	"github.com/Alain-L/quellogidx/linebuf"
	"github.com/Alain-L/quellogidx/registry"
	"github.com/Alain-L/quellogidx/sinkutil"
)

// executeIndexing is the main execution function for the root command.
// It orchestrates the whole indexing pipeline:
//  1. Collect input files
//  2. Parse time/attribute/grep filters
//  3. Load the optional config and build a registry
//  4. Open and index each file in parallel, collecting its lines
//  5. Render the filtered lines, file by file in index order
func executeIndexing(cmd *cobra.Command, args []string) {
	startTime := time.Now()

	allFiles := collectFiles(args)
	if len(allFiles) == 0 {
		fmt.Println("[INFO] No log files found. Exiting.")
		os.Exit(0)
	}
	totalFileSize := calculateTotalFileSize(allFiles)

	validateTimeFilters()
	beginT, endT := parseDateTimes(beginTime, endTime)
	windowDur := parseWindow(windowFlag)
	beginT, endT = applyTimeWindow(beginT, endT, windowDur)

	filters := buildLineFilters(beginT, endT)

	cfg, err := config.LoadOptional(afero.NewOsFs(), configPath)
	if err != nil {
		log.Fatalf("[ERROR] Failed to load config %s: %v", configPath, err)
	}
	reg := registry.OrderedFrom(cfg.RegistryOrder)

	cache, err := registry.NewDetectionCache(cfg.DetectionCacheSize)
	if err != nil {
		log.Fatalf("[ERROR] Failed to build detection cache: %v", err)
	}

	results := indexFilesAsync(allFiles, reg, cache, cfg.AutoDetectCap)
	if len(results) == 0 {
		log.Fatalf("[ERROR] No files could be indexed. Check that files exist, are readable, and in a supported format.")
	}

	renderResults(results, filters, startTime, totalFileSize)
}

// fileResult is one file's indexing outcome: the sink that collected its
// lines plus the LogFile the index lives behind (for format/path info).
type fileResult struct {
	path string
	lf   *index.LogFile
	sink *sinkutil.CollectingSink
}

// indexFilesAsync opens and indexes files in parallel, using the same
// worker-pool sizing for multi-file runs.
func indexFilesAsync(files []string, reg []index.Format, cache *registry.DetectionCache, autoDetectCap int) []fileResult {
	numWorkers := determineWorkerCount(len(files))

	resultsChan := make(chan *fileResult, len(files))

	runOne := func(path string) {
		r, err := indexOneFile(path, reg, cache, autoDetectCap)
		if err != nil {
			log.Printf("[ERROR] Failed to index %s: %v", path, err)
			resultsChan <- nil
			return
		}
		resultsChan <- r
	}

	if numWorkers == 1 {
		for _, f := range files {
			runOne(f)
		}
	} else {
		fileChan := make(chan string, len(files))
		for _, f := range files {
			fileChan <- f
		}
		close(fileChan)

		var wg sync.WaitGroup
		for i := 0; i < numWorkers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for f := range fileChan {
					runOne(f)
				}
			}()
		}
		wg.Wait()
	}
	close(resultsChan)

	var results []fileResult
	for r := range resultsChan {
		if r != nil {
			results = append(results, *r)
		}
	}
	return results
}

// indexOneFile opens path (selecting a LineBuffer by its extension),
// attaches a collecting sink, and runs RebuildIndex to completion. cache
// reorders the registry so a recognizer that matched this path on a prior
// run (rotation, repeated invocation) is tried first, and is updated once
// a format locks in so the next reopen of path benefits.
func indexOneFile(path string, reg []index.Format, cache *registry.DetectionCache, autoDetectCap int) (*fileResult, error) {
	buf, err := bufferFor(path)
	if err != nil {
		return nil, err
	}

	ordered := reg
	if cache != nil {
		ordered = cache.OrderFor(path, reg)
	}

	lf, err := index.Open(index.OpenOptions{
		Path:          path,
		FD:            -1,
		DetectFormat:  true,
		Registry:      ordered,
		LineBuffer:    buf,
		Logger:        slog.Default(),
		AutoDetectCap: autoDetectCap,
	})
	if err != nil {
		return nil, err
	}

	sink := sinkutil.NewCollectingSink()
	lf.AddLoglineObserver(sink)
	lf.AddLogfileObserver(sink)

	// RebuildIndex returns after format lock-in even mid-file, so drive it
	// until a pass makes no further progress.
	for {
		before := lf.IndexSize()
		if _, err := lf.RebuildIndex(); err != nil {
			return nil, err
		}
		if lf.IndexSize() == before {
			break
		}
	}

	if cache != nil && lf.Format() != nil {
		cache.Remember(path, lf.Format().Name())
	}

	return &fileResult{path: path, lf: lf, sink: sink}, nil
}

// bufferFor picks the LineBuffer implementation matching path's extension:
// plain pread-based access for everything it can, decompression to memory
// only when the transport demands it.
func bufferFor(path string) (index.LineBuffer, error) {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".gz") || strings.HasSuffix(lower, ".tgz"):
		return linebuf.OpenCompressed(path, linebuf.Gzip)
	case strings.HasSuffix(lower, ".zst") || strings.HasSuffix(lower, ".zstd") || strings.HasSuffix(lower, ".tzst"):
		return linebuf.OpenCompressed(path, linebuf.Zstd)
	case strings.HasSuffix(lower, ".7z"):
		return linebuf.OpenArchive(path)
	default:
		return linebuf.NewFileBuffer(), nil
	}
}

// buildLineFilters creates a display.LineFilters from command-line flags.
func buildLineFilters(beginT, endT time.Time) display.LineFilters {
	attrs := make(map[string][]string)
	for _, kv := range attrFilter {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 {
			log.Fatalf("[ERROR] --attr must be key=value, got %q", kv)
		}
		attrs[parts[0]] = append(attrs[parts[0]], parts[1])
	}
	return display.LineFilters{
		Begin:      beginT,
		End:        endT,
		Attributes: attrs,
		Grep:       grepExpr,
	}
}

// renderResults filters and prints each file's collected lines, then a
// processing summary, in text, JSON, or per-file summary form.
func renderResults(results []fileResult, filters display.LineFilters, startTime time.Time, totalFileSize int64) {
	wideMode := terminalWidth() >= 120

	var total int
	for _, r := range results {
		if summaryFlag {
			printFileSummary(r)
			continue
		}
		for _, line := range r.sink.Lines {
			t := time.Unix(line.Line.Time, 0).UTC()
			if !filters.Passes(t, line.Text) {
				continue
			}
			total++
			if jsonFlag {
				printJSONLine(r.path, line)
			} else {
				printTextLine(r.path, t, line, wideMode)
			}
		}
	}

	duration := time.Since(startTime)
	PrintProcessingSummary(total, duration, totalFileSize)
}

func printFileSummary(r fileResult) {
	formatName := "unrecognized"
	if r.lf.Format() != nil {
		formatName = r.lf.Format().Name()
	}
	fmt.Printf("%s: %d lines, format=%s, out_of_order=%d, longest=%d\n",
		r.path, r.lf.Index().Len(), formatName, r.lf.OutOfTimeOrderCount(), r.lf.LongestLine())
}

func printTextLine(path string, t time.Time, line sinkutil.Line, wideMode bool) {
	text := line.Text
	if !wideMode && len(text) > 100 {
		text = text[:100] + "..."
	}
	fmt.Printf("%s [%s] %s: %s\n", t.Format(DateTimeFormat), line.Line.Level(), path, text)
}

// terminalWidth reports the current stdout width, used to pick between
// wide and compact line rendering, falling back to 120 columns when
// stdout isn't a terminal (e.g. piped output).
func terminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return 120
	}
	return w
}

type jsonLine struct {
	File  string `json:"file"`
	Time  string `json:"time"`
	Level string `json:"level"`
	Text  string `json:"text"`
}

func printJSONLine(path string, line sinkutil.Line) {
	t := time.Unix(line.Line.Time, 0).UTC()
	out, err := json.Marshal(jsonLine{
		File:  path,
		Time:  t.Format(time.RFC3339),
		Level: line.Line.Level().String(),
		Text:  line.Text,
	})
	if err != nil {
		log.Printf("[WARN] Failed to marshal line from %s: %v", path, err)
		return
	}
	fmt.Println(string(out))
}

// validateTimeFilters checks that time filter flags are compatible.
func validateTimeFilters() {
	if beginTime != "" && endTime != "" && windowFlag != "" {
		log.Fatalf("[ERROR] --begin, --end, and --window cannot all be used together")
	}
}

// applyTimeWindow applies the time window to the begin/end times.
// If window is specified and only one of begin/end is set, it calculates
// the other.
func applyTimeWindow(begin, end time.Time, window time.Duration) (time.Time, time.Time) {
	if window <= 0 {
		return begin, end
	}
	if !begin.IsZero() && !end.IsZero() {
		return begin, end
	}
	if !begin.IsZero() && end.IsZero() {
		end = begin.Add(window)
	} else if begin.IsZero() && !end.IsZero() {
		begin = end.Add(-window)
	} else {
		fmt.Println("[WARN] --window specified but neither --begin nor --end is set. Ignoring --window.")
	}
	return begin, end
}

// calculateTotalFileSize computes the total size of all input files.
func calculateTotalFileSize(files []string) int64 {
	var total int64
	for _, file := range files {
		if fi, err := os.Stat(file); err == nil {
			total += fi.Size()
		}
	}
	return total
}

// PrintProcessingSummary displays a summary line showing processing statistics.
func PrintProcessingSummary(numEntries int, duration time.Duration, fileSize int64) {
	fmt.Printf("quellogidx - %d entries processed in %.2fs (%s)\n",
		numEntries, duration.Seconds(), formatBytes(fileSize))
}

// formatBytes converts a byte count to a human-readable string (KB, MB, GB, etc).
func formatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%dB", b)
	}

	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f%cB", float64(b)/float64(div), "kMGTPE"[exp])
}
