// Package registry implements the pluggable log-format recognizers the
// indexer's format-detection driver scans against: stderr/syslog, CSV,
// and JSON, each exposing the scan/specialized/match_name recognizer
// contract the core index package requires.
package registry

import "github.com/Alain-L/quellogidx/index"

// Default returns the standard recognizer set in detection priority order:
// JSON and CSV are tried first because they only claim filenames with a
// matching extension; StderrFormat is the catch-all.
func Default() []index.Format {
	return []index.Format{
		NewJSONFormat(),
		NewCSVFormat(),
		NewStderrFormat(),
	}
}

// OrderedFrom builds a recognizer list following the given name order
// (e.g. from config.Config.RegistryOrder), appending any default
// recognizer the caller omitted so every known format still participates.
func OrderedFrom(names []string) []index.Format {
	all := Default()
	byName := make(map[string]index.Format, len(all))
	for _, f := range all {
		byName[f.Name()] = f
	}

	ordered := make([]index.Format, 0, len(all))
	seen := make(map[string]bool, len(all))
	for _, name := range names {
		if f, ok := byName[name]; ok && !seen[name] {
			ordered = append(ordered, f)
			seen[name] = true
		}
	}
	for _, f := range all {
		if !seen[f.Name()] {
			ordered = append(ordered, f)
		}
	}
	return ordered
}

func levelFromWord(word string) index.LevelFlag {
	switch word {
	case "TRACE":
		return index.LevelTrace
	case "DEBUG", "DEBUG1", "DEBUG2", "DEBUG3", "DEBUG4", "DEBUG5":
		return index.LevelDebug
	case "LOG", "INFO", "NOTICE", "STATEMENT":
		return index.LevelInfo
	case "WARNING", "WARN":
		return index.LevelWarning
	case "ERROR":
		return index.LevelError
	case "FATAL", "PANIC":
		return index.LevelFatal
	default:
		return index.LevelUnknown
	}
}
