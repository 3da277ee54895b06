// Package textdetect classifies a text sample into a coarse shape (plain,
// markdown, xml/html, json, csv) for the indexer's one-shot first-line
// probe, run once per file independent of the line-format recognizer
// registry. It reuses the same sampling-and-scoring style as the
// PostgreSQL-specific content sniffers it's adapted from, generalized
// from "which log format" to "which coarse text shape".
package textdetect

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Classification names, ordered from most to least structured.
const (
	JSON     = "json"
	XML      = "xml"
	Markdown = "markdown"
	CSV      = "csv"
	Plain    = "plain"
	Binary   = "binary"
)

var (
	xmlTagRegex      = regexp.MustCompile(`(?m)^\s*<[a-zA-Z!?]`)
	markdownHeading  = regexp.MustCompile(`(?m)^#{1,6}\s+\S`)
	markdownBullet   = regexp.MustCompile(`(?m)^\s*[-*+]\s+\S`)
	markdownFence    = regexp.MustCompile("(?m)^```")
)

// binaryThreshold is the fraction of non-printable bytes above which a
// sample is classified as binary.
const binaryThreshold = 0.3

// Classify inspects a sample of text and returns one of the Classification
// constants. It never returns an error: an unrecognized shape is Plain.
func Classify(sample string) string {
	if sample == "" {
		return Plain
	}
	if isBinary(sample) {
		return Binary
	}

	trimmed := strings.TrimSpace(sample)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		var js any
		if err := json.Unmarshal([]byte(firstJSONValue(trimmed)), &js); err == nil {
			return JSON
		}
	}
	if xmlTagRegex.MatchString(trimmed) {
		return XML
	}
	if markdownHeading.MatchString(trimmed) || markdownFence.MatchString(trimmed) || markdownBullet.MatchString(trimmed) {
		return Markdown
	}
	if looksLikeCSV(trimmed) {
		return CSV
	}
	return Plain
}

// firstJSONValue returns the first line of a possibly-JSONL sample, since
// json.Unmarshal rejects a full multi-object stream.
func firstJSONValue(trimmed string) string {
	if nl := strings.IndexByte(trimmed, '\n'); nl != -1 && strings.HasPrefix(trimmed, "{") {
		return trimmed[:nl]
	}
	return trimmed
}

func looksLikeCSV(sample string) bool {
	lines := strings.SplitN(sample, "\n", 3)
	if len(lines) < 2 {
		return false
	}
	commas0 := strings.Count(lines[0], ",")
	if commas0 < 2 {
		return false
	}
	commas1 := strings.Count(lines[1], ",")
	return commas1 == commas0
}

func isBinary(sample string) bool {
	if strings.Contains(sample, "\x00") {
		return true
	}
	nonPrintable := 0
	for _, r := range sample {
		if r < 32 && r != '\n' && r != '\r' && r != '\t' {
			nonPrintable++
		}
	}
	return float64(nonPrintable)/float64(len(sample)) > binaryThreshold
}
