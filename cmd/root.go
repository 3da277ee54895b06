// Package cmd implements the command-line interface for quellogidx.
// It uses the Cobra library to handle commands, flags, and execution.
package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

// Version information (passed from main)
var (
	version string
	commit  string
	date    string
)

// Flag variables for command-line options.
// These are package-level variables as required by Cobra's flag binding.
var (
	// Time filter flags
	beginTime  string // --begin: filter entries after this datetime
	endTime    string // --end: filter entries before this datetime
	windowFlag string // --window: time window duration (e.g., 30m, 2h)

	// Content filter flags
	grepExpr   []string // --grep: literal substring(s) required in the message
	attrFilter []string // --attr: required key=value pair(s) in the message

	// Config flag
	configPath string // --config: path to a YAML config overriding registry order/limits

	// Output flags
	jsonFlag    bool // --json: emit one JSON object per line
	summaryFlag bool // --summary: print only the per-file summary
	followFlag  bool // --follow: parsed but not read; files are indexed once
)

// rootCmd is the main command for the quellogidx CLI.
var rootCmd = &cobra.Command{
	Use:   "quellogidx [files, dirs, or globs]",
	Short: "Incremental log file indexer and viewer",
	Long: `quellogidx indexes one or more log files incrementally, detecting
each file's format (stderr/syslog, CSV, or JSON) and printing the
resulting time-ordered, continuation-aware line index.

Arguments may be individual files, directories (scanned non-recursively),
or glob patterns. Plain, gzip, zstd, and 7z-archived logs are all
accepted.`,
	Run: executeIndexing,
}

// Execute runs the root command.
// This is called by main.go to start the CLI application.
func Execute(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

// init initializes all command-line flags.
func init() {
	// Time filter flags
	rootCmd.PersistentFlags().StringVarP(&beginTime, "begin", "b", "",
		"Filter entries after this datetime (format: YYYY-MM-DD HH:MM:SS)")
	rootCmd.PersistentFlags().StringVarP(&endTime, "end", "e", "",
		"Filter entries before this datetime (format: YYYY-MM-DD HH:MM:SS)")
	rootCmd.PersistentFlags().StringVarP(&windowFlag, "window", "W", "",
		"Time window duration (e.g., 30m, 2h). Fills in whichever of --begin/--end is unset")

	// Content filter flags
	rootCmd.PersistentFlags().StringSliceVarP(&grepExpr, "grep", "g", nil,
		"Require this literal substring in the message text. Can be specified multiple times")
	rootCmd.PersistentFlags().StringSliceVarP(&attrFilter, "attr", "a", nil,
		"Require key=value in the message text. Can be specified multiple times")

	// Config flag
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"Path to a YAML config file overriding registry order and detection limits")

	// Output flags
	rootCmd.Flags().BoolVar(&jsonFlag, "json", false,
		"Emit one JSON object per line instead of text")
	rootCmd.Flags().BoolVar(&summaryFlag, "summary", false,
		"Print only the per-file summary, not each line")
	rootCmd.Flags().BoolVarP(&followFlag, "follow", "f", false,
		"Has no effect: each file is indexed once and later growth is not followed")
}
