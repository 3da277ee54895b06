// Package main is the entry point for the quellogidx application.
// quellogidx is an incremental log file indexer that detects each file's
// format and produces a time-ordered, continuation-aware line index.
package main

import (
	"github.com/Alain-L/quellogidx/cmd"
)

// version, commit, and date are set at build time via -ldflags, e.g.:
//
//	go build -ldflags "-X main.version=1.0.0 -X main.commit=$(git rev-parse --short HEAD) -X main.date=$(date -u +%Y-%m-%d)"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Execute the CLI application.
	// All command-line parsing, flag handling, and execution logic
	// is delegated to the cmd package.
	cmd.Execute(version, commit, date)
}

// CPU profiling can be enabled for performance analysis:
//
// import (
//     "log"
//     "os"
//     "runtime/pprof"
// )
//
// f, err := os.Create("cpu.prof")
// if err != nil {
//     log.Fatal(err)
// }
// defer f.Close()
//
// if err := pprof.StartCPUProfile(f); err != nil {
//     log.Fatal(err)
// }
// defer pprof.StopCPUProfile()
//
// To analyze: go tool pprof cpu.prof
