// Command clipshrink is the CLI entrypoint for the phone video batch
// compressor.
//
// It parses flags, validates configuration, and either runs system
// diagnostics (--check) or the conversion pipeline: every recognized video
// in the input directory is compressed into a Converted subdirectory and
// stamped with its original capture time.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/backmassage/clipshrink/internal/check"
	"github.com/backmassage/clipshrink/internal/config"
	"github.com/backmassage/clipshrink/internal/display"
	"github.com/backmassage/clipshrink/internal/logging"
	"github.com/backmassage/clipshrink/internal/pipeline"
	"github.com/backmassage/clipshrink/internal/term"
)

// version and commit are injected at build time via -ldflags.
// When built with plain "go build" (no make), these retain their defaults.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Phase 1: Bootstrap — the logger doesn't exist yet, so errors go
	// directly to stderr via fmt. Once NewLogger succeeds, all output
	// goes through the logger for consistent formatting and log-file capture.
	cfg := config.Defaults()
	if err := config.ParseFlags(&cfg, version); err != nil {
		fmt.Fprintf(os.Stderr, "clipshrink: %v\n", err)
		return 1
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "clipshrink: %v\n", err)
		return 1
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "clipshrink: %v\n", err)
		return 1
	}
	defer log.Close()

	// Phase 2: Logger available — all output goes through log from here on.
	display.PrintBanner(term.ColorsEnabled(cfg.ColorMode))

	if cfg.CheckOnly {
		check.RunCheck(&cfg, log)
		return 0
	}

	// The input directory must exist before anything else happens; a bad
	// path aborts the whole batch up front.
	inputAbs, err := absPath(cfg.InputDir)
	if err != nil {
		log.Error("Input directory not found: %s", cfg.InputDir)
		return 1
	}
	cfg.InputDir = inputAbs

	log.Info("=== clipshrink v%s (%s) ===", version, commit)
	log.Info("In:  %s", cfg.InputDir)
	log.Info("Out: %s", filepath.Join(cfg.InputDir, cfg.OutputDirName))

	// Fail fast if ffmpeg or ffprobe are unavailable.
	if err := check.CheckDeps(&cfg); err != nil {
		log.Error("%v", err)
		return 1
	}

	// Phase 3: Signal handling — cancel context on SIGINT/SIGTERM so the
	// pipeline can stop between files without leaving partial output.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn("Received interrupt, finishing current file…")
		cancel()
	}()

	// Phase 4: Run pipeline (discover → extract → probe → convert → stamp).
	stats := pipeline.Run(ctx, &cfg, log)

	if stats.Failed > 0 {
		return 1
	}
	return 0
}

// absPath returns the absolute, symlink-resolved path. Resolution doubles as
// an existence check.
func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
