// Package pipeline orchestrates file discovery, per-file processing, and
// batch summary reporting.
package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/backmassage/clipshrink/internal/config"
	"github.com/backmassage/clipshrink/internal/display"
	"github.com/backmassage/clipshrink/internal/ffmpeg"
	"github.com/backmassage/clipshrink/internal/logging"
	"github.com/backmassage/clipshrink/internal/meta"
	"github.com/backmassage/clipshrink/internal/planner"
	"github.com/backmassage/clipshrink/internal/probe"
	"github.com/backmassage/clipshrink/internal/term"
	"github.com/backmassage/clipshrink/internal/timestamp"
)

// Run is the top-level batch entry point. It discovers files and processes
// each sequentially: extract capture timestamp → probe codec → plan →
// transcode → restore timestamp. Inspection and transcode failures fail the
// file, not the batch; the caller turns stats.Failed into the exit code.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger) RunStats {
	var stats RunStats

	files, err := Discover(cfg.InputDir)
	if err != nil {
		log.Error("File discovery failed: %v", err)
		stats.Failed++
		return stats
	}

	stats.Total = len(files)
	log.Info("Found %d video files in %s", stats.Total, cfg.InputDir)
	if cfg.DryRun {
		log.Warn("DRY RUN — no files will be written")
	}

	adjuster := timestamp.New(cfg.DSTRule, time.Local)
	bar := newProgressBar(cfg, stats.Total)

	for i, path := range files {
		stats.Current = i + 1

		if bar != nil {
			bar.Describe(filepath.Base(path))
			_ = bar.Set(i)
		}

		if ctx.Err() != nil {
			log.Warn("Interrupted")
			break
		}

		processFile(ctx, cfg, log, adjuster, path, &stats)
	}

	if bar != nil {
		_ = bar.Finish()
	}

	logSummary(cfg, log, &stats)
	return stats
}

// processFile handles one video file end to end. A missing capture
// timestamp skips the file before any conversion work; every later error
// marks the file failed.
func processFile(
	ctx context.Context,
	cfg *config.Config,
	log *logging.Logger,
	adjuster *timestamp.Adjuster,
	path string,
	stats *RunStats,
) {
	basename := filepath.Base(path)
	log.Info("[%d/%d] %s", stats.Current, stats.Total, basename)

	// --- Capture timestamp (skip the file when absent) ---
	created, err := meta.Creation(ctx, cfg.FFprobePath, path)
	if err != nil {
		if errors.Is(err, meta.ErrNoTimestamp) {
			log.Warn("Skip %s: no media-created timestamp", basename)
			stats.Skipped++
			return
		}
		log.Error("Cannot read metadata of %s: %v", basename, err)
		stats.Failed++
		return
	}
	log.Debug(cfg.Verbose, "  Capture time (UTC): %s", created.Format("2006-01-02 15:04:05"))

	// --- Codec inspection ---
	pr, err := probe.Probe(ctx, cfg.FFprobePath, path)
	if err != nil {
		log.Error("Cannot probe %s: %v", basename, err)
		stats.Failed++
		return
	}

	plan := planner.BuildPlan(cfg, pr, path)
	log.Info("  %s -> %s", codecLabel(plan.SourceCodec), plan.VideoEncoder)

	// --- Skip-existing check ---
	if cfg.SkipExisting {
		if _, err := os.Stat(plan.OutputPath); err == nil {
			log.Warn("Skip (exists): %s", filepath.Base(plan.OutputPath))
			stats.Skipped++
			return
		}
	}

	// A dry run previews the plan without touching the disk, not even to
	// create the output directory.
	if cfg.DryRun {
		log.Success("[DRY] Would convert to %s", filepath.Base(plan.OutputPath))
		stats.Converted++
		return
	}

	if err := os.MkdirAll(filepath.Dir(plan.OutputPath), 0o755); err != nil {
		log.Error("Cannot create output directory: %v", err)
		stats.Failed++
		return
	}

	// --- Transcode ---
	start := time.Now()
	result := ffmpeg.Execute(ctx, cfg, plan)
	if result.Err != nil {
		log.Error("Conversion of %s failed: %v", basename, result.Err)
		logStderr(log, result.Stderr)
		// Never leave partial output behind; it would also shadow a
		// later retry under --force.
		os.Remove(plan.OutputPath)
		stats.Failed++
		return
	}

	// --- Restore capture timestamp on the output ---
	adjusted := adjuster.Adjust(created)
	if err := timestamp.Apply(plan.OutputPath, adjusted); err != nil {
		log.Error("Converted %s but could not restore its timestamp: %v", basename, err)
		stats.Failed++
		return
	}

	// --- Stats ---
	elapsed := time.Since(start)
	var inSize, outSize int64
	if fi, err := os.Stat(path); err == nil {
		inSize = fi.Size()
	}
	if fi, err := os.Stat(plan.OutputPath); err == nil {
		outSize = fi.Size()
	}

	ratio := int64(100)
	if inSize > 0 {
		ratio = outSize * 100 / inSize
	}
	stats.TotalInputBytes += inSize
	stats.TotalOutputBytes += outSize
	stats.Converted++

	log.Success("Converted in %ds (%d%% of original), stamped %s",
		int(elapsed.Seconds()), ratio, adjusted.Format("2006-01-02 15:04:05"))
}

// newProgressBar builds the batch progress bar, or nil when disabled or when
// verbose output would interleave with it. It writes to stderr so log lines
// on stdout stay clean.
func newProgressBar(cfg *config.Config, total int) *progressbar.ProgressBar {
	if !cfg.ShowProgress || cfg.Verbose || total == 0 {
		return nil
	}
	if !term.IsTerminal(os.Stderr) {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("Converting"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func codecLabel(codec string) string {
	if codec == "" {
		return "unknown"
	}
	return codec
}

func logStderr(log *logging.Logger, stderr string) {
	if stderr == "" {
		return
	}
	log.Error("Last ffmpeg output:")
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	start := 0
	if len(lines) > 20 {
		start = len(lines) - 20
	}
	for _, l := range lines[start:] {
		log.Error("  %s", l)
	}
}

func logSummary(cfg *config.Config, log *logging.Logger, stats *RunStats) {
	log.Info("==============================")
	log.Info("Done: %d converted, %d skipped, %d failed", stats.Converted, stats.Skipped, stats.Failed)

	if cfg.DryRun {
		log.Info("Total space saved: n/a (dry run)")
		return
	}

	saved := stats.SpaceSaved()
	if saved >= 0 {
		log.Success("Total space saved: %s (input %s -> output %s)",
			display.FormatBytes(saved),
			display.FormatBytes(stats.TotalInputBytes),
			display.FormatBytes(stats.TotalOutputBytes))
	} else {
		log.Warn("Total space saved: %s (overall output is larger)",
			display.FormatSavings(saved))
	}
}
