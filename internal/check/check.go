// Package check provides system diagnostics (--check mode) and pre-pipeline
// dependency validation for ffmpeg, ffprobe, and the target encoders.
package check

import (
	"errors"
	"os/exec"
	"strings"

	"github.com/backmassage/clipshrink/internal/config"
)

// Sentinel errors returned by CheckDeps when a required tool is missing.
var (
	ErrFfmpegNotFound  = errors.New("ffmpeg not found (set --ffmpeg or CLIPSHRINK_FFMPEG)")
	ErrFfprobeNotFound = errors.New("ffprobe not found (set --ffprobe or CLIPSHRINK_FFPROBE)")
)

// Target encoders the planner can select; --check reports availability of each.
var targetEncoders = []string{"libx265", "libx264", "libvpx-vp9"}

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(bool, string, ...interface{})
}

// RunCheck runs the interactive --check flow: prints availability of ffmpeg,
// ffprobe, the three target video encoders, and the AAC audio encoder.
// This is informational only and does not stop on failure.
func RunCheck(cfg *config.Config, log Logger) {
	log.Info("=== System Check ===")

	checkTool(log, "ffmpeg", cfg.FFmpegPath)
	checkTool(log, "ffprobe", cfg.FFprobePath)
	checkEncoders(cfg, log)
	checkAAC(cfg, log)
}

// checkTool verifies the tool is runnable and logs its version string.
func checkTool(log Logger, name, path string) {
	if _, err := exec.LookPath(path); err != nil {
		log.Error("%s not found at %q", name, path)
		return
	}
	out, err := exec.Command(path, "-version").Output()
	if err != nil {
		log.Warn("%s found but -version failed: %v", name, err)
		return
	}
	firstLine := strings.TrimSpace(string(out))
	if idx := strings.Index(firstLine, "\n"); idx > 0 {
		firstLine = firstLine[:idx]
	}
	log.Success("%s: %s", name, firstLine)
}

// checkEncoders reports which of the planner's target encoders this ffmpeg
// build ships.
func checkEncoders(cfg *config.Config, log Logger) {
	out, err := exec.Command(cfg.FFmpegPath, "-hide_banner", "-encoders").Output()
	if err != nil {
		log.Warn("Could not list encoders: %v", err)
		return
	}
	listing := string(out)
	for _, enc := range targetEncoders {
		if strings.Contains(listing, enc) {
			log.Success("encoder %s available", enc)
		} else {
			log.Warn("encoder %s missing (files mapping to it will fail)", enc)
		}
	}
}

// checkAAC runs a minimal AAC encode to verify the audio encoder works.
func checkAAC(cfg *config.Config, log Logger) {
	log.Info("Testing AAC encoder...")
	if runSilent(cfg.FFmpegPath,
		"-hide_banner", "-nostdin",
		"-f", "lavfi", "-i", "sine=frequency=1000:duration=0.1",
		"-c:a", cfg.AudioEncoder, "-b:a", cfg.AudioBitrate, "-f", "null", "-",
	) {
		log.Success("AAC encoder works")
	} else {
		log.Error("AAC encoder test failed")
	}
}

// CheckDeps is the pre-pipeline validation: ffmpeg and ffprobe must be
// runnable at their configured paths. Encoder availability is not probed
// here; a missing encoder surfaces as a per-file transcode failure.
func CheckDeps(cfg *config.Config) error {
	if _, err := exec.LookPath(cfg.FFmpegPath); err != nil {
		return ErrFfmpegNotFound
	}
	if _, err := exec.LookPath(cfg.FFprobePath); err != nil {
		return ErrFfprobeNotFound
	}
	return nil
}

// runSilent runs a command and returns true if it exits with status 0.
// Both stdout and stderr are discarded.
func runSilent(name string, args ...string) bool {
	cmd := exec.Command(name, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	return cmd.Run() == nil
}
