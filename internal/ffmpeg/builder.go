// Package ffmpeg builds and runs the transcoding command for a planned file.
package ffmpeg

import (
	"github.com/backmassage/clipshrink/internal/config"
	"github.com/backmassage/clipshrink/internal/planner"
)

// Build constructs the complete ffmpeg argument slice for a file: banner
// suppressed, warning-level logging (info when verbose), per-file video
// encoder from the plan, fixed audio encoder and bitrate.
func Build(cfg *config.Config, plan *planner.FilePlan) []string {
	args := make([]string, 0, 16)

	// --- Preamble ---
	args = append(args, cfg.FFmpegPath, "-hide_banner", "-nostdin", "-y")

	if cfg.Verbose {
		args = append(args, "-loglevel", "info")
	} else {
		args = append(args, "-loglevel", "warning")
	}

	// --- Input ---
	args = append(args, "-i", plan.InputPath)

	// --- Codecs ---
	args = append(args,
		"-c:v", plan.VideoEncoder,
		"-c:a", plan.AudioEncoder,
		"-b:a", plan.AudioBitrate,
	)

	// --- Output ---
	args = append(args, plan.OutputPath)

	return args
}
