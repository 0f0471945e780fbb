package ffmpeg

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"

	"github.com/backmassage/clipshrink/internal/config"
	"github.com/backmassage/clipshrink/internal/planner"
)

// ExecResult holds the outcome of a single ffmpeg invocation.
type ExecResult struct {
	Stderr string
	Err    error
}

// Execute builds and runs the ffmpeg command for a file, blocking until the
// process exits. Stderr is captured so encoder warnings survive a failure;
// when verbose it is also tee'd to os.Stderr in real time. Stdout is left
// untouched — ffmpeg writes nothing useful there and the probe's structured
// output must never share a stream with encoder noise.
func Execute(ctx context.Context, cfg *config.Config, plan *planner.FilePlan) ExecResult {
	args := Build(cfg, plan)

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	var stderrBuf bytes.Buffer
	if cfg.Verbose {
		cmd.Stderr = io.MultiWriter(&stderrBuf, os.Stderr)
	} else {
		cmd.Stderr = &stderrBuf
	}

	err := cmd.Run()
	return ExecResult{
		Stderr: stderrBuf.String(),
		Err:    err,
	}
}
