// Package logging provides the leveled batch logger: a zerolog console
// writer on stdout plus an optional JSON file sink. Every record carries the
// run ID so interleaved runs appending to the same log file stay separable.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/backmassage/clipshrink/internal/config"
	"github.com/backmassage/clipshrink/internal/term"
)

const consoleTimeFormat = "2006-01-02 15:04:05"

// Logger wraps zerolog with the printf-style leveled surface the rest of the
// program uses. Success is an info-level record tagged status=ok so it stays
// greppable in the JSON sink.
type Logger struct {
	zl      zerolog.Logger
	file    *os.File
	verbose bool
	runID   string
}

// NewLogger builds the logger from cfg: console writer with resolved colors,
// debug level when verbose, and an optional appended JSON file sink.
// Call Close when done if LogFile was set.
func NewLogger(cfg *config.Config) (*Logger, error) {
	console := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: consoleTimeFormat,
		NoColor:    !term.ColorsEnabled(cfg.ColorMode),
		// The run ID matters in the appended log file, not on screen.
		FieldsExclude: []string{"run_id"},
	}

	l := &Logger{
		verbose: cfg.Verbose,
		runID:   uuid.NewString(),
	}

	var sink io.Writer = console
	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		l.file = f
		sink = zerolog.MultiLevelWriter(console, f)
	}

	level := zerolog.InfoLevel
	if cfg.Verbose {
		level = zerolog.DebugLevel
	}

	l.zl = zerolog.New(sink).Level(level).With().
		Timestamp().
		Str("run_id", l.runID).
		Logger()
	return l, nil
}

// RunID returns the identifier stamped on every record of this run.
func (l *Logger) RunID() string { return l.runID }

// Close closes the log file if one was opened.
func (l *Logger) Close() error {
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

// Info logs at INFO level.
func (l *Logger) Info(format string, args ...interface{}) {
	l.zl.Info().Msg(fmt.Sprintf(format, args...))
}

// Success logs at INFO level with status=ok.
func (l *Logger) Success(format string, args ...interface{}) {
	l.zl.Info().Str("status", "ok").Msg(fmt.Sprintf(format, args...))
}

// Warn logs at WARN level.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.zl.Warn().Msg(fmt.Sprintf(format, args...))
}

// Error logs at ERROR level.
func (l *Logger) Error(format string, args ...interface{}) {
	l.zl.Error().Msg(fmt.Sprintf(format, args...))
}

// Debug logs at DEBUG level; suppressed unless verbose.
func (l *Logger) Debug(verbose bool, format string, args ...interface{}) {
	if !verbose {
		return
	}
	l.zl.Debug().Msg(fmt.Sprintf(format, args...))
}
