// Package config holds runtime configuration: viper-backed defaults and
// environment overrides, CLI flag parsing, and validation.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// --- Enum types for validated string fields ---

// DSTRule selects how the capture timestamp is shifted to local time.
type DSTRule string

const (
	// RuleTZData uses the platform timezone database (correct for any region).
	RuleTZData DSTRule = "tzdata"
	// RuleFixed uses the US approximation: first Sunday on/after March 8
	// through first Sunday on/after November 1. Kept for parity with the
	// original tool; wrong outside US DST rules.
	RuleFixed DSTRule = "fixed"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Config holds all runtime settings. It is populated by [Defaults] and then
// mutated by [ParseFlags] before being passed (by pointer) to packages that
// need it.
type Config struct {
	// Paths (input from positional arg, tools from flags or environment).
	InputDir    string
	FFmpegPath  string // Default: "ffmpeg" (PATH lookup). Env: CLIPSHRINK_FFMPEG.
	FFprobePath string // Default: "ffprobe". Env: CLIPSHRINK_FFPROBE.

	// Output.
	OutputDirName string // Subdirectory under InputDir. Default: "Converted".

	// Audio encoding (the video encoder is chosen per file from the source codec).
	AudioEncoder string // Default: "aac".
	AudioBitrate string // Default: "256k".

	// Timestamp restoration.
	DSTRule DSTRule // Default: "tzdata".

	// Behavior flags.
	DryRun       bool
	SkipExisting bool // Default: true. Cleared by --force.

	// Display and logging.
	Verbose      bool
	ShowProgress bool      // Default: true.
	ColorMode    ColorMode // Default: "auto".
	LogFile      string    // Optional JSON log file path.
	CheckOnly    bool      // Run --check diagnostics and exit.
}

// newViper builds the defaults layer. AutomaticEnv makes each key
// overridable as CLIPSHRINK_<KEY> (dots become underscores).
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("clipshrink")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("ffmpeg", "ffmpeg")
	v.SetDefault("ffprobe", "ffprobe")
	v.SetDefault("output_dir_name", "Converted")
	v.SetDefault("audio.encoder", "aac")
	v.SetDefault("audio.bitrate", "256k")
	v.SetDefault("dst_rule", string(RuleTZData))
	v.SetDefault("color", string(ColorAuto))
	v.SetDefault("progress", true)
	v.SetDefault("skip_existing", true)
	return v
}

// Defaults returns a Config built from viper defaults and CLIPSHRINK_*
// environment overrides. Used as the base before [ParseFlags] applies CLI
// overrides.
func Defaults() Config {
	v := newViper()
	return Config{
		FFmpegPath:    v.GetString("ffmpeg"),
		FFprobePath:   v.GetString("ffprobe"),
		OutputDirName: v.GetString("output_dir_name"),
		AudioEncoder:  v.GetString("audio.encoder"),
		AudioBitrate:  v.GetString("audio.bitrate"),
		DSTRule:       DSTRule(v.GetString("dst_rule")),
		ColorMode:     ColorMode(v.GetString("color")),
		ShowProgress:  v.GetBool("progress"),
		SkipExisting:  v.GetBool("skip_existing"),
	}
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks enum fields and normalizes the audio bitrate. When not in
// CheckOnly mode, it also requires a non-empty input directory.
func (c *Config) Validate() error {
	switch c.DSTRule {
	case RuleTZData, RuleFixed:
		// valid
	default:
		return errors.New("invalid DST rule (use 'tzdata' or 'fixed')")
	}

	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	if c.FFmpegPath == "" || c.FFprobePath == "" {
		return errors.New("ffmpeg and ffprobe paths must not be empty")
	}

	normalized, err := normalizeAudioBitrate(c.AudioBitrate)
	if err != nil {
		return err
	}
	c.AudioBitrate = normalized

	if c.CheckOnly {
		return nil
	}
	if c.InputDir == "" {
		return errors.New("need exactly one input_dir argument")
	}
	return nil
}

// normalizeAudioBitrate validates and canonicalizes user bitrate input.
// Accepted forms: "256", "256k", "256K", "256kbps". Output is "<n>k".
func normalizeAudioBitrate(raw string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return "", errors.New("audio bitrate must not be empty")
	}
	if strings.HasSuffix(s, "kbps") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "kbps"))
	} else if strings.HasSuffix(s, "k") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "k"))
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return "", fmt.Errorf("invalid audio bitrate %q (use positive Kbps value, e.g. 256k)", raw)
	}
	return fmt.Sprintf("%dk", n), nil
}
