package config

// This file implements CLI flag parsing and help text.
// Flags are grouped into tools, conversion, behavior, display, and utility.
// Negated flags (e.g. --no-progress) are applied after Parse so Config
// defaults hold unless set.

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

// ParseFlags parses os.Args into cfg. On --help or --version it prints and
// exits. On error it returns non-nil (e.g. unknown flag, missing positional
// arg).
func ParseFlags(cfg *Config, version string) error {
	fs := flag.NewFlagSet("clipshrink", flag.ContinueOnError)
	fs.Usage = func() { printUsage(fs, version) }

	// Negated/override flags: we capture bools then apply to cfg after Parse,
	// so that defaults from Defaults() hold unless the user passes the flag.
	var negated negatedFlags

	defineToolFlags(fs, cfg)
	defineConversionFlags(fs, cfg)
	defineBehaviorFlags(fs, cfg, &negated)
	defineDisplayFlags(fs, cfg, &negated)
	defineUtilityFlags(fs, &negated)

	if err := fs.Parse(os.Args[1:]); err != nil {
		return err
	}

	applyNegatedFlags(cfg, &negated)

	if negated.showHelp {
		printUsage(fs, version)
		os.Exit(0)
	}
	if negated.showVersion {
		fmt.Fprintln(os.Stdout, "clipshrink v"+version)
		os.Exit(0)
	}

	return parsePositionalArgs(fs, cfg)
}

// negatedFlags holds boolean flags that are applied after Parse.
// These either invert a default (e.g. noProgress -> ShowProgress=false) or
// trigger exit (showHelp, showVersion).
type negatedFlags struct {
	force       bool
	noProgress  bool
	forceColor  bool
	noColor     bool
	showVersion bool
	showHelp    bool
}

// defineToolFlags registers --ffmpeg and --ffprobe executable paths.
func defineToolFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.FFmpegPath, "ffmpeg", cfg.FFmpegPath, "Path to the ffmpeg executable")
	fs.StringVar(&cfg.FFprobePath, "ffprobe", cfg.FFprobePath, "Path to the ffprobe executable")
}

// defineConversionFlags registers audio and timestamp-rule settings.
func defineConversionFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.AudioBitrate, "audio-bitrate", cfg.AudioBitrate, "Audio bitrate (e.g. 256k)")
	fs.StringVar(&cfg.AudioBitrate, "b", cfg.AudioBitrate, "Same as --audio-bitrate")
	fs.Var(&dstRuleValue{&cfg.DSTRule}, "dst-rule", "Timestamp DST rule: tzdata | fixed")
	fs.StringVar(&cfg.OutputDirName, "output-dir-name", cfg.OutputDirName, "Name of the output subdirectory")
}

// defineBehaviorFlags registers dry-run and force.
func defineBehaviorFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "Preview only; do not convert")
	fs.BoolVar(&cfg.DryRun, "d", false, "Same as --dry-run")
	fs.BoolVar(&n.force, "force", false, "Re-convert files whose output already exists")
	fs.BoolVar(&n.force, "f", false, "Same as --force")
}

// defineDisplayFlags registers progress, color, verbose, --check, --log.
func defineDisplayFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.BoolVar(&n.noProgress, "no-progress", false, "Disable the progress bar")
	fs.BoolVar(&n.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&n.noColor, "no-color", false, "Disable colored logs")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Verbose output (includes ffmpeg stderr)")
	fs.BoolVar(&cfg.Verbose, "v", false, "Same as --verbose")
	fs.BoolVar(&cfg.CheckOnly, "check", false, "Run system diagnostics and exit")
	fs.BoolVar(&cfg.CheckOnly, "c", false, "Same as --check")
	fs.StringVar(&cfg.LogFile, "log", "", "Append JSON logs to file")
	fs.StringVar(&cfg.LogFile, "l", "", "Same as --log")
}

// defineUtilityFlags registers --version and --help (exit after printing).
func defineUtilityFlags(fs *flag.FlagSet, n *negatedFlags) {
	fs.BoolVar(&n.showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&n.showVersion, "V", false, "Same as --version")
	fs.BoolVar(&n.showHelp, "help", false, "Show this help and exit")
	fs.BoolVar(&n.showHelp, "h", false, "Same as --help")
}

// applyNegatedFlags copies negated and override flag values into cfg
// (e.g. noProgress -> ShowProgress=false).
func applyNegatedFlags(cfg *Config, n *negatedFlags) {
	if n.force {
		cfg.SkipExisting = false
	}
	if n.noProgress {
		cfg.ShowProgress = false
	}
	if n.noColor {
		cfg.ColorMode = ColorNever
	} else if n.forceColor {
		cfg.ColorMode = ColorAlways
	}
}

// parsePositionalArgs sets InputDir from the single positional arg when not
// in CheckOnly mode.
func parsePositionalArgs(fs *flag.FlagSet, cfg *Config) error {
	args := fs.Args()
	if cfg.CheckOnly {
		return nil
	}
	if len(args) != 1 {
		return fmt.Errorf("need exactly one input_dir argument")
	}
	cfg.InputDir = NormalizeDirArg(args[0])
	return nil
}

// printUsage writes the help text to stderr. Column-aligned for readability.
func printUsage(fs *flag.FlagSet, version string) {
	const col1 = 28 // width of "  -x, --long-name <arg>  "
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "clipshrink v" + version + " — phone video batch compressor"},
		{"", ""},
		{"  clipshrink [OPTIONS] <input_dir>", ""},
		{"", ""},
		{"Tools", ""},
		{"  --ffmpeg <path>", "ffmpeg executable (default: ffmpeg on PATH)"},
		{"  --ffprobe <path>", "ffprobe executable (default: ffprobe on PATH)"},
		{"", ""},
		{"Conversion", ""},
		{"  -b, --audio-bitrate <v>", "Audio bitrate (default: 256k)"},
		{"  --dst-rule <tzdata|fixed>", "Timestamp DST rule (default: tzdata)"},
		{"  --output-dir-name <name>", "Output subdirectory (default: Converted)"},
		{"", ""},
		{"Behavior", ""},
		{"  -f, --force", "Re-convert files whose output already exists"},
		{"  -d, --dry-run", "Preview only; do not convert"},
		{"", ""},
		{"Display", ""},
		{"  --no-progress", "Disable the progress bar"},
		{"  --color", "Force colored logs"},
		{"  --no-color", "Disable colored logs"},
		{"  -v, --verbose", "Verbose output"},
		{"", ""},
		{"Utility", ""},
		{"  -l, --log <path>", "Append JSON logs to file"},
		{"  -c, --check", "System diagnostics (ffmpeg, ffprobe, encoders)"},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help and exit"},
	}

	for _, l := range lines {
		if l.flags == "" && l.desc == "" {
			fmt.Fprintln(os.Stderr)
			continue
		}
		if l.desc == "" {
			fmt.Fprintln(os.Stderr, l.flags)
			continue
		}
		if l.flags == "" {
			fmt.Fprintln(os.Stderr, l.desc)
			continue
		}
		padding := col1 - len(l.flags)
		if padding < 1 {
			padding = 1
		}
		fmt.Fprintf(os.Stderr, "%s%*s%s\n", l.flags, padding, "", l.desc)
	}
}

// flag.Value adapter so the DSTRule enum works with flag.Var.

type dstRuleValue struct{ p *DSTRule }

func (d *dstRuleValue) String() string {
	if d.p == nil {
		return ""
	}
	return string(*d.p)
}

func (d *dstRuleValue) Set(s string) error {
	switch strings.ToLower(s) {
	case "tzdata":
		*d.p = RuleTZData
	case "fixed":
		*d.p = RuleFixed
	default:
		return fmt.Errorf("invalid DST rule %q (use 'tzdata' or 'fixed')", s)
	}
	return nil
}
