package config

// This file binds CLI flags onto Config through pflag (cobra's flag set).
// Flags are grouped into persistent (shared by every command) and convert-only.
// Negated flags (e.g. --no-color) are applied after parsing so Config defaults hold unless set.

import (
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

// NegatedFlags holds boolean flags that are applied after Parse rather than
// bound to a Config field.
type NegatedFlags struct {
	forceColor bool
	noColor    bool
}

// BindPersistentFlags registers flags shared by all commands: --config,
// --ffmpeg, --nice, --log, --color, --no-color, --ui.
func BindPersistentFlags(fs *pflag.FlagSet, cfg *Config, n *NegatedFlags) {
	fs.StringVar(&cfg.ConfigFile, "config", "", "YAML config file")
	fs.StringVar(&cfg.FFmpegBin, "ffmpeg", cfg.FFmpegBin, "ffmpeg binary name or path")
	fs.BoolVar(&cfg.Nice, "nice", false, "Run ffmpeg at lowered scheduling priority (unix)")
	fs.StringVarP(&cfg.LogFile, "log", "l", "", "Append logs to file")
	fs.BoolVar(&cfg.UI, "ui", false, "Show progress in a terminal UI")
	fs.BoolVar(&n.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&n.noColor, "no-color", false, "Disable colored logs")
}

// BindConvertFlags registers the convert command flags. Short names follow the
// legacy tool: -c cwd, -o output, -w watch, -a archive, -r remove, -d debug, -t timeout.
func BindConvertFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringVarP(&cfg.WorkDir, "cwd", "c", "", "Directory holding the .flv captures (default: current directory)")
	fs.StringVarP(&cfg.OutputDir, "output", "o", "", "Output directory (default: <cwd>/"+DefaultOutputDirName+")")
	fs.BoolVarP(&cfg.Watch, "watch", "w", false, "Keep checking for new captures")
	fs.BoolVarP(&cfg.Archive, "archive", "a", false, "Archive outputs by capture date")
	fs.BoolVarP(&cfg.RemoveSource, "remove", "r", false, "Delete the .flv after a successful conversion")
	fs.BoolVarP(&cfg.Debug, "debug", "d", false, "Verbose notifications")
	fs.VarP(&pollSecondsValue{&cfg.PollSeconds}, "timeout", "t", "Seconds between watch passes")
	fs.BoolVar(&cfg.FSNotify, "fsnotify", false, "Also wake the watch loop on new captures")
}

// BindWorkDirFlag registers only --cwd, for commands that otherwise take the
// working directory as a positional argument.
func BindWorkDirFlag(fs *pflag.FlagSet, cfg *Config) {
	fs.StringVarP(&cfg.WorkDir, "cwd", "c", "", "Working directory (default: current directory)")
}

// ApplyNegatedFlags copies negated flag values into cfg.
func ApplyNegatedFlags(cfg *Config, n *NegatedFlags) {
	if n.noColor {
		cfg.ColorMode = ColorNever
	} else if n.forceColor {
		cfg.ColorMode = ColorAlways
	}
}

// Finalize rebuilds cfg from defaults, the optional YAML file and the
// environment, then re-applies every flag the user explicitly set so the CLI
// always wins. Paths are resolved against cwd.
func Finalize(fs *pflag.FlagSet, cfg *Config, n *NegatedFlags, cwd string) error {
	changed := make(map[string]string)
	fs.Visit(func(f *pflag.Flag) {
		changed[f.Name] = f.Value.String()
	})

	base := DefaultConfig()
	base.Command = cfg.Command
	base.ConfigFile = cfg.ConfigFile
	if base.ConfigFile != "" {
		if err := LoadFile(&base, base.ConfigFile); err != nil {
			return err
		}
	}
	if err := ApplyEnv(&base, os.LookupEnv); err != nil {
		return err
	}

	// Flags are bound to cfg's fields, so overwriting *cfg and re-setting the
	// changed flags writes them back on top of the overlay.
	*cfg = base
	for name, v := range changed {
		if err := fs.Set(name, v); err != nil {
			return err
		}
	}
	ApplyNegatedFlags(cfg, n)
	return cfg.Resolve(cwd)
}

// pollSecondsValue is lenient like the legacy tool: anything that is not a
// number falls back to the default interval instead of failing the parse.
type pollSecondsValue struct{ p *int }

func (v *pollSecondsValue) String() string {
	if v.p == nil {
		return strconv.Itoa(DefaultPollSeconds)
	}
	return strconv.Itoa(*v.p)
}

func (v *pollSecondsValue) Set(s string) error {
	n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(s), "s"))
	if err != nil {
		n = DefaultPollSeconds
	}
	*v.p = n
	return nil
}

func (v *pollSecondsValue) Type() string { return "seconds" }
