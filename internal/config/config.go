// Package config holds runtime configuration: defaults, CLI flag binding,
// file and environment overlays, and validation.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Command identifies which pipeline a run drives.
type Command string

const (
	CommandConvert Command = "convert" // FLV -> MP4 remux (default).
	CommandMerge   Command = "merge"   // Audio + video pairing merge.
	CommandAll     Command = "all"     // One convert pass and one merge pass, concurrently.
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

const (
	// DefaultOutputDirName is the output directory created under the working
	// directory when --output is not given.
	DefaultOutputDirName = "flv-to-mp4"

	// MergeDirName is the fixed merge output directory under the working directory.
	MergeDirName = "audio-video-merger"

	// DefaultPollSeconds is the watch interval when none (or an invalid one) is given.
	DefaultPollSeconds = 30

	// DefaultStableAfter is the in-progress write guard: sources modified more
	// recently than this are left for a later pass in watch mode.
	DefaultStableAfter = 60 * time.Second
)

// Config holds all runtime settings. It is populated by [DefaultConfig], then
// overlaid by [LoadFile], [ApplyEnv] and finally explicitly-set CLI flags
// before being passed (by pointer) to the packages that need it.
type Config struct {
	Command Command

	// Paths.
	WorkDir   string // Source directory (convert) or working directory (merge).
	OutputDir string // Default: <WorkDir>/flv-to-mp4. Ignored by merge.

	// Convert behavior flags.
	Watch        bool
	Archive      bool // Bucket outputs into <OutputDir>/<Y-M-D>/ by source mtime.
	RemoveSource bool // Delete the .flv after a successful conversion.
	Debug        bool // Verbose notifications, ffmpeg output forwarding.
	PollSeconds  int  // Default: 30.
	StableAfter  time.Duration

	// Media tool.
	FFmpegBin string // Default: "ffmpeg".
	Nice      bool   // Lower ffmpeg scheduling priority (unix only).

	// Display and logging.
	ColorMode  ColorMode // Default: "auto".
	LogFile    string    // Optional log file path.
	UI         bool      // Push notifications to the terminal UI instead of the console.
	FSNotify   bool      // Wake the watch loop early on new captures.
	ConfigFile string    // Optional YAML file (--config).
}

// DefaultConfig returns a Config with every default applied. WorkDir is left
// empty so [Config.Resolve] can fill it from the process working directory.
func DefaultConfig() Config {
	return Config{
		Command:     CommandConvert,
		PollSeconds: DefaultPollSeconds,
		StableAfter: DefaultStableAfter,
		FFmpegBin:   "ffmpeg",
		ColorMode:   ColorAuto,
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

// Resolve fills derived paths: WorkDir defaults to cwd, OutputDir to
// <WorkDir>/flv-to-mp4. Both are made absolute.
func (c *Config) Resolve(cwd string) error {
	if strings.TrimSpace(c.WorkDir) == "" {
		c.WorkDir = cwd
	}
	work, err := absFrom(cwd, c.WorkDir)
	if err != nil {
		return fmt.Errorf("resolve working directory %q: %w", c.WorkDir, err)
	}
	c.WorkDir = work

	if strings.TrimSpace(c.OutputDir) == "" {
		c.OutputDir = filepath.Join(c.WorkDir, DefaultOutputDirName)
	}
	out, err := absFrom(cwd, c.OutputDir)
	if err != nil {
		return fmt.Errorf("resolve output directory %q: %w", c.OutputDir, err)
	}
	c.OutputDir = out
	return nil
}

// PollInterval returns the watch interval. Negative values use their absolute
// value and zero falls back to the default, matching the legacy tool.
func (c *Config) PollInterval() time.Duration {
	s := c.PollSeconds
	if s < 0 {
		s = -s
	}
	if s == 0 {
		s = DefaultPollSeconds
	}
	return time.Duration(s) * time.Second
}

// MergeOutputDir is the fixed merge destination under WorkDir.
func (c *Config) MergeOutputDir() string {
	return filepath.Join(c.WorkDir, MergeDirName)
}

// Validate checks enum fields and the command-specific path requirements.
func (c *Config) Validate() error {
	switch c.Command {
	case CommandConvert, CommandMerge, CommandAll:
		// valid
	default:
		return fmt.Errorf("invalid command %q (use 'convert', 'merge' or 'all')", c.Command)
	}

	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	if strings.TrimSpace(c.FFmpegBin) == "" {
		return errors.New("ffmpeg binary must not be empty")
	}
	if c.StableAfter < 0 {
		return errors.New("stable-after window must not be negative")
	}
	if c.WorkDir == "" {
		return errors.New("need a working directory")
	}
	if c.Command != CommandMerge && c.OutputDir == "" {
		return errors.New("need an output directory")
	}
	return nil
}

func absFrom(base, p string) (string, error) {
	p = filepath.Clean(NormalizeDirArg(strings.TrimSpace(p)))
	if filepath.IsAbs(p) {
		return p, nil
	}
	if base == "" {
		return filepath.Abs(p)
	}
	return filepath.Join(base, p), nil
}
