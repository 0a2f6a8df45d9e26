package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables read by [ApplyEnv].
const (
	EnvWorkDir = "RECMUX_CWD"
	EnvOutput  = "RECMUX_OUTPUT"
	EnvWatch   = "RECMUX_WATCH"
	EnvArchive = "RECMUX_ARCHIVE"
	EnvRemove  = "RECMUX_REMOVE"
	EnvDebug   = "RECMUX_DEBUG"
	EnvTimeout = "RECMUX_TIMEOUT"
	EnvFFmpeg  = "RECMUX_FFMPEG"
	EnvLog     = "RECMUX_LOG"
)

// fileConfig mirrors the YAML file. Pointer fields distinguish "unset" from
// an explicit false/zero so the file only overrides what it names.
type fileConfig struct {
	Cwd                string `yaml:"cwd"`
	Output             string `yaml:"output"`
	Watch              *bool  `yaml:"watch"`
	Archive            *bool  `yaml:"archive"`
	Remove             *bool  `yaml:"remove"`
	Debug              *bool  `yaml:"debug"`
	Timeout            *int   `yaml:"timeout"`
	StableAfterSeconds *int   `yaml:"stable_after_seconds"`
	FFmpeg             string `yaml:"ffmpeg"`
	Nice               *bool  `yaml:"nice"`
	Color              string `yaml:"color"`
	Log                string `yaml:"log"`
	UI                 *bool  `yaml:"ui"`
	FSNotify           *bool  `yaml:"fsnotify"`
}

// LoadFile overlays the YAML file at path onto cfg. Unknown keys are an error
// so typos do not silently fall back to defaults. Relative paths inside the
// file are resolved against the file's directory.
func LoadFile(cfg *Config, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("config file: %w", err)
	}
	defer f.Close()

	var fc fileConfig
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("config file %q: %w", path, err)
	}

	base := filepath.Dir(path)
	if fc.Cwd != "" {
		cfg.WorkDir = relTo(base, fc.Cwd)
	}
	if fc.Output != "" {
		cfg.OutputDir = relTo(base, fc.Output)
	}
	setBool(&cfg.Watch, fc.Watch)
	setBool(&cfg.Archive, fc.Archive)
	setBool(&cfg.RemoveSource, fc.Remove)
	setBool(&cfg.Debug, fc.Debug)
	setBool(&cfg.Nice, fc.Nice)
	setBool(&cfg.UI, fc.UI)
	setBool(&cfg.FSNotify, fc.FSNotify)
	if fc.Timeout != nil {
		cfg.PollSeconds = *fc.Timeout
	}
	if fc.StableAfterSeconds != nil {
		if *fc.StableAfterSeconds < 0 {
			return fmt.Errorf("config file %q: stable_after_seconds must be >= 0", path)
		}
		cfg.StableAfter = time.Duration(*fc.StableAfterSeconds) * time.Second
	}
	if fc.FFmpeg != "" {
		cfg.FFmpegBin = fc.FFmpeg
	}
	if fc.Color != "" {
		cfg.ColorMode = ColorMode(strings.ToLower(fc.Color))
	}
	if fc.Log != "" {
		cfg.LogFile = relTo(base, fc.Log)
	}
	return nil
}

// LoadDotEnv loads <dir>/.env into the process environment. Variables that
// are already set win; a missing file is not an error.
func LoadDotEnv(dir string) error {
	err := godotenv.Load(filepath.Join(dir, ".env"))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// ApplyEnv overlays RECMUX_* variables onto cfg. lookup is usually os.LookupEnv.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	boolean := func(key string, dst *bool) error {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			return nil
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s must be a boolean: %w", key, err)
		}
		*dst = b
		return nil
	}

	str(EnvWorkDir, &cfg.WorkDir)
	str(EnvOutput, &cfg.OutputDir)
	str(EnvFFmpeg, &cfg.FFmpegBin)
	str(EnvLog, &cfg.LogFile)

	for key, dst := range map[string]*bool{
		EnvWatch:   &cfg.Watch,
		EnvArchive: &cfg.Archive,
		EnvRemove:  &cfg.RemoveSource,
		EnvDebug:   &cfg.Debug,
	} {
		if err := boolean(key, dst); err != nil {
			return err
		}
	}

	if v, ok := lookup(EnvTimeout); ok && strings.TrimSpace(v) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s must be an integer: %w", EnvTimeout, err)
		}
		cfg.PollSeconds = n
	}
	return nil
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func relTo(base, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
