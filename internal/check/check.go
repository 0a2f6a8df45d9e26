// Package check provides system diagnostics (the check command) and
// pre-run dependency validation (CheckDeps) for the media tool.
package check

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/backmassage/recmux/internal/config"
)

// Sentinel errors returned by CheckDeps.
var (
	ErrFfmpegNotFound = errors.New("ffmpeg not found")
	ErrFfmpegBroken   = errors.New("ffmpeg found but -version failed")
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
}

// RunCheck prints availability of the media tool, its version, the muxers
// recmux relies on, and whether the working directory is readable. It
// returns false when anything required is missing.
func RunCheck(cfg *config.Config, log Logger) bool {
	log.Info("=== System Check ===")

	ok := checkFfmpeg(cfg.FFmpegBin, log)
	if ok {
		checkMuxers(cfg.FFmpegBin, log)
	}
	if !checkDir(cfg.WorkDir, log) {
		ok = false
	}
	return ok
}

// checkFfmpeg verifies the binary resolves and logs its version string.
func checkFfmpeg(bin string, log Logger) bool {
	path, err := exec.LookPath(bin)
	if err != nil {
		log.Error("ffmpeg not found (%s)", bin)
		return false
	}
	line, err := version(path)
	if err != nil {
		log.Error("ffmpeg found at %s but -version failed: %v", path, err)
		return false
	}
	log.Success("ffmpeg: %s", line)
	return true
}

// checkMuxers reports whether the flv demuxer and mp4 muxer are listed.
func checkMuxers(bin string, log Logger) {
	out, err := exec.Command(bin, "-hide_banner", "-formats").Output()
	if err != nil {
		log.Warn("Could not list formats: %v", err)
		return
	}
	for _, name := range []string{"flv", "mp4"} {
		if hasFormat(string(out), name) {
			log.Success("format %s: available", name)
		} else {
			log.Warn("format %s: not listed", name)
		}
	}
}

func checkDir(dir string, log Logger) bool {
	if _, err := os.ReadDir(dir); err != nil {
		log.Error("Working directory not readable: %v", err)
		return false
	}
	log.Success("Working directory: %s", dir)
	return true
}

// CheckDeps is the pre-run validation: the configured ffmpeg must resolve
// on PATH (or as a path) and answer -version.
func CheckDeps(cfg *config.Config) error {
	path, err := exec.LookPath(cfg.FFmpegBin)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrFfmpegNotFound, cfg.FFmpegBin)
	}
	if _, err := version(path); err != nil {
		return fmt.Errorf("%w: %v", ErrFfmpegBroken, err)
	}
	return nil
}

// --- internal helpers ---

// version runs "<bin> -version" and returns the first output line.
func version(bin string) (string, error) {
	out, err := exec.Command(bin, "-version").Output()
	if err != nil {
		return "", err
	}
	first := strings.TrimSpace(string(out))
	if idx := strings.Index(first, "\n"); idx > 0 {
		first = first[:idx]
	}
	return first, nil
}

// hasFormat scans "ffmpeg -formats" output ("  DE flv  FLV (Flash Video)")
// for a format name.
func hasFormat(listing, name string) bool {
	for _, line := range strings.Split(listing, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		for _, n := range strings.Split(fields[1], ",") {
			if n == name {
				return true
			}
		}
	}
	return false
}
