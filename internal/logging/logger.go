// Package logging provides the leveled console/file logger used by every
// command. It is a thin layer over zerolog that keeps a printf-style API.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/backmassage/recmux/internal/config"
	"github.com/backmassage/recmux/internal/term"
)

const timeLayout = "2006-01-02 15:04:05"

// Logger provides leveled, optionally colored logging with optional file sink.
type Logger struct {
	zl     zerolog.Logger
	fileZL zerolog.Logger // File sink only; Nop when no file is open.
	file   *os.File
	mu     *sync.Mutex
}

// NewLogger configures colors from cfg and optionally opens cfg.LogFile for
// appending. Call Close() when done if LogFile was set.
func NewLogger(cfg *config.Config) (*Logger, error) {
	term.Configure(cfg.ColorMode)
	return newLogger(cfg.LogFile, os.Stdout, os.Stderr, term.Enabled())
}

func newLogger(logFile string, stdout, stderr io.Writer, color bool) (*Logger, error) {
	l := &Logger{fileZL: zerolog.Nop(), mu: &sync.Mutex{}}

	console := levelSplitWriter{
		out: consoleWriter(stdout, color),
		err: consoleWriter(stderr, color),
	}
	writers := []io.Writer{console}

	if logFile != "" {
		if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		l.file = f
		fw := consoleWriter(f, false)
		writers = append(writers, fw)
		l.fileZL = zerolog.New(fw).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	}

	l.zl = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(zerolog.DebugLevel).
		With().Timestamp().Logger()
	return l, nil
}

// Nop returns a logger that discards everything. Useful in tests.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop(), fileZL: zerolog.Nop(), mu: &sync.Mutex{}}
}

// FileOnly returns a logger that writes to the file sink and never to the
// console. Used while a terminal UI owns the screen.
func (l *Logger) FileOnly() *Logger {
	return &Logger{zl: l.fileZL, fileZL: l.fileZL, mu: l.mu}
}

func consoleWriter(w io.Writer, color bool) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    !color,
		TimeFormat: timeLayout,
	}
}

// levelSplitWriter routes ERROR and above to stderr, everything else to stdout.
type levelSplitWriter struct {
	out io.Writer
	err io.Writer
}

func (w levelSplitWriter) Write(p []byte) (int, error) { return w.out.Write(p) }

func (w levelSplitWriter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if level >= zerolog.ErrorLevel {
		return w.err.Write(p)
	}
	return w.out.Write(p)
}

// With returns a child logger that adds key=value to every line. The child
// shares the parent's file handle; only the parent should be closed.
func (l *Logger) With(key, value string) *Logger {
	return &Logger{
		zl:     l.zl.With().Str(key, value).Logger(),
		fileZL: l.fileZL.With().Str(key, value).Logger(),
		mu:     l.mu,
	}
}

// Close closes the log file if one was opened.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
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

// Success logs at INFO level with ok=true so it stands out in the file sink.
func (l *Logger) Success(format string, args ...interface{}) {
	l.zl.Info().Bool("ok", true).Msg(fmt.Sprintf(format, args...))
}

// Warn logs at WARN level.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.zl.Warn().Msg(fmt.Sprintf(format, args...))
}

// Error logs at ERROR level, to stderr.
func (l *Logger) Error(format string, args ...interface{}) {
	l.zl.Error().Msg(fmt.Sprintf(format, args...))
}

// Debug logs at DEBUG level only when verbose; no-op otherwise.
func (l *Logger) Debug(verbose bool, format string, args ...interface{}) {
	if !verbose {
		return
	}
	l.zl.Debug().Msg(fmt.Sprintf(format, args...))
}

// Elapsed logs a debug line with the duration since start attached as a field.
func (l *Logger) Elapsed(verbose bool, start time.Time, format string, args ...interface{}) {
	if !verbose {
		return
	}
	l.zl.Debug().Dur("elapsed", time.Since(start)).Msg(fmt.Sprintf(format, args...))
}
