package ffmpeg

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"

	"golang.org/x/sync/errgroup"
)

// Stream names passed to a LineFunc.
const (
	StreamStdout = "stdout"
	StreamStderr = "stderr"
	StreamStatus = "status" // Final exit line emitted after the process ends.
)

const maxLineBytes = 1 << 20

// LineFunc receives media tool output one line at a time as it is produced.
// It is called from reader goroutines and must be safe for concurrent use.
type LineFunc func(stream, line string)

// ExecResult holds the outcome of a single media tool invocation.
type ExecResult struct {
	Stderr string
	Err    error // nil on exit status 0; otherwise an *ExecError.
}

// Runner invokes the media tool with args. Implementations must not return
// until the tool has exited and its output has been fully drained.
type Runner interface {
	Run(ctx context.Context, args []string) ExecResult
}

// ExecRunner runs a real binary.
type ExecRunner struct {
	Binary string   // Default "ffmpeg".
	Nice   bool     // Lower the child's scheduling priority after start.
	OnLine LineFunc // Optional realtime output forwarding.
}

// Run starts the tool, drains stdout and stderr on two independent readers,
// then waits for exit. Stderr is always captured verbatim for diagnostics.
func (r *ExecRunner) Run(ctx context.Context, args []string) ExecResult {
	bin := r.Binary
	if bin == "" {
		bin = "ffmpeg"
	}
	cmd := exec.CommandContext(ctx, bin, args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return launchFailure(bin, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return launchFailure(bin, err)
	}
	if err := cmd.Start(); err != nil {
		return launchFailure(bin, err)
	}
	if r.Nice {
		_ = lowerPriority(cmd.Process.Pid)
	}

	var stderrBuf bytes.Buffer
	var g errgroup.Group
	g.Go(func() error { return r.drain(StreamStdout, stdout) })
	g.Go(func() error { return r.drain(StreamStderr, io.TeeReader(stderr, &stderrBuf)) })

	// Both pipes must reach EOF before Wait closes them.
	drainErr := g.Wait()
	waitErr := cmd.Wait()

	res := ExecResult{Stderr: stderrBuf.String()}
	code := 0
	if waitErr != nil {
		code = -1
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			code = exitErr.ExitCode()
		}
		if ctx.Err() != nil {
			waitErr = fmt.Errorf("%w: %w", ctx.Err(), waitErr)
		}
		res.Err = &ExecError{Binary: bin, ExitCode: code, Stderr: res.Stderr, Err: waitErr}
	} else if drainErr != nil {
		res.Err = &ExecError{Binary: bin, ExitCode: -1, Stderr: res.Stderr, Err: drainErr}
	}
	if r.OnLine != nil {
		r.OnLine(StreamStatus, fmt.Sprintf("exit status %d", code))
	}
	return res
}

// drain reads src line by line, forwarding to OnLine. Lines longer than
// maxLineBytes stop line splitting but the stream is still read to EOF so
// the child never blocks on a full pipe.
func (r *ExecRunner) drain(stream string, src io.Reader) error {
	sc := bufio.NewScanner(src)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for sc.Scan() {
		if r.OnLine != nil {
			r.OnLine(stream, sc.Text())
		}
	}
	if err := sc.Err(); err != nil {
		if _, cerr := io.Copy(io.Discard, src); cerr != nil {
			return cerr
		}
		if errors.Is(err, bufio.ErrTooLong) {
			return nil
		}
		return err
	}
	return nil
}

func launchFailure(bin string, err error) ExecResult {
	return ExecResult{Err: &ExecError{Binary: bin, ExitCode: -1, Err: err, launch: true}}
}
