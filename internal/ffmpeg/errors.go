package ffmpeg

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel error kinds for a media tool invocation. Match with errors.Is.
var (
	ErrLaunchFailed    = errors.New("media tool launch failed")
	ErrExecutionFailed = errors.New("media tool execution failed")
)

// ExecError describes a failed invocation. Stderr is the tool's error stream
// exactly as written; ExitCode is -1 when the process never produced one.
type ExecError struct {
	Binary   string
	ExitCode int
	Stderr   string
	Err      error
	launch   bool
}

func (e *ExecError) Error() string {
	if e.launch {
		return fmt.Sprintf("start %s: %v", e.Binary, e.Err)
	}
	msg := fmt.Sprintf("%s exited with status %d", e.Binary, e.ExitCode)
	if e.ExitCode < 0 {
		msg = fmt.Sprintf("%s: %v", e.Binary, e.Err)
	}
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ":\n" + s
	}
	return msg
}

func (e *ExecError) Unwrap() error { return e.Err }

func (e *ExecError) Is(target error) bool {
	if e.launch {
		return target == ErrLaunchFailed
	}
	return target == ErrExecutionFailed
}

// Diagnostics returns the stderr carried by err when it is an *ExecError,
// otherwise err's message.
func Diagnostics(err error) string {
	var ee *ExecError
	if errors.As(err, &ee) {
		if ee.Stderr != "" {
			return ee.Stderr
		}
		return ee.Error()
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
