package ffmpeg

import (
	"context"
	"errors"
	"os/exec"
	"reflect"
	"strings"
	"sync"
	"testing"
)

func TestRemuxArgs(t *testing.T) {
	got := RemuxArgs("/rec/live.flv", "/rec/live.mp4")
	want := []string{"-y", "-i", "/rec/live.flv", "-vcodec", "copy", "-acodec", "copy", "/rec/live.mp4"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("RemuxArgs = %v, want %v", got, want)
	}
	if OutputPath(got) != "/rec/live.mp4" {
		t.Errorf("OutputPath = %q", OutputPath(got))
	}
}

func TestMergeArgs(t *testing.T) {
	got := MergeArgs("/w/talk_video.mp4", "/w/talk_audio.m4a", "/w/talk.mp4")
	want := []string{"-i", "/w/talk_video.mp4", "-i", "/w/talk_audio.m4a", "-vcodec", "copy", "-acodec", "copy", "/w/talk.mp4"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MergeArgs = %v, want %v", got, want)
	}
}

func shell(t *testing.T) string {
	t.Helper()
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	return sh
}

type lineLog struct {
	mu    sync.Mutex
	lines map[string][]string
}

func (l *lineLog) add(stream, line string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.lines == nil {
		l.lines = map[string][]string{}
	}
	l.lines[stream] = append(l.lines[stream], line)
}

func TestExecRunner_Failure(t *testing.T) {
	var log lineLog
	r := &ExecRunner{Binary: shell(t), OnLine: log.add}
	res := r.Run(context.Background(), []string{"-c", "echo progress; echo 'Invalid data found' 1>&2; exit 3"})

	if !errors.Is(res.Err, ErrExecutionFailed) {
		t.Fatalf("err = %v, want ErrExecutionFailed", res.Err)
	}
	var ee *ExecError
	if !errors.As(res.Err, &ee) || ee.ExitCode != 3 {
		t.Fatalf("ExecError = %+v", ee)
	}
	if res.Stderr != "Invalid data found\n" {
		t.Errorf("Stderr = %q, want verbatim stream", res.Stderr)
	}
	if Diagnostics(res.Err) != res.Stderr {
		t.Errorf("Diagnostics = %q", Diagnostics(res.Err))
	}
	if got := log.lines[StreamStdout]; len(got) != 1 || got[0] != "progress" {
		t.Errorf("stdout lines = %v", got)
	}
	if got := log.lines[StreamStatus]; len(got) != 1 || got[0] != "exit status 3" {
		t.Errorf("status lines = %v", got)
	}
}

func TestExecRunner_Success(t *testing.T) {
	r := &ExecRunner{Binary: shell(t), Nice: true}
	res := r.Run(context.Background(), []string{"-c", "exit 0"})
	if res.Err != nil {
		t.Fatalf("err = %v", res.Err)
	}
}

func TestExecRunner_DrainsBothStreams(t *testing.T) {
	var mu sync.Mutex
	count := 0
	r := &ExecRunner{Binary: shell(t), OnLine: func(stream, line string) {
		mu.Lock()
		count++
		mu.Unlock()
	}}
	script := "i=0; while [ $i -lt 20000 ]; do echo out$i; echo err$i 1>&2; i=$((i+1)); done"
	res := r.Run(context.Background(), []string{"-c", script})
	if res.Err != nil {
		t.Fatalf("err = %v", res.Err)
	}
	if !strings.HasPrefix(res.Stderr, "err0\n") || !strings.HasSuffix(res.Stderr, "err19999\n") {
		t.Errorf("stderr not fully captured (len %d)", len(res.Stderr))
	}
	if count != 40001 {
		t.Errorf("forwarded %d lines, want 40001", count)
	}
}

func TestExecRunner_LaunchFailure(t *testing.T) {
	r := &ExecRunner{Binary: "/nonexistent/ffmpeg-binary"}
	res := r.Run(context.Background(), RemuxArgs("a.flv", "a.mp4"))
	if !errors.Is(res.Err, ErrLaunchFailed) {
		t.Fatalf("err = %v, want ErrLaunchFailed", res.Err)
	}
	if errors.Is(res.Err, ErrExecutionFailed) {
		t.Error("launch failure must not match ErrExecutionFailed")
	}
}

func TestExecRunner_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := &ExecRunner{Binary: shell(t)}
	res := r.Run(ctx, []string{"-c", "sleep 5"})
	if res.Err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
