package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/backmassage/recmux/internal/display"
	"github.com/backmassage/recmux/internal/ffmpeg"
	"github.com/backmassage/recmux/internal/fsx"
	"github.com/backmassage/recmux/internal/logging"
	"github.com/backmassage/recmux/internal/notify"
	"github.com/backmassage/recmux/internal/planner"
)

// Executor runs one job at a time: invoke the media tool, then place the
// result. Every outcome is both notified and returned.
type Executor struct {
	Runner ffmpeg.Runner
	Notify notify.Notifier
	Log    *logging.Logger
	Debug  bool
}

func (e *Executor) log() *logging.Logger {
	if e.Log == nil {
		return logging.Nop()
	}
	return e.Log
}

func (e *Executor) run(ctx context.Context, args []string) ffmpeg.ExecResult {
	e.log().Debug(e.Debug, "ffmpeg %s", strings.Join(args, " "))
	start := time.Now()
	res := e.Runner.Run(ctx, args)
	e.log().Elapsed(e.Debug, start, "ffmpeg finished %s", ffmpeg.OutputPath(args))
	return res
}

// moveHint logs a remedy for moves that cannot be renamed.
func (e *Executor) moveHint(err error, dest string) {
	if fsx.IsCrossDevice(err) {
		e.log().Warn("%s is on another filesystem than its source; put the output directory on the same filesystem", filepath.Dir(dest))
	}
}

// Convert remuxes job.Source beside itself, then moves the .mp4 into its
// destination directory. The intermediate file never survives a failure.
func (e *Executor) Convert(ctx context.Context, job planner.ConversionJob) planner.RunResult {
	tag := notify.TagConvert
	src := job.Source
	temp := job.TempPath()
	dest := job.DestPath()
	res := planner.RunResult{Subject: src.Path}

	fail := func(msg string, err error) planner.RunResult {
		e.Notify.Notify(msg)
		_, _ = fsx.RemoveStale(temp)
		res.Status = planner.StatusFailed
		res.Message = msg
		res.Err = err
		return res
	}

	e.Notify.Notify(fmt.Sprintf("%s Converting: %s", tag, src.Path))
	start := time.Now()

	if removed, err := fsx.RemoveStale(temp); err != nil {
		return fail(fmt.Sprintf("%s %s: cannot clear stale output: %v", tag, src.Name, err), err)
	} else if removed {
		e.log().Debug(e.Debug, "removed stale %s", temp)
	}

	out := e.run(ctx, ffmpeg.RemuxArgs(src.Path, temp))
	if out.Err != nil {
		return fail(fmt.Sprintf("%s %s conversion failed:\n%s", tag, src.Name, ffmpeg.Diagnostics(out.Err)), out.Err)
	}

	if temp != dest {
		if _, err := fsx.EnsureDir(job.DestDir()); err != nil {
			return fail(fmt.Sprintf("%s %s: %v", tag, src.Name, err), err)
		}
		if err := fsx.Move(temp, dest); err != nil {
			e.moveHint(err, dest)
			return fail(fmt.Sprintf("%s %s: converted but move failed: %v", tag, src.Name, err), err)
		}
	}

	res.Elapsed = time.Since(start)
	res.Status = planner.StatusSuccess
	if fi, err := os.Stat(dest); err == nil {
		res.Bytes = fi.Size()
	}
	res.Message = fmt.Sprintf("%s Converted %s in %s", tag, src.Name, display.FormatElapsed(res.Elapsed))
	e.Notify.Notify(res.Message)

	if job.Options.RemoveSource {
		if err := fsx.Remove(src.Path); err != nil {
			e.Notify.Notify(fmt.Sprintf("%s %s: could not delete source: %v", tag, src.Name, err))
		} else {
			e.log().Debug(e.Debug, "removed source %s", src.Path)
		}
	}
	return res
}

// Merge muxes job.Audio into job.Video at job.TempPath and moves the result
// to job.OutputPath.
func (e *Executor) Merge(ctx context.Context, job planner.MergeJob) planner.RunResult {
	tag := notify.TagMerge
	res := planner.RunResult{Subject: job.Audio.Path}

	fail := func(msg string, err error) planner.RunResult {
		e.Notify.Notify(msg)
		_, _ = fsx.RemoveStale(job.TempPath)
		res.Status = planner.StatusFailed
		res.Message = msg
		res.Err = err
		return res
	}

	e.Notify.Notify(fmt.Sprintf("%s Merging: %s", tag, job.PairedStem))
	start := time.Now()

	out := e.run(ctx, ffmpeg.MergeArgs(job.Video.Path, job.Audio.Path, job.TempPath))
	if out.Err != nil {
		return fail(fmt.Sprintf("%s %s merge failed:\n%s", tag, job.Audio.Name, ffmpeg.Diagnostics(out.Err)), out.Err)
	}
	if err := fsx.Move(job.TempPath, job.OutputPath); err != nil {
		e.moveHint(err, job.OutputPath)
		return fail(fmt.Sprintf("%s %s: merge ok, move failed: %v", tag, job.PairedStem, err), err)
	}

	res.Elapsed = time.Since(start)
	res.Status = planner.StatusSuccess
	if fi, err := os.Stat(job.OutputPath); err == nil {
		res.Bytes = fi.Size()
	}
	res.Message = fmt.Sprintf("%s Merged %s in %s", tag, job.PairedStem, display.FormatElapsed(res.Elapsed))
	e.Notify.Notify(res.Message)
	return res
}
