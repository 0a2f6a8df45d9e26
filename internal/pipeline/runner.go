package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/backmassage/recmux/internal/config"
	"github.com/backmassage/recmux/internal/display"
	"github.com/backmassage/recmux/internal/fsx"
	"github.com/backmassage/recmux/internal/logging"
	"github.com/backmassage/recmux/internal/notify"
	"github.com/backmassage/recmux/internal/planner"
)

// Convert runs one FLV -> MP4 pass: plan, then execute each job in order.
// A directory-level error ends the pass and is returned alongside whatever
// stats were gathered. failed, when non-nil, is consulted while planning and
// updated with stems that fail here.
func Convert(ctx context.Context, cfg *config.Config, ex *Executor, failed planner.FailedStems) (RunStats, error) {
	var stats RunStats

	plan, err := planner.PlanConversions(cfg, time.Now(), ex.Notify, failed)
	for _, r := range plan.Results {
		stats.Add(r)
	}
	if err != nil {
		return stats, err
	}

	for _, job := range plan.Jobs {
		if ctx.Err() != nil {
			ex.Notify.Notify(fmt.Sprintf("%s Interrupted", notify.TagConvert))
			break
		}
		r := ex.safeConvert(ctx, job)
		stats.Add(r)
		switch r.Status {
		case planner.StatusSuccess:
			stats.TotalInputBytes += job.Source.Size
		case planner.StatusFailed:
			if failed != nil {
				failed[job.Source.Stem] = true
			}
		}
	}
	return stats, nil
}

// Merge runs one audio+video merge pass over cfg.WorkDir.
func Merge(ctx context.Context, cfg *config.Config, ex *Executor) (RunStats, error) {
	var stats RunStats

	plan, err := planner.PlanMerges(cfg.WorkDir, cfg.MergeOutputDir(), ex.Notify)
	for _, r := range plan.Results {
		stats.Add(r)
	}
	if err != nil {
		return stats, err
	}

	for _, job := range plan.Jobs {
		if ctx.Err() != nil {
			ex.Notify.Notify(fmt.Sprintf("%s Interrupted", notify.TagMerge))
			break
		}
		r := ex.safeMerge(ctx, job)
		stats.Add(r)
		if r.Status == planner.StatusSuccess {
			stats.TotalInputBytes += job.Audio.Size + job.Video.Size
		}
	}
	return stats, nil
}

// safeConvert turns a panic inside one job into a failed result so the
// stem is remembered and the intermediate file is removed.
func (e *Executor) safeConvert(ctx context.Context, job planner.ConversionJob) (r planner.RunResult) {
	defer func() {
		if p := recover(); p != nil {
			r = e.panicked(notify.TagConvert, job.Source.Path, job.TempPath(), p)
		}
	}()
	return e.Convert(ctx, job)
}

func (e *Executor) safeMerge(ctx context.Context, job planner.MergeJob) (r planner.RunResult) {
	defer func() {
		if p := recover(); p != nil {
			r = e.panicked(notify.TagMerge, job.Audio.Path, job.TempPath, p)
		}
	}()
	return e.Merge(ctx, job)
}

func (e *Executor) panicked(tag, subject, temp string, p any) planner.RunResult {
	_, _ = fsx.RemoveStale(temp)
	err := fmt.Errorf("panic: %v", p)
	msg := fmt.Sprintf("%s %s aborted: %v", tag, subject, err)
	e.Notify.Notify(msg)
	e.log().Error("job panicked: %v", p)
	return planner.RunResult{Status: planner.StatusFailed, Subject: subject, Message: msg, Err: err}
}

// LogSummary prints the end-of-run totals. verb names the success count
// ("converted", "merged").
func LogSummary(log *logging.Logger, verb string, stats RunStats) {
	log.Info("==============================")
	log.Info("Done: %d %s, %d skipped, %d failed", stats.Succeeded, verb, stats.Skipped, stats.Failed)
	if stats.Succeeded == 0 {
		return
	}
	log.Success("  Output written: %s (from %s of sources)",
		display.FormatBytes(stats.TotalOutputBytes),
		display.FormatBytes(stats.TotalInputBytes))
}
