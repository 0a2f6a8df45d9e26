package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/backmassage/recmux/internal/config"
	"github.com/backmassage/recmux/internal/notify"
	"github.com/backmassage/recmux/internal/planner"
)

// WatchState lives for one Watch call.
type WatchState struct {
	Iterations int
	Failed     planner.FailedStems
	Totals     RunStats
}

// Watch repeats Convert passes until ctx is cancelled. Passes never overlap.
// Between passes it sleeps for cfg.PollInterval(), or less when wake fires.
// Errors and panics inside a pass are reported and the loop continues.
func Watch(ctx context.Context, cfg *config.Config, ex *Executor, wake <-chan struct{}) *WatchState {
	state := &WatchState{Failed: planner.FailedStems{}}
	interval := cfg.PollInterval()

	for {
		if ctx.Err() != nil {
			return state
		}
		state.Iterations++
		watchPass(ctx, cfg, ex, state)
		ex.Notify.Notify(fmt.Sprintf("%s[Watching] pass %d complete", notify.TagConvert, state.Iterations))

		if !sleep(ctx, interval, wake) {
			return state
		}
	}
}

func watchPass(ctx context.Context, cfg *config.Config, ex *Executor, state *WatchState) {
	id := uuid.NewString()
	log := ex.log().With("pass", id)
	log.Debug(cfg.Debug, "watch pass %d started", state.Iterations)

	defer func() {
		if r := recover(); r != nil {
			ex.Notify.Notify(fmt.Sprintf("%s[Watching] pass %d aborted: %v", notify.TagConvert, state.Iterations, r))
			log.Error("watch pass panicked: %v", r)
		}
	}()

	stats, err := Convert(ctx, cfg, ex, state.Failed)
	state.Totals.Merge(stats)
	if err != nil {
		ex.Notify.Notify(fmt.Sprintf("%s[Watching] pass %d: %v; retrying in %s",
			notify.TagConvert, state.Iterations, err, cfg.PollInterval()))
		return
	}
	log.Debug(cfg.Debug, "watch pass done: %d converted, %d skipped, %d failed",
		stats.Succeeded, stats.Skipped, stats.Failed)
}

// sleep waits for d, an early wake, or cancellation. It reports whether the
// loop should continue.
func sleep(ctx context.Context, d time.Duration, wake <-chan struct{}) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	case <-wake:
		return ctx.Err() == nil
	}
}

