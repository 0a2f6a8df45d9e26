package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/backmassage/recmux/internal/check"
	"github.com/backmassage/recmux/internal/config"
	"github.com/backmassage/recmux/internal/display"
	"github.com/backmassage/recmux/internal/ffmpeg"
	"github.com/backmassage/recmux/internal/logging"
	"github.com/backmassage/recmux/internal/notify"
	"github.com/backmassage/recmux/internal/pipeline"
	"github.com/backmassage/recmux/internal/tui"
	"github.com/backmassage/recmux/internal/watchfs"
)

// app carries state shared between cobra hooks and the command bodies.
type app struct {
	cfg  config.Config
	neg  config.NegatedFlags
	code int
}

// prepare maps the invoked command onto cfg, applies a positional DIR, and
// finalizes configuration (defaults < YAML < env < flags).
func (a *app) prepare(cmd *cobra.Command, args []string) error {
	switch cmd.Name() {
	case "merge":
		a.cfg.Command = config.CommandMerge
	case "all":
		a.cfg.Command = config.CommandAll
	default:
		a.cfg.Command = config.CommandConvert
	}

	fs := cmd.Flags()
	if len(args) == 1 && fs.Lookup("cwd") != nil {
		if err := fs.Set("cwd", args[0]); err != nil {
			return err
		}
	}

	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	if err := config.LoadDotEnv(cwd); err != nil {
		return err
	}
	if err := config.Finalize(fs, &a.cfg, &a.neg, cwd); err != nil {
		return err
	}
	return a.cfg.Validate()
}

func (a *app) runCheck() int {
	log, err := logging.NewLogger(&a.cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "recmux: %v\n", err)
		return 1
	}
	defer log.Close()

	display.PrintBanner(os.Stdout)
	if !check.RunCheck(&a.cfg, log) {
		return 1
	}
	return 0
}

// execute runs the configured command and returns the exit code.
func (a *app) execute(parent context.Context) int {
	cfg := &a.cfg

	// Phase 1: logger.
	log, err := logging.NewLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "recmux: %v\n", err)
		return 1
	}
	defer log.Close()

	if !cfg.UI {
		display.PrintBanner(os.Stdout)
	}
	log.Info("=== recmux v%s (%s) ===", version, commit)
	log.Info("Dir: %s", cfg.WorkDir)
	if cfg.Command != config.CommandMerge {
		log.Info("Out: %s", cfg.OutputDir)
	}
	log.Debug(cfg.Debug, "config: %+v", *cfg)

	if err := check.CheckDeps(cfg); err != nil {
		log.Error("%v", err)
		return 1
	}

	// Phase 2: cancel on SIGINT/SIGTERM; the watch loop stops before the
	// next pass or during its sleep.
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	// The UI owns the terminal while it runs; log to the file sink only.
	runLog := log
	if cfg.UI {
		runLog = log.FileOnly()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			runLog.Warn("Received interrupt, finishing current file…")
			cancel()
		case <-ctx.Done():
		}
	}()

	// Phase 3: run, either behind the terminal UI or on the console.
	var res outcome
	if cfg.UI {
		err := tui.Run("recmux "+string(cfg.Command), cancel, func(n notify.Notifier) string {
			res = a.work(ctx, runLog, notify.Tee(n, notify.NewConsole(runLog)))
			return res.summary
		})
		if err != nil {
			log.Error("ui: %v", err)
		}
	} else {
		res = a.work(ctx, log, notify.NewConsole(log))
	}

	for _, s := range res.stats {
		pipeline.LogSummary(log, s.verb, s.RunStats)
	}
	if res.failed {
		return 1
	}
	return 0
}

type namedStats struct {
	verb string
	pipeline.RunStats
}

type outcome struct {
	stats   []namedStats
	summary string
	failed  bool
}

// work drives the pipelines for cfg.Command, reporting through n.
func (a *app) work(ctx context.Context, log *logging.Logger, n notify.Notifier) outcome {
	cfg := &a.cfg
	runner := &ffmpeg.ExecRunner{Binary: cfg.FFmpegBin, Nice: cfg.Nice}
	if cfg.Debug {
		lines := notify.Prefixed(n, "[ffmpeg]")
		runner.OnLine = func(stream, line string) {
			lines.Notify(fmt.Sprintf("[%s] %s", stream, line))
		}
	}
	newExec := func() *pipeline.Executor {
		return &pipeline.Executor{Runner: runner, Notify: n, Log: log, Debug: cfg.Debug}
	}

	var out outcome
	switch cfg.Command {
	case config.CommandMerge:
		out.add("merged", a.merge(ctx, newExec()))
	case config.CommandAll:
		var conv, merged passResult
		var g errgroup.Group
		g.Go(func() error { conv = a.convert(ctx, log, newExec()); return nil })
		g.Go(func() error { merged = a.merge(ctx, newExec()); return nil })
		_ = g.Wait()
		out.add("converted", conv)
		out.add("merged", merged)
	default:
		out.add("converted", a.convert(ctx, log, newExec()))
	}
	return out
}

type passResult struct {
	stats pipeline.RunStats
	err   error
	watch bool // Watch sessions exit 0 on interrupt regardless of job failures.
}

func (o *outcome) add(verb string, r passResult) {
	o.stats = append(o.stats, namedStats{verb: verb, RunStats: r.stats})
	if !r.watch && (r.err != nil || !r.stats.OK()) {
		o.failed = true
	}
	line := fmt.Sprintf("Done: %d %s, %d skipped, %d failed", r.stats.Succeeded, verb, r.stats.Skipped, r.stats.Failed)
	if o.summary != "" {
		o.summary += "\n"
	}
	o.summary += line
}

func (a *app) convert(ctx context.Context, log *logging.Logger, ex *pipeline.Executor) passResult {
	cfg := &a.cfg
	if !cfg.Watch {
		stats, err := pipeline.Convert(ctx, cfg, ex, nil)
		if err != nil {
			ex.Notify.Notify(fmt.Sprintf("%s %v", notify.TagConvert, err))
		}
		return passResult{stats: stats, err: err}
	}

	wake := make(chan struct{}, 1)
	if cfg.FSNotify {
		nudger := &watchfs.Nudger{
			Dir:    cfg.WorkDir,
			Ext:    "flv",
			Settle: cfg.StableAfter + time.Second,
			OnErr:  func(err error) { log.Warn("fsnotify: %v", err) },
		}
		go func() {
			if err := nudger.Run(ctx, wake); err != nil {
				log.Warn("fsnotify disabled: %v", err)
			}
		}()
	}
	st := pipeline.Watch(ctx, cfg, ex, wake)
	log.Info("Watch stopped after %d passes", st.Iterations)
	return passResult{stats: st.Totals, watch: true}
}

func (a *app) merge(ctx context.Context, ex *pipeline.Executor) passResult {
	stats, err := pipeline.Merge(ctx, &a.cfg, ex)
	if err != nil {
		ex.Notify.Notify(fmt.Sprintf("%s %v", notify.TagMerge, err))
	}
	return passResult{stats: stats, err: err}
}
