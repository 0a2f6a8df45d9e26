package planner

import (
	"fmt"
	"time"

	"github.com/backmassage/recmux/internal/config"
	"github.com/backmassage/recmux/internal/fsx"
	"github.com/backmassage/recmux/internal/notify"
	"github.com/backmassage/recmux/internal/scan"
)

// FailedStems remembers sources whose conversion failed earlier in the same
// watch session. A nil set never matches.
type FailedStems map[string]bool

// PlanConversions reconciles cfg.WorkDir's .flv files against the .mp4
// outputs already in cfg.OutputDir and returns the jobs to run.
//
// Directory errors (unreadable source, output directory creation) abort the
// pass and are returned; per-file decisions are recorded in Plan.Results.
func PlanConversions(cfg *config.Config, now time.Time, n notify.Notifier, failed FailedStems) (Plan[ConversionJob], error) {
	var plan Plan[ConversionJob]
	tag := notify.TagConvert

	created, err := fsx.EnsureDir(cfg.OutputDir)
	if err != nil {
		return plan, err
	}
	if created {
		n.Notify(fmt.Sprintf("%s Created output directory: %s", tag, cfg.OutputDir))
	}

	sources, err := scan.Scan(cfg.WorkDir, "flv")
	if err != nil {
		return plan, err
	}
	if len(sources) == 0 {
		n.Notify(fmt.Sprintf("%s No .flv files found in %s", tag, cfg.WorkDir))
		return plan, nil
	}

	existing, err := existingOutputs(cfg.OutputDir, cfg.Archive)
	if err != nil {
		return plan, err
	}

	opts := Options{
		Watch:        cfg.Watch,
		Archive:      cfg.Archive,
		RemoveSource: cfg.RemoveSource,
		Debug:        cfg.Debug,
		PollSeconds:  cfg.PollSeconds,
	}

	queued := make(map[string]string)
	for _, src := range sources {
		switch {
		case queued[src.Stem] != "":
			msg := fmt.Sprintf("%s %s: same name as %s, skipping", tag, src.Name, queued[src.Stem])
			n.Notify(msg)
			plan.skip(src.Path, msg)

		case existing[src.Stem]:
			msg := fmt.Sprintf("%s %s: mp4 already exists, skipping", tag, src.Name)
			n.Notify(msg)
			plan.skip(src.Path, msg)

		case failed[src.Stem]:
			msg := fmt.Sprintf("%s %s failed earlier in this session, skipping", tag, src.Name)
			n.Notify(msg)
			plan.skip(src.Path, msg)

		case cfg.Watch && now.Sub(src.ModTime) < cfg.StableAfter:
			msg := fmt.Sprintf("%s %s is still being written (modified %s ago), skipping",
				tag, src.Name, now.Sub(src.ModTime).Truncate(time.Second))
			if cfg.Debug {
				n.Notify(msg)
			}
			plan.skip(src.Path, msg)

		default:
			if err := fsx.CheckPath(src.Path); err != nil {
				msg := fmt.Sprintf("%s %s: %v", tag, src.Name, err)
				n.Notify(msg)
				plan.fail(src.Path, msg, err)
				continue
			}
			queued[src.Stem] = src.Name
			plan.Jobs = append(plan.Jobs, ConversionJob{
				Source:    src,
				TargetDir: cfg.OutputDir,
				Options:   opts,
			})
		}
	}
	return plan, nil
}

// existingOutputs returns the stems of .mp4 files already produced. When
// archiving, date bucket subdirectories are included.
func existingOutputs(outputDir string, archive bool) (map[string]bool, error) {
	var (
		files []scan.SourceFile
		err   error
	)
	if archive {
		files, err = scan.ScanTree(outputDir, "mp4")
	} else {
		files, err = scan.Scan(outputDir, "mp4")
	}
	if err != nil {
		return nil, err
	}
	return scan.Stems(files), nil
}
