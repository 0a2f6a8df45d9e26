package planner

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/backmassage/recmux/internal/display"
	"github.com/backmassage/recmux/internal/scan"
)

// Status is the per-job outcome.
type Status int

const (
	StatusSuccess Status = iota
	StatusSkipped
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// RunResult is the outcome of one job or one planning decision. It is only
// ever surfaced through notifications and run statistics.
type RunResult struct {
	Status  Status
	Subject string // Source or pair the result is about.
	Message string
	Elapsed time.Duration
	Bytes   int64 // Size of the placed output on success.
	Err     error
}

// Options carries the convert flags into each job.
type Options struct {
	Watch        bool
	Archive      bool
	RemoveSource bool
	Debug        bool
	PollSeconds  int
}

// ConversionJob converts one source into <TargetDir>/<stem>.mp4, or into a
// date bucket under TargetDir when archiving.
type ConversionJob struct {
	Source    scan.SourceFile
	TargetDir string
	Options   Options
}

// TempPath is where the media tool writes: beside the source.
func (j ConversionJob) TempPath() string {
	return filepath.Join(j.Source.Dir(), j.Source.Stem+".mp4")
}

// DestDir is the final directory, bucketed by the source mtime when archiving.
func (j ConversionJob) DestDir() string {
	if j.Options.Archive {
		return filepath.Join(j.TargetDir, display.DateBucket(j.Source.ModTime))
	}
	return j.TargetDir
}

// DestPath is the final output file.
func (j ConversionJob) DestPath() string {
	return filepath.Join(j.DestDir(), j.Source.Stem+".mp4")
}

// MergeJob muxes Audio into Video. The tool writes TempPath (in the video's
// directory); the executor then moves it to OutputPath.
type MergeJob struct {
	Audio      scan.SourceFile
	Video      scan.SourceFile
	PairedStem string
	OutputPath string
	TempPath   string
}

// Plan is the result of a planning pass: jobs to execute plus the outcomes
// already decided while planning (skips, rejected paths).
type Plan[J any] struct {
	Jobs    []J
	Results []RunResult
}

func (p *Plan[J]) skip(subject, msg string) {
	p.Results = append(p.Results, RunResult{Status: StatusSkipped, Subject: subject, Message: msg})
}

func (p *Plan[J]) fail(subject, msg string, err error) {
	p.Results = append(p.Results, RunResult{Status: StatusFailed, Subject: subject, Message: msg, Err: err})
}
