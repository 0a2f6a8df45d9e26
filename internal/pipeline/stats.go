package pipeline

import "github.com/backmassage/recmux/internal/planner"

// RunStats tracks aggregate counters and byte totals across a pass.
type RunStats struct {
	Total            int // Results recorded, planning skips included.
	Succeeded        int
	Skipped          int
	Failed           int
	TotalInputBytes  int64
	TotalOutputBytes int64
}

// Add records one result.
func (s *RunStats) Add(r planner.RunResult) {
	s.Total++
	switch r.Status {
	case planner.StatusSuccess:
		s.Succeeded++
		s.TotalOutputBytes += r.Bytes
	case planner.StatusSkipped:
		s.Skipped++
	case planner.StatusFailed:
		s.Failed++
	}
}

// Merge folds o into s.
func (s *RunStats) Merge(o RunStats) {
	s.Total += o.Total
	s.Succeeded += o.Succeeded
	s.Skipped += o.Skipped
	s.Failed += o.Failed
	s.TotalInputBytes += o.TotalInputBytes
	s.TotalOutputBytes += o.TotalOutputBytes
}

// OK reports whether nothing failed.
func (s RunStats) OK() bool { return s.Failed == 0 }
