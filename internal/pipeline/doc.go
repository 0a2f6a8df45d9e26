// Package pipeline runs planned jobs and reports their outcomes.
//
//   - Executor: per-job conversion and merge, including result placement
//     and temp cleanup (executor.go)
//   - Convert, Merge: one planning pass plus execution, returning RunStats
//     (runner.go)
//   - Watch: repeated Convert passes until the context is cancelled (watch.go)
//
// A failure in one job never stops the batch; directory-level failures end
// the current pass only.
package pipeline
