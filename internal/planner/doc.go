// Package planner reconciles capture files against existing outputs and
// decides which units of work the executor should run.
//
//   - PlanConversions: .flv sources vs. .mp4 outputs, with the in-progress
//     write guard for watch mode (convert.go)
//   - PlanMerges: *_audio.* / *_video.* pairing vs. merged outputs (merge.go)
//   - ConversionJob, MergeJob, RunResult (types.go)
//
// Planning never mutates sources. The only filesystem writes are creating
// output directories and clearing stale merge leftovers.
package planner
