// Package ffmpeg holds the media tool contract: the fixed argument sets for a
// lossless remux and an audio+video merge, and a subprocess runner that
// drains both output streams concurrently while capturing stderr verbatim.
//
// Tests and callers depend on the [Runner] interface; [ExecRunner] is the
// production implementation.
package ffmpeg
