//go:build unix

package ffmpeg

import "golang.org/x/sys/unix"

// niceLevel is applied to the media tool when ExecRunner.Nice is set.
const niceLevel = 10

func lowerPriority(pid int) error {
	return unix.Setpriority(unix.PRIO_PROCESS, pid, niceLevel)
}
