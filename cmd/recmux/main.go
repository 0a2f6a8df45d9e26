// Command recmux converts FLV stream captures to MP4 and merges separately
// recorded audio/video pairs, once or continuously in watch mode.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/backmassage/recmux/internal/config"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run parses args, executes the selected command, and returns the exit code.
func run(args []string) int {
	a := &app{cfg: config.DefaultConfig()}
	root := newRootCmd(a)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "recmux: %v\n", err)
		return 1
	}
	return a.code
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "recmux",
		Short: "Batch FLV to MP4 remux and audio/video merge for capture folders",
		Long: `recmux reconciles a folder of stream captures against its outputs.

convert remuxes every .flv into .mp4 (copy codecs) and can keep watching the
folder for new captures. merge pairs *_audio.* and *_video.* files and muxes
each pair into one file. Re-running either is safe: finished work is skipped.`,
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}
			return a.prepare(cmd, args)
		},
	}
	config.BindPersistentFlags(root.PersistentFlags(), &a.cfg, &a.neg)

	convert := &cobra.Command{
		Use:   "convert",
		Short: "Remux .flv captures into .mp4",
		Example: `  recmux convert                     # current directory -> ./flv-to-mp4
  recmux convert -c /rec -o /media -a # archive into /media/<Y-M-D>/
  recmux convert -w -t 60 -r          # watch, poll every 60s, delete sources`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.code = a.execute(cmd.Context())
			return nil
		},
	}
	config.BindConvertFlags(convert.Flags(), &a.cfg)

	merge := &cobra.Command{
		Use:   "merge [DIR]",
		Short: "Merge *_audio.* and *_video.* pairs into audio-video-merger/",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.code = a.execute(cmd.Context())
			return nil
		},
	}
	config.BindWorkDirFlag(merge.Flags(), &a.cfg)
	_ = merge.Flags().MarkHidden("cwd")

	all := &cobra.Command{
		Use:   "all [DIR]",
		Short: "Run convert and merge over the same directory concurrently",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.code = a.execute(cmd.Context())
			return nil
		},
	}
	config.BindConvertFlags(all.Flags(), &a.cfg)

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Report ffmpeg availability and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.code = a.runCheck()
			return nil
		},
	}
	config.BindWorkDirFlag(checkCmd.Flags(), &a.cfg)

	root.AddCommand(convert, merge, all, checkCmd)
	return root
}
