package planner

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/backmassage/recmux/internal/fsx"
	"github.com/backmassage/recmux/internal/notify"
	"github.com/backmassage/recmux/internal/scan"
)

const (
	audioMarker = "_audio"
	videoMarker = "_video"
)

var videoMarkerRe = regexp.MustCompile(`(?i)_video`)

// PairedStem strips the first "_audio" from an audio file stem.
func PairedStem(audioStem string) string {
	return strings.Replace(audioStem, audioMarker, "", 1)
}

// MergedName is the output file name for a video: every "_video" removed
// (case-insensitive), extension kept.
func MergedName(videoName string) string {
	ext := filepath.Ext(videoName)
	stem := strings.TrimSuffix(videoName, ext)
	return videoMarkerRe.ReplaceAllString(stem, "") + ext
}

// PlanMerges pairs the audio and video files directly inside workDir and
// returns a job for each pair whose merged output is not in outDir yet.
// outDir is created when there is at least one audio file.
func PlanMerges(workDir, outDir string, n notify.Notifier) (Plan[MergeJob], error) {
	var plan Plan[MergeJob]
	tag := notify.TagMerge

	files, err := scan.List(workDir)
	if err != nil {
		return plan, err
	}

	var audios, videos []scan.SourceFile
	for _, f := range files {
		if strings.Contains(f.Name, audioMarker+".") {
			audios = append(audios, f)
		}
		if strings.Contains(f.Name, videoMarker+".") {
			videos = append(videos, f)
		}
	}
	if len(audios) == 0 {
		n.Notify(fmt.Sprintf("%s No audio/video files to merge in %s", tag, workDir))
		return plan, nil
	}

	if _, err := fsx.EnsureDir(outDir); err != nil {
		return plan, err
	}

	// Outputs queued earlier in this pass count as existing.
	planned := make(map[string]bool)
	for _, audio := range audios {
		paired := PairedStem(audio.Stem)
		matches := matchVideos(videos, paired)
		if len(matches) == 0 {
			msg := fmt.Sprintf("%s No matching video for %s", tag, audio.Name)
			n.Notify(msg)
			plan.skip(audio.Path, msg)
			continue
		}
		video := matches[0]
		if len(matches) > 1 {
			others := make([]string, 0, len(matches)-1)
			for _, m := range matches[1:] {
				others = append(others, m.Name)
			}
			n.Notify(fmt.Sprintf("%s %s matches several videos; using %s, ignoring %s",
				tag, audio.Name, video.Name, strings.Join(others, ", ")))
		}

		name := MergedName(video.Name)
		out := filepath.Join(outDir, name)
		if planned[name] || fsx.Exists(out) {
			msg := fmt.Sprintf("%s Merged file for %s already exists", tag, paired)
			n.Notify(msg)
			plan.skip(audio.Path, msg)
			continue
		}

		temp := filepath.Join(video.Dir(), name)
		if err := checkPaths(audio.Path, video.Path, temp); err != nil {
			msg := fmt.Sprintf("%s %s: %v", tag, audio.Name, err)
			n.Notify(msg)
			plan.fail(audio.Path, msg, err)
			continue
		}
		removed, err := fsx.RemoveStale(temp)
		if err != nil {
			msg := fmt.Sprintf("%s Cannot clear stale %s: %v", tag, temp, err)
			n.Notify(msg)
			plan.fail(audio.Path, msg, err)
			continue
		}
		if removed {
			n.Notify(fmt.Sprintf("%s Removed stale leftover %s", tag, temp))
		}

		planned[name] = true
		plan.Jobs = append(plan.Jobs, MergeJob{
			Audio:      audio,
			Video:      video,
			PairedStem: paired,
			OutputPath: out,
			TempPath:   temp,
		})
	}
	return plan, nil
}

// matchVideos returns the videos whose name contains "<paired>_video.".
// Names that start with it sort first, then lexicographic order.
func matchVideos(videos []scan.SourceFile, paired string) []scan.SourceFile {
	key := paired + videoMarker + "."
	var out []scan.SourceFile
	for _, v := range videos {
		if strings.Contains(v.Name, key) {
			out = append(out, v)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		pi := strings.HasPrefix(out[i].Name, key)
		pj := strings.HasPrefix(out[j].Name, key)
		if pi != pj {
			return pi
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func checkPaths(paths ...string) error {
	for _, p := range paths {
		if err := fsx.CheckPath(p); err != nil {
			return err
		}
	}
	return nil
}
