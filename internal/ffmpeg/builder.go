package ffmpeg

// RemuxArgs returns the argument set for a copy-codec container remux of in
// into out, overwriting out if present.
func RemuxArgs(in, out string) []string {
	return []string{
		"-y",
		"-i", in,
		"-vcodec", "copy",
		"-acodec", "copy",
		out,
	}
}

// MergeArgs returns the argument set that muxes the video stream of video and
// the audio stream of audio into out without re-encoding.
func MergeArgs(video, audio, out string) []string {
	return []string{
		"-i", video,
		"-i", audio,
		"-vcodec", "copy",
		"-acodec", "copy",
		out,
	}
}

// OutputPath returns the last argument, which by contract is the output file.
func OutputPath(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[len(args)-1]
}
