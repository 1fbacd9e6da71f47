package engine

import (
	"context"
	"strconv"

	"chaptercut/internal/filtergraph"
	"chaptercut/internal/probe"
)

// FFmpeg issues ffmpeg invocations through an Executor.
type FFmpeg struct {
	binary string
	exec   *Executor
}

func NewFFmpeg(binary string, executor *Executor) *FFmpeg {
	return &FFmpeg{binary: binary, exec: executor}
}

// Kill terminates whichever invocation is currently in flight and reports
// whether there was one.
func (f *FFmpeg) Kill() bool {
	return f.exec.Kill()
}

// ExtractStill writes the single frame at the given source timestamp to
// outPath. Seek before input keeps this a keyframe-accurate fast seek
// followed by an exact decode.
func (f *FFmpeg) ExtractStill(ctx context.Context, source string, at float64, outPath string) error {
	args := []string{
		"-y", "-v", "error", "-hide_banner",
		"-ss", formatTimestamp(at),
		"-i", source,
		"-frames:v", "1",
		outPath,
	}
	return f.exec.Run(ctx, f.binary, args...)
}

// TranscodeSpec is one complete clip render: the source, the two handle
// stills, the chapter metadata file, the splice graph, and the encode
// parameters.
type TranscodeSpec struct {
	Source       string
	PrefixStill  string
	SuffixStill  string
	MetadataFile string
	Splice       filtergraph.Splice
	FrameRate    probe.Rational
	VideoCodec   string
	VideoBitrate string
	AudioCodec   string
	AudioBitrate string
	PixelFormat  string
	Output       string
}

// Transcode renders one clip. Input order is fixed: source is pad 0, the
// prefix and suffix stills are pads 1 and 2, and the metadata document is
// input 3, matching the pads the splice graph was built against.
func (f *FFmpeg) Transcode(ctx context.Context, spec TranscodeSpec) error {
	args := []string{
		"-y", "-v", "error", "-hide_banner",
		"-i", spec.Source,
		"-i", spec.PrefixStill,
		"-i", spec.SuffixStill,
		"-i", spec.MetadataFile,
		"-filter_complex", spec.Splice.Graph.String(),
		"-map", "[" + spec.Splice.VideoOut + "]",
	}
	if spec.Splice.AudioOut != "" {
		args = append(args,
			"-map", "["+spec.Splice.AudioOut+"]",
			"-c:a", spec.AudioCodec,
			"-b:a", spec.AudioBitrate,
		)
	}
	args = append(args,
		"-map_metadata", "3",
		"-map_chapters", "3",
		"-r", spec.FrameRate.String(),
		"-c:v", spec.VideoCodec,
		"-b:v", spec.VideoBitrate,
		"-pix_fmt", spec.PixelFormat,
		spec.Output,
	)
	return f.exec.Run(ctx, f.binary, args...)
}

func formatTimestamp(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
