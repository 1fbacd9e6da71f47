package engine

import (
	"context"
	"os/exec"
	"strings"
	"testing"

	"chaptercut/internal/filtergraph"
	"chaptercut/internal/probe"
)

func captureCommand(t *testing.T) *[]string {
	t.Helper()
	requireBinary(t, "true")
	orig := commandContext
	captured := &[]string{}
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		*captured = append([]string{name}, args...)
		return exec.CommandContext(ctx, "true")
	}
	t.Cleanup(func() { commandContext = orig })
	return captured
}

func TestExtractStillArguments(t *testing.T) {
	captured := captureCommand(t)
	f := NewFFmpeg("/usr/bin/ffmpeg", &Executor{})

	if err := f.ExtractStill(context.Background(), "/in/src.mkv", 5.5, "/tmp/pre.png"); err != nil {
		t.Fatalf("extract: %v", err)
	}

	line := strings.Join(*captured, " ")
	for _, want := range []string{
		"/usr/bin/ffmpeg",
		"-ss 5.500000 -i /in/src.mkv",
		"-frames:v 1 /tmp/pre.png",
	} {
		if !strings.Contains(line, want) {
			t.Errorf("command missing %q: %s", want, line)
		}
	}
}

func TestTranscodeArguments(t *testing.T) {
	captured := captureCommand(t)
	f := NewFFmpeg("ffmpeg", &Executor{})

	rate, err := probe.ParseRational("30/1")
	if err != nil {
		t.Fatalf("parse rational: %v", err)
	}
	splice, err := filtergraph.Build(filtergraph.SpliceSpec{
		FrameRate:     rate,
		Start:         0,
		End:           5,
		TotalDuration: 10,
		HandleFrames:  10,
		Width:         1920,
		Height:        1080,
		Audio:         &filtergraph.AudioParams{SampleRate: 48000, ChannelLayout: "stereo"},
	})
	if err != nil {
		t.Fatalf("build splice: %v", err)
	}

	spec := TranscodeSpec{
		Source:       "/in/src.mkv",
		PrefixStill:  "/tmp/pre.png",
		SuffixStill:  "/tmp/suf.png",
		MetadataFile: "/tmp/meta.txt",
		Splice:       splice,
		FrameRate:    rate,
		VideoCodec:   "libx264",
		VideoBitrate: "8M",
		AudioCodec:   "aac",
		AudioBitrate: "192k",
		PixelFormat:  "yuv420p",
		Output:       "/out/clip-v001.mp4",
	}
	if err := f.Transcode(context.Background(), spec); err != nil {
		t.Fatalf("transcode: %v", err)
	}

	line := strings.Join(*captured, " ")
	for _, want := range []string{
		"-i /in/src.mkv -i /tmp/pre.png -i /tmp/suf.png -i /tmp/meta.txt",
		"-map [vout] -map [aout]",
		"-c:a aac -b:a 192k",
		"-map_metadata 3 -map_chapters 3",
		"-r 30/1 -c:v libx264 -b:v 8M -pix_fmt yuv420p /out/clip-v001.mp4",
	} {
		if !strings.Contains(line, want) {
			t.Errorf("command missing %q: %s", want, line)
		}
	}
}

func TestTranscodeVideoOnlySkipsAudioFlags(t *testing.T) {
	captured := captureCommand(t)
	f := NewFFmpeg("ffmpeg", &Executor{})

	rate, err := probe.ParseRational("25/1")
	if err != nil {
		t.Fatalf("parse rational: %v", err)
	}
	splice, err := filtergraph.Build(filtergraph.SpliceSpec{
		FrameRate:     rate,
		Start:         1,
		End:           2,
		TotalDuration: 10,
		HandleFrames:  10,
		Width:         1280,
		Height:        720,
	})
	if err != nil {
		t.Fatalf("build splice: %v", err)
	}

	err = f.Transcode(context.Background(), TranscodeSpec{
		Source: "/in/a.mkv", PrefixStill: "p", SuffixStill: "s", MetadataFile: "m",
		Splice: splice, FrameRate: rate,
		VideoCodec: "libx264", VideoBitrate: "4M", PixelFormat: "yuv420p",
		Output: "/out/a-v001.mp4",
	})
	if err != nil {
		t.Fatalf("transcode: %v", err)
	}

	line := strings.Join(*captured, " ")
	if strings.Contains(line, "-c:a") || strings.Contains(line, "[aout]") {
		t.Fatalf("video-only transcode carries audio flags: %s", line)
	}
}
