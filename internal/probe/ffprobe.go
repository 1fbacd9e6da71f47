package probe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"chaptercut/internal/services"
)

var commandContext = exec.CommandContext

// ChapterMarker is one embedded chapter as reported by the probing engine,
// in marker order. Ordering within one source file is authoritative for
// successor lookup; it is not guaranteed sorted by time.
type ChapterMarker struct {
	Title     string
	StartTime float64
}

// StreamDescriptor captures the per-file stream and container facts the
// splice builder needs. Fetched once per distinct source file and cached for
// the run; read-only after creation.
type StreamDescriptor struct {
	Duration      float64
	FrameRate     Rational
	HasAudio      bool
	SampleRate    int
	ChannelLayout string
}

// CLI wraps the ffprobe command-line prober.
type CLI struct {
	binary string
}

// NewCLI constructs a prober using the given binary name.
func NewCLI(binary string) *CLI {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	return &CLI{binary: binary}
}

// Chapters returns the embedded chapter markers of the given file.
func (c *CLI) Chapters(ctx context.Context, path string) ([]ChapterMarker, error) {
	output, err := c.invoke(ctx, path, "-show_chapters")
	if err != nil {
		return nil, err
	}
	markers, err := parseChaptersOutput(output)
	if err != nil {
		return nil, services.Wrap(services.ErrProbe, "probe", "chapters", path, err)
	}
	return markers, nil
}

// Streams returns the stream/format descriptor of the given file. A missing
// video stream or frame-rate field is a probe failure.
func (c *CLI) Streams(ctx context.Context, path string) (StreamDescriptor, error) {
	output, err := c.invoke(ctx, path, "-show_streams", "-show_format")
	if err != nil {
		return StreamDescriptor{}, err
	}
	desc, err := parseStreamsOutput(output)
	if err != nil {
		return StreamDescriptor{}, services.Wrap(services.ErrProbe, "probe", "streams", path, err)
	}
	return desc, nil
}

func (c *CLI) invoke(ctx context.Context, path string, selectors ...string) ([]byte, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, services.Wrap(services.ErrProbe, "probe", "invoke", "empty path", nil)
	}
	args := []string{"-v", "error", "-hide_banner", "-of", "json"}
	args = append(args, selectors...)
	args = append(args, "--", path)

	cmd := commandContext(ctx, c.binary, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		detail := strings.TrimSpace(string(output))
		return nil, services.Wrap(services.ErrProbe, "probe", "invoke", detail, err)
	}
	return output, nil
}

type chaptersPayload struct {
	Chapters []struct {
		StartTime string `json:"start_time"`
		Tags      struct {
			Title string `json:"title"`
		} `json:"tags"`
	} `json:"chapters"`
}

func parseChaptersOutput(data []byte) ([]ChapterMarker, error) {
	var payload chaptersPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode chapter payload: %w", err)
	}
	markers := make([]ChapterMarker, 0, len(payload.Chapters))
	for i, ch := range payload.Chapters {
		start, err := strconv.ParseFloat(strings.TrimSpace(ch.StartTime), 64)
		if err != nil {
			return nil, fmt.Errorf("chapter %d start_time %q: %w", i, ch.StartTime, err)
		}
		markers = append(markers, ChapterMarker{
			Title:     strings.TrimSpace(ch.Tags.Title),
			StartTime: start,
		})
	}
	return markers, nil
}

type streamsPayload struct {
	Streams []struct {
		CodecType     string `json:"codec_type"`
		RFrameRate    string `json:"r_frame_rate"`
		SampleRate    string `json:"sample_rate"`
		ChannelLayout string `json:"channel_layout"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

func parseStreamsOutput(data []byte) (StreamDescriptor, error) {
	var payload streamsPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return StreamDescriptor{}, fmt.Errorf("decode stream payload: %w", err)
	}

	var desc StreamDescriptor
	videoFound := false
	for _, stream := range payload.Streams {
		switch strings.ToLower(stream.CodecType) {
		case "video":
			if videoFound {
				continue
			}
			rate := strings.TrimSpace(stream.RFrameRate)
			if rate == "" {
				return StreamDescriptor{}, errors.New("video stream missing r_frame_rate")
			}
			parsed, err := ParseRational(rate)
			if err != nil {
				return StreamDescriptor{}, err
			}
			desc.FrameRate = parsed
			videoFound = true
		case "audio":
			if desc.HasAudio {
				continue
			}
			desc.HasAudio = true
			if sr, err := strconv.Atoi(strings.TrimSpace(stream.SampleRate)); err == nil {
				desc.SampleRate = sr
			}
			desc.ChannelLayout = strings.TrimSpace(stream.ChannelLayout)
		}
	}
	if !videoFound {
		return StreamDescriptor{}, errors.New("no video stream")
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(payload.Format.Duration), 64)
	if err != nil {
		return StreamDescriptor{}, fmt.Errorf("container duration %q: %w", payload.Format.Duration, err)
	}
	desc.Duration = duration
	return desc, nil
}
