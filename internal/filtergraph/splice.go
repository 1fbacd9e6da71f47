package filtergraph

import (
	"errors"
	"strconv"

	"chaptercut/internal/probe"
)

// AudioParams carries the source audio properties needed to synthesize
// silence that concatenates cleanly with the real track.
type AudioParams struct {
	SampleRate    int
	ChannelLayout string
}

// SpliceSpec describes one chapter clip: the trim window inside the source,
// the freeze-frame handle length, and the output geometry.
type SpliceSpec struct {
	FrameRate     probe.Rational
	Start         float64
	End           float64
	TotalDuration float64
	HandleFrames  int
	Width         int
	Height        int
	Audio         *AudioParams
}

// Splice is a fully built chapter graph. VideoOut and AudioOut name the
// graph's final pads; AudioOut is empty when the source has no audio. The
// still times tell the caller which source frames to extract for the
// prefix and suffix handles.
type Splice struct {
	Graph           Graph
	VideoOut        string
	AudioOut        string
	HandleDuration  float64
	PrefixStillTime float64
	SuffixStillTime float64
}

// Build assembles the three-segment splice graph: a frozen prefix handle,
// the trimmed chapter body, and a frozen suffix handle, concatenated in
// order. Input pad 0 is the source file, pads 1 and 2 are the prefix and
// suffix still images.
func Build(spec SpliceSpec) (Splice, error) {
	if spec.FrameRate.IsZero() {
		return Splice{}, errors.New("filtergraph: frame rate is required")
	}
	if spec.HandleFrames <= 0 {
		return Splice{}, errors.New("filtergraph: handle frames must be positive")
	}
	if spec.End < spec.Start {
		return Splice{}, errors.New("filtergraph: end precedes start")
	}
	if spec.Width <= 0 || spec.Height <= 0 {
		return Splice{}, errors.New("filtergraph: output resolution must be positive")
	}

	frameDur := spec.FrameRate.FrameDuration()
	handleDur := float64(spec.HandleFrames) * frameDur

	suffixStill := spec.End - frameDur
	if suffixStill < spec.Start {
		suffixStill = spec.Start
	}

	splice := Splice{
		VideoOut:        "vout",
		HandleDuration:  handleDur,
		PrefixStillTime: spec.Start,
		SuffixStillTime: suffixStill,
	}

	splice.Graph.Add(stillChain("1:v", "vpre", spec))
	// The body stops one frame early; that last frame is what the suffix
	// still holds, so trimming to End would show it twice.
	splice.Graph.Add(Chain{
		Inputs: []string{"0:v"},
		Filters: []Filter{
			{Name: "trim", Args: []string{"start=" + seconds(spec.Start), "end=" + seconds(suffixStill)}},
			{Name: "setpts", Args: []string{"PTS-STARTPTS"}},
			scaleFilter(spec),
			{Name: "setsar", Args: []string{"1"}},
		},
		Outputs: []string{"vmain"},
	})
	splice.Graph.Add(stillChain("2:v", "vsuf", spec))
	splice.Graph.Add(Chain{
		Inputs: []string{"vpre", "vmain", "vsuf"},
		Filters: []Filter{
			{Name: "concat", Args: []string{"n=3", "v=1", "a=0"}},
			{Name: "fps", Args: []string{spec.FrameRate.String()}},
		},
		Outputs: []string{"vout"},
	})

	if spec.Audio != nil {
		splice.AudioOut = "aout"
		buildAudio(&splice.Graph, spec, handleDur, frameDur)
	}

	return splice, nil
}

// stillChain turns a single still frame into a handle-length freeze segment
// at the exact source frame rate. A lone image arrives with the image
// demuxer's default timing, so the looped frames are re-stamped by index at
// the target rate; without that the handle would run HandleFrames of the
// demuxer's frame duration instead of the source's.
func stillChain(input, output string, spec SpliceSpec) Chain {
	return Chain{
		Inputs: []string{input},
		Filters: []Filter{
			scaleFilter(spec),
			{Name: "setsar", Args: []string{"1"}},
			{Name: "loop", Args: []string{
				"loop=" + strconv.Itoa(spec.HandleFrames-1),
				"size=1",
				"start=0",
			}},
			{Name: "settb", Args: []string{"AVTB"}},
			{Name: "setpts", Args: []string{"N/(" + spec.FrameRate.String() + ")/TB"}},
			{Name: "fps", Args: []string{spec.FrameRate.String()}},
		},
		Outputs: []string{output},
	}
}

// buildAudio appends the audio chains. Handles that would reach before the
// start of the file or past its end are replaced by synthesized silence so
// every clip still carries exactly one handle of audio on each side.
func buildAudio(g *Graph, spec SpliceSpec, handleDur, frameDur float64) {
	if spec.Start < handleDur {
		g.Add(silenceChain("apre", spec.Audio, handleDur))
	} else {
		g.Add(Chain{
			Inputs: []string{"0:a"},
			Filters: []Filter{
				{Name: "atrim", Args: []string{
					"start=" + seconds(spec.Start-handleDur),
					"end=" + seconds(spec.Start),
				}},
				{Name: "asetpts", Args: []string{"PTS-STARTPTS"}},
			},
			Outputs: []string{"apre"},
		})
	}

	g.Add(Chain{
		Inputs: []string{"0:a"},
		Filters: []Filter{
			{Name: "atrim", Args: []string{
				"start=" + seconds(spec.Start),
				"end=" + seconds(spec.End),
			}},
			{Name: "asetpts", Args: []string{"PTS-STARTPTS"}},
		},
		Outputs: []string{"amain"},
	})

	if spec.End+frameDur >= spec.TotalDuration {
		g.Add(silenceChain("asuf", spec.Audio, handleDur))
	} else {
		suffixEnd := spec.End + handleDur
		if suffixEnd > spec.TotalDuration {
			suffixEnd = spec.TotalDuration
		}
		g.Add(Chain{
			Inputs: []string{"0:a"},
			Filters: []Filter{
				{Name: "atrim", Args: []string{
					"start=" + seconds(spec.End),
					"end=" + seconds(suffixEnd),
				}},
				{Name: "asetpts", Args: []string{"PTS-STARTPTS"}},
			},
			Outputs: []string{"asuf"},
		})
	}

	g.Add(Chain{
		Inputs: []string{"apre", "amain", "asuf"},
		Filters: []Filter{
			{Name: "concat", Args: []string{"n=3", "v=0", "a=1"}},
		},
		Outputs: []string{"aout"},
	})
}

func silenceChain(output string, audio *AudioParams, duration float64) Chain {
	return Chain{
		Filters: []Filter{
			{Name: "anullsrc", Args: []string{
				"r=" + strconv.Itoa(audio.SampleRate),
				"cl=" + audio.ChannelLayout,
			}},
			{Name: "atrim", Args: []string{"duration=" + seconds(duration)}},
		},
		Outputs: []string{output},
	}
}

func scaleFilter(spec SpliceSpec) Filter {
	return Filter{Name: "scale", Args: []string{
		strconv.Itoa(spec.Width),
		strconv.Itoa(spec.Height),
	}}
}

// seconds formats a timestamp with microsecond precision and no trailing
// zeros, the densest form ffmpeg parses unambiguously.
func seconds(v float64) string {
	s := strconv.FormatFloat(v, 'f', 6, 64)
	s = trimTrailingZeros(s)
	return s
}

func trimTrailingZeros(s string) string {
	i := len(s)
	for i > 0 && s[i-1] == '0' {
		i--
	}
	if i > 0 && s[i-1] == '.' {
		i--
	}
	return s[:i]
}
