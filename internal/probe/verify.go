package probe

import (
	"context"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// VerifyResult is the authoritative duration of a produced clip.
type VerifyResult struct {
	DurationSeconds int
	DurationFrames  int
}

// Verify re-probes a produced file and reports its duration in whole seconds
// and frames. Incomplete format metadata degrades to a zero result rather
// than an error: the transcode itself already succeeded.
func (c *CLI) Verify(ctx context.Context, path string, frameRate Rational) VerifyResult {
	output, err := c.invoke(ctx, path, "-show_format")
	if err != nil {
		return VerifyResult{}
	}
	return computeVerifyResult(parseFormatDuration(output), frameRate)
}

func parseFormatDuration(data []byte) float64 {
	var payload struct {
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return 0
	}
	duration, err := strconv.ParseFloat(strings.TrimSpace(payload.Format.Duration), 64)
	if err != nil {
		return 0
	}
	return duration
}

func computeVerifyResult(durationSeconds float64, frameRate Rational) VerifyResult {
	if durationSeconds <= 0 || frameRate.IsZero() {
		return VerifyResult{}
	}
	return VerifyResult{
		DurationSeconds: int(math.Round(durationSeconds)),
		DurationFrames:  int(math.Round(durationSeconds * frameRate.Float())),
	}
}
