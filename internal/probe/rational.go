package probe

import (
	"fmt"
	"strconv"
	"strings"
)

// Rational is an exact frame rate as reported by the probing engine, e.g.
// "30000/1001". The raw string form is preserved for filter time-base
// arithmetic; conversion to float happens only at the call sites that need a
// frame duration.
type Rational struct {
	Num int64
	Den int64
	raw string
}

// ParseRational parses "numerator/denominator" or a plain positive integer.
// It fails closed on any unexpected token: the input comes from container
// metadata and must never be evaluated loosely.
func ParseRational(value string) (Rational, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return Rational{}, fmt.Errorf("parse rational: empty value")
	}

	numPart, denPart, hasSlash := strings.Cut(trimmed, "/")
	num, err := strconv.ParseInt(numPart, 10, 64)
	if err != nil {
		return Rational{}, fmt.Errorf("parse rational %q: %w", value, err)
	}

	den := int64(1)
	if hasSlash {
		den, err = strconv.ParseInt(denPart, 10, 64)
		if err != nil {
			return Rational{}, fmt.Errorf("parse rational %q: %w", value, err)
		}
	}

	if num <= 0 || den <= 0 {
		return Rational{}, fmt.Errorf("parse rational %q: must be positive", value)
	}
	return Rational{Num: num, Den: den, raw: trimmed}, nil
}

// String returns the exact form as reported by the engine.
func (r Rational) String() string {
	if r.raw != "" {
		return r.raw
	}
	if r.Den == 1 {
		return strconv.FormatInt(r.Num, 10)
	}
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}

// Float converts the rational to frames per second.
func (r Rational) Float() float64 {
	if r.Den == 0 {
		return 0
	}
	return float64(r.Num) / float64(r.Den)
}

// FrameDuration returns the length of one frame in seconds.
func (r Rational) FrameDuration() float64 {
	if r.Num == 0 {
		return 0
	}
	return float64(r.Den) / float64(r.Num)
}

// IsZero reports whether the rational is unset.
func (r Rational) IsZero() bool {
	return r.Num == 0
}
