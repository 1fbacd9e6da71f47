// Package probe invokes the external probing engine (ffprobe) and parses its
// JSON output into chapter markers and stream descriptors. Frame rates are
// kept as exact rationals; the parser fails closed on anything that is not a
// plain integer or numerator/denominator pair.
package probe
