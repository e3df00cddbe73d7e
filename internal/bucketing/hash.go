// Package bucketing maps user ids to stable buckets for variant assignment and rollout cohorts.
//
// Both call sites share one hash family: a 32-bit rolling h = h*31 + c over the UTF-16 code
// units of the key, with two's-complement wraparound. Variant assignment reduces |h| mod 10000
// to a fraction in [0,1); rollout inclusion reduces |h| mod 100 to a percentile in [0,100).
// The moduli differ because the two answer different questions, so a user's variant bucket and
// rollout percentile are not expected to line up.
package bucketing

import "unicode/utf16"

const (
	fractionRange   = 10000
	percentileRange = 100
)

// Hash returns the 32-bit rolling hash of key. Stable across processes and releases.
func Hash(key string) int32 {
	var h int32
	for _, c := range utf16.Encode([]rune(key)) {
		h = h*31 + int32(c)
	}
	return h
}

// Fraction maps key to [0,1) in steps of 1/10000.
func Fraction(key string) float64 {
	return float64(reduce(Hash(key), fractionRange)) / fractionRange
}

// Percentile maps key to an integer in [0,100).
func Percentile(key string) int {
	return int(reduce(Hash(key), percentileRange))
}

// reduce computes |h| mod n without overflowing on MinInt32.
func reduce(h int32, n int64) int64 {
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return v % n
}
