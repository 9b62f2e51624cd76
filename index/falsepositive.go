package index

import "math"

// bloomFalsePositiveRate computes the standard Bloom filter false-positive
// estimate (1 - e^(-hn/m))^h for m bits, h hash functions and n insertions.
func bloomFalsePositiveRate(m uint32, h int, n uint64) float64 {
	if m == 0 || h == 0 {
		return 0
	}
	exponent := -float64(h) * float64(n) / float64(m)
	return math.Pow(1-math.Exp(exponent), float64(h))
}
