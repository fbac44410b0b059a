package dice

import (
	"crypto/rand"
	"math/big"
	mrand "math/rand/v2"
)

// float64Denominator is 2^53, the number of distinct float64 values in [0, 1)
// that are evenly spaced.
const float64Denominator = 1 << 53

// cryptoSource implements Source using crypto/rand.
type cryptoSource struct{}

// NewCryptoSource returns a non-deterministic Source backed by crypto/rand.
//
// Postcondition: Every value returned by Float64 is in [0, 1).
func NewCryptoSource() Source {
	return &cryptoSource{}
}

// Float64 returns a cryptographically secure value in [0, 1).
//
// Panics with "dice: crypto/rand failure: <err>" if crypto/rand fails.
func (c *cryptoSource) Float64() float64 {
	val, err := rand.Int(rand.Reader, big.NewInt(float64Denominator))
	if err != nil {
		panic("dice: crypto/rand failure: " + err.Error())
	}
	return float64(val.Int64()) / float64Denominator
}

// seededSource implements Source with a deterministic PCG generator.
type seededSource struct {
	rng *mrand.Rand
}

// NewSeededSource returns a deterministic Source. Two sources built from the
// same seed produce identical sequences. A zero seed is replaced with 1.
func NewSeededSource(seed int64) Source {
	if seed == 0 {
		seed = 1
	}
	s := uint64(seed)
	return &seededSource{rng: mrand.New(mrand.NewPCG(s, s^0x9e3779b97f4a7c15))}
}

// Float64 returns the next value in [0, 1) from the seeded sequence.
func (s *seededSource) Float64() float64 {
	return s.rng.Float64()
}

// NewSource returns a seeded Source when seed is non-zero and a crypto-backed
// Source otherwise.
func NewSource(seed int64) Source {
	if seed == 0 {
		return NewCryptoSource()
	}
	return NewSeededSource(seed)
}
