// Package dice provides the randomness abstraction used for critical-hit
// draws and revival countdowns.
package dice

import "fmt"

// Source is the randomness provider for the combat core.
//
// Implementations are not required to be safe for concurrent use: the engine
// that consumes a Source is driven from a single goroutine at a time.
type Source interface {
	// Float64 returns a uniformly distributed value in [0, 1).
	Float64() float64
}

// Uniform returns a value uniformly distributed in [lo, hi) drawn from src.
//
// Precondition: src is non-nil and lo <= hi.
// Postcondition: lo <= result < hi, or result == lo when lo == hi.
func Uniform(src Source, lo, hi float64) float64 {
	if hi < lo {
		panic(fmt.Sprintf("dice: Uniform precondition violated: lo %v > hi %v", lo, hi))
	}
	return lo + src.Float64()*(hi-lo)
}

// Chance reports whether a single fresh draw from src falls below p.
// A p <= 0 never succeeds and a p >= 1 always does.
func Chance(src Source, p float64) bool {
	return src.Float64() < p
}

// Fixed is a Source that always returns the same value. It is intended for
// deterministic tests: Fixed(0.99) disables low-probability crits and Fixed(0)
// forces every positive-probability draw to succeed.
type Fixed float64

// Float64 returns f.
func (f Fixed) Float64() float64 { return float64(f) }
