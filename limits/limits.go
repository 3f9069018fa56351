// Package limits provides centralized parameter limits for the deinterlacer
// and combing detector. This ensures consistent validation across the option
// structs, the CLI and the per-stage constructors.
package limits

import (
	"errors"
	"fmt"
)

const (
	// MinLength is the shortest static period the temporal mask builder accepts.
	MinLength = 6

	// MaxThreshold is the largest 8-bit-scale threshold value. Thresholds are
	// specified on the 8-bit scale and rescaled to the clip's bit depth.
	MaxThreshold = 255

	// ThresholdDisabled marks a single override threshold as unset.
	ThresholdDisabled = -1

	// ThresholdDisabledPair marks an override threshold as unset; when all four
	// overrides carry it, motion analysis is skipped entirely.
	ThresholdDisabledPair = -2

	// MaxCstr is the largest neighbour count CombineMasks can reach.
	MaxCstr = 8

	// MinBlockSize and MaxBlockSize bound the combing detector block edges.
	MinBlockSize = 4
	MaxBlockSize = 2048

	// MinDeinterlaceHeight is the smallest frame height the deinterlacer accepts.
	MinDeinterlaceHeight = 4

	// MinCombedHeight is the smallest frame height the combing detector accepts.
	MinCombedHeight = 5

	// MaxSubSampling is the largest log2 chroma subsampling the deinterlacer
	// supports in either direction.
	MaxSubSampling = 1

	// MaxCombedSubSampling is the largest log2 chroma subsampling the
	// combing detector supports in either direction.
	MaxCombedSubSampling = 2
)

var (
	// ErrOutOfRange indicates a parameter outside its inclusive bounds.
	ErrOutOfRange = errors.New("parameter out of range")

	// ErrNotPowerOfTwo indicates a block size that is not a power of two.
	ErrNotPowerOfTwo = errors.New("parameter is not a power of two")
)

// ValidateRange checks lo <= v <= hi and names the parameter in the error.
func ValidateRange(name string, v, lo, hi int) error {
	if v < lo || v > hi {
		return fmt.Errorf("%w: %s must be between %d and %d (inclusive), got %d", ErrOutOfRange, name, lo, hi, v)
	}
	return nil
}

// ValidateMin checks v >= lo.
func ValidateMin(name string, v, lo int) error {
	if v < lo {
		return fmt.Errorf("%w: %s must be greater than or equal to %d, got %d", ErrOutOfRange, name, lo, v)
	}
	return nil
}

// ValidateThreshold checks an 8-bit-scale threshold in [0, MaxThreshold].
func ValidateThreshold(name string, v int) error {
	return ValidateRange(name, v, 0, MaxThreshold)
}

// ValidateOverride checks an override threshold, which additionally accepts
// ThresholdDisabled and ThresholdDisabledPair.
func ValidateOverride(name string, v int) error {
	return ValidateRange(name, v, ThresholdDisabledPair, MaxThreshold)
}

// ValidateBlockSize checks a combing block edge: a power of two in
// [MinBlockSize, MaxBlockSize].
func ValidateBlockSize(name string, v int) error {
	if !IsPowerOfTwo(v) {
		return fmt.Errorf("%w: %s = %d", ErrNotPowerOfTwo, name, v)
	}
	return ValidateRange(name, v, MinBlockSize, MaxBlockSize)
}

// IsPowerOfTwo reports whether v is a positive power of two.
func IsPowerOfTwo(v int) bool {
	return v > 0 && v&(v-1) == 0
}

// Log2 returns floor(log2(v)) for v > 0.
func Log2(v int) int {
	n := 0
	for v > 1 {
		v >>= 1
		n++
	}
	return n
}

// Rescale maps an 8-bit-scale value onto a clip with the given peak, using
// the integer truncation of v*peak/255.
func Rescale(v, peak int) int {
	return v * peak / MaxThreshold
}
