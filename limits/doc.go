// Package limits provides centralized parameter limits and validation
// helpers for the deinterlacer and the combing detector.
//
// # Threshold Scale
//
// Every threshold-like option (override thresholds, noise tolerance, motion
// band, spatial threshold, combing threshold) is given on the 8-bit scale
// [0, 255] and rescaled to the clip's bit depth with Rescale:
//
//	nt := limits.Rescale(opts.NT, format.Peak())
//
// Override thresholds additionally accept ThresholdDisabled (-1) and
// ThresholdDisabledPair (-2).
//
// # Validation Functions
//
// Each helper returns an error wrapping ErrOutOfRange or ErrNotPowerOfTwo
// that names the parameter:
//
//	if err := limits.ValidateRange("mtype", opts.MType, 0, 2); err != nil {
//	    return err
//	}
//
//	if err := limits.ValidateBlockSize("blockx", opts.BlockX); err != nil {
//	    // errors.Is(err, limits.ErrNotPowerOfTwo) or limits.ErrOutOfRange
//	}
package limits
