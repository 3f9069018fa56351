package tdeint

import "errors"

// Sentinel errors for tdeint operations.
// Callers classify failures with errors.Is; the wrapped message names the
// offending option or clip.

// Configuration errors.
var (
	// ErrInvalidOption indicates an option value outside its legal range.
	ErrInvalidOption = errors.New("invalid option")

	// ErrUnsupportedFormat indicates a clip format the filter cannot process.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrClipMismatch indicates an auxiliary clip that does not line up with
	// the input clip.
	ErrClipMismatch = errors.New("clip mismatch")

	// ErrNilSource indicates a nil input clip.
	ErrNilSource = errors.New("nil source")
)

// Frame request errors.
var (
	// ErrFrameFetch indicates an upstream clip failed to deliver a frame.
	ErrFrameFetch = errors.New("frame fetch failed")
)
