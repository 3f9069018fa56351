package frame

import "errors"

// Sentinel errors for frame operations.
var (
	// ErrFrameOutOfRange indicates a frame index outside [0, NumFrames-1].
	ErrFrameOutOfRange = errors.New("frame index out of range")

	// ErrFormatMismatch indicates two frames or clips do not share a format.
	ErrFormatMismatch = errors.New("format mismatch")

	// ErrInvalidDimensions indicates a width or height the format cannot hold.
	ErrInvalidDimensions = errors.New("invalid frame dimensions")

	// ErrUnsupportedFormat indicates a bit depth or layout outside 8-16 bit planar.
	ErrUnsupportedFormat = errors.New("unsupported format")
)
