package tdeint

import (
	"fmt"

	"github.com/opd-ai/tdeint/frame"
	"github.com/opd-ai/tdeint/limits"
	"github.com/opd-ai/tdeint/motion"
)

// Options configures a Deinterlacer. Thresholds are given on the 8-bit
// scale and rescaled to the clip's bit depth.
type Options struct {
	// Order is the field order: 0 bottom field first, 1 top field first.
	// A _FieldBased property on the input frame takes precedence.
	Order int

	// Field selects the field to keep in same-rate mode: -1 follows Order,
	// 0 keeps the bottom field, 1 keeps the top field.
	Field int

	// Mode 0 outputs one frame per input frame, mode 1 one per field.
	Mode int

	// Length is the number of fields a pixel must be static across to be
	// woven. Must be at least 6.
	Length int

	// MType selects temporal pattern strictness, 0 through 2.
	MType int

	// TType selects the threshold neighbourhood, 0 through 5.
	TType int

	// MtqL, MthL, MtqC and MthC override the quarter and half thresholds
	// for luma and chroma. -1 computes them; -2 on all four disables motion
	// analysis entirely.
	MtqL int
	MthL int
	MtqC int
	MthC int

	NT        int
	MinThresh int
	MaxThresh int
	Cstr      int

	// AThresh enables the spatial combing check when greater than -1.
	AThresh int
	Metric  int

	// Expand widens interpolated regions horizontally by this many pixels.
	Expand int

	// Link propagates motion from luma to chroma.
	Link bool

	// Show outputs the decision mask instead of the deinterlaced frame.
	Show bool

	// Opt selects the motion kernels: 0 auto, 1 scalar, 2 or 3 unrolled.
	Opt int

	// Planes lists the planes to process. An empty list processes every
	// plane.
	Planes []int
}

// NewOptions returns Options populated with the filter defaults.
func NewOptions() *Options {
	return &Options{
		Order:     1,
		Field:     -1,
		Mode:      0,
		Length:    10,
		MType:     1,
		TType:     1,
		MtqL:      limits.ThresholdDisabled,
		MthL:      limits.ThresholdDisabled,
		MtqC:      limits.ThresholdDisabled,
		MthC:      limits.ThresholdDisabled,
		NT:        2,
		MinThresh: 4,
		MaxThresh: 75,
		Cstr:      4,
		AThresh:   limits.ThresholdDisabled,
		Metric:    0,
		Expand:    0,
		Link:      true,
		Show:      false,
		Opt:       motion.OptAuto,
	}
}

// Validate checks every option against its legal range. It does not look at
// any clip; format checks happen when a Deinterlacer is created.
func (o *Options) Validate() error {
	checks := []error{
		limits.ValidateRange("order", o.Order, 0, 1),
		limits.ValidateRange("field", o.Field, -1, 1),
		limits.ValidateRange("mode", o.Mode, 0, 1),
		limits.ValidateMin("length", o.Length, limits.MinLength),
		limits.ValidateRange("mtype", o.MType, 0, 2),
		limits.ValidateRange("ttype", o.TType, 0, 5),
		limits.ValidateOverride("mtqL", o.MtqL),
		limits.ValidateOverride("mthL", o.MthL),
		limits.ValidateOverride("mtqC", o.MtqC),
		limits.ValidateOverride("mthC", o.MthC),
		limits.ValidateThreshold("nt", o.NT),
		limits.ValidateThreshold("minthresh", o.MinThresh),
		limits.ValidateThreshold("maxthresh", o.MaxThresh),
		limits.ValidateRange("cstr", o.Cstr, 0, limits.MaxCstr),
		limits.ValidateRange("athresh", o.AThresh, limits.ThresholdDisabled, limits.MaxThreshold),
		limits.ValidateRange("metric", o.Metric, 0, 1),
		limits.ValidateMin("expand", o.Expand, 0),
		limits.ValidateRange("opt", o.Opt, motion.OptAuto, motion.OptWide),
	}
	for _, err := range checks {
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidOption, err)
		}
	}
	return nil
}

// motionDisabled reports whether all four overrides ask for motion analysis
// to be skipped.
func (o *Options) motionDisabled() bool {
	return o.MtqL == limits.ThresholdDisabledPair &&
		o.MthL == limits.ThresholdDisabledPair &&
		o.MtqC == limits.ThresholdDisabledPair &&
		o.MthC == limits.ThresholdDisabledPair
}

// motionParams converts the options into unscaled motion parameters.
func (o *Options) motionParams() motion.Params {
	return motion.Params{
		TType:     o.TType,
		MtqL:      o.MtqL,
		MthL:      o.MthL,
		MtqC:      o.MtqC,
		MthC:      o.MthC,
		NT:        o.NT,
		MinThresh: o.MinThresh,
		MaxThresh: o.MaxThresh,
		Cstr:      o.Cstr,
	}
}

// processMask resolves Planes into a per-plane flag array for a format with
// numPlanes planes.
func processMask(planes []int, numPlanes int) ([3]bool, error) {
	var process [3]bool
	if len(planes) == 0 {
		for i := 0; i < numPlanes; i++ {
			process[i] = true
		}
		return process, nil
	}
	for _, p := range planes {
		if p < 0 || p >= numPlanes {
			return process, fmt.Errorf("%w: plane index %d not in [0, %d)", ErrInvalidOption, p, numPlanes)
		}
		if process[p] {
			return process, fmt.Errorf("%w: plane %d specified twice", ErrInvalidOption, p)
		}
		process[p] = true
	}
	return process, nil
}

// validateFormat checks that a clip can be stored in T and processed by the
// deinterlacer.
func validateFormat[T frame.Sample](vi frame.VideoInfo, minHeight, maxSubSampling int) error {
	if err := vi.Format.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrUnsupportedFormat, err)
	}
	wide := uint64(frame.MaxOf[T]()) > 0xff
	if wide != (vi.Format.BytesPerSample() == 2) {
		return fmt.Errorf("%w: %s does not fit the sample type", ErrUnsupportedFormat, vi.Format)
	}
	if vi.Format.SubSamplingW > maxSubSampling || vi.Format.SubSamplingH > maxSubSampling {
		return fmt.Errorf("%w: %s subsampling exceeds %d", ErrUnsupportedFormat, vi.Format, maxSubSampling)
	}
	if vi.Width <= 0 || vi.Height < minHeight {
		return fmt.Errorf("%w: %dx%d is smaller than the minimum height %d", ErrUnsupportedFormat, vi.Width, vi.Height, minHeight)
	}
	if vi.NumFrames <= 0 {
		return fmt.Errorf("%w: clip has no frames", ErrUnsupportedFormat)
	}
	return nil
}

// CombOptions configures a CombDetector. CThresh is on the 8-bit scale.
type CombOptions struct {
	// CThresh is the per-pixel combing threshold.
	CThresh int

	// BlockX and BlockY are the block edges, powers of two in 4..2048.
	BlockX int
	BlockY int

	// Chroma includes the chroma planes in the combing bitmap.
	Chroma bool

	// MI is the block count above which a frame is combed.
	MI int

	// Metric selects the combing metric: 0 generalized, 1 squared.
	Metric int
}

// NewCombOptions returns CombOptions populated with the detector defaults.
func NewCombOptions() *CombOptions {
	return &CombOptions{
		CThresh: 6,
		BlockX:  16,
		BlockY:  16,
		Chroma:  false,
		MI:      64,
		Metric:  0,
	}
}

// Validate checks every option against its legal range.
func (c *CombOptions) Validate() error {
	checks := []error{
		limits.ValidateThreshold("cthresh", c.CThresh),
		limits.ValidateBlockSize("blockx", c.BlockX),
		limits.ValidateBlockSize("blocky", c.BlockY),
		limits.ValidateMin("mi", c.MI, 0),
		limits.ValidateRange("metric", c.Metric, 0, 1),
	}
	for _, err := range checks {
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidOption, err)
		}
	}
	return nil
}
