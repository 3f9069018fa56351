package tdeint

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/opd-ai/tdeint/frame"
	"github.com/opd-ai/tdeint/limits"
	"github.com/opd-ai/tdeint/motion"
	"github.com/opd-ai/tdeint/reconstruct"
	"github.com/opd-ai/tdeint/refine"
	"github.com/opd-ai/tdeint/temporal"
	"github.com/sirupsen/logrus"
)

// Deinterlacer is a motion-adaptive deinterlacer over a Source.
//
// Each output frame is built in four steps:
//
//	field masks → temporal decision grid → refiners → reconstruction
//
// Field masks are computed per field of the input clip and shared between
// neighbouring output frames through a small cache. GetFrame is safe for
// concurrent use.
type Deinterlacer[T frame.Sample] struct {
	id      uuid.UUID
	src     frame.Source[T]
	edeint  frame.Source[T]
	srcInfo frame.VideoInfo
	info    frame.VideoInfo
	opts    Options
	process [3]bool
	peak    int

	// Motion analysis state; unused when every override is -2.
	analyze bool
	params  motion.Params
	kernels motion.Kernels[T]
	tables  *temporal.Tables
	fields  [2]*frame.FieldSource[T]
	zero    *frame.Frame[T]
	cache   *maskCache[T]

	chain *refine.Chain[T]
}

// NewDeinterlacer creates a deinterlacer for src. A nil opts uses
// NewOptions. edeint is optional: when non-nil its frames replace the cubic
// interpolation for pixels that need rebuilding, and it must match the
// output clip in format, size and length.
func NewDeinterlacer[T frame.Sample](src frame.Source[T], opts *Options, edeint frame.Source[T]) (*Deinterlacer[T], error) {
	if src == nil {
		return nil, ErrNilSource
	}
	if opts == nil {
		opts = NewOptions()
	}

	logrus.WithFields(logrus.Fields{
		"function": "NewDeinterlacer",
		"order":    opts.Order,
		"field":    opts.Field,
		"mode":     opts.Mode,
		"length":   opts.Length,
	}).Info("Creating new deinterlacer")

	if err := opts.Validate(); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "NewDeinterlacer",
			"error":    err.Error(),
		}).Error("Option validation failed")
		return nil, err
	}

	vi := src.Info()
	if err := validateFormat[T](vi, limits.MinDeinterlaceHeight, limits.MaxSubSampling); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "NewDeinterlacer",
			"format":   vi.Format.String(),
			"width":    vi.Width,
			"height":   vi.Height,
			"error":    err.Error(),
		}).Error("Clip validation failed")
		return nil, err
	}
	if vi.Width&1 != 0 || vi.Height&1 != 0 {
		return nil, fmt.Errorf("%w: %w: width and height must be multiples of 2, got %dx%d",
			ErrUnsupportedFormat, frame.ErrInvalidDimensions, vi.Width, vi.Height)
	}
	if opts.Link && vi.Format.Family == frame.Gray {
		return nil, fmt.Errorf("%w: %w: link can not be enabled for %s", ErrInvalidOption, refine.ErrLinkGray, vi.Format)
	}

	process, err := processMask(opts.Planes, vi.Format.NumPlanes())
	if err != nil {
		return nil, err
	}

	d := &Deinterlacer[T]{
		id:      uuid.New(),
		src:     src,
		srcInfo: vi,
		info:    outputInfo(vi, opts.Mode),
		opts:    *opts,
		process: process,
		peak:    vi.Format.Peak(),
		analyze: !opts.motionDisabled(),
	}
	d.opts.Planes = append([]int(nil), opts.Planes...)

	if edeint != nil {
		if err := d.attachEDeint(edeint); err != nil {
			return nil, err
		}
	}

	if d.analyze {
		if err := d.initMotion(); err != nil {
			return nil, err
		}
	}
	d.chain = d.buildChain()

	logrus.WithFields(logrus.Fields{
		"function":   "NewDeinterlacer",
		"instance":   d.id.String(),
		"format":     vi.Format.String(),
		"width":      vi.Width,
		"height":     vi.Height,
		"frames_in":  vi.NumFrames,
		"frames_out": d.info.NumFrames,
		"motion":     d.analyze,
		"refiners":   d.chain.Names(),
	}).Info("Deinterlacer created successfully")

	return d, nil
}

// outputInfo derives the output clip description. Mode 1 doubles the frame
// count and rate.
func outputInfo(vi frame.VideoInfo, mode int) frame.VideoInfo {
	out := vi
	if mode == 1 {
		out.NumFrames *= 2
		if out.FPSNum != 0 && out.FPSDen != 0 {
			out.FPSNum, out.FPSDen = reduceRational(out.FPSNum*2, out.FPSDen)
		}
	}
	return out
}

func reduceRational(num, den int64) (int64, int64) {
	a, b := num, den
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	if a > 1 {
		num /= a
		den /= a
	}
	return num, den
}

func (d *Deinterlacer[T]) attachEDeint(edeint frame.Source[T]) error {
	ei := edeint.Info()
	if !ei.SameLayout(d.info) {
		return fmt.Errorf("%w: edeint clip is %s %dx%d, main clip is %s %dx%d",
			ErrClipMismatch, ei.Format, ei.Width, ei.Height, d.info.Format, d.info.Width, d.info.Height)
	}
	if ei.NumFrames != d.info.NumFrames {
		return fmt.Errorf("%w: edeint clip has %d frames, output has %d",
			ErrClipMismatch, ei.NumFrames, d.info.NumFrames)
	}
	d.edeint = edeint
	return nil
}

func (d *Deinterlacer[T]) initMotion() error {
	tables, err := temporal.NewTables(temporal.MotionType(d.opts.MType), d.opts.Length)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOption, err)
	}
	d.tables = tables
	d.params = d.opts.motionParams().Scaled(d.srcInfo.Format)
	d.kernels = motion.SelectKernels[T](d.opts.Opt)
	d.fields = [2]*frame.FieldSource[T]{
		frame.NewFieldSource(d.src, 0),
		frame.NewFieldSource(d.src, 1),
	}
	d.zero = frame.NewFrame[T](d.srcInfo.Format, d.srcInfo.Width, d.srcInfo.Height/2)
	d.cache = newMaskCache[T](4 * d.opts.Length)
	return nil
}

// buildChain assembles the refiners enabled by the options in their fixed
// order.
func (d *Deinterlacer[T]) buildChain() *refine.Chain[T] {
	chain := refine.NewChain[T]()
	if d.opts.AThresh > limits.ThresholdDisabled {
		athresh := limits.Rescale(d.opts.AThresh, d.peak)
		chain.Add(refine.NewSpatialRefiner[T](d.opts.Metric, athresh, d.process))
	}
	if d.opts.Expand > 0 {
		chain.Add(refine.NewExpandRefiner[T](d.opts.Expand, d.srcInfo.Format.SubSamplingW, d.process))
	}
	if d.opts.Link {
		chain.Add(refine.NewLinkRefiner[T]())
	}
	return chain
}

// ID returns the instance identifier attached to log entries.
func (d *Deinterlacer[T]) ID() string {
	return d.id.String()
}

// Info returns the output clip description.
func (d *Deinterlacer[T]) Info() frame.VideoInfo {
	return d.info
}

// CacheStats returns the field mask cache hit and miss counts.
func (d *Deinterlacer[T]) CacheStats() (hits, misses uint64) {
	if d.cache == nil {
		return 0, 0
	}
	return d.cache.stats()
}

// GetFrame returns output frame n.
func (d *Deinterlacer[T]) GetFrame(ctx context.Context, n int) (*frame.Frame[T], error) {
	if n < 0 || n >= d.info.NumFrames {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", frame.ErrFrameOutOfRange, n, d.info.NumFrames)
	}

	nSaved := n
	if d.opts.Mode == 1 {
		n /= 2
	}
	last := d.srcInfo.NumFrames - 1

	prv, err := d.fetch(ctx, d.src, max(n-1, 0))
	if err != nil {
		return nil, err
	}
	src, err := d.fetch(ctx, d.src, n)
	if err != nil {
		return nil, err
	}
	nxt, err := d.fetch(ctx, d.src, min(n+1, last))
	if err != nil {
		return nil, err
	}

	order, field := d.parity(src, nSaved)

	logrus.WithFields(logrus.Fields{
		"function": "Deinterlacer.GetFrame",
		"instance": d.id.String(),
		"frame":    nSaved,
		"source":   n,
		"order":    order,
		"field":    field,
	}).Debug("Processing frame")

	var mask *frame.Frame[T]
	if d.analyze {
		mask, err = d.buildMask(ctx, n, order, field)
		if err != nil {
			return nil, err
		}
	} else {
		mask = frame.NewFrame[T](d.srcInfo.Format, d.srcInfo.Width, d.srcInfo.Height)
		temporal.SetMaskForUpsize(mask, field, d.process)
	}

	if err := d.chain.Apply(src, mask, field); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "Deinterlacer.GetFrame",
			"instance": d.id.String(),
			"frame":    nSaved,
			"error":    err.Error(),
		}).Error("Mask refinement failed")
		return nil, fmt.Errorf("frame %d: %w", nSaved, err)
	}

	var dst *frame.Frame[T]
	switch {
	case d.opts.Show:
		dst = reconstruct.BinaryMask(mask, d.process, d.peak)
		dst.Props = src.Props.Clone()
	case d.edeint != nil:
		ext, err := d.fetch(ctx, d.edeint, nSaved)
		if err != nil {
			return nil, err
		}
		dst = reconstruct.EDeint(mask, prv, src, nxt, ext, d.process)
	default:
		dst = reconstruct.CubicDeint(mask, prv, src, nxt, d.process, d.peak)
	}

	dst.Props.Set(frame.PropFieldBased, frame.FieldProgressive)
	if d.opts.Mode == 1 {
		dst.Props.HalveDuration()
	}
	return dst, nil
}

// parity resolves the field order and the parity of the rows to rebuild
// for output frame nSaved. A _FieldBased property overrides Order.
func (d *Deinterlacer[T]) parity(src *frame.Frame[T], nSaved int) (order, field int) {
	order = d.opts.Order
	if fb, ok := src.Props.Get(frame.PropFieldBased); ok {
		switch fb {
		case frame.FieldBottomFirst:
			order = 0
		case frame.FieldTopFirst:
			order = 1
		}
	}

	switch {
	case d.opts.Mode == 1 && nSaved&1 == 1:
		field = 1 - order
	case d.opts.Mode == 1:
		field = order
	case d.opts.Field == -1:
		field = order
	default:
		field = d.opts.Field
	}
	return order, field
}

// buildMask assembles the temporal decision grid for source frame n.
func (d *Deinterlacer[T]) buildMask(ctx context.Context, n, order, field int) (*frame.Frame[T], error) {
	w := temporal.NewWindow(n, d.opts.Length, order, field)
	cParity, oParity := 1, 0
	if w.CurrentTop {
		cParity, oParity = 0, 1
	}

	cSrc, err := d.fieldMasks(ctx, cParity, w.CStart, w.CCount)
	if err != nil {
		return nil, err
	}
	oSrc, err := d.fieldMasks(ctx, oParity, w.OStart, w.OCount)
	if err != nil {
		return nil, err
	}

	dst := frame.NewFrame[T](d.srcInfo.Format, d.srcInfo.Width, d.srcInfo.Height)
	temporal.BuildMask(cSrc, oSrc, dst, order, field, d.process, d.tables)
	return dst, nil
}

// fieldMasks returns count consecutive field masks of one parity starting
// at start. Indices without a full three-field neighbourhood yield the
// shared zero mask.
func (d *Deinterlacer[T]) fieldMasks(ctx context.Context, parity, start, count int) ([]*frame.Frame[T], error) {
	masks := make([]*frame.Frame[T], count)
	for j := range masks {
		i := start + j
		if !temporal.InClip(i, d.srcInfo.NumFrames) {
			masks[j] = d.zero
			continue
		}
		m, err := d.fieldMask(ctx, parity, i)
		if err != nil {
			return nil, err
		}
		masks[j] = m
	}
	return masks, nil
}

// fieldMask returns the static mask of field i of the given parity,
// building it from fields i, i+1 and i+2 on a cache miss.
func (d *Deinterlacer[T]) fieldMask(ctx context.Context, parity, i int) (*frame.Frame[T], error) {
	key := maskKey{parity: parity, index: i}
	if m, ok := d.cache.get(key); ok {
		return m, nil
	}

	var fields [3]*frame.Frame[T]
	for k := range fields {
		f, err := d.fetch(ctx, d.fields[parity], frame.Clamp(i+k, d.srcInfo.NumFrames))
		if err != nil {
			return nil, err
		}
		fields[k] = f
	}

	m := motion.BuildFieldMask(fields, d.process, &d.params, d.kernels)
	return d.cache.put(key, m), nil
}

// fetch requests frame n from clip and wraps failures with the index.
func (d *Deinterlacer[T]) fetch(ctx context.Context, clip frame.Source[T], n int) (*frame.Frame[T], error) {
	f, err := clip.GetFrame(ctx, n)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "Deinterlacer.fetch",
			"instance": d.id.String(),
			"frame":    n,
			"error":    err.Error(),
		}).Error("Upstream frame request failed")
		return nil, fmt.Errorf("%w: frame %d: %w", ErrFrameFetch, n, err)
	}
	return f, nil
}

// Render produces every output frame with up to workers frames processed
// concurrently and passes them to emit in order. workers < 1 uses
// GOMAXPROCS.
func (d *Deinterlacer[T]) Render(ctx context.Context, workers int, emit FrameFunc[T]) error {
	return render(ctx, workers, d.info.NumFrames, d.GetFrame, emit)
}
