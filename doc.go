// Package tdeint implements a motion-adaptive deinterlacer and a combing
// detector for planar 8-16 bit video.
//
// The deinterlacer decides per pixel whether a missing field line can be
// woven from a neighbouring field, averaged from both neighbours, or must
// be interpolated from the field itself. Decisions come from per-field
// motion masks that are matched against a static-period pattern spanning
// Length fields. The combing detector scores whole frames by counting
// vertical runs of combed pixels in half-overlapping blocks.
//
// # Getting Started
//
// Wrap decoded frames in a frame.Source and create a Deinterlacer:
//
//	src, err := frame.NewSliceSource(info, frames)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	opts := tdeint.NewOptions()
//	opts.Order = 1 // top field first
//
//	d, err := tdeint.NewDeinterlacer[uint8](src, opts, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	out, err := d.GetFrame(ctx, 0)
//
// Render walks the whole clip with a bounded number of frames in flight
// and delivers the results in order:
//
//	err = d.Render(ctx, runtime.NumCPU(), func(n int, f *frame.Frame[uint8]) error {
//	    return sink.WriteFrame(f)
//	})
//
// # Core Types
//
//   - [Deinterlacer]: the motion-adaptive deinterlacer
//   - [Options]: deinterlacer configuration, see [NewOptions]
//   - [CombDetector]: marks frames with the _Combed property
//   - [CombOptions]: detector configuration, see [NewCombOptions]
//
// # Modes
//
// Mode 0 produces one frame per input frame, keeping the field selected by
// Field (or by the field order when Field is -1). Mode 1 produces one frame
// per field: the output clip has twice the frames and frame rate, and the
// _DurationNum/_DurationDen properties of each frame are halved.
//
// Setting all four of MtqL, MthL, MtqC and MthC to -2 disables motion
// analysis; every missing line is then interpolated.
//
// # Errors
//
// Constructors validate every option and the clip format and return errors
// wrapping [ErrInvalidOption], [ErrUnsupportedFormat] or [ErrClipMismatch].
// Per-frame upstream failures wrap [ErrFrameFetch] together with the
// frame index.
//
// # Thread Safety
//
// GetFrame on both types may be called from multiple goroutines. Field
// masks are shared between neighbouring frames through a mutex-guarded
// cache; combing scratch buffers are handed between goroutines through a
// channel.
//
// # Package Layout
//
//	frame/         frame model, Source contract, field separation, digests
//	limits/        parameter ranges shared by options and the CLI
//	motion/        per-field threshold and motion masks
//	temporal/      decision grid from the static-period pattern
//	refine/        spatial check, expansion and chroma linking
//	reconstruct/   weave, blend and interpolation
//	combing/       combing bitmap and block histogram
//	y4m/           YUV4MPEG2 stream reader and writer
//	cmd/tdeint/    command-line front end
package tdeint
