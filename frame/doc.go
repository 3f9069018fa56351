// Package frame provides the in-memory video model shared by every stage of
// the deinterlacer.
//
// # Planes and Frames
//
// A Frame holds one to three Planes of unsigned samples. Sample storage is
// generic over 8-bit and 16-bit integers:
//
//	f := frame.NewFrame[uint8](frame.YUV420P8, 720, 480)
//	luma := f.Plane(0)
//	for y := 0; y < luma.Height; y++ {
//	    row := luma.Row(y)
//	    // row[x] ...
//	}
//
// Chroma planes are sized from the Format's subsampling factors. Stride may
// exceed Width; Row always returns exactly Width samples.
//
// # Frame Server Contract
//
// The deinterlacer never decodes video itself. Frames are obtained through
// the Source interface, which mirrors the request-by-index contract of a
// host frame server:
//
//	src := frame.NewSliceSource(info, frames)
//	f, err := src.GetFrame(ctx, n)
//
// Callers clamp indices to [0, NumFrames-1] before requesting; sources
// reject anything else with ErrFrameOutOfRange. Returned frames are
// read-only for the consumer.
//
// # Properties
//
// Each Frame carries a Props bag. The keys used by this module are
// PropFieldBased, PropDurationNum, PropDurationDen, PropCombed and PropCombScore.
//
// # Digests
//
// Digest returns a BLAKE2b-256 content hash over the logical samples of a
// frame, which is what the CLI prints and the tests compare when checking
// that alternative kernels produce bit-identical output.
package frame
