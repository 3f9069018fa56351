// Package motion builds per-field motion masks from three consecutive field
// frames.
//
// Each source plane is copied into a Padded buffer with one mirrored column
// on either side. ThresholdMask derives a quarter and a half local-contrast
// threshold per pixel, MotionMask flags pixels whose temporal difference
// stays inside the tolerance band derived from those thresholds, and
// AndMasks / CombineMasks fuse the pairwise results into a single static
// mask. BuildFieldMask runs the whole chain for one field frame:
//
//	params := motion.Params{TType: 1, MtqL: -1, MthL: -1, MtqC: -1, MthC: -1,
//	    NT: 2, MinThresh: 4, MaxThresh: 75, Cstr: 4}.Scaled(format)
//	kernels := motion.SelectKernels[uint8](0)
//	mask := motion.BuildFieldMask(fields, process, &params, kernels)
//
// A set mask sample holds the maximum value of the sample type and means the
// pixel did not move beyond tolerance.
package motion
