package motion

import (
	"github.com/klauspost/cpuid/v2"
	"github.com/opd-ai/tdeint/frame"
	"github.com/sirupsen/logrus"
)

// Kernel implementation choices accepted by SelectKernels.
const (
	OptAuto     = 0
	OptScalar   = 1
	OptUnrolled = 2
	OptWide     = 3
)

// MotionFunc computes a two-frame motion mask.
type MotionFunc[T frame.Sample] func(src1 *Padded[T], msk1 *Pair[T], src2 *Padded[T], msk2 *Pair[T], dst *Pair[T], p *Params)

// AndFunc intersects mask pairs.
type AndFunc[T frame.Sample] func(a, b, dst *Pair[T])

// Kernels is the set of mask kernels used by BuildFieldMask. All variants
// produce identical output.
type Kernels[T frame.Sample] struct {
	Name   string
	Motion MotionFunc[T]
	And    AndFunc[T]
}

// ScalarKernels returns the one-sample-per-iteration kernels.
func ScalarKernels[T frame.Sample]() Kernels[T] {
	return Kernels[T]{Name: "scalar", Motion: MotionMask[T], And: AndMasks[T]}
}

// UnrolledKernels returns the eight-samples-per-iteration kernels.
func UnrolledKernels[T frame.Sample]() Kernels[T] {
	return Kernels[T]{Name: "unrolled", Motion: motionMaskUnrolled[T], And: andMasksUnrolled[T]}
}

// SelectKernels picks the kernel set for opt. OptAuto uses the unrolled
// kernels when the CPU reports a vector unit, OptScalar forces the scalar
// kernels and any higher value forces the unrolled ones.
func SelectKernels[T frame.Sample](opt int) Kernels[T] {
	var k Kernels[T]
	switch opt {
	case OptScalar:
		k = ScalarKernels[T]()
	case OptAuto:
		if cpuid.CPU.Supports(cpuid.SSE2) || cpuid.CPU.Supports(cpuid.ASIMD) {
			k = UnrolledKernels[T]()
		} else {
			k = ScalarKernels[T]()
		}
	default:
		if !cpuid.CPU.Supports(cpuid.SSE2) && !cpuid.CPU.Supports(cpuid.ASIMD) {
			logrus.WithFields(logrus.Fields{
				"function": "SelectKernels",
				"opt":      opt,
				"cpu":      cpuid.CPU.BrandName,
			}).Warn("Unrolled kernels requested on a CPU without a vector unit")
		}
		k = UnrolledKernels[T]()
	}

	logrus.WithFields(logrus.Fields{
		"function": "SelectKernels",
		"opt":      opt,
		"kernels":  k.Name,
	}).Debug("Selected motion kernels")

	return k
}
