package frame

import "fmt"

// ColorFamily identifies how the planes of a frame are interpreted.
type ColorFamily int

const (
	// Gray frames carry a single luma plane.
	Gray ColorFamily = iota
	// YUV frames carry one luma and two chroma planes.
	YUV
)

// String returns a short name for the color family.
func (c ColorFamily) String() string {
	switch c {
	case Gray:
		return "Gray"
	case YUV:
		return "YUV"
	default:
		return fmt.Sprintf("ColorFamily(%d)", int(c))
	}
}

// Format describes the sample layout of a frame.
//
// SubSamplingW and SubSamplingH are log2 factors: a 4:2:0 format has both
// set to 1, 4:2:2 has SubSamplingW 1 and SubSamplingH 0.
type Format struct {
	Family        ColorFamily
	BitsPerSample int
	SubSamplingW  int
	SubSamplingH  int
}

// Common formats.
var (
	Gray8     = Format{Family: Gray, BitsPerSample: 8}
	Gray16    = Format{Family: Gray, BitsPerSample: 16}
	YUV420P8  = Format{Family: YUV, BitsPerSample: 8, SubSamplingW: 1, SubSamplingH: 1}
	YUV422P8  = Format{Family: YUV, BitsPerSample: 8, SubSamplingW: 1}
	YUV444P8  = Format{Family: YUV, BitsPerSample: 8}
	YUV420P10 = Format{Family: YUV, BitsPerSample: 10, SubSamplingW: 1, SubSamplingH: 1}
	YUV420P16 = Format{Family: YUV, BitsPerSample: 16, SubSamplingW: 1, SubSamplingH: 1}
	YUV444P16 = Format{Family: YUV, BitsPerSample: 16}
)

// NumPlanes returns 1 for Gray and 3 for YUV.
func (f Format) NumPlanes() int {
	if f.Family == Gray {
		return 1
	}
	return 3
}

// BytesPerSample returns 1 for bit depths up to 8 and 2 otherwise.
func (f Format) BytesPerSample() int {
	if f.BitsPerSample <= 8 {
		return 1
	}
	return 2
}

// Peak returns the largest legal sample value for the bit depth.
func (f Format) Peak() int {
	return 1<<f.BitsPerSample - 1
}

// PlaneSize returns the dimensions of plane i for a frame of w×h luma samples.
func (f Format) PlaneSize(i, w, h int) (int, int) {
	if i == 0 {
		return w, h
	}
	return w >> f.SubSamplingW, h >> f.SubSamplingH
}

// Validate checks that the format is 8-16 bit planar integer with at most
// 4x subsampling in each direction.
func (f Format) Validate() error {
	if f.BitsPerSample < 8 || f.BitsPerSample > 16 {
		return fmt.Errorf("%w: %d bits per sample", ErrUnsupportedFormat, f.BitsPerSample)
	}
	if f.Family != Gray && f.Family != YUV {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, f.Family)
	}
	if f.SubSamplingW < 0 || f.SubSamplingW > 2 || f.SubSamplingH < 0 || f.SubSamplingH > 2 {
		return fmt.Errorf("%w: subsampling %dx%d", ErrUnsupportedFormat, f.SubSamplingW, f.SubSamplingH)
	}
	if f.Family == Gray && (f.SubSamplingW != 0 || f.SubSamplingH != 0) {
		return fmt.Errorf("%w: gray format with subsampling", ErrUnsupportedFormat)
	}
	return nil
}

// String returns a compact description such as "YUV420P8".
func (f Format) String() string {
	if f.Family == Gray {
		return fmt.Sprintf("Gray%d", f.BitsPerSample)
	}
	layout := "444"
	switch {
	case f.SubSamplingW == 1 && f.SubSamplingH == 1:
		layout = "420"
	case f.SubSamplingW == 1 && f.SubSamplingH == 0:
		layout = "422"
	case f.SubSamplingW == 2 && f.SubSamplingH == 0:
		layout = "411"
	case f.SubSamplingW == 2 && f.SubSamplingH == 2:
		layout = "410"
	case f.SubSamplingW != 0 || f.SubSamplingH != 0:
		layout = fmt.Sprintf("ss%d%d", f.SubSamplingW, f.SubSamplingH)
	}
	return fmt.Sprintf("YUV%sP%d", layout, f.BitsPerSample)
}
