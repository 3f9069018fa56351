// Package y4m reads and writes uncompressed YUV4MPEG2 streams.
//
// A stream is a single text header line followed by frames, each a FRAME
// line and the raw planes in Y, Cb, Cr order. Samples wider than 8 bits are
// stored as 16-bit little-endian words.
//
//	YUV4MPEG2 W720 H480 F30000:1001 It A10:11 C420jpeg
//	FRAME
//	<Y plane><Cb plane><Cr plane>
//
// Only planar integer colorspaces that frame.Format can describe are
// supported; alpha and packed layouts are rejected.
package y4m

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/opd-ai/tdeint/frame"
)

const (
	streamMagic = "YUV4MPEG2"
	frameMagic  = "FRAME"

	// maxHeaderLine bounds stream and frame header lines.
	maxHeaderLine = 4096
)

// Sentinel errors for stream parsing.
var (
	// ErrBadSignature indicates input that does not start with YUV4MPEG2.
	ErrBadSignature = errors.New("not a YUV4MPEG2 stream")

	// ErrBadHeader indicates a malformed stream or frame header.
	ErrBadHeader = errors.New("malformed header")

	// ErrUnsupportedColorspace indicates a C tag this package cannot map to a
	// planar format.
	ErrUnsupportedColorspace = errors.New("unsupported colorspace")

	// ErrTruncatedFrame indicates a frame whose payload ends early.
	ErrTruncatedFrame = errors.New("truncated frame")
)

// Interlacing modes of the I tag.
const (
	InterlaceUnknown     = '?'
	InterlaceProgressive = 'p'
	InterlaceTopFirst    = 't'
	InterlaceBottomFirst = 'b'
	InterlaceMixed       = 'm'
)

// Header is the stream header.
type Header struct {
	Width     int
	Height    int
	FPSNum    int64
	FPSDen    int64
	Interlace byte
	AspectNum int
	AspectDen int

	// Colorspace is the C tag value; empty means 420jpeg.
	Colorspace string

	// Extra holds X tags verbatim, without the leading X.
	Extra []string
}

var colorspaces = map[string]frame.Format{
	"420jpeg":  frame.YUV420P8,
	"420paldv": frame.YUV420P8,
	"420mpeg2": frame.YUV420P8,
	"420":      frame.YUV420P8,
	"422":      frame.YUV422P8,
	"444":      frame.YUV444P8,
	"mono":     frame.Gray8,
	"420p10":   frame.YUV420P10,
	"420p12":   {Family: frame.YUV, BitsPerSample: 12, SubSamplingW: 1, SubSamplingH: 1},
	"420p14":   {Family: frame.YUV, BitsPerSample: 14, SubSamplingW: 1, SubSamplingH: 1},
	"420p16":   frame.YUV420P16,
	"422p10":   {Family: frame.YUV, BitsPerSample: 10, SubSamplingW: 1},
	"422p12":   {Family: frame.YUV, BitsPerSample: 12, SubSamplingW: 1},
	"422p16":   {Family: frame.YUV, BitsPerSample: 16, SubSamplingW: 1},
	"444p10":   {Family: frame.YUV, BitsPerSample: 10},
	"444p12":   {Family: frame.YUV, BitsPerSample: 12},
	"444p16":   frame.YUV444P16,
	"mono10":   {Family: frame.Gray, BitsPerSample: 10},
	"mono12":   {Family: frame.Gray, BitsPerSample: 12},
	"mono16":   frame.Gray16,
}

// Format returns the frame format described by the C tag.
func (h Header) Format() (frame.Format, error) {
	cs := h.Colorspace
	if cs == "" {
		cs = "420jpeg"
	}
	f, ok := colorspaces[cs]
	if !ok {
		return frame.Format{}, fmt.Errorf("%w: C%s", ErrUnsupportedColorspace, cs)
	}
	return f, nil
}

// Colorspace returns the C tag value for f.
func Colorspace(f frame.Format) (string, error) {
	var layout string
	switch {
	case f.Family == frame.Gray:
		layout = "mono"
	case f.SubSamplingW == 1 && f.SubSamplingH == 1:
		layout = "420"
	case f.SubSamplingW == 1 && f.SubSamplingH == 0:
		layout = "422"
	case f.SubSamplingW == 0 && f.SubSamplingH == 0:
		layout = "444"
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedColorspace, f)
	}

	var cs string
	switch {
	case f.BitsPerSample == 8 && layout == "420":
		cs = "420jpeg"
	case f.BitsPerSample == 8:
		cs = layout
	case layout == "mono":
		cs = layout + strconv.Itoa(f.BitsPerSample)
	default:
		cs = layout + "p" + strconv.Itoa(f.BitsPerSample)
	}
	if _, ok := colorspaces[cs]; !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedColorspace, f)
	}
	return cs, nil
}

// FieldBased maps the I tag onto a _FieldBased property value. Mixed and
// unknown streams report false.
func (h Header) FieldBased() (int64, bool) {
	switch h.Interlace {
	case InterlaceProgressive:
		return frame.FieldProgressive, true
	case InterlaceTopFirst:
		return frame.FieldTopFirst, true
	case InterlaceBottomFirst:
		return frame.FieldBottomFirst, true
	}
	return 0, false
}

// ParseHeader parses a stream header line without its trailing newline.
func ParseHeader(line string) (Header, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 || fields[0] != streamMagic {
		return Header{}, ErrBadSignature
	}

	h := Header{Interlace: InterlaceUnknown}
	for _, tag := range fields[1:] {
		key, val := tag[0], tag[1:]
		var err error
		switch key {
		case 'W':
			h.Width, err = strconv.Atoi(val)
		case 'H':
			h.Height, err = strconv.Atoi(val)
		case 'F':
			h.FPSNum, h.FPSDen, err = parseRatio64(val)
		case 'A':
			var n, d int64
			n, d, err = parseRatio64(val)
			h.AspectNum, h.AspectDen = int(n), int(d)
		case 'I':
			if len(val) != 1 {
				err = fmt.Errorf("interlace tag %q", val)
			} else {
				h.Interlace = val[0]
			}
		case 'C':
			h.Colorspace = val
		case 'X':
			h.Extra = append(h.Extra, val)
		default:
			err = fmt.Errorf("unknown tag %q", tag)
		}
		if err != nil {
			return Header{}, fmt.Errorf("%w: %w", ErrBadHeader, err)
		}
	}

	if h.Width <= 0 || h.Height <= 0 {
		return Header{}, fmt.Errorf("%w: missing or invalid frame size %dx%d", ErrBadHeader, h.Width, h.Height)
	}
	if _, err := h.Format(); err != nil {
		return Header{}, err
	}
	return h, nil
}

func parseRatio64(s string) (int64, int64, error) {
	num, den, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, fmt.Errorf("ratio %q", s)
	}
	n, err := strconv.ParseInt(num, 10, 64)
	if err != nil {
		return 0, 0, err
	}
	d, err := strconv.ParseInt(den, 10, 64)
	if err != nil {
		return 0, 0, err
	}
	return n, d, nil
}

// String renders the header line without the trailing newline.
func (h Header) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s W%d H%d", streamMagic, h.Width, h.Height)
	if h.FPSNum != 0 || h.FPSDen != 0 {
		fmt.Fprintf(&b, " F%d:%d", h.FPSNum, h.FPSDen)
	}
	if h.Interlace != 0 {
		fmt.Fprintf(&b, " I%c", h.Interlace)
	}
	if h.AspectNum != 0 || h.AspectDen != 0 {
		fmt.Fprintf(&b, " A%d:%d", h.AspectNum, h.AspectDen)
	}
	if h.Colorspace != "" {
		fmt.Fprintf(&b, " C%s", h.Colorspace)
	}
	for _, x := range h.Extra {
		fmt.Fprintf(&b, " X%s", x)
	}
	return b.String()
}

// frameSize returns the payload size in bytes of one frame.
func frameSize(f frame.Format, w, h int) int {
	size := 0
	for i := 0; i < f.NumPlanes(); i++ {
		pw, ph := f.PlaneSize(i, w, h)
		size += pw * ph
	}
	return size * f.BytesPerSample()
}
