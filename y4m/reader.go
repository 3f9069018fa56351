package y4m

import (
	"bufio"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	"github.com/opd-ai/tdeint/frame"
	"github.com/sirupsen/logrus"
)

// Source serves the frames of a stream by index. The stream is scanned
// once when the Source is created to locate every frame payload; frames are
// then decoded on demand with positioned reads, so GetFrame is safe for
// concurrent use.
type Source[T frame.Sample] struct {
	r       io.ReaderAt
	header  Header
	info    frame.VideoInfo
	offsets []int64
	size    int
}

// NewSource indexes the stream held in r, which is size bytes long.
func NewSource[T frame.Sample](r io.ReaderAt, size int64) (*Source[T], error) {
	sr := io.NewSectionReader(r, 0, size)
	br := bufio.NewReader(sr)

	line, n, err := readLine(br)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadSignature, err)
	}
	h, err := ParseHeader(line)
	if err != nil {
		return nil, err
	}
	format, err := h.Format()
	if err != nil {
		return nil, err
	}
	wide := uint64(frame.MaxOf[T]()) > 0xff
	if wide != (format.BytesPerSample() == 2) {
		return nil, fmt.Errorf("%w: C%s does not fit the sample type", ErrUnsupportedColorspace, h.Colorspace)
	}
	if (format.SubSamplingW > 0 && h.Width&1 != 0) || (format.SubSamplingH > 0 && h.Height&1 != 0) {
		return nil, fmt.Errorf("%w: %dx%d is odd for subsampled chroma", ErrBadHeader, h.Width, h.Height)
	}

	s := &Source[T]{
		r:      r,
		header: h,
		size:   frameSize(format, h.Width, h.Height),
		info: frame.VideoInfo{
			Format: format,
			Width:  h.Width,
			Height: h.Height,
			FPSNum: h.FPSNum,
			FPSDen: h.FPSDen,
		},
	}

	pos := int64(n)
	for {
		line, n, err := readLine(br)
		if err == io.EOF && n == 0 {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: frame %d header: %w", ErrBadHeader, len(s.offsets), err)
		}
		if !strings.HasPrefix(line, frameMagic) {
			return nil, fmt.Errorf("%w: frame %d starts with %q", ErrBadHeader, len(s.offsets), truncate(line))
		}
		pos += int64(n)
		if pos+int64(s.size) > size {
			return nil, fmt.Errorf("%w: frame %d needs %d bytes, %d left", ErrTruncatedFrame, len(s.offsets), s.size, size-pos)
		}
		s.offsets = append(s.offsets, pos)
		pos += int64(s.size)
		if _, err := br.Discard(s.size); err != nil {
			return nil, fmt.Errorf("%w: frame %d: %w", ErrTruncatedFrame, len(s.offsets)-1, err)
		}
	}
	if len(s.offsets) == 0 {
		return nil, fmt.Errorf("%w: stream has no frames", ErrTruncatedFrame)
	}
	s.info.NumFrames = len(s.offsets)

	logrus.WithFields(logrus.Fields{
		"function":   "NewSource",
		"colorspace": h.Colorspace,
		"format":     format.String(),
		"width":      h.Width,
		"height":     h.Height,
		"frames":     s.info.NumFrames,
		"interlace":  string(h.Interlace),
	}).Info("Indexed Y4M stream")

	return s, nil
}

// Probe parses the stream header of r without indexing frames. Callers use
// it to pick the sample type before calling NewSource.
func Probe(r io.ReaderAt) (Header, error) {
	br := bufio.NewReader(io.NewSectionReader(r, 0, maxHeaderLine+1))
	line, _, err := readLine(br)
	if err != nil {
		return Header{}, fmt.Errorf("%w: %w", ErrBadSignature, err)
	}
	return ParseHeader(line)
}

// readLine reads one newline-terminated line and returns it without the
// newline together with the number of bytes consumed.
func readLine(br *bufio.Reader) (string, int, error) {
	var b strings.Builder
	for b.Len() <= maxHeaderLine {
		c, err := br.ReadByte()
		if err != nil {
			if err == io.EOF && b.Len() > 0 {
				err = io.ErrUnexpectedEOF
			}
			return b.String(), b.Len(), err
		}
		if c == '\n' {
			return b.String(), b.Len() + 1, nil
		}
		b.WriteByte(c)
	}
	return "", b.Len(), fmt.Errorf("header line longer than %d bytes", maxHeaderLine)
}

func truncate(s string) string {
	if len(s) > 16 {
		return s[:16]
	}
	return s
}

// Header returns the stream header.
func (s *Source[T]) Header() Header {
	return s.header
}

// Info returns the clip description.
func (s *Source[T]) Info() frame.VideoInfo {
	return s.info
}

// GetFrame decodes frame n. The I tag is exposed as PropFieldBased and the
// frame rate as PropDurationNum/PropDurationDen.
func (s *Source[T]) GetFrame(ctx context.Context, n int) (*frame.Frame[T], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if n < 0 || n >= len(s.offsets) {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", frame.ErrFrameOutOfRange, n, len(s.offsets))
	}

	buf := make([]byte, s.size)
	if _, err := s.r.ReadAt(buf, s.offsets[n]); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "Source.GetFrame",
			"frame":    n,
			"offset":   s.offsets[n],
			"error":    err.Error(),
		}).Error("Frame read failed")
		return nil, fmt.Errorf("%w: frame %d: %w", ErrTruncatedFrame, n, err)
	}

	f := frame.NewFrame[T](s.info.Format, s.info.Width, s.info.Height)
	decodePlanes(f, buf)

	if fb, ok := s.header.FieldBased(); ok {
		f.Props.Set(frame.PropFieldBased, fb)
	}
	if s.info.FPSNum > 0 && s.info.FPSDen > 0 {
		f.Props.Set(frame.PropDurationNum, s.info.FPSDen)
		f.Props.Set(frame.PropDurationDen, s.info.FPSNum)
	}
	return f, nil
}

// decodePlanes copies a raw payload into the planes of f.
func decodePlanes[T frame.Sample](f *frame.Frame[T], buf []byte) {
	wide := f.Format.BytesPerSample() == 2
	off := 0
	for _, p := range f.Planes {
		for y := 0; y < p.Height; y++ {
			row := p.Row(y)
			if wide {
				for x := range row {
					row[x] = T(binary.LittleEndian.Uint16(buf[off:]))
					off += 2
				}
			} else {
				for x := range row {
					row[x] = T(buf[off])
					off++
				}
			}
		}
	}
}
