package y4m

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/opd-ai/tdeint/frame"
)

// Writer emits a stream. The header is written by NewWriter; frames must
// match its format and size.
type Writer struct {
	w      *bufio.Writer
	header Header
	format frame.Format
	buf    []byte
	frames int
}

// NewWriter writes h to w and returns a Writer for its frames.
func NewWriter(w io.Writer, h Header) (*Writer, error) {
	format, err := h.Format()
	if err != nil {
		return nil, err
	}
	if h.Width <= 0 || h.Height <= 0 {
		return nil, fmt.Errorf("%w: invalid frame size %dx%d", ErrBadHeader, h.Width, h.Height)
	}

	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "%s\n", h); err != nil {
		return nil, err
	}
	return &Writer{
		w:      bw,
		header: h,
		format: format,
		buf:    make([]byte, frameSize(format, h.Width, h.Height)),
	}, nil
}

// HeaderFor builds a stream header describing frames of vi. The interlace
// tag is taken from fieldBased, a PropFieldBased value, or left unknown when
// fieldBased is negative.
func HeaderFor(vi frame.VideoInfo, fieldBased int64) (Header, error) {
	cs, err := Colorspace(vi.Format)
	if err != nil {
		return Header{}, err
	}
	h := Header{
		Width:      vi.Width,
		Height:     vi.Height,
		FPSNum:     vi.FPSNum,
		FPSDen:     vi.FPSDen,
		Interlace:  InterlaceUnknown,
		Colorspace: cs,
	}
	switch fieldBased {
	case frame.FieldProgressive:
		h.Interlace = InterlaceProgressive
	case frame.FieldTopFirst:
		h.Interlace = InterlaceTopFirst
	case frame.FieldBottomFirst:
		h.Interlace = InterlaceBottomFirst
	}
	return h, nil
}

// Frames returns the number of frames written so far.
func (w *Writer) Frames() int {
	return w.frames
}

// Flush writes buffered data to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}

// WriteFrame appends f to the stream.
func WriteFrame[T frame.Sample](w *Writer, f *frame.Frame[T]) error {
	if f.Format != w.format || f.Width != w.header.Width || f.Height != w.header.Height {
		return fmt.Errorf("%w: frame is %s %dx%d, stream is %s %dx%d",
			frame.ErrFormatMismatch, f.Format, f.Width, f.Height, w.format, w.header.Width, w.header.Height)
	}

	wide := f.Format.BytesPerSample() == 2
	off := 0
	for _, p := range f.Planes {
		for y := 0; y < p.Height; y++ {
			for _, v := range p.Row(y) {
				if wide {
					binary.LittleEndian.PutUint16(w.buf[off:], uint16(v))
					off += 2
				} else {
					w.buf[off] = byte(v)
					off++
				}
			}
		}
	}

	if _, err := w.w.WriteString(frameMagic + "\n"); err != nil {
		return err
	}
	if _, err := w.w.Write(w.buf); err != nil {
		return err
	}
	w.frames++
	return nil
}
