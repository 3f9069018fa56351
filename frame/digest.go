package frame

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// Digest returns the hex BLAKE2b-256 hash of the logical samples of f, plane
// by plane, row by row. Samples are hashed little-endian at their storage
// width, so padding and stride never influence the result.
func Digest[T Sample](f *Frame[T]) string {
	h, _ := blake2b.New256(nil)
	wide := f.Format.BytesPerSample() == 2
	var buf []byte
	for _, p := range f.Planes {
		for y := 0; y < p.Height; y++ {
			buf = buf[:0]
			for _, v := range p.Row(y) {
				if wide {
					buf = append(buf, byte(v), byte(uint16(v)>>8))
				} else {
					buf = append(buf, byte(v))
				}
			}
			h.Write(buf)
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}
