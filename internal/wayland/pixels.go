package wayland

import (
	"image"
)

// copyFrame writes src into dst as ARGB8888 (B G R A bytes on little-endian hosts).
// Both are premultiplied; dst must hold w*h*4 bytes with a w*4 stride.
func copyFrame(dst []byte, src *image.RGBA) {
	b := src.Bounds()
	n := b.Dx() * 4
	for y := 0; y < b.Dy(); y++ {
		in := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):][:n:n]
		out := dst[y*n:][:n:n]
		for i := 0; i < len(in); i += 4 {
			out[i+0] = in[i+2]
			out[i+1] = in[i+1]
			out[i+2] = in[i+0]
			out[i+3] = in[i+3]
		}
	}
}
