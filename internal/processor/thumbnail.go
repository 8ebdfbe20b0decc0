// Package processor holds the raster transforms applied to album art.
package processor

import (
	"image"

	"github.com/disintegration/imaging"
)

// Fill scales img so that it covers a size×size square, using the larger of
// the two scale factors, and crops the overflow around the center.
func Fill(img image.Image, size int) *image.NRGBA {
	return imaging.Fill(img, size, size, imaging.Center, imaging.Lanczos)
}

// Desaturate replaces every pixel with its luma in place.
// luma = 0.299R + 0.587G + 0.114B, truncated. Alpha is untouched.
func Desaturate(img *image.NRGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):]
		for x := 0; x < b.Dx(); x++ {
			p := row[x*4 : x*4+4 : x*4+4]
			l := uint8((299*uint32(p[0]) + 587*uint32(p[1]) + 114*uint32(p[2])) / 1000)
			p[0], p[1], p[2] = l, l, l
		}
	}
}
