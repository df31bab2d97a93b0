// Package postprocess scales rendered frames to their presented size.
package postprocess

import (
	"image"

	"golang.org/x/image/draw"
)

// Present scales img to w×h. Integer up- or down-scales keep hard pixel
// edges with nearest-neighbour sampling; any other ratio is filtered.
func Present(img *image.NRGBA, w, h int) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() == w && b.Dy() == h {
		return img
	}
	if integerRatio(b.Dx(), w) && integerRatio(b.Dy(), h) {
		dst := image.NewNRGBA(image.Rect(0, 0, w, h))
		draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
		return dst
	}
	return Resample(img, w, h)
}

func integerRatio(a, b int) bool {
	if a == 0 || b == 0 {
		return false
	}
	return a%b == 0 || b%a == 0
}

// Resample scales img to w×h with CatmullRom filtering. Rendered frames
// are opaque, so no alpha weighting is applied.
func Resample(img *image.NRGBA, w, h int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}
