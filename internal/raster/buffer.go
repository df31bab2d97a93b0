package raster

import (
	"image"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"

	"sdf-raymarcher/internal/mathutil"
)

// FrameBuffer holds the rendering target as flat slices for cache locality.
type FrameBuffer struct {
	Width  int
	Height int
	Color  []uint8   // RGBA interleaved, len = W*H*4
	Depth  []float32 // march depth per pixel, len = W*H
}

// NewFrameBuffer allocates a zeroed colour buffer and depth buffer.
func NewFrameBuffer(w, h int) *FrameBuffer {
	n := w * h
	return &FrameBuffer{
		Width:  w,
		Height: h,
		Color:  make([]uint8, n*4),
		Depth:  make([]float32, n),
	}
}

// Set writes a linear [0,1] colour and depth to pixel (x, y).
func (fb *FrameBuffer) Set(x, y int, c mgl32.Vec4, depth float32) {
	i := y*fb.Width + x
	o := i * 4
	fb.Color[o] = quantize(c[0])
	fb.Color[o+1] = quantize(c[1])
	fb.Color[o+2] = quantize(c[2])
	fb.Color[o+3] = quantize(c[3])
	fb.Depth[i] = depth
}

func quantize(v float32) uint8 {
	return uint8(mathutil.Clamp01(v)*255 + 0.5)
}

// Image copies the colour buffer into an NRGBA image.
func (fb *FrameBuffer) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	copy(img.Pix, fb.Color)
	return img
}

// DepthImage maps depth linearly to gray, near white and maxDepth black.
func (fb *FrameBuffer) DepthImage(maxDepth float32) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, fb.Width, fb.Height))
	for i, d := range fb.Depth {
		img.Pix[i] = 255 - quantize(d/maxDepth)
	}
	return img
}

// At returns pixel (x, y) as a colour.
func (fb *FrameBuffer) At(x, y int) color.NRGBA {
	o := (y*fb.Width + x) * 4
	return color.NRGBA{fb.Color[o], fb.Color[o+1], fb.Color[o+2], fb.Color[o+3]}
}
