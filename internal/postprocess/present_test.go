package postprocess

import (
	"image"
	"image/color"
	"testing"
)

func checker(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBA{0, 0, 0, 255}
			if (x+y)%2 == 0 {
				c = color.NRGBA{255, 255, 255, 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestPresentSameSizeIsNoop(t *testing.T) {
	img := checker(4, 4)
	if Present(img, 4, 4) != img {
		t.Fatal("expected the input image back")
	}
}

func TestPresentIntegerUpscaleKeepsEdges(t *testing.T) {
	out := Present(checker(4, 3), 12, 9)
	if out.Bounds().Dx() != 12 || out.Bounds().Dy() != 9 {
		t.Fatalf("bounds %v", out.Bounds())
	}
	for y := 0; y < 9; y++ {
		for x := 0; x < 12; x++ {
			want := uint8(0)
			if (x/3+y/3)%2 == 0 {
				want = 255
			}
			if got := out.NRGBAAt(x, y).R; got != want {
				t.Fatalf("pixel (%d,%d) = %d, want %d", x, y, got, want)
			}
		}
	}
}

func TestPresentFractionalScaleFilters(t *testing.T) {
	out := Present(checker(8, 8), 5, 5)
	if out.Bounds().Dx() != 5 {
		t.Fatalf("bounds %v", out.Bounds())
	}
	mixed := false
	for i := 0; i < len(out.Pix); i += 4 {
		if v := out.Pix[i]; v != 0 && v != 255 {
			mixed = true
		}
		if out.Pix[i+3] != 255 {
			t.Fatalf("alpha %d", out.Pix[i+3])
		}
	}
	if !mixed {
		t.Fatal("expected filtered intermediate values")
	}
}

func TestResampleKeepsFlatColor(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 7, 7))
	for i := 0; i < len(img.Pix); i += 4 {
		copy(img.Pix[i:], []uint8{200, 100, 50, 255})
	}
	out := Resample(img, 3, 5)
	if out.Bounds() != image.Rect(0, 0, 3, 5) {
		t.Fatalf("bounds %v", out.Bounds())
	}
	want := []int{200, 100, 50, 255}
	for i := 0; i < len(out.Pix); i += 4 {
		for c, v := range want {
			if d := int(out.Pix[i+c]) - v; d < -1 || d > 1 {
				t.Fatalf("pixel %d channel %d = %d, want %d", i/4, c, out.Pix[i+c], v)
			}
		}
	}
}
