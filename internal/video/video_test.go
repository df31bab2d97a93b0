package video

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"sync"
	"testing"
)

func writeFrame(t *testing.T, dir string, n int, fill color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 8, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 8; x++ {
			if x < 4 {
				img.SetNRGBA(x, y, fill)
			} else {
				img.SetNRGBA(x, y, color.NRGBA{A: 255})
			}
		}
	}
	f, err := os.Create(FramePath(dir, n))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestLoadStopsAtFirstGap(t *testing.T) {
	dir := t.TempDir()
	writeFrame(t, dir, 1, color.NRGBA{255, 255, 255, 255})
	writeFrame(t, dir, 2, color.NRGBA{255, 0, 0, 255})
	writeFrame(t, dir, 4, color.NRGBA{0, 0, 0, 255})

	seq, err := Load(dir, 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	if seq.Len() != 2 {
		t.Fatalf("frames = %d, want 2", seq.Len())
	}
	if v := seq.Value(0, 0, 0); v != 1 {
		t.Fatalf("white cell = %v", v)
	}
	if v := seq.Value(0, 1, 0); v != 0 {
		t.Fatalf("black cell = %v", v)
	}
	if v := seq.Value(1, 0, 0); v != float32(255)/(255*3) {
		t.Fatalf("red cell = %v", v)
	}
}

func TestLoadEmptyDir(t *testing.T) {
	if _, err := Load(t.TempDir(), 2, 2); err == nil {
		t.Fatal("expected error for empty directory")
	}
	if _, err := Load(t.TempDir(), 0, 2); err == nil {
		t.Fatal("expected error for empty grid")
	}
}

func TestFrameIndex(t *testing.T) {
	tests := []struct {
		t, fps float32
		want   int
	}{
		{0, 30, 0},
		{-1, 30, 0},
		{1, 30, 30},
		{0.999, 30, 29},
		{2, 0, 0},
	}
	for _, tt := range tests {
		if got := FrameIndex(tt.t, tt.fps); got != tt.want {
			t.Errorf("FrameIndex(%v, %v) = %d, want %d", tt.t, tt.fps, got, tt.want)
		}
	}
	seq := &Sequence{Width: 1, Height: 1, frames: [][]float32{{0}, {1}}}
	if got := seq.FrameIndex(10, 30); got != 1 {
		t.Fatalf("past-the-end index = %d, want last frame", got)
	}
}

func TestCacheSharesSequence(t *testing.T) {
	dir := t.TempDir()
	writeFrame(t, dir, 1, color.NRGBA{10, 20, 30, 255})
	c := NewCache()

	var wg sync.WaitGroup
	got := make([]*Sequence, 8)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := c.Get(dir, 4, 2)
			if err != nil {
				t.Error(err)
			}
			got[i] = s
		}(i)
	}
	wg.Wait()
	for _, s := range got[1:] {
		if s != got[0] {
			t.Fatal("cache returned distinct sequences for the same key")
		}
	}
	if other, _ := c.Get(dir, 2, 2); other == got[0] {
		t.Fatal("different grid size shared a sequence")
	}
}
