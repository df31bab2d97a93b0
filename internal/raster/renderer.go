package raster

import (
	"runtime"
	"sync"
	"sync/atomic"

	"sdf-raymarcher/internal/raymarch"
)

// Stats summarises one rendered frame.
type Stats struct {
	Pixels    int
	Hits      int
	Crosshair int
}

// Render evaluates the kernel for every pixel of the frame. Rows are
// handed to a pool of workers; each pixel is written by exactly one
// goroutine. workers <= 0 uses GOMAXPROCS.
func Render(k *raymarch.Kernel, workers int) (*FrameBuffer, Stats) {
	f := k.Inputs().Frame
	w, h := int(f.Width), int(f.Height)
	fb := NewFrameBuffer(w, h)
	if w == 0 || h == 0 {
		return fb, Stats{}
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	p := k.Params()

	var hits, cross atomic.Int64
	rows := make(chan int, workers*2)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for y := range rows {
				var rowHits, rowCross int64
				for x := 0; x < w; x++ {
					pixel := k.PixelCoord(x, y)
					if p.Crosshair && k.OnCrosshair(pixel) {
						fb.Set(x, y, raymarch.CrosshairColor, p.MaxDepth)
						rowCross++
						continue
					}
					s := k.Trace(pixel)
					if s.Hit {
						rowHits++
					}
					fb.Set(x, y, s.Color, s.Depth)
				}
				hits.Add(rowHits)
				cross.Add(rowCross)
			}
		}()
	}

	for y := 0; y < h; y++ {
		rows <- y
	}
	close(rows)
	wg.Wait()

	return fb, Stats{Pixels: w * h, Hits: int(hits.Load()), Crosshair: int(cross.Load())}
}
