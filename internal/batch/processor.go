package batch

import (
	"fmt"
	"image"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"sdf-raymarcher/internal/imageio"
	"sdf-raymarcher/internal/postprocess"
	"sdf-raymarcher/internal/raster"
	"sdf-raymarcher/internal/raymarch"
	"sdf-raymarcher/internal/scene"
)

// Source yields the kernel inputs for a frame number.
type Source interface {
	Frame(n int) *scene.Inputs
	Time(n int) float32
}

// Config holds all shared resources for a batch run.
type Config struct {
	Source     Source
	Params     raymarch.Params
	OutputDir  string
	Format     imageio.Format
	OutWidth   int
	OutHeight  int
	Depth      bool // also write a depth map per frame
	KeepImages bool // retain presented frames in Result.Image
	Workers    int
}

// Result holds the outcome of processing one frame.
type Result struct {
	Frame     int
	Time      float32
	Path      string
	DepthPath string
	Hits      int
	Pixels    int
	Success   bool
	Error     string
	Image     *image.NRGBA
}

// FramePath returns the output path of frame n.
func FramePath(dir string, n int, f imageio.Format) string {
	return filepath.Join(dir, fmt.Sprintf("frame_%04d%s", n, f.Ext()))
}

// Run renders frames 0..count-1 using a worker pool. Frames are spread
// across workers first; any spare workers split each frame's rows.
func Run(cfg Config, count int) []Result {
	results := make([]Result, count)
	if count == 0 {
		return results
	}
	var processed atomic.Int64

	frameWorkers := max(min(cfg.Workers, count), 1)
	pixelWorkers := max(cfg.Workers/frameWorkers, 1)

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					rate := float64(p) / elapsed
					fmt.Printf("  [%d/%d] %.1f frames/sec\n", p, count, rate)
				}
			}
		}
	}()

	// Worker pool
	frameChan := make(chan int, frameWorkers*2)
	var wg sync.WaitGroup

	for w := 0; w < frameWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := range frameChan {
				results[n] = processFrame(cfg, n, pixelWorkers)
				processed.Add(1)
			}
		}()
	}

	// Send work
	for n := 0; n < count; n++ {
		frameChan <- n
	}
	close(frameChan)

	wg.Wait()
	close(done)

	return results
}

func processFrame(cfg Config, n, workers int) Result {
	res := Result{Frame: n, Time: cfg.Source.Time(n)}

	in := cfg.Source.Frame(n)
	if err := in.Validate(); err != nil {
		res.Error = err.Error()
		return res
	}

	k := raymarch.New(in, cfg.Params)
	fb, stats := raster.Render(k, workers)
	res.Hits, res.Pixels = stats.Hits, stats.Pixels

	img := fb.Image()
	if cfg.OutWidth > 0 && cfg.OutHeight > 0 {
		img = postprocess.Present(img, cfg.OutWidth, cfg.OutHeight)
	}

	res.Path = FramePath(cfg.OutputDir, n, cfg.Format)
	if err := imageio.Save(res.Path, img, cfg.Format); err != nil {
		res.Error = err.Error()
		return res
	}

	if cfg.Depth {
		res.DepthPath = filepath.Join(cfg.OutputDir, fmt.Sprintf("depth_%04d.png", n))
		if err := imageio.Save(res.DepthPath, fb.DepthImage(cfg.Params.MaxDepth), imageio.PNG); err != nil {
			res.Error = fmt.Sprintf("depth map: %v", err)
			return res
		}
	}

	if cfg.KeepImages {
		res.Image = img
	}
	res.Success = true
	return res
}
