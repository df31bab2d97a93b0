package main

import (
	"flag"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"sdf-raymarcher/internal/animate"
	"sdf-raymarcher/internal/batch"
	"sdf-raymarcher/internal/config"
	"sdf-raymarcher/internal/imageio"
	"sdf-raymarcher/internal/video"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to scene config JSON file")
	outputDir := flag.String("output", "", "Output directory (default: out)")
	format := flag.String("format", "", "Frame format: png, webp, tga (default: png)")
	width := flag.Int("width", 0, "Render width in pixels (default: 640)")
	height := flag.Int("height", 0, "Render height in pixels (default: 480)")
	frames := flag.Int("frames", 0, "Number of frames to render (default: 1)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	legacy := flag.Bool("legacy", false, "Use the legacy kernel preset (255 steps, NDC mapping, animated lights)")
	anim := flag.String("anim", "", "Also write an animation: gif or webp")

	flag.Parse()

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		OutputDir: *outputDir,
		Format:    *format,
		Width:     *width,
		Height:    *height,
		Frames:    *frames,
		Workers:   *workers,
		Legacy:    *legacy,
	})
	if cfg.GIF && *anim == "" {
		*anim = "gif"
	}
	if *anim != "" && *anim != "gif" && *anim != "webp" {
		fmt.Fprintf(os.Stderr, "Error: unknown animation format %q\n", *anim)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	outFormat, _ := imageio.ParseFormat(cfg.Format)

	animator, err := animate.New(cfg, video.NewCache())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error preparing scene: %v\n", err)
		os.Exit(1)
	}

	params := cfg.Params()
	outW, outH := cfg.OutputSize()

	// Print summary
	mode := ""
	if cfg.Legacy {
		mode = " (legacy)"
	}
	fmt.Printf("SDF ray marcher → %s%s\n", outFormat, mode)
	fmt.Printf("Frames: %d at %.0f fps, Workers: %d\n", cfg.Frames, cfg.FPS, cfg.Workers)
	fmt.Printf("Render: %dx%d, output %dx%d, %d steps, coords %s, lights %s\n",
		cfg.Width, cfg.Height, outW, outH, params.MaxSteps, params.CoordMode, params.Lighting)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	// Run batch
	batchCfg := batch.Config{
		Source:     animator,
		Params:     params,
		OutputDir:  cfg.OutputDir,
		Format:     outFormat,
		OutWidth:   outW,
		OutHeight:  outH,
		Depth:      cfg.Depth,
		KeepImages: *anim != "",
		Workers:    cfg.Workers,
	}

	results := batch.Run(batchCfg, cfg.Frames)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	// Count results
	success, failed := 0, 0
	var errors []batch.Result
	var hits, pixels int
	for _, r := range results {
		if r.Success {
			success++
			hits += r.Hits
			pixels += r.Pixels
		} else {
			failed++
			errors = append(errors, r)
		}
	}

	fmt.Printf("Rendered: %d/%d\n", success, len(results))
	if pixels > 0 {
		fmt.Printf("Coverage: %.1f%% of pixels hit geometry\n", 100*float64(hits)/float64(pixels))
	}

	if len(errors) > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		limit := min(len(errors), 20)
		for _, e := range errors[:limit] {
			fmt.Printf("  frame %d: %s\n", e.Frame, e.Error)
		}
	}

	if *anim != "" && failed == 0 {
		if err := writeAnimation(cfg, *anim, results); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: animation write failed: %v\n", err)
		}
	}

	// Write manifest
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	os.MkdirAll(cfg.OutputDir, 0755)
	if err := batch.WriteManifest(manifestPath, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if failed > 0 {
		os.Exit(1)
	}
}

func writeAnimation(cfg config.Config, kind string, results []batch.Result) error {
	images := make([]image.Image, len(results))
	for i, r := range results {
		images[i] = r.Image
	}
	path := filepath.Join(cfg.OutputDir, "animation."+kind)
	var err error
	if kind == "webp" {
		err = imageio.SaveAnimatedWebP(path, images, uint(1000/cfg.FPS+0.5))
	} else {
		err = imageio.SaveGIF(path, images, int(100/cfg.FPS+0.5))
	}
	if err == nil {
		fmt.Printf("Animation: %s\n", path)
	}
	return err
}
