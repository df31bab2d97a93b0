package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"sdf-raymarcher/internal/animate"
	"sdf-raymarcher/internal/config"
	"sdf-raymarcher/internal/raymarch"
	"sdf-raymarcher/internal/video"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("probe", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configFile := fs.String("config", "", "Path to scene config JSON file")
	x := fs.Int("x", -1, "Raster x (default: centre)")
	y := fs.Int("y", -1, "Raster y (default: centre)")
	frame := fs.Int("frame", 0, "Frame number")
	legacy := fs.Bool("legacy", false, "Use the legacy kernel preset")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	}
	cfg.Resolve(config.Flags{Legacy: *legacy})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	a, err := animate.New(cfg, video.NewCache())
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	in := a.Frame(*frame)
	if err := in.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	k := raymarch.New(in, cfg.Params())

	px, py := *x, *y
	if px < 0 {
		px = cfg.Width / 2
	}
	if py < 0 {
		py = cfg.Height / 2
	}
	pixel := k.PixelCoord(px, py)

	fmt.Fprintf(stdout, "Frame %d (t=%.3fs), %dx%d, coords %s\n", *frame, in.Frame.Time, in.Frame.Width, in.Frame.Height, k.Params().CoordMode)
	fmt.Fprintf(stdout, "Raster (%d, %d) → pixel (%.1f, %.1f)\n", px, py, pixel[0], pixel[1])
	if k.OnCrosshair(pixel) {
		fmt.Fprintf(stdout, "  on crosshair (shown as gray when enabled: %v)\n", k.Params().Crosshair)
	}

	fmt.Fprintf(stdout, "Shapes covering pixel:\n")
	for i := uint32(0); i < in.Frame.ShapeCount; i++ {
		s := in.Shapes[i]
		if !s.Covers(pixel) {
			continue
		}
		b := s.BoundingBox
		fmt.Fprintf(stdout, "  Shape[%d]: %s #%d, box [%.1f, %.1f]–[%.1f, %.1f]\n", i, s.Kind, s.Index, b[0], b[1], b[2], b[3])
	}

	s := k.Trace(pixel)
	fmt.Fprintf(stdout, "Ray: dir=(%.4f, %.4f, %.4f)\n", s.Dir[0], s.Dir[1], s.Dir[2])
	fmt.Fprintf(stdout, "  depth=%.4f hit=%v\n", s.Depth, s.Hit)
	if s.Hit {
		fmt.Fprintf(stdout, "  point=(%.4f, %.4f, %.4f) normal=(%.4f, %.4f, %.4f)\n",
			s.Point[0], s.Point[1], s.Point[2], s.Normal[0], s.Normal[1], s.Normal[2])
	}
	c := k.Pixel(px, py)
	fmt.Fprintf(stdout, "  color=(%.4f, %.4f, %.4f, %.1f)\n", c[0], c[1], c[2], c[3])
	return 0
}
