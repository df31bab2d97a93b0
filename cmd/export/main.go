package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"sdf-raymarcher/internal/animate"
	"sdf-raymarcher/internal/config"
	"sdf-raymarcher/internal/export"
	"sdf-raymarcher/internal/video"
)

func main() {
	configFile := flag.String("config", "", "Path to scene config JSON file")
	frame := flag.Int("frame", 0, "Frame number to export")
	cells := flag.Int("cells", export.DefaultCells, "Marching cubes cells along the longest axis")
	out := flag.String("o", "scene.stl", "Output STL path")
	flag.Parse()

	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	cfg.Resolve(config.Flags{})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	a, err := animate.New(cfg, video.NewCache())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error preparing scene: %v\n", err)
		os.Exit(1)
	}

	start := time.Now()
	n, err := export.SaveSTL(*out, a.Frame(*frame), *cells)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s: %d triangles in %.1fs\n", *out, n, time.Since(start).Seconds())
}
