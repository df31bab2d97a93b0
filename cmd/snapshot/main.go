package main

import (
	"flag"
	"fmt"
	"os"

	"sdf-raymarcher/internal/animate"
	"sdf-raymarcher/internal/config"
	"sdf-raymarcher/internal/imageio"
	"sdf-raymarcher/internal/raster"
	"sdf-raymarcher/internal/raymarch"
	"sdf-raymarcher/internal/scene"
	"sdf-raymarcher/internal/video"
)

func main() {
	configFile := flag.String("config", "", "Path to scene config JSON file (write mode)")
	frame := flag.Int("frame", 0, "Frame number to capture (write mode)")
	out := flag.String("o", "", "Write a snapshot of the frame to this file")
	inspect := flag.String("inspect", "", "Print the contents of a snapshot file")
	renderTo := flag.String("render", "", "Render the -inspect snapshot to this PNG")
	legacy := flag.Bool("legacy", false, "Use the legacy kernel preset when rendering")
	flag.Parse()

	switch {
	case *out != "":
		if err := write(*configFile, *frame, *out); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case *inspect != "":
		in, err := read(*inspect)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		dump(in)
		if *renderTo != "" {
			p := raymarch.DefaultParams()
			if *legacy {
				p = raymarch.LegacyParams()
			}
			fb, stats := raster.Render(raymarch.New(in, p), 0)
			if err := imageio.Save(*renderTo, fb.Image(), imageio.PNG); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("Rendered %s: %d/%d pixels hit\n", *renderTo, stats.Hits, stats.Pixels)
		}
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func write(configFile string, frame int, path string) error {
	var cfg config.Config
	if configFile != "" {
		var err error
		if cfg, err = config.Load(configFile); err != nil {
			return err
		}
	}
	cfg.Resolve(config.Flags{})
	if err := cfg.Validate(); err != nil {
		return err
	}
	a, err := animate.New(cfg, video.NewCache())
	if err != nil {
		return err
	}
	in := a.Frame(frame)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("snapshot: create %s: %w", path, err)
	}
	if err := scene.EncodeSnapshot(f, in); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("Snapshot: %s (%d shapes)\n", path, in.Frame.ShapeCount)
	return nil
}

func read(path string) (*scene.Inputs, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("snapshot: open %s: %w", path, err)
	}
	defer f.Close()
	in, err := scene.DecodeSnapshot(f)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return in, nil
}

func dump(in *scene.Inputs) {
	fr := in.Frame
	eye := in.Camera.Eye()
	fmt.Printf("Frame: t=%.3f %dx%d shapes=%d spheres=%d prisms=%d\n",
		fr.Time, fr.Width, fr.Height, fr.ShapeCount, fr.SphereCount, fr.PrismCount)
	fmt.Printf("Camera: eye=(%.2f, %.2f, %.2f)\n", eye[0], eye[1], eye[2])
	for i := uint32(0); i < fr.ShapeCount; i++ {
		s := in.Shapes[i]
		b := s.BoundingBox
		fmt.Printf("  Shape[%d]: %s #%d color=(%.2f, %.2f, %.2f) box=[%.1f, %.1f, %.1f, %.1f]\n",
			i, s.Kind, s.Index, s.Color[0], s.Color[1], s.Color[2], b[0], b[1], b[2], b[3])
	}
	for i := uint32(0); i < fr.SphereCount; i++ {
		s := in.Spheres[i]
		fmt.Printf("  Sphere[%d]: center=(%.2f, %.2f, %.2f) r=%.2f\n", i, s.Center[0], s.Center[1], s.Center[2], s.Radius)
	}
	for i := uint32(0); i < fr.PrismCount; i++ {
		p := in.Prisms[i]
		fmt.Printf("  Prism[%d]: center=(%.2f, %.2f, %.2f) half=(%.2f, %.2f, %.2f) rot=(%.3f, %.3f, %.3f, %.3f)\n",
			i, p.Center[0], p.Center[1], p.Center[2], p.HalfExtents[0], p.HalfExtents[1], p.HalfExtents[2],
			p.Rotation.V[0], p.Rotation.V[1], p.Rotation.V[2], p.Rotation.W)
	}
}
