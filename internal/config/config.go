package config

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"

	"sdf-raymarcher/internal/imageio"
	"sdf-raymarcher/internal/raymarch"
	"sdf-raymarcher/internal/shading"
)

// Config holds the scene description and all render settings.
type Config struct {
	// Camera
	CameraPos [3]float32 `json:"camera_pos"`
	Yaw       float32    `json:"yaw"`   // degrees, 0 looks down -Z
	Pitch     float32    `json:"pitch"` // degrees
	FOV       float32    `json:"fov"`
	Orbit     *Orbit     `json:"orbit,omitempty"`

	// Scene
	Spheres []Sphere `json:"spheres"`
	Prisms  []Prism  `json:"prisms"`
	Grid    *Grid    `json:"grid,omitempty"`

	// Kernel settings
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	MaxSteps  int     `json:"max_steps"`
	Epsilon   float32 `json:"epsilon"`
	MaxDepth  float32 `json:"max_depth"`
	Legacy    bool    `json:"legacy"`
	CoordMode string  `json:"coord_mode"` // fragment, ndc
	Lights    string  `json:"lights"`     // fixed, animated
	Crosshair *bool   `json:"crosshair"`
	Workers   int     `json:"workers"`

	// Output
	OutputDir string  `json:"output_dir"`
	Format    string  `json:"format"` // png, webp, tga
	Frames    int     `json:"frames"`
	FPS       float32 `json:"fps"`
	Scale     float32 `json:"scale"`
	GIF       bool    `json:"gif"`
	Depth     bool    `json:"depth"`
}

// Sphere is a sphere in the scene file.
type Sphere struct {
	Center [3]float32 `json:"center"`
	Radius float32    `json:"radius"`
	Color  [3]float32 `json:"color"`
}

// Prism is an oriented box in the scene file. Rotation and Spin are Euler
// angles in degrees and degrees per second.
type Prism struct {
	Center      [3]float32 `json:"center"`
	HalfExtents [3]float32 `json:"half_extents"`
	Rotation    [3]float32 `json:"rotation"`
	Spin        [3]float32 `json:"spin"`
	Color       [3]float32 `json:"color"`
}

// Grid lays out Cols×Rows unit prisms whose size follows a frame sequence.
type Grid struct {
	Dir     string     `json:"dir"`
	Cols    int        `json:"cols"`
	Rows    int        `json:"rows"`
	Spacing float32    `json:"spacing"`
	Origin  [3]float32 `json:"origin"`
	FPS     float32    `json:"fps"`
}

// Orbit circles the camera around Target in the XZ plane.
type Orbit struct {
	Target [3]float32 `json:"target"`
	Radius float32    `json:"radius"`
	Height float32    `json:"height"`
	Speed  float32    `json:"speed"` // degrees per second
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	OutputDir string
	Format    string
	Width     int
	Height    int
	Frames    int
	Workers   int
	Legacy    bool
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Format != "" {
		c.Format = flags.Format
	}
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Height = flags.Height
	}
	if flags.Frames > 0 {
		c.Frames = flags.Frames
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Legacy {
		c.Legacy = true
	}

	base := raymarch.DefaultParams()
	if c.Legacy {
		base = raymarch.LegacyParams()
	}

	if c.CameraPos == ([3]float32{}) {
		c.CameraPos = [3]float32{0, 0, 10}
	}
	if c.FOV <= 0 {
		c.FOV = base.FOV
	}
	if len(c.Spheres) == 0 && len(c.Prisms) == 0 && c.Grid == nil {
		c.Spheres = []Sphere{{Radius: 2, Color: [3]float32{1, 0.4, 0.2}}}
	}
	if g := c.Grid; g != nil {
		if g.Cols <= 0 {
			g.Cols = 20
		}
		if g.Rows <= 0 {
			g.Rows = 15
		}
		if g.Spacing <= 0 {
			g.Spacing = 2
		}
		if g.FPS <= 0 {
			g.FPS = 30
		}
	}

	// Defaults for render settings
	if c.Width <= 0 {
		c.Width = 640
	}
	if c.Height <= 0 {
		c.Height = 480
	}
	if c.MaxSteps <= 0 {
		c.MaxSteps = base.MaxSteps
	}
	if c.Epsilon <= 0 {
		c.Epsilon = base.Epsilon
	}
	if c.MaxDepth <= 0 {
		c.MaxDepth = base.MaxDepth
	}
	if c.CoordMode == "" {
		c.CoordMode = base.CoordMode.String()
	}
	if c.Lights == "" {
		c.Lights = base.Lighting.String()
	}
	if c.Crosshair == nil {
		on := base.Crosshair
		c.Crosshair = &on
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.OutputDir == "" {
		c.OutputDir = "out"
	}
	if c.Format == "" {
		c.Format = string(imageio.PNG)
	}
	if c.Frames <= 0 {
		c.Frames = 1
	}
	if c.FPS <= 0 {
		c.FPS = 30
	}
	if c.Scale <= 0 {
		c.Scale = 1
	}
}

// Validate reports settings Resolve cannot repair.
func (c *Config) Validate() error {
	if _, ok := raymarch.ParseCoordMode(c.CoordMode); !ok {
		return fmt.Errorf("config: unknown coord_mode %q", c.CoordMode)
	}
	if _, ok := shading.ParseRig(c.Lights); !ok {
		return fmt.Errorf("config: unknown lights %q", c.Lights)
	}
	if _, err := imageio.ParseFormat(c.Format); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	for i, s := range c.Spheres {
		if s.Radius <= 0 {
			return fmt.Errorf("config: sphere %d: radius %v must be positive", i, s.Radius)
		}
	}
	if c.Grid != nil && c.Grid.Dir == "" {
		return fmt.Errorf("config: grid: dir is required")
	}
	return nil
}

// Params returns the kernel settings. Call after Resolve and Validate.
func (c *Config) Params() raymarch.Params {
	p := raymarch.DefaultParams()
	p.FOV = c.FOV
	p.MaxSteps = c.MaxSteps
	p.Epsilon = c.Epsilon
	p.MaxDepth = c.MaxDepth
	p.CoordMode, _ = raymarch.ParseCoordMode(c.CoordMode)
	p.Lighting, _ = shading.ParseRig(c.Lights)
	if c.Crosshair != nil {
		p.Crosshair = *c.Crosshair
	}
	return p
}

// OutputSize returns the presented image size after scaling.
func (c *Config) OutputSize() (int, int) {
	w := int(float32(c.Width)*c.Scale + 0.5)
	h := int(float32(c.Height)*c.Scale + 0.5)
	return max(w, 1), max(h, 1)
}
