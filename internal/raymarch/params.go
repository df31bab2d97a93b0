package raymarch

import (
	"sdf-raymarcher/internal/sdf"
	"sdf-raymarcher/internal/shading"
)

// CoordMode selects how a raster position becomes the kernel's pixel
// coordinate. The two modes mirror each other vertically, so they change
// which bounding boxes a pixel falls into.
type CoordMode int

const (
	// CoordFragment uses the raster position directly: pixel centres at
	// +0.5, y growing downwards.
	CoordFragment CoordMode = iota
	// CoordNDC remaps through normalised device coordinates, y up.
	CoordNDC
)

func (m CoordMode) String() string {
	if m == CoordNDC {
		return "ndc"
	}
	return "fragment"
}

// ParseCoordMode maps a config name to a CoordMode.
func ParseCoordMode(s string) (CoordMode, bool) {
	switch s {
	case "", "fragment":
		return CoordFragment, true
	case "ndc":
		return CoordNDC, true
	}
	return CoordFragment, false
}

// Params are the kernel tunables. Epsilon is shared by the tracer's
// convergence test and the normal estimator's offsets.
type Params struct {
	FOV       float32 // vertical field of view, degrees
	MaxSteps  int
	Epsilon   float32
	MinDepth  float32
	MaxDepth  float32
	CoordMode CoordMode
	Crosshair bool
	Lighting  shading.Rig
}

// DefaultParams returns the current kernel settings.
func DefaultParams() Params {
	return Params{
		FOV:       45,
		MaxSteps:  50,
		Epsilon:   sdf.Epsilon,
		MinDepth:  0,
		MaxDepth:  sdf.Far,
		CoordMode: CoordFragment,
		Crosshair: true,
		Lighting:  shading.RigFixed,
	}
}

// LegacyParams returns the earlier kernel settings: a larger step budget,
// NDC pixel mapping and the two orbiting lights.
func LegacyParams() Params {
	p := DefaultParams()
	p.MaxSteps = 255
	p.CoordMode = CoordNDC
	p.Lighting = shading.RigAnimated
	return p
}
