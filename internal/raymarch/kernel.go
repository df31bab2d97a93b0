// Package raymarch is the per-pixel sphere-tracing kernel. A Kernel is
// immutable once built and every method is a pure function of its inputs,
// so one Kernel may be shared by any number of goroutines.
package raymarch

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"sdf-raymarcher/internal/mathutil"
	"sdf-raymarcher/internal/scene"
	"sdf-raymarcher/internal/sdf"
	"sdf-raymarcher/internal/shading"
)

var (
	// Sky is returned by March on a miss.
	Sky = mgl32.Vec3{0.1, 0.2, 0.3}
	// CrosshairColor marks the screen centre.
	CrosshairColor = mgl32.Vec4{0.5, 0.5, 0.5, 1}
)

const (
	crosshairReach = 10
	crosshairWidth = 1
)

// Kernel evaluates one frame's inputs.
type Kernel struct {
	in     *scene.Inputs
	params Params
	eye    mgl32.Vec3
	basis  mgl32.Mat3
	size   mgl32.Vec2
	lights []shading.Light
}

// New builds a kernel over in. The inputs must not change while the kernel
// is in use; the host validates them beforehand.
func New(in *scene.Inputs, p Params) *Kernel {
	return &Kernel{
		in:     in,
		params: p,
		eye:    in.Camera.Eye(),
		basis:  mathutil.Basis(in.Camera.Orientation),
		size:   in.Frame.Size(),
		lights: p.Lighting.Lights(in.Frame.Time),
	}
}

// Params returns the kernel's tunables.
func (k *Kernel) Params() Params { return k.params }

// Inputs returns the frame inputs the kernel reads.
func (k *Kernel) Inputs() *scene.Inputs { return k.in }

// SceneDistance returns the nearest shape's colour and signed distance at
// p. Shapes whose screen box does not cover pixel are skipped, as are
// unknown kinds. Ties keep the earlier shape.
func (k *Kernel) SceneDistance(p mgl32.Vec3, pixel mgl32.Vec2) (mgl32.Vec3, float32) {
	color := mgl32.Vec3{}
	minDist := float32(sdf.Far)
	for i := uint32(0); i < k.in.Frame.ShapeCount; i++ {
		s := &k.in.Shapes[i]
		if !s.Covers(pixel) {
			continue
		}
		var d float32
		switch s.Kind {
		case scene.KindSphere:
			d = k.in.Spheres[s.Index].Distance(p)
		case scene.KindPrism:
			d = k.in.Prisms[s.Index].Distance(p)
		default:
			d = sdf.Far
		}
		if d < minDist {
			minDist = d
			color = s.Color.Vec3()
		}
	}
	return color, minDist
}

// RayDirection returns the camera-local unit direction through pixel for a
// pinhole camera looking down -Z.
func RayDirection(fov float32, size, pixel mgl32.Vec2) mgl32.Vec3 {
	xy := pixel.Sub(size.Mul(0.5))
	z := mathutil.FocalLength(fov, size[1])
	return mathutil.Normalize(mgl32.Vec3{xy[0], xy[1], -z})
}

// WorldRay returns the world-space direction through pixel.
func (k *Kernel) WorldRay(pixel mgl32.Vec2) mgl32.Vec3 {
	return k.basis.Mul3x1(RayDirection(k.params.FOV, k.size, pixel))
}

// March sphere-traces from eye along dir. On a hit it returns the shape's
// colour and the depth reached; on a miss (escape or step budget) it
// returns Sky and maxDepth.
func (k *Kernel) March(eye, dir mgl32.Vec3, start, maxDepth float32, pixel mgl32.Vec2) (mgl32.Vec3, float32) {
	depth := start
	for i := 0; i < k.params.MaxSteps; i++ {
		color, dist := k.SceneDistance(eye.Add(dir.Mul(depth)), pixel)
		if dist < k.params.Epsilon {
			return color, depth
		}
		depth += dist
		if depth >= maxDepth {
			return Sky, maxDepth
		}
	}
	return Sky, maxDepth
}

// Hit reports whether a depth returned by March is a hit.
func (k *Kernel) Hit(depth float32) bool {
	return depth < k.params.MaxDepth-k.params.Epsilon
}

// Normal estimates the surface normal at p by central differences.
func (k *Kernel) Normal(p mgl32.Vec3, pixel mgl32.Vec2) mgl32.Vec3 {
	e := k.params.Epsilon
	var n mgl32.Vec3
	for axis := 0; axis < 3; axis++ {
		var off mgl32.Vec3
		off[axis] = e
		_, hi := k.SceneDistance(p.Add(off), pixel)
		_, lo := k.SceneDistance(p.Sub(off), pixel)
		n[axis] = hi - lo
	}
	return mathutil.Normalize(n)
}

// PixelCoord maps a raster position (integer pixel, top-left origin) to
// the kernel's pixel coordinate under the configured mode.
func (k *Kernel) PixelCoord(x, y int) mgl32.Vec2 {
	fx, fy := float32(x)+0.5, float32(y)+0.5
	if k.params.CoordMode == CoordNDC {
		clip := mgl32.Vec2{fx/k.size[0]*2 - 1, 1 - fy/k.size[1]*2}
		return mgl32.Vec2{(clip[0] + 1) / 2 * k.size[0], (clip[1] + 1) / 2 * k.size[1]}
	}
	return mgl32.Vec2{fx, fy}
}

// OnCrosshair reports whether pixel lies on the centre crosshair.
func (k *Kernel) OnCrosshair(pixel mgl32.Vec2) bool {
	d := pixel.Sub(k.size.Mul(0.5))
	dx, dy := math32.Abs(d[0]), math32.Abs(d[1])
	return (dx <= crosshairReach && dy < crosshairWidth) ||
		(dy <= crosshairReach && dx < crosshairWidth)
}

// Pixel returns the colour of raster position (x, y).
func (k *Kernel) Pixel(x, y int) mgl32.Vec4 {
	return k.Shade(k.PixelCoord(x, y))
}

// Shade returns the colour at a kernel pixel coordinate. Alpha is always 1.
func (k *Kernel) Shade(pixel mgl32.Vec2) mgl32.Vec4 {
	if k.params.Crosshair && k.OnCrosshair(pixel) {
		return CrosshairColor
	}
	return k.Trace(pixel).Color
}

// Sample is the full result of tracing one pixel.
type Sample struct {
	Pixel  mgl32.Vec2
	Dir    mgl32.Vec3
	Depth  float32
	Hit    bool
	Point  mgl32.Vec3
	Normal mgl32.Vec3
	Color  mgl32.Vec4
}

// Trace marches the ray through pixel and shades it, ignoring the
// crosshair. Misses carry the background colour unshaded.
func (k *Kernel) Trace(pixel mgl32.Vec2) Sample {
	dir := k.WorldRay(pixel)
	color, depth := k.March(k.eye, dir, k.params.MinDepth, k.params.MaxDepth, pixel)
	s := Sample{Pixel: pixel, Dir: dir, Depth: depth}
	if !k.Hit(depth) {
		s.Color = color.Vec4(1)
		return s
	}
	s.Hit = true
	s.Point = k.eye.Add(dir.Mul(depth))
	s.Normal = k.Normal(s.Point, pixel)
	lit := shading.Phong(shading.MaterialFor(color), s.Point, k.eye, s.Normal, k.lights)
	s.Color = shading.GammaDecode(lit).Vec4(1)
	return s
}
