// Package scene holds the read-only per-frame inputs of the ray-marching
// kernel and the host-side tooling that produces them.
package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"sdf-raymarcher/internal/mathutil"
	"sdf-raymarcher/internal/sdf"
)

// ShapeKind tags which primitive table a Shape refers to.
type ShapeKind uint32

const (
	KindSphere ShapeKind = 0
	KindPrism  ShapeKind = 1
)

func (k ShapeKind) String() string {
	switch k {
	case KindSphere:
		return "sphere"
	case KindPrism:
		return "prism"
	}
	return "unknown"
}

// Camera is the per-frame camera uniform. Only Position.xyz is used, and
// only the upper-left 3×3 block of Orientation.
type Camera struct {
	Position    mgl32.Vec4
	Orientation mgl32.Mat4
}

// Eye returns the camera position as a 3-vector.
func (c Camera) Eye() mgl32.Vec3 {
	return c.Position.Vec3()
}

// Frame carries the scalar per-frame parameters.
type Frame struct {
	Time        float32
	Width       uint32
	Height      uint32
	ShapeCount  uint32
	SphereCount uint32
	PrismCount  uint32
}

// Size returns the output size as a float vector.
func (f Frame) Size() mgl32.Vec2 {
	return mgl32.Vec2{float32(f.Width), float32(f.Height)}
}

// Shape references one primitive by (Kind, Index) and carries a flat colour
// and a screen-space culling box (min_x, min_y, max_x, max_y).
type Shape struct {
	Color       mgl32.Vec4
	Index       uint32
	Kind        ShapeKind
	BoundingBox mgl32.Vec4
}

// Covers reports whether the pixel coordinate falls inside the shape's
// screen-space box (edges inclusive).
func (s Shape) Covers(pixel mgl32.Vec2) bool {
	b := s.BoundingBox
	return pixel[0] >= b[0] && pixel[0] <= b[2] && pixel[1] >= b[1] && pixel[1] <= b[3]
}

// Unbounded is the whole-screen culling box.
var Unbounded = mgl32.Vec4{-mathutil.MaxFloat32, -mathutil.MaxFloat32, mathutil.MaxFloat32, mathutil.MaxFloat32}

// Inputs bundles everything one kernel invocation reads. It is never
// mutated while a frame is being rendered.
type Inputs struct {
	Camera  Camera
	Frame   Frame
	Shapes  []Shape
	Spheres []sdf.Sphere
	Prisms  []sdf.Prism
}
