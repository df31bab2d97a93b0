// Package sdf holds the signed distance functions of the two supported
// primitives. Distances are negative inside, zero on the surface and
// positive outside.
package sdf

import (
	"github.com/go-gl/mathgl/mgl32"

	"sdf-raymarcher/internal/mathutil"
)

const (
	// Epsilon is the convergence tolerance shared by the tracer and the
	// normal estimator.
	Epsilon = 1e-4

	// Far is the sentinel "nothing here" distance.
	Far = 100.0

	// DegenerateExtent is the half-extent below which a prism axis counts as empty.
	DegenerateExtent = 1e-4
)

// Sphere is a centre plus radius, packed as a vec4 on the wire.
type Sphere struct {
	Center mgl32.Vec3
	Radius float32
}

// Prism is an oriented rectangular prism.
type Prism struct {
	Center      mgl32.Vec3
	HalfExtents mgl32.Vec3
	Rotation    mgl32.Quat
}

// SphereDistance is exact: |p - c| - r.
func SphereDistance(p mgl32.Vec3, s Sphere) float32 {
	return p.Sub(s.Center).Len() - s.Radius
}

// PrismDistance evaluates the box SDF in the prism's local frame. A prism
// whose half-extents are all below DegenerateExtent is absent and reports Far.
func PrismDistance(p, center, half mgl32.Vec3, rot mgl32.Quat) float32 {
	if half[0] < DegenerateExtent && half[1] < DegenerateExtent && half[2] < DegenerateExtent {
		return Far
	}
	local := mathutil.RotateVec(rot, p.Sub(center))
	d := mathutil.AbsElem(local).Sub(half)
	outside := mathutil.MaxElem(d, mgl32.Vec3{}).Len()
	inside := mathutil.MaxComponent(d)
	if inside > 0 {
		inside = 0
	}
	return outside + inside
}

// Distance is PrismDistance on a Prism value.
func (pr Prism) Distance(p mgl32.Vec3) float32 {
	return PrismDistance(p, pr.Center, pr.HalfExtents, pr.Rotation)
}

// Distance is SphereDistance on a Sphere value.
func (s Sphere) Distance(p mgl32.Vec3) float32 {
	return SphereDistance(p, s)
}
