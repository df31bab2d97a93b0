package mathutil

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Deg2Rad converts degrees to radians.
func Deg2Rad(d float32) float32 {
	return d * math.Pi / 180
}

// Orientation builds the camera orientation matrix from yaw (about +Y) and
// pitch (about +X), both in degrees. Only the upper-left 3×3 block is
// meaningful; the translation column is zero.
func Orientation(yawDeg, pitchDeg float32) mgl32.Mat4 {
	yaw := mgl32.HomogRotate3DY(Deg2Rad(yawDeg))
	pitch := mgl32.HomogRotate3DX(Deg2Rad(pitchDeg))
	return yaw.Mul4(pitch)
}

// Basis returns the 3×3 rotation block of a 4×4 orientation matrix, columns as-is.
func Basis(m mgl32.Mat4) mgl32.Mat3 {
	return m.Mat3()
}

// FocalLength is the distance of the virtual image plane for a vertical
// field of view in degrees and a screen height in pixels.
func FocalLength(fovDeg, height float32) float32 {
	return (height / 2) / math32.Tan(Deg2Rad(fovDeg)/2)
}
