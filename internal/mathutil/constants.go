package mathutil

import "math"

// MaxFloat32 mirrors the largest finite float32; used for "unbounded" screen boxes.
const MaxFloat32 = float32(math.MaxFloat32)

// WrapDegrees maps an angle into [0, 360).
func WrapDegrees(a float32) float32 {
	d := float32(math.Mod(float64(a), 360))
	if d < 0 {
		d += 360
	}
	return d
}
