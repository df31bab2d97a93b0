package mathutil

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// EulerToQuat converts Euler XYZ (radians) to a unit quaternion.
func EulerToQuat(rx, ry, rz float32) mgl32.Quat {
	cx, sx := math32.Cos(rx*0.5), math32.Sin(rx*0.5)
	cy, sy := math32.Cos(ry*0.5), math32.Sin(ry*0.5)
	cz, sz := math32.Cos(rz*0.5), math32.Sin(rz*0.5)

	return mgl32.Quat{
		W: cx*cy*cz + sx*sy*sz,
		V: mgl32.Vec3{
			sx*cy*cz - cx*sy*sz, // x
			cx*sy*cz + sx*cy*sz, // y
			cx*cy*sz - sx*sy*cz, // z
		},
	}
}

// RotateVec applies v' = v + 2w(q×v) + 2q×(q×v) with the vector part used as-is.
// Prism distances depend on this exact form; do not substitute the conjugate.
func RotateVec(q mgl32.Quat, v mgl32.Vec3) mgl32.Vec3 {
	t := q.V.Cross(v)
	return v.Add(t.Mul(2 * q.W)).Add(q.V.Cross(t).Mul(2))
}

// QuatFromVec4 unpacks a quaternion stored as (x, y, z, w).
func QuatFromVec4(v mgl32.Vec4) mgl32.Quat {
	return mgl32.Quat{W: v[3], V: mgl32.Vec3{v[0], v[1], v[2]}}
}

// QuatToVec4 packs a quaternion as (x, y, z, w).
func QuatToVec4(q mgl32.Quat) mgl32.Vec4 {
	return mgl32.Vec4{q.V[0], q.V[1], q.V[2], q.W}
}
