// Package shading implements the Phong lighting model and the output
// colour transform applied to ray-march hits.
package shading

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"sdf-raymarcher/internal/mathutil"
)

// Lighting constants shared by every shape and light in a frame.
const (
	AmbientLight   = 0.5
	AmbientScale   = 0.2
	Shininess      = 10
	LightIntensity = 0.4
)

// Light is a point light.
type Light struct {
	Position  mgl32.Vec3
	Intensity mgl32.Vec3
}

// Material holds the Phong coefficients for one hit.
type Material struct {
	Ambient   mgl32.Vec3 // k_a
	Diffuse   mgl32.Vec3 // k_d
	Specular  mgl32.Vec3 // k_s
	Shininess float32
}

// MaterialFor derives the coefficients from a shape's flat colour.
func MaterialFor(color mgl32.Vec3) Material {
	return Material{
		Ambient:   color.Mul(AmbientScale),
		Diffuse:   color,
		Specular:  color,
		Shininess: Shininess,
	}
}

// Rig selects a light arrangement.
type Rig int

const (
	// RigFixed is a single static light above and in front of the origin.
	RigFixed Rig = iota
	// RigAnimated orbits two lights with frame time.
	RigAnimated
)

func (r Rig) String() string {
	if r == RigAnimated {
		return "animated"
	}
	return "fixed"
}

// ParseRig maps a config name to a Rig.
func ParseRig(s string) (Rig, bool) {
	switch s {
	case "", "fixed":
		return RigFixed, true
	case "animated":
		return RigAnimated, true
	}
	return RigFixed, false
}

// Lights returns the rig's lights at time t (seconds).
func (r Rig) Lights(t float32) []Light {
	if r == RigAnimated {
		return AnimatedLights(t)
	}
	return FixedLights()
}

// FixedLights is the single static light.
func FixedLights() []Light {
	return []Light{{Position: mgl32.Vec3{0, 2, 4}, Intensity: intensity()}}
}

// AnimatedLights orbits one light around the Y axis and a second, slower
// one around the Z axis.
func AnimatedLights(t float32) []Light {
	return []Light{
		{Position: mgl32.Vec3{4 * math32.Sin(t), 2, 4 * math32.Cos(t)}, Intensity: intensity()},
		{Position: mgl32.Vec3{2 * math32.Sin(0.37*t), 2 * math32.Cos(0.37*t), 2}, Intensity: intensity()},
	}
}

func intensity() mgl32.Vec3 {
	return mgl32.Vec3{LightIntensity, LightIntensity, LightIntensity}
}

// Phong sums the ambient term and every light's diffuse and specular
// contribution at surface point p with unit normal n, viewed from eye.
func Phong(m Material, p, eye, n mgl32.Vec3, lights []Light) mgl32.Vec3 {
	color := m.Ambient.Mul(AmbientLight)
	v := mathutil.Normalize(eye.Sub(p))
	for _, l := range lights {
		color = color.Add(contrib(m, p, n, v, l))
	}
	return color
}

func contrib(m Material, p, n, v mgl32.Vec3, l Light) mgl32.Vec3 {
	ld := mathutil.Normalize(l.Position.Sub(p))
	dotLN := ld.Dot(n)
	if dotLN < 0 {
		// Facing away from the light.
		return mgl32.Vec3{}
	}
	out := m.Diffuse.Mul(dotLN)
	r := mathutil.Normalize(mathutil.Reflect(ld.Mul(-1), n))
	if dotRV := r.Dot(v); dotRV >= 0 {
		out = out.Add(m.Specular.Mul(math32.Pow(dotRV, m.Shininess)))
	}
	return mathutil.MulElem(l.Intensity, out)
}

// GammaDecode applies ((c + 0.055) / 1.055)^2.4 to every channel. This is
// not the piecewise sRGB curve; the unconditional offset is intended.
func GammaDecode(c mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{gamma(c[0]), gamma(c[1]), gamma(c[2])}
}

func gamma(c float32) float32 {
	return math32.Pow((c+0.055)/1.055, 2.4)
}
