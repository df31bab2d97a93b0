// Package animate turns a resolved scene configuration into the kernel
// inputs for each frame of a sequence.
package animate

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"sdf-raymarcher/internal/config"
	"sdf-raymarcher/internal/mathutil"
	"sdf-raymarcher/internal/scene"
	"sdf-raymarcher/internal/video"
)

// Animator produces per-frame inputs. It holds no per-frame state, so
// Frame may be called from several goroutines at once.
type Animator struct {
	cfg  config.Config
	grid *video.Sequence
}

// New prepares an animator for cfg, which must already be resolved. A grid
// clip is loaded through videos.
func New(cfg config.Config, videos *video.Cache) (*Animator, error) {
	a := &Animator{cfg: cfg}
	if g := cfg.Grid; g != nil {
		seq, err := videos.Get(g.Dir, g.Cols, g.Rows)
		if err != nil {
			return nil, err
		}
		a.grid = seq
	}
	return a, nil
}

// Time returns the scene time of frame n in seconds.
func (a *Animator) Time(n int) float32 {
	return float32(n) / a.cfg.FPS
}

// Camera returns the camera at time t.
func (a *Animator) Camera(t float32) scene.Camera {
	c := a.cfg
	if o := c.Orbit; o != nil {
		angle := mathutil.WrapDegrees(o.Speed * t)
		rad := mathutil.Deg2Rad(angle)
		target := mgl32.Vec3(o.Target)
		pos := target.Add(mgl32.Vec3{o.Radius * math32.Sin(rad), o.Height, o.Radius * math32.Cos(rad)})
		pitch := -math32.Atan2(o.Height, o.Radius) * 180 / math32.Pi
		return scene.Camera{Position: pos.Vec4(1), Orientation: mathutil.Orientation(angle, pitch)}
	}
	return scene.Camera{
		Position:    mgl32.Vec3(c.CameraPos).Vec4(1),
		Orientation: mathutil.Orientation(c.Yaw, c.Pitch),
	}
}

// Scene builds the shape tables at time t. Spheres come first, then the
// configured prisms, then the grid prisms in x-major order.
func (a *Animator) Scene(t float32) *scene.Builder {
	b := scene.NewBuilder()
	for _, s := range a.cfg.Spheres {
		b.AddSphere(s.Center, s.Radius, s.Color)
	}
	for _, p := range a.cfg.Prisms {
		b.AddPrism(p.Center, p.HalfExtents, spin(p.Rotation, p.Spin, t), p.Color)
	}
	if g := a.cfg.Grid; g != nil {
		a.addGrid(b, g, t)
	}
	return b
}

// spin returns the orientation for Euler angles rot advanced by rate·t,
// all in degrees.
func spin(rot, rate [3]float32, t float32) mgl32.Quat {
	var r [3]float32
	for i := range r {
		r[i] = mathutil.Deg2Rad(mathutil.WrapDegrees(rot[i] + rate[i]*t))
	}
	return mathutil.EulerToQuat(r[0], r[1], r[2])
}

func (a *Animator) addGrid(b *scene.Builder, g *config.Grid, t float32) {
	frame := a.grid.FrameIndex(t, g.FPS)
	origin := mgl32.Vec3(g.Origin)
	for x := 0; x < g.Cols; x++ {
		for y := 0; y < g.Rows; y++ {
			v := a.grid.Value(frame, x, y)
			center := origin.Add(mgl32.Vec3{float32(x) * g.Spacing, float32(y) * g.Spacing, 0})
			color := mgl32.Vec3{0.2 + float32(x)*0.04, 0.2 + float32(y)*0.04, 0.2}
			b.AddPrism(center, mgl32.Vec3{v, v, v}, mgl32.QuatIdent(), color)
		}
	}
}

// Projection returns the pinhole model for the configured output.
func (a *Animator) Projection() scene.Projection {
	return scene.Projection{FOV: a.cfg.FOV, Width: uint32(a.cfg.Width), Height: uint32(a.cfg.Height)}
}

// Frame returns the kernel inputs for frame n.
func (a *Animator) Frame(n int) *scene.Inputs {
	t := a.Time(n)
	return a.Scene(t).Build(a.Camera(t), a.Projection(), t)
}
