package sdf

import (
	"math"
	"testing"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/go-gl/mathgl/mgl32"

	"sdf-raymarcher/internal/mathutil"
)

func near(a, b, tol float32) bool {
	return math.Abs(float64(a-b)) <= float64(tol)
}

func TestSphereDistanceSurfaceAndCenter(t *testing.T) {
	s := Sphere{Center: mgl32.Vec3{1, -2, 3}, Radius: 1.5}

	if got := SphereDistance(s.Center, s); got != -1.5 {
		t.Fatalf("at centre: got %v, want -1.5", got)
	}
	dirs := []mgl32.Vec3{{1, 0, 0}, {0, -1, 0}, {0, 0, 1}, mgl32.Vec3{1, 1, 1}.Normalize()}
	for _, d := range dirs {
		p := s.Center.Add(d.Mul(s.Radius))
		if got := SphereDistance(p, s); !near(got, 0, Epsilon) {
			t.Errorf("surface point %v: got %v", p, got)
		}
	}
}

func TestSphereDistanceMatchesSdfx(t *testing.T) {
	oracle, err := sdf.Sphere3D(2)
	if err != nil {
		t.Fatal(err)
	}
	s := Sphere{Radius: 2}
	for _, p := range []mgl32.Vec3{{0, 0, 0}, {3, 0, 0}, {1, 1, 1}, {-4, 2, 0.5}} {
		want := oracle.Evaluate(v3.Vec{X: float64(p[0]), Y: float64(p[1]), Z: float64(p[2])})
		if got := SphereDistance(p, s); !near(got, float32(want), 1e-5) {
			t.Errorf("p=%v: got %v, sdfx %v", p, got, want)
		}
	}
}

func TestPrismDistanceMatchesSdfxBox(t *testing.T) {
	half := mgl32.Vec3{1, 0.5, 2}
	oracle, err := sdf.Box3D(v3.Vec{X: 2, Y: 1, Z: 4}, 0)
	if err != nil {
		t.Fatal(err)
	}
	pts := []mgl32.Vec3{{0, 0, 0}, {2, 0, 0}, {0.5, 0.25, 1}, {3, 2, -5}, {-1.5, 0.75, 0}}
	for _, p := range pts {
		want := oracle.Evaluate(v3.Vec{X: float64(p[0]), Y: float64(p[1]), Z: float64(p[2])})
		got := PrismDistance(p, mgl32.Vec3{}, half, mgl32.QuatIdent())
		if !near(got, float32(want), 1e-5) {
			t.Errorf("p=%v: got %v, sdfx %v", p, got, want)
		}
	}
}

func TestPrismDistanceReflectionSymmetric(t *testing.T) {
	half := mgl32.Vec3{1.2, 0.7, 0.3}
	for _, p := range []mgl32.Vec3{{0.1, 0.2, 0.3}, {2, -3, 4}, {-0.5, 0.9, -0.1}, {5, 5, 5}} {
		a := PrismDistance(p, mgl32.Vec3{}, half, mgl32.QuatIdent())
		b := PrismDistance(p.Mul(-1), mgl32.Vec3{}, half, mgl32.QuatIdent())
		if a != b {
			t.Errorf("p=%v: %v != %v", p, a, b)
		}
	}
}

func TestPrismDistanceInsideIsNearestFace(t *testing.T) {
	got := PrismDistance(mgl32.Vec3{0.5, 0, 0}, mgl32.Vec3{}, mgl32.Vec3{1, 2, 3}, mgl32.QuatIdent())
	if !near(got, -0.5, 1e-6) {
		t.Fatalf("got %v, want -0.5", got)
	}
}

func TestPrismDistanceDegenerate(t *testing.T) {
	tiny := mgl32.Vec3{1e-5, 5e-5, 0}
	if got := PrismDistance(mgl32.Vec3{}, mgl32.Vec3{}, tiny, mgl32.QuatIdent()); got != Far {
		t.Fatalf("degenerate prism: got %v, want %v", got, Far)
	}
	// A single thin axis is still geometry.
	flat := mgl32.Vec3{1, 1, 0}
	if got := PrismDistance(mgl32.Vec3{0, 0, 2}, mgl32.Vec3{}, flat, mgl32.QuatIdent()); !near(got, 2, 1e-6) {
		t.Fatalf("flat prism: got %v, want 2", got)
	}
}

func TestPrismDistanceRotationConvention(t *testing.T) {
	// A long thin prism along X with a 45° rotation about Z. The query point
	// is rotated by the quaternion itself (not its conjugate): (1, 1, 0)
	// lands on local (0, √2, 0), outside the thin Y extent. The conjugate
	// would land it on (√2, 0, 0), inside the prism.
	rot := mathutil.EulerToQuat(0, 0, math.Pi/4)
	half := mgl32.Vec3{2, 0.25, 0.25}
	got := PrismDistance(mgl32.Vec3{1, 1, 0}, mgl32.Vec3{}, half, rot)
	want := float32(math.Sqrt2 - 0.25)
	if !near(got, want, 1e-5) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestPrismCenterOffset(t *testing.T) {
	pr := Prism{Center: mgl32.Vec3{0, 0, -5}, HalfExtents: mgl32.Vec3{1, 1, 1}, Rotation: mgl32.QuatIdent()}
	if got := pr.Distance(mgl32.Vec3{0, 0, -2}); !near(got, 2, 1e-6) {
		t.Fatalf("got %v, want 2", got)
	}
}
