// Package export tessellates a frame's shapes into a triangle mesh with
// sdfx and writes it as binary STL.
package export

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/go-gl/mathgl/mgl32"

	"sdf-raymarcher/internal/scene"
	sdist "sdf-raymarcher/internal/sdf"
)

// DefaultCells is the marching-cubes resolution along the longest axis.
const DefaultCells = 200

// Solid adapts a frame's primitive tables to sdf.SDF3. It is the plain
// union of every live shape in world space: no screen-box culling, no
// distance sentinel.
type Solid struct {
	in *scene.Inputs
	bb sdf.Box3
}

var _ sdf.SDF3 = (*Solid)(nil)

// NewSolid builds the union of the shapes in in. It fails when no shape
// has any extent.
func NewSolid(in *scene.Inputs) (*Solid, error) {
	s := &Solid{in: in}
	lo := v3.Vec{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	hi := v3.Vec{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	live := 0
	for _, sh := range s.shapes() {
		c, r, ok := s.bounds(sh)
		if !ok {
			continue
		}
		live++
		lo = v3.Vec{X: math.Min(lo.X, c.X-r), Y: math.Min(lo.Y, c.Y-r), Z: math.Min(lo.Z, c.Z-r)}
		hi = v3.Vec{X: math.Max(hi.X, c.X+r), Y: math.Max(hi.Y, c.Y+r), Z: math.Max(hi.Z, c.Z+r)}
	}
	if live == 0 {
		return nil, fmt.Errorf("export: scene has no solid shapes")
	}
	// Pad so the surface never touches the sampling grid boundary.
	pad := 0.05 * math.Max(hi.X-lo.X, math.Max(hi.Y-lo.Y, hi.Z-lo.Z))
	s.bb = sdf.Box3{
		Min: v3.Vec{X: lo.X - pad, Y: lo.Y - pad, Z: lo.Z - pad},
		Max: v3.Vec{X: hi.X + pad, Y: hi.Y + pad, Z: hi.Z + pad},
	}
	return s, nil
}

func (s *Solid) shapes() []scene.Shape {
	return s.in.Shapes[:s.in.Frame.ShapeCount]
}

// bounds returns a bounding sphere for sh; ok is false for shapes that
// contribute nothing.
func (s *Solid) bounds(sh scene.Shape) (v3.Vec, float64, bool) {
	switch sh.Kind {
	case scene.KindSphere:
		sp := s.in.Spheres[sh.Index]
		return toV3(sp.Center), float64(sp.Radius), sp.Radius > 0
	case scene.KindPrism:
		p := s.in.Prisms[sh.Index]
		if degenerate(p.HalfExtents) {
			return v3.Vec{}, 0, false
		}
		return toV3(p.Center), float64(p.HalfExtents.Len()), true
	}
	return v3.Vec{}, 0, false
}

func degenerate(h mgl32.Vec3) bool {
	return h[0] < sdist.DegenerateExtent && h[1] < sdist.DegenerateExtent && h[2] < sdist.DegenerateExtent
}

// Evaluate returns the union distance at p over the shapes that have
// bounds; zero-radius spheres and degenerate prisms are skipped.
func (s *Solid) Evaluate(p v3.Vec) float64 {
	q := mgl32.Vec3{float32(p.X), float32(p.Y), float32(p.Z)}
	d := math.Inf(1)
	for _, sh := range s.shapes() {
		if _, _, ok := s.bounds(sh); !ok {
			continue
		}
		switch sh.Kind {
		case scene.KindSphere:
			d = math.Min(d, float64(s.in.Spheres[sh.Index].Distance(q)))
		case scene.KindPrism:
			d = math.Min(d, float64(s.in.Prisms[sh.Index].Distance(q)))
		}
	}
	return d
}

// BoundingBox returns the padded box enclosing every live shape.
func (s *Solid) BoundingBox() sdf.Box3 {
	return s.bb
}

func toV3(v mgl32.Vec3) v3.Vec {
	return v3.Vec{X: float64(v[0]), Y: float64(v[1]), Z: float64(v[2])}
}

// Triangle is one mesh face in single precision.
type Triangle struct {
	Normal   mgl32.Vec3
	Vertices [3]mgl32.Vec3
}

// Mesh tessellates s with uniform marching cubes.
func Mesh(s sdf.SDF3, cells int) []Triangle {
	if cells <= 0 {
		cells = DefaultCells
	}
	tris := render.ToTriangles(s, render.NewMarchingCubesUniform(cells))
	out := make([]Triangle, 0, len(tris))
	for _, tri := range tris {
		n := tri.Normal()
		t := Triangle{Normal: mgl32.Vec3{float32(n.X), float32(n.Y), float32(n.Z)}}
		for j := 0; j < 3; j++ {
			v := tri[j]
			t.Vertices[j] = mgl32.Vec3{float32(v.X), float32(v.Y), float32(v.Z)}
		}
		out = append(out, t)
	}
	return out
}

// WriteSTL writes tris as binary STL.
func WriteSTL(w io.Writer, tris []Triangle) error {
	bw := bufio.NewWriter(w)
	var header [80]byte
	copy(header[:], "sdf-raymarcher")
	if _, err := bw.Write(header[:]); err != nil {
		return fmt.Errorf("export: write header: %w", err)
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(len(tris))); err != nil {
		return fmt.Errorf("export: write count: %w", err)
	}
	var rec [50]byte
	for _, t := range tris {
		putVec3(rec[0:], t.Normal)
		for j, v := range t.Vertices {
			putVec3(rec[12+12*j:], v)
		}
		// rec[48:50] is the attribute byte count, always zero.
		if _, err := bw.Write(rec[:]); err != nil {
			return fmt.Errorf("export: write triangle: %w", err)
		}
	}
	return bw.Flush()
}

func putVec3(b []byte, v mgl32.Vec3) {
	for i := 0; i < 3; i++ {
		binary.LittleEndian.PutUint32(b[4*i:], math.Float32bits(v[i]))
	}
}

// SaveSTL tessellates in and writes the mesh to path. It returns the
// triangle count.
func SaveSTL(path string, in *scene.Inputs, cells int) (int, error) {
	solid, err := NewSolid(in)
	if err != nil {
		return 0, err
	}
	tris := Mesh(solid, cells)

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("export: create %s: %w", path, err)
	}
	if err := WriteSTL(f, tris); err != nil {
		f.Close()
		return 0, err
	}
	return len(tris), f.Close()
}
