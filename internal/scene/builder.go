package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"sdf-raymarcher/internal/mathutil"
	"sdf-raymarcher/internal/sdf"
)

// Projection is the pinhole model shared with the kernel's ray generator.
type Projection struct {
	FOV    float32 // vertical, degrees
	Width  uint32
	Height uint32
}

// Handle identifies a shape added to a Builder (its position in shape order).
type Handle int

type shapeEntry struct {
	kind  ShapeKind
	index uint32
	color mgl32.Vec3
}

// Builder assembles shapes and their primitive tables in insertion order.
// Not safe for concurrent use; hand the result of Build to the renderer.
type Builder struct {
	shapes  []shapeEntry
	spheres []sdf.Sphere
	prisms  []sdf.Prism
}

// NewBuilder returns an empty scene builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// AddSphere appends a sphere shape.
func (b *Builder) AddSphere(center mgl32.Vec3, radius float32, color mgl32.Vec3) Handle {
	b.shapes = append(b.shapes, shapeEntry{kind: KindSphere, index: uint32(len(b.spheres)), color: color})
	b.spheres = append(b.spheres, sdf.Sphere{Center: center, Radius: radius})
	return Handle(len(b.shapes) - 1)
}

// AddPrism appends an oriented prism shape.
func (b *Builder) AddPrism(center, half mgl32.Vec3, rot mgl32.Quat, color mgl32.Vec3) Handle {
	b.shapes = append(b.shapes, shapeEntry{kind: KindPrism, index: uint32(len(b.prisms)), color: color})
	b.prisms = append(b.prisms, sdf.Prism{Center: center, HalfExtents: half, Rotation: rot})
	return Handle(len(b.shapes) - 1)
}

// Len returns the number of shapes.
func (b *Builder) Len() int { return len(b.shapes) }

// PrismCount returns the number of prisms added so far.
func (b *Builder) PrismCount() int { return len(b.prisms) }

// Kind returns the primitive kind behind h.
func (b *Builder) Kind(h Handle) ShapeKind { return b.shapes[h].kind }

// Prism returns the n-th prism (prism-table order) for in-place edits.
func (b *Builder) Prism(n int) *sdf.Prism {
	if n < 0 || n >= len(b.prisms) {
		return nil
	}
	return &b.prisms[n]
}

// Translate moves a shape by d.
func (b *Builder) Translate(h Handle, d mgl32.Vec3) {
	e := b.shapes[h]
	switch e.kind {
	case KindSphere:
		s := &b.spheres[e.index]
		s.Center = s.Center.Add(d)
	case KindPrism:
		p := &b.prisms[e.index]
		p.Center = p.Center.Add(d)
	}
}

// SetPosition moves a shape's centre to pos.
func (b *Builder) SetPosition(h Handle, pos mgl32.Vec3) {
	e := b.shapes[h]
	switch e.kind {
	case KindSphere:
		b.spheres[e.index].Center = pos
	case KindPrism:
		b.prisms[e.index].Center = pos
	}
}

// SetPrismExtents replaces a prism's half-extents. Spheres are unaffected.
func (b *Builder) SetPrismExtents(h Handle, half mgl32.Vec3) {
	if e := b.shapes[h]; e.kind == KindPrism {
		b.prisms[e.index].HalfExtents = half
	}
}

// SetRotation replaces a prism's orientation. Spheres ignore rotation.
func (b *Builder) SetRotation(h Handle, q mgl32.Quat) {
	if e := b.shapes[h]; e.kind == KindPrism {
		b.prisms[e.index].Rotation = q
	}
}

// Rotate post-multiplies a prism's orientation by q. Spheres ignore rotation.
func (b *Builder) Rotate(h Handle, q mgl32.Quat) {
	if e := b.shapes[h]; e.kind == KindPrism {
		p := &b.prisms[e.index]
		p.Rotation = p.Rotation.Mul(q)
	}
}

// SetColor replaces a shape's colour.
func (b *Builder) SetColor(h Handle, c mgl32.Vec3) {
	b.shapes[h].color = c
}

// Build snapshots the builder into kernel inputs for one frame. Counts are
// filled so that ShapeCount == SphereCount + PrismCount, and every shape gets
// a screen-space box projected with the same pinhole model the kernel uses.
func (b *Builder) Build(cam Camera, proj Projection, time float32) *Inputs {
	in := &Inputs{
		Camera: cam,
		Frame: Frame{
			Time:        time,
			Width:       proj.Width,
			Height:      proj.Height,
			ShapeCount:  uint32(len(b.shapes)),
			SphereCount: uint32(len(b.spheres)),
			PrismCount:  uint32(len(b.prisms)),
		},
		Shapes:  make([]Shape, len(b.shapes)),
		Spheres: append([]sdf.Sphere(nil), b.spheres...),
		Prisms:  append([]sdf.Prism(nil), b.prisms...),
	}
	for i, e := range b.shapes {
		var corners [8]mgl32.Vec3
		switch e.kind {
		case KindSphere:
			s := b.spheres[e.index]
			r := mgl32.Vec3{s.Radius, s.Radius, s.Radius}
			corners = boxCorners(s.Center, r, mgl32.QuatIdent())
		case KindPrism:
			p := b.prisms[e.index]
			// The kernel maps world offsets to local with Rotation, so
			// local corners go back to world with its conjugate.
			corners = boxCorners(p.Center, p.HalfExtents, p.Rotation.Conjugate())
		}
		in.Shapes[i] = Shape{
			Color:       e.color.Vec4(1),
			Index:       e.index,
			Kind:        e.kind,
			BoundingBox: ScreenBox(corners[:], cam, proj),
		}
	}
	return in
}

func boxCorners(center, half mgl32.Vec3, rot mgl32.Quat) [8]mgl32.Vec3 {
	var out [8]mgl32.Vec3
	for i := 0; i < 8; i++ {
		local := mgl32.Vec3{half[0], half[1], half[2]}
		if i&1 != 0 {
			local[0] = -local[0]
		}
		if i&2 != 0 {
			local[1] = -local[1]
		}
		if i&4 != 0 {
			local[2] = -local[2]
		}
		out[i] = center.Add(mathutil.RotateVec(rot, local))
	}
	return out
}

// ScreenBox projects world points into pixel coordinates and returns their
// bounding rectangle. Any point at or behind the camera plane makes the
// projection unbounded, so the whole screen is returned.
func ScreenBox(points []mgl32.Vec3, cam Camera, proj Projection) mgl32.Vec4 {
	basisT := mathutil.Basis(cam.Orientation).Transpose()
	focal := mathutil.FocalLength(proj.FOV, float32(proj.Height))
	half := mgl32.Vec2{float32(proj.Width) / 2, float32(proj.Height) / 2}
	eye := cam.Eye()

	box := mgl32.Vec4{mathutil.MaxFloat32, mathutil.MaxFloat32, -mathutil.MaxFloat32, -mathutil.MaxFloat32}
	for _, p := range points {
		q := basisT.Mul3x1(p.Sub(eye))
		if q[2] > -sdf.Epsilon {
			return Unbounded
		}
		s := focal / -q[2]
		x := half[0] + q[0]*s
		y := half[1] + q[1]*s
		box[0] = min(box[0], x)
		box[1] = min(box[1], y)
		box[2] = max(box[2], x)
		box[3] = max(box[3], y)
	}
	return box
}
