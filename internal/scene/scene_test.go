package scene

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"sdf-raymarcher/internal/mathutil"
)

func testCamera() Camera {
	return Camera{Position: mgl32.Vec4{0, 0, 0, 1}, Orientation: mgl32.Ident4()}
}

var testProj = Projection{FOV: 45, Width: 640, Height: 480}

func TestBuilderCountsAndIndices(t *testing.T) {
	b := NewBuilder()
	b.AddSphere(mgl32.Vec3{0, 0, -3}, 1, mgl32.Vec3{1, 0, 0})
	b.AddPrism(mgl32.Vec3{2, 0, -5}, mgl32.Vec3{1, 1, 1}, mgl32.QuatIdent(), mgl32.Vec3{0, 1, 0})
	b.AddSphere(mgl32.Vec3{-2, 0, -5}, 0.5, mgl32.Vec3{0, 0, 1})

	in := b.Build(testCamera(), testProj, 1.5)
	f := in.Frame
	if f.ShapeCount != 3 || f.SphereCount != 2 || f.PrismCount != 1 {
		t.Fatalf("counts: %+v", f)
	}
	if f.Time != 1.5 || f.Width != 640 || f.Height != 480 {
		t.Fatalf("frame params: %+v", f)
	}
	if in.Shapes[2].Kind != KindSphere || in.Shapes[2].Index != 1 {
		t.Fatalf("third shape: %+v", in.Shapes[2])
	}
	if in.Shapes[1].Kind != KindPrism || in.Shapes[1].Index != 0 {
		t.Fatalf("second shape: %+v", in.Shapes[1])
	}
	if in.Shapes[0].Color != (mgl32.Vec4{1, 0, 0, 1}) {
		t.Fatalf("colour: %v", in.Shapes[0].Color)
	}
	if err := in.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestBuildCopiesTables(t *testing.T) {
	b := NewBuilder()
	h := b.AddSphere(mgl32.Vec3{0, 0, -3}, 1, mgl32.Vec3{1, 1, 1})
	in := b.Build(testCamera(), testProj, 0)
	b.Translate(h, mgl32.Vec3{5, 0, 0})
	if in.Spheres[0].Center != (mgl32.Vec3{0, 0, -3}) {
		t.Fatalf("built inputs changed after builder edit: %v", in.Spheres[0].Center)
	}
}

func TestScreenBoxCentredSphere(t *testing.T) {
	b := NewBuilder()
	b.AddSphere(mgl32.Vec3{0, 0, -3}, 1, mgl32.Vec3{1, 1, 1})
	in := b.Build(testCamera(), testProj, 0)

	box := in.Shapes[0].BoundingBox
	if !in.Shapes[0].Covers(mgl32.Vec2{320, 240}) {
		t.Fatalf("centre pixel outside box %v", box)
	}
	if in.Shapes[0].Covers(mgl32.Vec2{5, 5}) {
		t.Fatalf("corner pixel inside box %v", box)
	}
	// Symmetric about the screen centre.
	if d := (box[0] + box[2]) / 2; d < 319.9 || d > 320.1 {
		t.Fatalf("box not centred horizontally: %v", box)
	}
}

func TestScreenBoxBehindCameraIsUnbounded(t *testing.T) {
	b := NewBuilder()
	b.AddSphere(mgl32.Vec3{0, 0, 0.5}, 1, mgl32.Vec3{1, 1, 1})
	in := b.Build(testCamera(), testProj, 0)
	if in.Shapes[0].BoundingBox != Unbounded {
		t.Fatalf("box: %v", in.Shapes[0].BoundingBox)
	}
}

func TestScreenBoxFollowsPrismRotation(t *testing.T) {
	b := NewBuilder()
	long := mgl32.Vec3{2, 0.1, 0.1}
	b.AddPrism(mgl32.Vec3{0, 0, -10}, long, mgl32.QuatIdent(), mgl32.Vec3{1, 1, 1})
	b.AddPrism(mgl32.Vec3{0, 0, -10}, long, mathutil.EulerToQuat(0, 0, 1.5707964), mgl32.Vec3{1, 1, 1})
	in := b.Build(testCamera(), testProj, 0)

	flat, tall := in.Shapes[0].BoundingBox, in.Shapes[1].BoundingBox
	if flat[2]-flat[0] <= flat[3]-flat[1] {
		t.Fatalf("unrotated prism should be wide: %v", flat)
	}
	if tall[3]-tall[1] <= tall[2]-tall[0] {
		t.Fatalf("rotated prism should be tall: %v", tall)
	}
}

func TestBuilderEdits(t *testing.T) {
	b := NewBuilder()
	s := b.AddSphere(mgl32.Vec3{}, 1, mgl32.Vec3{})
	p := b.AddPrism(mgl32.Vec3{}, mgl32.Vec3{1, 1, 1}, mgl32.QuatIdent(), mgl32.Vec3{})

	b.SetPosition(s, mgl32.Vec3{1, 2, 3})
	b.Translate(p, mgl32.Vec3{0, 0, -1})
	b.SetRotation(s, mathutil.EulerToQuat(1, 0, 0)) // no-op on spheres
	q := mathutil.EulerToQuat(0, 0.5, 0)
	b.Rotate(p, q)
	b.SetColor(p, mgl32.Vec3{0, 1, 0})

	in := b.Build(testCamera(), testProj, 0)
	if in.Spheres[0].Center != (mgl32.Vec3{1, 2, 3}) {
		t.Errorf("sphere centre: %v", in.Spheres[0].Center)
	}
	if in.Prisms[0].Center != (mgl32.Vec3{0, 0, -1}) {
		t.Errorf("prism centre: %v", in.Prisms[0].Center)
	}
	if !in.Prisms[0].Rotation.ApproxEqual(q) {
		t.Errorf("prism rotation: %v", in.Prisms[0].Rotation)
	}
	if in.Shapes[1].Color != (mgl32.Vec4{0, 1, 0, 1}) {
		t.Errorf("prism colour: %v", in.Shapes[1].Color)
	}
	if b.Prism(1) != nil || b.Prism(0) == nil {
		t.Errorf("Prism accessor bounds")
	}
}

func TestValidate(t *testing.T) {
	base := func() *Inputs {
		b := NewBuilder()
		b.AddSphere(mgl32.Vec3{0, 0, -3}, 1, mgl32.Vec3{1, 1, 1})
		b.AddPrism(mgl32.Vec3{0, 0, -6}, mgl32.Vec3{1, 1, 1}, mgl32.QuatIdent(), mgl32.Vec3{1, 1, 1})
		return b.Build(testCamera(), testProj, 0)
	}

	tests := []struct {
		name   string
		mutate func(in *Inputs)
		want   string
	}{
		{"ok", func(in *Inputs) {}, ""},
		{"shape count too large", func(in *Inputs) { in.Frame.ShapeCount = 5 }, "shape count 5 exceeds"},
		{"sphere count too large", func(in *Inputs) { in.Frame.SphereCount = 2 }, "sphere count 2 exceeds"},
		{"prism index", func(in *Inputs) { in.Shapes[1].Index = 3 }, "prism index 3 out of range"},
		{"sphere index", func(in *Inputs) { in.Shapes[0].Index = 1 }, "sphere index 1 out of range"},
		{"inconsistent totals", func(in *Inputs) { in.Frame.ShapeCount = 1 }, "shape count 1 != spheres 1 + prisms 1"},
		{"unknown kind skips totals check", func(in *Inputs) {
			in.Shapes = append(in.Shapes, Shape{Kind: 7})
			in.Frame.ShapeCount = 3
		}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base()
			tt.mutate(in)
			err := in.Validate()
			if tt.want == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("got %v, want error containing %q", err, tt.want)
			}
		})
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	b := NewBuilder()
	b.AddSphere(mgl32.Vec3{0, 0, -3}, 1, mgl32.Vec3{1, 0, 0})
	b.AddPrism(mgl32.Vec3{1, 2, -6}, mgl32.Vec3{1, 0.5, 2}, mathutil.EulerToQuat(0.1, 0.2, 0.3), mgl32.Vec3{0, 1, 0})
	cam := Camera{Position: mgl32.Vec4{1, 2, 3, 1}, Orientation: mathutil.Orientation(30, -10)}
	in := b.Build(cam, testProj, 2.25)

	var buf bytes.Buffer
	if err := EncodeSnapshot(&buf, in); err != nil {
		t.Fatal(err)
	}
	wantLen := 8 + CameraSize + FrameSize + 3*4 + 2*ShapeSize + SphereSize + PrismSize
	if buf.Len() != wantLen {
		t.Fatalf("snapshot size %d, want %d", buf.Len(), wantLen)
	}

	got, err := DecodeSnapshot(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if got.Camera != in.Camera || got.Frame != in.Frame {
		t.Fatalf("uniforms differ:\n got %+v %+v\nwant %+v %+v", got.Camera, got.Frame, in.Camera, in.Frame)
	}
	for i := range in.Shapes {
		if got.Shapes[i] != in.Shapes[i] {
			t.Errorf("shape %d: got %+v want %+v", i, got.Shapes[i], in.Shapes[i])
		}
	}
	if got.Spheres[0] != in.Spheres[0] || got.Prisms[0] != in.Prisms[0] {
		t.Errorf("primitives differ: %+v %+v", got.Spheres, got.Prisms)
	}
}

func TestSnapshotEmptyTablesWritePlaceholders(t *testing.T) {
	in := &Inputs{Camera: testCamera(), Frame: Frame{Width: 4, Height: 4}}
	var buf bytes.Buffer
	if err := EncodeSnapshot(&buf, in); err != nil {
		t.Fatal(err)
	}
	got, err := DecodeSnapshot(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Shapes) != 1 || len(got.Spheres) != 1 || len(got.Prisms) != 1 {
		t.Fatalf("placeholder records: %d %d %d", len(got.Shapes), len(got.Spheres), len(got.Prisms))
	}
	if got.Frame.ShapeCount != 0 {
		t.Fatalf("shape count: %d", got.Frame.ShapeCount)
	}
	if got.Shapes[0].BoundingBox != Unbounded {
		t.Fatalf("placeholder box: %v", got.Shapes[0].BoundingBox)
	}
	if err := got.Validate(); err != nil {
		t.Fatalf("placeholder snapshot should validate: %v", err)
	}
}

func TestDecodeSnapshotErrors(t *testing.T) {
	bad := bytes.Repeat([]byte{0}, 8+CameraSize+FrameSize)
	copy(bad, "NOPE")
	if _, err := DecodeSnapshot(bytes.NewReader(bad)); !errors.Is(err, errBadMagic) {
		t.Fatalf("bad magic: %v", err)
	}
	if _, err := DecodeSnapshot(strings.NewReader("SDFS")); err == nil {
		t.Fatal("truncated header accepted")
	}

	var buf bytes.Buffer
	if err := EncodeSnapshot(&buf, &Inputs{}); err != nil {
		t.Fatal(err)
	}
	head := 8 + CameraSize + FrameSize
	tests := []struct {
		name  string
		count uint32
		want  error
	}{
		{"huge count", 0xFFFFFFFF, errTableTooLong},
		{"past limit", maxTableRecords + 1, errTableTooLong},
		{"short table", 1000, io.ErrUnexpectedEOF},
	}
	for _, tt := range tests {
		data := append([]byte(nil), buf.Bytes()[:head+4]...)
		binary.LittleEndian.PutUint32(data[head:], tt.count)
		if _, err := DecodeSnapshot(bytes.NewReader(data)); !errors.Is(err, tt.want) {
			t.Errorf("%s: got %v, want %v", tt.name, err, tt.want)
		}
	}
}
