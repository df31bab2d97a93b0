package scene

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"sdf-raymarcher/internal/mathutil"
	"sdf-raymarcher/internal/sdf"
)

// Record sizes of the GPU buffer layout (std430-style padding).
const (
	CameraSize = 80 // vec4 + mat4
	FrameSize  = 24 // f32 + 5×u32
	ShapeSize  = 48 // vec4 color, u32 index, u32 type, u32 flags, pad, vec4 box
	SphereSize = 16 // vec4 (center.xyz, radius)
	PrismSize  = 48 // vec3+pad center, vec3+pad size, vec4 rotation (x, y, z, w)

	snapshotMagic   = "SDFS"
	snapshotVersion = 1

	flagEnabled = 1

	// maxTableRecords caps each decoded table.
	maxTableRecords = 1 << 20
)

var (
	errBadMagic     = errors.New("snapshot: bad magic")
	errTableTooLong = errors.New("snapshot: table too long")
)

// Default records written in place of an empty table; GPU buffers cannot be
// zero-sized.
var (
	defaultShape = Shape{
		Index:       math.MaxUint32,
		Kind:        ShapeKind(math.MaxUint32),
		BoundingBox: Unbounded,
	}
	defaultSphere = sdf.Sphere{Radius: 1}
	defaultPrism  = sdf.Prism{HalfExtents: mgl32.Vec3{1, 1, 1}, Rotation: mgl32.QuatIdent()}
)

// ShapeBuffer serialises the shape table.
func ShapeBuffer(shapes []Shape) []byte {
	if len(shapes) == 0 {
		shapes = []Shape{defaultShape}
	}
	buf := make([]byte, 0, len(shapes)*ShapeSize)
	for _, s := range shapes {
		buf = putVec(buf, s.Color[:]...)
		buf = binary.LittleEndian.AppendUint32(buf, s.Index)
		buf = binary.LittleEndian.AppendUint32(buf, uint32(s.Kind))
		flags := uint32(flagEnabled)
		if s == defaultShape {
			flags = 0
		}
		buf = binary.LittleEndian.AppendUint32(buf, flags)
		buf = putVec(buf, 0)
		buf = putVec(buf, s.BoundingBox[:]...)
	}
	return buf
}

// SphereBuffer serialises the sphere table.
func SphereBuffer(spheres []sdf.Sphere) []byte {
	if len(spheres) == 0 {
		spheres = []sdf.Sphere{defaultSphere}
	}
	buf := make([]byte, 0, len(spheres)*SphereSize)
	for _, s := range spheres {
		buf = putVec(buf, s.Center[0], s.Center[1], s.Center[2], s.Radius)
	}
	return buf
}

// PrismBuffer serialises the prism table.
func PrismBuffer(prisms []sdf.Prism) []byte {
	if len(prisms) == 0 {
		prisms = []sdf.Prism{defaultPrism}
	}
	buf := make([]byte, 0, len(prisms)*PrismSize)
	for _, p := range prisms {
		buf = putVec(buf, p.Center[0], p.Center[1], p.Center[2], 0)
		buf = putVec(buf, p.HalfExtents[0], p.HalfExtents[1], p.HalfExtents[2], 0)
		r := mathutil.QuatToVec4(p.Rotation)
		buf = putVec(buf, r[:]...)
	}
	return buf
}

// CameraBuffer serialises the camera uniform (matrix column-major).
func CameraBuffer(c Camera) []byte {
	buf := make([]byte, 0, CameraSize)
	buf = putVec(buf, c.Position[:]...)
	return putVec(buf, c.Orientation[:]...)
}

// ConfigBuffer serialises the config uniform.
func ConfigBuffer(f Frame) []byte {
	buf := make([]byte, 0, FrameSize)
	buf = putVec(buf, f.Time)
	for _, v := range []uint32{f.Width, f.Height, f.ShapeCount, f.SphereCount, f.PrismCount} {
		buf = binary.LittleEndian.AppendUint32(buf, v)
	}
	return buf
}

func putVec(buf []byte, vs ...float32) []byte {
	for _, v := range vs {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
	}
	return buf
}

// EncodeSnapshot writes a self-describing frame snapshot: magic, version,
// camera, config, then the three tables each prefixed by its record count.
func EncodeSnapshot(w io.Writer, in *Inputs) error {
	bw := bufio.NewWriter(w)
	head := []byte(snapshotMagic)
	head = binary.LittleEndian.AppendUint32(head, snapshotVersion)
	head = append(head, CameraBuffer(in.Camera)...)
	head = append(head, ConfigBuffer(in.Frame)...)
	if _, err := bw.Write(head); err != nil {
		return fmt.Errorf("snapshot: write header: %w", err)
	}

	tables := []struct {
		name string
		data []byte
		size int
	}{
		{"shapes", ShapeBuffer(in.Shapes), ShapeSize},
		{"spheres", SphereBuffer(in.Spheres), SphereSize},
		{"prisms", PrismBuffer(in.Prisms), PrismSize},
	}
	for _, t := range tables {
		n := binary.LittleEndian.AppendUint32(nil, uint32(len(t.data)/t.size))
		if _, err := bw.Write(n); err != nil {
			return fmt.Errorf("snapshot: write %s count: %w", t.name, err)
		}
		if _, err := bw.Write(t.data); err != nil {
			return fmt.Errorf("snapshot: write %s: %w", t.name, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("snapshot: flush: %w", err)
	}
	return nil
}

// DecodeSnapshot reads a snapshot written by EncodeSnapshot. Placeholder
// records for empty tables are returned as-is; the frame counts stay zero.
func DecodeSnapshot(r io.Reader) (*Inputs, error) {
	br := bufio.NewReader(r)
	head := make([]byte, 8+CameraSize+FrameSize)
	if _, err := io.ReadFull(br, head); err != nil {
		return nil, fmt.Errorf("snapshot: read header: %w", err)
	}
	if string(head[:4]) != snapshotMagic {
		return nil, errBadMagic
	}
	if v := binary.LittleEndian.Uint32(head[4:8]); v != snapshotVersion {
		return nil, fmt.Errorf("snapshot: unsupported version %d", v)
	}

	in := &Inputs{}
	cam := head[8 : 8+CameraSize]
	copy(in.Camera.Position[:], getVec(cam[:16], 4))
	copy(in.Camera.Orientation[:], getVec(cam[16:], 16))

	fr := head[8+CameraSize:]
	in.Frame = Frame{
		Time:        math.Float32frombits(binary.LittleEndian.Uint32(fr[0:4])),
		Width:       binary.LittleEndian.Uint32(fr[4:8]),
		Height:      binary.LittleEndian.Uint32(fr[8:12]),
		ShapeCount:  binary.LittleEndian.Uint32(fr[12:16]),
		SphereCount: binary.LittleEndian.Uint32(fr[16:20]),
		PrismCount:  binary.LittleEndian.Uint32(fr[20:24]),
	}

	shapes, err := readTable(br, "shapes", ShapeSize)
	if err != nil {
		return nil, err
	}
	for off := 0; off < len(shapes); off += ShapeSize {
		rec := shapes[off : off+ShapeSize]
		var s Shape
		copy(s.Color[:], getVec(rec[0:16], 4))
		s.Index = binary.LittleEndian.Uint32(rec[16:20])
		s.Kind = ShapeKind(binary.LittleEndian.Uint32(rec[20:24]))
		copy(s.BoundingBox[:], getVec(rec[32:48], 4))
		in.Shapes = append(in.Shapes, s)
	}

	spheres, err := readTable(br, "spheres", SphereSize)
	if err != nil {
		return nil, err
	}
	for off := 0; off < len(spheres); off += SphereSize {
		v := getVec(spheres[off:off+SphereSize], 4)
		in.Spheres = append(in.Spheres, sdf.Sphere{Center: mgl32.Vec3{v[0], v[1], v[2]}, Radius: v[3]})
	}

	prisms, err := readTable(br, "prisms", PrismSize)
	if err != nil {
		return nil, err
	}
	for off := 0; off < len(prisms); off += PrismSize {
		v := getVec(prisms[off:off+PrismSize], 12)
		in.Prisms = append(in.Prisms, sdf.Prism{
			Center:      mgl32.Vec3{v[0], v[1], v[2]},
			HalfExtents: mgl32.Vec3{v[4], v[5], v[6]},
			Rotation:    mathutil.QuatFromVec4(mgl32.Vec4{v[8], v[9], v[10], v[11]}),
		})
	}
	return in, nil
}

func readTable(r io.Reader, name string, size int) ([]byte, error) {
	var n [4]byte
	if _, err := io.ReadFull(r, n[:]); err != nil {
		return nil, fmt.Errorf("snapshot: read %s count: %w", name, err)
	}
	count := binary.LittleEndian.Uint32(n[:])
	if count > maxTableRecords {
		return nil, fmt.Errorf("snapshot: %s count %d: %w", name, count, errTableTooLong)
	}
	// The buffer grows with the bytes actually read, so a short stream
	// fails before the full table is allocated.
	var data bytes.Buffer
	if _, err := io.CopyN(&data, r, int64(count)*int64(size)); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("snapshot: read %s: %w", name, err)
	}
	return data.Bytes(), nil
}

func getVec(b []byte, n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return out
}
