package scene

import "fmt"

// Validate runs the range checks the kernel relies on the host for: counts
// within the table lengths, every known shape indexing a live primitive, and
// shape_count == sphere_count + prism_count when every shape is a known kind.
func (in *Inputs) Validate() error {
	f := in.Frame
	if int(f.ShapeCount) > len(in.Shapes) {
		return fmt.Errorf("scene: shape count %d exceeds %d shape records", f.ShapeCount, len(in.Shapes))
	}
	if int(f.SphereCount) > len(in.Spheres) {
		return fmt.Errorf("scene: sphere count %d exceeds %d sphere records", f.SphereCount, len(in.Spheres))
	}
	if int(f.PrismCount) > len(in.Prisms) {
		return fmt.Errorf("scene: prism count %d exceeds %d prism records", f.PrismCount, len(in.Prisms))
	}

	allKnown := true
	for i, s := range in.Shapes[:f.ShapeCount] {
		switch s.Kind {
		case KindSphere:
			if s.Index >= f.SphereCount {
				return fmt.Errorf("scene: shape %d: sphere index %d out of range (%d spheres)", i, s.Index, f.SphereCount)
			}
		case KindPrism:
			if s.Index >= f.PrismCount {
				return fmt.Errorf("scene: shape %d: prism index %d out of range (%d prisms)", i, s.Index, f.PrismCount)
			}
		default:
			allKnown = false
		}
	}
	if allKnown && f.ShapeCount != f.SphereCount+f.PrismCount {
		return fmt.Errorf("scene: shape count %d != spheres %d + prisms %d", f.ShapeCount, f.SphereCount, f.PrismCount)
	}
	return nil
}
