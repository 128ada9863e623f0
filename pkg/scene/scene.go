package scene

import (
	"sort"

	"github.com/matzehuels/stepmotion/pkg/errors"
)

// =============================================================================
// Scene
// =============================================================================

// Size is a canvas extent in CSS pixels.
type Size struct {
	Width  float64
	Height float64
}

// Scene is a flat, resolution-independent description of one rendered
// moment: canvas dimensions, a background color, and an ordered list of
// primitives. Scenes carry no behavior and no references to the trace that
// produced them, so they can be cached, serialized and diffed freely.
type Scene struct {
	Width      float64
	Height     float64
	Background Color
	Primitives []Primitive
}

// New creates an empty scene with the given canvas size and background.
func New(width, height float64, background Color) *Scene {
	return &Scene{Width: width, Height: height, Background: background}
}

// Add appends primitives in emission order.
func (s *Scene) Add(ps ...Primitive) {
	s.Primitives = append(s.Primitives, ps...)
}

// Len reports the number of primitives.
func (s *Scene) Len() int { return len(s.Primitives) }

// ByID returns the primitive with the given id, or nil.
func (s *Scene) ByID(id string) Primitive {
	for _, p := range s.Primitives {
		if p.Meta().ID == id {
			return p
		}
	}
	return nil
}

// IDs returns the set of primitive ids.
func (s *Scene) IDs() map[string]bool {
	ids := make(map[string]bool, len(s.Primitives))
	for _, p := range s.Primitives {
		ids[p.Meta().ID] = true
	}
	return ids
}

// PaintOrder returns the primitives sorted by ascending z-index. The sort
// is stable, so primitives sharing a z-index keep their emission order.
// The receiver's own slice is left untouched.
func (s *Scene) PaintOrder() []Primitive {
	out := make([]Primitive, len(s.Primitives))
	copy(out, s.Primitives)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Meta().Z < out[j].Meta().Z
	})
	return out
}

// Validate checks structural invariants: positive dimensions, unique
// non-empty primitive ids, and opacities within [0,1]. Layouts are expected
// to always produce valid scenes; a failure here is a bug in the layout.
func (s *Scene) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return errors.New(errors.ErrCodeInternal, "scene dimensions must be positive, got %gx%g", s.Width, s.Height)
	}
	seen := make(map[string]bool, len(s.Primitives))
	for i, p := range s.Primitives {
		meta := p.Meta()
		if meta.ID == "" {
			return errors.New(errors.ErrCodeInternal, "primitive %d has empty id", i)
		}
		if seen[meta.ID] {
			return errors.New(errors.ErrCodeInternal, "duplicate primitive id %q", meta.ID)
		}
		seen[meta.ID] = true
		if meta.Opacity < 0 || meta.Opacity > 1 {
			return errors.New(errors.ErrCodeInternal, "primitive %q opacity %g outside [0,1]", meta.ID, meta.Opacity)
		}
	}
	return nil
}
