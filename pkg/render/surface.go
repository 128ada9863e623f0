package render

import (
	"image"
	"math"

	"github.com/fogleman/gg"

	"github.com/matzehuels/stepmotion/pkg/errors"
	"github.com/matzehuels/stepmotion/pkg/scene"
)

// maxSurfacePixels caps the physical pixel count of a single surface.
// A 4K canvas at 3x pixel ratio stays well below it; anything larger is
// a malformed request, not a rendering target.
const maxSurfacePixels = 64 << 20

// Surface is one DPR-correct drawing target: a raster context whose
// physical pixel size is ceil(CSS size × device pixel ratio), with the
// context transform scaled by the ratio so callers draw in CSS
// coordinates throughout.
//
// gg transforms path geometry through the context matrix but not stroke
// widths, dash lengths or glyph sizes, so consumers that set those must
// scale them by DPR themselves. Painter does.
type Surface struct {
	ctx    *gg.Context
	width  float64 // CSS pixels
	height float64
	dpr    float64
	pw, ph int // physical pixels
}

// NewSurface allocates a surface of the given CSS size. A pixel ratio of
// zero or less defaults to 1. Non-positive or oversized dimensions return
// a SURFACE_FAILED error instead of allocating.
func NewSurface(width, height, pixelRatio float64) (*Surface, error) {
	if pixelRatio <= 0 {
		pixelRatio = 1
	}
	if width <= 0 || height <= 0 {
		return nil, errors.New(errors.ErrCodeSurfaceFailed, "surface size must be positive, got %gx%g", width, height)
	}
	pwf := math.Ceil(width * pixelRatio)
	phf := math.Ceil(height * pixelRatio)
	if pwf*phf > maxSurfacePixels {
		return nil, errors.New(errors.ErrCodeSurfaceFailed, "surface %.0fx%.0f exceeds the pixel budget", pwf, phf)
	}
	pw, ph := int(pwf), int(phf)
	ctx := gg.NewContext(pw, ph)
	ctx.Scale(pixelRatio, pixelRatio)
	return &Surface{ctx: ctx, width: width, height: height, dpr: pixelRatio, pw: pw, ph: ph}, nil
}

// Context returns the drawing context, scaled to CSS coordinates.
func (s *Surface) Context() *gg.Context { return s.ctx }

// Size returns the CSS size.
func (s *Surface) Size() scene.Size {
	return scene.Size{Width: s.width, Height: s.height}
}

// DPR returns the device pixel ratio.
func (s *Surface) DPR() float64 { return s.dpr }

// PixelWidth reports the physical backing width.
func (s *Surface) PixelWidth() int { return s.pw }

// PixelHeight reports the physical backing height.
func (s *Surface) PixelHeight() int { return s.ph }

// Image returns the backing image.
func (s *Surface) Image() image.Image { return s.ctx.Image() }

// Clear resets every pixel to transparent.
func (s *Surface) Clear() {
	s.ctx.SetRGBA(0, 0, 0, 0)
	s.ctx.Clear()
}

// Fill floods the whole surface with a color at full opacity.
func (s *Surface) Fill(c scene.Color) {
	s.ctx.SetRGB255(int(c.R), int(c.G), int(c.B))
	s.ctx.Clear()
}

// Resize reallocates the backing store for a new CSS size and pixel
// ratio. Previous contents are discarded; on error the surface keeps its
// old store.
func (s *Surface) Resize(width, height, pixelRatio float64) error {
	next, err := NewSurface(width, height, pixelRatio)
	if err != nil {
		return err
	}
	*s = *next
	return nil
}
