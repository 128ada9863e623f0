package sink

import (
	"bytes"
	"image/png"

	"github.com/matzehuels/stepmotion/pkg/errors"
	"github.com/matzehuels/stepmotion/pkg/render"
	"github.com/matzehuels/stepmotion/pkg/scene"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	pixelRatio float64
}

// WithPixelRatio sets the raster oversampling factor (default 2.0 for 2x
// resolution on high-DPI displays).
func WithPixelRatio(r float64) PNGOption {
	return func(p *pngRenderer) { p.pixelRatio = r }
}

// RenderPNG paints the scene on a fresh surface and encodes it as PNG.
func RenderPNG(sc *scene.Scene, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{pixelRatio: 2.0}
	for _, opt := range opts {
		opt(&r)
	}

	surf, err := render.NewSurface(sc.Width, sc.Height, r.pixelRatio)
	if err != nil {
		return nil, err
	}
	if err := render.NewPainter(surf).Paint(sc); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, surf.Image()); err != nil {
		return nil, errors.Wrap(errors.ErrCodeEncodeFailed, err, "encode png")
	}
	return buf.Bytes(), nil
}
