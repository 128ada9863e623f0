package sink

import (
	"bytes"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"math"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/stepmotion/pkg/errors"
	"github.com/matzehuels/stepmotion/pkg/render"
	"github.com/matzehuels/stepmotion/pkg/scene"
)

// gifStepHold is how long each committed step stays on screen, in GIF
// delay units (centiseconds).
const gifStepHold = 100

// GIFOption configures animated GIF rendering.
type GIFOption func(*gifRenderer)

type gifRenderer struct {
	fps              int
	transitionFrames int
	scale            float64
	ease             render.Easing
}

// WithFPS sets the transition playback rate (default 30).
func WithFPS(fps int) GIFOption {
	return func(r *gifRenderer) { r.fps = fps }
}

// WithTransitionFrames sets how many interpolated frames connect each
// pair of steps (default 8).
func WithTransitionFrames(n int) GIFOption {
	return func(r *gifRenderer) { r.transitionFrames = n }
}

// WithScale downscales the output, e.g. 0.5 halves both dimensions.
// Useful for keeping long traces under upload size limits.
func WithScale(s float64) GIFOption {
	return func(r *gifRenderer) { r.scale = s }
}

// WithEasing sets the transition timing curve (default ease-in-out cubic).
func WithEasing(e render.Easing) GIFOption {
	return func(r *gifRenderer) { r.ease = e }
}

// RenderGIF animates a step sequence as a looping GIF: each scene holds
// for a beat, then interpolated frames morph into the next one. Canvas
// dimensions come from the first scene.
func RenderGIF(scenes []*scene.Scene, opts ...GIFOption) ([]byte, error) {
	if len(scenes) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "animation needs at least one scene")
	}
	r := gifRenderer{fps: 30, transitionFrames: 8, scale: 1, ease: render.EaseInOutCubic}
	for _, opt := range opts {
		opt(&r)
	}
	if r.fps <= 0 {
		r.fps = 30
	}
	if r.transitionFrames <= 0 {
		r.transitionFrames = 8
	}
	if r.scale <= 0 {
		r.scale = 1
	}

	surf, err := render.NewSurface(scenes[0].Width, scenes[0].Height, 1)
	if err != nil {
		return nil, err
	}

	frameDelay := 100 / r.fps
	if frameDelay < 2 {
		frameDelay = 2 // browsers clamp shorter delays anyway
	}

	anim := render.NewAnimator(r.ease)
	out := &gif.GIF{}

	appendFrame := func(frame *scene.Scene, delay int) error {
		if err := render.NewPainter(surf).Paint(frame); err != nil {
			return err
		}
		out.Image = append(out.Image, palettize(surf.Image(), r.scale))
		out.Delay = append(out.Delay, delay)
		return nil
	}

	if err := appendFrame(anim.Advance(scenes[0], 1), gifStepHold); err != nil {
		return nil, err
	}
	for i := 1; i < len(scenes); i++ {
		for k := 1; k <= r.transitionFrames; k++ {
			t := float64(k) / float64(r.transitionFrames)
			delay := frameDelay
			if k == r.transitionFrames {
				delay = gifStepHold // the committed step holds
			}
			if err := appendFrame(anim.Advance(scenes[i], t), delay); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeEncodeFailed, err, "encode gif")
	}
	return buf.Bytes(), nil
}

// palettize quantizes a frame to the Plan9 palette with dithering,
// optionally downscaling first.
func palettize(src image.Image, scale float64) *image.Paletted {
	if scale != 1 {
		b := src.Bounds()
		w := int(math.Round(float64(b.Dx()) * scale))
		h := int(math.Round(float64(b.Dy()) * scale))
		if w < 1 {
			w = 1
		}
		if h < 1 {
			h = 1
		}
		src = imaging.Resize(src, w, h, imaging.Lanczos)
	}
	pal := image.NewPaletted(src.Bounds(), palette.Plan9)
	draw.FloydSteinberg.Draw(pal, src.Bounds(), src, src.Bounds().Min)
	return pal
}
