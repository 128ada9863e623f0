package render

import (
	"sync"

	"github.com/fogleman/gg"
)

// offscreenElementThreshold is the primitive count above which a frame
// is composed on the offscreen surface and blitted back in one draw.
// The threshold is strict: a frame with exactly this many primitives
// draws directly.
const offscreenElementThreshold = 50

// The offscreen probe runs once per process: a trial allocation decides
// availability and the result is cached. DisableOffscreen overrides the
// probe; ResetOffscreenProbe clears both for tests.
var (
	offscreenMu       sync.Mutex
	offscreenProbed   bool
	offscreenOK       bool
	offscreenDisabled bool
)

// DisableOffscreen switches offscreen composition off (or back on)
// process-wide, overriding the probe result.
func DisableOffscreen(disabled bool) {
	offscreenMu.Lock()
	defer offscreenMu.Unlock()
	offscreenDisabled = disabled
}

// ResetOffscreenProbe clears the cached probe result and the disable
// switch so the next availability check probes again.
func ResetOffscreenProbe() {
	offscreenMu.Lock()
	defer offscreenMu.Unlock()
	offscreenProbed = false
	offscreenOK = false
	offscreenDisabled = false
}

func offscreenAvailable() bool {
	offscreenMu.Lock()
	defer offscreenMu.Unlock()
	if offscreenDisabled {
		return false
	}
	if !offscreenProbed {
		_, err := NewSurface(1, 1, 1)
		offscreenOK = err == nil
		offscreenProbed = true
	}
	return offscreenOK
}

// ShouldUseOffscreen reports whether a frame with n primitives should be
// composed offscreen.
func ShouldUseOffscreen(n int) bool {
	return offscreenAvailable() && n > offscreenElementThreshold
}

// OffscreenRenderer owns the secondary surface. The surface is allocated
// lazily on first use and tracks the primary's size and pixel ratio
// through Resize. A renderer whose allocation failed stays usable:
// Context returns nil and Transfer and Clear are no-ops, so callers need
// no availability branches.
type OffscreenRenderer struct {
	width, height, dpr float64
	surf               *Surface
	tried              bool
}

// NewOffscreenRenderer prepares an offscreen renderer matching the given
// primary dimensions. Nothing is allocated until first use.
func NewOffscreenRenderer(width, height, pixelRatio float64) *OffscreenRenderer {
	return &OffscreenRenderer{width: width, height: height, dpr: pixelRatio}
}

func (o *OffscreenRenderer) ensure() *Surface {
	if o.tried {
		return o.surf
	}
	o.tried = true
	if !offscreenAvailable() {
		return nil
	}
	surf, err := NewSurface(o.width, o.height, o.dpr)
	if err != nil {
		return nil
	}
	o.surf = surf
	return o.surf
}

// Surface returns the offscreen surface, allocating it on first call.
// Nil when offscreen composition is unavailable.
func (o *OffscreenRenderer) Surface() *Surface {
	if o == nil {
		return nil
	}
	return o.ensure()
}

// Context returns the offscreen drawing context, or nil when
// unavailable.
func (o *OffscreenRenderer) Context() *gg.Context {
	s := o.Surface()
	if s == nil {
		return nil
	}
	return s.Context()
}

// Resize matches the offscreen surface to new primary dimensions. An
// already-allocated surface is reallocated immediately; otherwise the
// new size applies on next use.
func (o *OffscreenRenderer) Resize(width, height, pixelRatio float64) {
	if o == nil {
		return
	}
	o.width, o.height, o.dpr = width, height, pixelRatio
	if o.surf != nil {
		if err := o.surf.Resize(width, height, pixelRatio); err != nil {
			o.surf = nil
		}
	}
}

// Clear wipes the offscreen surface. No-op when nothing is allocated.
func (o *OffscreenRenderer) Clear() {
	if o == nil || o.surf == nil {
		return
	}
	o.surf.Clear()
}

// Transfer blits the offscreen contents onto dst in one draw: the
// destination is cleared, then the physical backing image is copied
// pixel-for-pixel, bypassing dst's CSS-coordinate transform.
func (o *OffscreenRenderer) Transfer(dst *Surface) {
	if o == nil || o.surf == nil || dst == nil {
		return
	}
	dst.Clear()
	ctx := dst.Context()
	ctx.Push()
	ctx.Identity()
	ctx.DrawImage(o.surf.Image(), 0, 0)
	ctx.Pop()
}

// Dispose releases the offscreen surface; the next use reallocates.
func (o *OffscreenRenderer) Dispose() {
	if o == nil {
		return
	}
	o.surf = nil
	o.tried = false
}
