package render

import (
	"sync"
	"time"

	"github.com/fogleman/gg"

	"github.com/matzehuels/stepmotion/pkg/scene"
)

// SizeObserver reports size changes of whatever hosts the primary
// surface (a window, a terminal, an embedding page). Observe registers a
// callback and returns its unsubscribe function.
type SizeObserver interface {
	Observe(fn func(width, height, pixelRatio float64)) (cancel func())
}

// ManagerOption configures a SurfaceManager.
type ManagerOption func(*SurfaceManager)

// WithScheduler replaces the frame scheduler. Default: 60fps ticks.
func WithScheduler(s FrameScheduler) ManagerOption {
	return func(m *SurfaceManager) { m.sched = s }
}

// WithSizeObserver subscribes the manager to external size changes from
// construction until Dispose.
func WithSizeObserver(o SizeObserver) ManagerOption {
	return func(m *SurfaceManager) { m.observer = o }
}

// WithoutOffscreen disables offscreen composition for this manager's
// frames regardless of the process-wide probe.
func WithoutOffscreen() ManagerOption {
	return func(m *SurfaceManager) { m.noOffscreen = true }
}

// RenderFunc draws one frame. The context arrives cleared and scaled to
// CSS coordinates; size is the CSS size.
type RenderFunc func(ctx *gg.Context, size scene.Size)

// LoopFunc draws one frame of a running loop.
type LoopFunc func(ctx *gg.Context, size scene.Size, now time.Time)

// SurfaceManager owns the visible surface: it tracks size and pixel
// ratio, clears before every render, and optionally runs a frame loop.
// Dispose cancels any pending frame, stops the loop and unsubscribes the
// size observer; nothing fires afterwards.
type SurfaceManager struct {
	mu          sync.Mutex
	surf        *Surface
	off         *OffscreenRenderer
	sched       FrameScheduler
	observer    SizeObserver
	noOffscreen bool

	unobserve func()
	stopLoop  func()
	disposed  bool
}

// NewSurfaceManager allocates the primary surface and wires the options.
func NewSurfaceManager(width, height, pixelRatio float64, opts ...ManagerOption) (*SurfaceManager, error) {
	surf, err := NewSurface(width, height, pixelRatio)
	if err != nil {
		return nil, err
	}
	m := &SurfaceManager{surf: surf, sched: NewTickScheduler(defaultFPS)}
	for _, opt := range opts {
		opt(m)
	}
	m.off = NewOffscreenRenderer(width, height, surf.DPR())
	if m.observer != nil {
		m.unobserve = m.observer.Observe(func(w, h, dpr float64) {
			m.Resize(w, h, dpr)
		})
	}
	return m, nil
}

// Size returns a copy of the current CSS size.
func (m *SurfaceManager) Size() scene.Size {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.surf.Size()
}

// PixelRatio returns the current device pixel ratio.
func (m *SurfaceManager) PixelRatio() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.surf.DPR()
}

// Surface returns the primary surface.
func (m *SurfaceManager) Surface() *Surface {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.surf
}

// Context returns the primary drawing context.
func (m *SurfaceManager) Context() *gg.Context {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.surf.Context()
}

// Offscreen returns the manager's offscreen renderer, or nil when
// offscreen composition is disabled for this manager.
func (m *SurfaceManager) Offscreen() *OffscreenRenderer {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.noOffscreen {
		return nil
	}
	return m.off
}

// Resize reallocates the primary and offscreen surfaces for new
// dimensions. Disposed managers ignore resizes.
func (m *SurfaceManager) Resize(width, height, pixelRatio float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.disposed {
		return nil
	}
	if err := m.surf.Resize(width, height, pixelRatio); err != nil {
		return err
	}
	m.off.Resize(width, height, m.surf.DPR())
	return nil
}

// RenderOnce clears the surface and invokes fn synchronously.
func (m *SurfaceManager) RenderOnce(fn RenderFunc) {
	m.mu.Lock()
	if m.disposed {
		m.mu.Unlock()
		return
	}
	surf := m.surf
	m.mu.Unlock()

	surf.Clear()
	fn(surf.Context(), surf.Size())
}

// StartLoop schedules fn once per frame until the returned stop function
// or Dispose is called. Starting a new loop stops the previous one.
func (m *SurfaceManager) StartLoop(fn LoopFunc) (stop func()) {
	m.mu.Lock()
	if m.disposed {
		m.mu.Unlock()
		return func() {}
	}
	prev := m.stopLoop
	loop := &renderLoop{sched: m.sched}
	m.stopLoop = loop.stop
	m.mu.Unlock()

	if prev != nil {
		prev()
	}

	var tick func(time.Time)
	tick = func(now time.Time) {
		m.mu.Lock()
		if m.disposed {
			m.mu.Unlock()
			return
		}
		surf := m.surf
		m.mu.Unlock()

		surf.Clear()
		fn(surf.Context(), surf.Size(), now)
		loop.arm(tick)
	}
	loop.arm(tick)
	return loop.stop
}

// Dispose cancels any pending frame, stops the loop and unsubscribes the
// size observer. Safe to call more than once.
func (m *SurfaceManager) Dispose() {
	m.mu.Lock()
	if m.disposed {
		m.mu.Unlock()
		return
	}
	m.disposed = true
	stop := m.stopLoop
	m.stopLoop = nil
	unobserve := m.unobserve
	m.unobserve = nil
	off := m.off
	m.mu.Unlock()

	if stop != nil {
		stop()
	}
	if unobserve != nil {
		unobserve()
	}
	off.Dispose()
}

// renderLoop tracks one StartLoop invocation so a stopped loop neither
// re-arms nor leaves a scheduled tick behind.
type renderLoop struct {
	mu     sync.Mutex
	sched  FrameScheduler
	done   bool
	cancel func()
}

func (l *renderLoop) arm(tick func(time.Time)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.done {
		return
	}
	l.cancel = l.sched.Schedule(tick)
}

func (l *renderLoop) stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.done = true
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}
