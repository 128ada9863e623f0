package render

import (
	"sync"
	"time"
)

// defaultFPS drives frame timing when no rate is configured.
const defaultFPS = 60

// FrameScheduler abstracts frame timing: Schedule registers a callback
// for the next frame tick and returns its cancel function.
// Implementations must tolerate cancel being called after the tick fired.
type FrameScheduler interface {
	Schedule(fn func(now time.Time)) (cancel func())
}

// TickScheduler fires callbacks on a fixed wall-clock interval, one shot
// per Schedule call. It is the production scheduler behind render loops
// and the frame batcher.
type TickScheduler struct {
	interval time.Duration
}

// NewTickScheduler returns a scheduler ticking at the given frame rate.
// Rates of zero or less fall back to 60.
func NewTickScheduler(fps int) *TickScheduler {
	if fps <= 0 {
		fps = defaultFPS
	}
	return &TickScheduler{interval: time.Second / time.Duration(fps)}
}

// Interval returns one frame's duration.
func (s *TickScheduler) Interval() time.Duration { return s.interval }

// Schedule fires fn once after one frame interval.
func (s *TickScheduler) Schedule(fn func(time.Time)) (cancel func()) {
	t := time.AfterFunc(s.interval, func() { fn(time.Now()) })
	return func() { t.Stop() }
}

type manualEntry struct {
	fn       func(time.Time)
	canceled bool
}

// ManualScheduler queues callbacks until Tick is called. Tests use it to
// drive frame-dependent code deterministically.
type ManualScheduler struct {
	mu      sync.Mutex
	pending []*manualEntry
}

// Schedule queues fn for the next Tick.
func (s *ManualScheduler) Schedule(fn func(time.Time)) (cancel func()) {
	e := &manualEntry{fn: fn}
	s.mu.Lock()
	s.pending = append(s.pending, e)
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		e.canceled = true
		s.mu.Unlock()
	}
}

// Pending reports how many callbacks await the next tick.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, e := range s.pending {
		if !e.canceled {
			n++
		}
	}
	return n
}

// Tick fires the callbacks scheduled so far. Callbacks scheduled while
// ticking land in the next round, so a render loop steps exactly one
// frame per Tick.
func (s *ManualScheduler) Tick(now time.Time) {
	s.mu.Lock()
	batch := s.pending
	s.pending = nil
	s.mu.Unlock()

	for _, e := range batch {
		s.mu.Lock()
		skip := e.canceled
		s.mu.Unlock()
		if !skip {
			e.fn(now)
		}
	}
}
