package render

import (
	"sync"
	"time"
)

// NewRenderBatcher coalesces render requests into at most one scheduled
// frame. The returned submit function stores the callback and schedules a
// tick only when none is pending; submitting again before the tick fires
// replaces the stored callback, so the latest state wins and earlier
// requests are never drawn. Once the tick runs, the batcher accepts a new
// round.
func NewRenderBatcher(sched FrameScheduler) func(fn func()) {
	var mu sync.Mutex
	var pending func()

	return func(fn func()) {
		if fn == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		scheduled := pending != nil
		pending = fn
		if scheduled {
			return
		}
		sched.Schedule(func(time.Time) {
			mu.Lock()
			run := pending
			pending = nil
			mu.Unlock()
			if run != nil {
				run()
			}
		})
	}
}
