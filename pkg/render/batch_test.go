package render

import (
	"testing"
	"time"
)

func TestRenderBatcherLastWins(t *testing.T) {
	sched := &ManualScheduler{}
	submit := NewRenderBatcher(sched)

	var drawn []string
	submit(func() { drawn = append(drawn, "first") })
	submit(func() { drawn = append(drawn, "second") })
	submit(func() { drawn = append(drawn, "third") })

	// Three submissions share one scheduled tick.
	if got := sched.Pending(); got != 1 {
		t.Fatalf("Pending() = %d, want 1", got)
	}

	sched.Tick(time.Now())
	if len(drawn) != 1 || drawn[0] != "third" {
		t.Errorf("drawn = %v, want [third]", drawn)
	}
}

func TestRenderBatcherNewRoundAfterTick(t *testing.T) {
	sched := &ManualScheduler{}
	submit := NewRenderBatcher(sched)

	count := 0
	submit(func() { count++ })
	sched.Tick(time.Now())

	submit(func() { count++ })
	if got := sched.Pending(); got != 1 {
		t.Fatalf("Pending() for second round = %d, want 1", got)
	}
	sched.Tick(time.Now())

	if count != 2 {
		t.Errorf("callbacks ran %d times, want 2", count)
	}
}

func TestRenderBatcherIgnoresNil(t *testing.T) {
	sched := &ManualScheduler{}
	submit := NewRenderBatcher(sched)

	submit(nil)
	if got := sched.Pending(); got != 0 {
		t.Errorf("Pending() after nil submit = %d, want 0", got)
	}
}
