package analyzer

import (
	"context"
	"sync"
	"testing"
)

type progressCall struct {
	done, total int
	path        string
}

func TestTrackerTick(t *testing.T) {
	var calls []progressCall
	var mu sync.Mutex

	tracker := NewTracker(func(done, total int, path string) {
		mu.Lock()
		calls = append(calls, progressCall{done, total, path})
		mu.Unlock()
	})

	tracker.SetTotal(3)
	tracker.Tick("a.py")
	tracker.Tick("b.py")
	tracker.Tick("c.py")

	if got := tracker.Done(); got != 3 {
		t.Errorf("Done() = %d, want 3", got)
	}
	if len(calls) != 3 {
		t.Fatalf("expected 3 callback calls, got %d", len(calls))
	}
	if calls[0] != (progressCall{1, 3, "a.py"}) {
		t.Errorf("call 1 = %+v, want {1 3 a.py}", calls[0])
	}
	if calls[2] != (progressCall{3, 3, "c.py"}) {
		t.Errorf("call 3 = %+v, want {3 3 c.py}", calls[2])
	}
}

func TestTrackerSetTotal(t *testing.T) {
	var last int
	tracker := NewTracker(func(_, total int, _ string) { last = total })

	tracker.SetTotal(5)
	tracker.Tick("a.py")
	if last != 5 {
		t.Errorf("total = %d, want 5", last)
	}

	tracker.SetTotal(10)
	tracker.Tick("b.py")
	if last != 10 {
		t.Errorf("total = %d, want 10", last)
	}
}

func TestTrackerConcurrentTicks(t *testing.T) {
	tracker := NewTracker(nil)
	tracker.SetTotal(100)

	var wg sync.WaitGroup
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tracker.Tick("mod.py")
		}()
	}
	wg.Wait()

	if got := tracker.Done(); got != 100 {
		t.Errorf("Done() = %d, want 100", got)
	}
}

func TestTrackerNilCallback(t *testing.T) {
	tracker := NewTracker(nil)
	tracker.Tick("mod.py")
	if tracker.Done() != 1 {
		t.Errorf("Done() = %d, want 1", tracker.Done())
	}
}

func TestWithTracker(t *testing.T) {
	tracker := NewTracker(nil)
	ctx := WithTracker(context.Background(), tracker)

	if got := TrackerFromContext(ctx); got != tracker {
		t.Error("TrackerFromContext should return the same tracker")
	}
}

func TestTrackerFromContextNil(t *testing.T) {
	if got := TrackerFromContext(context.Background()); got != nil {
		t.Error("TrackerFromContext should return nil for context without tracker")
	}
}
