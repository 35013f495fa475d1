package analyzer

import (
	"context"
	"sync/atomic"
)

// ProgressFunc receives the number of finished items, the expected total and
// the item that just finished.
type ProgressFunc func(done, total int, path string)

// Tracker counts finished items. It is safe for concurrent use.
type Tracker struct {
	total    atomic.Int64
	done     atomic.Int64
	callback ProgressFunc
}

// NewTracker creates a tracker that calls callback on every Tick.
func NewTracker(callback ProgressFunc) *Tracker {
	return &Tracker{callback: callback}
}

// SetTotal replaces the expected item count.
func (t *Tracker) SetTotal(n int) {
	t.total.Store(int64(n))
}

// Tick marks path as finished.
func (t *Tracker) Tick(path string) {
	done := t.done.Add(1)
	if t.callback != nil {
		t.callback(int(done), int(t.total.Load()), path)
	}
}

// Done returns the number of finished items.
func (t *Tracker) Done() int {
	return int(t.done.Load())
}

type trackerKey struct{}

// WithTracker attaches t to ctx.
func WithTracker(ctx context.Context, t *Tracker) context.Context {
	return context.WithValue(ctx, trackerKey{}, t)
}

// TrackerFromContext returns the tracker attached to ctx, or nil.
func TrackerFromContext(ctx context.Context) *Tracker {
	t, _ := ctx.Value(trackerKey{}).(*Tracker)
	return t
}
