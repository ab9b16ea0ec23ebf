package dispatch

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/matzehuels/arnet/pkg/observability"
)

// Dispatcher is a priority-ordered change buffer. It is safe for concurrent
// use by many producers and one consumer.
type Dispatcher struct {
	mu      sync.Mutex
	pending []Change
	hooks   observability.DispatchHooks
}

// New returns an empty dispatcher. A nil hooks value disables instrumentation.
func New(hooks observability.DispatchHooks) *Dispatcher {
	if hooks == nil {
		hooks = observability.NoopDispatchHooks{}
	}
	return &Dispatcher{hooks: hooks}
}

// Publish buffers c for the next drain.
func (d *Dispatcher) Publish(c Change) {
	d.mu.Lock()
	d.pending = append(d.pending, c)
	d.mu.Unlock()
	d.hooks.OnPublish(c.Kind().String())
}

// Len returns the number of buffered changes.
func (d *Dispatcher) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// Drain removes every buffered change and returns them ordered by priority,
// keeping arrival order within a priority. It returns nil if nothing is
// buffered.
func (d *Dispatcher) Drain() []Change {
	d.mu.Lock()
	batch := d.pending
	d.pending = nil
	d.mu.Unlock()

	if len(batch) == 0 {
		return nil
	}
	slices.SortStableFunc(batch, func(a, b Change) int {
		return a.Kind().Priority() - b.Kind().Priority()
	})
	return batch
}

// Dispatch drains the buffer into o and returns the number of changes
// delivered.
func (d *Dispatcher) Dispatch(o Observer) int {
	start := time.Now()
	batch := d.Drain()
	for _, c := range batch {
		Deliver(c, o)
	}
	if len(batch) > 0 {
		d.hooks.OnDrain(len(batch), time.Since(start))
	}
	return len(batch)
}

// Run dispatches into o every interval until ctx is done, then performs a
// final dispatch and returns ctx.Err().
func (d *Dispatcher) Run(ctx context.Context, interval time.Duration, o Observer) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			d.Dispatch(o)
			return ctx.Err()
		case <-ticker.C:
			d.Dispatch(o)
		}
	}
}
