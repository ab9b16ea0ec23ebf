package synchronizer

import (
	"sync"
	"time"

	"github.com/matzehuels/arnet/pkg/dispatch"
)

// capture records published changes in order.
type capture struct {
	mu      sync.Mutex
	changes []dispatch.Change
}

func (c *capture) Publish(ch dispatch.Change) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.changes = append(c.changes, ch)
}

// take returns and clears the recorded changes.
func (c *capture) take() []dispatch.Change {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.changes
	c.changes = nil
	return out
}

func kinds(changes []dispatch.Change) []dispatch.Kind {
	out := make([]dispatch.Kind, len(changes))
	for i, c := range changes {
		out[i] = c.Kind()
	}
	return out
}

// idsOf collects the ids carried by changes of kind k.
func idsOf(changes []dispatch.Change, k dispatch.Kind) map[string]bool {
	out := make(map[string]bool)
	for _, c := range changes {
		if c.Kind() != k {
			continue
		}
		switch c := c.(type) {
		case dispatch.VertexUpserted:
			out[c.Vertex.ID] = true
		case dispatch.VertexRemoved:
			out[c.Vertex.ID] = true
		case dispatch.EdgeUpserted:
			out[c.Edge.ID] = true
		case dispatch.EdgeRemoved:
			out[c.Edge.ID] = true
		}
	}
	return out
}

// syncRecorder is a SyncHooks that counts calls.
type syncRecorder struct {
	mu      sync.Mutex
	applied map[string]int
	dropped []string
	merges  int
	size    [4]int
}

func newSyncRecorder() *syncRecorder {
	return &syncRecorder{applied: make(map[string]int)}
}

func (r *syncRecorder) OnApply(op string, changed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if changed {
		r.applied[op]++
	}
}

func (r *syncRecorder) OnMerge(added, removed int, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.merges++
}

func (r *syncRecorder) OnEdgeDropped(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dropped = append(r.dropped, id)
}

func (r *syncRecorder) OnSize(vertices, edges, alarms, situations int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.size = [4]int{vertices, edges, alarms, situations}
}
