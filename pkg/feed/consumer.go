package feed

import (
	"sync"

	"github.com/matzehuels/arnet/pkg/topology"
)

// Consumer receives decoded feed operations.
type Consumer interface {
	OnSnapshot(topology.Snapshot)
	OnVertexUpsert(topology.Vertex)
	OnVertexDelete(id string)
	OnEdgeUpsert(topology.Edge)
	OnEdgeDelete(id string)
	OnAlarmUpsert(topology.Alarm)
	OnAlarmDelete(key string)
	OnSituationUpsert(topology.Situation)
	OnSituationDelete(key string)
	OnEvent(topology.Event)
}

// EndpointConsumer is implemented by consumers that can add an edge endpoint
// without overwriting a vertex they already know. Consumers that do not
// implement it receive endpoints through OnVertexUpsert.
type EndpointConsumer interface {
	OnEndpoint(topology.Vertex)
}

// Fanout forwards every operation to a set of consumers. Consumers are called
// in the order they were accepted.
type Fanout struct {
	mu        sync.RWMutex
	consumers []Consumer
}

// Accept adds c to the fanout.
func (f *Fanout) Accept(c Consumer) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.consumers = append(f.consumers, c)
}

// Dismiss removes c from the fanout.
func (f *Fanout) Dismiss(c Consumer) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, existing := range f.consumers {
		if existing == c {
			f.consumers = append(f.consumers[:i:i], f.consumers[i+1:]...)
			return
		}
	}
}

// Len returns the number of accepted consumers.
func (f *Fanout) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.consumers)
}

func (f *Fanout) each(fn func(Consumer)) {
	f.mu.RLock()
	cs := f.consumers
	f.mu.RUnlock()
	for _, c := range cs {
		fn(c)
	}
}

func (f *Fanout) OnSnapshot(s topology.Snapshot) {
	f.each(func(c Consumer) { c.OnSnapshot(s) })
}

func (f *Fanout) OnVertexUpsert(v topology.Vertex) {
	f.each(func(c Consumer) { c.OnVertexUpsert(v) })
}

func (f *Fanout) OnVertexDelete(id string) {
	f.each(func(c Consumer) { c.OnVertexDelete(id) })
}

func (f *Fanout) OnEdgeUpsert(e topology.Edge) {
	f.each(func(c Consumer) { c.OnEdgeUpsert(e) })
}

func (f *Fanout) OnEdgeDelete(id string) {
	f.each(func(c Consumer) { c.OnEdgeDelete(id) })
}

func (f *Fanout) OnAlarmUpsert(a topology.Alarm) {
	f.each(func(c Consumer) { c.OnAlarmUpsert(a) })
}

func (f *Fanout) OnAlarmDelete(key string) {
	f.each(func(c Consumer) { c.OnAlarmDelete(key) })
}

func (f *Fanout) OnSituationUpsert(s topology.Situation) {
	f.each(func(c Consumer) { c.OnSituationUpsert(s) })
}

func (f *Fanout) OnSituationDelete(key string) {
	f.each(func(c Consumer) { c.OnSituationDelete(key) })
}

func (f *Fanout) OnEvent(e topology.Event) {
	f.each(func(c Consumer) { c.OnEvent(e) })
}

// OnEndpoint forwards v to each consumer as an endpoint when supported and as
// a vertex upsert otherwise.
func (f *Fanout) OnEndpoint(v topology.Vertex) {
	f.each(func(c Consumer) { deliverEndpoint(c, v) })
}

func deliverEndpoint(c Consumer, v topology.Vertex) {
	if ec, ok := c.(EndpointConsumer); ok {
		ec.OnEndpoint(v)
		return
	}
	c.OnVertexUpsert(v)
}

var (
	_ Consumer         = (*Fanout)(nil)
	_ EndpointConsumer = (*Fanout)(nil)
)
