package feed

import (
	"fmt"
	"sync"

	"github.com/matzehuels/arnet/pkg/topology"
)

// recordingConsumer logs each call as a short string.
type recordingConsumer struct {
	mu    sync.Mutex
	calls []string
	snaps []topology.Snapshot
}

func (r *recordingConsumer) add(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

func (r *recordingConsumer) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func (r *recordingConsumer) OnSnapshot(s topology.Snapshot) {
	r.mu.Lock()
	r.snaps = append(r.snaps, s)
	r.mu.Unlock()
	r.add("snapshot %d/%d/%d/%d", len(s.Vertices), len(s.Edges), len(s.Alarms), len(s.Situations))
}

func (r *recordingConsumer) OnVertexUpsert(v topology.Vertex)       { r.add("vertex %s", v.ID) }
func (r *recordingConsumer) OnVertexDelete(id string)               { r.add("-vertex %s", id) }
func (r *recordingConsumer) OnEdgeUpsert(e topology.Edge)           { r.add("edge %s", e.ID) }
func (r *recordingConsumer) OnEdgeDelete(id string)                 { r.add("-edge %s", id) }
func (r *recordingConsumer) OnAlarmUpsert(a topology.Alarm)         { r.add("alarm %s", a.ReductionKey) }
func (r *recordingConsumer) OnAlarmDelete(key string)               { r.add("-alarm %s", key) }
func (r *recordingConsumer) OnSituationUpsert(s topology.Situation) { r.add("situation %s", s.ReductionKey) }
func (r *recordingConsumer) OnSituationDelete(key string)           { r.add("-situation %s", key) }
func (r *recordingConsumer) OnEvent(e topology.Event)               { r.add("event %s", e.UEI) }

// endpointConsumer additionally distinguishes edge endpoints.
type endpointConsumer struct {
	recordingConsumer
}

func (e *endpointConsumer) OnEndpoint(v topology.Vertex) { e.add("endpoint %s", v.ID) }
