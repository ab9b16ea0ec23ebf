package feed

import (
	"sync"

	"github.com/matzehuels/arnet/pkg/topology"
)

// Filter passes through only vertices whose location is in Locations. An
// edge passes when both endpoints passed; alarms and situations pass when
// their vertex passed or when they name no vertex. Deletes and events always
// pass. A filter with no locations passes everything.
type Filter struct {
	next      Consumer
	locations map[string]bool

	mu       sync.Mutex
	admitted map[string]bool
}

// NewFilter wraps next with a location filter.
func NewFilter(next Consumer, locations []string) *Filter {
	f := &Filter{next: next, admitted: make(map[string]bool)}
	if len(locations) > 0 {
		f.locations = make(map[string]bool, len(locations))
		for _, l := range locations {
			f.locations[l] = true
		}
	}
	return f
}

func (f *Filter) passAll() bool { return f.locations == nil }

// admit records whether v passes. It also reports whether v had passed
// before, so that a vertex moving out of scope can be withdrawn.
func (f *Filter) admit(v topology.Vertex) (ok, was bool) {
	ok = f.passAll() || f.locations[v.Location]
	f.mu.Lock()
	was = f.admitted[v.ID]
	if ok {
		f.admitted[v.ID] = true
	} else {
		delete(f.admitted, v.ID)
	}
	f.mu.Unlock()
	return ok, was
}

func (f *Filter) known(id string) bool {
	if f.passAll() {
		return true
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.admitted[id]
}

func (f *Filter) markerPasses(vertexID string) bool {
	return vertexID == "" || f.known(vertexID)
}

// OnSnapshot filters every collection of the snapshot.
func (f *Filter) OnSnapshot(s topology.Snapshot) {
	if f.passAll() {
		f.next.OnSnapshot(s)
		return
	}
	f.mu.Lock()
	clear(f.admitted)
	f.mu.Unlock()

	var out topology.Snapshot
	for _, v := range s.Vertices {
		if ok, _ := f.admit(v); ok {
			out.Vertices = append(out.Vertices, v)
		}
	}
	for _, e := range s.Edges {
		if f.known(e.SourceID) && f.known(e.TargetID) {
			out.Edges = append(out.Edges, e)
		}
	}
	for _, a := range s.Alarms {
		if f.markerPasses(a.VertexID) {
			out.Alarms = append(out.Alarms, a)
		}
	}
	for _, sit := range s.Situations {
		if f.markerPasses(sit.VertexID) {
			out.Situations = append(out.Situations, sit)
		}
	}
	f.next.OnSnapshot(out)
}

// OnVertexUpsert forwards v when it passes. A vertex that passed before but
// no longer does is forwarded as a delete.
func (f *Filter) OnVertexUpsert(v topology.Vertex) {
	ok, was := f.admit(v)
	switch {
	case ok:
		f.next.OnVertexUpsert(v)
	case was:
		f.next.OnVertexDelete(v.ID)
	}
}

// OnEndpoint forwards an edge endpoint that is already admitted or whose
// location passes. Endpoint records are often sparse, so this path never
// withdraws a vertex; only [Filter.OnVertexUpsert] does.
func (f *Filter) OnEndpoint(v topology.Vertex) {
	if f.known(v.ID) {
		deliverEndpoint(f.next, v)
		return
	}
	if !f.locations[v.Location] {
		return
	}
	f.mu.Lock()
	f.admitted[v.ID] = true
	f.mu.Unlock()
	deliverEndpoint(f.next, v)
}

func (f *Filter) OnVertexDelete(id string) {
	f.mu.Lock()
	delete(f.admitted, id)
	f.mu.Unlock()
	f.next.OnVertexDelete(id)
}

func (f *Filter) OnEdgeUpsert(e topology.Edge) {
	if f.known(e.SourceID) && f.known(e.TargetID) {
		f.next.OnEdgeUpsert(e)
	}
}

func (f *Filter) OnEdgeDelete(id string) { f.next.OnEdgeDelete(id) }

func (f *Filter) OnAlarmUpsert(a topology.Alarm) {
	if f.markerPasses(a.VertexID) {
		f.next.OnAlarmUpsert(a)
	}
}

func (f *Filter) OnAlarmDelete(key string) { f.next.OnAlarmDelete(key) }

func (f *Filter) OnSituationUpsert(s topology.Situation) {
	if f.markerPasses(s.VertexID) {
		f.next.OnSituationUpsert(s)
	}
}

func (f *Filter) OnSituationDelete(key string) { f.next.OnSituationDelete(key) }

func (f *Filter) OnEvent(e topology.Event) { f.next.OnEvent(e) }

var (
	_ Consumer         = (*Filter)(nil)
	_ EndpointConsumer = (*Filter)(nil)
)
