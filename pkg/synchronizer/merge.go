package synchronizer

import (
	"time"

	"github.com/matzehuels/arnet/pkg/dispatch"
	"github.com/matzehuels/arnet/pkg/topology"
)

// MergeResult counts what a [Synchronizer.Merge] changed.
type MergeResult struct {
	VerticesAdded, VerticesUpdated, VerticesRemoved       int
	EdgesAdded, EdgesUpdated, EdgesRemoved, EdgesDropped  int
	AlarmsAdded, AlarmsUpdated, AlarmsRemoved             int
	SituationsAdded, SituationsUpdated, SituationsRemoved int

	// Relayout reports whether the merge recomputed the layout.
	Relayout bool
}

// GraphChanged reports whether any vertex or edge was added or removed.
func (r MergeResult) GraphChanged() bool {
	return r.VerticesAdded+r.VerticesRemoved+r.EdgesAdded+r.EdgesRemoved > 0
}

// AlarmsChanged reports whether any alarm or situation was added or removed.
func (r MergeResult) AlarmsChanged() bool {
	return r.AlarmsAdded+r.AlarmsRemoved+r.SituationsAdded+r.SituationsRemoved > 0
}

func (r MergeResult) added() int {
	return r.VerticesAdded + r.EdgesAdded + r.AlarmsAdded + r.SituationsAdded
}

func (r MergeResult) removed() int {
	return r.VerticesRemoved + r.EdgesRemoved + r.AlarmsRemoved + r.SituationsRemoved
}

// Merge reconciles the model with a full snapshot. Items in the snapshot are
// added or updated; known items absent from it are removed. Vertices are
// reconciled before edges, and an edge is kept only if both of its endpoints
// are in the snapshot. When the snapshot lists an id twice the last entry
// wins.
func (s *Synchronizer) Merge(snap topology.Snapshot) MergeResult {
	start := time.Now()
	var r MergeResult

	s.graphMu.Lock()
	defer s.graphMu.Unlock()
	s.mergeVerticesLocked(snap.Vertices, &r)
	s.mergeEdgesLocked(snap.Edges, &r)

	s.alarmMu.Lock()
	defer s.alarmMu.Unlock()
	s.mergeAlarmsLocked(snap.Alarms, &r)
	s.mergeSituationsLocked(snap.Situations, &r)

	edgeGate := s.edgePolicy && r.EdgesAdded+r.EdgesRemoved > 0
	if r.VerticesAdded+r.VerticesRemoved > 0 || edgeGate || r.AlarmsChanged() {
		s.relayoutLocked()
		r.Relayout = true
	}

	elapsed := time.Since(start)
	s.hooks.Sync.OnMerge(r.added(), r.removed(), elapsed)
	s.hooks.Sync.OnSize(s.graph.VertexCount(), s.graph.EdgeCount(), s.store.AlarmCount(), s.store.SituationCount())
	s.logger.Debug("merged snapshot",
		"vertices", s.graph.VertexCount(), "edges", s.graph.EdgeCount(),
		"added", r.added(), "removed", r.removed(), "relayout", r.Relayout, "elapsed", elapsed)
	return r
}

func (s *Synchronizer) mergeVerticesLocked(vertices []topology.Vertex, r *MergeResult) {
	keep := make(map[string]bool, len(vertices))
	for _, v := range vertices {
		if v.ID == "" {
			s.logger.Warn("ignoring vertex without id")
			continue
		}
		keep[v.ID] = true
		added, changed := s.upsertVertexLocked(v)
		switch {
		case added:
			r.VerticesAdded++
		case changed:
			r.VerticesUpdated++
		}
	}
	for _, id := range s.graph.VertexIDs() {
		if keep[id] {
			continue
		}
		if v, ok := s.graph.RemoveVertex(id); ok {
			s.pub.Publish(dispatch.VertexRemoved{Vertex: v})
			r.VerticesRemoved++
		}
	}
}

func (s *Synchronizer) mergeEdgesLocked(edges []topology.Edge, r *MergeResult) {
	keep := make(map[string]bool, len(edges))
	for _, e := range edges {
		if e.ID == "" {
			s.logger.Warn("dropping edge without id", "source", e.SourceID, "target", e.TargetID)
			s.hooks.Sync.OnEdgeDropped(e.ID)
			r.EdgesDropped++
			continue
		}
		if !s.graph.HasVertex(e.SourceID) || !s.graph.HasVertex(e.TargetID) {
			s.logger.Warn("dropping edge", "id", e.ID, "source", e.SourceID, "target", e.TargetID)
			s.hooks.Sync.OnEdgeDropped(e.ID)
			r.EdgesDropped++
			continue
		}
		added, changed := s.upsertEdgeLocked(e)
		if !changed {
			if _, ok := s.graph.Edge(e.ID); !ok {
				continue
			}
		}
		keep[e.ID] = true
		switch {
		case added:
			r.EdgesAdded++
		case changed:
			r.EdgesUpdated++
		}
	}
	for _, e := range s.graph.Edges() {
		if keep[e.ID] {
			continue
		}
		if _, ok := s.graph.RemoveEdge(e.ID); ok {
			s.pub.Publish(dispatch.EdgeRemoved{Edge: e})
			r.EdgesRemoved++
		}
	}
}

func (s *Synchronizer) mergeAlarmsLocked(alarms []topology.Alarm, r *MergeResult) {
	keep := make(map[string]bool, len(alarms))
	for _, a := range alarms {
		if a.ReductionKey == "" {
			s.logger.Warn("ignoring alarm without reduction key")
			continue
		}
		keep[a.ReductionKey] = true
		added, changed := s.upsertAlarmLocked(a)
		switch {
		case added:
			r.AlarmsAdded++
		case changed:
			r.AlarmsUpdated++
		}
	}
	for _, a := range s.store.Alarms() {
		if keep[a.ReductionKey] {
			continue
		}
		if removed, ok := s.store.RemoveAlarm(a.ReductionKey); ok {
			s.pub.Publish(dispatch.AlarmRemoved{Alarm: removed})
			r.AlarmsRemoved++
		}
	}
}

func (s *Synchronizer) mergeSituationsLocked(situations []topology.Situation, r *MergeResult) {
	keep := make(map[string]bool, len(situations))
	for _, sit := range situations {
		if sit.ReductionKey == "" {
			s.logger.Warn("ignoring situation without reduction key")
			continue
		}
		keep[sit.ReductionKey] = true
		added, changed := s.upsertSituationLocked(sit)
		switch {
		case added:
			r.SituationsAdded++
		case changed:
			r.SituationsUpdated++
		}
	}
	for _, sit := range s.store.Situations() {
		if keep[sit.ReductionKey] {
			continue
		}
		if removed, ok := s.store.RemoveSituation(sit.ReductionKey); ok {
			s.pub.Publish(dispatch.SituationRemoved{Situation: removed})
			r.SituationsRemoved++
		}
	}
}
