package synchronizer

import "github.com/matzehuels/arnet/pkg/topology"

// The methods below adapt the synchronizer to the feed.Consumer interface.

func (s *Synchronizer) OnSnapshot(snap topology.Snapshot)        { s.Merge(snap) }
func (s *Synchronizer) OnVertexUpsert(v topology.Vertex)         { s.ApplyVertexUpsert(v) }
func (s *Synchronizer) OnVertexDelete(id string)                 { s.ApplyVertexDelete(id) }
func (s *Synchronizer) OnEndpoint(v topology.Vertex)             { s.ApplyVertexIfAbsent(v) }
func (s *Synchronizer) OnEdgeUpsert(e topology.Edge)             { s.ApplyEdgeUpsert(e) }
func (s *Synchronizer) OnEdgeDelete(id string)                   { s.ApplyEdgeDelete(id) }
func (s *Synchronizer) OnAlarmUpsert(a topology.Alarm)           { s.ApplyAlarmUpsert(a) }
func (s *Synchronizer) OnAlarmDelete(key string)                 { s.ApplyAlarmDelete(key) }
func (s *Synchronizer) OnSituationUpsert(sit topology.Situation) { s.ApplySituationUpsert(sit) }
func (s *Synchronizer) OnSituationDelete(key string)             { s.ApplySituationDelete(key) }
func (s *Synchronizer) OnEvent(e topology.Event)                 { s.ApplyEvent(e) }
