package synchronizer

import (
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/arnet/pkg/dispatch"
	"github.com/matzehuels/arnet/pkg/feed"
	"github.com/matzehuels/arnet/pkg/graph"
	"github.com/matzehuels/arnet/pkg/layout"
	"github.com/matzehuels/arnet/pkg/observability"
	"github.com/matzehuels/arnet/pkg/topology"
)

// Publisher receives every change the synchronizer accepts.
type Publisher interface {
	Publish(dispatch.Change)
}

// Options configures a Synchronizer.
type Options struct {
	// Strategy computes positions. Defaults to layout.NewForce(0).
	Strategy layout.Strategy

	// RelayoutOnEdgeChange recomputes the layout when an edge is added or
	// removed, not only when a vertex is.
	RelayoutOnEdgeChange bool

	Logger *log.Logger
	Hooks  observability.Hooks
}

// Synchronizer is the single authority over the topology model. It is safe
// for concurrent use.
type Synchronizer struct {
	graphMu  sync.Mutex
	graph    *topology.Graph
	strategy layout.Strategy

	alarmMu sync.Mutex
	store   *topology.Store

	pub        Publisher
	edgePolicy bool
	logger     *log.Logger
	hooks      observability.Hooks
}

// New returns a synchronizer with an empty model that publishes to pub.
func New(pub Publisher, opts Options) *Synchronizer {
	if opts.Strategy == nil {
		opts.Strategy = layout.NewForce(0)
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Synchronizer{
		graph:      topology.NewGraph(),
		strategy:   opts.Strategy,
		store:      topology.NewStore(),
		pub:        pub,
		edgePolicy: opts.RelayoutOnEdgeChange,
		logger:     opts.Logger,
		hooks:      opts.Hooks.WithDefaults(),
	}
}

// SetStrategy replaces the layout strategy. It takes effect on the next
// recalculation.
func (s *Synchronizer) SetStrategy(st layout.Strategy) {
	if st == nil {
		return
	}
	s.graphMu.Lock()
	s.strategy = st
	s.graphMu.Unlock()
}

// Recalculate runs the layout strategy over the current model and publishes
// the result.
func (s *Synchronizer) Recalculate() {
	s.graphMu.Lock()
	defer s.graphMu.Unlock()
	s.alarmMu.Lock()
	defer s.alarmMu.Unlock()
	s.relayoutLocked()
}

// relayoutLocked requires both locks.
func (s *Synchronizer) relayoutLocked() {
	name := s.strategy.Name()
	start := time.Now()
	s.hooks.Layout.OnLayoutStart(name, s.graph.VertexCount())
	s.strategy.Apply(s.graph, s.store)
	elapsed := time.Since(start)
	s.hooks.Layout.OnLayoutComplete(name, elapsed)
	s.logger.Debug("layout recalculated", "strategy", name, "vertices", s.graph.VertexCount(), "elapsed", elapsed)
	s.pub.Publish(dispatch.NewLayoutRecalculated(name, s.graph, s.store))
}

// =============================================================================
// Vertices and Edges
// =============================================================================

// ApplyVertexUpsert adds v or updates it in place. A new vertex triggers a
// relayout; re-applying an identical vertex does nothing.
func (s *Synchronizer) ApplyVertexUpsert(v topology.Vertex) {
	s.graphMu.Lock()
	defer s.graphMu.Unlock()

	added, changed := s.upsertVertexLocked(v)
	s.hooks.Sync.OnApply("vertex.upsert", changed)
	if added {
		s.relayoutWithAlarmsLocked()
	}
	s.reportSizeLocked()
}

// ApplyVertexIfAbsent adds v only when no vertex with its id is known. Feeds
// use it for edge endpoints so that a sparse endpoint record never clobbers a
// full vertex.
func (s *Synchronizer) ApplyVertexIfAbsent(v topology.Vertex) {
	s.graphMu.Lock()
	defer s.graphMu.Unlock()
	if v.ID == "" || s.graph.HasVertex(v.ID) {
		return
	}
	s.upsertVertexLocked(v)
	s.hooks.Sync.OnApply("vertex.ensure", true)
	s.relayoutWithAlarmsLocked()
	s.reportSizeLocked()
}

// ApplyVertexDelete removes the vertex with the given id and triggers a
// relayout. Incident edges are kept until the feed removes them.
func (s *Synchronizer) ApplyVertexDelete(id string) {
	s.graphMu.Lock()
	defer s.graphMu.Unlock()

	v, ok := s.graph.RemoveVertex(id)
	s.hooks.Sync.OnApply("vertex.delete", ok)
	if !ok {
		return
	}
	s.pub.Publish(dispatch.VertexRemoved{Vertex: v})
	s.relayoutWithAlarmsLocked()
	s.reportSizeLocked()
}

// ApplyEdgeUpsert adds e or updates it in place. An edge whose endpoints are
// not both known is dropped with a warning.
func (s *Synchronizer) ApplyEdgeUpsert(e topology.Edge) {
	s.graphMu.Lock()
	defer s.graphMu.Unlock()

	added, changed := s.upsertEdgeLocked(e)
	s.hooks.Sync.OnApply("edge.upsert", changed)
	if added && s.edgePolicy {
		s.relayoutWithAlarmsLocked()
	}
	s.reportSizeLocked()
}

// ApplyEdgeDelete removes the edge with the given id.
func (s *Synchronizer) ApplyEdgeDelete(id string) {
	s.graphMu.Lock()
	defer s.graphMu.Unlock()

	e, ok := s.graph.RemoveEdge(id)
	s.hooks.Sync.OnApply("edge.delete", ok)
	if !ok {
		return
	}
	s.pub.Publish(dispatch.EdgeRemoved{Edge: e})
	if s.edgePolicy {
		s.relayoutWithAlarmsLocked()
	}
	s.reportSizeLocked()
}

// upsertVertexLocked reports whether v was new and whether anything changed.
func (s *Synchronizer) upsertVertexLocked(v topology.Vertex) (added, changed bool) {
	if v.ID == "" {
		s.logger.Warn("ignoring vertex without id")
		return false, false
	}
	old, known := s.graph.Vertex(v.ID)
	if known && old == v {
		return false, false
	}
	if err := s.graph.AddVertex(v); err != nil {
		s.logger.Warn("ignoring vertex", "id", v.ID, "error", err)
		return false, false
	}
	s.pub.Publish(dispatch.VertexUpserted{Vertex: v})
	return !known, true
}

// upsertEdgeLocked reports whether e was new and whether anything changed.
// A replaced edge whose endpoints moved counts as new for relayout purposes.
func (s *Synchronizer) upsertEdgeLocked(e topology.Edge) (added, changed bool) {
	old, known := s.graph.Edge(e.ID)
	if known && old == e {
		return false, false
	}
	if err := s.graph.AddEdge(e); err != nil {
		s.logger.Warn("dropping edge", "id", e.ID, "source", e.SourceID, "target", e.TargetID, "error", err)
		s.hooks.Sync.OnEdgeDropped(e.ID)
		return false, false
	}
	s.pub.Publish(dispatch.EdgeUpserted{Edge: e})
	rewired := known && (old.SourceID != e.SourceID || old.TargetID != e.TargetID)
	return !known || rewired, true
}

func (s *Synchronizer) relayoutWithAlarmsLocked() {
	s.alarmMu.Lock()
	defer s.alarmMu.Unlock()
	s.relayoutLocked()
}

// reportSizeLocked requires the graph lock.
func (s *Synchronizer) reportSizeLocked() {
	s.alarmMu.Lock()
	alarms, situations := s.store.AlarmCount(), s.store.SituationCount()
	s.alarmMu.Unlock()
	s.hooks.Sync.OnSize(s.graph.VertexCount(), s.graph.EdgeCount(), alarms, situations)
}

// =============================================================================
// Alarms and Situations
// =============================================================================

// ApplyAlarmUpsert adds a or updates it in place.
func (s *Synchronizer) ApplyAlarmUpsert(a topology.Alarm) {
	s.alarmMu.Lock()
	defer s.alarmMu.Unlock()
	_, changed := s.upsertAlarmLocked(a)
	s.hooks.Sync.OnApply("alarm.upsert", changed)
}

// ApplyAlarmDelete removes the alarm with the given reduction key.
func (s *Synchronizer) ApplyAlarmDelete(key string) {
	s.alarmMu.Lock()
	defer s.alarmMu.Unlock()
	a, ok := s.store.RemoveAlarm(key)
	s.hooks.Sync.OnApply("alarm.delete", ok)
	if ok {
		s.pub.Publish(dispatch.AlarmRemoved{Alarm: a})
	}
}

// ApplySituationUpsert adds sit or updates it in place.
func (s *Synchronizer) ApplySituationUpsert(sit topology.Situation) {
	s.alarmMu.Lock()
	defer s.alarmMu.Unlock()
	_, changed := s.upsertSituationLocked(sit)
	s.hooks.Sync.OnApply("situation.upsert", changed)
}

// ApplySituationDelete removes the situation with the given reduction key.
func (s *Synchronizer) ApplySituationDelete(key string) {
	s.alarmMu.Lock()
	defer s.alarmMu.Unlock()
	sit, ok := s.store.RemoveSituation(key)
	s.hooks.Sync.OnApply("situation.delete", ok)
	if ok {
		s.pub.Publish(dispatch.SituationRemoved{Situation: sit})
	}
}

func (s *Synchronizer) upsertAlarmLocked(a topology.Alarm) (added, changed bool) {
	old, known := s.store.Alarm(a.ReductionKey)
	if known && old.Equal(a) {
		return false, false
	}
	if err := s.store.UpsertAlarm(a); err != nil {
		s.logger.Warn("ignoring alarm", "error", err)
		return false, false
	}
	s.pub.Publish(dispatch.AlarmUpserted{Alarm: a})
	return !known, true
}

func (s *Synchronizer) upsertSituationLocked(sit topology.Situation) (added, changed bool) {
	old, known := s.store.Situation(sit.ReductionKey)
	if known && old.Equal(sit) {
		return false, false
	}
	if err := s.store.UpsertSituation(sit); err != nil {
		s.logger.Warn("ignoring situation", "error", err)
		return false, false
	}
	stored, _ := s.store.Situation(sit.ReductionKey)
	s.pub.Publish(dispatch.SituationUpserted{Situation: stored})
	return !known, true
}

// =============================================================================
// Events
// =============================================================================

// ApplyEvent publishes e without storing it. Events without an id are given a
// random one.
func (s *Synchronizer) ApplyEvent(e topology.Event) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	s.hooks.Sync.OnApply("event", true)
	s.pub.Publish(dispatch.EventReceived{Event: e})
}

// =============================================================================
// Read Access
// =============================================================================

// Vertices returns the known vertices in insertion order.
func (s *Synchronizer) Vertices() []topology.Vertex {
	s.graphMu.Lock()
	defer s.graphMu.Unlock()
	return s.graph.Vertices()
}

// Edges returns the known edges in insertion order.
func (s *Synchronizer) Edges() []topology.Edge {
	s.graphMu.Lock()
	defer s.graphMu.Unlock()
	return s.graph.Edges()
}

// Positions returns a copy of the vertex positions.
func (s *Synchronizer) Positions() map[string]topology.Point {
	s.graphMu.Lock()
	defer s.graphMu.Unlock()
	return s.graph.Positions()
}

// Alarms returns the known alarms in insertion order.
func (s *Synchronizer) Alarms() []topology.Alarm {
	s.alarmMu.Lock()
	defer s.alarmMu.Unlock()
	return s.store.Alarms()
}

// Situations returns the known situations in insertion order.
func (s *Synchronizer) Situations() []topology.Situation {
	s.alarmMu.Lock()
	defer s.alarmMu.Unlock()
	return s.store.Situations()
}

// View calls fn with exclusive access to the model. fn must not retain g or
// st, and must not call back into the synchronizer.
func (s *Synchronizer) View(fn func(g *topology.Graph, st *topology.Store, strategy layout.Strategy)) {
	s.graphMu.Lock()
	defer s.graphMu.Unlock()
	s.alarmMu.Lock()
	defer s.alarmMu.Unlock()
	fn(s.graph, s.store, s.strategy)
}

// Layout captures the positioned model in its serialized form.
func (s *Synchronizer) Layout() graph.Layout {
	var l graph.Layout
	s.View(func(g *topology.Graph, st *topology.Store, strategy layout.Strategy) {
		var seed uint64
		if sd, ok := strategy.(layout.Seeded); ok {
			seed = sd.Seed()
		}
		l = graph.FromTopology(g, st, strategy.Name(), seed)
	})
	return l
}

var _ feed.Consumer = (*Synchronizer)(nil)
