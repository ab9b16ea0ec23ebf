package dispatch

import (
	"maps"

	"github.com/matzehuels/arnet/pkg/topology"
)

// Kind identifies the type of a [Change].
type Kind int

const (
	KindVertexUpserted Kind = iota
	KindVertexRemoved
	KindEdgeUpserted
	KindEdgeRemoved
	KindAlarmUpserted
	KindAlarmRemoved
	KindSituationUpserted
	KindSituationRemoved
	KindLayoutRecalculated
	KindEventReceived
)

var kindNames = [...]string{
	KindVertexUpserted:     "VertexUpserted",
	KindVertexRemoved:      "VertexRemoved",
	KindEdgeUpserted:       "EdgeUpserted",
	KindEdgeRemoved:        "EdgeRemoved",
	KindAlarmUpserted:      "AlarmUpserted",
	KindAlarmRemoved:       "AlarmRemoved",
	KindSituationUpserted:  "SituationUpserted",
	KindSituationRemoved:   "SituationRemoved",
	KindLayoutRecalculated: "LayoutRecalculated",
	KindEventReceived:      "EventReceived",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Unknown"
	}
	return kindNames[k]
}

// Delivery priorities. Lower values are delivered first.
const (
	PriorityUpsert = 0
	PriorityRemove = 1
	PriorityLayout = 2
)

// Priority returns the delivery priority of the kind.
func (k Kind) Priority() int {
	switch k {
	case KindVertexRemoved, KindEdgeRemoved, KindAlarmRemoved, KindSituationRemoved:
		return PriorityRemove
	case KindLayoutRecalculated:
		return PriorityLayout
	default:
		return PriorityUpsert
	}
}

// Change is a buffered notification. The set of implementations is closed.
type Change interface {
	Kind() Kind
	change()
}

type (
	VertexUpserted    struct{ Vertex topology.Vertex }
	VertexRemoved     struct{ Vertex topology.Vertex }
	EdgeUpserted      struct{ Edge topology.Edge }
	EdgeRemoved       struct{ Edge topology.Edge }
	AlarmUpserted     struct{ Alarm topology.Alarm }
	AlarmRemoved      struct{ Alarm topology.Alarm }
	SituationUpserted struct{ Situation topology.Situation }
	SituationRemoved  struct{ Situation topology.Situation }
	EventReceived     struct{ Event topology.Event }
)

// LayoutRecalculated carries the positions produced by a layout run. The maps
// are owned by the change and safe to read after delivery.
type LayoutRecalculated struct {
	Strategy   string
	Vertices   map[string]topology.Point
	Alarms     map[string]topology.Point
	Situations map[string]topology.Point
}

// NewLayoutRecalculated snapshots the current positions of g and s.
func NewLayoutRecalculated(strategy string, g *topology.Graph, s *topology.Store) LayoutRecalculated {
	lr := LayoutRecalculated{Strategy: strategy, Vertices: g.Positions()}
	if s != nil {
		lr.Alarms = s.AlarmPositions()
		lr.Situations = s.SituationPositions()
	}
	return lr
}

// Clone returns a deep copy of lr.
func (lr LayoutRecalculated) Clone() LayoutRecalculated {
	lr.Vertices = maps.Clone(lr.Vertices)
	lr.Alarms = maps.Clone(lr.Alarms)
	lr.Situations = maps.Clone(lr.Situations)
	return lr
}

func (VertexUpserted) Kind() Kind     { return KindVertexUpserted }
func (VertexRemoved) Kind() Kind      { return KindVertexRemoved }
func (EdgeUpserted) Kind() Kind       { return KindEdgeUpserted }
func (EdgeRemoved) Kind() Kind        { return KindEdgeRemoved }
func (AlarmUpserted) Kind() Kind      { return KindAlarmUpserted }
func (AlarmRemoved) Kind() Kind       { return KindAlarmRemoved }
func (SituationUpserted) Kind() Kind  { return KindSituationUpserted }
func (SituationRemoved) Kind() Kind   { return KindSituationRemoved }
func (LayoutRecalculated) Kind() Kind { return KindLayoutRecalculated }
func (EventReceived) Kind() Kind      { return KindEventReceived }

func (VertexUpserted) change()     {}
func (VertexRemoved) change()      {}
func (EdgeUpserted) change()       {}
func (EdgeRemoved) change()        {}
func (AlarmUpserted) change()      {}
func (AlarmRemoved) change()       {}
func (SituationUpserted) change()  {}
func (SituationRemoved) change()   {}
func (LayoutRecalculated) change() {}
func (EventReceived) change()      {}
