package dispatch

import "github.com/matzehuels/arnet/pkg/topology"

// Observer receives drained changes, one method per kind.
type Observer interface {
	OnVertexUpserted(topology.Vertex)
	OnVertexRemoved(topology.Vertex)
	OnEdgeUpserted(topology.Edge)
	OnEdgeRemoved(topology.Edge)
	OnAlarmUpserted(topology.Alarm)
	OnAlarmRemoved(topology.Alarm)
	OnSituationUpserted(topology.Situation)
	OnSituationRemoved(topology.Situation)
	OnLayoutRecalculated(LayoutRecalculated)
	OnEvent(topology.Event)
}

// NopObserver ignores every change. Embed it to implement only some methods.
type NopObserver struct{}

func (NopObserver) OnVertexUpserted(topology.Vertex)        {}
func (NopObserver) OnVertexRemoved(topology.Vertex)         {}
func (NopObserver) OnEdgeUpserted(topology.Edge)            {}
func (NopObserver) OnEdgeRemoved(topology.Edge)             {}
func (NopObserver) OnAlarmUpserted(topology.Alarm)          {}
func (NopObserver) OnAlarmRemoved(topology.Alarm)           {}
func (NopObserver) OnSituationUpserted(topology.Situation)  {}
func (NopObserver) OnSituationRemoved(topology.Situation)   {}
func (NopObserver) OnLayoutRecalculated(LayoutRecalculated) {}
func (NopObserver) OnEvent(topology.Event)                  {}

// Deliver calls the observer method matching c.
func Deliver(c Change, o Observer) {
	switch c := c.(type) {
	case VertexUpserted:
		o.OnVertexUpserted(c.Vertex)
	case VertexRemoved:
		o.OnVertexRemoved(c.Vertex)
	case EdgeUpserted:
		o.OnEdgeUpserted(c.Edge)
	case EdgeRemoved:
		o.OnEdgeRemoved(c.Edge)
	case AlarmUpserted:
		o.OnAlarmUpserted(c.Alarm)
	case AlarmRemoved:
		o.OnAlarmRemoved(c.Alarm)
	case SituationUpserted:
		o.OnSituationUpserted(c.Situation)
	case SituationRemoved:
		o.OnSituationRemoved(c.Situation)
	case LayoutRecalculated:
		o.OnLayoutRecalculated(c)
	case EventReceived:
		o.OnEvent(c.Event)
	}
}
