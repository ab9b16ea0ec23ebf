package cli

import (
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/arnet/pkg/dispatch"
	"github.com/matzehuels/arnet/pkg/topology"
)

// logObserver logs every drained change at debug level and counts changes
// by kind.
type logObserver struct {
	logger *log.Logger

	mu     sync.Mutex
	counts map[dispatch.Kind]int
}

func newLogObserver(l *log.Logger) *logObserver {
	return &logObserver{logger: l, counts: make(map[dispatch.Kind]int)}
}

func (o *logObserver) count(k dispatch.Kind) {
	o.mu.Lock()
	o.counts[k]++
	o.mu.Unlock()
}

// total returns the number of changes seen of the given kinds, or of every
// kind when none are given.
func (o *logObserver) total(kinds ...dispatch.Kind) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	n := 0
	if len(kinds) == 0 {
		for _, c := range o.counts {
			n += c
		}
		return n
	}
	for _, k := range kinds {
		n += o.counts[k]
	}
	return n
}

func (o *logObserver) OnVertexUpserted(v topology.Vertex) {
	o.count(dispatch.KindVertexUpserted)
	o.logger.Debug("vertex upserted", "id", v.ID, "label", v.Label)
}

func (o *logObserver) OnVertexRemoved(v topology.Vertex) {
	o.count(dispatch.KindVertexRemoved)
	o.logger.Debug("vertex removed", "id", v.ID)
}

func (o *logObserver) OnEdgeUpserted(e topology.Edge) {
	o.count(dispatch.KindEdgeUpserted)
	o.logger.Debug("edge upserted", "id", e.ID, "source", e.SourceID, "target", e.TargetID)
}

func (o *logObserver) OnEdgeRemoved(e topology.Edge) {
	o.count(dispatch.KindEdgeRemoved)
	o.logger.Debug("edge removed", "id", e.ID)
}

func (o *logObserver) OnAlarmUpserted(a topology.Alarm) {
	o.count(dispatch.KindAlarmUpserted)
	o.logger.Debug("alarm upserted", "key", a.ReductionKey, "severity", a.Severity, "vertex", a.VertexID)
}

func (o *logObserver) OnAlarmRemoved(a topology.Alarm) {
	o.count(dispatch.KindAlarmRemoved)
	o.logger.Debug("alarm removed", "key", a.ReductionKey)
}

func (o *logObserver) OnSituationUpserted(s topology.Situation) {
	o.count(dispatch.KindSituationUpserted)
	o.logger.Debug("situation upserted", "key", s.ReductionKey, "severity", s.Severity, "related", len(s.RelatedAlarms))
}

func (o *logObserver) OnSituationRemoved(s topology.Situation) {
	o.count(dispatch.KindSituationRemoved)
	o.logger.Debug("situation removed", "key", s.ReductionKey)
}

func (o *logObserver) OnLayoutRecalculated(lr dispatch.LayoutRecalculated) {
	o.count(dispatch.KindLayoutRecalculated)
	o.logger.Debug("layout recalculated", "strategy", lr.Strategy, "vertices", len(lr.Vertices))
}

func (o *logObserver) OnEvent(e topology.Event) {
	o.count(dispatch.KindEventReceived)
	o.logger.Info("event", "uei", e.UEI, "vertex", e.VertexID, "description", e.Description)
}

var _ dispatch.Observer = (*logObserver)(nil)
