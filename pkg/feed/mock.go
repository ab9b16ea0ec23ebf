package feed

import (
	"time"

	"github.com/matzehuels/arnet/pkg/topology"
)

var mockEpoch = time.Date(2019, 10, 1, 12, 0, 0, 0, time.UTC)

// MockSnapshot returns a small fixed topology: five nodes in a tree rooted at
// n2, four links, two alarms and one situation.
func MockSnapshot() topology.Snapshot {
	vertices := []topology.Vertex{
		{ID: "n1", Label: "edge-router", Type: topology.VertexNode, Location: "Default"},
		{ID: "n2", Label: "core-switch", Type: topology.VertexNode, Location: "Default"},
		{ID: "n3", Label: "access-1", Type: topology.VertexNode, Location: "Default"},
		{ID: "n4", Label: "access-2", Type: topology.VertexNode, Location: "Branch"},
		{ID: "n5", Label: "ap-1", Type: topology.VertexNode, Location: "Branch"},
	}
	edges := []topology.Edge{
		{ID: "n1-n2", SourceID: "n1", TargetID: "n2", Protocol: "LLDP"},
		{ID: "n2-n3", SourceID: "n2", TargetID: "n3", Protocol: "LLDP"},
		{ID: "n2-n4", SourceID: "n2", TargetID: "n4", Protocol: "CDP"},
		{ID: "n4-n5", SourceID: "n4", TargetID: "n5", Protocol: "CDP"},
	}
	linkDown := topology.Alarm{
		ReductionKey: "uei.opennms.org/nodes/linkDown::n3",
		Severity:     topology.SeverityMajor,
		Description:  "Link down on access-1",
		LastUpdated:  mockEpoch,
		VertexID:     "n3",
	}
	nodeDown := topology.Alarm{
		ReductionKey: "uei.opennms.org/nodes/nodeDown::n5",
		Severity:     topology.SeverityCritical,
		Description:  "ap-1 is down",
		LastUpdated:  mockEpoch.Add(time.Minute),
		VertexID:     "n5",
	}
	return topology.Snapshot{
		Vertices: vertices,
		Edges:    edges,
		Alarms:   []topology.Alarm{linkDown, nodeDown},
		Situations: []topology.Situation{{
			ReductionKey:  "situation::branch-outage",
			Severity:      topology.SeverityCritical,
			Description:   "Branch outage",
			LastUpdated:   mockEpoch.Add(2 * time.Minute),
			VertexID:      "n4",
			RelatedAlarms: []topology.Alarm{linkDown, nodeDown},
		}},
	}
}

// Mock delivers [MockSnapshot] to consumers as they are accepted.
type Mock struct {
	Fanout
}

// Accept adds c and immediately sends it the mock snapshot.
func (m *Mock) Accept(c Consumer) {
	m.Fanout.Accept(c)
	c.OnSnapshot(MockSnapshot())
}

// RecordMock writes the mock topology followed by a short burst of deltas to
// r: a new node with a link, an alarm on it, an event and the clearing of
// the first alarm.
func RecordMock(r *Recorder) error {
	snap := MockSnapshot()
	n6 := topology.Vertex{ID: "n6", Label: "ap-2", Type: topology.VertexNode, Location: "Branch"}
	n4 := snap.Vertices[3]

	steps := []struct {
		t       MessageType
		payload any
	}{
		{TypeTopology, NewTopologyPayload(snap)},
		{TypeEdge, NewEdgePayload(topology.Edge{ID: "n4-n6", SourceID: "n4", TargetID: "n6", Protocol: "CDP"}, n4, n6)},
		{TypeAlarm, AlarmPayload{Alarm: topology.Alarm{
			ReductionKey: "uei.opennms.org/nodes/nodeDown::n6",
			Severity:     topology.SeverityMinor,
			Description:  "ap-2 is down",
			LastUpdated:  mockEpoch.Add(3 * time.Minute),
			VertexID:     "n6",
		}}},
		{TypeEvent, topology.Event{
			UEI:         "uei.opennms.org/nodes/nodeUp",
			Description: "access-1 link restored",
			Time:        mockEpoch.Add(4 * time.Minute),
			VertexID:    "n3",
		}},
		{TypeAlarmDelete, DeletePayload{ReductionKey: snap.Alarms[0].ReductionKey}},
	}
	for _, s := range steps {
		if err := r.Record(s.t, s.payload); err != nil {
			return err
		}
	}
	return nil
}
