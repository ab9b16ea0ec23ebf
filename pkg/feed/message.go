package feed

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/matzehuels/arnet/pkg/topology"
)

// MessageType discriminates stream envelopes.
type MessageType string

const (
	TypeTopology        MessageType = "Topology"
	TypeVertex          MessageType = "Vertex"
	TypeNode            MessageType = "Node" // alias of Vertex
	TypeVertexDelete    MessageType = "VertexDelete"
	TypeEdge            MessageType = "Edge"
	TypeEdgeDelete      MessageType = "EdgeDelete"
	TypeAlarm           MessageType = "Alarm"
	TypeAlarmDelete     MessageType = "AlarmDelete"
	TypeSituation       MessageType = "Situation"
	TypeSituationDelete MessageType = "SituationDelete"
	TypeEvent           MessageType = "Event"
)

var (
	// ErrUnknownMessageType is returned by [Dispatch] for an unsupported type.
	ErrUnknownMessageType = errors.New("unknown message type")

	// ErrInvalidPayload is returned when a payload does not decode.
	ErrInvalidPayload = errors.New("invalid payload")
)

// Message is a stream envelope.
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// NewMessage encodes payload into an envelope of type t.
func NewMessage(t MessageType, payload any) (Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("encode %s payload: %w", t, err)
	}
	return Message{Type: t, Payload: data}, nil
}

// Decode parses one envelope.
func Decode(data []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return Message{}, fmt.Errorf("decode message: %w", err)
	}
	if m.Type == "" {
		return Message{}, fmt.Errorf("decode message: missing type")
	}
	return m, nil
}

// Recorder writes envelopes as JSON lines.
type Recorder struct {
	enc *json.Encoder
}

// NewRecorder returns a recorder writing to w.
func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{enc: json.NewEncoder(w)}
}

// Record writes one envelope of type t.
func (r *Recorder) Record(t MessageType, payload any) error {
	m, err := NewMessage(t, payload)
	if err != nil {
		return err
	}
	return r.enc.Encode(m)
}

// =============================================================================
// Payloads
// =============================================================================

// EdgePayload is an edge with its endpoint vertices inlined.
type EdgePayload struct {
	ID       string          `json:"id"`
	Protocol string          `json:"protocol,omitempty"`
	Source   topology.Vertex `json:"source"`
	Target   topology.Vertex `json:"target"`
}

// Edge returns the edge without its endpoint records.
func (p EdgePayload) Edge() topology.Edge {
	return topology.Edge{ID: p.ID, SourceID: p.Source.ID, TargetID: p.Target.ID, Protocol: p.Protocol}
}

// NewEdgePayload inlines the endpoint vertices of e.
func NewEdgePayload(e topology.Edge, src, dst topology.Vertex) EdgePayload {
	return EdgePayload{ID: e.ID, Protocol: e.Protocol, Source: src, Target: dst}
}

// AlarmPayload is an alarm that may stand for a situation.
type AlarmPayload struct {
	topology.Alarm
	IsSituation   bool             `json:"isSituation,omitempty"`
	RelatedAlarms []topology.Alarm `json:"relatedAlarms,omitempty"`
}

// Situation converts the payload to a situation.
func (p AlarmPayload) Situation() topology.Situation {
	return topology.Situation{
		ReductionKey:  p.ReductionKey,
		Severity:      p.Severity,
		Description:   p.Description,
		LastUpdated:   p.LastUpdated,
		VertexID:      p.VertexID,
		RelatedAlarms: p.RelatedAlarms,
	}
}

// DeletePayload identifies an entity to delete.
type DeletePayload struct {
	ID           string `json:"id,omitempty"`
	ReductionKey string `json:"reductionKey,omitempty"`
	IsSituation  bool   `json:"isSituation,omitempty"`
}

// TopologyPayload is a full snapshot. Alarms flagged isSituation are merged
// into the situation list.
type TopologyPayload struct {
	Vertices   []topology.Vertex    `json:"vertices,omitempty"`
	Edges      []EdgePayload        `json:"edges,omitempty"`
	Alarms     []AlarmPayload       `json:"alarms,omitempty"`
	Situations []topology.Situation `json:"situations,omitempty"`
}

// Snapshot flattens the payload. Edge endpoints that are not listed as
// vertices are added after the listed vertices, first occurrence wins.
func (p TopologyPayload) Snapshot() topology.Snapshot {
	var snap topology.Snapshot
	seen := make(map[string]bool, len(p.Vertices))
	addVertex := func(v topology.Vertex) {
		if v.ID == "" || seen[v.ID] {
			return
		}
		seen[v.ID] = true
		snap.Vertices = append(snap.Vertices, v)
	}
	for _, v := range p.Vertices {
		addVertex(v)
	}
	for _, e := range p.Edges {
		addVertex(e.Source)
		addVertex(e.Target)
		snap.Edges = append(snap.Edges, e.Edge())
	}
	for _, a := range p.Alarms {
		if a.IsSituation {
			snap.Situations = append(snap.Situations, a.Situation())
		} else {
			snap.Alarms = append(snap.Alarms, a.Alarm)
		}
	}
	snap.Situations = append(snap.Situations, p.Situations...)
	return snap
}

// NewTopologyPayload builds a payload from a snapshot, inlining edge
// endpoints from the snapshot's vertices.
func NewTopologyPayload(snap topology.Snapshot) TopologyPayload {
	byID := make(map[string]topology.Vertex, len(snap.Vertices))
	for _, v := range snap.Vertices {
		byID[v.ID] = v
	}
	p := TopologyPayload{Vertices: snap.Vertices, Situations: snap.Situations}
	for _, e := range snap.Edges {
		src, ok := byID[e.SourceID]
		if !ok {
			src = topology.Vertex{ID: e.SourceID}
		}
		dst, ok := byID[e.TargetID]
		if !ok {
			dst = topology.Vertex{ID: e.TargetID}
		}
		p.Edges = append(p.Edges, NewEdgePayload(e, src, dst))
	}
	for _, a := range snap.Alarms {
		p.Alarms = append(p.Alarms, AlarmPayload{Alarm: a})
	}
	return p
}
