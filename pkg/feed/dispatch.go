package feed

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/arnet/pkg/topology"
)

// Dispatch decodes the payload of m and calls the matching method of c.
// Edge messages deliver both endpoints before the edge itself.
func Dispatch(m Message, c Consumer) error {
	switch m.Type {
	case TypeTopology:
		var p TopologyPayload
		if err := decodePayload(m, &p); err != nil {
			return err
		}
		c.OnSnapshot(p.Snapshot())

	case TypeVertex, TypeNode:
		var v topology.Vertex
		if err := decodePayload(m, &v); err != nil {
			return err
		}
		c.OnVertexUpsert(v)

	case TypeVertexDelete:
		var p DeletePayload
		if err := decodePayload(m, &p); err != nil {
			return err
		}
		c.OnVertexDelete(p.ID)

	case TypeEdge:
		var p EdgePayload
		if err := decodePayload(m, &p); err != nil {
			return err
		}
		deliverEndpoint(c, p.Source)
		deliverEndpoint(c, p.Target)
		c.OnEdgeUpsert(p.Edge())

	case TypeEdgeDelete:
		var p DeletePayload
		if err := decodePayload(m, &p); err != nil {
			return err
		}
		c.OnEdgeDelete(p.ID)

	case TypeAlarm:
		var p AlarmPayload
		if err := decodePayload(m, &p); err != nil {
			return err
		}
		if p.IsSituation {
			c.OnSituationUpsert(p.Situation())
		} else {
			c.OnAlarmUpsert(p.Alarm)
		}

	case TypeAlarmDelete:
		var p DeletePayload
		if err := decodePayload(m, &p); err != nil {
			return err
		}
		if p.IsSituation {
			c.OnSituationDelete(p.ReductionKey)
		} else {
			c.OnAlarmDelete(p.ReductionKey)
		}

	case TypeSituation:
		var s topology.Situation
		if err := decodePayload(m, &s); err != nil {
			return err
		}
		c.OnSituationUpsert(s)

	case TypeSituationDelete:
		var p DeletePayload
		if err := decodePayload(m, &p); err != nil {
			return err
		}
		c.OnSituationDelete(p.ReductionKey)

	case TypeEvent:
		var e topology.Event
		if err := decodePayload(m, &e); err != nil {
			return err
		}
		c.OnEvent(e)

	default:
		return fmt.Errorf("%w: %q", ErrUnknownMessageType, m.Type)
	}
	return nil
}

func decodePayload(m Message, v any) error {
	if err := json.Unmarshal(m.Payload, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidPayload, m.Type, err)
	}
	return nil
}
