package topology

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// VertexType classifies a topology vertex.
type VertexType string

const (
	VertexNode    VertexType = "Node"
	VertexPort    VertexType = "Port"
	VertexSegment VertexType = "Segment"
)

// Valid reports whether t is one of the known vertex types. The empty type
// is accepted and treated as unknown.
func (t VertexType) Valid() bool {
	switch t {
	case "", VertexNode, VertexPort, VertexSegment:
		return true
	}
	return false
}

// Vertex is a topology node, port or segment with a stable external id.
type Vertex struct {
	ID       string     `json:"id" yaml:"id" toml:"id"`
	Label    string     `json:"label,omitempty" yaml:"label,omitempty" toml:"label,omitempty"`
	Type     VertexType `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty"`
	Location string     `json:"location,omitempty" yaml:"location,omitempty" toml:"location,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (v Vertex) DisplayLabel() string {
	if v.Label != "" {
		return v.Label
	}
	return v.ID
}

// Edge links two vertices by id.
type Edge struct {
	ID       string `json:"id" yaml:"id" toml:"id"`
	SourceID string `json:"source" yaml:"source" toml:"source"`
	TargetID string `json:"target" yaml:"target" toml:"target"`
	Protocol string `json:"protocol,omitempty" yaml:"protocol,omitempty" toml:"protocol,omitempty"`
}

// Severity is the ordered alarm severity scale.
type Severity int

const (
	SeverityIndeterminate Severity = iota
	SeverityCleared
	SeverityNormal
	SeverityWarning
	SeverityMinor
	SeverityMajor
	SeverityCritical
)

var severityNames = [...]string{
	SeverityIndeterminate: "INDETERMINATE",
	SeverityCleared:       "CLEARED",
	SeverityNormal:        "NORMAL",
	SeverityWarning:       "WARNING",
	SeverityMinor:         "MINOR",
	SeverityMajor:         "MAJOR",
	SeverityCritical:      "CRITICAL",
}

func (s Severity) String() string {
	if s < 0 || int(s) >= len(severityNames) {
		return fmt.Sprintf("Severity(%d)", int(s))
	}
	return severityNames[s]
}

// ParseSeverity converts a severity name (case-insensitive) to a Severity.
func ParseSeverity(name string) (Severity, error) {
	for i, n := range severityNames {
		if strings.EqualFold(n, name) {
			return Severity(i), nil
		}
	}
	return SeverityIndeterminate, fmt.Errorf("unknown severity %q", name)
}

// MarshalText encodes the severity by name.
func (s Severity) MarshalText() ([]byte, error) {
	if s < 0 || int(s) >= len(severityNames) {
		return nil, fmt.Errorf("invalid severity %d", int(s))
	}
	return []byte(severityNames[s]), nil
}

// UnmarshalText decodes a severity name.
func (s *Severity) UnmarshalText(text []byte) error {
	parsed, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Alarm is a fault record keyed by its reduction key. VertexID is advisory:
// the vertex does not have to exist in the graph.
type Alarm struct {
	ReductionKey string    `json:"reductionKey" yaml:"reductionKey" toml:"reductionKey"`
	Severity     Severity  `json:"severity" yaml:"severity" toml:"severity"`
	Description  string    `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	LastUpdated  time.Time `json:"lastUpdated" yaml:"lastUpdated" toml:"lastUpdated"`
	VertexID     string    `json:"vertexId,omitempty" yaml:"vertexId,omitempty" toml:"vertexId,omitempty"`
}

// Equal reports whether a and b carry the same attributes.
func (a Alarm) Equal(b Alarm) bool {
	return a.ReductionKey == b.ReductionKey &&
		a.Severity == b.Severity &&
		a.Description == b.Description &&
		a.LastUpdated.Equal(b.LastUpdated) &&
		a.VertexID == b.VertexID
}

// Situation aggregates related alarms under one reduction key.
type Situation struct {
	ReductionKey  string    `json:"reductionKey" yaml:"reductionKey" toml:"reductionKey"`
	Severity      Severity  `json:"severity" yaml:"severity" toml:"severity"`
	Description   string    `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	LastUpdated   time.Time `json:"lastUpdated" yaml:"lastUpdated" toml:"lastUpdated"`
	VertexID      string    `json:"vertexId,omitempty" yaml:"vertexId,omitempty" toml:"vertexId,omitempty"`
	RelatedAlarms []Alarm   `json:"relatedAlarms,omitempty" yaml:"relatedAlarms,omitempty" toml:"relatedAlarms,omitempty"`
}

// Equal reports whether s and o carry the same attributes and related alarms
// in the same order.
func (s Situation) Equal(o Situation) bool {
	return s.ReductionKey == o.ReductionKey &&
		s.Severity == o.Severity &&
		s.Description == o.Description &&
		s.LastUpdated.Equal(o.LastUpdated) &&
		s.VertexID == o.VertexID &&
		slices.EqualFunc(s.RelatedAlarms, o.RelatedAlarms, Alarm.Equal)
}

// clone returns s with its own copy of the related alarms. Related alarms
// are deduplicated by reduction key, keeping the first occurrence.
func (s Situation) clone() Situation {
	if s.RelatedAlarms == nil {
		return s
	}
	seen := make(map[string]bool, len(s.RelatedAlarms))
	related := make([]Alarm, 0, len(s.RelatedAlarms))
	for _, a := range s.RelatedAlarms {
		if seen[a.ReductionKey] {
			continue
		}
		seen[a.ReductionKey] = true
		related = append(related, a)
	}
	s.RelatedAlarms = related
	return s
}

// Event is a fire-and-forget notification. Events are never stored or
// reconciled against snapshots.
type Event struct {
	ID          string    `json:"id,omitempty" yaml:"id,omitempty" toml:"id,omitempty"`
	UEI         string    `json:"uei" yaml:"uei" toml:"uei"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	Time        time.Time `json:"time" yaml:"time" toml:"time"`
	VertexID    string    `json:"vertexId,omitempty" yaml:"vertexId,omitempty" toml:"vertexId,omitempty"`
}

// Point is a 2-D position.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Origin is the zero position.
var Origin = Point{}

// Snapshot is a full topology state delivered at once.
type Snapshot struct {
	Vertices   []Vertex    `json:"vertices,omitempty" yaml:"vertices,omitempty" toml:"vertices,omitempty"`
	Edges      []Edge      `json:"edges,omitempty" yaml:"edges,omitempty" toml:"edges,omitempty"`
	Alarms     []Alarm     `json:"alarms,omitempty" yaml:"alarms,omitempty" toml:"alarms,omitempty"`
	Situations []Situation `json:"situations,omitempty" yaml:"situations,omitempty" toml:"situations,omitempty"`
}
