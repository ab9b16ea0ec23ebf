package topology

import (
	"maps"
	"slices"
)

// Store holds alarms and situations keyed by reduction key. Iteration order
// is insertion order; replacing an entry keeps its slot and its position.
//
// The zero value is not usable - use NewStore.
type Store struct {
	alarms       map[string]Alarm
	alarmOrder   []string
	alarmPos     map[string]Point
	situations   map[string]Situation
	situationOrd []string
	situationPos map[string]Point
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		alarms:       make(map[string]Alarm),
		alarmPos:     make(map[string]Point),
		situations:   make(map[string]Situation),
		situationPos: make(map[string]Point),
	}
}

// UpsertAlarm inserts or replaces an alarm.
func (s *Store) UpsertAlarm(a Alarm) error {
	if a.ReductionKey == "" {
		return ErrInvalidID
	}
	if _, ok := s.alarms[a.ReductionKey]; !ok {
		s.alarmOrder = append(s.alarmOrder, a.ReductionKey)
		s.alarmPos[a.ReductionKey] = Origin
	}
	s.alarms[a.ReductionKey] = a
	return nil
}

// RemoveAlarm removes the alarm with the given reduction key.
func (s *Store) RemoveAlarm(key string) (Alarm, bool) {
	a, ok := s.alarms[key]
	if !ok {
		return Alarm{}, false
	}
	delete(s.alarms, key)
	delete(s.alarmPos, key)
	s.alarmOrder = slices.DeleteFunc(s.alarmOrder, func(k string) bool { return k == key })
	return a, true
}

// Alarm returns the alarm with the given reduction key.
func (s *Store) Alarm(key string) (Alarm, bool) {
	a, ok := s.alarms[key]
	return a, ok
}

// Alarms returns all alarms in insertion order.
func (s *Store) Alarms() []Alarm {
	out := make([]Alarm, len(s.alarmOrder))
	for i, k := range s.alarmOrder {
		out[i] = s.alarms[k]
	}
	return out
}

// AlarmCount returns the number of alarms.
func (s *Store) AlarmCount() int { return len(s.alarms) }

// AlarmPosition returns the stored position of an alarm.
func (s *Store) AlarmPosition(key string) (Point, bool) {
	p, ok := s.alarmPos[key]
	return p, ok
}

// SetAlarmPosition stores the position of an alarm. Unknown keys are ignored.
func (s *Store) SetAlarmPosition(key string, p Point) {
	if _, ok := s.alarms[key]; ok {
		s.alarmPos[key] = p
	}
}

// AlarmPositions returns a copy of all alarm positions.
func (s *Store) AlarmPositions() map[string]Point { return maps.Clone(s.alarmPos) }

// UpsertSituation inserts or replaces a situation. Related alarms are copied
// and deduplicated by reduction key.
func (s *Store) UpsertSituation(sit Situation) error {
	if sit.ReductionKey == "" {
		return ErrInvalidID
	}
	if _, ok := s.situations[sit.ReductionKey]; !ok {
		s.situationOrd = append(s.situationOrd, sit.ReductionKey)
		s.situationPos[sit.ReductionKey] = Origin
	}
	s.situations[sit.ReductionKey] = sit.clone()
	return nil
}

// RemoveSituation removes the situation with the given reduction key.
func (s *Store) RemoveSituation(key string) (Situation, bool) {
	sit, ok := s.situations[key]
	if !ok {
		return Situation{}, false
	}
	delete(s.situations, key)
	delete(s.situationPos, key)
	s.situationOrd = slices.DeleteFunc(s.situationOrd, func(k string) bool { return k == key })
	return sit, true
}

// Situation returns the situation with the given reduction key.
func (s *Store) Situation(key string) (Situation, bool) {
	sit, ok := s.situations[key]
	return sit, ok
}

// Situations returns all situations in insertion order.
func (s *Store) Situations() []Situation {
	out := make([]Situation, len(s.situationOrd))
	for i, k := range s.situationOrd {
		out[i] = s.situations[k].clone()
	}
	return out
}

// SituationCount returns the number of situations.
func (s *Store) SituationCount() int { return len(s.situations) }

// SituationPosition returns the stored position of a situation.
func (s *Store) SituationPosition(key string) (Point, bool) {
	p, ok := s.situationPos[key]
	return p, ok
}

// SetSituationPosition stores the position of a situation. Unknown keys are
// ignored.
func (s *Store) SetSituationPosition(key string, p Point) {
	if _, ok := s.situations[key]; ok {
		s.situationPos[key] = p
	}
}

// SituationPositions returns a copy of all situation positions.
func (s *Store) SituationPositions() map[string]Point { return maps.Clone(s.situationPos) }

