package topology

import (
	"errors"
	"testing"
	"time"
)

func TestStoreAlarms(t *testing.T) {
	s := NewStore()
	if err := s.UpsertAlarm(Alarm{}); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("UpsertAlarm(empty) = %v, want ErrInvalidID", err)
	}

	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	_ = s.UpsertAlarm(Alarm{ReductionKey: "k1", Severity: SeverityMinor, LastUpdated: now})
	_ = s.UpsertAlarm(Alarm{ReductionKey: "k2", Severity: SeverityMajor})
	s.SetAlarmPosition("k1", Point{X: 1, Y: 1})
	_ = s.UpsertAlarm(Alarm{ReductionKey: "k1", Severity: SeverityCritical, LastUpdated: now})

	alarms := s.Alarms()
	if len(alarms) != 2 || alarms[0].ReductionKey != "k1" || alarms[1].ReductionKey != "k2" {
		t.Fatalf("Alarms() = %v, want [k1 k2]", alarms)
	}
	if alarms[0].Severity != SeverityCritical {
		t.Errorf("Severity = %v, want CRITICAL", alarms[0].Severity)
	}
	if p, _ := s.AlarmPosition("k1"); p != (Point{X: 1, Y: 1}) {
		t.Errorf("AlarmPosition(k1) = %v, want position kept across upsert", p)
	}

	if _, ok := s.RemoveAlarm("k1"); !ok {
		t.Fatal("RemoveAlarm(k1) = false")
	}
	if _, ok := s.AlarmPosition("k1"); ok {
		t.Error("position survived alarm removal")
	}
	if s.AlarmCount() != 1 {
		t.Errorf("AlarmCount() = %d, want 1", s.AlarmCount())
	}
}

func TestStoreSituationsDeduplicateRelatedAlarms(t *testing.T) {
	s := NewStore()
	related := []Alarm{{ReductionKey: "a"}, {ReductionKey: "b"}, {ReductionKey: "a"}}
	if err := s.UpsertSituation(Situation{ReductionKey: "sit", RelatedAlarms: related}); err != nil {
		t.Fatal(err)
	}
	related[1].ReductionKey = "mutated"

	got, ok := s.Situation("sit")
	if !ok {
		t.Fatal("Situation(sit) not found")
	}
	if len(got.RelatedAlarms) != 2 || got.RelatedAlarms[1].ReductionKey != "b" {
		t.Errorf("RelatedAlarms = %v, want [a b]", got.RelatedAlarms)
	}
}

func TestSeverityText(t *testing.T) {
	tests := []struct {
		in   string
		want Severity
		err  bool
	}{
		{"CRITICAL", SeverityCritical, false},
		{"minor", SeverityMinor, false},
		{"Cleared", SeverityCleared, false},
		{"bogus", SeverityIndeterminate, true},
	}
	for _, tt := range tests {
		var s Severity
		err := s.UnmarshalText([]byte(tt.in))
		if (err != nil) != tt.err {
			t.Errorf("UnmarshalText(%q) error = %v, wantErr %v", tt.in, err, tt.err)
			continue
		}
		if s != tt.want {
			t.Errorf("UnmarshalText(%q) = %v, want %v", tt.in, s, tt.want)
		}
	}
	if SeverityMajor <= SeverityMinor {
		t.Error("severity scale is not ordered")
	}
	if got := Severity(42).String(); got != "Severity(42)" {
		t.Errorf("String() = %q", got)
	}
}

func TestAlarmEqual(t *testing.T) {
	t1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.In(time.FixedZone("X", 3600))
	a := Alarm{ReductionKey: "k", LastUpdated: t1}
	b := Alarm{ReductionKey: "k", LastUpdated: t2}
	if !a.Equal(b) {
		t.Error("Equal() = false for the same instant in different zones")
	}
	b.Severity = SeverityMajor
	if a.Equal(b) {
		t.Error("Equal() = true for different severities")
	}
}
