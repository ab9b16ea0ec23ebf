package cli

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/arnet/pkg/feed"
	"github.com/matzehuels/arnet/pkg/topology"
)

func TestWatchStateFaultsOrder(t *testing.T) {
	s := newWatchState()
	s.OnVertexUpserted(topology.Vertex{ID: "n1", Label: "core"})
	s.OnAlarmUpserted(topology.Alarm{ReductionKey: "b", Severity: topology.SeverityMinor, VertexID: "n1"})
	s.OnAlarmUpserted(topology.Alarm{ReductionKey: "a", Severity: topology.SeverityMinor})
	s.OnSituationUpserted(topology.Situation{ReductionKey: "s", Severity: topology.SeverityCritical})
	s.OnAlarmUpserted(topology.Alarm{ReductionKey: "c", Severity: topology.SeverityMajor})

	var keys []string
	for _, row := range s.faults() {
		keys = append(keys, row[2])
	}
	if got := strings.Join(keys, ","); got != "s,c,a,b" {
		t.Errorf("faults order = %s, want s,c,a,b", got)
	}
	if row := s.faults()[3]; row[3] != "core" {
		t.Errorf("vertex column = %q, want label core", row[3])
	}

	s.OnAlarmRemoved(topology.Alarm{ReductionKey: "c"})
	if len(s.faults()) != 3 {
		t.Errorf("len(faults) = %d after removal, want 3", len(s.faults()))
	}
}

func TestWatchStateRecentIsBounded(t *testing.T) {
	s := newWatchState()
	s.now = func() time.Time { return time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC) }
	for i := 0; i < maxRecent+5; i++ {
		s.OnEvent(topology.Event{UEI: "uei.opennms.org/test"})
	}
	if len(s.recent) != maxRecent {
		t.Errorf("len(recent) = %d, want %d", len(s.recent), maxRecent)
	}
	if !strings.HasPrefix(s.recent[0], "10:00:00 event") {
		t.Errorf("recent[0] = %q", s.recent[0])
	}
}

func TestWatchModelDrainsOnTick(t *testing.T) {
	c := testCLI(t)
	c.Config.Layout.Cache = "none"
	eng, err := c.newEngine(engineOptions{Strategy: "diagonal"})
	if err != nil {
		t.Fatal(err)
	}
	defer eng.Close()

	eng.sync.Merge(feed.MockSnapshot())
	m := newWatchModel(eng, 10*time.Millisecond, 0)

	next, cmd := m.Update(tickMsg(time.Now()))
	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}
	m = next.(watchModel)
	if eng.dispatcher.Len() != 0 {
		t.Errorf("dispatcher has %d changes after tick, want 0", eng.dispatcher.Len())
	}
	if len(m.state.vertices) != 5 || m.state.strategy != "diagonal" || m.state.layouts != 1 {
		t.Errorf("state = %d vertices, strategy %q, %d layouts", len(m.state.vertices), m.state.strategy, m.state.layouts)
	}

	view := m.View()
	for _, want := range []string{"arnet watch", "diagonal", "branch-outage", "CRITICAL"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestWatchModelKeys(t *testing.T) {
	c := testCLI(t)
	c.Config.Layout.Cache = "none"
	eng, err := c.newEngine(engineOptions{Strategy: "diagonal"})
	if err != nil {
		t.Fatal(err)
	}
	defer eng.Close()
	eng.sync.Merge(feed.MockSnapshot())

	m := newWatchModel(eng, time.Second, 0)
	next, _ := m.Update(tickMsg(time.Now()))
	m = next.(watchModel)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	next, _ = next.Update(tickMsg(time.Now()))
	m = next.(watchModel)
	if m.state.strategy != "force" {
		t.Errorf("strategy after s = %q, want force", m.state.strategy)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}
