package cli

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/arnet/pkg/dispatch"
	"github.com/matzehuels/arnet/pkg/layout"
	"github.com/matzehuels/arnet/pkg/topology"
)

const maxRecent = 8

var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
	headerStyle  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// =============================================================================
// watchState - drained model view
// =============================================================================

// watchState mirrors the model from drained changes. It is only touched from
// the bubbletea update loop.
type watchState struct {
	vertices   map[string]topology.Vertex
	edges      map[string]topology.Edge
	alarms     map[string]topology.Alarm
	situations map[string]topology.Situation
	positions  map[string]topology.Point
	strategy   string
	layouts    int
	recent     []string
	now        func() time.Time
}

func newWatchState() *watchState {
	return &watchState{
		vertices:   make(map[string]topology.Vertex),
		edges:      make(map[string]topology.Edge),
		alarms:     make(map[string]topology.Alarm),
		situations: make(map[string]topology.Situation),
		positions:  make(map[string]topology.Point),
		now:        time.Now,
	}
}

func (s *watchState) note(format string, args ...any) {
	line := s.now().Format("15:04:05") + " " + fmt.Sprintf(format, args...)
	s.recent = append(s.recent, line)
	if len(s.recent) > maxRecent {
		s.recent = s.recent[len(s.recent)-maxRecent:]
	}
}

func (s *watchState) OnVertexUpserted(v topology.Vertex) {
	s.vertices[v.ID] = v
	s.note("+ vertex %s", v.DisplayLabel())
}

func (s *watchState) OnVertexRemoved(v topology.Vertex) {
	delete(s.vertices, v.ID)
	delete(s.positions, v.ID)
	s.note("- vertex %s", v.DisplayLabel())
}

func (s *watchState) OnEdgeUpserted(e topology.Edge) {
	s.edges[e.ID] = e
	s.note("+ edge %s", e.ID)
}

func (s *watchState) OnEdgeRemoved(e topology.Edge) {
	delete(s.edges, e.ID)
	s.note("- edge %s", e.ID)
}

func (s *watchState) OnAlarmUpserted(a topology.Alarm) {
	s.alarms[a.ReductionKey] = a
	s.note("+ alarm %s %s", a.Severity, a.ReductionKey)
}

func (s *watchState) OnAlarmRemoved(a topology.Alarm) {
	delete(s.alarms, a.ReductionKey)
	s.note("- alarm %s", a.ReductionKey)
}

func (s *watchState) OnSituationUpserted(sit topology.Situation) {
	s.situations[sit.ReductionKey] = sit
	s.note("+ situation %s %s", sit.Severity, sit.ReductionKey)
}

func (s *watchState) OnSituationRemoved(sit topology.Situation) {
	delete(s.situations, sit.ReductionKey)
	s.note("- situation %s", sit.ReductionKey)
}

func (s *watchState) OnLayoutRecalculated(lr dispatch.LayoutRecalculated) {
	s.strategy = lr.Strategy
	s.positions = lr.Vertices
	s.layouts++
}

func (s *watchState) OnEvent(e topology.Event) {
	s.note("event %s %s", e.UEI, e.VertexID)
}

// faults returns alarms and situations as table rows, worst first.
func (s *watchState) faults() [][]string {
	type fault struct {
		kind     string
		key      string
		severity topology.Severity
		vertex   string
	}
	var fs []fault
	for _, a := range s.alarms {
		fs = append(fs, fault{"alarm", a.ReductionKey, a.Severity, a.VertexID})
	}
	for _, sit := range s.situations {
		fs = append(fs, fault{"situation", sit.ReductionKey, sit.Severity, sit.VertexID})
	}
	slices.SortFunc(fs, func(a, b fault) int {
		if c := cmp.Compare(b.severity, a.severity); c != 0 {
			return c
		}
		return cmp.Compare(a.key, b.key)
	})

	rows := make([][]string, 0, len(fs))
	for _, f := range fs {
		label := f.vertex
		if v, ok := s.vertices[f.vertex]; ok {
			label = v.DisplayLabel()
		}
		rows = append(rows, []string{f.severity.String(), f.kind, f.key, label})
	}
	return rows
}

// =============================================================================
// watchModel - live topology dashboard
// =============================================================================

type tickMsg time.Time

// watchModel is the bubbletea model for the watch command. Each tick drains
// the dispatcher into the state.
type watchModel struct {
	eng      *engine
	state    *watchState
	interval time.Duration
	seed     uint64
	err      error
}

func newWatchModel(eng *engine, interval time.Duration, seed uint64) watchModel {
	return watchModel{eng: eng, state: newWatchState(), interval: interval, seed: seed}
}

func (m watchModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m watchModel) Init() tea.Cmd {
	return m.tick()
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			m.eng.sync.Recalculate()
		case "s":
			m.err = m.nextStrategy()
		}
	case tickMsg:
		m.eng.dispatcher.Dispatch(m.state)
		return m, m.tick()
	}
	return m, nil
}

// nextStrategy switches to the next registered strategy and relayouts.
func (m watchModel) nextStrategy() error {
	names := layout.Names()
	i := slices.Index(names, m.state.strategy)
	st, err := m.eng.strategy(names[(i+1)%len(names)], m.seed)
	if err != nil {
		return err
	}
	m.eng.sync.SetStrategy(st)
	m.eng.sync.Recalculate()
	return nil
}

func (m watchModel) View() string {
	var b strings.Builder
	s := m.state

	b.WriteString(StyleTitle.Render("arnet watch"))
	b.WriteString("  ")
	b.WriteString(StyleDim.Render(fmt.Sprintf("%s · %d vertices · %d edges · %d layouts",
		cmp.Or(s.strategy, "-"), len(s.vertices), len(s.edges), s.layouts)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("r relayout  s next strategy  q quit"))
	b.WriteString("\n\n")

	rows := s.faults()
	if len(rows) == 0 {
		b.WriteString(StyleDim.Render("  no alarms"))
	} else {
		t := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
			Headers("Severity", "Kind", "Reduction key", "Vertex").
			Rows(rows...).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == -1 {
					return headerStyle
				}
				if col == 0 {
					sev, _ := topology.ParseSeverity(rows[row][0])
					return severityStyle(sev)
				}
				return lipgloss.NewStyle().Foreground(colorWhite)
			})
		b.WriteString(t.Render())
	}
	b.WriteString("\n\n")

	for _, line := range s.recent {
		b.WriteString(listDimStyle.Render("  " + line))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(styleIconError.Render(iconError) + " " + m.err.Error() + "\n")
	}
	return b.String()
}
