package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type dashboardModel struct {
	r    *runner
	spin spinner.Model
	done bool
}

type tickMsg time.Time

type runDoneMsg struct{}

func newDashboardModel(r *runner) *dashboardModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))
	return &dashboardModel{r: r, spin: s}
}

func (m *dashboardModel) Init() tea.Cmd {
	m.r.start()
	return tea.Batch(m.spin.Tick, tick(), m.waitDone())
}

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *dashboardModel) waitDone() tea.Cmd {
	return func() tea.Msg {
		<-m.r.done
		return runDoneMsg{}
	}
}

func (m *dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case tickMsg:
		if m.done {
			return m, nil
		}
		return m, tick()
	case runDoneMsg:
		m.done = true
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *dashboardModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("shared-ptr stress"))
	b.WriteString("\n\n")

	sc := m.r.sc
	b.WriteString(helpStyle.Render(fmt.Sprintf("workers=%d groups=%d duration=%s clone-bias=%d%%",
		sc.Workers, sc.Groups, sc.Duration, sc.CloneBias)))
	b.WriteString("\n\n")

	rows := []struct {
		label string
		value int64
	}{
		{"Clones", m.r.stats.cloned.Load()},
		{"Releases", m.r.stats.released.Load()},
		{"Groups adopted", m.r.stats.adopted.Load()},
		{"Groups destroyed", m.r.stats.destroyed.Load()},
		{"Destructor runs", m.r.stats.drops.Load()},
	}
	for _, row := range rows {
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-18s", row.label)))
		b.WriteString(valueStyle.Render(fmt.Sprintf("%12d", row.value)))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')

	if m.done {
		if m.r.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("FAIL: %v", m.r.err)))
		} else {
			b.WriteString(okStyle.Render("PASS: every group destroyed exactly once, heap clean"))
		}
	} else {
		remaining := time.Until(m.r.deadline).Round(time.Second)
		if remaining < 0 {
			remaining = 0
		}
		b.WriteString(m.spin.View())
		fmt.Fprintf(&b, " churning, %s remaining", remaining)
	}
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("q: quit"))
	b.WriteByte('\n')

	return b.String()
}

func runInteractive(sc Scenario) error {
	r := newRunner(sc)
	p := tea.NewProgram(newDashboardModel(r))
	if _, err := p.Run(); err != nil {
		return err
	}
	// Surface the verdict even when the user quits after completion.
	select {
	case <-r.done:
		return r.err
	default:
		return nil
	}
}
