package ui

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/davronov/qrdesk/internal/apiclient"
	"github.com/davronov/qrdesk/internal/content"
	"github.com/davronov/qrdesk/internal/models"
)

type statsLoadedMsg struct {
	stats models.Stats
}

type statsErrorMsg struct {
	err error
}

type AnalyticsModel struct {
	stats   models.Stats
	loaded  bool
	loading bool
	err     error

	client *apiclient.Client
}

func NewAnalyticsModel(client *apiclient.Client) *AnalyticsModel {
	return &AnalyticsModel{client: client}
}

func (m *AnalyticsModel) Init() tea.Cmd {
	return nil
}

func (m *AnalyticsModel) loadCmd() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		stats, err := c.Stats()
		if err != nil {
			return statsErrorMsg{err: err}
		}
		return statsLoadedMsg{stats: stats}
	}
}

func (m *AnalyticsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case statsLoadedMsg:
		m.loading = false
		m.loaded = true
		m.err = nil
		m.stats = msg.stats
		return m, nil

	case statsErrorMsg:
		m.loading = false
		m.loaded = true
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		if !m.loaded && !m.loading {
			m.loading = true
			return m, m.loadCmd()
		}
		if msg.String() == "R" && !m.loading {
			m.loading = true
			return m, m.loadCmd()
		}
	}
	return m, nil
}

func statLine(label string, value int64) string {
	return fmt.Sprintf("%-16s %s", label,
		lipgloss.NewStyle().Foreground(Primary).Bold(true).Render(fmt.Sprintf("%d", value)))
}

func (m *AnalyticsModel) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("ANALYTICS"))
	b.WriteString("\n\n")

	switch {
	case !m.loaded:
		b.WriteString(InfoStyle.Render("Press any key to load..."))
	case m.loading:
		b.WriteString(InfoStyle.Render("Loading..."))
	case m.err != nil:
		b.WriteString(ErrorStyle.Render("Error: " + m.err.Error()))
	default:
		s := m.stats
		b.WriteString(statLine("QR codes", s.Total) + "\n")
		b.WriteString(statLine("Active", s.Active) + "\n")
		b.WriteString(statLine("Deleted", s.Deleted) + "\n")
		b.WriteString(statLine("Total scans", s.TotalScans) + "\n")
		b.WriteString(statLine("Scans today", s.TodayScans) + "\n")

		if len(s.ContentTypes) > 0 {
			b.WriteString("\n")
			b.WriteString(lipgloss.NewStyle().Foreground(Secondary).Render("By content type"))
			b.WriteString("\n")

			kinds := make([]content.Kind, 0, len(s.ContentTypes))
			for kind := range s.ContentTypes {
				kinds = append(kinds, kind)
			}
			sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

			for _, kind := range kinds {
				b.WriteString(statLine(string(kind), s.ContentTypes[kind]) + "\n")
			}
		}
	}

	b.WriteString("\n")
	b.WriteString(InfoStyle.Render("R refresh  •  esc back"))

	return BoxStyle.Width(50).Render(b.String())
}
