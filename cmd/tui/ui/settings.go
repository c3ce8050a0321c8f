package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/davronov/qrdesk/internal/apiclient"
)

type connTestMsg struct {
	err error
}

// SettingsModel shows the session's connection details and runs an
// on-demand reachability check against the server.
type SettingsModel struct {
	baseURL  string
	username string

	testing bool
	tested  bool
	testErr error

	client *apiclient.Client
}

func NewSettingsModel(client *apiclient.Client, baseURL string) *SettingsModel {
	return &SettingsModel{client: client, baseURL: baseURL}
}

func (m *SettingsModel) Init() tea.Cmd {
	return nil
}

func (m *SettingsModel) testCmd() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		return connTestMsg{err: c.Health()}
	}
}

func (m *SettingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case connTestMsg:
		m.testing = false
		m.tested = true
		m.testErr = msg.err
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "t" && !m.testing {
			m.testing = true
			m.tested = false
			return m, m.testCmd()
		}
	}
	return m, nil
}

func (m *SettingsModel) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("SETTINGS"))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Left,
		LabelStyle.Width(12).Render("Server:"),
		ValueStyle.Render(m.baseURL),
	))
	b.WriteString("\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Left,
		LabelStyle.Width(12).Render("Signed in:"),
		ValueStyle.Render(m.username),
	))
	b.WriteString("\n\n")

	switch {
	case m.testing:
		b.WriteString(InfoStyle.Render("Testing connection..."))
	case m.tested && m.testErr == nil:
		b.WriteString(SuccessStyle.Render("✓ Server is reachable"))
	case m.tested:
		b.WriteString(ErrorStyle.Render("Connection failed: " + m.testErr.Error()))
	}

	b.WriteString("\n\n")
	b.WriteString(InfoStyle.Render("t test connection  •  esc back"))

	return BoxStyle.Width(70).Render(b.String())
}
