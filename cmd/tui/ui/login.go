package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/davronov/qrdesk/internal/apiclient"
)

type loginSuccessMsg struct {
	token    string
	username string
}

type loginErrorMsg struct {
	err error
}

type LoginModel struct {
	usernameInput string
	passwordInput string
	focusedInput  int
	loading       bool
	err           error
	client        *apiclient.Client
}

func NewLoginModel(client *apiclient.Client) *LoginModel {
	return &LoginModel{client: client}
}

func (m *LoginModel) Init() tea.Cmd {
	return nil
}

func loginCmd(c *apiclient.Client, username, password string) tea.Cmd {
	return func() tea.Msg {
		if _, _, err := c.Login(username, password); err != nil {
			return loginErrorMsg{err: err}
		}
		return loginSuccessMsg{token: c.Token(), username: username}
	}
}

func (m *LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loginSuccessMsg:
		m.loading = false
		m.err = nil
		m.passwordInput = ""
		return m, nil

	case loginErrorMsg:
		m.loading = false
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}

		switch msg.String() {
		case "tab", "shift+tab":
			m.focusedInput = (m.focusedInput + 1) % 2
		case "enter":
			if m.usernameInput == "" {
				m.err = fmt.Errorf("username cannot be empty")
				return m, nil
			}
			if m.passwordInput == "" {
				m.err = fmt.Errorf("password cannot be empty")
				return m, nil
			}

			m.loading = true
			m.err = nil
			return m, loginCmd(m.client, m.usernameInput, m.passwordInput)
		case "backspace":
			if m.focusedInput == 0 && len(m.usernameInput) > 0 {
				m.usernameInput = m.usernameInput[:len(m.usernameInput)-1]
			} else if m.focusedInput == 1 && len(m.passwordInput) > 0 {
				m.passwordInput = m.passwordInput[:len(m.passwordInput)-1]
			}
		case "ctrl+l":
			m.usernameInput = ""
			m.passwordInput = ""
			m.err = nil
		default:
			if len(msg.String()) == 1 {
				if m.focusedInput == 0 {
					m.usernameInput += msg.String()
				} else {
					m.passwordInput += msg.String()
				}
			}
		}
	}
	return m, nil
}

func (m *LoginModel) View() string {
	var b strings.Builder

	title := lipgloss.NewStyle().Foreground(Primary).Bold(true).Render("QRDESK")
	subtitle := InfoStyle.Render("Dynamic QR code dashboard")

	b.WriteString(centered(80, title))
	b.WriteString("\n")
	b.WriteString(centered(80, subtitle))
	b.WriteString("\n\n")

	usernameStyle := InputStyle
	if m.focusedInput == 0 {
		usernameStyle = FocusedInputStyle
	}
	usernameField := lipgloss.JoinHorizontal(lipgloss.Left,
		LabelStyle.Width(12).Render("Username:"),
		usernameStyle.Width(40).Render(m.usernameInput),
	)
	b.WriteString(centered(80, usernameField))
	b.WriteString("\n\n")

	passwordStyle := InputStyle
	if m.focusedInput == 1 {
		passwordStyle = FocusedInputStyle
	}
	passwordField := lipgloss.JoinHorizontal(lipgloss.Left,
		LabelStyle.Width(12).Render("Password:"),
		passwordStyle.Width(40).Render(strings.Repeat("•", len(m.passwordInput))),
	)
	b.WriteString(centered(80, passwordField))
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString(centered(80, InfoStyle.Render("Signing in...")))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(centered(80, ErrorStyle.Render(m.err.Error())))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	help := InfoStyle.Render("tab switch  •  enter sign in  •  ctrl+l clear  •  esc quit")
	b.WriteString(centered(80, help))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Primary).
		Padding(2, 4).
		Width(76).
		Render(b.String())
}
