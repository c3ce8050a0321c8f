package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/davronov/qrdesk/internal/apiclient"
	"github.com/davronov/qrdesk/internal/content"
	"github.com/davronov/qrdesk/internal/qrcode"
)

type createSuccessMsg struct {
	record content.Record
	ascii  string
}

type createErrorMsg struct {
	err error
}

type CreateModel struct {
	titleInput       string
	descriptionInput string
	focusedInput     int
	loading          bool
	created          *content.Record
	ascii            string
	err              error
	client           *apiclient.Client
}

func NewCreateModel(client *apiclient.Client) *CreateModel {
	return &CreateModel{client: client}
}

func (m *CreateModel) Init() tea.Cmd {
	return nil
}

func createCmd(c *apiclient.Client, title, description string) tea.Cmd {
	return func() tea.Msg {
		rec, err := c.CreateQR(title, description)
		if err != nil {
			return createErrorMsg{err: err}
		}

		// The printable code exists the moment the record does, even
		// with nothing behind it yet.
		ascii, err := qrcode.EncodeASCII(c.ScanURL(rec.ID))
		if err != nil {
			ascii = ""
		}

		return createSuccessMsg{record: rec, ascii: ascii}
	}
}

func (m *CreateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case createSuccessMsg:
		m.loading = false
		m.err = nil
		m.created = &msg.record
		m.ascii = msg.ascii
		return m, nil

	case createErrorMsg:
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
			if strings.TrimSpace(m.titleInput) == "" {
				m.err = fmt.Errorf("title cannot be empty")
				return m, nil
			}

			m.loading = true
			m.err = nil
			m.created = nil
			return m, createCmd(m.client, m.titleInput, m.descriptionInput)
		case "backspace":
			if m.focusedInput == 0 && len(m.titleInput) > 0 {
				m.titleInput = m.titleInput[:len(m.titleInput)-1]
			} else if m.focusedInput == 1 && len(m.descriptionInput) > 0 {
				m.descriptionInput = m.descriptionInput[:len(m.descriptionInput)-1]
			}
		case "ctrl+l":
			m.titleInput = ""
			m.descriptionInput = ""
			m.created = nil
			m.ascii = ""
			m.err = nil
		default:
			if len(msg.String()) == 1 {
				if m.focusedInput == 0 {
					m.titleInput += msg.String()
				} else {
					m.descriptionInput += msg.String()
				}
			}
		}
	}
	return m, nil
}

func (m *CreateModel) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("NEW QR CODE"))
	b.WriteString("\n")
	b.WriteString(InfoStyle.Render("The code is printable immediately; add content any time."))
	b.WriteString("\n\n")

	titleStyle := InputStyle
	if m.focusedInput == 0 {
		titleStyle = FocusedInputStyle
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Left,
		LabelStyle.Render("Title:"),
		titleStyle.Width(50).Render(m.titleInput),
	))
	b.WriteString("\n\n")

	descStyle := InputStyle
	if m.focusedInput == 1 {
		descStyle = FocusedInputStyle
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Left,
		LabelStyle.Render("Description:"),
		descStyle.Width(50).Render(m.descriptionInput),
	))
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString(InfoStyle.Render("Creating..."))
		b.WriteString("\n")
	}

	if m.created != nil {
		b.WriteString(SuccessStyle.Render("Created: " + m.created.Title))
		b.WriteString("\n")
		b.WriteString(ValueStyle.Render(m.client.ScanURL(m.created.ID)))
		b.WriteString("\n")
		if m.ascii != "" {
			b.WriteString("\n")
			b.WriteString(m.ascii)
		}
		b.WriteString(InfoStyle.Render("Print this code; its content can change forever."))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString(ErrorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(InfoStyle.Render("tab switch  •  enter create  •  ctrl+l clear  •  esc back"))

	return BoxStyle.Width(90).Render(b.String())
}
