package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type MenuModel struct {
	cursor   int
	selected int
	items    []string
}

func NewMenuModel() *MenuModel {
	return &MenuModel{
		selected: -1,
		items: []string{
			"Create QR code",
			"My QR codes",
			"Analytics",
			"Settings",
			"Log out",
		},
	}
}

func (m *MenuModel) Init() tea.Cmd {
	return nil
}

func (m *MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case "enter":
			m.selected = m.cursor
		}
	}
	return m, nil
}

func (m *MenuModel) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("QRDESK"))
	b.WriteString("\n")
	b.WriteString(InfoStyle.Render("One printed code, any content behind it."))
	b.WriteString("\n\n")

	for i, item := range m.items {
		if i == m.cursor {
			b.WriteString(SelectedItemStyle.Render("> " + item))
		} else {
			b.WriteString(ItemStyle.Render("  " + item))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(InfoStyle.Render("↑/↓ move  •  enter select  •  q quit"))

	return BoxStyle.Width(60).Render(b.String())
}
