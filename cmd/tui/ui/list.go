package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/davronov/qrdesk/internal/apiclient"
	"github.com/davronov/qrdesk/internal/content"
	"github.com/davronov/qrdesk/internal/models"
)

type listLoadedMsg struct {
	result apiclient.ListResult
}

type listErrorMsg struct {
	err error
}

type listActionDoneMsg struct{}

type ListModel struct {
	records    []content.Record
	pagination models.Pagination

	cursor     int
	page       int
	search     string
	searchMode bool
	status     string

	// pendingDelete holds the id awaiting confirmation after "d".
	pendingDelete string
	pendingTitle  string

	loaded  bool
	loading bool
	err     error

	// editTarget is picked up by the root model to open the editor.
	editTarget *content.Record

	client *apiclient.Client
}

func NewListModel(client *apiclient.Client) *ListModel {
	return &ListModel{client: client, page: 1}
}

func (m *ListModel) Init() tea.Cmd {
	return nil
}

func (m *ListModel) loadCmd() tea.Cmd {
	params := models.ListParams{
		Page:     m.page,
		PerPage:  10,
		Search:   m.search,
		Status:   m.status,
		SortBy:   "createdAt",
		SortDesc: true,
	}
	c := m.client
	return func() tea.Msg {
		result, err := c.ListQRs(params)
		if err != nil {
			return listErrorMsg{err: err}
		}
		return listLoadedMsg{result: result}
	}
}

func (m *ListModel) actionCmd(action func() error) tea.Cmd {
	return func() tea.Msg {
		if err := action(); err != nil {
			return listErrorMsg{err: err}
		}
		return listActionDoneMsg{}
	}
}

func (m *ListModel) selected() *content.Record {
	if m.cursor < 0 || m.cursor >= len(m.records) {
		return nil
	}
	return &m.records[m.cursor]
}

func (m *ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case listLoadedMsg:
		m.loading = false
		m.loaded = true
		m.err = nil
		m.records = msg.result.QRs
		m.pagination = msg.result.Pagination
		if m.cursor >= len(m.records) {
			m.cursor = len(m.records) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
		return m, nil

	case listErrorMsg:
		m.loading = false
		m.loaded = true
		m.err = msg.err
		return m, nil

	case listActionDoneMsg:
		m.loading = true
		return m, m.loadCmd()

	case tea.KeyMsg:
		if !m.loaded && !m.loading {
			m.loading = true
			return m, m.loadCmd()
		}
		if m.loading {
			return m, nil
		}

		if m.pendingDelete != "" {
			id := m.pendingDelete
			m.pendingDelete = ""
			m.pendingTitle = ""
			if msg.String() == "y" {
				c := m.client
				m.loading = true
				return m, m.actionCmd(func() error { return c.DeleteQR(id) })
			}
			return m, nil
		}

		if m.searchMode {
			switch msg.String() {
			case "enter":
				m.searchMode = false
				m.page = 1
				m.loading = true
				return m, m.loadCmd()
			case "esc":
				m.searchMode = false
				m.search = ""
				m.loading = true
				return m, m.loadCmd()
			case "backspace":
				if len(m.search) > 0 {
					m.search = m.search[:len(m.search)-1]
				}
			default:
				if len(msg.String()) == 1 {
					m.search += msg.String()
				}
			}
			return m, nil
		}

		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.records)-1 {
				m.cursor++
			}
		case "n":
			if m.page < m.pagination.TotalPages {
				m.page++
				m.loading = true
				return m, m.loadCmd()
			}
		case "p":
			if m.page > 1 {
				m.page--
				m.loading = true
				return m, m.loadCmd()
			}
		case "/":
			m.searchMode = true
			m.search = ""
		case "s":
			switch m.status {
			case models.StatusAll:
				m.status = models.StatusDeleted
			case models.StatusDeleted:
				m.status = models.StatusActive
			default:
				m.status = models.StatusAll
			}
			m.page = 1
			m.loading = true
			return m, m.loadCmd()
		case "R":
			m.loading = true
			return m, m.loadCmd()
		case "e":
			if rec := m.selected(); rec != nil {
				picked := *rec
				m.editTarget = &picked
			}
		case "t":
			if rec := m.selected(); rec != nil {
				active := !rec.IsActive
				id := rec.ID
				c := m.client
				m.loading = true
				return m, m.actionCmd(func() error {
					_, err := c.UpdateQR(id, models.UpdateQRRequest{IsActive: &active})
					return err
				})
			}
		case "d":
			if rec := m.selected(); rec != nil {
				m.pendingDelete = rec.ID
				m.pendingTitle = rec.Title
			}
		case "r":
			if rec := m.selected(); rec != nil {
				id := rec.ID
				c := m.client
				m.loading = true
				return m, m.actionCmd(func() error {
					_, err := c.RestoreQR(id)
					return err
				})
			}
		}
	}
	return m, nil
}

func contentLabel(rec content.Record) string {
	if rec.IsContentEmpty() {
		return "empty"
	}
	return string(rec.ContentType)
}

func (m *ListModel) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("MY QR CODES"))
	switch m.status {
	case models.StatusAll:
		b.WriteString(" " + WarningStyle.Render("(all, including deleted)"))
	case models.StatusDeleted:
		b.WriteString(" " + WarningStyle.Render("(deleted only)"))
	}
	b.WriteString("\n")

	if m.searchMode {
		b.WriteString(FocusedInputStyle.Width(40).Render("/" + m.search))
		b.WriteString("\n")
	} else if m.search != "" {
		b.WriteString(InfoStyle.Render("filter: " + m.search))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case !m.loaded:
		b.WriteString(InfoStyle.Render("Press any key to load..."))
	case m.loading:
		b.WriteString(InfoStyle.Render("Loading..."))
	case m.err != nil:
		b.WriteString(ErrorStyle.Render("Error: " + m.err.Error()))
	case len(m.records) == 0:
		b.WriteString(InfoStyle.Render("No QR codes yet. Create one from the menu."))
	default:
		header := fmt.Sprintf("%-30s %-9s %7s  %s", "TITLE", "CONTENT", "SCANS", "STATE")
		b.WriteString(lipgloss.NewStyle().Foreground(Secondary).Render(header))
		b.WriteString("\n")

		for i, rec := range m.records {
			state := SuccessStyle.Render("active")
			if !rec.IsActive {
				state = WarningStyle.Render("paused")
			}

			title := rec.Title
			if len(title) > 28 {
				title = title[:27] + "…"
			}

			row := fmt.Sprintf("%-30s %-9s %7d  %s", title, contentLabel(rec), rec.ScanCount, state)
			if i == m.cursor {
				b.WriteString(SelectedItemStyle.Render("> " + row))
			} else {
				b.WriteString(ItemStyle.Render("  " + row))
			}
			b.WriteString("\n")
		}

		b.WriteString("\n")
		b.WriteString(InfoStyle.Render(fmt.Sprintf("page %d/%d  •  %d total",
			m.pagination.Page, m.pagination.TotalPages, m.pagination.Total)))
	}

	b.WriteString("\n\n")
	if m.pendingDelete != "" {
		b.WriteString(WarningStyle.Render("Delete \"" + m.pendingTitle + "\"? y to confirm, any other key cancels"))
	} else {
		b.WriteString(InfoStyle.Render("e edit content  •  t pause/resume  •  d delete  •  r restore  •  s status  •  / search  •  n/p page  •  esc back"))
	}

	return BoxStyle.Width(100).Render(b.String())
}
