package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/davronov/qrdesk/internal/apiclient"
)

type View int

const (
	LoginView View = iota
	MenuView
	CreateView
	ListView
	EditorView
	AnalyticsView
	SettingsView
)

type logoutDoneMsg struct{}

// Model is the screen router. Each screen owns its own state; this
// only decides which one is live and handles the transitions between
// them.
type Model struct {
	currentView View

	login     *LoginModel
	menu      *MenuModel
	create    *CreateModel
	list      *ListModel
	editor    *EditorModel
	analytics *AnalyticsModel
	settings  *SettingsModel

	baseURL string
	client  *apiclient.Client
}

func NewModel(client *apiclient.Client, baseURL string) *Model {
	return &Model{
		currentView: LoginView,
		login:       NewLoginModel(client),
		menu:        NewMenuModel(),
		create:      NewCreateModel(client),
		list:        NewListModel(client),
		analytics:   NewAnalyticsModel(client),
		settings:    NewSettingsModel(client, baseURL),
		baseURL:     baseURL,
		client:      client,
	}
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func logoutCmd(c *apiclient.Client) tea.Cmd {
	return func() tea.Msg {
		// Best effort; the local session ends either way.
		c.Logout()
		return logoutDoneMsg{}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			switch m.currentView {
			case LoginView:
				return m, tea.Quit
			case ListView:
				if m.list.searchMode {
					break
				}
				m.currentView = MenuView
				return m, nil
			case EditorView:
				m.currentView = ListView
				m.list.loaded = false
				m.list.loading = true
				m.editor = nil
				return m, m.list.loadCmd()
			case MenuView:
				// Stay put; q quits from the menu.
			default:
				m.currentView = MenuView
				return m, nil
			}
		case "q":
			if m.currentView == MenuView {
				return m, tea.Quit
			}
		}

	case loginSuccessMsg:
		m.login.Update(msg)
		m.settings.username = msg.username
		m.currentView = MenuView
		return m, nil

	case logoutDoneMsg:
		m.client.SetToken("")
		m.login = NewLoginModel(m.client)
		m.create = NewCreateModel(m.client)
		m.list = NewListModel(m.client)
		m.analytics = NewAnalyticsModel(m.client)
		m.settings = NewSettingsModel(m.client, m.baseURL)
		m.editor = nil
		m.menu = NewMenuModel()
		m.currentView = LoginView
		return m, nil
	}

	var cmd tea.Cmd
	switch m.currentView {
	case LoginView:
		_, cmd = m.login.Update(msg)
	case MenuView:
		_, cmd = m.menu.Update(msg)
		if m.menu.selected >= 0 {
			selected := m.menu.selected
			m.menu.selected = -1
			switch selected {
			case 0:
				m.currentView = CreateView
			case 1:
				m.currentView = ListView
				m.list.loaded = false
				m.list.loading = true
				return m, m.list.loadCmd()
			case 2:
				m.currentView = AnalyticsView
				m.analytics.loaded = false
				m.analytics.loading = true
				return m, m.analytics.loadCmd()
			case 3:
				m.currentView = SettingsView
			case 4:
				return m, logoutCmd(m.client)
			}
		}
	case CreateView:
		_, cmd = m.create.Update(msg)
	case ListView:
		_, cmd = m.list.Update(msg)
		if m.list.editTarget != nil {
			rec := *m.list.editTarget
			m.list.editTarget = nil
			m.editor = NewEditorModel(m.client, rec)
			m.currentView = EditorView
		}
	case EditorView:
		if m.editor != nil {
			_, cmd = m.editor.Update(msg)
		}
	case AnalyticsView:
		_, cmd = m.analytics.Update(msg)
	case SettingsView:
		_, cmd = m.settings.Update(msg)
	}

	return m, cmd
}

func (m *Model) View() string {
	switch m.currentView {
	case LoginView:
		return m.login.View()
	case MenuView:
		return m.menu.View()
	case CreateView:
		return m.create.View()
	case ListView:
		return m.list.View()
	case EditorView:
		if m.editor != nil {
			return m.editor.View()
		}
		return ""
	case AnalyticsView:
		return m.analytics.View()
	case SettingsView:
		return m.settings.View()
	}
	return ""
}
