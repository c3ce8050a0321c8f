package ui

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/davronov/qrdesk/internal/apiclient"
	"github.com/davronov/qrdesk/internal/content"
	"github.com/davronov/qrdesk/internal/editor"
)

type editorSavedMsg struct {
	record content.Record
}

type editorErrorMsg struct {
	err error
}

type editorClearMsg struct{}

// successHold is how long the saved confirmation stays on screen.
const successHold = 3 * time.Second

var editorKinds = []content.Kind{
	content.KindText,
	content.KindLink,
	content.KindFile,
	content.KindContact,
}

var editorFields = map[content.Kind][]string{
	content.KindText: {"Text", "Description"},
	content.KindLink: {"URL", "Link title", "Description"},
	content.KindFile: {"File path", "Description"},
	content.KindContact: {
		"Name", "Phone", "Email", "Company", "Website", "Address", "Note",
	},
}

// EditorModel edits the content behind one QR code. The scan URL stays
// the same no matter which variant gets saved here.
type EditorModel struct {
	record content.Record
	ed     *editor.Editor

	// values holds the form inputs per variant so switching tabs does
	// not lose what was typed.
	values map[content.Kind][]string
	focus  int
	saved  bool

	client *apiclient.Client
}

func NewEditorModel(client *apiclient.Client, rec content.Record) *EditorModel {
	m := &EditorModel{
		record: rec,
		ed:     editor.New(rec.ContentType),
		values: make(map[content.Kind][]string),
		client: client,
	}
	for kind, fields := range editorFields {
		m.values[kind] = make([]string, len(fields))
	}
	m.prefill()
	return m
}

// prefill copies the record's current payload into the matching form.
func (m *EditorModel) prefill() {
	switch p := m.record.Payload().(type) {
	case content.TextPayload:
		m.values[content.KindText][0] = p.Text
		m.values[content.KindText][1] = p.Description
	case content.LinkPayload:
		m.values[content.KindLink][0] = p.URL
		m.values[content.KindLink][1] = p.LinkTitle
		m.values[content.KindLink][2] = p.Description
	case content.FilePayload:
		m.values[content.KindFile][1] = p.Description
	case content.ContactPayload:
		v := m.values[content.KindContact]
		v[0], v[1], v[2] = p.ContactName, p.Phone, p.Email
		v[3], v[4], v[5], v[6] = p.Company, p.Website, p.Address, p.Note
	}
}

func (m *EditorModel) fields() []string {
	return editorFields[m.ed.Kind()]
}

func (m *EditorModel) switchKind(step int) {
	idx := 0
	for i, k := range editorKinds {
		if k == m.ed.Kind() {
			idx = i
			break
		}
	}
	idx = (idx + step + len(editorKinds)) % len(editorKinds)
	if m.ed.SelectKind(editorKinds[idx]) {
		m.focus = 0
		m.saved = false
	}
}

func (m *EditorModel) payload() content.Payload {
	v := m.values[m.ed.Kind()]
	switch m.ed.Kind() {
	case content.KindText:
		return content.TextPayload{Text: v[0], Description: v[1]}
	case content.KindLink:
		p := content.LinkPayload{URL: v[0], LinkTitle: v[1], Description: v[2]}
		p.Normalize()
		return p
	case content.KindContact:
		p := content.ContactPayload{
			ContactName: v[0], Phone: v[1], Email: v[2],
			Company: v[3], Website: v[4], Address: v[5], Note: v[6],
		}
		p.Normalize()
		return p
	}
	return nil
}

func (m *EditorModel) submitCmd() tea.Cmd {
	c := m.client
	id := m.record.ID

	if m.ed.Kind() == content.KindFile {
		path := strings.TrimSpace(m.values[content.KindFile][0])
		description := m.values[content.KindFile][1]
		stored := m.record
		return func() tea.Msg {
			if path == "" {
				// No fresh upload. A stored file can stay put and take
				// a new description; only a fileless record complains.
				if stored.FilePath == "" {
					return editorErrorMsg{err: fmt.Errorf("file path is required")}
				}
				rec, err := c.KeepFile(id, stored.FilePath, stored.OriginalName, description)
				if err != nil {
					return editorErrorMsg{err: err}
				}
				return editorSavedMsg{record: rec}
			}
			f, err := os.Open(path)
			if err != nil {
				return editorErrorMsg{err: err}
			}
			defer f.Close()

			mimeType := mime.TypeByExtension(filepath.Ext(path))
			rec, err := c.UploadFile(id, f, filepath.Base(path), mimeType, description)
			if err != nil {
				return editorErrorMsg{err: err}
			}
			return editorSavedMsg{record: rec}
		}
	}

	payload := m.payload()
	return func() tea.Msg {
		rec, err := c.ReplaceContent(id, payload)
		if err != nil {
			return editorErrorMsg{err: err}
		}
		return editorSavedMsg{record: rec}
	}
}

func (m *EditorModel) Init() tea.Cmd {
	return nil
}

func (m *EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case editorSavedMsg:
		m.record = msg.record
		m.ed.Succeed()
		m.saved = true
		return m, tea.Tick(successHold, func(time.Time) tea.Msg {
			return editorClearMsg{}
		})

	case editorClearMsg:
		if m.ed.Phase() == editor.Succeeded {
			m.ed.Reset()
			m.saved = false
		}
		return m, nil

	case editorErrorMsg:
		m.ed.Fail(msg.err)
		return m, nil

	case tea.KeyMsg:
		if m.ed.Phase() == editor.Submitting {
			return m, nil
		}

		fields := m.fields()
		switch msg.String() {
		case "left":
			m.switchKind(-1)
		case "right":
			m.switchKind(1)
		case "tab", "down":
			m.focus = (m.focus + 1) % len(fields)
		case "shift+tab", "up":
			m.focus = (m.focus - 1 + len(fields)) % len(fields)
		case "enter":
			if m.ed.BeginSubmit() {
				m.saved = false
				return m, m.submitCmd()
			}
		case "ctrl+l":
			m.values[m.ed.Kind()][m.focus] = ""
			m.ed.Reset()
		case "backspace":
			v := m.values[m.ed.Kind()]
			if len(v[m.focus]) > 0 {
				v[m.focus] = v[m.focus][:len(v[m.focus])-1]
			}
		default:
			if len(msg.String()) == 1 {
				m.values[m.ed.Kind()][m.focus] += msg.String()
			}
		}
	}
	return m, nil
}

func (m *EditorModel) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("EDIT CONTENT"))
	b.WriteString("  " + InfoStyle.Render(m.record.Title))
	b.WriteString("\n\n")

	var tabs []string
	for _, kind := range editorKinds {
		label := string(kind)
		if kind == m.ed.Kind() {
			tabs = append(tabs, ActiveTabStyle.Render(label))
		} else {
			tabs = append(tabs, TabStyle.Render(label))
		}
	}
	b.WriteString(strings.Join(tabs, " "))
	b.WriteString("\n\n")

	if m.ed.Kind() == content.KindFile && m.record.ContentType == content.KindFile && m.record.OriginalName != "" {
		b.WriteString(InfoStyle.Render("current file: " + m.record.OriginalName))
		b.WriteString("\n\n")
	}

	values := m.values[m.ed.Kind()]
	for i, label := range m.fields() {
		b.WriteString(label + ":\n")
		style := InputStyle
		if i == m.focus {
			style = FocusedInputStyle
		}
		b.WriteString(style.Width(50).Render(values[i]))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch m.ed.Phase() {
	case editor.Submitting:
		b.WriteString(InfoStyle.Render("Saving..."))
	case editor.Succeeded:
		if m.saved {
			b.WriteString(SuccessStyle.Render("✓ Content saved. The scan URL is unchanged."))
		}
	case editor.Failed:
		if err := m.ed.Err(); err != nil {
			// Validation may fail on several fields at once; one line each.
			var lines []string
			for _, line := range strings.Split(err.Error(), "\n") {
				lines = append(lines, ErrorStyle.Render("Error: "+line))
			}
			b.WriteString(strings.Join(lines, "\n"))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(InfoStyle.Render("←/→ content type  •  tab next field  •  enter save  •  ctrl+l clear field  •  esc back"))

	return BoxStyle.Width(70).Render(b.String())
}
