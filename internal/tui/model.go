// Package tui is the terminal dashboard. It drives a session.Session with
// the keyboard and draws the frames the session renders.
package tui

import (
	"time"

	"inventory-dashboard/internal/form"
	"inventory-dashboard/internal/model"
	"inventory-dashboard/internal/session"
	"inventory-dashboard/internal/view"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

// ToastTTL is how long a notification stays on screen
const ToastTTL = 3 * time.Second

type focus int

const (
	focusList focus = iota
	focusSearch
	focusForm
)

type toastEntry struct {
	id    int
	toast session.Toast
}

type toastExpiredMsg struct{ id int }

var formFields = []string{
	form.FieldName,
	form.FieldPrice,
	form.FieldCategory,
	form.FieldStock,
	form.FieldDescription,
}

var fieldLabels = map[string]string{
	form.FieldName:        "Name",
	form.FieldPrice:       "Price",
	form.FieldCategory:    "Category",
	form.FieldStock:       "Stock",
	form.FieldDescription: "Description",
}

type Model struct {
	sess       *session.Session
	bridge     *Bridge
	categories []string

	width  int
	height int

	focus  focus
	search textinput.Model
	cursor int
	view   session.ViewFrame

	form   session.FormFrame
	inputs []textinput.Model
	field  int

	toasts    []toastEntry
	nextToast int
}

func New(sess *session.Session, bridge *Bridge, categories model.Categories) Model {
	m := Model{
		sess:       sess,
		bridge:     bridge,
		categories: categories.Names(),
		width:      100,
	}

	m.search = textinput.New()
	m.search.Prompt = "Search: "
	m.search.Placeholder = "product name"
	m.search.CharLimit = 100
	m.search.Width = 40

	m.inputs = make([]textinput.Model, len(formFields))
	for i, f := range formFields {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = fieldLabels[f]
		in.CharLimit = 200
		in.Width = 48
		m.inputs[i] = in
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return func() tea.Msg { return refreshMsg{} }
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case refreshMsg:
		return m, m.applyFrames()

	case toastExpiredMsg:
		for i, t := range m.toasts {
			if t.id == msg.id {
				m.toasts = append(m.toasts[:i:i], m.toasts[i+1:]...)
				break
			}
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.focus {
		case focusSearch:
			return m.updateSearch(msg)
		case focusForm:
			return m.updateForm(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	page := m.view.Page
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "/":
		m.focus = focusSearch
		return m, m.search.Focus()
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "down", "j":
		if m.cursor < len(page.Items)-1 {
			m.cursor++
		}
		return m, nil
	case "left", "h", "pgup":
		m.sess.SetPage(page.Page - 1)
	case "right", "l", "pgdown":
		m.sess.SetPage(page.Page + 1)
	case "s":
		m.sess.SetPageSize(nextPageSize(m.view.State.PageSize))
	case "v":
		if m.view.State.Layout == view.LayoutGrid {
			m.sess.SetLayout(view.LayoutList)
		} else {
			m.sess.SetLayout(view.LayoutGrid)
		}
	case "r":
		m.sess.Refresh()
	case "n":
		m.sess.OpenCreate()
	case "e", "enter":
		if id, ok := m.selected(); ok {
			m.sess.OpenEdit(id)
		}
	case "d":
		if id, ok := m.selected(); ok {
			m.sess.RequestDelete(id)
		}
	default:
		return m, nil
	}
	return m, m.applyFrames()
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.focus = focusList
		m.search.Blur()
		return m, nil
	case "enter":
		m.focus = focusList
		m.search.Blur()
		m.sess.SearchNow(m.search.Value())
		return m, m.applyFrames()
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if v := m.search.Value(); v != before {
		m.sess.Type(v)
	}
	return m, cmd
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.form.Form == nil {
		m.focus = focusList
		return m, nil
	}
	token := m.form.Form.Token

	switch msg.String() {
	case "esc":
		m.sess.CancelForm(token)
		return m, m.applyFrames()
	case "enter":
		_ = m.sess.Submit(token)
		return m, m.applyFrames()
	case "ctrl+g":
		_ = m.sess.Assist(token)
		return m, m.applyFrames()
	case "tab", "down":
		return m, m.focusField((m.field + 1) % len(m.inputs))
	case "shift+tab", "up":
		return m, m.focusField((m.field + len(m.inputs) - 1) % len(m.inputs))
	case "ctrl+n":
		if formFields[m.field] == form.FieldCategory && len(m.categories) > 0 {
			next := nextCategory(m.categories, m.inputs[m.field].Value())
			m.inputs[m.field].SetValue(next)
			_ = m.sess.SetField(token, form.FieldCategory, next)
			return m, m.applyFrames()
		}
		return m, nil
	}

	before := m.inputs[m.field].Value()
	var cmd tea.Cmd
	m.inputs[m.field], cmd = m.inputs[m.field].Update(msg)
	if v := m.inputs[m.field].Value(); v != before {
		_ = m.sess.SetField(token, formFields[m.field], v)
		return m, tea.Batch(cmd, m.applyFrames())
	}
	return m, cmd
}

// applyFrames pulls pending frames from the bridge into the model.
func (m *Model) applyFrames() tea.Cmd {
	v, f, toasts := m.bridge.pull()
	if v != nil {
		m.view = *v
		if m.cursor >= len(m.view.Page.Items) {
			m.cursor = len(m.view.Page.Items) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
	}

	var cmds []tea.Cmd
	if f != nil {
		cmds = append(cmds, m.applyForm(*f))
	}
	for _, t := range toasts {
		m.nextToast++
		id := m.nextToast
		m.toasts = append(m.toasts, toastEntry{id: id, toast: t})
		cmds = append(cmds, tea.Tick(ToastTTL, func(time.Time) tea.Msg { return toastExpiredMsg{id: id} }))
	}
	return tea.Batch(cmds...)
}

func (m *Model) applyForm(f session.FormFrame) tea.Cmd {
	prev := m.form.Form
	m.form = f

	if f.Form == nil {
		for i := range m.inputs {
			m.inputs[i].Blur()
		}
		if m.focus == focusForm {
			m.focus = focusList
		}
		return nil
	}

	values := draftValues(f.Form.Draft)
	if prev == nil || prev.Token != f.Form.Token {
		for i := range m.inputs {
			m.inputs[i].SetValue(values[i])
		}
		m.focus = focusForm
		return m.focusField(0)
	}
	// the session is authoritative, e.g. an assist result filling the description
	for i := range m.inputs {
		if m.inputs[i].Value() != values[i] {
			m.inputs[i].SetValue(values[i])
		}
	}
	return nil
}

func (m *Model) focusField(i int) tea.Cmd {
	for j := range m.inputs {
		m.inputs[j].Blur()
	}
	m.field = i
	return m.inputs[i].Focus()
}

func (m Model) selected() (uuid.UUID, bool) {
	items := m.view.Page.Items
	if m.cursor < 0 || m.cursor >= len(items) {
		return uuid.Nil, false
	}
	return items[m.cursor].ID, true
}

func draftValues(d form.Draft) []string {
	return []string{string(d.Name), string(d.Price), string(d.Category), string(d.Stock), string(d.Description)}
}

func nextPageSize(current int) int {
	for i, s := range view.PageSizes {
		if s == current {
			return view.PageSizes[(i+1)%len(view.PageSizes)]
		}
	}
	return view.DefaultPageSize
}

func nextCategory(categories []string, current string) string {
	for i, c := range categories {
		if c == current {
			return categories[(i+1)%len(categories)]
		}
	}
	return categories[0]
}
