package ui

import (
	"strings"

	"jkwi-ims/store"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type formKind int

const (
	formAddDirector formKind = iota
	formEditDirector
	formAddDivision
	formEditDivision
	formAddMember
	formEditMember
	formCompany
	formWebsite
	formImport
)

type FieldDef struct {
	Name        string
	Label       string
	Placeholder string
	Default     string
	Password    bool
}

type formSubmittedMsg struct {
	Kind   formKind
	ID     store.ID
	Values map[string]string
}

type formCancelledMsg struct{}

// FormModel is a vertical stack of text inputs. Enter on the last field
// submits, Esc cancels.
type FormModel struct {
	Title   string
	Kind    formKind
	ID      store.ID
	Fields  []FieldDef
	Inputs  []textinput.Model
	Focused int
}

func NewFormModel(title string, kind formKind, id store.ID, fields []FieldDef) FormModel {
	m := FormModel{Title: title, Kind: kind, ID: id, Fields: fields}
	m.Inputs = make([]textinput.Model, len(fields))
	for i, f := range fields {
		ti := textinput.New()
		ti.Prompt = f.Label + ": "
		ti.Placeholder = f.Placeholder
		ti.CharLimit = 512
		ti.SetValue(f.Default)
		if f.Password {
			ti.EchoMode = textinput.EchoPassword
		}
		if i == 0 {
			ti.Focus()
			ti.PromptStyle = focusedStyle
		}
		m.Inputs[i] = ti
	}
	return m
}

func (m FormModel) Init() tea.Cmd { return textinput.Blink }

func (m FormModel) Update(msg tea.Msg) (FormModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEsc:
			return m, func() tea.Msg { return formCancelledMsg{} }
		case tea.KeyEnter:
			if m.Focused == len(m.Inputs)-1 {
				sub := formSubmittedMsg{Kind: m.Kind, ID: m.ID, Values: m.Values()}
				return m, func() tea.Msg { return sub }
			}
			m.focus(m.Focused + 1)
			return m, nil
		case tea.KeyTab, tea.KeyDown:
			m.focus(m.Focused + 1)
			return m, nil
		case tea.KeyShiftTab, tea.KeyUp:
			m.focus(m.Focused - 1)
			return m, nil
		}
	}
	cmds := make([]tea.Cmd, len(m.Inputs))
	for i := range m.Inputs {
		m.Inputs[i], cmds[i] = m.Inputs[i].Update(msg)
	}
	return m, tea.Batch(cmds...)
}

func (m *FormModel) focus(i int) {
	if len(m.Inputs) == 0 {
		return
	}
	m.Inputs[m.Focused].Blur()
	m.Inputs[m.Focused].PromptStyle = noStyle
	m.Focused = (i + len(m.Inputs)) % len(m.Inputs)
	m.Inputs[m.Focused].Focus()
	m.Inputs[m.Focused].PromptStyle = focusedStyle
}

// Values returns the trimmed input keyed by field name.
func (m FormModel) Values() map[string]string {
	out := make(map[string]string, len(m.Fields))
	for i, f := range m.Fields {
		out[f.Name] = strings.TrimSpace(m.Inputs[i].Value())
	}
	return out
}

func (m FormModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.Title) + "\n\n")
	for i := range m.Inputs {
		b.WriteString(m.Inputs[i].View() + "\n")
	}
	b.WriteString("\n" + blurredStyle.Render("Tab/Shift+Tab to move, Enter on the last field to save, Esc to cancel"))
	return b.String()
}
