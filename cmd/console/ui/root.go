// Package ui is the admin console: a bubbletea program over the record
// store with one tab per collection plus forms, confirmations and exports.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"jkwi-ims/store"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
)

type tab int

const (
	tabDashboard tab = iota
	tabCompany
	tabDirectors
	tabDivisions
	tabMembers
	tabPartnerships
	tabActivities
	tabBackups
	numTabs
)

var tabNames = [numTabs]string{"Dashboard", "Company", "Directors", "Divisions", "Members", "Partnerships", "Activities", "Backups"}

type mode int

const (
	modeBrowse mode = iota
	modeForm
	modeConfirm
	modeSearch
)

// resultMsg carries the outcome of an action back to the model.
type resultMsg struct {
	Status string
	Err    error
}

type Options struct {
	Store     *store.Store
	ExportDir string
	Now       func() time.Time
	Log       zerolog.Logger
}

type RootModel struct {
	opts Options
	ctx  context.Context

	Tab     tab
	Mode    mode
	Tables  map[tab]*table.Model
	Form    FormModel
	Confirm ConfirmModel
	Search  textinput.Model
	Query   string

	Status   string
	Err      error
	Quitting bool
	width    int
	height   int
}

func NewRootModel(ctx context.Context, opts Options) RootModel {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.ExportDir == "" {
		opts.ExportDir = "."
	}
	search := textinput.New()
	search.Prompt = "Search: "
	search.Placeholder = "username, name or email"
	m := RootModel{opts: opts, ctx: ctx, Tables: newTables(), Search: search}
	m.refresh()
	return m
}

func (m RootModel) Init() tea.Cmd { return nil }

func (m RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		for _, t := range m.Tables {
			t.SetHeight(max(msg.Height-12, 5))
		}
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.Quitting = true
			return m, tea.Quit
		}

	case resultMsg:
		m.Status, m.Err = msg.Status, msg.Err
		if msg.Err != nil {
			m.opts.Log.Error().Err(msg.Err).Msg("console action failed")
		}
		m.refresh()
		return m, nil

	case formSubmittedMsg:
		m.Mode = modeBrowse
		return m, m.submit(msg)

	case formCancelledMsg:
		m.Mode = modeBrowse
		m.Status = "Cancelled"
		return m, nil

	case confirmedMsg:
		m.Mode = modeBrowse
		return m, m.confirmed(msg)

	case confirmCancelledMsg:
		m.Mode = modeBrowse
		m.Status = "Cancelled"
		return m, nil
	}

	switch m.Mode {
	case modeForm:
		var cmd tea.Cmd
		m.Form, cmd = m.Form.Update(msg)
		return m, cmd
	case modeConfirm:
		var cmd tea.Cmd
		m.Confirm, cmd = m.Confirm.Update(msg)
		return m, cmd
	case modeSearch:
		return m.updateSearch(msg)
	}
	return m.updateBrowse(msg)
}

func (m RootModel) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter, tea.KeyEsc:
			m.Mode = modeBrowse
			m.Search.Blur()
			if key.Type == tea.KeyEsc {
				m.Search.SetValue("")
			}
			m.Query = m.Search.Value()
			m.refresh()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.Search, cmd = m.Search.Update(msg)
	m.Query = m.Search.Value()
	m.refresh()
	return m, cmd
}

func (m RootModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	m.Err = nil
	switch s := key.String(); s {
	case "q":
		m.Quitting = true
		return m, tea.Quit
	case "tab", "right":
		m.Tab = (m.Tab + 1) % numTabs
		return m, nil
	case "shift+tab", "left":
		m.Tab = (m.Tab + numTabs - 1) % numTabs
		return m, nil
	case "1", "2", "3", "4", "5", "6", "7", "8":
		m.Tab = tab(s[0] - '1')
		return m, nil
	case "a":
		return m.openAddForm()
	case "e":
		return m.openEditForm()
	case "d":
		return m.askDelete()
	case "/":
		if m.Tab == tabMembers {
			m.Mode = modeSearch
			cmd := m.Search.Focus()
			return m, cmd
		}
	case "b":
		return m, m.createBackup()
	case "r":
		if m.Tab == tabBackups {
			return m.ask(confirmRestoreBackup, "Restore this backup? Current data will be replaced.")
		}
	case "s":
		if m.Tab == tabBackups {
			if id, ok := m.selectedID(); ok {
				return m, m.saveBackup(id)
			}
		}
	case "D":
		if m.Tab == tabMembers {
			return m, m.loadDemoMembers()
		}
	case "J":
		return m, m.exportJSON()
	case "C":
		return m, m.exportCSV()
	case "W":
		return m.openForm(NewFormModel("Generate Website", formWebsite, 0, websiteFields(m.opts.Store.Company())))
	case "I":
		return m.openForm(NewFormModel("Import Data", formImport, 0, []FieldDef{{Name: "path", Label: "JSON file", Placeholder: "JKWI_Data_Export_2025-01-01.json"}}))
	}

	if t, ok := m.Tables[m.Tab]; ok {
		var cmd tea.Cmd
		*t, cmd = t.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m RootModel) openForm(f FormModel) (tea.Model, tea.Cmd) {
	m.Form = f
	m.Mode = modeForm
	return m, f.Init()
}

func (m RootModel) ask(action confirmAction, prompt string) (tea.Model, tea.Cmd) {
	id, ok := m.selectedID()
	if !ok {
		return m, nil
	}
	m.Confirm = ConfirmModel{Prompt: prompt, Action: action, ID: id}
	m.Mode = modeConfirm
	return m, nil
}

func (m RootModel) askDelete() (tea.Model, tea.Cmd) {
	switch m.Tab {
	case tabDirectors:
		return m.ask(confirmDeleteDirector, "Delete this director?")
	case tabDivisions:
		return m.ask(confirmDeleteDivision, "Delete this division?")
	case tabMembers:
		return m.ask(confirmDeleteMember, "Delete this member?")
	case tabBackups:
		return m.ask(confirmDeleteBackup, "Delete this backup?")
	}
	return m, nil
}

// selectedID parses the first column of the focused table's selected row.
func (m RootModel) selectedID() (store.ID, bool) {
	t, ok := m.Tables[m.Tab]
	if !ok {
		return 0, false
	}
	row := t.SelectedRow()
	if len(row) == 0 {
		return 0, false
	}
	id, err := store.ParseID(row[0])
	if err != nil {
		return 0, false
	}
	return id, true
}

// refresh rebuilds every table from the store.
func (m *RootModel) refresh() {
	s := m.opts.Store
	set := func(t tab, rows []table.Row) {
		tb := m.Tables[t]
		tb.SetRows(rows)
		if tb.Cursor() >= len(rows) {
			tb.SetCursor(max(len(rows)-1, 0))
		}
	}
	set(tabDirectors, directorRows(s.Directors()))
	set(tabDivisions, divisionRows(s.Divisions()))
	set(tabMembers, memberRows(s.SearchMembers(m.Query)))
	set(tabPartnerships, partnershipRows(s.Partnerships()))
	set(tabActivities, activityRows(s.Activities()))
	set(tabBackups, backupRows(s.Backups()))
}

func (m RootModel) View() string {
	if m.Quitting {
		return "Bye!\n"
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("JKWI Information Management System") + "\n\n")
	b.WriteString(m.tabBar() + "\n\n")

	switch m.Mode {
	case modeForm:
		b.WriteString(m.Form.View())
	case modeConfirm:
		b.WriteString(m.Confirm.View())
	default:
		b.WriteString(m.body())
	}

	b.WriteString("\n\n")
	if m.Err != nil {
		b.WriteString(errorMessageStyle(m.Err.Error()) + "\n")
	} else if m.Status != "" {
		b.WriteString(statusMessageStyle(m.Status) + "\n")
	}
	b.WriteString(blurredStyle.Render(m.help()))
	return docStyle.Render(b.String())
}

func (m RootModel) tabBar() string {
	parts := make([]string, numTabs)
	for i, name := range tabNames {
		label := fmt.Sprintf("%d %s", i+1, name)
		if tab(i) == m.Tab {
			parts[i] = activeTabStyle.Render(label)
		} else {
			parts[i] = inactiveTabStyle.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m RootModel) body() string {
	switch m.Tab {
	case tabDashboard:
		return m.dashboardView()
	case tabCompany:
		return m.companyView()
	case tabMembers:
		out := m.Tables[tabMembers].View()
		if m.Mode == modeSearch || m.Query != "" {
			out = m.Search.View() + "\n\n" + out
		}
		return out
	}
	return m.Tables[m.Tab].View()
}

func (m RootModel) dashboardView() string {
	st := m.opts.Store.Stats()
	card := func(label string, n int) string {
		return statCardStyle.Render(fmt.Sprintf("%s\n%d", label, n))
	}
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		card("Members", st.TotalMembers),
		card("Directors", st.TotalDirectors),
		card("Divisions", st.TotalDivisions),
		card("Activities", st.TotalActivities),
	)
	var b strings.Builder
	b.WriteString(cards + "\n\n" + labelStyle.Render("Recent activity") + "\n")
	acts := m.opts.Store.Activities()
	if len(acts) == 0 {
		b.WriteString(blurredStyle.Render("No activity yet"))
	}
	for i, a := range acts {
		if i == 5 {
			break
		}
		b.WriteString(fmt.Sprintf("  %s  %s\n", blurredStyle.Render(a.Timestamp.Local().Format(dateFormat)), a.Description))
	}
	return b.String()
}

func (m RootModel) companyView() string {
	c := m.opts.Store.Company()
	line := func(k, v string) string { return labelStyle.Render(k+": ") + v + "\n" }
	return line("Name", c.Name) +
		line("Trading name", c.TradingName) +
		line("Description", c.Description) +
		line("Last updated", c.LastUpdated.Local().Format(dateFormat))
}

func (m RootModel) help() string {
	switch m.Mode {
	case modeSearch:
		return "type to filter, Enter to keep, Esc to clear"
	case modeForm, modeConfirm:
		return ""
	}
	common := "tab/1-8 switch  b backup  J export JSON  C export CSV  W website  I import  q quit"
	switch m.Tab {
	case tabCompany:
		return "e edit  " + common
	case tabDirectors, tabDivisions:
		return "a add  e edit  d delete  " + common
	case tabMembers:
		return "a add  e edit  d delete  / search  D demo members  " + common
	case tabBackups:
		return "r restore  s save JSON  d delete  " + common
	}
	return common
}
