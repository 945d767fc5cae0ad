package ui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"jkwi-ims/export"
	"jkwi-ims/store"

	tea "github.com/charmbracelet/bubbletea"
)

var errNotFound = errors.New("record no longer exists")

func directorFields(d store.Director) []FieldDef {
	return []FieldDef{
		{Name: "name", Label: "Name", Placeholder: "Full name", Default: d.Name},
		{Name: "position", Label: "Position", Placeholder: "President", Default: d.Position},
		{Name: "division", Label: "Division", Placeholder: "Main Structure", Default: d.Division},
		{Name: "email", Label: "Email", Placeholder: "name@jkwi.com", Default: d.Email},
		{Name: "phone", Label: "Phone", Placeholder: "+1234567890", Default: d.Phone},
	}
}

func divisionFields(d store.Division, withRef bool) []FieldDef {
	f := []FieldDef{
		{Name: "name", Label: "Name", Placeholder: "Energy Division", Default: d.Name},
		{Name: "description", Label: "Description", Default: d.Description},
		{Name: "head", Label: "Head", Placeholder: "optional", Default: d.Head},
	}
	if withRef {
		f = append(f, FieldDef{Name: "reference", Label: "Reference", Default: strconv.Itoa(d.Reference)})
	}
	return f
}

func memberFields(m store.Member) []FieldDef {
	status := m.Status
	if status == "" {
		status = store.StatusActive
	}
	return []FieldDef{
		{Name: "username", Label: "Username", Placeholder: "winner002", Default: m.Username},
		{Name: "fullName", Label: "Full name", Default: m.FullName},
		{Name: "email", Label: "Email", Default: m.Email},
		{Name: "division", Label: "Division", Placeholder: "Finance Division", Default: m.Division},
		{Name: "status", Label: "Status", Placeholder: "Active, Pending or Inactive", Default: status},
	}
}

func companyFields(c store.Company) []FieldDef {
	return []FieldDef{
		{Name: "name", Label: "Name", Default: c.Name},
		{Name: "tradingName", Label: "Trading name", Default: c.TradingName},
		{Name: "description", Label: "Description", Default: c.Description},
	}
}

func websiteFields(c store.Company) []FieldDef {
	return []FieldDef{
		{Name: "title", Label: "Page title", Default: c.Name},
		{Name: "directors", Label: "Include directors (y/n)", Default: "y"},
		{Name: "divisions", Label: "Include divisions (y/n)", Default: "y"},
		{Name: "partnerships", Label: "Include partnerships (y/n)", Default: "y"},
		{Name: "members", Label: "Include members (y/n)", Default: "n"},
	}
}

func (m RootModel) openAddForm() (tea.Model, tea.Cmd) {
	switch m.Tab {
	case tabDirectors:
		return m.openForm(NewFormModel("Add Director", formAddDirector, 0, directorFields(store.Director{})))
	case tabDivisions:
		return m.openForm(NewFormModel("Add Division", formAddDivision, 0, divisionFields(store.Division{}, false)))
	case tabMembers:
		return m.openForm(NewFormModel("Add Member", formAddMember, 0, memberFields(store.Member{})))
	}
	return m, nil
}

func (m RootModel) openEditForm() (tea.Model, tea.Cmd) {
	s := m.opts.Store
	if m.Tab == tabCompany {
		return m.openForm(NewFormModel("Edit Company", formCompany, 0, companyFields(s.Company())))
	}
	id, ok := m.selectedID()
	if !ok {
		return m, nil
	}
	switch m.Tab {
	case tabDirectors:
		for _, d := range s.Directors() {
			if d.ID == id {
				return m.openForm(NewFormModel("Edit Director", formEditDirector, id, directorFields(d)))
			}
		}
	case tabDivisions:
		for _, d := range s.Divisions() {
			if d.ID == id {
				return m.openForm(NewFormModel("Edit Division", formEditDivision, id, divisionFields(d, true)))
			}
		}
	case tabMembers:
		for _, mem := range s.Members() {
			if mem.ID == id {
				return m.openForm(NewFormModel("Edit Member", formEditMember, id, memberFields(mem)))
			}
		}
	}
	return m, nil
}

func ptr(s string) *string { return &s }

// submit turns a filled form into the matching store call.
func (m RootModel) submit(f formSubmittedMsg) tea.Cmd {
	s, ctx, v := m.opts.Store, m.ctx, f.Values
	return func() tea.Msg {
		switch f.Kind {
		case formAddDirector:
			d, err := s.AddDirector(ctx, store.DirectorInput{Name: v["name"], Position: v["position"], Division: v["division"], Email: v["email"], Phone: v["phone"]})
			return resultMsg{Status: "Director added: " + d.Name, Err: err}
		case formEditDirector:
			_, ok, err := s.UpdateDirector(ctx, f.ID, store.DirectorPatch{Name: ptr(v["name"]), Position: ptr(v["position"]), Division: ptr(v["division"]), Email: ptr(v["email"]), Phone: ptr(v["phone"])})
			return updated("Director", ok, err)
		case formAddDivision:
			d, err := s.AddDivision(ctx, store.DivisionInput{Name: v["name"], Description: v["description"], Head: v["head"]})
			return resultMsg{Status: "Division added: " + d.Name, Err: err}
		case formEditDivision:
			ref, err := strconv.Atoi(v["reference"])
			if err != nil {
				return resultMsg{Err: fmt.Errorf("reference must be a number: %w", err)}
			}
			_, ok, err := s.UpdateDivision(ctx, f.ID, store.DivisionPatch{Name: ptr(v["name"]), Description: ptr(v["description"]), Head: ptr(v["head"]), Reference: &ref})
			return updated("Division", ok, err)
		case formAddMember:
			mem, err := s.AddMember(ctx, store.MemberInput{Username: v["username"], FullName: v["fullName"], Email: v["email"], Division: v["division"], Status: v["status"]})
			return resultMsg{Status: "Member added: " + mem.Username, Err: err}
		case formEditMember:
			_, ok, err := s.UpdateMember(ctx, f.ID, store.MemberPatch{Username: ptr(v["username"]), FullName: ptr(v["fullName"]), Email: ptr(v["email"]), Division: ptr(v["division"]), Status: ptr(v["status"])})
			return updated("Member", ok, err)
		case formCompany:
			_, err := s.UpdateCompany(ctx, store.CompanyPatch{Name: ptr(v["name"]), TradingName: ptr(v["tradingName"]), Description: ptr(v["description"])})
			return resultMsg{Status: "Company information updated", Err: err}
		case formWebsite:
			return m.writeWebsite(v)
		case formImport:
			raw, err := os.ReadFile(v["path"])
			if err != nil {
				return resultMsg{Err: err}
			}
			if err := s.ImportJSON(ctx, raw); err != nil {
				return resultMsg{Err: fmt.Errorf("invalid file format: %w", err)}
			}
			return resultMsg{Status: "Data imported successfully"}
		}
		return nil
	}
}

func updated(what string, ok bool, err error) resultMsg {
	if err != nil {
		return resultMsg{Err: err}
	}
	if !ok {
		return resultMsg{Err: fmt.Errorf("%s: %w", strings.ToLower(what), errNotFound)}
	}
	return resultMsg{Status: what + " updated"}
}

func (m RootModel) confirmed(c confirmedMsg) tea.Cmd {
	s, ctx := m.opts.Store, m.ctx
	return func() tea.Msg {
		var (
			ok   bool
			err  error
			done string
		)
		switch c.Action {
		case confirmDeleteDirector:
			ok, err = s.DeleteDirector(ctx, c.ID)
			done = "Director deleted"
		case confirmDeleteDivision:
			ok, err = s.DeleteDivision(ctx, c.ID)
			done = "Division deleted"
		case confirmDeleteMember:
			ok, err = s.DeleteMember(ctx, c.ID)
			done = "Member deleted"
		case confirmRestoreBackup:
			ok, err = s.RestoreBackup(ctx, c.ID)
			done = "Backup restored"
		case confirmDeleteBackup:
			ok, err = s.DeleteBackup(ctx, c.ID)
			done = "Backup deleted"
		}
		if err != nil {
			return resultMsg{Err: err}
		}
		if !ok {
			return resultMsg{Err: errNotFound}
		}
		return resultMsg{Status: done}
	}
}

func (m RootModel) createBackup() tea.Cmd {
	s, ctx := m.opts.Store, m.ctx
	return func() tea.Msg {
		b, err := s.CreateBackup(ctx)
		return resultMsg{Status: "Backup created: " + b.Name, Err: err}
	}
}

func (m RootModel) loadDemoMembers() tea.Cmd {
	s, ctx := m.opts.Store, m.ctx
	return func() tea.Msg {
		n, err := s.LoadDemoMembers(ctx, store.DemoMembers())
		return resultMsg{Status: fmt.Sprintf("Loaded %d demo members", n), Err: err}
	}
}

func (m RootModel) saveBackup(id store.ID) tea.Cmd {
	return func() tea.Msg {
		b, raw, ok, err := m.opts.Store.BackupJSON(id)
		if err != nil {
			return resultMsg{Err: err}
		}
		if !ok {
			return resultMsg{Err: errNotFound}
		}
		return m.write(export.BackupFileName(b), raw)
	}
}

func (m RootModel) exportJSON() tea.Cmd {
	return func() tea.Msg {
		raw, err := m.opts.Store.ExportJSON()
		if err != nil {
			return resultMsg{Err: err}
		}
		return m.write(export.DataFileName(m.opts.Now()), raw)
	}
}

func (m RootModel) exportCSV() tea.Cmd {
	return func() tea.Msg {
		csv := export.MembersCSV(m.opts.Store.Members())
		return m.write(export.MembersFileName(m.opts.Now()), []byte(csv))
	}
}

func (m RootModel) writeWebsite(v map[string]string) resultMsg {
	yes := func(k string) bool { return strings.HasPrefix(strings.ToLower(v[k]), "y") }
	page, err := export.Website(export.WebsiteOptions{
		Title:               v["title"],
		IncludeDirectors:    yes("directors"),
		IncludeDivisions:    yes("divisions"),
		IncludePartnerships: yes("partnerships"),
		IncludeMembers:      yes("members"),
	}, m.opts.Store.Snapshot())
	if err != nil {
		return resultMsg{Err: err}
	}
	return m.write(export.WebsiteFileName(m.opts.Now()), page)
}

func (m RootModel) write(name string, b []byte) resultMsg {
	if err := os.MkdirAll(m.opts.ExportDir, 0o755); err != nil {
		return resultMsg{Err: err}
	}
	path := filepath.Join(m.opts.ExportDir, name)
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return resultMsg{Err: err}
	}
	m.opts.Log.Info().Str("file", path).Int("bytes", len(b)).Msg("exported")
	return resultMsg{Status: "Saved " + path}
}
