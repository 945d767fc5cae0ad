package ui

import (
	"strconv"

	"jkwi-ims/store"

	"github.com/charmbracelet/bubbles/table"
)

const dateFormat = "2006-01-02 15:04"

func newTable(cols []table.Column) table.Model {
	t := table.New(
		table.WithColumns(cols),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	t.SetStyles(tableStyles())
	return t
}

func newTables() map[tab]*table.Model {
	mk := func(cols ...table.Column) *table.Model {
		t := newTable(cols)
		return &t
	}
	return map[tab]*table.Model{
		tabDirectors: mk(
			table.Column{Title: "ID", Width: 6},
			table.Column{Title: "Name", Width: 22},
			table.Column{Title: "Position", Width: 16},
			table.Column{Title: "Division", Width: 22},
			table.Column{Title: "Email", Width: 26},
			table.Column{Title: "Phone", Width: 14},
		),
		tabDivisions: mk(
			table.Column{Title: "ID", Width: 6},
			table.Column{Title: "Name", Width: 24},
			table.Column{Title: "Description", Width: 44},
			table.Column{Title: "Head", Width: 18},
			table.Column{Title: "Ref", Width: 4},
		),
		tabMembers: mk(
			table.Column{Title: "ID", Width: 6},
			table.Column{Title: "Username", Width: 14},
			table.Column{Title: "Full name", Width: 20},
			table.Column{Title: "Email", Width: 26},
			table.Column{Title: "Division", Width: 20},
			table.Column{Title: "Status", Width: 9},
			table.Column{Title: "Registered", Width: 16},
		),
		tabPartnerships: mk(
			table.Column{Title: "ID", Width: 6},
			table.Column{Title: "Name", Width: 20},
			table.Column{Title: "Description", Width: 66},
			table.Column{Title: "Ref", Width: 4},
		),
		tabActivities: mk(
			table.Column{Title: "When", Width: 16},
			table.Column{Title: "Activity", Width: 80},
		),
		tabBackups: mk(
			table.Column{Title: "ID", Width: 6},
			table.Column{Title: "Name", Width: 36},
			table.Column{Title: "Created", Width: 16},
			table.Column{Title: "Members", Width: 8},
			table.Column{Title: "Directors", Width: 9},
		),
	}
}

func directorRows(ds []store.Director) []table.Row {
	rows := make([]table.Row, 0, len(ds))
	for _, d := range ds {
		rows = append(rows, table.Row{d.ID.String(), d.Name, d.Position, d.Division, d.Email, d.Phone})
	}
	return rows
}

func divisionRows(ds []store.Division) []table.Row {
	rows := make([]table.Row, 0, len(ds))
	for _, d := range ds {
		rows = append(rows, table.Row{d.ID.String(), d.Name, d.Description, d.Head, strconv.Itoa(d.Reference)})
	}
	return rows
}

func memberRows(ms []store.Member) []table.Row {
	rows := make([]table.Row, 0, len(ms))
	for _, m := range ms {
		rows = append(rows, table.Row{m.ID.String(), m.Username, m.FullName, m.Email, m.Division, m.Status, m.RegistrationDate.Local().Format(dateFormat)})
	}
	return rows
}

func partnershipRows(ps []store.Partnership) []table.Row {
	rows := make([]table.Row, 0, len(ps))
	for _, p := range ps {
		rows = append(rows, table.Row{p.ID.String(), p.Name, p.Description, strconv.Itoa(p.Reference)})
	}
	return rows
}

func activityRows(as []store.Activity) []table.Row {
	rows := make([]table.Row, 0, len(as))
	for _, a := range as {
		rows = append(rows, table.Row{a.Timestamp.Local().Format(dateFormat), a.Description})
	}
	return rows
}

func backupRows(bs []store.Backup) []table.Row {
	rows := make([]table.Row, 0, len(bs))
	for _, b := range bs {
		rows = append(rows, table.Row{b.ID.String(), b.Name, b.CreatedAt.Local().Format(dateFormat), strconv.Itoa(len(b.Data.Members)), strconv.Itoa(len(b.Data.Directors))})
	}
	return rows
}
