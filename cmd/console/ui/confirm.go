package ui

import (
	"jkwi-ims/store"

	tea "github.com/charmbracelet/bubbletea"
)

type confirmAction int

const (
	confirmDeleteDirector confirmAction = iota
	confirmDeleteDivision
	confirmDeleteMember
	confirmRestoreBackup
	confirmDeleteBackup
)

type confirmedMsg struct {
	Action confirmAction
	ID     store.ID
}

type confirmCancelledMsg struct{}

// ConfirmModel is a y/n prompt guarding a destructive action.
type ConfirmModel struct {
	Prompt string
	Action confirmAction
	ID     store.ID
}

func (m ConfirmModel) Update(msg tea.Msg) (ConfirmModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "y", "Y":
		done := confirmedMsg{Action: m.Action, ID: m.ID}
		return m, func() tea.Msg { return done }
	case "n", "N", "esc":
		return m, func() tea.Msg { return confirmCancelledMsg{} }
	}
	return m, nil
}

func (m ConfirmModel) View() string {
	return dialogStyle.Render(m.Prompt + "\n\n" + blurredStyle.Render("y to confirm, n to cancel"))
}
