package ui

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"jkwi-ims/store"
	"jkwi-ims/store/blob"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)

func newModel(t *testing.T) (RootModel, *store.Store, string) {
	t.Helper()
	s, err := store.Open(context.Background(), blob.NewMemory())
	require.NoError(t, err)
	dir := t.TempDir()
	m := NewRootModel(context.Background(), Options{Store: s, ExportDir: dir, Now: func() time.Time { return fixedNow }})
	return m, s, dir
}

// send feeds msg to the model and follows the commands it returns as long
// as they produce this package's own messages.
func send(t *testing.T, m RootModel, msg tea.Msg) RootModel {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(RootModel)
	for cmd != nil {
		switch out := run(cmd).(type) {
		case resultMsg, formSubmittedMsg, formCancelledMsg, confirmedMsg, confirmCancelledMsg:
			next, cmd = m.Update(out)
			m = next.(RootModel)
		default:
			cmd = nil
		}
	}
	return m
}

func run(cmd tea.Cmd) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(100 * time.Millisecond):
		return nil
	}
}

func keys(t *testing.T, m RootModel, ks ...string) RootModel {
	t.Helper()
	for _, k := range ks {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m = send(t, m, msg)
	}
	return m
}

func TestAddMemberThroughForm(t *testing.T) {
	m, s, _ := newModel(t)
	m = keys(t, m, "5", "a")
	require.Equal(t, modeForm, m.Mode)

	m = keys(t, m, "winner002", "enter", "Ann Lee", "enter", "ann@jkwi.com", "enter", "enter", "enter")
	assert.Equal(t, modeBrowse, m.Mode)
	require.NoError(t, m.Err)
	assert.Equal(t, "Member added: winner002", m.Status)

	members := s.Members()
	require.Len(t, members, 2)
	assert.Equal(t, "Ann Lee", members[1].FullName)
	assert.Equal(t, store.StatusActive, members[1].Status)
	assert.Len(t, m.Tables[tabMembers].Rows(), 2)
}

func TestFormCancel(t *testing.T) {
	m, s, _ := newModel(t)
	m = keys(t, m, "3", "a", "Someone", "esc")
	assert.Equal(t, modeBrowse, m.Mode)
	assert.Len(t, s.Directors(), 1)
}

func TestEditCompany(t *testing.T) {
	m, s, _ := newModel(t)
	m = keys(t, m, "2", "e", " Group", "enter", "enter", "enter")
	require.NoError(t, m.Err)
	assert.Equal(t, "JK Winners Investment Group", s.Company().Name)
}

func TestDeleteAsksFirst(t *testing.T) {
	m, s, _ := newModel(t)
	m = keys(t, m, "3", "d")
	require.Equal(t, modeConfirm, m.Mode)
	m = keys(t, m, "n")
	assert.Len(t, s.Directors(), 1)

	m = keys(t, m, "d", "y")
	assert.Empty(t, s.Directors())
	assert.Equal(t, "Director deleted", m.Status)
	assert.Empty(t, m.Tables[tabDirectors].Rows())
}

func TestBackupAndRestore(t *testing.T) {
	m, s, _ := newModel(t)
	m = keys(t, m, "b")
	require.NoError(t, m.Err)
	require.Len(t, s.Backups(), 1)

	_, err := s.AddMember(context.Background(), store.MemberInput{Username: "late"})
	require.NoError(t, err)
	require.Len(t, s.Members(), 2)

	m = keys(t, m, "8", "r", "y")
	require.NoError(t, m.Err)
	assert.Equal(t, "Backup restored", m.Status)
	assert.Len(t, s.Members(), 1)
}

func TestExports(t *testing.T) {
	m, _, dir := newModel(t)
	m = keys(t, m, "J", "C")
	require.NoError(t, m.Err)

	_, err := os.Stat(filepath.Join(dir, "JKWI_Data_Export_2025-04-01.json"))
	assert.NoError(t, err)
	csv, err := os.ReadFile(filepath.Join(dir, "JKWI_Members_2025-04-01.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(csv), `"winner001"`)

	m = keys(t, m, "W", "enter", "enter", "enter", "enter", "enter")
	require.NoError(t, m.Err)
	page, err := os.ReadFile(filepath.Join(dir, "JKWI_Website_2025-04-01.html"))
	require.NoError(t, err)
	assert.Contains(t, string(page), "Mining Division")
}

func TestImportThroughForm(t *testing.T) {
	m, s, dir := newModel(t)
	path := filepath.Join(dir, "in.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"members":[]}`), 0o644))

	m = keys(t, m, "I", path, "enter")
	require.NoError(t, m.Err)
	assert.Empty(t, s.Members())

	require.NoError(t, os.WriteFile(path, []byte(`nope`), 0o644))
	m = keys(t, m, "I", path, "enter")
	assert.Error(t, m.Err)
}

func TestSearchMembers(t *testing.T) {
	m, s, _ := newModel(t)
	_, err := s.AddMember(context.Background(), store.MemberInput{Username: "rover", FullName: "Bob Stone"})
	require.NoError(t, err)
	m = keys(t, m, "5")
	m.refresh()
	require.Len(t, m.Tables[tabMembers].Rows(), 2)

	m = keys(t, m, "/", "stone", "enter")
	assert.Equal(t, modeBrowse, m.Mode)
	assert.Equal(t, "stone", m.Query)
	assert.Len(t, m.Tables[tabMembers].Rows(), 1)
}

func TestLoadDemoMembersKey(t *testing.T) {
	m, s, _ := newModel(t)
	m = keys(t, m, "D")
	assert.Len(t, s.Members(), 1)

	m = keys(t, m, "5", "D")
	require.NoError(t, m.Err)
	assert.Equal(t, "Loaded 13 demo members", m.Status)
	assert.Len(t, m.Tables[tabMembers].Rows(), 14)
}
