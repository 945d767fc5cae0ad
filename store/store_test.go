package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"jkwi-ims/store/blob"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingBlobs struct {
	blob.Store
	puts int
	fail error
	// failKey limits fail to one key; empty fails every Put.
	failKey string
}

func (c *countingBlobs) Put(ctx context.Context, key string, value []byte) error {
	c.puts++
	if c.fail != nil && (c.failKey == "" || c.failKey == key) {
		return c.fail
	}
	return c.Store.Put(ctx, key, value)
}

func fixedClock() func() time.Time {
	t := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func newTestStore(t *testing.T) (*Store, *countingBlobs) {
	t.Helper()
	blobs := &countingBlobs{Store: blob.NewMemory()}
	s, err := Open(context.Background(), blobs, WithClock(fixedClock()))
	require.NoError(t, err)
	return s, blobs
}

func TestDefaultsWhenNothingPersisted(t *testing.T) {
	s, blobs := newTestStore(t)
	assert.Equal(t, "JK Winners Investment", s.Company().Name)
	assert.Len(t, s.Directors(), 1)
	assert.Len(t, s.Divisions(), 8)
	assert.Len(t, s.Partnerships(), 4)
	assert.Len(t, s.Members(), 1)
	assert.Empty(t, s.Activities())
	assert.Zero(t, blobs.puts)
}

func TestAddMember(t *testing.T) {
	s, blobs := newTestStore(t)
	ctx := context.Background()
	before := s.Stats().TotalMembers

	m, err := s.AddMember(ctx, MemberInput{Username: "winner002", FullName: "A B", Email: "a@b.c", Division: "Mining Division", Status: StatusActive})
	require.NoError(t, err)

	assert.NotZero(t, m.ID)
	assert.Equal(t, before+1, s.Stats().TotalMembers)
	acts := s.Activities()
	require.NotEmpty(t, acts)
	assert.Equal(t, "New member added: winner002", acts[0].Description)
	assert.Equal(t, 1, blobs.puts)

	raw, err := blobs.Get(ctx, DataKey)
	require.NoError(t, err)
	var persisted Data
	require.NoError(t, json.Unmarshal(raw, &persisted))
	assert.Equal(t, s.Snapshot(), persisted)
}

func TestAddAssignsDistinctIDs(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	seen := map[ID]bool{}
	for _, m := range s.Members() {
		seen[m.ID] = true
	}
	for i := 0; i < 5; i++ {
		m, err := s.AddMember(ctx, MemberInput{Username: fmt.Sprintf("u%d", i)})
		require.NoError(t, err)
		assert.False(t, seen[m.ID], "duplicate id %d", m.ID)
		seen[m.ID] = true
	}
}

func TestUpdateUnknownIDDoesNotPersist(t *testing.T) {
	s, blobs := newTestStore(t)
	name := "nobody"
	_, ok, err := s.UpdateDirector(context.Background(), 999, DirectorPatch{Name: &name})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, blobs.puts)
	assert.Empty(t, s.Activities())
}

func TestUpdateMergesPatch(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	d, err := s.AddDivision(ctx, DivisionInput{Name: "Energy Division", Description: "Power"})
	require.NoError(t, err)
	assert.Equal(t, divisionReference, d.Reference)

	head := "Alice"
	got, ok, err := s.UpdateDivision(ctx, d.ID, DivisionPatch{Head: &head})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Energy Division", got.Name)
	assert.Equal(t, "Power", got.Description)
	assert.Equal(t, "Alice", got.Head)
}

func TestDeleteTwice(t *testing.T) {
	s, blobs := newTestStore(t)
	ctx := context.Background()
	d := s.Directors()[0]

	ok, err := s.DeleteDirector(ctx, d.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, s.Directors())
	puts := blobs.puts

	ok, err = s.DeleteDirector(ctx, d.ID)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, puts, blobs.puts)
}

func TestActivityLogCapped(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	for i := 0; i < 60; i++ {
		_, err := s.AddMember(ctx, MemberInput{Username: fmt.Sprintf("m%02d", i)})
		require.NoError(t, err)
	}
	acts := s.Activities()
	require.Len(t, acts, maxActivities)
	assert.Equal(t, "New member added: m59", acts[0].Description)
	assert.Equal(t, "New member added: m10", acts[len(acts)-1].Description)
}

func TestBackupRestoreRoundTrip(t *testing.T) {
	s, blobs := newTestStore(t)
	ctx := context.Background()
	_, err := s.AddMember(ctx, MemberInput{Username: "before"})
	require.NoError(t, err)
	want := s.Snapshot()

	b, err := s.CreateBackup(ctx)
	require.NoError(t, err)
	assert.Regexp(t, `^Backup_2025-03-14_\d+$`, b.Name)
	assert.Equal(t, "Backup created: "+b.Name, s.Activities()[0].Description)

	_, err = s.AddMember(ctx, MemberInput{Username: "after"})
	require.NoError(t, err)
	_, err = s.DeleteDirector(ctx, s.Directors()[0].ID)
	require.NoError(t, err)

	ok, err := s.RestoreBackup(ctx, b.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, s.Snapshot())
	assert.Len(t, s.Backups(), 1)

	raw, err := blobs.Get(ctx, BackupsKey)
	require.NoError(t, err)
	var backups []Backup
	require.NoError(t, json.Unmarshal(raw, &backups))
	require.Len(t, backups, 1)
	assert.Equal(t, b.Name, backups[0].Name)
}

func TestRestoreUnknownBackup(t *testing.T) {
	s, blobs := newTestStore(t)
	ok, err := s.RestoreBackup(context.Background(), 42)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, blobs.puts)
}

func TestIDsStayUniqueAfterRestore(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	b, err := s.CreateBackup(ctx)
	require.NoError(t, err)
	added, err := s.AddMember(ctx, MemberInput{Username: "later"})
	require.NoError(t, err)

	_, err = s.RestoreBackup(ctx, b.ID)
	require.NoError(t, err)
	again, err := s.AddMember(ctx, MemberInput{Username: "again"})
	require.NoError(t, err)
	assert.Greater(t, again.ID, added.ID)
}

func TestBackupJSONAndDelete(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	b, err := s.CreateBackup(ctx)
	require.NoError(t, err)

	_, raw, ok, err := s.BackupJSON(b.ID)
	require.NoError(t, err)
	require.True(t, ok)
	var d Data
	require.NoError(t, json.Unmarshal(raw, &d))
	assert.Equal(t, "JKWI", d.Company.TradingName)

	ok, err = s.DeleteBackup(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, s.Backups())
}

func TestLoadMergesTopLevelKeys(t *testing.T) {
	ctx := context.Background()
	blobs := blob.NewMemory()
	require.NoError(t, blobs.Put(ctx, DataKey, []byte(`{"members":[],"company":{"name":"Other"}}`)))

	s, err := Open(ctx, blobs, WithClock(fixedClock()))
	require.NoError(t, err)
	assert.Empty(t, s.Members())
	assert.NotNil(t, s.Members())
	assert.Equal(t, "Other", s.Company().Name)
	assert.Empty(t, s.Company().TradingName)
	assert.Len(t, s.Divisions(), 8)
}

func TestLoadRejectsCorruptBlob(t *testing.T) {
	ctx := context.Background()
	blobs := blob.NewMemory()
	require.NoError(t, blobs.Put(ctx, DataKey, []byte(`{not json`)))
	_, err := Open(ctx, blobs)
	assert.Error(t, err)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	blobs := blob.NewMemory()
	s, err := Open(ctx, blobs, WithClock(fixedClock()))
	require.NoError(t, err)
	_, err = s.AddDirector(ctx, DirectorInput{Name: "Mary", Position: "VP"})
	require.NoError(t, err)
	_, err = s.CreateBackup(ctx)
	require.NoError(t, err)

	reloaded, err := Open(ctx, blobs)
	require.NoError(t, err)
	assert.Equal(t, s.Snapshot(), reloaded.Snapshot())
	assert.Len(t, reloaded.Backups(), 1)
}

func TestImportExport(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	raw, err := s.ExportJSON()
	require.NoError(t, err)
	assert.Contains(t, string(raw), "\n  \"company\"")

	require.NoError(t, s.ImportJSON(ctx, []byte(`{"directors":[]}`)))
	assert.Empty(t, s.Directors())
	assert.Len(t, s.Members(), 1)
	assert.Equal(t, "Data imported successfully", s.Activities()[0].Description)

	before := s.Snapshot()
	assert.Error(t, s.ImportJSON(ctx, []byte(`[1,2`)))
	assert.Equal(t, before, s.Snapshot())
}

func TestPersistFailureKeepsMutation(t *testing.T) {
	s, blobs := newTestStore(t)
	blobs.fail = errors.New("disk full")
	_, err := s.AddMember(context.Background(), MemberInput{Username: "x"})
	require.Error(t, err)
	assert.Len(t, s.Members(), 2)
}

func TestBackupSurvivesDataWriteFailure(t *testing.T) {
	s, blobs := newTestStore(t)
	ctx := context.Background()
	blobs.fail, blobs.failKey = errors.New("disk full"), DataKey

	b, err := s.CreateBackup(ctx)
	require.Error(t, err)
	require.Len(t, s.Backups(), 1)

	reloaded, err := Open(ctx, blobs.Store)
	require.NoError(t, err)
	require.Len(t, reloaded.Backups(), 1)
	assert.Equal(t, b.Name, reloaded.Backups()[0].Name)
}

func TestLoadAcceptsStringIDs(t *testing.T) {
	ctx := context.Background()
	blobs := blob.NewMemory()
	require.NoError(t, blobs.Put(ctx, DataKey, []byte(`{"directors":[{"id":"1700000000000","name":"Mary"}],"members":[{"id":3,"username":"n"}]}`)))
	require.NoError(t, blobs.Put(ctx, BackupsKey, []byte(`[{"id":"12","name":"Backup_old","data":{}}]`)))

	s, err := Open(ctx, blobs, WithClock(fixedClock()))
	require.NoError(t, err)
	require.Len(t, s.Directors(), 1)
	assert.Equal(t, ID(1700000000000), s.Directors()[0].ID)
	assert.Equal(t, ID(3), s.Members()[0].ID)
	assert.Equal(t, ID(12), s.Backups()[0].ID)

	m, err := s.AddMember(ctx, MemberInput{Username: "next"})
	require.NoError(t, err)
	assert.Greater(t, m.ID, ID(1700000000000))

	raw, err := blobs.Get(ctx, DataKey)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"id":1700000000000`)
}

func TestImportAcceptsStringIDs(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.ImportJSON(ctx, []byte(`{"members":[{"id":"7","username":"seven"},{"id":" 8 ","username":"eight"}]}`)))
	members := s.Members()
	require.Len(t, members, 2)
	assert.Equal(t, ID(7), members[0].ID)
	assert.Equal(t, ID(8), members[1].ID)

	ok, err := s.DeleteMember(ctx, 7)
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Error(t, s.ImportJSON(ctx, []byte(`{"members":[{"id":"seven"}]}`)))
	assert.Len(t, s.Members(), 1)
}

func TestLoadDemoMembers(t *testing.T) {
	s, blobs := newTestStore(t)
	ctx := context.Background()
	demo := DemoMembers()
	require.Len(t, demo, 13)
	assert.Equal(t, "demo_ec101", demo[0].Username)

	n, err := s.LoadDemoMembers(ctx, demo)
	require.NoError(t, err)
	assert.Equal(t, 13, n)
	assert.Len(t, s.Members(), 14)
	assert.Equal(t, "Loaded 13 demo members", s.Activities()[0].Description)
	assert.Equal(t, 1, blobs.puts)

	n, err = s.LoadDemoMembers(ctx, demo)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Len(t, s.Members(), 14)
	assert.Equal(t, 1, blobs.puts)
}

func TestSearchMembers(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.AddMember(context.Background(), MemberInput{Username: "rover", FullName: "Bob Stone", Email: "bob@x.io"})
	require.NoError(t, err)

	assert.Len(t, s.SearchMembers(""), 2)
	got := s.SearchMembers("STONE")
	require.Len(t, got, 1)
	assert.Equal(t, "rover", got[0].Username)
	assert.Len(t, s.SearchMembers("jkwi.com"), 1)
	assert.Empty(t, s.SearchMembers("zzz"))
}

func TestUpdateCompany(t *testing.T) {
	s, _ := newTestStore(t)
	name := "JKWI Holdings"
	before := s.Company().LastUpdated
	c, err := s.UpdateCompany(context.Background(), CompanyPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, c.Name)
	assert.Equal(t, "JKWI", c.TradingName)
	assert.True(t, c.LastUpdated.After(before))
	assert.Equal(t, "Company information updated", s.Activities()[0].Description)
}

func TestParseID(t *testing.T) {
	id, err := ParseID(" 17 ")
	require.NoError(t, err)
	assert.Equal(t, ID(17), id)
	_, err = ParseID("abc")
	assert.Error(t, err)
}
