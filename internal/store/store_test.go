package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubrecon/internal/models"
)

func tempStore(t *testing.T) *EntryStore {
	t.Helper()
	return NewEntryStore(filepath.Join(t.TempDir(), "entries.yaml"), nil)
}

func entry(ref string, status models.Status) models.ReconciledEntry {
	return models.ReconciledEntry{
		Date:        time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC),
		JournalRef:  ref,
		Description: "John Smith",
		NetAmount:   decimal.RequireFromString("95.00"),
		Status:      status,
	}
}

func TestEntryStore_CommitAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entries.yaml")
	s := NewEntryStore(path, nil)

	err := s.Commit([]models.ReconciledEntry{
		entry("AB1234", models.StatusNeedsReview),
		entry("CD5678", models.StatusReconciled),
	})
	require.NoError(t, err)

	// A fresh store over the same file sees the committed entries.
	s2 := NewEntryStore(path, nil)
	all, err := s2.All()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, int64(1), all[0].ID)
	assert.Equal(t, int64(2), all[1].ID)
	assert.Equal(t, "AB1234", all[0].JournalRef)
	assert.False(t, all[0].CreatedAt.IsZero())
}

func TestEntryStore_CommitSkipsExistingRefs(t *testing.T) {
	s := tempStore(t)
	require.NoError(t, s.Commit([]models.ReconciledEntry{entry("AB1234", models.StatusNeedsReview)}))

	// Same ref, different leading zeros once normalized.
	require.NoError(t, s.Commit([]models.ReconciledEntry{
		entry("ab1234", models.StatusNeedsReview),
		entry("0012345", models.StatusNeedsReview),
	}))

	all, err := s.All()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "0012345", all[1].JournalRef)

	refs, err := s.ExistingRefs()
	require.NoError(t, err)
	assert.True(t, refs["AB1234"])
	assert.True(t, refs["12345"])
}

func TestEntryStore_NeedsReviewAndAssign(t *testing.T) {
	s := tempStore(t)
	require.NoError(t, s.Commit([]models.ReconciledEntry{
		entry("AB1234", models.StatusNeedsReview),
		entry("CD5678", models.StatusReconciled),
	}))

	pending, err := s.NeedsReview()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "AB1234", pending[0].JournalRef)

	club := models.Club{ID: 7, Name: "Archery", Active: true}
	require.NoError(t, s.AssignClub(pending[0].ID, club))

	got, err := s.Get(pending[0].ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusReconciled, got.Status)
	assert.Equal(t, "Archery", got.AssignedClub)
	assert.Equal(t, int64(7), got.ClubID)

	pending, err = s.NeedsReview()
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestEntryStore_AssignClubUnknownID(t *testing.T) {
	s := tempStore(t)
	err := s.AssignClub(99, models.Club{ID: 1, Name: "Archery"})
	assert.Error(t, err)
}

func TestEntryStore_SetStatus(t *testing.T) {
	s := tempStore(t)
	require.NoError(t, s.Commit([]models.ReconciledEntry{entry("AB1234", models.StatusNeedsReview)}))

	require.NoError(t, s.SetStatus(1, models.StatusIgnored))
	got, err := s.Get(1)
	require.NoError(t, err)
	assert.Equal(t, models.StatusIgnored, got.Status)
}

func TestEntryStore_Clear(t *testing.T) {
	s := tempStore(t)
	require.NoError(t, s.Commit([]models.ReconciledEntry{entry("AB1234", models.StatusNeedsReview)}))
	require.NoError(t, s.Clear())

	all, err := s.All()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestEntryStore_MissingFileStartsEmpty(t *testing.T) {
	s := NewEntryStore(filepath.Join(t.TempDir(), "nope", "entries.yaml"), nil)
	refs, err := s.ExistingRefs()
	require.NoError(t, err)
	assert.Empty(t, refs)
}

func TestClubStore_Load(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clubs.yaml")
	data := []byte("clubs:\n  - id: 1\n    name: Archery\n    active: true\n  - id: 2\n    name: Climbing Club\n    active: false\n")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cs := NewClubStore(path)
	clubs, err := cs.Load()
	require.NoError(t, err)
	require.Len(t, clubs, 2)
	assert.Equal(t, "Archery", clubs[0].Name)
	assert.True(t, clubs[0].Active)

	club, err := cs.FindByName("climbing club")
	require.NoError(t, err)
	require.NotNil(t, club)
	assert.Equal(t, int64(2), club.ID)

	club, err = cs.FindByName("Rowing")
	require.NoError(t, err)
	assert.Nil(t, club)
}

func TestClubStore_MissingFile(t *testing.T) {
	cs := NewClubStore(filepath.Join(t.TempDir(), "clubs.yaml"))
	clubs, err := cs.Load()
	require.NoError(t, err)
	assert.Nil(t, clubs)
}
