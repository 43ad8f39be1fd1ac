package store

import (
	"fmt"
	"time"

	"clubrecon/internal/models"
	"clubrecon/internal/parsererror"
)

// MockGateway is an in-memory Gateway for tests.
type MockGateway struct {
	Entries []models.ReconciledEntry

	// Fail, when set, is returned from every operation.
	Fail error

	CommitCalls int
	ClearCalls  int
}

// NewMockGateway creates an empty in-memory gateway.
func NewMockGateway() *MockGateway {
	return &MockGateway{}
}

func (m *MockGateway) ExistingRefs() (map[string]bool, error) {
	if m.Fail != nil {
		return nil, m.Fail
	}
	refs := make(map[string]bool, len(m.Entries))
	for _, e := range m.Entries {
		refs[models.NormalizeRef(e.JournalRef)] = true
	}
	return refs, nil
}

func (m *MockGateway) Commit(entries []models.ReconciledEntry) error {
	m.CommitCalls++
	if m.Fail != nil {
		return m.Fail
	}
	refs, _ := m.ExistingRefs()
	var id int64
	for _, e := range m.Entries {
		if e.ID > id {
			id = e.ID
		}
	}
	for _, e := range entries {
		ref := models.NormalizeRef(e.JournalRef)
		if refs[ref] {
			continue
		}
		refs[ref] = true
		id++
		e.ID = id
		m.Entries = append(m.Entries, e)
	}
	return nil
}

func (m *MockGateway) Get(id int64) (*models.ReconciledEntry, error) {
	if m.Fail != nil {
		return nil, m.Fail
	}
	for i := range m.Entries {
		if m.Entries[i].ID == id {
			e := m.Entries[i]
			return &e, nil
		}
	}
	return nil, &parsererror.PersistenceError{Op: "get", Err: fmt.Errorf("entry %d not found", id)}
}

func (m *MockGateway) NeedsReview() ([]models.ReconciledEntry, error) {
	if m.Fail != nil {
		return nil, m.Fail
	}
	var out []models.ReconciledEntry
	for _, e := range m.Entries {
		if e.Status == models.StatusNeedsReview {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MockGateway) AssignClub(id int64, club models.Club) error {
	if m.Fail != nil {
		return m.Fail
	}
	for i := range m.Entries {
		if m.Entries[i].ID == id {
			m.Entries[i].ClubID = club.ID
			m.Entries[i].AssignedClub = club.Name
			m.Entries[i].Status = models.StatusReconciled
			m.Entries[i].UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return &parsererror.PersistenceError{Op: "assign club", Err: fmt.Errorf("entry %d not found", id)}
}

func (m *MockGateway) SetStatus(id int64, status models.Status) error {
	if m.Fail != nil {
		return m.Fail
	}
	for i := range m.Entries {
		if m.Entries[i].ID == id {
			m.Entries[i].Status = status
			return nil
		}
	}
	return &parsererror.PersistenceError{Op: "set status", Err: fmt.Errorf("entry %d not found", id)}
}

func (m *MockGateway) All() ([]models.ReconciledEntry, error) {
	if m.Fail != nil {
		return nil, m.Fail
	}
	out := make([]models.ReconciledEntry, len(m.Entries))
	copy(out, m.Entries)
	return out, nil
}

func (m *MockGateway) Clear() error {
	m.ClearCalls++
	if m.Fail != nil {
		return m.Fail
	}
	m.Entries = nil
	return nil
}
