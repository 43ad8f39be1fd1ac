package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"clubrecon/internal/logging"
	"clubrecon/internal/models"
	"clubrecon/internal/parsererror"
)

// entriesFile is the on-disk YAML layout. A top-level key keeps room for
// future metadata without breaking existing files.
type entriesFile struct {
	Entries []models.ReconciledEntry `yaml:"entries"`
}

// EntryStore is a YAML-backed Gateway implementation. It loads the whole
// file into memory on first use; the entry counts involved are small.
type EntryStore struct {
	path   string
	logger logging.Logger

	loaded  bool
	entries []models.ReconciledEntry
}

// NewEntryStore creates a store persisting to the given YAML file. The file
// does not need to exist yet.
func NewEntryStore(path string, logger logging.Logger) *EntryStore {
	if logger == nil {
		logger = logging.NewMockLogger()
	}
	return &EntryStore{path: path, logger: logger}
}

func (s *EntryStore) load() error {
	if s.loaded {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Debug("entry store file not found, starting empty",
				logging.F(logging.FieldFile, s.path))
			s.entries = nil
			s.loaded = true
			return nil
		}
		return &parsererror.PersistenceError{Op: "load", Err: err}
	}

	var f entriesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return &parsererror.PersistenceError{Op: "load", Err: fmt.Errorf("parsing %s: %w", s.path, err)}
	}

	s.entries = f.Entries
	s.loaded = true
	s.logger.Debug("loaded entry store",
		logging.F(logging.FieldFile, s.path),
		logging.F(logging.FieldCount, len(s.entries)))
	return nil
}

// save writes the store atomically: marshal to a temp file in the same
// directory, then rename over the target.
func (s *EntryStore) save() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &parsererror.PersistenceError{Op: "save", Err: err}
	}

	data, err := yaml.Marshal(entriesFile{Entries: s.entries})
	if err != nil {
		return &parsererror.PersistenceError{Op: "save", Err: err}
	}

	tmp, err := os.CreateTemp(dir, ".entries-*.yaml")
	if err != nil {
		return &parsererror.PersistenceError{Op: "save", Err: err}
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &parsererror.PersistenceError{Op: "save", Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &parsererror.PersistenceError{Op: "save", Err: err}
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return &parsererror.PersistenceError{Op: "save", Err: err}
	}
	return nil
}

func (s *EntryStore) nextID() int64 {
	var max int64
	for _, e := range s.entries {
		if e.ID > max {
			max = e.ID
		}
	}
	return max + 1
}

// ExistingRefs returns the normalized journal references of all persisted
// entries.
func (s *EntryStore) ExistingRefs() (map[string]bool, error) {
	if err := s.load(); err != nil {
		return nil, err
	}
	refs := make(map[string]bool, len(s.entries))
	for _, e := range s.entries {
		refs[models.NormalizeRef(e.JournalRef)] = true
	}
	return refs, nil
}

// Commit appends new entries, assigning ids and timestamps. Entries whose
// normalized journal reference is already persisted are skipped.
func (s *EntryStore) Commit(entries []models.ReconciledEntry) error {
	if err := s.load(); err != nil {
		return err
	}

	refs := make(map[string]bool, len(s.entries))
	for _, e := range s.entries {
		refs[models.NormalizeRef(e.JournalRef)] = true
	}

	now := time.Now().UTC()
	id := s.nextID()
	added := 0
	for _, e := range entries {
		ref := models.NormalizeRef(e.JournalRef)
		if refs[ref] {
			s.logger.Debug("skipping already persisted entry",
				logging.F(logging.FieldJournalRef, e.JournalRef))
			continue
		}
		refs[ref] = true
		e.ID = id
		id++
		if e.CreatedAt.IsZero() {
			e.CreatedAt = now
		}
		e.UpdatedAt = now
		s.entries = append(s.entries, e)
		added++
	}

	if added == 0 {
		return nil
	}
	if err := s.save(); err != nil {
		return err
	}
	s.logger.Info("committed entries",
		logging.F(logging.FieldFile, s.path),
		logging.F(logging.FieldCount, added))
	return nil
}

// Get returns the entry with the given id.
func (s *EntryStore) Get(id int64) (*models.ReconciledEntry, error) {
	if err := s.load(); err != nil {
		return nil, err
	}
	for i := range s.entries {
		if s.entries[i].ID == id {
			e := s.entries[i]
			return &e, nil
		}
	}
	return nil, &parsererror.PersistenceError{
		Op:  "get",
		Err: fmt.Errorf("entry %d not found", id),
	}
}

// NeedsReview returns all entries still awaiting club assignment.
func (s *EntryStore) NeedsReview() ([]models.ReconciledEntry, error) {
	if err := s.load(); err != nil {
		return nil, err
	}
	var out []models.ReconciledEntry
	for _, e := range s.entries {
		if e.Status == models.StatusNeedsReview {
			out = append(out, e)
		}
	}
	return out, nil
}

// AssignClub marks the entry as reconciled against the given club.
func (s *EntryStore) AssignClub(id int64, club models.Club) error {
	if err := s.load(); err != nil {
		return err
	}
	for i := range s.entries {
		if s.entries[i].ID != id {
			continue
		}
		s.entries[i].ClubID = club.ID
		s.entries[i].AssignedClub = club.Name
		s.entries[i].Status = models.StatusReconciled
		s.entries[i].UpdatedAt = time.Now().UTC()
		return s.save()
	}
	return &parsererror.PersistenceError{
		Op:  "assign club",
		Err: fmt.Errorf("entry %d not found", id),
	}
}

// SetStatus updates an entry's review status.
func (s *EntryStore) SetStatus(id int64, status models.Status) error {
	if err := s.load(); err != nil {
		return err
	}
	for i := range s.entries {
		if s.entries[i].ID != id {
			continue
		}
		s.entries[i].Status = status
		s.entries[i].UpdatedAt = time.Now().UTC()
		return s.save()
	}
	return &parsererror.PersistenceError{
		Op:  "set status",
		Err: fmt.Errorf("entry %d not found", id),
	}
}

// All returns a copy of every persisted entry.
func (s *EntryStore) All() ([]models.ReconciledEntry, error) {
	if err := s.load(); err != nil {
		return nil, err
	}
	out := make([]models.ReconciledEntry, len(s.entries))
	copy(out, s.entries)
	return out, nil
}

// Clear removes every persisted entry.
func (s *EntryStore) Clear() error {
	if err := s.load(); err != nil {
		return err
	}
	s.entries = nil
	return s.save()
}
