package store

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"clubrecon/internal/models"
	"clubrecon/internal/parsererror"
)

type clubsFile struct {
	Clubs []models.Club `yaml:"clubs"`
}

// ClubStore loads club reference data from a YAML file. Clubs are externally
// owned; the store never writes them.
type ClubStore struct {
	path string
}

// NewClubStore creates a club store reading from the given YAML file.
func NewClubStore(path string) *ClubStore {
	return &ClubStore{path: path}
}

// Load returns all clubs from the file. A missing file yields an empty
// slice, since the club universe can also come from the summary workbook.
func (s *ClubStore) Load() ([]models.Club, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &parsererror.PersistenceError{Op: "load clubs", Err: err}
	}

	var f clubsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, &parsererror.PersistenceError{Op: "load clubs", Err: fmt.Errorf("parsing %s: %w", s.path, err)}
	}
	return f.Clubs, nil
}

// FindByName returns the club whose name matches case-insensitively.
func (s *ClubStore) FindByName(name string) (*models.Club, error) {
	clubs, err := s.Load()
	if err != nil {
		return nil, err
	}
	for i := range clubs {
		if strings.EqualFold(clubs[i].Name, name) {
			return &clubs[i], nil
		}
	}
	return nil, nil
}
