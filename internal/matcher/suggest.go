package matcher

import (
	"github.com/schollz/closestmatch"

	"clubrecon/internal/textutils"
)

// Suggester produces best-effort club suggestions for the review workflow.
// Suggestions are advisory only; actual resolution stays with the Strategy.
type Suggester struct {
	cm       *closestmatch.ClosestMatch
	original map[string]string // normalized -> original casing
}

// NewSuggester indexes the club names for fuzzy lookup.
func NewSuggester(clubNames []string) *Suggester {
	original := make(map[string]string, len(clubNames))
	keys := make([]string, 0, len(clubNames))
	for _, name := range clubNames {
		norm := textutils.NormalizeForMatching(name)
		if norm == "" {
			continue
		}
		if _, seen := original[norm]; !seen {
			original[norm] = name
			keys = append(keys, norm)
		}
	}
	return &Suggester{
		cm:       closestmatch.New(keys, []int{3, 4}),
		original: original,
	}
}

// Suggest returns up to n club names closest to the designation text, best
// first. Empty text yields no suggestions.
func (s *Suggester) Suggest(designation string, n int) []string {
	norm := textutils.NormalizeForMatching(designation)
	if norm == "" || len(s.original) == 0 {
		return nil
	}
	var out []string
	for _, key := range s.cm.ClosestN(norm, n) {
		if name, ok := s.original[key]; ok {
			out = append(out, name)
		}
	}
	return out
}
